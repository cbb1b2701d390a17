/*
NAME
  sink.go

DESCRIPTION
  sink.go defines the output interface the pipeline driver writes decoded
  PCM frames to. §C.4's supplemented live-playback feature and the
  required WAV output (§6) are both Sinks, selected by the CLI.

AUTHORS
  Saxon Nelson-Milton <saxon@ausocean.org>, The Australian Ocean Laboratory (AusOcean)

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package sink provides destinations for decoded PCM audio.
package sink

// Sink accepts interleaved signed 16-bit PCM frames, as produced by
// wma.Decoder.DecodeSuperframe, in playback order.
type Sink interface {
	// WriteFrame writes one interleaved PCM frame to the sink.
	WriteFrame(pcm []int16) error

	// Close flushes and releases any resources held by the sink.
	Close() error
}
