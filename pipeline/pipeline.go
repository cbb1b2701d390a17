/*
NAME
  pipeline.go

DESCRIPTION
  pipeline.go drives one ASF->WMA->PCM pass end to end: pull a compressed
  frame from a container/asf.Demuxer, decode it with a wma.Decoder, and
  hand the resulting PCM to a sink.Sink. Modeled on revid/pipeline.go's
  pull loop, but single-threaded and synchronous per §5 (there is no
  goroutine fan-out here: revid's version exists to juggle many concurrent
  inputs/encoders/senders, which this pipeline has exactly one of each).

AUTHORS
  Saxon Nelson-Milton <saxon@ausocean.org>, The Australian Ocean Laboratory (AusOcean)

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package pipeline drives a demuxer, decoder and sink together.
package pipeline

import (
	"fmt"
	"io"

	"github.com/ausocean/utils/logging"
)

// Stats accumulates per-run counters a caller can report after Run
// returns, e.g. as exit-code/log detail in a CLI driver.
type Stats struct {
	FramesDecoded int
	CorruptBlocks int
}

// Demuxer is the subset of *container/asf.Demuxer the pipeline needs,
// declared locally so the pipeline can be driven against a fake in tests
// without constructing a real ASF byte stream.
type Demuxer interface {
	ReadPacket() ([]byte, error)
}

// Decoder is the subset of *wma.Decoder the pipeline needs.
type Decoder interface {
	DecodeSuperframe(data []byte) (pcm []int16, corruptBlocks int)
}

// Sink is the subset of sink.Sink the pipeline needs, declared locally so
// this package doesn't import sink (which would create a needless
// back-and-forth import for callers that only want the Driver).
type Sink interface {
	WriteFrame(pcm []int16) error
}

// Driver pulls compressed audio frames from a Demuxer, decodes them with
// a Decoder, and writes the resulting PCM to a Sink, per §4.6.
type Driver struct {
	log logging.Logger
	dmx Demuxer
	dec Decoder
	snk Sink
}

// New builds a Driver. dmx must already be Open'd; dec must already be
// constructed for dmx's audio stream's codec/format.
func New(log logging.Logger, dmx Demuxer, dec Decoder, snk Sink) *Driver {
	return &Driver{log: log, dmx: dmx, dec: dec, snk: snk}
}

// Run decodes the entire stream, one ASF payload at a time, stopping at
// io.EOF. Per-frame decode errors never abort the run (§7: "converts
// every per-block failure into silence and logs"); only an I/O error
// reading the next packet, or a sink write failure, does.
func (p *Driver) Run() (Stats, error) {
	var stats Stats
	for {
		frame, err := p.dmx.ReadPacket()
		if err == io.EOF {
			return stats, nil
		}
		if err != nil {
			return stats, fmt.Errorf("pipeline: reading packet: %w", err)
		}

		pcm, corrupt := p.dec.DecodeSuperframe(frame)
		stats.FramesDecoded++
		stats.CorruptBlocks += corrupt
		if corrupt > 0 {
			p.log.Warning("pipeline: corrupt blocks in frame", "count", corrupt)
		}
		if len(pcm) == 0 {
			continue
		}

		if err := p.snk.WriteFrame(pcm); err != nil {
			return stats, fmt.Errorf("pipeline: writing frame: %w", err)
		}
	}
}
