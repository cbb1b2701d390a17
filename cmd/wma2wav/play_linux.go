//go:build linux
// +build linux

/*
NAME
  play_linux.go

AUTHORS
  Saxon Nelson-Milton <saxon@ausocean.org>, The Australian Ocean Laboratory (AusOcean)

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package main

import (
	"github.com/ausocean/utils/logging"

	"github.com/ausocean/wma/sink"
	"github.com/ausocean/wma/sink/alsa"
)

// openPlaySink opens the default ALSA playback device for -play.
func openPlaySink(log logging.Logger, channels, sampleRate int) (sink.Sink, error) {
	return alsa.Open(log, channels, sampleRate)
}
