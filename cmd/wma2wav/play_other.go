//go:build !linux
// +build !linux

/*
NAME
  play_other.go

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
	"errors"

	"github.com/ausocean/utils/logging"

	"github.com/ausocean/wma/sink"
)

// openPlaySink is unavailable outside linux; -play logs a warning and the
// wav output proceeds unaffected.
func openPlaySink(log logging.Logger, channels, sampleRate int) (sink.Sink, error) {
	return nil, errors.New("-play is only supported on linux")
}
