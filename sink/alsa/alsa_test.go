/*
DESCRIPTION
  alsa_test.go exercises Sink against a real ALSA playback device where
  one is available, skipping otherwise since not every test environment
  has a sound card (device/alsa/alsa_test.go takes the same approach).

AUTHORS
  Saxon Nelson-Milton <saxon@ausocean.org>, The Australian Ocean Laboratory (AusOcean)

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

//go:build linux
// +build linux

package alsa

import (
	"bytes"
	"testing"

	"github.com/ausocean/utils/logging"
)

func TestOpenWriteClose(t *testing.T) {
	l := logging.New(logging.Debug, &bytes.Buffer{}, true)
	s, err := Open(l, 1, 8000)
	if err != nil {
		t.Skipf("no playback device available: %v", err)
	}
	defer s.Close()

	silence := make([]int16, 256)
	if err := s.WriteFrame(silence); err != nil {
		t.Fatalf("WriteFrame: %v", err)
	}
}
