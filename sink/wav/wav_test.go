/*
DESCRIPTION
  wav_test.go checks that files produced by Writer round-trip through an
  independent decoder (go-audio/wav), so the 44-byte header invariants are
  validated against code this package didn't write.

AUTHORS
  Saxon Nelson-Milton <saxon@ausocean.org>, The Australian Ocean Laboratory (AusOcean)

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package wav

import (
	"os"
	"testing"

	gowav "github.com/go-audio/wav"
)

func TestWriterRoundTripsThroughIndependentDecoder(t *testing.T) {
	f, err := os.CreateTemp(t.TempDir(), "sink-*.wav")
	if err != nil {
		t.Fatalf("CreateTemp: %v", err)
	}
	defer f.Close()

	w, err := NewWriter(f, Metadata{Channels: 2, SampleRate: 44100, BitDepth: 16})
	if err != nil {
		t.Fatalf("NewWriter: %v", err)
	}
	frames := [][]int16{
		{1, -1, 2, -2},
		{100, -100, 200, -200, 300, -300},
	}
	for _, fr := range frames {
		if err := w.WriteFrame(fr); err != nil {
			t.Fatalf("WriteFrame: %v", err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	if _, err := f.Seek(0, 0); err != nil {
		t.Fatalf("Seek: %v", err)
	}
	dec := gowav.NewDecoder(f)
	if !dec.IsValidFile() {
		t.Fatalf("go-audio/wav rejected the file as invalid")
	}
	buf, err := dec.FullPCMBuffer()
	if err != nil {
		t.Fatalf("FullPCMBuffer: %v", err)
	}
	if dec.NumChans != 2 {
		t.Fatalf("NumChans = %d, want 2", dec.NumChans)
	}
	if dec.SampleRate != 44100 {
		t.Fatalf("SampleRate = %d, want 44100", dec.SampleRate)
	}
	if dec.BitDepth != 16 {
		t.Fatalf("BitDepth = %d, want 16", dec.BitDepth)
	}
	want := 10 // total int16 samples across both frames.
	if len(buf.Data) != want {
		t.Fatalf("decoded %d samples, want %d", len(buf.Data), want)
	}
}

func TestNewWriterRejectsInvalidMetadata(t *testing.T) {
	f, err := os.CreateTemp(t.TempDir(), "sink-*.wav")
	if err != nil {
		t.Fatalf("CreateTemp: %v", err)
	}
	defer f.Close()

	if _, err := NewWriter(f, Metadata{Channels: 0, SampleRate: 44100, BitDepth: 16}); err == nil {
		t.Fatalf("expected an error for zero channels")
	}
}
