/*
DESCRIPTION
  superframe_test.go provides testing for functionality in superframe.go
  and block.go.

AUTHORS
  Saxon Nelson-Milton <saxon@ausocean.org>, The Australian Ocean Laboratory (AusOcean)

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package wma

import (
	"testing"

	"github.com/ausocean/wma/bitreader"
)

// newOverflowedReader returns a reader over an empty buffer, so the very
// first bit read overflows — a convenient way to drive decodeBlock's
// corruption path deterministically.
func newOverflowedReader() *bitreader.Reader {
	return bitreader.New(nil)
}

// TestMinimumFrameAllZeroCoefficientsIsSilence covers §8's boundary
// behaviour: a minimum-size frame whose channels are all marked uncoded
// decodes to exactly silence, drawn from the (zeroed) overlap-add tail.
func TestMinimumFrameAllZeroCoefficientsIsSilence(t *testing.T) {
	d := newTestDecoder(t, 2)
	data := make([]byte, 4) // all-zero: coded flags read false for both channels.
	pcm, corrupt := d.DecodeSuperframe(data)
	if corrupt != 0 {
		t.Fatalf("got %d corrupt blocks, want 0", corrupt)
	}
	for i, s := range pcm {
		if s != 0 {
			t.Fatalf("sample %d = %d, want 0 (silence)", i, s)
		}
	}
	if len(pcm) == 0 {
		t.Fatalf("expected at least one block of silence, got no samples")
	}
}

// TestFrameLengthConservation covers §8 invariant 1: samples emitted per
// superframe equal the sum of decoded block sizes times channel count. For
// the all-uncoded path every decoded block is exactly d.blockSizes[0]
// samples per channel.
func TestFrameLengthConservation(t *testing.T) {
	d := newTestDecoder(t, 2)
	data := make([]byte, 4)
	pcm, _ := d.DecodeSuperframe(data)
	if len(pcm)%d.Channels != 0 {
		t.Fatalf("pcm length %d not a multiple of channel count %d", len(pcm), d.Channels)
	}
	blocks := len(pcm) / d.Channels / d.blockSizes[0]
	if blocks*d.blockSizes[0]*d.Channels != len(pcm) {
		t.Fatalf("pcm length %d is not an exact multiple of block size %d across %d channels", len(pcm), d.blockSizes[0], d.Channels)
	}
}

// TestCorruptBlockRecoversToSilence feeds a reader that immediately
// overflows (the variable block-size index reads past the empty buffer,
// and the overflow is caught once the coded flags have been read), and
// checks decodeBlock reports Corrupt rather than panicking.
func TestCorruptBlockRecoversToSilence(t *testing.T) {
	d := newTestDecoder(t, 1)
	d.variableBlock = true
	d.blockSizes = []int{2048, 1024, 512}
	r := newOverflowedReader()
	res := d.decodeBlock(r)
	if !res.Corrupt {
		t.Fatalf("expected Corrupt result from an overflowed reader")
	}
	for _, s := range res.Samples[0] {
		if s != 0 {
			t.Fatalf("corrupt block output must be silence, got %v", s)
		}
	}
}
