/*
DESCRIPTION
  wma_test.go provides testing for functionality in wma.go, tables.go and
  huffman.go, plus a shared test logger used across this package's tests.

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

	"github.com/ausocean/utils/logging"
	"github.com/ausocean/wma/vlc"
)

// testLogger adapts *testing.T to logging.Logger, matching the pattern the
// teacher's revid package uses for its own tests.
type testLogger testing.T

func (tl *testLogger) Debug(msg string, args ...interface{})   { tl.Log(logging.Debug, msg, args...) }
func (tl *testLogger) Info(msg string, args ...interface{})    { tl.Log(logging.Info, msg, args...) }
func (tl *testLogger) Warning(msg string, args ...interface{}) { tl.Log(logging.Warning, msg, args...) }
func (tl *testLogger) Error(msg string, args ...interface{})   { tl.Log(logging.Error, msg, args...) }
func (tl *testLogger) Fatal(msg string, args ...interface{})   { tl.Log(logging.Fatal, msg, args...) }
func (tl *testLogger) SetLevel(lvl int8)                       {}
func (tl *testLogger) Log(lvl int8, msg string, args ...interface{}) {
	if len(args) == 0 {
		(*testing.T)(tl).Log(msg)
		return
	}
	(*testing.T)(tl).Logf("%s %v", msg, args)
}

func newTestDecoder(t *testing.T, channels int) *Decoder {
	t.Helper()
	d, err := New((*testLogger)(t), TagWMAv2, 44100, channels, 128000, []byte{0x03, 0x00, 0x00, 0x00})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return d
}

func TestNewRejectsUnsupportedTag(t *testing.T) {
	if _, err := New((*testLogger)(t), 0x1234, 44100, 2, 128000, nil); err == nil {
		t.Fatalf("expected error for unsupported codec tag")
	}
}

func TestNewRejectsBadChannelCount(t *testing.T) {
	if _, err := New((*testLogger)(t), TagWMAv2, 44100, 0, 128000, nil); err == nil {
		t.Fatalf("expected error for zero channels")
	}
	if _, err := New((*testLogger)(t), TagWMAv2, 44100, 3, 128000, nil); err == nil {
		t.Fatalf("expected error for unsupported channel count")
	}
}

func TestNewDerivesFrameLenNearSampleRateOver16(t *testing.T) {
	d := newTestDecoder(t, 2)
	if d.frameLen < d.SampleRate/32 || d.frameLen > d.SampleRate/8 {
		t.Fatalf("frameLen %d not in a reasonable range around sampleRate/16=%d", d.frameLen, d.SampleRate/16)
	}
	if d.blockSizes[0] != d.frameLen {
		t.Fatalf("blockSizes[0] = %d, want frameLen %d", d.blockSizes[0], d.frameLen)
	}
}

func TestNewBuildsBandsCoveringEveryBlockSize(t *testing.T) {
	d := newTestDecoder(t, 1)
	for _, n := range d.blockSizes {
		bands, ok := d.bands[n]
		if !ok {
			t.Fatalf("no band table for block size %d", n)
		}
		total := 0
		for _, b := range bands {
			total += b.Width
		}
		if total != n {
			t.Errorf("block size %d: bands cover %d coefficients, want %d", n, total, n)
		}
	}
}

func TestBuildCanonicalCodesIsPrefixFree(t *testing.T) {
	lengths := codeLengths(20, 2, 8)
	codes, err := buildCanonicalCodes(lengths)
	if err != nil {
		t.Fatalf("buildCanonicalCodes: %v", err)
	}
	// vlc.New itself rejects non-prefix-free code sets, so successfully
	// building a table is the test.
	if _, err := vlc.New(codes, 9); err != nil {
		t.Fatalf("canonical codes are not prefix-free: %v", err)
	}
}

func TestExpToScaleIsMonotonic(t *testing.T) {
	prev := expToScale(-20)
	for e := -19; e <= 20; e++ {
		cur := expToScale(e)
		if cur <= prev {
			t.Fatalf("expToScale not monotonic at e=%d: %v <= %v", e, cur, prev)
		}
		prev = cur
	}
}
