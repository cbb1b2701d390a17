/*
DESCRIPTION
  dsp_test.go provides testing for functionality in imdct.go and window.go.

AUTHORS
  Saxon Nelson-Milton <saxon@ausocean.org>, The Australian Ocean Laboratory (AusOcean)

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package dsp

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/floats"
)

func TestSineWindowSatisfiesPrincenBradley(t *testing.T) {
	const l = 16
	w, err := SineWindow(2 * l)
	if err != nil {
		t.Fatalf("SineWindow: %v", err)
	}
	// w[n]^2 + w[n+L]^2 == 1 is the condition that makes two overlapping
	// sine-windowed blocks cancel their aliasing on reconstruction (§4.3).
	for n := 0; n < l; n++ {
		got := w[n]*w[n] + w[n+l]*w[n+l]
		if math.Abs(got-1) > 1e-9 {
			t.Errorf("w[%d]^2+w[%d]^2 = %v, want 1", n, n+l, got)
		}
	}
}

func TestSineWindowRejectsOddLength(t *testing.T) {
	if _, err := SineWindow(7); err == nil {
		t.Fatalf("expected error for odd window length")
	}
}

func TestIMDCTOfSingleCoefficientMatchesClosedForm(t *testing.T) {
	const n = 8
	tr, err := New(n)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	coefs := make([]float64, n)
	coefs[2] = 1
	out := make([]float64, 2*n)
	if err := tr.IMDCT(coefs, out); err != nil {
		t.Fatalf("IMDCT: %v", err)
	}
	want := make([]float64, 2*n)
	for i := range want {
		theta := (math.Pi / float64(n)) * (float64(i) + 0.5 + float64(n)/2) * 2.5
		want[i] = (2.0 / float64(n)) * math.Cos(theta)
	}
	if !floats.EqualApprox(out, want, 1e-9) {
		t.Fatalf("IMDCT of a unit coefficient: got %v, want %v", out, want)
	}
}

func TestIMDCTDimensionChecks(t *testing.T) {
	tr, err := New(8)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := tr.IMDCT(make([]float64, 7), make([]float64, 16)); err == nil {
		t.Fatalf("expected error for wrong coefficient length")
	}
	if err := tr.IMDCT(make([]float64, 8), make([]float64, 15)); err == nil {
		t.Fatalf("expected error for wrong output length")
	}
}

// TestOverlapAddReconstructsOriginal exercises the actual invariant an MDCT
// filter bank provides: not that a single isolated block round-trips to
// itself (it can't — that's the whole point of the 50% time-domain overlap),
// but that summing the overlapping halves of two consecutively windowed,
// transformed and inverse-transformed blocks reconstructs the shared middle
// region of the original signal, per the Princen-Bradley condition checked
// above and spec §8's "tail continuity" invariant.
func TestOverlapAddReconstructsOriginal(t *testing.T) {
	const l = 16
	tr, err := New(l)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	window, err := SineWindow(2 * l)
	if err != nil {
		t.Fatalf("SineWindow: %v", err)
	}

	signal := make([]float64, 3*l)
	for i := range signal {
		signal[i] = math.Sin(float64(i)*0.21) + 0.5*math.Cos(float64(i)*0.07)
	}

	transformBlock := func(offset int) []float64 {
		frame := make([]float64, 2*l)
		for i := range frame {
			frame[i] = signal[offset+i] * window[i]
		}
		coefs := make([]float64, l)
		if err := tr.MDCT(frame, coefs); err != nil {
			t.Fatalf("MDCT: %v", err)
		}
		synth := make([]float64, 2*l)
		if err := tr.IMDCT(coefs, synth); err != nil {
			t.Fatalf("IMDCT: %v", err)
		}
		for i := range synth {
			synth[i] *= window[i]
		}
		return synth
	}

	block0 := transformBlock(0) // covers signal[0:2l]
	block1 := transformBlock(l) // covers signal[l:3l]

	recon := make([]float64, l)
	for j := 0; j < l; j++ {
		recon[j] = block0[l+j] + block1[j]
	}
	want := signal[l : 2*l]

	if !floats.EqualApprox(recon, want, 1e-6) {
		t.Fatalf("overlap-add reconstruction:\n got  %v\n want %v", recon, want)
	}
}
