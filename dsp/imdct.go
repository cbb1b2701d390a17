/*
NAME
  imdct.go

DESCRIPTION
  imdct.go implements the inverse modified DCT used to turn a block's
  decoded coefficients into time-domain samples, per spec §4.3: "inverse
  modified DCT of length 2N, producing 2N real samples from N real
  coefficients."

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
	"fmt"
	"math"
)

// Transform is a reusable IMDCT (and, for tests, forward MDCT) for a fixed
// coefficient count n, matching the shape of a typical codec-side
// NewMDCT(size)-then-.IMDCT(in, out) pairing.
//
// §4.3 describes the fast path as a pre-twiddle, one N/2-point complex FFT,
// and a post-twiddle. This Transform instead evaluates the defining cosine
// sum directly: see DESIGN.md for why the FFT-accelerated reduction isn't
// implemented at all, not even as a cross-check.
type Transform struct {
	n int
}

// New returns a Transform over n coefficients, producing 2n-sample frames.
// n must be even and positive — every block length the WMA decoder uses
// (§4.4) satisfies this.
func New(n int) (*Transform, error) {
	if n <= 0 || n%2 != 0 {
		return nil, fmt.Errorf("dsp: transform size %d must be even and positive", n)
	}
	return &Transform{n: n}, nil
}

// Len is the number of coefficients this Transform expects (its IMDCT
// output is 2*Len samples).
func (t *Transform) Len() int { return t.n }

// IMDCT fills out (length 2n) from coefs (length n). It does not allocate.
func (t *Transform) IMDCT(coefs, out []float64) error {
	n := t.n
	if len(coefs) != n {
		return fmt.Errorf("dsp: IMDCT expects %d coefficients, got %d", n, len(coefs))
	}
	if len(out) != 2*n {
		return fmt.Errorf("dsp: IMDCT expects a %d-sample output, got %d", 2*n, len(out))
	}
	scale := 2.0 / float64(n)
	for i := 0; i < 2*n; i++ {
		theta := (math.Pi / float64(n)) * (float64(i) + 0.5 + float64(n)/2)
		var sum float64
		for k := 0; k < n; k++ {
			sum += coefs[k] * math.Cos(theta*(float64(k)+0.5))
		}
		out[i] = sum * scale
	}
	return nil
}

// MDCT fills out (length n) from frame (length 2n), the forward transform
// IMDCT inverts under time-domain-aliasing cancellation. Nothing in the WMA
// decode path calls this — encoding is explicitly out of scope — but the
// round-trip and overlap-add properties in dsp_test.go need a forward
// transform to construct valid coefficient vectors from known signals.
func (t *Transform) MDCT(frame, out []float64) error {
	n := t.n
	if len(frame) != 2*n {
		return fmt.Errorf("dsp: MDCT expects a %d-sample frame, got %d", 2*n, len(frame))
	}
	if len(out) != n {
		return fmt.Errorf("dsp: MDCT expects %d coefficients, got %d", n, len(out))
	}
	for k := 0; k < n; k++ {
		var sum float64
		for i := 0; i < 2*n; i++ {
			theta := (math.Pi / float64(n)) * (float64(i) + 0.5 + float64(n)/2) * (float64(k) + 0.5)
			sum += frame[i] * math.Cos(theta)
		}
		out[k] = sum
	}
	return nil
}
