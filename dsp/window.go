/*
NAME
  window.go

DESCRIPTION
  window.go precomputes the sine analysis/synthesis windows used to overlap-add
  successive IMDCT outputs, per spec §4.3.

AUTHORS
  Saxon Nelson-Milton <saxon@ausocean.org>, The Australian Ocean Laboratory (AusOcean)

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package dsp provides the fixed-shape DSP kernels the WMA frame decoder
// drives: the IMDCT and the sine analysis windows, all precomputed once
// per block size and never mutated afterwards (§5).
package dsp

import (
	"fmt"
	"math"
	"sync"
)

// SineWindow returns the n-sample sine window w[i] = sin((i+0.5)*pi/n), the
// shape spec §4.3 calls for over the full output span of an IMDCT of that
// length. n must be even and positive.
func SineWindow(n int) ([]float64, error) {
	if n <= 0 || n%2 != 0 {
		return nil, fmt.Errorf("dsp: sine window length %d must be even and positive", n)
	}
	w := windowCache.get(n)
	out := make([]float64, n)
	copy(out, w)
	return out, nil
}

// windowTable memoizes sine windows by length; block sizes repeat across
// every frame of a stream, so there's no reason to recompute them.
type windowTable struct {
	mu    sync.Mutex
	byLen map[int][]float64
}

var windowCache = &windowTable{byLen: make(map[int][]float64)}

func (c *windowTable) get(n int) []float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	if w, ok := c.byLen[n]; ok {
		return w
	}
	w := make([]float64, n)
	for i := range w {
		w[i] = math.Sin((float64(i) + 0.5) * math.Pi / float64(n))
	}
	c.byLen[n] = w
	return w
}
