/*
NAME
  block.go

DESCRIPTION
  block.go runs the per-block decode state machine spec §4.4 names:
  READ_SIZE → READ_FLAGS → READ_EXPONENTS → READ_COEFS → TRANSFORM → EMIT,
  recovering to silence on any CorruptFrame trigger.

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
	"github.com/ausocean/wma/bitreader"
)

// blockState names the states of the per-block decode state machine in
// §4.4, kept as a type only for logging clarity — decodeBlock drives it
// directly rather than dispatching through a table.
type blockState int

const (
	stateReadSize blockState = iota
	stateReadFlags
	stateReadExponents
	stateReadCoefs
	stateTransform
	stateEmit
)

func (s blockState) String() string {
	switch s {
	case stateReadSize:
		return "READ_SIZE"
	case stateReadFlags:
		return "READ_FLAGS"
	case stateReadExponents:
		return "READ_EXPONENTS"
	case stateReadCoefs:
		return "READ_COEFS"
	case stateTransform:
		return "TRANSFORM"
	case stateEmit:
		return "EMIT"
	default:
		return "UNKNOWN"
	}
}

// blockResult is one block's decode outcome: one sample slice per channel,
// each of length equal to the block's size.
type blockResult struct {
	Samples [][]float64
	Corrupt bool
}

// decodeBlock runs one full pass of the state machine over r, consuming
// whatever this block declares and producing Channels() sample slices via
// overlap-add with the decoder's tail. On an invalid block-size index, an
// invalid VLC symbol, a coefficient run past the block's end, or reader
// overflow mid-block, it logs at Warning, zeroes the block's output and
// tail, and returns Corrupt=true rather than an error: per §4.4, this is
// recoverable in the steady state. Decoded exponent values are not checked
// for monotonicity or range; expToScale clamps them.
func (d *Decoder) decodeBlock(r *bitreader.Reader) blockResult {
	state := stateReadSize
	blockLen, err := d.readBlockSize(r)
	if err != nil {
		return d.corruptBlock(state, d.blockSizes[0], err)
	}

	state = stateReadFlags
	coded := make([]bool, d.Channels)
	for c := range coded {
		coded[c] = r.GetBits1() != 0
	}
	msStereo := false
	if d.Channels == 2 && coded[0] && coded[1] {
		msStereo = r.GetBits1() != 0
	}
	if r.Overflowed() {
		return d.corruptBlock(state, blockLen, errCorruptExponents)
	}

	bands := d.bands[blockLen]
	nbCoefs := blockLen

	state = stateReadExponents
	exps := make([][]int, d.Channels)
	for c := range exps {
		if !coded[c] {
			continue
		}
		e, err := d.decodeExponents(r, bands)
		if err != nil {
			return d.corruptBlock(state, blockLen, err)
		}
		exps[c] = e
	}

	state = stateReadCoefs
	coefs := make([][]float64, d.Channels)
	for c := range coefs {
		if !coded[c] {
			coefs[c] = make([]float64, nbCoefs)
			continue
		}
		scale := exponentsToScale(exps[c], bands, nbCoefs)
		cc, err := d.decodeCoefficients(r, scale, nbCoefs)
		if err != nil {
			return d.corruptBlock(state, blockLen, err)
		}
		coefs[c] = cc
	}

	if msStereo && d.Channels == 2 {
		applyMidSide(coefs[0], coefs[1])
	}

	state = stateTransform
	tr := d.transforms[blockLen]
	win := d.windows[blockLen]
	out := make([][]float64, d.Channels)
	for c := range out {
		if !coded[c] {
			out[c] = d.emitFromTail(c, blockLen)
			continue
		}
		synth := make([]float64, 2*blockLen)
		if err := tr.IMDCT(coefs[c], synth); err != nil {
			return d.corruptBlock(state, blockLen, err)
		}
		for i := range synth {
			synth[i] *= win[i]
		}
		out[c] = d.overlapAdd(c, synth, blockLen)
	}

	_ = state // stateEmit: out is ready for the caller to interleave/clip.

	return blockResult{Samples: out}
}

// readBlockSize reads the block-size index when variable block length is
// enabled, else returns the stream's single fixed block size.
func (d *Decoder) readBlockSize(r *bitreader.Reader) (int, error) {
	if !d.variableBlock {
		return d.blockSizes[0], nil
	}
	bits := 0
	for 1<<uint(bits) < len(d.blockSizes) {
		bits++
	}
	idx := int(r.GetBits(bits))
	if idx < 0 || idx >= len(d.blockSizes) {
		return 0, errCorruptExponents
	}
	return d.blockSizes[idx], nil
}

// overlapAdd combines the first half of synth (length 2n) with channel c's
// stored tail, writes the second half back as the new tail, and returns
// the n-sample emitted block (§4.3 "Overlap-add").
func (d *Decoder) overlapAdd(c int, synth []float64, n int) []float64 {
	out := make([]float64, n)
	tail := d.tail[c]
	for i := 0; i < n; i++ {
		prev := 0.0
		if i < len(tail) {
			prev = tail[i]
		}
		out[i] = prev + synth[i]
	}
	newTail := make([]float64, n)
	copy(newTail, synth[n:])
	d.tail[c] = newTail
	return out
}

// emitFromTail handles an uncoded channel: its block output is exactly the
// previous tail (no new spectral energy to overlap-add), after which the
// tail is zeroed (§4.4 step g: "For uncoded channels, output is just the
// previous tail, then tail is zeroed").
func (d *Decoder) emitFromTail(c, n int) []float64 {
	out := make([]float64, n)
	tail := d.tail[c]
	copy(out, tail)
	d.tail[c] = make([]float64, n)
	return out
}

// corruptBlock logs the failure and returns a Corrupt result whose
// Samples are n zeros for every channel — zeroing tail and output alike,
// per §4.4's state-machine contract. n is the block's length, or the
// largest block size when the block-size index itself could not be read.
func (d *Decoder) corruptBlock(state blockState, n int, err error) blockResult {
	d.log.Warning("wma: block decode failed, emitting silence", "state", state.String(), "error", err.Error())
	out := make([][]float64, d.Channels)
	for c := range out {
		out[c] = make([]float64, n)
		d.tail[c] = make([]float64, n)
	}
	return blockResult{Samples: out, Corrupt: true}
}
