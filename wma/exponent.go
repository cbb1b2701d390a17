/*
NAME
  exponent.go

DESCRIPTION
  exponent.go decodes a channel's per-band exponents for one block, in
  either of the two modes spec §4.4 step d names: LSP (absolute, low
  bitrate) and VLC (differential, Huffman-coded).

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
	"fmt"

	"github.com/ausocean/wma/bitreader"
	"github.com/ausocean/wma/vlc"
)

// errCorruptExponents is returned when a block's exponent decode meets an
// invalid VLC symbol or runs the reader past the end of its buffer; block.go
// also returns it for an out-of-range block-size index and for overflow
// while reading the coded flags, and treats it as a CorruptFrame per §7.
// Exponent values themselves are not range-checked; expToScale clamps them.
var errCorruptExponents = fmt.Errorf("wma: corrupt exponent vector")

// decodeExponents reads one channel's raw exponent integers, one per band
// in bands, using whichever mode this stream selected at init.
func (d *Decoder) decodeExponents(r *bitreader.Reader, bands []band) ([]int, error) {
	if d.useExpVLC {
		return d.decodeExponentsVLC(r, bands)
	}
	return d.decodeExponentsLSP(r, bands)
}

// decodeExponentsLSP reads a 5-bit absolute base exponent plus a small
// signed delta per band, per §4.4 step d's "LSP mode".
func (d *Decoder) decodeExponentsLSP(r *bitreader.Reader, bands []band) ([]int, error) {
	base := int(r.GetBits(5))
	out := make([]int, len(bands))
	cur := base
	for i := range bands {
		if i > 0 {
			delta := int(r.GetBits(4)) - 8
			cur += delta
		}
		out[i] = cur
	}
	if r.Overflowed() {
		return nil, errCorruptExponents
	}
	return out, nil
}

// decodeExponentsVLC reads a 5-bit absolute first exponent, then a
// Huffman-coded signed delta per subsequent band (§4.4 step d's "VLC
// mode"). Each delta is relative to the previous band within the same
// block only — §3's "last exponents... for differential coding" refers to
// this intra-block chain, not state carried across blocks (see DESIGN.md).
func (d *Decoder) decodeExponentsVLC(r *bitreader.Reader, bands []band) ([]int, error) {
	out := make([]int, len(bands))
	out[0] = int(r.GetBits(5))
	for i := 1; i < len(bands); i++ {
		sym, _ := d.expTable.vlc.Decode(r)
		if sym == vlc.Invalid || sym >= len(exponentDeltas) {
			return nil, errCorruptExponents
		}
		out[i] = out[i-1] + exponentDeltas[sym]
	}
	if r.Overflowed() {
		return nil, errCorruptExponents
	}
	return out, nil
}

// exponentsToScale converts a band-indexed exponent vector to one linear
// scale factor per coefficient, broadcasting each band's exponent across
// its full width (§4.4 step d: "exponents broadcast across band widths").
func exponentsToScale(exps []int, bands []band, nbCoefs int) []float64 {
	scale := make([]float64, nbCoefs)
	for i, b := range bands {
		if i >= len(exps) {
			break
		}
		v := expToScale(exps[i])
		end := b.Start + b.Width
		if end > nbCoefs {
			end = nbCoefs
		}
		for k := b.Start; k < end; k++ {
			scale[k] = v
		}
	}
	return scale
}
