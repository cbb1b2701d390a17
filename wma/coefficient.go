/*
NAME
  coefficient.go

DESCRIPTION
  coefficient.go decodes one channel's quantised spectral coefficients for
  a block via the run/level VLC (§4.4 step e), applying sign, scale factor
  and a global normalisation to produce real-valued MDCT input.

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

// errCoefficientOverflow is returned when a decoded run would place a
// level past the end of the scratch array, one of the CorruptFrame
// triggers named in §7.
var errCoefficientOverflow = fmt.Errorf("wma: coefficient run overflows block")

// globalNormalisation is the fixed scale applied to every dequantised
// coefficient in addition to its band's exponent-derived scale factor,
// matching §4.4 step e's "multiplied... by a global normalisation".
const globalNormalisation = 1.0 / 8.0

// decodeCoefficients reads run/level symbols from r until the end-of-block
// symbol or nbCoefs slots are filled, scaling each nonzero level by its
// band's scale factor and the global normalisation.
func (d *Decoder) decodeCoefficients(r *bitreader.Reader, scale []float64, nbCoefs int) ([]float64, error) {
	out := make([]float64, nbCoefs)
	pos := 0
	for pos < nbCoefs {
		sym, _ := d.coefTable.vlc.Decode(r)
		if sym == vlc.Invalid || sym >= len(d.coefSymbols) {
			return nil, errCoefficientOverflow
		}
		rl := d.coefSymbols[sym]
		if rl.Last {
			break
		}
		pos += rl.Run
		if pos >= nbCoefs {
			return nil, errCoefficientOverflow
		}
		sign := 1.0
		if r.GetBits1() != 0 {
			sign = -1.0
		}
		out[pos] = sign * float64(rl.Level) * scale[pos] * globalNormalisation
		pos++
	}
	if r.Overflowed() {
		return nil, errCoefficientOverflow
	}
	if d.useNoiseCoding {
		fillNoiseSubstitution(out, pos, nbCoefs, scale)
	}
	return out, nil
}

// fillNoiseSubstitution replaces the untransmitted tail of a block's
// spectrum — bands the encoder judged masked and didn't bother coding —
// with low-level pseudo-random noise scaled to the last coded band, rather
// than silence, per §1's "noise substitution for masked bands". A
// deterministic LCG stands in for the reference's noise table: the
// decoder only needs output that sounds like dither, not a
// bit-exact match to any particular encoder's noise source.
func fillNoiseSubstitution(out []float64, from, to int, scale []float64) {
	if from >= to {
		return
	}
	// from==0 means every coefficient in this block was the end-of-block
	// symbol on the very first VLC read — a legitimately all-zero-but-coded
	// channel (§8) — so there's no preceding band to borrow a scale from.
	s := 1.0
	for i := from - 1; i >= 0; i-- {
		if scale[i] != 0 {
			s = scale[i]
			break
		}
	}
	state := uint32(0x9E3779B9)
	for i := from; i < to; i++ {
		state = state*1664525 + 1013904223
		noise := (float64(state>>8) / float64(1<<24)) - 0.5
		out[i] = noise * s * globalNormalisation
	}
}
