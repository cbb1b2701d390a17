/*
NAME
  vlc.go

DESCRIPTION
  vlc.go provides a canonical Huffman (variable-length code) decoder built
  from parallel (code, length) tables, with a two-level lookup for codes
  longer than the primary table's index width, per spec §4.2.

AUTHORS
  Saxon Nelson-Milton <saxon@ausocean.org>, The Australian Ocean Laboratory (AusOcean)

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package vlc builds and decodes canonical variable-length (Huffman) codes
// from a bitreader.Reader, via a multi-level direct-index lookup table.
package vlc

import (
	"fmt"

	"github.com/ausocean/wma/bitreader"
)

// Invalid is the sentinel symbol returned when a bit sequence doesn't
// correspond to any code in the table (§9: sum type in spirit, sentinel in
// practice to keep the decode hot path allocation-free).
const Invalid = -1

// defaultRootBits is the width (in bits) of the primary direct-index table,
// matching the "typical k = 9" called out in §4.2.
const defaultRootBits = 9

// entry is one slot of a lookup level: either a decoded (symbol, length)
// pair, or — when length is 0 and next is non-nil — a pointer to the
// second-level table that resolves the remaining bits.
type entry struct {
	symbol int
	length int // number of bits this code occupies; 0 means "see next".
	next   *Table
}

// Table is an immutable multi-level VLC lookup table. Once built via New,
// it is never mutated, matching §4.2 / §5's "Tables are allocated once at
// codec init and never mutated."
type Table struct {
	rootBits int
	root     []entry
}

// Code pairs a canonical bit pattern (left-aligned is not required; bits
// are MSB-first within Length) with the symbol it decodes to.
type Code struct {
	Bits   uint32
	Length int
	Symbol int
}

// New builds a Table from codes. rootBits sets the width of the primary
// table (0 selects defaultRootBits). New returns an error if two codes
// collide without one being a prefix-consistent extension of the other,
// i.e. the code set is not prefix-free.
func New(codes []Code, rootBits int) (*Table, error) {
	if rootBits <= 0 {
		rootBits = defaultRootBits
	}
	t := &Table{rootBits: rootBits, root: make([]entry, 1<<uint(rootBits))}
	for _, c := range codes {
		if err := t.insert(c.Bits, c.Length, c.Symbol); err != nil {
			return nil, err
		}
	}
	return t, nil
}

// insert places one (bits, length, symbol) code into the table, recursing
// into a freshly allocated second-level table when length exceeds the
// table's index width.
func (t *Table) insert(bits uint32, length, symbol int) error {
	if length <= t.rootBits {
		// The code fits in the root table directly: every index whose
		// top `length` bits match `bits` decodes to this symbol, since
		// the remaining (rootBits-length) bits are "don't care".
		shift := uint(t.rootBits - length)
		base := bits << shift
		span := 1 << shift
		for i := 0; i < span; i++ {
			idx := base | uint32(i)
			if t.root[idx].length != 0 || t.root[idx].next != nil {
				return fmt.Errorf("vlc: code set is not prefix-free at index %d", idx)
			}
			t.root[idx] = entry{symbol: symbol, length: length}
		}
		return nil
	}

	// Longer codes: dispatch on the top rootBits bits into a second-level
	// table keyed by the remaining bits.
	topShift := uint(length - t.rootBits)
	top := bits >> topShift
	rest := bits & ((1 << topShift) - 1)
	restLen := length - t.rootBits

	e := &t.root[top]
	if e.length != 0 {
		return fmt.Errorf("vlc: short code already claims prefix %d used by longer code", top)
	}
	if e.next == nil {
		e.next = &Table{rootBits: restLen, root: make([]entry, 1<<uint(restLen))}
	} else if e.next.rootBits != restLen {
		// Re-home the existing second level if a longer code needs more
		// bits of resolution than previously seen codes under this prefix.
		grown, err := growSecondLevel(e.next, restLen)
		if err != nil {
			return err
		}
		e.next = grown
	}
	return e.next.insert(rest, restLen, symbol)
}

// growSecondLevel rebuilds a second-level table at a larger bit width,
// preserving previously inserted entries. This only triggers when a table
// mixes code lengths unevenly across a single root prefix, as the
// coefficient table built in wma/huffman.go does for one of its prefixes.
func growSecondLevel(old *Table, newBits int) (*Table, error) {
	if newBits < old.rootBits {
		newBits = old.rootBits
	}
	grown := &Table{rootBits: newBits, root: make([]entry, 1<<uint(newBits))}
	shift := uint(newBits - old.rootBits)
	for idx, e := range old.root {
		if e.length == 0 && e.next == nil {
			continue
		}
		base := uint32(idx) << shift
		span := 1 << shift
		for i := 0; i < span; i++ {
			grown.root[base|uint32(i)] = e
		}
	}
	return grown, nil
}

// Decode reads the next code from r and returns its symbol and bit length,
// advancing r by that many bits. It returns (Invalid, 0) if the peeked
// bits don't resolve to any known code (including the case where r has
// already overflowed), matching the CorruptFrame contract in §7 — the
// caller decides how to recover, this function never panics.
func (t *Table) Decode(r *bitreader.Reader) (symbol int, length int) {
	return t.decodeAt(r, 0)
}

func (t *Table) decodeAt(r *bitreader.Reader, consumed int) (int, int) {
	peek := r.ShowBits(t.rootBits)
	e := t.root[peek]
	switch {
	case e.next != nil:
		// Consume the bits that selected this prefix, then recurse.
		r.SkipBits(t.rootBits)
		sym, l := e.next.decodeAt(r, consumed+t.rootBits)
		return sym, l
	case e.length == 0:
		return Invalid, 0
	default:
		r.SkipBits(e.length)
		return e.symbol, consumed + e.length
	}
}
