/*
NAME
  bitreader.go

DESCRIPTION
  bitreader.go provides a little-endian, MSB-first bit reader over a byte
  buffer, as required by the WMA bitstream (§4.1).

AUTHORS
  Saxon Nelson-Milton <saxon@ausocean.org>, The Australian Ocean Laboratory (AusOcean)

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package bitreader provides a bit reader implementation that reads bits
// MSB-first from an in-memory byte buffer, with peek, skip, byte-alignment
// and a sticky overflow flag in place of per-call error returns.
package bitreader

// Reader is a cursor over a byte buffer that yields bits MSB-first within
// each byte. Reads past the end of the buffer return zero and set the
// sticky Overflowed flag rather than panicking or returning an error; this
// matches the contract in spec §4.1 and §7 (CorruptFrame is recovered, not
// fatal, mid-block).
type Reader struct {
	buf      []byte
	bitPos   int // cumulative bit position from the start of buf.
	overflow bool
}

// New returns a Reader over buf.
func New(buf []byte) *Reader {
	return &Reader{buf: buf}
}

// Reset rearms the Reader over a new buffer, clearing position and overflow.
func (r *Reader) Reset(buf []byte) {
	r.buf = buf
	r.bitPos = 0
	r.overflow = false
}

// totalBits is the number of addressable bits in the underlying buffer.
func (r *Reader) totalBits() int { return len(r.buf) * 8 }

// bitAt returns the bit at absolute bit position pos, treating positions
// beyond the buffer as zero.
func (r *Reader) bitAt(pos int) uint64 {
	byteIdx := pos >> 3
	if byteIdx < 0 || byteIdx >= len(r.buf) {
		return 0
	}
	shift := 7 - uint(pos&7)
	return uint64(r.buf[byteIdx]>>shift) & 1
}

// GetBits reads n bits (1 <= n <= 32) and advances the cursor, returning
// them as an unsigned integer with the first-read bit in the most
// significant position. Reads that run past the end of the buffer return
// zero for the missing bits and set Overflowed.
func (r *Reader) GetBits(n int) uint32 {
	if n <= 0 {
		return 0
	}
	v := r.peekAt(r.bitPos, n)
	r.advance(n)
	return v
}

// advance moves the cursor forward by n bits, clamping at the buffer's
// total bit length and setting the sticky overflow flag if the advance
// would otherwise have run past it. Clamping keeps BitsCount from growing
// without bound across repeated reads past EOF (spec §8 invariant 4).
func (r *Reader) advance(n int) {
	total := r.totalBits()
	if r.bitPos+n > total {
		r.overflow = true
		r.bitPos = total
		return
	}
	r.bitPos += n
}

// GetBits1 is the single-bit fast path of GetBits.
func (r *Reader) GetBits1() uint32 {
	return r.GetBits(1)
}

// ShowBits peeks the next n bits without advancing the cursor.
func (r *Reader) ShowBits(n int) uint32 {
	return r.peekAt(r.bitPos, n)
}

// peekAt returns n bits (n <= 32) starting at absolute bit position pos,
// without mutating reader state.
func (r *Reader) peekAt(pos, n int) uint32 {
	var v uint64
	for i := 0; i < n; i++ {
		v = (v << 1) | r.bitAt(pos+i)
	}
	return uint32(v)
}

// SkipBits advances the cursor by n bits without returning a value.
func (r *Reader) SkipBits(n int) {
	if n < 0 {
		n = 0
	}
	r.advance(n)
}

// Align skips forward to the next n-bit (normally byte, n=8) boundary.
func (r *Reader) Align(n int) {
	if n <= 0 {
		return
	}
	rem := r.bitPos % n
	if rem != 0 {
		r.SkipBits(n - rem)
	}
}

// BitsCount returns the cumulative number of bits consumed so far.
func (r *Reader) BitsCount() int { return r.bitPos }

// Overflowed reports whether any read or skip has run past the end of the
// underlying buffer since the reader was created or last Reset.
func (r *Reader) Overflowed() bool { return r.overflow }

// Remaining returns the number of unread bits left in the buffer, or 0 if
// the cursor has already overrun it.
func (r *Reader) Remaining() int {
	rem := r.totalBits() - r.bitPos
	if rem < 0 {
		return 0
	}
	return rem
}
