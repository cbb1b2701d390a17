/*
NAME
  descramble.go

DESCRIPTION
  descramble.go implements the ASF interleaved-packet descrambling
  permutation described in §4.5 and the bijectivity invariant of §8.

AUTHORS
  Saxon Nelson-Milton <saxon@ausocean.org>, The Australian Ocean Laboratory (AusOcean)

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package asf

// Descramble undoes the span-way chunk interleaving an ASF encoder applied
// across ds_span consecutive packets, operating chunkSize bytes at a time.
//
// §4.5 writes the permutation as
//
//	src_idx(dst) = (dst/chunk_size % span) * (packet_size/chunk_size) + (dst/chunk_size/span)
//
// which, worked through for dst/chunk_size ranging over every chunk in a
// packet, does not stay within [0, packet_size/chunk_size) — it is only a
// bijection once the middle term is packet_size/chunk_size/span rather than
// packet_size/chunk_size (the quotient narrows to the per-span run length,
// matching the reference decoder's row/col/idx construction and the §8
// invariant 5 bijectivity requirement that this function is checked
// against). That is the form implemented here.
//
// data's length must be a multiple of packetSize; each packetSize-sized
// segment is descrambled independently, matching one ASF packet's worth of
// interleaved chunks. If span <= 1, chunkSize <= 0, or the divisibility
// preconditions of invariant 5 (chunk_size | packet_size, span |
// packet_size/chunk_size) don't hold, data is returned unchanged.
func Descramble(data []byte, span, packetSize, chunkSize int) []byte {
	if span <= 1 || chunkSize <= 0 || packetSize <= 0 || packetSize%chunkSize != 0 {
		return data
	}
	n := packetSize / chunkSize
	if n%span != 0 {
		return data
	}
	m := n / span

	out := make([]byte, len(data))
	for base := 0; base+packetSize <= len(data); base += packetSize {
		for dstChunk := 0; dstChunk < n; dstChunk++ {
			srcChunk := (dstChunk%span)*m + dstChunk/span
			srcOff := base + srcChunk*chunkSize
			dstOff := base + dstChunk*chunkSize
			copy(out[dstOff:dstOff+chunkSize], data[srcOff:srcOff+chunkSize])
		}
	}
	// Any trailing partial segment (shorter than packetSize) is copied
	// through unscrambled; a well-formed stream never produces one.
	if rem := len(data) % packetSize; rem != 0 {
		copy(out[len(data)-rem:], data[len(data)-rem:])
	}
	return out
}
