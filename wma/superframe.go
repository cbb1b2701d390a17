/*
NAME
  superframe.go

DESCRIPTION
  superframe.go decodes one ASF-delivered compressed frame — a superframe —
  into interleaved signed 16-bit PCM, iterating decodeBlock until the
  superframe's bits are exhausted and managing the bit reservoir across
  calls, per spec §4.4's "Per-superframe decode".

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

// maxReservoirBytes bounds how much of a superframe's tail can be carried
// into the next call, so a corrupt stream that never lands on a block
// boundary can't grow the reservoir without limit.
const maxReservoirBytes = 4096

// DecodeSuperframe decodes one compressed WMA frame (one ASF payload's
// worth of reassembled bytes) into interleaved signed 16-bit PCM. It never
// returns an error for in-stream corruption — per §7 that's recovered as
// silence within the affected block — only the number of blocks that were
// corrupt is reported, for the pipeline driver to log.
//
// Per §4.4 step 1 and §3's persistent reservoir state, the pending block is
// assembled by concatenating the reservoir tail left over from the previous
// call with this call's data before decoding any blocks; whatever's left
// over after the last full block this call decodes becomes the reservoir
// for the next one.
func (d *Decoder) DecodeSuperframe(data []byte) (pcm []int16, corruptBlocks int) {
	buf := data
	if d.useReservoir && len(d.reservoir) > 0 {
		buf = make([]byte, len(d.reservoir)+len(data))
		n := copy(buf, d.reservoir)
		copy(buf[n:], data)
	}
	r := bitreader.New(buf)

	if d.useReservoir {
		leading := int(r.GetBits(4))
		if leading > r.Remaining() {
			d.log.Debug("wma: bit-reservoir leading-bits count exceeds superframe size", "leading", leading, "remaining", r.Remaining())
		}
	}

	for r.Remaining() >= minBlockBits {
		before := r.BitsCount()
		res := d.decodeBlock(r)
		if res.Corrupt {
			corruptBlocks++
		}
		pcm = appendInterleavedBlock(pcm, res.Samples, d.Channels)
		if r.BitsCount() == before {
			// No forward progress (e.g. a zero-length block size on a
			// corrupt stream) — stop rather than loop forever.
			break
		}
	}

	if d.useReservoir {
		d.reservoir = trailingBytes(r, maxReservoirBytes)
	}

	return pcm, corruptBlocks
}

// trailingBytes byte-aligns r's cursor and returns whatever whole bytes
// remain unconsumed in its buffer, capped to the last max bytes. Losing the
// sub-byte remainder (at most 7 bits) on the align is acceptable: per
// spec's bit-exactness Non-goal the reservoir only needs to carry real
// pending data into the next superframe's decode, not reproduce any single
// reference encoder's bit alignment exactly.
func trailingBytes(r *bitreader.Reader, max int) []byte {
	r.Align(8)
	rem := r.Remaining() / 8
	if rem <= 0 {
		return nil
	}
	if rem > max {
		// Keep the bytes closest to the end of the buffer — the part of a
		// corrupt, never-block-aligned tail most likely to matter next call.
		r.SkipBits((rem - max) * 8)
		rem = max
	}
	tail := make([]byte, rem)
	for i := range tail {
		tail[i] = byte(r.GetBits(8))
	}
	return tail
}

// minBlockBits is the fewest bits a well-formed block can occupy (a fixed
// block size index plus per-channel coded flags), below which the
// superframe is treated as exhausted rather than attempting another block.
const minBlockBits = 1

// appendInterleavedBlock appends one block's per-channel samples (all the
// same length) to pcm, clipped to signed 16-bit and interleaved by channel
// (§4.4 step 3), growing the buffer once for the whole block rather than
// once per channel.
func appendInterleavedBlock(pcm []int16, perChannel [][]float64, channels int) []int16 {
	if len(perChannel) == 0 || len(perChannel[0]) == 0 {
		return pcm
	}
	blockLen := len(perChannel[0])
	oldFrames := len(pcm) / channels
	grown := make([]int16, (oldFrames+blockLen)*channels)
	copy(grown, pcm)
	for c, samples := range perChannel {
		for i, s := range samples {
			grown[(oldFrames+i)*channels+c] = clip16(s)
		}
	}
	return grown
}

func clip16(v float64) int16 {
	if v > 32767 {
		return 32767
	}
	if v < -32768 {
		return -32768
	}
	return int16(v)
}
