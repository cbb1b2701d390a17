/*
DESCRIPTION
  descramble_test.go provides testing for functionality in descramble.go.

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

import "testing"

// TestDescrambleIsBijective covers §8 invariant 5: for any (span,
// packet_size, chunk_size) satisfying the stated divisibility
// preconditions, the descramble permutation is a bijection on
// [0, packet_size) — every source byte lands at exactly one destination
// and every destination is filled exactly once.
func TestDescrambleIsBijective(t *testing.T) {
	cases := []struct{ span, packetSize, chunkSize int }{
		{2, 16, 2},
		{4, 32, 2},
		{2, 24, 4},
		{3, 48, 4},
	}
	for _, c := range cases {
		data := make([]byte, c.packetSize)
		for i := range data {
			data[i] = byte(i)
		}
		out := Descramble(data, c.span, c.packetSize, c.chunkSize)
		seen := make([]bool, c.packetSize)
		for _, b := range out {
			if seen[b] {
				t.Fatalf("span=%d packetSize=%d chunkSize=%d: value %d appeared twice, not a bijection", c.span, c.packetSize, c.chunkSize, b)
			}
			seen[b] = true
		}
		for i, ok := range seen {
			if !ok {
				t.Fatalf("span=%d packetSize=%d chunkSize=%d: value %d never appeared", c.span, c.packetSize, c.chunkSize, i)
			}
		}
	}
}

// TestDescrambleRoundTrip checks that descrambling twice with the
// transpose relationship (span <-> packet_size/chunk_size/span) returns
// the original bytes, confirming the permutation implemented is genuinely
// invertible and not just injective by accident.
func TestDescrambleRoundTrip(t *testing.T) {
	span, packetSize, chunkSize := 2, 16, 2
	data := make([]byte, packetSize)
	for i := range data {
		data[i] = byte(i)
	}
	scrambled := Descramble(data, span, packetSize, chunkSize)
	unscrambled := Descramble(scrambled, packetSize/chunkSize/span, packetSize, chunkSize)
	for i := range data {
		if unscrambled[i] != data[i] {
			t.Fatalf("round trip mismatch at %d: got %d, want %d", i, unscrambled[i], data[i])
		}
	}
}

// TestDescrambleLeavesUnscrambledWhenPreconditionsFail covers the
// documented fallback: when the divisibility preconditions in invariant 5
// don't hold, Descramble must not corrupt the data.
func TestDescrambleLeavesUnscrambledWhenPreconditionsFail(t *testing.T) {
	data := []byte{1, 2, 3, 4, 5}
	out := Descramble(data, 2, 5, 2) // 5 % 2 != 0
	for i := range data {
		if out[i] != data[i] {
			t.Fatalf("expected unscrambled passthrough, got %v want %v", out, data)
		}
	}
}
