/*
DESCRIPTION
  packet_test.go provides testing for functionality in packet.go.

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

import (
	"bytes"
	"testing"
)

func noopLog(string, ...interface{}) {}

// buildMultiPayloadPacket constructs a minimal multi-payload packet with
// 1-byte per-payload size prefixes (packet_flags = multi-payload bit set,
// all width codes zero so length/sequence/padding are all "default"
// (zero-width); packet_property all width codes zero too, so replicated
// data size is always read as 0 -> each payload is treated as a complete,
// unfragmented object).
func buildMultiPayloadPacket(streamID int, payloads [][]byte) []byte {
	var buf bytes.Buffer
	buf.WriteByte(eccByte)
	buf.WriteByte(0x80) // flags: multi-payload, all width codes 00.
	buf.WriteByte(0x00) // property: all width codes 00.
	buf.Write(make([]byte, 4)) // send time.
	buf.Write(make([]byte, 2)) // duration.

	segType := byte(len(payloads)&0x3F) | (1 << 6) // payload count; size width code 01 (1 byte).
	buf.WriteByte(segType)

	for _, p := range payloads {
		buf.WriteByte(byte(streamID & 0x7F)) // stream number, not a key frame.
		buf.WriteByte(byte(len(p)))          // payload size, 1 byte.
		buf.Write(p)
	}
	return buf.Bytes()
}

func TestParsePacketMultiPayloadWithOneByteSizePrefixes(t *testing.T) {
	payloads := [][]byte{{1, 2, 3}, {4, 5}, {6, 7, 8, 9}}
	raw := buildMultiPayloadPacket(2, payloads)
	sd := &StreamDescriptor{StreamID: 2}
	frames := parsePacket(raw, map[int]*StreamDescriptor{2: sd}, len(raw), noopLog)
	if len(frames) != len(payloads) {
		t.Fatalf("got %d frames, want %d", len(frames), len(payloads))
	}
	for i, f := range frames {
		if f.StreamID != 2 {
			t.Errorf("frame %d stream = %d, want 2", i, f.StreamID)
		}
		if !bytes.Equal(f.Data, payloads[i]) {
			t.Errorf("frame %d data = %v, want %v", i, f.Data, payloads[i])
		}
	}
}

func TestParsePacketRejectsBadECC(t *testing.T) {
	raw := []byte{0x00, 0x80, 0x00}
	frames := parsePacket(raw, map[int]*StreamDescriptor{}, len(raw), noopLog)
	if frames != nil {
		t.Fatalf("expected no frames for a bad ECC byte, got %v", frames)
	}
}

// TestAdmitFragmentReassemblesAcrossPackets exercises the fragment
// reassembly invariant (§8 invariant 6: filled is non-decreasing until
// emit) across two fragments of the same media object.
func TestAdmitFragmentReassemblesAcrossPackets(t *testing.T) {
	sd := &StreamDescriptor{StreamID: 0}
	first := []byte{1, 2, 3, 4}
	frame, complete := admitFragment(sd, 7, 8, 0, 0, first, noopLog)
	if complete {
		t.Fatalf("object should not be complete after 4 of 8 bytes")
	}
	if sd.inFlight.filled != 4 {
		t.Fatalf("filled = %d, want 4", sd.inFlight.filled)
	}
	second := []byte{5, 6, 7, 8}
	frame, complete = admitFragment(sd, 7, 8, 4, 0, second, noopLog)
	if !complete {
		t.Fatalf("object should be complete after 8 of 8 bytes")
	}
	want := []byte{1, 2, 3, 4, 5, 6, 7, 8}
	if !bytes.Equal(frame, want) {
		t.Fatalf("reassembled frame = %v, want %v", frame, want)
	}
}

// TestAdmitFragmentDiscardsOnSequenceMismatch covers §9's Open Question
// decision: a payload for a different object arriving mid-reassembly
// discards the in-flight buffer; the new payload is admitted only if its
// fragment offset is zero.
func TestAdmitFragmentDiscardsOnSequenceMismatch(t *testing.T) {
	sd := &StreamDescriptor{StreamID: 0}
	admitFragment(sd, 1, 8, 0, 0, []byte{1, 2, 3, 4}, noopLog)

	// A non-zero-offset fragment for a different object must be dropped,
	// and the in-flight buffer discarded.
	_, complete := admitFragment(sd, 2, 8, 4, 0, []byte{9, 9, 9, 9}, noopLog)
	if complete {
		t.Fatalf("mismatched-object fragment must not complete anything")
	}
	if sd.inFlight.started {
		t.Fatalf("in-flight buffer should have been discarded")
	}
}
