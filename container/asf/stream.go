/*
NAME
  stream.go

DESCRIPTION
  stream.go defines the ASF stream descriptor and the in-flight fragment
  reassembly state tracked per stream, per §3's "ASF Stream Descriptor"
  and "Compressed Audio Frame" data model entries.

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

// StreamDescriptor describes one ASF stream, built while parsing the
// header object and held immutable thereafter except for its in-flight
// reassembly state.
type StreamDescriptor struct {
	StreamID    int
	CodecTag    uint16
	SampleRate  int
	Channels    int
	ByteRate    int
	BlockAlign  int
	BitsPerSample int
	Extradata   []byte

	// Descrambling parameters, zero when the stream is not interleaved.
	Span       int
	PacketSize int
	ChunkSize  int

	inFlight fragmentBuffer
}

// IsAudio reports whether this descriptor was built from an audio stream
// header; video and other stream types are registered but never decoded.
func (s *StreamDescriptor) IsAudio() bool { return s.CodecTag != 0 }

// Descrambled reports whether this stream's media objects require the
// chunk permutation in descramble.go, applied once their payloads are
// reassembled.
func (s *StreamDescriptor) Descrambled() bool {
	return s.Span > 1 && s.ChunkSize > 0 && s.PacketSize%s.ChunkSize == 0
}

// fragmentBuffer accumulates a single media object's fragments as they
// arrive across one or more packets. filled is always the length of a
// contiguous [0, filled) prefix — the Fragment monotonicity invariant
// (§8 invariant 6).
type fragmentBuffer struct {
	objectSize int
	sequence   int
	buf        []byte
	filled     int
	started    bool
	timestamp  uint32
}

// reset clears the in-flight buffer, discarding any partial object.
func (f *fragmentBuffer) reset() {
	f.buf = nil
	f.filled = 0
	f.started = false
	f.objectSize = 0
	f.sequence = 0
}

// start begins a new in-flight object of the given size, sequence and
// timestamp.
func (f *fragmentBuffer) start(objectSize, sequence int, timestamp uint32) {
	f.objectSize = objectSize
	f.sequence = sequence
	f.timestamp = timestamp
	f.buf = make([]byte, objectSize)
	f.filled = 0
	f.started = true
}

// accept appends payload at fragmentOffset, returning true if the object
// is now complete. The caller has already validated admission per §4.5's
// fragment reassembly invariant.
func (f *fragmentBuffer) accept(fragmentOffset int, payload []byte) bool {
	end := fragmentOffset + len(payload)
	if end > len(f.buf) {
		end = len(f.buf)
		payload = payload[:end-fragmentOffset]
	}
	copy(f.buf[fragmentOffset:end], payload)
	if end > f.filled {
		f.filled = end
	}
	return f.filled >= f.objectSize
}

// emit returns the completed object's bytes and resets the buffer.
func (f *fragmentBuffer) emit() []byte {
	out := f.buf
	f.reset()
	return out
}
