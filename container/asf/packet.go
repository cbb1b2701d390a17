/*
NAME
  packet.go

DESCRIPTION
  packet.go parses one fixed-size ASF media packet into its payloads and
  admits each payload's fragment into its stream's in-flight reassembly
  buffer, per §4.5's packet-read algorithm and fragment reassembly
  invariant.

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

import "encoding/binary"

const eccByte = 0x82

// completedFrame is one fully reassembled compressed audio frame, ready
// to hand to the WMA decoder.
type completedFrame struct {
	StreamID int
	Data     []byte
}

// byteCursor is a small bounds-checked reader over an in-memory packet
// buffer, replacing raw pointer arithmetic per §9's "Manual pointer
// arithmetic" design note.
type byteCursor struct {
	buf []byte
	pos int
}

func (c *byteCursor) remaining() int { return len(c.buf) - c.pos }

func (c *byteCursor) readByte() (byte, bool) {
	if c.remaining() < 1 {
		return 0, false
	}
	b := c.buf[c.pos]
	c.pos++
	return b, true
}

func (c *byteCursor) readBytes(n int) ([]byte, bool) {
	if n < 0 || c.remaining() < n {
		return nil, false
	}
	b := c.buf[c.pos : c.pos+n]
	c.pos += n
	return b, true
}

// widthBytes maps the two-bit width codes of §4.5 (00/01/10/11) to a byte
// count (0/1/2/4).
func widthBytes(code byte) int {
	switch code & 0x3 {
	case 0:
		return 0
	case 1:
		return 1
	case 2:
		return 2
	default:
		return 4
	}
}

// readWidth reads widthBytes(code) little-endian bytes as a uint64,
// returning 0 for a zero-width ("default") field.
func (c *byteCursor) readWidth(code byte) (uint64, bool) {
	n := widthBytes(code)
	if n == 0 {
		return 0, true
	}
	b, ok := c.readBytes(n)
	if !ok {
		return 0, false
	}
	switch n {
	case 1:
		return uint64(b[0]), true
	case 2:
		return uint64(binary.LittleEndian.Uint16(b)), true
	default:
		return uint64(binary.LittleEndian.Uint32(b)), true
	}
}

// parsePacket parses one raw packet buffer (exactly packetSize bytes) and
// admits every payload's fragment into its stream, returning any media
// objects that became complete as a result. streams is keyed by StreamID.
func parsePacket(raw []byte, streams map[int]*StreamDescriptor, defaultPacketSize int, log func(string, ...interface{})) []completedFrame {
	c := &byteCursor{buf: raw}

	ecc, ok := c.readByte()
	if !ok || ecc != eccByte {
		return nil // malformed/absent ECC: skip this packet entirely.
	}

	flags, ok := c.readByte()
	if !ok {
		return nil
	}
	property, ok := c.readByte()
	if !ok {
		return nil
	}

	multiPayload := flags&0x80 != 0
	seqType := (flags >> 5) & 0x3
	paddingType := (flags >> 3) & 0x3
	lengthType := (flags >> 1) & 0x3

	packetLen, ok := c.readWidth(lengthType)
	if !ok {
		return nil
	}
	if packetLen == 0 {
		packetLen = uint64(defaultPacketSize)
	}
	if _, ok := c.readWidth(seqType); !ok {
		return nil
	}
	paddingLen, ok := c.readWidth(paddingType)
	if !ok {
		return nil
	}

	// usableLen bounds how far a payload that "spans the rest" of the
	// packet may run: the declared packet length minus trailing padding,
	// not the full allocated buffer (which may extend past it).
	usableLen := int(packetLen) - int(paddingLen)
	if usableLen <= 0 || usableLen > len(raw) {
		usableLen = len(raw)
	}

	if _, ok := c.readBytes(4); !ok { // send time.
		return nil
	}
	if _, ok := c.readBytes(2); !ok { // duration.
		return nil
	}

	replicatedType := (property >> 6) & 0x3
	fragOffsetType := (property >> 4) & 0x3
	mediaObjType := (property >> 2) & 0x3

	payloadCount := 1
	payloadSizeCode := byte(0)
	if multiPayload {
		segType, ok := c.readByte()
		if !ok {
			return nil
		}
		payloadCount = int(segType & 0x3F)
		payloadSizeCode = segType >> 6
	}

	var out []completedFrame
	for i := 0; i < payloadCount; i++ {
		streamByte, ok := c.readByte()
		if !ok {
			break
		}
		streamID := int(streamByte & 0x7F)

		mediaObjNum, ok := c.readWidth(mediaObjType)
		if !ok {
			break
		}
		fragOffset, ok := c.readWidth(fragOffsetType)
		if !ok {
			break
		}
		replSize, ok := c.readWidth(replicatedType)
		if !ok {
			break
		}

		var objectSize int
		var timestamp uint32
		var compressed bool
		switch {
		case replSize >= 8:
			rd, ok := c.readBytes(int(replSize))
			if !ok {
				return out
			}
			objectSize = int(binary.LittleEndian.Uint32(rd[0:4]))
			timestamp = binary.LittleEndian.Uint32(rd[4:8])
		case replSize == 1:
			compressed = true
			rd, ok := c.readBytes(1)
			if !ok {
				return out
			}
			timestamp = uint32(fragOffset)
			fragOffset = 0
			_ = rd // the single replicated byte is the presentation-time delta, unused here.
		default:
			// replSize == 0: no replicated data; offset/timestamp unknown.
		}

		var payloadLen int
		if multiPayload {
			n, ok := c.readWidth(payloadSizeCode)
			if !ok {
				return out
			}
			payloadLen = int(n)
		} else {
			payloadLen = usableLen - c.pos
			if payloadLen < 0 {
				payloadLen = 0
			}
		}

		if compressed {
			// A compressed multi-payload: a sequence of sub-payloads, each
			// prefixed by a 1-byte length, sharing one object timestamp.
			subBytes, ok := c.readBytes(payloadLen)
			if !ok {
				return out
			}
			out = append(out, admitCompressedSubPayloads(streamID, timestamp, subBytes, streams, log)...)
			continue
		}

		payload, ok := c.readBytes(payloadLen)
		if !ok {
			return out
		}

		sd := streams[streamID]
		if sd == nil {
			continue // unknown/unselected stream: drop the fragment.
		}
		if frame, ok := admitFragment(sd, int(mediaObjNum), objectSize, int(fragOffset), timestamp, payload, log); ok {
			out = append(out, completedFrame{StreamID: streamID, Data: frame})
		}
	}
	return out
}

// admitFragment applies §4.5's fragment reassembly invariant: a payload
// is accepted if its fragment offset matches the in-flight buffer's
// filled prefix and it belongs to the same media object (approximated
// here, per §9's Open Question on the `sequence` field, by media object
// number); otherwise the in-flight buffer is discarded, and the payload
// itself is also dropped if its offset is nonzero.
func admitFragment(sd *StreamDescriptor, mediaObjNum, objectSize, fragOffset int, timestamp uint32, payload []byte, log func(string, ...interface{})) ([]byte, bool) {
	f := &sd.inFlight
	sameObject := f.started && f.sequence == mediaObjNum
	switch {
	case !f.started:
		if fragOffset != 0 {
			return nil, false // first fragment must start at offset 0.
		}
		size := objectSize
		if size <= 0 {
			size = len(payload)
		}
		f.start(size, mediaObjNum, timestamp)
	case sameObject && fragOffset == f.filled:
		// Contiguous continuation: accept.
	case sameObject:
		// Non-contiguous within the same object: treat as corrupt,
		// discard and restart if this looks like a new first fragment.
		log("asf: discarding in-flight object %d, fragment offset %d != filled %d", mediaObjNum, fragOffset, f.filled)
		f.reset()
		if fragOffset != 0 {
			return nil, false
		}
		size := objectSize
		if size <= 0 {
			size = len(payload)
		}
		f.start(size, mediaObjNum, timestamp)
	default:
		// Different object arriving while one is in flight: discard the
		// old one; admit the new payload only if it is a first fragment.
		f.reset()
		if fragOffset != 0 {
			return nil, false
		}
		size := objectSize
		if size <= 0 {
			size = len(payload)
		}
		f.start(size, mediaObjNum, timestamp)
	}

	complete := f.accept(fragOffset, payload)
	if !complete {
		return nil, false
	}
	return f.emit(), true
}

// admitCompressedSubPayloads splits a compressed multi-payload's body into
// its length-prefixed sub-payloads, each a complete, self-contained media
// object (no reassembly needed).
func admitCompressedSubPayloads(streamID int, timestamp uint32, body []byte, streams map[int]*StreamDescriptor, log func(string, ...interface{})) []completedFrame {
	sd := streams[streamID]
	if sd == nil {
		return nil
	}
	var out []completedFrame
	c := &byteCursor{buf: body}
	for c.remaining() > 0 {
		n, ok := c.readByte()
		if !ok {
			break
		}
		sub, ok := c.readBytes(int(n))
		if !ok {
			log("asf: truncated compressed sub-payload on stream %d", streamID)
			break
		}
		out = append(out, completedFrame{StreamID: streamID, Data: append([]byte(nil), sub...)})
	}
	return out
}
