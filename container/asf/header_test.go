/*
DESCRIPTION
  header_test.go provides testing for functionality in header.go.

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
	"encoding/binary"
	"errors"
	"testing"
)

// putObjectHeader appends a GUID+size object header to buf.
func putObjectHeader(buf *bytes.Buffer, g GUID, size uint64) {
	buf.Write(g[:])
	var sz [8]byte
	binary.LittleEndian.PutUint64(sz[:], size)
	buf.Write(sz[:])
}

// buildFileProperties returns a complete File Properties object (header +
// fixed 80-byte body) declaring packetSize.
func buildFileProperties(packetSize int) []byte {
	var buf bytes.Buffer
	putObjectHeader(&buf, FilePropertiesObject, uint64(minObjectHeaderSize+minFilePropObjSize))
	body := make([]byte, minFilePropObjSize)
	binary.LittleEndian.PutUint64(body[32:40], 10) // data packets count.
	binary.LittleEndian.PutUint64(body[40:48], 50000000) // play duration, 100ns units (5s).
	binary.LittleEndian.PutUint32(body[72:76], uint32(packetSize))
	buf.Write(body)
	return buf.Bytes()
}

// buildAudioStreamProperties returns a complete Stream Properties object
// for a WMAv2 audio stream with the given id/channels/sampleRate.
func buildAudioStreamProperties(id int, codecTag uint16, channels, sampleRate int) []byte {
	wfx := make([]byte, 18)
	binary.LittleEndian.PutUint16(wfx[0:2], codecTag)
	binary.LittleEndian.PutUint16(wfx[2:4], uint16(channels))
	binary.LittleEndian.PutUint32(wfx[4:8], uint32(sampleRate))
	binary.LittleEndian.PutUint32(wfx[8:12], uint32(sampleRate*channels*2))
	binary.LittleEndian.PutUint16(wfx[12:14], uint16(channels*2))
	binary.LittleEndian.PutUint16(wfx[14:16], 16)
	binary.LittleEndian.PutUint16(wfx[16:18], 0) // no extradata.

	const fixedLen = 16 + 16 + 8 + 4 + 4 + 4 + 1 + 1
	body := make([]byte, fixedLen+len(wfx))
	copy(body[0:16], AudioMediaStreamType[:])
	binary.LittleEndian.PutUint32(body[40:44], uint32(len(wfx)))
	body[fixedLen-2] = byte(id & 0x7F)
	copy(body[fixedLen:], wfx)

	var buf bytes.Buffer
	putObjectHeader(&buf, StreamPropertiesObject, uint64(minObjectHeaderSize+len(body)))
	buf.Write(body)
	return buf.Bytes()
}

// buildMinimalASFHeader assembles a full ASF header object (top-level
// header + file properties + one audio stream properties + data object)
// around the given sub-objects, returning the bytes from the very start
// of the file.
func buildMinimalASFHeader(subObjects ...[]byte) []byte {
	var sub bytes.Buffer
	for _, o := range subObjects {
		sub.Write(o)
	}

	var buf bytes.Buffer
	headerSize := uint64(minASFHeaderObjSize) + uint64(sub.Len())
	putObjectHeader(&buf, HeaderObject, headerSize)
	var preamble [6]byte
	binary.LittleEndian.PutUint32(preamble[0:4], uint32(len(subObjects)))
	buf.Write(preamble[:])
	buf.Write(sub.Bytes())
	return buf.Bytes()
}

// buildHeaderExtension returns a minimal, otherwise-ignored Header
// Extension object, used purely to pad the sub-object count up to the
// minimum of 4 the digler-grounded validation in readHeader requires.
func buildHeaderExtension() []byte {
	var buf bytes.Buffer
	putObjectHeader(&buf, HeaderExtensionObject, uint64(minObjectHeaderSize+22))
	buf.Write(make([]byte, 22))
	return buf.Bytes()
}

func buildDataObject() []byte {
	var buf bytes.Buffer
	putObjectHeader(&buf, DataObject, uint64(minObjectHeaderSize+26))
	buf.Write(make([]byte, 26)) // file id(16) + total data packets(8) + reserved(2).
	return buf.Bytes()
}

func TestReadHeaderParsesAudioStreamAndPacketSize(t *testing.T) {
	raw := buildMinimalASFHeader(
		buildFileProperties(3200),
		buildAudioStreamProperties(1, 0x0161, 2, 44100),
		buildHeaderExtension(),
		buildDataObject(),
	)
	streams, _, fp, dataOffset, err := readHeader(bytes.NewReader(raw))
	if err != nil {
		t.Fatalf("readHeader: %v", err)
	}
	if len(streams) != 1 {
		t.Fatalf("got %d streams, want 1", len(streams))
	}
	sd := streams[0]
	if !sd.IsAudio() || sd.CodecTag != 0x0161 {
		t.Fatalf("stream = %+v, want WMAv2 audio", sd)
	}
	if sd.Channels != 2 || sd.SampleRate != 44100 {
		t.Fatalf("stream = %+v, want channels=2 sampleRate=44100", sd)
	}
	if fp.PacketSize != 3200 {
		t.Fatalf("packet size = %d, want 3200", fp.PacketSize)
	}
	if dataOffset != int64(len(raw)) {
		t.Fatalf("dataOffset = %d, want %d (end of header)", dataOffset, len(raw))
	}
}

// TestReadHeaderRejectsUndersizedHeaderObject covers §8 scenario 6: a
// truncated ASF whose header object claims a size of 20 must fail with
// ErrInvalidContainer.
func TestReadHeaderRejectsUndersizedHeaderObject(t *testing.T) {
	var buf bytes.Buffer
	putObjectHeader(&buf, HeaderObject, 20)
	_, _, _, _, err := readHeader(&buf)
	if !errors.Is(err, ErrInvalidContainer) {
		t.Fatalf("got err = %v, want ErrInvalidContainer", err)
	}
}

func TestReadHeaderRejectsWrongTopGUID(t *testing.T) {
	var buf bytes.Buffer
	putObjectHeader(&buf, DataObject, 30)
	_, _, _, _, err := readHeader(&buf)
	if !errors.Is(err, ErrInvalidContainer) {
		t.Fatalf("got err = %v, want ErrInvalidContainer", err)
	}
}
