/*
NAME
  header.go

DESCRIPTION
  header.go parses the ASF header object: the repeated GUID+size object
  list dispatched into file properties, stream properties, comment and
  extended-content metadata, and the data object that marks the end of
  the header (§4.5).

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
	"encoding/binary"
	"fmt"
	"io"
	"unicode/utf16"
)

const (
	minObjectHeaderSize = 24 // 16-byte GUID + 8-byte little-endian size.
	minASFHeaderObjSize = 30
)

// Metadata holds the subset of ASF comment/extended-content fields
// SPEC_FULL's metadata exposure requires, in addition to the free-form
// Extended map every recognised and unrecognised key/value lands in.
type Metadata struct {
	Title, Author, Copyright, Comment, Rating string

	AlbumTitle string
	Genre      string
	Year       string
	Track      string

	Extended map[string]string
}

// fileProperties holds the file-level fields §4.5 requires out of the
// File Properties object: packet count, play duration and the fixed ASF
// packet size every data packet is aligned to.
type fileProperties struct {
	PacketCount  uint64
	PlayDuration uint64 // 100ns units.
	MaxBitrate   uint32
	PacketSize   int
}

const minFilePropObjSize = 80

// readHeader consumes the ASF header object from src (positioned at its
// start) and returns the parsed streams, metadata, file properties and
// the byte offset of the first media packet (data_offset).
func readHeader(r io.Reader) ([]*StreamDescriptor, Metadata, fileProperties, int64, error) {
	var streams []*StreamDescriptor
	var fp fileProperties
	meta := Metadata{Extended: make(map[string]string)}

	top, err := readObjectHeader(r)
	if err != nil {
		return nil, meta, fp, 0, fmt.Errorf("asf: could not read header object: %w", err)
	}
	if top.guid != HeaderObject {
		return nil, meta, fp, 0, fmt.Errorf("%w: first object is not the ASF header GUID", ErrInvalidContainer)
	}
	if top.size < minASFHeaderObjSize {
		return nil, meta, fp, 0, fmt.Errorf("%w: header object size %d below minimum %d", ErrInvalidContainer, top.size, minASFHeaderObjSize)
	}

	rest := make([]byte, 6) // num_header_objects(4) + 2 reserved bytes.
	if _, err := io.ReadFull(r, rest); err != nil {
		return nil, meta, fp, 0, fmt.Errorf("%w: truncated header preamble: %v", ErrInvalidContainer, err)
	}
	numObjects := binary.LittleEndian.Uint32(rest[0:4])
	if numObjects < 4 {
		return nil, meta, fp, 0, fmt.Errorf("%w: header declares only %d sub-objects", ErrInvalidContainer, numObjects)
	}

	var dataOffset int64
	consumed := int64(minASFHeaderObjSize)
	var sawData bool

	for i := uint32(0); i < numObjects && !sawData; i++ {
		oh, err := readObjectHeader(r)
		if err != nil {
			return nil, meta, fp, 0, fmt.Errorf("%w: truncated sub-object header: %v", ErrInvalidContainer, err)
		}
		if oh.size < minObjectHeaderSize {
			return nil, meta, fp, 0, fmt.Errorf("%w: sub-object size %d below minimum %d", ErrInvalidContainer, oh.size, minObjectHeaderSize)
		}
		body := make([]byte, oh.size-minObjectHeaderSize)
		if _, err := io.ReadFull(r, body); err != nil {
			return nil, meta, fp, 0, fmt.Errorf("%w: truncated sub-object body: %v", ErrInvalidContainer, err)
		}
		consumed += int64(oh.size)

		switch oh.guid {
		case FilePropertiesObject:
			if len(body) >= minFilePropObjSize {
				fp.PacketCount = binary.LittleEndian.Uint64(body[32:40])
				fp.PlayDuration = binary.LittleEndian.Uint64(body[40:48])
				fp.PacketSize = int(binary.LittleEndian.Uint32(body[72:76]))
				fp.MaxBitrate = binary.LittleEndian.Uint32(body[76:80])
			}
		case StreamPropertiesObject:
			sd, err := parseStreamProperties(body)
			if err != nil {
				return nil, meta, fp, 0, err
			}
			if sd != nil {
				streams = append(streams, sd)
			}
		case ContentDescriptionObject:
			parseContentDescription(body, &meta)
		case ExtContentDescriptionObject:
			parseExtContentDescription(body, &meta)
		case DataObject:
			dataOffset = consumed
			sawData = true
		default:
			// Header extension, codec list, stream bitrate properties and
			// any unrecognised object: skip, already consumed above.
		}
	}

	if !sawData {
		return nil, meta, fp, 0, fmt.Errorf("%w: no data object found before EOF", ErrInvalidContainer)
	}
	if fp.PacketSize <= 0 {
		return nil, meta, fp, 0, fmt.Errorf("%w: file properties object missing or declares a non-positive packet size", ErrInvalidContainer)
	}
	return streams, meta, fp, dataOffset, nil
}

type objectHeader struct {
	guid GUID
	size uint64
}

func readObjectHeader(r io.Reader) (objectHeader, error) {
	buf := make([]byte, minObjectHeaderSize)
	if _, err := io.ReadFull(r, buf); err != nil {
		return objectHeader{}, err
	}
	return objectHeader{
		guid: parseGUID(buf[:16]),
		size: binary.LittleEndian.Uint64(buf[16:24]),
	}, nil
}

// parseStreamProperties parses a stream properties object body (already
// past the 24-byte GUID+size header) into a StreamDescriptor. Only audio
// streams are populated with WAVEFORMATEX fields; other stream types are
// returned with CodecTag == 0 so IsAudio reports false and the demux skips
// their payloads.
func parseStreamProperties(body []byte) (*StreamDescriptor, error) {
	const fixedLen = 16 + 16 + 8 + 4 + 4 + 4 + 1 + 1
	if len(body) < fixedLen {
		return nil, fmt.Errorf("%w: stream properties object truncated", ErrInvalidContainer)
	}
	streamType := parseGUID(body[0:16])
	typeSpecificLen := binary.LittleEndian.Uint32(body[40:44])
	flags := body[fixedLen-2]
	streamID := int(flags & 0x7F)

	sd := &StreamDescriptor{StreamID: streamID}
	if streamType != AudioMediaStreamType {
		return sd, nil // registered, but never decoded.
	}

	typeSpecific := body[fixedLen:]
	if uint32(len(typeSpecific)) < typeSpecificLen || typeSpecificLen < 18 {
		return nil, fmt.Errorf("%w: audio stream type-specific data truncated", ErrInvalidContainer)
	}
	wfx := typeSpecific[:typeSpecificLen]

	sd.CodecTag = binary.LittleEndian.Uint16(wfx[0:2])
	sd.Channels = int(binary.LittleEndian.Uint16(wfx[2:4]))
	sd.SampleRate = int(binary.LittleEndian.Uint32(wfx[4:8]))
	sd.ByteRate = int(binary.LittleEndian.Uint32(wfx[8:12]))
	sd.BlockAlign = int(binary.LittleEndian.Uint16(wfx[12:14]))
	sd.BitsPerSample = int(binary.LittleEndian.Uint16(wfx[14:16]))
	extraLen := int(binary.LittleEndian.Uint16(wfx[16:18]))
	wfxEnd := 18
	if extraLen > 0 && 18+extraLen <= len(wfx) {
		sd.Extradata = append([]byte(nil), wfx[18:18+extraLen]...)
		wfxEnd = 18 + extraLen
	}

	// Trailing descrambling parameters (span, packet size, chunk size,
	// data size, silence-data flag), present only when the stream
	// properties object carries more type-specific bytes than the
	// WAVEFORMATEX region needs; grounded on
	// original_source/WmaDecoder/Wma_asf.cpp's ds_span/ds_packet_size/
	// ds_chunk_size read immediately following get_wav_header.
	if rem := wfx[wfxEnd:]; len(rem) >= 8 {
		span := int(rem[0])
		packetSize := int(binary.LittleEndian.Uint16(rem[1:3]))
		chunkSize := int(binary.LittleEndian.Uint16(rem[3:5]))
		if span > 1 && chunkSize > 0 && packetSize/chunkSize > 1 {
			sd.Span = span
			sd.PacketSize = packetSize
			sd.ChunkSize = chunkSize
		}
	}
	return sd, nil
}

// parseContentDescription reads the fixed five-field title/author/
// copyright/comment/rating comment header (UTF-16LE strings, each
// preceded by its own 16-bit length).
func parseContentDescription(body []byte, meta *Metadata) {
	if len(body) < 10 {
		return
	}
	lens := make([]int, 5)
	for i := 0; i < 5; i++ {
		lens[i] = int(binary.LittleEndian.Uint16(body[i*2 : i*2+2]))
	}
	off := 10
	fields := make([]string, 5)
	for i, l := range lens {
		end := off + l
		if end > len(body) {
			break
		}
		fields[i] = utf16leToString(body[off:end])
		off = end
	}
	meta.Title, meta.Author, meta.Copyright, meta.Comment, meta.Rating = fields[0], fields[1], fields[2], fields[3], fields[4]
}

// parseExtContentDescription reads the key/value, typed extended-content
// description object, recognising the four WM/* tags SPEC_FULL names and
// stashing every key (recognised or not) in meta.Extended.
func parseExtContentDescription(body []byte, meta *Metadata) {
	if len(body) < 2 {
		return
	}
	count := int(binary.LittleEndian.Uint16(body[0:2]))
	off := 2
	for i := 0; i < count; i++ {
		if off+2 > len(body) {
			return
		}
		nameLen := int(binary.LittleEndian.Uint16(body[off : off+2]))
		off += 2
		if off+nameLen > len(body) {
			return
		}
		name := utf16leToString(body[off : off+nameLen])
		off += nameLen
		if off+4 > len(body) {
			return
		}
		valueType := binary.LittleEndian.Uint16(body[off : off+2])
		valueLen := int(binary.LittleEndian.Uint16(body[off+2 : off+4]))
		off += 4
		if off+valueLen > len(body) {
			return
		}
		value := decodeExtValue(valueType, body[off:off+valueLen])
		off += valueLen

		meta.Extended[name] = value
		switch name {
		case "WM/AlbumTitle":
			meta.AlbumTitle = value
		case "WM/Genre":
			meta.Genre = value
		case "WM/Year":
			meta.Year = value
		case "WM/Track", "WM/TrackNumber":
			meta.Track = value
		}
	}
}

// decodeExtValue renders an extended-content value as a string regardless
// of its declared type (0=UTF-16LE string, 2=bool, 3=uint32, 4=uint64,
// 5=uint16, 1=byte array); only the string rendering is needed here.
func decodeExtValue(valueType uint16, b []byte) string {
	switch valueType {
	case 0:
		return utf16leToString(b)
	case 3:
		if len(b) >= 4 {
			return fmt.Sprintf("%d", binary.LittleEndian.Uint32(b))
		}
	case 4:
		if len(b) >= 8 {
			return fmt.Sprintf("%d", binary.LittleEndian.Uint64(b))
		}
	case 5:
		if len(b) >= 2 {
			return fmt.Sprintf("%d", binary.LittleEndian.Uint16(b))
		}
	case 2:
		if len(b) >= 2 && b[0] != 0 {
			return "true"
		}
		return "false"
	}
	return fmt.Sprintf("% x", b)
}

func utf16leToString(b []byte) string {
	if len(b) >= 2 && b[len(b)-1] == 0 && b[len(b)-2] == 0 {
		b = b[:len(b)-2] // drop the trailing UTF-16 NUL terminator.
	}
	u16 := make([]uint16, len(b)/2)
	for i := range u16 {
		u16[i] = binary.LittleEndian.Uint16(b[i*2 : i*2+2])
	}
	return string(utf16.Decode(u16))
}
