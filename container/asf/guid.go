/*
NAME
  guid.go

DESCRIPTION
  guid.go provides the GUID type used to tag every ASF object, and the set
  of well-known object GUIDs header.go dispatches on (§4.5).

AUTHORS
  Saxon Nelson-Milton <saxon@ausocean.org>, The Australian Ocean Laboratory (AusOcean)

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package asf implements a minimal demultiplexer for the Advanced Systems
// Format container: GUID-tagged object parsing, stream registration,
// packet/payload fragment reassembly and optional descrambling, producing
// complete compressed WMA frames for the wma package to decode (§4.5).
package asf

import "fmt"

// GUID is a 16-byte ASF object identifier, stored exactly as it appears on
// disk (little-endian for the first three fields, as-is for the last two),
// so Parse and the known-GUID constants below compare byte-for-byte.
type GUID [16]byte

func (g GUID) String() string {
	return fmt.Sprintf("%08X-%04X-%04X-%04X-%012X",
		uint32(g[0])|uint32(g[1])<<8|uint32(g[2])<<16|uint32(g[3])<<24,
		uint16(g[4])|uint16(g[5])<<8,
		uint16(g[6])|uint16(g[7])<<8,
		uint16(g[8])<<8|uint16(g[9]),
		[]byte{g[10], g[11], g[12], g[13], g[14], g[15]})
}

// Well-known ASF object and stream-type GUIDs, per the published MS-ASF
// specification (the same values ffmpeg/VLC/gstreamer and the digler
// reference use).
var (
	HeaderObject                = GUID{0x30, 0x26, 0xB2, 0x75, 0x8E, 0x66, 0xCF, 0x11, 0xA6, 0xD9, 0x00, 0xAA, 0x00, 0x62, 0xCE, 0x6C}
	FilePropertiesObject        = GUID{0xA1, 0xDC, 0xAB, 0x8C, 0x47, 0xA9, 0xCF, 0x11, 0x8E, 0xE4, 0x00, 0xC0, 0x0C, 0x20, 0x53, 0x65}
	StreamPropertiesObject      = GUID{0x91, 0x07, 0xDC, 0xB7, 0xB7, 0xA9, 0xCF, 0x11, 0x8E, 0xE6, 0x00, 0xC0, 0x0C, 0x20, 0x53, 0x65}
	HeaderExtensionObject       = GUID{0xB5, 0x03, 0xBF, 0x5F, 0x2E, 0xA9, 0xCF, 0x11, 0x8E, 0xE3, 0x00, 0xC0, 0x0C, 0x20, 0x53, 0x65}
	CodecListObject             = GUID{0x40, 0x52, 0xD1, 0x86, 0x1D, 0x31, 0xD0, 0x11, 0xA3, 0xA4, 0x00, 0xA0, 0xC9, 0x03, 0x48, 0xF6}
	StreamBitratePropsObject    = GUID{0xCE, 0x75, 0xF8, 0x7B, 0x8D, 0x46, 0xD1, 0x11, 0x8D, 0x82, 0x00, 0x60, 0x97, 0xC9, 0xA2, 0xB2}
	ContentDescriptionObject    = GUID{0x33, 0x26, 0xB2, 0x75, 0x8E, 0x66, 0xCF, 0x11, 0xA6, 0xD9, 0x00, 0xAA, 0x00, 0x62, 0xCE, 0x6C}
	ExtContentDescriptionObject = GUID{0x40, 0xA4, 0xD0, 0xD2, 0x07, 0xE3, 0xD2, 0x11, 0x97, 0xF0, 0x00, 0xA0, 0xC9, 0x5E, 0xA8, 0x50}
	DataObject                  = GUID{0x36, 0x26, 0xB2, 0x75, 0x8E, 0x66, 0xCF, 0x11, 0xA6, 0xD9, 0x00, 0xAA, 0x00, 0x62, 0xCE, 0x6C}
	SimpleIndexObject           = GUID{0x90, 0x08, 0x00, 0x33, 0xB1, 0xE5, 0xCF, 0x11, 0x89, 0xF4, 0x00, 0xA0, 0xC9, 0x03, 0x49, 0xCB}

	AudioMediaStreamType = GUID{0x40, 0x9E, 0x69, 0xF8, 0x4D, 0x5B, 0xCF, 0x11, 0xA8, 0xFD, 0x00, 0x80, 0x5F, 0x5C, 0x44, 0x2B}
	VideoMediaStreamType = GUID{0xC0, 0xEF, 0x19, 0xBC, 0x4D, 0x5B, 0xCF, 0x11, 0xA8, 0xFD, 0x00, 0x80, 0x5F, 0x5C, 0x44, 0x2B}
)

// parseGUID copies the 16 bytes at the start of b into a GUID. The caller
// is responsible for ensuring len(b) >= 16.
func parseGUID(b []byte) GUID {
	var g GUID
	copy(g[:], b[:16])
	return g
}
