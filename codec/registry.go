/*
NAME
  registry.go

AUTHOR
  Saxon Nelson-Milton <saxon@ausocean.org>, The Australian Ocean Laboratory (AusOcean)

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package codec names the WMA codec tags this module recognises.
package codec

// Recognised WAVEFORMATEX codec tags (wFormatTag), as used by
// container/asf to select an audio stream and by wma.New to pick a
// decode path.
const (
	WMAv1 = 0x0160
	WMAv2 = 0x0161
)

// IsValid reports whether tag is a codec this module can decode.
// When adding or removing a supported codec tag, update this switch.
func IsValid(tag uint16) bool {
	switch tag {
	case WMAv1, WMAv2:
		return true
	default:
		return false
	}
}

// Name returns the human-readable name for a recognised codec tag, or
// "" if tag is not recognised.
func Name(tag uint16) string {
	switch tag {
	case WMAv1:
		return "wmav1"
	case WMAv2:
		return "wmav2"
	default:
		return ""
	}
}
