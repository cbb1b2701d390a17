/*
NAME
  errors.go

DESCRIPTION
  errors.go defines the demultiplexer's error taxonomy sentinels (§7):
  InvalidContainer and UnsupportedStream are fatal at open; IoError wraps
  an underlying read/seek failure and always propagates.

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

import "errors"

var (
	// ErrInvalidContainer: wrong header GUID, truncated header, missing
	// data section, or a declared object size below the minimum.
	ErrInvalidContainer = errors.New("asf: invalid container")
	// ErrUnsupportedStream: no audio stream found, or an unknown codec tag.
	ErrUnsupportedStream = errors.New("asf: unsupported stream")
	// ErrIoError wraps an underlying Source read/seek failure; it always
	// propagates to the caller and terminates the pipeline.
	ErrIoError = errors.New("asf: io error")
)
