/*
NAME
  seek.go

DESCRIPTION
  seek.go implements position/pts-bracketing seeking (§4.5, §9), a
  deliberately simpler replacement for the reference decoder's keyframe
  index walker, which §9 notes "can loop when all frames are key frames."

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
	"time"
)

// indexEntry records a packet's absolute byte offset and its send-time
// timestamp, accumulated as SeekTo scans so later seeks can bisect against
// known points instead of rescanning from the start.
type indexEntry struct {
	offset    int64
	timestamp time.Duration
}

// SeekTo repositions the demuxer at a packet whose send time is at or
// before pts (an exact match if the bisection meets one, else the latest
// earlier packet it found), or at the first packet if every probed packet
// is later. It narrows the bracket with index entries from earlier seeks,
// then bisects monotonically over packet send-time, per §9's Open Question
// decision: never loop, and treat the index as a cache that only grows.
func (d *Demuxer) SeekTo(pts time.Duration) error {
	size, err := d.src.Size()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrIoError, err)
	}
	dataLen := size - d.dataOffset
	if dataLen < int64(d.packetSize) {
		return fmt.Errorf("asf: no packets to seek within")
	}
	numPackets := dataLen / int64(d.packetSize)

	lo, hi := int64(0), numPackets-1
	var best int64

	for _, e := range d.index {
		idx := (e.offset - d.dataOffset) / int64(d.packetSize)
		if idx < lo || idx > hi {
			continue
		}
		if e.timestamp <= pts {
			best, lo = idx, idx+1
		} else {
			hi = idx - 1
		}
	}

	for iterations := int64(0); lo <= hi && iterations <= numPackets; iterations++ {
		mid := lo + (hi-lo)/2
		ts, err := d.packetTimestamp(mid)
		if err != nil {
			return err
		}
		d.recordIndex(mid, ts)
		switch {
		case ts == pts:
			best = mid
			lo, hi = mid, mid-1 // exact match: stop.
		case ts < pts:
			best = mid
			lo = mid + 1
		default:
			hi = mid - 1
		}
	}

	offset := d.dataOffset + best*int64(d.packetSize)
	if _, err := d.src.Seek(offset, io.SeekStart); err != nil {
		return fmt.Errorf("%w: %v", ErrIoError, err)
	}
	d.pending = nil
	for _, sd := range d.Streams {
		sd.inFlight.reset()
	}
	return nil
}

// recordIndex appends a newly-discovered index entry if it isn't already
// present, keeping the index a monotone, append-only cache.
func (d *Demuxer) recordIndex(packetIdx int64, ts time.Duration) {
	offset := d.dataOffset + packetIdx*int64(d.packetSize)
	for _, e := range d.index {
		if e.offset == offset {
			return
		}
	}
	d.index = append(d.index, indexEntry{offset: offset, timestamp: ts})
}

// packetTimestamp reads just enough of packet index packetIdx to recover
// its send-time field, without running full payload admission.
func (d *Demuxer) packetTimestamp(packetIdx int64) (time.Duration, error) {
	offset := d.dataOffset + packetIdx*int64(d.packetSize)
	if _, err := d.src.Seek(offset, io.SeekStart); err != nil {
		return 0, fmt.Errorf("%w: %v", ErrIoError, err)
	}
	raw := make([]byte, d.packetSize)
	if _, err := io.ReadFull(d.src, raw); err != nil {
		return 0, fmt.Errorf("%w: %v", ErrIoError, err)
	}

	c := &byteCursor{buf: raw}
	ecc, ok := c.readByte()
	if !ok || ecc != eccByte {
		return 0, nil // malformed packet: treat as zero timestamp.
	}
	flags, ok := c.readByte()
	if !ok {
		return 0, nil
	}
	if _, ok := c.readByte(); !ok { // packet property, unused here.
		return 0, nil
	}
	lengthType := (flags >> 1) & 0x3
	seqType := (flags >> 5) & 0x3
	paddingType := (flags >> 3) & 0x3
	if _, ok := c.readWidth(lengthType); !ok {
		return 0, nil
	}
	if _, ok := c.readWidth(seqType); !ok {
		return 0, nil
	}
	if _, ok := c.readWidth(paddingType); !ok {
		return 0, nil
	}
	sendTime, ok := c.readBytes(4)
	if !ok {
		return 0, nil
	}
	ms := binary.LittleEndian.Uint32(sendTime)
	return time.Duration(ms) * time.Millisecond, nil
}
