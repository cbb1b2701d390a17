/*
NAME
  demux.go

DESCRIPTION
  demux.go ties the header parser, packet parser and descrambler together
  into the Demuxer type: Probe/Sniff a stream, Open it, and pull complete
  audio frames with ReadPacket, per §4.5 and §6.

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
	"fmt"
	"io"

	"github.com/ausocean/utils/logging"
	"github.com/ausocean/wma/codec"
)

// Demuxer pulls complete compressed audio frames out of an ASF byte
// stream. It is single-threaded and synchronous (§5): ReadPacket may
// block on the underlying Source but never spawns a goroutine.
type Demuxer struct {
	log logging.Logger
	src Source

	Streams     []*StreamDescriptor
	AudioStream *StreamDescriptor
	Metadata    Metadata

	dataOffset int64
	packetSize int

	pending []completedFrame // frames completed by a packet but not yet returned.
	index   []indexEntry     // built lazily by SeekTo.
}

// Sniff reports whether src begins with the ASF header GUID, per §4.5's
// probe step, leaving src positioned where it started. Grounded on the
// digler reference's ScanWMA header-GUID check.
func Sniff(src Source) (bool, error) {
	start, err := src.Tell()
	if err != nil {
		return false, fmt.Errorf("%w: %v", ErrIoError, err)
	}
	buf := make([]byte, 16)
	_, err = io.ReadFull(src, buf)
	if _, serr := src.Seek(start, io.SeekStart); serr != nil {
		return false, fmt.Errorf("%w: %v", ErrIoError, serr)
	}
	if err != nil {
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			return false, nil
		}
		return false, fmt.Errorf("%w: %v", ErrIoError, err)
	}
	return bytes.Equal(buf, HeaderObject[:]), nil
}

// Open parses src's ASF header and selects the first audio stream with a
// recognised WMA codec tag. It returns ErrUnsupportedStream if no audio
// stream is found.
func Open(src Source, log logging.Logger) (*Demuxer, error) {
	if log == nil {
		return nil, fmt.Errorf("asf: Open requires a non-nil logger")
	}
	ok, err := Sniff(src)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%w: missing ASF header GUID", ErrInvalidContainer)
	}

	streams, meta, fp, dataOffset, err := readHeader(src)
	if err != nil {
		return nil, err
	}

	var audio *StreamDescriptor
	for _, sd := range streams {
		if sd.IsAudio() && codec.IsValid(sd.CodecTag) {
			audio = sd
			break
		}
	}
	if audio == nil {
		return nil, fmt.Errorf("%w: no WMA v1/v2 audio stream found", ErrUnsupportedStream)
	}

	if _, err := src.Seek(dataOffset, io.SeekStart); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrIoError, err)
	}

	d := &Demuxer{
		log:         log,
		src:         src,
		Streams:     streams,
		AudioStream: audio,
		Metadata:    meta,
		dataOffset:  dataOffset,
		packetSize:  fp.PacketSize,
	}
	return d, nil
}

// byStreamID indexes d.Streams for packet parsing.
func (d *Demuxer) byStreamID() map[int]*StreamDescriptor {
	m := make(map[int]*StreamDescriptor, len(d.Streams))
	for _, sd := range d.Streams {
		m[sd.StreamID] = sd
	}
	return m
}

// ReadPacket returns the next complete audio frame from the selected
// audio stream, descrambling it first if the stream requires it. It
// returns io.EOF once the underlying source is exhausted.
func (d *Demuxer) ReadPacket() ([]byte, error) {
	for {
		for len(d.pending) > 0 {
			f := d.pending[0]
			d.pending = d.pending[1:]
			if f.StreamID != d.AudioStream.StreamID {
				continue
			}
			if d.AudioStream.Descrambled() {
				f.Data = Descramble(f.Data, d.AudioStream.Span, d.AudioStream.PacketSize, d.AudioStream.ChunkSize)
			}
			return f.Data, nil
		}

		raw := make([]byte, d.packetSize)
		n, err := io.ReadFull(d.src, raw)
		if err == io.EOF {
			return nil, io.EOF
		}
		if err == io.ErrUnexpectedEOF {
			// Trailing short packet at EOF: not a well-formed packet, end
			// of stream.
			return nil, io.EOF
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrIoError, err)
		}
		_ = n

		d.pending = parsePacket(raw, d.byStreamID(), d.packetSize, d.logf)
	}
}

func (d *Demuxer) logf(format string, args ...interface{}) {
	d.log.Debug(fmt.Sprintf(format, args...))
}

// Close releases the underlying Source if it implements io.Closer.
func (d *Demuxer) Close() error {
	if c, ok := d.src.(io.Closer); ok {
		return c.Close()
	}
	return nil
}
