/*
NAME
  wma.go

DESCRIPTION
  wma.go provides the WMA frame Decoder: codec tag/version selection and the
  static-table initialisation spec §4.4 describes as steps 1-6, run once per
  stream at open.

AUTHORS
  Saxon Nelson-Milton <saxon@ausocean.org>, The Australian Ocean Laboratory (AusOcean)

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package wma implements a WMA version 1 and 2 perceptual audio frame
// decoder: per-superframe exponent and coefficient decode, mid/side stereo
// decorrelation, inverse MDCT and windowed overlap-add, yielding signed
// 16-bit PCM.
package wma

import (
	"fmt"

	"github.com/ausocean/utils/logging"

	"github.com/ausocean/wma/codec"
	"github.com/ausocean/wma/dsp"
)

// Codec tags, the WAV format codes that select WMA version 1 or 2 (§6).
const (
	TagWMAv1 = codec.WMAv1
	TagWMAv2 = codec.WMAv2
)

// Block size bounds a decoder instance will accept, in samples per channel
// for the largest (index 0) block. Real streams stay well inside this
// range; initFrameLen clamps the derived frame length into it, so no
// sample rate can make the decoder allocate an unbounded table.
const (
	minFrameLen = 128
	maxFrameLen = 8192
)

// Decoder holds one stream's static tables (built once, read-only
// thereafter, §5) plus the small amount of state that persists across
// superframes: each channel's overlap-add tail and the carried-over bit
// reservoir.
type Decoder struct {
	log logging.Logger

	Version  int // 1 or 2, from the codec tag.
	Channels int
	SampleRate int
	Bitrate  int

	frameLen      int   // samples per channel in the largest supported block.
	blockSizes    []int // descending; blockSizes[0] == frameLen.
	variableBlock bool
	useExpVLC     bool
	useReservoir  bool
	useNoiseCoding bool

	bands      map[int][]band     // block size -> scale factor bands.
	transforms map[int]*dsp.Transform
	windows    map[int][]float64

	expTable   *huffmanTable
	coefTable  *huffmanTable
	coefSymbols []runLevel

	tail      [][]float64 // per channel: second half of the last block's windowed IMDCT, one block length long (frameLen/2 zeros before the first block).
	reservoir []byte      // bit-reservoir bytes carried over from the previous superframe.
}

// band is one scale-factor band of a block: the contiguous coefficient
// range [Start, Start+Width) that shares a single exponent.
type band struct {
	Start int
	Width int
}

// New builds a Decoder for a stream described by an ASF stream header:
// codec tag, sample rate, channel count, average bitrate and the opaque
// WMA extradata that followed the WAVEFORMATEX (§4.4 step 1-6). It returns
// a DecoderInitFailure-class error if extradata is too short or implies an
// impossible configuration — this is fatal at open, per §7.
func New(log logging.Logger, tag uint16, sampleRate, channels, bitrate int, extradata []byte) (*Decoder, error) {
	if log == nil {
		return nil, fmt.Errorf("wma: New requires a non-nil logger")
	}
	var version int
	switch tag {
	case TagWMAv1:
		version = 1
	case TagWMAv2:
		version = 2
	default:
		return nil, fmt.Errorf("wma: unsupported codec tag 0x%04x", tag)
	}
	if channels <= 0 || channels > 2 {
		return nil, fmt.Errorf("wma: unsupported channel count %d", channels)
	}
	if sampleRate <= 0 {
		return nil, fmt.Errorf("wma: invalid sample rate %d", sampleRate)
	}

	d := &Decoder{
		log:        log,
		Version:    version,
		Channels:   channels,
		SampleRate: sampleRate,
		Bitrate:    bitrate,
	}

	if err := d.initFlags(extradata); err != nil {
		return nil, err
	}
	if err := d.initFrameLen(); err != nil {
		return nil, err
	}
	if err := d.initBands(); err != nil {
		return nil, err
	}
	if err := d.initTransforms(); err != nil {
		return nil, err
	}
	if err := d.initHuffman(); err != nil {
		return nil, err
	}

	d.tail = make([][]float64, channels)
	for c := range d.tail {
		d.tail[c] = make([]float64, d.frameLen/2)
	}

	return d, nil
}

// initFrameLen computes frame_len as the smallest power of two at or above
// sampleRate/16 (§4.4 step 2: "frame_len / sample_rate ≈ 1/16 s"), clamped
// to [minFrameLen, maxFrameLen], and derives the supported block sizes as
// frameLen >> s.
func (d *Decoder) initFrameLen() error {
	target := d.SampleRate / 16
	if target <= 0 {
		target = minFrameLen
	}
	n := minFrameLen
	for n < target && n < maxFrameLen {
		n <<= 1
	}
	if n > maxFrameLen {
		return fmt.Errorf("wma: derived frame length %d exceeds supported maximum %d", n, maxFrameLen)
	}
	d.frameLen = n

	nb := 1
	if d.variableBlock {
		nb = 3
	}
	d.blockSizes = make([]int, nb)
	for s := 0; s < nb; s++ {
		sz := d.frameLen >> uint(s)
		if sz < 16 {
			return fmt.Errorf("wma: block size index %d collapses to %d, too small", s, sz)
		}
		d.blockSizes[s] = sz
	}
	return nil
}
