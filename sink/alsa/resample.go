/*
NAME
  resample.go

DESCRIPTION
  resample.go adapts codec/pcm/pcm.go's Resample into a decimating
  downsampler over interleaved []int16 frames (rather than raw SFormat
  byte buffers), for the case where the playback device negotiates a rate
  lower than the decoded stream's native rate.

AUTHORS
  Saxon Nelson-Milton <saxon@ausocean.org>, The Australian Ocean Laboratory (AusOcean)

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

//go:build linux
// +build linux

package alsa

import "fmt"

// downsampleRatio reports the integer decimation factor to go from rate to
// negotiatedRate, or ok=false if negotiatedRate doesn't evenly divide rate
// (the only case codec/pcm.Resample supported, carried over here).
func downsampleRatio(rate, negotiatedRate int) (ratio int, ok bool) {
	if negotiatedRate <= 0 || rate <= 0 || negotiatedRate > rate {
		return 0, false
	}
	if rate%negotiatedRate != 0 {
		return 0, false
	}
	return rate / negotiatedRate, true
}

// downsample averages every ratio consecutive frames (per channel) into
// one, the same box-filter decimation codec/pcm.Resample performs over
// raw byte buffers.
func downsample(pcm []int16, channels, ratio int) ([]int16, error) {
	if ratio <= 1 {
		return pcm, nil
	}
	if channels <= 0 {
		return nil, fmt.Errorf("alsa: invalid channel count %d", channels)
	}
	frameLen := len(pcm) / channels
	outFrames := frameLen / ratio
	out := make([]int16, outFrames*channels)
	for f := 0; f < outFrames; f++ {
		for c := 0; c < channels; c++ {
			var sum int
			for j := 0; j < ratio; j++ {
				sum += int(pcm[(f*ratio+j)*channels+c])
			}
			out[f*channels+c] = int16(sum / ratio)
		}
	}
	return out, nil
}
