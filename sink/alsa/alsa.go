/*
NAME
  alsa.go

DESCRIPTION
  alsa.go implements the optional live-playback sink from §C.4, adapted
  from device/alsa/alsa.go's device negotiation sequence (NegotiateChannels
  -> NegotiateRate -> NegotiateFormat -> NegotiatePeriodSize ->
  NegotiateBufferSize -> Prepare). Unlike the teacher's ALSA device, this
  is a playback-only sink with no ring buffer, no recording-period
  chunking, and no pause/stop state machine: a decode pipeline calls
  WriteFrame once per decoded superframe and Close once at the end.

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

// Package alsa provides an ALSA playback sink for decoded PCM audio.
package alsa

import (
	"encoding/binary"
	"errors"
	"fmt"

	yalsa "github.com/yobert/alsa"

	"github.com/ausocean/utils/logging"
)

var errNoPlaybackDevice = errors.New("alsa: no playback device found")

// Sink writes interleaved signed 16-bit PCM frames to the first available
// ALSA playback device, implementing sink.Sink.
type Sink struct {
	l     logging.Logger
	dev   *yalsa.Device
	chs   int
	rate  int
	ratio int // downsample ratio from the source rate to the negotiated rate; 1 if they match.
}

// Open negotiates and prepares an ALSA playback device for the given
// channel count and sample rate, logging each negotiated parameter the
// way device/alsa/alsa.go does.
func Open(l logging.Logger, channels, sampleRate int) (*Sink, error) {
	cards, err := yalsa.OpenCards()
	if err != nil {
		return nil, fmt.Errorf("alsa: opening cards: %w", err)
	}
	defer yalsa.CloseCards(cards)

	var dev *yalsa.Device
	for _, card := range cards {
		devices, err := card.Devices()
		if err != nil {
			continue
		}
		for _, d := range devices {
			if d.Type == yalsa.PCM && d.Play {
				dev = d
				break
			}
		}
		if dev != nil {
			break
		}
	}
	if dev == nil {
		return nil, errNoPlaybackDevice
	}

	l.Debug("opening alsa playback device", "title", dev.Title)
	if err := dev.Open(); err != nil {
		return nil, fmt.Errorf("alsa: opening device: %w", err)
	}

	gotChannels, err := dev.NegotiateChannels(channels)
	if err != nil {
		dev.Close()
		return nil, fmt.Errorf("alsa: negotiating channels: %w", err)
	}
	l.Debug("alsa channels negotiated", "channels", gotChannels)

	gotRate, err := dev.NegotiateRate(sampleRate)
	if err != nil {
		dev.Close()
		return nil, fmt.Errorf("alsa: negotiating rate: %w", err)
	}
	l.Debug("alsa rate negotiated", "rate", gotRate)

	if _, err := dev.NegotiateFormat(yalsa.S16_LE); err != nil {
		dev.Close()
		return nil, fmt.Errorf("alsa: negotiating format: %w", err)
	}

	const wantPeriodSize = 4096
	periodSize, err := dev.NegotiatePeriodSize(wantPeriodSize)
	if err != nil {
		dev.Close()
		return nil, fmt.Errorf("alsa: negotiating period size: %w", err)
	}
	l.Debug("alsa period size negotiated", "periodsize", periodSize)

	if _, err := dev.NegotiateBufferSize(periodSize * 4); err != nil {
		dev.Close()
		return nil, fmt.Errorf("alsa: negotiating buffer size: %w", err)
	}

	if err := dev.Prepare(); err != nil {
		dev.Close()
		return nil, fmt.Errorf("alsa: preparing device: %w", err)
	}

	ratio := 1
	if gotRate != sampleRate {
		if r, ok := downsampleRatio(sampleRate, gotRate); ok {
			l.Warning("alsa: device rate below stream rate, downsampling", "streamRate", sampleRate, "deviceRate", gotRate, "ratio", r)
			ratio = r
		} else {
			l.Warning("alsa: device negotiated an incompatible rate, playback will be pitched", "streamRate", sampleRate, "deviceRate", gotRate)
		}
	}

	return &Sink{l: l, dev: dev, chs: gotChannels, rate: gotRate, ratio: ratio}, nil
}

// WriteFrame writes one interleaved PCM frame to the device, downsampling
// first if the device negotiated a lower rate than the stream's native
// one.
func (s *Sink) WriteFrame(pcm []int16) error {
	if s.ratio > 1 {
		var err error
		pcm, err = downsample(pcm, s.chs, s.ratio)
		if err != nil {
			return fmt.Errorf("alsa: %w", err)
		}
	}
	buf := make([]byte, 2*len(pcm))
	for i, v := range pcm {
		binary.LittleEndian.PutUint16(buf[2*i:2*i+2], uint16(v))
	}
	if err := s.dev.Write(buf); err != nil {
		return fmt.Errorf("alsa: write failed: %w", err)
	}
	return nil
}

// Close closes the underlying ALSA device.
func (s *Sink) Close() error {
	s.dev.Close()
	return nil
}
