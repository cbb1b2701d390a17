/*
NAME
  main.go

DESCRIPTION
  wma2wav is a small CLI that decodes a WMA v1/v2 stream carried in an ASF
  container to a WAV file (§6): `wma2wav INPUT.wma OUTPUT.wav`. An
  additional `-play` flag (beyond spec.md's two-argument form, per §C.4)
  also streams the decoded audio to the default ALSA playback device on
  Linux.

AUTHORS
  Saxon Nelson-Milton <saxon@ausocean.org>, The Australian Ocean Laboratory (AusOcean)

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// wma2wav decodes a WMA/ASF file to a WAV file, per §6.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/pkg/errors"
	lumberjack "gopkg.in/natefinch/lumberjack.v2"

	"github.com/ausocean/utils/logging"

	"github.com/ausocean/wma/container/asf"
	"github.com/ausocean/wma/pipeline"
	"github.com/ausocean/wma/sink"
	sinkwav "github.com/ausocean/wma/sink/wav"
	"github.com/ausocean/wma/wma"
)

// Logging configuration, matching cmd/speaker/main.go's lumberjack setup.
const (
	logPath      = "wma2wav.log"
	logMaxSize   = 10 // MB
	logMaxBackup = 3
	logMaxAge    = 28 // days
	logVerbosity = logging.Info
	logSuppress  = true
)

func main() {
	playPtr := flag.Bool("play", false, "also stream decoded audio to the default ALSA playback device (linux only)")
	verbosePtr := flag.Bool("v", false, "log at debug level")
	flag.Parse()

	if flag.NArg() != 2 {
		fmt.Fprintln(os.Stderr, "usage: wma2wav [-play] [-v] INPUT.wma OUTPUT.wav")
		os.Exit(1)
	}
	inPath, outPath := flag.Arg(0), flag.Arg(1)

	lvl := int8(logVerbosity)
	if *verbosePtr {
		lvl = logging.Debug
	}
	fileLog := &lumberjack.Logger{
		Filename:   logPath,
		MaxSize:    logMaxSize,
		MaxBackups: logMaxBackup,
		MaxAge:     logMaxAge,
	}
	log := logging.New(lvl, io.MultiWriter(fileLog, os.Stderr), logSuppress)

	if err := run(log, inPath, outPath, *playPtr); err != nil {
		log.Error("wma2wav failed", "error", err.Error())
		fmt.Fprintf(os.Stderr, "wma2wav: %v\n", err)
		os.Exit(1)
	}
}

func run(log logging.Logger, inPath, outPath string, play bool) error {
	log.Debug("opening input", "path", inPath)
	src, err := asf.OpenFile(inPath)
	if err != nil {
		return errors.Wrap(err, "opening input")
	}
	defer src.Close()

	dmx, err := asf.Open(src, log)
	if err != nil {
		return errors.Wrap(err, "opening ASF container")
	}
	defer dmx.Close()

	as := dmx.AudioStream
	log.Info("selected audio stream",
		"id", as.StreamID, "codecTag", as.CodecTag,
		"channels", as.Channels, "sampleRate", as.SampleRate)

	dec, err := wma.New(log, as.CodecTag, as.SampleRate, as.Channels, as.ByteRate*8, as.Extradata)
	if err != nil {
		return errors.Wrap(err, "initialising decoder")
	}

	out, err := os.Create(outPath)
	if err != nil {
		return fmt.Errorf("creating output: %w", err)
	}
	defer out.Close()

	wavSink, err := sinkwav.NewWriter(out, sinkwav.Metadata{
		Channels:   as.Channels,
		SampleRate: as.SampleRate,
		BitDepth:   as.BitsPerSample,
	})
	if err != nil {
		return fmt.Errorf("initialising wav writer: %w", err)
	}

	var sinks []sink.Sink = []sink.Sink{wavSink}
	if play {
		playSink, err := openPlaySink(log, as.Channels, as.SampleRate)
		if err != nil {
			log.Warning("could not open playback sink, continuing with wav output only", "error", err)
		} else {
			sinks = append(sinks, playSink)
		}
	}

	drv := pipeline.New(log, dmx, dec, multiSink(sinks))
	stats, err := drv.Run()
	for _, s := range sinks {
		if cerr := s.Close(); cerr != nil {
			log.Warning("sink close failed", "error", cerr.Error())
		}
	}
	if err != nil {
		return fmt.Errorf("decoding: %w", err)
	}

	log.Info("decode complete",
		"frames", stats.FramesDecoded, "corruptBlocks", stats.CorruptBlocks)
	return nil
}

// multiSink fans WriteFrame out to every sink in s, matching the
// ioext.MultiWriteCloser fan-out pattern revid/pipeline.go uses for its
// senders.
type multiSink []sink.Sink

func (m multiSink) WriteFrame(pcm []int16) error {
	for _, s := range m {
		if err := s.WriteFrame(pcm); err != nil {
			return err
		}
	}
	return nil
}

func (m multiSink) Close() error { return nil } // individual sinks are closed by run.
