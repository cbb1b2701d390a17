/*
NAME
  source.go

DESCRIPTION
  source.go defines the byte-source interface the demultiplexer pulls ASF
  bytes from (§6), and a concrete implementation backed by an *os.File.

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
	"fmt"
	"io"
	"os"
)

// Source is the pull-model byte source the demultiplexer drives (§5, §6).
// The only yield points in the core are reads and seeks against a Source.
type Source interface {
	io.Reader
	io.Seeker
	// Tell returns the current offset from the start of the stream.
	Tell() (int64, error)
	// Size returns the total length of the stream in bytes.
	Size() (int64, error)
}

// FileSource adapts an *os.File to Source.
type FileSource struct {
	f *os.File
}

// OpenFile opens path and returns a Source over it.
func OpenFile(path string) (*FileSource, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("asf: could not open %q: %w", path, err)
	}
	return &FileSource{f: f}, nil
}

func (s *FileSource) Read(buf []byte) (int, error)              { return s.f.Read(buf) }
func (s *FileSource) Seek(offset int64, whence int) (int64, error) { return s.f.Seek(offset, whence) }
func (s *FileSource) Tell() (int64, error)                       { return s.f.Seek(0, io.SeekCurrent) }
func (s *FileSource) Close() error                               { return s.f.Close() }

func (s *FileSource) Size() (int64, error) {
	info, err := s.f.Stat()
	if err != nil {
		return 0, fmt.Errorf("asf: could not stat source: %w", err)
	}
	return info.Size(), nil
}
