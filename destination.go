// Copyright 2025 The Rivaas Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package httplog

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/charmbracelet/colorprofile"
	"github.com/charmbracelet/x/ansi"
)

// DestinationKind distinguishes the supported log sinks.
type DestinationKind uint8

const (
	KindStdout DestinationKind = iota
	KindStderr
	KindStdin
	KindFile
	KindWriter
)

func (k DestinationKind) String() string {
	switch k {
	case KindStdout:
		return "stdout"
	case KindStderr:
		return "stderr"
	case KindStdin:
		return "stdin"
	case KindFile:
		return "file"
	case KindWriter:
		return "writer"
	}
	return fmt.Sprintf("DestinationKind(%d)", uint8(k))
}

// Destination selects where log lines go. Build one with [Stdout], [Stderr],
// [File] or [Writer]. [Stdin] exists only so configuration mistakes can be
// rejected by [New].
type Destination struct {
	kind DestinationKind
	path string
	w    io.Writer
}

// Stdout returns the standard output destination (the default).
func Stdout() Destination { return Destination{kind: KindStdout} }

// Stderr returns the standard error destination.
func Stderr() Destination { return Destination{kind: KindStderr} }

// Stdin returns the standard input "destination". [New] rejects it.
func Stdin() Destination { return Destination{kind: KindStdin} }

// File returns a destination that appends to the named file.
// The file is created if it does not exist and is never truncated.
// Colour escape sequences are stripped before lines are written.
func File(path string) Destination { return Destination{kind: KindFile, path: path} }

// Writer returns a console-like destination backed by w.
// Lines keep their colour escape sequences. Writes are serialised, so w
// need not be safe for concurrent use.
func Writer(w io.Writer) Destination { return Destination{kind: KindWriter, w: w} }

// ParseDestination maps "stdout", "stderr" and "stdin" (case-insensitive,
// "-" meaning stdout) to the streams and anything else to a file path.
func ParseDestination(s string) Destination {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "-", "stdout":
		return Stdout()
	case "stderr":
		return Stderr()
	case "stdin":
		return Stdin()
	}
	return File(s)
}

// Kind returns the destination kind.
func (d Destination) Kind() DestinationKind { return d.kind }

// Path returns the file path for file destinations.
func (d Destination) Path() string { return d.path }

func (d Destination) String() string {
	if d.kind == KindFile {
		return "file:" + d.path
	}
	return d.kind.String()
}

// sink appends one line to a destination.
type sink interface {
	writeLine(line string) error
	close() error
}

// open validates d and opens its sink. File destinations are created here
// so an unwritable path fails at construction rather than on first write.
func (d Destination) open(detectColour bool, environ []string) (sink, error) {
	switch d.kind {
	case KindStdin:
		return nil, ErrStdinDestination
	case KindStdout:
		return newStreamSink(os.Stdout, false, detectColour, environ), nil
	case KindStderr:
		return newStreamSink(os.Stderr, false, detectColour, environ), nil
	case KindWriter:
		if d.w == nil {
			return nil, ErrNilWriter
		}
		return newStreamSink(d.w, true, detectColour, environ), nil
	case KindFile:
		f, err := os.OpenFile(d.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, fmt.Errorf("open log file: %w", err)
		}
		return &fileSink{f: f}, nil
	}
	return nil, fmt.Errorf("unsupported destination %s", d)
}

// streamSink writes to a console stream. Each line goes out in a single
// Write so lines from concurrent requests never interleave on an *os.File.
type streamSink struct {
	w  io.Writer
	mu *sync.Mutex // nil for os streams
}

func newStreamSink(w io.Writer, serialise, detectColour bool, environ []string) *streamSink {
	if detectColour {
		w = colorprofile.NewWriter(w, environ)
		serialise = true
	}
	s := &streamSink{w: w}
	if serialise {
		s.mu = &sync.Mutex{}
	}
	return s
}

func (s *streamSink) writeLine(line string) error {
	if s.mu != nil {
		s.mu.Lock()
		defer s.mu.Unlock()
	}
	_, err := io.WriteString(s.w, line+"\n")
	return err
}

func (s *streamSink) close() error { return nil }

// fileSink appends plain-text lines to a file opened with O_APPEND.
// Every line is one bounded write, so concurrent writers need no lock.
type fileSink struct {
	f *os.File
}

func (s *fileSink) writeLine(line string) error {
	_, err := s.f.WriteString(ansi.Strip(line) + "\n")
	return err
}

func (s *fileSink) close() error {
	return s.f.Close()
}
