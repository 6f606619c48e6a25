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

// Package respwriter records the status and size of an HTTP response for the
// adapters whose host does not expose them.
package respwriter

import (
	"bufio"
	"io"
	"net"
	"net/http"
)

// StatusSizer is implemented by response writers that track status and size.
type StatusSizer interface {
	StatusCode() int
	Size() int64
}

// Wrap returns w itself when it already tracks status and size, or a
// [Recorder] around it otherwise. The second result is the writer to install.
func Wrap(w http.ResponseWriter) (StatusSizer, http.ResponseWriter) {
	if ss, ok := w.(StatusSizer); ok {
		return ss, w
	}
	rec := &Recorder{ResponseWriter: w}
	return rec, rec
}

// Recorder is an [http.ResponseWriter] that remembers the first status it
// sends and counts body bytes. Flush, Hijack, Push and ReadFrom are passed
// through to the wrapped writer.
type Recorder struct {
	http.ResponseWriter
	status int
	bytes  int64
	sent   bool
}

var (
	_ http.Flusher  = (*Recorder)(nil)
	_ http.Hijacker = (*Recorder)(nil)
	_ http.Pusher   = (*Recorder)(nil)
	_ io.ReaderFrom = (*Recorder)(nil)
	_ StatusSizer   = (*Recorder)(nil)
)

// WriteHeader sends code unless a status was already sent.
func (r *Recorder) WriteHeader(code int) {
	if r.sent {
		return
	}
	r.status, r.sent = code, true
	r.ResponseWriter.WriteHeader(code)
}

// commit sends an implicit 200 before the first body byte.
func (r *Recorder) commit() {
	if !r.sent {
		r.WriteHeader(http.StatusOK)
	}
}

func (r *Recorder) Write(p []byte) (int, error) {
	r.commit()
	n, err := r.ResponseWriter.Write(p)
	r.bytes += int64(n)
	return n, err
}

// StatusCode returns the status sent so far, 200 if none was.
func (r *Recorder) StatusCode() int {
	if !r.sent {
		return http.StatusOK
	}
	return r.status
}

// Size returns the number of body bytes written.
func (r *Recorder) Size() int64 { return r.bytes }

// Written reports whether the header has been sent.
func (r *Recorder) Written() bool { return r.sent }

// Unwrap lets [http.ResponseController] reach the wrapped writer.
func (r *Recorder) Unwrap() http.ResponseWriter { return r.ResponseWriter }

func (r *Recorder) Flush() {
	f, ok := r.ResponseWriter.(http.Flusher)
	if !ok {
		return
	}
	r.commit()
	f.Flush()
}

func (r *Recorder) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	h, ok := r.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, http.ErrNotSupported
	}
	return h.Hijack()
}

func (r *Recorder) Push(target string, opts *http.PushOptions) error {
	p, ok := r.ResponseWriter.(http.Pusher)
	if !ok {
		return http.ErrNotSupported
	}
	return p.Push(target, opts)
}

// ReadFrom copies src to the response, using the wrapped writer's ReadFrom
// when it has one.
func (r *Recorder) ReadFrom(src io.Reader) (int64, error) {
	r.commit()
	var (
		n   int64
		err error
	)
	if rf, ok := r.ResponseWriter.(io.ReaderFrom); ok {
		n, err = rf.ReadFrom(src)
	} else {
		n, err = io.Copy(r.ResponseWriter, src)
	}
	r.bytes += n
	return n, err
}
