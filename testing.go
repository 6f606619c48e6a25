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
	"bytes"
	"strings"
	"sync"
	"testing"

	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/require"
)

// syncBuffer is a bytes.Buffer safe for concurrent writers and readers.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func (b *syncBuffer) Reset() {
	b.mu.Lock()
	b.buf.Reset()
	b.mu.Unlock()
}

// TestHelper provides utilities for testing code that logs through httplog.
type TestHelper struct {
	Logger *Logger
	buf    *syncBuffer
}

// NewTestHelper creates a [TestHelper] whose logger writes to memory.
// Additional [Option] values can be passed to customize the logger; a
// destination option among them is overridden.
func NewTestHelper(t *testing.T, opts ...Option) *TestHelper {
	t.Helper()

	buf := &syncBuffer{}
	opts = append(opts, WithDestination(Writer(buf)))
	logger, err := New(opts...)
	require.NoError(t, err)
	t.Cleanup(func() { _ = logger.Close() })

	return &TestHelper{Logger: logger, buf: buf}
}

// Output returns everything written so far, colours included.
func (th *TestHelper) Output() string {
	th.Logger.Flush()
	return th.buf.String()
}

// Lines returns the written lines with colour escape sequences removed.
func (th *TestHelper) Lines() []string {
	out := strings.TrimSuffix(ansi.Strip(th.Output()), "\n")
	if out == "" {
		return nil
	}
	return strings.Split(out, "\n")
}

// LastLine returns the most recent line without colours, or "".
func (th *TestHelper) LastLine() string {
	lines := th.Lines()
	if len(lines) == 0 {
		return ""
	}
	return lines[len(lines)-1]
}

// ContainsLine reports whether any line contains substr.
func (th *TestHelper) ContainsLine(substr string) bool {
	for _, l := range th.Lines() {
		if strings.Contains(l, substr) {
			return true
		}
	}
	return false
}

// Reset clears the buffer for fresh testing.
func (th *TestHelper) Reset() {
	th.Logger.Flush()
	th.buf.Reset()
}
