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
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

// failingWriter rejects every write.
type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("disk full") }

// blockingWriter holds writes until released.
type blockingWriter struct {
	release chan struct{}
	mu      sync.Mutex
	buf     bytes.Buffer
}

func (w *blockingWriter) Write(p []byte) (int, error) {
	<-w.release
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.buf.Write(p)
}

func (w *blockingWriter) String() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.buf.String()
}

func counterValue(t *testing.T, reader *sdkmetric.ManualReader, name string) int64 {
	t.Helper()

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))

	var total int64
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if m.Name != name {
				continue
			}
			sum, ok := m.Data.(metricdata.Sum[int64])
			require.True(t, ok)
			for _, dp := range sum.DataPoints {
				total += dp.Value
			}
		}
	}
	return total
}

func TestLogger_ExplicitLogging(t *testing.T) {
	t.Parallel()

	th := NewTestHelper(t)
	th.Logger.Info("i")
	th.Logger.Warn("w")
	th.Logger.Debug("d")
	th.Logger.Error("e")
	th.Logger.Log(LevelHTTP, "h")

	assert.Equal(t, []string{"i", "w", "d", "e", "h"}, th.Lines())
}

func TestLogger_ExplicitLoggingDisabled(t *testing.T) {
	t.Parallel()

	th := NewTestHelper(t, WithExplicitLogging(false))
	th.Logger.Info("ignored")
	th.Logger.Error("ignored")

	assert.Empty(t, th.Lines())
}

func TestLogger_NilIsSafe(t *testing.T) {
	t.Parallel()

	var l *Logger
	assert.NotPanics(t, func() {
		l.Info("x")
		FromContext(context.Background()).Error("y")
	})
}

func TestLogger_UseIsCumulative(t *testing.T) {
	t.Parallel()

	th := NewTestHelper(t)
	l := th.Logger.Use(AttrMethod).Use(AttrPath, AttrMethod)
	assert.Same(t, th.Logger, l)
	assert.Equal(t, NewAttributeSet(AttrMethod, AttrPath), l.Attributes())

	_, err := l.UseNames("status", "bogus")
	require.ErrorIs(t, err, ErrUnknownAttribute)
	assert.False(t, l.Attributes().Has(AttrStatus), "a bad name rejects the whole list")

	_, err = l.UseNames("status", "userAgent")
	require.NoError(t, err)
	assert.Equal(t, NewAttributeSet(AttrMethod, AttrPath, AttrStatus, AttrUserAgent), l.Attributes())
}

func TestLogger_FormatSnapshotsAttributes(t *testing.T) {
	t.Parallel()

	th := NewTestHelper(t)
	hooks := th.Logger.Use(AttrMethod).Format(Format{})
	th.Logger.Use(AttrPath)

	assert.Equal(t, NewAttributeSet(AttrMethod), hooks.Attributes())
	assert.Same(t, th.Logger, hooks.Logger())
}

func TestLogger_ConfigIsACopy(t *testing.T) {
	t.Parallel()

	th := NewTestHelper(t, WithLevelColour(LevelWarn, "#123456"), WithShowLevel(true))
	cfg := th.Logger.Config()
	assert.True(t, cfg.ShowLevel)
	assert.True(t, cfg.HTTPLogging)
	assert.True(t, cfg.ExplicitLogging)
	assert.Equal(t, KindWriter, cfg.Destination.Kind())

	cfg.LevelColours[LevelWarn] = "#000000"
	assert.Equal(t, "#123456", th.Logger.Config().LevelColours[LevelWarn])
}

func TestLogger_WriteFailureIsReported(t *testing.T) {
	t.Parallel()

	var diag bytes.Buffer
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))

	l, err := New(
		WithDestination(Writer(failingWriter{})),
		WithErrorLogger(slog.New(slog.NewTextHandler(&diag, nil))),
		WithMeterProvider(mp),
	)
	require.NoError(t, err)

	assert.NotPanics(t, func() { l.Info("lost") })
	assert.Contains(t, diag.String(), "httplog: write failed")
	assert.Contains(t, diag.String(), "disk full")
	assert.EqualValues(t, 1, counterValue(t, reader, "httplog_write_failures_total"))
	assert.EqualValues(t, 0, counterValue(t, reader, "httplog_lines_written_total"))
}

func TestLogger_Metrics(t *testing.T) {
	t.Parallel()

	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))

	th := NewTestHelper(t, WithMeterProvider(mp))
	th.Logger.Info("one")
	th.Logger.Info("two")

	assert.EqualValues(t, 2, counterValue(t, reader, "httplog_lines_written_total"))
}

func TestLogger_WriteAfterClose(t *testing.T) {
	t.Parallel()

	var diag bytes.Buffer
	th := NewTestHelper(t, WithErrorLogger(slog.New(slog.NewTextHandler(&diag, nil))))
	require.NoError(t, th.Logger.Close())
	require.NoError(t, th.Logger.Close(), "close is idempotent")

	th.Logger.Info("late")
	assert.Empty(t, th.Lines())
	assert.Contains(t, diag.String(), ErrClosed.Error())
}

func TestLogger_AsyncFlush(t *testing.T) {
	t.Parallel()

	th := NewTestHelper(t, WithAsync(64))
	for range 10 {
		th.Logger.Info("queued")
	}

	// Lines reads through Flush.
	assert.Len(t, th.Lines(), 10)
}

func TestLogger_AsyncDropsWhenFull(t *testing.T) {
	t.Parallel()

	var diag bytes.Buffer
	reader := sdkmetric.NewManualReader()
	w := &blockingWriter{release: make(chan struct{})}

	l, err := New(
		WithDestination(Writer(w)),
		WithAsync(1),
		WithErrorLogger(slog.New(slog.NewTextHandler(&diag, nil))),
		WithMeterProvider(sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))),
	)
	require.NoError(t, err)

	// The worker holds at most one line and the queue one more, so of
	// five submissions at least three are dropped.
	for range 5 {
		l.Info("line")
	}
	close(w.release)
	require.NoError(t, l.Close())

	dropped := counterValue(t, reader, "httplog_lines_dropped_total")
	written := counterValue(t, reader, "httplog_lines_written_total")
	assert.GreaterOrEqual(t, dropped, int64(3))
	assert.EqualValues(t, 5, dropped+written)
	assert.Contains(t, diag.String(), ErrQueueFull.Error())

	l.Info("after close")
	assert.Contains(t, diag.String(), ErrClosed.Error())
}

func TestHooks_FormatterPanicFallsBack(t *testing.T) {
	t.Parallel()

	var diag bytes.Buffer
	th := NewTestHelper(t, WithErrorLogger(slog.New(slog.NewTextHandler(&diag, nil))))
	hooks := th.Logger.Use(AttrMethod, AttrStatus).Format(Pair(
		func(Record) string { panic("bad formatter") },
		func(ErrorRecord) string { panic("bad failure formatter") },
	))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	hooks.Complete(Exchange{Request: req, Status: http.StatusOK}, nil)
	hooks.Complete(Exchange{Request: req, Status: http.StatusBadGateway}, nil)

	assert.Equal(t, []string{"GET 200", "GET http://example.com/ Bad Gateway 502"}, th.Lines())
	assert.Contains(t, diag.String(), "formatter panicked")
}
