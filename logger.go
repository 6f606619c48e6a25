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
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// Config is the immutable configuration of a [Logger], as returned by [Logger.Config].
type Config struct {
	Destination     Destination
	ShowLevel       bool
	LevelColours    Colours
	HTTPLogging     bool
	ExplicitLogging bool
}

// Logger collects the attributes to capture, formats request lines and
// writes them to its destination.
//
// Configure it once at startup: [Logger.Use] to request attributes, then
// [Logger.Format] to obtain the [Hooks] a host adapter installs.
//
// Thread-safety: all methods are safe for concurrent use.
type Logger struct {
	cfg Config

	mu    sync.Mutex // guards attrs
	attrs AttributeSet

	sink    sink
	async   *dispatcher
	colours *colourizer
	diag    *slog.Logger
	inst    *instruments

	bodyLimit int64
	now       func() time.Time
	closed    atomic.Bool
}

// New creates a Logger. The destination is opened immediately: the input
// stream or an unwritable file fail here with a [*ConfigError] instead of
// on the first write.
//
// By default lines are written synchronously on the request goroutine, so a
// destination that blocks (a full stdout pipe, a slow disk) delays the
// response. Use [WithAsync] to write through a bounded queue instead.
func New(opts ...Option) (*Logger, error) {
	s := defaultSettings()
	for _, opt := range opts {
		opt(s)
	}

	out, err := s.destination.open(s.detectColour, s.environ)
	if err != nil {
		return nil, &ConfigError{Option: "destination", Err: err}
	}

	inst, err := newInstruments(s.meterProvider)
	if err != nil {
		_ = out.close()
		return nil, &ConfigError{Option: "meter provider", Err: err}
	}

	diag := s.errorLogger
	if diag == nil {
		diag = slog.Default()
	}

	l := &Logger{
		cfg: Config{
			Destination:     s.destination,
			ShowLevel:       s.showLevel,
			LevelColours:    s.levelColours.clone(),
			HTTPLogging:     s.httpLogging,
			ExplicitLogging: s.explicitLogging,
		},
		sink:      out,
		colours:   newColourizer(s.colourProfile, s.levelColours),
		diag:      diag,
		inst:      inst,
		bodyLimit: s.bodyLimit,
		now:       s.now,
	}
	if s.asyncQueue > 0 {
		l.async = newDispatcher(s.asyncQueue, l.write)
	}
	return l, nil
}

// MustNew creates a Logger or panics on error.
func MustNew(opts ...Option) *Logger {
	l, err := New(opts...)
	if err != nil {
		panic("httplog initialization failed: " + err.Error())
	}
	return l
}

// Config returns a copy of the logger configuration.
func (l *Logger) Config() Config {
	cfg := l.cfg
	cfg.LevelColours = l.cfg.LevelColours.clone()
	return cfg
}

// Use requests attributes. It is idempotent and returns l for chaining.
//
// Example:
//
//	hooks := httplog.MustNew().
//	    Use(httplog.AttrMethod, httplog.AttrPath).
//	    Use(httplog.AttrStatus).
//	    Format(httplog.Func(func(r httplog.Record) string {
//	        return fmt.Sprintf("%s %s %d", r.Method, r.Path, r.Status)
//	    }))
func (l *Logger) Use(attrs ...Attribute) *Logger {
	l.mu.Lock()
	l.attrs = l.attrs.With(attrs...)
	l.mu.Unlock()
	return l
}

// UseNames requests attributes by name, e.g. "method" or "userAgent".
// It is all or nothing: if any name is unknown, no attribute is added and
// an error wrapping [ErrUnknownAttribute] is returned.
func (l *Logger) UseNames(names ...string) (*Logger, error) {
	attrs := make([]Attribute, 0, len(names))
	for _, n := range names {
		a, err := ParseAttribute(n)
		if err != nil {
			return l, err
		}
		attrs = append(attrs, a)
	}
	return l.Use(attrs...), nil
}

// Attributes returns the attributes requested so far.
func (l *Logger) Attributes() AttributeSet {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.attrs
}

// Format attaches f and returns the lifecycle hooks for a host adapter.
// The hooks capture the attributes requested at this point; later calls to
// [Logger.Use] do not affect them.
func (l *Logger) Format(f Format) *Hooks {
	return &Hooks{logger: l, set: l.Attributes(), format: f}
}

// FormatTemplate requests every attribute referenced by tmpl and attaches a
// [Template] formatter. Failures use [DefaultFailure].
func (l *Logger) FormatTemplate(tmpl string) (*Hooks, error) {
	fn, set, err := Template(tmpl)
	if err != nil {
		return nil, err
	}
	return l.Use(set.Attributes()...).Format(Func(fn)), nil
}

// Style returns a lipgloss style bound to the logger's colour profile,
// for formatters that want colours consistent with the level labels.
func (l *Logger) Style() lipgloss.Style {
	return l.colours.style()
}

// Log writes msg at level. It is a no-op when explicit logging is disabled
// or l is nil.
func (l *Logger) Log(level Level, msg string) {
	if l == nil || !l.cfg.ExplicitLogging {
		return
	}
	l.emit(level, msg)
}

// Info writes msg with the info level.
func (l *Logger) Info(msg string) { l.Log(LevelInfo, msg) }

// Warn writes msg with the warn level.
func (l *Logger) Warn(msg string) { l.Log(LevelWarn, msg) }

// Debug writes msg with the debug level.
func (l *Logger) Debug(msg string) { l.Log(LevelDebug, msg) }

// Error writes msg with the error level.
func (l *Logger) Error(msg string) { l.Log(LevelError, msg) }

// Flush blocks until queued lines are written. It returns immediately for
// synchronous loggers.
func (l *Logger) Flush() {
	if l.async != nil {
		l.async.flush()
	}
}

// Close drains the queue and releases the destination. Lines logged after
// Close are reported and discarded.
func (l *Logger) Close() error {
	if !l.closed.CompareAndSwap(false, true) {
		return nil
	}
	if l.async != nil {
		l.async.close()
	}
	return l.sink.close()
}

// emit tags msg with its level label when configured and hands it to the
// destination, directly or through the queue.
func (l *Logger) emit(level Level, msg string) {
	if l.cfg.ShowLevel {
		msg = l.colours.label(level) + " " + msg
	}
	e := entry{level: level, line: msg}

	if l.async == nil {
		l.write(e)
		return
	}
	if err := l.async.submit(e); err != nil {
		if errors.Is(err, ErrQueueFull) {
			l.inst.record(l.inst.dropped, l.cfg.Destination, level)
		}
		l.report("httplog: line not queued", level, err)
	}
}

func (l *Logger) write(e entry) {
	if l.async == nil && l.closed.Load() {
		l.report("httplog: write after close", e.level, ErrClosed)
		return
	}
	if err := l.sink.writeLine(e.line); err != nil {
		l.inst.record(l.inst.failed, l.cfg.Destination, e.level)
		l.report("httplog: write failed", e.level, err)
		return
	}
	l.inst.record(l.inst.written, l.cfg.Destination, e.level)
}

func (l *Logger) report(msg string, level Level, err error) {
	l.diag.Error(msg,
		"destination", l.cfg.Destination.String(),
		"level", level.String(),
		"error", err,
	)
}
