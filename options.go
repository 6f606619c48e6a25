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
	"log/slog"
	"time"

	"github.com/muesli/termenv"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
)

// Option defines functional options for [New].
type Option func(*settings)

// settings holds everything an Option can change. The subset described by
// [Config] is frozen into the Logger at construction.
type settings struct {
	destination     Destination
	showLevel       bool
	levelColours    Colours
	httpLogging     bool
	explicitLogging bool

	// errorLogger receives write failures, dropped lines and formatter panics
	errorLogger *slog.Logger

	meterProvider metric.MeterProvider

	// asyncQueue > 0 moves writes off the request path through a bounded queue
	asyncQueue int

	// bodyLimit caps how much of a request body is buffered for the body attribute
	bodyLimit int64

	colourProfile termenv.Profile
	detectColour  bool
	environ       []string

	now func() time.Time
}

func defaultSettings() *settings {
	return &settings{
		destination:     Stdout(),
		showLevel:       false,
		levelColours:    Colours{},
		httpLogging:     true,
		explicitLogging: true,
		meterProvider:   noop.NewMeterProvider(),
		bodyLimit:       defaultBodyLimit,
		colourProfile:   termenv.TrueColor,
		now:             time.Now,
	}
}

// WithDestination sets where lines are written. Defaults to [Stdout].
//
// Example:
//
//	httplog.New(httplog.WithDestination(httplog.File("access.log")))
func WithDestination(d Destination) Option {
	return func(s *settings) { s.destination = d }
}

// WithShowLevel prefixes every line with a coloured level label
// such as " HTTP " or " ERROR ". Defaults to false.
func WithShowLevel(show bool) Option {
	return func(s *settings) { s.showLevel = show }
}

// WithLevelColour overrides the label background of one level.
// colour is a hex value ("#ff00ff") or an ANSI index ("5"). An unusable
// value leaves that label undecorated instead of failing.
func WithLevelColour(level Level, colour string) Option {
	return func(s *settings) { s.levelColours[level] = colour }
}

// WithLevelColours merges overrides into the level colour table.
func WithLevelColours(overrides Colours) Option {
	return func(s *settings) {
		for l, c := range overrides {
			s.levelColours[l] = c
		}
	}
}

// WithHTTPLogging enables or disables request lines on the success path.
// Failures are logged regardless. Defaults to true.
func WithHTTPLogging(enabled bool) Option {
	return func(s *settings) { s.httpLogging = enabled }
}

// WithExplicitLogging enables or disables [Logger.Info], [Logger.Warn],
// [Logger.Debug] and [Logger.Error]. Defaults to true.
func WithExplicitLogging(enabled bool) Option {
	return func(s *settings) { s.explicitLogging = enabled }
}

// WithErrorLogger sets the [slog.Logger] that receives the logger's own
// problems: failed writes, dropped lines and panicking formatters.
// Defaults to [slog.Default].
//
// Example:
//
//	diag := slog.New(slog.NewJSONHandler(os.Stderr, nil))
//	httplog.New(httplog.WithErrorLogger(diag))
func WithErrorLogger(logger *slog.Logger) Option {
	return func(s *settings) { s.errorLogger = logger }
}

// WithMeterProvider records line counters on mp. Defaults to a no-op provider.
func WithMeterProvider(mp metric.MeterProvider) Option {
	return func(s *settings) {
		if mp != nil {
			s.meterProvider = mp
		}
	}
}

// WithAsync writes lines from a background goroutine through a queue of
// the given size. Requests never wait for the destination; when the queue
// is full the line is dropped and reported. Call [Logger.Close] on shutdown.
// Without this option writes are synchronous and block the request while the
// destination is busy.
func WithAsync(queueSize int) Option {
	return func(s *settings) { s.asyncQueue = max(queueSize, 0) }
}

// WithBodyLimit caps how many body bytes are buffered when the body
// attribute is requested. Defaults to 64 KiB.
func WithBodyLimit(n int64) Option {
	return func(s *settings) {
		if n > 0 {
			s.bodyLimit = n
		}
	}
}

// WithColourProfile sets the profile used to render level labels and preset
// colours. Defaults to true colour.
func WithColourProfile(p termenv.Profile) Option {
	return func(s *settings) { s.colourProfile = p }
}

// WithColourDetection downsamples or strips colours on console destinations
// according to the terminal described by environ (usually os.Environ()).
// File destinations are always stripped.
func WithColourDetection(environ []string) Option {
	return func(s *settings) {
		s.detectColour = true
		s.environ = environ
	}
}

// WithClock replaces the time source. Intended for tests.
func WithClock(now func() time.Time) Option {
	return func(s *settings) {
		if now != nil {
			s.now = now
		}
	}
}
