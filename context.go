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
	"context"
	"time"
)

// contextKey is a private type for context keys to avoid collisions with other packages.
type contextKey int

const (
	startKey contextKey = iota
	bodyKey
	loggerKey
)

// WithStart returns a copy of ctx carrying the request start time.
// Adapters call it through [Hooks.Begin]; it is exported for hosts
// that drive the hooks themselves.
func WithStart(ctx context.Context, start time.Time) context.Context {
	return context.WithValue(ctx, startKey, start)
}

// StartFrom returns the request start time stored in ctx.
func StartFrom(ctx context.Context) (time.Time, bool) {
	t, ok := ctx.Value(startKey).(time.Time)
	return t, ok
}

// elapsed computes the duration attribute. The start lives in the request
// context, never on the Logger, so concurrent requests cannot see each other's start.
func elapsed(ctx context.Context, now time.Time) Duration {
	start, ok := StartFrom(ctx)
	if !ok {
		return Duration{}
	}
	d := now.Sub(start)
	if d < 0 {
		d = 0
	}
	return Duration{us: d.Microseconds(), valid: true}
}

type capturedBody struct {
	value any
}

func withBody(ctx context.Context, body any) context.Context {
	return context.WithValue(ctx, bodyKey, capturedBody{value: body})
}

// BodyFrom returns the request body captured by [Hooks.Begin], if any.
func BodyFrom(ctx context.Context) (any, bool) {
	b, ok := ctx.Value(bodyKey).(capturedBody)
	return b.value, ok
}

// NewContext returns a copy of ctx carrying l, so handlers can make explicit
// log calls through [FromContext].
func NewContext(ctx context.Context, l *Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// FromContext returns the Logger stored in ctx, or nil.
// The explicit log methods are safe to call on a nil *Logger.
//
// Example:
//
//	func handler(w http.ResponseWriter, r *http.Request) {
//	    httplog.FromContext(r.Context()).Info("cache miss")
//	}
func FromContext(ctx context.Context) *Logger {
	l, _ := ctx.Value(loggerKey).(*Logger)
	return l
}
