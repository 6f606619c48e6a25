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
	"fmt"
)

// Sentinel errors for use with [errors.Is].
//
// Usage pattern:
//
//	l, err := httplog.New(httplog.WithDestination(httplog.Stdin()))
//	if errors.Is(err, httplog.ErrStdinDestination) {
//	    // pick a writable destination
//	}
var (
	// ErrStdinDestination indicates the input stream was configured as the log destination.
	ErrStdinDestination = errors.New("cannot log to stdin, provide a writable destination")

	// ErrNilWriter indicates a nil io.Writer was passed to [Writer].
	ErrNilWriter = errors.New("destination writer is nil")

	// ErrUnknownAttribute indicates an attribute name outside the closed attribute set.
	ErrUnknownAttribute = errors.New("unknown attribute")

	// ErrUnknownLevel indicates a level name other than http, info, warn, debug or error.
	ErrUnknownLevel = errors.New("unknown log level")

	// ErrUnknownPreset indicates a preset name that is not registered.
	ErrUnknownPreset = errors.New("unknown preset")

	// ErrInvalidTemplate indicates a format template that cannot be parsed
	// or references an unknown attribute.
	ErrInvalidTemplate = errors.New("invalid format template")

	// ErrInvalidColour indicates a level colour that is neither a hex colour nor an ANSI index.
	ErrInvalidColour = errors.New("invalid colour")

	// ErrQueueFull indicates a line was dropped because the async queue was full.
	ErrQueueFull = errors.New("log queue full, line dropped")

	// ErrNoRequest indicates an [Exchange] without a request was passed to the hooks.
	ErrNoRequest = errors.New("exchange has no request")

	// ErrClosed indicates a write was attempted after [Logger.Close].
	ErrClosed = errors.New("logger is closed")
)

// ConfigError is returned by [New] when the logger configuration is invalid.
// Construction errors are fatal and never retried.
type ConfigError struct {
	Option string // The offending setting, e.g. "destination"
	Err    error  // The underlying error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("httplog: invalid %s: %v", e.Option, e.Err)
}

// Unwrap returns the underlying error.
func (e *ConfigError) Unwrap() error {
	return e.Err
}
