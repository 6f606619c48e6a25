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

// Package httplog logs HTTP requests as formatted text lines.
//
// A [Logger] is told which request attributes to capture, is given a
// formatter and returns [Hooks] that a host adapter installs. For every
// request the hooks extract exactly the requested attributes into a
// [Record], render it and append the line to a [Destination]: the console
// (with colours) or a file (colours stripped).
//
// # Basic Usage
//
//	hooks := httplog.MustNew().
//	    Use(httplog.AttrMethod, httplog.AttrPath, httplog.AttrStatus).
//	    Format(httplog.Func(func(r httplog.Record) string {
//	        return fmt.Sprintf("%s %s %d", r.Method, r.Path, r.Status)
//	    }))
//
//	r := router.MustNew()
//	r.Use(rivaaslog.New(hooks))
//
// # Presets
//
//	hooks, err := httplog.Preset(httplog.PresetCommon)
//
// # Templates
//
//	hooks, err := httplog.MustNew().FormatTemplate("{method} {path} {status} {duration}")
//
// # Failures
//
// A handler error or a status of 400 and above is rendered by the failure
// formatter (or [DefaultFailure]) at the error level. Failures are logged
// even when HTTP logging is disabled. Problems of the logger itself, such as
// a failed file write, never reach the request: they are reported to the
// [slog.Logger] given to [WithErrorLogger] and counted through the meter
// provider given to [WithMeterProvider].
//
// # Adapters
//
// The middleware directory holds adapters for the rivaas router, echo, gin
// and plain net/http. The config package loads a Logger from YAML, JSON,
// TOML and environment variables.
package httplog
