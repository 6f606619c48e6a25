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
	"net/http"
	"strings"
)

// CodeInternalServerError is the failure code used for recovered panics.
const CodeInternalServerError = "INTERNAL_SERVER_ERROR"

// CodeUnknown is the failure code used when neither the error nor the
// response carries a status.
const CodeUnknown = "UNKNOWN"

// Hooks are the request lifecycle callbacks a host adapter installs.
// They are created by [Logger.Format] and safe for concurrent use.
//
// An adapter calls [Hooks.Begin] when a request arrives and
// [Hooks.Complete] once the handler has returned. Hosts that report errors
// out of band may call [Hooks.Success] and [Hooks.Failure] directly.
type Hooks struct {
	logger *Logger
	set    AttributeSet
	format Format
}

// Logger returns the logger the hooks write to.
func (h *Hooks) Logger() *Logger { return h.logger }

// Attributes returns the attributes captured for each request.
func (h *Hooks) Attributes() AttributeSet { return h.set }

// Begin records the request start time, makes the logger available through
// [FromContext] and, when the body attribute is requested, buffers the
// body so it can be logged without being consumed.
// The returned request must replace r for the rest of the chain.
func (h *Hooks) Begin(r *http.Request) *http.Request {
	ctx := WithStart(r.Context(), h.logger.now())
	ctx = NewContext(ctx, h.logger)
	if h.set.Has(AttrBody) {
		var body any
		body, r = captureBody(r, h.logger.bodyLimit)
		ctx = withBody(ctx, body)
	}
	return r.WithContext(ctx)
}

// Complete logs a finished request. A non-nil err or a status of 400 or
// above takes the failure path, anything else the success path.
func (h *Hooks) Complete(ex Exchange, err error) {
	if err == nil && ex.Status < http.StatusBadRequest {
		h.Success(ex)
		return
	}
	h.Failure(ex.Request, err, failureCode(err, ex.Status))
}

// Success writes the request line with the HTTP level. It does nothing when
// HTTP logging is disabled. An exchange without a request is reported to the
// error logger and skipped.
func (h *Hooks) Success(ex Exchange) {
	l := h.logger
	if !l.cfg.HTTPLogging {
		return
	}
	if ex.Request == nil {
		l.report("httplog: request line skipped", LevelHTTP, ErrNoRequest)
		return
	}
	rec := extract(ex, h.set, l.now())

	fn := h.format.OnSuccess
	if fn == nil {
		fn = DefaultSuccess
	}
	line, ok := h.render(func() string { return fn(rec) })
	if !ok {
		line = DefaultSuccess(rec)
	}
	l.emit(LevelHTTP, line)
}

// Failure writes the failure line with the error level. Failures are logged
// even when HTTP logging is disabled.
func (h *Hooks) Failure(r *http.Request, err error, code Code) {
	l := h.logger
	e := ErrorRecord{Request: r, Err: err, Code: code, Datetime: l.now()}

	fn := h.format.OnFailure
	if fn == nil {
		fn = DefaultFailure
	}
	line, ok := h.render(func() string { return fn(e) })
	if !ok {
		line = DefaultFailure(e)
	}
	l.emit(LevelError, line)
}

// Recovered logs a panic raised by the handler as an
// INTERNAL_SERVER_ERROR failure. Adapters re-panic afterwards.
func (h *Hooks) Recovered(r *http.Request, v any) {
	err, ok := v.(error)
	if !ok {
		err = fmt.Errorf("panic: %v", v)
	}
	h.Failure(r, err, ErrorCode(CodeInternalServerError))
}

// render runs a user formatter, turning a panic into a reported failure so a
// broken formatter never takes the request down with it.
func (h *Hooks) render(fn func() string) (line string, ok bool) {
	defer func() {
		if v := recover(); v != nil {
			h.logger.diag.Error("httplog: formatter panicked",
				"destination", h.logger.cfg.Destination.String(),
				"panic", v,
			)
			line, ok = "", false
		}
	}()
	return fn(), true
}

// DefaultSuccess renders the attributes present in r, space separated, in
// declaration order. Attributes that render as empty, such as the body of a
// GET request, are left out.
func DefaultSuccess(r Record) string {
	attrs := r.Attributes().Attributes()
	parts := make([]string, 0, len(attrs))
	for _, a := range attrs {
		if text := r.Text(a); text != "" {
			parts = append(parts, text)
		}
	}
	return strings.Join(parts, " ")
}

// statusCoder is implemented by errors that carry an HTTP status.
type statusCoder interface {
	StatusCode() int
}

func failureCode(err error, status int) Code {
	var sc statusCoder
	if errors.As(err, &sc) && sc.StatusCode() > 0 {
		return StatusCode(sc.StatusCode())
	}
	if status >= http.StatusBadRequest {
		return StatusCode(status)
	}
	return ErrorCode(CodeUnknown)
}
