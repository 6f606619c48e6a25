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

// Package nethttplog installs httplog hooks around a plain [http.Handler].
//
//	mux := http.NewServeMux()
//	http.ListenAndServe(":8080", nethttplog.New(hooks)(mux))
package nethttplog

import (
	"errors"
	"net/http"

	"rivaas.dev/httplog"
	"rivaas.dev/httplog/internal/respwriter"
)

// New returns a middleware that logs every request served by the wrapped handler.
func New(hooks *httplog.Hooks) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			serve(hooks, w, r, func(w http.ResponseWriter, r *http.Request) error {
				next.ServeHTTP(w, r)
				return nil
			})
		})
	}
}

// ErrorHandlerFunc is an HTTP handler that reports failures by returning them.
type ErrorHandlerFunc func(w http.ResponseWriter, r *http.Request) error

// Handle adapts fn to an [http.Handler]. A returned error is logged through
// the failure formatter; if fn wrote nothing, a plain error response is sent
// with the status carried by the error (a StatusCode() int method) or 500.
func Handle(hooks *httplog.Hooks, fn ErrorHandlerFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		serve(hooks, w, r, fn)
	})
}

func serve(hooks *httplog.Hooks, w http.ResponseWriter, r *http.Request, fn ErrorHandlerFunc) {
	r = hooks.Begin(r)
	ss, w := respwriter.Wrap(w)

	defer func() {
		if v := recover(); v != nil {
			hooks.Recovered(r, v)
			panic(v)
		}
	}()

	err := fn(w, r)
	if err != nil && !written(w) {
		status := http.StatusInternalServerError
		var sc interface{ StatusCode() int }
		if errors.As(err, &sc) && sc.StatusCode() >= http.StatusBadRequest {
			status = sc.StatusCode()
		}
		http.Error(w, http.StatusText(status), status)
	}

	hooks.Complete(httplog.Exchange{Request: r, Status: ss.StatusCode()}, err)
}

func written(w http.ResponseWriter) bool {
	if ww, ok := w.(interface{ Written() bool }); ok {
		return ww.Written()
	}
	return true
}
