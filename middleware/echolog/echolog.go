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

// Package echolog installs httplog hooks on an echo server.
//
//	e := echo.New()
//	e.Use(echolog.New(hooks))
package echolog

import (
	"github.com/labstack/echo/v4"

	"rivaas.dev/httplog"
)

// ContextKey is the echo context key under which the logger is stored.
const ContextKey = "httplog"

// New creates the logging middleware for hooks.
//
// A handler error is passed to [echo.Context.Error] first so the response
// status reflects it, then logged through the failure formatter. The error
// is still returned to outer middleware.
func New(hooks *httplog.Hooks) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.SetRequest(hooks.Begin(c.Request()))
			c.Set(ContextKey, hooks.Logger())

			defer func() {
				if v := recover(); v != nil {
					hooks.Recovered(c.Request(), v)
					panic(v)
				}
			}()

			err := next(c)
			if err != nil {
				c.Error(err)
			}

			req := c.Request()
			hooks.Complete(httplog.Exchange{
				Request: req,
				Path:    req.URL.Path,
				Status:  c.Response().Status,
			}, err)

			return err
		}
	}
}

// Logger returns the logger installed for the request, or nil.
func Logger(c echo.Context) *httplog.Logger {
	if l, ok := c.Get(ContextKey).(*httplog.Logger); ok {
		return l
	}
	return httplog.FromContext(c.Request().Context())
}
