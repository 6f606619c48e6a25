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

// Package rivaaslog installs httplog hooks on a rivaas router.
//
// # Basic Usage
//
//	hooks, err := httplog.Preset(httplog.PresetCommon)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	r := router.MustNew()
//	r.Use(rivaaslog.New(hooks))
//
// Errors recorded with [router.Context.Error] and responses with a status of
// 400 or above are logged through the failure formatter. A panic is logged as
// an INTERNAL_SERVER_ERROR failure and re-raised, so register a recovery
// middleware after this one.
package rivaaslog

import (
	"errors"

	"rivaas.dev/httplog"
	"rivaas.dev/httplog/internal/respwriter"
	"rivaas.dev/router"
)

// New creates the logging middleware for hooks.
//
// Example:
//
//	r := router.MustNew()
//	r.Use(rivaaslog.New(hooks))
//	r.GET("/users/:id", func(c *router.Context) {
//	    rivaaslog.Logger(c).Info("loading user " + c.Param("id"))
//	})
func New(hooks *httplog.Hooks) router.HandlerFunc {
	return func(c *router.Context) {
		c.Request = hooks.Begin(c.Request)

		ss, w := respwriter.Wrap(c.Response)
		c.Response = w

		defer func() {
			if v := recover(); v != nil {
				hooks.Recovered(c.Request, v)
				panic(v)
			}
		}()

		c.Next()

		hooks.Complete(httplog.Exchange{
			Request: c.Request,
			Path:    c.Request.URL.Path,
			Status:  ss.StatusCode(),
		}, handlerError(c))
	}
}

// Logger returns the logger installed for the request, or nil.
// Its explicit log methods are safe to call on nil.
func Logger(c *router.Context) *httplog.Logger {
	return httplog.FromContext(c.Request.Context())
}

func handlerError(c *router.Context) error {
	switch errs := c.Errors(); len(errs) {
	case 0:
		return nil
	case 1:
		return errs[0]
	default:
		return errors.Join(errs...)
	}
}
