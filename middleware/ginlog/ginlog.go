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

// Package ginlog installs httplog hooks on a gin engine.
//
//	r := gin.New()
//	r.Use(ginlog.New(hooks))
package ginlog

import (
	"github.com/gin-gonic/gin"

	"rivaas.dev/httplog"
)

// ContextKey is the gin context key under which the logger is stored.
const ContextKey = "httplog"

// New creates the logging middleware for hooks. The last error attached
// with [gin.Context.Error] or a status of 400 and above selects the failure
// formatter.
func New(hooks *httplog.Hooks) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request = hooks.Begin(c.Request)
		c.Set(ContextKey, hooks.Logger())

		defer func() {
			if v := recover(); v != nil {
				hooks.Recovered(c.Request, v)
				panic(v)
			}
		}()

		c.Next()

		var err error
		if last := c.Errors.Last(); last != nil {
			err = last.Err
		}
		hooks.Complete(httplog.Exchange{
			Request: c.Request,
			Path:    c.Request.URL.Path,
			Status:  c.Writer.Status(),
		}, err)
	}
}

// Logger returns the logger installed for the request, or nil.
func Logger(c *gin.Context) *httplog.Logger {
	if v, ok := c.Get(ContextKey); ok {
		if l, ok := v.(*httplog.Logger); ok {
			return l
		}
	}
	return httplog.FromContext(c.Request.Context())
}
