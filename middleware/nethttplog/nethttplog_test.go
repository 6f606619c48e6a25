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

package nethttplog

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rivaas.dev/httplog"
)

type statusError struct {
	status int
}

func (e statusError) Error() string   { return fmt.Sprintf("status %d", e.status) }
func (e statusError) StatusCode() int { return e.status }

func TestNew_LogsEveryAttribute(t *testing.T) {
	t.Parallel()

	th := httplog.NewTestHelper(t)
	hooks := th.Logger.Use(httplog.AllAttributes()...).Format(httplog.Func(func(r httplog.Record) string {
		return strings.Join([]string{
			r.IP, r.Method, r.Path, r.Query.Get("q"), r.ContentLength.String(),
			fmt.Sprint(r.Status), r.Referer, r.UserAgent, fmt.Sprint(r.Duration.Valid()),
		}, "|")
	}))

	handler := New(hooks)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusAccepted)
	}))

	req := httptest.NewRequest(http.MethodGet, "/search?q=go", nil)
	req.Header.Set("X-Forwarded-For", "203.0.113.7, 10.0.0.1")
	req.Header.Set("User-Agent", "curl/8")
	handler.ServeHTTP(httptest.NewRecorder(), req)

	assert.Equal(t, "203.0.113.7|GET|/search|go|0|202|<referer?>|curl/8|true", th.LastLine())
}

func TestNew_MissingHeadersUsePlaceholders(t *testing.T) {
	t.Parallel()

	th := httplog.NewTestHelper(t)
	hooks, err := th.Logger.FormatTemplate("{ip} {referer} {userAgent}")
	require.NoError(t, err)

	handler := New(hooks)(http.NotFoundHandler())
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Del("User-Agent")
	handler.ServeHTTP(httptest.NewRecorder(), req)

	// 404 goes through the failure path.
	assert.True(t, strings.HasSuffix(th.LastLine(), "404"))

	th.Reset()
	handler = New(hooks)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	handler.ServeHTTP(httptest.NewRecorder(), req)
	assert.Equal(t, "<ip?> <referer?> <user-agent?>", th.LastLine())
}

func TestNew_Duration(t *testing.T) {
	t.Parallel()

	base := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	calls := 0
	clock := func() time.Time {
		calls++
		return base.Add(time.Duration(calls-1) * 1500 * time.Microsecond)
	}

	th := httplog.NewTestHelper(t, httplog.WithClock(clock))
	hooks := th.Logger.Use(httplog.AttrDuration).Format(httplog.Func(func(r httplog.Record) string {
		return httplog.FormatDuration(r.Duration)
	}))

	New(hooks)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {})).
		ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, "1.50ms", th.LastLine())
}

func TestHandle_ErrorWritesStatus(t *testing.T) {
	t.Parallel()

	th := httplog.NewTestHelper(t)
	hooks := th.Logger.Format(httplog.Format{})

	h := Handle(hooks, func(w http.ResponseWriter, r *http.Request) error {
		return statusError{status: http.StatusConflict}
	})
	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodPut, "/items/1", nil))

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "PUT http://example.com/items/1 status 409 409", th.LastLine())
}

func TestHandle_ErrorAfterWrite(t *testing.T) {
	t.Parallel()

	th := httplog.NewTestHelper(t)
	hooks := th.Logger.Format(httplog.Format{})

	h := Handle(hooks, func(w http.ResponseWriter, r *http.Request) error {
		_, _ = w.Write([]byte("partial"))
		return errors.New("stream broke")
	})
	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/stream", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "partial", w.Body.String())
	assert.Equal(t, "GET http://example.com/stream stream broke UNKNOWN", th.LastLine())
}

func TestNew_PanicIsLoggedAndRaised(t *testing.T) {
	t.Parallel()

	th := httplog.NewTestHelper(t, httplog.WithShowLevel(true))
	hooks := th.Logger.Format(httplog.Format{})

	handler := New(hooks)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic(errors.New("nil map"))
	}))

	assert.PanicsWithError(t, "nil map", func() {
		handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/p", nil))
	})
	assert.Equal(t, " ERROR  GET http://example.com/p nil map INTERNAL_SERVER_ERROR", th.LastLine())
}
