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
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtract_OnlyRequestedAttributes(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodPost, "/users?page=2", nil)
	req.Header.Set("X-Forwarded-For", "198.51.100.4")
	req.Header.Set("User-Agent", "test-agent")

	set := NewAttributeSet(AttrMethod, AttrStatus)
	rec := Extract(Exchange{Request: req, Status: http.StatusCreated}, set)

	assert.Equal(t, set, rec.Attributes())
	assert.Equal(t, http.MethodPost, rec.Method)
	assert.Equal(t, http.StatusCreated, rec.Status)

	for _, a := range AllAttributes() {
		_, ok := rec.Value(a)
		assert.Equal(t, set.Has(a), ok, a.String())
	}
	assert.Empty(t, rec.IP)
	assert.Empty(t, rec.UserAgent)
	assert.Nil(t, rec.Query)
	assert.Empty(t, rec.Text(AttrPath))
}

func TestExtract_AllAttributes(t *testing.T) {
	t.Parallel()

	start := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	now := start.Add(2500 * time.Microsecond)

	req := httptest.NewRequest(http.MethodGet, "/search?q=go&q=rust", nil)
	req.Header.Set("X-Forwarded-For", " 203.0.113.9 , 10.0.0.1")
	req.Header.Set("Referer", "https://example.org/")
	req.Header.Set("User-Agent", "curl/8")
	req.Header.Set("Content-Length", "42")
	req = req.WithContext(withBody(WithStart(req.Context(), start), "payload"))

	rec := extract(Exchange{Request: req, Status: http.StatusOK}, NewAttributeSet(AllAttributes()...), now)

	assert.Equal(t, "203.0.113.9", rec.IP)
	assert.Equal(t, "/search", rec.Path)
	assert.Equal(t, "payload", rec.Body)
	assert.Equal(t, url.Values{"q": {"go", "rust"}}, rec.Query)
	assert.Equal(t, now, rec.Time)
	assert.Equal(t, "42", rec.ContentLength.String())
	assert.Equal(t, "https://example.org/", rec.Referer)
	assert.Equal(t, "curl/8", rec.UserAgent)

	us, ok := rec.Duration.Microseconds()
	require.True(t, ok)
	assert.EqualValues(t, 2500, us)

	assert.Equal(t, "2025-06-01T12:00:00.002Z", rec.Text(AttrTime))
	assert.Equal(t, "q=go&q=rust", rec.Text(AttrQuery))
	assert.Equal(t, "200", rec.Text(AttrStatus))
	assert.Equal(t, "2500", rec.Text(AttrDuration))
}

func TestExtract_ExchangeOverrides(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodGet, "/raw/path?a=1", nil)
	ex := Exchange{
		Request: req,
		Path:    "/users/:id",
		Query:   url.Values{"b": {"2"}},
		Body:    map[string]any{"k": "v"},
	}
	rec := Extract(ex, NewAttributeSet(AttrPath, AttrQuery, AttrBody))

	assert.Equal(t, "/users/:id", rec.Path)
	assert.Equal(t, "b=2", rec.Text(AttrQuery))
	assert.Equal(t, `{"k":"v"}`, rec.Text(AttrBody))
}

func TestExtract_Placeholders(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := Extract(Exchange{Request: req}, NewAttributeSet(AttrIP, AttrReferer, AttrUserAgent, AttrDuration))

	assert.Equal(t, PlaceholderIP, rec.IP)
	assert.Equal(t, PlaceholderReferer, rec.Referer)
	assert.Equal(t, PlaceholderUserAgent, rec.UserAgent)
	assert.False(t, rec.Duration.Valid(), "no start recorded")
	assert.Equal(t, PlaceholderDuration, FormatDuration(rec.Duration))
}

func TestExtract_ForwardedForEdgeCases(t *testing.T) {
	t.Parallel()

	tests := []struct {
		header string
		want   string
	}{
		{"", PlaceholderIP},
		{"192.0.2.1", "192.0.2.1"},
		{"192.0.2.1, 192.0.2.2", "192.0.2.1"},
		{" , 192.0.2.2", PlaceholderIP},
		{"2001:db8::1", "2001:db8::1"},
	}

	for _, tt := range tests {
		h := http.Header{}
		if tt.header != "" {
			h.Set("X-Forwarded-For", tt.header)
		}
		assert.Equal(t, tt.want, forwardedFor(h), "header %q", tt.header)
	}
}

func TestParseContentLength(t *testing.T) {
	t.Parallel()

	tests := []struct {
		header string
		want   string
		valid  bool
	}{
		{"", "0", true},
		{"0", "0", true},
		{"1024", "1024", true},
		{" 7 ", "7", true},
		{"abc", "NaN", false},
		{"-1", "NaN", false},
		{"1.5", "NaN", false},
	}

	for _, tt := range tests {
		cl := parseContentLength(tt.header)
		assert.Equal(t, tt.want, cl.String(), "header %q", tt.header)
		assert.Equal(t, tt.valid, cl.Valid(), "header %q", tt.header)
	}
}

func TestElapsed_NeverNegative(t *testing.T) {
	t.Parallel()

	start := time.Now()
	ctx := WithStart(t.Context(), start)

	d := elapsed(ctx, start.Add(-time.Second))
	us, ok := d.Microseconds()
	require.True(t, ok)
	assert.Zero(t, us)
}

func TestErrorRecord(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodDelete, "/items/3?force=1", nil)

	e := ErrorRecord{Request: req, Code: StatusCode(http.StatusNotFound)}
	assert.Equal(t, http.MethodDelete, e.Method())
	assert.Equal(t, "http://example.com/items/3?force=1", e.URL())
	assert.Equal(t, "Not Found", e.Message())
	assert.Equal(t, "DELETE http://example.com/items/3?force=1 Not Found 404", DefaultFailure(e))

	var empty ErrorRecord
	assert.Equal(t, "-", empty.Method())
	assert.Equal(t, "-", empty.URL())
	assert.Equal(t, "unknown error", empty.Message())
	assert.Equal(t, "UNKNOWN", empty.Code.String())
}

func TestCode(t *testing.T) {
	t.Parallel()

	status, ok := StatusCode(http.StatusTeapot).Status()
	assert.True(t, ok)
	assert.Equal(t, http.StatusTeapot, status)
	assert.Equal(t, "418", StatusCode(http.StatusTeapot).String())

	named := ErrorCode(CodeInternalServerError)
	_, ok = named.Status()
	assert.False(t, ok)
	assert.Equal(t, CodeInternalServerError, named.Name())
	assert.Equal(t, CodeInternalServerError, named.String())
}
