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
	"net/url"
	"strconv"
	"strings"
	"time"
)

// Exchange is the view of one request/response pair that a host adapter
// hands to [Hooks.Complete] once the response status is known.
//
// Only Request is required. Empty fields fall back to values derived from
// the request: Path to Request.URL.Path, Query to Request.URL.Query(), and
// Body to the body captured by [Hooks.Begin].
type Exchange struct {
	Request *http.Request
	Path    string
	Body    any
	Query   url.Values
	Status  int
}

// Extract builds a [Record] holding exactly the attributes in set.
// Attributes outside set are never computed.
func Extract(ex Exchange, set AttributeSet) Record {
	return extract(ex, set, time.Now())
}

func extract(ex Exchange, set AttributeSet, now time.Time) Record {
	rec := Record{set: set}
	req := ex.Request

	for _, a := range set.Attributes() {
		switch a {
		case AttrIP:
			rec.IP = forwardedFor(req.Header)
		case AttrMethod:
			rec.Method = req.Method
		case AttrPath:
			rec.Path = ex.Path
			if rec.Path == "" && req.URL != nil {
				rec.Path = req.URL.Path
			}
		case AttrBody:
			rec.Body = ex.Body
			if rec.Body == nil {
				rec.Body, _ = BodyFrom(req.Context())
			}
		case AttrQuery:
			rec.Query = ex.Query
			if rec.Query == nil && req.URL != nil {
				rec.Query = req.URL.Query()
			}
		case AttrTime:
			rec.Time = now
		case AttrContentLength:
			rec.ContentLength = parseContentLength(req.Header.Get("Content-Length"))
		case AttrStatus:
			rec.Status = ex.Status
		case AttrReferer:
			rec.Referer = headerOr(req.Header, "Referer", PlaceholderReferer)
		case AttrUserAgent:
			rec.UserAgent = headerOr(req.Header, "User-Agent", PlaceholderUserAgent)
		case AttrDuration:
			rec.Duration = elapsed(req.Context(), now)
		}
	}

	return rec
}

func forwardedFor(h http.Header) string {
	v := h.Get("X-Forwarded-For")
	if v == "" {
		return PlaceholderIP
	}
	// Leftmost entry is the originating client.
	if i := strings.IndexByte(v, ','); i >= 0 {
		v = v[:i]
	}
	if v = strings.TrimSpace(v); v == "" {
		return PlaceholderIP
	}
	return v
}

func headerOr(h http.Header, key, placeholder string) string {
	if v := h.Get(key); v != "" {
		return v
	}
	return placeholder
}

// parseContentLength treats a missing header as zero and anything that is not
// a non-negative integer as NaN.
func parseContentLength(v string) ContentLength {
	v = strings.TrimSpace(v)
	if v == "" {
		return ContentLength{valid: true}
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil || n < 0 {
		return ContentLength{}
	}
	return ContentLength{n: n, valid: true}
}
