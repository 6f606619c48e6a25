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
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/goccy/go-json"
)

// Placeholders used when a requested header is missing.
const (
	PlaceholderIP        = "<ip?>"
	PlaceholderReferer   = "<referer?>"
	PlaceholderUserAgent = "<user-agent?>"
	PlaceholderDuration  = "<duration?>"
)

// ContentLength is the parsed Content-Length request header.
// A header that is present but not a non-negative integer yields an invalid
// value that renders as "NaN".
type ContentLength struct {
	n     int64
	valid bool
}

// Value returns the length and whether the header parsed.
func (c ContentLength) Value() (int64, bool) {
	return c.n, c.valid
}

// Valid reports whether the header parsed.
func (c ContentLength) Valid() bool {
	return c.valid
}

func (c ContentLength) String() string {
	if !c.valid {
		return "NaN"
	}
	return strconv.FormatInt(c.n, 10)
}

// Duration is the time between request start and extraction, in whole microseconds.
// It is invalid when the start timestamp was never recorded.
type Duration struct {
	us    int64
	valid bool
}

// Microseconds returns the elapsed microseconds and whether a start was recorded.
func (d Duration) Microseconds() (int64, bool) {
	return d.us, d.valid
}

// Valid reports whether a start timestamp was recorded.
func (d Duration) Valid() bool {
	return d.valid
}

// Std converts d to a [time.Duration]. Invalid durations convert to zero.
func (d Duration) Std() time.Duration {
	return time.Duration(d.us) * time.Microsecond
}

// String returns the raw microsecond count, or [PlaceholderDuration].
func (d Duration) String() string {
	if !d.valid {
		return PlaceholderDuration
	}
	return strconv.FormatInt(d.us, 10)
}

// Record holds the requested attributes of one request.
// Only fields whose attribute is in the requesting set are populated;
// use [Record.Has] before reading a field whose zero value is meaningful.
//
// A Record is built per request and must not be retained after formatting.
type Record struct {
	IP            string
	Method        string
	Path          string
	Body          any
	Query         url.Values
	Time          time.Time
	ContentLength ContentLength
	Status        int
	Referer       string
	UserAgent     string
	Duration      Duration

	set AttributeSet
}

// Has reports whether a was extracted into the record.
func (r Record) Has(a Attribute) bool {
	return r.set.Has(a)
}

// Attributes returns the set of attributes present in the record.
func (r Record) Attributes() AttributeSet {
	return r.set
}

// Value returns the field for a, or false if a was not extracted.
func (r Record) Value(a Attribute) (any, bool) {
	if !r.set.Has(a) {
		return nil, false
	}
	switch a {
	case AttrIP:
		return r.IP, true
	case AttrMethod:
		return r.Method, true
	case AttrPath:
		return r.Path, true
	case AttrBody:
		return r.Body, true
	case AttrQuery:
		return r.Query, true
	case AttrTime:
		return r.Time, true
	case AttrContentLength:
		return r.ContentLength, true
	case AttrStatus:
		return r.Status, true
	case AttrReferer:
		return r.Referer, true
	case AttrUserAgent:
		return r.UserAgent, true
	case AttrDuration:
		return r.Duration, true
	}
	return nil, false
}

// Text renders the field for a as text, or "" if a was not extracted.
// Time renders as RFC 3339 with milliseconds in UTC, body as JSON when
// structured, and query in URL-encoded form.
func (r Record) Text(a Attribute) string {
	v, ok := r.Value(a)
	if !ok {
		return ""
	}
	switch a {
	case AttrTime:
		return isoTime(r.Time)
	case AttrQuery:
		return r.Query.Encode()
	case AttrBody:
		return bodyText(r.Body)
	case AttrStatus:
		return strconv.Itoa(r.Status)
	}
	return fmt.Sprint(v)
}

func bodyText(body any) string {
	switch b := body.(type) {
	case nil:
		return ""
	case string:
		return b
	case []byte:
		return string(b)
	case url.Values:
		return b.Encode()
	}
	data, err := json.Marshal(body)
	if err != nil {
		return fmt.Sprint(body)
	}
	return string(data)
}

func isoTime(t time.Time) string {
	return t.UTC().Format("2006-01-02T15:04:05.000Z")
}

// Code is the failure discriminator of an [ErrorRecord]: either a numeric
// HTTP status or a textual code such as "INTERNAL_SERVER_ERROR".
type Code struct {
	status int
	name   string
}

// StatusCode returns a numeric [Code].
func StatusCode(status int) Code {
	return Code{status: status}
}

// ErrorCode returns a textual [Code].
func ErrorCode(name string) Code {
	return Code{name: name}
}

// Status returns the numeric status and whether the code is numeric.
func (c Code) Status() (int, bool) {
	return c.status, c.name == "" && c.status != 0
}

// Name returns the textual code, or "" for numeric codes.
func (c Code) Name() string {
	return c.name
}

func (c Code) String() string {
	if c.name != "" {
		return c.name
	}
	if c.status == 0 {
		return "UNKNOWN"
	}
	return strconv.Itoa(c.status)
}

// ErrorRecord describes a failed request. It is built only on the failure path.
type ErrorRecord struct {
	Request  *http.Request
	Err      error
	Code     Code
	Datetime time.Time
}

// Method returns the request method, or "-" when no request is attached.
func (e ErrorRecord) Method() string {
	if e.Request == nil {
		return "-"
	}
	return e.Request.Method
}

// URL returns the full request URL, or "-" when no request is attached.
func (e ErrorRecord) URL() string {
	if e.Request == nil || e.Request.URL == nil {
		return "-"
	}
	u := *e.Request.URL
	if u.Host == "" {
		u.Host = e.Request.Host
	}
	if u.Scheme == "" && u.Host != "" {
		u.Scheme = "http"
		if e.Request.TLS != nil {
			u.Scheme = "https"
		}
	}
	return u.String()
}

// Message returns the error message, or the status text when Err is nil.
func (e ErrorRecord) Message() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	if status, ok := e.Code.Status(); ok {
		return http.StatusText(status)
	}
	return "unknown error"
}
