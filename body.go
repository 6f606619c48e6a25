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
	"bytes"
	"io"
	"mime"
	"net/http"
	"net/url"
	"strings"

	"github.com/goccy/go-json"
)

// defaultBodyLimit bounds how much of a request body is buffered for the body attribute.
const defaultBodyLimit = 64 << 10

// captureBody reads up to limit bytes of r's body, parses them by content type
// and puts the unread remainder back so the handler still sees the full stream.
func captureBody(r *http.Request, limit int64) (any, *http.Request) {
	if r.Body == nil || r.Body == http.NoBody {
		return nil, r
	}

	buf, err := io.ReadAll(io.LimitReader(r.Body, limit))
	rest := r.Body
	r.Body = readCloser{Reader: io.MultiReader(bytes.NewReader(buf), rest), Closer: rest}
	if err != nil || len(buf) == 0 {
		return nil, r
	}

	return parseBody(r.Header.Get("Content-Type"), buf), r
}

func parseBody(contentType string, buf []byte) any {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		mediaType = ""
	}

	switch {
	case mediaType == "application/json" || strings.HasSuffix(mediaType, "+json"):
		var v any
		if err := json.Unmarshal(buf, &v); err == nil {
			return v
		}
	case mediaType == "application/x-www-form-urlencoded":
		if v, err := url.ParseQuery(string(buf)); err == nil {
			return v
		}
	}

	return string(buf)
}

type readCloser struct {
	io.Reader
	io.Closer
}
