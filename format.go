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
	"io"
	"strconv"
	"time"

	"github.com/valyala/fasttemplate"
)

// SuccessFunc renders the line for a request that completed successfully.
type SuccessFunc func(Record) string

// FailureFunc renders the line for a request that failed.
type FailureFunc func(ErrorRecord) string

// Format holds the formatting functions attached to a [Logger].
// OnSuccess only ever sees success-path records and OnFailure only
// failure-path records. A nil OnFailure falls back to [DefaultFailure].
type Format struct {
	OnSuccess SuccessFunc
	OnFailure FailureFunc
}

// Func returns the single-function format shape: fn renders successes and
// failures use [DefaultFailure].
func Func(fn SuccessFunc) Format {
	return Format{OnSuccess: fn}
}

// Pair returns the split success/failure format shape.
func Pair(onSuccess SuccessFunc, onFailure FailureFunc) Format {
	return Format{OnSuccess: onSuccess, OnFailure: onFailure}
}

// DefaultFailure renders "<METHOD> <URL> <error message> <code>".
func DefaultFailure(e ErrorRecord) string {
	return fmt.Sprintf("%s %s %s %s", e.Method(), e.URL(), e.Message(), e.Code)
}

// Template compiles a format template such as "{method} {path} {status}".
// Tags name attributes (see [ParseAttribute]). The returned set holds every
// attribute the template references, so the caller can request them.
//
// A tag whose attribute is missing from the record renders as empty.
func Template(tmpl string) (SuccessFunc, AttributeSet, error) {
	t, err := fasttemplate.NewTemplate(tmpl, "{", "}")
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %w", ErrInvalidTemplate, err)
	}

	var (
		set     AttributeSet
		tagErr  error
		checker = func(_ io.Writer, tag string) (int, error) {
			a, err := ParseAttribute(tag)
			if err != nil {
				tagErr = err
				return 0, err
			}
			set = set.With(a)
			return 0, nil
		}
	)
	if _, err := t.ExecuteFunc(io.Discard, checker); err != nil {
		if tagErr != nil {
			err = tagErr
		}
		return nil, 0, fmt.Errorf("%w: %w", ErrInvalidTemplate, err)
	}

	fn := func(r Record) string {
		return t.ExecuteFuncString(func(w io.Writer, tag string) (int, error) {
			a, err := ParseAttribute(tag)
			if err != nil {
				return 0, nil
			}
			return io.WriteString(w, r.Text(a))
		})
	}
	return fn, set, nil
}

// FormatDuration renders d scaled to a readable unit: µs below one
// millisecond, then ms, s, m and h. Invalid durations render as
// [PlaceholderDuration].
func FormatDuration(d Duration) string {
	us, ok := d.Microseconds()
	if !ok {
		return PlaceholderDuration
	}

	std := d.Std()
	switch {
	case std < time.Millisecond:
		return strconv.FormatInt(us, 10) + "µs"
	case std < time.Second:
		return strconv.FormatFloat(float64(us)/1e3, 'f', 2, 64) + "ms"
	case std < time.Minute:
		return strconv.FormatFloat(std.Seconds(), 'f', 2, 64) + "s"
	case std < time.Hour:
		return strconv.FormatFloat(std.Minutes(), 'f', 2, 64) + "m"
	default:
		return strconv.FormatFloat(std.Hours(), 'f', 2, 64) + "h"
	}
}
