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

package config

import "fmt"

// Error reports a failure while loading settings: which source or field was
// involved and in which stage ("detect", "load", "merge", "decode" or
// "validate").
type Error struct {
	Source    string // "source[0]", a file path, or "settings"
	Field     string // set for validation failures
	Operation string
	Err       error
}

func (e *Error) Error() string {
	where := e.Source
	if e.Field != "" {
		where += "." + e.Field
	}
	return fmt.Sprintf("httplog config: %s %s: %v", e.Operation, where, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

func newError(source, operation string, err error) *Error {
	return &Error{Source: source, Operation: operation, Err: err}
}

func newFieldError(field string, err error) *Error {
	return &Error{Source: "settings", Field: field, Operation: "validate", Err: err}
}
