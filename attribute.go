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
	"math/bits"
	"strings"
)

// Attribute identifies one piece of per-request data that can be logged.
// The set of attributes is closed; see the Attr constants.
type Attribute uint8

const (
	AttrIP Attribute = iota
	AttrMethod
	AttrPath
	AttrBody
	AttrQuery
	AttrTime
	AttrContentLength
	AttrStatus
	AttrReferer
	AttrUserAgent
	AttrDuration

	attrCount
)

var attributeNames = [attrCount]string{
	AttrIP:            "ip",
	AttrMethod:        "method",
	AttrPath:          "path",
	AttrBody:          "body",
	AttrQuery:         "query",
	AttrTime:          "time",
	AttrContentLength: "contentLength",
	AttrStatus:        "status",
	AttrReferer:       "referer",
	AttrUserAgent:     "userAgent",
	AttrDuration:      "duration",
}

// String returns the attribute name as used in templates and configuration.
func (a Attribute) String() string {
	if !a.Valid() {
		return fmt.Sprintf("Attribute(%d)", uint8(a))
	}
	return attributeNames[a]
}

// Valid reports whether a is one of the known attributes.
func (a Attribute) Valid() bool {
	return a < attrCount
}

// ParseAttribute returns the attribute with the given name.
// Matching is case-insensitive, so "userAgent", "useragent" and "USERAGENT"
// all resolve to [AttrUserAgent].
func ParseAttribute(name string) (Attribute, error) {
	for i, n := range attributeNames {
		if strings.EqualFold(n, name) {
			return Attribute(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownAttribute, name)
}

// AllAttributes returns every known attribute in declaration order.
func AllAttributes() []Attribute {
	out := make([]Attribute, 0, attrCount)
	for a := range attrCount {
		out = append(out, a)
	}
	return out
}

// AttributeSet is the set of attributes a [Logger] has been asked to capture.
// The zero value is the empty set.
type AttributeSet uint16

// NewAttributeSet returns a set holding attrs. Unknown attributes are ignored.
func NewAttributeSet(attrs ...Attribute) AttributeSet {
	return AttributeSet(0).With(attrs...)
}

// With returns a copy of s with attrs added.
func (s AttributeSet) With(attrs ...Attribute) AttributeSet {
	for _, a := range attrs {
		if a.Valid() {
			s |= 1 << a
		}
	}
	return s
}

// Has reports whether a is in the set.
func (s AttributeSet) Has(a Attribute) bool {
	return a.Valid() && s&(1<<a) != 0
}

// Len returns the number of attributes in the set.
func (s AttributeSet) Len() int {
	return bits.OnesCount16(uint16(s))
}

// Attributes returns the members of s in declaration order.
func (s AttributeSet) Attributes() []Attribute {
	out := make([]Attribute, 0, s.Len())
	for a := range attrCount {
		if s.Has(a) {
			out = append(out, a)
		}
	}
	return out
}

func (s AttributeSet) String() string {
	names := make([]string, 0, s.Len())
	for _, a := range s.Attributes() {
		names = append(names, a.String())
	}
	return "{" + strings.Join(names, ",") + "}"
}
