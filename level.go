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
	"regexp"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Level tags a log line. HTTP is used for request lines, the others for
// explicit calls and failures.
type Level uint8

const (
	LevelHTTP Level = iota
	LevelInfo
	LevelWarn
	LevelDebug
	LevelError

	levelCount
)

var levelNames = [levelCount]string{
	LevelHTTP:  "http",
	LevelInfo:  "info",
	LevelWarn:  "warn",
	LevelDebug: "debug",
	LevelError: "error",
}

// Default label backgrounds: blue, green, yellow, cyan, red.
var defaultLevelColours = [levelCount]lipgloss.Color{
	LevelHTTP:  "4",
	LevelInfo:  "2",
	LevelWarn:  "3",
	LevelDebug: "6",
	LevelError: "1",
}

func (l Level) String() string {
	if l >= levelCount {
		return fmt.Sprintf("Level(%d)", uint8(l))
	}
	return levelNames[l]
}

// ParseLevel returns the level with the given case-insensitive name.
func ParseLevel(name string) (Level, error) {
	for i, n := range levelNames {
		if strings.EqualFold(n, name) {
			return Level(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownLevel, name)
}

// Colours overrides the label background of individual levels.
// Values are hex colours ("#f0f", "#ff00ff") or ANSI indexes ("0" to "255").
type Colours map[Level]string

func (c Colours) clone() Colours {
	out := make(Colours, len(c))
	for k, v := range c {
		out[k] = v
	}
	return out
}

var hexColour = regexp.MustCompile(`^#(?:[0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

// ValidColour reports whether s can be used as a level colour.
func ValidColour(s string) bool {
	if hexColour.MatchString(s) {
		return true
	}
	n, err := strconv.Atoi(s)
	return err == nil && n >= 0 && n <= 255
}

// Colourize returns the uppercased level surrounded by single spaces and
// rendered on the level's background colour, in true colour.
// It never fails: an unusable override yields the plain label.
func Colourize(level Level, overrides Colours) string {
	return newColourizer(termenv.TrueColor, overrides).label(level)
}

// colourizer renders level labels. It owns its renderer so the colour
// profile does not depend on what stdout happens to be.
type colourizer struct {
	renderer *lipgloss.Renderer
	styles   [levelCount]*lipgloss.Style
}

func newColourizer(profile termenv.Profile, overrides Colours) *colourizer {
	r := lipgloss.NewRenderer(io.Discard)
	r.SetColorProfile(profile)

	c := &colourizer{renderer: r}
	for l := range levelCount {
		colour := defaultLevelColours[l]
		if v, ok := overrides[l]; ok {
			if !ValidColour(v) {
				continue
			}
			colour = lipgloss.Color(v)
		}
		style := r.NewStyle().Background(colour)
		c.styles[l] = &style
	}
	return c
}

func (c *colourizer) label(level Level) (out string) {
	plain := " " + strings.ToUpper(level.String()) + " "
	if level >= levelCount || c.styles[level] == nil {
		return plain
	}
	defer func() {
		if recover() != nil {
			out = plain
		}
	}()
	return c.styles[level].Render(plain)
}

// style returns a fresh style bound to the colourizer's renderer.
func (c *colourizer) style() lipgloss.Style {
	return c.renderer.NewStyle()
}
