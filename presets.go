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
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// PresetName names a built-in configuration.
type PresetName string

const (
	// PresetCommon logs "[<ISO time>] METHOD PATH STATUS" with the status
	// coloured by class.
	PresetCommon PresetName = "common"

	// PresetFancy logs "d/m/y h:m:s METHOD PATH" behind a level label.
	PresetFancy PresetName = "fancy"

	// PresetCommonTZ is [PresetCommon] in local time with the zone offset,
	// followed by the request duration.
	PresetCommonTZ PresetName = "commontz"
)

// Presets returns the names of the built-in presets.
func Presets() []PresetName {
	return []PresetName{PresetCommon, PresetFancy, PresetCommonTZ}
}

// ParsePreset returns the preset with the given case-insensitive name.
func ParsePreset(name string) (PresetName, error) {
	for _, p := range Presets() {
		if strings.EqualFold(string(p), name) {
			return p, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownPreset, name)
}

// Preset builds a Logger from opts, applies the named preset and returns its
// hooks. Options a preset depends on, such as the level label of
// [PresetFancy], override opts.
//
// Example:
//
//	hooks, err := httplog.Preset(httplog.PresetCommon,
//	    httplog.WithDestination(httplog.File("access.log")))
func Preset(name PresetName, opts ...Option) (*Hooks, error) {
	var forced []Option
	switch name {
	case PresetCommon, PresetCommonTZ:
	case PresetFancy:
		forced = append(forced, WithShowLevel(true))
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownPreset, name)
	}

	l, err := New(slices.Concat(opts, forced)...)
	if err != nil {
		return nil, err
	}
	p := newPalette(l)

	switch name {
	case PresetFancy:
		return l.Use(AttrTime, AttrMethod, AttrPath).Format(p.fancy()), nil
	case PresetCommonTZ:
		return l.Use(AttrTime, AttrMethod, AttrPath, AttrStatus, AttrDuration).Format(p.commonTZ()), nil
	default:
		return l.Use(AttrTime, AttrMethod, AttrPath, AttrStatus).Format(p.common()), nil
	}
}

// palette holds the preset foreground styles, bound to the logger's renderer.
type palette struct {
	gray, cyan, white, green, yellow, red lipgloss.Style
}

func newPalette(l *Logger) palette {
	fg := func(c string) lipgloss.Style { return l.Style().Foreground(lipgloss.Color(c)) }
	return palette{
		gray:   fg("8"),
		cyan:   fg("6"),
		white:  fg("7"),
		green:  fg("2"),
		yellow: fg("3"),
		red:    fg("1"),
	}
}

func (p palette) status(status int) string {
	style := p.white
	switch {
	case status >= 500:
		style = p.red
	case status >= 400:
		style = p.yellow
	case status >= 200 && status < 300:
		style = p.green
	}
	return style.Render(strconv.Itoa(status))
}

func (p palette) common() Format {
	return Pair(
		func(r Record) string {
			return fmt.Sprintf("[%s] %s %s",
				p.gray.Render(isoTime(r.Time)),
				p.cyan.Render(r.Method+" "+r.Path),
				p.status(r.Status))
		},
		func(e ErrorRecord) string {
			return fmt.Sprintf("[%s] %s",
				p.gray.Render(isoTime(e.Datetime)),
				p.red.Render(DefaultFailure(e)))
		},
	)
}

const zonedTime = "2006-01-02T15:04:05.000-07:00"

func (p palette) commonTZ() Format {
	return Pair(
		func(r Record) string {
			return fmt.Sprintf("[%s] %s %s %s",
				p.gray.Render(r.Time.Local().Format(zonedTime)),
				p.cyan.Render(r.Method+" "+r.Path),
				p.status(r.Status),
				p.gray.Render(FormatDuration(r.Duration)))
		},
		func(e ErrorRecord) string {
			return fmt.Sprintf("[%s] %s",
				p.gray.Render(e.Datetime.Local().Format(zonedTime)),
				p.red.Render(DefaultFailure(e)))
		},
	)
}

func (p palette) fancy() Format {
	return Pair(
		func(r Record) string {
			return p.gray.Render(dateTime(r.Time)) + " " + p.cyan.Render(r.Method+" "+r.Path)
		},
		func(e ErrorRecord) string {
			return p.red.Render(dateTime(e.Datetime) + " " + e.Method() + " " + e.URL())
		},
	)
}

// dateTime renders local "day/month/year hour:minute:second" without padding.
func dateTime(t time.Time) string {
	t = t.Local()
	return fmt.Sprintf("%d/%d/%d %d:%d:%d",
		t.Day(), int(t.Month()), t.Year(), t.Hour(), t.Minute(), t.Second())
}
