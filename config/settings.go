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

import (
	"errors"
	"fmt"
	"os"
	"reflect"
	"strings"

	"rivaas.dev/httplog"
)

// Settings is the file and environment representation of an httplog setup.
type Settings struct {
	// Destination is "stdout", "stderr" or a file path.
	Destination string `config:"destination"`

	ShowLevel bool `config:"show_level"`

	// LevelColours maps level names to hex colours or ANSI indexes.
	LevelColours map[string]string `config:"level_colours"`

	HTTPLogging     bool `config:"http_logging"`
	ExplicitLogging bool `config:"explicit_logging"`

	// Preset names a built-in format. It excludes Template.
	Preset string `config:"preset"`

	// Attributes are requested in addition to those a template references.
	// They are ignored with a preset.
	Attributes []string `config:"attributes"`

	// Template is a format such as "{method} {path} {status}".
	Template string `config:"template"`

	// AsyncQueue > 0 enables asynchronous writes with that queue size.
	AsyncQueue int `config:"async_queue"`

	// BodyLimit caps the buffered request body in bytes. Zero keeps the default.
	BodyLimit int64 `config:"body_limit"`

	// DetectColour adapts console colours to the terminal.
	DetectColour bool `config:"detect_colour"`
}

// Defaults returns the settings used when no source sets a key.
func Defaults() Settings {
	return Settings{
		Destination:     "stdout",
		HTTPLogging:     true,
		ExplicitLogging: true,
	}
}

// Validate checks every field and reports the first problem.
func (s Settings) Validate() error {
	if httplog.ParseDestination(s.Destination).Kind() == httplog.KindStdin {
		return newFieldError("destination", httplog.ErrStdinDestination)
	}

	for name, colour := range s.LevelColours {
		if _, err := httplog.ParseLevel(name); err != nil {
			return newFieldError("level_colours", err)
		}
		if !httplog.ValidColour(colour) {
			return newFieldError("level_colours."+name, fmt.Errorf("%w: %q", httplog.ErrInvalidColour, colour))
		}
	}

	if s.Preset != "" {
		if _, err := httplog.ParsePreset(s.Preset); err != nil {
			return newFieldError("preset", err)
		}
		if s.Template != "" {
			return newFieldError("template", errors.New("cannot be combined with a preset"))
		}
	}

	for _, name := range s.Attributes {
		if _, err := httplog.ParseAttribute(name); err != nil {
			return newFieldError("attributes", err)
		}
	}

	if s.Template != "" {
		if _, _, err := httplog.Template(s.Template); err != nil {
			return newFieldError("template", err)
		}
	}

	if s.AsyncQueue < 0 {
		return newFieldError("async_queue", errors.New("must not be negative"))
	}
	if s.BodyLimit < 0 {
		return newFieldError("body_limit", errors.New("must not be negative"))
	}
	return nil
}

// Options converts the logger settings to [httplog.Option] values.
// Format related fields (preset, attributes, template) are applied by [Settings.Build].
func (s Settings) Options() ([]httplog.Option, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}

	opts := []httplog.Option{
		httplog.WithDestination(httplog.ParseDestination(s.Destination)),
		httplog.WithShowLevel(s.ShowLevel),
		httplog.WithHTTPLogging(s.HTTPLogging),
		httplog.WithExplicitLogging(s.ExplicitLogging),
	}
	for name, colour := range s.LevelColours {
		level, _ := httplog.ParseLevel(name)
		opts = append(opts, httplog.WithLevelColour(level, colour))
	}
	if s.AsyncQueue > 0 {
		opts = append(opts, httplog.WithAsync(s.AsyncQueue))
	}
	if s.BodyLimit > 0 {
		opts = append(opts, httplog.WithBodyLimit(s.BodyLimit))
	}
	if s.DetectColour {
		opts = append(opts, httplog.WithColourDetection(os.Environ()))
	}
	return opts, nil
}

// Build creates the logger and returns its hooks. extra options are applied
// after the settings, so they win.
//
// Without a preset or template, the requested attributes are rendered by
// [httplog.DefaultSuccess].
func (s Settings) Build(extra ...httplog.Option) (*httplog.Hooks, error) {
	opts, err := s.Options()
	if err != nil {
		return nil, err
	}
	opts = append(opts, extra...)

	if s.Preset != "" {
		name, _ := httplog.ParsePreset(s.Preset)
		return httplog.Preset(name, opts...)
	}

	logger, err := httplog.New(opts...)
	if err != nil {
		return nil, err
	}
	if _, err := logger.UseNames(s.Attributes...); err != nil {
		_ = logger.Close()
		return nil, err
	}
	if s.Template != "" {
		hooks, err := logger.FormatTemplate(s.Template)
		if err != nil {
			_ = logger.Close()
			return nil, err
		}
		return hooks, nil
	}
	return logger.Format(httplog.Func(httplog.DefaultSuccess)), nil
}

// trimSliceHook trims the elements produced by splitting "a, b".
func trimSliceHook(_ reflect.Type, to reflect.Type, data any) (any, error) {
	if to != reflect.TypeOf([]string(nil)) {
		return data, nil
	}
	items, ok := data.([]string)
	if !ok {
		return data, nil
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out, nil
}
