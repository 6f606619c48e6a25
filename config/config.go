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
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"dario.cat/mergo"
	"github.com/go-viper/mapstructure/v2"
)

// Option configures [Load].
type Option func(*loader)

type loader struct {
	sources []Source
	err     error
}

// WithSource adds a custom source.
func WithSource(src Source) Option {
	return func(l *loader) { l.sources = append(l.sources, src) }
}

// WithFile adds a file source, detecting the format from its extension.
//
// Example:
//
//	config.Load(ctx, config.WithFile("httplog.toml"))
func WithFile(path string) Option {
	return func(l *loader) {
		format, err := FormatFromPath(path)
		if err != nil {
			l.err = errors.Join(l.err, newError(path, "detect", err))
			return
		}
		l.sources = append(l.sources, &fileSource{path: path, format: format})
	}
}

// WithFileAs adds a file source decoded as format regardless of its extension.
func WithFileAs(path string, format Format) Option {
	return func(l *loader) {
		l.sources = append(l.sources, &fileSource{path: path, format: format})
	}
}

// WithContent adds raw content decoded as format.
//
// Example:
//
//	config.WithContent([]byte("preset: fancy"), config.FormatYAML)
func WithContent(data []byte, format Format) Option {
	return func(l *loader) {
		l.sources = append(l.sources, &fileSource{data: data, format: format})
	}
}

// WithEnv adds the process environment variables starting with prefix.
func WithEnv(prefix string) Option {
	return WithEnviron(prefix, os.Environ())
}

// WithEnviron is [WithEnv] over an explicit "KEY=value" list.
func WithEnviron(prefix string, environ []string) Option {
	return func(l *loader) {
		l.sources = append(l.sources, &envSource{
			prefix:  prefix,
			environ: func() []string { return environ },
		})
	}
}

// Load merges the sources over [Defaults], decodes the result and validates it.
//
// Errors:
//   - Returns [*Error] with Operation "load" or "merge" when a source fails
//   - Returns [*Error] with Operation "decode" for unknown keys or bad types
//   - Returns [*Error] with Operation "validate" from [Settings.Validate]
func Load(ctx context.Context, opts ...Option) (Settings, error) {
	l := &loader{}
	for _, opt := range opts {
		opt(l)
	}
	if l.err != nil {
		return Settings{}, l.err
	}

	values, err := l.merge(ctx)
	if err != nil {
		return Settings{}, err
	}

	s := Defaults()
	if err := decode(values, &s); err != nil {
		return Settings{}, newError("settings", "decode", err)
	}
	if err := s.Validate(); err != nil {
		return Settings{}, err
	}
	return s, nil
}

// MustLoad is like [Load] but panics on error.
func MustLoad(ctx context.Context, opts ...Option) Settings {
	s, err := Load(ctx, opts...)
	if err != nil {
		panic(err)
	}
	return s
}

func (l *loader) merge(ctx context.Context) (map[string]any, error) {
	values := make(map[string]any)
	for i, src := range l.sources {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		conf, err := src.Load(ctx)
		if err != nil {
			return nil, newError(fmt.Sprintf("source[%d]", i), "load", err)
		}
		if conf == nil {
			continue
		}

		if err := mergo.Map(&values, normalizeMapKeys(conf), mergo.WithOverride); err != nil {
			return nil, newError(fmt.Sprintf("source[%d]", i), "merge", err)
		}
	}
	return values, nil
}

func decode(values map[string]any, out *Settings) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "config",
		WeaklyTypedInput: true,
		ErrorUnused:      true,
		Result:           out,
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToSliceHookFunc(","),
			trimSliceHook,
		),
	})
	if err != nil {
		return fmt.Errorf("failed to create decoder: %w", err)
	}
	return decoder.Decode(values)
}

// normalizeMapKeys recursively converts all map keys to lowercase for case-insensitive merging
func normalizeMapKeys(m map[string]any) map[string]any {
	normalized := make(map[string]any, len(m))
	for k, v := range m {
		if nested, ok := v.(map[string]any); ok {
			v = normalizeMapKeys(nested)
		}
		normalized[strings.ToLower(k)] = v
	}
	return normalized
}
