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
	"fmt"
	"os"
	"strings"
)

// Source loads raw configuration values.
//
// Load must be safe to call concurrently.
type Source interface {
	Load(ctx context.Context) (map[string]any, error)
}

// fileSource reads a file, or fixed content, in one format.
type fileSource struct {
	path   string
	data   []byte
	format Format
}

func (f *fileSource) Load(context.Context) (map[string]any, error) {
	data := f.data
	if f.path != "" {
		var err error
		data, err = os.ReadFile(f.path)
		if err != nil {
			return nil, fmt.Errorf("failed to read file: %w", err)
		}
	}

	conf, err := f.format.decode(data)
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", f.format, err)
	}
	return conf, nil
}

// envSource maps prefixed variables to keys. A double underscore nests.
type envSource struct {
	prefix  string
	environ func() []string
}

func (e *envSource) Load(context.Context) (map[string]any, error) {
	conf := make(map[string]any)

	for _, kv := range e.environ() {
		key, value, ok := strings.Cut(kv, "=")
		if !ok {
			continue
		}
		key = strings.TrimSpace(key)
		if !strings.HasPrefix(strings.ToUpper(key), strings.ToUpper(e.prefix)) {
			continue
		}

		rawParts := strings.Split(strings.ToLower(key[len(e.prefix):]), "__")
		parts := make([]string, 0, len(rawParts))
		for _, part := range rawParts {
			if part = strings.Trim(part, "_"); part != "" {
				parts = append(parts, part)
			}
		}
		if len(parts) == 0 {
			continue
		}

		current := conf
		for _, part := range parts[:len(parts)-1] {
			next, ok := current[part].(map[string]any)
			if !ok {
				// A scalar at this key is replaced by the nested map.
				next = make(map[string]any)
				current[part] = next
			}
			current = next
		}
		current[parts[len(parts)-1]] = strings.TrimSpace(value)
	}

	return conf, nil
}
