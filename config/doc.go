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

// Package config loads httplog settings from files and environment variables.
//
// Sources are merged in order, with later sources overriding earlier ones.
// Keys are case-insensitive. Files are decoded by extension: YAML (.yaml,
// .yml), JSON (.json) and TOML (.toml).
//
// # Quick Start
//
//	settings, err := config.Load(ctx,
//	    config.WithFile("httplog.yaml"),
//	    config.WithEnv("HTTPLOG_"),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	hooks, err := settings.Build()
//
// # File Layout
//
//	destination: access.log
//	show_level: true
//	level_colours:
//	  info: "#00ff00"
//	preset: common
//
// # Environment Variables
//
// The prefix is removed and the rest of the name is lowercased. A double
// underscore separates nested keys so single underscores stay part of the
// key name:
//
//	HTTPLOG_SHOW_LEVEL=true           -> show_level
//	HTTPLOG_ATTRIBUTES=method,path    -> attributes
//	HTTPLOG_LEVEL_COLOURS__ERROR=#f00 -> level_colours.error
package config
