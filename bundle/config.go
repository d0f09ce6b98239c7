// Copyright 2026 Harald Albrecht.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//    http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package bundle

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// ConfigFileName is the name of the optional bundler configuration file in
// the project directory.
const ConfigFileName = "ssrserve.yaml"

// Build modes.
const (
	ModeDevelopment = "development"
	ModeProduction  = "production"
)

// ErrInvalidConfig signals an incomplete or contradictory configuration.
var ErrInvalidConfig = errors.New("invalid bundler configuration")

// Config describes how the client entry point gets compiled into artifacts a
// browser can load.
type Config struct {
	// Mode is either "development" or "production".
	Mode string `yaml:"mode,omitempty"`
	// Entry is the Go package of the client entry point, such as
	// "./cmd/client".
	Entry string `yaml:"entry,omitempty"`
	// Output is where the loader script ends up.
	Output Output `yaml:"output,omitempty"`
	// Wasm is the file name of the compiled client, placed next to the
	// loader script.
	Wasm string `yaml:"wasm,omitempty"`
	// Minify minifies the loader script and strips the compiled client;
	// unset means minifying in production mode only.
	Minify *bool `yaml:"minify,omitempty"`
	// Sourcemap emits a linked source map for the loader script.
	Sourcemap *bool `yaml:"sourcemap,omitempty"`
	// Tags are additional Go build tags for the client.
	Tags []string `yaml:"tags,omitempty"`
}

// Output describes the name and location of the loader script.
type Output struct {
	Filename string `yaml:"filename,omitempty"`
	Path     string `yaml:"path,omitempty"`
}

// Base returns the configuration shared by all builds.
func Base() Config {
	return Config{
		Mode: ModeProduction,
		Output: Output{
			Path: "public",
		},
		Wasm: "index.wasm",
	}
}

// Client returns the client build configuration: the base configuration
// merged with the client entry point and the index.js output file the
// rendered documents refer to.
func Client() Config {
	return Merge(Base(), Config{
		Mode:  ModeDevelopment,
		Entry: "./cmd/client",
		Output: Output{
			Filename: "index.js",
			Path:     "public",
		},
	})
}

// Merge returns base with all fields set in override replacing their
// counterparts; tags get appended.
func Merge(base, override Config) Config {
	merged := base
	if override.Mode != "" {
		merged.Mode = override.Mode
	}
	if override.Entry != "" {
		merged.Entry = override.Entry
	}
	if override.Output.Filename != "" {
		merged.Output.Filename = override.Output.Filename
	}
	if override.Output.Path != "" {
		merged.Output.Path = override.Output.Path
	}
	if override.Wasm != "" {
		merged.Wasm = override.Wasm
	}
	if override.Minify != nil {
		merged.Minify = override.Minify
	}
	if override.Sourcemap != nil {
		merged.Sourcemap = override.Sourcemap
	}
	merged.Tags = append(append([]string(nil), base.Tags...), override.Tags...)
	return merged
}

// Load reads the YAML configuration file at path and returns it merged over
// the client configuration. Unknown fields are errors.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}
	var cfg Config
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("%w: %s: %w", ErrInvalidConfig, path, err)
	}
	merged := Merge(Client(), cfg)
	if err := merged.Validate(); err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return merged, nil
}

// Validate checks that the configuration is complete.
func (c Config) Validate() error {
	switch {
	case c.Mode != ModeDevelopment && c.Mode != ModeProduction:
		return fmt.Errorf("%w: unknown mode %q", ErrInvalidConfig, c.Mode)
	case c.Entry == "":
		return fmt.Errorf("%w: missing entry", ErrInvalidConfig)
	case c.Output.Path == "":
		return fmt.Errorf("%w: missing output path", ErrInvalidConfig)
	case !plainFilename(c.Output.Filename):
		return fmt.Errorf("%w: bad output filename %q", ErrInvalidConfig, c.Output.Filename)
	case !plainFilename(c.Wasm):
		return fmt.Errorf("%w: bad wasm filename %q", ErrInvalidConfig, c.Wasm)
	case c.Wasm == c.Output.Filename:
		return fmt.Errorf("%w: wasm and output filename clash", ErrInvalidConfig)
	}
	return nil
}

// Minifying returns true if the build should minify.
func (c Config) Minifying() bool {
	if c.Minify != nil {
		return *c.Minify
	}
	return c.Mode == ModeProduction
}

// Sourcemapping returns true if the build should emit a source map.
func (c Config) Sourcemapping() bool {
	return c.Sourcemap != nil && *c.Sourcemap
}

func plainFilename(name string) bool {
	return name != "" && name != "." && name != ".." && !strings.ContainsAny(name, `/\`)
}
