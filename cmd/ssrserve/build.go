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

package main

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/thediveo/ssrserve/bundle"
)

func buildCmd(g *globals) *cobra.Command {
	var (
		dir        string
		configFile string
		mode       string
		output     string
	)
	cmd := &cobra.Command{
		Use:   "build",
		Short: "Build the client bundle",
		Long: `Compile the client entry point to WebAssembly and bundle the
loader script rendered pages refer to.

This command:
  • reads ssrserve.yaml from the project directory, if present
  • compiles the client entry point with GOOS=js GOARCH=wasm
  • bundles the loader together with Go's wasm_exec.js

Examples:
  ssrserve build
  ssrserve build --mode=production`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadBundleConfig(dir, configFile)
			if err != nil {
				return err
			}
			cfg = bundle.Merge(cfg, bundle.Config{
				Mode:   mode,
				Output: bundle.Output{Path: output},
			})
			res, err := bundle.New(cfg,
				bundle.WithDir(dir),
				bundle.WithLogger(g.logger)).Build(cmd.Context())
			if err != nil {
				return err
			}
			g.logger.Info("client built",
				slog.String("script", res.Script),
				slog.Int64("script_bytes", res.ScriptSize),
				slog.String("wasm", res.Wasm),
				slog.Int64("wasm_bytes", res.WasmSize),
				slog.Duration("duration", res.Duration))
			return nil
		},
	}
	cmd.Flags().StringVarP(&dir, "dir", "C", ".", "project directory")
	cmd.Flags().StringVar(&configFile, "config", "",
		"bundler configuration file (default "+bundle.ConfigFileName+" in the project directory)")
	cmd.Flags().StringVar(&mode, "mode", "", "build mode (development, production)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output directory")
	return cmd
}

// loadBundleConfig loads the bundler configuration file; only an explicitly
// named configuration file must exist.
func loadBundleConfig(dir, configFile string) (bundle.Config, error) {
	explicit := configFile != ""
	if !explicit {
		configFile = filepath.Join(dir, bundle.ConfigFileName)
	}
	cfg, err := bundle.Load(configFile)
	if err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			return bundle.Client(), nil
		}
		return bundle.Config{}, fmt.Errorf("cannot load bundler configuration: %w", err)
	}
	return cfg, nil
}
