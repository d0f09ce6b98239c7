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
	"context"
	_ "embed"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/evanw/esbuild/pkg/api"
)

// ErrBuild signals that compiling or bundling the client failed.
var ErrBuild = errors.New("client build failed")

//go:embed loader/index.js
var loaderJS []byte

// Result describes the artifacts of a successful build.
type Result struct {
	Script     string // path of the loader script.
	Wasm       string // path of the compiled client.
	ScriptSize int64
	WasmSize   int64
	Duration   time.Duration
}

// Bundler builds the client artifacts according to its Config.
type Bundler struct {
	cfg      Config
	dir      string // project directory, entry and output paths are relative to it.
	goTool   string
	wasmExec string // explicit wasm_exec.js, instead of the Go installation's.
	logger   *slog.Logger
}

// Option sets optional properties at the time of creating a Bundler.
type Option func(*Bundler)

// WithDir sets the project directory; it defaults to the working directory.
func WithDir(dir string) Option {
	return func(b *Bundler) {
		b.dir = dir
	}
}

// WithGoTool sets the go command to compile the client with; it defaults to
// "go" as found in PATH.
func WithGoTool(goTool string) Option {
	return func(b *Bundler) {
		b.goTool = goTool
	}
}

// WithWasmExec sets the wasm_exec.js support script to bundle, instead of
// the one shipping with the Go installation.
func WithWasmExec(path string) Option {
	return func(b *Bundler) {
		b.wasmExec = path
	}
}

// WithLogger sets the logger build progress gets reported to.
func WithLogger(logger *slog.Logger) Option {
	return func(b *Bundler) {
		b.logger = logger
	}
}

// New returns a new Bundler for the specified configuration.
func New(cfg Config, opts ...Option) *Bundler {
	b := &Bundler{
		cfg:    cfg,
		dir:    ".",
		goTool: "go",
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Build compiles the client to WebAssembly and bundles the loader script
// booting it, placing both into the configured output path.
func (b *Bundler) Build(ctx context.Context) (*Result, error) {
	if err := b.cfg.Validate(); err != nil {
		return nil, err
	}
	start := time.Now()
	outDir := filepath.Join(b.dir, b.cfg.Output.Path)
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBuild, err)
	}
	res := &Result{
		Script: filepath.Join(outDir, b.cfg.Output.Filename),
		Wasm:   filepath.Join(outDir, b.cfg.Wasm),
	}

	b.logger.Info("compiling client",
		slog.String("entry", b.cfg.Entry), slog.String("output", res.Wasm))
	if err := b.compile(ctx, res.Wasm); err != nil {
		return nil, err
	}
	wasmExec, err := b.wasmExecPath(ctx)
	if err != nil {
		return nil, err
	}
	b.logger.Info("bundling loader",
		slog.String("wasm_exec", wasmExec), slog.String("output", res.Script))
	if err := b.bundle(wasmExec, res.Script, path.Join("/", b.cfg.Wasm)); err != nil {
		return nil, err
	}

	if res.WasmSize, err = fileSize(res.Wasm); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBuild, err)
	}
	if res.ScriptSize, err = fileSize(res.Script); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBuild, err)
	}
	res.Duration = time.Since(start)
	return res, nil
}

// compile builds the client entry point for GOOS=js GOARCH=wasm.
func (b *Bundler) compile(ctx context.Context, output string) error {
	abs, err := filepath.Abs(output)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBuild, err)
	}
	args := []string{"build", "-o", abs, "-trimpath"}
	if len(b.cfg.Tags) > 0 {
		args = append(args, "-tags", strings.Join(b.cfg.Tags, ","))
	}
	if b.cfg.Minifying() {
		args = append(args, "-ldflags", "-s -w")
	}
	args = append(args, b.cfg.Entry)

	cmd := exec.CommandContext(ctx, b.goTool, args...)
	cmd.Dir = b.dir
	cmd.Env = append(os.Environ(), "GOOS=js", "GOARCH=wasm")
	if out, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("%w: go %s: %w\n%s",
			ErrBuild, strings.Join(args, " "), err, bytes.TrimSpace(out))
	}
	return nil
}

// wasmExecPath returns the path of the wasm_exec.js support script matching
// the Go installation the client gets compiled with.
func (b *Bundler) wasmExecPath(ctx context.Context) (string, error) {
	if b.wasmExec != "" {
		return b.wasmExec, nil
	}
	cmd := exec.CommandContext(ctx, b.goTool, "env", "GOROOT")
	cmd.Dir = b.dir
	out, err := cmd.Output()
	if err != nil {
		return "", fmt.Errorf("%w: go env GOROOT: %w", ErrBuild, err)
	}
	goroot := strings.TrimSpace(string(out))
	// Go 1.24 moved the support script from misc/wasm to lib/wasm.
	for _, candidate := range []string{
		filepath.Join(goroot, "lib", "wasm", "wasm_exec.js"),
		filepath.Join(goroot, "misc", "wasm", "wasm_exec.js"),
	} {
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("%w: no wasm_exec.js in GOROOT %s", ErrBuild, goroot)
}

// bundle bundles the embedded loader together with the wasm_exec.js support
// script into the outfile.
func (b *Bundler) bundle(wasmExec, outfile, wasmURL string) error {
	work, err := os.MkdirTemp("", "ssrserve-bundle-*")
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBuild, err)
	}
	defer os.RemoveAll(work)
	support, err := os.ReadFile(wasmExec)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBuild, err)
	}
	if err := os.WriteFile(filepath.Join(work, "wasm_exec.js"), support, 0o644); err != nil {
		return fmt.Errorf("%w: %w", ErrBuild, err)
	}
	entry := filepath.Join(work, "index.js")
	if err := os.WriteFile(entry, loaderJS, 0o644); err != nil {
		return fmt.Errorf("%w: %w", ErrBuild, err)
	}

	minify := b.cfg.Minifying()
	sourcemap := api.SourceMapNone
	if b.cfg.Sourcemapping() {
		sourcemap = api.SourceMapLinked
	}
	result := api.Build(api.BuildOptions{
		EntryPoints:       []string{entry},
		Outfile:           outfile,
		Bundle:            true,
		Write:             true,
		Platform:          api.PlatformBrowser,
		Format:            api.FormatIIFE,
		Target:            api.ES2017,
		MinifyWhitespace:  minify,
		MinifyIdentifiers: minify,
		MinifySyntax:      minify,
		Sourcemap:         sourcemap,
		Define:            map[string]string{"__WASM_URL__": strconv.Quote(wasmURL)},
		LogLevel:          api.LogLevelSilent,
	})
	if len(result.Errors) > 0 {
		msgs := api.FormatMessages(result.Errors, api.FormatMessagesOptions{
			Kind: api.ErrorMessage,
		})
		return fmt.Errorf("%w: %s", ErrBuild, strings.TrimSpace(strings.Join(msgs, "")))
	}
	return nil
}

func fileSize(name string) (int64, error) {
	info, err := os.Stat(name)
	if err != nil {
		return 0, err
	}
	return info.Size(), nil
}
