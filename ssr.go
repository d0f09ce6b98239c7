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

package ssrserve

import (
	"io"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"path"
	"strconv"
	"strings"
	"time"
)

// SSRHandler implements an http.Handler that serves static assets from a
// public file system wherever a regular file matches the request path, and
// server-side renders the application for all other paths.
type SSRHandler struct {
	fs                fs.FS            // the FS to serve static resources from.
	staticfileHandler http.Handler     // FS adapted to http's file serving handler needs.
	renderer          *Renderer        // renders documents for non-static paths.
	documentRewriter  DocumentRewriter // optional user function to post-process rendered documents.
	logger            *slog.Logger
	metrics           *Metrics
}

// NewSSRHandler returns a new HTTP handler serving static resources from the
// specified fs, falling back to rendering a document using the specified
// renderer whenever no regular file matches the request path.
//
// In order to serve the static resources from a directory on the OS file
// system, use os.DirFS:
//
//	h := NewSSRHandler(os.DirFS("public"), NewRenderer(myapp))
func NewSSRHandler(fs fs.FS, renderer *Renderer, opts ...SSRHandlerOption) *SSRHandler {
	h := &SSRHandler{
		fs:                fs,
		staticfileHandler: http.FileServer(http.FS(fs)),
		renderer:          renderer,
		logger:            slog.Default(),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// SSRHandlerOption sets optional properties at the time of creating an
// SSRHandler.
type SSRHandlerOption func(*SSRHandler)

// DocumentRewriter rewrites (parts) of a rendered document before it is
// delivered to the requesting client.
type DocumentRewriter func(r *http.Request, document string) string

// WithDocumentRewriter sets the specified DocumentRewriter that gets called
// before delivering rendered documents to requesting clients, allowing for
// application-specific changes.
func WithDocumentRewriter(rewriter DocumentRewriter) SSRHandlerOption {
	return func(h *SSRHandler) {
		h.documentRewriter = rewriter
	}
}

// WithLogger sets the logger render failures are reported to; it defaults to
// slog.Default().
func WithLogger(logger *slog.Logger) SSRHandlerOption {
	return func(h *SSRHandler) {
		h.logger = logger
	}
}

// WithMetrics sets the metrics to record renders and static assets served.
func WithMetrics(m *Metrics) SSRHandlerOption {
	return func(h *SSRHandler) {
		h.metrics = m
	}
}

// ServeHTTP serves a static asset if a regular file matches the request path,
// and otherwise renders the application. Static assets always take precedence
// over rendering.
func (h *SSRHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		w.Header().Set("Allow", "GET, HEAD")
		NormalizedHttpError(w, ErrMethodNotAllowed)
		return
	}
	// Get the absolute and also cleaned path to the requested resource in order
	// to prevent parent directory traversal outside the static assets
	// directory. Slapping "/" ensures that path.Clean does NOT to use the
	// current working dir for resolving the request path.
	r.URL.Path = path.Clean("/" + r.URL.Path)
	if h.serveStaticAsset(w, r) {
		return
	}
	h.serveRendered(w, r)
}

// serveRendered renders the application for the request path and serves the
// resulting document.
func (h *SSRHandler) serveRendered(w http.ResponseWriter, r *http.Request) {
	rc := NewRenderContext(r)
	start := time.Now()
	doc, err := h.renderer.Render(r.Context(), rc)
	h.metrics.observeRender(err, time.Since(start))
	if err != nil {
		h.logger.Error("rendering failed",
			slog.String("path", rc.Path),
			slog.String("original_path", rc.OriginalPath),
			slog.String("request_id", rc.RequestID),
			slog.Any("error", err))
		NormalizedHttpError(w, err)
		return
	}
	if h.documentRewriter != nil {
		doc = h.documentRewriter(r, doc)
	}
	hdr := w.Header()
	hdr.Set("Content-Type", "text/html; charset=utf-8")
	hdr.Set("Content-Length", strconv.Itoa(len(doc)))
	w.WriteHeader(http.StatusOK)
	if r.Method == http.MethodHead {
		return
	}
	if _, err := io.Copy(w, strings.NewReader(doc)); err != nil {
		h.logger.Debug("writing document failed",
			slog.String("request_id", rc.RequestID),
			slog.Any("error", err))
	}
}

// serveStaticAsset tries to serve a static asset specified in uripath from the
// SSRHandler's fs and returning true if successful. If no such static asset
// exists, nothing is served and false is returned instead.
//
// IMPORTANT: the passed r.URL.Path must have already been sanitized.
func (h *SSRHandler) serveStaticAsset(w http.ResponseWriter, r *http.Request) bool {
	// fs.Stat works around fs.FS implementations that don't support fs.StatFS.
	path := r.URL.Path[1:] // ...fs.FS uses unrooted paths.
	if path == "" {
		return false // hitting root is always a case for rendering.
	}
	info, err := fs.Stat(h.fs, path)
	// Only "regular" files are static assets; directories get rendered.
	if err == nil && info.Mode()&os.ModeType == 0 {
		h.metrics.observeStatic()
		h.staticfileHandler.ServeHTTP(w, r)
		return true
	}
	// If we got an error and it isn't a missing static asset, then normalize
	// (or rather, sanitize) the error and send that back to the client.
	if err != nil && !os.IsNotExist(err) {
		NormalizedHttpError(w, err)
		return true
	}
	return false
}
