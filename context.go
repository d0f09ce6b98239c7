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
	"net/http"
	"net/url"
	"path"
	"strings"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
)

// ForwardedPrefixHeader, if present, specifies the prefix that need to be
// preprended to the request's URI path in order to learn the original path
// when hitting the path rewriting proxy.
const ForwardedPrefixHeader = "X-Forwarded-Prefix"

// ForwardedUriHeader, if present, specifies the original URI (or sometimes only
// the original URI path) of a request when hitting the first path rewriting
// proxy.
const ForwardedUriHeader = "X-Forwarded-Uri"

// RenderContext describes a single render pass. It gets created per request
// and discarded after the render completes.
type RenderContext struct {
	Path         string // cleaned request path, the location to render.
	OriginalPath string // request path as seen by the first proxy, if any.
	Base         string // base path the application is served from, always ending in "/".
	RequestID    string // upstream request ID or a fresh UUID.
}

// NewRenderContext returns the render context for the specified request,
// whose URL path must already have been sanitized.
func NewRenderContext(r *http.Request) *RenderContext {
	reqID := middleware.GetReqID(r.Context())
	if reqID == "" {
		reqID = uuid.NewString()
	}
	original, base := proxiedPaths(r)
	return &RenderContext{
		Path:         r.URL.Path,
		OriginalPath: original,
		Base:         base,
		RequestID:    reqID,
	}
}

// Resolve returns the specified absolute URL path relative to the base path,
// so that it still works behind a path rewriting proxy. Relative paths as well
// as URLs with a scheme or host are returned unchanged.
func (rc *RenderContext) Resolve(p string) string {
	if !strings.HasPrefix(p, "/") || strings.HasPrefix(p, "//") {
		return p
	}
	if rc.Base == "" || rc.Base == "/" {
		return p
	}
	return strings.TrimSuffix(rc.Base, "/") + p
}

// proxiedPaths returns the request path as seen by the first proxy in a chain
// together with the base path the application is served from. Without any
// forwarding headers, the original path is the (sanitized) request path and
// the base is "/".
func proxiedPaths(r *http.Request) (original, base string) {
	reqPath := r.URL.Path
	original = forwardedPath(r)
	if original == "" {
		return reqPath, "/"
	}
	// A proxy might have redirected "/foo" to "/foo/" before rewriting the
	// path to "/".
	stripped := original
	if strings.HasSuffix(reqPath, "/") && !strings.HasSuffix(stripped, "/") {
		stripped += "/"
	}
	base = "/"
	if prefix, ok := strings.CutSuffix(stripped, reqPath); ok && prefix != "" {
		base = prefix
		if !strings.HasSuffix(base, "/") {
			base += "/"
		}
	}
	return original, base
}

// forwardedPath returns the original request path from the forwarding
// headers, or "" if there are none.
func forwardedPath(r *http.Request) string {
	if prefix := r.Header.Get(ForwardedPrefixHeader); prefix != "" {
		return path.Join(path.Clean("/"+prefix), r.URL.Path)
	}
	// Some proxies pass only the request path, others the full original URI.
	fwuri := r.Header.Get(ForwardedUriHeader)
	switch {
	case fwuri == "":
		return ""
	case strings.HasPrefix(fwuri, "/"):
		return path.Clean(fwuri)
	}
	u, err := url.Parse(fwuri)
	if err != nil {
		return ""
	}
	return path.Clean("/" + u.Path)
}
