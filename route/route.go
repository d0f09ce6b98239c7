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

/*
Package route maps locations to route patterns and provides the routing
boundaries view trees render within: a Static boundary pinned to a single
location for server-side rendering, and a History boundary for the browser.
*/
package route

import (
	"net/http"
	"net/url"
	"path"
	"strings"

	"github.com/go-chi/chi/v5"
)

// Router is the location-aware boundary a view tree renders within.
type Router interface {
	// Location returns the current, cleaned location path.
	Location() string
	// Navigate requests a change of location.
	Navigate(to string)
}

// Static is a Router fixed to a single location, as needed when rendering on
// the server. Navigation requests are only recorded, but never acted upon.
type Static struct {
	location   string
	navigateTo string
}

var _ Router = (*Static)(nil)

// NewStatic returns a Router fixed to the specified location. Any query or
// fragment gets dropped.
func NewStatic(location string) *Static {
	return &Static{location: Clean(location)}
}

// Location returns the location this router is fixed to.
func (s *Static) Location() string { return s.location }

// Navigate records the requested location without changing the current
// location.
func (s *Static) Navigate(to string) { s.navigateTo = to }

// NavigatedTo returns the location most recently requested via Navigate, or
// "" if there wasn't any navigation request.
func (s *Static) NavigatedTo() string { return s.navigateTo }

// Clean returns the location path with any query or fragment stripped and
// sanitized to always be absolute.
func Clean(location string) string {
	if idx := strings.IndexAny(location, "?#"); idx >= 0 {
		location = location[:idx]
	}
	return path.Clean("/" + location)
}

// FromPathname returns the cleaned location for a percent-encoded URL path,
// such as the browser's location.pathname. It decodes the path the same way
// net/http decodes request paths, falling back to the raw path if it isn't
// validly encoded.
func FromPathname(pathname string) string {
	if decoded, err := url.PathUnescape(pathname); err == nil {
		pathname = decoded
	}
	return Clean(pathname)
}

// Pathname returns the percent-encoded URL path for the specified location.
func Pathname(location string) string {
	return (&url.URL{Path: Clean(location)}).EscapedPath()
}

// History is a history-aware Router, with the actual history plumbing left to
// its functions.
type History struct {
	// Pathname returns the current percent-encoded location path.
	Pathname func() string
	// Push adds a new history entry for the percent-encoded path.
	Push func(pathname string)
	// Changed gets called with the new location after navigating or after
	// the history has moved on its own.
	Changed func(location string)
}

var _ Router = (*History)(nil)

// Location returns the current location, decoded and cleaned.
func (h *History) Location() string {
	return FromPathname(h.Pathname())
}

// Navigate pushes a new history entry for the requested location, unless it
// is already the current location.
func (h *History) Navigate(to string) {
	to = Clean(to)
	if to == h.Location() {
		return
	}
	h.Push(Pathname(to))
	h.Changed(to)
}

// Moved signals that the history changed the current location on its own,
// such as when going back.
func (h *History) Moved() {
	h.Changed(h.Location())
}

// Match is the result of matching a location against a Table.
type Match struct {
	Pattern string            // the matching route pattern.
	Params  map[string]string // URL parameters, such as "id" in "/users/{id}".
}

// Param returns the named URL parameter or "".
func (m Match) Param(key string) string {
	return m.Params[key]
}

// Table is an ordered set of route patterns in chi syntax, such as "/",
// "/about" or "/users/{id}".
type Table struct {
	mux      *chi.Mux
	patterns []string
}

// NewTable returns a new route table for the specified patterns. It panics on
// malformed patterns, as tables are set up once at program start.
func NewTable(patterns ...string) *Table {
	t := &Table{mux: chi.NewRouter()}
	for _, pattern := range patterns {
		t.mux.Get(pattern, http.NotFound)
		t.patterns = append(t.patterns, pattern)
	}
	return t
}

// Patterns returns the route patterns of this table in the order they were
// declared.
func (t *Table) Patterns() []string {
	return append([]string(nil), t.patterns...)
}

// Match returns the route matching the specified location and true; otherwise,
// it returns false.
func (t *Table) Match(location string) (Match, bool) {
	rctx := chi.NewRouteContext()
	if !t.mux.Match(rctx, http.MethodGet, Clean(location)) {
		return Match{}, false
	}
	m := Match{
		Pattern: rctx.RoutePattern(),
		Params:  make(map[string]string, len(rctx.URLParams.Keys)),
	}
	for idx, key := range rctx.URLParams.Keys {
		m.Params[key] = rctx.URLParams.Values[idx]
	}
	return m, true
}
