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
	"context"
	"errors"
	"fmt"
	"html/template"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/thediveo/ssrserve/view"
)

// ErrRender signals that a view tree could not be rendered, for instance
// because the application failed to build it or built an invalid one.
var ErrRender = errors.New("render failed")

// Defaults for the rendered HTML document.
const (
	DefaultTitle     = "ssr"
	DefaultScriptSrc = "/index.js"
	DefaultRootID    = "root"
)

// TracerName identifies the tracer render spans are created with.
const TracerName = "github.com/thediveo/ssrserve"

// documentTemplate is the HTML document each render pass gets wrapped in. The
// client bundle hydrates the element with the root ID.
var documentTemplate = template.Must(template.New("document").Parse(`<html>
  <head><title>{{.Title}}</title></head>
  <body>
    <div id="{{.RootID}}">{{.Markup}}</div>
    <script src="{{.ScriptSrc}}"></script>
  </body>
</html>
`))

type document struct {
	Title     string
	RootID    string
	Markup    template.HTML
	ScriptSrc string
}

// App builds the view tree for a single render pass. Implementations must
// construct all application state afresh for each call, as calls for
// different requests may run concurrently.
type App interface {
	Tree(rc *RenderContext) (*view.Node, error)
}

// AppFunc adapts an ordinary function to the App interface.
type AppFunc func(rc *RenderContext) (*view.Node, error)

// Tree calls f(rc).
func (f AppFunc) Tree(rc *RenderContext) (*view.Node, error) {
	return f(rc)
}

// Renderer renders an App to complete HTML documents.
type Renderer struct {
	app       App
	title     string
	rootID    string
	scriptSrc string
	tracer    trace.Tracer
}

// RendererOption sets optional properties at the time of creating a Renderer.
type RendererOption func(*Renderer)

// WithTitle sets the document title.
func WithTitle(title string) RendererOption {
	return func(r *Renderer) {
		r.title = title
	}
}

// WithRootID sets the id of the element the markup is rendered into and that
// the client hydrates.
func WithRootID(id string) RendererOption {
	return func(r *Renderer) {
		r.rootID = id
	}
}

// WithScriptSrc sets the URL of the client bundle script.
func WithScriptSrc(src string) RendererOption {
	return func(r *Renderer) {
		r.scriptSrc = src
	}
}

// WithTracer sets the tracer for render spans; it defaults to a tracer from
// the global OpenTelemetry tracer provider.
func WithTracer(tracer trace.Tracer) RendererOption {
	return func(r *Renderer) {
		r.tracer = tracer
	}
}

// NewRenderer returns a new Renderer for the specified App.
func NewRenderer(app App, opts ...RendererOption) *Renderer {
	r := &Renderer{
		app:       app,
		title:     DefaultTitle,
		rootID:    DefaultRootID,
		scriptSrc: DefaultScriptSrc,
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.tracer == nil {
		r.tracer = otel.Tracer(TracerName)
	}
	return r
}

// Render renders the App's view tree for the specified render context and
// returns the complete HTML document. Render has no side effects beyond
// tracing. Errors, including panics while building or rendering the view
// tree, are reported as errors wrapping ErrRender.
func (r *Renderer) Render(ctx context.Context, rc *RenderContext) (doc string, err error) {
	_, span := r.tracer.Start(ctx, "ssrserve.render",
		trace.WithAttributes(
			attribute.String("ssrserve.path", rc.Path),
			attribute.String("ssrserve.request_id", rc.RequestID),
		))
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		} else {
			span.SetStatus(codes.Ok, "")
		}
		span.End()
	}()

	markup, err := r.markup(rc)
	if err != nil {
		return "", err
	}
	span.SetAttributes(attribute.Int("ssrserve.markup_bytes", len(markup)))
	var b strings.Builder
	if err := documentTemplate.Execute(&b, document{
		Title:     r.title,
		RootID:    r.rootID,
		Markup:    template.HTML(markup),
		ScriptSrc: rc.Resolve(r.scriptSrc),
	}); err != nil {
		return "", fmt.Errorf("%w: %w", ErrRender, err)
	}
	return b.String(), nil
}

// markup returns the markup of the App's view tree, turning panics into
// errors.
func (r *Renderer) markup(rc *RenderContext) (markup string, err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("%w: panic: %v", ErrRender, p)
		}
	}()
	tree, err := r.app.Tree(rc)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrRender, err)
	}
	markup, err = view.RenderString(tree)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrRender, err)
	}
	return markup, nil
}
