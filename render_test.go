// Copyright 2026 Harald Albrecht.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may not
// use this file except in compliance with the License. You may obtain a copy
// of the License at
//
//    http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS, WITHOUT
// WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the
// License for the specific language governing permissions and limitations
// under the License.

package ssrserve

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"go.opentelemetry.io/otel/trace/noop"

	"github.com/thediveo/ssrserve/view"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	. "github.com/thediveo/success"
)

var _ = Describe("rendering documents", func() {

	ctx := context.Background()

	It("renders the fixed document shape", func() {
		r := NewRenderer(testApp)
		doc := Successful(r.Render(ctx, &RenderContext{Path: "/"}))
		Expect(doc).To(Equal(`<html>
  <head><title>ssr</title></head>
  <body>
    <div id="root"><p class="path">at /</p></div>
    <script src="/index.js"></script>
  </body>
</html>
`))
	})

	It("renders with custom title, root and script", func() {
		r := NewRenderer(testApp,
			WithTitle("Fish & Chips"),
			WithRootID("app"),
			WithScriptSrc("/assets/app.js"),
			WithTracer(noop.NewTracerProvider().Tracer("test")))
		doc := Successful(r.Render(ctx, &RenderContext{Path: "/x"}))
		Expect(doc).To(ContainSubstring(`<title>Fish &amp; Chips</title>`))
		Expect(doc).To(ContainSubstring(`<div id="app"><p class="path">at /x</p></div>`))
		Expect(doc).To(ContainSubstring(`<script src="/assets/app.js"></script>`))
	})

	It("refers to the client script below the proxy base path", func() {
		r := NewRenderer(testApp)
		doc := Successful(r.Render(ctx, &RenderContext{Path: "/x", Base: "/app/"}))
		Expect(doc).To(ContainSubstring(`<script src="/app/index.js"></script>`))
	})

	It("doesn't double-escape markup", func() {
		r := NewRenderer(AppFunc(func(rc *RenderContext) (*view.Node, error) {
			return view.El("b", "<&>"), nil
		}))
		Expect(r.Render(ctx, &RenderContext{Path: "/"})).To(
			ContainSubstring(`<div id="root"><b>&lt;&amp;&gt;</b></div>`))
	})

	DescribeTable("reports render failures",
		func(path string, reason string) {
			r := NewRenderer(testApp)
			doc, err := r.Render(ctx, &RenderContext{Path: path})
			Expect(err).To(MatchError(ErrRender))
			Expect(err).To(MatchError(ContainSubstring(reason)))
			Expect(doc).To(BeEmpty())
		},
		Entry("app error", "/error", "app failure"),
		Entry("panic", "/panic", "panic: view tree exploded"),
		Entry("invalid tree", "/invalid", "invalid view node"),
	)

	It("renders empty markup for a nil tree", func() {
		r := NewRenderer(AppFunc(func(*RenderContext) (*view.Node, error) { return nil, nil }))
		Expect(r.Render(ctx, &RenderContext{Path: "/"})).To(ContainSubstring(`<div id="root"></div>`))
	})

	It("keeps concurrent renders isolated", func() {
		// Each render builds its own state from its render context; a shared
		// state would make renders observe each other's paths.
		app := AppFunc(func(rc *RenderContext) (*view.Node, error) {
			state := map[string]string{}
			state["path"] = rc.Path
			items := make([]*view.Node, 0, 50)
			for idx := 0; idx < 50; idx++ {
				items = append(items, view.El("li", state["path"]))
			}
			return view.El("ul", items), nil
		})
		r := NewRenderer(app)
		const renders = 32
		docs := make([]string, renders)
		var wg sync.WaitGroup
		for idx := 0; idx < renders; idx++ {
			wg.Add(1)
			go func(idx int) {
				defer GinkgoRecover()
				defer wg.Done()
				docs[idx] = Successful(r.Render(ctx, &RenderContext{Path: fmt.Sprintf("/p%d", idx)}))
			}(idx)
		}
		wg.Wait()
		for idx, doc := range docs {
			Expect(strings.Count(doc, fmt.Sprintf("<li>/p%d</li>", idx))).To(Equal(50))
		}
	})

})
