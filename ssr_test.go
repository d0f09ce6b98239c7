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
	"embed"
	"errors"
	"io/fs"
	"net/http"
	"net/url"
	"os"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/thediveo/ssrserve/test/httptest"
	"github.com/thediveo/ssrserve/view"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	. "github.com/thediveo/success"
)

//go:embed test/public
var embeddedFiles embed.FS
var embStaticFs, _ = fs.Sub(embeddedFiles, "test/public")

// testApp renders the request path, except for a few paths that fail in
// different ways.
var testApp = AppFunc(func(rc *RenderContext) (*view.Node, error) {
	switch rc.Path {
	case "/error":
		return nil, errors.New("app failure")
	case "/panic":
		panic("view tree exploded")
	case "/invalid":
		return view.El("div", view.El("")), nil
	}
	return view.El("p", view.Class("path"), view.Textf("at %s", rc.Path)), nil
})

func newRequest(method, path string, header http.Header) *http.Request {
	GinkgoHelper()
	return &http.Request{
		Method: method,
		URL:    Successful(url.Parse("http://foo.bar:12345" + path)),
		Header: header,
	}
}

var _ = Describe("SSR handler", func() {

	DescribeTable("test has embedded files correctly set up",
		func(name string) {
			f := Successful(embStaticFs.Open(name))
			f.Close()
		},
		Entry("index.js", "index.js"),
		Entry("static/js/some.js", "static/js/some.js"),
	)

	DescribeTable("serves static content with correct status code",
		func(path string, expectedServed bool, expectedCanary string, expectedStatus int) {
			r := newRequest("GET", path, http.Header{})
			h := NewSSRHandler(embStaticFs, NewRenderer(testApp))
			w := httptest.NewRecorder()
			Expect(h.serveStaticAsset(w, r)).To(Equal(expectedServed))
			switch expectedStatus {
			case 0:
			case http.StatusOK:
				contents := Successful(w.Body.ReadBytes('\n'))
				Expect(string(contents)).To(ContainSubstring(expectedCanary))
			default:
				Expect(w.Result().StatusCode).To(Equal(expectedStatus))
			}
		},
		Entry("/index.js",
			"/index.js", true, "CANARY JS", http.StatusOK),
		Entry("/static/js/some.js",
			"/static/js/some.js", true, "CANARY SOME JS", http.StatusOK),
		Entry("/", "/", false, "", 0),
		Entry("/static/foo/bar",
			"/static/foo/bar", false, "", 0),
		Entry("/static is a directory",
			"/static", false, "", 0),
		Entry("/.. is rejected", "/..", true, "", http.StatusInternalServerError),
	)

	It("serves static assets in precedence to rendering", func() {
		r := newRequest("GET", "/index.js", nil)
		h := NewSSRHandler(embStaticFs, NewRenderer(testApp))
		w := httptest.NewRecorder()
		h.ServeHTTP(w, r)
		Expect(w.Result().StatusCode).To(Equal(http.StatusOK))
		Expect(w.Body.String()).To(Equal(string(Successful(fs.ReadFile(embStaticFs, "index.js")))))
		Expect(w.Body.String()).NotTo(ContainSubstring("<html>"))
	})

	DescribeTable("renders all other paths",
		func(path, expectedText string) {
			r := newRequest("GET", path, nil)
			h := NewSSRHandler(embStaticFs, NewRenderer(testApp))
			w := httptest.NewRecorder()
			h.ServeHTTP(w, r)
			Expect(w.Result().StatusCode).To(Equal(http.StatusOK))
			Expect(w.Result().Header.Get("Content-Type")).To(Equal("text/html; charset=utf-8"))
			doc := Successful(goquery.NewDocumentFromReader(w.Body))
			Expect(doc.Find("title").Text()).To(Equal("ssr"))
			root := doc.Find("div#root")
			Expect(root.Length()).To(Equal(1), "missing or duplicate root element")
			Expect(root.Find("p.path").Text()).To(Equal(expectedText))
			scripts := doc.Find(`script[src="/index.js"]`)
			Expect(scripts.Length()).To(Equal(1), "missing or duplicate client bundle script")
		},
		Entry("/", "/", "at /"),
		Entry("/foo/bar", "/foo/bar", "at /foo/bar"),
		Entry("unclean /foo/../bar", "/foo/../bar", "at /bar"),
		Entry("directory /static", "/static", "at /static"),
		Entry("missing /static/foo.js", "/static/foo.js", "at /static/foo.js"),
		Entry("escaped /<b>", "/%3Cb%3E", "at /<b>"),
	)

	It("refers to the client script behind a path rewriting proxy", func() {
		r := newRequest("GET", "/foo", http.Header{
			ForwardedPrefixHeader: []string{"/app"},
		})
		h := NewSSRHandler(embStaticFs, NewRenderer(testApp))
		w := httptest.NewRecorder()
		h.ServeHTTP(w, r)
		Expect(w.Result().StatusCode).To(Equal(http.StatusOK))
		doc := Successful(goquery.NewDocumentFromReader(w.Body))
		Expect(doc.Find(`script[src="/app/index.js"]`).Length()).To(Equal(1))
		Expect(doc.Find("p.path").Text()).To(Equal("at /foo"))
	})

	It("answers HEAD requests without a body", func() {
		r := newRequest("HEAD", "/foo", nil)
		h := NewSSRHandler(embStaticFs, NewRenderer(testApp))
		w := httptest.NewRecorder()
		h.ServeHTTP(w, r)
		Expect(w.Result().StatusCode).To(Equal(http.StatusOK))
		Expect(w.Result().Header.Get("Content-Length")).NotTo(BeEmpty())
		Expect(w.Body.Len()).To(BeZero())
	})

	It("rejects other methods", func() {
		r := newRequest("POST", "/foo", nil)
		h := NewSSRHandler(embStaticFs, NewRenderer(testApp))
		w := httptest.NewRecorder()
		h.ServeHTTP(w, r)
		Expect(w.Result().StatusCode).To(Equal(http.StatusMethodNotAllowed))
		Expect(w.Result().Header.Get("Allow")).To(Equal("GET, HEAD"))
	})

	DescribeTable("turns render failures into server errors",
		func(path string) {
			reg := prometheus.NewPedanticRegistry()
			m := NewMetrics(reg, "")
			r := newRequest("GET", path, nil)
			h := NewSSRHandler(embStaticFs, NewRenderer(testApp),
				WithLogger(discardLogger()), WithMetrics(m))
			w := httptest.NewRecorder()
			h.ServeHTTP(w, r)
			Expect(w.Result().StatusCode).To(Equal(http.StatusInternalServerError))
			Expect(w.Body.String()).To(Equal("500 Internal Server Error\n"))
			Expect(testutil.ToFloat64(m.renders.WithLabelValues("error"))).To(Equal(1.0))
			Expect(testutil.ToFloat64(m.renders.WithLabelValues("ok"))).To(BeZero())
		},
		Entry("app error", "/error"),
		Entry("panic", "/panic"),
		Entry("invalid view tree", "/invalid"),
	)

	It("supports application-specific rewriting/post-processing", func() {
		r := newRequest("GET", "/", nil)
		const canary = "<!-- SOMETHING DIFFERENT -->"
		h := NewSSRHandler(embStaticFs, NewRenderer(testApp),
			WithDocumentRewriter(func(r *http.Request, doc string) string {
				return doc + canary
			}))
		w := httptest.NewRecorder()
		h.ServeHTTP(w, r)
		Expect(w.Result().StatusCode).To(Equal(http.StatusOK))
		Expect(w.Body.String()).To(HaveSuffix(canary))
	})

	It("counts static assets and renders", func() {
		reg := prometheus.NewPedanticRegistry()
		m := NewMetrics(reg, "")
		h := NewSSRHandler(embStaticFs, NewRenderer(testApp), WithMetrics(m))
		for _, path := range []string{"/index.js", "/styles.css", "/", "/about"} {
			h.ServeHTTP(httptest.NewRecorder(), newRequest("GET", path, nil))
		}
		Expect(testutil.ToFloat64(m.staticAssets)).To(Equal(2.0))
		Expect(testutil.ToFloat64(m.renders.WithLabelValues("ok"))).To(Equal(2.0))
		Expect(testutil.CollectAndCount(m.renderDuration)).To(Equal(1))
		Expect(strings.Join(gatheredNames(reg), ",")).To(Equal(
			"ssrserve_render_duration_seconds,ssrserve_renders_total,ssrserve_static_assets_total"))
	})

	DescribeTable("serves a static asset using varying fs.FS implementations",
		func(fs fs.FS) {
			r := newRequest("GET", "/styles.css", nil)
			h := NewSSRHandler(fs, NewRenderer(testApp))
			w := httptest.NewRecorder()
			h.ServeHTTP(w, r)
			Expect(w.Result().StatusCode).To(Equal(http.StatusOK))
			Expect(w.Body.String()).To(ContainSubstring("margin"))
		},
		Entry("from embedded fs", embStaticFs),
		Entry("from test dir fs", os.DirFS("./test/public")),
	)

})

func gatheredNames(reg prometheus.Gatherer) []string {
	GinkgoHelper()
	var names []string
	for _, mf := range Successful(reg.Gather()) {
		names = append(names, mf.GetName())
	}
	return names
}
