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

package main

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/prometheus/client_golang/prometheus"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	. "github.com/thediveo/success"
)

var _ = Describe("serve command", func() {

	var (
		srv    *httptest.Server
		public string
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	)

	BeforeEach(func() {
		public = GinkgoT().TempDir()
		Expect(os.WriteFile(filepath.Join(public, "index.js"), []byte("// BUNDLE CANARY\n"), 0o644)).To(Succeed())
		srv = httptest.NewServer(newHandler(logger, os.DirFS(public), prometheus.NewRegistry()))
		DeferCleanup(srv.Close)
	})

	get := func(method, path string) (*http.Response, string) {
		GinkgoHelper()
		req := Successful(http.NewRequest(method, srv.URL+path, nil))
		resp := Successful(srv.Client().Do(req))
		defer resp.Body.Close()
		return resp, string(Successful(io.ReadAll(resp.Body)))
	}

	It("serves the client bundle in precedence to rendering", func() {
		resp, body := get("GET", "/index.js")
		Expect(resp.StatusCode).To(Equal(http.StatusOK))
		Expect(body).To(Equal("// BUNDLE CANARY\n"))
	})

	It("serves rendered pages", func() {
		resp, body := get("GET", "/about")
		Expect(resp.StatusCode).To(Equal(http.StatusOK))
		Expect(resp.Header.Get("Content-Type")).To(HavePrefix("text/html"))
		doc := Successful(goquery.NewDocumentFromReader(strings.NewReader(body)))
		Expect(doc.Find("#root h1").Text()).To(Equal("About"))
	})

	It("answers HEAD requests", func() {
		resp, body := get("HEAD", "/")
		Expect(resp.StatusCode).To(Equal(http.StatusOK))
		Expect(body).To(BeEmpty())
	})

	It("rejects other methods", func() {
		resp, _ := get("POST", "/")
		Expect(resp.StatusCode).To(Equal(http.StatusMethodNotAllowed))
	})

	It("runs until cancelled", func() {
		ctx, cancel := context.WithCancel(context.Background())
		done := make(chan error)
		go func() {
			done <- runServe(ctx, logger, os.DirFS(public), "127.0.0.1:0", "127.0.0.1:0")
		}()
		Consistently(done, 100*time.Millisecond).ShouldNot(Receive())
		cancel()
		Eventually(done).Within(2 * time.Second).Should(Receive(BeNil()))
	})

	It("fails when it cannot listen", func() {
		Expect(runServe(context.Background(), logger, os.DirFS(public), "256.0.0.1:-1", "")).
			To(HaveOccurred())
	})

})

var _ = Describe("render command", func() {

	It("renders and checks pages", func() {
		var out, errout bytes.Buffer
		cmd := newRootCmd()
		cmd.SetArgs([]string{"render", "/users/7", "--check", "--log-format=json"})
		cmd.SetOut(&out)
		cmd.SetErr(&errout)
		Expect(cmd.Execute()).To(Succeed())
		Expect(out.String()).To(ContainSubstring("<h1>User 7</h1>"))
		Expect(errout.String()).To(ContainSubstring(`"msg":"page hydrates"`))
	})

	It("rejects invalid log settings", func() {
		cmd := newRootCmd()
		cmd.SetArgs([]string{"render", "--log-level=chatty"})
		cmd.SetOut(io.Discard)
		cmd.SetErr(io.Discard)
		Expect(cmd.Execute()).To(MatchError(ContainSubstring("invalid log level")))
	})

	It("detects pages that won't hydrate", func() {
		Expect(checkHydration(`<html><body><div id="root"><p>stale</p></div></body></html>`, "/")).
			To(MatchError(ContainSubstring("hydration mismatch")))
		Expect(checkHydration(`<html><body></body></html>`, "/")).
			To(MatchError(ContainSubstring("lacks #root")))
	})

})

var _ = Describe("build command", func() {

	It("falls back to the client configuration", func() {
		Expect(loadBundleConfig(GinkgoT().TempDir(), "")).To(HaveField("Entry", "./cmd/client"))
	})

	It("requires explicitly named configuration files", func() {
		_, err := loadBundleConfig(".", filepath.Join(GinkgoT().TempDir(), "nada.yaml"))
		Expect(err).To(MatchError(ContainSubstring("cannot load bundler configuration")))
	})

	It("reads the project's configuration file", func() {
		dir := GinkgoT().TempDir()
		Expect(os.WriteFile(filepath.Join(dir, "ssrserve.yaml"), []byte("mode: production\n"), 0o644)).
			To(Succeed())
		Expect(loadBundleConfig(dir, "")).To(HaveField("Mode", "production"))
	})

})
