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

package bundle

import (
	"io/fs"
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	. "github.com/thediveo/success"
)

func writeConfig(contents string) string {
	GinkgoHelper()
	name := filepath.Join(GinkgoT().TempDir(), ConfigFileName)
	Expect(os.WriteFile(name, []byte(contents), 0o644)).To(Succeed())
	return name
}

var _ = Describe("bundler configuration", func() {

	It("merges the client configuration over the base", func() {
		cfg := Client()
		Expect(cfg.Mode).To(Equal(ModeDevelopment))
		Expect(cfg.Entry).To(Equal("./cmd/client"))
		Expect(cfg.Output).To(Equal(Output{Filename: "index.js", Path: "public"}))
		Expect(cfg.Wasm).To(Equal("index.wasm"))
		Expect(cfg.Minifying()).To(BeFalse())
		Expect(cfg.Sourcemapping()).To(BeFalse())
		Expect(cfg.Validate()).To(Succeed())
	})

	It("leaves unset fields alone and appends tags", func() {
		yes := true
		no := false
		base := Config{Mode: ModeProduction, Wasm: "a.wasm", Tags: []string{"a"}, Minify: &yes}
		merged := Merge(base, Config{Output: Output{Filename: "a.js"}, Tags: []string{"b"}, Minify: &no})
		Expect(merged.Mode).To(Equal(ModeProduction))
		Expect(merged.Wasm).To(Equal("a.wasm"))
		Expect(merged.Output.Filename).To(Equal("a.js"))
		Expect(merged.Tags).To(Equal([]string{"a", "b"}))
		Expect(merged.Minifying()).To(BeFalse())
		Expect(base.Tags).To(Equal([]string{"a"}))
	})

	It("minifies in production unless told otherwise", func() {
		Expect(Base().Minifying()).To(BeTrue())
	})

	It("loads a YAML configuration file", func() {
		cfg := Successful(Load(writeConfig(`
mode: production
output:
  path: dist/public
sourcemap: true
tags: [netgo]
`)))
		Expect(cfg.Mode).To(Equal(ModeProduction))
		Expect(cfg.Entry).To(Equal("./cmd/client"))
		Expect(cfg.Output).To(Equal(Output{Filename: "index.js", Path: "dist/public"}))
		Expect(cfg.Minifying()).To(BeTrue())
		Expect(cfg.Sourcemapping()).To(BeTrue())
		Expect(cfg.Tags).To(ConsistOf("netgo"))
	})

	It("loads an empty configuration file", func() {
		Expect(Load(writeConfig(""))).To(Equal(Client()))
	})

	It("reports missing configuration files", func() {
		_, err := Load(filepath.Join(GinkgoT().TempDir(), "nada.yaml"))
		Expect(err).To(MatchError(fs.ErrNotExist))
	})

	DescribeTable("rejects invalid configuration files",
		func(contents string) {
			_, err := Load(writeConfig(contents))
			Expect(err).To(MatchError(ErrInvalidConfig))
		},
		Entry("unknown field", "entrypoint: foo\n"),
		Entry("malformed YAML", "mode: [\n"),
		Entry("unknown mode", "mode: staging\n"),
		Entry("nested output filename", "output: {filename: js/index.js}\n"),
		Entry("clashing filenames", "wasm: index.js\n"),
	)

})
