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
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/thediveo/ssrserve/test/httptest"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

var _ = Describe("request logging", func() {

	It("logs requests as structured records", func() {
		var buff bytes.Buffer
		logger := slog.New(slog.NewJSONHandler(&buff, nil))
		h := middleware.RequestID(RequestLogger(logger)(
			NewSSRHandler(embStaticFs, NewRenderer(testApp), WithLogger(logger))))

		h.ServeHTTP(httptest.NewRecorder(), newRequest("GET", "/hello", nil))
		h.ServeHTTP(httptest.NewRecorder(), newRequest("GET", "/panic", nil))

		dec := json.NewDecoder(&buff)
		var records []map[string]any
		for dec.More() {
			var rec map[string]any
			Expect(dec.Decode(&rec)).To(Succeed())
			records = append(records, rec)
		}
		Expect(records).To(HaveLen(3))

		Expect(records[0]).To(HaveKeyWithValue("msg", "request"))
		Expect(records[0]).To(HaveKeyWithValue("level", "INFO"))
		Expect(records[0]).To(HaveKeyWithValue("path", "/hello"))
		Expect(records[0]).To(HaveKeyWithValue("status", BeNumerically("==", http.StatusOK)))
		Expect(records[0]).To(HaveKeyWithValue("request_id", Not(BeEmpty())))

		Expect(records[1]).To(HaveKeyWithValue("msg", "rendering failed"))
		Expect(records[1]).To(HaveKeyWithValue("level", "ERROR"))
		Expect(records[1]).To(HaveKeyWithValue("error", ContainSubstring("view tree exploded")))
		Expect(records[1]["request_id"]).To(Equal(records[2]["request_id"]))

		Expect(records[2]).To(HaveKeyWithValue("level", "WARN"))
		Expect(records[2]).To(HaveKeyWithValue("status", BeNumerically("==", http.StatusInternalServerError)))
	})

})
