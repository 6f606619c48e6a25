// Copyright 2025 The Rivaas Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// This file contains integration tests for the rivaaslog middleware writing
// to real files through a running HTTP server.

//go:build integration

package rivaaslog_test

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"rivaas.dev/httplog"
	"rivaas.dev/httplog/middleware/rivaaslog"
	"rivaas.dev/router"
)

// recoverer turns panics into 500 responses, standing in for a recovery middleware.
func recoverer(c *router.Context) {
	defer func() {
		if v := recover(); v != nil {
			c.Status(http.StatusInternalServerError)
		}
	}()
	c.Next()
}

func readLines(path string) []string {
	data, err := os.ReadFile(path)
	Expect(err).NotTo(HaveOccurred())
	out := strings.TrimSuffix(string(data), "\n")
	if out == "" {
		return nil
	}
	return strings.Split(out, "\n")
}

var _ = Describe("Rivaaslog Integration", Label("integration", "rivaaslog"), func() {
	var (
		logPath string
		server  *httptest.Server
		logger  *httplog.Logger
	)

	BeforeEach(func() {
		logPath = filepath.Join(GinkgoT().TempDir(), "access.log")
	})

	AfterEach(func() {
		if server != nil {
			server.Close()
		}
		if logger != nil {
			Expect(logger.Close()).To(Succeed())
		}
	})

	Describe("common preset to a file", func() {
		BeforeEach(func() {
			hooks, err := httplog.Preset(httplog.PresetCommon,
				httplog.WithDestination(httplog.File(logPath)))
			Expect(err).NotTo(HaveOccurred())
			logger = hooks.Logger()

			r := router.MustNew()
			r.Use(rivaaslog.New(hooks))
			r.Use(recoverer)
			r.GET("/", func(c *router.Context) {
				//nolint:errcheck // Test handler
				c.String(http.StatusOK, "Hello, world!")
			})
			r.GET("/error", func(c *router.Context) {
				c.Status(http.StatusBadRequest)
			})
			r.GET("/panic", func(c *router.Context) {
				panic("test panic")
			})
			server = httptest.NewServer(r)
		})

		It("should write one plain line per request", func() {
			for range 2 {
				resp, err := http.Get(server.URL + "/")
				Expect(err).NotTo(HaveOccurred())
				Expect(resp.Body.Close()).To(Succeed())
			}

			lines := readLines(logPath)
			Expect(lines).To(HaveLen(2))
			for _, l := range lines {
				Expect(l).To(MatchRegexp(`^\[\d{4}-\d{2}-\d{2}T\d{2}:\d{2}:\d{2}\.\d{3}Z\] GET / 200$`))
				Expect(l).NotTo(ContainSubstring("\x1b["))
			}
		})

		It("should log a 400 through the failure formatter", func() {
			resp, err := http.Get(server.URL + "/error")
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.Body.Close()).To(Succeed())
			Expect(resp.StatusCode).To(Equal(http.StatusBadRequest))

			lines := readLines(logPath)
			Expect(lines).To(HaveLen(1))
			Expect(lines[0]).To(MatchRegexp(`^\[[^\]]+\] GET http://127\.0\.0\.1:\d+/error Bad Request 400$`))
		})

		It("should log a recovered panic as a 500 failure", func() {
			resp, err := http.Get(server.URL + "/panic")
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.Body.Close()).To(Succeed())
			Expect(resp.StatusCode).To(Equal(http.StatusInternalServerError))

			lines := readLines(logPath)
			Expect(lines).To(HaveLen(1))
			Expect(lines[0]).To(HaveSuffix("Internal Server Error 500"))
		})
	})

	Describe("concurrent requests", func() {
		It("should write every line whole", func() {
			l, err := httplog.New(httplog.WithDestination(httplog.File(logPath)))
			Expect(err).NotTo(HaveOccurred())
			logger = l
			hooks := l.Use(httplog.AttrMethod, httplog.AttrPath, httplog.AttrStatus).
				Format(httplog.Func(func(rec httplog.Record) string {
					return fmt.Sprintf("%s %s %d", rec.Method, rec.Path, rec.Status)
				}))

			r := router.MustNew()
			r.Use(rivaaslog.New(hooks))
			r.GET("/items/:id", func(c *router.Context) {
				//nolint:errcheck // Test handler
				c.String(http.StatusOK, c.Param("id"))
			})
			server = httptest.NewServer(r)

			const n = 50
			var wg sync.WaitGroup
			for i := range n {
				wg.Add(1)
				go func() {
					defer GinkgoRecover()
					defer wg.Done()
					resp, err := http.Get(fmt.Sprintf("%s/items/%d", server.URL, i))
					Expect(err).NotTo(HaveOccurred())
					Expect(resp.Body.Close()).To(Succeed())
				}()
			}
			wg.Wait()

			lines := readLines(logPath)
			Expect(lines).To(HaveLen(n))
			for _, line := range lines {
				Expect(line).To(MatchRegexp(`^GET /items/\d+ 200$`))
			}
		})
	})
})
