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

package main

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/thediveo/ssrserve"
	"github.com/thediveo/ssrserve/app"
	"github.com/thediveo/ssrserve/view"
)

// Defaults of the serve command.
const (
	DefaultListen = ":3000"
	DefaultPublic = "public"
)

const shutdownTimeout = 5 * time.Second

func serveCmd(g *globals) *cobra.Command {
	var (
		listen        string
		public        string
		metricsListen string
	)
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve static assets and server-side rendered pages",
		Long: `Serve static assets from the public directory; every other path
gets server-side rendered.

Examples:
  ssrserve serve
  ssrserve serve --metrics-listen=:9100`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runServe(ctx, g.logger, os.DirFS(public), listen, metricsListen)
		},
	}
	cmd.Flags().StringVar(&listen, "listen", DefaultListen, "address to listen on")
	cmd.Flags().StringVar(&public, "public", DefaultPublic, "directory of static assets")
	cmd.Flags().StringVar(&metricsListen, "metrics-listen", "",
		"address to serve Prometheus metrics on (disabled if empty)")
	return cmd
}

// serverApp renders the application for the location of a request, using a
// fresh store for each render.
var serverApp = ssrserve.AppFunc(func(rc *ssrserve.RenderContext) (*view.Node, error) {
	return app.ServerTree(rc.Path), nil
})

// newHandler returns the HTTP handler serving static assets from public and
// rendering everything else.
func newHandler(logger *slog.Logger, public fs.FS, reg prometheus.Registerer) http.Handler {
	ssr := ssrserve.NewSSRHandler(public, ssrserve.NewRenderer(serverApp),
		ssrserve.WithLogger(logger),
		ssrserve.WithMetrics(ssrserve.NewMetrics(reg, "")))
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(ssrserve.RequestLogger(logger))
	r.Use(middleware.Recoverer)
	r.Method(http.MethodGet, "/*", ssr)
	r.Method(http.MethodHead, "/*", ssr)
	return r
}

func runServe(ctx context.Context, logger *slog.Logger, public fs.FS, listen, metricsListen string) error {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	servers := []*http.Server{{
		Addr:              listen,
		Handler:           newHandler(logger, public, reg),
		ReadHeaderTimeout: 10 * time.Second,
	}}
	if metricsListen != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))
		servers = append(servers, &http.Server{
			Addr:              metricsListen,
			Handler:           mux,
			ReadHeaderTimeout: 10 * time.Second,
		})
	}

	errch := make(chan error, len(servers))
	for _, srv := range servers {
		srv := srv
		logger.Info("listening", slog.String("addr", srv.Addr))
		go func() {
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errch <- err
			}
		}()
	}

	var err error
	select {
	case <-ctx.Done():
		logger.Info("shutting down")
	case err = <-errch:
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	for _, srv := range servers {
		if serr := srv.Shutdown(shutdownCtx); serr != nil {
			logger.Warn("shutdown failed", slog.String("addr", srv.Addr), slog.Any("error", serr))
		}
	}
	return err
}
