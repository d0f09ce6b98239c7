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
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// DefaultNamespace is the metrics namespace used by NewMetrics when none is
// given.
const DefaultNamespace = "ssrserve"

// Metrics collects Prometheus metrics about rendered documents and served
// static assets. A nil *Metrics records nothing.
type Metrics struct {
	renders        *prometheus.CounterVec
	renderDuration prometheus.Histogram
	staticAssets   prometheus.Counter
}

// NewMetrics creates the metrics and registers them with the specified
// registry.
//
// Metrics collected:
//   - ssrserve_renders_total: counter of render passes by outcome ("ok", "error")
//   - ssrserve_render_duration_seconds: histogram of render durations
//   - ssrserve_static_assets_total: counter of static assets served
func NewMetrics(reg prometheus.Registerer, namespace string) *Metrics {
	if namespace == "" {
		namespace = DefaultNamespace
	}
	factory := promauto.With(reg)
	return &Metrics{
		renders: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "renders_total",
			Help:      "Total number of server-side render passes",
		}, []string{"outcome"}),
		renderDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "render_duration_seconds",
			Help:      "Server-side render duration in seconds",
			Buckets:   []float64{.0005, .001, .0025, .005, .01, .025, .05, .1, .25},
		}),
		staticAssets: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "static_assets_total",
			Help:      "Total number of static assets served",
		}),
	}
}

func (m *Metrics) observeRender(err error, d time.Duration) {
	if m == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	m.renders.WithLabelValues(outcome).Inc()
	m.renderDuration.Observe(d.Seconds())
}

func (m *Metrics) observeStatic() {
	if m == nil {
		return
	}
	m.staticAssets.Inc()
}
