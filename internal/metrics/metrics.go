// SPDX-License-Identifier: MIT

// Package metrics owns the Prometheus registry served at GET /metrics:
// HTTP request series, the engine's solve series and the Go runtime
// collectors.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	dto "github.com/prometheus/client_model/go"

	"github.com/katalvlaran/ctmc/reliability"
)

// Metric names of the HTTP series.
const (
	NameHTTPRequests = "ctmc_http_requests_total"
	NameHTTPDuration = "ctmc_http_request_duration_seconds"
)

// Registry is one prometheus.Registry with the service collectors
// registered. Safe for concurrent use.
type Registry struct {
	reg      *prometheus.Registry
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
	engine   *reliability.Metrics
	handler  http.Handler
}

// NewRegistry registers the HTTP, engine and runtime collectors on a fresh
// prometheus.Registry.
func NewRegistry() *Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	f := promauto.With(reg)

	return &Registry{
		reg: reg,
		requests: f.NewCounterVec(prometheus.CounterOpts{
			Name: NameHTTPRequests,
			Help: "Served HTTP requests",
		}, []string{"code", "method", "route"}),
		duration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    NameHTTPDuration,
			Help:    "Time spent serving HTTP requests",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
		engine:  reliability.NewMetrics(reg),
		handler: promhttp.HandlerFor(reg, promhttp.HandlerOpts{}),
	}
}

// Engine returns the solve collectors to pass to reliability.WithMetrics.
func (r *Registry) Engine() *reliability.Metrics { return r.engine }

// ObserveRequest counts one served HTTP request.
func (r *Registry) ObserveRequest(method, route string, status int, d time.Duration) {
	r.requests.WithLabelValues(strconv.Itoa(status), method, route).Inc()
	r.duration.WithLabelValues(method, route).Observe(d.Seconds())
}

// Gather implements prometheus.Gatherer.
func (r *Registry) Gather() ([]*dto.MetricFamily, error) { return r.reg.Gather() }

// Handler serves the registry in the negotiated exposition format.
func (r *Registry) Handler() http.Handler { return r.handler }
