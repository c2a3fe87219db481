// SPDX-License-Identifier: MIT

package reliability

import (
	"context"
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Instrumentation scope of the engine's tracer.
const instrumentationName = "github.com/katalvlaran/ctmc/reliability"

// Metric names exported by Metrics.
const (
	MetricSolves         = "ctmc_solves_total"
	MetricSolveDuration  = "ctmc_solve_duration_seconds"
	MetricSolveStates    = "ctmc_solve_states"
	MetricIntegratorStep = "ctmc_integrator_steps_total"
	MetricSolvesInFlight = "ctmc_solves_in_flight"
)

// Metrics are the engine's Prometheus collectors.
type Metrics struct {
	solves   *prometheus.CounterVec
	duration *prometheus.HistogramVec
	states   prometheus.Histogram
	steps    prometheus.Counter
	inFlight prometheus.Gauge
}

// NewMetrics creates the collectors and registers them with reg. A nil reg
// leaves them unregistered. Registering twice with one reg panics.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)

	return &Metrics{
		solves: f.NewCounterVec(prometheus.CounterOpts{
			Name: MetricSolves,
			Help: "Finished solves by outcome",
		}, []string{"outcome"}),
		duration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    MetricSolveDuration,
			Help:    "Wall time of finished solves",
			Buckets: prometheus.ExponentialBuckets(0.0005, 4, 10),
		}, []string{"outcome"}),
		states: f.NewHistogram(prometheus.HistogramOpts{
			Name:    MetricSolveStates,
			Help:    "State-space size of successful solves",
			Buckets: prometheus.ExponentialBuckets(2, 4, 12),
		}),
		steps: f.NewCounter(prometheus.CounterOpts{
			Name: MetricIntegratorStep,
			Help: "Accepted integrator steps",
		}),
		inFlight: f.NewGauge(prometheus.GaugeOpts{
			Name: MetricSolvesInFlight,
			Help: "Solves currently running",
		}),
	}
}

// Outcome labels a finished solve for metrics and logs.
func Outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrInvalidInput):
		return "invalid_input"
	case errors.Is(err, ErrResourceExhaustion):
		return "resource_exhaustion"
	case errors.Is(err, ErrNumericalFailure):
		return "numerical_failure"
	case errors.Is(err, ErrInternal):
		return "internal"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "canceled"
	default:
		return "error"
	}
}

// started marks a solve in flight; the returned func records its end.
func (m *Metrics) started() func(states int, steps int, err error) {
	m.inFlight.Inc()
	start := time.Now()

	return func(states int, steps int, err error) {
		m.inFlight.Dec()
		outcome := Outcome(err)
		m.solves.WithLabelValues(outcome).Inc()
		m.duration.WithLabelValues(outcome).Observe(time.Since(start).Seconds())
		if err == nil {
			m.states.Observe(float64(states))
			m.steps.Add(float64(steps))
		}
	}
}
