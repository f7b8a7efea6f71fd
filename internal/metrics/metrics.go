// Package metrics exposes the task queue's per-tick counters to Prometheus.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "framekeeper"

// Metrics holds the collectors updated by the task queue. A nil *Metrics is
// valid and records nothing.
type Metrics struct {
	registry *prometheus.Registry

	ticks        prometheus.Counter
	runs         *prometheus.CounterVec
	failures     prometheus.Counter
	queueDepth   prometheus.Gauge
	suspended    prometheus.Gauge
	discarded    prometheus.Gauge
	tickDuration prometheus.Histogram
}

// New creates the collectors and registers them on a private registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		ticks: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "queue",
			Name:      "ticks_total",
			Help:      "Number of completed queue updates.",
		}),
		runs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "queue",
			Name:      "task_runs_total",
			Help:      "Task invocations by returned status.",
		}, []string{"status"}),
		failures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "queue",
			Name:      "task_failures_total",
			Help:      "Task resolutions or invocations that returned an error.",
		}),
		queueDepth: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "queue",
			Name:      "depth",
			Help:      "Tasks waiting for the next tick.",
		}),
		suspended: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "queue",
			Name:      "suspended",
			Help:      "Tasks parked on a predicate.",
		}),
		discarded: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "queue",
			Name:      "discarded",
			Help:      "Bodies held in the discard list.",
		}),
		tickDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "queue",
			Name:      "tick_duration_seconds",
			Help:      "Wall time spent in one queue update.",
			Buckets:   []float64{.0001, .0005, .001, .005, .01, .05, .1},
		}),
	}
	m.registry.MustRegister(
		m.ticks, m.runs, m.failures,
		m.queueDepth, m.suspended, m.discarded,
		m.tickDuration,
	)
	return m
}

// Registry returns the registry the collectors live on, for the /metrics handler.
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// TaskRan counts one invocation that returned status.
func (m *Metrics) TaskRan(status string) {
	if m == nil {
		return
	}
	m.runs.WithLabelValues(status).Inc()
}

// TaskFailed counts one failed resolution or invocation.
func (m *Metrics) TaskFailed() {
	if m == nil {
		return
	}
	m.failures.Inc()
}

// TickDone records the end of an update and the queue's shape after it.
func (m *Metrics) TickDone(elapsed time.Duration, depth, suspended, discarded int) {
	if m == nil {
		return
	}
	m.ticks.Inc()
	m.tickDuration.Observe(elapsed.Seconds())
	m.queueDepth.Set(float64(depth))
	m.suspended.Set(float64(suspended))
	m.discarded.Set(float64(discarded))
}
