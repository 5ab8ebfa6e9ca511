// Package metrics instruments the query pipeline with Prometheus metrics.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector holds the pipeline's Prometheus metrics on its own registry so
// tests can create as many instances as they like without duplicate
// registration panics. A nil *Collector is valid and records nothing.
type Collector struct {
	registry *prometheus.Registry

	Queries        *prometheus.CounterVec
	QueryDuration  *prometheus.HistogramVec
	WaiterAttempts prometheus.Counter
}

// NewCollector creates and registers the pipeline metrics.
func NewCollector() *Collector {
	registry := prometheus.NewRegistry()

	c := &Collector{
		registry: registry,
		Queries: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "insights_queries_total",
				Help: "Total telemetry queries executed",
			},
			[]string{"outcome"},
		),
		QueryDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "insights_query_duration_seconds",
				Help:    "Telemetry query round-trip latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"outcome"},
		),
		WaiterAttempts: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "insights_waiter_attempts_total",
				Help: "Availability probe attempts",
			},
		),
	}

	registry.MustRegister(c.Queries, c.QueryDuration, c.WaiterAttempts)
	return c
}

// ObserveQuery records one query execution with its outcome label.
func (c *Collector) ObserveQuery(outcome string, duration time.Duration) {
	if c == nil {
		return
	}
	c.Queries.WithLabelValues(outcome).Inc()
	c.QueryDuration.WithLabelValues(outcome).Observe(duration.Seconds())
}

// ObserveWaiterAttempt records one availability probe.
func (c *Collector) ObserveWaiterAttempt() {
	if c == nil {
		return
	}
	c.WaiterAttempts.Inc()
}

// Handler exposes the registry in Prometheus text format.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}
