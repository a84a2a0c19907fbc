// Package metrics exposes the bank's queue and dispatcher counters in the
// Prometheus text format.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "neecathon"

// Outcome labels for processed commands.
const (
	OutcomeHandled = "handled"
	OutcomeUnknown = "unknown"
	OutcomeTimeout = "timeout"
	OutcomePanic   = "panic"
)

// Metrics owns a private registry so tests can create as many as they like.
type Metrics struct {
	registry *prometheus.Registry

	rejected  *prometheus.CounterVec
	processed *prometheus.CounterVec
	duration  *prometheus.HistogramVec
}

// New registers the collectors. queueDepth is sampled on every scrape.
func New(queueDepth func() int) *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		rejected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "webhook_rejected_total",
			Help:      "Slash command webhooks answered without being queued, by reason.",
		}, []string{"reason"}),
		processed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "commands_processed_total",
			Help:      "Slash commands taken off the queue, by command and outcome.",
		}, []string{"command", "outcome"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "command_duration_seconds",
			Help:      "Time spent processing one slash command.",
			Buckets:   prometheus.ExponentialBuckets(0.005, 2, 12),
		}, []string{"command"}),
	}
	m.registry.MustRegister(
		m.rejected,
		m.processed,
		m.duration,
		prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "queue_depth",
			Help:      "Slash commands waiting for the dispatcher.",
		}, func() float64 { return float64(queueDepth()) }),
		collectors.NewGoCollector(),
	)
	return m
}

// Rejected counts a webhook that never reached the queue.
func (m *Metrics) Rejected(reason string) {
	m.rejected.WithLabelValues(reason).Inc()
}

// Processed records one dispatched command.
func (m *Metrics) Processed(command, outcome string, took time.Duration) {
	m.processed.WithLabelValues(command, outcome).Inc()
	m.duration.WithLabelValues(command).Observe(took.Seconds())
}

// Handler serves the registry.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
