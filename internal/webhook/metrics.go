package webhook

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Delivery outcomes, used as the "outcome" metric label.
const (
	OutcomeAccepted         = "accepted"
	OutcomeMissingSignature = "missing_signature"
	OutcomeInvalidSignature = "invalid_signature"
	OutcomeMalformedPayload = "malformed_payload"
	OutcomeTooLarge         = "too_large"
	OutcomeReadError        = "read_error"
)

// Metrics collects per-outcome delivery counters on a private registry.
type Metrics struct {
	registry   *prometheus.Registry
	deliveries *prometheus.CounterVec
	bodyBytes  prometheus.Histogram
}

// NewMetrics registers the webhook collectors on a fresh registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		deliveries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "chainhook",
			Subsystem: "webhook",
			Name:      "deliveries_total",
			Help:      "Webhook deliveries by outcome.",
		}, []string{"outcome"}),
		bodyBytes: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "chainhook",
			Subsystem: "webhook",
			Name:      "body_bytes",
			Help:      "Size of webhook bodies that were read in full.",
			Buckets:   prometheus.ExponentialBuckets(64, 4, 8),
		}),
	}
	m.registry.MustRegister(m.deliveries, m.bodyBytes)

	for _, o := range []string{
		OutcomeAccepted, OutcomeMissingSignature, OutcomeInvalidSignature,
		OutcomeMalformedPayload, OutcomeTooLarge, OutcomeReadError,
	} {
		m.deliveries.WithLabelValues(o)
	}
	return m
}

func (m *Metrics) observe(outcome string) {
	m.deliveries.WithLabelValues(outcome).Inc()
}

func (m *Metrics) observeBody(n int) {
	m.bodyBytes.Observe(float64(n))
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
