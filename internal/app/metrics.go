package app

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics counts replies by source and backend calls by outcome.
type Metrics struct {
	replies        *prometheus.CounterVec
	backendCalls   *prometheus.CounterVec
	backendLatency prometheus.Histogram
}

// NewMetrics registers the assistant collectors on reg. A nil reg leaves them
// unregistered.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		replies: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "assistant_replies_total",
			Help: "Replies sent, by source.",
		}, []string{"source"}),
		backendCalls: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "assistant_backend_calls_total",
			Help: "Generative backend calls, by outcome.",
		}, []string{"outcome"}),
		backendLatency: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "assistant_backend_latency_seconds",
			Help:    "Generative backend call latency.",
			Buckets: prometheus.ExponentialBuckets(0.25, 2, 8),
		}),
	}
}

func (m *Metrics) observeReply(source Source) {
	m.replies.WithLabelValues(string(source)).Inc()
}

func (m *Metrics) observeBackend(outcome string, elapsed time.Duration) {
	m.backendCalls.WithLabelValues(outcome).Inc()
	m.backendLatency.Observe(elapsed.Seconds())
}

func (m *Metrics) observeQuotaDenied() {
	m.backendCalls.WithLabelValues(outcomeDenied).Inc()
}
