// Package metrics exposes Prometheus instruments for the chat relay.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Chat request outcomes recorded in chat_requests_total.
const (
	OutcomeOK            = "ok"
	OutcomeUnauthorized  = "unauthorized"
	OutcomeInvalid       = "invalid"
	OutcomeQuotaExceeded = "quota_exceeded"
	OutcomeError         = "error"
)

// Metrics groups the instruments. A nil *Metrics is valid and records nothing.
type Metrics struct {
	ChatRequests     *prometheus.CounterVec
	QuotaDenied      prometheus.Counter
	UpstreamFailures prometheus.Counter
	UpstreamDuration prometheus.Histogram
}

// New registers the instruments on reg. Pass prometheus.DefaultRegisterer in
// production and prometheus.NewRegistry() in tests.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		ChatRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "chatbot_chat_requests_total",
			Help: "Chat requests by outcome",
		}, []string{"outcome"}),
		QuotaDenied: factory.NewCounter(prometheus.CounterOpts{
			Name: "chatbot_quota_denied_total",
			Help: "Chat requests rejected because the daily quota was used up",
		}),
		UpstreamFailures: factory.NewCounter(prometheus.CounterOpts{
			Name: "chatbot_llm_upstream_failures_total",
			Help: "Language model calls that failed and were answered with the fallback reply",
		}),
		UpstreamDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "chatbot_llm_request_duration_seconds",
			Help:    "Latency of language model completion calls",
			Buckets: prometheus.ExponentialBuckets(0.25, 2, 8),
		}),
	}
}

func (m *Metrics) ObserveChatRequest(outcome string) {
	if m == nil {
		return
	}
	m.ChatRequests.WithLabelValues(outcome).Inc()
}

func (m *Metrics) IncrementQuotaDenied() {
	if m == nil {
		return
	}
	m.QuotaDenied.Inc()
}

func (m *Metrics) ObserveUpstream(d time.Duration, failed bool) {
	if m == nil {
		return
	}
	m.UpstreamDuration.Observe(d.Seconds())
	if failed {
		m.UpstreamFailures.Inc()
	}
}
