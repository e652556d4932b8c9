// Package observability exposes the prometheus metrics for generation
// calls. The deeper tracing stack is out of scope for this service.
package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	LLMRequests     *prometheus.CounterVec
	LLMLatency      *prometheus.HistogramVec
	LLMFallthroughs *prometheus.CounterVec
}

// NewMetrics registers the collectors on the given registerer. Tests pass
// a private registry to avoid duplicate-registration panics.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		LLMRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "mocktrial_llm_requests_total",
			Help: "Generation backend calls by provider, model and status.",
		}, []string{"provider", "model", "status"}),
		LLMLatency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "mocktrial_llm_latency_seconds",
			Help:    "Generation backend call latency.",
			Buckets: prometheus.DefBuckets,
		}, []string{"provider", "model"}),
		LLMFallthroughs: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "mocktrial_llm_fallthrough_total",
			Help: "Model variant fallthroughs triggered by capacity errors.",
		}, []string{"provider", "model"}),
	}
}
