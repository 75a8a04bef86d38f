package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus metrics for the service. A single instance is
// created in main and shared; tests pass NewWithRegistry with a fresh registry
// to avoid duplicate registration.
type Metrics struct {
	PromptEvaluations *prometheus.CounterVec
	AgreementsTotal   prometheus.Counter
	RevocationsTotal  prometheus.Counter
	CacheRequests     *prometheus.CounterVec
	RequestDuration   *prometheus.HistogramVec
}

// New creates and registers all metrics on the default registerer.
func New() *Metrics {
	return NewWithRegistry(prometheus.DefaultRegisterer)
}

// NewWithRegistry creates metrics against the given registerer.
func NewWithRegistry(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		PromptEvaluations: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "integrity_prompt_evaluations_total",
			Help: "Statement prompt evaluations by resolution outcome",
		}, []string{"outcome"}),
		AgreementsTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "integrity_agreements_total",
			Help: "Statement agreements recorded",
		}),
		RevocationsTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "integrity_revocations_total",
			Help: "Statement agreements revoked",
		}),
		CacheRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "integrity_cache_requests_total",
			Help: "Cache lookups by result (hit, miss, error)",
		}, []string{"result"}),
		RequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "integrity_http_request_duration_seconds",
			Help:    "HTTP request latency by route",
			Buckets: []float64{0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}, []string{"route", "status"}),
	}
}
