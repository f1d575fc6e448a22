package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the application. Every method is
// nil-safe so tests and tools can run without a registry.
type Metrics struct {
	// Backend call latency and failures by endpoint
	GatewayLatency  *prometheus.HistogramVec
	GatewayFailures *prometheus.CounterVec

	// Preload terminal states and join latency
	PreloadOutcome  *prometheus.CounterVec
	PreloadDuration prometheus.Histogram

	// Card enrichment batches and degraded lookups
	EnrichmentBatches        prometheus.Counter
	EnrichmentLookupFailures prometheus.Counter

	// Report exports by outcome
	ReportExports *prometheus.CounterVec

	// HTTP handler latency by route pattern
	RequestLatency *prometheus.HistogramVec
}

// New creates and registers all metrics on reg. Pass prometheus.DefaultRegisterer
// in main and a fresh prometheus.NewRegistry() in tests.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		GatewayLatency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "creditdash_gateway_request_duration_seconds",
			Help:    "Duration of analytics backend calls by endpoint",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
		}, []string{"endpoint"}),

		GatewayFailures: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "creditdash_gateway_failures_total",
			Help: "Failed analytics backend calls by endpoint and category",
		}, []string{"endpoint", "category"}),

		PreloadOutcome: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "creditdash_preload_outcomes_total",
			Help: "Login preload attempts by terminal state",
		}, []string{"state"}),

		PreloadDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "creditdash_preload_duration_seconds",
			Help:    "Duration of the four-domain preload join",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60, 90},
		}),

		EnrichmentBatches: factory.NewCounter(prometheus.CounterOpts{
			Name: "creditdash_enrichment_batches_total",
			Help: "Card enrichment batches issued against the card detail endpoint",
		}),

		EnrichmentLookupFailures: factory.NewCounter(prometheus.CounterOpts{
			Name: "creditdash_enrichment_lookup_failures_total",
			Help: "Card detail lookups that degraded to default fields",
		}),

		ReportExports: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "creditdash_report_exports_total",
			Help: "Report export requests by outcome",
		}, []string{"outcome"}),

		RequestLatency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "creditdash_http_request_duration_seconds",
			Help:    "Duration of HTTP requests by route and status",
			Buckets: prometheus.DefBuckets,
		}, []string{"route", "status"}),
	}
}

// ObserveGatewayLatency records the duration of one backend call.
func (m *Metrics) ObserveGatewayLatency(endpoint string, d time.Duration) {
	if m != nil {
		m.GatewayLatency.WithLabelValues(endpoint).Observe(d.Seconds())
	}
}

// IncrementGatewayFailure records a failed backend call.
func (m *Metrics) IncrementGatewayFailure(endpoint, category string) {
	if m != nil {
		m.GatewayFailures.WithLabelValues(endpoint, category).Inc()
	}
}

// IncrementPreloadOutcome records a preload terminal state.
func (m *Metrics) IncrementPreloadOutcome(state string) {
	if m != nil {
		m.PreloadOutcome.WithLabelValues(state).Inc()
	}
}

// ObservePreloadDuration records the fan-out join latency.
func (m *Metrics) ObservePreloadDuration(d time.Duration) {
	if m != nil {
		m.PreloadDuration.Observe(d.Seconds())
	}
}

// IncrementEnrichmentBatch records one enrichment fan-out.
func (m *Metrics) IncrementEnrichmentBatch() {
	if m != nil {
		m.EnrichmentBatches.Inc()
	}
}

// IncrementEnrichmentLookupFailure records a degraded card lookup.
func (m *Metrics) IncrementEnrichmentLookupFailure() {
	if m != nil {
		m.EnrichmentLookupFailures.Inc()
	}
}

// IncrementReportExport records an export outcome ("success" or "failure").
func (m *Metrics) IncrementReportExport(outcome string) {
	if m != nil {
		m.ReportExports.WithLabelValues(outcome).Inc()
	}
}

// ObserveRequestLatency records an HTTP request duration.
func (m *Metrics) ObserveRequestLatency(route, status string, d time.Duration) {
	if m != nil {
		m.RequestLatency.WithLabelValues(route, status).Observe(d.Seconds())
	}
}
