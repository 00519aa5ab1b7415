package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Tier labels for project lookups.
const (
	TierLive     = "live"
	TierFallback = "fallback"
	TierMissing  = "missing"
)

// Metrics holds all Prometheus metrics for the service. A nil *Metrics is
// valid and records nothing.
type Metrics struct {
	projectSource      *prometheus.CounterVec
	sourceFailures     *prometheus.CounterVec
	assetRequests      *prometheus.CounterVec
	contactSubmissions *prometheus.CounterVec
	requestDuration    *prometheus.HistogramVec
}

// New creates the metrics and registers them on reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		projectSource: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "portfolio_project_source_total",
				Help: "Project lookups by source and the tier that answered",
			},
			[]string{"source", "tier"},
		),
		sourceFailures: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "portfolio_source_failures_total",
				Help: "Content source errors that triggered a fallback",
			},
			[]string{"source"},
		),
		assetRequests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "portfolio_asset_requests_total",
				Help: "Asset and cover requests by outcome",
			},
			[]string{"result"},
		),
		contactSubmissions: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "portfolio_contact_submissions_total",
				Help: "Contact form submissions by outcome",
			},
			[]string{"result"},
		),
		requestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "portfolio_http_request_duration_seconds",
				Help:    "HTTP request latency",
				Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
			},
			[]string{"method", "route", "status"},
		),
	}
}

// ObserveSource counts which tier served a project lookup.
func (m *Metrics) ObserveSource(source, tier string) {
	if m == nil {
		return
	}
	m.projectSource.WithLabelValues(source, tier).Inc()
}

// SourceFailure counts a failed call to a content source.
func (m *Metrics) SourceFailure(source string) {
	if m == nil {
		return
	}
	m.sourceFailures.WithLabelValues(source).Inc()
}

func (m *Metrics) AssetRequest(result string) {
	if m == nil {
		return
	}
	m.assetRequests.WithLabelValues(result).Inc()
}

func (m *Metrics) ContactSubmission(result string) {
	if m == nil {
		return
	}
	m.contactSubmissions.WithLabelValues(result).Inc()
}

// ObserveRequest records the latency of one HTTP request.
func (m *Metrics) ObserveRequest(method, route string, status int, d time.Duration) {
	if m == nil {
		return
	}
	m.requestDuration.WithLabelValues(method, route, strconv.Itoa(status)).Observe(d.Seconds())
}
