// Package metrics provides linked data API metrics for observability
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// OPSMetrics contains Prometheus metrics for linked data API calls and the
// aggregation stages built on them. A nil *OPSMetrics records nothing.
type OPSMetrics struct {
	registry *prometheus.Registry

	// Remote call metrics
	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	responseSize    *prometheus.HistogramVec

	// Payload parsing metrics
	parseErrorsTotal *prometheus.CounterVec

	// Aggregation metrics
	resolvedEntitiesTotal   *prometheus.CounterVec
	annotationsTotal        *prometheus.CounterVec
	pharmacologyCappedTotal prometheus.Counter
	similarResultsTotal     prometheus.Counter
}

// NewOPSMetrics creates and registers new linked data API metrics
func NewOPSMetrics(registry *prometheus.Registry) (*OPSMetrics, error) {
	m := &OPSMetrics{registry: registry}
	if err := m.initMetrics(); err != nil {
		return nil, err
	}
	if err := registry.Register(m); err != nil {
		return nil, err
	}
	return m, nil
}

// initMetrics initializes all Prometheus metrics
func (m *OPSMetrics) initMetrics() error {
	m.requestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ops_requests_total",
			Help: "Total number of linked data API requests",
		},
		[]string{"operation", "status"}, // status: HTTP status code or transport_error
	)

	m.requestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "ops_request_duration_seconds",
			Help: "Time taken for linked data API requests",
			// 100ms to ~50s: the public API is slow and pharmacology pages are large
			Buckets: prometheus.ExponentialBuckets(BucketStart100ms, BucketFactor2, BucketCount10),
		},
		[]string{"operation"},
	)

	m.responseSize = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "ops_response_size_bytes",
			Help:    "Size of linked data API response bodies in bytes",
			Buckets: prometheus.ExponentialBuckets(BucketStart100B, BucketFactor10, BucketCount6), // 100B to ~10MB
		},
		[]string{"operation"},
	)

	m.parseErrorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ops_parse_errors_total",
			Help: "Total number of payloads that failed to parse",
		},
		[]string{"query"},
	)

	m.resolvedEntitiesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ops_resolved_entities_total",
			Help: "Total number of concept entities produced by free-text searches",
		},
		[]string{"kind"},
	)

	m.annotationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ops_annotations_total",
			Help: "Total number of entities processed by annotation",
		},
		[]string{"kind", "outcome"}, // outcome: annotated, dropped, placeholder
	)

	m.pharmacologyCappedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "ops_pharmacology_capped_total",
			Help: "Total number of compounds whose pharmacology fetch was capped",
		},
	)

	m.similarResultsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "ops_similar_results_total",
			Help: "Total number of compound URIs yielded by similarity searches",
		},
	)

	return nil
}

func (m *OPSMetrics) getCollectors() []prometheus.Collector {
	return []prometheus.Collector{
		m.requestsTotal,
		m.requestDuration,
		m.responseSize,
		m.parseErrorsTotal,
		m.resolvedEntitiesTotal,
		m.annotationsTotal,
		m.pharmacologyCappedTotal,
		m.similarResultsTotal,
	}
}

// Describe implements the Collector interface
func (m *OPSMetrics) Describe(ch chan<- *prometheus.Desc) {
	for _, collector := range m.getCollectors() {
		collector.Describe(ch)
	}
}

// Collect implements the Collector interface
func (m *OPSMetrics) Collect(ch chan<- prometheus.Metric) {
	for _, collector := range m.getCollectors() {
		collector.Collect(ch)
	}
}

// RecordRequest records one remote call and its duration.
func (m *OPSMetrics) RecordRequest(operation, status string, duration time.Duration) {
	if m == nil {
		return
	}
	m.requestsTotal.WithLabelValues(operation, status).Inc()
	m.requestDuration.WithLabelValues(operation).Observe(duration.Seconds())
}

// RecordResponseSize records the size of a response body.
func (m *OPSMetrics) RecordResponseSize(operation string, sizeBytes int) {
	if m == nil {
		return
	}
	m.responseSize.WithLabelValues(operation).Observe(float64(sizeBytes))
}

// RecordParseError records a payload that could not be parsed.
func (m *OPSMetrics) RecordParseError(query string) {
	if m == nil {
		return
	}
	m.parseErrorsTotal.WithLabelValues(query).Inc()
}

// RecordResolvedEntities records the entities returned by one search.
func (m *OPSMetrics) RecordResolvedEntities(kind string, count int) {
	if m == nil {
		return
	}
	m.resolvedEntitiesTotal.WithLabelValues(kind).Add(float64(count))
}

// RecordAnnotation records the outcome for one entity.
func (m *OPSMetrics) RecordAnnotation(kind, outcome string) {
	if m == nil {
		return
	}
	m.annotationsTotal.WithLabelValues(kind, outcome).Inc()
}

// RecordPharmacologyCapped records a pharmacology fetch that hit the activity cap.
func (m *OPSMetrics) RecordPharmacologyCapped() {
	if m == nil {
		return
	}
	m.pharmacologyCappedTotal.Inc()
}

// RecordSimilarResult records one URI yielded by a similarity search.
func (m *OPSMetrics) RecordSimilarResult() {
	if m == nil {
		return
	}
	m.similarResultsTotal.Inc()
}
