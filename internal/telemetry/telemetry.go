// Package telemetry exports Prometheus metrics for ingestion and analysis.
package telemetry

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "trendlens"

// Metrics holds all trendlens Prometheus metrics
type Metrics struct {
	// Ingestion metrics
	RecordsClassified  *prometheus.CounterVec
	DescriptorsSkipped prometheus.Counter
	PagesFetched       *prometheus.CounterVec
	StoredRecords      prometheus.Gauge

	// Analysis metrics
	AnalysisDuration *prometheus.HistogramVec
	AlertsRaised     *prometheus.CounterVec

	gatherer prometheus.Gatherer
}

// NewMetrics registers every metric on reg. Pass prometheus.NewRegistry() in
// tests to avoid duplicate registration on the default registry.
func NewMetrics(reg *prometheus.Registry) *Metrics {
	factory := promauto.With(reg)
	m := &Metrics{gatherer: reg}

	m.RecordsClassified = factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "records_classified_total",
		Help:      "Total media records classified by media type",
	}, []string{"type"})

	m.DescriptorsSkipped = factory.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "descriptors_skipped_total",
		Help:      "Media descriptors dropped for lacking a usable URL",
	})

	m.PagesFetched = factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "pages_fetched_total",
		Help:      "Pages fetched for ingestion by outcome",
	}, []string{"status"})

	m.StoredRecords = factory.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "stored_records",
		Help:      "Records currently held in the trend collection",
	})

	m.AnalysisDuration = factory.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "analysis_duration_seconds",
		Help:      "Duration of each analysis pass",
		Buckets:   []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
	}, []string{"pass"})

	m.AlertsRaised = factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "alerts_raised_total",
		Help:      "Alerts produced by alert checks, by kind",
	}, []string{"kind"})

	return m
}

// Handler returns the HTTP handler for the /metrics endpoint
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}

// RecordClassified counts one classified record
func (m *Metrics) RecordClassified(mediaType string) {
	label := mediaType
	if label == "" {
		label = "unknown"
	}
	m.RecordsClassified.WithLabelValues(label).Inc()
}

func (m *Metrics) RecordSkipped() {
	m.DescriptorsSkipped.Inc()
}

func (m *Metrics) RecordPageFetch(success bool) {
	status := "ok"
	if !success {
		status = "error"
	}
	m.PagesFetched.WithLabelValues(status).Inc()
}

func (m *Metrics) SetStoredRecords(n int) {
	m.StoredRecords.Set(float64(n))
}

// ObservePass records how long one analysis pass took
func (m *Metrics) ObservePass(pass string, started time.Time) {
	m.AnalysisDuration.WithLabelValues(pass).Observe(time.Since(started).Seconds())
}

func (m *Metrics) RecordAlert(kind string) {
	m.AlertsRaised.WithLabelValues(kind).Inc()
}
