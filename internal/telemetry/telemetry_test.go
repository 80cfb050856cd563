package telemetry

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_Counters(t *testing.T) {
	m := NewMetrics(prometheus.NewRegistry())

	m.RecordClassified("image")
	m.RecordClassified("image")
	m.RecordClassified("")
	m.RecordSkipped()
	m.RecordPageFetch(true)
	m.RecordPageFetch(false)
	m.RecordAlert("threshold")
	m.SetStoredRecords(7)

	assert.Equal(t, float64(2), testutil.ToFloat64(m.RecordsClassified.WithLabelValues("image")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.RecordsClassified.WithLabelValues("unknown")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.DescriptorsSkipped))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.PagesFetched.WithLabelValues("error")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.AlertsRaised.WithLabelValues("threshold")))
	assert.Equal(t, float64(7), testutil.ToFloat64(m.StoredRecords))
}

func TestMetrics_Handler(t *testing.T) {
	m := NewMetrics(prometheus.NewRegistry())
	m.ObservePass("clusters", time.Now())
	m.RecordClassified("video")

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `trendlens_records_classified_total{type="video"} 1`)
	assert.Contains(t, body, `trendlens_analysis_duration_seconds_count{pass="clusters"} 1`)
}

func TestNewMetrics_IndependentRegistries(t *testing.T) {
	assert.NotPanics(t, func() {
		NewMetrics(prometheus.NewRegistry())
		NewMetrics(prometheus.NewRegistry())
	})
}
