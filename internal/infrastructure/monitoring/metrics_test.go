package monitoring

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/turtacn/sample-app/internal/config"
	"github.com/turtacn/sample-app/pkg/constants"
)

// sampleCount returns the histogram sample count for one label set, or 0.
func sampleCount(t *testing.T, m *Metrics, name, method, route, code string) uint64 {
	t.Helper()
	families, err := m.Gatherer().Gather()
	require.NoError(t, err)

	for _, mf := range families {
		if mf.GetName() != name {
			continue
		}
		for _, metric := range mf.GetMetric() {
			if labelsMatch(metric.GetLabel(), map[string]string{"method": method, "route": route, "code": code}) {
				return metric.GetHistogram().GetSampleCount()
			}
		}
	}
	return 0
}

func labelsMatch(pairs []*dto.LabelPair, want map[string]string) bool {
	if len(pairs) != len(want) {
		return false
	}
	for _, p := range pairs {
		if want[p.GetName()] != p.GetValue() {
			return false
		}
	}
	return true
}

func TestNewMetricsDefaults(t *testing.T) {
	m, err := NewMetrics(&config.MetricsConfig{})
	require.NoError(t, err)

	// Go collector, process collector and the histogram (no series yet).
	families, err := m.Gatherer().Gather()
	require.NoError(t, err)
	names := make([]string, 0, len(families))
	for _, mf := range families {
		names = append(names, mf.GetName())
	}
	assert.Contains(t, names, "go_goroutines")
	assert.Equal(t, 0, testutil.CollectAndCount(m.RequestDuration))
}

func TestObserveRequestRecordsMilliseconds(t *testing.T) {
	m, err := NewMetrics(&config.MetricsConfig{Buckets: constants.DefaultBuckets})
	require.NoError(t, err)

	m.ObserveRequest(http.MethodGet, "/", http.StatusOK, 120*time.Millisecond)
	m.ObserveRequest(http.MethodGet, "/", http.StatusOK, 30*time.Millisecond)

	families, err := m.Gatherer().Gather()
	require.NoError(t, err)

	var hist *dto.Histogram
	for _, mf := range families {
		if mf.GetName() == RequestDurationName {
			require.Len(t, mf.GetMetric(), 1)
			hist = mf.GetMetric()[0].GetHistogram()
		}
	}
	require.NotNil(t, hist)
	assert.Equal(t, uint64(2), hist.GetSampleCount())
	assert.InDelta(t, 150.0, hist.GetSampleSum(), 0.001)

	buckets := hist.GetBucket()
	require.Len(t, buckets, len(constants.DefaultBuckets))
	assert.Equal(t, 50.0, buckets[0].GetUpperBound())
	assert.Equal(t, uint64(1), buckets[0].GetCumulativeCount())
	assert.Equal(t, 200.0, buckets[2].GetUpperBound())
	assert.Equal(t, uint64(2), buckets[2].GetCumulativeCount())
}

func TestStartTimerObservesOnce(t *testing.T) {
	m, err := NewMetrics(&config.MetricsConfig{})
	require.NoError(t, err)

	const n = 5
	for i := 0; i < n; i++ {
		timer := m.StartTimer(http.MethodGet, "/", http.StatusOK)
		d := timer.ObserveDuration()
		assert.GreaterOrEqual(t, d, time.Duration(0))
	}

	assert.Equal(t, uint64(n), sampleCount(t, m, RequestDurationName, "GET", "/", "200"))
	assert.Equal(t, uint64(0), sampleCount(t, m, RequestDurationName, "POST", "/", "200"))
}

func TestNamespacePrefixesHistogram(t *testing.T) {
	m, err := NewMetrics(&config.MetricsConfig{Namespace: "sample"})
	require.NoError(t, err)

	m.ObserveRequest(http.MethodGet, "/", http.StatusOK, time.Millisecond)
	assert.Equal(t, uint64(1), sampleCount(t, m, "sample_"+RequestDurationName, "GET", "/", "200"))
}

func TestRegistriesAreIndependent(t *testing.T) {
	first, err := NewMetrics(&config.MetricsConfig{})
	require.NoError(t, err)
	second, err := NewMetrics(&config.MetricsConfig{})
	require.NoError(t, err)

	first.ObserveRequest(http.MethodGet, "/", http.StatusOK, time.Millisecond)
	assert.Equal(t, 1, testutil.CollectAndCount(first.RequestDuration))
	assert.Equal(t, 0, testutil.CollectAndCount(second.RequestDuration))
}

func TestHandlerServesExposition(t *testing.T) {
	m, err := NewMetrics(&config.MetricsConfig{})
	require.NoError(t, err)
	m.ObserveRequest(http.MethodGet, "/", http.StatusOK, 75*time.Millisecond)

	w := httptest.NewRecorder()
	m.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/plain")
	body := w.Body.String()
	assert.Contains(t, body, "# HELP http_request_duration_ms Duration of HTTP requests in ms")
	assert.Contains(t, body, "# TYPE http_request_duration_ms histogram")
	assert.Contains(t, body, `http_request_duration_ms_bucket{code="200",method="GET",route="/",le="100"} 1`)
	assert.Contains(t, body, `http_request_duration_ms_count{code="200",method="GET",route="/"} 1`)
	assert.Contains(t, body, "promhttp_metric_handler_requests_total")
}
