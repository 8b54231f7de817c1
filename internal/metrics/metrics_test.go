package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTimer(t *testing.T) {
	timer := NewTimer()
	require.NotNil(t, timer)
	assert.False(t, timer.start.IsZero())

	time.Sleep(10 * time.Millisecond)
	assert.GreaterOrEqual(t, timer.Duration(), 10*time.Millisecond)
}

func TestTimer_ObserveDuration(t *testing.T) {
	h := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "test_duration_seconds",
		Help:    "Test duration histogram",
		Buckets: prometheus.DefBuckets,
	})

	NewTimer().ObserveDuration(h)
	assert.Equal(t, 1, testutil.CollectAndCount(h))
}

func TestCounters(t *testing.T) {
	before := testutil.ToFloat64(CacheLookupsTotal.WithLabelValues("test", CacheResult(true)))
	CacheLookupsTotal.WithLabelValues("test", CacheResult(true)).Inc()
	after := testutil.ToFloat64(CacheLookupsTotal.WithLabelValues("test", CacheResult(true)))
	assert.InDelta(t, before+1, after, 0.0001)

	assert.Equal(t, "miss", CacheResult(false))
}

func TestHandler_ExposesCollectors(t *testing.T) {
	ResolutionsTotal.WithLabelValues("doh", "resolved").Inc()

	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.True(t, strings.Contains(body, "fireportal_resolutions_total"))
}
