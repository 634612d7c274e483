package metrics_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/noorweb/noorweb/internal/metrics"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObserveProviderRequest_Labels(t *testing.T) {
	okBefore := testutil.ToFloat64(metrics.ProviderRequestTotal.WithLabelValues("aladhan", "day", "ok"))
	errBefore := testutil.ToFloat64(metrics.ProviderRequestTotal.WithLabelValues("aladhan", "day", "error"))

	metrics.ObserveProviderRequest("aladhan", "day", time.Now(), nil)
	metrics.ObserveProviderRequest("aladhan", "day", time.Now(), errors.New("boom"))
	metrics.ObserveProviderRequest("aladhan", "day", time.Now(), errors.New("boom"))

	assert.Equal(t, okBefore+1, testutil.ToFloat64(metrics.ProviderRequestTotal.WithLabelValues("aladhan", "day", "ok")))
	assert.Equal(t, errBefore+2, testutil.ToFloat64(metrics.ProviderRequestTotal.WithLabelValues("aladhan", "day", "error")))
}

func TestRegistry_ServesCollectors(t *testing.T) {
	reg := metrics.NewRegistry()
	metrics.TimezoneFallbacks.WithLabelValues("Mars/Olympus").Inc()

	rec := httptest.NewRecorder()
	metrics.Handler(reg).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "noorweb_timezone_fallback_total")
	assert.Contains(t, rec.Body.String(), `zone="Mars/Olympus"`)
}
