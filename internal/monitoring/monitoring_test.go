package monitoring

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type flakyChecker struct {
	results []bool
	calls   atomic.Int32
}

func (f *flakyChecker) HealthCheck(context.Context) bool {
	n := int(f.calls.Add(1)) - 1
	if n >= len(f.results) {
		return f.results[len(f.results)-1]
	}
	return f.results[n]
}

func TestMonitorSummarizerHealth(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	checker := &flakyChecker{results: []bool{false, true}}
	var healthy atomic.Bool

	done := make(chan struct{})
	go func() {
		MonitorSummarizerHealth(ctx, checker, &healthy, 5*time.Millisecond)
		close(done)
	}()

	assert.Eventually(t, healthy.Load, time.Second, 5*time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("monitor did not stop after cancel")
	}
	assert.GreaterOrEqual(t, checker.calls.Load(), int32(2))
}

func TestObserveUpstream(t *testing.T) {
	before := testutil.ToFloat64(UpstreamRequests.WithLabelValues("test-source", "429"))
	ObserveUpstream("test-source", 429, 10*time.Millisecond)
	ObserveUpstream("test-source", 0, time.Millisecond)

	assert.Equal(t, before+1, testutil.ToFloat64(UpstreamRequests.WithLabelValues("test-source", "429")))
	assert.Equal(t, 1.0, testutil.ToFloat64(UpstreamRequests.WithLabelValues("test-source", "error")))
}

func TestObserveCacheAndDegraded(t *testing.T) {
	ObserveCache("test-kind", true)
	ObserveCache("test-kind", false)
	ObserveCache("test-kind", false)
	ObserveDegraded("test-component")

	assert.Equal(t, 1.0, testutil.ToFloat64(CacheLookups.WithLabelValues("test-kind", "hit")))
	assert.Equal(t, 2.0, testutil.ToFloat64(CacheLookups.WithLabelValues("test-kind", "miss")))
	assert.Equal(t, 1.0, testutil.ToFloat64(BundleDegraded.WithLabelValues("test-component")))
}

func TestHandlerExposesMetrics(t *testing.T) {
	ObserveDegraded("exposed")

	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "tickerpulse_bundle_degraded_total")
}
