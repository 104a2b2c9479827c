package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCounters(t *testing.T) {
	m := New()

	m.ObserveRequest("GET", "/content/:slug", "200", 15*time.Millisecond)
	m.ObserveRequest("GET", "/content/:slug", "200", 5*time.Millisecond)
	m.Write("content", "create", "conflict")
	m.FailSoft("not_configured")
	m.Search("memory")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.HTTPRequests.WithLabelValues("GET", "/content/:slug", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Writes.WithLabelValues("content", "create", "conflict")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.FailSoftReads.WithLabelValues("not_configured")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.SearchQueries.WithLabelValues("memory")))
}

func TestNilMetricsAreNoops(t *testing.T) {
	var m *Metrics

	assert.NotPanics(t, func() {
		m.ObserveRequest("GET", "/", "200", time.Millisecond)
		m.Write("content", "create", "ok")
		m.FailSoft("query_failed")
		m.Search("index")
	})
}

func TestHandlerExposesMetrics(t *testing.T) {
	m := New()
	m.Write("comment", "create", "ok")

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `folio_writes_total{entity="comment",operation="create",outcome="ok"} 1`)
}

func TestInstancesAreIndependent(t *testing.T) {
	a, b := New(), New()
	a.FailSoft("x")

	assert.Equal(t, 0.0, testutil.ToFloat64(b.FailSoftReads.WithLabelValues("x")))
}
