package metrics

import (
	"errors"
	"io"
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

func TestObserveEvaluation(t *testing.T) {
	reg := prometheus.NewRegistry()
	m, err := New(reg)
	require.NoError(t, err)

	m.ObserveEvaluation("remote", nil)
	m.ObserveEvaluation("remote", errors.New("boom"))
	m.ObserveEvaluation("simulated", nil)
	m.ObserveEvaluation("simulated", nil)

	expected := `
# HELP energypilot_evaluations_total Total number of strategy evaluations
# TYPE energypilot_evaluations_total counter
energypilot_evaluations_total{mode="remote",result="error"} 1
energypilot_evaluations_total{mode="remote",result="success"} 1
energypilot_evaluations_total{mode="simulated",result="success"} 2
`
	assert.NoError(t, testutil.CollectAndCompare(m.evaluations, strings.NewReader(expected)))
}

func TestUpstreamFailure(t *testing.T) {
	reg := prometheus.NewRegistry()
	m, err := New(reg)
	require.NoError(t, err)

	m.UpstreamFailure("summary")
	assert.Equal(t, 1.0, testutil.ToFloat64(m.upstreamFailures.WithLabelValues("summary")))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.upstreamFailures.WithLabelValues("scorer")))
}

func TestObserveRequest(t *testing.T) {
	reg := prometheus.NewRegistry()
	m, err := New(reg)
	require.NoError(t, err)

	m.ObserveRequest("GET /prices", http.StatusOK, 20*time.Millisecond)
	assert.Equal(t, 1, testutil.CollectAndCount(m.requestDuration))
}

func TestReuseRegistered(t *testing.T) {
	reg := prometheus.NewRegistry()
	a, err := New(reg)
	require.NoError(t, err)
	b, err := New(reg)
	require.NoError(t, err)

	a.UpstreamFailure("scorer")
	b.UpstreamFailure("scorer")
	assert.Equal(t, 2.0, testutil.ToFloat64(a.upstreamFailures.WithLabelValues("scorer")))
}

func TestNilMetrics(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ObserveEvaluation("remote", nil)
		m.UpstreamFailure("scorer")
		m.ObserveRequest("GET /prices", http.StatusOK, time.Second)
	})
	assert.NotNil(t, m.Handler())
}

func TestHandler(t *testing.T) {
	reg := prometheus.NewRegistry()
	m, err := New(reg)
	require.NoError(t, err)
	m.UpstreamFailure("summary")

	rr := httptest.NewRecorder()
	m.Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rr.Code)

	body, err := io.ReadAll(rr.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `energypilot_upstream_failures_total{upstream="summary"} 1`)
}
