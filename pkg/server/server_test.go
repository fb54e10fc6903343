package server

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/energypilot/energypilot/pkg/log"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHealthz(t *testing.T) {
	ts := newTestServer(t)
	w := ts.do(http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", w.Body.String())
}

func TestResponseHeaders(t *testing.T) {
	ts := newTestServer(t)
	w := ts.do(http.MethodGet, "/healthz", "")

	assert.Equal(t, "energypilot-test", w.Header().Get("Server"))
	assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "DENY", w.Header().Get("X-Frame-Options"))
	assert.Equal(t, "max-age=63072000; includeSubDomains", w.Header().Get("Strict-Transport-Security"))
	assert.Equal(t, "strict-origin-when-cross-origin", w.Header().Get("Referrer-Policy"))

	_, err := uuid.Parse(w.Header().Get(log.RequestIDHeader))
	assert.NoError(t, err)
}

func TestRoutesUnderAPI(t *testing.T) {
	ts := newTestServer(t)

	t.Run("Root Path", func(t *testing.T) {
		w := ts.do(http.MethodGet, "/strategy/presets", "")
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("API Path", func(t *testing.T) {
		w := ts.do(http.MethodGet, "/api/strategy/presets", "")
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("Unknown Path", func(t *testing.T) {
		w := ts.do(http.MethodGet, "/api/unknown", "")
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("Wrong Method", func(t *testing.T) {
		w := ts.do(http.MethodGet, "/api/strategy/apply", "")
		assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
	})
}

func TestMetricsMiddleware(t *testing.T) {
	ts := newTestServer(t)
	ts.do(http.MethodGet, "/healthz", "")
	ts.do(http.MethodGet, "/api/strategy/presets", "")
	ts.do(http.MethodGet, "/nope", "")

	n, err := testutil.GatherAndCount(ts.reg, "energypilot_http_request_duration_seconds")
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	w := ts.do(http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, `route="GET /healthz"`)
	assert.Contains(t, body, `route="GET /api/strategy/presets"`)
	assert.Contains(t, body, `route="unmatched",le="+Inf"`)
}

func TestCORS(t *testing.T) {
	ts := newTestServer(t)
	ts.corsOrigins = []string{"https://dashboard.example.com"}
	ts.handler = ts.setupHandler()

	t.Run("Allowed Origin", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
		req.Header.Set("Origin", "https://dashboard.example.com")
		w := httptest.NewRecorder()
		ts.handler.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "https://dashboard.example.com", w.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("Preflight", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodOptions, "/api/strategy/apply", nil)
		req.Header.Set("Origin", "https://dashboard.example.com")
		req.Header.Set("Access-Control-Request-Method", http.MethodPost)
		req.Header.Set("Access-Control-Request-Headers", "Content-Type")
		w := httptest.NewRecorder()
		ts.handler.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "https://dashboard.example.com", w.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("Other Origin", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
		req.Header.Set("Origin", "https://evil.example.com")
		w := httptest.NewRecorder()
		ts.handler.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
	})
}

func TestWriteJSONError(t *testing.T) {
	w := httptest.NewRecorder()
	writeJSONError(w, "bad things", http.StatusTeapot)
	assert.Equal(t, http.StatusTeapot, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"error":"bad things"}`, w.Body.String())
}

func TestSecurityHeadersOnErrors(t *testing.T) {
	ts := newTestServer(t)
	w := ts.do(http.MethodGet, "/strategy/presets/turbo", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "no-store", w.Header().Get("Cache-Control"))
	assert.Equal(t, "default-src 'none'; frame-ancestors 'none'", w.Header().Get("Content-Security-Policy"))
}
