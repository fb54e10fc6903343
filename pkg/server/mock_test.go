package server

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/energypilot/energypilot/pkg/evaluator"
	"github.com/energypilot/energypilot/pkg/metrics"
	"github.com/energypilot/energypilot/pkg/settings"
	"github.com/energypilot/energypilot/pkg/storage"
	"github.com/energypilot/energypilot/pkg/strategy"
	"github.com/energypilot/energypilot/pkg/types"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockFeed struct {
	mock.Mock
}

func (m *mockFeed) Region() string {
	return "LU"
}

func (m *mockFeed) Location() *time.Location {
	return time.UTC
}

func (m *mockFeed) Prices(ctx context.Context, date time.Time) ([]types.PriceData, error) {
	args := m.Called(ctx, date)
	if v := args.Get(0); v != nil {
		return v.([]types.PriceData), args.Error(1)
	}
	return nil, args.Error(1)
}

type mockRegistry struct {
	mock.Mock
}

func (m *mockRegistry) List(ctx context.Context) ([]types.DeviceStatus, error) {
	args := m.Called(ctx)
	if v := args.Get(0); v != nil {
		return v.([]types.DeviceStatus), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockRegistry) Act(ctx context.Context, id string, action types.DeviceAction) (types.DeviceActionAck, error) {
	args := m.Called(ctx, id, action)
	return args.Get(0).(types.DeviceActionAck), args.Error(1)
}

type mockAggregator struct {
	mock.Mock
}

func (m *mockAggregator) Summary(ctx context.Context) (types.DailySummary, error) {
	args := m.Called(ctx)
	return args.Get(0).(types.DailySummary), args.Error(1)
}

type mockEvaluator struct {
	mock.Mock
}

func (m *mockEvaluator) Evaluate(ctx context.Context, req types.EvaluationRequest) (types.Evaluation, error) {
	args := m.Called(ctx, req)
	return args.Get(0).(types.Evaluation), args.Error(1)
}

func (m *mockEvaluator) Mode() evaluator.Mode {
	return evaluator.ModeSimulated
}

var testNow = time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)

type testServer struct {
	*Server
	feed      *mockFeed
	registry  *mockRegistry
	agg       *mockAggregator
	evaluator *mockEvaluator
	kv        *storage.MemoryProvider
	reg       *prometheus.Registry
	handler   http.Handler
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	return newTestServerWithScheduler(t, strategy.NewScheduler(strategy.HalfHourGrid, nil))
}

func newTestServerWithScheduler(t *testing.T, sched *strategy.Scheduler) *testServer {
	t.Helper()
	reg := prometheus.NewRegistry()
	m, err := metrics.New(reg)
	require.NoError(t, err)

	ts := &testServer{
		feed:      &mockFeed{},
		registry:  &mockRegistry{},
		agg:       &mockAggregator{},
		evaluator: &mockEvaluator{},
		kv:        storage.NewMemoryProvider(),
		reg:       reg,
	}
	ts.Server = &Server{
		prices:     ts.feed,
		devices:    ts.registry,
		summary:    ts.agg,
		evaluator:  ts.evaluator,
		settings:   settings.New(ts.kv),
		scheduler:  sched,
		metrics:    m,
		serverName: "energypilot-test",
		now:        func() time.Time { return testNow },
	}
	ts.handler = ts.setupHandler()
	return ts
}

func (ts *testServer) do(method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	ts.handler.ServeHTTP(w, req)
	return w
}
