package metrics

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the prometheus collectors. A nil *Metrics is valid and records
// nothing.
type Metrics struct {
	evaluations      *prometheus.CounterVec
	upstreamFailures *prometheus.CounterVec
	requestDuration  *prometheus.HistogramVec
	gatherer         prometheus.Gatherer
}

// New registers the collectors on reg. If reg is nil, the default registerer
// is used. Collectors that are already registered are reused.
func New(reg prometheus.Registerer) (*Metrics, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	gatherer := prometheus.DefaultGatherer
	if g, ok := reg.(prometheus.Gatherer); ok {
		gatherer = g
	}

	evaluations, err := register(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "energypilot_evaluations_total",
		Help: "Total number of strategy evaluations",
	}, []string{"mode", "result"}))
	if err != nil {
		return nil, err
	}
	upstreamFailures, err := register(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "energypilot_upstream_failures_total",
		Help: "Total number of failed calls to upstream services",
	}, []string{"upstream"}))
	if err != nil {
		return nil, err
	}
	requestDuration, err := register(reg, prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "energypilot_http_request_duration_seconds",
		Help:    "Duration of HTTP requests",
		Buckets: prometheus.DefBuckets,
	}, []string{"route", "code"}))
	if err != nil {
		return nil, err
	}

	return &Metrics{
		evaluations:      evaluations,
		upstreamFailures: upstreamFailures,
		requestDuration:  requestDuration,
		gatherer:         gatherer,
	}, nil
}

func register[T prometheus.Collector](reg prometheus.Registerer, c T) (T, error) {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(T); ok {
				return existing, nil
			}
		}
		var zero T
		return zero, err
	}
	return c, nil
}

// ObserveEvaluation counts an evaluation by the evaluator mode and whether it
// failed.
func (m *Metrics) ObserveEvaluation(mode string, err error) {
	if m == nil {
		return
	}
	result := "success"
	if err != nil {
		result = "error"
	}
	m.evaluations.WithLabelValues(mode, result).Inc()
}

// UpstreamFailure counts a failed call to the named upstream.
func (m *Metrics) UpstreamFailure(upstream string) {
	if m == nil {
		return
	}
	m.upstreamFailures.WithLabelValues(upstream).Inc()
}

// ObserveRequest records the duration of an HTTP request.
func (m *Metrics) ObserveRequest(route string, code int, d time.Duration) {
	if m == nil {
		return
	}
	m.requestDuration.WithLabelValues(route, strconv.Itoa(code)).Observe(d.Seconds())
}

// Handler serves the registered metrics in the prometheus text format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}
