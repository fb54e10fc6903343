package server

import (
	"net/http"
	"time"

	"github.com/energypilot/energypilot/pkg/log"
	"github.com/gorilla/handlers"
)

// metricsMiddleware records the duration of every request labeled by the mux
// pattern that served it.
func (s *Server) metricsMiddleware(next http.Handler) http.Handler {
	if s.metrics == nil {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &log.StatusRecorder{ResponseWriter: w, Status: http.StatusOK}
		next.ServeHTTP(rec, r)

		// the mux sets Pattern on the request it was handed
		route := r.Pattern
		if route == "" {
			route = "unmatched"
		}
		s.metrics.ObserveRequest(route, rec.Status, time.Since(start))
	})
}

// corsMiddleware lets the configured browser origins call the API. It is a
// no-op when no origins are configured.
func (s *Server) corsMiddleware(next http.Handler) http.Handler {
	if len(s.corsOrigins) == 0 {
		return next
	}
	return handlers.CORS(
		handlers.AllowedOrigins(s.corsOrigins),
		handlers.AllowedMethods([]string{http.MethodGet, http.MethodPost, http.MethodDelete}),
		handlers.AllowedHeaders([]string{"Content-Type", log.RequestIDHeader}),
		handlers.ExposedHeaders([]string{log.RequestIDHeader}),
	)(next)
}
