package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/NYTimes/gziphandler"
	"github.com/energypilot/energypilot/pkg/common"
	"github.com/energypilot/energypilot/pkg/devices"
	"github.com/energypilot/energypilot/pkg/evaluator"
	"github.com/energypilot/energypilot/pkg/log"
	"github.com/energypilot/energypilot/pkg/metrics"
	"github.com/energypilot/energypilot/pkg/prices"
	"github.com/energypilot/energypilot/pkg/settings"
	"github.com/energypilot/energypilot/pkg/strategy"
	"github.com/energypilot/energypilot/pkg/summary"
	"github.com/levenlabs/go-lflag"
)

// Server handles the HTTP API of the EnergyPilot dashboard. It holds no
// strategy state of its own; every strategy request carries its sequence.
type Server struct {
	prices    prices.Feed
	devices   devices.Registry
	summary   summary.Aggregator
	evaluator evaluator.Evaluator
	settings  *settings.Store
	scheduler *strategy.Scheduler
	metrics   *metrics.Metrics

	listenAddr  string
	corsOrigins []string
	serverName  string
	httpServer  *http.Server
	now         func() time.Time
}

// Configured initializes the Server with dependencies.
// It uses lflag to register command-line flags for configuration.
func Configured(
	feed prices.Feed,
	registry devices.Registry,
	agg summary.Aggregator,
	eval evaluator.Evaluator,
	st *settings.Store,
	sched *strategy.Scheduler,
	m *metrics.Metrics,
) *Server {
	srv := &Server{
		prices:     feed,
		devices:    registry,
		summary:    agg,
		evaluator:  eval,
		settings:   st,
		scheduler:  sched,
		metrics:    m,
		serverName: "energypilot/" + common.Version(),
		now:        time.Now,
	}
	revision := os.Getenv("K_REVISION")
	if revision != "" {
		srv.serverName = revision
	}

	// get the port from PORT when running in cloud run
	port := os.Getenv("PORT")
	if port == "" {
		// otherwise default to 8080
		port = "8080"
	}

	listenAddr := lflag.String("http-listen", ":"+port, "HTTP server listen address")
	corsOrigins := lflag.String("cors-allowed-origins", "", "comma-delimited list of origins allowed to call the API from a browser")

	lflag.Do(func() {
		srv.listenAddr = *listenAddr
		if *corsOrigins != "" {
			for _, o := range strings.Split(*corsOrigins, ",") {
				if o = strings.TrimSpace(o); o != "" {
					srv.corsOrigins = append(srv.corsOrigins, o)
				}
			}
		}
	})

	return srv
}

// handle registers h at pattern and again under /api, where the dashboard
// frontend calls it.
func handle(mux *http.ServeMux, pattern string, h http.HandlerFunc) {
	mux.HandleFunc(pattern, h)
	method, path, _ := strings.Cut(pattern, " ")
	mux.HandleFunc(method+" /api"+path, h)
}

func (s *Server) setupHandler() http.Handler {
	mux := http.NewServeMux()
	handle(mux, "GET /prices", s.handlePrices)
	handle(mux, "GET /devices", s.handleListDevices)
	handle(mux, "POST /devices/{id}/action", s.handleDeviceAction)
	handle(mux, "GET /strategy/presets", s.handleListPresets)
	handle(mux, "GET /strategy/presets/{name}", s.handleGetPreset)
	handle(mux, "POST /strategy/intervals", s.handleAddInterval)
	handle(mux, "DELETE /strategy/intervals/{index}", s.handleRemoveInterval)
	handle(mux, "POST /strategy/timeline", s.handleTimeline)
	handle(mux, "POST /strategy/apply", s.handleApplyStrategy)
	handle(mux, "GET /summary", s.handleSummary)
	handle(mux, "GET /config", s.handleGetConfig)
	handle(mux, "POST /config", s.handleSaveConfig)
	handle(mux, "DELETE /config", s.handleResetConfig)
	handle(mux, "GET /config/state", s.handleGetState)
	handle(mux, "POST /config/state", s.handleSaveState)
	mux.HandleFunc("GET /healthz", s.handleHealthz)
	mux.Handle("GET /metrics", s.metrics.Handler())

	var h http.Handler = s.securityHeadersMiddleware(mux)
	h = gziphandler.GzipHandler(h)
	h = s.corsMiddleware(h)
	h = s.metricsMiddleware(h)
	h = log.Middleware(h)
	return s.revisionMiddleware(h)
}

// Run starts the HTTP server and blocks until the context is canceled or an error occurs.
// It also handles graceful shutdown when the context is done.
func (s *Server) Run(ctx context.Context) error {
	s.httpServer = &http.Server{
		Addr:         s.listenAddr,
		Handler:      s.setupHandler(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  15 * time.Second,
	}

	// use a channel to capturing server errors
	errChan := make(chan error, 1)
	go func() {
		defer close(errChan)
		log.Ctx(ctx).InfoContext(ctx, "starting server", slog.String("addr", s.listenAddr))
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- err
		}
	}()

	select {
	case <-ctx.Done():
		log.Ctx(ctx).InfoContext(ctx, "shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown failed: %w", err)
		}
		return nil
	case err := <-errChan:
		return fmt.Errorf("server error: %w", err)
	}
}

func writeJSON(w http.ResponseWriter, v any, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		panic(http.ErrAbortHandler)
	}
}

func writeJSONError(w http.ResponseWriter, msg string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(struct {
		Error string `json:"error"`
	}{Error: msg}); err != nil {
		slog.Warn("failed to write error response", slog.Any("error", err))
		panic(http.ErrAbortHandler)
	}
}

// decodeBody decodes the JSON request body into v.
func decodeBody(r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(nil, r.Body, 1<<20))
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("invalid request body: %w", err)
	}
	return nil
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte("ok")); err != nil {
		panic(http.ErrAbortHandler)
	}
}

func (s *Server) revisionMiddleware(next http.Handler) http.Handler {
	if s.serverName == "" {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Server", s.serverName)
		next.ServeHTTP(w, r)
	})
}
