package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/energypilot/energypilot/pkg/log"
	"github.com/energypilot/energypilot/pkg/settings"
	"github.com/energypilot/energypilot/pkg/types"
)

func (s *Server) handleGetConfig(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	cfg, err := s.settings.Load(ctx)
	if err != nil {
		log.Ctx(ctx).ErrorContext(ctx, "failed to load config", slog.Any("error", err))
		writeJSONError(w, "failed to load config", http.StatusInternalServerError)
		return
	}
	writeJSON(w, cfg, http.StatusOK)
}

func (s *Server) handleSaveConfig(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var cfg types.UserConfig
	if err := decodeBody(r, &cfg); err != nil {
		writeJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := s.settings.Save(ctx, cfg); err != nil {
		if errors.Is(err, settings.ErrInvalidConfig) {
			writeJSONError(w, err.Error(), http.StatusBadRequest)
			return
		}
		log.Ctx(ctx).ErrorContext(ctx, "failed to save config", slog.Any("error", err))
		writeJSONError(w, "failed to save config", http.StatusInternalServerError)
		return
	}
	writeJSON(w, cfg, http.StatusOK)
}

func (s *Server) handleResetConfig(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if err := s.settings.Reset(ctx); err != nil {
		log.Ctx(ctx).ErrorContext(ctx, "failed to reset config", slog.Any("error", err))
		writeJSONError(w, "failed to reset config", http.StatusInternalServerError)
		return
	}
	log.Ctx(ctx).InfoContext(ctx, "reset config")
	writeJSON(w, types.DefaultUserConfig(), http.StatusOK)
}

func (s *Server) handleGetState(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	state, err := s.loadState(ctx)
	if err != nil {
		log.Ctx(ctx).ErrorContext(ctx, "failed to load dashboard state", slog.Any("error", err))
		writeJSONError(w, "failed to load dashboard state", http.StatusInternalServerError)
		return
	}
	writeJSON(w, state, http.StatusOK)
}

func (s *Server) handleSaveState(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var state types.DashboardState
	if err := decodeBody(r, &state); err != nil {
		writeJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := s.settings.SetDemoMode(ctx, state.DemoMode); err != nil {
		log.Ctx(ctx).ErrorContext(ctx, "failed to save demo mode", slog.Any("error", err))
		writeJSONError(w, "failed to save dashboard state", http.StatusInternalServerError)
		return
	}
	if err := s.settings.SetOnboarded(ctx, state.Onboarded); err != nil {
		log.Ctx(ctx).ErrorContext(ctx, "failed to save onboarded", slog.Any("error", err))
		writeJSONError(w, "failed to save dashboard state", http.StatusInternalServerError)
		return
	}
	writeJSON(w, state, http.StatusOK)
}

func (s *Server) loadState(ctx context.Context) (types.DashboardState, error) {
	demo, err := s.settings.DemoMode(ctx)
	if err != nil {
		return types.DashboardState{}, err
	}
	onboarded, err := s.settings.Onboarded(ctx)
	if err != nil {
		return types.DashboardState{}, err
	}
	return types.DashboardState{DemoMode: demo, Onboarded: onboarded}, nil
}
