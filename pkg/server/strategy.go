package server

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/energypilot/energypilot/pkg/log"
	"github.com/energypilot/energypilot/pkg/strategy"
	"github.com/energypilot/energypilot/pkg/types"
)

type presetsResponse struct {
	Presets []types.Strategy `json:"presets"`
}

type intervalsRequest struct {
	Intervals []types.StrategyInterval `json:"intervals"`
}

type addIntervalRequest struct {
	Intervals []types.StrategyInterval `json:"intervals"`
	Start     string                   `json:"start"`
	End       string                   `json:"end"`
	Action    types.StrategyAction     `json:"action"`
}

type intervalsResponse struct {
	Intervals []types.StrategyInterval `json:"intervals"`
}

type timelineResponse struct {
	SlotDuration int                     `json:"slotDuration"`
	Slots        []strategy.TimelineSlot `json:"slots"`
}

type applyRequest struct {
	Intervals []types.StrategyInterval `json:"intervals"`
	Devices   []string                 `json:"devices"`
}

func (s *Server) handleListPresets(w http.ResponseWriter, r *http.Request) {
	var resp presetsResponse
	for _, name := range strategy.Presets() {
		ivs, err := strategy.SelectPreset(name)
		if err != nil {
			// every listed preset is selectable
			panic(err)
		}
		resp.Presets = append(resp.Presets, types.Strategy{Preset: name, Intervals: ivs})
	}
	writeJSON(w, resp, http.StatusOK)
}

func (s *Server) handleGetPreset(w http.ResponseWriter, r *http.Request) {
	name := types.Preset(r.PathValue("name"))
	ivs, err := strategy.SelectPreset(name)
	if err != nil {
		writeJSONError(w, err.Error(), http.StatusNotFound)
		return
	}
	writeJSON(w, types.Strategy{Preset: name, Intervals: ivs}, http.StatusOK)
}

func (s *Server) handleAddInterval(w http.ResponseWriter, r *http.Request) {
	var req addIntervalRequest
	if err := decodeBody(r, &req); err != nil {
		writeJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := s.scheduler.Validate(req.Intervals); err != nil {
		writeJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}
	seq, err := s.scheduler.AddInterval(req.Intervals, req.Start, req.End, req.Action)
	if err != nil {
		writeStrategyError(w, err)
		return
	}
	writeJSON(w, intervalsResponse{Intervals: seq}, http.StatusOK)
}

func (s *Server) handleRemoveInterval(w http.ResponseWriter, r *http.Request) {
	index, err := strconv.Atoi(r.PathValue("index"))
	if err != nil {
		writeJSONError(w, "invalid interval index", http.StatusBadRequest)
		return
	}
	var req intervalsRequest
	if err := decodeBody(r, &req); err != nil {
		writeJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}
	seq, err := s.scheduler.RemoveInterval(req.Intervals, index)
	if err != nil {
		writeStrategyError(w, err)
		return
	}
	writeJSON(w, intervalsResponse{Intervals: seq}, http.StatusOK)
}

func (s *Server) handleTimeline(w http.ResponseWriter, r *http.Request) {
	var req intervalsRequest
	if err := decodeBody(r, &req); err != nil {
		writeJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}
	slots, err := s.scheduler.Timeline(req.Intervals)
	if err != nil {
		writeStrategyError(w, err)
		return
	}
	writeJSON(w, timelineResponse{
		SlotDuration: int(s.scheduler.Grid().SlotDuration().Minutes()),
		Slots:        slots,
	}, http.StatusOK)
}

func (s *Server) handleApplyStrategy(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var body applyRequest
	if err := decodeBody(r, &body); err != nil {
		writeJSON(w, types.ApplyFailure{Error: err.Error()}, http.StatusBadRequest)
		return
	}
	if err := s.scheduler.Validate(body.Intervals); err != nil {
		writeJSON(w, types.ApplyFailure{Error: err.Error()}, http.StatusBadRequest)
		return
	}
	req := s.scheduler.Submit(body.Intervals, body.Devices)

	res, err := s.evaluator.Evaluate(ctx, req)
	if err != nil {
		log.Ctx(ctx).ErrorContext(ctx, "failed to evaluate strategy", slog.Any("error", err))
		writeJSON(w, types.ApplyFailure{Error: "Unable to evaluate strategy"}, http.StatusBadGateway)
		return
	}
	mode := res.Mode
	if mode == "" {
		mode = string(s.evaluator.Mode())
	}

	log.Ctx(ctx).InfoContext(
		ctx,
		"applied strategy",
		slog.Int("intervals", len(req.Intervals)),
		slog.Float64("estimatedSavings", res.EstimatedSavings),
		slog.String("mode", mode),
	)
	writeJSON(w, types.ApplyResult{
		Success:          true,
		EstimatedSavings: types.Round2(res.EstimatedSavings),
		AppliedAt:        s.now().UTC(),
		Intervals:        req.Intervals,
		Devices:          req.Devices,
		Mode:             mode,
	}, http.StatusOK)
}

// writeStrategyError maps scheduler errors to a status code.
func writeStrategyError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, strategy.ErrOverlap):
		writeJSONError(w, err.Error(), http.StatusConflict)
	case errors.Is(err, strategy.ErrInvalidSlot),
		errors.Is(err, strategy.ErrInvalidAction),
		errors.Is(err, strategy.ErrIndexOutOfRange):
		writeJSONError(w, err.Error(), http.StatusBadRequest)
	default:
		writeJSONError(w, "internal error", http.StatusInternalServerError)
	}
}
