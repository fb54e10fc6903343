package server

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/energypilot/energypilot/pkg/devices"
	"github.com/energypilot/energypilot/pkg/log"
	"github.com/energypilot/energypilot/pkg/types"
)

func (s *Server) handleListDevices(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	list, err := s.devices.List(ctx)
	if err != nil {
		log.Ctx(ctx).ErrorContext(ctx, "failed to list devices", slog.Any("error", err))
		s.metrics.UpstreamFailure("devices")
		writeJSONError(w, "Unable to retrieve devices", http.StatusInternalServerError)
		return
	}
	if list == nil {
		list = []types.DeviceStatus{}
	}
	writeJSON(w, types.DeviceList{Devices: list}, http.StatusOK)
}

func (s *Server) handleDeviceAction(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := r.PathValue("id")

	var req types.DeviceActionRequest
	if err := decodeBody(r, &req); err != nil {
		writeJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}

	ack, err := s.devices.Act(ctx, id, req.Action)
	switch {
	case errors.Is(err, devices.ErrDeviceNotFound):
		writeJSONError(w, "device not found", http.StatusNotFound)
		return
	case errors.Is(err, devices.ErrInvalidAction):
		writeJSONError(w, err.Error(), http.StatusBadRequest)
		return
	case err != nil:
		log.Ctx(ctx).ErrorContext(ctx, "failed to act on device", slog.String("deviceID", id), slog.Any("error", err))
		s.metrics.UpstreamFailure("devices")
		writeJSONError(w, "Unable to send device command", http.StatusInternalServerError)
		return
	}
	writeJSON(w, ack, http.StatusOK)
}
