package server

import (
	"log/slog"
	"net/http"

	"github.com/energypilot/energypilot/pkg/log"
)

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sum, err := s.summary.Summary(ctx)
	if err != nil {
		log.Ctx(ctx).ErrorContext(ctx, "failed to get summary", slog.Any("error", err))
		s.metrics.UpstreamFailure("summary")
		writeJSONError(w, "Unable to retrieve summary data", http.StatusInternalServerError)
		return
	}
	writeJSON(w, sum, http.StatusOK)
}
