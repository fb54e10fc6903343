package server

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/energypilot/energypilot/pkg/log"
	"github.com/energypilot/energypilot/pkg/types"
)

func (s *Server) handlePrices(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	loc := s.prices.Location()

	date := s.now().In(loc)
	if q := r.URL.Query().Get("date"); q != "" {
		d, err := time.ParseInLocation(time.DateOnly, q, loc)
		if err != nil {
			writeJSONError(w, "invalid date, expected YYYY-MM-DD", http.StatusBadRequest)
			return
		}
		date = d
	}

	prices, err := s.prices.Prices(ctx, date)
	if err != nil {
		log.Ctx(ctx).ErrorContext(ctx, "failed to get prices", slog.Any("error", err))
		s.metrics.UpstreamFailure("prices")
		writeJSONError(w, "Unable to retrieve price data", http.StatusInternalServerError)
		return
	}
	if prices == nil {
		prices = []types.PriceData{}
	}

	writeJSON(w, types.PriceDay{
		Region: s.prices.Region(),
		Date:   date.Format(time.DateOnly),
		Prices: prices,
	}, http.StatusOK)
}
