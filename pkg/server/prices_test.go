package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/energypilot/energypilot/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func onDate(date string) any {
	return mock.MatchedBy(func(d time.Time) bool {
		return d.Format(time.DateOnly) == date
	})
}

func TestHandlePrices(t *testing.T) {
	t.Run("Defaults To Today", func(t *testing.T) {
		ts := newTestServer(t)
		ts.feed.On("Prices", mock.Anything, onDate("2026-03-14")).Return([]types.PriceData{
			types.NewPriceData(time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC), 12.5, false),
			types.NewPriceData(time.Date(2026, 3, 14, 0, 30, 0, 0, time.UTC), -1.25, false),
		}, nil)

		w := ts.do(http.MethodGet, "/prices", "")
		require.Equal(t, http.StatusOK, w.Code)

		var day types.PriceDay
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &day))
		assert.Equal(t, "LU", day.Region)
		assert.Equal(t, "2026-03-14", day.Date)
		require.Len(t, day.Prices, 2)
		assert.False(t, day.Prices[0].IsNegative)
		assert.True(t, day.Prices[1].IsNegative)
		ts.feed.AssertExpectations(t)
	})

	t.Run("Explicit Date", func(t *testing.T) {
		ts := newTestServer(t)
		ts.feed.On("Prices", mock.Anything, onDate("2026-01-02")).Return([]types.PriceData{}, nil)

		w := ts.do(http.MethodGet, "/api/prices?date=2026-01-02", "")
		require.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"region":"LU","date":"2026-01-02","prices":[]}`, w.Body.String())
	})

	t.Run("Invalid Date", func(t *testing.T) {
		ts := newTestServer(t)
		w := ts.do(http.MethodGet, "/prices?date=02/01/2026", "")
		assert.Equal(t, http.StatusBadRequest, w.Code)
		ts.feed.AssertNotCalled(t, "Prices", mock.Anything, mock.Anything)
	})

	t.Run("Feed Failure", func(t *testing.T) {
		ts := newTestServer(t)
		ts.feed.On("Prices", mock.Anything, mock.Anything).Return(nil, errors.New("feed down"))

		w := ts.do(http.MethodGet, "/prices", "")
		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.JSONEq(t, `{"error":"Unable to retrieve price data"}`, w.Body.String())
	})
}
