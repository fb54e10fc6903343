package prices

import (
	"context"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/energypilot/energypilot/pkg/types"
)

const (
	pointsPerDay  = 48
	pointInterval = 30 * time.Minute
)

// Mock generates a plausible day of half-hourly prices. Night hours are
// negative, the evening is peak.
type Mock struct {
	region string
	loc    *time.Location

	mu   sync.Mutex
	rand *rand.Rand
}

// NewMock returns a Mock feed. A nil src uses the global random source.
func NewMock(region string, loc *time.Location, src rand.Source) *Mock {
	m := &Mock{
		region: region,
		loc:    loc,
	}
	if src != nil {
		m.rand = rand.New(src)
	}
	return m
}

func (m *Mock) Region() string {
	return m.region
}

func (m *Mock) Location() *time.Location {
	if m.loc == nil {
		return time.UTC
	}
	return m.loc
}

func (m *Mock) float64() float64 {
	if m.rand == nil {
		return rand.Float64()
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.rand.Float64()
}

func (m *Mock) Prices(ctx context.Context, date time.Time) ([]types.PriceData, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	loc := m.Location()
	y, mo, d := date.In(loc).Date()

	// days a DST change falls on have 46 or 50 points
	start := time.Date(y, mo, d, 0, 0, 0, 0, loc)
	end := time.Date(y, mo, d+1, 0, 0, 0, 0, loc)
	out := make([]types.PriceData, 0, pointsPerDay)
	for ts := start; ts.Before(end); ts = ts.Add(pointInterval) {
		price, peak := m.band(ts.Hour())
		out = append(out, types.NewPriceData(ts, types.Round2(price), peak))
	}
	return out, nil
}

// band draws a price for the hour and reports whether the hour is peak.
func (m *Mock) band(hour int) (float64, bool) {
	u := m.float64()
	switch {
	case hour >= 2 && hour <= 5:
		return -3.2 + u*2, false
	case hour >= 6 && hour <= 8:
		return 1 + u*3, false
	case hour >= 17 && hour <= 20:
		return 8 + u*5, true
	case hour >= 21 && hour <= 23:
		return 4 + u*3, false
	default:
		return 0.5 + u*2, false
	}
}
