package prices

import (
	"context"
	"fmt"
	"time"

	"github.com/energypilot/energypilot/pkg/types"
	"github.com/levenlabs/go-lflag"
)

// Feed provides day-ahead prices for a single market region.
type Feed interface {
	// Region is the market region tag, e.g. "LU".
	Region() string
	// Location is the timezone the market's days are defined in.
	Location() *time.Location
	// Prices returns the price points for the calendar day containing date,
	// in the feed's location, in chronological order.
	Prices(ctx context.Context, date time.Time) ([]types.PriceData, error)
}

// Configured sets up the price feed based on flags.
func Configured() Feed {
	region := lflag.String("price-region", "LU", "Market region tag reported with prices")
	tz := lflag.String("price-timezone", "Europe/Luxembourg", "Timezone the day-ahead market days are defined in")
	cacheTTL := lflag.Duration("price-cache-ttl", time.Hour, "How long a day's prices are reused before they are regenerated, 0 disables caching")

	m := &Mock{}
	var p struct{ Feed }

	lflag.Do(func() {
		loc, err := time.LoadLocation(*tz)
		if err != nil {
			panic(fmt.Sprintf("failed to load price timezone %q: %v", *tz, err))
		}
		m.region = *region
		m.loc = loc

		p.Feed = m
		if *cacheTTL > 0 {
			p.Feed = NewCached(m, *cacheTTL)
		}
	})

	return &p
}
