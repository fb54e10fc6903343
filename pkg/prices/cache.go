package prices

import (
	"context"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/energypilot/energypilot/pkg/log"
	"github.com/energypilot/energypilot/pkg/types"
)

type cachedDay struct {
	fetchedAt time.Time
	prices    []types.PriceData
}

// Cached remembers the prices of each day for a while so repeated polls of the
// same day see the same numbers.
type Cached struct {
	feed Feed
	ttl  time.Duration
	now  func() time.Time

	mu   sync.Mutex
	days map[string]cachedDay
}

// NewCached wraps feed with a per day cache that holds prices for ttl.
func NewCached(feed Feed, ttl time.Duration) *Cached {
	return &Cached{
		feed: feed,
		ttl:  ttl,
		now:  time.Now,
		days: make(map[string]cachedDay),
	}
}

func (c *Cached) Region() string {
	return c.feed.Region()
}

func (c *Cached) Location() *time.Location {
	return c.feed.Location()
}

func (c *Cached) Prices(ctx context.Context, date time.Time) ([]types.PriceData, error) {
	key := date.In(c.Location()).Format(time.DateOnly)
	now := c.now()

	c.mu.Lock()
	day, ok := c.days[key]
	c.mu.Unlock()
	if ok && now.Sub(day.fetchedAt) < c.ttl {
		return slices.Clone(day.prices), nil
	}

	prices, err := c.feed.Prices(ctx, date)
	if err != nil {
		return nil, err
	}
	log.Ctx(ctx).DebugContext(
		ctx,
		"fetched prices",
		slog.String("date", key),
		slog.Int("count", len(prices)),
	)

	c.mu.Lock()
	// drop anything that expired so old days don't pile up
	for k, d := range c.days {
		if now.Sub(d.fetchedAt) >= c.ttl {
			delete(c.days, k)
		}
	}
	c.days[key] = cachedDay{fetchedAt: now, prices: slices.Clone(prices)}
	c.mu.Unlock()

	return prices, nil
}
