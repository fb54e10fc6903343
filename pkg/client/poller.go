package client

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/energypilot/energypilot/pkg/log"
	"github.com/energypilot/energypilot/pkg/types"
)

// ErrSuperseded is returned by Refresh when a newer refresh started before the
// fetch finished. Its result was discarded.
var ErrSuperseded = errors.New("refresh superseded by a newer one")

// Refresh intervals of the dashboard.
const (
	PricesInterval  = 60 * time.Second
	SummaryInterval = 30 * time.Second
	DevicesInterval = 10 * time.Second
)

// Poller keeps a resource fresh by fetching it on a fixed interval.
type Poller[T any] struct {
	name     string
	interval time.Duration
	fetch    func(context.Context) (T, error)
	latest   Latest[T]
}

// NewPoller returns a Poller that calls fetch every interval.
func NewPoller[T any](name string, interval time.Duration, fetch func(context.Context) (T, error)) *Poller[T] {
	return &Poller[T]{
		name:     name,
		interval: interval,
		fetch:    fetch,
	}
}

// Refresh fetches the resource now. It may run concurrently with the ticker
// driven refreshes; only the newest result is kept.
func (p *Poller[T]) Refresh(ctx context.Context) error {
	fctx, gen := p.latest.Begin(ctx)
	v, err := p.fetch(fctx)
	if err != nil {
		if !p.latest.Abandon(gen) {
			return ErrSuperseded
		}
		return err
	}
	if !p.latest.Commit(gen, v) {
		return ErrSuperseded
	}
	return nil
}

// Latest returns the last successfully fetched value.
func (p *Poller[T]) Latest() (T, bool) {
	return p.latest.Get()
}

// Run refreshes immediately and then every interval until ctx is done.
func (p *Poller[T]) Run(ctx context.Context) {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()
	for {
		if err := p.Refresh(ctx); err != nil && !errors.Is(err, ErrSuperseded) && ctx.Err() == nil {
			log.Ctx(ctx).WarnContext(ctx, "failed to refresh", slog.String("resource", p.name), slog.Any("error", err))
		}
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

// Dashboard keeps the prices, summary and devices of the dashboard fresh.
type Dashboard struct {
	Prices  *Poller[types.PriceDay]
	Summary *Poller[types.DailySummary]
	Devices *Poller[[]types.DeviceStatus]
}

// NewDashboard returns a Dashboard polling c at the dashboard intervals.
func NewDashboard(c *Client) *Dashboard {
	return &Dashboard{
		Prices: NewPoller("prices", PricesInterval, func(ctx context.Context) (types.PriceDay, error) {
			return c.Prices(ctx, time.Time{})
		}),
		Summary: NewPoller("summary", SummaryInterval, c.Summary),
		Devices: NewPoller("devices", DevicesInterval, c.Devices),
	}
}

// Run polls every resource until ctx is done.
func (d *Dashboard) Run(ctx context.Context) {
	var wg sync.WaitGroup
	wg.Add(3)
	go func() {
		defer wg.Done()
		d.Prices.Run(ctx)
	}()
	go func() {
		defer wg.Done()
		d.Summary.Run(ctx)
	}()
	go func() {
		defer wg.Done()
		d.Devices.Run(ctx)
	}()
	wg.Wait()
}
