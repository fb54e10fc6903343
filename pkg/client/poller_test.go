package client

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/energypilot/energypilot/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPollerDiscardsStale(t *testing.T) {
	release := make(chan struct{})
	var calls atomic.Int32
	p := NewPoller("prices", time.Hour, func(ctx context.Context) (int, error) {
		n := calls.Add(1)
		if n == 1 {
			// the slow first fetch ignores cancellation and finishes late
			<-release
			return 1, nil
		}
		return int(n), nil
	})

	slow := make(chan error, 1)
	go func() {
		slow <- p.Refresh(context.Background())
	}()
	require.Eventually(t, func() bool { return calls.Load() == 1 }, time.Second, time.Millisecond)

	require.NoError(t, p.Refresh(context.Background()))
	close(release)
	assert.ErrorIs(t, <-slow, ErrSuperseded)

	v, ok := p.Latest()
	assert.True(t, ok)
	assert.Equal(t, 2, v)
}

func TestPollerCancelsSuperseded(t *testing.T) {
	started := make(chan struct{})
	var calls atomic.Int32
	p := NewPoller("devices", time.Hour, func(ctx context.Context) (string, error) {
		if calls.Add(1) == 1 {
			close(started)
			<-ctx.Done()
			return "", ctx.Err()
		}
		return "new", nil
	})

	first := make(chan error, 1)
	go func() {
		first <- p.Refresh(context.Background())
	}()
	<-started
	require.NoError(t, p.Refresh(context.Background()))
	assert.ErrorIs(t, <-first, ErrSuperseded)

	v, _ := p.Latest()
	assert.Equal(t, "new", v)
}

func TestPollerError(t *testing.T) {
	p := NewPoller("summary", time.Hour, func(ctx context.Context) (int, error) {
		return 0, errors.New("boom")
	})
	assert.EqualError(t, p.Refresh(context.Background()), "boom")
	_, ok := p.Latest()
	assert.False(t, ok)
}

func TestPollerErrorKeepsLastValue(t *testing.T) {
	fail := false
	p := NewPoller("prices", time.Hour, func(ctx context.Context) (int, error) {
		if fail {
			return 0, fmt.Errorf("%w: 503", types.ErrServiceUnavailable)
		}
		return 7, nil
	})
	require.NoError(t, p.Refresh(context.Background()))

	fail = true
	err := p.Refresh(context.Background())
	assert.ErrorIs(t, err, types.ErrServiceUnavailable)
	assert.NotErrorIs(t, err, ErrSuperseded)

	v, ok := p.Latest()
	assert.True(t, ok)
	assert.Equal(t, 7, v)
}

func TestPollerCallerCanceled(t *testing.T) {
	p := NewPoller("summary", time.Hour, func(ctx context.Context) (int, error) {
		<-ctx.Done()
		return 0, ctx.Err()
	})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := p.Refresh(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.NotErrorIs(t, err, ErrSuperseded)
}

func TestPollerRun(t *testing.T) {
	var calls atomic.Int32
	p := NewPoller("devices", 5*time.Millisecond, func(ctx context.Context) (int32, error) {
		return calls.Add(1), nil
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		p.Run(ctx)
		close(done)
	}()

	require.Eventually(t, func() bool { return calls.Load() >= 3 }, time.Second, time.Millisecond)
	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancel")
	}

	v, ok := p.Latest()
	assert.True(t, ok)
	assert.GreaterOrEqual(t, v, int32(3))
}

func TestDashboardIntervals(t *testing.T) {
	d := NewDashboard(New("http://localhost", nil))
	assert.Equal(t, 60*time.Second, d.Prices.interval)
	assert.Equal(t, 30*time.Second, d.Summary.interval)
	assert.Equal(t, 10*time.Second, d.Devices.interval)
}
