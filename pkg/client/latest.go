package client

import (
	"context"
	"sync"
)

// Latest holds the most recent value of a resource that is refreshed
// concurrently. Each refresh gets a generation; a result is only kept if no
// newer refresh began in the meantime, so a slow response can never overwrite
// a fresher one.
type Latest[T any] struct {
	mu     sync.Mutex
	gen    uint64
	cancel context.CancelFunc
	value  T
	ok     bool
}

// Begin starts a refresh. The previous refresh, if still running, is canceled.
// The returned context must be used for the fetch.
func (l *Latest[T]) Begin(ctx context.Context) (context.Context, uint64) {
	ctx, cancel := context.WithCancel(ctx)

	l.mu.Lock()
	defer l.mu.Unlock()
	if l.cancel != nil {
		l.cancel()
	}
	l.gen++
	l.cancel = cancel
	return ctx, l.gen
}

// Commit stores v if gen is still the latest generation and reports whether it
// did.
func (l *Latest[T]) Commit(gen uint64, v T) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if gen != l.gen {
		return false
	}
	l.value = v
	l.ok = true
	l.release()
	return true
}

// Abandon ends the refresh of gen without storing anything. It reports false
// if a newer refresh already began.
func (l *Latest[T]) Abandon(gen uint64) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if gen != l.gen {
		return false
	}
	l.release()
	return true
}

func (l *Latest[T]) release() {
	if l.cancel != nil {
		l.cancel()
		l.cancel = nil
	}
}

// Get returns the stored value and whether one was ever committed.
func (l *Latest[T]) Get() (T, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.value, l.ok
}
