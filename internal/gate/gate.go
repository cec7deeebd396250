// Package gate bounds how many transfers run at once.
package gate

import (
	"context"
	"sync"

	"golang.org/x/sync/semaphore"
)

// Gate admits at most a fixed number of holders. Waiters are admitted in the
// order they called Acquire.
type Gate struct {
	sem   *semaphore.Weighted
	limit int

	mu     sync.Mutex
	active int
	peak   int
}

// New creates a gate admitting up to limit holders. Limits below one are
// raised to one.
func New(limit int) *Gate {
	if limit < 1 {
		limit = 1
	}
	return &Gate{
		sem:   semaphore.NewWeighted(int64(limit)),
		limit: limit,
	}
}

// Acquire blocks until a slot is free or ctx is done.
func (g *Gate) Acquire(ctx context.Context) error {
	if err := g.sem.Acquire(ctx, 1); err != nil {
		return err
	}

	g.mu.Lock()
	g.active++
	if g.active > g.peak {
		g.peak = g.active
	}
	g.mu.Unlock()
	return nil
}

// Release frees a slot taken by Acquire.
func (g *Gate) Release() {
	g.mu.Lock()
	g.active--
	g.mu.Unlock()

	g.sem.Release(1)
}

// Limit returns the configured number of slots.
func (g *Gate) Limit() int {
	return g.limit
}

// Active returns the number of current holders.
func (g *Gate) Active() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.active
}

// Peak returns the highest number of simultaneous holders observed.
func (g *Gate) Peak() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.peak
}
