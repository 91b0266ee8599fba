// Package broadcast implements the latest-value distribution primitive that
// decouples the feed ingestor from subscriber sessions.
//
// A Cell holds exactly one value, the most recently published. There is no
// backlog: a reader that falls behind observes only the newest value, never
// the history. Publish and Observe are individually atomic; readers never
// block each other and never block the writer.
package broadcast

import (
	"context"
	"errors"
	"sync"
)

// ErrClosed is returned by Observe after the cell has been closed.
var ErrClosed = errors.New("broadcast cell closed")

// Cell is a single-slot, latest-value broadcast cell with one writer and any
// number of readers. Each published value carries a monotonically increasing
// generation; readers track the last generation they observed and wait for a
// newer one.
type Cell[T any] struct {
	mu      sync.Mutex
	value   T
	gen     uint64
	changed chan struct{} // closed and replaced on every publish
	closed  bool
}

// NewCell creates an empty cell. Generation 0 means nothing has been
// published yet.
func NewCell[T any]() *Cell[T] {
	return &Cell[T]{changed: make(chan struct{})}
}

// Publish makes v the current value and wakes every waiting reader. It never
// blocks. Publishes after Close are dropped.
func (c *Cell[T]) Publish(v T) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return
	}

	c.value = v
	c.gen++
	close(c.changed)
	c.changed = make(chan struct{})
}

// Current returns the latest value and its generation without waiting.
func (c *Cell[T]) Current() (T, uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.value, c.gen
}

// Observe blocks until a value with a generation newer than seen is
// available, then returns that value and its generation. Values published
// while the reader was away are skipped: only the newest is returned.
func (c *Cell[T]) Observe(ctx context.Context, seen uint64) (T, uint64, error) {
	for {
		c.mu.Lock()
		if c.gen > seen {
			v, gen := c.value, c.gen
			c.mu.Unlock()
			return v, gen, nil
		}
		if c.closed {
			c.mu.Unlock()
			var zero T
			return zero, 0, ErrClosed
		}
		changed := c.changed
		c.mu.Unlock()

		select {
		case <-changed:
		case <-ctx.Done():
			var zero T
			return zero, 0, ctx.Err()
		}
	}
}

// Close wakes all waiting readers with ErrClosed. Only used at process
// shutdown; the cell has no other terminal state.
func (c *Cell[T]) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return
	}
	c.closed = true
	close(c.changed)
}
