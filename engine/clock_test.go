package engine

import (
	"sync"
	"time"
)

// fakeClock is a deterministic stand-in for realClock: Sleep advances its
// own notion of "now" instead of blocking real wall-clock time, so tests
// that depend on the inter-frame gap run instantly and reproducibly.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Unix(0, 0)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Sleep(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// Advance jumps the clock forward independently of any Sleep call, e.g. to
// simulate the application waiting before its next send.
func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}
