// Package quota caps how often the generative backend may be called.
package quota

import (
	"sync"
	"time"
)

const (
	DefaultMaxCalls = 10
	DefaultWindow   = 60 * time.Second
)

// Guard is a fixed-window limiter. The window is anchored at the first call
// after a reset, not at wall-clock boundaries.
type Guard struct {
	mu          sync.Mutex
	maxCalls    int
	window      time.Duration
	windowStart time.Time
	count       int
}

func NewGuard(maxCalls int, window time.Duration) *Guard {
	if maxCalls <= 0 {
		maxCalls = DefaultMaxCalls
	}
	if window <= 0 {
		window = DefaultWindow
	}
	return &Guard{maxCalls: maxCalls, window: window}
}

// Allow records a call attempt at now and reports whether it may proceed.
// Denied attempts still count toward the current window.
func (g *Guard) Allow(now time.Time) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.windowStart.IsZero() || now.Sub(g.windowStart) >= g.window {
		g.windowStart = now
		g.count = 1
		return true
	}
	g.count++
	return g.count <= g.maxCalls
}

// Remaining is the number of calls still allowed in the window active at now.
func (g *Guard) Remaining(now time.Time) int {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.windowStart.IsZero() || now.Sub(g.windowStart) >= g.window {
		return g.maxCalls
	}
	if g.count >= g.maxCalls {
		return 0
	}
	return g.maxCalls - g.count
}
