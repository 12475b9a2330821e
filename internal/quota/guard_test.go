package quota

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestGuard_FixedWindow(t *testing.T) {
	g := NewGuard(10, time.Minute)
	start := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

	for i := 0; i < 10; i++ {
		at := start.Add(time.Duration(i) * 59 * time.Second / 9)
		assert.True(t, g.Allow(at), "call %d", i+1)
	}
	assert.False(t, g.Allow(start.Add(59900*time.Millisecond)), "11th call inside the window")
	assert.True(t, g.Allow(start.Add(61*time.Second)), "12th call opens a new window")
}

func TestGuard_WindowAnchoredAtFirstCallAfterReset(t *testing.T) {
	g := NewGuard(1, time.Minute)
	start := time.Date(2024, 3, 1, 9, 0, 30, 0, time.UTC)

	assert.True(t, g.Allow(start))
	assert.False(t, g.Allow(start.Add(45*time.Second)))
	assert.True(t, g.Allow(start.Add(time.Minute)))
	assert.False(t, g.Allow(start.Add(90*time.Second)))
}

func TestGuard_Remaining(t *testing.T) {
	g := NewGuard(3, time.Minute)
	now := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

	assert.Equal(t, 3, g.Remaining(now))
	g.Allow(now)
	assert.Equal(t, 2, g.Remaining(now))
	g.Allow(now)
	g.Allow(now)
	g.Allow(now)
	assert.Equal(t, 0, g.Remaining(now))
	assert.Equal(t, 3, g.Remaining(now.Add(time.Minute)))
}

func TestGuard_Defaults(t *testing.T) {
	g := NewGuard(0, 0)
	assert.Equal(t, DefaultMaxCalls, g.maxCalls)
	assert.Equal(t, DefaultWindow, g.window)
}

func TestGuard_Concurrent(t *testing.T) {
	g := NewGuard(10, time.Minute)
	now := time.Now()

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		allowed int
	)
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if g.Allow(now) {
				mu.Lock()
				allowed++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, 10, allowed)
}
