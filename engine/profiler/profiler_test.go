package profiler

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	t time.Time
}

func (c *fakeClock) now() time.Time {
	return c.t
}

func TestReportsAfterInterval(t *testing.T) {
	clock := &fakeClock{t: time.Unix(100, 0)}
	p := NewProfiler(WithClock(clock.now))

	for range 59 {
		clock.t = clock.t.Add(10 * time.Millisecond)
		_, ok := p.Tick()
		require.False(t, ok)
	}

	// Exactly one interval is not enough.
	clock.t = time.Unix(101, 0)
	_, ok := p.Tick()
	assert.False(t, ok)

	clock.t = clock.t.Add(250 * time.Millisecond)
	stats, ok := p.Tick()
	require.True(t, ok)
	assert.InDelta(t, 61/1.25, stats.FPS, 1e-9)
	assert.Zero(t, stats.HeapMB)

	// The next interval starts empty.
	clock.t = clock.t.Add(500 * time.Millisecond)
	_, ok = p.Tick()
	assert.False(t, ok)
}

func TestMemStats(t *testing.T) {
	clock := &fakeClock{t: time.Unix(0, 0)}
	p := NewProfiler(WithClock(clock.now), WithMemStats(true), WithUpdateInterval(time.Millisecond))

	clock.t = clock.t.Add(time.Second)
	stats, ok := p.Tick()
	require.True(t, ok)
	assert.InDelta(t, 1.0, stats.FPS, 1e-9)
	assert.Positive(t, stats.SysMB)
	assert.Positive(t, stats.HeapMB)
}

func TestIgnoresNonPositiveInterval(t *testing.T) {
	p := NewProfiler(WithUpdateInterval(0))
	assert.Equal(t, time.Second, p.updateInterval)
}
