package profiler

import "time"

// ProfilerBuilderOption is a functional option used to configure a Profiler during construction.
type ProfilerBuilderOption func(*Profiler)

// WithUpdateInterval sets how much time must pass between reports. Non-positive values are ignored.
func WithUpdateInterval(interval time.Duration) ProfilerBuilderOption {
	return func(p *Profiler) {
		if interval > 0 {
			p.updateInterval = interval
		}
	}
}

// WithClock replaces the time source.
func WithClock(now func() time.Time) ProfilerBuilderOption {
	return func(p *Profiler) {
		p.now = now
	}
}

// WithMemStats enables heap and GC statistics in each report, logged at debug level.
func WithMemStats(enabled bool) ProfilerBuilderOption {
	return func(p *Profiler) {
		p.memStatsEnabled = enabled
	}
}
