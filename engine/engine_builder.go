package engine

import (
	"time"

	"github.com/Carmen-Shannon/oxy-xr/engine/config"
	"github.com/Carmen-Shannon/oxy-xr/engine/profiler"
)

// EngineBuilderOption is a functional option for configuring an Engine.
type EngineBuilderOption func(*engine)

// WithProfiler replaces the profiler that drives the FPS title.
//
// Parameters:
//   - p: the profiler
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithProfiler(p *profiler.Profiler) EngineBuilderOption {
	return func(e *engine) {
		e.profiler = p
	}
}

// WithConfigSource sets where configuration reloads come from. Without it nothing is reloaded.
//
// Parameters:
//   - source: the reload source, usually a *config.Watcher
//   - initial: the configuration the process started with
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithConfigSource(source ConfigSource, initial config.Config) EngineBuilderOption {
	return func(e *engine) {
		e.configs = source
		e.lastConfig = &initial
	}
}

// WithClock replaces the time source and sleep function, for deterministic tests.
//
// Parameters:
//   - now: returns the current time
//   - sleep: blocks for the given duration; nil keeps time.Sleep
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithClock(now func() time.Time, sleep func(time.Duration)) EngineBuilderOption {
	return func(e *engine) {
		e.now = now
		if sleep != nil {
			e.sleep = sleep
		}
	}
}

// WithRenderFrameLimit sets an optional frame rate cap in frames per second.
// Pass 0 to uncap the loop (default).
//
// Parameters:
//   - fps: maximum frames per second (0 = uncapped)
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithRenderFrameLimit(fps float64) EngineBuilderOption {
	return func(e *engine) {
		if fps <= 0 {
			e.renderFrameLimit = 0
			return
		}
		e.renderFrameLimit = time.Duration(float64(time.Second) / fps)
	}
}
