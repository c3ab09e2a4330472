package engine

import (
	"fmt"
	"slices"
	"time"

	"github.com/Carmen-Shannon/oxy-xr/engine/config"
	"github.com/Carmen-Shannon/oxy-xr/engine/logger"
	"github.com/Carmen-Shannon/oxy-xr/engine/profiler"
	"github.com/Carmen-Shannon/oxy-xr/engine/renderer"
	"github.com/Carmen-Shannon/oxy-xr/engine/window"
)

// ConfigSource delivers configuration reloads. *config.Watcher implements it.
type ConfigSource interface {
	Updates() <-chan config.Config
	Errors() <-chan error
}

// engine implements the Engine interface.
// Everything runs on the thread that called Run; the only cross-goroutine input is the ConfigSource.
type engine struct {
	window   window.Window
	renderer renderer.Renderer
	state    *renderer.RenderState

	profiler *profiler.Profiler
	configs  ConfigSource
	now      func() time.Time
	sleep    func(time.Duration)

	title            string
	renderFrameLimit time.Duration // minimum frame duration; 0 = uncapped

	// pending holds the latest framebuffer size reported since the last Step.
	pending    bool
	pendingW   int
	pendingH   int
	lastConfig *config.Config
}

// Engine is the frame driver. It owns the RenderState and runs the single-threaded loop:
// poll window events, apply a pending resize, apply configuration reloads, tick the renderer.
type Engine interface {
	// Window returns the window the engine drives.
	Window() window.Window

	// RenderState returns the render state owned by the engine.
	RenderState() *renderer.RenderState

	// Step runs one loop iteration.
	//
	// Returns:
	//   - bool: false once the window has closed
	//   - error: a fatal error; the loop must stop
	Step() (bool, error)

	// Run calls Step until the window closes or a fatal error occurs.
	//
	// Returns:
	//   - error: the fatal error, or nil after a normal close
	Run() error

	// Quit asks the window to close; Run returns after the current iteration.
	Quit()
}

var _ Engine = &engine{}

// NewEngine creates the frame driver and registers its resize callback on the window.
// The renderer must already be initialized with state.
//
// Parameters:
//   - w: the window
//   - r: the initialized renderer
//   - state: the render state, owned by the engine from here on
//   - options: functional options for engine configuration
//
// Returns:
//   - Engine: the newly created engine
func NewEngine(w window.Window, r renderer.Renderer, state *renderer.RenderState, options ...EngineBuilderOption) Engine {
	e := &engine{
		window:   w,
		renderer: r,
		state:    state,
		profiler: profiler.NewProfiler(),
		now:      time.Now,
		sleep:    time.Sleep,
		title:    w.Title(),
	}
	for _, opt := range options {
		opt(e)
	}

	// Resizes are only recorded here and applied between ticks.
	w.SetResizeCallback(func(width, height int) {
		e.pending = true
		e.pendingW, e.pendingH = width, height
	})
	return e
}

func (e *engine) Window() window.Window {
	return e.window
}

func (e *engine) RenderState() *renderer.RenderState {
	return e.state
}

func (e *engine) Run() error {
	for {
		running, err := e.Step()
		if err != nil {
			return err
		}
		if !running {
			return nil
		}
	}
}

func (e *engine) Quit() {
	e.window.RequestClose()
}

func (e *engine) Step() (bool, error) {
	frameStart := e.now()

	if !e.window.PollEvents() {
		return false, nil
	}

	e.applyPendingResize()
	e.applyConfigReloads()

	presented, err := e.renderer.Tick(e.state, frameStart)
	if err != nil {
		if renderer.IsFatal(err) {
			return false, err
		}
		logger.Error("tick failed", "err", err)
	}

	if presented {
		if stats, ok := e.profiler.Tick(); ok {
			e.window.SetTitle(fmt.Sprintf("%s: %.02f FPS", e.title, stats.FPS))
		}
	}

	if e.renderFrameLimit > 0 {
		if remaining := e.renderFrameLimit - e.now().Sub(frameStart); remaining > 0 {
			e.sleep(remaining)
		}
	}
	return true, nil
}

func (e *engine) applyPendingResize() {
	if !e.pending {
		return
	}
	e.pending = false
	if e.pendingW < 0 || e.pendingH < 0 {
		return
	}
	if err := e.renderer.Resize(e.state, uint32(e.pendingW), uint32(e.pendingH)); err != nil {
		logger.Error("resize failed", "width", e.pendingW, "height", e.pendingH, "err", err)
	}
}

// applyConfigReloads drains every reload that arrived since the last Step.
func (e *engine) applyConfigReloads() {
	if e.configs == nil {
		return
	}
	for {
		select {
		case cfg := <-e.configs.Updates():
			e.applyConfig(cfg)
		case err := <-e.configs.Errors():
			logger.Warn("config reload rejected", "err", err)
		default:
			return
		}
	}
}

func (e *engine) applyConfig(cfg config.Config) {
	if err := logger.SetLevel(cfg.Log.Level); err != nil {
		logger.Warn("ignoring log level", "level", cfg.Log.Level, "err", err)
	}
	if cfg.Window.Title != "" {
		e.title = cfg.Window.Title
	}
	if e.lastConfig != nil && rendererChanged(e.lastConfig.Renderer, cfg.Renderer) {
		logger.Warn("renderer settings change on restart only")
	}
	e.lastConfig = &cfg
	logger.Info("config reloaded", "log_level", cfg.Log.Level)
}

func rendererChanged(a, b config.RendererConfig) bool {
	return a.PresentMode != b.PresentMode ||
		a.ForceFallbackAdapter != b.ForceFallbackAdapter ||
		!slices.Equal(a.Features, b.Features)
}
