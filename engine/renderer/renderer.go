package renderer

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/Carmen-Shannon/oxy-xr/engine/logger"
	"github.com/Carmen-Shannon/oxy-xr/engine/renderer/bind_group_provider"
)

// renderer is the implementation of the Renderer interface.
type renderer struct {
	mu *sync.Mutex

	surfaces      SurfaceManager
	backend       RendererBackend
	source        FrameSource
	frameRenderer FrameRenderer
	observer      TransitionObserver

	initialized bool
}

// Renderer ties the surface, the GPU backend and the frame source together.
// It holds no per-tick state of its own: every call takes the RenderState explicitly.
type Renderer interface {
	// Init configures the surface, creates the static GPU resources and the first generation of targets.
	//
	// Parameters:
	//   - state: the render state to initialize
	//   - width: the initial surface width in pixels
	//   - height: the initial surface height in pixels
	//
	// Returns:
	//   - error: ErrZeroSize, or a GPU allocation failure
	Init(state *RenderState, width, height uint32) error

	// Resize reconfigures the surface and replaces the derived targets with a new generation.
	// The new generation is fully built before the old one is released; if the build fails the old one stays current.
	// A zero dimension is ignored and the current targets are kept.
	//
	// Parameters:
	//   - state: the render state whose targets and camera aspect are updated
	//   - width: the new surface width in pixels
	//   - height: the new surface height in pixels
	//
	// Returns:
	//   - error: a configure or allocation failure
	Resize(state *RenderState, width, height uint32) error

	// Tick runs one frame: begin the frame, update and upload the camera and the instances, record both passes,
	// submit and present. Derived targets that no longer match the configured surface are rebuilt first.
	//
	// Parameters:
	//   - state: the render state
	//   - now: the wall-clock time of this tick
	//
	// Returns:
	//   - bool: true if a frame was presented, false if the tick was skipped
	//   - error: ErrNotInitialized, a failed target rebuild, or the failure that ended the tick; see IsFatal
	Tick(state *RenderState, now time.Time) (bool, error)

	// SurfaceManager returns the surface manager.
	SurfaceManager() SurfaceManager

	// FrameSource returns the frame source chosen at construction.
	FrameSource() FrameSource

	// FrameRenderer returns the two-pass frame renderer.
	FrameRenderer() FrameRenderer

	// Release releases the derived targets in state, the GPU resources of its camera and instances, and the backend.
	//
	// Parameters:
	//   - state: the render state to tear down
	Release(state *RenderState)
}

var _ Renderer = &renderer{}

// NewRenderer creates a Renderer. Without WithFrameSource the frame source is PlainSurface over surfaces.
//
// Parameters:
//   - surfaces: the surface manager
//   - backend: the GPU backend
//   - options: functional options to configure the renderer
//
// Returns:
//   - Renderer: the new renderer
func NewRenderer(surfaces SurfaceManager, backend RendererBackend, options ...RendererBuilderOption) Renderer {
	r := &renderer{
		mu:       &sync.Mutex{},
		surfaces: surfaces,
		backend:  backend,
	}
	for _, opt := range options {
		opt(r)
	}
	if r.source == nil {
		r.source = PlainSurface(surfaces)
	}
	r.frameRenderer = NewFrameRenderer(backend, r.observer)
	return r
}

func (r *renderer) Init(state *RenderState, width, height uint32) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.surfaces.Configure(width, height); err != nil {
		return err
	}
	cfg, _ := r.surfaces.Config()

	err := r.backend.InitStaticResources(
		state.Camera.BindGroupProvider(),
		state.Instances.BindGroupProvider(),
		state.Instances.Count(),
		cfg.Format,
	)
	if err != nil {
		return fmt.Errorf("static resources: %w", err)
	}

	targets, err := r.backend.BuildDerivedTargets(width, height, cfg.Format)
	if err != nil {
		return fmt.Errorf("derived targets: %w", err)
	}
	state.Targets = targets
	state.Camera.SetAspect(float32(width) / float32(height))
	r.initialized = true

	logger.Info("renderer initialized",
		"width", width, "height", height,
		"source", r.source.Kind(),
		"instances", state.Instances.Count(),
	)
	return nil
}

func (r *renderer) Resize(state *RenderState, width, height uint32) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if width == 0 || height == 0 {
		logger.Debug("ignoring zero-size resize", "width", width, "height", height)
		return nil
	}
	if err := r.surfaces.Configure(width, height); err != nil {
		return err
	}
	if state.Targets != nil {
		if w, h := state.Targets.Size(); w == width && h == height {
			return nil
		}
	}

	return r.rebuildTargets(state, width, height)
}

// rebuildTargets builds a new generation at the given size, swaps it into state, releases the
// previous generation and updates the camera aspect. On a failed build state is left untouched.
func (r *renderer) rebuildTargets(state *RenderState, width, height uint32) error {
	cfg, _ := r.surfaces.Config()
	next, err := r.backend.BuildDerivedTargets(width, height, cfg.Format)
	if err != nil {
		return fmt.Errorf("rebuild derived targets: %w", err)
	}

	old := state.Targets
	state.Targets = next
	if old != nil {
		r.backend.ReleaseDerivedTargets(old)
	}
	state.Camera.SetAspect(float32(width) / float32(height))

	logger.Debug("derived targets rebuilt", "width", width, "height", height, "generation", next.Generation)
	return nil
}

// validateTargets rebuilds the derived targets when they no longer match the configured surface,
// which happens after a resize whose rebuild failed.
func (r *renderer) validateTargets(state *RenderState) error {
	cfg, ok := r.surfaces.Config()
	if !ok {
		return nil
	}
	if w, h := state.Targets.Size(); w == cfg.Width && h == cfg.Height {
		return nil
	}
	logger.Debug("derived targets out of date", "surface_width", cfg.Width, "surface_height", cfg.Height)
	return r.rebuildTargets(state, cfg.Width, cfg.Height)
}

func (r *renderer) Tick(state *RenderState, now time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.initialized || state.Targets == nil {
		return false, ErrNotInitialized
	}
	if err := r.validateTargets(state); err != nil {
		return false, err
	}

	frame, ok, err := r.source.BeginFrame()
	if err != nil {
		return false, err
	}
	if !ok {
		state.Skipped++
		return false, nil
	}

	state.Elapsed = state.ElapsedAt(now)
	state.Camera.Update(state.Elapsed)
	state.Instances.Update(state.Elapsed)

	writes := []bind_group_provider.BufferWrite{
		state.Camera.StagedWrite(),
		state.Instances.StagedWrite(),
	}
	if err := r.backend.WriteBuffers(writes); err != nil {
		return false, errors.Join(fmt.Errorf("upload: %w", err), r.source.Abort(frame))
	}

	presented, err := r.frameRenderer.Render(r.source, frame, state.Targets, state.Instances.Count())
	if presented {
		state.Rendered++
	}
	return presented, err
}

func (r *renderer) SurfaceManager() SurfaceManager {
	return r.surfaces
}

func (r *renderer) FrameSource() FrameSource {
	return r.source
}

func (r *renderer) FrameRenderer() FrameRenderer {
	return r.frameRenderer
}

func (r *renderer) Release(state *RenderState) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if state != nil {
		if state.Targets != nil {
			r.backend.ReleaseDerivedTargets(state.Targets)
			state.Targets = nil
		}
		if state.Camera != nil {
			state.Camera.BindGroupProvider().Release()
		}
		if state.Instances != nil {
			state.Instances.Release()
		}
	}
	r.backend.Release()
	r.initialized = false
}
