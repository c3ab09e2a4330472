package renderer

import (
	"time"

	"github.com/Carmen-Shannon/oxy-xr/engine/camera"
	"github.com/Carmen-Shannon/oxy-xr/engine/renderer/animator"
)

// RenderState is everything that changes between ticks. The frame driver owns the single instance
// and passes it to the Renderer explicitly; nothing else holds on to it.
type RenderState struct {
	Camera    camera.Camera
	Instances animator.Animator

	// Targets is the current generation of size-dependent resources. Nil before Init.
	Targets *DerivedTargets

	// Start is the wall-clock origin of all animation.
	Start time.Time
	// Elapsed is the time since Start, in seconds, as of the last tick.
	Elapsed float32

	// Rendered counts ticks that were submitted and presented.
	Rendered uint64
	// Skipped counts ticks that had no frame to render.
	Skipped uint64
}

// NewRenderState creates a RenderState with no targets yet.
//
// Parameters:
//   - cam: the scene camera
//   - instances: the instance animator
//   - start: the animation origin
//
// Returns:
//   - *RenderState: the new state
func NewRenderState(cam camera.Camera, instances animator.Animator, start time.Time) *RenderState {
	return &RenderState{
		Camera:    cam,
		Instances: instances,
		Start:     start,
	}
}

// ElapsedAt returns the seconds between Start and now.
func (s *RenderState) ElapsedAt(now time.Time) float32 {
	return float32(now.Sub(s.Start).Seconds())
}
