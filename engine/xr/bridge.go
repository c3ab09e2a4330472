// Package xr defines the per-frame contract between the renderer and a stereo XR runtime.
//
// A runtime is consulted twice per tick: PreFrame before any pass is recorded, and PostFrame
// after the frame has been submitted and presented. Session and view negotiation happen
// inside the runtime and are not part of this contract.
package xr

import (
	"errors"
	"time"

	"github.com/Carmen-Shannon/oxy-xr/common"
)

var (
	// ErrTransient marks a recoverable runtime failure, such as a missed pose prediction.
	// The tick is considered complete and rendering continues.
	ErrTransient = errors.New("xr: transient runtime failure")

	// ErrSessionLost marks the end of the XR session. It is fatal for the frame loop.
	ErrSessionLost = errors.New("xr: session lost")
)

// Eye indexes the two stereo views.
type Eye int

const (
	EyeLeft Eye = iota
	EyeRight
)

// Pose is a rigid transform predicted for a view at display time.
type Pose struct {
	Position    common.Vec3
	Orientation common.Quat
}

// Fov holds the four half-angles (radians) of an asymmetric view frustum.
type Fov struct {
	AngleLeft, AngleRight, AngleUp, AngleDown float32
}

// View is the predicted pose and field of view of one eye.
type View struct {
	Pose Pose
	Fov  Fov
}

// FrameState is the per-tick timing and pose prediction handed out by PreFrame and returned
// through PostFrame once the frame has been presented.
type FrameState struct {
	// Index counts frames offered by the runtime, starting at 0.
	Index uint64
	// PredictedDisplayTime is when the frame is expected to reach the display, relative to session start.
	PredictedDisplayTime time.Duration
	// PredictedDisplayPeriod is the expected interval between displayed frames.
	PredictedDisplayPeriod time.Duration
	// ShouldRender is false when the runtime wants the frame submitted without content.
	ShouldRender bool
	Views        [2]View
}

// Bridge is the hook pair an XR runtime exposes to the frame loop.
type Bridge interface {
	// PreFrame waits for and begins the runtime's next frame.
	//
	// Returns:
	//   - FrameState: timing and pose prediction for this frame
	//   - bool: false when the runtime has no frame to offer this tick and rendering should be skipped
	//   - error: ErrTransient or ErrSessionLost (possibly wrapped)
	PreFrame() (FrameState, bool, error)

	// PostFrame hands the completed frame back to the runtime.
	//
	// Parameters:
	//   - state: the FrameState returned by the matching PreFrame
	//
	// Returns:
	//   - error: ErrTransient or ErrSessionLost (possibly wrapped)
	PostFrame(state FrameState) error
}

// IsFatal reports whether err ends the XR session rather than a single frame.
func IsFatal(err error) bool {
	return errors.Is(err, ErrSessionLost)
}
