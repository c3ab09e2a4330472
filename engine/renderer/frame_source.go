package renderer

import (
	"errors"

	"github.com/Carmen-Shannon/oxy-xr/engine/logger"
	"github.com/Carmen-Shannon/oxy-xr/engine/xr"
)

// FrameSourceKind identifies a FrameSource variant.
type FrameSourceKind int

const (
	FrameSourcePlain FrameSourceKind = iota
	FrameSourceStereoXR
)

func (k FrameSourceKind) String() string {
	switch k {
	case FrameSourcePlain:
		return "plain"
	case FrameSourceStereoXR:
		return "stereo-xr"
	default:
		return "unknown"
	}
}

// Frame is what a FrameSource hands the renderer for one tick.
type Frame struct {
	// Surface is the acquired window image the blit pass draws into.
	Surface *SurfaceFrame
	// XR is the runtime frame state, nil for a plain surface.
	XR *xr.FrameState
}

// FrameSource yields one presentable frame per tick and completes it after submission.
// The variant is chosen once at startup.
type FrameSource interface {
	// Kind returns which variant this source is.
	Kind() FrameSourceKind

	// BeginFrame obtains the frame for this tick.
	//
	// Returns:
	//   - Frame: the frame to render into
	//   - bool: false when there is nothing to render this tick
	//   - error: a failure that ends the tick
	BeginFrame() (Frame, bool, error)

	// EndFrame presents the frame and completes any hook that BeginFrame opened.
	//
	// Parameters:
	//   - frame: the frame returned by BeginFrame
	EndFrame(frame Frame) error

	// Abort releases a frame that will not be presented and completes any open hook.
	//
	// Parameters:
	//   - frame: the frame returned by BeginFrame
	Abort(frame Frame) error
}

type plainSurface struct {
	surfaces SurfaceManager
}

var _ FrameSource = &plainSurface{}

// PlainSurface returns a FrameSource that acquires straight from the window surface.
// A timed out acquire skips the tick.
//
// Parameters:
//   - surfaces: the surface manager to acquire from
//
// Returns:
//   - FrameSource: the plain source
func PlainSurface(surfaces SurfaceManager) FrameSource {
	return &plainSurface{surfaces: surfaces}
}

func (s *plainSurface) Kind() FrameSourceKind {
	return FrameSourcePlain
}

func (s *plainSurface) BeginFrame() (Frame, bool, error) {
	frame, ok, err := acquireOrSkip(s.surfaces)
	return Frame{Surface: frame}, ok, err
}

func (s *plainSurface) EndFrame(frame Frame) error {
	s.surfaces.Present(frame.Surface)
	return nil
}

func (s *plainSurface) Abort(frame Frame) error {
	frame.Surface.Release()
	return nil
}

type stereoXrSurface struct {
	surfaces SurfaceManager
	bridge   xr.Bridge
}

var _ FrameSource = &stereoXrSurface{}

// StereoXrSurface returns a FrameSource that brackets every surface frame with the runtime's hooks:
// PreFrame before the acquire and PostFrame after the present.
// Transient runtime failures are logged and end the tick; a lost session is returned as is.
//
// Parameters:
//   - surfaces: the surface manager to acquire from
//   - bridge: the XR runtime hooks
//
// Returns:
//   - FrameSource: the stereo source
func StereoXrSurface(surfaces SurfaceManager, bridge xr.Bridge) FrameSource {
	return &stereoXrSurface{surfaces: surfaces, bridge: bridge}
}

func (s *stereoXrSurface) Kind() FrameSourceKind {
	return FrameSourceStereoXR
}

func (s *stereoXrSurface) BeginFrame() (Frame, bool, error) {
	state, ok, err := s.bridge.PreFrame()
	if err != nil {
		if errors.Is(err, xr.ErrTransient) {
			logger.Warn("xr pre-frame failed", "err", err)
			return Frame{}, false, nil
		}
		return Frame{}, false, err
	}
	if !ok {
		logger.Debug("xr runtime offered no frame")
		return Frame{}, false, nil
	}
	if !state.ShouldRender {
		logger.Debug("xr runtime asked to skip rendering", "frame", state.Index)
		return Frame{}, false, s.postFrame(state)
	}

	surface, ok, err := acquireOrSkip(s.surfaces)
	if err != nil || !ok {
		return Frame{}, false, errors.Join(err, s.postFrame(state))
	}
	return Frame{Surface: surface, XR: &state}, true, nil
}

func (s *stereoXrSurface) EndFrame(frame Frame) error {
	s.surfaces.Present(frame.Surface)
	if frame.XR == nil {
		return nil
	}
	return s.postFrame(*frame.XR)
}

func (s *stereoXrSurface) Abort(frame Frame) error {
	frame.Surface.Release()
	if frame.XR == nil {
		return nil
	}
	return s.postFrame(*frame.XR)
}

func (s *stereoXrSurface) postFrame(state xr.FrameState) error {
	err := s.bridge.PostFrame(state)
	if errors.Is(err, xr.ErrTransient) {
		logger.Warn("xr post-frame failed", "err", err, "frame", state.Index)
		return nil
	}
	return err
}

// acquireOrSkip acquires a surface frame, turning a timeout into a skipped tick.
func acquireOrSkip(surfaces SurfaceManager) (*SurfaceFrame, bool, error) {
	frame, err := surfaces.AcquireFrame()
	if errors.Is(err, ErrSurfaceTimeout) {
		logger.Debug("surface acquire timed out, skipping tick")
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return frame, true, nil
}
