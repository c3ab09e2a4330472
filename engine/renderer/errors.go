package renderer

import (
	"errors"
	"strings"

	"github.com/Carmen-Shannon/oxy-xr/engine/xr"
)

var (
	// ErrNoCompatibleAdapter is returned when no adapter can present to the window surface.
	ErrNoCompatibleAdapter = errors.New("renderer: no compatible adapter")

	// ErrDeviceCreationFailed is returned when the adapter refuses the requested features or limits.
	ErrDeviceCreationFailed = errors.New("renderer: device creation failed")

	// ErrZeroSize is returned when the surface is configured with a zero dimension.
	ErrZeroSize = errors.New("renderer: zero surface size")

	// ErrAcquireExhausted is returned when acquiring a surface frame fails again after a reconfigure.
	ErrAcquireExhausted = errors.New("renderer: surface acquire failed after reconfigure")

	// ErrSurfaceTimeout is returned when the presentation engine did not hand out a frame in time.
	ErrSurfaceTimeout = errors.New("renderer: surface acquire timed out")

	// ErrSurfaceOutdated is returned when the surface no longer matches its configuration.
	ErrSurfaceOutdated = errors.New("renderer: surface outdated")

	// ErrSurfaceLost is returned when the surface must be reconfigured from scratch.
	ErrSurfaceLost = errors.New("renderer: surface lost")

	// ErrOutOfMemory is returned when the device cannot allocate a surface frame.
	ErrOutOfMemory = errors.New("renderer: out of memory")

	// ErrNotInitialized is returned when a frame is requested before Init succeeded.
	ErrNotInitialized = errors.New("renderer: not initialized")

	// ErrInvalidTransition is returned when a pass is recorded out of order.
	ErrInvalidTransition = errors.New("renderer: invalid frame state transition")
)

// IsFatal reports whether err must stop the frame loop.
// Out of memory, a failed re-acquire and a lost XR session are fatal; everything else is
// logged and the loop moves on to the next tick.
//
// Parameters:
//   - err: the error returned from a tick
//
// Returns:
//   - bool: true if the loop must stop
func IsFatal(err error) bool {
	return errors.Is(err, ErrOutOfMemory) ||
		errors.Is(err, ErrAcquireExhausted) ||
		errors.Is(err, ErrDeviceCreationFailed) ||
		xr.IsFatal(err)
}

// classifyAcquireError maps an error from GetCurrentTexture to one of the surface sentinels.
// The native layer reports the surface status only through the error text.
// Anything unrecognized is treated as outdated so the caller reconfigures once.
func classifyAcquireError(err error) error {
	if err == nil {
		return nil
	}
	for _, sentinel := range []error{ErrSurfaceTimeout, ErrSurfaceOutdated, ErrSurfaceLost, ErrOutOfMemory} {
		if errors.Is(err, sentinel) {
			return err
		}
	}

	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "timeout"), strings.Contains(msg, "timed out"):
		return errors.Join(ErrSurfaceTimeout, err)
	case strings.Contains(msg, "memory"):
		return errors.Join(ErrOutOfMemory, err)
	case strings.Contains(msg, "lost"):
		return errors.Join(ErrSurfaceLost, err)
	default:
		return errors.Join(ErrSurfaceOutdated, err)
	}
}
