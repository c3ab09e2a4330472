package animator

import (
	"github.com/Carmen-Shannon/oxy-xr/common"
	"github.com/chewxy/math32"
)

// AnimatorBackendType identifies the motion applied by an Animator each tick.
type AnimatorBackendType int

const (
	// BackendTypeStatic leaves every pose untouched.
	BackendTypeStatic AnimatorBackendType = iota

	// BackendTypeSpin replaces entry 0's rotation with a turn about +Y by elapsed / π radians.
	BackendTypeSpin
)

// AnimatorBackend computes poses from elapsed time. Backends mutate the slice in place and
// must not change its length.
type AnimatorBackend interface {
	// Animate updates poses for the given time since start.
	//
	// Parameters:
	//   - poses: the ordered pose list, owned by the Animator
	//   - elapsed: seconds since the frame driver started
	Animate(poses []InstancePose, elapsed float32)
}

type staticAnimatorBackend struct{}

func (staticAnimatorBackend) Animate([]InstancePose, float32) {}

// spinAnimatorBackend turns one instance about the world-up axis.
type spinAnimatorBackend struct {
	index   int
	divisor float32
}

func (s spinAnimatorBackend) Animate(poses []InstancePose, elapsed float32) {
	if s.index >= len(poses) {
		return
	}
	poses[s.index].Rotation = common.QuatRotationY(elapsed / s.divisor)
}

// newAnimatorBackend returns the backend for a type. Unknown types fall back to static.
func newAnimatorBackend(t AnimatorBackendType) AnimatorBackend {
	switch t {
	case BackendTypeSpin:
		return spinAnimatorBackend{index: 0, divisor: math32.Pi}
	default:
		return staticAnimatorBackend{}
	}
}
