package animator

import (
	"github.com/Carmen-Shannon/oxy-xr/engine/renderer/bind_group_provider"
)

// AnimatorBuilderOption is a functional option for configuring an Animator during construction.
type AnimatorBuilderOption func(*animator)

// WithPoses replaces the default poses. The list is copied and its length is fixed from then on.
//
// Parameters:
//   - poses: the poses in draw order
//
// Returns:
//   - AnimatorBuilderOption: a function that applies the poses option to an animator
func WithPoses(poses []InstancePose) AnimatorBuilderOption {
	return func(a *animator) {
		a.poses = make([]InstancePose, len(poses))
		copy(a.poses, poses)
	}
}

// WithBackendType selects the motion applied each tick.
//
// Parameters:
//   - t: the backend type
//
// Returns:
//   - AnimatorBuilderOption: a function that applies the backend option to an animator
func WithBackendType(t AnimatorBackendType) AnimatorBuilderOption {
	return func(a *animator) {
		a.backendType = t
	}
}

// WithBindGroupProvider replaces the default instance provider.
//
// Parameters:
//   - provider: the provider that will hold the instance buffer
//
// Returns:
//   - AnimatorBuilderOption: a function that applies the provider option to an animator
func WithBindGroupProvider(provider bind_group_provider.BindGroupProvider) AnimatorBuilderOption {
	return func(a *animator) {
		a.provider = provider
	}
}
