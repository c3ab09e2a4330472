package animator

import (
	"sync"

	"github.com/Carmen-Shannon/oxy-xr/engine/renderer/bind_group_provider"
)

// InstanceBinding is the provider binding that holds the instance transform buffer.
// The same buffer is bound as vertex buffer slot 1 in the scene pass.
const InstanceBinding = 0

// animator is the implementation of the Animator interface.
type animator struct {
	mu *sync.Mutex

	backendType AnimatorBackendType
	backend     AnimatorBackend

	poses []InstancePose

	provider bind_group_provider.BindGroupProvider

	// staging is reused every tick; queue.WriteBuffer copies before returning.
	staging []byte
}

// Animator owns the ordered instance poses and produces their GPU transforms each tick.
//
// The pose list has a fixed length for the animator's lifetime. Every tick the whole list is
// serialized and staged as one contiguous write, even when only one entry changed.
type Animator interface {
	// Count returns the number of instances. It is the instance count of the scene draw.
	//
	// Returns:
	//   - uint32: the number of poses
	Count() uint32

	// BackendType returns the motion this animator applies.
	//
	// Returns:
	//   - AnimatorBackendType: the backend type
	BackendType() AnimatorBackendType

	// Poses returns a copy of the current poses.
	//
	// Returns:
	//   - []InstancePose: the poses in draw order
	Poses() []InstancePose

	// Update advances the poses to the given time since start.
	//
	// Parameters:
	//   - elapsed: seconds since the frame driver started
	Update(elapsed float32)

	// Transforms returns the current model matrix of every instance, in draw order.
	//
	// Returns:
	//   - []GPUInstanceData: one transform per pose
	Transforms() []GPUInstanceData

	// Marshal serializes every transform back to back, 64 bytes per instance.
	//
	// Returns:
	//   - []byte: the instance buffer contents
	Marshal() []byte

	// StagedWrite returns the full-buffer upload for this tick.
	//
	// Returns:
	//   - bind_group_provider.BufferWrite: a write of Marshal() at offset 0 to InstanceBinding
	StagedWrite() bind_group_provider.BufferWrite

	// BindGroupProvider returns the provider that holds the instance buffer.
	//
	// Returns:
	//   - bind_group_provider.BindGroupProvider: the instance provider
	BindGroupProvider() bind_group_provider.BindGroupProvider

	// Release frees the instance buffer.
	Release()
}

var _ Animator = &animator{}

// NewAnimator creates an Animator over the default poses with the spin backend.
//
// Parameters:
//   - options: functional options to configure the animator
//
// Returns:
//   - Animator: the new animator
func NewAnimator(options ...AnimatorBuilderOption) Animator {
	a := &animator{
		mu:          &sync.Mutex{},
		backendType: BackendTypeSpin,
		poses:       DefaultPoses(),
		provider:    bind_group_provider.NewBindGroupProvider("instances"),
	}
	for _, opt := range options {
		opt(a)
	}
	a.backend = newAnimatorBackend(a.backendType)
	a.staging = make([]byte, len(a.poses)*(&GPUInstanceData{}).Size())
	return a
}

func (a *animator) Count() uint32 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return uint32(len(a.poses))
}

func (a *animator) BackendType() AnimatorBackendType {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.backendType
}

func (a *animator) Poses() []InstancePose {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]InstancePose, len(a.poses))
	copy(out, a.poses)
	return out
}

func (a *animator) Update(elapsed float32) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.backend.Animate(a.poses, elapsed)
}

func (a *animator) Transforms() []GPUInstanceData {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]GPUInstanceData, len(a.poses))
	for i, p := range a.poses {
		out[i] = p.Transform()
	}
	return out
}

func (a *animator) Marshal() []byte {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]byte, len(a.staging))
	a.marshalInto(out)
	return out
}

func (a *animator) StagedWrite() bind_group_provider.BufferWrite {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.marshalInto(a.staging)
	return bind_group_provider.BufferWrite{
		Provider: a.provider,
		Binding:  InstanceBinding,
		Offset:   0,
		Data:     a.staging,
	}
}

func (a *animator) BindGroupProvider() bind_group_provider.BindGroupProvider {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.provider
}

func (a *animator) Release() {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.provider != nil {
		a.provider.Release()
	}
}

// marshalInto must be called with a.mu held.
func (a *animator) marshalInto(buf []byte) {
	for i, p := range a.poses {
		g := p.Transform()
		size := g.Size()
		copy(buf[i*size:], g.Marshal())
	}
}
