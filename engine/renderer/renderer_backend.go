package renderer

import (
	"github.com/Carmen-Shannon/oxy-xr/engine/renderer/bind_group_provider"
	"github.com/cogentcore/webgpu/wgpu"
)

// RendererBackend is the GPU side of the renderer. The frame state machine and the resize protocol
// talk to the device only through this interface.
type RendererBackend interface {
	// InitStaticResources creates everything that does not depend on the surface size:
	// the scene and blit pipelines, the camera and instance bind groups, the geometry buffers and the blit sampler.
	//
	// Parameters:
	//   - camera: the provider whose binding 0 receives the camera uniform
	//   - instances: the provider whose vertex buffer receives the instance transforms
	//   - instanceCount: the number of instances the instance buffer must hold
	//   - colorFormat: the format of the surface and of the offscreen color target
	//
	// Returns:
	//   - error: if any GPU object could not be created
	InitStaticResources(camera, instances bind_group_provider.BindGroupProvider, instanceCount uint32, colorFormat wgpu.TextureFormat) error

	// BuildDerivedTargets allocates a new generation of depth and color targets and the blit bind group over the new color view.
	//
	// Parameters:
	//   - width: the target width in pixels
	//   - height: the target height in pixels
	//   - colorFormat: the color target format
	//
	// Returns:
	//   - *DerivedTargets: the new generation, owned by the caller
	//   - error: if allocation failed; nothing is leaked
	BuildDerivedTargets(width, height uint32, colorFormat wgpu.TextureFormat) (*DerivedTargets, error)

	// ReleaseDerivedTargets releases a generation that is no longer current.
	//
	// Parameters:
	//   - targets: the generation to release
	ReleaseDerivedTargets(targets *DerivedTargets)

	// WriteBuffers copies each staged write into its provider's buffer.
	//
	// Parameters:
	//   - writes: the staged writes
	//
	// Returns:
	//   - error: if a write names a buffer that does not exist
	WriteBuffers(writes []bind_group_provider.BufferWrite) error

	// BeginCommands creates the command encoder for one tick.
	BeginCommands() error

	// RecordScenePass records the scene pass into the color and depth targets.
	//
	// Parameters:
	//   - targets: the current generation
	//   - instanceCount: the number of instances to draw
	RecordScenePass(targets *DerivedTargets, instanceCount uint32) error

	// RecordBlitPass records the blit of the color target onto the acquired frame.
	//
	// Parameters:
	//   - targets: the current generation
	//   - frame: the acquired surface frame
	RecordBlitPass(targets *DerivedTargets, frame *SurfaceFrame) error

	// Submit finishes the encoder and submits it in a single queue submission.
	Submit() error

	// Abort drops the encoder without submitting. It is a no-op without an open encoder.
	Abort()

	// Release releases every static resource.
	Release()
}
