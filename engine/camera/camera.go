package camera

import (
	"strconv"
	"sync"
	"sync/atomic"

	"github.com/Carmen-Shannon/oxy-xr/common"
	"github.com/Carmen-Shannon/oxy-xr/engine/renderer/bind_group_provider"
	"github.com/chewxy/math32"
)

// UniformBinding is the provider binding that holds the view-projection uniform buffer.
const UniformBinding = 0

// cameraCount is an atomic counter used to generate unique bind group provider names for each camera instance.
var cameraCount atomic.Uint64

type cameraImpl struct {
	mu *sync.Mutex

	eye    common.Vec3
	target common.Vec3
	up     common.Vec3

	fov    float32
	aspect float32
	near   float32
	far    float32

	controller        CameraController
	bindGroupProvider bind_group_provider.BindGroupProvider
}

// Camera defines the interface for the camera.
// The camera holds a look-at pose and perspective settings. Matrices are computed on demand
// from the current fields and are never cached, so a mutated eye or aspect is visible immediately.
type Camera interface {
	// Eye returns the world-space eye position.
	//
	// Returns:
	//   - common.Vec3: the eye position
	Eye() common.Vec3

	// Target returns the world-space look-at point.
	//
	// Returns:
	//   - common.Vec3: the target position
	Target() common.Vec3

	// Up returns the world-space up vector.
	//
	// Returns:
	//   - common.Vec3: the up vector
	Up() common.Vec3

	// Fov returns the vertical field of view in radians.
	//
	// Returns:
	//   - float32: field of view in radians
	Fov() float32

	// Aspect returns the aspect ratio (width / height).
	//
	// Returns:
	//   - float32: the aspect ratio
	Aspect() float32

	// Near returns the near clipping plane distance.
	//
	// Returns:
	//   - float32: near plane distance
	Near() float32

	// Far returns the far clipping plane distance.
	//
	// Returns:
	//   - float32: far plane distance
	Far() float32

	// ViewMatrix returns the right-handed look-at matrix as 16 floats (column-major).
	//
	// Returns:
	//   - [16]float32: the view matrix
	ViewMatrix() [16]float32

	// ProjectionMatrix returns the right-handed perspective matrix as 16 floats (column-major).
	// Depth maps to [0, 1].
	//
	// Returns:
	//   - [16]float32: the projection matrix
	ProjectionMatrix() [16]float32

	// ViewProjectionMatrix returns projection × view as 16 floats (column-major).
	//
	// Returns:
	//   - [16]float32: the combined view-projection matrix
	ViewProjectionMatrix() [16]float32

	// Uniform returns the GPU uniform for the current view-projection matrix.
	//
	// Returns:
	//   - GPUCameraUniform: the uniform ready to marshal
	Uniform() GPUCameraUniform

	// StagedWrite marshals the current uniform into a whole-buffer write for the camera's provider.
	//
	// Returns:
	//   - bind_group_provider.BufferWrite: the staged write
	StagedWrite() bind_group_provider.BufferWrite

	// Controller returns the attached CameraController, or nil.
	//
	// Returns:
	//   - CameraController: the attached controller or nil
	Controller() CameraController

	// BindGroupProvider returns the camera's bind group provider for GPU resources.
	//
	// Returns:
	//   - bind_group_provider.BindGroupProvider: the bind group provider
	BindGroupProvider() bind_group_provider.BindGroupProvider

	// Update hands the camera to its controller with the time since start.
	// If no controller is attached, this method does nothing.
	//
	// Parameters:
	//   - elapsed: seconds since the frame driver started
	Update(elapsed float32)

	// SetEye sets the world-space eye position.
	//
	// Parameters:
	//   - eye: the new eye position
	SetEye(eye common.Vec3)

	// SetAspect sets the aspect ratio (width / height).
	//
	// Parameters:
	//   - aspect: the aspect ratio
	SetAspect(aspect float32)

	// SetController attaches a CameraController to the camera.
	//
	// Parameters:
	//   - ctrl: the controller to attach
	SetController(ctrl CameraController)

	// SetBindGroupProvider sets the camera's bind group provider.
	//
	// Parameters:
	//   - provider: the bind group provider to set
	SetBindGroupProvider(provider bind_group_provider.BindGroupProvider)
}

var _ Camera = &cameraImpl{}

// NewCamera creates a Camera at the origin looking down +Z with +Y up,
// a 90° vertical field of view, near 0.05 and far 1000.
//
// Parameters:
//   - options: functional options to configure the camera
//
// Returns:
//   - Camera: the newly created camera
func NewCamera(options ...CameraBuilderOption) Camera {
	c := &cameraImpl{
		mu:     &sync.Mutex{},
		target: common.Vec3{Z: 1},
		up:     common.UnitY,
		fov:    math32.Pi / 2,
		aspect: 1.0,
		near:   0.05,
		far:    1000.0,
		bindGroupProvider: bind_group_provider.NewBindGroupProvider(
			"camera_" + strconv.FormatUint(cameraCount.Add(1)-1, 10),
		),
	}
	for _, option := range options {
		option(c)
	}
	return c
}

func (c *cameraImpl) Eye() common.Vec3 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.eye
}

func (c *cameraImpl) Target() common.Vec3 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.target
}

func (c *cameraImpl) Up() common.Vec3 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.up
}

func (c *cameraImpl) Fov() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.fov
}

func (c *cameraImpl) Aspect() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.aspect
}

func (c *cameraImpl) Near() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.near
}

func (c *cameraImpl) Far() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.far
}

func (c *cameraImpl) ViewMatrix() [16]float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.view()
}

func (c *cameraImpl) ProjectionMatrix() [16]float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.projection()
}

func (c *cameraImpl) ViewProjectionMatrix() [16]float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	view := c.view()
	proj := c.projection()
	var vp [16]float32
	common.Mul4(vp[:], proj[:], view[:])
	return vp
}

func (c *cameraImpl) Uniform() GPUCameraUniform {
	return GPUCameraUniform{ViewProj: c.ViewProjectionMatrix()}
}

func (c *cameraImpl) StagedWrite() bind_group_provider.BufferWrite {
	u := c.Uniform()
	return bind_group_provider.BufferWrite{
		Provider: c.BindGroupProvider(),
		Binding:  UniformBinding,
		Offset:   0,
		Data:     u.Marshal(),
	}
}

func (c *cameraImpl) Controller() CameraController {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.controller
}

func (c *cameraImpl) BindGroupProvider() bind_group_provider.BindGroupProvider {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.bindGroupProvider
}

func (c *cameraImpl) Update(elapsed float32) {
	// The controller writes back through the setters, so the lock is not held here.
	ctrl := c.Controller()
	if ctrl == nil {
		return
	}
	ctrl.Update(c, elapsed)
}

func (c *cameraImpl) SetEye(eye common.Vec3) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.eye = eye
}

func (c *cameraImpl) SetAspect(aspect float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.aspect = aspect
}

func (c *cameraImpl) SetController(ctrl CameraController) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.controller = ctrl
}

func (c *cameraImpl) SetBindGroupProvider(provider bind_group_provider.BindGroupProvider) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.bindGroupProvider = provider
}

// view must be called with c.mu held.
func (c *cameraImpl) view() [16]float32 {
	var m [16]float32
	common.LookAt(m[:], c.eye, c.target, c.up)
	return m
}

// projection must be called with c.mu held.
func (c *cameraImpl) projection() [16]float32 {
	var m [16]float32
	common.Perspective(m[:], c.fov, c.aspect, c.near, c.far)
	return m
}
