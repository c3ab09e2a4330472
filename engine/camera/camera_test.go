package camera

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-xr/common"
	"github.com/Carmen-Shannon/oxy-xr/engine/renderer/bind_group_provider"
	"github.com/chewxy/math32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCameraDefaults(t *testing.T) {
	c := NewCamera()

	assert.Equal(t, common.Vec3{}, c.Eye())
	assert.Equal(t, common.Vec3{Z: 1}, c.Target())
	assert.Equal(t, common.UnitY, c.Up())
	assert.InDelta(t, math32.Pi/2, c.Fov(), 1e-6)
	assert.InDelta(t, 0.05, c.Near(), 1e-6)
	assert.InDelta(t, 1000, c.Far(), 1e-3)
	assert.Nil(t, c.Controller())
	require.NotNil(t, c.BindGroupProvider())
	assert.Contains(t, c.BindGroupProvider().Label(), "camera_")
}

func TestCameraOptions(t *testing.T) {
	provider := bind_group_provider.NewBindGroupProvider("shared_camera")
	c := NewCamera(
		WithUp(0, 0, 1),
		WithFov(math32.Pi/3),
		WithNear(0.5),
		WithFar(50),
		WithBindGroupProvider(provider),
	)

	assert.Equal(t, common.Vec3{Z: 1}, c.Up())
	assert.InDelta(t, math32.Pi/3, c.Fov(), 1e-6)
	assert.InDelta(t, 0.5, c.Near(), 1e-6)
	assert.InDelta(t, 50, c.Far(), 1e-6)
	assert.Same(t, provider, c.BindGroupProvider())
	assert.Equal(t, provider, c.StagedWrite().Provider)

	// near and far planes land on the ends of the [0, 1] depth range
	proj := c.ProjectionMatrix()
	near := common.TransformPoint(proj[:], common.Vec3{Z: -0.5})
	far := common.TransformPoint(proj[:], common.Vec3{Z: -50})
	assert.InDelta(t, 0, near[2]/near[3], 1e-5)
	assert.InDelta(t, 1, far[2]/far[3], 1e-5)
}

func TestProviderLabelsAreUnique(t *testing.T) {
	a := NewCamera()
	b := NewCamera()
	assert.NotEqual(t, a.BindGroupProvider().Label(), b.BindGroupProvider().Label())
}

func TestViewProjectionCentersTarget(t *testing.T) {
	c := NewCamera(WithEye(0, 0, -1), WithTarget(0, 0, 1), WithAspect(1))

	vp := c.ViewProjectionMatrix()
	clip := common.TransformPoint(vp[:], common.Vec3{Z: 1})
	require.Greater(t, clip[3], float32(0))

	assert.InDelta(t, 0, clip[0]/clip[3], 1e-5)
	assert.InDelta(t, 0, clip[1]/clip[3], 1e-5)
	depth := clip[2] / clip[3]
	assert.GreaterOrEqual(t, depth, float32(0))
	assert.LessOrEqual(t, depth, float32(1))
}

func TestViewProjectionIsNotCached(t *testing.T) {
	c := NewCamera(WithAspect(1))
	before := c.ViewProjectionMatrix()

	c.SetAspect(2)
	afterAspect := c.ViewProjectionMatrix()
	assert.NotEqual(t, before, afterAspect)
	assert.InDelta(t, before[0]/2, afterAspect[0], 1e-6)

	c.SetEye(common.Vec3{Z: -2})
	assert.NotEqual(t, afterAspect, c.ViewProjectionMatrix())
}

func TestOscillatingControllerMovesEyeZ(t *testing.T) {
	ctrl := NewOscillatingController()
	c := NewCamera(WithEye(0.5, 0.25, 7), WithController(ctrl))

	tests := []struct {
		elapsed float32
		wantZ   float32
	}{
		{0, 0},
		{math32.Pi / 2, -1},
		{math32.Pi, -2},
		{2 * math32.Pi, 0},
	}
	for _, tt := range tests {
		c.Update(tt.elapsed)
		eye := c.Eye()
		assert.InDelta(t, tt.wantZ, eye.Z, 1e-5, "elapsed %v", tt.elapsed)
		assert.Equal(t, float32(0.5), eye.X)
		assert.Equal(t, float32(0.25), eye.Y)
	}
	assert.Equal(t, common.Vec3{Z: 1}, c.Target())
}

func TestOscillatingControllerOptions(t *testing.T) {
	ctrl := NewOscillatingController(WithAmplitude(3), WithFrequency(2), WithOffset(1))
	assert.Equal(t, float32(3), ctrl.Amplitude())
	assert.Equal(t, float32(2), ctrl.Frequency())
	assert.Equal(t, float32(1), ctrl.Offset())

	c := NewCamera()
	ctrl.Update(c, math32.Pi/2)
	assert.InDelta(t, -2, c.Eye().Z, 1e-5)
}

func TestUpdateWithoutController(t *testing.T) {
	c := NewCamera(WithEye(0, 0, 4))
	c.Update(1)
	assert.Equal(t, float32(4), c.Eye().Z)
}

func TestUniformMarshal(t *testing.T) {
	c := NewCamera(WithEye(0, 0, -1))
	u := c.Uniform()
	assert.Equal(t, 64, u.Size())

	buf := u.Marshal()
	require.Len(t, buf, 64)
	vp := c.ViewProjectionMatrix()
	assert.Equal(t, vp, u.ViewProj)
	assert.Equal(t, common.SliceToBytes(vp[:]), buf)
}

func TestStagedWriteTargetsUniformBinding(t *testing.T) {
	c := NewCamera(WithEye(0, 0, -1))
	w := c.StagedWrite()
	assert.Same(t, c.BindGroupProvider(), w.Provider)
	assert.Equal(t, UniformBinding, w.Binding)
	assert.Equal(t, uint64(0), w.Offset)
	vp := c.ViewProjectionMatrix()
	assert.Equal(t, common.SliceToBytes(vp[:]), w.Data)
}
