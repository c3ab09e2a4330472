package bind_group_provider

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewProviderIsEmpty(t *testing.T) {
	p := NewBindGroupProvider("camera_0")

	assert.Equal(t, "camera_0", p.Label())
	assert.Nil(t, p.BindGroup())
	assert.Nil(t, p.BindGroupLayout())
	assert.Nil(t, p.Buffer(0))
	assert.Nil(t, p.TextureView(0))
	assert.Nil(t, p.Sampler(1))
	assert.Nil(t, p.VertexBuffer())
	assert.Zero(t, p.VertexCount())
}

func TestReleaseUninitializedProvider(t *testing.T) {
	p := NewBindGroupProvider("blit", WithTextureView(0, nil), WithSampler(1, nil))
	p.SetVertexBuffer(nil, 6)
	assert.NotPanics(t, p.Release)
	assert.NotPanics(t, p.Release)
}
