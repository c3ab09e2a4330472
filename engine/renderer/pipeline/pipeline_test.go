package pipeline

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-xr/engine/renderer/shader"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSceneDescriptorUsesDepthLess(t *testing.T) {
	s, err := shader.NewSceneShader()
	require.NoError(t, err)

	p := NewPipeline("scene", s, WithDepthTestEnabled(true), WithDepthWriteEnabled(true))
	desc := p.Descriptor(nil, nil, wgpu.TextureFormatBGRA8Unorm)

	assert.Equal(t, "scene Render Pipeline", desc.Label)
	assert.Equal(t, "vs_main", desc.Vertex.EntryPoint)
	assert.Len(t, desc.Vertex.Buffers, 2)
	require.NotNil(t, desc.Fragment)
	assert.Equal(t, "fs_main", desc.Fragment.EntryPoint)
	require.Len(t, desc.Fragment.Targets, 1)
	assert.Equal(t, wgpu.TextureFormatBGRA8Unorm, desc.Fragment.Targets[0].Format)
	assert.Equal(t, wgpu.ColorWriteMaskAll, desc.Fragment.Targets[0].WriteMask)
	assert.Equal(t, uint32(1), desc.Multisample.Count)

	require.NotNil(t, desc.DepthStencil)
	assert.Equal(t, wgpu.TextureFormatDepth32Float, desc.DepthStencil.Format)
	assert.Equal(t, wgpu.CompareFunctionLess, desc.DepthStencil.DepthCompare)
	assert.True(t, desc.DepthStencil.DepthWriteEnabled)
}

func TestBlitDescriptorHasNoDepth(t *testing.T) {
	s, err := shader.NewBlitShader()
	require.NoError(t, err)

	p := NewPipeline("blit", s)
	assert.False(t, p.UsesDepth())
	desc := p.Descriptor(nil, nil, wgpu.TextureFormatRGBA8Unorm)
	assert.Nil(t, desc.DepthStencil)
	assert.Equal(t, wgpu.PrimitiveTopologyTriangleList, desc.Primitive.Topology)
	assert.Equal(t, wgpu.CullModeNone, desc.Primitive.CullMode)
	assert.Nil(t, p.RenderPipeline())
	assert.NotPanics(t, p.Release)
}

func TestWriteOnlyDepthComparesAlways(t *testing.T) {
	s, err := shader.NewSceneShader()
	require.NoError(t, err)

	desc := NewPipeline("scene", s, WithDepthWriteEnabled(true), WithCullMode(wgpu.CullModeBack)).
		Descriptor(nil, nil, wgpu.TextureFormatRGBA8Unorm)
	require.NotNil(t, desc.DepthStencil)
	assert.Equal(t, wgpu.CompareFunctionAlways, desc.DepthStencil.DepthCompare)
	assert.Equal(t, wgpu.CullModeBack, desc.Primitive.CullMode)
}

func TestFixedFunctionOptions(t *testing.T) {
	s, err := shader.NewSceneShader()
	require.NoError(t, err)

	desc := NewPipeline("wire", s,
		WithTopology(wgpu.PrimitiveTopologyLineList),
		WithFrontFace(wgpu.FrontFaceCW),
		WithWriteMask(wgpu.ColorWriteMaskRed|wgpu.ColorWriteMaskAlpha),
	).Descriptor(nil, nil, wgpu.TextureFormatRGBA8Unorm)

	assert.Equal(t, wgpu.PrimitiveTopologyLineList, desc.Primitive.Topology)
	assert.Equal(t, wgpu.FrontFaceCW, desc.Primitive.FrontFace)
	assert.Equal(t, wgpu.ColorWriteMaskRed|wgpu.ColorWriteMaskAlpha, desc.Fragment.Targets[0].WriteMask)
	assert.Nil(t, desc.DepthStencil)
}
