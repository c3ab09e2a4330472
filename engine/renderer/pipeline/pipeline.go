package pipeline

import (
	"github.com/Carmen-Shannon/oxy-xr/engine/renderer/shader"
	"github.com/cogentcore/webgpu/wgpu"
)

// pipeline is the implementation of the Pipeline interface.
// It holds the render pipeline object together with the fixed-function state used to create it.
type pipeline struct {
	// pipelineKey is the unique identifier for this pipeline, also used as its GPU label
	pipelineKey string

	// shader supplies both entry points, the vertex layouts and the bind group layouts
	shader shader.Shader

	// renderPipeline is nil until the renderer backend creates it
	renderPipeline *wgpu.RenderPipeline

	// Fixed-function state. Toggled with the builder options.

	depthTestEnabled  bool
	depthWriteEnabled bool
	depthFormat       wgpu.TextureFormat
	cullMode          wgpu.CullMode
	topology          wgpu.PrimitiveTopology
	frontFace         wgpu.FrontFace
	writeMask         wgpu.ColorWriteMask
}

// Pipeline describes one render pipeline: its shader and its fixed-function state.
// The renderer backend creates the GPU object from Descriptor and stores it with SetRenderPipeline.
type Pipeline interface {
	// PipelineKey returns the unique key associated with this pipeline.
	//
	// Returns:
	//   - string: the unique key for this pipeline
	PipelineKey() string

	// Shader returns the shader this pipeline is built from.
	//
	// Returns:
	//   - shader.Shader: the shader
	Shader() shader.Shader

	// RenderPipeline returns the created GPU pipeline, or nil before creation.
	//
	// Returns:
	//   - *wgpu.RenderPipeline: the pipeline or nil
	RenderPipeline() *wgpu.RenderPipeline

	// DepthTestEnabled returns whether fragments are tested against the depth attachment with "less".
	//
	// Returns:
	//   - bool: true if depth testing is enabled
	DepthTestEnabled() bool

	// DepthWriteEnabled returns whether passing fragments write depth.
	//
	// Returns:
	//   - bool: true if depth writing is enabled
	DepthWriteEnabled() bool

	// UsesDepth reports whether the pipeline needs a depth attachment at all.
	//
	// Returns:
	//   - bool: true if depth testing or writing is enabled
	UsesDepth() bool

	// Descriptor assembles the creation descriptor for this pipeline.
	//
	// Parameters:
	//   - layout: the pipeline layout built from the shader's bind group layouts
	//   - module: the GPU module created from the shader's source
	//   - colorFormat: the format of the single color target
	//
	// Returns:
	//   - *wgpu.RenderPipelineDescriptor: the descriptor ready for CreateRenderPipeline
	Descriptor(layout *wgpu.PipelineLayout, module *wgpu.ShaderModule, colorFormat wgpu.TextureFormat) *wgpu.RenderPipelineDescriptor

	// SetRenderPipeline stores the created GPU pipeline.
	//
	// Parameters:
	//   - p: the WebGPU render pipeline to set
	SetRenderPipeline(p *wgpu.RenderPipeline)

	// Release releases the GPU pipeline if it was created.
	Release()
}

var _ Pipeline = &pipeline{}

// NewPipeline creates a new Pipeline with triangle-list topology, counter-clockwise front faces,
// no culling, a full color write mask and no depth.
//
// Parameters:
//   - key: the unique key for this pipeline
//   - s: the shader supplying both entry points
//   - options: functional options to configure the pipeline
//
// Returns:
//   - Pipeline: the new pipeline
func NewPipeline(key string, s shader.Shader, options ...PipelineBuilderOption) Pipeline {
	p := &pipeline{
		pipelineKey: key,
		shader:      s,
		depthFormat: wgpu.TextureFormatDepth32Float,
		cullMode:    wgpu.CullModeNone,
		topology:    wgpu.PrimitiveTopologyTriangleList,
		frontFace:   wgpu.FrontFaceCCW,
		writeMask:   wgpu.ColorWriteMaskAll,
	}
	for _, opt := range options {
		opt(p)
	}
	return p
}

func (p *pipeline) PipelineKey() string {
	return p.pipelineKey
}

func (p *pipeline) Shader() shader.Shader {
	return p.shader
}

func (p *pipeline) RenderPipeline() *wgpu.RenderPipeline {
	return p.renderPipeline
}

func (p *pipeline) DepthTestEnabled() bool {
	return p.depthTestEnabled
}

func (p *pipeline) DepthWriteEnabled() bool {
	return p.depthWriteEnabled
}

func (p *pipeline) UsesDepth() bool {
	return p.depthTestEnabled || p.depthWriteEnabled
}

func (p *pipeline) Descriptor(layout *wgpu.PipelineLayout, module *wgpu.ShaderModule, colorFormat wgpu.TextureFormat) *wgpu.RenderPipelineDescriptor {
	desc := &wgpu.RenderPipelineDescriptor{
		Label:  p.pipelineKey + " Render Pipeline",
		Layout: layout,
		Vertex: wgpu.VertexState{
			Module:     module,
			EntryPoint: p.shader.VertexEntryPoint(),
			Buffers:    p.shader.VertexLayouts(),
		},
		Fragment: &wgpu.FragmentState{
			Module:     module,
			EntryPoint: p.shader.FragmentEntryPoint(),
			Targets: []wgpu.ColorTargetState{{
				Format:    colorFormat,
				WriteMask: p.writeMask,
			}},
		},
		Primitive: wgpu.PrimitiveState{
			Topology:  p.topology,
			FrontFace: p.frontFace,
			CullMode:  p.cullMode,
		},
		Multisample: wgpu.MultisampleState{
			Count: 1,
			Mask:  0xFFFFFFFF,
		},
	}
	if p.UsesDepth() {
		depthCompare := wgpu.CompareFunctionLess
		if !p.depthTestEnabled {
			depthCompare = wgpu.CompareFunctionAlways
		}
		desc.DepthStencil = &wgpu.DepthStencilState{
			Format:            p.depthFormat,
			DepthWriteEnabled: p.depthWriteEnabled,
			DepthCompare:      depthCompare,
			StencilFront: wgpu.StencilFaceState{
				Compare: wgpu.CompareFunctionAlways,
			},
			StencilBack: wgpu.StencilFaceState{
				Compare: wgpu.CompareFunctionAlways,
			},
		}
	}
	return desc
}

func (p *pipeline) SetRenderPipeline(rp *wgpu.RenderPipeline) {
	p.renderPipeline = rp
}

func (p *pipeline) Release() {
	if p.renderPipeline != nil {
		p.renderPipeline.Release()
		p.renderPipeline = nil
	}
}
