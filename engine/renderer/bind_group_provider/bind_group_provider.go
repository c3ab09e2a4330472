package bind_group_provider

import (
	"github.com/cogentcore/webgpu/wgpu"
)

// bindGroupProvider is the unexported implementation of BindGroupProvider.
type bindGroupProvider struct {
	// label is a debug label, also used as the GPU object label prefix.
	label string

	// Owned GPU resources, released by Release.

	// bindGroup is the GPU bind group for this provider, or nil before the renderer initializes it.
	bindGroup *wgpu.BindGroup
	// buffers holds uniform and instance buffers keyed by binding index.
	buffers map[int]*wgpu.Buffer
	// vertexBuffer is a static per-vertex buffer, or nil for providers without geometry.
	vertexBuffer *wgpu.Buffer
	// vertexCount is the number of vertices stored in vertexBuffer.
	vertexCount uint32

	// Borrowed GPU resources. Their owners release them.

	bindGroupLayout *wgpu.BindGroupLayout
	textureViews    map[int]*wgpu.TextureView
	samplers        map[int]*wgpu.Sampler
}

// BindGroupProvider groups the GPU resources one component binds at draw time.
// The camera, the instance animator, the static geometry and each DerivedTargets generation
// hold one. The renderer backend fills them in; components only read them back for draws
// and buffer writes.
type BindGroupProvider interface {
	// Release releases the owned GPU resources: the bind group, buffers and vertex buffer.
	// Texture views, samplers and the layout are borrowed and left untouched.
	// Safe to call on a provider that was never initialized.
	Release()

	// Label returns the debug label for this provider.
	//
	// Returns:
	//   - string: the debug label
	Label() string

	// BindGroup returns the created bind group, or nil if not initialized.
	//
	// Returns:
	//   - *wgpu.BindGroup: the bind group or nil
	BindGroup() *wgpu.BindGroup

	// BindGroupLayout returns the layout the bind group was created against, or nil.
	//
	// Returns:
	//   - *wgpu.BindGroupLayout: the layout or nil
	BindGroupLayout() *wgpu.BindGroupLayout

	// Buffer returns the buffer at a binding index, or nil.
	//
	// Parameters:
	//   - binding: the binding index
	//
	// Returns:
	//   - *wgpu.Buffer: the buffer or nil
	Buffer(binding int) *wgpu.Buffer

	// TextureView returns the texture view at a binding index, or nil.
	//
	// Parameters:
	//   - binding: the binding index
	//
	// Returns:
	//   - *wgpu.TextureView: the view or nil
	TextureView(binding int) *wgpu.TextureView

	// Sampler returns the sampler at a binding index, or nil.
	//
	// Parameters:
	//   - binding: the binding index
	//
	// Returns:
	//   - *wgpu.Sampler: the sampler or nil
	Sampler(binding int) *wgpu.Sampler

	// VertexBuffer returns the static vertex buffer, or nil.
	//
	// Returns:
	//   - *wgpu.Buffer: the vertex buffer or nil
	VertexBuffer() *wgpu.Buffer

	// VertexCount returns the number of vertices in the vertex buffer.
	//
	// Returns:
	//   - uint32: the vertex count
	VertexCount() uint32

	SetBindGroup(bg *wgpu.BindGroup)
	SetBindGroupLayout(bgl *wgpu.BindGroupLayout)
	SetBuffer(binding int, buf *wgpu.Buffer)
	SetTextureView(binding int, tv *wgpu.TextureView)
	SetSampler(binding int, s *wgpu.Sampler)
	SetVertexBuffer(buf *wgpu.Buffer, count uint32)
}

var _ BindGroupProvider = &bindGroupProvider{}

// NewBindGroupProvider creates an empty provider. GPU resources are attached later by the renderer backend.
//
// Parameters:
//   - label: debug label for the provider and its GPU objects
//   - options: functional options for provider configuration
//
// Returns:
//   - BindGroupProvider: the new provider
func NewBindGroupProvider(label string, options ...BindGroupProviderOption) BindGroupProvider {
	p := &bindGroupProvider{
		label:        label,
		buffers:      make(map[int]*wgpu.Buffer),
		textureViews: make(map[int]*wgpu.TextureView),
		samplers:     make(map[int]*wgpu.Sampler),
	}
	for _, opt := range options {
		opt(p)
	}
	return p
}

func (p *bindGroupProvider) Release() {
	if p.bindGroup != nil {
		p.bindGroup.Release()
		p.bindGroup = nil
	}
	for binding, buf := range p.buffers {
		if buf != nil {
			buf.Release()
		}
		delete(p.buffers, binding)
	}
	if p.vertexBuffer != nil {
		p.vertexBuffer.Release()
		p.vertexBuffer = nil
		p.vertexCount = 0
	}
}

func (p *bindGroupProvider) Label() string {
	return p.label
}

func (p *bindGroupProvider) BindGroup() *wgpu.BindGroup {
	return p.bindGroup
}

func (p *bindGroupProvider) BindGroupLayout() *wgpu.BindGroupLayout {
	return p.bindGroupLayout
}

func (p *bindGroupProvider) Buffer(binding int) *wgpu.Buffer {
	return p.buffers[binding]
}

func (p *bindGroupProvider) TextureView(binding int) *wgpu.TextureView {
	return p.textureViews[binding]
}

func (p *bindGroupProvider) Sampler(binding int) *wgpu.Sampler {
	return p.samplers[binding]
}

func (p *bindGroupProvider) VertexBuffer() *wgpu.Buffer {
	return p.vertexBuffer
}

func (p *bindGroupProvider) VertexCount() uint32 {
	return p.vertexCount
}

func (p *bindGroupProvider) SetBindGroup(bg *wgpu.BindGroup) {
	p.bindGroup = bg
}

func (p *bindGroupProvider) SetBindGroupLayout(bgl *wgpu.BindGroupLayout) {
	p.bindGroupLayout = bgl
}

func (p *bindGroupProvider) SetBuffer(binding int, buf *wgpu.Buffer) {
	p.buffers[binding] = buf
}

func (p *bindGroupProvider) SetTextureView(binding int, tv *wgpu.TextureView) {
	p.textureViews[binding] = tv
}

func (p *bindGroupProvider) SetSampler(binding int, s *wgpu.Sampler) {
	p.samplers[binding] = s
}

func (p *bindGroupProvider) SetVertexBuffer(buf *wgpu.Buffer, count uint32) {
	p.vertexBuffer = buf
	p.vertexCount = count
}
