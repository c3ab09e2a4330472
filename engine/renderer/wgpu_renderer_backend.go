package renderer

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/Carmen-Shannon/oxy-xr/common"
	"github.com/Carmen-Shannon/oxy-xr/engine/renderer/animator"
	"github.com/Carmen-Shannon/oxy-xr/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/oxy-xr/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/oxy-xr/engine/renderer/shader"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/google/uuid"
)

// blitSamplerData is the sampler shared by every blit bind group.
var blitSamplerData = common.SamplerStagingData{
	AddressModeU: wgpu.AddressModeClampToEdge,
	AddressModeV: wgpu.AddressModeClampToEdge,
	AddressModeW: wgpu.AddressModeClampToEdge,
	MagFilter:    wgpu.FilterModeLinear,
	MinFilter:    wgpu.FilterModeNearest,
	MipmapFilter: wgpu.MipmapFilterModeNearest,
}

var clearBlack = wgpu.Color{R: 0, G: 0, B: 0, A: 1}

type wgpuRendererBackendImpl struct {
	mu     *sync.Mutex
	device *wgpu.Device
	queue  *wgpu.Queue

	colorFormat wgpu.TextureFormat

	scenePipeline pipeline.Pipeline
	blitPipeline  pipeline.Pipeline

	// layouts created per pipeline, indexed by group
	sceneLayouts []*wgpu.BindGroupLayout
	blitLayouts  []*wgpu.BindGroupLayout

	camera    bind_group_provider.BindGroupProvider
	instances bind_group_provider.BindGroupProvider
	triangle  bind_group_provider.BindGroupProvider
	quad      bind_group_provider.BindGroupProvider

	blitSampler *wgpu.Sampler

	// Per-tick command state. Nil between ticks.
	encoder *wgpu.CommandEncoder
}

var _ RendererBackend = &wgpuRendererBackendImpl{}

// NewWGPURendererBackend creates a RendererBackend on the device and queue of the given context.
// Static resources are created by InitStaticResources.
//
// Parameters:
//   - ctx: the graphics context
//
// Returns:
//   - RendererBackend: the new backend
func NewWGPURendererBackend(ctx GraphicsContext) RendererBackend {
	return &wgpuRendererBackendImpl{
		mu:     &sync.Mutex{},
		device: ctx.Device(),
		queue:  ctx.Queue(),
	}
}

func (b *wgpuRendererBackendImpl) InitStaticResources(
	camera, instances bind_group_provider.BindGroupProvider,
	instanceCount uint32,
	colorFormat wgpu.TextureFormat,
) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.colorFormat = colorFormat
	b.camera = camera
	b.instances = instances

	sceneShader, err := shader.NewSceneShader()
	if err != nil {
		return err
	}
	blitShader, err := shader.NewBlitShader()
	if err != nil {
		return err
	}

	b.scenePipeline = pipeline.NewPipeline("scene", sceneShader,
		pipeline.WithDepthTestEnabled(true),
		pipeline.WithDepthWriteEnabled(true),
		pipeline.WithDepthFormat(DepthFormat),
	)
	if b.sceneLayouts, err = b.registerRenderPipeline(b.scenePipeline); err != nil {
		return fmt.Errorf("scene pipeline: %w", err)
	}

	b.blitPipeline = pipeline.NewPipeline("blit", blitShader)
	if b.blitLayouts, err = b.registerRenderPipeline(b.blitPipeline); err != nil {
		return fmt.Errorf("blit pipeline: %w", err)
	}

	camera.SetBindGroupLayout(b.sceneLayouts[0])
	if err := b.initBindGroup(camera, sceneShader.BindGroupLayoutDescriptor(0)); err != nil {
		return fmt.Errorf("camera bind group: %w", err)
	}

	instanceBuf, err := b.device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: instances.Label() + " Buffer",
		Size:  uint64(instanceCount) * uint64((&animator.GPUInstanceData{}).Size()),
		Usage: wgpu.BufferUsageVertex | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		return fmt.Errorf("instance buffer: %w", err)
	}
	instances.SetBuffer(animator.InstanceBinding, instanceBuf)

	b.triangle = bind_group_provider.NewBindGroupProvider("triangle")
	if err := b.initVertexBuffer(b.triangle, common.SliceToBytes(common.TriangleVertices), uint32(len(common.TriangleVertices))); err != nil {
		return err
	}
	b.quad = bind_group_provider.NewBindGroupProvider("blit_quad")
	if err := b.initVertexBuffer(b.quad, common.SliceToBytes(common.BlitQuadVertices), uint32(len(common.BlitQuadVertices))); err != nil {
		return err
	}

	b.blitSampler, err = b.device.CreateSampler(&wgpu.SamplerDescriptor{
		Label:         "blit Sampler",
		AddressModeU:  blitSamplerData.AddressModeU,
		AddressModeV:  blitSamplerData.AddressModeV,
		AddressModeW:  blitSamplerData.AddressModeW,
		MagFilter:     blitSamplerData.MagFilter,
		MinFilter:     blitSamplerData.MinFilter,
		MipmapFilter:  blitSamplerData.MipmapFilter,
		LodMinClamp:   blitSamplerData.LodMinClamp,
		LodMaxClamp:   common.Coalesce(blitSamplerData.LodMaxClamp, 32.0),
		MaxAnisotropy: common.Coalesce(blitSamplerData.MaxAnisotropy, 1),
	})
	if err != nil {
		return fmt.Errorf("blit sampler: %w", err)
	}

	return nil
}

// registerRenderPipeline creates the shader module, one bind group layout per group, the pipeline layout
// and the render pipeline. The returned layouts are indexed by group number.
func (b *wgpuRendererBackendImpl) registerRenderPipeline(p pipeline.Pipeline) ([]*wgpu.BindGroupLayout, error) {
	module, err := b.device.CreateShaderModule(p.Shader().Module())
	if err != nil {
		return nil, err
	}
	defer module.Release()

	descriptors := p.Shader().BindGroupLayoutDescriptors()
	groups := make([]int, 0, len(descriptors))
	for g := range descriptors {
		groups = append(groups, g)
	}
	sort.Ints(groups)

	maxGroup := -1
	if len(groups) > 0 {
		maxGroup = groups[len(groups)-1]
	}
	bindGroupLayouts := make([]*wgpu.BindGroupLayout, maxGroup+1)
	for _, g := range groups {
		desc := descriptors[g]
		layout, layoutErr := b.device.CreateBindGroupLayout(&desc)
		if layoutErr != nil {
			releaseLayouts(bindGroupLayouts)
			return nil, fmt.Errorf("failed to create bind group layout for group %d: %w", g, layoutErr)
		}
		bindGroupLayouts[g] = layout
	}

	pipelineLayout, err := b.device.CreatePipelineLayout(&wgpu.PipelineLayoutDescriptor{
		Label:            p.PipelineKey(),
		BindGroupLayouts: bindGroupLayouts,
	})
	if err != nil {
		releaseLayouts(bindGroupLayouts)
		return nil, err
	}
	defer pipelineLayout.Release()

	created, err := b.device.CreateRenderPipeline(p.Descriptor(pipelineLayout, module, b.colorFormat))
	if err != nil {
		releaseLayouts(bindGroupLayouts)
		return nil, err
	}
	p.SetRenderPipeline(created)

	return bindGroupLayouts, nil
}

// initBindGroup creates the bind group for a provider whose layout is already set.
// Uniform buffers are created on first use; textures and samplers must already be attached.
func (b *wgpuRendererBackendImpl) initBindGroup(provider bind_group_provider.BindGroupProvider, descriptor wgpu.BindGroupLayoutDescriptor) error {
	layout := provider.BindGroupLayout()
	if layout == nil {
		return fmt.Errorf("%s has no bind group layout", provider.Label())
	}

	entries := make([]wgpu.BindGroupEntry, len(descriptor.Entries))
	for i, entry := range descriptor.Entries {
		binding := int(entry.Binding)

		switch {
		case entry.Texture.SampleType != wgpu.TextureSampleTypeUndefined:
			tv := provider.TextureView(binding)
			if tv == nil {
				return fmt.Errorf("texture binding %d of %s has no texture view", binding, provider.Label())
			}
			entries[i] = wgpu.BindGroupEntry{Binding: entry.Binding, TextureView: tv}
		case entry.Sampler.Type != wgpu.SamplerBindingTypeUndefined:
			samp := provider.Sampler(binding)
			if samp == nil {
				return fmt.Errorf("sampler binding %d of %s has no sampler", binding, provider.Label())
			}
			entries[i] = wgpu.BindGroupEntry{Binding: entry.Binding, Sampler: samp}
		default:
			buf := provider.Buffer(binding)
			if buf == nil {
				var err error
				buf, err = b.device.CreateBuffer(&wgpu.BufferDescriptor{
					Label: provider.Label() + " Buffer",
					Size:  entry.Buffer.MinBindingSize,
					Usage: wgpu.BufferUsageUniform | wgpu.BufferUsageCopyDst,
				})
				if err != nil {
					return err
				}
				provider.SetBuffer(binding, buf)
			}
			entries[i] = wgpu.BindGroupEntry{
				Binding: entry.Binding,
				Buffer:  buf,
				Offset:  0,
				Size:    wgpu.WholeSize,
			}
		}
	}

	bindGroup, err := b.device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:   provider.Label() + " Bind Group",
		Layout:  layout,
		Entries: entries,
	})
	if err != nil {
		return err
	}
	provider.SetBindGroup(bindGroup)
	return nil
}

// initVertexBuffer uploads immutable geometry into a new vertex buffer owned by the provider.
func (b *wgpuRendererBackendImpl) initVertexBuffer(provider bind_group_provider.BindGroupProvider, data []byte, count uint32) error {
	buf, err := b.device.CreateBufferInit(&wgpu.BufferInitDescriptor{
		Label:    provider.Label() + " Vertex Buffer",
		Contents: data,
		Usage:    wgpu.BufferUsageVertex,
	})
	if err != nil {
		return fmt.Errorf("%s vertex buffer: %w", provider.Label(), err)
	}
	provider.SetVertexBuffer(buf, count)
	return nil
}

func (b *wgpuRendererBackendImpl) BuildDerivedTargets(width, height uint32, colorFormat wgpu.TextureFormat) (*DerivedTargets, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if width == 0 || height == 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrZeroSize, width, height)
	}

	targets := &DerivedTargets{Generation: uuid.New()}

	var err error
	targets.Depth, err = b.createTarget("Depth Texture", width, height, DepthFormat,
		wgpu.TextureUsageRenderAttachment|wgpu.TextureUsageTextureBinding)
	if err != nil {
		return nil, err
	}
	targets.Color, err = b.createTarget("Color Texture", width, height, colorFormat,
		wgpu.TextureUsageRenderAttachment|wgpu.TextureUsageCopySrc|wgpu.TextureUsageTextureBinding)
	if err != nil {
		targets.Release()
		return nil, err
	}

	targets.Blit = bind_group_provider.NewBindGroupProvider("blit_"+targets.Generation.String(),
		bind_group_provider.WithBindGroupLayout(b.blitLayouts[0]),
		bind_group_provider.WithTextureView(0, targets.Color.View),
		bind_group_provider.WithSampler(1, b.blitSampler),
	)
	if err := b.initBindGroup(targets.Blit, b.blitPipeline.Shader().BindGroupLayoutDescriptor(0)); err != nil {
		targets.Release()
		return nil, fmt.Errorf("blit bind group: %w", err)
	}

	return targets, nil
}

func (b *wgpuRendererBackendImpl) createTarget(label string, width, height uint32, format wgpu.TextureFormat, usage wgpu.TextureUsage) (RenderTarget, error) {
	tex, err := b.device.CreateTexture(&wgpu.TextureDescriptor{
		Label: label,
		Size: wgpu.Extent3D{
			Width:              width,
			Height:             height,
			DepthOrArrayLayers: 1,
		},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     wgpu.TextureDimension2D,
		Format:        format,
		Usage:         usage,
	})
	if err != nil {
		return RenderTarget{}, fmt.Errorf("%s: %w", label, err)
	}
	view, err := tex.CreateView(nil)
	if err != nil {
		tex.Release()
		return RenderTarget{}, fmt.Errorf("%s view: %w", label, err)
	}
	return RenderTarget{
		Texture: tex,
		View:    view,
		Format:  format,
		Width:   width,
		Height:  height,
	}, nil
}

func (b *wgpuRendererBackendImpl) ReleaseDerivedTargets(targets *DerivedTargets) {
	targets.Release()
}

func (b *wgpuRendererBackendImpl) WriteBuffers(writes []bind_group_provider.BufferWrite) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	for _, w := range writes {
		buf := w.Provider.Buffer(w.Binding)
		if buf == nil {
			return fmt.Errorf("%s has no buffer at binding %d", w.Provider.Label(), w.Binding)
		}
		if err := b.queue.WriteBuffer(buf, w.Offset, w.Data); err != nil {
			return fmt.Errorf("write %s: %w", w.Provider.Label(), err)
		}
	}
	return nil
}

func (b *wgpuRendererBackendImpl) BeginCommands() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.encoder != nil {
		return errors.New("previous command encoder not yet submitted")
	}
	encoder, err := b.device.CreateCommandEncoder(nil)
	if err != nil {
		return err
	}
	b.encoder = encoder
	return nil
}

func (b *wgpuRendererBackendImpl) RecordScenePass(targets *DerivedTargets, instanceCount uint32) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.encoder == nil {
		return errors.New("scene pass recorded without an encoder")
	}

	pass := b.encoder.BeginRenderPass(&wgpu.RenderPassDescriptor{
		Label: "Scene Pass",
		ColorAttachments: []wgpu.RenderPassColorAttachment{{
			View:       targets.Color.View,
			LoadOp:     wgpu.LoadOpClear,
			StoreOp:    wgpu.StoreOpStore,
			ClearValue: clearBlack,
		}},
		DepthStencilAttachment: &wgpu.RenderPassDepthStencilAttachment{
			View:            targets.Depth.View,
			DepthLoadOp:     wgpu.LoadOpClear,
			DepthStoreOp:    wgpu.StoreOpStore,
			DepthClearValue: 1.0,
		},
	})
	pass.SetPipeline(b.scenePipeline.RenderPipeline())
	pass.SetVertexBuffer(0, b.triangle.VertexBuffer(), 0, wgpu.WholeSize)
	pass.SetVertexBuffer(1, b.instances.Buffer(animator.InstanceBinding), 0, wgpu.WholeSize)
	pass.SetBindGroup(0, b.camera.BindGroup(), nil)
	pass.Draw(b.triangle.VertexCount(), instanceCount, 0, 0)
	pass.End()
	return nil
}

func (b *wgpuRendererBackendImpl) RecordBlitPass(targets *DerivedTargets, frame *SurfaceFrame) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.encoder == nil {
		return errors.New("blit pass recorded without an encoder")
	}

	pass := b.encoder.BeginRenderPass(&wgpu.RenderPassDescriptor{
		Label: "Blit Pass",
		ColorAttachments: []wgpu.RenderPassColorAttachment{{
			View:       frame.View,
			LoadOp:     wgpu.LoadOpClear,
			StoreOp:    wgpu.StoreOpStore,
			ClearValue: clearBlack,
		}},
	})
	pass.SetPipeline(b.blitPipeline.RenderPipeline())
	pass.SetBindGroup(0, targets.Blit.BindGroup(), nil)
	pass.SetVertexBuffer(0, b.quad.VertexBuffer(), 0, wgpu.WholeSize)
	pass.Draw(b.quad.VertexCount(), 1, 0, 0)
	pass.End()
	return nil
}

func (b *wgpuRendererBackendImpl) Submit() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.encoder == nil {
		return errors.New("submit without an encoder")
	}
	encoder := b.encoder
	b.encoder = nil
	defer encoder.Release()

	commandBuffer, err := encoder.Finish(nil)
	if err != nil {
		return err
	}
	defer commandBuffer.Release()

	b.queue.Submit(commandBuffer)
	return nil
}

func (b *wgpuRendererBackendImpl) Abort() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.encoder != nil {
		b.encoder.Release()
		b.encoder = nil
	}
}

func (b *wgpuRendererBackendImpl) Release() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.encoder != nil {
		b.encoder.Release()
		b.encoder = nil
	}
	for _, p := range []bind_group_provider.BindGroupProvider{b.triangle, b.quad} {
		if p != nil {
			p.Release()
		}
	}
	if b.blitSampler != nil {
		b.blitSampler.Release()
		b.blitSampler = nil
	}
	for _, p := range []pipeline.Pipeline{b.scenePipeline, b.blitPipeline} {
		if p != nil {
			p.Release()
		}
	}
	releaseLayouts(b.sceneLayouts)
	releaseLayouts(b.blitLayouts)
	b.sceneLayouts, b.blitLayouts = nil, nil
}

func releaseLayouts(layouts []*wgpu.BindGroupLayout) {
	for _, l := range layouts {
		if l != nil {
			l.Release()
		}
	}
}
