package bind_group_provider

import "github.com/cogentcore/webgpu/wgpu"

// BindGroupProviderOption is a functional option used to configure a BindGroupProvider during construction.
type BindGroupProviderOption func(*bindGroupProvider)

// WithBindGroupLayout sets the layout the provider's bind group is created against.
//
// Parameters:
//   - bgl: the bind group layout
//
// Returns:
//   - BindGroupProviderOption: a function that sets the layout on the provider
func WithBindGroupLayout(bgl *wgpu.BindGroupLayout) BindGroupProviderOption {
	return func(p *bindGroupProvider) {
		p.bindGroupLayout = bgl
	}
}

// WithTextureView attaches a borrowed texture view at a binding index.
//
// Parameters:
//   - binding: the binding index
//   - tv: the texture view
//
// Returns:
//   - BindGroupProviderOption: a function that sets the view on the provider
func WithTextureView(binding int, tv *wgpu.TextureView) BindGroupProviderOption {
	return func(p *bindGroupProvider) {
		p.textureViews[binding] = tv
	}
}

// WithSampler attaches a borrowed sampler at a binding index.
//
// Parameters:
//   - binding: the binding index
//   - s: the sampler
//
// Returns:
//   - BindGroupProviderOption: a function that sets the sampler on the provider
func WithSampler(binding int, s *wgpu.Sampler) BindGroupProviderOption {
	return func(p *bindGroupProvider) {
		p.samplers[binding] = s
	}
}
