package renderer

import (
	"slices"

	"github.com/cogentcore/webgpu/wgpu"
)

// GraphicsContextBuilderOption is a functional option used to configure a GraphicsContext during construction.
type GraphicsContextBuilderOption func(*graphicsContext)

// WithFeatures sets the device features to require. Every feature must be supported by the adapter.
//
// Parameters:
//   - features: the features to require
//
// Returns:
//   - GraphicsContextBuilderOption: a function that sets the required features
func WithFeatures(features ...wgpu.FeatureName) GraphicsContextBuilderOption {
	return func(g *graphicsContext) {
		g.features = slices.Clone(features)
	}
}

// WithLimits overrides the device limits. The default is wgpu.DefaultLimits().
//
// Parameters:
//   - limits: the limits to require
//
// Returns:
//   - GraphicsContextBuilderOption: a function that sets the required limits
func WithLimits(limits wgpu.Limits) GraphicsContextBuilderOption {
	return func(g *graphicsContext) {
		g.limits = limits
	}
}

// WithForceFallbackAdapter requests the software fallback adapter.
//
// Parameters:
//   - force: true to force the fallback adapter
//
// Returns:
//   - GraphicsContextBuilderOption: a function that sets the fallback flag
func WithForceFallbackAdapter(force bool) GraphicsContextBuilderOption {
	return func(g *graphicsContext) {
		g.forceFallbackAdapter = force
	}
}
