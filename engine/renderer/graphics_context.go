package renderer

import (
	"fmt"
	"runtime"
	"slices"
	"strings"
	"sync"

	"github.com/Carmen-Shannon/oxy-xr/engine/logger"
	"github.com/cogentcore/webgpu/wgpu"
)

// featureNames maps the feature names accepted in configuration to wgpu features.
var featureNames = map[string]wgpu.FeatureName{
	"depth-clip-control": wgpu.FeatureNameDepthClipControl,
	"timestamp-query":    wgpu.FeatureNameTimestampQuery,
	"shader-f16":         wgpu.FeatureNameShaderF16,
}

// graphicsContext is the implementation of the GraphicsContext interface.
type graphicsContext struct {
	mu *sync.Mutex

	instance *wgpu.Instance
	adapter  *wgpu.Adapter
	device   *wgpu.Device
	queue    *wgpu.Queue
	surface  *wgpu.Surface

	forceFallbackAdapter bool
	features             []wgpu.FeatureName
	limits               wgpu.Limits
}

// GraphicsContext owns the process-wide GPU objects: instance, surface, adapter, device and queue.
// It is created once at startup and released once at shutdown.
type GraphicsContext interface {
	// Instance returns the wgpu instance.
	Instance() *wgpu.Instance

	// Adapter returns the adapter chosen for the window surface.
	Adapter() *wgpu.Adapter

	// Device returns the logical device.
	Device() *wgpu.Device

	// Queue returns the device queue.
	Queue() *wgpu.Queue

	// Surface returns the window surface, or nil for a headless context.
	Surface() *wgpu.Surface

	// Features returns the features the device was created with.
	//
	// Returns:
	//   - []wgpu.FeatureName: a copy of the enabled feature list
	Features() []wgpu.FeatureName

	// Limits returns the limits the device was created with.
	//
	// Returns:
	//   - wgpu.Limits: the required limits
	Limits() wgpu.Limits

	// Release releases the queue, device, adapter, surface and instance in reverse creation order.
	Release()
}

var _ GraphicsContext = &graphicsContext{}

// NewGraphicsContext creates the instance and surface, then requests an adapter compatible with the surface
// and a device with the requested features and limits.
//
// The calling goroutine is locked to its OS thread, since the surface belongs to the window's thread.
// A nil descriptor creates a headless context with no surface, used for offscreen rendering.
//
// Parameters:
//   - surfaceDescriptor: the platform surface descriptor of the window, or nil
//   - options: functional options to configure the context
//
// Returns:
//   - GraphicsContext: the new context
//   - error: ErrNoCompatibleAdapter or ErrDeviceCreationFailed, wrapped with the native error
func NewGraphicsContext(surfaceDescriptor *wgpu.SurfaceDescriptor, options ...GraphicsContextBuilderOption) (GraphicsContext, error) {
	runtime.LockOSThread()

	g := &graphicsContext{
		mu:     &sync.Mutex{},
		limits: wgpu.DefaultLimits(),
	}
	for _, opt := range options {
		opt(g)
	}

	g.instance = wgpu.CreateInstance(nil)
	if surfaceDescriptor != nil {
		g.surface = g.instance.CreateSurface(surfaceDescriptor)
	}

	a, err := g.instance.RequestAdapter(&wgpu.RequestAdapterOptions{
		ForceFallbackAdapter: g.forceFallbackAdapter,
		CompatibleSurface:    g.surface,
	})
	if err != nil {
		g.Release()
		return nil, fmt.Errorf("%w: %w", ErrNoCompatibleAdapter, err)
	}
	g.adapter = a

	supported := a.EnumerateFeatures()
	for _, f := range g.features {
		if !slices.Contains(supported, f) {
			g.Release()
			return nil, fmt.Errorf("%w: feature %v not supported", ErrNoCompatibleAdapter, f)
		}
	}

	d, err := a.RequestDevice(&wgpu.DeviceDescriptor{
		Label:            "Main Device",
		RequiredFeatures: g.features,
		RequiredLimits: &wgpu.RequiredLimits{
			Limits: g.limits,
		},
	})
	if err != nil {
		g.Release()
		return nil, fmt.Errorf("%w: %w", ErrDeviceCreationFailed, err)
	}
	g.device = d
	g.queue = d.GetQueue()

	logger.Debug("graphics context ready", "features", len(g.features), "fallback", g.forceFallbackAdapter)
	return g, nil
}

// ParseFeatureNames converts configured feature names to wgpu features.
//
// Parameters:
//   - names: feature names such as "timestamp-query"; matching ignores case and surrounding space
//
// Returns:
//   - []wgpu.FeatureName: the features in input order, without duplicates
//   - error: if a name is not recognized
func ParseFeatureNames(names []string) ([]wgpu.FeatureName, error) {
	features := make([]wgpu.FeatureName, 0, len(names))
	for _, name := range names {
		f, ok := featureNames[strings.ToLower(strings.TrimSpace(name))]
		if !ok {
			return nil, fmt.Errorf("unknown feature %q", name)
		}
		if !slices.Contains(features, f) {
			features = append(features, f)
		}
	}
	return features, nil
}

func (g *graphicsContext) Instance() *wgpu.Instance {
	return g.instance
}

func (g *graphicsContext) Adapter() *wgpu.Adapter {
	return g.adapter
}

func (g *graphicsContext) Device() *wgpu.Device {
	return g.device
}

func (g *graphicsContext) Queue() *wgpu.Queue {
	return g.queue
}

func (g *graphicsContext) Surface() *wgpu.Surface {
	return g.surface
}

func (g *graphicsContext) Features() []wgpu.FeatureName {
	return slices.Clone(g.features)
}

func (g *graphicsContext) Limits() wgpu.Limits {
	return g.limits
}

func (g *graphicsContext) Release() {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.queue != nil {
		g.queue.Release()
		g.queue = nil
	}
	if g.device != nil {
		g.device.Release()
		g.device = nil
	}
	if g.adapter != nil {
		g.adapter.Release()
		g.adapter = nil
	}
	if g.surface != nil {
		g.surface.Release()
		g.surface = nil
	}
	if g.instance != nil {
		g.instance.Release()
		g.instance = nil
	}
}
