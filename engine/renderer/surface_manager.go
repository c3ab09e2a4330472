package renderer

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/Carmen-Shannon/oxy-xr/engine/logger"
	"github.com/cogentcore/webgpu/wgpu"
)

// SurfaceConfig is the current configuration of the window surface.
type SurfaceConfig struct {
	Width, Height uint32
	Format        wgpu.TextureFormat
	PresentMode   wgpu.PresentMode
}

// SurfaceFrame is an acquired surface image and its view, valid until presented.
type SurfaceFrame struct {
	Texture       *wgpu.Texture
	View          *wgpu.TextureView
	Width, Height uint32
}

// Release releases the view and the texture. It is safe on a nil frame and safe to call twice.
func (f *SurfaceFrame) Release() {
	if f == nil {
		return
	}
	if f.View != nil {
		f.View.Release()
		f.View = nil
	}
	if f.Texture != nil {
		f.Texture.Release()
		f.Texture = nil
	}
}

// surfaceBackend is the native surface as seen by the SurfaceManager.
type surfaceBackend interface {
	preferredFormat() wgpu.TextureFormat
	configure(cfg SurfaceConfig)
	acquire() (*SurfaceFrame, error)
	present(frame *SurfaceFrame)
}

// wgpuSurfaceBackend drives a wgpu surface through its adapter and device.
type wgpuSurfaceBackend struct {
	surface *wgpu.Surface
	adapter *wgpu.Adapter
	device  *wgpu.Device
}

func (b *wgpuSurfaceBackend) preferredFormat() wgpu.TextureFormat {
	return b.surface.GetCapabilities(b.adapter).Formats[0]
}

func (b *wgpuSurfaceBackend) configure(cfg SurfaceConfig) {
	capabilities := b.surface.GetCapabilities(b.adapter)
	b.surface.Configure(b.adapter, b.device, &wgpu.SurfaceConfiguration{
		Usage:       wgpu.TextureUsageRenderAttachment,
		Format:      cfg.Format,
		Width:       cfg.Width,
		Height:      cfg.Height,
		PresentMode: cfg.PresentMode,
		AlphaMode:   capabilities.AlphaModes[0],
	})
}

func (b *wgpuSurfaceBackend) acquire() (*SurfaceFrame, error) {
	texture, err := b.surface.GetCurrentTexture()
	if err != nil {
		return nil, err
	}
	view, err := texture.CreateView(nil)
	if err != nil {
		texture.Release()
		return nil, err
	}
	return &SurfaceFrame{Texture: texture, View: view}, nil
}

func (b *wgpuSurfaceBackend) present(_ *SurfaceFrame) {
	b.surface.Present()
}

// surfaceManager is the implementation of the SurfaceManager interface.
type surfaceManager struct {
	mu      *sync.Mutex
	backend surfaceBackend

	config     SurfaceConfig
	configured bool
}

// SurfaceManager configures the window surface, acquires frames from it and presents them.
type SurfaceManager interface {
	// Configure (re)configures the surface at the given size with the preferred format.
	// Configuring with the current size is a no-op.
	//
	// Parameters:
	//   - width: the surface width in pixels
	//   - height: the surface height in pixels
	//
	// Returns:
	//   - error: ErrZeroSize if either dimension is zero
	Configure(width, height uint32) error

	// Config returns the current surface configuration.
	//
	// Returns:
	//   - SurfaceConfig: the configuration
	//   - bool: false if the surface has never been configured
	Config() (SurfaceConfig, bool)

	// AcquireFrame acquires the next surface image.
	// An outdated or lost surface is reconfigured at its current size and the acquire retried once.
	//
	// Returns:
	//   - *SurfaceFrame: the acquired frame
	//   - error: ErrSurfaceTimeout, ErrOutOfMemory or ErrAcquireExhausted
	AcquireFrame() (*SurfaceFrame, error)

	// Present presents the frame and releases its view and texture.
	//
	// Parameters:
	//   - frame: the frame returned by AcquireFrame
	Present(frame *SurfaceFrame)
}

var _ SurfaceManager = &surfaceManager{}

// NewSurfaceManager creates a SurfaceManager over the surface of the given context.
// The surface stays unconfigured until the first Configure call.
//
// Parameters:
//   - ctx: the graphics context that owns the surface
//   - presentMode: the present mode used on every configure
//
// Returns:
//   - SurfaceManager: the new manager
func NewSurfaceManager(ctx GraphicsContext, presentMode wgpu.PresentMode) SurfaceManager {
	return newSurfaceManager(&wgpuSurfaceBackend{
		surface: ctx.Surface(),
		adapter: ctx.Adapter(),
		device:  ctx.Device(),
	}, presentMode)
}

func newSurfaceManager(backend surfaceBackend, presentMode wgpu.PresentMode) *surfaceManager {
	return &surfaceManager{
		mu:      &sync.Mutex{},
		backend: backend,
		config:  SurfaceConfig{PresentMode: presentMode},
	}
}

// ParsePresentMode converts a configured present mode name to a wgpu present mode.
//
// Parameters:
//   - name: "immediate" or "fifo"; an empty name means "immediate"
//
// Returns:
//   - wgpu.PresentMode: the present mode
//   - error: if the name is not recognized
func ParsePresentMode(name string) (wgpu.PresentMode, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "immediate":
		return wgpu.PresentModeImmediate, nil
	case "fifo":
		return wgpu.PresentModeFifo, nil
	default:
		return wgpu.PresentModeImmediate, fmt.Errorf("unknown present mode %q", name)
	}
}

func (m *surfaceManager) Configure(width, height uint32) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if width == 0 || height == 0 {
		return fmt.Errorf("%w: %dx%d", ErrZeroSize, width, height)
	}
	if m.configured && m.config.Width == width && m.config.Height == height {
		return nil
	}

	if !m.configured {
		m.config.Format = m.backend.preferredFormat()
	}
	m.config.Width = width
	m.config.Height = height
	m.backend.configure(m.config)
	m.configured = true

	logger.Debug("surface configured", "width", width, "height", height, "format", m.config.Format)
	return nil
}

func (m *surfaceManager) Config() (SurfaceConfig, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.config, m.configured
}

func (m *surfaceManager) AcquireFrame() (*SurfaceFrame, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.configured {
		return nil, fmt.Errorf("%w: surface not configured", ErrSurfaceOutdated)
	}

	frame, err := m.backend.acquire()
	if err == nil {
		return m.sized(frame), nil
	}

	err = classifyAcquireError(err)
	switch {
	case errors.Is(err, ErrSurfaceTimeout), errors.Is(err, ErrOutOfMemory):
		return nil, err
	}

	logger.Debug("surface acquire failed, reconfiguring", "err", err)
	m.backend.configure(m.config)

	frame, retryErr := m.backend.acquire()
	if retryErr == nil {
		return m.sized(frame), nil
	}
	retryErr = classifyAcquireError(retryErr)
	if errors.Is(retryErr, ErrOutOfMemory) {
		return nil, retryErr
	}
	return nil, fmt.Errorf("%w: %w", ErrAcquireExhausted, retryErr)
}

// sized stamps the configured size on a freshly acquired frame.
func (m *surfaceManager) sized(frame *SurfaceFrame) *SurfaceFrame {
	frame.Width = m.config.Width
	frame.Height = m.config.Height
	return frame
}

func (m *surfaceManager) Present(frame *SurfaceFrame) {
	if frame == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	m.backend.present(frame)
	frame.Release()
}
