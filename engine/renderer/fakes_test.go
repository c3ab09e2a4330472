package renderer

import (
	"sync"

	"github.com/Carmen-Shannon/oxy-xr/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/oxy-xr/engine/xr"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/google/uuid"
)

// opLog records the order of GPU and runtime operations across fakes.
type opLog struct {
	mu  sync.Mutex
	ops []string
}

func (l *opLog) add(op string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.ops = append(l.ops, op)
}

func (l *opLog) take() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	ops := l.ops
	l.ops = nil
	return ops
}

type fakeSurfaceBackend struct {
	log     *opLog
	format  wgpu.TextureFormat
	configs []SurfaceConfig

	// acquireErrs is consumed one entry per acquire; a nil entry or an empty queue succeeds.
	acquireErrs []error
	presented   int
}

func (b *fakeSurfaceBackend) preferredFormat() wgpu.TextureFormat {
	return b.format
}

func (b *fakeSurfaceBackend) configure(cfg SurfaceConfig) {
	b.log.add("configure")
	b.configs = append(b.configs, cfg)
}

func (b *fakeSurfaceBackend) acquire() (*SurfaceFrame, error) {
	b.log.add("acquire")
	if len(b.acquireErrs) > 0 {
		err := b.acquireErrs[0]
		b.acquireErrs = b.acquireErrs[1:]
		if err != nil {
			return nil, err
		}
	}
	return &SurfaceFrame{}, nil
}

func (b *fakeSurfaceBackend) present(_ *SurfaceFrame) {
	b.log.add("present")
	b.presented++
}

func newFakeSurfaces(log *opLog) (*surfaceManager, *fakeSurfaceBackend) {
	backend := &fakeSurfaceBackend{log: log, format: wgpu.TextureFormatBGRA8Unorm}
	return newSurfaceManager(backend, wgpu.PresentModeImmediate), backend
}

type fakeBackend struct {
	log *opLog

	colorFormat   wgpu.TextureFormat
	instanceCount uint32

	buildErr error
	sceneErr error
	blitErr  error

	released        []uuid.UUID
	writes          []bind_group_provider.BufferWrite
	drawnInstances  []uint32
	blitGenerations []uuid.UUID
	aborted         int
}

var _ RendererBackend = &fakeBackend{}

func (b *fakeBackend) InitStaticResources(_, _ bind_group_provider.BindGroupProvider, instanceCount uint32, colorFormat wgpu.TextureFormat) error {
	b.log.add("init_static")
	b.instanceCount = instanceCount
	b.colorFormat = colorFormat
	return nil
}

func (b *fakeBackend) BuildDerivedTargets(width, height uint32, colorFormat wgpu.TextureFormat) (*DerivedTargets, error) {
	b.log.add("build")
	if b.buildErr != nil {
		return nil, b.buildErr
	}
	gen := uuid.New()
	return &DerivedTargets{
		Generation: gen,
		Depth:      RenderTarget{Format: DepthFormat, Width: width, Height: height},
		Color:      RenderTarget{Format: colorFormat, Width: width, Height: height},
		Blit:       bind_group_provider.NewBindGroupProvider("blit_" + gen.String()),
	}, nil
}

func (b *fakeBackend) ReleaseDerivedTargets(targets *DerivedTargets) {
	b.log.add("release_targets")
	b.released = append(b.released, targets.Generation)
	targets.Release()
}

func (b *fakeBackend) WriteBuffers(writes []bind_group_provider.BufferWrite) error {
	b.log.add("write")
	for _, w := range writes {
		w.Data = append([]byte(nil), w.Data...)
		b.writes = append(b.writes, w)
	}
	return nil
}

func (b *fakeBackend) BeginCommands() error {
	b.log.add("begin")
	return nil
}

func (b *fakeBackend) RecordScenePass(_ *DerivedTargets, instanceCount uint32) error {
	b.log.add("scene")
	if b.sceneErr != nil {
		return b.sceneErr
	}
	b.drawnInstances = append(b.drawnInstances, instanceCount)
	return nil
}

func (b *fakeBackend) RecordBlitPass(targets *DerivedTargets, _ *SurfaceFrame) error {
	b.log.add("blit")
	if b.blitErr != nil {
		return b.blitErr
	}
	b.blitGenerations = append(b.blitGenerations, targets.Generation)
	return nil
}

func (b *fakeBackend) Submit() error {
	b.log.add("submit")
	return nil
}

func (b *fakeBackend) Abort() {
	b.log.add("abort")
	b.aborted++
}

func (b *fakeBackend) Release() {
	b.log.add("release_backend")
}

// loggingBridge records the runtime hooks in the shared op log.
type loggingBridge struct {
	xr.Bridge
	log *opLog
}

func (b *loggingBridge) PreFrame() (xr.FrameState, bool, error) {
	b.log.add("pre_frame")
	return b.Bridge.PreFrame()
}

func (b *loggingBridge) PostFrame(state xr.FrameState) error {
	b.log.add("post_frame")
	return b.Bridge.PostFrame(state)
}

// recordingSource is a FrameSource that only counts calls.
type recordingSource struct {
	ended, aborted int
	endErr         error
}

func (s *recordingSource) Kind() FrameSourceKind {
	return FrameSourcePlain
}

func (s *recordingSource) BeginFrame() (Frame, bool, error) {
	return Frame{Surface: &SurfaceFrame{}}, true, nil
}

func (s *recordingSource) EndFrame(Frame) error {
	s.ended++
	return s.endErr
}

func (s *recordingSource) Abort(Frame) error {
	s.aborted++
	return nil
}
