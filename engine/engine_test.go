package engine

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/Carmen-Shannon/oxy-xr/engine/config"
	"github.com/Carmen-Shannon/oxy-xr/engine/logger"
	"github.com/Carmen-Shannon/oxy-xr/engine/profiler"
	"github.com/Carmen-Shannon/oxy-xr/engine/renderer"
	"github.com/Carmen-Shannon/oxy-xr/engine/xr"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeWindow struct {
	title    string
	titles   []string
	onResize func(width, height int)
	// events run inside PollEvents, one slice entry per call
	events  []func()
	polls   int
	closing bool
}

func (w *fakeWindow) SetResizeCallback(callback func(width, height int)) { w.onResize = callback }
func (w *fakeWindow) SetKeyCallback(func(keyCode uint32, pressed bool))  {}
func (w *fakeWindow) SurfaceDescriptor() *wgpu.SurfaceDescriptor         { return nil }
func (w *fakeWindow) IsRunning() bool                                    { return !w.closing }
func (w *fakeWindow) RequestClose()                                      { w.closing = true }
func (w *fakeWindow) Close() error                                       { return nil }
func (w *fakeWindow) Title() string                                      { return w.title }
func (w *fakeWindow) SetTitle(title string)                              { w.titles = append(w.titles, title) }
func (w *fakeWindow) Width() int                                         { return 0 }
func (w *fakeWindow) Height() int                                        { return 0 }

func (w *fakeWindow) PollEvents() bool {
	if w.polls < len(w.events) && w.events[w.polls] != nil {
		w.events[w.polls]()
	}
	w.polls++
	return !w.closing
}

type call struct {
	op            string
	width, height uint32
}

type fakeRenderer struct {
	calls     []call
	tickErrs  []error
	presented bool
}

func (r *fakeRenderer) Init(*renderer.RenderState, uint32, uint32) error { return nil }

func (r *fakeRenderer) Resize(_ *renderer.RenderState, width, height uint32) error {
	r.calls = append(r.calls, call{"resize", width, height})
	return nil
}

func (r *fakeRenderer) Tick(*renderer.RenderState, time.Time) (bool, error) {
	r.calls = append(r.calls, call{op: "tick"})
	if len(r.tickErrs) > 0 {
		err := r.tickErrs[0]
		r.tickErrs = r.tickErrs[1:]
		return err == nil && r.presented, err
	}
	return r.presented, nil
}

func (r *fakeRenderer) SurfaceManager() renderer.SurfaceManager { return nil }
func (r *fakeRenderer) FrameSource() renderer.FrameSource       { return nil }
func (r *fakeRenderer) FrameRenderer() renderer.FrameRenderer   { return nil }
func (r *fakeRenderer) Release(*renderer.RenderState)           {}

type fakeConfigs struct {
	updates chan config.Config
	errs    chan error
}

func (c *fakeConfigs) Updates() <-chan config.Config { return c.updates }
func (c *fakeConfigs) Errors() <-chan error          { return c.errs }

func TestResizeIsAppliedBeforeTick(t *testing.T) {
	var w *fakeWindow
	w = &fakeWindow{title: "harness", events: []func(){
		func() {
			w.onResize(800, 600)
			w.onResize(1024, 768)
		},
	}}
	r := &fakeRenderer{}
	e := NewEngine(w, r, &renderer.RenderState{})

	running, err := e.Step()
	require.NoError(t, err)
	assert.True(t, running)
	assert.Equal(t, []call{{"resize", 1024, 768}, {op: "tick"}}, r.calls)

	r.calls = nil
	_, err = e.Step()
	require.NoError(t, err)
	assert.Equal(t, []call{{op: "tick"}}, r.calls)
}

func TestZeroSizeResizeIsForwarded(t *testing.T) {
	var w *fakeWindow
	w = &fakeWindow{events: []func(){func() { w.onResize(0, 0) }}}
	r := &fakeRenderer{}
	e := NewEngine(w, r, &renderer.RenderState{})

	_, err := e.Step()
	require.NoError(t, err)
	assert.Equal(t, call{"resize", 0, 0}, r.calls[0])
}

func TestRunStopsWhenWindowCloses(t *testing.T) {
	var w *fakeWindow
	w = &fakeWindow{events: []func(){nil, nil, func() { w.RequestClose() }}}
	r := &fakeRenderer{}
	e := NewEngine(w, r, &renderer.RenderState{})

	require.NoError(t, e.Run())
	assert.Len(t, r.calls, 2)
}

func TestRunStopsOnFatalError(t *testing.T) {
	w := &fakeWindow{}
	r := &fakeRenderer{tickErrs: []error{
		renderer.ErrSurfaceTimeout,
		errors.New("scene pass: validation"),
		xr.ErrSessionLost,
	}}
	e := NewEngine(w, r, &renderer.RenderState{})

	err := e.Run()
	assert.ErrorIs(t, err, xr.ErrSessionLost)
	assert.Len(t, r.calls, 3)
}

func TestRunReturnsEveryFatalError(t *testing.T) {
	for _, fatal := range []error{renderer.ErrOutOfMemory, renderer.ErrAcquireExhausted, xr.ErrSessionLost} {
		t.Run(fatal.Error(), func(t *testing.T) {
			r := &fakeRenderer{tickErrs: []error{fmt.Errorf("tick: %w", fatal)}}
			e := NewEngine(&fakeWindow{}, r, &renderer.RenderState{})

			err := e.Run()
			require.Error(t, err)
			assert.ErrorIs(t, err, fatal)
			assert.True(t, renderer.IsFatal(err))
			assert.Len(t, r.calls, 1)
		})
	}
}

func TestFPSTitle(t *testing.T) {
	clock := time.Unix(0, 0)
	now := func() time.Time { return clock }
	w := &fakeWindow{title: "oxy-xr"}
	r := &fakeRenderer{presented: true}
	e := NewEngine(w, r, &renderer.RenderState{},
		WithClock(now, nil),
		WithProfiler(profiler.NewProfiler(profiler.WithClock(now))),
	)

	for range 120 {
		clock = clock.Add(10 * time.Millisecond)
		_, err := e.Step()
		require.NoError(t, err)
	}
	require.Len(t, w.titles, 1)
	assert.Equal(t, "oxy-xr: 100.00 FPS", w.titles[0])
}

func TestFrameLimitSleeps(t *testing.T) {
	var slept []time.Duration
	clock := time.Unix(0, 0)
	w := &fakeWindow{}
	e := NewEngine(w, &fakeRenderer{}, &renderer.RenderState{},
		WithClock(func() time.Time { return clock }, func(d time.Duration) { slept = append(slept, d) }),
		WithRenderFrameLimit(50),
	)

	_, err := e.Step()
	require.NoError(t, err)
	assert.Equal(t, []time.Duration{20 * time.Millisecond}, slept)
}

func TestConfigReloadIsDrainedBetweenTicks(t *testing.T) {
	configs := &fakeConfigs{updates: make(chan config.Config, 1), errs: make(chan error, 1)}
	w := &fakeWindow{title: "old"}
	r := &fakeRenderer{}
	e := NewEngine(w, r, &renderer.RenderState{}, WithConfigSource(configs, config.Default()))

	cfg := config.Default()
	cfg.Window.Title = "new"
	cfg.Log.Level = "debug"
	configs.updates <- cfg
	configs.errs <- errors.New("bad toml")

	_, err := e.Step()
	require.NoError(t, err)
	assert.Empty(t, configs.updates)
	assert.Empty(t, configs.errs)
	assert.Equal(t, "new", e.(*engine).title)

	t.Cleanup(func() { _ = logger.SetLevel("info") })
}
