package window

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWindowOptions(t *testing.T) {
	w := newEngineWindow(
		WithTitle("harness"),
		WithSize(800, 0),
		WithMinSize(320, 240),
		WithResizable(false),
	)
	assert.Equal(t, "harness", w.Title())
	assert.Equal(t, 800, w.Width())
	assert.Equal(t, 720, w.Height())
	assert.Equal(t, 320, w.minWidth)
	assert.Equal(t, 240, w.minHeight)
	assert.False(t, w.resizable)
}

func TestUninitializedWindow(t *testing.T) {
	w := newEngineWindow()
	assert.False(t, w.IsRunning())
	assert.False(t, w.PollEvents())
	assert.Nil(t, w.SurfaceDescriptor())
	assert.Error(t, w.Close())
	assert.NotPanics(t, func() {
		w.SetTitle("ignored")
		w.RequestClose()
	})
}

func TestEventsReachCallbacks(t *testing.T) {
	w := newEngineWindow()
	var sizes [][2]int
	var keys []uint32
	w.SetResizeCallback(func(width, height int) { sizes = append(sizes, [2]int{width, height}) })
	w.SetKeyCallback(func(keyCode uint32, pressed bool) {
		if pressed {
			keys = append(keys, keyCode)
		}
	})

	w.handleResize(0, 0)
	w.handleResize(1024, 768)
	w.handleKey(65, true)
	w.handleKey(65, false)

	assert.Equal(t, [][2]int{{0, 0}, {1024, 768}}, sizes)
	assert.Equal(t, []uint32{65}, keys)
	assert.Equal(t, 1024, w.Width())
	assert.Equal(t, 768, w.Height())
}

func TestNewWindowOnDisplay(t *testing.T) {
	t.Skip("Need a display on CI")
	w, err := NewWindow(WithTitle("display"), WithSize(320, 240), WithResizable(false))
	require.NoError(t, err)

	assert.True(t, w.IsRunning())
	assert.NotNil(t, w.SurfaceDescriptor())
	assert.Equal(t, 320, w.Width())
	assert.Equal(t, 240, w.Height())
	assert.True(t, w.PollEvents())

	w.SetTitle("display: 60.00 FPS")
	w.RequestClose()
	assert.False(t, w.PollEvents())
	assert.False(t, w.IsRunning())

	require.NoError(t, w.Close())
	assert.Nil(t, w.SurfaceDescriptor())
	assert.Error(t, w.Close())
}
