package window

import (
	"fmt"

	"github.com/cogentcore/webgpu/wgpu"
)

// Window is the native window the harness renders into.
// All methods must be called from the thread that created the window.
type Window interface {
	// SetResizeCallback sets the function called when the framebuffer size changes.
	// A minimised window reports 0x0.
	//
	// Parameters:
	//   - callback: function receiving the new width and height in pixels
	SetResizeCallback(callback func(width, height int))

	// SetKeyCallback sets the function called for key presses and releases.
	//
	// Parameters:
	//   - callback: function receiving the key code and true for a press or repeat
	SetKeyCallback(callback func(keyCode uint32, pressed bool))

	// SurfaceDescriptor returns a wgpu.SurfaceDescriptor for the platform window
	// (Windows HWND, X11, Wayland or a macOS Metal layer).
	//
	// Returns:
	//   - *wgpu.SurfaceDescriptor: the descriptor, or nil if the window is not initialized
	SurfaceDescriptor() *wgpu.SurfaceDescriptor

	// PollEvents processes pending events without blocking. Callbacks run inside this call.
	//
	// Returns:
	//   - bool: false once the window has been asked to close
	PollEvents() bool

	// IsRunning returns true until the window is closed or asked to close.
	IsRunning() bool

	// RequestClose asks the window to close; the loop observes it on the next PollEvents.
	RequestClose()

	// Close destroys the window and releases platform resources.
	//
	// Returns:
	//   - error: if the window was never initialized
	Close() error

	// Title returns the base title given at construction.
	Title() string

	// SetTitle replaces the text in the title bar.
	//
	// Parameters:
	//   - title: the new title bar text
	SetTitle(title string)

	// Width returns the current framebuffer width in pixels.
	Width() int

	// Height returns the current framebuffer height in pixels.
	Height() int
}

// engineWindow is the implementation of the Window interface.
type engineWindow struct {
	// title is the base window title; the title bar may show more.
	title string

	// minWidth and minHeight bound user resizing. Zero means unbounded.
	minWidth, minHeight int

	// width and height are the current framebuffer size in pixels.
	width, height int

	resizable bool

	// internalWindow holds the platform-specific window data (glfwWindow).
	internalWindow any

	onResize func(width, height int)
	onKey    func(keyCode uint32, pressed bool)
}

var _ Window = &engineWindow{}

// NewWindow creates and shows a native window.
//
// Parameters:
//   - options: functional options to configure the window
//
// Returns:
//   - Window: the window, already visible
//   - error: if the platform window could not be created
func NewWindow(options ...WindowBuilderOption) (Window, error) {
	w := newEngineWindow(options...)
	if err := newPlatformWindow(w); err != nil {
		return nil, fmt.Errorf("failed to create platform window: %w", err)
	}
	return w, nil
}

// newEngineWindow applies the defaults and options without touching the platform.
func newEngineWindow(options ...WindowBuilderOption) *engineWindow {
	w := &engineWindow{
		title:     "oxy-xr",
		width:     1280,
		height:    720,
		resizable: true,
	}
	for _, opt := range options {
		opt(w)
	}
	return w
}

func (w *engineWindow) SetResizeCallback(callback func(width, height int)) {
	w.onResize = callback
}

func (w *engineWindow) SetKeyCallback(callback func(keyCode uint32, pressed bool)) {
	w.onKey = callback
}

func (w *engineWindow) SurfaceDescriptor() *wgpu.SurfaceDescriptor {
	return platformGetSurfaceDescriptor(w)
}

func (w *engineWindow) PollEvents() bool {
	return platformProcessMessages(w)
}

func (w *engineWindow) IsRunning() bool {
	return platformIsRunningCheck(w)
}

func (w *engineWindow) RequestClose() {
	platformRequestClose(w)
}

func (w *engineWindow) Close() error {
	return platformCloseWindow(w)
}

func (w *engineWindow) Title() string {
	return w.title
}

func (w *engineWindow) SetTitle(title string) {
	platformSetTitle(w, title)
}

func (w *engineWindow) Width() int {
	return w.width
}

func (w *engineWindow) Height() int {
	return w.height
}

// handleResize records the framebuffer size and forwards it.
func (w *engineWindow) handleResize(width, height int) {
	w.width = width
	w.height = height
	if w.onResize != nil {
		w.onResize(width, height)
	}
}

// handleKey forwards a key event.
func (w *engineWindow) handleKey(keyCode uint32, pressed bool) {
	if w.onKey != nil {
		w.onKey(keyCode, pressed)
	}
}
