package window

import (
	"errors"
	"sync/atomic"

	"github.com/cogentcore/webgpu/wgpu"

	"github.com/Carmen-Shannon/oxy-surface/common"
)

// ErrNotInitialized is returned when a platform call is made on a window
// that was never spawned.
var ErrNotInitialized = errors.New("window is not initialized")

// Window provides a native window whose surface lifecycle drives a render
// thread. Callbacks fire on the event-processing goroutine. SurfaceDescriptor
// and FramebufferSize are safe to call from any goroutine.
type Window interface {
	// SetResizeCallback sets the function called when the framebuffer is resized.
	//
	// Parameters:
	//   - callback: function receiving new width and height in pixels
	SetResizeCallback(callback func(width, height int))

	// SetIconifyCallback sets the function called when the window is minimized
	// or restored. A minimized window has no drawable surface.
	//
	// Parameters:
	//   - callback: function receiving true when minimized, false when restored
	SetIconifyCallback(callback func(iconified bool))

	// SetRefreshCallback sets the function called when the window contents
	// are damaged and need to be redrawn.
	//
	// Parameters:
	//   - callback: function to call (or nil to disable)
	SetRefreshCallback(callback func())

	// SetCloseCallback sets the function called when the user asks to close
	// the window.
	//
	// Parameters:
	//   - callback: function to call (or nil to disable)
	SetCloseCallback(callback func())

	// SetKeyDownCallback sets the callback for key press events.
	//
	// Parameters:
	//   - callback: function receiving the virtual key code
	SetKeyDownCallback(callback func(keyCode uint32))

	// SetKeyUpCallback sets the callback for key release events.
	//
	// Parameters:
	//   - callback: function receiving the virtual key code
	SetKeyUpCallback(callback func(keyCode uint32))

	// SurfaceDescriptor returns a wgpu.SurfaceDescriptor suitable for creating a WebGPU surface.
	// The descriptor is captured by the wgpuglfw bridge when the window is spawned.
	//
	// Returns:
	//   - *wgpu.SurfaceDescriptor: the platform-specific surface descriptor, or nil once closed
	SurfaceDescriptor() *wgpu.SurfaceDescriptor

	// FramebufferSize returns the current drawable size in pixels.
	//
	// Returns:
	//   - int: width in pixels
	//   - int: height in pixels
	FramebufferSize() (width, height int)

	// Title returns the window title.
	Title() string

	// IsRunning returns true if the window is still active.
	//
	// Returns:
	//   - bool: true if window is running, false if closed or a close was requested
	IsRunning() bool

	// Close destroys the window and releases platform resources. Any surface
	// created from the window must be released before Close is called.
	//
	// Returns:
	//   - error: ErrNotInitialized if the window was never spawned
	Close() error

	// Width returns the current framebuffer width in pixels.
	//
	// Returns:
	//   - int: width in pixels
	Width() int

	// Height returns the current framebuffer height in pixels.
	//
	// Returns:
	//   - int: height in pixels
	Height() int
}

// engineWindow is the implementation of the Window interface.
// Holds window configuration, GLFW state, and event callbacks.
type engineWindow struct {
	// title is the window title displayed in the title bar.
	title string

	// maxWidth is the maximum allowed window width during resize.
	maxWidth int

	// maxHeight is the maximum allowed window height during resize.
	maxHeight int

	// minWidth is the minimum allowed window width during resize.
	minWidth int

	// minHeight is the minimum allowed window height during resize.
	minHeight int

	// width and height are the requested client area size before spawning,
	// then the framebuffer size. Render threads read them concurrently.
	width  atomic.Int64
	height atomic.Int64

	// closeOnEscape closes the window when Escape is pressed.
	closeOnEscape bool

	running    atomic.Bool
	closed     atomic.Bool
	descriptor atomic.Pointer[wgpu.SurfaceDescriptor]

	// internalWindow holds the platform-specific window data (glfwWindow).
	internalWindow any

	onResize  func(width, height int)
	onIconify func(iconified bool)
	onRefresh func()
	onClose   func()
	onKeyDown func(keyCode uint32)
	onKeyUp   func(keyCode uint32)
}

var _ Window = &engineWindow{}

// NewWindow creates and spawns a new Window with the specified options.
// Applies default values first, then each option in order. Must be called
// from the main goroutine, which stays locked to its OS thread.
//
// Parameters:
//   - options: functional options to configure the window
//
// Returns:
//   - Window: the spawned window
//   - error: error if the platform window could not be created
func NewWindow(options ...WindowBuilderOption) (Window, error) {
	w := newEngineWindow(options...)
	if err := newPlatformWindow(w); err != nil {
		return nil, err
	}
	common.Logger().Info("window created", "title", w.title, "width", w.Width(), "height", w.Height())
	return w, nil
}

func newEngineWindow(options ...WindowBuilderOption) *engineWindow {
	w := &engineWindow{
		title:         "Default Window Title",
		maxWidth:      1600,
		maxHeight:     1200,
		minWidth:      600,
		minHeight:     200,
		closeOnEscape: true,
	}
	w.width.Store(1280)
	w.height.Store(720)
	for _, opt := range options {
		opt(w)
	}
	return w
}

func (w *engineWindow) SetResizeCallback(callback func(width, height int)) {
	w.onResize = callback
}

func (w *engineWindow) SetIconifyCallback(callback func(iconified bool)) {
	w.onIconify = callback
}

func (w *engineWindow) SetRefreshCallback(callback func()) {
	w.onRefresh = callback
}

func (w *engineWindow) SetCloseCallback(callback func()) {
	w.onClose = callback
}

func (w *engineWindow) SetKeyDownCallback(callback func(keyCode uint32)) {
	w.onKeyDown = callback
}

func (w *engineWindow) SetKeyUpCallback(callback func(keyCode uint32)) {
	w.onKeyUp = callback
}

func (w *engineWindow) SurfaceDescriptor() *wgpu.SurfaceDescriptor {
	return w.descriptor.Load()
}

func (w *engineWindow) FramebufferSize() (int, int) {
	return w.Width(), w.Height()
}

func (w *engineWindow) Title() string {
	return w.title
}

func (w *engineWindow) IsRunning() bool {
	return w.running.Load() && platformIsRunningCheck(w)
}

func (w *engineWindow) Close() error {
	if w.internalWindow == nil {
		return ErrNotInitialized
	}
	if !w.closed.CompareAndSwap(false, true) {
		return nil
	}
	w.running.Store(false)
	w.descriptor.Store(nil)
	return platformCloseWindow(w)
}

func (w *engineWindow) Width() int {
	return int(w.width.Load())
}

func (w *engineWindow) Height() int {
	return int(w.height.Load())
}

func (w *engineWindow) handleResize(width, height int) {
	w.width.Store(int64(width))
	w.height.Store(int64(height))
	if w.onResize != nil {
		w.onResize(width, height)
	}
}

func (w *engineWindow) handleIconify(iconified bool) {
	if w.onIconify != nil {
		w.onIconify(iconified)
	}
}

func (w *engineWindow) handleRefresh() {
	if w.onRefresh != nil {
		w.onRefresh()
	}
}

func (w *engineWindow) handleClose() {
	w.running.Store(false)
	if w.onClose != nil {
		w.onClose()
	}
}

// handleKey dispatches a key event. It reports false when the event closed
// the window.
func (w *engineWindow) handleKey(key uint32, pressed bool) bool {
	if pressed && w.closeOnEscape && key == common.KeyEsc {
		w.handleClose()
		return false
	}
	if pressed {
		if w.onKeyDown != nil {
			w.onKeyDown(key)
		}
		return true
	}
	if w.onKeyUp != nil {
		w.onKeyUp(key)
	}
	return true
}
