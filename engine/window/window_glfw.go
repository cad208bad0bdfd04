package window

import (
	"fmt"
	"runtime"
	"sync"
	"time"

	"github.com/cogentcore/webgpu/wgpuglfw"
	"github.com/go-gl/glfw/v3.3/glfw"
)

// glfwWindow holds the GLFW-specific window state.
type glfwWindow struct {
	parent *engineWindow
	window *glfw.Window
}

// glfwRefs counts live windows so GLFW is initialized by the first and
// terminated by the last.
var glfwRefs struct {
	sync.Mutex
	n int
}

func acquireGLFW() error {
	glfwRefs.Lock()
	defer glfwRefs.Unlock()
	if glfwRefs.n == 0 {
		if err := glfw.Init(); err != nil {
			return fmt.Errorf("failed to initialize GLFW: %w", err)
		}
	}
	glfwRefs.n++
	return nil
}

func releaseGLFW() {
	glfwRefs.Lock()
	defer glfwRefs.Unlock()
	glfwRefs.n--
	if glfwRefs.n == 0 {
		glfw.Terminate()
	}
}

// newPlatformWindow creates the GLFW window with lifecycle and input callbacks
// and stores it as the internal window.
//
// GLFW reference: https://www.glfw.org/docs/latest/window_guide.html
// go-gl/glfw: https://pkg.go.dev/github.com/go-gl/glfw/v3.3/glfw
func newPlatformWindow(w *engineWindow) error {
	runtime.LockOSThread()

	if err := acquireGLFW(); err != nil {
		return err
	}

	// WebGPU provides its own graphics API, so disable OpenGL context creation.
	// Reference: https://www.glfw.org/docs/latest/window_guide.html#window_hints_ctx
	glfw.WindowHint(glfw.ClientAPI, glfw.NoAPI)

	win, err := glfw.CreateWindow(w.Width(), w.Height(), w.title, nil, nil)
	if err != nil {
		releaseGLFW()
		return fmt.Errorf("failed to create GLFW window: %w", err)
	}
	win.SetSizeLimits(limit(w.minWidth), limit(w.minHeight), limit(w.maxWidth), limit(w.maxHeight))

	gw := &glfwWindow{
		parent: w,
		window: win,
	}
	w.internalWindow = gw

	// Reference: https://pkg.go.dev/github.com/go-gl/glfw/v3.3/glfw#Window.SetKeyCallback
	win.SetKeyCallback(func(_ *glfw.Window, key glfw.Key, scancode int, action glfw.Action, mods glfw.ModifierKey) {
		switch action {
		case glfw.Press, glfw.Repeat:
			if !w.handleKey(uint32(key), true) {
				win.SetShouldClose(true)
			}
		case glfw.Release:
			w.handleKey(uint32(key), false)
		}
	})

	// Use framebuffer size callback for pixel-accurate resize events.
	// On high-DPI displays (e.g., macOS Retina), framebuffer size differs from window size.
	// Reference: https://pkg.go.dev/github.com/go-gl/glfw/v3.3/glfw#Window.SetFramebufferSizeCallback
	win.SetFramebufferSizeCallback(func(_ *glfw.Window, width, height int) {
		w.handleResize(width, height)
	})

	// Reference: https://pkg.go.dev/github.com/go-gl/glfw/v3.3/glfw#Window.SetIconifyCallback
	win.SetIconifyCallback(func(_ *glfw.Window, iconified bool) {
		w.handleIconify(iconified)
	})

	// Reference: https://pkg.go.dev/github.com/go-gl/glfw/v3.3/glfw#Window.SetRefreshCallback
	win.SetRefreshCallback(func(_ *glfw.Window) {
		w.handleRefresh()
	})

	// Reference: https://pkg.go.dev/github.com/go-gl/glfw/v3.3/glfw#Window.SetCloseCallback
	win.SetCloseCallback(func(_ *glfw.Window) {
		w.handleClose()
	})

	// Update stored dimensions to reflect actual framebuffer size (may differ from requested on high-DPI).
	fbWidth, fbHeight := win.GetFramebufferSize()
	w.width.Store(int64(fbWidth))
	w.height.Store(int64(fbHeight))

	// The descriptor is built here on the main thread so render threads never
	// touch GLFW.
	// Reference: https://pkg.go.dev/github.com/cogentcore/webgpu/wgpuglfw#GetSurfaceDescriptor
	w.descriptor.Store(wgpuglfw.GetSurfaceDescriptor(win))
	w.running.Store(true)

	return nil
}

// limit maps a non-positive size limit to glfw.DontCare.
func limit(v int) int {
	if v <= 0 {
		return glfw.DontCare
	}
	return v
}

// platformIsRunningCheck returns whether the GLFW window is still active.
// Returns false if the internal window is nil or GLFW reports ShouldClose.
//
// Parameters:
//   - w: the engineWindow to check
//
// Returns:
//   - bool: true if the window is still running
func platformIsRunningCheck(w *engineWindow) bool {
	if w.internalWindow == nil {
		return false
	}
	gw := w.internalWindow.(*glfwWindow)
	return !gw.window.ShouldClose()
}

// platformCloseWindow destroys the GLFW window and drops this window's
// reference on the GLFW library.
//
// Parameters:
//   - w: the engineWindow to close
//
// Returns:
//   - error: error if the window is not initialized
func platformCloseWindow(w *engineWindow) error {
	if w.internalWindow == nil {
		return ErrNotInitialized
	}
	gw := w.internalWindow.(*glfwWindow)
	gw.window.SetShouldClose(true)
	gw.window.Destroy()
	releaseGLFW()
	return nil
}

// ProcessEvents waits up to timeout for window events and dispatches them to
// the window callbacks. Must be called from the goroutine that created the
// windows.
//
// Reference: https://pkg.go.dev/github.com/go-gl/glfw/v3.3/glfw#WaitEventsTimeout
//
// Parameters:
//   - timeout: the longest time to block; zero or less polls without blocking
func ProcessEvents(timeout time.Duration) {
	if timeout <= 0 {
		glfw.PollEvents()
		return
	}
	glfw.WaitEventsTimeout(timeout.Seconds())
}

// Wake unblocks a pending ProcessEvents call. Safe from any goroutine.
//
// Reference: https://pkg.go.dev/github.com/go-gl/glfw/v3.3/glfw#PostEmptyEvent
func Wake() {
	glfw.PostEmptyEvent()
}
