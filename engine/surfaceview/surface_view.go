// Package surfaceview hosts a renderer on a native window. A SurfaceView owns
// the render thread and forwards the window's surface lifecycle to it.
package surfaceview

import (
	"errors"
	"log/slog"
	"runtime"
	"sync"
	"sync/atomic"

	"github.com/Carmen-Shannon/oxy-surface/common"
	"github.com/Carmen-Shannon/oxy-surface/engine/graphics"
	"github.com/Carmen-Shannon/oxy-surface/engine/profiler"
	"github.com/Carmen-Shannon/oxy-surface/engine/renderthread"
)

var (
	// ErrAlreadyAttached is returned when a renderer is set twice.
	ErrAlreadyAttached = errors.New("surfaceview: renderer already attached")

	// ErrNoRenderer is returned by operations that need an attached renderer.
	ErrNoRenderer = errors.New("surfaceview: no renderer attached")

	// ErrNilRenderer is returned when SetRenderer is given nil.
	ErrNilRenderer = errors.New("surfaceview: nil renderer")
)

// SurfaceView hosts a Renderer on a native window.
//
// The windowing layer reports surface changes through SurfaceCreated,
// SurfaceChanged and SurfaceDestroyed, and host lifecycle through OnPause,
// OnResume, OnAttachedToWindow and OnDetachedFromWindow. All methods are safe
// for concurrent use and may be called from renderer callbacks.
type SurfaceView interface {
	// SetRenderer attaches r and starts the render thread. It may be called once.
	//
	// Parameters:
	//   - r: the renderer to drive
	//
	// Returns:
	//   - error: ErrAlreadyAttached on a second call, ErrNilRenderer for nil
	SetRenderer(r graphics.Renderer) error

	// SetRenderMode selects when frames are drawn. Before SetRenderer the mode
	// is recorded and applied when the render thread starts.
	//
	// Parameters:
	//   - mode: the render mode
	//
	// Returns:
	//   - error: renderthread.ErrInvalidRenderMode for unknown modes
	SetRenderMode(mode renderthread.RenderMode) error

	// RenderMode returns the current render mode.
	RenderMode() renderthread.RenderMode

	// RequestRender asks for a frame.
	RequestRender()

	// SurfaceCreated reports that the native window can be drawn to.
	SurfaceCreated()

	// SurfaceChanged reports a new surface size and waits for a frame at that size.
	//
	// Parameters:
	//   - width: surface width in pixels
	//   - height: surface height in pixels
	SurfaceChanged(width, height int)

	// SurfaceDestroyed reports that the native window is going away and waits
	// until the render thread no longer uses it.
	SurfaceDestroyed()

	// SurfaceRedrawNeededAsync asks for a frame and calls finishDrawing on the
	// render thread once it is drawn.
	//
	// Parameters:
	//   - finishDrawing: callback run after the frame, may be nil
	SurfaceRedrawNeededAsync(finishDrawing func())

	// OnPause pauses rendering and releases graphics resources.
	OnPause()

	// OnResume resumes rendering.
	OnResume()

	// QueueEvent runs fn on the render thread.
	//
	// Parameters:
	//   - fn: the event
	//
	// Returns:
	//   - error: ErrNoRenderer before SetRenderer, renderthread.ErrNilEvent for nil
	QueueEvent(fn func()) error

	// RequestReleaseContext asks the render thread to give up its context.
	RequestReleaseContext()

	// OnAttachedToWindow restarts rendering after OnDetachedFromWindow.
	// The new render thread keeps the previous render mode.
	OnAttachedToWindow()

	// OnDetachedFromWindow stops the render thread and waits for it to exit.
	OnDetachedFromWindow()

	// SetDebugFlags selects debug decorators for the drawing interface.
	// Takes effect at the next context creation.
	SetDebugFlags(flags graphics.DebugFlags)

	// DebugFlags returns the current debug flags.
	DebugFlags() graphics.DebugFlags

	// SetPreserveContextOnPause controls whether OnPause keeps the context.
	SetPreserveContextOnPause(preserve bool)

	// PreserveContextOnPause reports whether OnPause keeps the context.
	PreserveContextOnPause() bool

	// State returns the render thread state, or StateIdle before SetRenderer.
	State() renderthread.State

	// Close stops the render thread and waits for it to exit.
	Close()
}

type rendererBox struct {
	r graphics.Renderer
}

type surfaceView struct {
	platform     graphics.Platform
	nativeWindow graphics.NativeWindow
	logger       *slog.Logger
	name         string

	configChooser  graphics.ConfigChooser
	contextFactory graphics.ContextFactory
	surfaceFactory graphics.WindowSurfaceFactory
	wrapper        graphics.Wrapper
	profiling      bool
	onFatal        func(error)

	debugFlags atomic.Int64
	preserve   atomic.Bool
	renderer   atomic.Pointer[rendererBox]

	// mu guards the fields below. It is never held across a blocking call
	// into the render thread.
	mu         sync.Mutex
	renderMode renderthread.RenderMode
	thread     renderthread.Thread
	detached   bool
	cleanup    runtime.Cleanup
	hasCleanup bool
}

// New creates a SurfaceView for a native window. Nothing renders until
// SetRenderer is called.
//
// Parameters:
//   - p: the graphics platform
//   - win: the native window surfaces are created for
//   - options: functional options to configure the view
//
// Returns:
//   - SurfaceView: the new view
func New(p graphics.Platform, win graphics.NativeWindow, options ...SurfaceViewBuilderOption) SurfaceView {
	v := &surfaceView{
		platform:     p,
		nativeWindow: win,
		name:         "surface",
		renderMode:   renderthread.RenderModeContinuously,
	}
	for _, opt := range options {
		opt(v)
	}
	v.logger = common.Logger().With("component", "surfaceview", "view", v.name)
	return v
}

// Renderer implements renderthread.Host.
func (v *surfaceView) Renderer() graphics.Renderer {
	if b := v.renderer.Load(); b != nil {
		return b.r
	}
	return nil
}

// Collaborators implements renderthread.Host.
func (v *surfaceView) Collaborators() graphics.Collaborators {
	return graphics.Collaborators{
		ConfigChooser:  v.configChooser,
		ContextFactory: v.contextFactory,
		SurfaceFactory: v.surfaceFactory,
		NativeWindow:   v.nativeWindow,
		Wrapper:        v.wrapper,
		DebugFlags:     v.DebugFlags(),
	}
}

func (v *surfaceView) PreserveContextOnPause() bool { return v.preserve.Load() }

func (v *surfaceView) SetPreserveContextOnPause(preserve bool) { v.preserve.Store(preserve) }

func (v *surfaceView) DebugFlags() graphics.DebugFlags {
	return graphics.DebugFlags(v.debugFlags.Load())
}

func (v *surfaceView) SetDebugFlags(flags graphics.DebugFlags) {
	v.debugFlags.Store(int64(flags))
}

func (v *surfaceView) SetRenderer(r graphics.Renderer) error {
	if r == nil {
		return ErrNilRenderer
	}
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.renderer.Load() != nil {
		return ErrAlreadyAttached
	}
	if v.configChooser == nil {
		v.configChooser = graphics.NewSimpleConfigChooser(true)
	}
	if v.contextFactory == nil {
		v.contextFactory = graphics.DefaultContextFactory{}
	}
	if v.surfaceFactory == nil {
		v.surfaceFactory = graphics.DefaultWindowSurfaceFactory{}
	}
	v.renderer.Store(&rendererBox{r: r})
	v.logger.Debug("renderer attached")
	return v.startThreadLocked()
}

// startThreadLocked creates and starts a render thread. Called with v.mu held.
func (v *surfaceView) startThreadLocked() error {
	opts := []renderthread.ThreadBuilderOption{
		renderthread.WithName(v.name),
		renderthread.WithRenderMode(v.renderMode),
	}
	if v.profiling {
		opts = append(opts, renderthread.WithProfiler(profiler.NewProfiler(v.name)))
	}
	if v.onFatal != nil {
		opts = append(opts, renderthread.WithFatalHandler(v.onFatal))
	}

	th := renderthread.New(v.platform, renderthread.WeakHost(v), opts...)
	if err := th.Start(); err != nil {
		return err
	}
	v.thread = th

	// An unreachable view must not leave its thread running.
	if v.hasCleanup {
		v.cleanup.Stop()
	}
	v.cleanup = runtime.AddCleanup(v, func(t renderthread.Thread) {
		t.RequestExit()
	}, th)
	v.hasCleanup = true
	return nil
}

// current returns the render thread, or nil before SetRenderer.
func (v *surfaceView) current() renderthread.Thread {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.thread
}

func (v *surfaceView) SetRenderMode(mode renderthread.RenderMode) error {
	if !mode.Valid() {
		return renderthread.ErrInvalidRenderMode
	}
	v.mu.Lock()
	v.renderMode = mode
	th := v.thread
	v.mu.Unlock()
	if th != nil {
		return th.SetRenderMode(mode)
	}
	return nil
}

func (v *surfaceView) RenderMode() renderthread.RenderMode {
	if th := v.current(); th != nil {
		return th.RenderMode()
	}
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.renderMode
}

func (v *surfaceView) RequestRender() {
	if th := v.current(); th != nil {
		th.RequestRender()
	}
}

func (v *surfaceView) SurfaceCreated() {
	if th := v.current(); th != nil {
		th.SurfaceCreated()
	}
}

func (v *surfaceView) SurfaceChanged(width, height int) {
	if th := v.current(); th != nil {
		th.Resize(width, height)
	}
}

func (v *surfaceView) SurfaceDestroyed() {
	if th := v.current(); th != nil {
		th.SurfaceDestroyed()
	}
}

func (v *surfaceView) SurfaceRedrawNeededAsync(finishDrawing func()) {
	if th := v.current(); th != nil {
		th.RequestRenderAndNotify(finishDrawing)
	}
}

func (v *surfaceView) OnPause() {
	if th := v.current(); th != nil {
		th.Pause()
	}
}

func (v *surfaceView) OnResume() {
	if th := v.current(); th != nil {
		th.Resume()
	}
}

func (v *surfaceView) QueueEvent(fn func()) error {
	th := v.current()
	if th == nil {
		return ErrNoRenderer
	}
	return th.QueueEvent(fn)
}

func (v *surfaceView) RequestReleaseContext() {
	if th := v.current(); th != nil {
		th.RequestReleaseContext()
	}
}

func (v *surfaceView) OnAttachedToWindow() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.logger.Debug("attached to window", "detached", v.detached)
	if v.detached && v.renderer.Load() != nil {
		if v.thread != nil {
			// The old thread has exited; only its mode is carried over.
			v.renderMode = v.thread.RenderMode()
		}
		if err := v.startThreadLocked(); err != nil {
			v.logger.Warn("restart render thread failed", "err", err)
		}
	}
	v.detached = false
}

func (v *surfaceView) OnDetachedFromWindow() {
	v.logger.Debug("detached from window")
	v.mu.Lock()
	th := v.thread
	v.detached = true
	v.mu.Unlock()
	if th != nil {
		th.RequestExitAndWait()
	}
}

func (v *surfaceView) State() renderthread.State {
	if th := v.current(); th != nil {
		return th.State()
	}
	return renderthread.StateIdle
}

func (v *surfaceView) Close() {
	v.mu.Lock()
	th := v.thread
	if v.hasCleanup {
		v.cleanup.Stop()
		v.hasCleanup = false
	}
	v.mu.Unlock()
	if th != nil {
		th.RequestExitAndWait()
	}
}
