package engine

import (
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"

	"github.com/Carmen-Shannon/oxy-surface/common"
	"github.com/Carmen-Shannon/oxy-surface/engine/surfaceview"
	"github.com/Carmen-Shannon/oxy-surface/engine/window"
)

// binding pairs a window with the surface view drawing into it.
type binding struct {
	window window.Window
	view   surfaceview.SurfaceView
}

// engine implements the Engine interface.
// Coordinates the window event loop, the tick loop, and the bound surface views.
type engine struct {
	tickRateChannel chan time.Duration // Channel for dynamic tick rate updates

	running atomic.Bool
	wg      sync.WaitGroup

	quitChannel chan struct{}
	quitOnce    sync.Once // Ensures quitChannel is only closed once

	// mu guards bindings.
	mu       sync.Mutex
	bindings []*binding

	// pending holds WithView bindings until the engine is constructed.
	pending []*binding

	// pool runs blocking view calls for all bindings in parallel.
	pool    worker.DynamicWorkerPool
	workers int

	engineTickRate time.Duration
	tickCallback   func(deltaTime float32)

	pollInterval time.Duration
	pump         func(timeout time.Duration)
	wake         func()

	logger *slog.Logger
}

// Engine is the main entry point for the engine.
// It binds windows to surface views, runs the window event loop, and fans
// host lifecycle changes out to every bound view.
type Engine interface {
	// Bind forwards w's surface lifecycle to v and reports the surface as
	// created at the window's current size. Set v's renderer before binding.
	//
	// Parameters:
	//   - w: the window providing the surface
	//   - v: the surface view drawing into it
	Bind(w window.Window, v surfaceview.SurfaceView)

	// Views returns the surface views of all open windows.
	//
	// Returns:
	//   - []surfaceview.SurfaceView: the views in bind order
	Views() []surfaceview.SurfaceView

	// Pause pauses every bound view and waits until all have paused.
	Pause()

	// Resume resumes every bound view and waits until all have resumed.
	Resume()

	// SetTickRate sets the engine tick rate in ticks per second.
	// The tick callback will be called at this rate.
	//
	// Parameters:
	//   - fps: target ticks per second (defaults to 60 if <= 0)
	SetTickRate(fps float64)

	// SetTickCallback registers the function called each engine tick.
	// Must be set before Run.
	//
	// Parameters:
	//   - callback: function to call at the configured tick rate, receiving the delta time in seconds
	SetTickCallback(callback func(deltaTime float32))

	// Run processes window events until every window is closed or Quit is
	// called, then detaches all views and closes their windows. Must be
	// called from the goroutine that created the windows.
	Run()

	// Quit signals the engine to stop.
	// Safe to call multiple times and from any goroutine; subsequent calls are no-ops.
	Quit()
}

// NewEngine creates a new Engine instance with the provided options.
// Options are applied directly to the engine struct via the option-builder pattern.
//
// Parameters:
//   - options: functional options for engine configuration (tick rate, workers, bound views)
//
// Returns:
//   - Engine: the newly created engine
func NewEngine(options ...EngineBuilderOption) Engine {
	e := &engine{
		tickRateChannel: make(chan time.Duration, 1),
		quitChannel:     make(chan struct{}),
		engineTickRate:  time.Second / 60,
		workers:         4,
		pollInterval:    50 * time.Millisecond,
		pump:            window.ProcessEvents,
		wake:            window.Wake,
		logger:          common.Logger().With("component", "engine"),
	}

	for _, opt := range options {
		opt(e)
	}

	// Queue size of 256 leaves headroom for many windows per fan-out.
	e.pool = worker.NewDynamicWorkerPool(e.workers, 256, 1*time.Second)

	pending := e.pending
	e.pending = nil
	for _, b := range pending {
		e.Bind(b.window, b.view)
	}

	return e
}

func (e *engine) Bind(w window.Window, v surfaceview.SurfaceView) {
	w.SetResizeCallback(func(width, height int) {
		v.SurfaceChanged(width, height)
	})
	w.SetIconifyCallback(func(iconified bool) {
		if iconified {
			v.SurfaceDestroyed()
			return
		}
		v.SurfaceCreated()
		v.SurfaceChanged(w.FramebufferSize())
	})
	w.SetRefreshCallback(func() {
		v.SurfaceRedrawNeededAsync(nil)
	})

	e.mu.Lock()
	e.bindings = append(e.bindings, &binding{window: w, view: v})
	e.mu.Unlock()

	e.logger.Debug("bound window", "title", w.Title())
	v.SurfaceCreated()
	v.SurfaceChanged(w.FramebufferSize())
}

func (e *engine) Views() []surfaceview.SurfaceView {
	bs := e.snapshot()
	out := make([]surfaceview.SurfaceView, len(bs))
	for i, b := range bs {
		out[i] = b.view
	}
	return out
}

func (e *engine) Pause() {
	e.fanOut(e.snapshot(), surfaceview.SurfaceView.OnPause)
}

func (e *engine) Resume() {
	e.fanOut(e.snapshot(), surfaceview.SurfaceView.OnResume)
}

func (e *engine) Run() {
	e.running.Store(true)
	e.wg.Add(1)
	go e.handleEngine()

	e.handleWindows()

	e.signalQuit()
	e.wg.Wait()
	e.shutdown()
	e.running.Store(false)
}

// Quit signals all engine goroutines to stop and shuts down the engine.
// Safe to call multiple times; subsequent calls are no-ops due to sync.Once.
func (e *engine) Quit() {
	e.signalQuit()
	e.wake()
}

// signalQuit closes the quit channel to signal all goroutines to exit.
// Uses sync.Once to ensure the channel is only closed once.
func (e *engine) signalQuit() {
	e.quitOnce.Do(func() {
		close(e.quitChannel)
	})
}

// handleWindows pumps window events until Quit or until no window is left.
func (e *engine) handleWindows() {
	for {
		select {
		case <-e.quitChannel:
			return
		default:
		}

		e.pump(e.pollInterval)

		if e.reap() == 0 {
			return
		}
	}
}

// reap detaches and closes every window that is no longer running.
//
// Returns:
//   - int: the number of windows still open
func (e *engine) reap() int {
	e.mu.Lock()
	var closed []*binding
	live := e.bindings[:0]
	for _, b := range e.bindings {
		if b.window.IsRunning() {
			live = append(live, b)
		} else {
			closed = append(closed, b)
		}
	}
	clear(e.bindings[len(live):])
	e.bindings = live
	n := len(live)
	e.mu.Unlock()

	e.detach(closed)
	return n
}

// shutdown detaches and closes every remaining window.
func (e *engine) shutdown() {
	e.mu.Lock()
	bs := e.bindings
	e.bindings = nil
	e.mu.Unlock()

	e.detach(bs)
}

// detach stops the render threads of bs in parallel, then closes the windows
// on the calling goroutine.
func (e *engine) detach(bs []*binding) {
	if len(bs) == 0 {
		return
	}
	e.fanOut(bs, surfaceview.SurfaceView.OnDetachedFromWindow)
	for _, b := range bs {
		if err := b.window.Close(); err != nil {
			e.logger.Warn("close window", "title", b.window.Title(), "error", err)
		}
		e.logger.Debug("closed window", "title", b.window.Title())
	}
}

// fanOut calls fn for every binding's view on the worker pool and waits for
// all of them. pool.Wait() only returns once workers idle-exit, so a WaitGroup
// is the barrier.
func (e *engine) fanOut(bs []*binding, fn func(surfaceview.SurfaceView)) {
	var wg sync.WaitGroup
	for i, b := range bs {
		wg.Add(1)
		v := b.view
		e.pool.SubmitTask(worker.Task{
			ID: i,
			Do: func() (any, error) {
				defer wg.Done()
				fn(v)
				return nil, nil
			},
		})
	}
	wg.Wait()
}

func (e *engine) snapshot() []*binding {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]*binding(nil), e.bindings...)
}

// handleEngine runs the fixed-rate engine tick loop in its own goroutine.
// Fires the tick callback at the configured tick rate and listens for dynamic rate changes
// via tickRateChannel. Exits when the quit channel is closed.
func (e *engine) handleEngine() {
	defer e.wg.Done()

	ticker := time.NewTicker(e.engineTickRate)
	defer ticker.Stop()

	lastTick := time.Now()

	for {
		select {
		case <-e.quitChannel:
			return
		case <-ticker.C:
			now := time.Now()
			dt := float32(now.Sub(lastTick).Seconds())
			lastTick = now

			if e.tickCallback != nil {
				e.tickCallback(dt)
			}
		case newRate := <-e.tickRateChannel:
			ticker.Reset(newRate)
		}
	}
}

// SetTickRate sets the engine tick rate in ticks per second.
// If the engine is running, the change takes effect immediately.
func (e *engine) SetTickRate(fps float64) {
	newRate := tickRate(fps)

	if !e.running.Load() {
		e.engineTickRate = newRate
		return
	}

	// Non-blocking send - if channel is full, replace the pending value
	select {
	case e.tickRateChannel <- newRate:
	default:
		select {
		case <-e.tickRateChannel:
		default:
		}
		e.tickRateChannel <- newRate
	}
}

// SetTickCallback registers the function called each engine tick.
func (e *engine) SetTickCallback(callback func(deltaTime float32)) {
	e.tickCallback = callback
}

func tickRate(fps float64) time.Duration {
	if fps <= 0 {
		fps = 60
	}
	return time.Duration(float64(time.Second) / fps)
}
