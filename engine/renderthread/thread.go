package renderthread

import (
	"errors"
	"fmt"
	"log/slog"
	"runtime"

	"github.com/Carmen-Shannon/oxy-surface/common"
	"github.com/Carmen-Shannon/oxy-surface/engine/graphics"
	"github.com/Carmen-Shannon/oxy-surface/engine/profiler"
)

// Thread is a render worker together with its control facade.
// Every method may be called from any goroutine, including from a renderer
// callback running on the worker itself; such reentrant calls never block.
type Thread interface {
	// Start launches the worker goroutine.
	//
	// Returns:
	//   - error: ErrAlreadyStarted if the thread was started or asked to exit before
	Start() error

	// SetRenderMode selects when the worker draws.
	//
	// Parameters:
	//   - mode: RenderModeWhenDirty or RenderModeContinuously
	//
	// Returns:
	//   - error: ErrInvalidRenderMode for any other value; the mode is left unchanged
	SetRenderMode(mode RenderMode) error

	// RenderMode returns the current render mode.
	RenderMode() RenderMode

	// RequestRender asks for one frame. It never blocks.
	RequestRender()

	// RequestRenderAndNotify asks for one frame and runs onDone on the worker
	// right after that frame is drawn. If the worker cannot draw, onDone runs
	// anyway without a frame. Ignored when called from the worker.
	//
	// Parameters:
	//   - onDone: callback run on the worker, may be nil
	RequestRenderAndNotify(onDone func())

	// SurfaceCreated reports that the drawable surface is available. It never blocks.
	SurfaceCreated()

	// SurfaceDestroyed reports that the drawable surface is going away. It
	// blocks until the worker has released its window surface or exited, so
	// the caller may destroy the native window on return.
	SurfaceDestroyed()

	// Resize records a new surface size and blocks until a frame at that size
	// was drawn, unless the worker exits, pauses or becomes unable to draw.
	//
	// Parameters:
	//   - width: surface width in pixels
	//   - height: surface height in pixels
	Resize(width, height int)

	// Pause releases the window surface (and the context unless it is
	// preserved) and blocks until the worker is paused or exited.
	Pause()

	// Resume undoes Pause and blocks until the worker has left the paused state.
	Resume()

	// QueueEvent runs fn on the worker before its next frame. Events run in
	// FIFO order, one per loop iteration.
	//
	// Parameters:
	//   - fn: the event to run
	//
	// Returns:
	//   - error: ErrNilEvent if fn is nil
	QueueEvent(fn func()) error

	// RequestReleaseContext asks the worker to release its surface and context.
	// The context is not reacquired until a frame is requested or some later
	// state change wakes the worker.
	RequestReleaseContext()

	// RequestExit asks the worker to exit without waiting.
	RequestExit()

	// RequestExitAndWait asks the worker to exit and blocks until it has
	// released its resources. Called from the worker it only requests the exit.
	RequestExitAndWait()

	// Exited reports whether the worker has finished.
	Exited() bool

	// State returns the observable worker state.
	State() State
}

// thread is the Thread implementation. Fields below the marker are guarded
// by mgr.mu.
type thread struct {
	host     HostRef
	platform graphics.Platform
	logger   *slog.Logger
	profiler *profiler.Profiler
	onFatal  func(error)
	name     string

	// guarded by mgr.mu
	tid                    int64
	started                bool
	shouldExit             bool
	exited                 bool
	requestPaused          bool
	paused                 bool
	hasSurface             bool
	surfaceIsBad           bool
	waitingForSurface      bool
	surfaceLosses          uint64
	surfaceLossesSeen      uint64
	ctx                    contextState
	haveSurface            bool
	shouldReleaseContext   bool
	width                  int
	height                 int
	sizeChanged            bool
	renderMode             RenderMode
	requestRender          bool
	renderComplete         bool
	wantRenderNotification bool
	finishDrawing          func()
	eventQueue             []func()
	drawing                bool
}

// New creates a render thread for the host. The thread does nothing until Start.
//
// Parameters:
//   - p: the graphics platform the worker drives
//   - host: weak reference to the owning view
//   - options: functional options to configure the thread
//
// Returns:
//   - Thread: the new, unstarted thread
func New(p graphics.Platform, host HostRef, options ...ThreadBuilderOption) Thread {
	t := &thread{
		host:          host,
		platform:      p,
		name:          "render",
		renderMode:    RenderModeContinuously,
		requestRender: true,
		sizeChanged:   true,
	}
	for _, opt := range options {
		opt(t)
	}
	t.logger = common.Logger().With("component", "renderthread", "thread", t.name)
	return t
}

func (t *thread) Start() error {
	mgr.mu.Lock()
	defer mgr.mu.Unlock()
	if t.started || t.shouldExit {
		return ErrAlreadyStarted
	}
	t.started = true
	go t.run()
	return nil
}

// run is the worker goroutine. The OS thread stays locked until the
// goroutine exits, which discards it.
func (t *thread) run() {
	runtime.LockOSThread()

	mgr.mu.Lock()
	t.tid = threadID()
	mgr.mu.Unlock()

	t.logger.Info("render thread started")
	defer mgr.threadExiting(t)

	if err := t.guardedRun(); err != nil {
		t.logger.Error("render thread failed", "err", err)
		if t.onFatal != nil {
			t.onFatal(err)
		}
		return
	}
	t.logger.Info("render thread exited")
}

// guardedRun runs the loop and always releases the graphics session before
// returning, whether the loop ends normally, with an error or by panic.
func (t *thread) guardedRun() (err error) {
	s := graphics.NewSession(t.platform, t.collaborators)
	defer func() {
		if r := recover(); r != nil {
			if e, ok := r.(error); ok {
				err = fmt.Errorf("%w: %w", ErrRendererPanic, e)
			} else {
				err = fmt.Errorf("%w: %v", ErrRendererPanic, r)
			}
		}
		t.teardown(s)
	}()
	return t.loop(s)
}

func (t *thread) teardown(s *graphics.Session) {
	mgr.mu.Lock()
	t.haveSurface = false
	t.ctx = contextReleased
	t.drawing = false
	mgr.cond.Broadcast()
	mgr.mu.Unlock()

	s.DestroySurface()
	if err := s.Finish(); err != nil {
		t.logger.Warn("release context failed", "err", err)
	}
}

func (t *thread) collaborators() (graphics.Collaborators, bool) {
	h, ok := t.host()
	if !ok {
		return graphics.Collaborators{}, false
	}
	return h.Collaborators(), true
}

func (t *thread) renderer() graphics.Renderer {
	h, ok := t.host()
	if !ok {
		return nil
	}
	return h.Renderer()
}

type action int

const (
	actionExit action = iota
	actionEvent
	actionRelease
	actionFinishEarly
	actionDraw
)

// release names the resources a step gives up outside the monitor.
type release struct {
	surface bool
	context bool
}

func (r release) any() bool { return r.surface || r.context }

// step is what the worker does next, decided under the monitor.
type step struct {
	action  action
	event   func()
	release release
	// settle runs under the monitor once the release is done.
	settle func()
}

// pass is worker-local state carried between loop iterations.
type pass struct {
	startSession           bool
	surfaceCreated         bool
	createSurface          bool
	createInterface        bool
	sizeChanged            bool
	lostContext            bool
	badSurface             bool
	wantRenderNotification bool
	doRenderNotification   bool
	width, height          int
	finishDrawing          func()
	gi                     graphics.Interface
}

func (t *thread) loop(s *graphics.Session) error {
	var p pass
	for {
		mgr.mu.Lock()
		st := t.next(&p)
		mgr.mu.Unlock()

		switch st.action {
		case actionExit:
			return nil

		case actionEvent:
			st.event()
			continue

		case actionRelease:
			t.release(s, st.release)
			mgr.mu.Lock()
			if st.settle != nil {
				st.settle()
			}
			mgr.cond.Broadcast()
			mgr.mu.Unlock()
			continue

		case actionFinishEarly:
			t.logger.Warn("running finish-drawing callback without a frame")
			st.event()
			continue
		}

		if err := t.draw(s, &p); err != nil {
			if errors.Is(err, graphics.ErrSurfaceUnavailable) {
				mgr.mu.Lock()
				t.surfaceIsBad = true
				t.drawing = false
				mgr.cond.Broadcast()
				mgr.mu.Unlock()
				continue
			}
			return err
		}
	}
}

func (t *thread) release(s *graphics.Session, r release) {
	if r.context {
		t.logger.Debug("releasing context")
		if err := s.Finish(); err != nil {
			t.logger.Warn("release context failed", "err", err)
		}
		return
	}
	if r.surface {
		t.logger.Debug("releasing surface")
		s.DestroySurface()
	}
}

// draw performs the slow part of one pass outside the monitor.
func (t *thread) draw(s *graphics.Session, p *pass) error {
	if p.startSession {
		if err := s.Start(); err != nil {
			mgr.mu.Lock()
			t.ctx = contextReleased
			t.haveSurface = false
			t.drawing = false
			mgr.mu.Unlock()
			return err
		}
		p.startSession = false
	}

	if p.createSurface {
		if err := s.CreateSurface(); err != nil {
			return err
		}
		p.createSurface = false
	}

	if p.createInterface {
		p.gi = s.Interface()
		p.createInterface = false
	}

	r := t.renderer()
	if p.surfaceCreated {
		t.logger.Debug("surface created")
		if r != nil {
			r.OnSurfaceCreated(p.gi, s.Config())
		}
		p.surfaceCreated = false
	}
	if p.sizeChanged {
		t.logger.Debug("surface changed", "width", p.width, "height", p.height)
		if r != nil {
			r.OnSurfaceChanged(p.gi, p.width, p.height)
		}
		p.sizeChanged = false
	}
	if r != nil {
		r.OnDrawFrame(p.gi)
	}
	if p.finishDrawing != nil {
		p.finishDrawing()
		p.finishDrawing = nil
	}

	switch code := s.Present(); code {
	case graphics.CodeSuccess:
	case graphics.CodeContextLost:
		t.logger.Debug("context lost")
		p.lostContext = true
	default:
		t.logger.Warn("present failed", "code", code)
		p.badSurface = true
	}

	if p.wantRenderNotification {
		p.doRenderNotification = true
		p.wantRenderNotification = false
	}
	if t.profiler != nil {
		t.profiler.Tick()
	}
	return nil
}

// next decides the worker's next step. It is called with mgr.mu held and
// waits on the monitor until there is something to do.
func (t *thread) next(p *pass) step {
	if t.drawing {
		t.drawing = false
		mgr.cond.Broadcast()
	}
	for {
		if t.shouldExit {
			return step{action: actionExit}
		}

		if len(t.eventQueue) > 0 {
			ev := t.eventQueue[0]
			t.eventQueue[0] = nil
			t.eventQueue = t.eventQueue[1:]
			if len(t.eventQueue) == 0 {
				t.eventQueue = nil
			}
			return step{action: actionEvent, event: ev}
		}

		if t.paused != t.requestPaused {
			if t.requestPaused {
				var r release
				if t.haveSurface {
					t.haveSurface = false
					r.surface = true
				}
				if t.ctx == contextHeld && !t.preserveContextOnPause() {
					t.ctx = contextReleased
					r.context = true
				}
				if r.any() {
					return step{action: actionRelease, release: r, settle: t.settlePause}
				}
				t.settlePause()
			} else {
				t.paused = false
				t.logger.Debug("resumed")
			}
			mgr.cond.Broadcast()
		}

		if t.shouldReleaseContext {
			r := t.takeResources()
			t.shouldReleaseContext = false
			t.ctx = contextEvicted
			mgr.cond.Broadcast()
			if r.any() {
				return step{action: actionRelease, release: r}
			}
		}

		if p.lostContext {
			p.lostContext = false
			if r := t.takeResources(); r.any() {
				return step{action: actionRelease, release: r}
			}
		}

		if p.badSurface {
			p.badSurface = false
			if t.haveSurface {
				t.haveSurface = false
				return step{action: actionRelease, release: release{surface: true}, settle: t.settleBadSurface}
			}
		}

		if t.surfaceLossesSeen != t.surfaceLosses || (!t.hasSurface && !t.waitingForSurface) {
			losses := t.surfaceLosses
			settle := func() { t.settleSurfaceLost(losses) }
			if t.haveSurface {
				t.haveSurface = false
				return step{action: actionRelease, release: release{surface: true}, settle: settle}
			}
			settle()
			mgr.cond.Broadcast()
		}

		if t.hasSurface && t.waitingForSurface {
			t.logger.Debug("surface available")
			t.waitingForSurface = false
			mgr.cond.Broadcast()
		}

		if p.doRenderNotification {
			t.wantRenderNotification = false
			p.doRenderNotification = false
			t.renderComplete = true
			mgr.cond.Broadcast()
		}

		if t.finishDrawing != nil {
			p.finishDrawing = t.finishDrawing
			t.finishDrawing = nil
		}

		if t.readyToDraw() {
			// An evicted context is reacquired only after the next wakeup.
			if t.ctx == contextReleased {
				t.ctx = contextHeld
				p.startSession = true
				p.surfaceCreated = true
				mgr.cond.Broadcast()
			}

			if t.ctx == contextHeld && !t.haveSurface {
				t.haveSurface = true
				p.createSurface = true
				p.createInterface = true
				p.sizeChanged = true
			}

			if t.haveSurface {
				if t.sizeChanged {
					p.sizeChanged = true
					p.width = t.width
					p.height = t.height
					t.wantRenderNotification = true
					p.createSurface = true
					t.sizeChanged = false
				}
				t.requestRender = false
				if t.wantRenderNotification {
					p.wantRenderNotification = true
				}
				t.drawing = true
				mgr.cond.Broadcast()
				return step{action: actionDraw}
			}
		} else if p.finishDrawing != nil {
			f := p.finishDrawing
			p.finishDrawing = nil
			return step{action: actionFinishEarly, event: f}
		}

		mgr.cond.Wait()
		if t.ctx == contextEvicted {
			t.ctx = contextReleased
		}
	}
}

// takeResources marks the surface and context released and reports which
// ones the worker must release.
func (t *thread) takeResources() release {
	var r release
	if t.haveSurface {
		t.haveSurface = false
		r.surface = true
	}
	if t.ctx == contextHeld {
		t.ctx = contextReleased
		r.context = true
	}
	return r
}

func (t *thread) settlePause() {
	if t.requestPaused {
		t.paused = true
		t.logger.Debug("paused")
	}
}

// settleSurfaceLost acknowledges every surface loss up to losses.
func (t *thread) settleSurfaceLost(losses uint64) {
	t.logger.Debug("waiting for surface")
	t.waitingForSurface = true
	t.surfaceLossesSeen = losses
	t.surfaceIsBad = false
}

// settleBadSurface follows a failed present. The next ready pass creates a
// fresh surface and redraws the lost frame.
func (t *thread) settleBadSurface() {
	t.logger.Debug("recreating surface after present failure")
	t.requestRender = true
}

func (t *thread) preserveContextOnPause() bool {
	h, ok := t.host()
	return ok && h.PreserveContextOnPause()
}

func (t *thread) readyToDraw() bool {
	return !t.paused && t.hasSurface && !t.surfaceIsBad &&
		t.width > 0 && t.height > 0 &&
		(t.requestRender || t.renderMode == RenderModeContinuously)
}

func (t *thread) ableToDraw() bool {
	return t.ctx == contextHeld && t.haveSurface && t.readyToDraw()
}

// onWorker reports whether the caller runs on the worker. Called with mgr.mu held.
func (t *thread) onWorker() bool {
	return t.tid != 0 && t.tid == threadID()
}
