package renderthread

func (t *thread) SetRenderMode(mode RenderMode) error {
	if !mode.Valid() {
		return ErrInvalidRenderMode
	}
	mgr.mu.Lock()
	defer mgr.mu.Unlock()
	t.renderMode = mode
	mgr.cond.Broadcast()
	return nil
}

func (t *thread) RenderMode() RenderMode {
	mgr.mu.Lock()
	defer mgr.mu.Unlock()
	return t.renderMode
}

func (t *thread) RequestRender() {
	mgr.mu.Lock()
	defer mgr.mu.Unlock()
	t.requestFrameLocked()
	mgr.cond.Broadcast()
}

func (t *thread) RequestRenderAndNotify(onDone func()) {
	mgr.mu.Lock()
	defer mgr.mu.Unlock()
	if t.onWorker() {
		return
	}
	t.wantRenderNotification = true
	t.requestFrameLocked()
	t.renderComplete = false
	t.finishDrawing = onDone
	mgr.cond.Broadcast()
}

func (t *thread) SurfaceCreated() {
	mgr.mu.Lock()
	defer mgr.mu.Unlock()
	t.logger.Debug("surface created by window")
	t.hasSurface = true
	mgr.cond.Broadcast()
}

func (t *thread) SurfaceDestroyed() {
	mgr.mu.Lock()
	defer mgr.mu.Unlock()
	t.logger.Debug("surface destroyed by window")
	t.hasSurface = false
	t.surfaceLosses++
	loss := t.surfaceLosses
	mgr.cond.Broadcast()
	if !t.mayWait() {
		return
	}
	for !t.exited && t.surfaceLossesSeen < loss {
		mgr.cond.Wait()
	}
}

func (t *thread) Resize(width, height int) {
	mgr.mu.Lock()
	defer mgr.mu.Unlock()
	t.width = width
	t.height = height
	t.sizeChanged = true
	t.requestFrameLocked()
	t.renderComplete = false
	if t.onWorker() {
		return
	}
	mgr.cond.Broadcast()
	if !t.started {
		return
	}
	// The frame in flight counts as able to draw; the worker clears
	// requestRender before it draws.
	for !t.exited && !t.paused && !t.renderComplete && (t.drawing || t.ableToDraw()) {
		mgr.cond.Wait()
	}
}

func (t *thread) Pause() {
	mgr.mu.Lock()
	defer mgr.mu.Unlock()
	t.requestPaused = true
	mgr.cond.Broadcast()
	if !t.mayWait() {
		return
	}
	for !t.exited && !t.paused && t.requestPaused {
		mgr.cond.Wait()
	}
}

func (t *thread) Resume() {
	mgr.mu.Lock()
	defer mgr.mu.Unlock()
	t.requestPaused = false
	t.requestFrameLocked()
	t.renderComplete = false
	mgr.cond.Broadcast()
	if !t.mayWait() {
		return
	}
	for !t.exited && t.paused && !t.renderComplete {
		mgr.cond.Wait()
	}
}

func (t *thread) QueueEvent(fn func()) error {
	if fn == nil {
		return ErrNilEvent
	}
	mgr.mu.Lock()
	defer mgr.mu.Unlock()
	t.eventQueue = append(t.eventQueue, fn)
	mgr.cond.Broadcast()
	return nil
}

func (t *thread) RequestReleaseContext() {
	mgr.mu.Lock()
	defer mgr.mu.Unlock()
	t.shouldReleaseContext = true
	mgr.cond.Broadcast()
}

func (t *thread) RequestExit() {
	mgr.mu.Lock()
	defer mgr.mu.Unlock()
	t.requestExitLocked()
}

func (t *thread) RequestExitAndWait() {
	mgr.mu.Lock()
	defer mgr.mu.Unlock()
	t.requestExitLocked()
	if t.onWorker() {
		return
	}
	for !t.exited {
		mgr.cond.Wait()
	}
}

func (t *thread) requestExitLocked() {
	t.shouldExit = true
	if !t.started {
		// Nothing to tear down.
		t.exited = true
	}
	mgr.cond.Broadcast()
}

func (t *thread) Exited() bool {
	mgr.mu.Lock()
	defer mgr.mu.Unlock()
	return t.exited
}

func (t *thread) State() State {
	mgr.mu.Lock()
	defer mgr.mu.Unlock()
	switch {
	case t.exited:
		return StateExited
	case t.shouldExit:
		return StateExiting
	case t.paused:
		return StatePaused
	case t.drawing:
		return StateDrawing
	case t.ctx == contextEvicted, !t.readyToDraw():
		return StateIdle
	case t.ctx != contextHeld:
		return StateAcquiringContext
	case !t.haveSurface:
		return StateAcquiringSurface
	default:
		return StateReady
	}
}

// requestFrameLocked asks for a frame. A frame request also lifts an
// eviction, so it is never lost to a worker that has not yet gone to sleep.
// Called with mgr.mu held.
func (t *thread) requestFrameLocked() {
	t.requestRender = true
	if t.ctx == contextEvicted {
		t.ctx = contextReleased
	}
}

// mayWait reports whether a facade call may block for the worker. Called with
// mgr.mu held.
func (t *thread) mayWait() bool {
	return t.started && !t.onWorker()
}
