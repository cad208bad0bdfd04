package engine

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Carmen-Shannon/oxy-surface/engine/graphics/graphicstest"
	"github.com/Carmen-Shannon/oxy-surface/engine/renderthread"
	"github.com/Carmen-Shannon/oxy-surface/engine/surfaceview"
	"github.com/Carmen-Shannon/oxy-surface/engine/window"
)

const (
	waitFor = 2 * time.Second
	tick    = 2 * time.Millisecond
)

// fakeWindow is a window.Window driven directly by tests.
type fakeWindow struct {
	mu      sync.Mutex
	title   string
	width   int
	height  int
	running atomic.Bool
	closed  atomic.Int32

	onResize  func(width, height int)
	onIconify func(iconified bool)
	onRefresh func()
}

var _ window.Window = &fakeWindow{}

func newFakeWindow(title string, width, height int) *fakeWindow {
	w := &fakeWindow{title: title, width: width, height: height}
	w.running.Store(true)
	return w
}

func (w *fakeWindow) SetResizeCallback(cb func(width, height int)) { w.onResize = cb }
func (w *fakeWindow) SetIconifyCallback(cb func(iconified bool))   { w.onIconify = cb }
func (w *fakeWindow) SetRefreshCallback(cb func())                 { w.onRefresh = cb }
func (w *fakeWindow) SetCloseCallback(func())                      {}
func (w *fakeWindow) SetKeyDownCallback(func(keyCode uint32))      {}
func (w *fakeWindow) SetKeyUpCallback(func(keyCode uint32))        {}
func (w *fakeWindow) SurfaceDescriptor() *wgpu.SurfaceDescriptor   { return nil }
func (w *fakeWindow) Title() string                                { return w.title }
func (w *fakeWindow) IsRunning() bool                              { return w.running.Load() }
func (w *fakeWindow) Width() int                                   { x, _ := w.FramebufferSize(); return x }
func (w *fakeWindow) Height() int                                  { _, y := w.FramebufferSize(); return y }

func (w *fakeWindow) FramebufferSize() (int, int) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.width, w.height
}

func (w *fakeWindow) Close() error {
	w.running.Store(false)
	w.closed.Add(1)
	return nil
}

func (w *fakeWindow) resize(width, height int) {
	w.mu.Lock()
	w.width, w.height = width, height
	w.mu.Unlock()
	w.onResize(width, height)
}

// newTestEngine returns an engine whose event pump only sleeps.
func newTestEngine(options ...EngineBuilderOption) *engine {
	e := NewEngine(options...).(*engine)
	e.pump = func(time.Duration) { time.Sleep(time.Millisecond) }
	e.wake = func() {}
	return e
}

func newBoundView(t *testing.T, w *fakeWindow) (surfaceview.SurfaceView, *graphicstest.Platform, *graphicstest.Renderer) {
	t.Helper()
	p := graphicstest.NewPlatform()
	v := surfaceview.New(p, w, surfaceview.WithName(w.title))
	r := &graphicstest.Renderer{}
	require.NoError(t, v.SetRenderer(r))
	t.Cleanup(v.Close)
	return v, p, r
}

func runAsync(e *engine) <-chan struct{} {
	done := make(chan struct{})
	go func() {
		e.Run()
		close(done)
	}()
	return done
}

func TestBindDrawsAtWindowSize(t *testing.T) {
	w := newFakeWindow("main", 640, 480)
	v, p, r := newBoundView(t, w)

	e := newTestEngine(WithView(w, v))
	assert.Len(t, e.Views(), 1)

	assert.Equal(t, 1, r.Count("changed 640x480"))
	assert.GreaterOrEqual(t, r.Frames(), 1)
	assert.Equal(t, 1, p.Stats().LiveSurfaces)
}

func TestWindowEventsReachView(t *testing.T) {
	w := newFakeWindow("main", 640, 480)
	v, p, r := newBoundView(t, w)
	e := newTestEngine()
	e.Bind(w, v)

	w.resize(800, 600)
	assert.Equal(t, 1, r.Count("changed 800x600"))

	w.onIconify(true)
	assert.Zero(t, p.Stats().LiveSurfaces)

	w.onIconify(false)
	require.Eventually(t, func() bool { return p.Stats().LiveSurfaces == 1 }, waitFor, tick)
	assert.GreaterOrEqual(t, r.Count("changed 800x600"), 2)

	require.NoError(t, v.SetRenderMode(renderthread.RenderModeWhenDirty))
	frames := r.Frames()
	w.onRefresh()
	require.Eventually(t, func() bool { return r.Frames() > frames }, waitFor, tick)
}

func TestPauseAndResumeFanOut(t *testing.T) {
	w1 := newFakeWindow("one", 320, 240)
	w2 := newFakeWindow("two", 320, 240)
	v1, p1, _ := newBoundView(t, w1)
	v2, p2, _ := newBoundView(t, w2)
	e := newTestEngine(WithWorkers(2), WithView(w1, v1), WithView(w2, v2))

	e.Pause()
	assert.Equal(t, renderthread.StatePaused, v1.State())
	assert.Equal(t, renderthread.StatePaused, v2.State())
	assert.Zero(t, p1.Stats().LiveContexts)
	assert.Zero(t, p2.Stats().LiveContexts)

	e.Resume()
	for _, p := range []*graphicstest.Platform{p1, p2} {
		require.Eventually(t, func() bool { return p.Stats().LiveContexts == 1 }, waitFor, tick)
	}
	assert.NotEqual(t, renderthread.StatePaused, v1.State())
	assert.NotEqual(t, renderthread.StatePaused, v2.State())
}

func TestRunReapsClosedWindows(t *testing.T) {
	w1 := newFakeWindow("one", 320, 240)
	w2 := newFakeWindow("two", 320, 240)
	v1, p1, _ := newBoundView(t, w1)
	v2, p2, _ := newBoundView(t, w2)
	e := newTestEngine(WithView(w1, v1), WithView(w2, v2))
	done := runAsync(e)

	w1.running.Store(false)
	require.Eventually(t, func() bool { return w1.closed.Load() == 1 }, waitFor, tick)
	assert.Len(t, e.Views(), 1)
	assert.Zero(t, p1.Stats().LiveContexts)
	assert.Zero(t, p1.Stats().LiveSurfaces)
	assert.Equal(t, 1, p2.Stats().LiveSurfaces)

	w2.running.Store(false)
	select {
	case <-done:
	case <-time.After(waitFor):
		t.Fatal("Run did not return after the last window closed")
	}
	assert.Equal(t, int32(1), w2.closed.Load())
	assert.Zero(t, p2.Stats().LiveContexts)
	assert.Empty(t, e.Views())
}

func TestQuitDetachesEveryView(t *testing.T) {
	w1 := newFakeWindow("one", 320, 240)
	w2 := newFakeWindow("two", 320, 240)
	v1, p1, _ := newBoundView(t, w1)
	v2, p2, _ := newBoundView(t, w2)
	e := newTestEngine(WithView(w1, v1), WithView(w2, v2))
	done := runAsync(e)

	e.Quit()
	e.Quit()
	select {
	case <-done:
	case <-time.After(waitFor):
		t.Fatal("Run did not return after Quit")
	}
	assert.Equal(t, int32(1), w1.closed.Load())
	assert.Equal(t, int32(1), w2.closed.Load())
	assert.Equal(t, 1, p1.Stats().DisplaysClosed)
	assert.Equal(t, 1, p2.Stats().DisplaysClosed)
}

func TestTickCallbackFires(t *testing.T) {
	w := newFakeWindow("main", 320, 240)
	v, _, _ := newBoundView(t, w)
	var ticks atomic.Int32
	e := newTestEngine(
		WithView(w, v),
		WithTickRate(500),
		WithTickCallback(func(dt float32) {
			if dt >= 0 {
				ticks.Add(1)
			}
		}),
	)
	done := runAsync(e)

	require.Eventually(t, func() bool { return ticks.Load() >= 3 }, waitFor, tick)
	e.SetTickRate(1000)
	e.Quit()
	<-done
}

func TestTickRate(t *testing.T) {
	assert.Equal(t, time.Second/60, tickRate(0))
	assert.Equal(t, time.Second/60, tickRate(-5))
	assert.Equal(t, 10*time.Millisecond, tickRate(100))

	e := newTestEngine(WithTickRate(30), WithWorkers(0), WithPollInterval(0))
	assert.Equal(t, tickRate(30), e.engineTickRate)
	assert.Equal(t, 4, e.workers)
	assert.Zero(t, e.pollInterval)

	e.SetTickRate(120)
	assert.Equal(t, tickRate(120), e.engineTickRate)
}
