package surfaceview

import (
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Carmen-Shannon/oxy-surface/engine/graphics"
	"github.com/Carmen-Shannon/oxy-surface/engine/graphics/graphicstest"
	"github.com/Carmen-Shannon/oxy-surface/engine/renderthread"
)

const (
	waitFor = 2 * time.Second
	tick    = 2 * time.Millisecond
)

func newView(t *testing.T, options ...SurfaceViewBuilderOption) (*surfaceView, *graphicstest.Platform) {
	t.Helper()
	p := graphicstest.NewPlatform()
	v := New(p, "window", options...).(*surfaceView)
	t.Cleanup(v.Close)
	return v, p
}

func TestSetRendererOnce(t *testing.T) {
	v, _ := newView(t)

	assert.ErrorIs(t, v.SetRenderer(nil), ErrNilRenderer)
	require.NoError(t, v.SetRenderer(&graphicstest.Renderer{}))
	assert.ErrorIs(t, v.SetRenderer(&graphicstest.Renderer{}), ErrAlreadyAttached)
}

func TestOperationsBeforeRendererAreNoops(t *testing.T) {
	v, p := newView(t)

	v.SurfaceCreated()
	v.SurfaceChanged(10, 10)
	v.RequestRender()
	v.SurfaceRedrawNeededAsync(nil)
	v.OnPause()
	v.OnResume()
	v.RequestReleaseContext()
	v.SurfaceDestroyed()
	v.OnDetachedFromWindow()
	v.OnAttachedToWindow()

	assert.ErrorIs(t, v.QueueEvent(func() {}), ErrNoRenderer)
	assert.Equal(t, renderthread.StateIdle, v.State())
	assert.Zero(t, p.Stats().DisplaysOpened)
}

func TestRenderModeBeforeAndAfterAttach(t *testing.T) {
	v, _ := newView(t)
	assert.Equal(t, renderthread.RenderModeContinuously, v.RenderMode())

	require.NoError(t, v.SetRenderMode(renderthread.RenderModeWhenDirty))
	assert.ErrorIs(t, v.SetRenderMode(renderthread.RenderMode(9)), renderthread.ErrInvalidRenderMode)

	require.NoError(t, v.SetRenderer(&graphicstest.Renderer{}))
	assert.Equal(t, renderthread.RenderModeWhenDirty, v.RenderMode())
}

func TestSurfaceLifecycle(t *testing.T) {
	r := &graphicstest.Renderer{}
	v, p := newView(t, WithRenderMode(renderthread.RenderModeWhenDirty))
	require.NoError(t, v.SetRenderer(r))

	v.SurfaceCreated()
	v.SurfaceChanged(64, 48)
	require.Eventually(t, func() bool { return r.Frames() == 1 }, waitFor, tick)
	assert.Equal(t, []string{"created", "changed 64x48", "draw"}, r.Calls())

	v.OnPause()
	assert.Zero(t, p.Stats().LiveContexts)
	v.OnResume()
	require.Eventually(t, func() bool { return r.Frames() == 2 }, waitFor, tick)

	v.SurfaceDestroyed()
	assert.Zero(t, p.Stats().LiveSurfaces)
}

func TestPreserveContextOnPause(t *testing.T) {
	r := &graphicstest.Renderer{}
	v, p := newView(t, WithRenderMode(renderthread.RenderModeWhenDirty), WithPreserveContextOnPause(true))
	assert.True(t, v.PreserveContextOnPause())
	require.NoError(t, v.SetRenderer(r))

	v.SurfaceCreated()
	v.SurfaceChanged(8, 8)
	require.Eventually(t, func() bool { return r.Frames() == 1 }, waitFor, tick)

	v.OnPause()
	assert.Equal(t, 1, p.Stats().LiveContexts)
	v.OnResume()

	v.SetPreserveContextOnPause(false)
	assert.False(t, v.PreserveContextOnPause())
	v.OnPause()
	assert.Zero(t, p.Stats().LiveContexts)
}

func TestRedrawNeededAsyncRunsAfterFrame(t *testing.T) {
	r := &graphicstest.Renderer{}
	v, _ := newView(t, WithRenderMode(renderthread.RenderModeWhenDirty))
	require.NoError(t, v.SetRenderer(r))
	v.SurfaceCreated()
	v.SurfaceChanged(8, 8)
	require.Eventually(t, func() bool { return r.Frames() == 1 }, waitFor, tick)

	done := make(chan int, 1)
	v.SurfaceRedrawNeededAsync(func() { done <- r.Frames() })
	select {
	case n := <-done:
		assert.Equal(t, 2, n)
	case <-time.After(waitFor):
		t.Fatal("redraw callback never ran")
	}
}

func TestDetachAndReattachKeepsRenderMode(t *testing.T) {
	r := &graphicstest.Renderer{}
	v, p := newView(t)
	require.NoError(t, v.SetRenderer(r))
	require.NoError(t, v.SetRenderMode(renderthread.RenderModeWhenDirty))
	v.SurfaceCreated()
	v.SurfaceChanged(16, 16)
	require.Eventually(t, func() bool { return r.Frames() == 1 }, waitFor, tick)

	first := v.current()
	v.OnDetachedFromWindow()
	assert.True(t, first.Exited())
	assert.Zero(t, p.Stats().LiveContexts)

	v.OnAttachedToWindow()
	second := v.current()
	require.NotSame(t, first, second)
	assert.False(t, second.Exited())
	assert.Equal(t, renderthread.RenderModeWhenDirty, v.RenderMode())

	v.SurfaceCreated()
	v.SurfaceChanged(16, 16)
	require.Eventually(t, func() bool { return r.Frames() == 2 }, waitFor, tick)
	assert.Equal(t, 2, r.Count("created"))
}

func TestAttachWithoutDetachKeepsThread(t *testing.T) {
	v, _ := newView(t)
	require.NoError(t, v.SetRenderer(&graphicstest.Renderer{}))
	th := v.current()
	v.OnAttachedToWindow()
	assert.Same(t, th, v.current())
}

func TestQueueEventRunsOnRenderThread(t *testing.T) {
	v, _ := newView(t)
	require.NoError(t, v.SetRenderer(&graphicstest.Renderer{}))

	ran := make(chan struct{})
	require.NoError(t, v.QueueEvent(func() { close(ran) }))
	select {
	case <-ran:
	case <-time.After(waitFor):
		t.Fatal("event never ran")
	}
	assert.ErrorIs(t, v.QueueEvent(nil), renderthread.ErrNilEvent)
}

func TestCollaboratorsDefaultsAndDebugFlags(t *testing.T) {
	w := graphics.WrapperFunc(func(gi graphics.Interface) graphics.Interface { return gi })
	v, _ := newView(t, WithWrapper(w), WithDebugFlags(graphics.DebugLogCalls), WithComponentSizes(8, 8, 8, 8, 24, 8))
	require.NoError(t, v.SetRenderer(&graphicstest.Renderer{}))

	c := v.Collaborators()
	assert.Equal(t, graphics.NewComponentSizeChooser(8, 8, 8, 8, 24, 8), c.ConfigChooser)
	assert.IsType(t, graphics.DefaultContextFactory{}, c.ContextFactory)
	assert.IsType(t, graphics.DefaultWindowSurfaceFactory{}, c.SurfaceFactory)
	assert.Equal(t, "window", c.NativeWindow)
	assert.NotNil(t, c.Wrapper)
	assert.Equal(t, graphics.DebugLogCalls, c.DebugFlags)

	v.SetDebugFlags(graphics.DebugCheckError | graphics.DebugLogCalls)
	assert.Equal(t, graphics.DebugCheckError|graphics.DebugLogCalls, v.Collaborators().DebugFlags)
}

func TestFatalHandlerReceivesConfigError(t *testing.T) {
	fatal := make(chan error, 1)
	v, p := newView(t, WithDepth(false), WithFatalHandler(func(err error) { fatal <- err }))
	p.SetConfigs(graphicstest.Config{Red: 5, Green: 6, Blue: 5})
	require.NoError(t, v.SetRenderer(&graphicstest.Renderer{}))
	v.SurfaceCreated()
	v.SurfaceChanged(4, 4)

	select {
	case err := <-fatal:
		assert.ErrorIs(t, err, graphics.ErrNoMatchingConfig)
	case <-time.After(waitFor):
		t.Fatal("fatal handler never ran")
	}
	require.Eventually(t, func() bool { return v.State() == renderthread.StateExited }, waitFor, tick)
}

func TestUnreachableViewStopsThread(t *testing.T) {
	p := graphicstest.NewPlatform()
	th := func() renderthread.Thread {
		v := New(p, "window").(*surfaceView)
		require.NoError(t, v.SetRenderer(&graphicstest.Renderer{}))
		return v.current()
	}()

	require.Eventually(t, func() bool {
		runtime.GC()
		return th.Exited()
	}, 5*time.Second, 10*time.Millisecond)
}
