package window

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Carmen-Shannon/oxy-surface/common"
)

func TestNewEngineWindowDefaults(t *testing.T) {
	w := newEngineWindow()
	assert.Equal(t, "Default Window Title", w.Title())
	assert.Equal(t, 1280, w.Width())
	assert.Equal(t, 720, w.Height())
	assert.True(t, w.closeOnEscape)
	assert.Nil(t, w.SurfaceDescriptor())
	assert.False(t, w.IsRunning())
}

func TestBuilderOptions(t *testing.T) {
	w := newEngineWindow(
		WithTitle("second"),
		WithWidth(640),
		WithHeight(480),
		WithMinWidth(0),
		WithMinHeight(100),
		WithMaxWidth(2000),
		WithMaxHeight(1500),
		WithCloseOnEscape(false),
	)
	assert.Equal(t, "second", w.Title())
	width, height := w.FramebufferSize()
	assert.Equal(t, 640, width)
	assert.Equal(t, 480, height)
	assert.Equal(t, 0, w.minWidth)
	assert.Equal(t, 100, w.minHeight)
	assert.Equal(t, 2000, w.maxWidth)
	assert.Equal(t, 1500, w.maxHeight)
	assert.False(t, w.closeOnEscape)
}

func TestResizeUpdatesFramebufferSize(t *testing.T) {
	w := newEngineWindow()
	var got [2]int
	w.SetResizeCallback(func(width, height int) { got = [2]int{width, height} })

	w.handleResize(800, 600)
	assert.Equal(t, [2]int{800, 600}, got)
	width, height := w.FramebufferSize()
	assert.Equal(t, 800, width)
	assert.Equal(t, 600, height)

	w.handleResize(0, 0)
	assert.Equal(t, 0, w.Width())
}

func TestKeyDispatch(t *testing.T) {
	w := newEngineWindow()
	var down, up []uint32
	w.SetKeyDownCallback(func(k uint32) { down = append(down, k) })
	w.SetKeyUpCallback(func(k uint32) { up = append(up, k) })

	assert.True(t, w.handleKey(common.KeySpace, true))
	assert.True(t, w.handleKey(common.KeySpace, false))
	assert.Equal(t, []uint32{common.KeySpace}, down)
	assert.Equal(t, []uint32{common.KeySpace}, up)
}

func TestEscapeCloses(t *testing.T) {
	w := newEngineWindow()
	w.running.Store(true)
	closed := false
	w.SetCloseCallback(func() { closed = true })
	var down []uint32
	w.SetKeyDownCallback(func(k uint32) { down = append(down, k) })

	assert.False(t, w.handleKey(common.KeyEsc, true))
	assert.True(t, closed)
	assert.False(t, w.running.Load())
	assert.Empty(t, down)
}

func TestEscapeDeliveredWhenCloseDisabled(t *testing.T) {
	w := newEngineWindow(WithCloseOnEscape(false))
	w.running.Store(true)
	var down []uint32
	w.SetKeyDownCallback(func(k uint32) { down = append(down, k) })

	assert.True(t, w.handleKey(common.KeyEsc, true))
	assert.Equal(t, []uint32{common.KeyEsc}, down)
	assert.True(t, w.running.Load())
}

func TestLifecycleCallbacks(t *testing.T) {
	w := newEngineWindow()
	var iconified []bool
	refreshes := 0
	w.SetIconifyCallback(func(v bool) { iconified = append(iconified, v) })
	w.SetRefreshCallback(func() { refreshes++ })

	w.handleIconify(true)
	w.handleIconify(false)
	w.handleRefresh()
	assert.Equal(t, []bool{true, false}, iconified)
	assert.Equal(t, 1, refreshes)

	w.SetRefreshCallback(nil)
	w.handleRefresh()
	assert.Equal(t, 1, refreshes)
}

func TestCloseUnspawnedWindow(t *testing.T) {
	w := newEngineWindow()
	assert.ErrorIs(t, w.Close(), ErrNotInitialized)
}
