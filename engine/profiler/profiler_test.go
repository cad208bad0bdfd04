package profiler

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTickLogsAfterInterval(t *testing.T) {
	p := NewProfiler("test")
	p.SetInterval(time.Hour)

	assert.False(t, p.Tick())
	assert.False(t, p.Tick())
	assert.Equal(t, uint64(2), p.Frames())
	assert.Zero(t, p.FPS())

	// Pretend the interval elapsed.
	p.lastTime = time.Now().Add(-2 * time.Hour)
	assert.True(t, p.Tick())
	assert.Greater(t, p.FPS(), 0.0)
	assert.Equal(t, uint64(3), p.Frames())
	assert.Zero(t, p.frameCount)
}

func TestSetIntervalIgnoresNonPositive(t *testing.T) {
	p := NewProfiler("test")
	p.SetInterval(0)
	assert.Equal(t, time.Second, p.updateInterval)
	p.SetInterval(-time.Second)
	assert.Equal(t, time.Second, p.updateInterval)
}
