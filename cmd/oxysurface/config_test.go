package main

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Carmen-Shannon/oxy-surface/engine/graphics"
	"github.com/Carmen-Shannon/oxy-surface/engine/renderthread"
)

func TestLoadConfigDefaults(t *testing.T) {
	c, err := LoadConfig("")
	require.NoError(t, err)

	assert.Equal(t, "info", c.LogLevel)
	assert.Equal(t, float64(defaultTickRate), c.TickRate)
	assert.Equal(t, defaultWorkers, c.Workers)
	assert.Equal(t, "fifo", c.Graphics.PresentMode)
	require.Len(t, c.Windows, 1)

	w := c.Windows[0]
	assert.Equal(t, "oxy-surface 1", w.Title)
	assert.Equal(t, defaultWidth, w.Width)
	assert.Equal(t, defaultHeight, w.Height)
	assert.Equal(t, defaultClearColor, w.ClearColor)
	mode, err := w.Mode()
	require.NoError(t, err)
	assert.Equal(t, renderthread.RenderModeContinuously, mode)
}

func TestLoadConfigFile(t *testing.T) {
	c, err := LoadConfig(filepath.Join("testdata", "two_windows.toml"))
	require.NoError(t, err)

	level, err := c.Level()
	require.NoError(t, err)
	assert.Equal(t, slog.LevelDebug, level)
	assert.Equal(t, 30.0, c.TickRate)

	pm, err := c.Graphics.Mode()
	require.NoError(t, err)
	assert.Equal(t, wgpu.PresentModeMailbox, pm)
	assert.True(t, c.Graphics.ForceFallbackAdapter)

	require.Len(t, c.Windows, 2)
	left := c.Windows[0]
	assert.Equal(t, "left", left.Title)
	assert.Equal(t, 640, left.Width)
	assert.True(t, left.PreserveContext)
	assert.True(t, left.Depth)
	assert.Equal(t, [4]float64{1, 0, 0, 1}, left.ClearColor)
	assert.Equal(t, 0.25, left.Cycle)
	assert.Equal(t, 320, left.MinWidth)
	assert.Equal(t, 240, left.MinHeight)
	assert.Equal(t, 1920, left.MaxWidth)
	assert.Zero(t, left.MaxHeight)
	mode, err := left.Mode()
	require.NoError(t, err)
	assert.Equal(t, renderthread.RenderModeWhenDirty, mode)
	flags, err := left.DebugFlags()
	require.NoError(t, err)
	assert.Equal(t, graphics.DebugCheckError|graphics.DebugLogCalls, flags)

	right := c.Windows[1]
	assert.Equal(t, "right", right.Title)
	assert.Equal(t, defaultWidth, right.Width)
	assert.True(t, right.Profiling)
	assert.Equal(t, defaultClearColor, right.ClearColor)
}

func TestLoadConfigRejectsUnknownFields(t *testing.T) {
	_, err := LoadConfig(filepath.Join("testdata", "unknown_field.toml"))
	assert.Error(t, err)
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.toml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *Config)
	}{
		{"log level", func(c *Config) { c.LogLevel = "loud" }},
		{"present mode", func(c *Config) { c.Graphics.PresentMode = "tearing" }},
		{"render mode", func(c *Config) { c.Windows[0].RenderMode = "sometimes" }},
		{"debug flag", func(c *Config) { c.Windows[0].Debug = []string{"trace"} }},
		{"size", func(c *Config) { c.Windows[0].Width = -1 }},
		{"negative limit", func(c *Config) { c.Windows[0].MinHeight = -1 }},
		{"min width above max", func(c *Config) { c.Windows[0].MinWidth, c.Windows[0].MaxWidth = 800, 400 }},
		{"min height above max", func(c *Config) { c.Windows[0].MinHeight, c.Windows[0].MaxHeight = 800, 400 }},
		{"no windows", func(c *Config) { c.Windows = nil }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := LoadConfig("")
			require.NoError(t, err)
			tt.mutate(&c)
			assert.Error(t, c.Validate())
		})
	}

	c, err := LoadConfig("")
	require.NoError(t, err)
	c.Windows = nil
	assert.ErrorIs(t, c.Validate(), errNoWindows)

	c, err = LoadConfig("")
	require.NoError(t, err)
	c.Windows[0].MinWidth = 800
	assert.NoError(t, c.Validate(), "a zero max leaves the width unbounded")
}

func TestExampleConfigLoads(t *testing.T) {
	_, err := LoadConfig("oxysurface.example.toml")
	assert.NoError(t, err)
}
