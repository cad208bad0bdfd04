package main

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/pelletier/go-toml/v2"

	"github.com/Carmen-Shannon/oxy-surface/common"
	"github.com/Carmen-Shannon/oxy-surface/engine/graphics"
	"github.com/Carmen-Shannon/oxy-surface/engine/graphics/wgpuplatform"
	"github.com/Carmen-Shannon/oxy-surface/engine/renderthread"
)

// Config is the demo configuration file.
type Config struct {
	LogLevel string         `toml:"log_level"`
	TickRate float64        `toml:"tick_rate"`
	Workers  int            `toml:"workers"`
	Graphics GraphicsConfig `toml:"graphics"`
	Windows  []WindowConfig `toml:"window"`
}

// GraphicsConfig selects how the WebGPU platform creates devices and
// presents frames.
type GraphicsConfig struct {
	PresentMode          string `toml:"present_mode"`
	ForceFallbackAdapter bool   `toml:"force_fallback_adapter"`
	DeviceLabel          string `toml:"device_label"`
}

// WindowConfig describes one window and the view drawing into it.
type WindowConfig struct {
	Title           string     `toml:"title"`
	Width           int        `toml:"width"`
	Height          int        `toml:"height"`
	RenderMode      string     `toml:"render_mode"`
	PreserveContext bool       `toml:"preserve_context"`
	Depth           bool       `toml:"depth"`
	Debug           []string   `toml:"debug"`
	Profiling       bool       `toml:"profiling"`
	ClearColor      [4]float64 `toml:"clear_color"`
	// Cycle animates the clear color hue, in turns per second.
	Cycle float64 `toml:"cycle"`
	// Resize limits in pixels. Zero leaves that bound unlimited.
	MinWidth  int `toml:"min_width"`
	MinHeight int `toml:"min_height"`
	MaxWidth  int `toml:"max_width"`
	MaxHeight int `toml:"max_height"`
}

const (
	defaultTitle      = "oxy-surface"
	defaultWidth      = 1280
	defaultHeight     = 720
	defaultRenderMode = "continuously"
	defaultLogLevel   = "info"
	defaultTickRate   = 60
	defaultWorkers    = 4
)

var defaultClearColor = [4]float64{0.1, 0.2, 0.3, 1}

var errNoWindows = errors.New("config: at least one window is required")

// LoadConfig reads the TOML file at path. An empty path yields the defaults:
// one window cleared to a dark blue.
//
// Parameters:
//   - path: the config file path, may be empty
//
// Returns:
//   - Config: the configuration with defaults applied
//   - error: read, decode or validation failure
func LoadConfig(path string) (Config, error) {
	var c Config
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("config: %w", err)
		}
		dec := toml.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&c); err != nil {
			return Config{}, fmt.Errorf("config: %s: %w", path, err)
		}
	}
	c.applyDefaults()
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

func (c *Config) applyDefaults() {
	c.LogLevel = common.Coalesce(c.LogLevel, defaultLogLevel)
	c.TickRate = common.Coalesce(c.TickRate, defaultTickRate)
	c.Workers = common.Coalesce(c.Workers, defaultWorkers)
	c.Graphics.PresentMode = common.Coalesce(c.Graphics.PresentMode, "fifo")
	c.Graphics.DeviceLabel = common.Coalesce(c.Graphics.DeviceLabel, "oxy-surface device")
	if len(c.Windows) == 0 {
		c.Windows = []WindowConfig{{}}
	}
	for i := range c.Windows {
		w := &c.Windows[i]
		w.Title = common.Coalesce(w.Title, fmt.Sprintf("%s %d", defaultTitle, i+1))
		w.Width = common.Coalesce(w.Width, defaultWidth)
		w.Height = common.Coalesce(w.Height, defaultHeight)
		w.RenderMode = common.Coalesce(w.RenderMode, defaultRenderMode)
		w.ClearColor = common.Coalesce(w.ClearColor, defaultClearColor)
	}
}

// Validate checks every enumerated setting.
//
// Returns:
//   - error: the first invalid setting
func (c Config) Validate() error {
	if _, err := c.Level(); err != nil {
		return err
	}
	if _, err := c.Graphics.Mode(); err != nil {
		return err
	}
	if len(c.Windows) == 0 {
		return errNoWindows
	}
	for _, w := range c.Windows {
		if w.Width <= 0 || w.Height <= 0 {
			return fmt.Errorf("config: window %q: size %dx%d must be positive", w.Title, w.Width, w.Height)
		}
		if w.MinWidth < 0 || w.MinHeight < 0 || w.MaxWidth < 0 || w.MaxHeight < 0 {
			return fmt.Errorf("config: window %q: size limits must not be negative", w.Title)
		}
		if w.MaxWidth > 0 && w.MinWidth > w.MaxWidth {
			return fmt.Errorf("config: window %q: min_width %d exceeds max_width %d", w.Title, w.MinWidth, w.MaxWidth)
		}
		if w.MaxHeight > 0 && w.MinHeight > w.MaxHeight {
			return fmt.Errorf("config: window %q: min_height %d exceeds max_height %d", w.Title, w.MinHeight, w.MaxHeight)
		}
		if _, err := w.Mode(); err != nil {
			return fmt.Errorf("config: window %q: %w", w.Title, err)
		}
		if _, err := w.DebugFlags(); err != nil {
			return fmt.Errorf("config: window %q: %w", w.Title, err)
		}
	}
	return nil
}

// Level parses LogLevel.
func (c Config) Level() (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return 0, fmt.Errorf("config: log_level: %w", err)
	}
	return l, nil
}

// Mode parses PresentMode.
func (g GraphicsConfig) Mode() (wgpu.PresentMode, error) {
	m, ok := wgpuplatform.ParsePresentMode(g.PresentMode)
	if !ok {
		return m, fmt.Errorf("config: present_mode: unknown mode %q", g.PresentMode)
	}
	return m, nil
}

// Mode parses RenderMode.
func (w WindowConfig) Mode() (renderthread.RenderMode, error) {
	return renderthread.ParseRenderMode(w.RenderMode)
}

// DebugFlags parses Debug. Known names are "check-error" and "log-calls".
func (w WindowConfig) DebugFlags() (graphics.DebugFlags, error) {
	var flags graphics.DebugFlags
	for _, name := range w.Debug {
		switch name {
		case "check-error":
			flags |= graphics.DebugCheckError
		case "log-calls":
			flags |= graphics.DebugLogCalls
		default:
			return 0, fmt.Errorf("unknown debug flag %q", name)
		}
	}
	return flags, nil
}
