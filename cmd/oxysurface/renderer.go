package main

import (
	"log/slog"
	"math"
	"sync"

	"github.com/Carmen-Shannon/oxy-surface/common"
	"github.com/Carmen-Shannon/oxy-surface/engine/graphics"
)

// clearRenderer fills the surface with one color. With a non-zero cycle the
// color's hue rotates as the engine ticks.
type clearRenderer struct {
	mu    sync.Mutex
	base  [4]float64
	color [4]float64
	cycle float64
	phase float64

	logger *slog.Logger
}

var _ graphics.Renderer = &clearRenderer{}

func newClearRenderer(name string, color [4]float64, cycle float64) *clearRenderer {
	return &clearRenderer{
		base:   color,
		color:  color,
		cycle:  cycle,
		logger: common.Logger().With("component", "demo", "window", name),
	}
}

func (r *clearRenderer) OnSurfaceCreated(gi graphics.Interface, cfg graphics.Config) {
	depth, _ := cfg.Attrib(graphics.AttribDepthSize)
	alpha, _ := cfg.Attrib(graphics.AttribAlphaSize)
	r.logger.Debug("surface created", "depth", depth, "alpha", alpha)
}

func (r *clearRenderer) OnSurfaceChanged(gi graphics.Interface, width, height int) {
	r.logger.Debug("surface changed", "width", width, "height", height)
}

func (r *clearRenderer) OnDrawFrame(gi graphics.Interface) {
	c := r.Color()
	gi.Clear(c[0], c[1], c[2], c[3])
}

// Color returns the current clear color.
func (r *clearRenderer) Color() [4]float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.color
}

// Advance moves the hue rotation forward by dt seconds. It reports whether
// the color changed.
func (r *clearRenderer) Advance(dt float32) bool {
	if r.cycle == 0 {
		return false
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.phase = math.Mod(r.phase+float64(dt)*r.cycle, 1)
	r.color = rotateHue(r.base, r.phase*2*math.Pi)
	return true
}

// rotateHue rotates c about the grey axis by angle radians. Alpha is kept.
func rotateHue(c [4]float64, angle float64) [4]float64 {
	cos, sin := math.Cos(angle), math.Sin(angle)
	k := (1 - cos) / 3
	s := sin / math.Sqrt(3)
	m := [3][3]float64{
		{cos + k, k - s, k + s},
		{k + s, cos + k, k - s},
		{k - s, k + s, cos + k},
	}
	var out [4]float64
	for i := range 3 {
		v := m[i][0]*c[0] + m[i][1]*c[1] + m[i][2]*c[2]
		out[i] = min(max(v, 0), 1)
	}
	out[3] = c[3]
	return out
}
