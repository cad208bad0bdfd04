package main

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Carmen-Shannon/oxy-surface/engine/graphics/graphicstest"
)

func TestClearRendererDrawsColor(t *testing.T) {
	p := graphicstest.NewPlatform()
	r := newClearRenderer("test", [4]float64{0.5, 0.5, 0.5, 1}, 0)

	r.OnDrawFrame(p.DrawInterface())
	assert.Equal(t, 1, p.DrawInterface().Clears())
	assert.False(t, r.Advance(1))
	assert.Equal(t, [4]float64{0.5, 0.5, 0.5, 1}, r.Color())
}

func TestAdvanceRotatesHue(t *testing.T) {
	base := [4]float64{1, 0, 0, 0.5}
	r := newClearRenderer("test", base, 1)

	assert.True(t, r.Advance(1.0/3))
	c := r.Color()
	assert.InDelta(t, 0, c[0], 1e-6)
	assert.InDelta(t, 1, c[1], 1e-6)
	assert.InDelta(t, 0, c[2], 1e-6)
	assert.Equal(t, 0.5, c[3])

	assert.True(t, r.Advance(2.0/3))
	c = r.Color()
	assert.InDelta(t, 1, c[0], 1e-5)
	assert.InDelta(t, 0, c[1], 1e-5)
}

func TestRotateHueKeepsGrey(t *testing.T) {
	grey := [4]float64{0.4, 0.4, 0.4, 1}
	for _, a := range []float64{0, 1, math.Pi, 5} {
		got := rotateHue(grey, a)
		for i := range 3 {
			assert.InDelta(t, 0.4, got[i], 1e-9)
		}
	}
}
