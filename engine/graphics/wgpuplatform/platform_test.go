package wgpuplatform

import (
	"errors"
	"testing"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Carmen-Shannon/oxy-surface/engine/graphics"
)

func TestConfigAttribs(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		alpha   int
		depth   int
		stencil int
	}{
		{"opaque no depth", Config{Format: wgpu.TextureFormatBGRA8Unorm}, 0, 0, 0},
		{"transparent depth24", Config{Format: wgpu.TextureFormatRGBA8Unorm, DepthFormat: wgpu.TextureFormatDepth24Plus, Transparent: true}, 8, 24, 0},
		{"depth24 stencil8", Config{Format: wgpu.TextureFormatBGRA8Unorm, DepthFormat: wgpu.TextureFormatDepth24PlusStencil8}, 0, 24, 8},
		{"depth32", Config{Format: wgpu.TextureFormatBGRA8Unorm, DepthFormat: wgpu.TextureFormatDepth32Float}, 0, 32, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, a := range []graphics.Attribute{graphics.AttribRedSize, graphics.AttribGreenSize, graphics.AttribBlueSize} {
				v, ok := tt.cfg.Attrib(a)
				assert.True(t, ok)
				assert.Equal(t, 8, v, a.String())
			}
			v, _ := tt.cfg.Attrib(graphics.AttribAlphaSize)
			assert.Equal(t, tt.alpha, v)
			v, _ = tt.cfg.Attrib(graphics.AttribDepthSize)
			assert.Equal(t, tt.depth, v)
			v, _ = tt.cfg.Attrib(graphics.AttribStencilSize)
			assert.Equal(t, tt.stencil, v)
			assert.Equal(t, tt.depth > 0, tt.cfg.HasDepth())
		})
	}

	_, ok := Config{}.Attrib(graphics.Attribute(99))
	assert.False(t, ok)
}

func TestChoosersPickExpectedConfigs(t *testing.T) {
	all := configs()
	require.Len(t, all, 16)

	got, err := graphics.NewSimpleConfigChooser(true).ChooseConfig(all)
	require.NoError(t, err)
	assert.Equal(t, Config{Format: wgpu.TextureFormatBGRA8Unorm, DepthFormat: wgpu.TextureFormatDepth24Plus}, got)

	got, err = graphics.NewSimpleConfigChooser(false).ChooseConfig(all)
	require.NoError(t, err)
	assert.Equal(t, Config{Format: wgpu.TextureFormatBGRA8Unorm}, got)

	got, err = graphics.NewComponentSizeChooser(8, 8, 8, 8, 0, 8).ChooseConfig(all)
	require.NoError(t, err)
	assert.Equal(t, Config{Format: wgpu.TextureFormatBGRA8Unorm, DepthFormat: wgpu.TextureFormatDepth24PlusStencil8, Transparent: true}, got)

	_, err = graphics.NewComponentSizeChooser(5, 6, 5, 0, 0, 0).ChooseConfig(all)
	assert.ErrorIs(t, err, graphics.ErrNoMatchingConfig)
}

func TestClassifyAcquireErrors(t *testing.T) {
	tests := []struct {
		msg  string
		want graphics.ErrorCode
	}{
		{"wgpu.(*Surface).GetCurrentTexture(): device lost", graphics.CodeContextLost},
		{"surface texture outdated", graphics.CodeSuccess},
		{"surface lost", graphics.CodeSuccess},
		{"timeout", graphics.CodeSuccess},
		{"something else", graphics.CodeBadSurface},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, classify(errors.New(tt.msg)), tt.msg)
	}
}

func TestParsePresentMode(t *testing.T) {
	m, ok := ParsePresentMode("immediate")
	assert.True(t, ok)
	assert.Equal(t, wgpu.PresentModeImmediate, m)

	m, ok = ParsePresentMode("bogus")
	assert.False(t, ok)
	assert.Equal(t, wgpu.PresentModeFifo, m)
}

func TestInvalidHandlesAreRejected(t *testing.T) {
	p := NewPlatform(WithDeviceLabel("test"), WithForceFallbackAdapter(true), WithPresentMode(wgpu.PresentModeImmediate))
	assert.Equal(t, "test", p.deviceLabel)
	assert.True(t, p.forceFallbackAdapter)

	_, err := p.Configs("not a display")
	assert.ErrorIs(t, err, &graphics.Error{Code: graphics.CodeBadDisplay})

	_, err = p.CreateContext(&display{}, Config{})
	assert.ErrorIs(t, err, &graphics.Error{Code: graphics.CodeBadDisplay})

	assert.ErrorIs(t, p.ReleaseCurrent(nil), &graphics.Error{Code: graphics.CodeBadDisplay})

	gi := p.Interface(nil, "not a context")
	assert.ErrorIs(t, gi.Err(), &graphics.Error{Code: graphics.CodeBadContext})
}

func TestFrameWithoutBindingRecordsError(t *testing.T) {
	f := &Frame{display: &display{}, ctx: &gpuContext{}}
	f.Clear(0, 0, 0, 1)
	assert.ErrorIs(t, f.Err(), &graphics.Error{Code: graphics.CodeBadSurface})
	assert.NoError(t, f.Err())
	assert.Equal(t, wgpu.TextureFormatUndefined, f.Format())

	f.Flush()
	assert.NoError(t, f.Err())
}
