package wgpuplatform

import (
	"github.com/cogentcore/webgpu/wgpu"

	"github.com/Carmen-Shannon/oxy-surface/engine/graphics"
)

// Config is a surface configuration: a color format, an optional depth
// format and whether the surface is composited with alpha.
type Config struct {
	Format      wgpu.TextureFormat
	DepthFormat wgpu.TextureFormat
	Transparent bool
}

var _ graphics.Config = Config{}

// Attrib reports the bit size of a component. Color formats are 8 bits per
// channel; alpha counts only for transparent configurations.
func (c Config) Attrib(a graphics.Attribute) (int, bool) {
	switch a {
	case graphics.AttribRedSize, graphics.AttribGreenSize, graphics.AttribBlueSize:
		return 8, true
	case graphics.AttribAlphaSize:
		if c.Transparent {
			return 8, true
		}
		return 0, true
	case graphics.AttribDepthSize:
		switch c.DepthFormat {
		case wgpu.TextureFormatDepth24Plus, wgpu.TextureFormatDepth24PlusStencil8:
			return 24, true
		case wgpu.TextureFormatDepth32Float:
			return 32, true
		}
		return 0, true
	case graphics.AttribStencilSize:
		if c.DepthFormat == wgpu.TextureFormatDepth24PlusStencil8 {
			return 8, true
		}
		return 0, true
	}
	return 0, false
}

// HasDepth reports whether the configuration carries a depth attachment.
func (c Config) HasDepth() bool {
	return c.DepthFormat != wgpu.TextureFormatUndefined
}

var (
	colorFormats = []wgpu.TextureFormat{
		wgpu.TextureFormatBGRA8Unorm,
		wgpu.TextureFormatRGBA8Unorm,
	}
	depthFormats = []wgpu.TextureFormat{
		wgpu.TextureFormatUndefined,
		wgpu.TextureFormatDepth24Plus,
		wgpu.TextureFormatDepth24PlusStencil8,
		wgpu.TextureFormatDepth32Float,
	}
)

// configs lists every configuration the platform offers, opaque before
// transparent and shallow before deep.
func configs() []graphics.Config {
	out := make([]graphics.Config, 0, 2*len(colorFormats)*len(depthFormats))
	for _, transparent := range []bool{false, true} {
		for _, f := range colorFormats {
			for _, d := range depthFormats {
				out = append(out, Config{Format: f, DepthFormat: d, Transparent: transparent})
			}
		}
	}
	return out
}
