// Package wgpuplatform implements graphics.Platform on WebGPU.
//
// A display is a wgpu instance, a context is an adapter with its device and
// queue, and a window surface is a wgpu surface configured for the native
// window's framebuffer. The drawing interface is a *Frame.
package wgpuplatform

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/cogentcore/webgpu/wgpu"

	"github.com/Carmen-Shannon/oxy-surface/common"
	"github.com/Carmen-Shannon/oxy-surface/engine/graphics"
)

// NativeWindow is the window a surface is created for. Both methods are
// called from render threads and must be safe for concurrent use.
type NativeWindow interface {
	// SurfaceDescriptor returns the platform-specific surface descriptor, or
	// nil once the window is gone.
	SurfaceDescriptor() *wgpu.SurfaceDescriptor

	// FramebufferSize returns the window's framebuffer size in pixels.
	FramebufferSize() (width, height int)
}

// Platform drives WebGPU. One Platform may serve many render threads; all
// per-thread state lives in the handles it returns.
type Platform struct {
	presentMode          wgpu.PresentMode
	forceFallbackAdapter bool
	deviceLabel          string
	logger               *slog.Logger
}

var _ graphics.Platform = &Platform{}

// NewPlatform creates a WebGPU platform.
//
// Parameters:
//   - options: functional options to configure the platform
//
// Returns:
//   - *Platform: the platform
func NewPlatform(options ...PlatformBuilderOption) *Platform {
	p := &Platform{
		presentMode: wgpu.PresentModeFifo,
		deviceLabel: "Surface Device",
	}
	for _, opt := range options {
		opt(p)
	}
	p.logger = common.Logger().With("component", "wgpuplatform")
	return p
}

type display struct {
	instance *wgpu.Instance
	current  *binding
}

// binding is the surface and context made current on a display.
type binding struct {
	surface      *windowSurface
	ctx          *gpuContext
	depthTexture *wgpu.Texture
	depthView    *wgpu.TextureView
}

type gpuContext struct {
	adapter *wgpu.Adapter
	device  *wgpu.Device
	queue   *wgpu.Queue
	config  Config
	frame   *Frame
}

type windowSurface struct {
	surface       *wgpu.Surface
	window        NativeWindow
	format        wgpu.TextureFormat
	width, height int
}

func (p *Platform) OpenDisplay() (graphics.Display, error) {
	inst := wgpu.CreateInstance(nil)
	if inst == nil {
		return nil, graphics.NewError("OpenDisplay", graphics.CodeNotInitialized)
	}
	return &display{instance: inst}, nil
}

func (p *Platform) Configs(d graphics.Display) ([]graphics.Config, error) {
	if _, err := asDisplay("Configs", d); err != nil {
		return nil, err
	}
	return configs(), nil
}

func (p *Platform) CreateContext(d graphics.Display, cfg graphics.Config) (graphics.Context, error) {
	dp, err := asDisplay("CreateContext", d)
	if err != nil {
		return nil, err
	}
	c, ok := cfg.(Config)
	if !ok {
		return nil, graphics.NewError("CreateContext", graphics.CodeBadConfig)
	}

	a, err := dp.instance.RequestAdapter(&wgpu.RequestAdapterOptions{
		ForceFallbackAdapter: p.forceFallbackAdapter,
	})
	if err != nil {
		return nil, &graphics.Error{Op: "CreateContext", Code: graphics.CodeNotInitialized, Err: err}
	}

	dev, err := a.RequestDevice(&wgpu.DeviceDescriptor{
		Label: p.deviceLabel,
	})
	if err != nil {
		a.Release()
		return nil, &graphics.Error{Op: "CreateContext", Code: graphics.CodeBadAlloc, Err: err}
	}

	ctx := &gpuContext{
		adapter: a,
		device:  dev,
		queue:   dev.GetQueue(),
		config:  c,
	}
	ctx.frame = &Frame{display: dp, ctx: ctx}
	p.logger.Info("device created", "format", c.Format, "depth", c.DepthFormat)
	return ctx, nil
}

func (p *Platform) DestroyContext(d graphics.Display, ctx graphics.Context) error {
	dp, err := asDisplay("DestroyContext", d)
	if err != nil {
		return err
	}
	c, ok := ctx.(*gpuContext)
	if !ok || c.device == nil {
		return graphics.NewError("DestroyContext", graphics.CodeBadContext)
	}
	if dp.current != nil && dp.current.ctx == c {
		dp.unbind()
	}
	c.frame.reset()
	c.queue.Release()
	c.device.Release()
	c.adapter.Release()
	c.queue, c.device, c.adapter = nil, nil, nil
	return nil
}

func (p *Platform) CreateWindowSurface(d graphics.Display, _ graphics.Config, win graphics.NativeWindow) (graphics.Surface, error) {
	dp, err := asDisplay("CreateWindowSurface", d)
	if err != nil {
		return nil, err
	}
	nw, ok := win.(NativeWindow)
	if !ok {
		return nil, graphics.NewError("CreateWindowSurface", graphics.CodeBadNativeWindow)
	}
	desc := nw.SurfaceDescriptor()
	if desc == nil {
		return nil, graphics.NewError("CreateWindowSurface", graphics.CodeBadNativeWindow)
	}
	s := dp.instance.CreateSurface(desc)
	if s == nil {
		return nil, graphics.NewError("CreateWindowSurface", graphics.CodeBadAlloc)
	}
	return &windowSurface{surface: s, window: nw}, nil
}

func (p *Platform) DestroySurface(d graphics.Display, surf graphics.Surface) error {
	dp, err := asDisplay("DestroySurface", d)
	if err != nil {
		return err
	}
	s, ok := surf.(*windowSurface)
	if !ok || s.surface == nil {
		return graphics.NewError("DestroySurface", graphics.CodeBadSurface)
	}
	if dp.current != nil && dp.current.surface == s {
		dp.unbind()
	}
	s.surface.Release()
	s.surface = nil
	return nil
}

// MakeCurrent configures the surface for the context's device at the
// window's current framebuffer size and routes the context's Frame to it.
func (p *Platform) MakeCurrent(d graphics.Display, surf graphics.Surface, ctx graphics.Context) error {
	dp, err := asDisplay("MakeCurrent", d)
	if err != nil {
		return err
	}
	s, ok := surf.(*windowSurface)
	if !ok || s.surface == nil {
		return graphics.NewError("MakeCurrent", graphics.CodeBadSurface)
	}
	c, ok := ctx.(*gpuContext)
	if !ok || c.device == nil {
		return graphics.NewError("MakeCurrent", graphics.CodeBadContext)
	}

	dp.unbind()
	b := &binding{surface: s, ctx: c}
	if err := p.configure(b); err != nil {
		return err
	}
	dp.current = b
	return nil
}

// configure (re)configures the bound surface. A zero-sized framebuffer
// means the window is minimized or gone.
func (p *Platform) configure(b *binding) error {
	w, h := b.surface.window.FramebufferSize()
	if w <= 0 || h <= 0 {
		return graphics.NewError("MakeCurrent", graphics.CodeBadNativeWindow)
	}

	caps := b.surface.surface.GetCapabilities(b.ctx.adapter)
	if len(caps.Formats) == 0 || len(caps.AlphaModes) == 0 {
		return graphics.NewError("MakeCurrent", graphics.CodeBadMatch)
	}
	format := b.ctx.config.Format
	if !containsFormat(caps.Formats, format) {
		p.logger.Warn("surface does not support format, using preferred format", "format", format, "preferred", caps.Formats[0])
		format = caps.Formats[0]
	}
	// Surfaces list opaque first; the last mode is the most permissive.
	alphaMode := caps.AlphaModes[0]
	if b.ctx.config.Transparent {
		alphaMode = caps.AlphaModes[len(caps.AlphaModes)-1]
	}

	b.surface.surface.Configure(b.ctx.adapter, b.ctx.device, &wgpu.SurfaceConfiguration{
		Usage:       wgpu.TextureUsageRenderAttachment,
		Format:      format,
		Width:       uint32(w),
		Height:      uint32(h),
		PresentMode: p.presentMode,
		AlphaMode:   alphaMode,
	})
	b.surface.format = format
	b.surface.width, b.surface.height = w, h

	b.releaseDepth()
	if b.ctx.config.HasDepth() {
		tex, err := b.ctx.device.CreateTexture(&wgpu.TextureDescriptor{
			Label: "Depth Texture",
			Size: wgpu.Extent3D{
				Width:              uint32(w),
				Height:             uint32(h),
				DepthOrArrayLayers: 1,
			},
			MipLevelCount: 1,
			SampleCount:   1,
			Dimension:     wgpu.TextureDimension2D,
			Format:        b.ctx.config.DepthFormat,
			Usage:         wgpu.TextureUsageRenderAttachment,
		})
		if err != nil {
			return &graphics.Error{Op: "MakeCurrent", Code: graphics.CodeBadAlloc, Err: err}
		}
		view, err := tex.CreateView(nil)
		if err != nil {
			tex.Release()
			return &graphics.Error{Op: "MakeCurrent", Code: graphics.CodeBadAlloc, Err: err}
		}
		b.depthTexture, b.depthView = tex, view
	}
	return nil
}

func (p *Platform) ReleaseCurrent(d graphics.Display) error {
	dp, err := asDisplay("ReleaseCurrent", d)
	if err != nil {
		return err
	}
	dp.unbind()
	return nil
}

func (p *Platform) Interface(d graphics.Display, ctx graphics.Context) graphics.Interface {
	c, ok := ctx.(*gpuContext)
	if !ok {
		return &Frame{err: graphics.NewError("Interface", graphics.CodeBadContext)}
	}
	return c.frame
}

// Present shows the current frame. A frame nothing was drawn into is not
// presented. Outdated or lost surfaces are reconfigured and the frame is
// dropped; a lost device is reported as graphics.CodeContextLost.
func (p *Platform) Present(d graphics.Display, surf graphics.Surface) error {
	dp, err := asDisplay("Present", d)
	if err != nil {
		return err
	}
	b := dp.current
	if b == nil || b.surface != surf {
		return graphics.NewError("Present", graphics.CodeBadSurface)
	}
	f := b.ctx.frame

	if err := f.flush(); err != nil {
		f.reset()
		return &graphics.Error{Op: "Present", Code: graphics.CodeBadSurface, Err: err}
	}
	if aerr := f.acquireErr; aerr != nil {
		f.reset()
		switch classify(aerr) {
		case graphics.CodeContextLost:
			return &graphics.Error{Op: "Present", Code: graphics.CodeContextLost, Err: aerr}
		case graphics.CodeSuccess:
			p.logger.Debug("reconfiguring surface", "err", aerr)
			if err := p.configure(b); err != nil {
				return err
			}
			return nil
		default:
			return &graphics.Error{Op: "Present", Code: graphics.CodeBadSurface, Err: aerr}
		}
	}
	if f.texture == nil {
		return nil
	}

	b.surface.surface.Present()
	f.reset()

	// Pick up framebuffer size changes the window reported after binding.
	if w, h := b.surface.window.FramebufferSize(); w != b.surface.width || h != b.surface.height {
		if err := p.configure(b); err != nil {
			return err
		}
	}
	return nil
}

func (p *Platform) CloseDisplay(d graphics.Display) error {
	dp, err := asDisplay("CloseDisplay", d)
	if err != nil {
		return err
	}
	dp.unbind()
	if dp.instance != nil {
		dp.instance.Release()
		dp.instance = nil
	}
	return nil
}

func (dp *display) unbind() {
	if dp.current == nil {
		return
	}
	dp.current.ctx.frame.reset()
	dp.current.releaseDepth()
	dp.current = nil
}

func (b *binding) releaseDepth() {
	if b.depthView != nil {
		b.depthView.Release()
		b.depthView = nil
	}
	if b.depthTexture != nil {
		b.depthTexture.Release()
		b.depthTexture = nil
	}
}

func asDisplay(op string, d graphics.Display) (*display, error) {
	dp, ok := d.(*display)
	if !ok || dp.instance == nil {
		return nil, graphics.NewError(op, graphics.CodeBadDisplay)
	}
	return dp, nil
}

func containsFormat(formats []wgpu.TextureFormat, f wgpu.TextureFormat) bool {
	for _, x := range formats {
		if x == f {
			return true
		}
	}
	return false
}

// classify maps a texture acquisition error to a result code. CodeSuccess
// means the surface only needs reconfiguring.
func classify(err error) graphics.ErrorCode {
	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "device lost"), strings.Contains(msg, "devicelost"):
		return graphics.CodeContextLost
	case strings.Contains(msg, "outdated"), strings.Contains(msg, "lost"), strings.Contains(msg, "timeout"):
		return graphics.CodeSuccess
	}
	return graphics.CodeBadSurface
}

func (s *windowSurface) String() string {
	return fmt.Sprintf("surface(%dx%d %v)", s.width, s.height, s.format)
}
