package wgpuplatform

import (
	"github.com/cogentcore/webgpu/wgpu"

	"github.com/Carmen-Shannon/oxy-surface/engine/graphics"
)

// Frame is the WebGPU drawing interface. It records into the surface texture
// of the current frame, which is acquired on first use and presented by the
// platform. Renderers needing more than Clear unwrap the interface with
// graphics.Unwrap and use Device, Queue and TextureView directly.
type Frame struct {
	display *display
	ctx     *gpuContext

	texture    *wgpu.Texture
	view       *wgpu.TextureView
	encoder    *wgpu.CommandEncoder
	acquireErr error
	err        error
}

var _ graphics.Interface = &Frame{}

// Device returns the context's device, or nil once the context is destroyed.
func (f *Frame) Device() *wgpu.Device {
	if f.ctx == nil {
		return nil
	}
	return f.ctx.device
}

// Queue returns the context's queue, or nil once the context is destroyed.
func (f *Frame) Queue() *wgpu.Queue {
	if f.ctx == nil {
		return nil
	}
	return f.ctx.queue
}

// Format returns the color format of the bound surface.
func (f *Frame) Format() wgpu.TextureFormat {
	if b := f.binding(); b != nil {
		return b.surface.format
	}
	return wgpu.TextureFormatUndefined
}

// TextureView returns the view of the current frame's surface texture,
// acquiring it if needed.
//
// Returns:
//   - *wgpu.TextureView: the color target for this frame
//   - error: the acquisition error, also recorded for Err
func (f *Frame) TextureView() (*wgpu.TextureView, error) {
	if err := f.acquire(); err != nil {
		return nil, err
	}
	return f.view, nil
}

// Clear records a render pass that clears the frame to the given color and
// the depth attachment, if any, to 1.
func (f *Frame) Clear(r, g, b, a float64) {
	if err := f.acquire(); err != nil {
		return
	}
	if f.encoder == nil {
		enc, err := f.ctx.device.CreateCommandEncoder(nil)
		if err != nil {
			f.record(err)
			return
		}
		f.encoder = enc
	}

	desc := &wgpu.RenderPassDescriptor{
		ColorAttachments: []wgpu.RenderPassColorAttachment{
			{
				View:       f.view,
				LoadOp:     wgpu.LoadOpClear,
				StoreOp:    wgpu.StoreOpStore,
				ClearValue: wgpu.Color{R: r, G: g, B: b, A: a},
			},
		},
	}
	if bd := f.binding(); bd != nil && bd.depthView != nil {
		ds := &wgpu.RenderPassDepthStencilAttachment{
			View:            bd.depthView,
			DepthLoadOp:     wgpu.LoadOpClear,
			DepthStoreOp:    wgpu.StoreOpDiscard,
			DepthClearValue: 1.0,
		}
		if f.ctx.config.DepthFormat == wgpu.TextureFormatDepth24PlusStencil8 {
			ds.StencilLoadOp = wgpu.LoadOpClear
			ds.StencilStoreOp = wgpu.StoreOpDiscard
		}
		desc.DepthStencilAttachment = ds
	}

	pass := f.encoder.BeginRenderPass(desc)
	pass.End()
	pass.Release()
}

// Flush submits the recorded passes.
func (f *Frame) Flush() {
	f.record(f.flush())
}

func (f *Frame) Err() error {
	err := f.err
	f.err = nil
	return err
}

func (f *Frame) flush() error {
	if f.encoder == nil {
		return nil
	}
	enc := f.encoder
	f.encoder = nil
	defer enc.Release()

	cb, err := enc.Finish(nil)
	if err != nil {
		return err
	}
	f.ctx.queue.Submit(cb)
	cb.Release()
	return nil
}

func (f *Frame) acquire() error {
	if f.texture != nil {
		return nil
	}
	if f.acquireErr != nil {
		return f.acquireErr
	}
	b := f.binding()
	if b == nil {
		err := graphics.NewError("Acquire", graphics.CodeBadSurface)
		f.record(err)
		return err
	}

	tex, err := b.surface.surface.GetCurrentTexture()
	if err != nil {
		f.acquireErr = err
		f.record(err)
		return err
	}
	view, err := tex.CreateView(nil)
	if err != nil {
		tex.Release()
		f.record(err)
		return err
	}
	f.texture, f.view = tex, view
	return nil
}

// binding returns the display binding if this frame's context is current.
func (f *Frame) binding() *binding {
	if f.display == nil || f.display.current == nil || f.display.current.ctx != f.ctx {
		return nil
	}
	return f.display.current
}

// reset releases everything held for the current frame.
func (f *Frame) reset() {
	if f.encoder != nil {
		f.encoder.Release()
		f.encoder = nil
	}
	if f.view != nil {
		f.view.Release()
		f.view = nil
	}
	if f.texture != nil {
		f.texture.Release()
		f.texture = nil
	}
	f.acquireErr = nil
}

func (f *Frame) record(err error) {
	if err != nil && f.err == nil {
		f.err = err
	}
}
