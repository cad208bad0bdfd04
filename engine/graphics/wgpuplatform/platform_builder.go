package wgpuplatform

import "github.com/cogentcore/webgpu/wgpu"

// PlatformBuilderOption is a functional option for configuring a Platform.
type PlatformBuilderOption func(p *Platform)

// WithPresentMode sets how frames are queued for display. Defaults to
// wgpu.PresentModeFifo.
//
// Parameters:
//   - mode: the present mode
//
// Returns:
//   - PlatformBuilderOption: option function to apply
func WithPresentMode(mode wgpu.PresentMode) PlatformBuilderOption {
	return func(p *Platform) {
		p.presentMode = mode
	}
}

// WithForceFallbackAdapter requests the software adapter.
//
// Parameters:
//   - force: if true, only the fallback adapter is used
//
// Returns:
//   - PlatformBuilderOption: option function to apply
func WithForceFallbackAdapter(force bool) PlatformBuilderOption {
	return func(p *Platform) {
		p.forceFallbackAdapter = force
	}
}

// WithDeviceLabel sets the debug label of every device the platform creates.
//
// Parameters:
//   - label: the label
//
// Returns:
//   - PlatformBuilderOption: option function to apply
func WithDeviceLabel(label string) PlatformBuilderOption {
	return func(p *Platform) {
		p.deviceLabel = label
	}
}

// ParsePresentMode converts a configuration string to a present mode.
//
// Parameters:
//   - s: "fifo", "immediate" or "mailbox"
//
// Returns:
//   - wgpu.PresentMode: the mode
//   - bool: false if s names no mode
func ParsePresentMode(s string) (wgpu.PresentMode, bool) {
	switch s {
	case "fifo", "vsync":
		return wgpu.PresentModeFifo, true
	case "immediate":
		return wgpu.PresentModeImmediate, true
	case "mailbox":
		return wgpu.PresentModeMailbox, true
	}
	return wgpu.PresentModeFifo, false
}
