package surfaceview

import (
	"github.com/Carmen-Shannon/oxy-surface/engine/graphics"
	"github.com/Carmen-Shannon/oxy-surface/engine/renderthread"
)

// SurfaceViewBuilderOption is a functional option for configuring a surfaceView.
// Use the With* functions to create options.
type SurfaceViewBuilderOption func(v *surfaceView)

// WithName labels the view's logs and profiler output.
//
// Parameters:
//   - name: the label
//
// Returns:
//   - SurfaceViewBuilderOption: option function to apply
func WithName(name string) SurfaceViewBuilderOption {
	return func(v *surfaceView) {
		if name != "" {
			v.name = name
		}
	}
}

// WithConfigChooser sets the strategy that picks a pixel configuration.
// Defaults to graphics.NewSimpleConfigChooser(true).
//
// Parameters:
//   - c: the chooser
//
// Returns:
//   - SurfaceViewBuilderOption: option function to apply
func WithConfigChooser(c graphics.ConfigChooser) SurfaceViewBuilderOption {
	return func(v *surfaceView) {
		v.configChooser = c
	}
}

// WithComponentSizes picks the first configuration with exactly the given
// color sizes and at least the given depth and stencil sizes.
//
// Parameters:
//   - red, green, blue, alpha: exact color component sizes in bits
//   - depth, stencil: minimum depth and stencil sizes in bits
//
// Returns:
//   - SurfaceViewBuilderOption: option function to apply
func WithComponentSizes(red, green, blue, alpha, depth, stencil int) SurfaceViewBuilderOption {
	return func(v *surfaceView) {
		v.configChooser = graphics.NewComponentSizeChooser(red, green, blue, alpha, depth, stencil)
	}
}

// WithDepth picks an RGB 888 configuration, with a depth buffer of at least
// 16 bits when needDepth is set.
//
// Parameters:
//   - needDepth: whether a depth buffer is required
//
// Returns:
//   - SurfaceViewBuilderOption: option function to apply
func WithDepth(needDepth bool) SurfaceViewBuilderOption {
	return func(v *surfaceView) {
		v.configChooser = graphics.NewSimpleConfigChooser(needDepth)
	}
}

// WithContextFactory sets the factory that creates and destroys contexts.
//
// Parameters:
//   - f: the factory
//
// Returns:
//   - SurfaceViewBuilderOption: option function to apply
func WithContextFactory(f graphics.ContextFactory) SurfaceViewBuilderOption {
	return func(v *surfaceView) {
		v.contextFactory = f
	}
}

// WithWindowSurfaceFactory sets the factory that creates and destroys window surfaces.
//
// Parameters:
//   - f: the factory
//
// Returns:
//   - SurfaceViewBuilderOption: option function to apply
func WithWindowSurfaceFactory(f graphics.WindowSurfaceFactory) SurfaceViewBuilderOption {
	return func(v *surfaceView) {
		v.surfaceFactory = f
	}
}

// WithWrapper decorates the drawing interface before the debug decorators.
//
// Parameters:
//   - w: the wrapper
//
// Returns:
//   - SurfaceViewBuilderOption: option function to apply
func WithWrapper(w graphics.Wrapper) SurfaceViewBuilderOption {
	return func(v *surfaceView) {
		v.wrapper = w
	}
}

// WithDebugFlags sets the initial debug flags.
//
// Parameters:
//   - flags: the debug flags
//
// Returns:
//   - SurfaceViewBuilderOption: option function to apply
func WithDebugFlags(flags graphics.DebugFlags) SurfaceViewBuilderOption {
	return func(v *surfaceView) {
		v.debugFlags.Store(int64(flags))
	}
}

// WithPreserveContextOnPause keeps the context across OnPause.
//
// Parameters:
//   - preserve: whether to keep the context
//
// Returns:
//   - SurfaceViewBuilderOption: option function to apply
func WithPreserveContextOnPause(preserve bool) SurfaceViewBuilderOption {
	return func(v *surfaceView) {
		v.preserve.Store(preserve)
	}
}

// WithRenderMode sets the initial render mode. Invalid modes are ignored.
//
// Parameters:
//   - mode: the render mode
//
// Returns:
//   - SurfaceViewBuilderOption: option function to apply
func WithRenderMode(mode renderthread.RenderMode) SurfaceViewBuilderOption {
	return func(v *surfaceView) {
		if mode.Valid() {
			v.renderMode = mode
		}
	}
}

// WithProfiling logs frame statistics for each render thread the view starts.
//
// Parameters:
//   - enabled: if true, enables profiling
//
// Returns:
//   - SurfaceViewBuilderOption: option function to apply
func WithProfiling(enabled bool) SurfaceViewBuilderOption {
	return func(v *surfaceView) {
		v.profiling = enabled
	}
}

// WithFatalHandler receives the error a render thread died with.
//
// Parameters:
//   - fn: the handler, run on the render thread
//
// Returns:
//   - SurfaceViewBuilderOption: option function to apply
func WithFatalHandler(fn func(error)) SurfaceViewBuilderOption {
	return func(v *surfaceView) {
		v.onFatal = fn
	}
}
