package engine

import (
	"time"

	"github.com/Carmen-Shannon/oxy-surface/engine/surfaceview"
	"github.com/Carmen-Shannon/oxy-surface/engine/window"
)

// EngineBuilderOption is a functional option for configuring an Engine.
// Use the With* functions to create options that are applied directly to the engine instance.
type EngineBuilderOption func(*engine)

// WithTickRate sets the engine tick rate in ticks per second.
// Values <= 0 will be treated as the default (60Hz).
//
// Parameters:
//   - fps: target ticks per second (default 60)
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithTickRate(fps float64) EngineBuilderOption {
	return func(e *engine) {
		e.engineTickRate = tickRate(fps)
	}
}

// WithTickCallback registers the function called each engine tick.
//
// Parameters:
//   - callback: function receiving the delta time in seconds
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithTickCallback(callback func(deltaTime float32)) EngineBuilderOption {
	return func(e *engine) {
		e.tickCallback = callback
	}
}

// WithView binds a window to a surface view during engine construction.
// Equivalent to calling Bind on the new engine.
//
// Parameters:
//   - w: the window providing the surface
//   - v: the surface view drawing into it, with its renderer set
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithView(w window.Window, v surfaceview.SurfaceView) EngineBuilderOption {
	return func(e *engine) {
		e.pending = append(e.pending, &binding{window: w, view: v})
	}
}

// WithWorkers sets how many goroutines run pause, resume and detach calls
// across views in parallel. Values <= 0 are ignored.
//
// Parameters:
//   - n: maximum number of workers (default 4)
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithWorkers(n int) EngineBuilderOption {
	return func(e *engine) {
		if n > 0 {
			e.workers = n
		}
	}
}

// WithPollInterval sets the longest time the event loop blocks waiting for
// window events before checking for closed windows. Values <= 0 poll
// without blocking.
//
// Parameters:
//   - d: the poll interval (default 50ms)
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithPollInterval(d time.Duration) EngineBuilderOption {
	return func(e *engine) {
		e.pollInterval = d
	}
}
