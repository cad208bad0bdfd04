package renderthread

import "github.com/Carmen-Shannon/oxy-surface/engine/profiler"

// ThreadBuilderOption is a functional option for configuring a render thread.
// Use the With* functions to create options.
type ThreadBuilderOption func(t *thread)

// WithRenderMode sets the initial render mode. Invalid modes are ignored and
// the default, RenderModeContinuously, is kept.
//
// Parameters:
//   - mode: the initial render mode
//
// Returns:
//   - ThreadBuilderOption: option function to apply
func WithRenderMode(mode RenderMode) ThreadBuilderOption {
	return func(t *thread) {
		if mode.Valid() {
			t.renderMode = mode
		}
	}
}

// WithProfiler ticks p after every presented frame.
//
// Parameters:
//   - p: the profiler owned by this thread
//
// Returns:
//   - ThreadBuilderOption: option function to apply
func WithProfiler(p *profiler.Profiler) ThreadBuilderOption {
	return func(t *thread) {
		t.profiler = p
	}
}

// WithFatalHandler installs a hook that receives the error a worker died
// with. It runs on the worker after cleanup and before the thread reports
// itself exited.
//
// Parameters:
//   - fn: the handler
//
// Returns:
//   - ThreadBuilderOption: option function to apply
func WithFatalHandler(fn func(error)) ThreadBuilderOption {
	return func(t *thread) {
		t.onFatal = fn
	}
}

// WithName labels the thread's log records.
//
// Parameters:
//   - name: the label
//
// Returns:
//   - ThreadBuilderOption: option function to apply
func WithName(name string) ThreadBuilderOption {
	return func(t *thread) {
		if name != "" {
			t.name = name
		}
	}
}
