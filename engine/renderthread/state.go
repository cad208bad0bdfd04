package renderthread

import "fmt"

// RenderMode controls when the render thread draws.
type RenderMode int

const (
	// RenderModeWhenDirty draws only after RequestRender, a resize, a resume or
	// a surface change.
	RenderModeWhenDirty RenderMode = iota

	// RenderModeContinuously redraws as fast as presentation allows.
	RenderModeContinuously
)

// Valid reports whether m is one of the defined render modes.
func (m RenderMode) Valid() bool {
	return m == RenderModeWhenDirty || m == RenderModeContinuously
}

func (m RenderMode) String() string {
	switch m {
	case RenderModeWhenDirty:
		return "when-dirty"
	case RenderModeContinuously:
		return "continuously"
	default:
		return fmt.Sprintf("RenderMode(%d)", int(m))
	}
}

// ParseRenderMode converts the String form of a render mode back to a RenderMode.
//
// Parameters:
//   - s: "when-dirty" or "continuously"
//
// Returns:
//   - RenderMode: the parsed mode
//   - error: ErrInvalidRenderMode if s names no mode
func ParseRenderMode(s string) (RenderMode, error) {
	switch s {
	case "when-dirty", "on-demand":
		return RenderModeWhenDirty, nil
	case "continuously", "continuous":
		return RenderModeContinuously, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidRenderMode, s)
}

// State is the observable state of a render thread.
type State int

const (
	// StateIdle means the thread is waiting for a surface, a render request
	// or a non-zero size.
	StateIdle State = iota
	StateAcquiringContext
	StateAcquiringSurface
	StateReady
	StateDrawing
	StatePaused
	StateExiting
	StateExited
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateAcquiringContext:
		return "acquiring-context"
	case StateAcquiringSurface:
		return "acquiring-surface"
	case StateReady:
		return "ready"
	case StateDrawing:
		return "drawing"
	case StatePaused:
		return "paused"
	case StateExiting:
		return "exiting"
	case StateExited:
		return "exited"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// contextState tracks possession of the graphics context.
type contextState int

const (
	contextReleased contextState = iota
	contextHeld
	// contextEvicted is a context released on external request. The worker
	// does not reacquire it until it is woken again or a frame is requested.
	contextEvicted
)
