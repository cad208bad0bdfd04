// Package graphics defines the collaborator contracts a render thread drives
// (platform, config chooser, context and window-surface factories, renderer)
// and the Session that sequences them: context init, surface create, make
// current, draw, present, surface destroy, context destroy.
//
// Every type in this package is used from a single render goroutine. Nothing
// here synchronizes; the render thread guarantees exclusive access.
package graphics

// Display is an opaque platform display connection (for example a wgpu instance).
type Display any

// Context is an opaque graphics context handle.
type Context any

// Surface is an opaque window surface handle bound to a native window.
type Surface any

// NativeWindow is the platform window a window surface is created for.
// The concrete type is platform specific.
type NativeWindow any

// Attribute identifies a component of a pixel configuration.
type Attribute int

const (
	AttribRedSize Attribute = iota
	AttribGreenSize
	AttribBlueSize
	AttribAlphaSize
	AttribDepthSize
	AttribStencilSize
)

func (a Attribute) String() string {
	switch a {
	case AttribRedSize:
		return "red"
	case AttribGreenSize:
		return "green"
	case AttribBlueSize:
		return "blue"
	case AttribAlphaSize:
		return "alpha"
	case AttribDepthSize:
		return "depth"
	case AttribStencilSize:
		return "stencil"
	default:
		return "unknown"
	}
}

// Config is a pixel configuration offered by a Platform.
type Config interface {
	// Attrib returns the value of the given attribute.
	//
	// Parameters:
	//   - a: the attribute to query
	//
	// Returns:
	//   - int: the attribute value
	//   - bool: false if the configuration does not define the attribute
	Attrib(a Attribute) (int, bool)
}

// Interface is the drawing interface handed to a Renderer. It is only valid
// on the render goroutine, between OnSurfaceCreated and the next context loss.
//
// Errors are sticky in the GL manner: a failing call records its error and Err
// returns and clears it.
type Interface interface {
	// Clear fills the current surface with a solid color.
	Clear(r, g, b, a float64)

	// Flush submits any recorded work for the current frame.
	Flush()

	// Err returns and clears the first error recorded since the last call.
	Err() error
}

// Unwrapper is implemented by Interface decorators. Renderers that need the
// platform's concrete interface unwrap until the type assertion succeeds.
type Unwrapper interface {
	Unwrap() Interface
}

// Unwrap strips every decorator from gi and returns the innermost Interface.
func Unwrap(gi Interface) Interface {
	for {
		u, ok := gi.(Unwrapper)
		if !ok {
			return gi
		}
		gi = u.Unwrap()
	}
}

// Renderer draws frames. Every method is called on the render goroutine.
type Renderer interface {
	// OnSurfaceCreated is called once per graphics context acquisition, before
	// any other callback for that context.
	//
	// Parameters:
	//   - gi: the drawing interface
	//   - cfg: the pixel configuration the context was created with
	OnSurfaceCreated(gi Interface, cfg Config)

	// OnSurfaceChanged is called after every accepted size change, and after
	// each new surface binding.
	//
	// Parameters:
	//   - gi: the drawing interface
	//   - width: surface width in pixels
	//   - height: surface height in pixels
	OnSurfaceChanged(gi Interface, width, height int)

	// OnDrawFrame draws the current frame.
	//
	// Parameters:
	//   - gi: the drawing interface
	OnDrawFrame(gi Interface)
}

// Wrapper decorates the drawing interface before it is handed to the Renderer.
type Wrapper interface {
	Wrap(gi Interface) Interface
}

// WrapperFunc adapts a function to the Wrapper interface.
type WrapperFunc func(gi Interface) Interface

func (f WrapperFunc) Wrap(gi Interface) Interface { return f(gi) }

// DebugFlags select the debug decorators applied to the drawing interface.
type DebugFlags int

const (
	// DebugCheckError checks Err after every call and panics with the error.
	// The render thread turns the panic into a fatal exit.
	DebugCheckError DebugFlags = 1 << iota

	// DebugLogCalls logs every drawing interface call at debug level.
	DebugLogCalls
)

// Collaborators bundles the pluggable strategies a Session calls into.
// They are owned by the view hosting the render thread.
type Collaborators struct {
	ConfigChooser  ConfigChooser
	ContextFactory ContextFactory
	SurfaceFactory WindowSurfaceFactory
	NativeWindow   NativeWindow
	Wrapper        Wrapper
	DebugFlags     DebugFlags
}

// Resolver looks up the current Collaborators. It reports false once the
// owner has been reclaimed.
type Resolver func() (Collaborators, bool)
