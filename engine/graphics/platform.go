package graphics

// Platform is the native graphics API a Session drives. All methods are
// called from the render goroutine and may block.
type Platform interface {
	// OpenDisplay connects to and initializes the default display.
	//
	// Returns:
	//   - Display: the initialized display
	//   - error: error if the display is unavailable
	OpenDisplay() (Display, error)

	// Configs lists the pixel configurations the display supports.
	//
	// Parameters:
	//   - d: an open display
	//
	// Returns:
	//   - []Config: the supported configurations
	//   - error: error if enumeration fails
	Configs(d Display) ([]Config, error)

	// CreateContext creates a graphics context for cfg.
	//
	// Parameters:
	//   - d: an open display
	//   - cfg: the chosen configuration
	//
	// Returns:
	//   - Context: the new context
	//   - error: error if creation fails
	CreateContext(d Display, cfg Config) (Context, error)

	// DestroyContext destroys a context created by CreateContext.
	//
	// Parameters:
	//   - d: the display the context belongs to
	//   - ctx: the context to destroy
	//
	// Returns:
	//   - error: an *Error if the platform rejects the call
	DestroyContext(d Display, ctx Context) error

	// CreateWindowSurface creates a window surface on win. An *Error with
	// CodeBadNativeWindow reports a torn-down native window.
	//
	// Parameters:
	//   - d: an open display
	//   - cfg: the chosen configuration
	//   - win: the native window
	//
	// Returns:
	//   - Surface: the new surface
	//   - error: error if creation fails
	CreateWindowSurface(d Display, cfg Config, win NativeWindow) (Surface, error)

	// DestroySurface destroys a surface created by CreateWindowSurface.
	//
	// Parameters:
	//   - d: the display the surface belongs to
	//   - s: the surface to destroy
	//
	// Returns:
	//   - error: error if the platform rejects the call
	DestroySurface(d Display, s Surface) error

	// MakeCurrent binds ctx and s to the calling thread.
	//
	// Parameters:
	//   - d: an open display
	//   - s: the surface to draw into
	//   - ctx: the context to draw with
	//
	// Returns:
	//   - error: error if the binding fails
	MakeCurrent(d Display, s Surface, ctx Context) error

	// ReleaseCurrent unbinds any surface and context from the calling thread.
	//
	// Parameters:
	//   - d: an open display
	//
	// Returns:
	//   - error: error if the unbinding fails
	ReleaseCurrent(d Display) error

	// Interface returns the drawing interface for ctx.
	//
	// Parameters:
	//   - d: an open display
	//   - ctx: the current context
	//
	// Returns:
	//   - Interface: the undecorated drawing interface
	Interface(d Display, ctx Context) Interface

	// Present posts the surface's back buffer. CodeContextLost is reported as
	// an *Error with that code.
	//
	// Parameters:
	//   - d: an open display
	//   - s: the current surface
	//
	// Returns:
	//   - error: nil on success
	Present(d Display, s Surface) error

	// CloseDisplay terminates the display connection.
	//
	// Parameters:
	//   - d: the display to close
	//
	// Returns:
	//   - error: error if termination fails
	CloseDisplay(d Display) error
}
