package graphics

import (
	"errors"

	"github.com/Carmen-Shannon/oxy-surface/common"
)

// ContextFactory creates and destroys graphics contexts.
type ContextFactory interface {
	// CreateContext creates a context for cfg on d.
	//
	// Parameters:
	//   - p: the platform
	//   - d: an open display
	//   - cfg: the chosen configuration
	//
	// Returns:
	//   - Context: the new context (nil is treated as a failure)
	//   - error: error if creation fails
	CreateContext(p Platform, d Display, cfg Config) (Context, error)

	// DestroyContext destroys ctx.
	//
	// Parameters:
	//   - p: the platform
	//   - d: the display ctx belongs to
	//   - ctx: the context to destroy
	//
	// Returns:
	//   - error: an *Error with Op "DestroyContext" if the platform rejects the call
	DestroyContext(p Platform, d Display, ctx Context) error
}

// WindowSurfaceFactory creates and destroys window surfaces.
type WindowSurfaceFactory interface {
	// CreateWindowSurface creates a surface on win. A nil Surface with a nil
	// error means the native window was torn down; the caller recovers.
	//
	// Parameters:
	//   - p: the platform
	//   - d: an open display
	//   - cfg: the chosen configuration
	//   - win: the native window
	//
	// Returns:
	//   - Surface: the new surface, or nil
	//   - error: error if creation fails for another reason
	CreateWindowSurface(p Platform, d Display, cfg Config, win NativeWindow) (Surface, error)

	// DestroySurface destroys s.
	//
	// Parameters:
	//   - p: the platform
	//   - d: the display s belongs to
	//   - s: the surface to destroy
	//
	// Returns:
	//   - error: error if the platform rejects the call
	DestroySurface(p Platform, d Display, s Surface) error
}

// DefaultContextFactory delegates to the Platform.
type DefaultContextFactory struct{}

var _ ContextFactory = DefaultContextFactory{}

func (DefaultContextFactory) CreateContext(p Platform, d Display, cfg Config) (Context, error) {
	return p.CreateContext(d, cfg)
}

func (DefaultContextFactory) DestroyContext(p Platform, d Display, ctx Context) error {
	if err := p.DestroyContext(d, ctx); err != nil {
		common.Logger().Error("destroy context rejected", "display", d, "context", ctx, "err", err)
		return &Error{Op: "DestroyContext", Code: CodeOf(err), Err: err}
	}
	return nil
}

// DefaultWindowSurfaceFactory delegates to the Platform and maps a bad native
// window to a nil surface.
type DefaultWindowSurfaceFactory struct{}

var _ WindowSurfaceFactory = DefaultWindowSurfaceFactory{}

func (DefaultWindowSurfaceFactory) CreateWindowSurface(p Platform, d Display, cfg Config, win NativeWindow) (Surface, error) {
	s, err := p.CreateWindowSurface(d, cfg, win)
	if err != nil {
		// The native window can be torn down before the owner hears about it.
		if errors.Is(err, &Error{Code: CodeBadNativeWindow}) {
			common.Logger().Warn("create window surface: bad native window", "err", err)
			return nil, nil
		}
		return nil, err
	}
	return s, nil
}

func (DefaultWindowSurfaceFactory) DestroySurface(p Platform, d Display, s Surface) error {
	return p.DestroySurface(d, s)
}
