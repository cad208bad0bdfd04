package graphics

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/Carmen-Shannon/oxy-surface/common"
)

// Session owns one graphics session for a render thread: display, config,
// context and window surface. It performs every slow, possibly failing
// platform call and must only be used from the render goroutine.
type Session struct {
	platform Platform
	resolve  Resolver
	logger   *slog.Logger

	// collab is the snapshot taken by Start. Teardown uses it so handles are
	// always destroyed by the factory that created them.
	collab Collaborators

	display Display
	config  Config
	context Context
	surface Surface
}

// NewSession creates an idle Session.
//
// Parameters:
//   - p: the platform to drive
//   - resolve: looks up the collaborators; may report them absent
//
// Returns:
//   - *Session: the idle session
func NewSession(p Platform, resolve Resolver) *Session {
	return &Session{
		platform: p,
		resolve:  resolve,
		logger:   common.Logger().With("component", "session"),
	}
}

// Start opens the display, chooses a configuration and creates a context.
// Any error is a configuration error: no renderer can run without a context.
func (s *Session) Start() error {
	s.logger.Debug("start")

	if s.display == nil {
		d, err := s.platform.OpenDisplay()
		if err != nil {
			return fmt.Errorf("graphics: open display: %w", err)
		}
		s.display = d
	}

	c, ok := s.resolve()
	if !ok {
		s.config = nil
		s.context = nil
		return fmt.Errorf("graphics: create context: %w", ErrNoHost)
	}
	s.collab = c

	configs, err := s.platform.Configs(s.display)
	if err != nil {
		return fmt.Errorf("graphics: list configs: %w", err)
	}
	cfg, err := c.ConfigChooser.ChooseConfig(configs)
	if err != nil {
		return fmt.Errorf("graphics: choose config: %w", err)
	}
	if cfg == nil {
		return fmt.Errorf("graphics: choose config: %w", ErrNoMatchingConfig)
	}

	ctx, err := c.ContextFactory.CreateContext(s.platform, s.display, cfg)
	if err != nil {
		return fmt.Errorf("graphics: create context: %w", err)
	}
	if ctx == nil {
		return fmt.Errorf("graphics: %w", NewError("CreateContext", CodeBadContext))
	}

	s.config = cfg
	s.context = ctx
	s.surface = nil
	s.logger.Debug("created context", "context", ctx)
	return nil
}

// CreateSurface replaces the current window surface and makes it current.
// Failures wrapping ErrSurfaceUnavailable are recoverable; ErrNotStarted is not.
func (s *Session) CreateSurface() error {
	s.logger.Debug("create surface")

	if s.display == nil || s.config == nil || s.context == nil {
		return ErrNotStarted
	}

	// A native window can only back one surface at a time.
	s.DestroySurface()

	c, ok := s.resolve()
	if !ok {
		return fmt.Errorf("%w: %w", ErrSurfaceUnavailable, ErrNoHost)
	}

	surf, err := c.SurfaceFactory.CreateWindowSurface(s.platform, s.display, s.config, c.NativeWindow)
	if err != nil {
		s.logger.Warn("create window surface failed", "err", err)
		return fmt.Errorf("%w: %w", ErrSurfaceUnavailable, err)
	}
	if surf == nil {
		s.logger.Warn("create window surface returned no surface")
		return fmt.Errorf("%w: %w", ErrSurfaceUnavailable, NewError("CreateWindowSurface", CodeBadNativeWindow))
	}
	s.surface = surf

	// MakeCurrent can fail if the native window went away after the surface
	// was created. The surface stays recorded so it is destroyed later.
	if err := s.platform.MakeCurrent(s.display, s.surface, s.context); err != nil {
		s.logger.Warn("make current failed", "err", err)
		return fmt.Errorf("%w: %w", ErrSurfaceUnavailable, err)
	}
	return nil
}

// Interface returns the decorated drawing interface for the current context.
func (s *Session) Interface() Interface {
	w, flags := s.collab.Wrapper, s.collab.DebugFlags
	if c, ok := s.resolve(); ok {
		w, flags = c.Wrapper, c.DebugFlags
	}
	return Decorate(s.platform.Interface(s.display, s.context), w, flags)
}

// Present posts the current frame and returns the platform result code.
func (s *Session) Present() ErrorCode {
	err := s.platform.Present(s.display, s.surface)
	if err != nil && !errors.Is(err, &Error{Code: CodeContextLost}) {
		s.logger.Warn("present failed", "err", err)
	}
	return CodeOf(err)
}

// DestroySurface unbinds and destroys the current window surface, if any.
func (s *Session) DestroySurface() {
	if s.surface == nil {
		return
	}
	s.logger.Debug("destroy surface")
	if err := s.platform.ReleaseCurrent(s.display); err != nil {
		s.logger.Warn("release current failed", "err", err)
	}
	if f := s.collab.SurfaceFactory; f != nil {
		if err := f.DestroySurface(s.platform, s.display, s.surface); err != nil {
			s.logger.Warn("destroy surface failed", "err", err)
		}
	}
	s.surface = nil
}

// Finish destroys the context and closes the display. Handles are cleared
// even when the platform rejects the destroy, so Finish never destroys a
// handle twice.
func (s *Session) Finish() error {
	s.logger.Debug("finish")
	s.DestroySurface()

	var err error
	if s.context != nil {
		if f := s.collab.ContextFactory; f != nil {
			err = f.DestroyContext(s.platform, s.display, s.context)
		}
		s.context = nil
	}
	if s.display != nil {
		if cerr := s.platform.CloseDisplay(s.display); cerr != nil {
			s.logger.Warn("close display failed", "err", cerr)
		}
		s.display = nil
	}
	s.config = nil
	return err
}

// Config returns the chosen configuration, or nil before Start.
func (s *Session) Config() Config { return s.config }

// HasContext reports whether a context is currently held.
func (s *Session) HasContext() bool { return s.context != nil }

// HasSurface reports whether a window surface is currently held.
func (s *Session) HasSurface() bool { return s.surface != nil }
