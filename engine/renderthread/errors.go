package renderthread

import "errors"

var (
	// ErrInvalidRenderMode is returned for render modes outside the defined set.
	ErrInvalidRenderMode = errors.New("renderthread: invalid render mode")

	// ErrNilEvent is returned when a nil event is queued.
	ErrNilEvent = errors.New("renderthread: nil event")

	// ErrAlreadyStarted is returned when Start is called on a thread that was
	// already started or asked to exit.
	ErrAlreadyStarted = errors.New("renderthread: already started")

	// ErrRendererPanic wraps a panic recovered from a renderer callback.
	ErrRendererPanic = errors.New("renderthread: renderer panicked")
)
