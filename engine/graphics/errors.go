package graphics

import (
	"errors"
	"fmt"
)

// ErrorCode is a platform error code, in the spirit of EGL error values.
type ErrorCode int

const (
	CodeSuccess ErrorCode = iota
	CodeNotInitialized
	CodeBadAlloc
	CodeBadConfig
	CodeBadContext
	CodeBadDisplay
	CodeBadSurface
	CodeBadNativeWindow
	CodeBadMatch
	CodeContextLost
)

func (c ErrorCode) String() string {
	switch c {
	case CodeSuccess:
		return "SUCCESS"
	case CodeNotInitialized:
		return "NOT_INITIALIZED"
	case CodeBadAlloc:
		return "BAD_ALLOC"
	case CodeBadConfig:
		return "BAD_CONFIG"
	case CodeBadContext:
		return "BAD_CONTEXT"
	case CodeBadDisplay:
		return "BAD_DISPLAY"
	case CodeBadSurface:
		return "BAD_SURFACE"
	case CodeBadNativeWindow:
		return "BAD_NATIVE_WINDOW"
	case CodeBadMatch:
		return "BAD_MATCH"
	case CodeContextLost:
		return "CONTEXT_LOST"
	default:
		return fmt.Sprintf("0x%x", int(c))
	}
}

var (
	// ErrNoMatchingConfig is returned when no configuration satisfies a ConfigChooser.
	ErrNoMatchingConfig = errors.New("graphics: no matching configuration")

	// ErrNoHost is returned when the collaborators owner has been reclaimed.
	ErrNoHost = errors.New("graphics: collaborators unavailable")

	// ErrNotStarted is returned when a surface is requested before Start.
	ErrNotStarted = errors.New("graphics: session not started")

	// ErrSurfaceUnavailable marks a recoverable window surface failure.
	ErrSurfaceUnavailable = errors.New("graphics: window surface unavailable")
)

// Error is a failed platform call together with its error code.
type Error struct {
	Op   string
	Code ErrorCode
	Err  error
}

// NewError returns an *Error for op with the given code.
func NewError(op string, code ErrorCode) *Error {
	return &Error{Op: op, Code: code}
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s failed: %s: %v", e.Op, e.Code, e.Err)
	}
	return fmt.Sprintf("%s failed: %s", e.Op, e.Code)
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches another *Error with the same code and, when set, the same Op.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Code == e.Code && (t.Op == "" || t.Op == e.Op)
}

// CodeOf extracts the ErrorCode carried by err. A nil error is CodeSuccess,
// an error without a code is CodeBadSurface.
func CodeOf(err error) ErrorCode {
	if err == nil {
		return CodeSuccess
	}
	var ge *Error
	if errors.As(err, &ge) {
		return ge.Code
	}
	return CodeBadSurface
}
