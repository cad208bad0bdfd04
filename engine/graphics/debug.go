package graphics

import (
	"fmt"
	"log/slog"

	"github.com/Carmen-Shannon/oxy-surface/common"
)

// CallError is the panic value raised by a DebugCheckError interface when a
// call records an error.
type CallError struct {
	Call string
	Err  error
}

func (e *CallError) Error() string { return fmt.Sprintf("%s: %v", e.Call, e.Err) }

func (e *CallError) Unwrap() error { return e.Err }

// Decorate applies w (if any) and then the debug decorators selected by flags.
//
// Parameters:
//   - gi: the platform drawing interface
//   - w: optional user wrapper, applied first
//   - flags: debug decorators to apply on top
//
// Returns:
//   - Interface: the decorated interface
func Decorate(gi Interface, w Wrapper, flags DebugFlags) Interface {
	if w != nil {
		gi = w.Wrap(gi)
	}
	if flags&DebugLogCalls != 0 {
		gi = &loggingInterface{inner: gi, logger: common.Logger().With("component", "graphics")}
	}
	if flags&DebugCheckError != 0 {
		gi = &checkedInterface{inner: gi}
	}
	return gi
}

type checkedInterface struct {
	inner Interface
}

func (c *checkedInterface) Clear(r, g, b, a float64) {
	c.inner.Clear(r, g, b, a)
	c.check("Clear")
}

func (c *checkedInterface) Flush() {
	c.inner.Flush()
	c.check("Flush")
}

func (c *checkedInterface) Err() error { return c.inner.Err() }

func (c *checkedInterface) Unwrap() Interface { return c.inner }

func (c *checkedInterface) check(call string) {
	if err := c.inner.Err(); err != nil {
		panic(&CallError{Call: call, Err: err})
	}
}

type loggingInterface struct {
	inner  Interface
	logger *slog.Logger
}

func (l *loggingInterface) Clear(r, g, b, a float64) {
	l.logger.Debug("Clear", "r", r, "g", g, "b", b, "a", a)
	l.inner.Clear(r, g, b, a)
}

func (l *loggingInterface) Flush() {
	l.logger.Debug("Flush")
	l.inner.Flush()
}

func (l *loggingInterface) Err() error {
	err := l.inner.Err()
	if err != nil {
		l.logger.Debug("Err", "err", err)
	}
	return err
}

func (l *loggingInterface) Unwrap() Interface { return l.inner }
