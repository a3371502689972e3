package widget

import (
	"errors"
	"fmt"
)

// ErrRuntimeUnavailable is returned when no widget runtime is injected and no
// default runtime factory is registered, e.g. in a headless environment. The
// external widget is never contacted in that case.
var ErrRuntimeUnavailable = errors.New("widget: no runtime available")

// ErrClosed is returned from operations on a closed client.
var ErrClosed = errors.New("widget: client closed")

// Error wraps a failure raised by the hosted widget runtime. There is a
// single error kind: whatever the external call threw, normalized so callers
// can unwrap or display it.
type Error struct {
	// Op is the operation that failed ("init", "send", "dial").
	Op string
	// Msg describes the failure.
	Msg string
	// Cause is the underlying error, if the runtime raised one.
	Cause error
}

// Error returns the formatted error message.
func (e *Error) Error() string {
	switch {
	case e.Msg != "" && e.Cause != nil:
		return fmt.Sprintf("widget: %s: %s: %v", e.Op, e.Msg, e.Cause)
	case e.Cause != nil:
		return fmt.Sprintf("widget: %s: %v", e.Op, e.Cause)
	default:
		return fmt.Sprintf("widget: %s: %s", e.Op, e.Msg)
	}
}

// Unwrap returns the underlying error for use with errors.Is and errors.As.
func (e *Error) Unwrap() error {
	return e.Cause
}

// NewError creates an Error for the given operation.
func NewError(op, msg string, cause error) *Error {
	return &Error{Op: op, Msg: msg, Cause: cause}
}

// Coerce normalizes an arbitrary value raised by the external runtime into an
// *Error. Errors are wrapped; anything else is stringified into the message.
// An existing *Error for the same failure passes through unchanged.
func Coerce(op string, v any) *Error {
	switch x := v.(type) {
	case *Error:
		return x
	case error:
		return &Error{Op: op, Cause: x}
	default:
		return &Error{Op: op, Msg: fmt.Sprint(x)}
	}
}
