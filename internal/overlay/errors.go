package overlay

import (
	"errors"
	"fmt"
)

// Code is a machine-readable overlay error code.
type Code string

const (
	// CodeUnmeasurable means the trigger or panel measured zero-size.
	// The engine retries on the next frame.
	CodeUnmeasurable Code = "UNMEASURABLE"

	// CodePositionPending means measurement retries ran out. The panel stays
	// mounted and invisible until a later signal lets it position.
	CodePositionPending Code = "POSITION_PENDING"

	// CodeViewportOverflow means the panel is larger than the viewport on
	// at least one axis and was clamped to the padding.
	CodeViewportOverflow Code = "VIEWPORT_OVERFLOW"

	// CodeListenerLeak means a subscription was attached twice.
	CodeListenerLeak Code = "LISTENER_LEAK"

	// CodeStaleCallback means a scheduled callback fired after its
	// generation had moved on.
	CodeStaleCallback Code = "STALE_CALLBACK"

	CodeInvalidConfig Code = "INVALID_CONFIG"
)

// Error is a structured overlay error with a code and optional cause.
type Error struct {
	Code    Code
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for errors.Is/As compatibility.
func (e *Error) Unwrap() error {
	return e.Cause
}

func newError(code Code, msg string, cause error) *Error {
	return &Error{Code: code, Message: msg, Cause: cause}
}

// IsCode reports whether err carries the given code anywhere in its chain.
func IsCode(err error, code Code) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}
