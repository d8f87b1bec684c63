package intercept

import (
	"errors"
	"fmt"
)

// Sentinel errors for interception operations.
var (
	// ErrInvalidResourceType indicates Intercept was given something that is not a stream.
	ErrInvalidResourceType = errors.New("invalid resource type")

	// ErrNotRegistered indicates Intercept was called before Register.
	ErrNotRegistered = errors.New("interception not registered")

	// ErrRecordNotFound indicates no active interception matches the identifier.
	ErrRecordNotFound = errors.New("buffer not found")
)

// Operation names carried by Error.Op.
const (
	OpIntercept = "intercept"
	OpStop      = "stop"
	OpOutput    = "output"
	OpReset     = "reset"
)

// Error wraps interception errors with the operation and identifier involved.
type Error struct {
	Op   string // Operation that failed ("intercept", "stop", "output", "reset")
	ID   string // Identifier of the interception, if known
	Type string // Go type received by Intercept, for ErrInvalidResourceType
	Err  error  // Underlying error
}

// Error implements the error interface.
func (e *Error) Error() string {
	var msg string
	switch {
	case errors.Is(e.Err, ErrRecordNotFound):
		msg = notFoundMessage(e.Op)
	case errors.Is(e.Err, ErrInvalidResourceType):
		msg = fmt.Sprintf("the stream to intercept must be a *stream.Stream but provided %q", e.Type)
	case errors.Is(e.Err, ErrNotRegistered):
		msg = "Register must be called before intercepting a stream"
	default:
		msg = e.Err.Error()
	}

	if e.ID != "" {
		return fmt.Sprintf("%s: %s (buffer %q)", e.Op, msg, e.ID)
	}
	return fmt.Sprintf("%s: %s", e.Op, msg)
}

// Unwrap returns the underlying error for errors.Is/As support.
func (e *Error) Unwrap() error {
	return e.Err
}

func notFoundMessage(op string) string {
	switch op {
	case OpStop:
		return "attempted to stop intercepting a buffer that is not currently intercepting any stream; only call StopIntercepting once per buffer"
	case OpOutput:
		return "attempted to get output for a buffer that is not currently intercepting any stream; do not call Output after StopIntercepting"
	case OpReset:
		return "attempted to reset a buffer that is not currently intercepting any stream; do not call Reset after StopIntercepting"
	default:
		return "no active interception matches the identifier"
	}
}

func errNotFound(op, id string) *Error {
	return &Error{Op: op, ID: id, Err: ErrRecordNotFound}
}

// IsNotFound reports whether err is a record-not-found error.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrRecordNotFound)
}

// IsInvalidResource reports whether err was caused by a non-stream argument.
func IsInvalidResource(err error) bool {
	return errors.Is(err, ErrInvalidResourceType)
}

// IsNotRegistered reports whether err was caused by a missing Register call.
func IsNotRegistered(err error) bool {
	return errors.Is(err, ErrNotRegistered)
}

// OpOf returns the operation recorded in err, or "" if err is not an *Error.
func OpOf(err error) string {
	var ie *Error
	if errors.As(err, &ie) {
		return ie.Op
	}
	return ""
}
