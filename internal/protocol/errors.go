package protocol

import (
	"errors"
	"fmt"
)

// Sentinel kinds for request failures. The kind decides the response status.
var (
	ErrBadRequest = errors.New("invalid request")
	ErrNotFound   = errors.New("not found")
)

// Error is a request failure whose text is returned to the tracker as is.
type Error struct {
	Kind error
	Text string
}

func (e *Error) Error() string { return e.Text }

func (e *Error) Unwrap() error { return e.Kind }

// Errorf builds an Error of kind with formatted text.
func Errorf(kind error, format string, args ...interface{}) error {
	return &Error{Kind: kind, Text: fmt.Sprintf(format, args...)}
}

// StatusOf maps err to the status code it is answered with.
func StatusOf(err error) int {
	switch {
	case err == nil:
		return StatusOK
	case errors.Is(err, ErrBadRequest):
		return StatusBadRequest
	case errors.Is(err, ErrNotFound):
		return StatusNotFound
	default:
		return StatusServerError
	}
}
