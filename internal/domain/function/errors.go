package function

import "errors"

// Sentinel errors for interpolation functions.
var (
	// ErrInvalidFunction marks a function definition that cannot be built.
	ErrInvalidFunction = errors.New("invalid function")
	// ErrOutOfRange marks an input outside a range whose policy ends the session.
	ErrOutOfRange = errors.New("input out of function range")
)
