package stimulus

import "errors"

// Sentinel kinds for stimulus configuration errors.
var (
	ErrInvalidFlashPattern = errors.New("invalid flash pattern")
)
