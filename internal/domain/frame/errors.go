package frame

import "errors"

// Sentinel kinds for frame errors.
var (
	ErrUnknownMode     = errors.New("unknown behavior mode")
	ErrInvalidSkeleton = errors.New("invalid skeleton")
	ErrOutOfOrder      = errors.New("capture time out of order")
)
