package worker

import "errors"

// Sentinel kinds for log writer errors.
var (
	ErrStopped     = errors.New("log writer stopped")
	ErrLogDirUnset = errors.New("log directory not set")
)
