package server

import "errors"

// Sentinel kinds for server errors.
var (
	ErrAlreadyStarted  = errors.New("server already started")
	ErrInvalidIDFormat = errors.New("invalid session id format")
)
