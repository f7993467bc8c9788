package rules

import "errors"

// Sentinel errors for rule documents.
var (
	ErrUnknownRule = errors.New("unknown stimulus rule")
	ErrInvalidRule = errors.New("invalid stimulus rule")
)
