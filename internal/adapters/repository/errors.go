package repository

import "errors"

// Sentinel kinds for store errors.
var (
	ErrNotFound        = errors.New("document not found")
	ErrInvalidName     = errors.New("invalid collection name")
	ErrInvalidDocument = errors.New("invalid document")
)
