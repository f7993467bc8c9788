package session

import (
	"errors"
	"fmt"

	"github.com/okian/venkman/internal/protocol"
)

// Sentinel kinds for session errors. Each wraps the protocol kind that
// decides its response status.
var (
	ErrSessionMismatch       = fmt.Errorf("%w: session id mismatch", protocol.ErrBadRequest)
	ErrNotOpen               = fmt.Errorf("%w: session not opened", protocol.ErrBadRequest)
	ErrInvalidField          = fmt.Errorf("%w: invalid field", protocol.ErrBadRequest)
	ErrConfigurationNotFound = fmt.Errorf("%w: configuration", protocol.ErrNotFound)
	ErrStream                = errors.New("tracker stream failed")
)
