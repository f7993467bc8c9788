package trackersim

import "errors"

// Sentinel kinds for simulation failures.
var (
	ErrUnexpectedReply = errors.New("unexpected reply")
	ErrServerStatus    = errors.New("server returned an error status")
	ErrNoConfiguration = errors.New("no configuration available")
	ErrVerification    = errors.New("verification failed")
)
