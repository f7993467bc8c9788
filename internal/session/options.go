package session

import (
	"math/rand"
	"time"

	"github.com/okian/venkman/pkg/logger"
)

// Option applies a configuration option to a Session.
type Option func(*Session)

// WithLogger sets the session logger.
func WithLogger(l logger.Logger) Option {
	return func(s *Session) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithRecorder sets where the session log goes.
func WithRecorder(r Recorder) Option {
	return func(s *Session) {
		if r != nil {
			s.recorder = r
		}
	}
}

// WithObserver receives every processed frame.
func WithObserver(o Observer) Option {
	return func(s *Session) {
		if o != nil {
			s.observer = o
		}
	}
}

// WithRandom sets the random source the session's rules draw from.
func WithRandom(rng *rand.Rand) Option {
	return func(s *Session) {
		if rng != nil {
			s.rng = rng
		}
	}
}

// WithRemote records the tracker address for logs and stats.
func WithRemote(addr string) Option {
	return func(s *Session) {
		s.remote = addr
	}
}

// WithClock replaces the clock used to time requests.
func WithClock(now func() time.Time) Option {
	return func(s *Session) {
		if now != nil {
			s.now = now
		}
	}
}
