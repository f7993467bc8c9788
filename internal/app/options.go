package service

import (
	"time"

	"github.com/okian/venkman/internal/adapters/repository"
	"github.com/okian/venkman/pkg/logger"
)

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithLogger sets a custom logger for the service.
func WithLogger(logger logger.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithAddr sets the tracker TCP listen address.
func WithAddr(addr string) Option {
	return func(s *Service) {
		if addr != "" {
			s.addr = addr
		}
	}
}

// WithWorkDir opens a file store rooted at dir on Start. WithStore wins
// over it.
func WithWorkDir(dir string) Option {
	return func(s *Service) {
		s.workDir = dir
	}
}

// WithStore sets the configuration store.
func WithStore(store repository.Store) Option {
	return func(s *Service) {
		s.store = store
	}
}

// WithLogDir enables per-session log files in dir.
func WithLogDir(dir string) Option {
	return func(s *Service) {
		s.logDir = dir
	}
}

// WithLogWritePause sets the pause between session log batches.
func WithLogWritePause(d time.Duration) Option {
	return func(s *Service) {
		s.writePause = d
	}
}

// WithItemsToBuffer sets how many session log records are held back
// before a batch is written.
func WithItemsToBuffer(n int) Option {
	return func(s *Service) {
		if n >= 0 {
			s.itemsToBuffer = n
		}
	}
}

// WithSessionIDFormat selects sequence or uuid session ids.
func WithSessionIDFormat(format string) Option {
	return func(s *Service) {
		if format != "" {
			s.idFormat = format
		}
	}
}

// WithRandomSeed seeds session random sources; 0 seeds from the clock.
func WithRandomSeed(seed int64) Option {
	return func(s *Service) {
		s.seed = seed
	}
}

// WithMonitor enables the live frame feed.
func WithMonitor(enabled bool) Option {
	return func(s *Service) {
		s.monitorEnabled = enabled
	}
}
