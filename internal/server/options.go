package server

import (
	"github.com/okian/venkman/internal/adapters/mq/worker"
	"github.com/okian/venkman/internal/session"
	"github.com/okian/venkman/pkg/logger"
)

// Option applies a configuration option to the Server.
type Option func(*Server)

// WithLogger sets the server logger.
func WithLogger(l logger.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithIDFormat selects IDSequence or IDUUID session ids.
func WithIDFormat(format string) Option {
	return func(s *Server) {
		if format != "" {
			s.idFormat = format
		}
	}
}

// WithLogDir enables per-session log files in dir.
func WithLogDir(dir string) Option {
	return func(s *Server) {
		s.logDir = dir
	}
}

// WithLogWriterOptions configures every session log writer.
func WithLogWriterOptions(opts ...worker.Option) Option {
	return func(s *Server) {
		s.logOpts = append(s.logOpts, opts...)
	}
}

// WithPool runs session log writers on pool.
func WithPool(pool *worker.Pool) Option {
	return func(s *Server) {
		if pool != nil {
			s.pool = pool
		}
	}
}

// WithObserver receives the frames of every session.
func WithObserver(o session.Observer) Option {
	return func(s *Server) {
		s.observer = o
	}
}

// WithRandomSeed makes session random sources reproducible. Session n
// draws from seed+n; zero seeds from the clock.
func WithRandomSeed(seed int64) Option {
	return func(s *Server) {
		s.seed = seed
	}
}
