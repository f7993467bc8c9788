// Package worker writes session logs in the background.
package worker

import (
	"time"

	"github.com/okian/venkman/pkg/logger"
)

// Option applies a configuration option to the LogWriter.
type Option func(*LogWriter)

// WithName sets the writer name for identification and logging.
func WithName(name string) Option {
	return func(w *LogWriter) {
		if name != "" {
			w.name = name
		}
	}
}

// WithLogger sets a custom logger for the writer.
func WithLogger(logger logger.Logger) Option {
	return func(w *LogWriter) {
		if logger != nil {
			w.logger = logger
		}
	}
}

// WithWritePause sets how long the writer sleeps between drains. Zero or
// less writes as soon as records arrive.
func WithWritePause(d time.Duration) Option {
	return func(w *LogWriter) {
		w.writePause = d
	}
}

// WithItemsToBuffer makes the writer hold records until more than n are
// buffered. The final flush ignores it.
func WithItemsToBuffer(n int) Option {
	return func(w *LogWriter) {
		if n >= 0 {
			w.itemsToBuffer = n
		}
	}
}
