package repository

import "github.com/okian/venkman/pkg/logger"

// Option applies a configuration option to the FileStore.
type Option func(*FileStore)

// WithLogger sets the store's logger.
func WithLogger(l logger.Logger) Option {
	return func(s *FileStore) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithExtension changes the document file extension (default ".yaml").
func WithExtension(ext string) Option {
	return func(s *FileStore) {
		if ext != "" {
			s.ext = ext
		}
	}
}
