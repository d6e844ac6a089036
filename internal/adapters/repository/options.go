package repository

import (
	"time"

	"github.com/okian/roastcurve/pkg/logger"
)

// Default store configuration.
const (
	defaultTTL              = 24 * time.Hour
	defaultCompressionLevel = 2
)

// Option applies a configuration option to the BadgerStore.
type Option func(*BadgerStore)

// WithTTL sets how long an untouched session lives.
func WithTTL(ttl time.Duration) Option {
	return func(s *BadgerStore) {
		if ttl > 0 {
			s.ttl = ttl
		}
	}
}

// WithCompressionLevel sets the zstd level (1 fastest .. 4 best).
func WithCompressionLevel(level int) Option {
	return func(s *BadgerStore) {
		if level >= 1 && level <= 4 {
			s.compressionLevel = level
		}
	}
}

// WithLogger enables store logging.
func WithLogger(l logger.Logger) Option {
	return func(s *BadgerStore) {
		if l != nil {
			s.log = l
		}
	}
}
