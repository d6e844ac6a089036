package service

import (
	"time"

	"github.com/okian/roastcurve/internal/adapters/repository"
	"github.com/okian/roastcurve/internal/domain/model"
	"github.com/okian/roastcurve/pkg/logger"
)

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithStore injects a session store. The service does not close injected stores.
func WithStore(store repository.SessionStore) Option {
	return func(s *Service) {
		if store != nil {
			s.store = store
		}
	}
}

// WithLimits sets the per-session profile capacity and per-profile row cap.
func WithLimits(maxProfiles, maxPoints int) Option {
	return func(s *Service) {
		if maxProfiles > 0 {
			s.maxProfiles = maxProfiles
		}
		if maxPoints > 0 {
			s.maxPoints = maxPoints
		}
	}
}

// WithDefaultProfiles sets how many empty profiles a new session starts with.
func WithDefaultProfiles(n int) Option {
	return func(s *Service) {
		if n >= 0 {
			s.defaultProfiles = n
		}
	}
}

// WithDefaultMode sets the input mode of new sessions.
func WithDefaultMode(mode model.InputMode) Option {
	return func(s *Service) {
		if mode.Valid() {
			s.defaultMode = mode
		}
	}
}

// WithDisplayDefaults seeds the show_ror and interpolate flags of new sessions.
func WithDisplayDefaults(showROR, interpolate bool) Option {
	return func(s *Service) {
		s.showROR = showROR
		s.interpolate = interpolate
	}
}

// WithNamePrefix sets the prefix for automatic profile names.
func WithNamePrefix(prefix string) Option {
	return func(s *Service) {
		if prefix != "" {
			s.namePrefix = prefix
		}
	}
}

// WithSessionTTL sets the expiry of an owned session store.
func WithSessionTTL(ttl time.Duration) Option {
	return func(s *Service) {
		if ttl > 0 {
			s.sessionTTL = ttl
		}
	}
}

// WithCompressionLevel sets the zstd level of an owned session store.
func WithCompressionLevel(level int) Option {
	return func(s *Service) {
		s.compressionLevel = level
	}
}

// WithChart sets the PNG size and the ROR axis cap. A zero cap autoscales.
func WithChart(width, height int, rorAxisMax float64) Option {
	return func(s *Service) {
		if width > 0 && height > 0 {
			s.chartWidth = width
			s.chartHeight = height
		}
		if rorAxisMax >= 0 {
			s.rorAxisMax = rorAxisMax
		}
	}
}

// WithClock replaces time.Now, mainly for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}
