// Package service provides the core business service that implements
// the dependencies required by the HTTP API.
package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/okian/roastcurve/internal/adapters/chart"
	"github.com/okian/roastcurve/internal/adapters/repository"
	"github.com/okian/roastcurve/internal/domain/model"
	"github.com/okian/roastcurve/internal/domain/profileset"
	"github.com/okian/roastcurve/internal/domain/session"
	"github.com/okian/roastcurve/pkg/logger"
	"github.com/okian/roastcurve/pkg/metrics"
)

const gaugeRefreshInterval = 10 * time.Second

// Service owns the session store and runs the roast pipeline for the API.
type Service struct {
	mu sync.RWMutex

	// Core components
	store     repository.SessionStore
	ownsStore bool
	renderer  *chart.Renderer
	locks     keyedMutex
	now       func() time.Time
	stopCh    chan struct{}
	started   bool
	logger    logger.Logger

	// Configuration
	maxProfiles      int
	maxPoints        int
	defaultProfiles  int
	defaultMode      model.InputMode
	showROR          bool
	interpolate      bool
	namePrefix       string
	sessionTTL       time.Duration
	compressionLevel int
	chartWidth       int
	chartHeight      int
	rorAxisMax       float64
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		maxProfiles:      model.MaxProfiles,
		maxPoints:        model.MaxPoints,
		defaultProfiles:  3,
		defaultMode:      model.ModeAbsoluteTime,
		showROR:          true,
		namePrefix:       "Profile",
		sessionTTL:       24 * time.Hour,
		compressionLevel: 2,
		chartWidth:       1024,
		chartHeight:      576,
		now:              time.Now,
		stopCh:           make(chan struct{}),
	}

	for _, opt := range opts {
		opt(s)
	}
	if s.defaultProfiles > s.maxProfiles {
		s.defaultProfiles = s.maxProfiles
	}

	return s
}

// Start opens the session store unless one was injected.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	if s.logger == nil {
		s.logger = logger.Get()
	}

	s.logger.Info(ctx, "starting roast curve service...")

	if s.store == nil {
		store, err := repository.NewBadgerStore(ctx,
			repository.WithTTL(s.sessionTTL),
			repository.WithCompressionLevel(s.compressionLevel),
			repository.WithLogger(s.logger.Named("store")),
		)
		if err != nil {
			return fmt.Errorf("open session store: %w", err)
		}
		s.store = store
		s.ownsStore = true
		s.logger.Info(ctx, "using in-memory badger session store",
			logger.Duration("ttl", s.sessionTTL),
			logger.Int("compressionLevel", s.compressionLevel),
		)
	}

	s.renderer = chart.New(
		chart.WithSize(s.chartWidth, s.chartHeight),
		chart.WithRORAxisMax(s.rorAxisMax),
	)
	s.stopCh = make(chan struct{})
	go s.refreshGauges(s.store, s.stopCh)

	s.started = true
	s.logger.Info(ctx, "roast curve service started",
		logger.Int("maxProfiles", s.maxProfiles),
		logger.Int("maxPoints", s.maxPoints),
		logger.String("defaultMode", string(s.defaultMode)),
	)

	return nil
}

// Stop gracefully shuts down the service.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}

	s.logger.Info(context.Background(), "stopping roast curve service...")

	if s.ownsStore && s.store != nil {
		if err := s.store.Close(); err != nil {
			s.logger.Warn(context.Background(), "close session store", logger.Error(err))
		}
		s.store = nil
		s.ownsStore = false
	}

	select {
	case <-s.stopCh:
	default:
		close(s.stopCh)
	}

	s.started = false
	s.logger.Info(context.Background(), "roast curve service stopped")
}

// refreshGauges keeps the active session gauge current until stop closes.
func (s *Service) refreshGauges(store repository.SessionStore, stop <-chan struct{}) {
	ticker := time.NewTicker(gaugeRefreshInterval)
	defer ticker.Stop()
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			metrics.UpdateActiveSessions(store.Count(context.Background()))
		}
	}
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := map[string]interface{}{
		"started":         s.started,
		"maxProfiles":     s.maxProfiles,
		"maxPoints":       s.maxPoints,
		"defaultProfiles": s.defaultProfiles,
		"defaultMode":     string(s.defaultMode),
		"sessionTTL":      s.sessionTTL.String(),
	}

	if s.started {
		active := s.store.Count(context.Background())
		stats["activeSessions"] = active
		stats["lockedSessions"] = s.locks.Len()
		metrics.UpdateActiveSessions(active)
	}

	return stats
}

// ActiveSessions returns the number of live sessions, 0 when stopped.
func (s *Service) ActiveSessions(ctx context.Context) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.started {
		return 0
	}
	return s.store.Count(ctx)
}

// components returns the store and renderer under the read lock.
func (s *Service) components() (repository.SessionStore, *chart.Renderer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.started {
		return nil, nil, ErrNotStarted
	}
	return s.store, s.renderer, nil
}

// newSet creates an empty or default-populated profile set.
func (s *Service) newSet(defaults int) *profileset.Set {
	return profileset.New(
		profileset.WithMaxProfiles(s.maxProfiles),
		profileset.WithMaxPoints(s.maxPoints),
		profileset.WithNamePrefix(s.namePrefix),
		profileset.WithDefaultProfiles(defaults),
	)
}

// load reads a session without taking its lock.
func (s *Service) load(ctx context.Context, id string) (*session.Session, error) {
	store, _, err := s.components()
	if err != nil {
		return nil, err
	}
	if !session.ValidID(id) {
		return nil, fmt.Errorf("%w: %s", repository.ErrNotFound, id)
	}
	return store.Get(ctx, id)
}

// update runs fn on a freshly loaded copy of the session and stores the
// result in one write. Nothing is written when fn fails.
func (s *Service) update(ctx context.Context, id string, fn func(*session.Session) error) (*session.Session, error) {
	store, _, err := s.components()
	if err != nil {
		return nil, err
	}
	if !session.ValidID(id) {
		return nil, fmt.Errorf("%w: %s", repository.ErrNotFound, id)
	}

	unlock := s.locks.Lock(id)
	defer unlock()

	sess, err := store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if sess.Profiles == nil {
		sess.Profiles = s.newSet(0)
	}
	if err := fn(sess); err != nil {
		return nil, err
	}
	sess.UpdatedAt = s.now().UTC()
	if err := store.Put(ctx, sess); err != nil {
		return nil, err
	}
	return sess, nil
}

// fail logs and counts a service-level error, then returns it.
func (s *Service) fail(ctx context.Context, op string, err error, fields ...logger.Field) error {
	metrics.RecordErrorByComponent("service", op)
	s.mu.RLock()
	l := s.logger
	s.mu.RUnlock()
	if l != nil {
		fields = append(fields, logger.String("op", op), logger.Error(err))
		l.Debug(ctx, "operation failed", fields...)
	}
	return err
}
