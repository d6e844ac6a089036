package service

import (
	"context"
	"time"

	"github.com/okian/roastcurve/internal/domain/inspect"
	"github.com/okian/roastcurve/internal/domain/model"
	"github.com/okian/roastcurve/internal/domain/parse"
	"github.com/okian/roastcurve/internal/domain/session"
	"github.com/okian/roastcurve/internal/domain/types"
	"github.com/okian/roastcurve/pkg/logger"
	"github.com/okian/roastcurve/pkg/metrics"
)

// CreateSession stores a new session with the default profiles and flags.
func (s *Service) CreateSession(ctx context.Context) (types.SessionView, error) {
	store, _, err := s.components()
	if err != nil {
		return types.SessionView{}, err
	}

	sess := session.New(s.defaultMode, s.newSet(s.defaultProfiles), s.now().UTC())
	sess.ShowROR = s.showROR
	sess.Interpolate = s.interpolate
	if err := store.Put(ctx, sess); err != nil {
		return types.SessionView{}, s.fail(ctx, "create_session", err)
	}

	metrics.RecordSessionCreated()
	s.logger.Info(ctx, "session created",
		logger.String("session", sess.ID),
		logger.String("mode", string(sess.Mode)),
	)
	return types.NewSessionView(sess), nil
}

// GetSession returns the current view of a session.
func (s *Service) GetSession(ctx context.Context, id string) (types.SessionView, error) {
	sess, err := s.load(ctx, id)
	if err != nil {
		return types.SessionView{}, s.fail(ctx, "get_session", err, logger.String("session", id))
	}
	return types.NewSessionView(sess), nil
}

// DeleteSession removes a session.
func (s *Service) DeleteSession(ctx context.Context, id string) error {
	store, _, err := s.components()
	if err != nil {
		return err
	}
	unlock := s.locks.Lock(id)
	defer unlock()

	if err := store.Delete(ctx, id); err != nil {
		return s.fail(ctx, "delete_session", err, logger.String("session", id))
	}
	s.logger.Info(ctx, "session deleted", logger.String("session", id))
	return nil
}

// UpdateSettings applies a partial settings change. Switching the input mode
// does not re-derive; call Synchronize for that.
func (s *Service) UpdateSettings(ctx context.Context, id string, st session.Settings) (types.SessionView, error) {
	sess, err := s.update(ctx, id, func(sess *session.Session) error {
		return sess.Apply(st, s.now().UTC())
	})
	if err != nil {
		return types.SessionView{}, s.fail(ctx, "update_settings", err, logger.String("session", id))
	}
	return types.NewSessionView(sess), nil
}

// AddProfile appends an empty profile. An empty name picks the next automatic one.
func (s *Service) AddProfile(ctx context.Context, id, name string) (types.ProfileView, error) {
	var added string
	sess, err := s.update(ctx, id, func(sess *session.Session) error {
		var err error
		added, err = sess.Profiles.Add(name)
		return err
	})
	if err != nil {
		return types.ProfileView{}, s.fail(ctx, "add_profile", err, logger.String("session", id))
	}
	p, err := sess.Profiles.Get(added)
	if err != nil {
		return types.ProfileView{}, err
	}
	return types.NewProfileView(p), nil
}

// RenameProfile renames a profile in place.
func (s *Service) RenameProfile(ctx context.Context, id, oldName, newName string) (types.SessionView, error) {
	sess, err := s.update(ctx, id, func(sess *session.Session) error {
		return sess.Profiles.Rename(oldName, newName)
	})
	if err != nil {
		return types.SessionView{}, s.fail(ctx, "rename_profile", err, logger.String("session", id))
	}
	return types.NewSessionView(sess), nil
}

// DeleteProfile removes a profile.
func (s *Service) DeleteProfile(ctx context.Context, id, name string) (types.SessionView, error) {
	sess, err := s.update(ctx, id, func(sess *session.Session) error {
		return sess.Profiles.Delete(name)
	})
	if err != nil {
		return types.SessionView{}, s.fail(ctx, "delete_profile", err, logger.String("session", id))
	}
	return types.NewSessionView(sess), nil
}

// SetRows replaces a profile's raw rows wholesale.
func (s *Service) SetRows(ctx context.Context, id, name string, rows []model.RawRow) (types.ProfileView, error) {
	sess, err := s.update(ctx, id, func(sess *session.Session) error {
		return sess.Profiles.SetRows(name, rows)
	})
	if err != nil {
		return types.ProfileView{}, s.fail(ctx, "set_rows", err, logger.String("session", id))
	}
	p, err := sess.Profiles.Get(name)
	if err != nil {
		return types.ProfileView{}, err
	}
	return types.NewProfileView(p), nil
}

// PasteRows parses text under the session mode and replaces the profile's rows.
func (s *Service) PasteRows(ctx context.Context, id, name, text string) (types.ParseResult, error) {
	var res types.ParseResult
	_, err := s.update(ctx, id, func(sess *session.Session) error {
		rows, stats, err := parse.ParseWithStats(text, sess.Mode)
		if err != nil {
			return err
		}
		metrics.RecordParse(stats.Kept, stats.Skipped)
		res = types.ParseResult{Mode: sess.Mode, Rows: rows, Kept: stats.Kept, Skipped: stats.Skipped}
		return sess.Profiles.SetRows(name, rows)
	})
	if err != nil {
		return types.ParseResult{}, s.fail(ctx, "paste_rows", err, logger.String("session", id))
	}
	return res, nil
}

// Table projects a profile onto the fixed row template. Derived columns are
// listed only when includeDerived is set and carry values only after a
// synchronization.
func (s *Service) Table(ctx context.Context, id, name string, includeDerived bool) (types.TableView, error) {
	sess, err := s.load(ctx, id)
	if err != nil {
		return types.TableView{}, s.fail(ctx, "table", err, logger.String("session", id))
	}
	p, err := sess.Profiles.Get(name)
	if err != nil {
		return types.TableView{}, s.fail(ctx, "table", err, logger.String("session", id))
	}

	synced := len(p.Points) > 0
	points := p.Points
	if !synced {
		if points, _, err = s.process(p.Rows, sess.Mode); err != nil {
			return types.TableView{}, s.fail(ctx, "table", err)
		}
	}
	rows := model.ToTable(points, sess.Profiles.MaxPoints())
	if !synced {
		for i := range rows {
			rows[i].ElapsedSeconds = nil
			rows[i].ROR = nil
		}
	}
	return types.TableView{
		Profile: p.Name,
		Mode:    sess.Mode,
		Columns: model.Columns(sess.Mode, includeDerived),
		Rows:    rows,
	}, nil
}

// Synchronize derives every profile of the session under its current mode
// and swaps the results in atomically.
func (s *Service) Synchronize(ctx context.Context, id string) (types.SyncResult, error) {
	start := time.Now()
	var res types.SyncResult
	sess, err := s.update(ctx, id, func(sess *session.Session) error {
		rep, err := sess.Profiles.Synchronize(sess.Mode)
		if err != nil {
			return err
		}
		res.Profiles, res.Points, res.Dropped = rep.Profiles, rep.Points, rep.Dropped
		return nil
	})
	if err != nil {
		metrics.RecordSynchronizeError()
		return types.SyncResult{}, s.fail(ctx, "synchronize", err, logger.String("session", id))
	}

	metrics.RecordSynchronize(res.Profiles)
	metrics.RecordRowsNormalized(res.Points, res.Dropped)
	for i := 0; i < res.Profiles; i++ {
		metrics.RecordDerivation(string(sess.Mode))
	}
	metrics.RecordDeriveLatency(float64(time.Since(start).Microseconds()) / 1000)
	s.logDropped(ctx, "synchronize", res.Dropped, logger.String("session", id))
	s.logger.Debug(ctx, "session synchronized",
		logger.String("session", id),
		logger.Int("profiles", res.Profiles),
		logger.Int("points", res.Points),
		logger.Duration("took", time.Since(start)),
	)

	res.Session = types.NewSessionView(sess)
	return res, nil
}

// Inspect reads every selected profile at time t. An empty selection means
// all profiles in order. A nil strategy follows the session's interpolate flag.
func (s *Service) Inspect(ctx context.Context, id string, t float64, names []string, strategy *inspect.Strategy) (types.InspectResult, error) {
	sess, err := s.load(ctx, id)
	if err != nil {
		return types.InspectResult{}, s.fail(ctx, "inspect", err, logger.String("session", id))
	}
	profiles, err := selectProfiles(sess, names)
	if err != nil {
		return types.InspectResult{}, s.fail(ctx, "inspect", err, logger.String("session", id))
	}

	st := inspect.ExactSegment
	if sess.Interpolate {
		st = inspect.Interpolated
	}
	if strategy != nil {
		st = *strategy
	}
	in := inspect.New(st)

	named := make([]inspect.NamedPoints, len(profiles))
	for i, p := range profiles {
		named[i] = inspect.NamedPoints{Name: p.Name, Points: p.Points}
	}
	return types.InspectResult{
		Time:     t,
		Clock:    inspect.FormatClock(t),
		Strategy: in.Strategy(),
		Readings: in.InspectProfiles(named, t),
	}, nil
}

// selectProfiles returns the named profiles in request order, or all of
// them for an empty selection.
func selectProfiles(sess *session.Session, names []string) ([]model.Profile, error) {
	if len(names) == 0 {
		return sess.Profiles.Profiles(), nil
	}
	out := make([]model.Profile, 0, len(names))
	for _, n := range names {
		p, err := sess.Profiles.Get(n)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}
