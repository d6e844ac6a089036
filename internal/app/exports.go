package service

import (
	"context"
	"io"

	"github.com/okian/roastcurve/internal/adapters/library"
	"github.com/okian/roastcurve/internal/adapters/spreadsheet"
	"github.com/okian/roastcurve/internal/domain/model"
	"github.com/okian/roastcurve/internal/domain/session"
	"github.com/okian/roastcurve/internal/domain/types"
	"github.com/okian/roastcurve/pkg/logger"
	"github.com/okian/roastcurve/pkg/metrics"
)

// Chart renders the selected profiles as a PNG. An empty selection plots
// every profile; a nil showROR follows the session flag.
func (s *Service) Chart(ctx context.Context, id string, w io.Writer, names []string, showROR *bool) error {
	_, renderer, err := s.components()
	if err != nil {
		return err
	}
	sess, err := s.load(ctx, id)
	if err != nil {
		return s.fail(ctx, "chart", err, logger.String("session", id))
	}
	profiles, err := selectProfiles(sess, names)
	if err != nil {
		return s.fail(ctx, "chart", err, logger.String("session", id))
	}
	ror := sess.ShowROR
	if showROR != nil {
		ror = *showROR
	}
	if err := renderer.Render(w, profiles, ror); err != nil {
		return s.fail(ctx, "chart", err, logger.String("session", id))
	}
	metrics.RecordRender("png")
	return nil
}

// ExportXLSX writes the session's profiles as a workbook.
func (s *Service) ExportXLSX(ctx context.Context, id string, w io.Writer) error {
	sess, err := s.load(ctx, id)
	if err != nil {
		return s.fail(ctx, "export_xlsx", err, logger.String("session", id))
	}
	if err := spreadsheet.Write(w, sess.Mode, sess.Profiles.Profiles()); err != nil {
		return s.fail(ctx, "export_xlsx", err, logger.String("session", id))
	}
	metrics.RecordRender("xlsx")
	return nil
}

// ImportXLSX replaces the session's profiles and mode with a workbook's
// content and synchronizes the result.
func (s *Service) ImportXLSX(ctx context.Context, id string, r io.Reader) (types.SyncResult, error) {
	wb, err := spreadsheet.Read(r)
	if err != nil {
		return types.SyncResult{}, s.fail(ctx, "import_xlsx", err, logger.String("session", id))
	}
	res, err := s.replaceProfiles(ctx, id, wb.Mode, wb.Profiles, nil)
	if err != nil {
		return types.SyncResult{}, s.fail(ctx, "import_xlsx", err, logger.String("session", id))
	}
	metrics.RecordImport("xlsx")
	return res, nil
}

// ExportTOML writes the session as a profile library.
func (s *Service) ExportTOML(ctx context.Context, id string, w io.Writer) error {
	sess, err := s.load(ctx, id)
	if err != nil {
		return s.fail(ctx, "export_toml", err, logger.String("session", id))
	}
	lib, err := library.FromProfiles(sess.Mode, sess.ShowROR, sess.Interpolate, sess.Profiles.Profiles())
	if err != nil {
		return s.fail(ctx, "export_toml", err, logger.String("session", id))
	}
	if err := library.Encode(w, lib); err != nil {
		return s.fail(ctx, "export_toml", err, logger.String("session", id))
	}
	metrics.RecordRender("toml")
	return nil
}

// ImportTOML replaces the session's profiles, mode and display flags with a
// profile library and synchronizes the result.
func (s *Service) ImportTOML(ctx context.Context, id string, r io.Reader) (types.SyncResult, error) {
	lib, err := library.Decode(r)
	if err != nil {
		return types.SyncResult{}, s.fail(ctx, "import_toml", err, logger.String("session", id))
	}
	mode, err := lib.InputMode()
	if err != nil {
		return types.SyncResult{}, s.fail(ctx, "import_toml", err, logger.String("session", id))
	}
	res, err := s.replaceProfiles(ctx, id, mode, lib.ToProfiles(), &session.Settings{
		ShowROR:     &lib.ShowROR,
		Interpolate: &lib.Interpolate,
	})
	if err != nil {
		return types.SyncResult{}, s.fail(ctx, "import_toml", err, logger.String("session", id))
	}
	metrics.RecordImport("toml")
	return res, nil
}

// replaceProfiles builds a new profile set from imported profiles, derives
// it under mode and swaps it into the session. Any rejected profile (empty
// or duplicate name, too many rows, over capacity) leaves the session as is.
func (s *Service) replaceProfiles(ctx context.Context, id string, mode model.InputMode, profiles []model.Profile, st *session.Settings) (types.SyncResult, error) {
	var res types.SyncResult
	sess, err := s.update(ctx, id, func(sess *session.Session) error {
		set := s.newSet(0)
		for _, p := range profiles {
			name, err := set.Add(p.Name)
			if err != nil {
				return err
			}
			if err := set.SetRows(name, p.Rows); err != nil {
				return err
			}
		}
		rep, err := set.Synchronize(mode)
		if err != nil {
			return err
		}
		settings := session.Settings{Mode: &mode}
		if st != nil {
			settings.ShowROR, settings.Interpolate = st.ShowROR, st.Interpolate
		}
		if err := sess.Apply(settings, s.now().UTC()); err != nil {
			return err
		}
		sess.Profiles = set
		res.Profiles, res.Points, res.Dropped = rep.Profiles, rep.Points, rep.Dropped
		return nil
	})
	if err != nil {
		return types.SyncResult{}, err
	}

	metrics.RecordSynchronize(res.Profiles)
	metrics.RecordRowsNormalized(res.Points, res.Dropped)
	s.logger.Info(ctx, "profiles imported",
		logger.String("session", id),
		logger.String("mode", string(mode)),
		logger.Int("profiles", res.Profiles),
	)
	res.Session = types.NewSessionView(sess)
	return res, nil
}
