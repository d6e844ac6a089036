// Package types contains read shapes shared by the service and the HTTP API.
package types

import (
	"time"

	"github.com/okian/roastcurve/internal/domain/inspect"
	"github.com/okian/roastcurve/internal/domain/model"
	"github.com/okian/roastcurve/internal/domain/session"
)

// ProfileView is the read shape of one profile.
type ProfileView struct {
	Name   string             `json:"name"`
	Mode   model.InputMode    `json:"input_mode,omitempty"`
	Rows   []model.RawRow     `json:"rows"`
	Points []model.RoastPoint `json:"points"`
}

// SessionView is the read shape of a session.
type SessionView struct {
	ID          string          `json:"id"`
	Mode        model.InputMode `json:"mode"`
	ShowROR     bool            `json:"show_ror"`
	Interpolate bool            `json:"interpolate"`
	MaxProfiles int             `json:"max_profiles"`
	MaxPoints   int             `json:"max_points"`
	Profiles    []ProfileView   `json:"profiles"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// TableView is a projected profile table with its visible columns.
type TableView struct {
	Profile string           `json:"profile"`
	Mode    model.InputMode  `json:"mode"`
	Columns []string         `json:"columns"`
	Rows    []model.TableRow `json:"rows"`
}

// DeriveResult answers a stateless derivation request.
type DeriveResult struct {
	Mode    model.InputMode    `json:"mode"`
	Points  []model.RoastPoint `json:"points"`
	Table   []model.TableRow   `json:"table"`
	Dropped int                `json:"dropped"`
}

// ParseResult answers a stateless bulk-text parse request.
type ParseResult struct {
	Mode    model.InputMode `json:"mode"`
	Rows    []model.RawRow  `json:"rows"`
	Kept    int             `json:"kept"`
	Skipped int             `json:"skipped"`
}

// SyncResult reports a synchronization pass and the session it produced.
type SyncResult struct {
	Session  SessionView `json:"session"`
	Profiles int         `json:"profiles"`
	Points   int         `json:"points"`
	Dropped  int         `json:"dropped"`
}

// InspectResult answers a hover/scan query across profiles.
type InspectResult struct {
	Time     float64           `json:"time"`
	Clock    string            `json:"clock"`
	Strategy inspect.Strategy  `json:"strategy"`
	Readings []inspect.Reading `json:"readings"`
}

// NewSessionView builds the read shape of s.
func NewSessionView(s *session.Session) SessionView {
	v := SessionView{
		ID:          s.ID,
		Mode:        s.Mode,
		ShowROR:     s.ShowROR,
		Interpolate: s.Interpolate,
		Profiles:    []ProfileView{},
		CreatedAt:   s.CreatedAt,
		UpdatedAt:   s.UpdatedAt,
	}
	if s.Profiles == nil {
		return v
	}
	v.MaxProfiles = s.Profiles.MaxProfiles()
	v.MaxPoints = s.Profiles.MaxPoints()
	for _, p := range s.Profiles.Profiles() {
		v.Profiles = append(v.Profiles, NewProfileView(p))
	}
	return v
}

// NewProfileView builds the read shape of p with non-nil slices.
func NewProfileView(p model.Profile) ProfileView {
	v := ProfileView{Name: p.Name, Mode: p.Mode, Rows: p.Rows, Points: p.Points}
	if v.Rows == nil {
		v.Rows = []model.RawRow{}
	}
	if v.Points == nil {
		v.Points = []model.RoastPoint{}
	}
	return v
}
