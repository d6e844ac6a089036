// Package session defines the per-user working context: the profile set plus
// the selected input mode and display flags.
package session

import (
	"time"

	"github.com/google/uuid"

	"github.com/okian/roastcurve/internal/domain/model"
	"github.com/okian/roastcurve/internal/domain/profileset"
)

// Session is the explicit context object passed between the service and the
// core pipeline. The core functions never see it.
type Session struct {
	ID          string          `json:"id"`
	Mode        model.InputMode `json:"mode"`
	ShowROR     bool            `json:"show_ror"`
	Interpolate bool            `json:"interpolate"`
	Profiles    *profileset.Set `json:"profiles"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// Settings is a partial update of session flags. Nil fields are left as is.
type Settings struct {
	Mode        *model.InputMode `json:"mode,omitempty"`
	ShowROR     *bool            `json:"show_ror,omitempty"`
	Interpolate *bool            `json:"interpolate,omitempty"`
}

// New creates a session with a fresh id.
func New(mode model.InputMode, set *profileset.Set, now time.Time) *Session {
	if set == nil {
		set = profileset.New()
	}
	return &Session{
		ID:        uuid.NewString(),
		Mode:      mode,
		ShowROR:   true,
		Profiles:  set,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Apply merges non-nil settings. An unsupported mode is rejected before any
// field changes.
func (s *Session) Apply(st Settings, now time.Time) error {
	if st.Mode != nil {
		if err := st.Mode.Check(); err != nil {
			return err
		}
		s.Mode = *st.Mode
	}
	if st.ShowROR != nil {
		s.ShowROR = *st.ShowROR
	}
	if st.Interpolate != nil {
		s.Interpolate = *st.Interpolate
	}
	s.UpdatedAt = now
	return nil
}

// ValidID reports whether id looks like a session id.
func ValidID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}
