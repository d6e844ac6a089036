// Package model contains domain models passed between layers.
package model

import (
	"errors"
	"fmt"
	"strings"
)

// Profile capacity limits.
const (
	MaxPoints   = 21 // rows in a profile template
	MaxProfiles = 10 // profiles in a set
)

// ErrInvalidMode reports an input mode outside the two supported values.
// It signals a caller contract violation, never bad user data.
var ErrInvalidMode = errors.New("invalid input mode")

// InputMode selects how time is authored for a profile.
type InputMode string

// Supported input modes.
const (
	ModeAbsoluteTime InputMode = "absolute" // minute + second per point
	ModeInterval     InputMode = "interval" // seconds since previous point
)

// Valid reports whether m is one of the supported modes.
func (m InputMode) Valid() bool {
	return m == ModeAbsoluteTime || m == ModeInterval
}

// Check returns ErrInvalidMode wrapped with the offending value when m is unsupported.
func (m InputMode) Check() error {
	if !m.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidMode, string(m))
	}
	return nil
}

// ParseInputMode accepts the wire names plus the enum-style aliases.
func ParseInputMode(s string) (InputMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "absolute", "absolute_time", "time":
		return ModeAbsoluteTime, nil
	case "interval", "duration":
		return ModeInterval, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidMode, s)
	}
}

// RawRow is one user-authored row before normalization. Numeric fields hold
// whatever the editing surface produced: numbers, numeric text, blanks, nil.
type RawRow struct {
	Index           int    `json:"index"`
	Temperature     any    `json:"temperature"`
	Minutes         any    `json:"minutes"`
	Seconds         any    `json:"seconds"`
	IntervalSeconds any    `json:"interval_seconds"`
	EventLabel      string `json:"event_label,omitempty"`
}

// RoastPoint is one normalized, and after derivation fully populated, profile row.
type RoastPoint struct {
	Index           int     `json:"index"`
	Temperature     float64 `json:"temperature"`
	Minutes         int     `json:"minutes"`
	Seconds         int     `json:"seconds"`
	IntervalSeconds float64 `json:"interval_seconds"`
	ElapsedSeconds  float64 `json:"elapsed_seconds"`
	ROR             float64 `json:"ror"`
	EventLabel      string  `json:"event_label,omitempty"`
}

// Profile is one named roast curve. Mode is the input mode its points were
// derived under; it is empty until the profile is first derived.
type Profile struct {
	Name   string       `json:"name"`
	Mode   InputMode    `json:"input_mode,omitempty"`
	Rows   []RawRow     `json:"rows"`
	Points []RoastPoint `json:"points"`
}

// Clone returns a deep copy so a stored profile is never mutated in place.
func (p Profile) Clone() Profile {
	out := Profile{Name: p.Name, Mode: p.Mode}
	if p.Rows != nil {
		out.Rows = append([]RawRow(nil), p.Rows...)
	}
	if p.Points != nil {
		out.Points = append([]RoastPoint(nil), p.Points...)
	}
	return out
}
