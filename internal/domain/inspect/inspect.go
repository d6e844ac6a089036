// Package inspect answers hover/scan queries against derived profiles.
package inspect

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/okian/roastcurve/internal/domain/model"
)

// ErrUnknownStrategy is returned by ParseStrategy for unsupported names.
var ErrUnknownStrategy = errors.New("unknown inspection strategy")

// Strategy selects how a reading is produced between two points.
type Strategy string

const (
	// ExactSegment reports the last point at or before the query time.
	ExactSegment Strategy = "exact_segment"
	// Interpolated blends temperature and ROR linearly toward the next point.
	Interpolated Strategy = "interpolated"
)

// ParseStrategy maps a name to a Strategy. Empty selects ExactSegment.
func ParseStrategy(s string) (Strategy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", string(ExactSegment), "exact":
		return ExactSegment, nil
	case string(Interpolated), "interpolate":
		return Interpolated, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownStrategy, s)
	}
}

// Reading is the inspector answer for one profile.
type Reading struct {
	Profile     string  `json:"profile,omitempty"`
	Index       int     `json:"index"`
	Time        float64 `json:"time"`
	Temperature float64 `json:"temperature"`
	ROR         float64 `json:"ror"`
	Clock       string  `json:"clock"`
}

// Inspector looks up readings using its configured strategy.
type Inspector struct {
	strategy Strategy
}

// New constructs an Inspector. Unknown strategies fall back to ExactSegment.
func New(strategy Strategy) *Inspector {
	if strategy != Interpolated {
		strategy = ExactSegment
	}
	return &Inspector{strategy: strategy}
}

// Strategy returns the active strategy.
func (in *Inspector) Strategy() Strategy { return in.strategy }

// Inspect finds the last point with elapsed <= t. It returns false when no
// such point exists.
func (in *Inspector) Inspect(points []model.RoastPoint, t float64) (Reading, bool) {
	if len(points) == 0 || math.IsNaN(t) {
		return Reading{}, false
	}
	at := -1
	for i, p := range points {
		if p.ElapsedSeconds <= t {
			at = i
		}
	}
	if at < 0 {
		return Reading{}, false
	}

	p := points[at]
	r := Reading{
		Index:       p.Index,
		Time:        t,
		Temperature: p.Temperature,
		ROR:         p.ROR,
		Clock:       FormatClock(t),
	}
	if in.strategy == Interpolated && at+1 < len(points) {
		next := points[at+1]
		span := next.ElapsedSeconds - p.ElapsedSeconds
		if span > 0 {
			frac := (t - p.ElapsedSeconds) / span
			r.Temperature = lerp(p.Temperature, next.Temperature, frac)
			r.ROR = lerp(p.ROR, next.ROR, frac)
		}
	}
	return r, true
}

// NamedPoints pairs a profile name with its derived points.
type NamedPoints struct {
	Name   string
	Points []model.RoastPoint
}

// InspectProfiles inspects each profile in order, omitting those without a
// point at or before t.
func (in *Inspector) InspectProfiles(profiles []NamedPoints, t float64) []Reading {
	out := make([]Reading, 0, len(profiles))
	for _, np := range profiles {
		r, ok := in.Inspect(np.Points, t)
		if !ok {
			continue
		}
		r.Profile = np.Name
		out = append(out, r)
	}
	return out
}

// FormatClock renders whole seconds as m:ss. Negative input clamps to zero.
func FormatClock(seconds float64) string {
	if seconds < 0 || math.IsNaN(seconds) {
		seconds = 0
	}
	s := int(seconds)
	return fmt.Sprintf("%d:%02d", s/60, s%60)
}

func lerp(a, b, frac float64) float64 {
	return a + (b-a)*frac
}
