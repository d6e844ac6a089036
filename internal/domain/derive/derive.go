// Package derive fills in elapsed time, inter-point intervals and rate of rise
// for a normalized profile.
package derive

import (
	"math"

	"github.com/okian/roastcurve/internal/domain/model"
)

const secondsPerMinute = 60

// Derive returns a new slice of the same length with every derived field
// populated. The input is not modified.
//
// In absolute mode elapsed time is the literal minutes*60+seconds sum and
// intervals are differences of it. In interval mode elapsed time is the
// running sum of intervals and minutes/seconds are computed from it.
func Derive(points []model.RoastPoint, mode model.InputMode) ([]model.RoastPoint, error) {
	if err := mode.Check(); err != nil {
		return nil, err
	}

	out := make([]model.RoastPoint, len(points))
	copy(out, points)
	if len(out) == 0 {
		return out, nil
	}

	switch mode {
	case model.ModeAbsoluteTime:
		deriveAbsolute(out)
	case model.ModeInterval:
		deriveInterval(out)
	}
	deriveROR(out)
	return out, nil
}

func deriveAbsolute(points []model.RoastPoint) {
	for i := range points {
		p := &points[i]
		p.ElapsedSeconds = float64(p.Minutes*secondsPerMinute + p.Seconds)
		if i == 0 {
			p.IntervalSeconds = 0
			continue
		}
		p.IntervalSeconds = p.ElapsedSeconds - points[i-1].ElapsedSeconds
	}
}

func deriveInterval(points []model.RoastPoint) {
	var elapsed float64
	for i := range points {
		p := &points[i]
		elapsed += p.IntervalSeconds
		p.ElapsedSeconds = elapsed
		whole := int(math.Trunc(elapsed))
		p.Minutes = int(math.Floor(elapsed / secondsPerMinute))
		p.Seconds = whole - p.Minutes*secondsPerMinute
	}
}

// deriveROR computes degrees per second against the previous point. A zero
// interval yields zero.
func deriveROR(points []model.RoastPoint) {
	points[0].ROR = 0
	for i := 1; i < len(points); i++ {
		dt := points[i].IntervalSeconds
		if dt == 0 {
			points[i].ROR = 0
			continue
		}
		ror := (points[i].Temperature - points[i-1].Temperature) / dt
		if math.IsNaN(ror) || math.IsInf(ror, 0) {
			ror = 0
		}
		points[i].ROR = ror
	}
}
