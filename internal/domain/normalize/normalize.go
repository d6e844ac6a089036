// Package normalize turns raw, possibly sparse profile rows into an ordered,
// densely indexed sequence of roast points.
//
// Normalization never fails on data: unparseable cells become undefined and
// rows without a temperature are dropped. The only error is an unsupported
// input mode.
package normalize

import (
	"github.com/okian/roastcurve/internal/domain/model"
)

// Result carries the normalized points together with row accounting used for
// metrics and logs.
type Result struct {
	Points  []model.RoastPoint
	Dropped int
}

// Normalize coerces, filters and reindexes raw rows for the given mode.
// It returns an empty, non-nil slice when no row survives.
func Normalize(raw []model.RawRow, mode model.InputMode) ([]model.RoastPoint, error) {
	res, err := NormalizeWithStats(raw, mode)
	if err != nil {
		return nil, err
	}
	return res.Points, nil
}

// NormalizeWithStats is Normalize plus the number of dropped rows.
func NormalizeWithStats(raw []model.RawRow, mode model.InputMode) (Result, error) {
	if err := mode.Check(); err != nil {
		return Result{}, err
	}

	points := make([]model.RoastPoint, 0, len(raw))
	for _, row := range raw {
		temp, ok := Float(row.Temperature)
		if !ok {
			continue
		}
		p := model.RoastPoint{
			Index:       len(points),
			Temperature: temp,
			EventLabel:  row.EventLabel,
		}
		// Undefined cells default to zero once the row survives; the field
		// not authored under the active mode is recomputed by derive.
		if m, ok := Int(row.Minutes); ok {
			p.Minutes = m
		}
		if s, ok := Int(row.Seconds); ok {
			p.Seconds = s
		}
		if iv, ok := Float(row.IntervalSeconds); ok {
			p.IntervalSeconds = iv
		}
		points = append(points, p)
	}

	return Result{Points: points, Dropped: len(raw) - len(points)}, nil
}
