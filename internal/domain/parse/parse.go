// Package parse converts pasted bulk text into raw profile rows.
//
// Parsing is best effort: a line with the wrong token count or a non-numeric
// token is skipped and parsing continues with the next line.
package parse

import (
	"strings"

	"github.com/okian/roastcurve/internal/domain/model"
	"github.com/okian/roastcurve/internal/domain/normalize"
)

// Stats summarizes one parse call.
type Stats struct {
	Lines   int // non-blank lines seen
	Kept    int
	Skipped int
}

// Parse reads one row per non-blank line. Absolute mode expects
// "temperature [minutes seconds]", interval mode "temperature [interval]".
// Rows are indexed densely in the order they were kept.
func Parse(text string, mode model.InputMode) ([]model.RawRow, error) {
	rows, _, err := ParseWithStats(text, mode)
	return rows, err
}

// ParseWithStats is Parse plus line accounting.
func ParseWithStats(text string, mode model.InputMode) ([]model.RawRow, Stats, error) {
	if err := mode.Check(); err != nil {
		return nil, Stats{}, err
	}

	var st Stats
	rows := make([]model.RawRow, 0)
	// No per-line length limit.
	for line := range strings.Lines(text) {
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		st.Lines++
		row, ok := parseLine(fields, mode)
		if !ok {
			st.Skipped++
			continue
		}
		row.Index = len(rows)
		rows = append(rows, row)
	}
	st.Kept = len(rows)
	return rows, st, nil
}

func parseLine(fields []string, mode model.InputMode) (model.RawRow, bool) {
	temp, ok := normalize.Float(fields[0])
	if !ok {
		return model.RawRow{}, false
	}
	row := model.RawRow{Temperature: temp}

	switch mode {
	case model.ModeAbsoluteTime:
		switch len(fields) {
		case 1:
			row.Minutes, row.Seconds = 0, 0
		case 3:
			m, okM := normalize.Int(fields[1])
			s, okS := normalize.Int(fields[2])
			if !okM || !okS {
				return model.RawRow{}, false
			}
			row.Minutes, row.Seconds = m, s
		default:
			return model.RawRow{}, false
		}
	case model.ModeInterval:
		switch len(fields) {
		case 1:
		case 2:
			iv, ok := normalize.Float(fields[1])
			if !ok {
				return model.RawRow{}, false
			}
			row.IntervalSeconds = iv
		default:
			return model.RawRow{}, false
		}
	}
	return row, true
}
