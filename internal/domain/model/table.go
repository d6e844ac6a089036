package model

// Column keys used by table projections and spreadsheet layouts.
const (
	ColIndex       = "index"
	ColTemperature = "temperature"
	ColMinutes     = "minutes"
	ColSeconds     = "seconds"
	ColInterval    = "interval_seconds"
	ColElapsed     = "elapsed_seconds"
	ColROR         = "ror"
	ColEvent       = "event_label"
)

// AllColumns lists every column in display order.
var AllColumns = []string{ColIndex, ColTemperature, ColMinutes, ColSeconds, ColInterval, ColElapsed, ColROR, ColEvent}

// TableRow is a display row of the fixed template. Nil means blank.
type TableRow struct {
	Index           int      `json:"index"`
	Temperature     *float64 `json:"temperature"`
	Minutes         *int     `json:"minutes"`
	Seconds         *int     `json:"seconds"`
	IntervalSeconds *float64 `json:"interval_seconds"`
	ElapsedSeconds  *float64 `json:"elapsed_seconds"`
	ROR             *float64 `json:"ror"`
	EventLabel      string   `json:"event_label"`
}

// BlankTable returns a template of capacity rows carrying only their index.
func BlankTable(capacity int) []TableRow {
	if capacity < 0 {
		capacity = 0
	}
	rows := make([]TableRow, capacity)
	for i := range rows {
		rows[i].Index = i
	}
	return rows
}

// ToTable lays derived points over a blank template. Points beyond capacity
// are still included so nothing the caller derived is silently lost.
func ToTable(points []RoastPoint, capacity int) []TableRow {
	n := capacity
	if len(points) > n {
		n = len(points)
	}
	rows := BlankTable(n)
	for i, p := range points {
		temp, minutes, seconds := p.Temperature, p.Minutes, p.Seconds
		interval, elapsed, ror := p.IntervalSeconds, p.ElapsedSeconds, p.ROR
		rows[i] = TableRow{
			Index:           i,
			Temperature:     &temp,
			Minutes:         &minutes,
			Seconds:         &seconds,
			IntervalSeconds: &interval,
			ElapsedSeconds:  &elapsed,
			ROR:             &ror,
			EventLabel:      p.EventLabel,
		}
	}
	return rows
}

// Columns returns the visible column keys for an editing or viewing surface.
// Absolute mode hides the interval column, interval mode hides minutes and
// seconds; elapsed and ROR are only shown when includeDerived is set.
func Columns(mode InputMode, includeDerived bool) []string {
	hidden := map[string]bool{}
	if !includeDerived {
		hidden[ColElapsed] = true
		hidden[ColROR] = true
	}
	switch mode {
	case ModeAbsoluteTime:
		hidden[ColInterval] = true
	case ModeInterval:
		hidden[ColMinutes] = true
		hidden[ColSeconds] = true
	}
	cols := make([]string, 0, len(AllColumns))
	for _, c := range AllColumns {
		if !hidden[c] {
			cols = append(cols, c)
		}
	}
	return cols
}

// RawRowsFromPoints maps derived points back to editable raw rows. Feeding the
// result through normalize and derive again reproduces the same points.
func RawRowsFromPoints(points []RoastPoint) []RawRow {
	rows := make([]RawRow, len(points))
	for i, p := range points {
		rows[i] = RawRow{
			Index:           i,
			Temperature:     p.Temperature,
			Minutes:         p.Minutes,
			Seconds:         p.Seconds,
			IntervalSeconds: p.IntervalSeconds,
			EventLabel:      p.EventLabel,
		}
	}
	return rows
}
