// Package spreadsheet reads and writes profile workbooks. The "Profiles"
// sheet holds one block of columns per profile: the profile name on row 1,
// column headers on row 2 and one point per row below. A "Settings" sheet
// records the input mode.
package spreadsheet

import (
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/okian/roastcurve/internal/domain/model"
)

const (
	profilesSheet = "Profiles"
	settingsSheet = "Settings"

	nameRow   = 1
	headerRow = 2
	firstData = 3
)

// blockColumns is the column order inside one profile block.
var blockColumns = model.AllColumns

// blockWidth includes one spacer column between blocks.
var blockWidth = len(blockColumns) + 1

// Workbook is the decoded content of a profile workbook.
type Workbook struct {
	Mode     model.InputMode
	Profiles []model.Profile
}

// Write encodes profiles as an XLSX workbook. Derived points are written
// when present, otherwise the raw rows.
func Write(w io.Writer, mode model.InputMode, profiles []model.Profile) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName("Sheet1", profilesSheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("create style: %w", err)
	}

	for i, p := range profiles {
		if err := writeBlock(f, i*blockWidth+1, p, bold); err != nil {
			return fmt.Errorf("write %q: %w", p.Name, err)
		}
	}

	if _, err := f.NewSheet(settingsSheet); err != nil {
		return fmt.Errorf("add settings sheet: %w", err)
	}
	if err := f.SetSheetRow(settingsSheet, "A1", &[]any{"mode", string(mode)}); err != nil {
		return fmt.Errorf("write settings: %w", err)
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func writeBlock(f *excelize.File, col int, p model.Profile, bold int) error {
	nameCell, err := excelize.CoordinatesToCellName(col, nameRow)
	if err != nil {
		return err
	}
	lastCell, err := excelize.CoordinatesToCellName(col+len(blockColumns)-1, headerRow)
	if err != nil {
		return err
	}
	if err := f.SetCellValue(profilesSheet, nameCell, p.Name); err != nil {
		return err
	}
	headerCell, _ := excelize.CoordinatesToCellName(col, headerRow)
	header := make([]any, len(blockColumns))
	for i, c := range blockColumns {
		header[i] = c
	}
	if err := f.SetSheetRow(profilesSheet, headerCell, &header); err != nil {
		return err
	}
	if err := f.SetCellStyle(profilesSheet, nameCell, lastCell, bold); err != nil {
		return err
	}

	for i, values := range blockRows(p) {
		cell, err := excelize.CoordinatesToCellName(col, firstData+i)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(profilesSheet, cell, &values); err != nil {
			return err
		}
	}
	return nil
}

// blockRows returns cell values in blockColumns order.
func blockRows(p model.Profile) [][]any {
	if len(p.Points) > 0 {
		out := make([][]any, len(p.Points))
		for i, pt := range p.Points {
			out[i] = []any{pt.Index, pt.Temperature, pt.Minutes, pt.Seconds,
				pt.IntervalSeconds, pt.ElapsedSeconds, pt.ROR, pt.EventLabel}
		}
		return out
	}
	out := make([][]any, len(p.Rows))
	for i, r := range p.Rows {
		out[i] = []any{r.Index, r.Temperature, r.Minutes, r.Seconds,
			r.IntervalSeconds, nil, nil, r.EventLabel}
	}
	return out
}

// Read decodes a workbook written by Write or laid out the same way by hand.
// Cells come back as text; normalization coerces them later. Derived
// columns are ignored. Fully blank rows inside a block are skipped so a
// sparse template keeps every point below a gap.
func Read(r io.Reader) (Workbook, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return Workbook{}, fmt.Errorf("%w: %w", ErrOpenWorkbook, err)
	}
	defer func() { _ = f.Close() }()

	wb := Workbook{Mode: model.ModeAbsoluteTime}
	if idx, _ := f.GetSheetIndex(settingsSheet); idx >= 0 {
		if v, err := f.GetCellValue(settingsSheet, "B1"); err == nil && v != "" {
			mode, err := model.ParseInputMode(v)
			if err != nil {
				return Workbook{}, err
			}
			wb.Mode = mode
		}
	}

	if idx, _ := f.GetSheetIndex(profilesSheet); idx < 0 {
		return Workbook{}, ErrMissingSheet
	}
	rows, err := f.GetRows(profilesSheet)
	if err != nil {
		return Workbook{}, fmt.Errorf("%w: %w", ErrOpenWorkbook, err)
	}

	for col := 0; ; col += blockWidth {
		name := cell(rows, nameRow, col)
		if name == "" {
			break
		}
		index, err := headerIndex(rows, col)
		if err != nil {
			return Workbook{}, fmt.Errorf("%w: %q: %w", ErrMalformedBlock, name, err)
		}
		wb.Profiles = append(wb.Profiles, model.Profile{Name: name, Rows: readRows(rows, col, index)})
	}
	return wb, nil
}

// headerIndex maps column keys to their offset inside the block.
func headerIndex(rows [][]string, col int) (map[string]int, error) {
	index := make(map[string]int, len(blockColumns))
	for off := range blockColumns {
		key := strings.ToLower(strings.TrimSpace(cell(rows, headerRow, col+off)))
		if key != "" {
			index[key] = off
		}
	}
	if _, ok := index[model.ColTemperature]; !ok {
		return nil, fmt.Errorf("missing %s header", model.ColTemperature)
	}
	return index, nil
}

func readRows(rows [][]string, col int, index map[string]int) []model.RawRow {
	get := func(r int, key string) string {
		off, ok := index[key]
		if !ok {
			return ""
		}
		return strings.TrimSpace(cell(rows, r, col+off))
	}
	var out []model.RawRow
	// GetRows stops at the last populated row of the sheet.
	for r := firstData; r <= len(rows); r++ {
		row := model.RawRow{
			Index:      len(out),
			EventLabel: get(r, model.ColEvent),
		}
		blank := row.EventLabel == ""
		for key, dst := range map[string]*any{
			model.ColTemperature: &row.Temperature,
			model.ColMinutes:     &row.Minutes,
			model.ColSeconds:     &row.Seconds,
			model.ColInterval:    &row.IntervalSeconds,
		} {
			if v := get(r, key); v != "" {
				*dst = v
				blank = false
			}
		}
		if blank {
			continue
		}
		out = append(out, row)
	}
	return out
}

// cell returns the value at 1-based row r and 0-based column c, or "".
func cell(rows [][]string, r, c int) string {
	if r-1 >= len(rows) || c >= len(rows[r-1]) {
		return ""
	}
	return rows[r-1][c]
}
