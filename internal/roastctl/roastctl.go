// Package roastctl runs the roast pipeline offline: it parses pasted rows,
// derives them and writes a terminal table plus optional PNG, XLSX and TOML
// artifacts.
package roastctl

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/okian/roastcurve/internal/adapters/chart"
	"github.com/okian/roastcurve/internal/adapters/library"
	"github.com/okian/roastcurve/internal/adapters/spreadsheet"
	"github.com/okian/roastcurve/internal/domain/inspect"
	"github.com/okian/roastcurve/internal/domain/model"
	"github.com/okian/roastcurve/internal/domain/parse"
	"github.com/okian/roastcurve/internal/domain/profileset"
	"github.com/okian/roastcurve/pkg/logger"
)

// Result summarizes a run.
type Result struct {
	Profile model.Profile
	Kept    int
	Skipped int
	Dropped int
}

// Run reads opts.In (stdin when "-"), derives one profile and writes the
// table to stdout. Artifacts are written only for non-empty output paths.
func Run(ctx context.Context, opts Options, stdin io.Reader, stdout io.Writer) (Result, error) {
	if err := opts.Mode.Check(); err != nil {
		return Result{}, err
	}
	log := opts.Logger
	if log == nil {
		log = logger.Get().Named("roastctl")
	}

	text, err := readInput(opts.In, stdin)
	if err != nil {
		return Result{}, err
	}
	rows, stats, err := parse.ParseWithStats(text, opts.Mode)
	if err != nil {
		return Result{}, err
	}
	if len(rows) > model.MaxPoints {
		return Result{}, fmt.Errorf("%w: %d rows, max %d", profileset.ErrTooManyPoints, len(rows), model.MaxPoints)
	}
	points, dropped, err := profileset.Process(rows, opts.Mode)
	if err != nil {
		return Result{}, err
	}
	if len(points) == 0 {
		return Result{}, fmt.Errorf("%w: %d lines skipped", ErrNoRows, stats.Skipped)
	}

	res := Result{
		Profile: model.Profile{Name: opts.Name, Mode: opts.Mode, Rows: model.RawRowsFromPoints(points), Points: points},
		Kept:    stats.Kept,
		Skipped: stats.Skipped,
		Dropped: dropped,
	}
	log.Debug(ctx, "profile derived",
		logger.String("mode", string(opts.Mode)),
		logger.Int("points", len(points)),
		logger.Int("skipped", stats.Skipped),
	)

	if err := writeTable(stdout, opts.Mode, res); err != nil {
		return Result{}, err
	}
	if err := writeArtifacts(ctx, log, opts, res.Profile); err != nil {
		return Result{}, err
	}
	return res, nil
}

func readInput(path string, stdin io.Reader) (string, error) {
	if path == "" {
		return "", ErrNoInput
	}
	if path == "-" {
		if stdin == nil {
			return "", ErrNoInput
		}
		data, err := io.ReadAll(stdin)
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		return string(data), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", path, err)
	}
	return string(data), nil
}

// writeTable renders the derived points with the columns of the mode.
func writeTable(w io.Writer, mode model.InputMode, res Result) error {
	r := lipgloss.NewRenderer(w)
	header := r.NewStyle().Bold(true).Foreground(lipgloss.Color("39")).Padding(0, 1)
	cell := r.NewStyle().Padding(0, 1)
	event := cell.Foreground(lipgloss.Color("220"))
	muted := r.NewStyle().Foreground(lipgloss.Color("245"))

	cols := model.Columns(mode, true)
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(muted).
		Headers(cols...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return header
			case cols[col] == model.ColEvent:
				return event
			default:
				return cell
			}
		})
	for _, p := range res.Profile.Points {
		t.Row(pointCells(p, cols)...)
	}

	summary := fmt.Sprintf("%s: %d points, %d lines skipped, %d rows dropped, total %s",
		res.Profile.Name, len(res.Profile.Points), res.Skipped, res.Dropped,
		inspect.FormatClock(res.Profile.Points[len(res.Profile.Points)-1].ElapsedSeconds))
	_, err := fmt.Fprintf(w, "%s\n%s\n", t.Render(), muted.Render(summary))
	return err
}

func pointCells(p model.RoastPoint, cols []string) []string {
	out := make([]string, len(cols))
	for i, c := range cols {
		switch c {
		case model.ColIndex:
			out[i] = strconv.Itoa(p.Index)
		case model.ColTemperature:
			out[i] = strconv.FormatFloat(p.Temperature, 'f', 1, 64)
		case model.ColMinutes:
			out[i] = strconv.Itoa(p.Minutes)
		case model.ColSeconds:
			out[i] = strconv.Itoa(p.Seconds)
		case model.ColInterval:
			out[i] = strconv.FormatFloat(p.IntervalSeconds, 'f', -1, 64)
		case model.ColElapsed:
			out[i] = inspect.FormatClock(p.ElapsedSeconds)
		case model.ColROR:
			out[i] = strconv.FormatFloat(p.ROR, 'f', 3, 64)
		case model.ColEvent:
			out[i] = p.EventLabel
		}
	}
	return out
}

func writeArtifacts(ctx context.Context, log logger.Logger, opts Options, p model.Profile) error {
	profiles := []model.Profile{p}

	if opts.Chart != "" {
		renderer := chart.New(chart.WithSize(opts.ChartWidth, opts.ChartHeight), chart.WithTitle(p.Name))
		if err := writeFile(opts.Chart, func(w io.Writer) error {
			return renderer.Render(w, profiles, opts.ShowROR)
		}); err != nil {
			return err
		}
		log.Info(ctx, "chart written", logger.String("path", opts.Chart))
	}

	if opts.XLSX != "" {
		if err := writeFile(opts.XLSX, func(w io.Writer) error {
			return spreadsheet.Write(w, opts.Mode, profiles)
		}); err != nil {
			return err
		}
		log.Info(ctx, "workbook written", logger.String("path", opts.XLSX))
	}

	if opts.TOML != "" {
		lib, err := library.FromProfiles(opts.Mode, opts.ShowROR, false, profiles)
		if err != nil {
			return err
		}
		if err := writeFile(opts.TOML, func(w io.Writer) error {
			return library.Encode(w, lib)
		}); err != nil {
			return err
		}
		log.Info(ctx, "library written", logger.String("path", opts.TOML))
	}
	return nil
}

// writeFile creates path and removes it again when write fails.
func writeFile(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := write(f); err != nil {
		_ = f.Close()
		_ = os.Remove(path)
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close %s: %w", path, err)
	}
	return nil
}
