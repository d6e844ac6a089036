package roastctl

import (
	"github.com/okian/roastcurve/internal/domain/model"
	"github.com/okian/roastcurve/pkg/logger"
)

// Options configures one CLI run.
type Options struct {
	Mode  model.InputMode
	In    string // file path, "-" for stdin
	Name  string // profile name used in artifacts
	Chart string // PNG output path
	XLSX  string // workbook output path
	TOML  string // profile library output path

	ShowROR     bool
	ChartWidth  int
	ChartHeight int

	Logger logger.Logger
}

// DefaultOptions returns options matching the service defaults.
func DefaultOptions() Options {
	return Options{
		Mode:        model.ModeAbsoluteTime,
		In:          "-",
		Name:        "Profile 1",
		ShowROR:     true,
		ChartWidth:  1024,
		ChartHeight: 576,
	}
}
