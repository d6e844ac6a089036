// Command roastctl derives a roast profile from pasted rows without the
// HTTP service.
//
//	roastctl -mode absolute -in roast.txt -chart roast.png -xlsx roast.xlsx
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/okian/roastcurve/internal/domain/model"
	"github.com/okian/roastcurve/internal/roastctl"
	"github.com/okian/roastcurve/pkg/logger"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	opts, verbose, err := parseFlags(args)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}

	if err := logger.Init(logger.WithWriter(os.Stderr)); err != nil {
		fmt.Fprintln(os.Stderr, "failed to initialize logging:", err)
		return 1
	}
	level := "warn"
	if verbose {
		level = "debug"
	}
	_ = logger.SetLevelString(level)

	ctx := context.Background()
	opts.Logger = logger.Get().Named("roastctl")
	if _, err := roastctl.Run(ctx, opts, os.Stdin, os.Stdout); err != nil {
		opts.Logger.Error(ctx, "run failed", logger.Error(err))
		return 1
	}
	return 0
}

func parseFlags(args []string) (roastctl.Options, bool, error) {
	opts := roastctl.DefaultOptions()
	fs := flag.NewFlagSet("roastctl", flag.ContinueOnError)

	mode := fs.String("mode", string(opts.Mode), "input mode: absolute or interval")
	fs.StringVar(&opts.In, "in", opts.In, `input file, "-" for stdin`)
	fs.StringVar(&opts.Name, "name", opts.Name, "profile name")
	fs.StringVar(&opts.Chart, "chart", "", "write a PNG chart to this path")
	fs.StringVar(&opts.XLSX, "xlsx", "", "write an XLSX workbook to this path")
	fs.StringVar(&opts.TOML, "toml", "", "write a TOML profile library to this path")
	fs.BoolVar(&opts.ShowROR, "ror", opts.ShowROR, "plot rate of rise")
	fs.IntVar(&opts.ChartWidth, "width", opts.ChartWidth, "chart width in pixels")
	fs.IntVar(&opts.ChartHeight, "height", opts.ChartHeight, "chart height in pixels")
	verbose := fs.Bool("v", false, "verbose logging")

	if err := fs.Parse(args); err != nil {
		return roastctl.Options{}, false, err
	}
	m, err := model.ParseInputMode(*mode)
	if err != nil {
		return roastctl.Options{}, false, err
	}
	opts.Mode = m
	if opts.ChartWidth < 1 || opts.ChartHeight < 1 {
		return roastctl.Options{}, false, fmt.Errorf("chart size must be positive, got %dx%d", opts.ChartWidth, opts.ChartHeight)
	}
	return opts, *verbose, nil
}
