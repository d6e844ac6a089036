// Package chart renders roast profiles as a PNG line chart: temperature on
// the primary axis, ROR dashed on the secondary axis, time as m:ss.
package chart

import (
	"errors"
	"fmt"
	"io"

	gochart "github.com/wcharczuk/go-chart/v2"

	"github.com/okian/roastcurve/internal/domain/inspect"
	"github.com/okian/roastcurve/internal/domain/model"
)

// ErrNothingToPlot is returned when no selected profile has a derived point.
var ErrNothingToPlot = errors.New("no derived points to plot")

const (
	defaultWidth  = 1024
	defaultHeight = 576
)

// Renderer draws profiles with go-chart.
type Renderer struct {
	width      int
	height     int
	rorAxisMax float64
	title      string
}

// New creates a Renderer.
func New(opts ...Option) *Renderer {
	r := &Renderer{width: defaultWidth, height: defaultHeight, title: "Roast profiles"}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Render writes a PNG of profiles to w. Profiles without derived points are
// skipped; each profile keeps the same color for its temperature and ROR lines.
func (r *Renderer) Render(w io.Writer, profiles []model.Profile, showROR bool) error {
	c := r.Build(profiles, showROR)
	if len(c.Series) == 0 {
		return ErrNothingToPlot
	}
	c.Elements = []gochart.Renderable{gochart.Legend(&c)}
	if err := c.Render(gochart.PNG, w); err != nil {
		return fmt.Errorf("render chart: %w", err)
	}
	return nil
}

// Build assembles the chart definition without rendering it.
func (r *Renderer) Build(profiles []model.Profile, showROR bool) gochart.Chart {
	var series []gochart.Series
	var xb, tb, rb bounds
	hasROR := false
	for i, p := range profiles {
		if len(p.Points) == 0 {
			continue
		}
		xs, temps, rors := columns(p.Points)
		xb.add(xs...)
		tb.add(temps...)
		rb.add(rors...)
		color := gochart.GetDefaultColor(i)

		series = append(series, gochart.ContinuousSeries{
			Name:    p.Name,
			XValues: xs,
			YValues: temps,
			Style: gochart.Style{
				StrokeColor: color,
				StrokeWidth: 2,
				DotColor:    color,
				DotWidth:    3,
			},
		})
		if showROR {
			hasROR = true
			series = append(series, gochart.ContinuousSeries{
				Name:    p.Name + " ROR",
				YAxis:   gochart.YAxisSecondary,
				XValues: xs,
				YValues: rors,
				Style: gochart.Style{
					StrokeColor:     color.WithAlpha(180),
					StrokeWidth:     1.5,
					StrokeDashArray: []float64{5, 3},
				},
			})
		}
	}

	c := gochart.Chart{
		Title:      r.title,
		Width:      r.width,
		Height:     r.height,
		Background: gochart.Style{Padding: gochart.Box{Top: 40, Left: 16, Right: 16, Bottom: 16}},
		XAxis: gochart.XAxis{
			Name:           "Time",
			ValueFormatter: clockFormatter,
		},
		YAxis:  gochart.YAxis{Name: "Temperature"},
		Series: series,
	}
	c.XAxis.Range = xb.degenerate()
	c.YAxis.Range = tb.degenerate()
	if hasROR {
		c.YAxisSecondary = gochart.YAxis{Name: "ROR", Range: rb.degenerate()}
		if r.rorAxisMax > 0 {
			c.YAxisSecondary.Range = &gochart.ContinuousRange{Min: 0, Max: r.rorAxisMax}
		}
	}
	return c
}

// bounds tracks the extent of one axis across all series.
type bounds struct {
	min, max float64
	set      bool
}

func (b *bounds) add(vs ...float64) {
	for _, v := range vs {
		if !b.set || v < b.min {
			b.min = v
		}
		if !b.set || v > b.max {
			b.max = v
		}
		b.set = true
	}
}

// degenerate returns a padded range when every value is equal, since go-chart
// refuses a zero-width axis. Otherwise nil keeps autoscaling.
func (b bounds) degenerate() gochart.Range {
	if !b.set || b.max > b.min {
		return nil
	}
	return &gochart.ContinuousRange{Min: b.min - 1, Max: b.max + 1}
}

// columns extracts plot columns. go-chart needs at least two X values, so a
// single point is padded one second to the right.
func columns(points []model.RoastPoint) (xs, temps, rors []float64) {
	xs = make([]float64, 0, len(points)+1)
	temps = make([]float64, 0, len(points)+1)
	rors = make([]float64, 0, len(points)+1)
	for _, p := range points {
		xs = append(xs, p.ElapsedSeconds)
		temps = append(temps, p.Temperature)
		rors = append(rors, p.ROR)
	}
	if len(points) == 1 {
		xs = append(xs, xs[0]+1)
		temps = append(temps, temps[0])
		rors = append(rors, rors[0])
	}
	return xs, temps, rors
}

func clockFormatter(v interface{}) string {
	if f, ok := v.(float64); ok {
		return inspect.FormatClock(f)
	}
	return ""
}
