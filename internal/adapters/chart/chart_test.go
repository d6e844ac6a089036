package chart

import (
	"bytes"
	"errors"
	"testing"

	gochart "github.com/wcharczuk/go-chart/v2"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/okian/roastcurve/internal/domain/model"
)

var pngMagic = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'}

func profile(name string, pts ...[2]float64) model.Profile {
	p := model.Profile{Name: name}
	for i, pt := range pts {
		ror := 0.0
		if i > 0 {
			ror = (pt[1] - pts[i-1][1]) / (pt[0] - pts[i-1][0])
		}
		p.Points = append(p.Points, model.RoastPoint{Index: i, ElapsedSeconds: pt[0], Temperature: pt[1], ROR: ror})
	}
	return p
}

func TestRender(t *testing.T) {
	Convey("Given a renderer", t, func() {
		r := New(WithSize(640, 360), WithRORAxisMax(30), WithTitle("Batch 12"))

		Convey("When rendering two derived profiles with ROR", func() {
			var buf bytes.Buffer
			err := r.Render(&buf, []model.Profile{
				profile("Profile 1", [2]float64{0, 120}, [2]float64{40, 140}, [2]float64{83, 160}),
				profile("Profile 2", [2]float64{0, 118}, [2]float64{60, 150}),
			}, true)

			Convey("Then a PNG is written", func() {
				So(err, ShouldBeNil)
				So(bytes.HasPrefix(buf.Bytes(), pngMagic), ShouldBeTrue)
			})
		})

		Convey("When a profile has a single point", func() {
			var buf bytes.Buffer
			err := r.Render(&buf, []model.Profile{profile("solo", [2]float64{30, 150})}, true)

			Convey("Then the degenerate axes are padded and rendering succeeds", func() {
				So(err, ShouldBeNil)
				So(bytes.HasPrefix(buf.Bytes(), pngMagic), ShouldBeTrue)
			})
		})

		Convey("When nothing is derived", func() {
			err := r.Render(&bytes.Buffer{}, []model.Profile{{Name: "Profile 1"}}, true)

			Convey("Then ErrNothingToPlot is returned", func() {
				So(errors.Is(err, ErrNothingToPlot), ShouldBeTrue)
			})
		})
	})
}

func TestBuild(t *testing.T) {
	Convey("Given profiles", t, func() {
		profiles := []model.Profile{
			{Name: "empty"},
			profile("Profile 1", [2]float64{0, 120}, [2]float64{40, 140}),
		}

		Convey("When ROR is hidden", func() {
			c := New().Build(profiles, false)

			Convey("Then only temperature series exist and empty profiles are skipped", func() {
				So(len(c.Series), ShouldEqual, 1)
				So(c.Series[0].GetName(), ShouldEqual, "Profile 1")
				So(c.YAxisSecondary.Name, ShouldEqual, "")
			})
		})

		Convey("When ROR is shown", func() {
			c := New(WithRORAxisMax(25)).Build(profiles, true)

			Convey("Then each profile adds a dashed series on the secondary axis", func() {
				So(len(c.Series), ShouldEqual, 2)
				ror := c.Series[1].(gochart.ContinuousSeries)
				So(ror.Name, ShouldEqual, "Profile 1 ROR")
				So(ror.YAxis, ShouldEqual, gochart.YAxisSecondary)
				So(ror.Style.StrokeDashArray, ShouldNotBeEmpty)
				So(c.YAxisSecondary.Range.GetMax(), ShouldEqual, 25)
			})
		})

		Convey("And the time axis reads m:ss", func() {
			So(clockFormatter(83.0), ShouldEqual, "1:23")
			So(clockFormatter("x"), ShouldEqual, "")
		})
	})
}
