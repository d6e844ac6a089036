package normalize_test

import (
	"encoding/json"
	"errors"
	"math"
	"testing"

	"github.com/okian/roastcurve/internal/domain/model"
	"github.com/okian/roastcurve/internal/domain/normalize"
	. "github.com/smartystreets/goconvey/convey"
)

func TestFloat(t *testing.T) {
	Convey("Given raw cell values", t, func() {
		Convey("Numbers and numeric text coerce", func() {
			f, ok := normalize.Float(120)
			So(ok, ShouldBeTrue)
			So(f, ShouldEqual, 120.0)

			f, ok = normalize.Float(" 140.5 ")
			So(ok, ShouldBeTrue)
			So(f, ShouldEqual, 140.5)

			f, ok = normalize.Float(json.Number("43"))
			So(ok, ShouldBeTrue)
			So(f, ShouldEqual, 43.0)

			f, ok = normalize.Float(int64(7))
			So(ok, ShouldBeTrue)
			So(f, ShouldEqual, 7.0)
		})

		Convey("Blanks, garbage and non-finite values are undefined", func() {
			for _, v := range []any{nil, "", "  ", "abc", "12abc", true, math.NaN(), math.Inf(1), "NaN", "inf", []int{1}} {
				_, ok := normalize.Float(v)
				So(ok, ShouldBeFalse)
			}
		})

		Convey("Int truncates toward zero", func() {
			i, ok := normalize.Int("1.9")
			So(ok, ShouldBeTrue)
			So(i, ShouldEqual, 1)

			i, ok = normalize.Int(-2.7)
			So(ok, ShouldBeTrue)
			So(i, ShouldEqual, -2)

			_, ok = normalize.Int("x")
			So(ok, ShouldBeFalse)
		})
	})
}

func TestNormalize(t *testing.T) {
	Convey("Given raw rows", t, func() {
		Convey("When nothing survives", func() {
			points, err := normalize.Normalize(nil, model.ModeAbsoluteTime)

			Convey("Then the result is empty, not an error", func() {
				So(err, ShouldBeNil)
				So(points, ShouldNotBeNil)
				So(points, ShouldBeEmpty)
			})
		})

		Convey("When rows lack a temperature or carry garbage", func() {
			raw := []model.RawRow{
				{Index: 0, Temperature: 120, Minutes: 0, Seconds: 0},
				{Index: 1, Temperature: nil, Minutes: 0, Seconds: 20},
				{Index: 2, Temperature: "hot", Minutes: 0, Seconds: 30},
				{Index: 5, Temperature: "140", Minutes: "0", Seconds: "40", EventLabel: "yellow"},
				{Index: 9, Temperature: 160.0, Minutes: 1, Seconds: "x"},
			}
			res, err := normalize.NormalizeWithStats(raw, model.ModeAbsoluteTime)

			Convey("Then they are dropped and survivors are reindexed densely", func() {
				So(err, ShouldBeNil)
				So(res.Dropped, ShouldEqual, 2)
				So(len(res.Points), ShouldEqual, 3)
				for i, p := range res.Points {
					So(p.Index, ShouldEqual, i)
				}
				So(res.Points[1].Temperature, ShouldEqual, 140.0)
				So(res.Points[1].Seconds, ShouldEqual, 40)
				So(res.Points[1].EventLabel, ShouldEqual, "yellow")
			})

			Convey("And undefined minutes or seconds default to zero", func() {
				So(res.Points[2].Minutes, ShouldEqual, 1)
				So(res.Points[2].Seconds, ShouldEqual, 0)
			})
		})

		Convey("When the mode is interval", func() {
			raw := []model.RawRow{
				{Temperature: 120},
				{Temperature: 140, IntervalSeconds: "40"},
				{Temperature: 160, IntervalSeconds: 43},
			}
			points, err := normalize.Normalize(raw, model.ModeInterval)

			Convey("Then intervals are carried and the first defaults to zero", func() {
				So(err, ShouldBeNil)
				So(points[0].IntervalSeconds, ShouldEqual, 0.0)
				So(points[1].IntervalSeconds, ShouldEqual, 40.0)
				So(points[2].IntervalSeconds, ShouldEqual, 43.0)
			})
		})

		Convey("When the mode is unsupported", func() {
			_, err := normalize.Normalize([]model.RawRow{{Temperature: 1}}, model.InputMode("bogus"))

			Convey("Then a contract violation is reported", func() {
				So(err, ShouldNotBeNil)
				So(errors.Is(err, model.ErrInvalidMode), ShouldBeTrue)
			})
		})

		Convey("When the same rows are normalized twice", func() {
			raw := []model.RawRow{{Temperature: "120"}, {Temperature: 130, Minutes: 1}}
			a, _ := normalize.Normalize(raw, model.ModeAbsoluteTime)
			b, _ := normalize.Normalize(raw, model.ModeAbsoluteTime)

			Convey("Then the output is identical", func() {
				So(a, ShouldResemble, b)
			})
		})
	})
}
