package library

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/okian/roastcurve/internal/domain/model"
	"github.com/okian/roastcurve/internal/domain/profileset"
)

func TestLibraryRoundTrip(t *testing.T) {
	Convey("Given a synchronized absolute-mode profile and an unsynchronized draft", t, func() {
		raw := []model.RawRow{
			{Temperature: 120.0, Minutes: 0, Seconds: 0, EventLabel: "charge"},
			{Temperature: 140.0, Minutes: 0, Seconds: 40},
			{Temperature: 160.0, Minutes: 1, Seconds: 23},
		}
		points, _, err := profileset.Process(raw, model.ModeAbsoluteTime)
		So(err, ShouldBeNil)
		draft := model.Profile{Name: "draft", Rows: []model.RawRow{
			{Temperature: "150", Minutes: "2"},
			{Temperature: ""},
		}}

		lib, err := FromProfiles(model.ModeAbsoluteTime, true, false,
			[]model.Profile{{Name: "Kenya", Points: points}, draft})
		So(err, ShouldBeNil)

		Convey("When encoded", func() {
			var buf bytes.Buffer
			So(Encode(&buf, lib), ShouldBeNil)
			text := buf.String()

			Convey("Then the document is readable TOML", func() {
				So(text, ShouldStartWith, "# roastcurve profile library")
				So(text, ShouldContainSubstring, `mode = "absolute"`)
				So(text, ShouldContainSubstring, "[[profile]]")
				So(text, ShouldContainSubstring, "[[profile.point]]")
				So(text, ShouldContainSubstring, `event = "charge"`)
			})

			Convey("And decoding restores it", func() {
				back, err := Decode(&buf)
				So(err, ShouldBeNil)
				So(back, ShouldResemble, lib)

				mode, err := back.InputMode()
				So(err, ShouldBeNil)
				So(mode, ShouldEqual, model.ModeAbsoluteTime)

				profiles := back.ToProfiles()
				So(len(profiles), ShouldEqual, 2)
				again, _, err := profileset.Process(profiles[0].Rows, mode)
				So(err, ShouldBeNil)
				So(again, ShouldResemble, points)
			})
		})

		Convey("Then the blank draft row was dropped by normalization", func() {
			So(len(lib.Profiles[1].Points), ShouldEqual, 1)
			So(lib.Profiles[1].Points[0].Minutes, ShouldEqual, 2)
		})
	})
}

func TestDecodeErrors(t *testing.T) {
	Convey("Given malformed libraries", t, func() {
		Convey("When the TOML is invalid", func() {
			_, err := Decode(strings.NewReader("version = [1"))
			So(errors.Is(err, ErrDecode), ShouldBeTrue)
		})

		Convey("When a key is misspelled", func() {
			_, err := Decode(strings.NewReader("version = 1\nmode = \"interval\"\n[[profile]]\nname = \"a\"\n[[profile.point]]\ntemprature = 1.0\n"))
			So(errors.Is(err, ErrUnknownKeys), ShouldBeTrue)
			So(err.Error(), ShouldContainSubstring, "temprature")
		})

		Convey("When the version is unknown", func() {
			_, err := Decode(strings.NewReader("version = 7\nmode = \"interval\"\n"))
			So(errors.Is(err, ErrUnsupportedVersion), ShouldBeTrue)
		})

		Convey("When the mode is unknown", func() {
			_, err := Decode(strings.NewReader("version = 1\nmode = \"seconds\"\n"))
			So(errors.Is(err, model.ErrInvalidMode), ShouldBeTrue)
		})
	})
}
