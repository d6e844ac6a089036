// Package library reads and writes TOML profile libraries, a portable text
// form of a session's profiles and display settings.
package library

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/okian/roastcurve/internal/domain/model"
	"github.com/okian/roastcurve/internal/domain/normalize"
)

// Version is the library format written by Encode.
const Version = 1

// Sentinel kinds for library errors.
var (
	ErrDecode             = errors.New("decode profile library")
	ErrUnsupportedVersion = errors.New("unsupported profile library version")
	ErrUnknownKeys        = errors.New("unknown keys in profile library")
)

// Library is the TOML document.
type Library struct {
	Version     int     `toml:"version"`
	Mode        string  `toml:"mode"`
	ShowROR     bool    `toml:"show_ror"`
	Interpolate bool    `toml:"interpolate"`
	Profiles    []Entry `toml:"profile"`
}

// Entry is one profile.
type Entry struct {
	Name   string  `toml:"name"`
	Points []Point `toml:"point"`
}

// Point is one profile row. Only the time fields of the library mode matter
// on import; derived values are recomputed.
type Point struct {
	Temperature     float64 `toml:"temperature"`
	Minutes         int     `toml:"minutes"`
	Seconds         int     `toml:"seconds"`
	IntervalSeconds float64 `toml:"interval_seconds"`
	Event           string  `toml:"event,omitempty"`
}

// FromProfiles builds a library. Derived points are used when present;
// otherwise raw rows are normalized so blank rows are not written.
func FromProfiles(mode model.InputMode, showROR, interpolate bool, profiles []model.Profile) (Library, error) {
	lib := Library{
		Version:     Version,
		Mode:        string(mode),
		ShowROR:     showROR,
		Interpolate: interpolate,
		Profiles:    make([]Entry, 0, len(profiles)),
	}
	for _, p := range profiles {
		points := p.Points
		if len(points) == 0 && len(p.Rows) > 0 {
			var err error
			if points, err = normalize.Normalize(p.Rows, mode); err != nil {
				return Library{}, err
			}
		}
		e := Entry{Name: p.Name, Points: make([]Point, len(points))}
		for i, pt := range points {
			e.Points[i] = Point{
				Temperature:     pt.Temperature,
				Minutes:         pt.Minutes,
				Seconds:         pt.Seconds,
				IntervalSeconds: pt.IntervalSeconds,
				Event:           pt.EventLabel,
			}
		}
		lib.Profiles = append(lib.Profiles, e)
	}
	return lib, nil
}

// InputMode returns the parsed library mode.
func (l Library) InputMode() (model.InputMode, error) {
	return model.ParseInputMode(l.Mode)
}

// ToProfiles converts entries to profiles carrying raw rows only.
func (l Library) ToProfiles() []model.Profile {
	out := make([]model.Profile, len(l.Profiles))
	for i, e := range l.Profiles {
		rows := make([]model.RawRow, len(e.Points))
		for j, pt := range e.Points {
			rows[j] = model.RawRow{
				Index:           j,
				Temperature:     pt.Temperature,
				Minutes:         pt.Minutes,
				Seconds:         pt.Seconds,
				IntervalSeconds: pt.IntervalSeconds,
				EventLabel:      pt.Event,
			}
		}
		out[i] = model.Profile{Name: e.Name, Rows: rows}
	}
	return out
}

// Encode writes lib as TOML with a short header.
func Encode(w io.Writer, lib Library) error {
	if _, err := fmt.Fprintf(w, "# roastcurve profile library\n# mode: %s\n\n", lib.Mode); err != nil {
		return err
	}
	if err := toml.NewEncoder(w).Encode(lib); err != nil {
		return fmt.Errorf("failed to encode library: %w", err)
	}
	return nil
}

// Decode reads a library, rejecting unknown keys and other versions.
func Decode(r io.Reader) (Library, error) {
	var lib Library
	md, err := toml.NewDecoder(r).Decode(&lib)
	if err != nil {
		return Library{}, fmt.Errorf("%w: %w", ErrDecode, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return Library{}, fmt.Errorf("%w: %s", ErrUnknownKeys, strings.Join(keys, ", "))
	}
	if lib.Version != Version {
		return Library{}, fmt.Errorf("%w: %d", ErrUnsupportedVersion, lib.Version)
	}
	if _, err := lib.InputMode(); err != nil {
		return Library{}, err
	}
	return lib, nil
}
