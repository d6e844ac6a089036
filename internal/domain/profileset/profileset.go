// Package profileset holds the ordered, uniquely named profiles of a session
// and runs the normalize/derive pipeline over them.
//
// A Set is not safe for concurrent use; callers serialize access per session.
package profileset

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/okian/roastcurve/internal/domain/derive"
	"github.com/okian/roastcurve/internal/domain/model"
	"github.com/okian/roastcurve/internal/domain/normalize"
)

const defaultNamePrefix = "Profile"

// Set is an insertion-ordered collection of profiles keyed by name.
type Set struct {
	profiles    []model.Profile
	nextNum     int
	maxProfiles int
	maxPoints   int
	namePrefix  string
	initial     int
}

// SyncReport summarizes one synchronization pass.
type SyncReport struct {
	Profiles int
	Points   int
	Dropped  int
}

// New creates a Set, pre-populated when WithDefaultProfiles is given.
func New(opts ...Option) *Set {
	s := &Set{
		nextNum:     1,
		maxProfiles: model.MaxProfiles,
		maxPoints:   model.MaxPoints,
		namePrefix:  defaultNamePrefix,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.initial > s.maxProfiles {
		s.initial = s.maxProfiles
	}
	for i := 0; i < s.initial; i++ {
		_, _ = s.Add("")
	}
	return s
}

// Len returns the number of profiles.
func (s *Set) Len() int { return len(s.profiles) }

// MaxProfiles returns the configured profile capacity.
func (s *Set) MaxProfiles() int { return s.maxProfiles }

// MaxPoints returns the configured per-profile row capacity.
func (s *Set) MaxPoints() int { return s.maxPoints }

// Names returns profile names in insertion order.
func (s *Set) Names() []string {
	names := make([]string, len(s.profiles))
	for i, p := range s.profiles {
		names[i] = p.Name
	}
	return names
}

// Get returns a copy of the named profile.
func (s *Set) Get(name string) (model.Profile, error) {
	i := s.find(name)
	if i < 0 {
		return model.Profile{}, fmt.Errorf("%w: %q", ErrProfileNotFound, name)
	}
	return s.profiles[i].Clone(), nil
}

// Profiles returns copies of all profiles in insertion order.
func (s *Set) Profiles() []model.Profile {
	out := make([]model.Profile, len(s.profiles))
	for i, p := range s.profiles {
		out[i] = p.Clone()
	}
	return out
}

// Add appends an empty profile. An empty name picks the next free
// auto-generated one. It returns the name actually used.
func (s *Set) Add(name string) (string, error) {
	if len(s.profiles) >= s.maxProfiles {
		return "", fmt.Errorf("%w: max %d", ErrCapacityExceeded, s.maxProfiles)
	}
	name = strings.TrimSpace(name)
	if name == "" {
		name = s.nextName()
	} else if s.find(name) >= 0 {
		return "", fmt.Errorf("%w: %q", ErrDuplicateName, name)
	}
	s.profiles = append(s.profiles, model.Profile{Name: name})
	return name, nil
}

// Rename changes a profile's name, keeping its position.
func (s *Set) Rename(oldName, newName string) error {
	i := s.find(oldName)
	if i < 0 {
		return fmt.Errorf("%w: %q", ErrProfileNotFound, oldName)
	}
	newName = strings.TrimSpace(newName)
	if newName == "" {
		return ErrEmptyName
	}
	if newName == oldName {
		return nil
	}
	if s.find(newName) >= 0 {
		return fmt.Errorf("%w: %q", ErrDuplicateName, newName)
	}
	s.profiles[i].Name = newName
	return nil
}

// Delete removes a profile. Deleting the last one leaves the set empty.
func (s *Set) Delete(name string) error {
	i := s.find(name)
	if i < 0 {
		return fmt.Errorf("%w: %q", ErrProfileNotFound, name)
	}
	s.profiles = append(s.profiles[:i], s.profiles[i+1:]...)
	return nil
}

// SetRows replaces the raw rows of a profile. Derived points are left as of
// the last synchronization.
func (s *Set) SetRows(name string, rows []model.RawRow) error {
	i := s.find(name)
	if i < 0 {
		return fmt.Errorf("%w: %q", ErrProfileNotFound, name)
	}
	if len(rows) > s.maxPoints {
		return fmt.Errorf("%w: %d rows, max %d", ErrTooManyPoints, len(rows), s.maxPoints)
	}
	s.profiles[i].Rows = append([]model.RawRow(nil), rows...)
	return nil
}

// Synchronize normalizes and derives every profile under mode. The whole set
// is swapped only after every profile succeeded, so a failure leaves it
// untouched. Raw rows are re-seeded from the derived points.
func (s *Set) Synchronize(mode model.InputMode) (SyncReport, error) {
	if err := mode.Check(); err != nil {
		return SyncReport{}, err
	}
	next := make([]model.Profile, len(s.profiles))
	var rep SyncReport
	for i, p := range s.profiles {
		points, dropped, err := Process(p.Rows, mode)
		if err != nil {
			return SyncReport{}, fmt.Errorf("synchronize %q: %w", p.Name, err)
		}
		next[i] = model.Profile{
			Name:   p.Name,
			Mode:   mode,
			Rows:   model.RawRowsFromPoints(points),
			Points: points,
		}
		rep.Profiles++
		rep.Points += len(points)
		rep.Dropped += dropped
	}
	s.profiles = next
	return rep, nil
}

// Process runs normalize then derive over raw rows and reports how many rows
// were dropped.
func Process(rows []model.RawRow, mode model.InputMode) ([]model.RoastPoint, int, error) {
	res, err := normalize.NormalizeWithStats(rows, mode)
	if err != nil {
		return nil, 0, err
	}
	points, err := derive.Derive(res.Points, mode)
	if err != nil {
		return nil, 0, err
	}
	return points, res.Dropped, nil
}

func (s *Set) find(name string) int {
	for i, p := range s.profiles {
		if p.Name == name {
			return i
		}
	}
	return -1
}

func (s *Set) nextName() string {
	for {
		name := s.namePrefix + " " + strconv.Itoa(s.nextNum)
		s.nextNum++
		if s.find(name) < 0 {
			return name
		}
	}
}

// setDoc is the serialized form of a Set.
type setDoc struct {
	Profiles    []model.Profile `json:"profiles"`
	NextNum     int             `json:"next_num"`
	MaxProfiles int             `json:"max_profiles"`
	MaxPoints   int             `json:"max_points"`
	NamePrefix  string          `json:"name_prefix"`
}

// MarshalJSON encodes the set preserving profile order.
func (s *Set) MarshalJSON() ([]byte, error) {
	profiles := s.profiles
	if profiles == nil {
		profiles = []model.Profile{}
	}
	return json.Marshal(setDoc{
		Profiles:    profiles,
		NextNum:     s.nextNum,
		MaxProfiles: s.maxProfiles,
		MaxPoints:   s.maxPoints,
		NamePrefix:  s.namePrefix,
	})
}

// UnmarshalJSON restores a set written by MarshalJSON.
func (s *Set) UnmarshalJSON(data []byte) error {
	var doc setDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return err
	}
	*s = Set{
		profiles:    doc.Profiles,
		nextNum:     doc.NextNum,
		maxProfiles: doc.MaxProfiles,
		maxPoints:   doc.MaxPoints,
		namePrefix:  doc.NamePrefix,
	}
	if s.nextNum < 1 {
		s.nextNum = 1
	}
	if s.maxProfiles <= 0 {
		s.maxProfiles = model.MaxProfiles
	}
	if s.maxPoints <= 0 {
		s.maxPoints = model.MaxPoints
	}
	if s.namePrefix == "" {
		s.namePrefix = defaultNamePrefix
	}
	return nil
}
