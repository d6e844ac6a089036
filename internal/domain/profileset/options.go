package profileset

// Option applies a configuration option to the Set.
type Option func(*Set)

// WithMaxProfiles caps how many profiles the set may hold.
func WithMaxProfiles(n int) Option {
	return func(s *Set) {
		if n > 0 {
			s.maxProfiles = n
		}
	}
}

// WithMaxPoints caps how many raw rows a profile may hold.
func WithMaxPoints(n int) Option {
	return func(s *Set) {
		if n > 0 {
			s.maxPoints = n
		}
	}
}

// WithNamePrefix sets the prefix used for auto-generated profile names.
func WithNamePrefix(prefix string) Option {
	return func(s *Set) {
		if prefix != "" {
			s.namePrefix = prefix
		}
	}
}

// WithDefaultProfiles pre-populates the set with n auto-named empty profiles.
func WithDefaultProfiles(n int) Option {
	return func(s *Set) {
		if n > 0 {
			s.initial = n
		}
	}
}
