package profileset

import "errors"

// Sentinel kinds for profile set errors. These allow errors.Is from callers.
var (
	ErrEmptyName        = errors.New("profile name must not be empty")
	ErrDuplicateName    = errors.New("profile name already exists")
	ErrProfileNotFound  = errors.New("profile not found")
	ErrCapacityExceeded = errors.New("profile capacity exceeded")
	ErrTooManyPoints    = errors.New("too many profile points")
)
