package roastctl

import "errors"

// Sentinel kinds for CLI errors.
var (
	ErrNoInput = errors.New("no input given")
	ErrNoRows  = errors.New("no usable rows in input")
)
