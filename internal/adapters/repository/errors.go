package repository

import "errors"

// Sentinel kinds for session store errors.
var (
	ErrNotFound = errors.New("session not found")
	ErrClosed   = errors.New("session store closed")
	ErrEncode   = errors.New("encode session")
	ErrDecode   = errors.New("decode session")
)
