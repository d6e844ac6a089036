// Package repository persists roasting sessions.
package repository

import (
	"context"

	"github.com/okian/roastcurve/internal/domain/session"
)

// SessionStore provides read/write access to sessions.
type SessionStore interface {
	// Get loads a session. Returns ErrNotFound if the id is unknown or expired.
	Get(ctx context.Context, id string) (*session.Session, error)

	// Put writes the whole session in one transaction, resetting its TTL.
	Put(ctx context.Context, s *session.Session) error

	// Delete removes a session. Returns ErrNotFound if the id is unknown.
	Delete(ctx context.Context, id string) error

	// Count returns the number of live sessions.
	Count(ctx context.Context) int

	// Close releases the underlying database.
	Close() error
}
