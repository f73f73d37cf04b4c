package repository

import (
	"context"
	"time"
)

// RevocationRepository records access tokens invalidated before their natural expiry.
// Entries only need to outlive the token, so implementations may drop them after expiresAt.
type RevocationRepository interface {
	// Revoke adds token. Revoking an already revoked token is a no-op.
	Revoke(ctx context.Context, token string, expiresAt time.Time) error

	IsRevoked(ctx context.Context, token string) (bool, error)

	// Purge drops entries whose expiry is at or before now and returns how many were removed.
	Purge(ctx context.Context, now time.Time) (int, error)
}
