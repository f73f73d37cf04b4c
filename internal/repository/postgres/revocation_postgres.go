package postgres

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"time"

	"filevault/internal/repository"
)

// RevocationPostgres stores revoked access tokens in a table shared by every
// server instance. Only a SHA-256 digest of each token is kept.
type RevocationPostgres struct {
	db *sql.DB
}

// NewRevocationPostgres creates a new RevocationPostgres repository.
func NewRevocationPostgres(db *sql.DB) *RevocationPostgres {
	return &RevocationPostgres{db: db}
}

var _ repository.RevocationRepository = (*RevocationPostgres)(nil)

func (r *RevocationPostgres) Revoke(ctx context.Context, token string, expiresAt time.Time) error {
	const q = `
		INSERT INTO revoked_tokens (token_hash, expires_at)
		VALUES ($1, $2)
		ON CONFLICT (token_hash) DO NOTHING
	`
	_, err := r.db.ExecContext(ctx, q, tokenDigest(token), expiresAt)
	return err
}

func (r *RevocationPostgres) IsRevoked(ctx context.Context, token string) (bool, error) {
	const q = `SELECT EXISTS (SELECT 1 FROM revoked_tokens WHERE token_hash = $1)`
	var revoked bool
	if err := r.db.QueryRowContext(ctx, q, tokenDigest(token)).Scan(&revoked); err != nil {
		return false, err
	}
	return revoked, nil
}

func (r *RevocationPostgres) Purge(ctx context.Context, now time.Time) (int, error) {
	const q = `DELETE FROM revoked_tokens WHERE expires_at <= $1`
	res, err := r.db.ExecContext(ctx, q, now)
	if err != nil {
		return 0, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	return int(n), nil
}

func tokenDigest(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
