package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"

	"filevault/internal/model"
	"filevault/internal/repository"
)

const pgUniqueViolation = "23505"

// UserPostgres is a PostgreSQL implementation of repository.UserRepository.
type UserPostgres struct {
	db *sql.DB
}

// NewUserPostgres creates a new UserPostgres repository.
func NewUserPostgres(db *sql.DB) *UserPostgres {
	return &UserPostgres{db: db}
}

var _ repository.UserRepository = (*UserPostgres)(nil)

const userColumns = `id, email, password_hash, refresh_token, created_at`

// Create inserts a new user row and returns the stored record.
func (r *UserPostgres) Create(ctx context.Context, u *model.User) (*model.User, error) {
	const q = `
		INSERT INTO users (id, email, password_hash, refresh_token, created_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING ` + userColumns
	row := r.db.QueryRowContext(ctx, q,
		u.ID,
		u.Email,
		u.PasswordHash,
		nullString(u.RefreshToken),
		u.CreatedAt,
	)
	out, err := scanUser(row)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, repository.ErrDuplicate
		}
		return nil, err
	}
	return out, nil
}

// FindByID fetches a single user by its ID.
func (r *UserPostgres) FindByID(ctx context.Context, id string) (*model.User, error) {
	const q = `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return scanUser(r.db.QueryRowContext(ctx, q, id))
}

// FindByEmail fetches a single user by email.
func (r *UserPostgres) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	const q = `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	return scanUser(r.db.QueryRowContext(ctx, q, email))
}

// FindByRefreshToken fetches the user currently holding token.
func (r *UserPostgres) FindByRefreshToken(ctx context.Context, token string) (*model.User, error) {
	const q = `SELECT ` + userColumns + ` FROM users WHERE refresh_token = $1`
	return scanUser(r.db.QueryRowContext(ctx, q, token))
}

// SetRefreshToken unconditionally overwrites the stored refresh token.
func (r *UserPostgres) SetRefreshToken(ctx context.Context, userID string, token *string) error {
	const q = `UPDATE users SET refresh_token = $1 WHERE id = $2`
	res, err := r.db.ExecContext(ctx, q, nullString(token), userID)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

// SwapRefreshToken is a compare-and-swap on refresh_token. Under concurrent
// rotations Postgres re-evaluates the WHERE clause after the first commit, so
// only one caller sees a matched row.
func (r *UserPostgres) SwapRefreshToken(ctx context.Context, userID, oldToken, newToken string) error {
	const q = `UPDATE users SET refresh_token = $1 WHERE id = $2 AND refresh_token = $3`
	res, err := r.db.ExecContext(ctx, q, newToken, userID, oldToken)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

func scanUser(s scanner) (*model.User, error) {
	var (
		u       model.User
		refresh sql.NullString
	)
	if err := s.Scan(&u.ID, &u.Email, &u.PasswordHash, &refresh, &u.CreatedAt); err != nil {
		return nil, err
	}
	if refresh.Valid {
		u.RefreshToken = &refresh.String
	}
	return &u, nil
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func requireAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation
}
