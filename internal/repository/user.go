package repository

import (
	"context"

	"filevault/internal/model"
)

// UserRepository persists user accounts and their single live refresh token.
type UserRepository interface {
	// Create inserts a new user. Returns ErrDuplicate if the email is taken.
	Create(ctx context.Context, u *model.User) (*model.User, error)

	FindByID(ctx context.Context, id string) (*model.User, error)
	FindByEmail(ctx context.Context, email string) (*model.User, error)

	// FindByRefreshToken returns the user whose stored refresh token equals token.
	FindByRefreshToken(ctx context.Context, token string) (*model.User, error)

	// SetRefreshToken overwrites the stored refresh token; nil clears it.
	// Returns sql.ErrNoRows if the user does not exist.
	SetRefreshToken(ctx context.Context, userID string, token *string) error

	// SwapRefreshToken replaces oldToken with newToken only if oldToken is still
	// the stored value. Returns sql.ErrNoRows when nothing matched.
	SwapRefreshToken(ctx context.Context, userID, oldToken, newToken string) error
}
