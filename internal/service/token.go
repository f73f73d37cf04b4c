package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"filevault/internal/auth"
	"filevault/internal/model"
	"filevault/internal/repository"
)

// TokenService issues, verifies, revokes and rotates session tokens.
type TokenService interface {
	// Issue signs a fresh access/refresh pair. It does not persist anything.
	Issue(userID, email string) (*auth.TokenPair, error)

	// Verify checks an access token and returns its holder.
	// Fails with auth.ErrTokenExpired, auth.ErrTokenInvalid or auth.ErrTokenRevoked.
	Verify(ctx context.Context, accessToken string) (*model.Identity, error)

	// Revoke blacklists an access token until it would have expired anyway.
	Revoke(ctx context.Context, accessToken string) error

	// RotateRefresh exchanges the user's current refresh token for a new pair.
	// A token can be rotated at most once; replays fail with ErrRefreshTokenNotFound.
	RotateRefresh(ctx context.Context, refreshToken string) (*auth.TokenPair, error)
}

type tokenService struct {
	issuer  *auth.Issuer
	users   repository.UserRepository
	revoked repository.RevocationRepository
	now     func() time.Time
}

// NewTokenService constructs a TokenService.
func NewTokenService(issuer *auth.Issuer, users repository.UserRepository, revoked repository.RevocationRepository) TokenService {
	return &tokenService{issuer: issuer, users: users, revoked: revoked, now: time.Now}
}

func (s *tokenService) Issue(userID, email string) (*auth.TokenPair, error) {
	return s.issuer.Issue(userID, email)
}

func (s *tokenService) Verify(ctx context.Context, accessToken string) (*model.Identity, error) {
	claims, err := s.issuer.Parse(accessToken, auth.KindAccess)
	if err != nil {
		return nil, err
	}
	revoked, err := s.revoked.IsRevoked(ctx, accessToken)
	if err != nil {
		return nil, fmt.Errorf("check revocation: %w", err)
	}
	if revoked {
		return nil, auth.ErrTokenRevoked
	}
	return &model.Identity{UserID: claims.UserID, Email: claims.Email}, nil
}

func (s *tokenService) Revoke(ctx context.Context, accessToken string) error {
	exp, ok := auth.ExpiresAt(accessToken)
	if !ok {
		exp = s.now().Add(s.issuer.AccessTTL())
	}
	if err := s.revoked.Revoke(ctx, accessToken, exp); err != nil {
		return fmt.Errorf("revoke token: %w", err)
	}
	return nil
}

func (s *tokenService) RotateRefresh(ctx context.Context, refreshToken string) (*auth.TokenPair, error) {
	user, err := s.users.FindByRefreshToken(ctx, refreshToken)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrRefreshTokenNotFound
		}
		return nil, err
	}

	claims, err := s.issuer.Parse(refreshToken, auth.KindRefresh)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRefreshTokenInvalid, err)
	}
	if claims.UserID != user.ID {
		return nil, ErrRefreshTokenInvalid
	}

	pair, err := s.issuer.Issue(user.ID, user.Email)
	if err != nil {
		return nil, err
	}
	// Losing the swap means a concurrent rotation already consumed the token.
	if err := s.users.SwapRefreshToken(ctx, user.ID, refreshToken, pair.RefreshToken); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrRefreshTokenNotFound
		}
		return nil, err
	}
	return pair, nil
}
