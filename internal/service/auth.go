package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"filevault/internal/auth"
	"filevault/internal/model"
	"filevault/internal/repository"
)

// SignupResult is returned by Signup: the new account and its first token pair.
type SignupResult struct {
	Tokens *auth.TokenPair
	User   *model.User
}

// AuthService implements account registration and the session lifecycle.
type AuthService interface {
	Signup(ctx context.Context, email, password string) (*SignupResult, error)

	// Signin checks credentials and replaces the user's stored refresh token.
	// Unknown email and wrong password both fail with ErrInvalidCredentials.
	Signin(ctx context.Context, email, password string) (*auth.TokenPair, error)

	Refresh(ctx context.Context, refreshToken string) (*auth.TokenPair, error)

	// Logout revokes the access token and clears the user's refresh token.
	Logout(ctx context.Context, accessToken, userID string) error

	// Identify resolves a bearer token to its holder. Token failures are
	// reported as ErrUnauthorized wrapping the cause.
	Identify(ctx context.Context, accessToken string) (*model.Identity, error)

	// Profile returns the stored account record.
	Profile(ctx context.Context, userID string) (*model.User, error)
}

type authService struct {
	users  repository.UserRepository
	tokens TokenService
	hasher auth.PasswordHasher

	dummyOnce sync.Once
	dummyHash string
}

// NewAuthService constructs an AuthService.
func NewAuthService(users repository.UserRepository, tokens TokenService, hasher auth.PasswordHasher) AuthService {
	return &authService{users: users, tokens: tokens, hasher: hasher}
}

// NormalizeEmail trims and lower-cases an address and rejects anything that
// is not a bare addr-spec.
func NormalizeEmail(email string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return "", ErrInvalidEmail
	}
	return email, nil
}

func (s *authService) Signup(ctx context.Context, email, password string) (*SignupResult, error) {
	if strings.TrimSpace(email) == "" || password == "" {
		return nil, ErrMissingFields
	}
	email, err := NormalizeEmail(email)
	if err != nil {
		return nil, err
	}

	if _, err := s.users.FindByEmail(ctx, email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	id := uuid.NewString()
	pair, err := s.tokens.Issue(id, email)
	if err != nil {
		return nil, err
	}

	user, err := s.users.Create(ctx, &model.User{
		ID:           id,
		Email:        email,
		PasswordHash: hash,
		RefreshToken: &pair.RefreshToken,
		CreatedAt:    time.Now().UTC(),
	})
	if err != nil {
		// Lost a race with a concurrent signup for the same email.
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}
	return &SignupResult{Tokens: pair, User: user}, nil
}

func (s *authService) Signin(ctx context.Context, email, password string) (*auth.TokenPair, error) {
	if strings.TrimSpace(email) == "" || password == "" {
		return nil, ErrMissingFields
	}
	email = strings.ToLower(strings.TrimSpace(email))

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			s.burnCompare(password)
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	ok, err := s.hasher.Verify(user.PasswordHash, password)
	if err != nil {
		return nil, fmt.Errorf("verify password: %w", err)
	}
	if !ok {
		return nil, ErrInvalidCredentials
	}

	pair, err := s.tokens.Issue(user.ID, user.Email)
	if err != nil {
		return nil, err
	}
	if err := s.users.SetRefreshToken(ctx, user.ID, &pair.RefreshToken); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	return pair, nil
}

// burnCompare spends about as long as a real password check so response time
// does not reveal whether the email exists.
func (s *authService) burnCompare(password string) {
	s.dummyOnce.Do(func() {
		s.dummyHash, _ = s.hasher.Hash("filevault-timing-equalizer")
	})
	if s.dummyHash != "" {
		_, _ = s.hasher.Verify(s.dummyHash, password)
	}
}

func (s *authService) Refresh(ctx context.Context, refreshToken string) (*auth.TokenPair, error) {
	if strings.TrimSpace(refreshToken) == "" {
		return nil, ErrTokenMissing
	}
	return s.tokens.RotateRefresh(ctx, refreshToken)
}

func (s *authService) Logout(ctx context.Context, accessToken, userID string) error {
	if accessToken == "" || userID == "" {
		return ErrUnauthorized
	}
	if err := s.tokens.Revoke(ctx, accessToken); err != nil {
		return err
	}
	if err := s.users.SetRefreshToken(ctx, userID, nil); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrUserNotFound
		}
		return err
	}
	return nil
}

func (s *authService) Identify(ctx context.Context, accessToken string) (*model.Identity, error) {
	if accessToken == "" {
		return nil, fmt.Errorf("%w: %w", ErrUnauthorized, ErrTokenMissing)
	}
	id, err := s.tokens.Verify(ctx, accessToken)
	if err != nil {
		if errors.Is(err, auth.ErrTokenInvalid) || errors.Is(err, auth.ErrTokenExpired) {
			return nil, fmt.Errorf("%w: %w", ErrUnauthorized, err)
		}
		return nil, err
	}
	return id, nil
}

func (s *authService) Profile(ctx context.Context, userID string) (*model.User, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}
