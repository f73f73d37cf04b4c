package service

import (
	"context"
	"database/sql"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"filevault/internal/auth"
	"filevault/internal/model"
	"filevault/internal/repository"
	"filevault/internal/repository/memory"
	repoMocks "filevault/internal/repository/mocks"
)

// fakeUsers is an in-memory UserRepository with the same swap semantics as Postgres.
type fakeUsers struct {
	mu    sync.Mutex
	users map[string]*model.User
}

func newFakeUsers() *fakeUsers {
	return &fakeUsers{users: make(map[string]*model.User)}
}

func (f *fakeUsers) Create(_ context.Context, u *model.User) (*model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, existing := range f.users {
		if existing.Email == u.Email {
			return nil, repository.ErrDuplicate
		}
	}
	cp := *u
	f.users[u.ID] = &cp
	out := cp
	return &out, nil
}

func (f *fakeUsers) find(match func(*model.User) bool) (*model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if match(u) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (f *fakeUsers) FindByID(_ context.Context, id string) (*model.User, error) {
	return f.find(func(u *model.User) bool { return u.ID == id })
}

func (f *fakeUsers) FindByEmail(_ context.Context, email string) (*model.User, error) {
	return f.find(func(u *model.User) bool { return u.Email == email })
}

func (f *fakeUsers) FindByRefreshToken(_ context.Context, token string) (*model.User, error) {
	return f.find(func(u *model.User) bool { return u.RefreshToken != nil && *u.RefreshToken == token })
}

func (f *fakeUsers) SetRefreshToken(_ context.Context, userID string, token *string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[userID]
	if !ok {
		return sql.ErrNoRows
	}
	if token == nil {
		u.RefreshToken = nil
		return nil
	}
	v := *token
	u.RefreshToken = &v
	return nil
}

func (f *fakeUsers) SwapRefreshToken(_ context.Context, userID, oldToken, newToken string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[userID]
	if !ok || u.RefreshToken == nil || *u.RefreshToken != oldToken {
		return sql.ErrNoRows
	}
	v := newToken
	u.RefreshToken = &v
	return nil
}

type authFixture struct {
	users   *fakeUsers
	revoked *memory.Revocations
	tokens  TokenService
	svc     AuthService
}

func newAuthFixture() *authFixture {
	users := newFakeUsers()
	revoked := memory.NewRevocations()
	issuer := auth.NewIssuer([]byte("test-secret"), 10*time.Minute, 7*24*time.Hour, nil)
	tokens := NewTokenService(issuer, users, revoked)
	return &authFixture{
		users:   users,
		revoked: revoked,
		tokens:  tokens,
		svc:     NewAuthService(users, tokens, &auth.BcryptHasher{Cost: bcrypt.MinCost}),
	}
}

func TestAuthService_SignupThenSignin(t *testing.T) {
	ctx := context.Background()
	fx := newAuthFixture()

	res, err := fx.svc.Signup(ctx, "  Alice@Example.COM ", "pw-123")
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", res.User.Email)
	assert.NotEmpty(t, res.User.ID)
	require.NotNil(t, res.User.RefreshToken)
	assert.Equal(t, res.Tokens.RefreshToken, *res.User.RefreshToken)

	pair, err := fx.svc.Signin(ctx, "alice@example.com", "pw-123")
	require.NoError(t, err)

	id, err := fx.svc.Identify(ctx, pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, res.User.ID, id.UserID)
	assert.Equal(t, "alice@example.com", id.Email)

	stored, err := fx.users.FindByID(ctx, res.User.ID)
	require.NoError(t, err)
	assert.Equal(t, pair.RefreshToken, *stored.RefreshToken)
}

func TestAuthService_Signup_Validation(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name     string
		email    string
		password string
		wantErr  error
	}{
		{name: "missing email", email: "", password: "pw", wantErr: ErrMissingFields},
		{name: "missing password", email: "a@example.com", password: "", wantErr: ErrMissingFields},
		{name: "not an address", email: "not-an-email", password: "pw", wantErr: ErrInvalidEmail},
		{name: "display name form", email: "Bob <b@example.com>", password: "pw", wantErr: ErrInvalidEmail},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fx := newAuthFixture()
			_, err := fx.svc.Signup(ctx, tt.email, tt.password)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestAuthService_Signup_Duplicate(t *testing.T) {
	ctx := context.Background()
	fx := newAuthFixture()

	_, err := fx.svc.Signup(ctx, "dup@example.com", "pw")
	require.NoError(t, err)

	_, err = fx.svc.Signup(ctx, "DUP@example.com", "other")
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestAuthService_Signup_RaceOnUniqueIndex(t *testing.T) {
	ctx := context.Background()
	mUsers := new(repoMocks.MockUserRepository)
	issuer := auth.NewIssuer([]byte("s"), time.Minute, time.Hour, nil)
	svc := NewAuthService(mUsers, NewTokenService(issuer, mUsers, memory.NewRevocations()), &auth.BcryptHasher{Cost: bcrypt.MinCost})

	mUsers.On("FindByEmail", ctx, "race@example.com").Return(nil, sql.ErrNoRows)
	mUsers.On("Create", ctx, mock.AnythingOfType("*model.User")).Return(nil, repository.ErrDuplicate)

	_, err := svc.Signup(ctx, "race@example.com", "pw")
	assert.ErrorIs(t, err, ErrEmailTaken)
	mUsers.AssertExpectations(t)
}

func TestAuthService_Signin_InvalidCredentials(t *testing.T) {
	ctx := context.Background()
	fx := newAuthFixture()

	_, err := fx.svc.Signup(ctx, "bob@example.com", "right")
	require.NoError(t, err)

	_, errWrong := fx.svc.Signin(ctx, "bob@example.com", "wrong")
	_, errUnknown := fx.svc.Signin(ctx, "nobody@example.com", "right")

	assert.ErrorIs(t, errWrong, ErrInvalidCredentials)
	assert.ErrorIs(t, errUnknown, ErrInvalidCredentials)
	assert.Equal(t, errWrong.Error(), errUnknown.Error())

	_, err = fx.svc.Signin(ctx, "", "")
	assert.ErrorIs(t, err, ErrMissingFields)
}

func TestAuthService_SecondSigninSupersedesRefreshToken(t *testing.T) {
	ctx := context.Background()
	fx := newAuthFixture()

	_, err := fx.svc.Signup(ctx, "carol@example.com", "pw")
	require.NoError(t, err)

	first, err := fx.svc.Signin(ctx, "carol@example.com", "pw")
	require.NoError(t, err)
	second, err := fx.svc.Signin(ctx, "carol@example.com", "pw")
	require.NoError(t, err)

	_, err = fx.svc.Refresh(ctx, first.RefreshToken)
	assert.ErrorIs(t, err, ErrRefreshTokenNotFound)

	_, err = fx.svc.Refresh(ctx, second.RefreshToken)
	assert.NoError(t, err)
}

func TestAuthService_Refresh(t *testing.T) {
	ctx := context.Background()
	fx := newAuthFixture()

	_, err := fx.svc.Refresh(ctx, "  ")
	assert.ErrorIs(t, err, ErrTokenMissing)

	res, err := fx.svc.Signup(ctx, "dan@example.com", "pw")
	require.NoError(t, err)

	rotated, err := fx.svc.Refresh(ctx, res.Tokens.RefreshToken)
	require.NoError(t, err)
	assert.NotEqual(t, res.Tokens.RefreshToken, rotated.RefreshToken)

	// Replay of the consumed token.
	_, err = fx.svc.Refresh(ctx, res.Tokens.RefreshToken)
	assert.ErrorIs(t, err, ErrRefreshTokenNotFound)

	id, err := fx.svc.Identify(ctx, rotated.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "dan@example.com", id.Email)
}

func TestAuthService_Logout(t *testing.T) {
	ctx := context.Background()
	fx := newAuthFixture()

	a, err := fx.svc.Signup(ctx, "a@example.com", "pw")
	require.NoError(t, err)
	b, err := fx.svc.Signup(ctx, "b@example.com", "pw")
	require.NoError(t, err)

	require.NoError(t, fx.svc.Logout(ctx, a.Tokens.AccessToken, a.User.ID))

	_, err = fx.svc.Identify(ctx, a.Tokens.AccessToken)
	assert.ErrorIs(t, err, ErrUnauthorized)
	assert.ErrorIs(t, err, auth.ErrTokenRevoked)

	_, err = fx.svc.Identify(ctx, b.Tokens.AccessToken)
	assert.NoError(t, err)

	stored, err := fx.users.FindByID(ctx, a.User.ID)
	require.NoError(t, err)
	assert.Nil(t, stored.RefreshToken)

	_, err = fx.svc.Refresh(ctx, a.Tokens.RefreshToken)
	assert.ErrorIs(t, err, ErrRefreshTokenNotFound)

	// Logging out twice only re-revokes.
	assert.NoError(t, fx.svc.Logout(ctx, a.Tokens.AccessToken, a.User.ID))

	err = fx.svc.Logout(ctx, b.Tokens.AccessToken, "missing-user")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestAuthService_Identify(t *testing.T) {
	ctx := context.Background()
	fx := newAuthFixture()

	res, err := fx.svc.Signup(ctx, "eve@example.com", "pw")
	require.NoError(t, err)

	_, err = fx.svc.Identify(ctx, "")
	assert.ErrorIs(t, err, ErrUnauthorized)

	_, err = fx.svc.Identify(ctx, "garbage")
	assert.ErrorIs(t, err, ErrUnauthorized)
	assert.ErrorIs(t, err, auth.ErrTokenInvalid)

	// A refresh token is not an access token.
	_, err = fx.svc.Identify(ctx, res.Tokens.RefreshToken)
	assert.ErrorIs(t, err, ErrUnauthorized)

	expiredIssuer := auth.NewIssuer([]byte("test-secret"), time.Minute, time.Hour, func() time.Time {
		return time.Now().Add(-time.Hour)
	})
	old, err := expiredIssuer.Issue(res.User.ID, res.User.Email)
	require.NoError(t, err)
	_, err = fx.svc.Identify(ctx, old.AccessToken)
	assert.ErrorIs(t, err, ErrUnauthorized)
	assert.ErrorIs(t, err, auth.ErrTokenExpired)
}

func TestAuthService_Profile(t *testing.T) {
	ctx := context.Background()
	fx := newAuthFixture()

	res, err := fx.svc.Signup(ctx, "frank@example.com", "pw")
	require.NoError(t, err)

	u, err := fx.svc.Profile(ctx, res.User.ID)
	require.NoError(t, err)
	assert.Equal(t, "frank@example.com", u.Email)

	_, err = fx.svc.Profile(ctx, "nope")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestAuthService_RepositoryErrors(t *testing.T) {
	ctx := context.Background()
	dbErr := errors.New("db fail")
	mUsers := new(repoMocks.MockUserRepository)
	issuer := auth.NewIssuer([]byte("s"), time.Minute, time.Hour, nil)
	svc := NewAuthService(mUsers, NewTokenService(issuer, mUsers, memory.NewRevocations()), &auth.BcryptHasher{Cost: bcrypt.MinCost})

	mUsers.On("FindByEmail", ctx, "x@example.com").Return(nil, dbErr)

	_, err := svc.Signup(ctx, "x@example.com", "pw")
	assert.ErrorIs(t, err, dbErr)
	_, err = svc.Signin(ctx, "x@example.com", "pw")
	assert.ErrorIs(t, err, dbErr)
	assert.NotErrorIs(t, err, ErrInvalidCredentials)
}
