package service

import "errors"

// Auth errors.
var (
	ErrMissingFields        = errors.New("email and password are required")
	ErrInvalidEmail         = errors.New("invalid email address")
	ErrEmailTaken           = errors.New("email already registered")
	ErrInvalidCredentials   = errors.New("invalid email or password")
	ErrTokenMissing         = errors.New("token is required")
	ErrRefreshTokenNotFound = errors.New("refresh token not found")
	ErrRefreshTokenInvalid  = errors.New("refresh token invalid")
	ErrUnauthorized         = errors.New("unauthorized")
	ErrUserNotFound         = errors.New("user not found")
)

// File errors.
var (
	ErrFileRequired       = errors.New("file is required")
	ErrUnsupportedType    = errors.New("unsupported file type")
	ErrFileNotFound       = errors.New("file not found")
	ErrForbidden          = errors.New("file belongs to another user")
	ErrFileContentMissing = errors.New("file content missing from storage")
)
