package model

import "time"

// User is a registered account. PasswordHash and RefreshToken never leave the server.
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	RefreshToken *string   `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
}

// Identity is the verified holder of an access token.
type Identity struct {
	UserID string `json:"id"`
	Email  string `json:"email"`
}
