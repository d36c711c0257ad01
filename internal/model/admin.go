package model

import (
	"errors"
	"time"
)

// AdminAccount is a site administrator credential row.
type AdminAccount struct {
	ID           int64     `db:"id" json:"id"`
	Username     string    `db:"username" json:"username"`
	PasswordHash string    `db:"password_hash" json:"-"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

// LoginRequest is the admin login body.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResponse carries the issued access token.
type LoginResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresInS  int    `json:"expires_in"`
}

// Auth error codes for HTTP responses
const (
	CodeTokenExpired = "TOKEN_EXPIRED"
	CodeTokenInvalid = "TOKEN_INVALID"
)

// Auth domain errors
var (
	ErrAdminNotFound      = errors.New("admin account not found")
	ErrInvalidCredentials = errors.New("invalid username or password")
)
