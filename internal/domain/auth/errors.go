package auth

import "errors"

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidToken       = errors.New("invalid or expired token")
	ErrSessionRequired    = errors.New("session cookie user_email is required")
	ErrAdminRequired      = errors.New("admin privilege required")
)
