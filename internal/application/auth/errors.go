package auth

import "errors"

var (
	ErrCredentialsRequired = errors.New("Username and password are required")
	ErrInvalidCredentials  = errors.New("Invalid credentials")
	ErrSessionNotFound     = errors.New("Not authenticated")
)
