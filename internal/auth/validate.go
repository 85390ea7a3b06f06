package auth

import (
	"errors"
	"strings"
)

const minPasswordLen = 6

// Validation errors are user-facing and never reach the network layer.
var (
	ErrMissingCredentials = errors.New("email and password are required")
	ErrInvalidEmail       = errors.New("enter a valid email address")
	ErrMissingUsername    = errors.New("username is required")
	ErrPasswordTooShort   = errors.New("password must be at least 6 characters")
	ErrPasswordMismatch   = errors.New("passwords do not match")
)

// ValidateLogin checks login form input before any request is issued.
func ValidateLogin(email, password string) error {
	email = strings.TrimSpace(email)
	if email == "" || strings.TrimSpace(password) == "" {
		return ErrMissingCredentials
	}
	if !strings.Contains(email, "@") {
		return ErrInvalidEmail
	}
	return nil
}

// ValidateRegistration checks registration form input before any request
// is issued.
func ValidateRegistration(username, email, password, confirm string) error {
	if strings.TrimSpace(username) == "" {
		return ErrMissingUsername
	}
	email = strings.TrimSpace(email)
	if email == "" || strings.TrimSpace(password) == "" {
		return ErrMissingCredentials
	}
	if !strings.Contains(email, "@") {
		return ErrInvalidEmail
	}
	if len(password) < minPasswordLen {
		return ErrPasswordTooShort
	}
	if password != confirm {
		return ErrPasswordMismatch
	}
	return nil
}
