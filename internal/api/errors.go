package api

import (
	"errors"
	"fmt"
	"net/http"
)

// Error is a non-2xx response from the Snipted API. Detail carries the
// server's human-readable message when one was provided.
type Error struct {
	Status int
	Detail string
}

func (e *Error) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("HTTP %d: %s", e.Status, e.Detail)
	}
	return fmt.Sprintf("HTTP %d", e.Status)
}

// StatusOf returns the HTTP status carried by err, or 0 if err is not an
// API error (e.g. a network failure).
func StatusOf(err error) int {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Status
	}
	return 0
}

// IsUnauthorized reports whether err is a 401 from the server. The backend
// also answers 400 for bad credentials on the login endpoint, so callers
// mapping login failures should check IsBadCredentials instead.
func IsUnauthorized(err error) bool {
	return StatusOf(err) == http.StatusUnauthorized
}

// IsBadCredentials covers the login endpoint's rejection statuses.
func IsBadCredentials(err error) bool {
	s := StatusOf(err)
	return s == http.StatusUnauthorized || s == http.StatusBadRequest
}

func IsRateLimited(err error) bool {
	return StatusOf(err) == http.StatusTooManyRequests
}

func IsInvalidInput(err error) bool {
	return StatusOf(err) == http.StatusUnprocessableEntity
}

func IsConflict(err error) bool {
	return StatusOf(err) == http.StatusConflict
}

func IsNotFound(err error) bool {
	return StatusOf(err) == http.StatusNotFound
}

// IsNetwork reports whether err happened before any HTTP status was
// received: DNS failure, refused connection, timeout.
func IsNetwork(err error) bool {
	return err != nil && StatusOf(err) == 0
}
