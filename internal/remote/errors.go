package remote

import (
	"errors"
	"fmt"
)

var (
	// ErrUnauthorized is returned when the server rejects credentials (401).
	ErrUnauthorized = errors.New("unauthorized")
	// ErrConflict is returned when a signup username is already registered (409).
	ErrConflict = errors.New("username already registered")
)

// StatusError is an unexpected response status, carrying the server message.
type StatusError struct {
	Code    int
	Message string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("server returned status %d", e.Code)
	}
	return fmt.Sprintf("server returned status %d: %s", e.Code, e.Message)
}
