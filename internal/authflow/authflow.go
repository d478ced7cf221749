// Package authflow implements the sign-in and sign-up use cases: validate the
// form, call the backend, and turn every result into an Outcome plus a
// notification. Nothing escapes Submit as an error the caller must handle.
package authflow

import (
	"context"

	"github.com/postdeck/postdeck-go/internal/model"
	"github.com/postdeck/postdeck-go/internal/validate"
)

// Outcome classifies how a submission ended.
type Outcome int

const (
	// Invalid means the form failed local validation; no request was sent.
	Invalid Outcome = iota
	// Succeeded means the server accepted the submission.
	Succeeded
	// Rejected means the server refused the credentials or payload.
	Rejected
	// Conflict means the signup username is already registered.
	Conflict
	// Failed means a transport or server fault.
	Failed
)

func (o Outcome) String() string {
	switch o {
	case Invalid:
		return "invalid"
	case Succeeded:
		return "succeeded"
	case Rejected:
		return "rejected"
	case Conflict:
		return "conflict"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

// Result is what a flow reports back to its view.
type Result struct {
	Outcome     Outcome
	FieldErrors validate.FieldErrors
	// Err is the underlying failure, for logging only.
	Err error
}

// Notifier shows transient messages to the user.
type Notifier interface {
	Success(msg string)
	Error(msg string)
}

// Authenticator checks credentials with the backend.
type Authenticator interface {
	Authenticate(ctx context.Context, username, password string) (model.AuthResponse, error)
}

// Registrar creates accounts on the backend.
type Registrar interface {
	Register(ctx context.Context, username, password, email string) (model.AuthResponse, error)
}

const (
	msgLoginSuccess  = "Login successful!"
	msgLoginFailed   = "Login failed. Please try again."
	msgSignupSuccess = "Signup successful!"
	msgSignupFailed  = "Signup failed. Please try again."
	msgUsernameTaken = "Username is already taken"
)
