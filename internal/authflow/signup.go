package authflow

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/postdeck/postdeck-go/internal/model"
	"github.com/postdeck/postdeck-go/internal/remote"
	"github.com/postdeck/postdeck-go/internal/validate"
)

// Signup registers a new account. It does not sign the user in.
type Signup struct {
	reg    Registrar
	notify Notifier
	log    *slog.Logger
}

// NewSignup creates a Signup flow.
func NewSignup(reg Registrar, n Notifier, log *slog.Logger) *Signup {
	if log == nil {
		log = slog.Default()
	}
	return &Signup{reg: reg, notify: n, log: log}
}

// Submit validates in, including the password confirmation, and registers it.
func (f *Signup) Submit(ctx context.Context, in model.SignupRequest) Result {
	res := validate.Signup(in)
	if !res.OK() {
		return Result{Outcome: Invalid, FieldErrors: res.Errors}
	}

	req := res.Value
	_, err := f.reg.Register(ctx, req.Username, req.Password, req.Email)
	if err == nil {
		f.log.Info("signup succeeded", "username", req.Username)
		f.notify.Success(msgSignupSuccess)
		return Result{Outcome: Succeeded}
	}

	f.log.Info("signup failed", "username", req.Username, "error", err)

	var se *remote.StatusError
	switch {
	case errors.Is(err, remote.ErrConflict):
		f.notify.Error(msgUsernameTaken)
		return Result{Outcome: Conflict, Err: err}
	case errors.As(err, &se) && se.Code == http.StatusBadRequest && se.Message != "":
		f.notify.Error(se.Message)
		return Result{Outcome: Rejected, Err: err}
	default:
		f.notify.Error(msgSignupFailed)
		return Result{Outcome: Failed, Err: err}
	}
}
