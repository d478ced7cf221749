package authflow

import (
	"context"
	"errors"
	"log/slog"

	"github.com/postdeck/postdeck-go/internal/model"
	"github.com/postdeck/postdeck-go/internal/remote"
	"github.com/postdeck/postdeck-go/internal/route"
	"github.com/postdeck/postdeck-go/internal/session"
	"github.com/postdeck/postdeck-go/internal/validate"
)

// Login signs a user in.
type Login struct {
	auth    Authenticator
	session *session.Store
	notify  Notifier
	nav     route.Navigator
	log     *slog.Logger
}

// NewLogin creates a Login flow.
func NewLogin(auth Authenticator, store *session.Store, n Notifier, nav route.Navigator, log *slog.Logger) *Login {
	if log == nil {
		log = slog.Default()
	}
	return &Login{auth: auth, session: store, notify: n, nav: nav, log: log}
}

// Submit validates in and, if it passes, authenticates against the server.
// On success the session is set and the dashboard is shown. A rejected pair
// and a server fault look the same to the user.
func (f *Login) Submit(ctx context.Context, in model.Credentials) Result {
	res := validate.Login(in)
	if !res.OK() {
		return Result{Outcome: Invalid, FieldErrors: res.Errors}
	}

	creds := res.Value
	_, err := f.auth.Authenticate(ctx, creds.Username, creds.Password)
	if err != nil {
		outcome := Failed
		if errors.Is(err, remote.ErrUnauthorized) {
			outcome = Rejected
		}
		f.log.Info("login failed", "username", creds.Username, "outcome", outcome.String(), "error", err)
		f.notify.Error(msgLoginFailed)
		return Result{Outcome: outcome, Err: err}
	}

	f.session.Login(ctx, creds.Username)
	f.log.Info("login succeeded", "username", creds.Username)
	f.notify.Success(msgLoginSuccess)
	f.nav.Navigate(ctx, route.Dashboard)
	return Result{Outcome: Succeeded}
}
