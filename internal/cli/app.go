// Package cli is the postdeck terminal client: signup, login, the protected
// dashboard and post creation, wired over the remote backend and a local
// session store.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/postdeck/postdeck-go/internal/authflow"
	"github.com/postdeck/postdeck-go/internal/config"
	"github.com/postdeck/postdeck-go/internal/guard"
	"github.com/postdeck/postdeck-go/internal/localstore"
	"github.com/postdeck/postdeck-go/internal/notify"
	"github.com/postdeck/postdeck-go/internal/postmodal"
	"github.com/postdeck/postdeck-go/internal/remote"
	"github.com/postdeck/postdeck-go/internal/route"
	"github.com/postdeck/postdeck-go/internal/session"
)

// errReported marks a failure that was already shown to the user.
var errReported = errors.New("reported")

// backend is what the commands need from the server.
type backend interface {
	authflow.Authenticator
	authflow.Registrar
	postmodal.Creator
}

// App holds the collaborators shared by every command of one invocation.
type App struct {
	cfg     config.ClientConfig
	out     io.Writer
	prompt  *prompter
	log     *slog.Logger
	notify  *notify.Terminal
	backend backend
	session *session.Store
	guard   *guard.Guard

	dashboard guard.View
	current   route.Route
	closers   []io.Closer
}

// open builds the collaborators for cfg. A non-nil b replaces the HTTP
// client.
func (a *App) open(ctx context.Context, cfg config.ClientConfig, in io.Reader, out, errOut io.Writer, b backend) error {
	a.cfg = cfg
	a.out = out
	a.prompt = newPrompter(in, out)
	a.notify = notify.NewTerminal(errOut)

	log, logFile := newLogger(cfg.LogFile, cfg.Verbose, errOut)
	a.log = log
	a.closers = append(a.closers, logFile)

	signals, err := a.openSignals(ctx)
	if err != nil {
		return err
	}

	if b == nil {
		b = remote.NewClient(cfg.ServerURL, nil, cfg.Timeout)
	}
	a.backend = b
	a.session = session.NewStore(signals, log)
	a.guard = guard.New(a.session, log)
	a.dashboard = a.guard.Protect(guard.ViewFunc(a.renderDashboard), a)

	log.Debug("client started", "server", cfg.ServerURL, "store", cfg.StoreDriver)
	return nil
}

func (a *App) openSignals(ctx context.Context) (session.Signals, error) {
	path := a.cfg.ResolvedStorePath()
	switch a.cfg.StoreDriver {
	case config.ClientStoreFile:
		return localstore.NewFile(path), nil
	case config.ClientStoreSQLite:
		db, err := localstore.OpenSQLite(ctx, path)
		if err != nil {
			return nil, fmt.Errorf("open session store: %w", err)
		}
		a.closers = append(a.closers, db)
		return db, nil
	default:
		return nil, fmt.Errorf("unsupported store driver %q", a.cfg.StoreDriver)
	}
}

// Navigate implements route.Navigator for the terminal.
func (a *App) Navigate(ctx context.Context, to route.Route) {
	a.current = to
	a.log.Debug("navigate", "route", string(to))

	switch to {
	case route.Dashboard:
		if err := a.dashboard.Render(ctx, ""); err != nil {
			a.notify.Error(err.Error())
		}
	case route.Login:
		fmt.Fprintln(a.out, "You are not signed in. Run `postdeck login`.")
		fmt.Fprintln(a.out, signupHint)
	case route.Signup:
		fmt.Fprintln(a.out, "Create an account with `postdeck signup`.")
	}
}

// Close waits for background session work and releases resources.
func (a *App) Close() error {
	if a.guard != nil {
		a.guard.Wait()
	}
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i].Close(); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}
