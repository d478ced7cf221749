// Package guard keeps signed-out users away from protected views.
package guard

import (
	"context"
	"log/slog"
	"sync"

	"github.com/postdeck/postdeck-go/internal/route"
	"github.com/postdeck/postdeck-go/internal/session"
)

// View renders a screen.
type View interface {
	Render(ctx context.Context, username string) error
}

// ViewFunc adapts a function to View.
type ViewFunc func(ctx context.Context, username string) error

func (f ViewFunc) Render(ctx context.Context, username string) error { return f(ctx, username) }

// Decision is the result of a guard check.
type Decision struct {
	Allow    bool
	Username string
	// Restored is set when access was granted from the persisted signal
	// rather than the in-memory session.
	Restored bool
}

// Guard checks the session before a protected view renders.
type Guard struct {
	session *session.Store
	log     *slog.Logger
	wg      sync.WaitGroup
}

// New creates a Guard over store.
func New(store *session.Store, log *slog.Logger) *Guard {
	if log == nil {
		log = slog.Default()
	}
	return &Guard{session: store, log: log}
}

// Check decides whether a protected view may render. The in-memory session
// wins; otherwise a persisted username lets the user through and the store is
// brought up to date in the background.
func (g *Guard) Check(ctx context.Context) Decision {
	if snap := g.session.Snapshot(); snap.LoggedIn {
		return Decision{Allow: true, Username: snap.Username}
	}

	epoch := g.session.Epoch()
	name, ok := g.session.Remembered(ctx)
	if !ok {
		return Decision{}
	}

	// a Login or Logout after this point wins over the restore
	g.wg.Add(1)
	go func() {
		defer g.wg.Done()
		if !g.session.RestoreIf(epoch, name) {
			g.log.Debug("stale session restore skipped", "username", name)
			return
		}
		g.log.Debug("session restored from persisted signal", "username", name)
	}()

	return Decision{Allow: true, Username: name, Restored: true}
}

// Protect wraps view so it only renders for a signed-in user; anyone else
// is sent to the login view.
func (g *Guard) Protect(view View, nav route.Navigator) View {
	return ViewFunc(func(ctx context.Context, _ string) error {
		d := g.Check(ctx)
		if !d.Allow {
			nav.Navigate(ctx, route.Login)
			return nil
		}
		return view.Render(ctx, d.Username)
	})
}

// Wait blocks until background session reconciliation has finished.
func (g *Guard) Wait() {
	g.wg.Wait()
}
