// Package session owns the client's record of who is signed in.
//
// A Store is created once by the application root and handed to every view
// and flow that needs it. It mirrors the signed-in username into a durable
// key/value store so that a later process can recognise a returning user.
package session

import (
	"context"
	"log/slog"
	"sync"

	"github.com/postdeck/postdeck-go/internal/model"
)

// SignalKey is the durable key holding the signed-in username.
const SignalKey = "username"

// Signals is the durable client-side storage the store writes through.
type Signals interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}

// Store holds the current session.
type Store struct {
	mu      sync.RWMutex
	cur     model.Session
	epoch   uint64
	signals Signals
	log     *slog.Logger
}

// NewStore creates a logged-out Store. signals may be nil, in which case
// nothing survives the process.
func NewStore(signals Signals, log *slog.Logger) *Store {
	if log == nil {
		log = slog.Default()
	}
	return &Store{signals: signals, log: log}
}

// Login marks username as signed in and remembers it durably. The caller has
// already checked the credentials with the server.
func (s *Store) Login(ctx context.Context, username string) {
	s.Restore(username)

	if s.signals == nil {
		return
	}
	if err := s.signals.Set(ctx, SignalKey, username); err != nil {
		s.log.Warn("persisting session failed", "username", username, "error", err)
	}
}

// Restore sets the in-memory session without writing storage.
func (s *Store) Restore(username string) {
	s.mu.Lock()
	s.cur = model.Session{LoggedIn: true, Username: username}
	s.epoch++
	s.mu.Unlock()
}

// Epoch counts session changes. Every Login, Restore and Logout advances it.
func (s *Store) Epoch() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.epoch
}

// RestoreIf restores username only if the session has not changed since
// epoch was read. It reports whether the restore happened.
func (s *Store) RestoreIf(epoch uint64, username string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.epoch != epoch {
		return false
	}
	s.cur = model.Session{LoggedIn: true, Username: username}
	s.epoch++
	return true
}

// Logout resets the session and forgets the remembered username.
func (s *Store) Logout(ctx context.Context) {
	s.mu.Lock()
	s.cur = model.Session{}
	s.epoch++
	s.mu.Unlock()

	if s.signals == nil {
		return
	}
	if err := s.signals.Delete(ctx, SignalKey); err != nil {
		s.log.Warn("clearing persisted session failed", "error", err)
	}
}

// IsLoggedIn reports whether a user is signed in in this process.
func (s *Store) IsLoggedIn() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cur.LoggedIn
}

// Username returns the signed-in username, or "" when logged out.
func (s *Store) Username() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cur.Username
}

// Snapshot returns a copy of the current session.
func (s *Store) Snapshot() model.Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cur
}

// Remembered returns the username persisted by an earlier Login, if any.
// Storage errors are logged and treated as absent.
func (s *Store) Remembered(ctx context.Context) (string, bool) {
	if s.signals == nil {
		return "", false
	}
	name, ok, err := s.signals.Get(ctx, SignalKey)
	if err != nil {
		s.log.Warn("reading persisted session failed", "error", err)
		return "", false
	}
	if !ok || name == "" {
		return "", false
	}
	return name, true
}
