package guard

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/postdeck/postdeck-go/internal/route"
	"github.com/postdeck/postdeck-go/internal/session"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type memSignals map[string]string

func (m memSignals) Get(_ context.Context, key string) (string, bool, error) {
	v, ok := m[key]
	return v, ok, nil
}

func (m memSignals) Set(_ context.Context, key, value string) error {
	m[key] = value
	return nil
}

func (m memSignals) Delete(_ context.Context, key string) error {
	delete(m, key)
	return nil
}

type harness struct {
	store    *session.Store
	guard    *Guard
	rendered []string
	routes   []route.Route
	view     View
}

func newHarness(sig memSignals) *harness {
	h := &harness{store: session.NewStore(sig, nil)}
	h.guard = New(h.store, nil)
	nav := route.NavigatorFunc(func(_ context.Context, to route.Route) {
		h.routes = append(h.routes, to)
	})
	dashboard := ViewFunc(func(_ context.Context, username string) error {
		h.rendered = append(h.rendered, username)
		return nil
	})
	h.view = h.guard.Protect(dashboard, nav)
	return h
}

func TestProtect_InMemorySession(t *testing.T) {
	h := newHarness(memSignals{})
	h.store.Restore("alice")

	require.NoError(t, h.view.Render(context.Background(), ""))

	assert.Equal(t, []string{"alice"}, h.rendered)
	assert.Empty(t, h.routes)
}

func TestProtect_PersistedSignalRestoresSession(t *testing.T) {
	h := newHarness(memSignals{session.SignalKey: "alice"})

	d := h.guard.Check(context.Background())
	assert.True(t, d.Allow)
	assert.True(t, d.Restored)
	assert.Equal(t, "alice", d.Username)

	h.guard.Wait()
	assert.True(t, h.store.IsLoggedIn())
	assert.Equal(t, "alice", h.store.Username())

	require.NoError(t, h.view.Render(context.Background(), ""))
	assert.Equal(t, []string{"alice"}, h.rendered)
	assert.Empty(t, h.routes)
}

func TestProtect_NoSessionRedirectsToLogin(t *testing.T) {
	h := newHarness(memSignals{})

	require.NoError(t, h.view.Render(context.Background(), ""))

	assert.Empty(t, h.rendered)
	assert.Equal(t, []route.Route{route.Login}, h.routes)
}

func TestProtect_AfterLogoutRedirects(t *testing.T) {
	sig := memSignals{}
	h := newHarness(sig)
	ctx := context.Background()

	h.store.Login(ctx, "alice")
	h.store.Logout(ctx)

	require.NoError(t, h.view.Render(ctx, ""))
	h.guard.Wait()

	assert.Empty(t, h.rendered)
	assert.Equal(t, []route.Route{route.Login}, h.routes)
}

func TestCheck_LogoutBeforeRestoreWins(t *testing.T) {
	for i := 0; i < 200; i++ {
		h := newHarness(memSignals{session.SignalKey: "alice"})
		ctx := context.Background()

		d := h.guard.Check(ctx)
		require.True(t, d.Restored)
		h.store.Logout(ctx)
		h.guard.Wait()

		require.False(t, h.store.IsLoggedIn(), "iteration %d", i)
		require.Empty(t, h.store.Username(), "iteration %d", i)
	}
}

func TestCheck_LoginBeforeRestoreWins(t *testing.T) {
	for i := 0; i < 200; i++ {
		h := newHarness(memSignals{session.SignalKey: "alice"})
		ctx := context.Background()

		h.guard.Check(ctx)
		h.store.Login(ctx, "bob")
		h.guard.Wait()

		require.Equal(t, "bob", h.store.Username(), "iteration %d", i)
	}
}
