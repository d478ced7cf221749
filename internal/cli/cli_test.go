package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/postdeck/postdeck-go/internal/config"
	"github.com/postdeck/postdeck-go/internal/model"
	"github.com/postdeck/postdeck-go/internal/remote"
)

type fakeBackend struct {
	password  string
	regCalls  int
	authCalls int
	posts     []model.PostDraft
	postErr   error
}

func (b *fakeBackend) Authenticate(_ context.Context, username, password string) (model.AuthResponse, error) {
	b.authCalls++
	if password != b.password {
		return model.AuthResponse{Message: "Invalid username or password"}, remote.ErrUnauthorized
	}
	return model.AuthResponse{Success: true, Message: "Logged in as " + username}, nil
}

func (b *fakeBackend) Register(_ context.Context, username, _, _ string) (model.AuthResponse, error) {
	b.regCalls++
	return model.AuthResponse{Success: true, Message: "User created"}, nil
}

func (b *fakeBackend) CreatePost(_ context.Context, d model.PostDraft) (model.Post, error) {
	if b.postErr != nil {
		return model.Post{}, b.postErr
	}
	b.posts = append(b.posts, d)
	return model.Post{ID: "post-1", Content: d.Content, ImageName: d.Image.Name}, nil
}

type harness struct {
	cfg     config.ClientConfig
	backend *fakeBackend
}

func newHarness(t *testing.T, driver string) *harness {
	t.Helper()
	dir := t.TempDir()
	cfg := config.ClientConfig{
		ServerURL:   "http://unused.test",
		StoreDriver: driver,
		StorePath:   filepath.Join(dir, "state"),
		LogFile:     filepath.Join(dir, "postdeck.log"),
	}
	return &harness{cfg: cfg, backend: &fakeBackend{password: "password123"}}
}

// run executes one invocation, as a separate process would.
func (h *harness) run(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	var out, errOut bytes.Buffer

	app := &App{}
	root := newRootCmd(app, h.cfg, h.backend)
	root.SetIn(strings.NewReader(stdin))
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(args)

	err := root.ExecuteContext(context.Background())
	require.NoError(t, app.Close())
	return out.String(), errOut.String(), err
}

func TestLoginOpensDashboardAndPersists(t *testing.T) {
	for _, driver := range []string{config.ClientStoreFile, config.ClientStoreSQLite} {
		t.Run(driver, func(t *testing.T) {
			h := newHarness(t, driver)

			out, errOut, err := h.run(t, "", "login", "-u", "alice", "--password", "password123")
			require.NoError(t, err)
			assert.Contains(t, errOut, "Login successful!")
			assert.Contains(t, out, "Welcome to the Home Page!")
			assert.Contains(t, out, "alice")

			out, _, err = h.run(t, "", "whoami")
			require.NoError(t, err)
			assert.Equal(t, "alice\n", out)

			_, errOut, err = h.run(t, "", "logout")
			require.NoError(t, err)
			assert.Contains(t, errOut, "Logged out")

			out, _, err = h.run(t, "", "whoami")
			assert.ErrorIs(t, err, errReported)
			assert.Contains(t, out, "Not signed in")
		})
	}
}

func TestLoginRejected(t *testing.T) {
	h := newHarness(t, config.ClientStoreFile)

	out, errOut, err := h.run(t, "", "login", "-u", "alice", "--password", "wrong")
	assert.ErrorIs(t, err, errReported)
	assert.Contains(t, errOut, "Login failed. Please try again.")
	assert.Contains(t, out, signupHint)
	assert.NotContains(t, out, "Welcome")
}

func TestLoginPromptsForMissingInput(t *testing.T) {
	h := newHarness(t, config.ClientStoreFile)

	out, _, err := h.run(t, "alice\npassword123\n", "login")
	require.NoError(t, err)
	assert.Contains(t, out, "Username: ")
	assert.Contains(t, out, "Password: ")
	assert.Contains(t, out, "Welcome to the Home Page!")
}

func TestDashboardRequiresLogin(t *testing.T) {
	h := newHarness(t, config.ClientStoreFile)

	out, _, err := h.run(t, "", "dashboard")
	assert.ErrorIs(t, err, errReported)
	assert.Contains(t, out, "You are not signed in")
	assert.NotContains(t, out, "Welcome")
}

func TestSignupValidationSkipsNetwork(t *testing.T) {
	h := newHarness(t, config.ClientStoreFile)

	out, _, err := h.run(t, "", "signup",
		"--email", "a@x.io", "-u", "alice",
		"--password", "password123", "--confirm-password", "password124")
	assert.ErrorIs(t, err, errReported)
	assert.Contains(t, out, "confirmPassword: Passwords do not match")
	assert.Contains(t, out, loginHint)
	assert.Zero(t, h.backend.regCalls)
}

func TestSignupSucceeds(t *testing.T) {
	h := newHarness(t, config.ClientStoreFile)

	_, errOut, err := h.run(t, "", "signup",
		"--email", "a@x.io", "-u", "alice",
		"--password", "password123", "--confirm-password", "password123")
	require.NoError(t, err)
	assert.Contains(t, errOut, "Signup successful!")
	assert.Equal(t, 1, h.backend.regCalls)
}

func writeImage(t *testing.T, name string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte("\x89PNG\r\n\x1a\nfake"), 0o600))
	return path
}

func TestPostRequiresLogin(t *testing.T) {
	h := newHarness(t, config.ClientStoreFile)

	_, _, err := h.run(t, "", "post", "--content", "Hello world!", "--image", writeImage(t, "cat.png"), "--approve")
	assert.ErrorIs(t, err, errReported)
	assert.Empty(t, h.backend.posts)
}

func TestPostCreated(t *testing.T) {
	h := newHarness(t, config.ClientStoreFile)
	_, _, err := h.run(t, "", "login", "-u", "alice", "--password", "password123")
	require.NoError(t, err)

	out, errOut, err := h.run(t, "", "post", "--content", "Hello world!", "--image", writeImage(t, "cat.png"), "--approve")
	require.NoError(t, err)
	assert.Contains(t, errOut, "Post created")
	assert.Contains(t, out, "id: post-1")
	require.Len(t, h.backend.posts, 1)
	assert.Equal(t, "image/png", h.backend.posts[0].Image.MediaType)
}

func TestPostInvalidDraft(t *testing.T) {
	h := newHarness(t, config.ClientStoreFile)
	_, _, err := h.run(t, "", "login", "-u", "alice", "--password", "password123")
	require.NoError(t, err)

	// content too short, approval declined at the prompt
	out, _, err := h.run(t, "n\n", "post", "--content", "short", "--image", writeImage(t, "cat.png"))
	assert.ErrorIs(t, err, errReported)
	assert.Contains(t, out, "content: Must be at least 10 characters long")
	assert.Contains(t, out, "approve: You must approve.")
	assert.Empty(t, h.backend.posts)
}

func TestPostDropRejectsNonImage(t *testing.T) {
	h := newHarness(t, config.ClientStoreFile)
	_, _, err := h.run(t, "", "login", "-u", "alice", "--password", "password123")
	require.NoError(t, err)

	notes := filepath.Join(t.TempDir(), "notes.txt")
	require.NoError(t, os.WriteFile(notes, []byte("hello"), 0o600))

	_, errOut, err := h.run(t, "", "post", "--content", "Hello world!", "--approve", "--drop", notes)
	assert.ErrorIs(t, err, errReported)
	assert.Contains(t, errOut, "Please select an image file (JPG, PNG, or GIF)")
	assert.Empty(t, h.backend.posts)
}

func TestPostServerFailure(t *testing.T) {
	h := newHarness(t, config.ClientStoreFile)
	_, _, err := h.run(t, "", "login", "-u", "alice", "--password", "password123")
	require.NoError(t, err)
	h.backend.postErr = &remote.StatusError{Code: 500, Message: "Server error"}

	_, errOut, err := h.run(t, "", "post", "--content", "Hello world!", "--image", writeImage(t, "cat.png"), "--approve")
	assert.ErrorIs(t, err, errReported)
	assert.Contains(t, errOut, "Server error")
}

func TestAvatar(t *testing.T) {
	assert.Contains(t, avatar("alice"), "A")
	assert.Contains(t, avatar(""), "?")
}
