package postmodal

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/postdeck/postdeck-go/internal/model"
	"github.com/postdeck/postdeck-go/internal/validate"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// fakeClock fires callbacks synchronously from Advance.
type fakeClock struct {
	mu     sync.Mutex
	now    time.Duration
	timers []*fakeTimer
}

type fakeTimer struct {
	at      time.Duration
	fn      func()
	stopped bool
	fired   bool
}

func (t *fakeTimer) Stop() bool {
	was := !t.stopped && !t.fired
	t.stopped = true
	return was
}

func (c *fakeClock) AfterFunc(d time.Duration, f func()) Timer {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := &fakeTimer{at: c.now + d, fn: f}
	c.timers = append(c.timers, t)
	return t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now += d
	var due []*fakeTimer
	for _, t := range c.timers {
		if !t.stopped && !t.fired && t.at <= c.now {
			t.fired = true
			due = append(due, t)
		}
	}
	c.mu.Unlock()

	for _, t := range due {
		t.fn()
	}
}

type fakeCreator struct {
	err    error
	drafts []model.PostDraft
}

func (f *fakeCreator) CreatePost(_ context.Context, d model.PostDraft) (model.Post, error) {
	f.drafts = append(f.drafts, d)
	if f.err != nil {
		return model.Post{}, f.err
	}
	return model.Post{ID: "post-1", Content: d.Content, Approve: d.Approve}, nil
}

type fixture struct {
	clock   *fakeClock
	creator *fakeCreator
	closed  int
	modal   *Modal
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{clock: &fakeClock{}, creator: &fakeCreator{}}
	f.modal = New(f.creator, func() { f.closed++ }, WithClock(f.clock))
	require.NoError(t, f.modal.Open())
	return f
}

func png() model.Image {
	return model.Image{Name: "cat.png", MediaType: "image/png", Data: []byte("png")}
}

func fillValid(t *testing.T, m *Modal) {
	t.Helper()
	require.NoError(t, m.SetContent("a valid post body"))
	require.NoError(t, m.SetApprove(true))
	require.NoError(t, m.SetImage(png()))
}

func TestOpen(t *testing.T) {
	m := New(&fakeCreator{}, nil)
	assert.Equal(t, Idle, m.State())

	require.NoError(t, m.Open())
	assert.Equal(t, Editing, m.State())
	assert.Equal(t, model.PostDraft{}, m.Draft())

	assert.ErrorIs(t, m.Open(), ErrInvalidState)
}

func TestEditsRequireOpenDialog(t *testing.T) {
	m := New(&fakeCreator{}, nil)
	assert.ErrorIs(t, m.SetContent("hello"), ErrInvalidState)
	assert.ErrorIs(t, m.SetImage(png()), ErrInvalidState)

	_, err := m.Submit(context.Background())
	assert.ErrorIs(t, err, ErrInvalidState)
}

func TestSubmit_Success(t *testing.T) {
	f := newFixture(t)
	fillValid(t, f.modal)

	outcome, err := f.modal.Submit(context.Background())
	require.NoError(t, err)

	assert.Equal(t, Created, outcome)
	assert.Equal(t, Idle, f.modal.State())
	assert.Equal(t, 1, f.closed)
	require.Len(t, f.creator.drafts, 1)
	assert.Equal(t, "a valid post body", f.creator.drafts[0].Content)

	post, ok := f.modal.LastPost()
	assert.True(t, ok)
	assert.Equal(t, "post-1", post.ID)
}

func TestSubmit_InvalidDraftStaysEditing(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.modal.SetContent("too short"))
	require.NoError(t, f.modal.SetApprove(true))
	require.NoError(t, f.modal.SetImage(png()))

	outcome, err := f.modal.Submit(context.Background())

	assert.Equal(t, Invalid, outcome)
	var fe validate.FieldErrors
	require.ErrorAs(t, err, &fe)
	assert.Contains(t, fe, "content")
	assert.Equal(t, Editing, f.modal.State())
	assert.Contains(t, f.modal.FieldErrors(), "content")
	assert.Empty(t, f.creator.drafts, "no request for an invalid draft")
	assert.Equal(t, "too short", f.modal.Draft().Content)
}

func TestDrop_NonImageIsRejected(t *testing.T) {
	f := newFixture(t)

	err := f.modal.Drop([]model.Image{{Name: "notes.pdf", MediaType: "application/pdf"}})

	assert.ErrorIs(t, err, ErrNotImage)
	assert.Nil(t, f.modal.Draft().Image)
	assert.Equal(t, validate.ImageTypeMessage, f.modal.Error())
	assert.Equal(t, Editing, f.modal.State())
}

func TestDrop_NonImageKeepsPreviousImage(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.modal.Drop([]model.Image{png()}))

	err := f.modal.Drop([]model.Image{{Name: "a.txt", MediaType: "text/plain"}})

	assert.ErrorIs(t, err, ErrNotImage)
	require.NotNil(t, f.modal.Draft().Image)
	assert.Equal(t, "cat.png", f.modal.Draft().Image.Name)
}

func TestDrop_EmptyIsNoop(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.modal.Drop(nil))
	assert.Nil(t, f.modal.Draft().Image)
	assert.Empty(t, f.modal.Error())
}

func TestDrop_ImageClearsTypeError(t *testing.T) {
	f := newFixture(t)
	_ = f.modal.Drop([]model.Image{{Name: "a.txt", MediaType: "text/plain"}})

	require.NoError(t, f.modal.Drop([]model.Image{png(), {Name: "b.txt", MediaType: "text/plain"}}))

	assert.Empty(t, f.modal.Error())
	assert.Equal(t, "cat.png", f.modal.Draft().Image.Name)
}

func TestSubmit_FailureShowsErrorThenReturnsToEditing(t *testing.T) {
	f := newFixture(t)
	f.creator.err = errors.New("server returned status 500: Server error")
	fillValid(t, f.modal)
	before := f.modal.Draft()

	outcome, err := f.modal.Submit(context.Background())

	assert.Equal(t, Rejected, outcome)
	assert.Error(t, err)
	assert.Equal(t, Failed, f.modal.State())
	assert.Equal(t, "server returned status 500: Server error", f.modal.Error())
	assert.Zero(t, f.closed)

	f.clock.Advance(ErrorDisplay - time.Millisecond)
	assert.Equal(t, Failed, f.modal.State(), "error still showing before the window ends")

	f.clock.Advance(time.Millisecond)
	assert.Equal(t, Editing, f.modal.State())
	assert.Empty(t, f.modal.Error())
	assert.Equal(t, before, f.modal.Draft(), "draft is kept for retry")
	assert.Zero(t, f.closed)
}

func TestSubmit_RetryAfterFailure(t *testing.T) {
	f := newFixture(t)
	f.creator.err = errors.New("boom")
	fillValid(t, f.modal)

	_, _ = f.modal.Submit(context.Background())
	require.Equal(t, Failed, f.modal.State())

	// retry inside the error window cancels the pending dismiss
	f.creator.err = nil
	outcome, err := f.modal.Submit(context.Background())
	require.NoError(t, err)
	assert.Equal(t, Created, outcome)

	f.clock.Advance(ErrorDisplay)
	assert.Equal(t, Idle, f.modal.State())
	assert.Len(t, f.creator.drafts, 2)
}

func TestClose_DiscardsDraft(t *testing.T) {
	f := newFixture(t)
	fillValid(t, f.modal)

	require.NoError(t, f.modal.Close())

	assert.Equal(t, Idle, f.modal.State())
	assert.Equal(t, 1, f.closed)

	require.NoError(t, f.modal.Open())
	assert.Equal(t, model.PostDraft{}, f.modal.Draft())
}

func TestClose_WhenIdleIsNoop(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.modal.Close())
	require.Equal(t, 1, f.closed)

	require.NoError(t, f.modal.Close())
	assert.Equal(t, 1, f.closed)
	assert.Equal(t, Idle, f.modal.State())
}

func TestClose_AfterCreatedDoesNotNotifyAgain(t *testing.T) {
	f := newFixture(t)
	fillValid(t, f.modal)

	outcome, err := f.modal.Submit(context.Background())
	require.NoError(t, err)
	require.Equal(t, Created, outcome)
	require.Equal(t, 1, f.closed)

	require.NoError(t, f.modal.Close())
	assert.Equal(t, 1, f.closed)
}

func TestClose_FromFailedCancelsDismiss(t *testing.T) {
	f := newFixture(t)
	f.creator.err = errors.New("boom")
	fillValid(t, f.modal)
	_, _ = f.modal.Submit(context.Background())

	require.NoError(t, f.modal.Close())
	f.clock.Advance(ErrorDisplay)

	assert.Equal(t, Idle, f.modal.State())
}

// blockingCreator holds the request open until released.
type blockingCreator struct {
	started chan struct{}
	release chan struct{}
}

func (b *blockingCreator) CreatePost(ctx context.Context, d model.PostDraft) (model.Post, error) {
	close(b.started)
	<-b.release
	return model.Post{ID: "slow"}, nil
}

func TestClose_RefusedWhileSubmitting(t *testing.T) {
	bc := &blockingCreator{started: make(chan struct{}), release: make(chan struct{})}
	m := New(bc, nil, WithClock(&fakeClock{}))
	require.NoError(t, m.Open())
	fillValid(t, m)

	done := make(chan Outcome)
	go func() {
		outcome, _ := m.Submit(context.Background())
		done <- outcome
	}()

	<-bc.started
	assert.Equal(t, Submitting, m.State())
	assert.ErrorIs(t, m.Close(), ErrInvalidState)
	assert.ErrorIs(t, m.SetContent("changed mid-flight"), ErrInvalidState)

	close(bc.release)
	assert.Equal(t, Created, <-done)
	assert.Equal(t, Idle, m.State())
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "submitting", Submitting.String())
	assert.Equal(t, "state(9)", State(9).String())
}
