// Package postmodal drives the create-post dialog: it holds the draft, stages
// images, validates on submit and shows failures for a fixed window before
// letting the user retry with the same draft.
package postmodal

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/postdeck/postdeck-go/internal/model"
	"github.com/postdeck/postdeck-go/internal/validate"
)

// ErrorDisplay is how long a submit failure stays on screen.
const ErrorDisplay = 3 * time.Second

// State is the dialog's lifecycle state.
type State int

const (
	Idle State = iota
	Editing
	Submitting
	Succeeded
	Failed
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Editing:
		return "editing"
	case Submitting:
		return "submitting"
	case Succeeded:
		return "succeeded"
	case Failed:
		return "failed"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Outcome is how Submit ended.
type Outcome int

const (
	// Invalid means the draft failed validation and nothing was sent.
	Invalid Outcome = iota
	// Created means the server acknowledged the post; the dialog closed.
	Created
	// Rejected means the request failed; the error is showing.
	Rejected
)

var (
	// ErrNotImage is returned when a non-image file is staged.
	ErrNotImage = errors.New(validate.ImageTypeMessage)
	// ErrInvalidState is returned when an action is not allowed right now.
	ErrInvalidState = errors.New("action not allowed in current state")
)

// Creator sends a validated draft to the backend.
type Creator interface {
	CreatePost(ctx context.Context, draft model.PostDraft) (model.Post, error)
}

// Timer is a pending callback.
type Timer interface {
	Stop() bool
}

// Clock schedules callbacks.
type Clock interface {
	AfterFunc(d time.Duration, f func()) Timer
}

type realClock struct{}

func (realClock) AfterFunc(d time.Duration, f func()) Timer { return time.AfterFunc(d, f) }

// Option configures a Modal.
type Option func(*Modal)

// WithClock replaces the wall clock used for the error window.
func WithClock(c Clock) Option {
	return func(m *Modal) { m.clock = c }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(m *Modal) { m.log = l }
}

// Modal is the create-post dialog. It is safe for concurrent use; the error
// window fires on a timer goroutine.
type Modal struct {
	creator Creator
	onClose func()
	clock   Clock
	log     *slog.Logger

	mu          sync.Mutex
	state       State
	draft       model.PostDraft
	fieldErrors validate.FieldErrors
	errMsg      string
	dismiss     Timer
	// gen invalidates dismiss callbacks that lost a race with Stop.
	gen  uint64
	last *model.Post
}

// New creates a closed dialog. onClose runs whenever an open dialog closes,
// either after a successful submit or an explicit Close.
func New(creator Creator, onClose func(), opts ...Option) *Modal {
	m := &Modal{
		creator: creator,
		onClose: onClose,
		clock:   realClock{},
		log:     slog.Default(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Open shows the dialog with an empty draft.
func (m *Modal) Open() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state != Idle {
		return fmt.Errorf("open: %w (%s)", ErrInvalidState, m.state)
	}
	m.resetLocked()
	m.state = Editing
	return nil
}

// SetContent replaces the post text.
func (m *Modal) SetContent(content string) error {
	return m.edit(func(d *model.PostDraft) { d.Content = content })
}

// SetApprove sets the approval checkbox.
func (m *Modal) SetApprove(approve bool) error {
	return m.edit(func(d *model.PostDraft) { d.Approve = approve })
}

// SetImage stages img. A non-image media type leaves the draft unchanged,
// shows the type error and returns ErrNotImage.
func (m *Modal) SetImage(img model.Image) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.editableLocked() {
		return fmt.Errorf("set image: %w (%s)", ErrInvalidState, m.state)
	}
	if !validate.IsImageType(img.MediaType) {
		m.errMsg = validate.ImageTypeMessage
		return ErrNotImage
	}

	staged := img
	staged.Data = append([]byte(nil), img.Data...)
	m.draft.Image = &staged
	delete(m.fieldErrors, "image")
	if m.errMsg == validate.ImageTypeMessage {
		m.errMsg = ""
	}
	return nil
}

// Drop stages the first of the dropped files. Dropping nothing is a no-op.
func (m *Modal) Drop(files []model.Image) error {
	if len(files) == 0 {
		return nil
	}
	return m.SetImage(files[0])
}

// Submit validates the draft and, if it passes, sends it. It blocks for the
// duration of the request.
func (m *Modal) Submit(ctx context.Context) (Outcome, error) {
	m.mu.Lock()
	if !m.editableLocked() {
		state := m.state
		m.mu.Unlock()
		return Invalid, fmt.Errorf("submit: %w (%s)", ErrInvalidState, state)
	}

	m.cancelDismissLocked()
	m.errMsg = ""
	m.state = Editing

	res := validate.Post(m.draft)
	if !res.OK() {
		m.fieldErrors = res.Errors
		m.mu.Unlock()
		return Invalid, res.Errors
	}

	m.fieldErrors = nil
	m.state = Submitting
	draft := res.Value
	m.mu.Unlock()

	post, err := m.creator.CreatePost(ctx, draft)

	m.mu.Lock()
	if err != nil {
		m.state = Failed
		m.errMsg = err.Error()
		m.gen++
		gen := m.gen
		m.dismiss = m.clock.AfterFunc(ErrorDisplay, func() { m.expire(gen) })
		m.mu.Unlock()

		m.log.Warn("create post failed", "error", err)
		return Rejected, err
	}

	m.state = Succeeded
	m.last = &post
	m.closeLocked()
	m.mu.Unlock()

	m.log.Info("post created", "id", post.ID)
	m.notifyClosed()
	return Created, nil
}

// Close dismisses the dialog and discards the draft. It is refused while a
// submit is in flight.
func (m *Modal) Close() error {
	m.mu.Lock()
	switch m.state {
	case Idle:
		m.mu.Unlock()
		return nil
	case Submitting:
		m.mu.Unlock()
		return fmt.Errorf("close: %w (%s)", ErrInvalidState, m.state)
	}
	m.closeLocked()
	m.mu.Unlock()

	m.notifyClosed()
	return nil
}

// State returns the current state.
func (m *Modal) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Draft returns a copy of the draft.
func (m *Modal) Draft() model.PostDraft {
	m.mu.Lock()
	defer m.mu.Unlock()

	d := m.draft
	if d.Image != nil {
		img := *d.Image
		d.Image = &img
	}
	return d
}

// Error returns the message currently shown, or "".
func (m *Modal) Error() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.errMsg
}

// FieldErrors returns the per-field errors from the last submit.
func (m *Modal) FieldErrors() validate.FieldErrors {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make(validate.FieldErrors, len(m.fieldErrors))
	for k, v := range m.fieldErrors {
		out[k] = v
	}
	return out
}

// LastPost returns the most recently created post, if any.
func (m *Modal) LastPost() (model.Post, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.last == nil {
		return model.Post{}, false
	}
	return *m.last, true
}

func (m *Modal) edit(fn func(*model.PostDraft)) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.editableLocked() {
		return fmt.Errorf("edit: %w (%s)", ErrInvalidState, m.state)
	}
	fn(&m.draft)
	return nil
}

func (m *Modal) editableLocked() bool {
	return m.state == Editing || m.state == Failed
}

func (m *Modal) expire(gen uint64) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if gen != m.gen || m.state != Failed {
		return
	}
	m.errMsg = ""
	m.dismiss = nil
	m.state = Editing
}

func (m *Modal) cancelDismissLocked() {
	if m.dismiss != nil {
		m.dismiss.Stop()
		m.dismiss = nil
	}
	m.gen++
}

func (m *Modal) resetLocked() {
	m.cancelDismissLocked()
	m.draft = model.PostDraft{}
	m.fieldErrors = nil
	m.errMsg = ""
}

func (m *Modal) closeLocked() {
	m.resetLocked()
	m.state = Idle
}

func (m *Modal) notifyClosed() {
	if m.onClose != nil {
		m.onClose()
	}
}
