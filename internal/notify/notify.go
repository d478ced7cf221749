// Package notify shows transient success and error messages, the terminal
// counterpart of toast notifications.
package notify

import (
	"io"
	"os"
	"sync"

	"github.com/fatih/color"
)

// Terminal prints notifications to a writer, colored when it is a terminal.
type Terminal struct {
	mu      sync.Mutex
	out     io.Writer
	success *color.Color
	failure *color.Color
}

// NewTerminal returns a Terminal writing to out, or stderr when out is nil.
func NewTerminal(out io.Writer) *Terminal {
	if out == nil {
		out = os.Stderr
	}
	return &Terminal{
		out:     out,
		success: color.New(color.FgGreen, color.Bold),
		failure: color.New(color.FgHiRed, color.Bold),
	}
}

// Success shows a success message.
func (t *Terminal) Success(msg string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.success.Fprintln(t.out, "✔ "+msg)
}

// Error shows a failure message.
func (t *Terminal) Error(msg string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.failure.Fprintln(t.out, "✘ "+msg)
}
