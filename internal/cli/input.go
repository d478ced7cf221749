package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// readPassword is swapped out in tests.
var readPassword = term.ReadPassword

// prompter reads answers from a single buffered reader so consecutive
// prompts do not lose input.
type prompter struct {
	in  *bufio.Reader
	fd  int
	tty bool
	out io.Writer
}

func newPrompter(in io.Reader, out io.Writer) *prompter {
	p := &prompter{in: bufio.NewReader(in), fd: -1, out: out}
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		p.fd = int(f.Fd())
		p.tty = true
	}
	return p
}

// line prints label and returns the trimmed answer. EOF after partial
// input returns what was read.
func (p *prompter) line(label string) (string, error) {
	if _, err := fmt.Fprint(p.out, label+": "); err != nil {
		return "", err
	}
	s, err := p.in.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && len(s) > 0 {
			return strings.TrimSpace(s), nil
		}
		return "", err
	}
	return strings.TrimSpace(s), nil
}

// secret reads without echo on a terminal and falls back to a plain line
// otherwise.
func (p *prompter) secret(label string) (string, error) {
	if !p.tty {
		return p.line(label)
	}
	if _, err := fmt.Fprint(p.out, label+": "); err != nil {
		return "", err
	}
	pw, err := readPassword(p.fd)
	fmt.Fprintln(p.out)
	if err != nil {
		return "", err
	}
	return string(pw), nil
}

// confirm asks a yes/no question. Anything but y or yes is no.
func (p *prompter) confirm(label string) (bool, error) {
	ans, err := p.line(label + " [y/N]")
	if err != nil {
		return false, err
	}
	switch strings.ToLower(ans) {
	case "y", "yes":
		return true, nil
	}
	return false, nil
}

// fill prompts for *dst when it is empty.
func (p *prompter) fill(dst *string, label string, secret bool) error {
	if *dst != "" {
		return nil
	}
	var (
		v   string
		err error
	)
	if secret {
		v, err = p.secret(label)
	} else {
		v, err = p.line(label)
	}
	if err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	*dst = v
	return nil
}
