package driver

import (
	"fmt"
	"os"

	"golang.org/x/term"

	"github.com/corestream/termui/internal/tui/ansi"
)

// RawMode holds the terminal state golang.org/x/term.Restore needs to put
// stdin back the way it was found.
type RawMode struct {
	fd    int
	state *term.State
}

// EnableRawMode puts stdin into raw mode and enables bracketed paste on
// stdout, returning a handle whose Restore undoes both. Callers defer
// Restore immediately after a successful Enable so a panic mid-session
// still leaves the user's shell usable.
func EnableRawMode(in, out *os.File) (*RawMode, error) {
	fd := int(in.Fd())
	state, err := term.MakeRaw(fd)
	if err != nil {
		return nil, fmt.Errorf("driver: enable raw mode: %w", err)
	}
	if err := ansi.EnableBracketedPaste(out); err != nil {
		_ = term.Restore(fd, state)
		return nil, fmt.Errorf("driver: enable bracketed paste: %w", err)
	}
	return &RawMode{fd: fd, state: state}, nil
}

// Restore disables bracketed paste and restores the terminal's prior mode.
// Safe to call once; the caller is responsible for parking the cursor
// below the viewport before exiting.
func (r *RawMode) Restore(out *os.File) error {
	if r == nil {
		return nil
	}
	_ = ansi.DisableBracketedPaste(out)
	return term.Restore(r.fd, r.state)
}
