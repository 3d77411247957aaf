// Package ansi provides the small set of raw escape-sequence writers the
// terminal core needs: cursor movement, SGR attribute diffing, and the
// DECSTBM scroll-region + reverse-index trick used to push lines into
// native scrollback. It wraps github.com/charmbracelet/x/ansi's sequence
// constants rather than hand-formatting every escape from scratch.
package ansi

import (
	"fmt"
	"io"

	xansi "github.com/charmbracelet/x/ansi"
)

// MoveTo positions the cursor at the given zero-based column/row.
func MoveTo(w io.Writer, x, y int) error {
	_, err := io.WriteString(w, xansi.CursorPosition(x+1, y+1))
	return err
}

// ReverseIndex emits ESC M: move up one line, scrolling within the current
// scroll region if already at its top.
func ReverseIndex(w io.Writer) error {
	_, err := io.WriteString(w, "\x1bM")
	return err
}

// SetScrollRegion limits scrolling to 1-based rows [top, bottom] (bottom
// exclusive per spec convention: callers pass bottom already adjusted).
func SetScrollRegion(w io.Writer, top, bottom int) error {
	_, err := fmt.Fprintf(w, "\x1b[%d;%dr", top, bottom)
	return err
}

// ResetScrollRegion restores the full-screen scroll region.
func ResetScrollRegion(w io.Writer) error {
	_, err := io.WriteString(w, "\x1b[r")
	return err
}

// ClearToEndOfLine clears from the cursor to the end of the current line.
func ClearToEndOfLine(w io.Writer) error {
	_, err := io.WriteString(w, xansi.EraseLineRight)
	return err
}

// CRLF emits a carriage return + line feed, used when inserting history
// lines into the scroll region.
func CRLF(w io.Writer) error {
	_, err := io.WriteString(w, "\r\n")
	return err
}

// HideCursor / ShowCursor toggle cursor visibility.
func HideCursor(w io.Writer) error {
	_, err := io.WriteString(w, xansi.HideCursor)
	return err
}

func ShowCursor(w io.Writer) error {
	_, err := io.WriteString(w, xansi.ShowCursor)
	return err
}

// BeginSyncUpdate / EndSyncUpdate bracket a synchronized-update envelope
// (DEC private mode 2026) so the terminal paints the whole frame atomically.
func BeginSyncUpdate(w io.Writer) error {
	_, err := io.WriteString(w, "\x1b[?2026h")
	return err
}

func EndSyncUpdate(w io.Writer) error {
	_, err := io.WriteString(w, "\x1b[?2026l")
	return err
}

// QueryBackgroundColor emits OSC 11 to ask the terminal for its background
// color; the reply arrives on stdin and must be read by the caller.
func QueryBackgroundColor(w io.Writer) error {
	_, err := io.WriteString(w, "\x1b]11;?\x07")
	return err
}

// EnableBracketedPaste / DisableBracketedPaste toggle DEC private mode 2004,
// the protocol that wraps pasted text in "ESC [200~"..."ESC [201~" so the
// decoder (driver.Decoder) can tell a paste apart from typed keystrokes.
func EnableBracketedPaste(w io.Writer) error {
	_, err := io.WriteString(w, "\x1b[?2004h")
	return err
}

func DisableBracketedPaste(w io.Writer) error {
	_, err := io.WriteString(w, "\x1b[?2004l")
	return err
}
