// Package driver implements the terminal core: a stateful double buffer
// holder on top of cellbuf's diff engine, pending-history insertion,
// raw-stdin input decoding, and the single-threaded cooperative event
// loop that ties the renderer to a real terminal.
package driver

import (
	"fmt"
	"io"
	"os"

	"golang.org/x/term"

	"github.com/corestream/termui/internal/tui/ansi"
	"github.com/corestream/termui/internal/tui/cellbuf"
)

// Size is a terminal's column/row extent.
type Size struct {
	Width, Height int
}

// Position is a zero-based cursor cell position.
type Position struct {
	X, Y int
}

// Terminal owns the double cell buffer and the viewport/screen/cursor
// bookkeeping needed to emit minimal diffs and detect resizes. It does not
// itself read input; callers supply screen size and cursor-position
// queries through the hooks below so the same type works against a real
// tty or a fake one in tests.
type Terminal struct {
	out io.Writer

	buffers [2]*cellbuf.Buffer
	current int

	hiddenCursor bool

	viewportArea        cellbuf.Rect
	lastKnownScreenSize Size
	lastKnownCursorPos  Position

	// sizeFunc / cursorPosFunc are overridable for tests; default to real
	// tty queries against fd.
	sizeFunc      func() (Size, error)
	cursorPosFunc func() (Position, error)
}

// NewTerminal returns a Terminal writing diffs to out, sized via fd (the
// raw terminal file descriptor used for ioctl-based size queries) with an
// initial viewport of zero height at the current cursor row.
func NewTerminal(out io.Writer, fd int) (*Terminal, error) {
	t := &Terminal{out: out}
	t.sizeFunc = func() (Size, error) { return queryWinsize(fd) }
	t.cursorPosFunc = func() (Position, error) { return queryCursorPosition(out, os.Stdin) }

	size, err := t.sizeFunc()
	if err != nil {
		return nil, fmt.Errorf("driver: query initial terminal size: %w", err)
	}
	pos, err := t.cursorPosFunc()
	if err != nil {
		// A terminal that can't answer DSR still has a usable size; start
		// the viewport at the top rather than failing startup.
		pos = Position{}
	}

	t.lastKnownScreenSize = size
	t.lastKnownCursorPos = pos
	t.viewportArea = cellbuf.Rect{X: 0, Y: pos.Y, Width: 0, Height: 0}
	t.buffers[0] = cellbuf.NewBuffer(t.viewportArea)
	t.buffers[1] = cellbuf.NewBuffer(t.viewportArea)
	return t, nil
}

func queryWinsize(fd int) (Size, error) {
	w, h, err := term.GetSize(fd)
	if err != nil {
		return Size{}, err
	}
	return Size{Width: w, Height: h}, nil
}

// CurrentBuffer returns the buffer the next paint should draw into.
func (t *Terminal) CurrentBuffer() *cellbuf.Buffer { return t.buffers[t.current] }

func (t *Terminal) previousBuffer() *cellbuf.Buffer { return t.buffers[1-t.current] }

// ViewportArea is the terminal's currently active inline viewport.
func (t *Terminal) ViewportArea() cellbuf.Rect { return t.viewportArea }

// LastKnownScreenSize is the screen size as of the last resize/flush.
func (t *Terminal) LastKnownScreenSize() Size { return t.lastKnownScreenSize }

// Size re-queries the real terminal size, updating LastKnownScreenSize.
func (t *Terminal) Size() (Size, error) {
	size, err := t.sizeFunc()
	if err != nil {
		return Size{}, err
	}
	t.lastKnownScreenSize = size
	return size, nil
}

// GetCursorPosition issues a DSR query and returns the reply.
func (t *Terminal) GetCursorPosition() (Position, error) {
	return t.cursorPosFunc()
}

// SetViewportArea resizes both buffers to area and adopts it as the
// current viewport, without touching the screen.
func (t *Terminal) SetViewportArea(area cellbuf.Rect) {
	t.buffers[0].Resize(area)
	t.buffers[1].Resize(area)
	t.viewportArea = area
}

// Clear moves the cursor to the viewport's top-left, erases from there to
// the end of the screen, and resets the previous buffer so the next flush
// redraws every cell unconditionally.
func (t *Terminal) Clear() error {
	if err := ansi.MoveTo(t.out, t.viewportArea.X, t.viewportArea.Y); err != nil {
		return err
	}
	if _, err := io.WriteString(t.out, "\x1b[0J"); err != nil {
		return err
	}
	t.previousBuffer().Reset()
	return nil
}

// Flush diffs the current buffer against the previous one, writes the
// minimal ANSI update, tracks the last cell written for cursor-adjacency
// on the next flush, and swaps buffers.
func (t *Terminal) Flush() error {
	commands := cellbuf.Diff(t.previousBuffer(), t.CurrentBuffer())
	lastX, lastY, hadPut, err := cellbuf.Emit(t.out, commands)
	if err != nil {
		return err
	}
	if hadPut {
		t.lastKnownCursorPos = Position{X: lastX + t.viewportArea.X, Y: lastY + t.viewportArea.Y}
	}
	t.swapBuffers()
	return nil
}

func (t *Terminal) swapBuffers() {
	t.current = 1 - t.current
	t.CurrentBuffer().Reset()
}

// HideCursor / ShowCursor toggle and track cursor visibility so Draw can
// restore it appropriately at the end of a paint cycle.
func (t *Terminal) HideCursor() error {
	if err := ansi.HideCursor(t.out); err != nil {
		return err
	}
	t.hiddenCursor = true
	return nil
}

func (t *Terminal) ShowCursor() error {
	if err := ansi.ShowCursor(t.out); err != nil {
		return err
	}
	t.hiddenCursor = false
	return nil
}

// SetCursorPosition moves the cursor to a viewport-relative cell.
func (t *Terminal) SetCursorPosition(pos Position) error {
	return ansi.MoveTo(t.out, t.viewportArea.X+pos.X, t.viewportArea.Y+pos.Y)
}

// Draw invokes paint against the current buffer, flushes the diff, and
// shows or hides the cursor according to cursorPos (nil hides it).
func (t *Terminal) Draw(cursorPos *Position, paint func(buf *cellbuf.Buffer, area cellbuf.Rect)) error {
	paint(t.CurrentBuffer(), t.viewportArea)
	if err := t.Flush(); err != nil {
		return err
	}
	if cursorPos != nil {
		if err := t.SetCursorPosition(*cursorPos); err != nil {
			return err
		}
		return t.ShowCursor()
	}
	return t.HideCursor()
}

// ScrollRegionUp scrolls the 1-based inclusive row range [top, bottom] up
// by n rows using DECSTBM plus forward line feeds at the bottom margin:
// the mirror image of history.Inserter's reverse-index trick, used when
// the viewport would otherwise overflow the bottom of the screen.
func (t *Terminal) ScrollRegionUp(top, bottom, n int) error {
	if n <= 0 || bottom < top {
		return nil
	}
	if err := ansi.SetScrollRegion(t.out, top, bottom); err != nil {
		return err
	}
	if err := ansi.MoveTo(t.out, 0, bottom-1); err != nil {
		return err
	}
	for i := 0; i < n; i++ {
		if _, err := io.WriteString(t.out, "\n"); err != nil {
			return err
		}
	}
	return ansi.ResetScrollRegion(t.out)
}
