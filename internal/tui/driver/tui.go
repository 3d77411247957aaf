package driver

import (
	"github.com/corestream/termui/internal/tui/ansi"
	"github.com/corestream/termui/internal/tui/cellbuf"
	"github.com/corestream/termui/internal/tui/history"
	"github.com/corestream/termui/internal/tui/mdstream"
)

// Tui owns the terminal (Terminal above), a buffer of pending history
// lines awaiting insertion above the viewport, and the atomic draw
// sequence that ties resize detection, history insertion, and repainting
// into one synchronized-update envelope.
type Tui struct {
	terminal *Terminal
	inserter *history.Inserter

	pendingHistoryLines []mdstream.Line
}

// NewTui wraps terminal with an empty pending-history buffer.
func NewTui(terminal *Terminal, inserter *history.Inserter) *Tui {
	return &Tui{terminal: terminal, inserter: inserter}
}

// InsertHistoryLines appends lines to the pending buffer the next Draw
// call will push above the viewport.
func (t *Tui) InsertHistoryLines(lines []mdstream.Line) {
	t.pendingHistoryLines = append(t.pendingHistoryLines, lines...)
}

// Size delegates to the underlying terminal's real size query.
func (t *Tui) Size() (Size, error) { return t.terminal.Size() }

// ViewportArea reports the current inline viewport.
func (t *Tui) ViewportArea() cellbuf.Rect { return t.terminal.ViewportArea() }

// Draw runs the full atomic draw sequence:
//  1. Outside any synchronized-update envelope, compute a possible
//     viewport Y translation from a detected resize (comparing the real
//     cursor row against the last one recorded), to avoid racing the
//     input decoder's cursor-position replies from inside the envelope.
//  2. Inside a synchronized-update envelope: apply the translation (if
//     any) and clear; re-measure the real screen size; cap the viewport
//     height/width to it; if the viewport would overflow the bottom of
//     the screen, scroll the region above it up by the overflow and move
//     the viewport up by the same amount; if the viewport area changed,
//     clear and adopt the new area; flush any pending history lines above
//     the viewport; finally repaint via paintFn and emit the diff.
func (t *Tui) Draw(desiredHeight int, cursorPos *Position, paintFn func(buf *cellbuf.Buffer, area cellbuf.Rect)) error {
	translation, err := t.pendingViewportTranslation()
	if err != nil {
		return err
	}

	if err := ansi.BeginSyncUpdate(t.terminal.out); err != nil {
		return err
	}
	defer func() {
		_ = ansi.EndSyncUpdate(t.terminal.out)
	}()

	if translation != nil {
		area := t.terminal.ViewportArea()
		area.Y += *translation
		t.terminal.SetViewportArea(area)
		if err := t.terminal.Clear(); err != nil {
			return err
		}
	}

	size, err := t.terminal.Size()
	if err != nil {
		return err
	}

	area := t.terminal.ViewportArea()
	area.Width = size.Width
	height := desiredHeight
	if height > size.Height {
		height = size.Height
	}
	area.Height = height

	if area.Bottom() > size.Height {
		overflow := area.Bottom() - size.Height
		if err := t.terminal.ScrollRegionUp(1, area.Y, overflow); err != nil {
			return err
		}
		area.Y = size.Height - area.Height
	}

	if area != t.terminal.ViewportArea() {
		t.terminal.SetViewportArea(area)
		if err := t.terminal.Clear(); err != nil {
			return err
		}
	}

	if len(t.pendingHistoryLines) > 0 {
		newY, err := t.inserter.Insert(t.pendingHistoryLines, t.terminal.ViewportArea(), size.Height)
		if err != nil {
			return err
		}
		t.pendingHistoryLines = nil
		adjusted := t.terminal.ViewportArea()
		adjusted.Y = newY
		t.terminal.SetViewportArea(adjusted)
	}

	return t.terminal.Draw(cursorPos, paintFn)
}

// pendingViewportTranslation compares the terminal's real size against
// the last one recorded; if different, it queries the cursor's current
// row and, if that differs from the last recorded row, returns the Y
// delta to apply to the viewport before the next draw.
func (t *Tui) pendingViewportTranslation() (*int, error) {
	size, err := t.terminal.sizeFunc()
	if err != nil {
		return nil, err
	}
	if size == t.terminal.lastKnownScreenSize {
		return nil, nil
	}
	pos, err := t.terminal.cursorPosFunc()
	if err != nil {
		// Can't resolve the resize precisely; adopt the new size without
		// translating and let the next draw's bottom-overflow check
		// correct the viewport if needed.
		t.terminal.lastKnownScreenSize = size
		return nil, nil
	}
	t.terminal.lastKnownScreenSize = size
	if pos.Y == t.terminal.lastKnownCursorPos.Y {
		t.terminal.lastKnownCursorPos = pos
		return nil, nil
	}
	delta := pos.Y - t.terminal.lastKnownCursorPos.Y
	t.terminal.lastKnownCursorPos = pos
	return &delta, nil
}
