// Package history pushes finalized scrollback lines above a live inline
// viewport using a scroll-region (DECSTBM) + reverse-index trick, without
// disturbing the viewport's own content: pre-wrap to viewport width,
// scroll the region below the viewport down to make room, paint each line
// with its own background across the full row, then restore the scroll
// region and cursor.
package history

import (
	"io"

	"github.com/mattn/go-runewidth"

	"github.com/corestream/termui/internal/tui/ansi"
	"github.com/corestream/termui/internal/tui/cellbuf"
	"github.com/corestream/termui/internal/tui/mdstream"
)

// Inserter pushes styled lines into the terminal's native scrollback.
// Stateless beyond the writer; callers supply viewport geometry per call.
type Inserter struct {
	w io.Writer
}

// New returns an inserter writing ANSI to w.
func New(w io.Writer) *Inserter {
	return &Inserter{w: w}
}

// Insert pushes lines above viewport (a cellbuf.Rect in 0-based terminal
// coordinates) on a terminal of the given screenRows, returning the
// viewport's possibly-updated Y (shifted up if scrolling made room for
// itself by pushing the viewport's bottom toward the top of screen).
//
// Caller guarantees no concurrent writes to stdout and brackets this call
// in its own synchronized-update envelope; Insert does not flush.
func (ins *Inserter) Insert(lines []mdstream.Line, viewport cellbuf.Rect, screenRows int) (newViewportY int, err error) {
	wrapped := wrapForWidth(lines, viewport.Width)
	newViewportY = viewport.Y

	free := screenRows - viewport.Bottom()
	if free < 0 {
		free = 0
	}
	scrollBy := len(wrapped)
	if scrollBy > free {
		scrollBy = free
	}
	if viewport.Bottom() < screenRows && scrollBy > 0 {
		if err = ins.scrollDown(scrollBy, viewport.Y); err != nil {
			return
		}
	}

	// 1-based scroll region [1, viewport.top] (upper-exclusive per spec,
	// i.e. rows above the viewport).
	top := 1
	bottom := viewport.Y // viewport.Y is 0-based; as a 1-based exclusive
	// bound this is exactly the row count above the viewport.
	if bottom < top {
		bottom = top
	}
	if err = ansi.SetScrollRegion(ins.w, top, bottom); err != nil {
		return
	}
	defer func() {
		if resetErr := ansi.ResetScrollRegion(ins.w); resetErr != nil && err == nil {
			err = resetErr
		}
	}()

	if err = ansi.MoveTo(ins.w, 0, viewport.Y-1); err != nil {
		return
	}

	for _, line := range wrapped {
		if err = ansi.CRLF(ins.w); err != nil {
			return
		}
		if err = ins.writeLine(line); err != nil {
			return
		}
	}

	return newViewportY, nil
}

// scrollDown moves the region below the viewport's current top down by n
// lines using DECSTBM-limited reverse index, making room for n new history
// rows without disturbing the viewport's own content.
func (ins *Inserter) scrollDown(n int, viewportTop int) error {
	top := 1
	// Scroll region covers everything from the screen top through the
	// viewport's current top row (1-based), matching the region used for
	// insertion itself.
	bottom := viewportTop
	if bottom < top {
		bottom = top
	}
	if err := ansi.SetScrollRegion(ins.w, top, bottom); err != nil {
		return err
	}
	if err := ansi.MoveTo(ins.w, 0, bottom-1); err != nil {
		return err
	}
	for i := 0; i < n; i++ {
		if err := ansi.ReverseIndex(ins.w); err != nil {
			return err
		}
	}
	return ansi.ResetScrollRegion(ins.w)
}

func (ins *Inserter) writeLine(line mdstream.Line) error {
	if err := ansi.WriteSGRColors(ins.w, ansi.Reset, lineBackground(line)); err != nil {
		return err
	}
	if err := ansi.ClearToEndOfLine(ins.w); err != nil {
		return err
	}
	fg, bg := ansi.Reset, ansi.Reset
	var mod ansi.Modifier
	for _, span := range line.Spans {
		if span.Fg != fg || span.Bg != bg {
			if err := ansi.WriteSGRColors(ins.w, span.Fg, span.Bg); err != nil {
				return err
			}
			fg, bg = span.Fg, span.Bg
		}
		if span.Mod != mod {
			if err := ansi.WriteModifierDiff(ins.w, mod, span.Mod); err != nil {
				return err
			}
			mod = span.Mod
		}
		if _, err := io.WriteString(ins.w, span.Content); err != nil {
			return err
		}
	}
	if mod != 0 {
		if err := ansi.WriteModifierDiff(ins.w, mod, 0); err != nil {
			return err
		}
	}
	return nil
}

// lineBackground is the row's dominant background: the last span's bg, or
// reset for an empty line.
func lineBackground(line mdstream.Line) ansi.Color {
	if len(line.Spans) == 0 {
		return ansi.Reset
	}
	return line.Spans[len(line.Spans)-1].Bg
}

// wrapForWidth pre-wraps lines to width display columns, preserving
// trailing blank lines and per-span styles. width <= 0 disables wrapping.
func wrapForWidth(lines []mdstream.Line, width int) []mdstream.Line {
	if width <= 0 {
		return lines
	}
	var out []mdstream.Line
	for _, l := range lines {
		out = append(out, wrapOneLine(l, width)...)
	}
	return out
}

func wrapOneLine(line mdstream.Line, width int) []mdstream.Line {
	totalWidth := 0
	for _, sp := range line.Spans {
		totalWidth += runewidth.StringWidth(sp.Content)
	}
	if totalWidth <= width {
		return []mdstream.Line{line}
	}

	var out []mdstream.Line
	var cur []mdstream.Span
	curWidth := 0
	for _, sp := range line.Spans {
		runes := []rune(sp.Content)
		start := 0
		for start < len(runes) {
			take, w := 0, 0
			for start+take < len(runes) {
				rw := runewidth.RuneWidth(runes[start+take])
				if curWidth+w+rw > width {
					break
				}
				w += rw
				take++
			}
			if take == 0 {
				// Single glyph wider than remaining space: flush and retry
				// on a fresh row.
				if curWidth > 0 {
					out = append(out, mdstream.Line{Spans: cur})
					cur = nil
					curWidth = 0
					continue
				}
				take = 1
				w = runewidth.RuneWidth(runes[start])
			}
			cur = append(cur, mdstream.Span{Content: string(runes[start : start+take]), Fg: sp.Fg, Bg: sp.Bg, Mod: sp.Mod})
			curWidth += w
			start += take
			if curWidth >= width && start < len(runes) {
				out = append(out, mdstream.Line{Spans: cur})
				cur = nil
				curWidth = 0
			}
		}
	}
	out = append(out, mdstream.Line{Spans: cur})
	return out
}
