// Package textarea implements the composer's editable multi-line buffer:
// grapheme-aware cursor motion, sticky-column line navigation over a
// width-keyed soft-wrap cache, a one-slot kill ring, and atomic inline
// elements (paste/image placeholders that move and delete as a unit). The
// buffer is a UTF-8 string addressed by a byte-offset cursor, with Emacs/
// readline-style bindings; cursor motion steps over element ranges in the
// direction of travel, and insertion snaps to the nearer boundary.
package textarea

import (
	"strings"
	"unicode/utf8"

	"github.com/mattn/go-runewidth"
	"github.com/rivo/uniseg"
)

// wordSeparators is the punctuation class used for word-motion boundaries,
// in addition to whitespace.
const wordSeparators = "`~!@#$%^&*()-=+[{]}\\|;:'\",.<>/?"

// Element is an atomic inline element: a byte range in the buffer that
// moves and deletes as a single unit (e.g. "[Pasted 120 lines]").
type Element struct {
	Start, End int // byte offsets, End exclusive
	Label      string
}

const maxHeight = 20

// TextArea is the editable composer buffer.
type TextArea struct {
	text     string
	cursor   int // byte offset
	elements []Element

	preferredCol    int
	hasPreferredCol bool

	killRing string

	wrapWidth int
	wrapCache []wrappedLine
	wrapValid bool
}

type wrappedLine struct {
	start, end int // byte offsets into text, end exclusive of trailing newline
}

// New returns an empty text area.
func New() *TextArea {
	return &TextArea{}
}

// Text returns the current buffer contents.
func (t *TextArea) Text() string { return t.text }

// Cursor returns the current byte cursor offset.
func (t *TextArea) Cursor() int { return t.cursor }

// SetText replaces the buffer and moves the cursor to the end, clearing
// all inline elements.
func (t *TextArea) SetText(s string) {
	t.text = s
	t.cursor = len(s)
	t.elements = nil
	t.invalidate()
}

func (t *TextArea) invalidate() {
	t.wrapValid = false
	t.hasPreferredCol = false
}

// IsEmpty reports whether the buffer has no content.
func (t *TextArea) IsEmpty() bool { return t.text == "" }

// ---------------------------------------------------------------------------
// Grapheme-aware motion
// ---------------------------------------------------------------------------

// MoveLeft moves the cursor back one grapheme cluster, snapping to the
// start of any element the cursor lands inside.
func (t *TextArea) MoveLeft() {
	if t.cursor == 0 {
		return
	}
	t.cursor = prevGraphemeBoundary(t.text, t.cursor)
	t.snapOutOfElement(-1)
	t.hasPreferredCol = false
}

// MoveRight moves the cursor forward one grapheme cluster.
func (t *TextArea) MoveRight() {
	if t.cursor >= len(t.text) {
		return
	}
	t.cursor = nextGraphemeBoundary(t.text, t.cursor)
	t.snapOutOfElement(1)
	t.hasPreferredCol = false
}

func prevGraphemeBoundary(s string, pos int) int {
	gr := uniseg.NewGraphemes(s[:pos])
	last := 0
	for gr.Next() {
		start, _ := gr.Positions()
		last = start
	}
	return last
}

func nextGraphemeBoundary(s string, pos int) int {
	gr := uniseg.NewGraphemes(s[pos:])
	if gr.Next() {
		_, end := gr.Positions()
		return pos + end
	}
	return len(s)
}

// elementAt returns the element containing byte offset pos strictly inside
// it (pos satisfies start < pos < end), if any.
func (t *TextArea) elementAt(pos int) (Element, bool) {
	for _, e := range t.elements {
		if pos > e.Start && pos < e.End {
			return e, true
		}
	}
	return Element{}, false
}

// snapOutOfElement moves t.cursor out of any element it currently lands
// inside, in the direction of the motion that produced the position: to the
// element's Start for dir < 0, to its End otherwise, so motion crosses an
// element as one unit.
func (t *TextArea) snapOutOfElement(dir int) {
	e, ok := t.elementAt(t.cursor)
	if !ok {
		return
	}
	if dir < 0 {
		t.cursor = e.Start
	} else {
		t.cursor = e.End
	}
}

// ---------------------------------------------------------------------------
// Word motion
// ---------------------------------------------------------------------------

func isSeparator(r rune) bool {
	if r == ' ' || r == '\t' || r == '\n' {
		return true
	}
	return strings.ContainsRune(wordSeparators, r)
}

func runeClass(r rune) int {
	switch {
	case r == ' ' || r == '\t' || r == '\n':
		return 0
	case strings.ContainsRune(wordSeparators, r):
		return 1
	default:
		return 2
	}
}

// WordLeft moves the cursor to the start of the previous word, skipping
// trailing separators first (same-class run semantics).
func (t *TextArea) WordLeft() {
	t.cursor = t.wordLeftPos()
	t.hasPreferredCol = false
}

func (t *TextArea) wordLeftPos() int {
	runes := []rune(t.text[:t.cursor])
	i := len(runes)
	for i > 0 && isSeparator(runes[i-1]) {
		i--
	}
	if i > 0 {
		class := runeClass(runes[i-1])
		for i > 0 && runeClass(runes[i-1]) == class {
			i--
		}
	}
	return len(string(runes[:i]))
}

// WordRight moves the cursor to the end of the next word.
func (t *TextArea) WordRight() {
	t.cursor = t.wordRightPos()
	t.hasPreferredCol = false
}

func (t *TextArea) wordRightPos() int {
	runes := []rune(t.text)
	prefixLen := len([]rune(t.text[:t.cursor]))
	i := prefixLen
	for i < len(runes) && isSeparator(runes[i]) {
		i++
	}
	if i < len(runes) {
		class := runeClass(runes[i])
		for i < len(runes) && runeClass(runes[i]) == class {
			i++
		}
	}
	return len(string(runes[:i]))
}

// ---------------------------------------------------------------------------
// Line motion (BOL/EOL)
// ---------------------------------------------------------------------------

// LineStart returns the byte offset of the start of the current logical
// line (the line containing the cursor, delimited by '\n').
func (t *TextArea) LineStart() int {
	if idx := strings.LastIndexByte(t.text[:t.cursor], '\n'); idx >= 0 {
		return idx + 1
	}
	return 0
}

// LineEnd returns the byte offset of the end of the current logical line.
func (t *TextArea) LineEnd() int {
	if idx := strings.IndexByte(t.text[t.cursor:], '\n'); idx >= 0 {
		return t.cursor + idx
	}
	return len(t.text)
}

// MoveToLineStart moves the cursor to the start of the current line.
func (t *TextArea) MoveToLineStart() {
	t.cursor = t.LineStart()
	t.hasPreferredCol = false
}

// MoveToLineEnd moves the cursor to the end of the current line.
func (t *TextArea) MoveToLineEnd() {
	t.cursor = t.LineEnd()
	t.hasPreferredCol = false
}

// ---------------------------------------------------------------------------
// Vertical motion with sticky preferred column
// ---------------------------------------------------------------------------

// MoveUp moves the cursor up one wrapped display row, honoring a sticky
// preferred column measured in display width.
func (t *TextArea) MoveUp(width int) {
	t.moveVertical(width, -1)
}

// MoveDown moves the cursor down one wrapped display row.
func (t *TextArea) MoveDown(width int) {
	t.moveVertical(width, 1)
}

func (t *TextArea) moveVertical(width int, dir int) {
	t.ensureWrapCache(width)
	lines := t.wrapCache
	if len(lines) == 0 {
		return
	}
	curRow := t.rowForCursor(lines)
	col := t.displayCol(lines[curRow])
	if t.hasPreferredCol {
		col = t.preferredCol
	}

	targetRow := curRow + dir
	if targetRow < 0 || targetRow >= len(lines) {
		return
	}
	t.cursor = byteOffsetAtCol(t.text, lines[targetRow], col)
	t.preferredCol = col
	t.hasPreferredCol = true
}

func (t *TextArea) rowForCursor(lines []wrappedLine) int {
	for i, l := range lines {
		if t.cursor >= l.start && t.cursor <= l.end {
			return i
		}
	}
	return len(lines) - 1
}

func (t *TextArea) displayCol(line wrappedLine) int {
	return runewidth.StringWidth(t.text[line.start:t.cursor])
}

func byteOffsetAtCol(text string, line wrappedLine, col int) int {
	width := 0
	i := line.start
	for i < line.end {
		r, size := utf8.DecodeRuneInString(text[i:line.end])
		rw := runewidth.RuneWidth(r)
		if width+rw > col {
			return i
		}
		width += rw
		i += size
	}
	return line.end
}

// ---------------------------------------------------------------------------
// Soft wrap cache
// ---------------------------------------------------------------------------

func (t *TextArea) ensureWrapCache(width int) {
	if t.wrapValid && t.wrapWidth == width {
		return
	}
	t.wrapCache = computeWrap(t.text, width)
	t.wrapWidth = width
	t.wrapValid = true
}

// WrappedLineCount returns the number of display rows the buffer occupies
// at the given width.
func (t *TextArea) WrappedLineCount(width int) int {
	t.ensureWrapCache(width)
	if len(t.wrapCache) == 0 {
		return 1
	}
	return len(t.wrapCache)
}

// VisualLines returns the buffer's wrapped display rows at the given
// width, one string per row, from the same cache vertical motion uses.
func (t *TextArea) VisualLines(width int) []string {
	t.ensureWrapCache(width)
	out := make([]string, len(t.wrapCache))
	for i, l := range t.wrapCache {
		out[i] = t.text[l.start:l.end]
	}
	return out
}

// CursorRowCol returns the cursor's wrapped row and display column at the
// given width.
func (t *TextArea) CursorRowCol(width int) (row, col int) {
	t.ensureWrapCache(width)
	if len(t.wrapCache) == 0 {
		return 0, 0
	}
	r := t.rowForCursor(t.wrapCache)
	return r, t.displayCol(t.wrapCache[r])
}

// DesiredHeight returns the wrapped line count clamped to a maximum.
func (t *TextArea) DesiredHeight(width int) int {
	h := t.WrappedLineCount(width)
	if h > maxHeight {
		return maxHeight
	}
	if h < 1 {
		return 1
	}
	return h
}

func computeWrap(text string, width int) []wrappedLine {
	if width <= 0 {
		width = 1
	}
	var out []wrappedLine
	lineStart := 0
	for lineStart <= len(text) {
		nlIdx := strings.IndexByte(text[lineStart:], '\n')
		var logicalEnd int
		if nlIdx < 0 {
			logicalEnd = len(text)
		} else {
			logicalEnd = lineStart + nlIdx
		}
		out = append(out, firstFitWrap(text, lineStart, logicalEnd, width)...)
		if nlIdx < 0 {
			break
		}
		lineStart = logicalEnd + 1
	}
	if len(out) == 0 {
		out = []wrappedLine{{0, 0}}
	}
	return out
}

// firstFitWrap splits [start, end) into rows no wider than width display
// columns, breaking at the last space that fits, first-fit.
func firstFitWrap(text string, start, end int, width int) []wrappedLine {
	if start == end {
		return []wrappedLine{{start, end}}
	}
	var rows []wrappedLine
	rowStart := start
	rowWidth := 0
	lastSpace := -1
	i := start
	for i < end {
		r, n := utf8.DecodeRuneInString(text[i:end])
		rw := runewidth.RuneWidth(r)
		if r == ' ' {
			lastSpace = i
		}
		if rowWidth+rw > width && rowWidth > 0 {
			breakAt := i
			if lastSpace > rowStart {
				breakAt = lastSpace
			}
			rows = append(rows, wrappedLine{rowStart, breakAt})
			rowStart = breakAt
			for rowStart < end && text[rowStart] == ' ' {
				rowStart++
			}
			i = rowStart
			rowWidth = 0
			lastSpace = -1
			continue
		}
		rowWidth += rw
		i += n
	}
	rows = append(rows, wrappedLine{rowStart, end})
	return rows
}

// ---------------------------------------------------------------------------
// Insertion and deletion
// ---------------------------------------------------------------------------

// InsertText inserts s at the cursor, snapping insertion point to the
// nearer boundary of any element it would otherwise land inside, and shifts
// element ranges after the insertion point.
func (t *TextArea) InsertText(s string) {
	if e, ok := t.elementAt(t.cursor); ok {
		if t.cursor-e.Start <= e.End-t.cursor {
			t.cursor = e.Start
		} else {
			t.cursor = e.End
		}
	}
	t.text = t.text[:t.cursor] + s + t.text[t.cursor:]
	t.shiftElements(t.cursor, len(s))
	t.cursor += len(s)
	t.invalidate()
}

// InsertElement inserts an atomic element's label at the cursor and
// registers its byte range.
func (t *TextArea) InsertElement(label string) {
	pos := t.cursor
	t.InsertText(label)
	t.elements = append(t.elements, Element{Start: pos, End: pos + len(label), Label: label})
}

// Elements returns the currently registered inline elements.
func (t *TextArea) Elements() []Element {
	return append([]Element(nil), t.elements...)
}

func (t *TextArea) shiftElements(at, delta int) {
	var kept []Element
	for _, e := range t.elements {
		switch {
		case e.End <= at:
			kept = append(kept, e)
		case e.Start >= at:
			e.Start += delta
			e.End += delta
			kept = append(kept, e)
		default:
			// at lands inside the element: drop it, the range is no
			// longer a single clean unit once split by an insertion.
		}
	}
	t.elements = kept
}

// DeleteRange removes [start, end) from the buffer, expanding the range to
// fully cover any intersecting elements first, and shifts/prunes the
// element list accordingly.
func (t *TextArea) DeleteRange(start, end int) {
	if start > end {
		start, end = end, start
	}
	start, end = t.expandToElementBounds(start, end)
	if start < 0 {
		start = 0
	}
	if end > len(t.text) {
		end = len(t.text)
	}
	if start >= end {
		return
	}
	t.text = t.text[:start] + t.text[end:]
	removed := end - start
	t.removeAndShiftElements(start, end, removed)
	if t.cursor > end {
		t.cursor -= removed
	} else if t.cursor > start {
		t.cursor = start
	}
	t.invalidate()
}

func (t *TextArea) expandToElementBounds(start, end int) (int, int) {
	for _, e := range t.elements {
		if e.Start < end && e.End > start {
			if e.Start < start {
				start = e.Start
			}
			if e.End > end {
				end = e.End
			}
		}
	}
	return start, end
}

func (t *TextArea) removeAndShiftElements(start, end, removed int) {
	var kept []Element
	for _, e := range t.elements {
		switch {
		case e.End <= start:
			kept = append(kept, e)
		case e.Start >= end:
			e.Start -= removed
			e.End -= removed
			kept = append(kept, e)
		default:
			// fully covered by the deleted range (guaranteed by
			// expandToElementBounds): drop.
		}
	}
	t.elements = kept
}

// DeleteBackward deletes one grapheme cluster (or a whole element) before
// the cursor.
func (t *TextArea) DeleteBackward() {
	if t.cursor == 0 {
		return
	}
	if e, ok := t.elementEndingAt(t.cursor); ok {
		t.DeleteRange(e.Start, e.End)
		return
	}
	prev := prevGraphemeBoundary(t.text, t.cursor)
	t.DeleteRange(prev, t.cursor)
}

// DeleteForward deletes one grapheme cluster (or a whole element) after
// the cursor.
func (t *TextArea) DeleteForward() {
	if t.cursor >= len(t.text) {
		return
	}
	if e, ok := t.elementStartingAt(t.cursor); ok {
		t.DeleteRange(e.Start, e.End)
		return
	}
	next := nextGraphemeBoundary(t.text, t.cursor)
	t.DeleteRange(t.cursor, next)
}

func (t *TextArea) elementEndingAt(pos int) (Element, bool) {
	for _, e := range t.elements {
		if e.End == pos {
			return e, true
		}
	}
	return Element{}, false
}

func (t *TextArea) elementStartingAt(pos int) (Element, bool) {
	for _, e := range t.elements {
		if e.Start == pos {
			return e, true
		}
	}
	return Element{}, false
}

// ---------------------------------------------------------------------------
// Kill ring
// ---------------------------------------------------------------------------

// KillToLineStart removes from the line start to the cursor, saving it to
// the kill ring.
func (t *TextArea) KillToLineStart() {
	start := t.LineStart()
	t.kill(start, t.cursor)
}

// KillToLineEnd removes from the cursor to the line end, including the
// trailing newline when the cursor is already at the line's end.
func (t *TextArea) KillToLineEnd() {
	end := t.LineEnd()
	if end == t.cursor && end < len(t.text) {
		end++ // absorb the newline
	}
	t.kill(t.cursor, end)
}

// KillWordBackward removes the word before the cursor.
func (t *TextArea) KillWordBackward() {
	t.kill(t.wordLeftPos(), t.cursor)
}

// KillWordForward removes the word after the cursor.
func (t *TextArea) KillWordForward() {
	t.kill(t.cursor, t.wordRightPos())
}

func (t *TextArea) kill(start, end int) {
	if start > end {
		start, end = end, start
	}
	start, end = t.expandToElementBounds(start, end)
	if start >= end {
		return
	}
	t.killRing = t.text[start:end]
	t.DeleteRange(start, end)
}

// Yank inserts the kill ring's contents at the cursor.
func (t *TextArea) Yank() {
	if t.killRing == "" {
		return
	}
	t.InsertText(t.killRing)
}
