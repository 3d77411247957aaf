package composer

import (
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/corestream/termui/internal/tui/ansi"
	"github.com/corestream/termui/internal/tui/cellbuf"
	"github.com/corestream/termui/internal/tui/termcolor"
	"github.com/corestream/termui/internal/tui/textarea"
)

const (
	topPaddingRows    = 1
	bottomPaddingRows = 1
	footerRows        = 1
	promptPrefix      = "› "
)

// promptWidth is the prompt prefix's display-column width, distinct from
// its byte length (the glyph is multi-byte).
var promptWidth = runewidth.StringWidth(promptPrefix)

var footerHints = "Enter send  •  Shift+Enter newline  •  Esc dismiss  •  /help commands"
var footerColor = ansi.NewColor("#928374")

// Composer is the bottom input widget: a textarea inset by a prompt
// prefix, padded top/bottom rows in the composer background color, and a
// dimmed footer hints row.
type Composer struct {
	TextArea *textarea.TextArea
	Popup    Popup

	pendingPastes map[string]string
}

// New returns a composer wrapping a fresh text area.
func New() *Composer {
	return &Composer{
		TextArea:      textarea.New(),
		pendingPastes: make(map[string]string),
	}
}

// RefreshPopup recomputes the slash-completion popup's matches from the
// textarea's current content up to the cursor. Call after every edit.
func (c *Composer) RefreshPopup() {
	c.Popup.Update(c.TextArea.Text()[:c.TextArea.Cursor()])
}

// AcceptPopupSelection replaces the in-progress "/command" prefix with the
// selected completion and dismisses the popup. Returns false if the popup
// had no selection to accept.
func (c *Composer) AcceptPopupSelection() bool {
	name := c.Popup.Accept()
	if name == "" {
		return false
	}
	cursor := c.TextArea.Cursor()
	c.TextArea.DeleteRange(cursor-len(c.Popup.Query), cursor)
	c.TextArea.InsertText(name + " ")
	c.Popup.Visible = false
	return true
}

// HandlePaste routes a paste event to the text area, tracking placeholder
// expansion content for large pastes.
func (c *Composer) HandlePaste(content string) {
	_, pending := c.TextArea.HandlePaste(content)
	if pending != nil {
		c.pendingPastes[pending.Label] = pending.Content
	}
}

// SubmitText returns the textarea's content with any placeholder elements
// expanded back to their original pasted text, and clears the composer.
func (c *Composer) SubmitText() string {
	expanded := textarea.ExpandPlaceholders(c.TextArea.Text(), c.TextArea.Elements(), c.pendingPastes)
	c.TextArea.SetText("")
	c.pendingPastes = make(map[string]string)
	return expanded
}

// DesiredHeight is the total row count the composer needs: completion
// popup (when visible) + padding + textarea rows + footer, at the given
// content width (excluding the prompt prefix).
func (c *Composer) DesiredHeight(width int) int {
	innerWidth := width - promptWidth
	if innerWidth < 1 {
		innerWidth = 1
	}
	return c.Popup.Height() + topPaddingRows + c.TextArea.DesiredHeight(innerWidth) + bottomPaddingRows + footerRows
}

// CursorPos reports the composer-local (x, y) cursor position for the
// driver to position the terminal cursor, using the textarea's own wrap
// cache so the cursor lands where the text actually painted.
func (c *Composer) CursorPos(width int) (x, y int) {
	innerWidth := width - promptWidth
	if innerWidth < 1 {
		innerWidth = 1
	}
	row, col := c.TextArea.CursorRowCol(innerWidth)
	return promptWidth + col, c.Popup.Height() + topPaddingRows + row
}

// Render paints the composer into buf at area, using the palette's
// composer background for padding/prompt rows.
func (c *Composer) Render(buf *cellbuf.Buffer, area cellbuf.Rect) {
	if area.Height < 1 {
		return
	}
	bg := ansi.NewColor(termcolor.ComposerBG())
	y := area.Y

	popupH := c.Popup.Height()
	if popupH > area.Height-1 {
		popupH = area.Height - 1
	}
	if popupH > 0 {
		c.Popup.Render(buf, cellbuf.Rect{X: area.X, Y: y, Width: area.Width, Height: popupH})
		y += popupH
	}

	fillRow(buf, area, y, bg)
	y++

	innerWidth := area.Width - promptWidth
	if innerWidth < 1 {
		innerWidth = 1
	}
	textRows := area.Height - popupH - topPaddingRows - bottomPaddingRows - footerRows
	if textRows < 1 {
		textRows = 1
	}
	for i := 0; i < textRows && y < area.Y+area.Height; i++ {
		fillRow(buf, area, y, bg)
		prefix := promptPrefix
		if i > 0 {
			prefix = strings.Repeat(" ", promptWidth)
		}
		buf.SetString(area.X, y, prefix, ansi.Reset, bg, 0)
		y++
	}
	renderTextIntoRows(buf, area, popupH+topPaddingRows, textRows, innerWidth, c.TextArea, bg)

	if y < area.Y+area.Height {
		fillRow(buf, area, y, bg)
		y++
	}
	if y < area.Y+area.Height {
		buf.SetString(area.X, y, footerHints, footerColor, ansi.Reset, ansi.ModDim)
	}
}

func fillRow(buf *cellbuf.Buffer, area cellbuf.Rect, y int, bg ansi.Color) {
	buf.SetString(area.X, y, strings.Repeat(" ", area.Width), ansi.Reset, bg, 0)
}

func renderTextIntoRows(buf *cellbuf.Buffer, area cellbuf.Rect, rowOffset, maxRows, width int, ta *textarea.TextArea, bg ansi.Color) {
	lines := ta.VisualLines(width)
	for i := 0; i < maxRows; i++ {
		y := area.Y + rowOffset + i
		if y >= area.Y+area.Height {
			break
		}
		if i >= len(lines) {
			continue
		}
		buf.SetString(area.X+promptWidth, y, lines[i], ansi.Reset, bg, 0)
	}
}
