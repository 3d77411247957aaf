package composer

import (
	"strings"

	"github.com/corestream/termui/internal/tui/ansi"
	"github.com/corestream/termui/internal/tui/cellbuf"
)

var (
	popupBg       = ansi.NewColor("#3c3836")
	popupFg       = ansi.NewColor("#ebdbb2")
	popupSelectFg = ansi.NewColor("#fabd2f")
)

// Popup is the slash-command completion popup shown above the composer
// while the user is typing a "/command" prefix.
type Popup struct {
	Query    string
	Matches  []string
	Selected int
	Visible  bool
}

// Update refreshes the popup's matches for the current composer line. line is
// the full textarea content up to the cursor; the popup only activates when
// it starts with "/" and contains no space yet (still composing the command
// name, not its arguments).
func (p *Popup) Update(lineUpToCursor string) {
	if !strings.HasPrefix(lineUpToCursor, "/") || strings.ContainsAny(lineUpToCursor, " \t\n") {
		p.Visible = false
		p.Matches = nil
		return
	}
	p.Query = strings.TrimPrefix(lineUpToCursor, "/")
	p.Matches = Completions(p.Query)
	p.Visible = len(p.Matches) > 0
	if p.Selected >= len(p.Matches) {
		p.Selected = 0
	}
}

// MoveSelection moves the highlighted match by delta, wrapping around at
// either end.
func (p *Popup) MoveSelection(delta int) {
	if len(p.Matches) == 0 {
		return
	}
	p.Selected = ((p.Selected+delta)%len(p.Matches) + len(p.Matches)) % len(p.Matches)
}

// Accept returns the currently selected command name, or "" if the popup
// has no matches.
func (p *Popup) Accept() string {
	if p.Selected < 0 || p.Selected >= len(p.Matches) {
		return ""
	}
	return p.Matches[p.Selected]
}

// Height is the number of rows the popup occupies when visible.
func (p *Popup) Height() int {
	if !p.Visible {
		return 0
	}
	return len(p.Matches)
}

// Render paints the popup's match list into buf at area, one row per match,
// highlighting the selected entry.
func (p *Popup) Render(buf *cellbuf.Buffer, area cellbuf.Rect) {
	if !p.Visible {
		return
	}
	for i, m := range p.Matches {
		y := area.Y + i
		if y >= area.Y+area.Height {
			break
		}
		fg := popupFg
		if i == p.Selected {
			fg = popupSelectFg
		}
		line := " /" + m
		if len(line) < area.Width {
			line += strings.Repeat(" ", area.Width-len(line))
		}
		buf.SetString(area.X, y, line, fg, popupBg, 0)
	}
}
