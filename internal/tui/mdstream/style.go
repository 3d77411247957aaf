package mdstream

import "github.com/corestream/termui/internal/tui/ansi"

// Span is a run of text sharing one style.
type Span struct {
	Content string
	Fg      ansi.Color
	Bg      ansi.Color
	Mod     ansi.Modifier
}

// Line is a single rendered row: a sequence of styled spans.
type Line struct {
	Spans []Span
}

// Plain concatenates a line's span content, discarding style.
func (l Line) Plain() string {
	s := ""
	for _, sp := range l.Spans {
		s += sp.Content
	}
	return s
}

// IsBlank reports whether a line has no visible, non-space content.
func (l Line) IsBlank() bool {
	if len(l.Spans) == 0 {
		return true
	}
	for _, sp := range l.Spans {
		for _, r := range sp.Content {
			if r != ' ' {
				return false
			}
		}
	}
	return true
}

var (
	headingColor    = ansi.NewColor("#fabd2f")
	linkColor       = ansi.NewColor("#83a598")
	codeColor       = ansi.NewColor("#d3869b")
	blockquoteColor = ansi.NewColor("#928374")
)
