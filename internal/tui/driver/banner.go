package driver

import (
	"github.com/corestream/termui/internal/tui/ansi"
	"github.com/corestream/termui/internal/tui/mdstream"
)

// WelcomeBanner renders the one-time startup banner as styled history
// lines, to be pushed above the viewport via Tui.InsertHistoryLines before
// any streaming begins: a short block with a bold title line naming the
// tool and a dimmed line naming the working directory, never re-rendered
// on resize since it has already
// scrolled into history.
func WelcomeBanner(workingPath string) []mdstream.Line {
	dim := ansi.NewColor("#928374")
	accent := ansi.NewColor("#83a598")
	line := func(text string, fg ansi.Color, mod ansi.Modifier) mdstream.Line {
		return mdstream.Line{Spans: []mdstream.Span{{Content: text, Fg: fg, Mod: mod}}}
	}
	lines := []mdstream.Line{
		line("● term-llm", accent, ansi.ModBold),
		line("  working in "+workingPath, dim, ansi.ModDim),
		{},
	}
	return lines
}
