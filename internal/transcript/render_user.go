package transcript

import (
	"github.com/mattn/go-runewidth"

	"github.com/corestream/termui/internal/tui/ansi"
	"github.com/corestream/termui/internal/tui/mdstream"
	"github.com/corestream/termui/internal/tui/termcolor"
)

var (
	darkGray     = ansi.NewColor("#928374")
	userPrefixFg = ansi.NewColor("#83a598")
)

const dimItalicMod = ansi.ModDim | ansi.ModItalic

// renderUserText wraps user content with the `› ` / `  ` prefix convention,
// padding the block with one leading and trailing composer-background row
// plus a blank separator row before and after.
func renderUserText(content string, width int) []mdstream.Line {
	bg := ansi.NewColor(termcolor.ComposerBG())
	innerWidth := width - 2
	if innerWidth < 1 {
		innerWidth = 1
	}

	wrapped := wrapPlain(content, innerWidth)
	if len(wrapped) == 0 {
		wrapped = []string{""}
	}

	var out []mdstream.Line
	out = append(out, mdstream.Line{})
	out = append(out, mdstream.Line{Spans: []mdstream.Span{{Content: padTo("", width), Bg: bg}}})
	for i, line := range wrapped {
		prefix := "  "
		if i == 0 {
			prefix = "› "
		}
		text := prefix + line
		out = append(out, mdstream.Line{Spans: []mdstream.Span{
			{Content: padTo(text, width), Fg: userPrefixFg, Bg: bg},
		}})
	}
	out = append(out, mdstream.Line{Spans: []mdstream.Span{{Content: padTo("", width), Bg: bg}}})
	out = append(out, mdstream.Line{})
	return out
}

func padTo(s string, width int) string {
	w := runewidth.StringWidth(s)
	if w >= width {
		return s
	}
	return s + stringsRepeatSpace(width-w)
}

func stringsRepeatSpace(n int) string {
	if n <= 0 {
		return ""
	}
	b := make([]byte, n)
	for i := range b {
		b[i] = ' '
	}
	return string(b)
}

// wrapPlain soft-wraps plain (non-markdown) text to width display columns,
// preserving embedded newlines as hard breaks.
func wrapPlain(content string, width int) []string {
	var out []string
	for _, paragraph := range splitLines(content) {
		out = append(out, wrapParagraph(paragraph, width)...)
	}
	return out
}

func splitLines(s string) []string {
	var lines []string
	start := 0
	for i := 0; i < len(s); i++ {
		if s[i] == '\n' {
			lines = append(lines, s[start:i])
			start = i + 1
		}
	}
	lines = append(lines, s[start:])
	return lines
}

func wrapParagraph(s string, width int) []string {
	if s == "" {
		return []string{""}
	}
	var lines []string
	var cur []rune
	curWidth := 0
	lastSpace := -1

	flush := func(upTo int) {
		lines = append(lines, string(cur[:upTo]))
		cur = cur[upTo:]
		curWidth = runewidth.StringWidth(string(cur))
		lastSpace = -1
	}

	for _, r := range s {
		rw := runewidth.RuneWidth(r)
		cur = append(cur, r)
		if r == ' ' {
			lastSpace = len(cur) - 1
		}
		curWidth += rw
		if curWidth > width {
			if lastSpace > 0 {
				flush(lastSpace)
			} else {
				flush(len(cur) - 1)
			}
		}
	}
	if len(cur) > 0 || len(lines) == 0 {
		lines = append(lines, string(cur))
	}
	return lines
}
