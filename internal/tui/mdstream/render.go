package mdstream

import (
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/mattn/go-runewidth"
	"github.com/yuin/goldmark"
	gast "github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"

	"github.com/corestream/termui/internal/tui/ansi"
)

// renderMarkdownLines parses source as markdown and renders it to styled
// lines. width <= 0 means unwrapped (no soft-wrap at a fixed column).
func renderMarkdownLines(source string, width int) []Line {
	src := []byte(source)
	doc := goldmark.DefaultParser().Parse(text.NewReader(src))

	var lines []Line
	first := true
	for n := doc.FirstChild(); n != nil; n = n.NextSibling() {
		if !first {
			lines = append(lines, Line{})
		}
		first = false
		lines = append(lines, renderBlock(n, src)...)
	}

	if width > 0 {
		lines = wrapLines(lines, width)
	}
	if len(lines) == 0 {
		lines = []Line{{}}
	}
	return lines
}

type linesProvider interface {
	Lines() *text.Segments
}

func renderBlock(n gast.Node, src []byte) []Line {
	switch n.Kind() {
	case gast.KindParagraph, gast.KindTextBlock:
		return renderInlineLines(n, src)
	case gast.KindHeading:
		h := n.(*gast.Heading)
		spans := renderInlineSpans(n, src)
		prefix := Span{Content: strings.Repeat("#", h.Level) + " ", Fg: headingColor, Mod: ansi.ModBold}
		out := append([]Span{prefix}, boldify(spans)...)
		return []Line{{Spans: out}}
	case gast.KindBlockquote:
		var out []Line
		for c := n.FirstChild(); c != nil; c = c.NextSibling() {
			for _, l := range renderBlock(c, src) {
				out = append(out, Line{Spans: append([]Span{{Content: "| ", Fg: blockquoteColor}}, dimify(l.Spans)...)})
			}
		}
		return out
	case gast.KindList:
		return renderList(n.(*gast.List), src)
	case gast.KindFencedCodeBlock, gast.KindCodeBlock:
		return renderCodeBlock(n, src)
	case gast.KindThematicBreak:
		return []Line{{Spans: []Span{{Content: strings.Repeat("-", 40), Fg: blockquoteColor}}}}
	case gast.KindHTMLBlock:
		return nil
	default:
		return renderInlineLines(n, src)
	}
}

func renderList(list *gast.List, src []byte) []Line {
	var out []Line
	idx := list.Start
	if idx == 0 {
		idx = 1
	}
	for item := list.FirstChild(); item != nil; item = item.NextSibling() {
		marker := "- "
		if list.IsOrdered() {
			marker = itoa(idx) + ". "
			idx++
		}
		var itemLines []Line
		for c := item.FirstChild(); c != nil; c = c.NextSibling() {
			itemLines = append(itemLines, renderBlock(c, src)...)
		}
		for i, l := range itemLines {
			prefix := strings.Repeat(" ", runewidth.StringWidth(marker))
			if i == 0 {
				prefix = marker
			}
			out = append(out, Line{Spans: append([]Span{{Content: prefix}}, l.Spans...)})
		}
	}
	return out
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	neg := n < 0
	if neg {
		n = -n
	}
	var b []byte
	for n > 0 {
		b = append([]byte{byte('0' + n%10)}, b...)
		n /= 10
	}
	if neg {
		b = append([]byte{'-'}, b...)
	}
	return string(b)
}

func renderInlineLines(n gast.Node, src []byte) []Line {
	spans, breaks := collectInlineSpans(n, src)
	var lines []Line
	var cur []Span
	breakIdx := 0
	for i, sp := range spans {
		cur = append(cur, sp)
		if breakIdx < len(breaks) && breaks[breakIdx] == i {
			lines = append(lines, Line{Spans: cur})
			cur = nil
			breakIdx++
		}
	}
	lines = append(lines, Line{Spans: cur})
	return lines
}

func renderInlineSpans(n gast.Node, src []byte) []Span {
	spans, _ := collectInlineSpans(n, src)
	return spans
}

// collectInlineSpans walks n's inline children, returning a flat span list
// plus the span indices after which a line break occurs.
func collectInlineSpans(n gast.Node, src []byte) ([]Span, []int) {
	var spans []Span
	var breaks []int

	var walk func(gast.Node, ansi.Color, ansi.Modifier)
	walk = func(node gast.Node, fg ansi.Color, mod ansi.Modifier) {
		for c := node.FirstChild(); c != nil; c = c.NextSibling() {
			switch c.Kind() {
			case gast.KindText:
				t := c.(*gast.Text)
				spans = append(spans, Span{Content: string(t.Segment.Value(src)), Fg: fg, Mod: mod})
				if t.SoftLineBreak() || t.HardLineBreak() {
					breaks = append(breaks, len(spans)-1)
				}
			case gast.KindString:
				s := c.(*gast.String)
				spans = append(spans, Span{Content: string(s.Value), Fg: fg, Mod: mod})
			case gast.KindEmphasis:
				e := c.(*gast.Emphasis)
				m := mod
				if e.Level >= 2 {
					m |= ansi.ModBold
				} else {
					m |= ansi.ModItalic
				}
				walk(c, fg, m)
			case gast.KindCodeSpan:
				walk(c, codeColor, mod|ansi.ModDim)
			case gast.KindLink, gast.KindAutoLink:
				walk(c, linkColor, mod|ansi.ModUnderline)
			case gast.KindImage:
				spans = append(spans, Span{Content: "[image]", Fg: linkColor, Mod: mod})
			default:
				walk(c, fg, mod)
			}
		}
	}
	walk(n, ansi.Reset, 0)
	return spans, breaks
}

func boldify(spans []Span) []Span {
	out := make([]Span, len(spans))
	for i, sp := range spans {
		sp.Mod |= ansi.ModBold
		out[i] = sp
	}
	return out
}

func dimify(spans []Span) []Span {
	out := make([]Span, len(spans))
	for i, sp := range spans {
		sp.Mod |= ansi.ModDim
		out[i] = sp
	}
	return out
}

func renderCodeBlock(n gast.Node, src []byte) []Line {
	var raw strings.Builder
	if lp, ok := n.(linesProvider); ok {
		segs := lp.Lines()
		for i := 0; i < segs.Len(); i++ {
			seg := segs.At(i)
			raw.Write(seg.Value(src))
		}
	}
	lang := ""
	if fcb, ok := n.(*gast.FencedCodeBlock); ok && fcb.Info != nil {
		info := string(fcb.Info.Segment.Value(src))
		if f := strings.Fields(info); len(f) > 0 {
			lang = f[0]
		}
	}
	return highlightCode(raw.String(), lang)
}

func highlightCode(code, lang string) []Line {
	code = strings.TrimSuffix(code, "\n")
	if code == "" {
		return []Line{{}}
	}
	lexer := lexers.Get(lang)
	if lexer == nil {
		lexer = lexers.Fallback
	}
	lexer = chroma.Coalesce(lexer)
	style := styles.Get("monokai")
	if style == nil {
		style = styles.Fallback
	}

	it, err := lexer.Tokenise(nil, code)
	if err != nil {
		var out []Line
		for _, l := range strings.Split(code, "\n") {
			out = append(out, Line{Spans: []Span{{Content: l}}})
		}
		return out
	}

	var out []Line
	var cur []Span
	for {
		tok := it()
		if tok == chroma.EOF {
			break
		}
		entry := style.Get(tok.Type)
		fg := ansi.Reset
		if entry.Colour.IsSet() {
			hex := entry.Colour.String()
			if !strings.HasPrefix(hex, "#") {
				hex = "#" + hex
			}
			fg = ansi.NewColor(hex)
		}
		parts := strings.Split(tok.Value, "\n")
		for i, part := range parts {
			if part != "" {
				cur = append(cur, Span{Content: part, Fg: fg})
			}
			if i < len(parts)-1 {
				out = append(out, Line{Spans: cur})
				cur = nil
			}
		}
	}
	out = append(out, Line{Spans: cur})
	return out
}
