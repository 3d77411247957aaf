package toolrender

import (
	"fmt"
	"strings"

	"github.com/corestream/termui/internal/tui/ansi"
	"github.com/corestream/termui/internal/tui/cellbuf"
	"github.com/corestream/termui/internal/tui/mdstream"
	"github.com/corestream/termui/internal/tui/termcolor"
)

// DiffToolRenderer renders the write/edit family of tools: edit,
// write_file, replace_in_file.
type DiffToolRenderer struct{}

func (DiffToolRenderer) SupportedTools() []string {
	return []string{"edit", "write_file", "replace_in_file"}
}

func getFilePath(tool *ToolUse) (string, bool) {
	if v, ok := tool.Get("file_path"); ok && v != "" {
		return v, true
	}
	if v, ok := tool.Get("path"); ok && v != "" {
		return v, true
	}
	return "", false
}

func (DiffToolRenderer) Render(tool *ToolUse, buf *cellbuf.Buffer, area cellbuf.Rect) int {
	if area.Height < 1 {
		return area.Y
	}

	y := RenderToolHeader(tool, buf, area, area.Y)
	y = renderFilePath(tool, buf, area, y)

	diffLines := GenerateToolDiffLines(tool)
	bg := ansi.NewColor(termcolor.ToolContentBG())
	y = renderDiffToBuffer(diffLines, buf, area, area.X+2, y, bg)

	return RenderErrorLine(tool, buf, area, y)
}

func renderFilePath(tool *ToolUse, buf *cellbuf.Buffer, area cellbuf.Rect, y int) int {
	if y >= area.Y+area.Height {
		return y
	}
	path, ok := getFilePath(tool)
	if !ok {
		return y
	}
	buf.SetString(area.X+2, y, path, colorGray, ansi.Reset, 0)
	return y + 1
}

func renderDiffToBuffer(diffLines []DiffLine, buf *cellbuf.Buffer, area cellbuf.Rect, x, y int, bg ansi.Color) int {
	gw := lineNumberWidth(maxLineNumber(diffLines))

	for _, dl := range diffLines {
		if y >= area.Y+area.Height {
			break
		}

		rowWidth := area.Width - (x - area.X)
		if rowWidth < 0 {
			rowWidth = 0
		}
		buf.SetString(x, y, strings.Repeat(" ", rowWidth), ansi.Reset, bg, 0)

		switch dl.Kind {
		case DiffHunkSeparator:
			spacer := fmt.Sprintf("%*s ", gw, "")
			buf.SetString(x, y, spacer, ansi.Reset, bg, ansi.ModDim)
			buf.SetString(x+len(spacer), y, "⋮", ansi.Reset, bg, ansi.ModDim)
		case DiffContext:
			gutter := fmt.Sprintf("%*d ", gw, dl.LineNum)
			buf.SetString(x, y, gutter, ansi.Reset, bg, ansi.ModDim)
			buf.SetString(x+len(gutter), y, " "+expandTabs(dl.Text), colorGray, bg, 0)
		case DiffInsert:
			gutter := fmt.Sprintf("%*d ", gw, dl.LineNum)
			buf.SetString(x, y, gutter, ansi.Reset, bg, ansi.ModDim)
			buf.SetString(x+len(gutter), y, "+"+expandTabs(dl.Text), colorGreen, bg, 0)
		case DiffDelete:
			gutter := fmt.Sprintf("%*d ", gw, dl.LineNum)
			buf.SetString(x, y, gutter, ansi.Reset, bg, ansi.ModDim)
			buf.SetString(x+len(gutter), y, "-"+expandTabs(dl.Text), colorRed, bg, 0)
		}
		y++
	}
	return y
}

func (DiffToolRenderer) CalculateHeight(tool *ToolUse, _ int) int {
	height := 1 // header
	if _, ok := getFilePath(tool); ok {
		height++
	}
	height += len(GenerateToolDiffLines(tool))
	if tool.Status == StatusError && tool.HasStatusMessage {
		height++
	}
	return height
}

func (DiffToolRenderer) RenderHistoryLines(tool *ToolUse) []mdstream.Line {
	lines := []mdstream.Line{ToolHeaderLine(tool)}

	if path, ok := getFilePath(tool); ok {
		lines = append(lines, mdstream.Line{Spans: []mdstream.Span{
			{Content: "  "},
			{Content: path, Fg: colorGray},
		}})
	}

	renderDiffToHistoryLines(GenerateToolDiffLines(tool), &lines)

	PushErrorHistoryLine(tool, &lines)
	return lines
}

func renderDiffToHistoryLines(diffLines []DiffLine, lines *[]mdstream.Line) {
	gw := lineNumberWidth(maxLineNumber(diffLines))
	bg := ansi.NewColor(termcolor.ToolContentBG())

	for _, dl := range diffLines {
		var spans []mdstream.Span
		switch dl.Kind {
		case DiffHunkSeparator:
			spans = []mdstream.Span{
				{Content: fmt.Sprintf("  %*s ", gw, ""), Mod: ansi.ModDim, Bg: bg},
				{Content: "⋮", Mod: ansi.ModDim, Bg: bg},
			}
		case DiffContext:
			spans = []mdstream.Span{
				{Content: fmt.Sprintf("  %*d ", gw, dl.LineNum), Mod: ansi.ModDim, Bg: bg},
				{Content: " " + expandTabs(dl.Text), Fg: colorGray, Bg: bg},
			}
		case DiffInsert:
			spans = []mdstream.Span{
				{Content: fmt.Sprintf("  %*d ", gw, dl.LineNum), Mod: ansi.ModDim, Bg: bg},
				{Content: "+" + expandTabs(dl.Text), Fg: colorGreen, Bg: bg},
			}
		case DiffDelete:
			spans = []mdstream.Span{
				{Content: fmt.Sprintf("  %*d ", gw, dl.LineNum), Mod: ansi.ModDim, Bg: bg},
				{Content: "-" + expandTabs(dl.Text), Fg: colorRed, Bg: bg},
			}
		}
		*lines = append(*lines, mdstream.Line{Spans: spans})
	}
}
