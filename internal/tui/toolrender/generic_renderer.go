package toolrender

import (
	"fmt"

	"github.com/corestream/termui/internal/tui/ansi"
	"github.com/corestream/termui/internal/tui/cellbuf"
	"github.com/corestream/termui/internal/tui/mdstream"
)

// genericRenderer handles any tool name with no dedicated renderer: a
// header line plus one "key: value" row per parameter, in insertion order.
type genericRenderer struct{}

func (genericRenderer) SupportedTools() []string { return nil }

func (genericRenderer) paramLines(tool *ToolUse) []string {
	var lines []string
	for _, name := range tool.ParamOrder {
		lines = append(lines, fmt.Sprintf("%s: %s", name, tool.Parameters[name].Value))
	}
	return lines
}

func (g genericRenderer) Render(tool *ToolUse, buf *cellbuf.Buffer, area cellbuf.Rect) int {
	if area.Height < 1 {
		return area.Y
	}
	y := RenderToolHeader(tool, buf, area, area.Y)
	for _, line := range g.paramLines(tool) {
		if y >= area.Y+area.Height {
			break
		}
		buf.SetString(area.X+2, y, line, colorGray, ansi.Reset, 0)
		y++
	}
	return RenderErrorLine(tool, buf, area, y)
}

func (g genericRenderer) CalculateHeight(tool *ToolUse, _ int) int {
	height := 1 + len(g.paramLines(tool))
	if tool.Status == StatusError && tool.HasStatusMessage {
		height++
	}
	return height
}

func (g genericRenderer) RenderHistoryLines(tool *ToolUse) []mdstream.Line {
	lines := []mdstream.Line{ToolHeaderLine(tool)}
	for _, line := range g.paramLines(tool) {
		lines = append(lines, mdstream.Line{Spans: []mdstream.Span{
			{Content: "  " + line, Fg: colorGray},
		}})
	}
	PushErrorHistoryLine(tool, &lines)
	return lines
}
