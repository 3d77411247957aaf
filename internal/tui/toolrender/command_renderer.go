package toolrender

import (
	"strings"

	"github.com/corestream/termui/internal/tui/ansi"
	"github.com/corestream/termui/internal/tui/cellbuf"
	"github.com/corestream/termui/internal/tui/mdstream"
	"github.com/corestream/termui/internal/tui/termcolor"
)

// CommandToolRenderer renders the execute_command tool: the invoked command
// line followed by its streaming terminal output, on a tinted background.
type CommandToolRenderer struct{}

func (CommandToolRenderer) SupportedTools() []string {
	return []string{"execute_command"}
}

func (CommandToolRenderer) Render(tool *ToolUse, buf *cellbuf.Buffer, area cellbuf.Rect) int {
	if area.Height < 1 {
		return area.Y
	}

	y := RenderToolHeader(tool, buf, area, area.Y)
	bg := ansi.NewColor(termcolor.ToolContentBG())

	if cmd, ok := tool.Get("command_line"); ok {
		if y < area.Y+area.Height {
			rowWidth := area.Width - 2
			if rowWidth < 0 {
				rowWidth = 0
			}
			buf.SetString(area.X+2, y, strings.Repeat(" ", rowWidth), ansi.Reset, bg, 0)
			buf.SetString(area.X+2, y, "$ ", colorDarkGray, bg, ansi.ModBold)
			display := truncateToWidth(cmd, rowWidth-2)
			buf.SetString(area.X+4, y, display, colorWhite, bg, 0)
			y++
		}
	}

	if tool.Output != "" {
		rowWidth := area.Width - 2
		if rowWidth < 0 {
			rowWidth = 0
		}
		for _, line := range splitLines(tool.Output) {
			if y >= area.Y+area.Height {
				break
			}
			buf.SetString(area.X+2, y, strings.Repeat(" ", rowWidth), ansi.Reset, bg, 0)
			expanded := truncateToWidth(expandTabs(line), rowWidth)
			buf.SetString(area.X+2, y, expanded, colorGray, bg, 0)
			y++
		}
	}

	return RenderErrorLine(tool, buf, area, y)
}

func (CommandToolRenderer) CalculateHeight(tool *ToolUse, _ int) int {
	height := 1 // header
	if _, ok := tool.Get("command_line"); ok {
		height++
	}
	if tool.Output != "" {
		height += len(splitLines(tool.Output))
	}
	if tool.Status == StatusError && tool.HasStatusMessage {
		height++
	}
	return height
}

func (CommandToolRenderer) RenderHistoryLines(tool *ToolUse) []mdstream.Line {
	lines := []mdstream.Line{ToolHeaderLine(tool)}
	bg := ansi.NewColor(termcolor.ToolContentBG())

	if cmd, ok := tool.Get("command_line"); ok {
		lines = append(lines, mdstream.Line{Spans: []mdstream.Span{
			{Content: "  $ ", Fg: colorDarkGray, Bg: bg, Mod: ansi.ModBold},
			{Content: cmd, Fg: colorWhite, Bg: bg},
		}})
	}

	if tool.Output != "" {
		for _, line := range splitLines(tool.Output) {
			lines = append(lines, mdstream.Line{Spans: []mdstream.Span{
				{Content: "  " + expandTabs(line), Fg: colorGray, Bg: bg},
			}})
		}
	}

	PushErrorHistoryLine(tool, &lines)
	return lines
}
