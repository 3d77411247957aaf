package toolrender

import (
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/corestream/termui/internal/tui/ansi"
	"github.com/corestream/termui/internal/tui/cellbuf"
	"github.com/corestream/termui/internal/tui/mdstream"
)

// CompactToolRenderer renders read/explore tools compactly: just the tool
// name, project, and key identifiers (paths, patterns, URLs), never file
// contents, search results, or full tool output.
type CompactToolRenderer struct{}

func (CompactToolRenderer) SupportedTools() []string {
	return []string{
		"read_files",
		"list_files",
		"list_projects",
		"search_files",
		"glob_files",
		"web_search",
		"web_fetch",
	}
}

type compactLineKind int

const (
	compactItem compactLineKind = iota
	compactKeyValue
)

type compactLine struct {
	kind  compactLineKind
	key   string
	value string
}

// compactLines extracts the compact display items for a tool block.
func compactLines(tool *ToolUse) []compactLine {
	var out []compactLine
	switch tool.Name {
	case "read_files":
		if paths, ok := tool.Get("paths"); ok {
			for _, path := range strings.Split(paths, "\n") {
				path = strings.TrimSpace(path)
				if path != "" {
					out = append(out, compactLine{kind: compactItem, value: path})
				}
			}
		}
	case "list_files":
		if path, ok := tool.Get("path"); ok {
			if val := strings.TrimSpace(path); val != "" {
				out = append(out, compactLine{kind: compactItem, value: val})
			}
		}
	case "search_files":
		pattern, hasPattern := tool.Get("pattern")
		if hasPattern {
			out = append(out, compactLine{kind: compactKeyValue, key: "pattern", value: pattern})
		}
		if regex, ok := tool.Get("regex"); ok && !hasPattern {
			out = append(out, compactLine{kind: compactKeyValue, key: "regex", value: regex})
		}
		if path, ok := tool.Get("path"); ok {
			if val := strings.TrimSpace(path); val != "" {
				out = append(out, compactLine{kind: compactItem, value: val})
			}
		}
	case "glob_files":
		if pattern, ok := tool.Get("pattern"); ok {
			value := pattern
			if !doublestar.ValidatePattern(pattern) {
				value += " (invalid pattern)"
			}
			out = append(out, compactLine{kind: compactKeyValue, key: "pattern", value: value})
		}
	case "web_search":
		if query, ok := tool.Get("query"); ok {
			out = append(out, compactLine{kind: compactKeyValue, key: "query", value: query})
		}
	case "web_fetch":
		if url, ok := tool.Get("url"); ok {
			out = append(out, compactLine{kind: compactKeyValue, key: "url", value: url})
		}
	case "list_projects":
		// No additional parameters to show.
	}
	return out
}

func (CompactToolRenderer) Render(tool *ToolUse, buf *cellbuf.Buffer, area cellbuf.Rect) int {
	if area.Height < 1 {
		return area.Y
	}

	y := RenderToolHeader(tool, buf, area, area.Y)

	for _, line := range compactLines(tool) {
		if y >= area.Y+area.Height {
			break
		}
		switch line.kind {
		case compactItem:
			buf.SetString(area.X+2, y, "- ", colorDarkGray, ansi.Reset, 0)
			display := truncateToWidth(line.value, area.Width-4)
			buf.SetString(area.X+4, y, display, colorGray, ansi.Reset, 0)
		case compactKeyValue:
			keyLen := len(line.key)
			buf.SetString(area.X+2, y, line.key, colorBlue, ansi.Reset, 0)
			buf.SetString(area.X+2+keyLen, y, ": ", colorWhite, ansi.Reset, 0)
			display := truncateToWidth(line.value, area.Width-(4+keyLen))
			buf.SetString(area.X+4+keyLen, y, display, colorGray, ansi.Reset, 0)
		}
		y++
	}

	return RenderErrorLine(tool, buf, area, y)
}

func (CompactToolRenderer) CalculateHeight(tool *ToolUse, _ int) int {
	height := 1 // header
	height += len(compactLines(tool))
	if tool.Status == StatusError && tool.HasStatusMessage {
		height++
	}
	return height
}

func (CompactToolRenderer) RenderHistoryLines(tool *ToolUse) []mdstream.Line {
	lines := []mdstream.Line{ToolHeaderLine(tool)}

	for _, line := range compactLines(tool) {
		switch line.kind {
		case compactItem:
			lines = append(lines, mdstream.Line{Spans: []mdstream.Span{
				{Content: "  - ", Fg: colorDarkGray},
				{Content: line.value, Fg: colorGray},
			}})
		case compactKeyValue:
			lines = append(lines, mdstream.Line{Spans: []mdstream.Span{
				{Content: "  "},
				{Content: line.key, Fg: colorBlue, Mod: ansi.ModDim},
				{Content: ": ", Fg: colorWhite},
				{Content: line.value, Fg: colorGray},
			}})
		}
	}

	PushErrorHistoryLine(tool, &lines)
	return lines
}
