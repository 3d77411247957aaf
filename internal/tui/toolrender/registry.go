package toolrender

import (
	"fmt"
	"sync"

	"github.com/mattn/go-runewidth"

	"github.com/corestream/termui/internal/tui/ansi"
	"github.com/corestream/termui/internal/tui/cellbuf"
	"github.com/corestream/termui/internal/tui/mdstream"
)

// Renderer handles the live and history rendering for one or more tool
// names.
type Renderer interface {
	// SupportedTools lists the tool names this renderer handles.
	SupportedTools() []string

	// Render draws the tool block into buf within area, returning the next
	// free row.
	Render(tool *ToolUse, buf *cellbuf.Buffer, area cellbuf.Rect) int

	// CalculateHeight reports how many rows this tool block needs at the
	// given width.
	CalculateHeight(tool *ToolUse, width int) int

	// RenderHistoryLines produces styled scrollback lines.
	RenderHistoryLines(tool *ToolUse) []mdstream.Line
}

// Registry maps tool names to the renderer that handles them.
type Registry struct {
	renderers map[string]Renderer
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{renderers: make(map[string]Renderer)}
}

// Register installs r for every tool name it declares.
func (r *Registry) Register(renderer Renderer) {
	for _, name := range renderer.SupportedTools() {
		r.renderers[name] = renderer
	}
}

// Get looks up the renderer for a tool name.
func (r *Registry) Get(toolName string) (Renderer, bool) {
	renderer, ok := r.renderers[toolName]
	return renderer, ok
}

// GetOrGeneric looks up the renderer for a tool name, falling back to a
// generic header-plus-params renderer for unrecognized tools.
func (r *Registry) GetOrGeneric(toolName string) Renderer {
	if renderer, ok := r.renderers[toolName]; ok {
		return renderer
	}
	return genericRenderer{}
}

var (
	globalOnce     sync.Once
	globalRegistry *Registry
)

// Global returns the process-wide registry, building it with all built-in
// renderers on first use.
func Global() *Registry {
	globalOnce.Do(func() {
		globalRegistry = NewRegistry()
		globalRegistry.Register(&CompactToolRenderer{})
		globalRegistry.Register(&DiffToolRenderer{})
		globalRegistry.Register(&CommandToolRenderer{})
	})
	return globalRegistry
}

// ---------------------------------------------------------------------------
// Shared helpers used by multiple renderers
// ---------------------------------------------------------------------------

var (
	colorYellow   = ansi.NewColor("#fabd2f")
	colorBlue     = ansi.NewColor("#83a598")
	colorGreen    = ansi.NewColor("#b8bb26")
	colorRed      = ansi.NewColor("#fb4934")
	colorLightRed = ansi.NewColor("#fb6f6f")
	colorWhite    = ansi.NewColor("#ebdbb2")
	colorGray     = ansi.NewColor("#a89984")
	colorDarkGray = ansi.NewColor("#928374")
)

// truncateToWidth trims s to at most width display columns, never cutting
// a rune in half.
func truncateToWidth(s string, width int) string {
	if width <= 0 {
		return ""
	}
	return runewidth.Truncate(s, width, "")
}

// GetProjectSuffix returns " [project]" when a meaningful project parameter
// is present, else "".
func GetProjectSuffix(tool *ToolUse) string {
	val, ok := tool.Get("project")
	if !ok || val == "" || val == "." || val == "unknown" {
		return ""
	}
	return fmt.Sprintf(" [%s]", val)
}

// StatusColor maps a tool status to its indicator color.
func StatusColor(s Status) ansi.Color {
	switch s {
	case StatusPending:
		return colorYellow
	case StatusRunning:
		return colorBlue
	case StatusSuccess:
		return colorGreen
	case StatusError:
		return colorRed
	default:
		return ansi.Reset
	}
}

// RenderToolHeader draws the "● tool_name [project]" header line into buf
// and returns the next free row.
func RenderToolHeader(tool *ToolUse, buf *cellbuf.Buffer, area cellbuf.Rect, y int) int {
	color := StatusColor(tool.Status)
	project := GetProjectSuffix(tool)

	buf.SetString(area.X, y, "●", color, ansi.Reset, 0)
	buf.SetString(area.X+2, y, tool.Name, colorWhite, ansi.Reset, ansi.ModBold)
	if project != "" {
		buf.SetString(area.X+2+len(tool.Name), y, project, colorDarkGray, ansi.Reset, 0)
	}
	return y + 1
}

// ToolHeaderLine produces a styled "● tool_name [project]" scrollback line.
func ToolHeaderLine(tool *ToolUse) mdstream.Line {
	color := StatusColor(tool.Status)
	project := GetProjectSuffix(tool)

	spans := []mdstream.Span{
		{Content: "● ", Fg: color},
		{Content: tool.Name, Fg: colorWhite, Mod: ansi.ModBold},
	}
	if project != "" {
		spans = append(spans, mdstream.Span{Content: project, Fg: colorDarkGray})
	}
	return mdstream.Line{Spans: spans}
}

// RenderErrorLine draws the tool's error status message (if any) into buf,
// returning the next free row.
func RenderErrorLine(tool *ToolUse, buf *cellbuf.Buffer, area cellbuf.Rect, y int) int {
	if tool.Status != StatusError || !tool.HasStatusMessage {
		return y
	}
	if y >= area.Y+area.Height {
		return y
	}
	message := truncateToWidth(tool.StatusMessage, area.Width-2)
	buf.SetString(area.X+2, y, message, colorLightRed, ansi.Reset, 0)
	return y + 1
}

// PushErrorHistoryLine appends the tool's error status message as a
// scrollback line, if applicable.
func PushErrorHistoryLine(tool *ToolUse, lines *[]mdstream.Line) {
	if tool.Status != StatusError || !tool.HasStatusMessage {
		return
	}
	*lines = append(*lines, mdstream.Line{Spans: []mdstream.Span{
		{Content: "  " + tool.StatusMessage, Fg: colorLightRed},
	}})
}
