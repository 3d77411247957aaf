package orchestrator

import (
	"fmt"
	"strings"

	"github.com/corestream/termui/internal/transcript"
	"github.com/corestream/termui/internal/tui/ansi"
	"github.com/corestream/termui/internal/tui/cellbuf"
	"github.com/corestream/termui/internal/tui/mdstream"
	"github.com/corestream/termui/internal/tui/streamctl"
)

// scratchHeadroom is the extra row budget above the visible viewport the
// scratch buffer carries, so a message that shrinks never needs to be
// re-measured mid-paint.
const scratchHeadroom = 200

var (
	errorColor   = ansi.NewColor("#fb4934")
	infoColor    = ansi.NewColor("#a89984")
	pendingColor = ansi.NewColor("#928374")
)

// HasError reports whether an error status is currently set.
func (o *Orchestrator) HasError() bool { return o.hasError }

// HasInfo reports whether an info status is currently set.
func (o *Orchestrator) HasInfo() bool { return o.hasInfo }

// PlanExpanded reports whether the plan summary is currently in its
// expanded (windowed) form rather than the collapsed one-line summary.
func (o *Orchestrator) PlanExpanded() bool { return o.planExpanded }

// ClearError dismisses the current error status.
func (o *Orchestrator) ClearError() {
	o.hasError = false
	o.errorMessage = ""
}

// DesiredViewportHeight computes the total row count the driver should size
// the inline viewport to this frame: live message height + spinner + status
// height + the composer's own height.
func (o *Orchestrator) DesiredViewportHeight(width int) int {
	inputHeight := o.Composer.DesiredHeight(width)

	content := 0
	if m := o.Transcript.Active; m != nil && m.HasContent() {
		for i := range m.Blocks {
			content += o.blockHeight(&m.Blocks[i], i == len(m.Blocks)-1, width) + 1
		}
	}
	if o.spinner.Mode != SpinnerHidden {
		content += 2
	}
	content += o.measureStatusHeight(width)
	if content < 1 {
		content = 1
	}
	return content + inputHeight
}

// blockHeight is the row count a single active-message block occupies in
// the live viewport. PlainText/Thinking blocks only ever show their
// undrained tail, and only when they are the message's last block and a
// stream is still open; everything else has already reached scrollback.
func (o *Orchestrator) blockHeight(b *transcript.Block, isLast bool, width int) int {
	inner := width - 2
	if inner < 1 {
		inner = 1
	}
	switch b.Kind {
	case transcript.KindPlainText:
		if !isLast || !o.streamingOpen || o.lastKind != kindText {
			return 0
		}
		return len(renderMarkdown(o.Stream.TailText(streamctl.KindText), inner))
	case transcript.KindThinking:
		if !isLast || !o.streamingOpen || o.lastKind != kindThinking {
			return 0
		}
		return len(renderMarkdown(o.Stream.TailText(streamctl.KindThinking), inner))
	case transcript.KindToolUse:
		return o.Registry.GetOrGeneric(b.ToolName).CalculateHeight(b.ToolView(), width)
	case transcript.KindUserText:
		if b.Text == "" {
			return 0
		}
		return 2 + strings.Count(b.Text, "\n") + 1
	default:
		return 0
	}
}

// measureStatusHeight returns the status area's row count: the
// error message alone if set, else plan summary + info/pending message,
// each separated by one blank row, with one more blank row below the whole
// group, between it and the composer.
func (o *Orchestrator) measureStatusHeight(width int) int {
	if o.hasError {
		lines := renderMarkdown(formatErrorMessage(o.errorMessage), width)
		if len(lines) == 0 {
			return 0
		}
		return len(lines) + 1
	}

	height := 0
	hasAny := false
	if o.plan != nil && len(o.plan.Items) > 0 {
		height += len(RenderPlan(o.plan, o.planExpanded))
		hasAny = true
	}
	if o.hasInfo {
		if hasAny {
			height++
		}
		height += len(renderMarkdown(o.infoMessage, width))
		hasAny = true
	} else if o.hasPendingUser {
		if hasAny {
			height++
		}
		height += len(renderMarkdown(o.pendingUserMessage, width))
		hasAny = true
	}
	if hasAny {
		height++
	}
	return height
}

// Paint renders the current frame into buf's viewport area: the scratch
// layout (spinner, live message) is composed bottom-up, then
// blitted bottom-aligned above the status area and the composer.
func (o *Orchestrator) Paint(buf *cellbuf.Buffer, area cellbuf.Rect) {
	width := area.Width
	if width < 1 {
		return
	}
	inputHeight := o.Composer.DesiredHeight(width)
	available := area.Height - inputHeight
	if available < 0 {
		available = 0
	}

	scratchHeight := available + scratchHeadroom
	scratch := cellbuf.NewBuffer(cellbuf.Rect{Width: width, Height: scratchHeight})
	cursorY := scratchHeight
	if cursorY > 0 {
		cursorY--
	}

	entries, statusHeight := o.buildStatusEntries(width)

	if line := o.spinner.Render(); line != nil && cursorY > 0 {
		cursorY--
		writeLine(scratch, 2, cursorY, *line)
		if cursorY > 0 {
			cursorY--
		}
	}

	if m := o.Transcript.Active; m != nil && m.HasContent() && cursorY > 0 {
		o.renderActiveMessage(m, scratch, &cursorY, width)
	}

	totalHeight := scratchHeight - cursorY
	contentHeight := area.Height - statusHeight - inputHeight
	if contentHeight < 0 {
		contentHeight = 0
	}
	visibleTotal := totalHeight
	if visibleTotal > contentHeight {
		visibleTotal = contentHeight
	}
	topBlank := contentHeight - visibleTotal
	visibleStart := scratchHeight - visibleTotal

	for y := 0; y < topBlank; y++ {
		clearRow(buf, area, area.Y+y)
	}
	for y := 0; y < visibleTotal; y++ {
		copyRow(buf, scratch, area, area.Y+topBlank+y, visibleStart+y)
	}

	statusY := area.Y + contentHeight
	o.renderStatusArea(buf, cellbuf.Rect{X: area.X, Y: statusY, Width: width, Height: statusHeight}, entries)

	composerY := statusY + statusHeight
	o.Composer.Render(buf, cellbuf.Rect{X: area.X, Y: composerY, Width: width, Height: inputHeight})
}

// renderActiveMessage paints the active message's blocks into scratch,
// last-to-first, each preceded by a one-row gap, stopping once the scratch
// buffer's headroom is exhausted.
func (o *Orchestrator) renderActiveMessage(m *transcript.Message, scratch *cellbuf.Buffer, cursorY *int, width int) {
	for i := len(m.Blocks) - 1; i >= 0; i-- {
		if *cursorY == 0 {
			return
		}
		b := &m.Blocks[i]
		h := o.blockHeight(b, i == len(m.Blocks)-1, width)
		if h > *cursorY {
			h = *cursorY
		}
		if h <= 0 {
			continue
		}
		y0 := *cursorY - h
		o.renderBlockLive(b, i == len(m.Blocks)-1, scratch, cellbuf.Rect{X: 0, Y: y0, Width: width, Height: h})
		*cursorY = y0
		if *cursorY > 0 {
			*cursorY--
		}
	}
}

func (o *Orchestrator) renderBlockLive(b *transcript.Block, isLast bool, buf *cellbuf.Buffer, area cellbuf.Rect) {
	inner := area.Width - 2
	if inner < 1 {
		inner = 1
	}
	switch b.Kind {
	case transcript.KindPlainText:
		lines := renderMarkdown(o.Stream.TailText(streamctl.KindText), inner)
		writeLines(buf, area.X+2, area.Y, lines)
	case transcript.KindThinking:
		lines := dimItalicizeLines(renderMarkdown(o.Stream.TailText(streamctl.KindThinking), inner))
		writeLines(buf, area.X+2, area.Y, lines)
	case transcript.KindToolUse:
		o.Registry.GetOrGeneric(b.ToolName).Render(b.ToolView(), buf, area)
	case transcript.KindUserText:
		lines := renderMarkdown(b.Text, area.Width)
		writeLines(buf, area.X, area.Y, lines)
	}
}

type statusEntryKind int

const (
	statusPlan statusEntryKind = iota
	statusInfo
	statusPending
)

type statusEntry struct {
	kind  statusEntryKind
	lines []mdstream.Line
}

// buildStatusEntries renders the status area's content (error alone, or
// plan + info/pending) as styled lines, returning the entries to paint and
// their total row count including inter-entry gaps and the trailing blank
// row.
func (o *Orchestrator) buildStatusEntries(width int) ([]statusEntry, int) {
	if o.hasError {
		lines := recolor(renderMarkdown(formatErrorMessage(o.errorMessage), width), errorColor, ansi.ModBold)
		if len(lines) == 0 {
			return nil, 0
		}
		return []statusEntry{{kind: statusInfo, lines: lines}}, len(lines) + 1
	}

	var entries []statusEntry
	total := 0
	hasAny := false
	if o.plan != nil && len(o.plan.Items) > 0 {
		lines := RenderPlan(o.plan, o.planExpanded)
		entries = append(entries, statusEntry{kind: statusPlan, lines: lines})
		total += len(lines)
		hasAny = true
	}
	if o.hasInfo {
		if hasAny {
			total++
		}
		lines := recolor(renderMarkdown(o.infoMessage, width), infoColor, 0)
		entries = append(entries, statusEntry{kind: statusInfo, lines: lines})
		total += len(lines)
		hasAny = true
	} else if o.hasPendingUser {
		if hasAny {
			total++
		}
		lines := recolor(renderMarkdown(o.pendingUserMessage, width), pendingColor, ansi.ModItalic)
		entries = append(entries, statusEntry{kind: statusPending, lines: lines})
		total += len(lines)
		hasAny = true
	}
	if hasAny {
		total++
	}
	return entries, total
}

func (o *Orchestrator) renderStatusArea(buf *cellbuf.Buffer, area cellbuf.Rect, entries []statusEntry) {
	if area.Height <= 0 || len(entries) == 0 {
		return
	}
	y := area.Y
	bottom := area.Y + area.Height
	for idx, entry := range entries {
		if y >= bottom {
			break
		}
		remaining := bottom - y
		h := len(entry.lines)
		if h > remaining {
			h = remaining
		}
		for i := 0; i < h; i++ {
			writeLine(buf, area.X, y+i, entry.lines[i])
		}
		y += h
		if idx+1 < len(entries) && y < bottom {
			clearRow(buf, area, y)
			y++
		}
	}
}

func formatErrorMessage(msg string) string {
	return fmt.Sprintf("Error: %s (Press Esc to dismiss)", msg)
}

// renderMarkdown renders a complete (non-streaming) markdown string into
// styled lines at width, using the same pipeline the streaming collector
// uses for a one-shot render.
func renderMarkdown(content string, width int) []mdstream.Line {
	if width < 1 {
		width = 1
	}
	if strings.TrimSpace(content) == "" {
		return nil
	}
	c := mdstream.NewCollector(width)
	c.PushDelta(content)
	return c.FinalizeAndDrain()
}

var (
	darkGrayStatus = ansi.NewColor("#928374")
	dimItalic      = ansi.ModDim | ansi.ModItalic
)

func dimItalicizeLines(lines []mdstream.Line) []mdstream.Line {
	return recolor(lines, darkGrayStatus, dimItalic)
}

func recolor(lines []mdstream.Line, fg ansi.Color, mod ansi.Modifier) []mdstream.Line {
	out := make([]mdstream.Line, len(lines))
	for i, l := range lines {
		spans := make([]mdstream.Span, len(l.Spans))
		for j, sp := range l.Spans {
			sp.Fg = fg
			sp.Mod |= mod
			spans[j] = sp
		}
		out[i] = mdstream.Line{Spans: spans}
	}
	return out
}

func writeLine(buf *cellbuf.Buffer, x0, y int, line mdstream.Line) {
	x := x0
	for _, sp := range line.Spans {
		x += buf.SetString(x, y, sp.Content, sp.Fg, sp.Bg, sp.Mod)
	}
}

func writeLines(buf *cellbuf.Buffer, x0, y0 int, lines []mdstream.Line) {
	for i, l := range lines {
		writeLine(buf, x0, y0+i, l)
	}
}

func clearRow(buf *cellbuf.Buffer, area cellbuf.Rect, y int) {
	buf.SetString(area.X, y, strings.Repeat(" ", area.Width), ansi.Reset, ansi.Reset, 0)
}

func copyRow(dst, src *cellbuf.Buffer, area cellbuf.Rect, dstY, srcY int) {
	for x := 0; x < area.Width; x++ {
		c, ok := src.Get(x, srcY)
		if !ok {
			c = cellbuf.Cell{Symbol: " "}
		}
		if c.Symbol == "" && !c.Skip {
			c.Symbol = " "
		}
		dst.Set(area.X+x, dstY, c)
	}
}
