// Package mdstream implements the newline-gated markdown accumulator: text
// deltas are appended to a buffer, and only logical lines that are fully
// terminated by a newline are rendered and released, so a paragraph never
// flickers half-rendered while more of it is still streaming in.
//
// CommitCompleteLines re-renders the whole committed prefix on every call
// (cheap relative to network latency) and only returns the slice beyond a
// watermark, trimming exactly one trailing blank line if the render
// produced one.
package mdstream

import "strings"

// Collector accumulates streamed markdown text and commits complete lines.
type Collector struct {
	buf                strings.Builder
	committedLineCount int
	width              int // 0 means unwrapped
}

// NewCollector returns a collector that wraps rendered output at width
// columns, or not at all if width <= 0.
func NewCollector(width int) *Collector {
	return &Collector{width: width}
}

// Clear resets the collector to an empty state.
func (c *Collector) Clear() {
	c.buf.Reset()
	c.committedLineCount = 0
}

// SetWidth changes the wrap width used by future renders.
func (c *Collector) SetWidth(width int) {
	c.width = width
}

// PushDelta appends streamed text to the buffer.
func (c *Collector) PushDelta(delta string) {
	c.buf.WriteString(delta)
}

// CurrentTail returns the buffer content after the last newline (or the
// whole buffer if it contains none): the in-progress, uncommitted line.
func (c *Collector) CurrentTail() string {
	s := c.buf.String()
	if idx := strings.LastIndexByte(s, '\n'); idx >= 0 {
		return s[idx+1:]
	}
	return s
}

// CommitCompleteLines renders the buffer up to and including its last
// newline and returns only the logical lines not yet returned by a
// previous call.
func (c *Collector) CommitCompleteLines() []Line {
	s := c.buf.String()
	idx := strings.LastIndexByte(s, '\n')
	if idx < 0 {
		return nil
	}
	source := s[:idx+1]
	rendered := renderMarkdownLines(source, c.width)

	completeLineCount := len(rendered)
	if completeLineCount > 0 && rendered[completeLineCount-1].IsBlank() {
		completeLineCount--
	}

	if c.committedLineCount >= completeLineCount {
		return nil
	}
	out := append([]Line(nil), rendered[c.committedLineCount:completeLineCount]...)
	c.committedLineCount = completeLineCount
	return out
}

// FinalizeAndDrain renders the whole buffer (appending a virtual trailing
// newline if missing), returns everything not yet committed, and clears
// the collector.
func (c *Collector) FinalizeAndDrain() []Line {
	source := c.buf.String()
	if !strings.HasSuffix(source, "\n") {
		source += "\n"
	}
	rendered := renderMarkdownLines(source, c.width)

	end := len(rendered)
	for end > c.committedLineCount && rendered[end-1].IsBlank() {
		end--
	}

	var out []Line
	if c.committedLineCount < end {
		out = append([]Line(nil), rendered[c.committedLineCount:end]...)
	}
	c.Clear()
	return out
}
