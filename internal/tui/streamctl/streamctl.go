// Package streamctl drives the adaptive streaming display: text/thinking
// deltas accumulate in a per-kind mdstream.Collector, complete lines queue
// up, and each animation tick the chunking policy decides whether to drain
// one line (smooth) or the whole backlog (catch-up).
package streamctl

import (
	"time"

	"github.com/corestream/termui/internal/tui/chunking"
	"github.com/corestream/termui/internal/tui/mdstream"
)

// Kind distinguishes the two streamed channels.
type Kind int

const (
	KindText Kind = iota
	KindThinking
)

type queuedLine struct {
	line       mdstream.Line
	enqueuedAt time.Time
}

// StreamState holds one kind's in-flight collector and queued committed
// lines.
type StreamState struct {
	Collector    *mdstream.Collector
	queued       []queuedLine
	HasSeenDelta bool
}

func newStreamState(width int) *StreamState {
	return &StreamState{Collector: mdstream.NewCollector(width)}
}

func (s *StreamState) setWidth(width int) { s.Collector.SetWidth(width) }

func (s *StreamState) clear() {
	s.Collector.Clear()
	s.queued = nil
	s.HasSeenDelta = false
}

func (s *StreamState) drainN(maxLines int) []mdstream.Line {
	if maxLines > len(s.queued) {
		maxLines = len(s.queued)
	}
	out := make([]mdstream.Line, maxLines)
	for i := 0; i < maxLines; i++ {
		out[i] = s.queued[i].line
	}
	s.queued = s.queued[maxLines:]
	return out
}

func (s *StreamState) drainAll() []mdstream.Line {
	return s.drainN(len(s.queued))
}

func (s *StreamState) queuedLen() int { return len(s.queued) }

func (s *StreamState) oldestQueuedAge(now time.Time) (time.Duration, bool) {
	if len(s.queued) == 0 {
		return 0, false
	}
	return now.Sub(s.queued[0].enqueuedAt), true
}

func (s *StreamState) enqueue(lines []mdstream.Line) {
	if len(lines) == 0 {
		return
	}
	now := time.Now()
	for _, l := range lines {
		s.queued = append(s.queued, queuedLine{line: l, enqueuedAt: now})
	}
}

// DrainedLines is the result of one commit tick or flush: newly releasable
// lines for each kind.
type DrainedLines struct {
	Text     []mdstream.Line
	Thinking []mdstream.Line
}

// Controller owns both streamed kinds and the shared chunking policy.
type Controller struct {
	textState     *StreamState
	thinkingState *StreamState
	policy        *chunking.Policy
}

// New returns a controller with unwrapped (width 0) collectors.
func New() *Controller {
	return &Controller{
		textState:     newStreamState(0),
		thinkingState: newStreamState(0),
		policy:        chunking.New(),
	}
}

// Clear resets both streams and the chunking policy.
func (c *Controller) Clear() {
	c.textState.clear()
	c.thinkingState.clear()
	c.policy.Reset()
}

// SetWidth updates the wrap width used by both collectors.
func (c *Controller) SetWidth(width int) {
	c.textState.setWidth(width)
	c.thinkingState.setWidth(width)
}

func (c *Controller) state(kind Kind) *StreamState {
	if kind == KindThinking {
		return c.thinkingState
	}
	return c.textState
}

// Push appends a delta to the given kind's collector, committing complete
// lines (and enqueuing them) whenever the delta contains a newline.
func (c *Controller) Push(kind Kind, content string) {
	if content == "" {
		return
	}
	state := c.state(kind)
	state.HasSeenDelta = true
	state.Collector.PushDelta(content)

	if containsNewline(content) {
		committed := state.Collector.CommitCompleteLines()
		if len(committed) > 0 {
			state.enqueue(committed)
		}
	}
}

func containsNewline(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] == '\n' {
			return true
		}
	}
	return false
}

// DrainCommitTick runs one animation-frame tick of the chunking policy at
// the current time and drains the resulting number of lines from each
// stream.
func (c *Controller) DrainCommitTick() DrainedLines {
	return c.drainCommitTickAt(time.Now())
}

func (c *Controller) drainCommitTickAt(now time.Time) DrainedLines {
	snapshot := c.queueSnapshot(now)
	decision := c.policy.Decide(snapshot, now)

	var maxLines int
	if decision.Plan.Batch {
		maxLines = decision.Plan.Count
		if maxLines < 1 {
			maxLines = 1
		}
	} else {
		maxLines = 1
	}

	return DrainedLines{
		Text:     c.textState.drainN(maxLines),
		Thinking: c.thinkingState.drainN(maxLines),
	}
}

func (c *Controller) queueSnapshot(now time.Time) chunking.QueueSnapshot {
	queuedLines := c.textState.queuedLen() + c.thinkingState.queuedLen()
	textAge, textHas := c.textState.oldestQueuedAge(now)
	thinkAge, thinkHas := c.thinkingState.oldestQueuedAge(now)

	age, has := maxDuration(textAge, textHas, thinkAge, thinkHas)
	return chunking.QueueSnapshot{QueuedLines: queuedLines, OldestAge: age, HasOldest: has}
}

func maxDuration(a time.Duration, hasA bool, b time.Duration, hasB bool) (time.Duration, bool) {
	switch {
	case hasA && hasB:
		if a > b {
			return a, true
		}
		return b, true
	case hasA:
		return a, true
	case hasB:
		return b, true
	default:
		return 0, false
	}
}

// FlushPending finalizes and drains both streams entirely, including any
// partial (un-newline-terminated) tail content, and resets the chunking
// policy.
func (c *Controller) FlushPending() DrainedLines {
	textRemaining := c.textState.Collector.FinalizeAndDrain()
	if len(textRemaining) > 0 {
		c.textState.enqueue(textRemaining)
	}
	thinkingRemaining := c.thinkingState.Collector.FinalizeAndDrain()
	if len(thinkingRemaining) > 0 {
		c.thinkingState.enqueue(thinkingRemaining)
	}

	c.policy.Reset()
	return DrainedLines{
		Text:     c.textState.drainAll(),
		Thinking: c.thinkingState.drainAll(),
	}
}

// FlushKind finalizes and drains a single stream kind, used when switching
// kinds mid-stream (e.g. thinking -> text).
func (c *Controller) FlushKind(kind Kind) []mdstream.Line {
	state := c.state(kind)
	remaining := state.Collector.FinalizeAndDrain()
	if len(remaining) > 0 {
		state.enqueue(remaining)
	}
	return state.drainAll()
}

// TailText returns the uncommitted tail of a stream's collector.
func (c *Controller) TailText(kind Kind) string {
	return c.state(kind).Collector.CurrentTail()
}

// HasSeenAnyDelta reports whether either stream has received a delta since
// the last Clear.
func (c *Controller) HasSeenAnyDelta() bool {
	return c.textState.HasSeenDelta || c.thinkingState.HasSeenDelta
}
