package orchestrator

import (
	"github.com/google/uuid"

	"github.com/corestream/termui/internal/transcript"
	"github.com/corestream/termui/internal/tui/composer"
	"github.com/corestream/termui/internal/tui/mdstream"
	"github.com/corestream/termui/internal/tui/streamctl"
	"github.com/corestream/termui/internal/tui/toolrender"
	"github.com/corestream/termui/internal/tui/tuilog"
)

// lastStreamKind tracks which of Text/Thinking most recently received a
// delta, used to detect a kind switch and to drive the hidden-tool
// paragraph-break heuristic.
type lastStreamKind int

const (
	kindNone lastStreamKind = iota
	kindText
	kindThinking
)

// Orchestrator is the per-frame renderer: transcript, streaming
// controller, status widgets, and composer, combined into paint output.
type Orchestrator struct {
	Transcript *transcript.Transcript
	Stream     *streamctl.Controller
	Registry   *toolrender.Registry
	Composer   *composer.Composer

	spinner Spinner

	pendingUserMessage string
	hasPendingUser     bool
	errorMessage       string
	hasError           bool
	infoMessage        string
	hasInfo            bool

	plan         *PlanState
	planExpanded bool

	overlayActive bool

	deferredHistory []mdstream.Line
	pendingHistory  []mdstream.Line

	lastWidth int

	streamingOpen bool
	lastKind      lastStreamKind

	// hiddenToolLastBlockKind is the kind of the last PlainText/Thinking
	// block appended, tracked independently of tool insertions (which
	// don't reset it) so the paragraph-break heuristic can compare across
	// an intervening hidden tool call.
	hiddenToolLastBlockKind lastStreamKind
	hiddenToolPending       bool
}

// New returns a ready-to-use orchestrator wired to fresh component state.
func New() *Orchestrator {
	return &Orchestrator{
		Transcript: transcript.New(),
		Stream:     streamctl.New(),
		Registry:   toolrender.Global(),
		Composer:   composer.New(),
	}
}

// NeedsAnimationTimer reports whether the event loop should keep waking
// every 50ms: true while the spinner is visible or a stream is open.
func (o *Orchestrator) NeedsAnimationTimer() bool {
	return o.spinner.Mode != SpinnerHidden || o.streamingOpen
}

// Tick advances the spinner's animation frame. Called once per 50ms
// animation wakeup while NeedsAnimationTimer is true.
func (o *Orchestrator) Tick() { o.spinner.Tick() }

// TickSecond decrements a rate-limit countdown by one second. Called once
// per wall-clock second, independent of the finer-grained Tick.
func (o *Orchestrator) TickSecond() { o.spinner.TickSecond() }

// PendingHistoryLines drains and returns the lines accumulated since the
// last drain, for the driver to push above the viewport.
func (o *Orchestrator) PendingHistoryLines() []mdstream.Line {
	lines := o.pendingHistory
	o.pendingHistory = nil
	return lines
}

// Prepare runs the per-frame preparation sequence: set the stream wrap
// width, run one commit tick, flush deferred history when no overlay is
// active, then render newly-committed messages into pending history.
func (o *Orchestrator) Prepare(width, height int) {
	o.lastWidth = width
	streamWidth := width - 2
	if streamWidth < 1 {
		streamWidth = 1
	}
	o.Stream.SetWidth(streamWidth)

	drained := o.Stream.DrainCommitTick()
	o.appendDrained(drained)

	if !o.overlayActive {
		o.flushDeferredHistory()
	}

	o.renderNewlyCommitted(width)
}

func (o *Orchestrator) appendDrained(d streamctl.DrainedLines) {
	if len(d.Text) == 0 && len(d.Thinking) == 0 {
		return
	}
	lines := append(append([]mdstream.Line{}, d.Text...), d.Thinking...)
	o.enqueueHistory(lines)
	if o.Transcript.Active != nil {
		o.Transcript.Active.StreamedToScrollback = true
	}
}

func (o *Orchestrator) enqueueHistory(lines []mdstream.Line) {
	if len(lines) == 0 {
		return
	}
	if o.overlayActive {
		o.deferredHistory = append(o.deferredHistory, lines...)
		return
	}
	o.pendingHistory = append(o.pendingHistory, lines...)
}

func (o *Orchestrator) flushDeferredHistory() {
	if len(o.deferredHistory) == 0 {
		return
	}
	o.pendingHistory = append(o.pendingHistory, o.deferredHistory...)
	o.deferredHistory = nil
}

func (o *Orchestrator) renderNewlyCommitted(width int) {
	for _, m := range o.Transcript.UnrenderedCommittedMessages() {
		var lines []mdstream.Line
		if m.StreamedToScrollback {
			lines = transcript.AsHistoryLinesNonStreamedOnly(m, width, o.Registry)
		} else {
			lines = transcript.AsHistoryLines(m, width, o.Registry)
		}
		if len(lines) > 0 && !lines[len(lines)-1].IsBlank() {
			lines = append(lines, mdstream.Line{})
		}
		o.enqueueHistory(lines)
	}
	o.Transcript.MarkCommittedAsRendered()
}

// Dispatch applies one inbound UI event to the orchestrator's state.
func (o *Orchestrator) Dispatch(ev Event) {
	switch e := ev.(type) {
	case StreamingStarted:
		o.streamingOpen = true
		o.spinner.ShowWorking()
	case TextDelta:
		o.handleDelta(streamctl.KindText, e.Content)
	case ThinkingDelta:
		o.handleDelta(streamctl.KindThinking, e.Content)
	case StartTool:
		o.startTool(e.Name, e.ID)
	case UpdateToolParameter:
		o.updateToolParameter(e.ID, e.Name, e.Value)
	case UpdateToolStatus:
		o.updateToolStatus(e)
	case AppendToolOutput:
		o.appendToolOutput(e.ID, e.Chunk)
	case MarkHiddenToolCompleted:
		o.hiddenToolPending = true
	case AddUserMessage:
		o.addUserMessage(e.Content)
	case AddInstructionMessage:
		o.addInstructionMessage(e.Content)
	case SetPendingUserMessage:
		o.pendingUserMessage, o.hasPendingUser = e.Content, e.Has
	case UpdateCurrentModel:
		_ = e // surfaced via appstate, not orchestrator-local state
	case SetInfo:
		o.infoMessage, o.hasInfo = e.Message, e.Has
	case SetError:
		o.errorMessage, o.hasError = e.Message, e.Has
	case SetPlanState:
		o.plan = e.Plan
	case SetPlanExpanded:
		o.planExpanded = e.Expanded
	case SetOverlayActive:
		wasActive := o.overlayActive
		o.overlayActive = e.Active
		if wasActive && !o.overlayActive {
			o.flushDeferredHistory()
		}
	case ShowRateLimitSpinner:
		o.spinner.ShowRateLimit(e.Seconds)
	case HideSpinner:
		o.spinner.Hide()
	case ClearAllMessages:
		o.Transcript.Clear()
		o.Stream.Clear()
		o.streamingOpen = false
		o.lastKind = kindNone
	case AddStyledHistoryLines:
		o.enqueueHistory(e.Lines)
	}
}

// handleDelta implements the streaming sequencing rules: recovering with a
// synthetic stream start if no active message exists, dropping the delta
// if streaming was explicitly closed, and flushing the departing kind (plus
// a blank separator) on a kind switch.
func (o *Orchestrator) handleDelta(kind streamctl.Kind, content string) {
	if !o.streamingOpen {
		if o.Transcript.Active == nil {
			tuilog.Warn("delta arrived before StreamingStarted: recovering with synthetic stream start", "kind", kind)
			o.Transcript.StartActiveMessage()
			o.streamingOpen = true
		} else {
			tuilog.Warn("delta dropped: streaming explicitly closed", "kind", kind)
			return
		}
	}
	if o.Transcript.Active == nil {
		o.Transcript.StartActiveMessage()
	}

	newKind := kindText
	if kind == streamctl.KindThinking {
		newKind = kindThinking
	}
	if o.lastKind != kindNone && o.lastKind != newKind {
		o.flushKindSwitch(o.lastKind)
	}
	o.lastKind = newKind

	o.Stream.Push(kind, content)
	o.appendActiveBlockText(newKind, content)
}

func (o *Orchestrator) flushKindSwitch(departing lastStreamKind) {
	kind := streamctl.KindText
	if departing == kindThinking {
		kind = streamctl.KindThinking
	}
	lines := o.Stream.FlushKind(kind)
	lines = append(lines, mdstream.Line{})
	o.enqueueHistory(lines)
	if o.Transcript.Active != nil {
		o.Transcript.Active.StreamedToScrollback = true
	}
}

// appendActiveBlockText ensures the active message's last block matches
// kind, applying a pending hidden-tool paragraph break first if the block
// kind in play now matches the one that preceded the hidden tool, then
// appends content to it.
func (o *Orchestrator) appendActiveBlockText(kind lastStreamKind, content string) {
	m := o.Transcript.Active
	wantKind := transcript.KindPlainText
	if kind == kindThinking {
		wantKind = transcript.KindThinking
	}

	last, hasLast := m.LastBlockKind()
	sameKind := hasLast && last == wantKind

	if o.hiddenToolPending {
		if sameKind && o.hiddenToolLastBlockKind == kind {
			m.Blocks[len(m.Blocks)-1].Text += "\n\n"
		}
		o.hiddenToolPending = false
	}
	o.hiddenToolLastBlockKind = kind

	if sameKind {
		m.Blocks[len(m.Blocks)-1].Text += content
		return
	}
	var b transcript.Block
	if wantKind == transcript.KindThinking {
		b = transcript.NewThinking()
	} else {
		b = transcript.NewPlainText()
	}
	b.Text = content
	m.Blocks = append(m.Blocks, b)
}

func (o *Orchestrator) startTool(name, id string) {
	if id == "" {
		id = uuid.NewString()
		tuilog.Warn("tool start without an id: synthesizing one", "name", name, "id", id)
	}
	if o.Transcript.Active == nil {
		tuilog.Warn("tool start with no active message: synthesizing one")
		o.Transcript.StartActiveMessage()
	}
	o.flushBothStreamsForTool()
	o.Transcript.Active.Blocks = append(o.Transcript.Active.Blocks, transcript.NewToolUse(name, id))
	o.lastKind = kindNone
}

func (o *Orchestrator) flushBothStreamsForTool() {
	drained := o.Stream.FlushPending()
	lines := append(append([]mdstream.Line{}, drained.Text...), drained.Thinking...)
	if len(lines) > 0 {
		lines = append(lines, mdstream.Line{})
		o.enqueueHistory(lines)
		if o.Transcript.Active != nil {
			o.Transcript.Active.StreamedToScrollback = true
		}
	}
}

func (o *Orchestrator) findActiveTool(id string) (*transcript.Block, bool) {
	if o.Transcript.Active == nil {
		return nil, false
	}
	idx, ok := o.Transcript.Active.FindToolUse(id)
	if !ok {
		return nil, false
	}
	return &o.Transcript.Active.Blocks[idx], true
}

func (o *Orchestrator) updateToolParameter(id, name, value string) {
	b, ok := o.findActiveTool(id)
	if !ok {
		tuilog.Warn("tool parameter update for unknown id", "id", id)
		return
	}
	b.AppendParam(name, value)
}

func (o *Orchestrator) updateToolStatus(e UpdateToolStatus) {
	b, ok := o.findActiveTool(e.ID)
	if !ok {
		tuilog.Warn("tool status update for unknown id", "id", e.ID)
		return
	}
	b.SetStatus(e.Status, e.Message, e.HasMessage, e.Output, e.HasOutput)
}

func (o *Orchestrator) appendToolOutput(id, chunk string) {
	b, ok := o.findActiveTool(id)
	if !ok {
		tuilog.Warn("tool output for unknown id", "id", id)
		return
	}
	b.AppendOutput(chunk)
}

// addUserMessage finalizes and flushes any active stream, clears stream
// state, then appends a synthesized UserText-only message as committed.
func (o *Orchestrator) addUserMessage(content string) {
	o.finalizeActive()
	o.Stream.Clear()
	o.streamingOpen = false
	o.lastKind = kindNone

	m := &transcript.Message{Blocks: []transcript.Block{transcript.NewUserText(content)}}
	o.Transcript.PushCommittedMessage(m)
}

func (o *Orchestrator) addInstructionMessage(content string) {
	o.finalizeActive()
	m := &transcript.Message{Blocks: []transcript.Block{transcript.NewPlainText()}}
	m.Blocks[0].Text = content
	o.Transcript.PushCommittedMessage(m)
}

func (o *Orchestrator) finalizeActive() {
	drained := o.Stream.FlushPending()
	o.appendDrained(drained)
	o.Transcript.FlushActive()
}
