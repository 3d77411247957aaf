// Package transcript holds the committed-messages-plus-one-active-message
// model: the ordered history of an assistant turn, each message a sequence
// of typed blocks (plain text, reasoning, tool calls, user text).
//
// Only the active message may receive deltas; committing it makes it
// immutable and eligible for scrollback emission.
package transcript

import (
	"github.com/corestream/termui/internal/tui/mdstream"
	"github.com/corestream/termui/internal/tui/toolrender"
)

// BlockKind distinguishes the one-of-four block variants a message holds.
type BlockKind int

const (
	KindPlainText BlockKind = iota
	KindThinking
	KindToolUse
	KindUserText
)

// Block is one entry of a message's ordered content. Exactly one of the
// kind-specific fields is meaningful, selected by Kind.
type Block struct {
	Kind BlockKind

	// PlainText / Thinking / UserText: markdown source (UserText is plain
	// text rendered with a prefix, but stored the same way).
	Text string

	// ToolUse fields.
	ToolName     string
	ToolID       string
	ParamOrder   []string
	ParamValues  map[string]string
	Status       toolrender.Status
	StatusMsg    string
	HasStatusMsg bool
	Output       string
}

// HasContent reports whether the block carries anything worth committing
// to scrollback. Purely a function of the block's current fields.
func (b *Block) HasContent() bool {
	switch b.Kind {
	case KindPlainText, KindThinking, KindUserText:
		return b.Text != ""
	case KindToolUse:
		return true // a tool call is always content-bearing once started
	default:
		return false
	}
}

// NewPlainText returns an empty streaming plain-text block.
func NewPlainText() Block { return Block{Kind: KindPlainText} }

// NewThinking returns an empty streaming thinking block.
func NewThinking() Block { return Block{Kind: KindThinking} }

// NewUserText returns a finalized user-text block.
func NewUserText(content string) Block { return Block{Kind: KindUserText, Text: content} }

// NewToolUse returns a new pending tool-use block.
func NewToolUse(name, id string) Block {
	return Block{
		Kind:        KindToolUse,
		ToolName:    name,
		ToolID:      id,
		ParamValues: make(map[string]string),
		Status:      toolrender.StatusPending,
	}
}

// AppendParam appends (or starts) a parameter value, preserving insertion
// order of distinct keys. Values are append-only during streaming.
func (b *Block) AppendParam(name, value string) {
	if b.ParamValues == nil {
		b.ParamValues = make(map[string]string)
	}
	if _, ok := b.ParamValues[name]; !ok {
		b.ParamOrder = append(b.ParamOrder, name)
	}
	b.ParamValues[name] += value
}

// SetStatus replaces a tool block's status/message/output. May only be
// called on an existing block (the orchestrator looks the block up by id
// first).
func (b *Block) SetStatus(status toolrender.Status, message string, hasMessage bool, output string, hasOutput bool) {
	b.Status = status
	if hasMessage {
		b.StatusMsg = message
		b.HasStatusMsg = true
	}
	if hasOutput {
		b.Output = output
	}
}

// AppendOutput appends a chunk to a tool block's streamed output.
func (b *Block) AppendOutput(chunk string) { b.Output += chunk }

// ToolView converts a block to the renderer-facing view expected by
// toolrender. Only valid for KindToolUse blocks; exported for the
// orchestrator's live-viewport painting.
func (b *Block) ToolView() *toolrender.ToolUse {
	return b.asToolUse()
}

// asToolUse converts a block to the renderer-facing view expected by
// toolrender. Only valid for KindToolUse blocks.
func (b *Block) asToolUse() *toolrender.ToolUse {
	params := make(map[string]toolrender.Param, len(b.ParamValues))
	for k, v := range b.ParamValues {
		params[k] = toolrender.Param{Value: v}
	}
	return &toolrender.ToolUse{
		Name:             b.ToolName,
		ID:               b.ToolID,
		Parameters:       params,
		ParamOrder:       append([]string(nil), b.ParamOrder...),
		Status:           b.Status,
		StatusMessage:    b.StatusMsg,
		HasStatusMessage: b.HasStatusMsg,
		Output:           b.Output,
	}
}

// Message is an ordered sequence of blocks belonging to one turn (or one
// user utterance).
type Message struct {
	Blocks               []Block
	StreamedToScrollback bool
	Committed            bool
}

// HasContent reports whether any block in the message carries content.
func (m *Message) HasContent() bool {
	for i := range m.Blocks {
		if m.Blocks[i].HasContent() {
			return true
		}
	}
	return false
}

// FindToolUse locates a ToolUse block by id, returning its index.
func (m *Message) FindToolUse(id string) (int, bool) {
	for i := range m.Blocks {
		if m.Blocks[i].Kind == KindToolUse && m.Blocks[i].ToolID == id {
			return i, true
		}
	}
	return -1, false
}

// LastBlockKind returns the kind of the message's last block, and whether
// one exists.
func (m *Message) LastBlockKind() (BlockKind, bool) {
	if len(m.Blocks) == 0 {
		return 0, false
	}
	return m.Blocks[len(m.Blocks)-1].Kind, true
}

// Transcript holds committed messages plus at most one active (streaming)
// message, and a watermark over which committed messages still need to be
// flushed to scrollback.
type Transcript struct {
	Committed              []*Message
	Active                 *Message
	committedRenderedCount int
}

// New returns an empty transcript.
func New() *Transcript {
	return &Transcript{}
}

// Clear drops all committed and active messages.
func (t *Transcript) Clear() {
	t.Committed = nil
	t.Active = nil
	t.committedRenderedCount = 0
}

// StartActiveMessage commits the current active message if it carries
// content, then allocates a fresh empty active message.
func (t *Transcript) StartActiveMessage() *Message {
	t.commitActiveIfContentBearing()
	t.Active = &Message{}
	return t.Active
}

func (t *Transcript) commitActiveIfContentBearing() {
	if t.Active == nil {
		return
	}
	if t.Active.HasContent() {
		t.Active.Committed = true
		t.Committed = append(t.Committed, t.Active)
	}
	t.Active = nil
}

// PushCommittedMessage appends an already-finalized message directly to
// history (used for synthesized UserText messages).
func (t *Transcript) PushCommittedMessage(m *Message) {
	m.Committed = true
	t.Committed = append(t.Committed, m)
}

// FlushActive commits the active message (if content-bearing) and clears
// it, without starting a new one. Used when a turn ends with no more
// deltas expected.
func (t *Transcript) FlushActive() {
	t.commitActiveIfContentBearing()
}

// UnrenderedCommittedMessages returns the suffix of committed messages not
// yet marked as rendered to scrollback.
func (t *Transcript) UnrenderedCommittedMessages() []*Message {
	if t.committedRenderedCount >= len(t.Committed) {
		return nil
	}
	return t.Committed[t.committedRenderedCount:]
}

// MarkCommittedAsRendered advances the rendered watermark to the end of the
// current committed list.
func (t *Transcript) MarkCommittedAsRendered() {
	t.committedRenderedCount = len(t.Committed)
}

// AsHistoryLines fully renders every block of m into styled scrollback
// lines at the given width, with a blank line between blocks (unless the
// previous block already ended blank).
func AsHistoryLines(m *Message, width int, registry *toolrender.Registry) []mdstream.Line {
	return renderMessage(m, width, registry, false)
}

// AsHistoryLinesNonStreamedOnly renders only the ToolUse and UserText
// blocks of m, skipping PlainText/Thinking content already emitted to
// scrollback while streaming.
func AsHistoryLinesNonStreamedOnly(m *Message, width int, registry *toolrender.Registry) []mdstream.Line {
	return renderMessage(m, width, registry, true)
}

func renderMessage(m *Message, width int, registry *toolrender.Registry, skipStreamed bool) []mdstream.Line {
	var out []mdstream.Line
	prevEndedBlank := true
	for i := range m.Blocks {
		b := &m.Blocks[i]
		if skipStreamed && (b.Kind == KindPlainText || b.Kind == KindThinking) {
			continue
		}
		lines := renderBlock(b, width, registry)
		if len(lines) == 0 {
			continue
		}
		if !prevEndedBlank {
			out = append(out, mdstream.Line{})
		}
		out = append(out, lines...)
		prevEndedBlank = len(lines) > 0 && lines[len(lines)-1].IsBlank()
	}
	return out
}

func renderBlock(b *Block, width int, registry *toolrender.Registry) []mdstream.Line {
	switch b.Kind {
	case KindPlainText:
		return mdstreamRender(b.Text, width-2)
	case KindThinking:
		return dimItalicize(mdstreamRender(b.Text, width-2))
	case KindUserText:
		return renderUserText(b.Text, width)
	case KindToolUse:
		return registry.GetOrGeneric(b.ToolName).RenderHistoryLines(b.asToolUse())
	default:
		return nil
	}
}

// mdstreamRender finalizes a complete (non-streaming) markdown string into
// styled lines at the given width, using the same pipeline as the streaming
// collector but as a one-shot render.
func mdstreamRender(content string, width int) []mdstream.Line {
	c := mdstream.NewCollector(width)
	c.PushDelta(content)
	return c.FinalizeAndDrain()
}

func dimItalicize(lines []mdstream.Line) []mdstream.Line {
	out := make([]mdstream.Line, len(lines))
	for i, l := range lines {
		spans := make([]mdstream.Span, len(l.Spans))
		for j, sp := range l.Spans {
			sp.Fg = darkGray
			sp.Mod |= dimItalicMod
			spans[j] = sp
		}
		out[i] = mdstream.Line{Spans: spans}
	}
	return out
}
