package transcript

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/corestream/termui/internal/tui/toolrender"
)

func TestStartActiveMessageCommitsPriorIfContentBearing(t *testing.T) {
	tr := New()

	first := tr.StartActiveMessage()
	first.Blocks = append(first.Blocks, NewPlainText())
	first.Blocks[0].Text = "hello\n"

	second := tr.StartActiveMessage()
	require.NotSame(t, first, second)
	require.Len(t, tr.Committed, 1)
	assert.True(t, tr.Committed[0].Committed)
	assert.Same(t, first, tr.Committed[0])
}

func TestStartActiveMessageDropsEmptyPrior(t *testing.T) {
	tr := New()
	tr.StartActiveMessage() // empty active, never mutated
	tr.StartActiveMessage()
	assert.Empty(t, tr.Committed)
}

func TestEmptyMessagesNeverCommitted(t *testing.T) {
	m := &Message{}
	assert.False(t, m.HasContent())

	m.Blocks = append(m.Blocks, NewPlainText())
	assert.False(t, m.HasContent())

	m.Blocks[0].Text = "x"
	assert.True(t, m.HasContent())
}

func TestToolUseBlockUniqueID(t *testing.T) {
	m := &Message{}
	m.Blocks = append(m.Blocks, NewToolUse("read_files", "t1"))
	_, ok := m.FindToolUse("t1")
	assert.True(t, ok)
	_, ok = m.FindToolUse("missing")
	assert.False(t, ok)
}

func TestAppendParamPreservesInsertionOrder(t *testing.T) {
	b := NewToolUse("read_files", "t1")
	b.AppendParam("paths", "/a")
	b.AppendParam("project", "foo")
	b.AppendParam("paths", "/b")
	assert.Equal(t, []string{"paths", "project"}, b.ParamOrder)
	assert.Equal(t, "/a/b", b.ParamValues["paths"])
}

func TestUnrenderedCommittedMessagesCursor(t *testing.T) {
	tr := New()
	m1 := &Message{Blocks: []Block{{Kind: KindUserText, Text: "hi"}}}
	tr.PushCommittedMessage(m1)

	unrendered := tr.UnrenderedCommittedMessages()
	require.Len(t, unrendered, 1)
	tr.MarkCommittedAsRendered()
	assert.Empty(t, tr.UnrenderedCommittedMessages())

	m2 := &Message{Blocks: []Block{{Kind: KindUserText, Text: "bye"}}}
	tr.PushCommittedMessage(m2)
	unrendered = tr.UnrenderedCommittedMessages()
	require.Len(t, unrendered, 1)
	assert.Same(t, m2, unrendered[0])
}

func TestAsHistoryLinesNonStreamedOnlySkipsTextAndThinking(t *testing.T) {
	registry := toolrender.NewRegistry()
	m := &Message{Blocks: []Block{
		{Kind: KindPlainText, Text: "hello\n"},
		NewToolUse("execute_command", "t1"),
	}}
	m.Blocks[1].SetStatus(toolrender.StatusSuccess, "", false, "ok\n", true)

	lines := AsHistoryLinesNonStreamedOnly(m, 40, registry)
	for _, l := range lines {
		assert.NotContains(t, l.Plain(), "hello")
	}

	full := AsHistoryLines(m, 40, registry)
	found := false
	for _, l := range full {
		if l.Plain() == "hello" {
			found = true
		}
	}
	assert.True(t, found)
}
