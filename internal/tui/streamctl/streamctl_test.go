package streamctl

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewlineGatingCommitsOnlyCompleteLines(t *testing.T) {
	c := New()
	c.Push(KindText, "hello")
	drained := c.DrainCommitTick()
	assert.Empty(t, drained.Text)

	c.Push(KindText, " world\nnext")
	drained = c.DrainCommitTick()
	assert.Len(t, drained.Text, 1)
	assert.Equal(t, "next", c.TailText(KindText))
}

func TestFlushPendingDrainsQueueAndPartials(t *testing.T) {
	c := New()
	c.Push(KindText, "line\n")
	c.Push(KindText, "tail")

	drained := c.FlushPending()
	assert.Len(t, drained.Text, 2)
	assert.Empty(t, c.TailText(KindText))
}

func TestIdenticalConsecutiveDeltasArePreserved(t *testing.T) {
	c := New()
	c.Push(KindText, "dup line\n")
	c.Push(KindText, "dup line\n")

	drained := c.FlushPending()
	assert.Len(t, drained.Text, 2)
}

func TestHasSeenAnyDelta(t *testing.T) {
	c := New()
	assert.False(t, c.HasSeenAnyDelta())
	c.Push(KindThinking, "thinking...")
	assert.True(t, c.HasSeenAnyDelta())
}

func TestFlushKindOnlyFlushesThatKind(t *testing.T) {
	c := New()
	c.Push(KindThinking, "partial thought")
	c.Push(KindText, "some text\n")

	thinkingLines := c.FlushKind(KindThinking)
	assert.Len(t, thinkingLines, 1)
	assert.Empty(t, c.TailText(KindThinking))
	assert.Equal(t, "", c.TailText(KindText))
}
