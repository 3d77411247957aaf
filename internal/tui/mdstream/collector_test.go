package mdstream

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func plainAll(lines []Line) []string {
	var out []string
	for _, l := range lines {
		out = append(out, l.Plain())
	}
	return out
}

func TestNoOutputBeforeNewline(t *testing.T) {
	c := NewCollector(0)
	c.PushDelta("partial line with no terminator")
	assert.Empty(t, c.CommitCompleteLines())
	assert.Equal(t, "partial line with no terminator", c.CurrentTail())
}

func TestCommitReturnsOnlyNewlyEligibleLines(t *testing.T) {
	c := NewCollector(0)
	c.PushDelta("first\n")
	first := c.CommitCompleteLines()
	require.Len(t, first, 1)
	assert.Equal(t, "first", first[0].Plain())

	// "first\nsecond\n" renders as one paragraph of two lines; only the
	// line beyond the watermark comes back.
	c.PushDelta("second\n")
	second := c.CommitCompleteLines()
	require.Len(t, second, 1)
	assert.Equal(t, "second", second[0].Plain())

	assert.Empty(t, c.CommitCompleteLines(), "watermark must advance monotonically")
}

func TestTailExcludedFromCommit(t *testing.T) {
	c := NewCollector(0)
	c.PushDelta("done\nstill typ")
	lines := c.CommitCompleteLines()
	require.Len(t, lines, 1)
	assert.Equal(t, "done", lines[0].Plain())
	assert.Equal(t, "still typ", c.CurrentTail())
}

func TestFinalizeAppendsVirtualNewlineAndClears(t *testing.T) {
	c := NewCollector(0)
	c.PushDelta("no trailing newline")
	lines := c.FinalizeAndDrain()
	require.Len(t, lines, 1)
	assert.Equal(t, "no trailing newline", lines[0].Plain())

	assert.Equal(t, "", c.CurrentTail())
	assert.Empty(t, c.FinalizeAndDrain())
}

func TestDrainedPlusTailCoversAllDeltas(t *testing.T) {
	c := NewCollector(0)
	deltas := []string{"alpha ", "beta\ngam", "ma\ndel", "ta"}
	var drained []Line
	for _, d := range deltas {
		c.PushDelta(d)
		drained = append(drained, c.CommitCompleteLines()...)
	}
	tail := c.CurrentTail()
	drained = append(drained, c.FinalizeAndDrain()...)

	joined := strings.Join(plainAll(drained), "\n")
	assert.Contains(t, joined, "alpha beta")
	assert.Contains(t, joined, "gamma")
	assert.Contains(t, joined, "delta")
	assert.Equal(t, "delta", tail)
}

func TestWrapAtWidth(t *testing.T) {
	c := NewCollector(10)
	c.PushDelta("aaaa bbbb cccc dddd\n")
	lines := c.CommitCompleteLines()
	require.NotEmpty(t, lines)
	for _, l := range lines {
		assert.LessOrEqual(t, len(l.Plain()), 10)
	}
}

func TestHeadingAndListStyling(t *testing.T) {
	c := NewCollector(0)
	c.PushDelta("# Title\n\n- one\n- two\n")
	lines := c.FinalizeAndDrain()

	joined := strings.Join(plainAll(lines), "\n")
	assert.Contains(t, joined, "# Title")
	assert.Contains(t, joined, "- one")
	assert.Contains(t, joined, "- two")
}

func TestFencedCodeBlockSurvivesStreaming(t *testing.T) {
	c := NewCollector(0)
	c.PushDelta("```go\nfunc main() {}\n")
	c.PushDelta("```\n")
	lines := c.FinalizeAndDrain()

	joined := strings.Join(plainAll(lines), "\n")
	assert.Contains(t, joined, "func main() {}")
}
