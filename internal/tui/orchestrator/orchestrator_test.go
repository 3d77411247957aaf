package orchestrator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/corestream/termui/internal/tui/toolrender"
)

func countBlankBefore(lines []string, marker string) int {
	for i, l := range lines {
		if l == marker || (len(l) > 0 && len(marker) > 0 && containsPrefix(l, marker)) {
			blanks := 0
			for j := i - 1; j >= 0 && lines[j] == ""; j-- {
				blanks++
			}
			return blanks
		}
	}
	return -1
}

func containsPrefix(s, prefix string) bool {
	return len(s) >= len(prefix) && s[:len(prefix)] == prefix
}

func plainLinesOf(o *Orchestrator) []string {
	var out []string
	for _, l := range o.pendingHistory {
		out = append(out, l.Plain())
	}
	return out
}

func TestThinkingTextToolSpacing(t *testing.T) {
	o := New()
	o.Dispatch(StreamingStarted{RequestID: "r1"})
	o.Dispatch(ThinkingDelta{Content: "Let me think about this.\n"})
	o.Dispatch(TextDelta{Content: "Here is my answer.\n"})
	o.Dispatch(StartTool{Name: "write_file", ID: "t1"})
	o.Dispatch(UpdateToolStatus{ID: "t1", Status: toolrender.StatusSuccess})

	o.Prepare(80, 24)
	o.finalizeActive()
	o.renderNewlyCommitted(80)
	lines := plainLinesOf(o)

	n := countBlankBefore(lines, "● write_file")
	require.GreaterOrEqual(t, n, 0, "expected a write_file header in scrollback: %v", lines)
	assert.Equal(t, 1, n)
}

func TestTwoToolsWithTextBetween(t *testing.T) {
	o := New()
	o.Dispatch(StreamingStarted{RequestID: "r1"})
	o.Dispatch(TextDelta{Content: "First.\n"})
	o.Dispatch(StartTool{Name: "edit", ID: "t1"})
	o.Dispatch(UpdateToolStatus{ID: "t1", Status: toolrender.StatusSuccess})
	o.Dispatch(TextDelta{Content: "Second.\n"})
	o.Dispatch(StartTool{Name: "execute_command", ID: "t2"})
	o.Dispatch(AppendToolOutput{ID: "t2", Chunk: "test result: ok\n"})
	o.Dispatch(UpdateToolStatus{ID: "t2", Status: toolrender.StatusSuccess})

	o.Prepare(80, 24)
	o.finalizeActive()
	o.renderNewlyCommitted(80)
	lines := plainLinesOf(o)

	assert.Equal(t, 1, countBlankBefore(lines, "● edit"))
	assert.Equal(t, 1, countBlankBefore(lines, "● execute_command"))
}

func TestPlanCollapsedSummary(t *testing.T) {
	p := &PlanState{Items: []PlanItem{
		{Status: PlanCompleted, Title: "Initial setup"},
		{Status: PlanPending, Title: "Update documentation"},
		{Status: PlanPending, Title: "Review changes"},
		{Status: PlanPending, Title: "Publish release"},
	}}
	lines := RenderPlan(p, false)
	require.Len(t, lines, 1)
	assert.Contains(t, lines[0].Plain(), "Plan: Update documentation (2 of 4)")
}

func TestPlanAllCompleted(t *testing.T) {
	p := &PlanState{Items: []PlanItem{
		{Status: PlanCompleted, Title: "One"},
		{Status: PlanCompleted, Title: "Two"},
	}}
	lines := RenderPlan(p, false)
	require.Len(t, lines, 1)
	assert.Contains(t, lines[0].Plain(), "Plan: All tasks completed (2 items)")
}

func TestPlanExpandedWindow(t *testing.T) {
	p := &PlanState{Items: []PlanItem{
		{Status: PlanCompleted, Title: "Draft summary"},
		{Status: PlanCompleted, Title: "Backfill tests"},
		{Status: PlanPending, Title: "Write changelog"},
		{Status: PlanInProgress, Title: "Refactor module"},
		{Status: PlanPending, Title: "Publish release"},
		{Status: PlanCompleted, Title: "Ship release"},
	}}
	lines := RenderPlan(p, true)
	require.NotEmpty(t, lines)
	assert.Contains(t, lines[0].Plain(), "Plan (+2 hidden)")
	require.Len(t, lines, 5) // header + 4 window items

	joined := ""
	for _, l := range lines[1:] {
		joined += l.Plain() + "\n"
	}
	assert.Contains(t, joined, "[~] Refactor module")
	assert.NotContains(t, joined, "Draft summary")
	assert.NotContains(t, joined, "Backfill tests")
}

func TestNeedsAnimationTimer(t *testing.T) {
	o := New()
	assert.False(t, o.NeedsAnimationTimer())

	o.Dispatch(StreamingStarted{RequestID: "r1"})
	assert.True(t, o.NeedsAnimationTimer())

	o.Dispatch(HideSpinner{})
	o.streamingOpen = false
	assert.False(t, o.NeedsAnimationTimer())

	o.Dispatch(ShowRateLimitSpinner{Seconds: 5})
	assert.True(t, o.NeedsAnimationTimer())
}

func TestHiddenToolThenExecuteCommandBlankLines(t *testing.T) {
	o := New()
	o.Dispatch(StreamingStarted{RequestID: "r1"})
	o.Dispatch(TextDelta{Content: "Initial text.\n"})
	o.Dispatch(MarkHiddenToolCompleted{})
	o.Dispatch(TextDelta{Content: "After hidden tool.\n"})
	o.Dispatch(StartTool{Name: "execute_command", ID: "c1"})
	o.Dispatch(UpdateToolParameter{ID: "c1", Name: "command_line", Value: "cargo test"})
	o.Dispatch(UpdateToolStatus{ID: "c1", Status: toolrender.StatusSuccess})

	o.Prepare(80, 24)
	o.finalizeActive()
	o.renderNewlyCommitted(80)
	lines := plainLinesOf(o)

	assert.Equal(t, 1, countBlankBefore(lines, "● execute_command"), "all lines: %v", lines)

	joined := ""
	for _, l := range lines {
		joined += l + "\n"
	}
	assert.Contains(t, joined, "Initial text.")
	assert.Contains(t, joined, "After hidden tool.")
}

func TestOverlayBuffersHistoryUntilClosed(t *testing.T) {
	o := New()
	o.Dispatch(SetOverlayActive{Active: true})
	o.Dispatch(StreamingStarted{RequestID: "r1"})
	o.Dispatch(TextDelta{Content: "hidden while overlay open\n"})
	o.Prepare(80, 24)

	assert.Empty(t, o.pendingHistory)
	assert.NotEmpty(t, o.deferredHistory)

	o.Dispatch(SetOverlayActive{Active: false})
	assert.NotEmpty(t, o.pendingHistory)
	assert.Empty(t, o.deferredHistory)
}
