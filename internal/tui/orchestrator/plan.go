// Package orchestrator implements the per-frame renderer that ties
// together the transcript, streaming controller, composer, and status
// widgets into the lines the driver paints each frame.
package orchestrator

import (
	"fmt"

	"github.com/corestream/termui/internal/tui/ansi"
	"github.com/corestream/termui/internal/tui/mdstream"
)

var (
	planColor          = ansi.NewColor("#b8bb26")
	planCompletedColor = ansi.NewColor("#928374")
	planActiveColor    = ansi.NewColor("#fabd2f")
)

func planItemColor(s PlanItemStatus) ansi.Color {
	switch s {
	case PlanCompleted:
		return planCompletedColor
	case PlanInProgress:
		return planActiveColor
	default:
		return planColor
	}
}

// PlanItemStatus is one plan step's completion state.
type PlanItemStatus int

const (
	PlanPending PlanItemStatus = iota
	PlanInProgress
	PlanCompleted
)

// PlanItem is one step of a plan.
type PlanItem struct {
	Status PlanItemStatus
	Title  string
}

func (s PlanItemStatus) glyph() string {
	switch s {
	case PlanCompleted:
		return "[x]"
	case PlanInProgress:
		return "[~]"
	default:
		return "[ ]"
	}
}

// PlanState is the current plan: an ordered list of items.
type PlanState struct {
	Items []PlanItem
}

// firstIncomplete returns the index of the first non-Completed item, or -1
// if every item is Completed.
func (p *PlanState) firstIncomplete() int {
	for i, it := range p.Items {
		if it.Status != PlanCompleted {
			return i
		}
	}
	return -1
}

// RenderPlan renders the collapsed or expanded plan summary as styled
// lines.
//
// Collapsed: "Plan: <first incomplete item's title> (<1-based position> of
// <total>)", or "Plan: All tasks completed (<total> items)" once every item
// is Completed.
//
// Expanded: a window of at most 4 items. Leading Completed items are
// skipped as long as at least 4 items follow them; the header notes
// how many items fall outside the window.
func RenderPlan(p *PlanState, expanded bool) []mdstream.Line {
	if p == nil || len(p.Items) == 0 {
		return nil
	}
	if !expanded {
		return renderPlanCollapsed(p)
	}
	return renderPlanExpanded(p)
}

func renderPlanCollapsed(p *PlanState) []mdstream.Line {
	total := len(p.Items)
	idx := p.firstIncomplete()
	if idx < 0 {
		text := fmt.Sprintf("Plan: All tasks completed (%d items)", total)
		return []mdstream.Line{plainLine(text, planColor)}
	}
	text := fmt.Sprintf("Plan: %s (%d of %d)", p.Items[idx].Title, idx+1, total)
	return []mdstream.Line{plainLine(text, planColor)}
}

func renderPlanExpanded(p *PlanState) []mdstream.Line {
	total := len(p.Items)
	start := 0
	if total > 4 {
		for start < total && p.Items[start].Status == PlanCompleted && total-start > 4 {
			start++
		}
	}
	end := start + 4
	if end > total {
		end = total
	}
	visible := p.Items[start:end]
	hidden := total - len(visible)

	header := "Plan"
	if hidden > 0 {
		header = fmt.Sprintf("Plan (+%d hidden)", hidden)
	}
	lines := []mdstream.Line{plainLine(header, planColor)}
	for _, it := range visible {
		lines = append(lines, plainLine(it.Status.glyph()+" "+it.Title, planItemColor(it.Status)))
	}
	return lines
}

func plainLine(text string, fg ansi.Color) mdstream.Line {
	return mdstream.Line{Spans: []mdstream.Span{{Content: text, Fg: fg}}}
}
