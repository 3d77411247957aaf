package orchestrator

import (
	"github.com/corestream/termui/internal/tui/mdstream"
	"github.com/corestream/termui/internal/tui/toolrender"
)

// Event is the closed sum type of inbound UI events the orchestrator
// accepts: an interface implemented only by the concrete types below.
type Event interface {
	isEvent()
}

type StreamingStarted struct{ RequestID string }
type TextDelta struct{ Content string }
type ThinkingDelta struct{ Content string }
type StartTool struct{ Name, ID string }
type UpdateToolParameter struct{ ID, Name, Value string }
type UpdateToolStatus struct {
	ID         string
	Status     toolrender.Status
	Message    string
	HasMessage bool
	Output     string
	HasOutput  bool
}
type AppendToolOutput struct{ ID, Chunk string }
type MarkHiddenToolCompleted struct{}
type AddUserMessage struct{ Content string }
type AddInstructionMessage struct{ Content string }
type SetPendingUserMessage struct {
	Content string
	Has     bool
}
type UpdateCurrentModel struct {
	Model string
	Has   bool
}
type SetInfo struct {
	Message string
	Has     bool
}
type SetError struct {
	Message string
	Has     bool
}
type SetPlanState struct {
	Plan *PlanState
}
type SetPlanExpanded struct{ Expanded bool }
type SetOverlayActive struct{ Active bool }
type ShowRateLimitSpinner struct{ Seconds int }
type HideSpinner struct{}
type ClearAllMessages struct{}
type AddStyledHistoryLines struct{ Lines []mdstream.Line }

func (StreamingStarted) isEvent() {}
func (TextDelta) isEvent() {}
func (ThinkingDelta) isEvent() {}
func (StartTool) isEvent() {}
func (UpdateToolParameter) isEvent() {}
func (UpdateToolStatus) isEvent() {}
func (AppendToolOutput) isEvent() {}
func (MarkHiddenToolCompleted) isEvent() {}
func (AddUserMessage) isEvent() {}
func (AddInstructionMessage) isEvent() {}
func (SetPendingUserMessage) isEvent() {}
func (UpdateCurrentModel) isEvent() {}
func (SetInfo) isEvent() {}
func (SetError) isEvent() {}
func (SetPlanState) isEvent() {}
func (SetPlanExpanded) isEvent() {}
func (SetOverlayActive) isEvent() {}
func (ShowRateLimitSpinner) isEvent() {}
func (HideSpinner) isEvent() {}
func (ClearAllMessages) isEvent() {}
func (AddStyledHistoryLines) isEvent() {}
