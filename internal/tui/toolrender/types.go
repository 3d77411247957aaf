// Package toolrender implements the pluggable per-tool rendering registry:
// each tool name (or group of tool names) gets a renderer that draws both
// the live, in-progress viewport representation and the scrollback history
// lines for a finished tool call.
package toolrender

// Status mirrors a tool call's lifecycle state.
type Status int

const (
	StatusPending Status = iota
	StatusRunning
	StatusSuccess
	StatusError
)

// Param is a single named tool parameter value, always stored as text.
type Param struct {
	Value string
}

// ToolUse is the renderer-facing view of an in-flight or completed tool
// call. It is intentionally self-contained (no dependency on the transcript
// package) so toolrender can be imported one-way by transcript.
type ToolUse struct {
	Name             string
	ID               string
	Parameters       map[string]Param
	ParamOrder       []string // insertion order of Parameters' keys
	Status           Status
	StatusMessage    string
	HasStatusMessage bool
	Output           string
}

// Get returns a parameter's value and whether it was present.
func (t *ToolUse) Get(name string) (string, bool) {
	if t.Parameters == nil {
		return "", false
	}
	p, ok := t.Parameters[name]
	return p.Value, ok
}

// DiffKind distinguishes the kinds of rows a diff renderer can produce.
type DiffKind int

const (
	DiffContext DiffKind = iota
	DiffInsert
	DiffDelete
	DiffHunkSeparator
)

// DiffLine is one row of a rendered diff: a context/insert/delete line
// carries a 1-based line number and its text, a hunk separator carries
// neither.
type DiffLine struct {
	Kind    DiffKind
	LineNum int
	Text    string
}
