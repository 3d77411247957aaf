package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/corestream/termui/internal/tui/orchestrator"
	"github.com/corestream/termui/internal/tui/toolrender"
)

// eventEnvelope is the JSON-line record format used by --record/--playback:
// a flat, discriminated-union encoding of orchestrator.Event so a recorded
// session can be replayed deterministically without a live backend. Fields
// left zero for a given Kind are simply omitted from the encoded line.
type eventEnvelope struct {
	AtMS      int64  `json:"at_ms"`
	Kind      string `json:"kind"`
	RequestID string `json:"request_id,omitempty"`
	Content   string `json:"content,omitempty"`
	Name      string `json:"name,omitempty"`
	ID        string `json:"id,omitempty"`
	Param     string `json:"param,omitempty"`
	Value     string `json:"value,omitempty"`
	Status    string `json:"status,omitempty"`
	Message   string `json:"message,omitempty"`
	Has       bool   `json:"has,omitempty"`
	Output    string `json:"output,omitempty"`
	Chunk     string `json:"chunk,omitempty"`
	Seconds   int    `json:"seconds,omitempty"`
}

func statusToString(s toolrender.Status) string {
	switch s {
	case toolrender.StatusRunning:
		return "running"
	case toolrender.StatusSuccess:
		return "success"
	case toolrender.StatusError:
		return "error"
	default:
		return "pending"
	}
}

func statusFromString(s string) toolrender.Status {
	switch s {
	case "running":
		return toolrender.StatusRunning
	case "success":
		return toolrender.StatusSuccess
	case "error":
		return toolrender.StatusError
	default:
		return toolrender.StatusPending
	}
}

// encodeEvent converts an orchestrator.Event into its JSON envelope. Events
// without a case below are not recordable and return ok=false:
// AddStyledHistoryLines (carrying already-styled spans) and the UI-state
// events SetPendingUserMessage, UpdateCurrentModel, SetPlanState,
// SetPlanExpanded and SetOverlayActive.
func encodeEvent(ev orchestrator.Event) (eventEnvelope, bool) {
	switch e := ev.(type) {
	case orchestrator.StreamingStarted:
		return eventEnvelope{Kind: "streaming_started", RequestID: e.RequestID}, true
	case orchestrator.TextDelta:
		return eventEnvelope{Kind: "text_delta", Content: e.Content}, true
	case orchestrator.ThinkingDelta:
		return eventEnvelope{Kind: "thinking_delta", Content: e.Content}, true
	case orchestrator.StartTool:
		return eventEnvelope{Kind: "start_tool", Name: e.Name, ID: e.ID}, true
	case orchestrator.UpdateToolParameter:
		return eventEnvelope{Kind: "update_tool_parameter", ID: e.ID, Param: e.Name, Value: e.Value}, true
	case orchestrator.UpdateToolStatus:
		return eventEnvelope{
			Kind: "update_tool_status", ID: e.ID, Status: statusToString(e.Status),
			Message: e.Message, Output: e.Output, Has: e.HasMessage || e.HasOutput,
		}, true
	case orchestrator.AppendToolOutput:
		return eventEnvelope{Kind: "append_tool_output", ID: e.ID, Chunk: e.Chunk}, true
	case orchestrator.MarkHiddenToolCompleted:
		return eventEnvelope{Kind: "mark_hidden_tool_completed"}, true
	case orchestrator.AddUserMessage:
		return eventEnvelope{Kind: "add_user_message", Content: e.Content}, true
	case orchestrator.AddInstructionMessage:
		return eventEnvelope{Kind: "add_instruction_message", Content: e.Content}, true
	case orchestrator.SetInfo:
		return eventEnvelope{Kind: "set_info", Message: e.Message, Has: e.Has}, true
	case orchestrator.SetError:
		return eventEnvelope{Kind: "set_error", Message: e.Message, Has: e.Has}, true
	case orchestrator.ShowRateLimitSpinner:
		return eventEnvelope{Kind: "show_rate_limit_spinner", Seconds: e.Seconds}, true
	case orchestrator.HideSpinner:
		return eventEnvelope{Kind: "hide_spinner"}, true
	case orchestrator.ClearAllMessages:
		return eventEnvelope{Kind: "clear_all_messages"}, true
	default:
		return eventEnvelope{}, false
	}
}

// decodeEvent is encodeEvent's inverse, used by playback.
func decodeEvent(e eventEnvelope) (orchestrator.Event, error) {
	switch e.Kind {
	case "streaming_started":
		return orchestrator.StreamingStarted{RequestID: e.RequestID}, nil
	case "text_delta":
		return orchestrator.TextDelta{Content: e.Content}, nil
	case "thinking_delta":
		return orchestrator.ThinkingDelta{Content: e.Content}, nil
	case "start_tool":
		return orchestrator.StartTool{Name: e.Name, ID: e.ID}, nil
	case "update_tool_parameter":
		return orchestrator.UpdateToolParameter{ID: e.ID, Name: e.Param, Value: e.Value}, nil
	case "update_tool_status":
		return orchestrator.UpdateToolStatus{
			ID: e.ID, Status: statusFromString(e.Status),
			Message: e.Message, HasMessage: e.Message != "",
			Output: e.Output, HasOutput: e.Output != "",
		}, nil
	case "append_tool_output":
		return orchestrator.AppendToolOutput{ID: e.ID, Chunk: e.Chunk}, nil
	case "mark_hidden_tool_completed":
		return orchestrator.MarkHiddenToolCompleted{}, nil
	case "add_user_message":
		return orchestrator.AddUserMessage{Content: e.Content}, nil
	case "add_instruction_message":
		return orchestrator.AddInstructionMessage{Content: e.Content}, nil
	case "set_info":
		return orchestrator.SetInfo{Message: e.Message, Has: e.Has}, nil
	case "set_error":
		return orchestrator.SetError{Message: e.Message, Has: e.Has}, nil
	case "show_rate_limit_spinner":
		return orchestrator.ShowRateLimitSpinner{Seconds: e.Seconds}, nil
	case "hide_spinner":
		return orchestrator.HideSpinner{}, nil
	case "clear_all_messages":
		return orchestrator.ClearAllMessages{}, nil
	default:
		return nil, fmt.Errorf("playback: unknown event kind %q", e.Kind)
	}
}

// recordingSink wraps an events channel, appending every event that passes
// through it to a JSONL file as it is dispatched, timestamped relative to
// the sink's creation.
type recordingSink struct {
	w     *bufio.Writer
	f     *os.File
	start time.Time
}

func newRecordingSink(path string) (*recordingSink, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("record: create %s: %w", path, err)
	}
	return &recordingSink{w: bufio.NewWriter(f), f: f, start: time.Now()}, nil
}

func (s *recordingSink) append(ev orchestrator.Event) {
	env, ok := encodeEvent(ev)
	if !ok {
		return
	}
	env.AtMS = time.Since(s.start).Milliseconds()
	line, err := json.Marshal(env)
	if err != nil {
		return
	}
	s.w.Write(line)
	s.w.WriteByte('\n')
}

func (s *recordingSink) close() error {
	if err := s.w.Flush(); err != nil {
		s.f.Close()
		return err
	}
	return s.f.Close()
}

// tee returns a channel that forwards everything from src to the returned
// channel while also recording it, closing the output when src closes.
func (s *recordingSink) tee(src <-chan orchestrator.Event) <-chan orchestrator.Event {
	out := make(chan orchestrator.Event)
	go func() {
		defer close(out)
		defer s.close()
		for ev := range src {
			s.append(ev)
			out <- ev
		}
	}()
	return out
}

// playbackSource reads a recorded JSONL file and emits its events on a
// channel, honoring each record's at_ms offset so replay reproduces the
// original streaming cadence (useful for exercising the adaptive chunking
// policy against a realistic delta arrival pattern).
func playbackSource(path string) (<-chan orchestrator.Event, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("playback: open %s: %w", path, err)
	}
	out := make(chan orchestrator.Event)
	go func() {
		defer close(out)
		defer f.Close()
		scanner := bufio.NewScanner(f)
		scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
		start := time.Now()
		for scanner.Scan() {
			line := scanner.Bytes()
			if len(line) == 0 {
				continue
			}
			var env eventEnvelope
			if err := json.Unmarshal(line, &env); err != nil {
				continue
			}
			ev, err := decodeEvent(env)
			if err != nil {
				continue
			}
			target := start.Add(time.Duration(env.AtMS) * time.Millisecond)
			if d := time.Until(target); d > 0 {
				time.Sleep(d)
			}
			out <- ev
		}
	}()
	return out, nil
}
