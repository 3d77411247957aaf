package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/corestream/termui/internal/tui/orchestrator"
	"github.com/corestream/termui/internal/tui/toolrender"
)

func TestEncodeDecodeEventRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		ev   orchestrator.Event
	}{
		{"streaming started", orchestrator.StreamingStarted{RequestID: "req-1"}},
		{"text delta", orchestrator.TextDelta{Content: "hello"}},
		{"thinking delta", orchestrator.ThinkingDelta{Content: "pondering"}},
		{"start tool", orchestrator.StartTool{Name: "read_file", ID: "t1"}},
		{"update tool parameter", orchestrator.UpdateToolParameter{ID: "t1", Name: "path", Value: "main.go"}},
		{"update tool status success", orchestrator.UpdateToolStatus{
			ID: "t1", Status: toolrender.StatusSuccess, Message: "ok", HasMessage: true,
		}},
		{"append tool output", orchestrator.AppendToolOutput{ID: "t1", Chunk: "line 1\n"}},
		{"mark hidden tool completed", orchestrator.MarkHiddenToolCompleted{}},
		{"add user message", orchestrator.AddUserMessage{Content: "fix the bug"}},
		{"add instruction message", orchestrator.AddInstructionMessage{Content: "be concise"}},
		{"set info", orchestrator.SetInfo{Message: "queued", Has: true}},
		{"set error", orchestrator.SetError{Message: "boom", Has: true}},
		{"show rate limit spinner", orchestrator.ShowRateLimitSpinner{Seconds: 30}},
		{"hide spinner", orchestrator.HideSpinner{}},
		{"clear all messages", orchestrator.ClearAllMessages{}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			env, ok := encodeEvent(tc.ev)
			if !ok {
				t.Fatalf("encodeEvent: not recordable")
			}
			got, err := decodeEvent(env)
			if err != nil {
				t.Fatalf("decodeEvent: %v", err)
			}
			if got != tc.ev {
				t.Fatalf("round trip mismatch: got %#v, want %#v", got, tc.ev)
			}
		})
	}
}

func TestEncodeEventRejectsStyledHistoryLines(t *testing.T) {
	if _, ok := encodeEvent(orchestrator.AddStyledHistoryLines{}); ok {
		t.Fatalf("expected AddStyledHistoryLines to be unrecordable")
	}
}

func TestDecodeEventUnknownKind(t *testing.T) {
	if _, err := decodeEvent(eventEnvelope{Kind: "not_a_real_kind"}); err == nil {
		t.Fatalf("expected error for unknown kind")
	}
}

func TestRecordingSinkWritesJSONLInOrder(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "session.jsonl")

	src := make(chan orchestrator.Event, 3)
	src <- orchestrator.AddUserMessage{Content: "hi"}
	src <- orchestrator.TextDelta{Content: "there"}
	src <- orchestrator.HideSpinner{}
	close(src)

	sink, err := newRecordingSink(path)
	if err != nil {
		t.Fatalf("newRecordingSink: %v", err)
	}

	out := sink.tee(src)
	var got []orchestrator.Event
	for ev := range out {
		got = append(got, ev)
	}
	if len(got) != 3 {
		t.Fatalf("forwarded %d events, want 3", len(got))
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if len(data) == 0 {
		t.Fatalf("expected non-empty recording file")
	}
}

func TestPlaybackSourceReplaysEvents(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "session.jsonl")
	content := `{"at_ms":0,"kind":"add_user_message","content":"hi"}
{"at_ms":0,"kind":"text_delta","content":"there"}
{"at_ms":0,"kind":"hide_spinner"}
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	events, err := playbackSource(path)
	if err != nil {
		t.Fatalf("playbackSource: %v", err)
	}

	var got []orchestrator.Event
	for ev := range events {
		got = append(got, ev)
	}
	if len(got) != 3 {
		t.Fatalf("replayed %d events, want 3", len(got))
	}
	if _, ok := got[0].(orchestrator.AddUserMessage); !ok {
		t.Fatalf("got[0] = %#v, want AddUserMessage", got[0])
	}
}
