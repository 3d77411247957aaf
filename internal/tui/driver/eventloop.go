package driver

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/corestream/termui/internal/tui/ansi"
	"github.com/corestream/termui/internal/tui/appstate"
	"github.com/corestream/termui/internal/tui/cellbuf"
	"github.com/corestream/termui/internal/tui/history"
	"github.com/corestream/termui/internal/tui/mdstream"
	"github.com/corestream/termui/internal/tui/orchestrator"
	"github.com/corestream/termui/internal/tui/termcolor"
	"github.com/corestream/termui/internal/tui/tuilog"
)

// animationTick is the wakeup period while the spinner is visible or a
// stream is open (Orchestrator.NeedsAnimationTimer).
const animationTick = 50 * time.Millisecond

// Hooks are the external collaborators this UI core treats as opaque
// contracts: sending a submitted message to the backend and requesting a
// model switch. Both are optional; a nil hook is a no-op.
type Hooks struct {
	SendUserMessage func(ctx context.Context, text string)
	SwitchModel     func(ctx context.Context, name string)

	// WelcomeLines, if non-empty, is inserted into scrollback once before
	// the first draw (see WelcomeBanner).
	WelcomeLines []mdstream.Line
}

// Run drives the terminal end to end: raw-mode + bracketed-paste +
// OSC 11 setup, the atomic draw cycle, and the single-threaded cooperative
// select loop over terminal input, the external UI-event channel, and the
// animation ticker. It owns the Tui/Terminal exclusively; no other
// goroutine may write to stdout while Run is active. Returns when ctx is
// cancelled, stdin reaches EOF, or Ctrl-C is pressed.
//
// events carries inbound orchestrator.Event values from the backend-event
// forwarder; redraw is the watch-channel the backend handler pushes on
// whenever a backend event arrives asynchronously, so Run can repaint
// without busy polling the events channel.
func Run(ctx context.Context, events <-chan orchestrator.Event, redraw <-chan struct{}, state *appstate.State, hooks Hooks) error {
	in, out := os.Stdin, os.Stdout

	termcolor.Init(in, out)

	raw, err := EnableRawMode(in, out)
	if err != nil {
		return err
	}

	terminal, err := NewTerminal(out, int(in.Fd()))
	if err != nil {
		_ = raw.Restore(out)
		return err
	}

	tui := NewTui(terminal, history.New(out))
	if len(hooks.WelcomeLines) > 0 {
		tui.InsertHistoryLines(hooks.WelcomeLines)
	}
	orch := orchestrator.New()
	decoder := NewDecoder(in)
	defer decoder.Close()
	im := NewInputManager(orch.Composer)

	// Once the decoder owns stdin, a raw DSR read would race its read loop;
	// route cursor-position queries through the decoder's reply channel
	// instead (the resize heuristic in Tui.Draw issues these mid-session).
	terminal.cursorPosFunc = func() (Position, error) {
		if _, err := io.WriteString(out, "\x1b[6n"); err != nil {
			return Position{}, err
		}
		select {
		case pos, ok := <-decoder.CursorReplies():
			if !ok {
				return Position{}, fmt.Errorf("driver: input stream closed during cursor query")
			}
			return pos, nil
		case <-time.After(200 * time.Millisecond):
			return Position{}, fmt.Errorf("driver: cursor position query timed out")
		}
	}

	exit := func() {
		_ = raw.Restore(out)
		_ = ansi.MoveTo(out, 0, terminal.ViewportArea().Bottom())
	}
	defer exit()

	render := func() error {
		size, err := terminal.Size()
		if err != nil {
			return err
		}
		orch.Prepare(size.Width, size.Height)
		height := orch.DesiredViewportHeight(size.Width)
		lines := orch.PendingHistoryLines()
		if len(lines) > 0 {
			tui.InsertHistoryLines(lines)
		}

		var cursorPos *Position
		if !orch.HasError() {
			x, y := orch.Composer.CursorPos(size.Width)
			composerY := height - orch.Composer.DesiredHeight(size.Width)
			pos := Position{X: x, Y: composerY + y}
			cursorPos = &pos
		}
		return tui.Draw(height, cursorPos, func(buf *cellbuf.Buffer, area cellbuf.Rect) {
			orch.Paint(buf, area)
		})
	}

	needsRedraw := true
	var animCh <-chan time.Time
	var animTicker *time.Ticker
	setAnimation := func(on bool) {
		if on && animTicker == nil {
			animTicker = time.NewTicker(animationTick)
			animCh = animTicker.C
		} else if !on && animTicker != nil {
			animTicker.Stop()
			animTicker = nil
			animCh = nil
		}
	}
	defer func() {
		if animTicker != nil {
			animTicker.Stop()
		}
	}()

	width, _ := terminalWidth(terminal)
	lastSecond := time.Now()

	for {
		if needsRedraw {
			if err := render(); err != nil {
				return err
			}
			needsRedraw = false
		}
		setAnimation(orch.NeedsAnimationTimer())

		select {
		case <-ctx.Done():
			return nil

		case key, ok := <-decoder.Keys():
			if !ok {
				return nil
			}
			needsRedraw = true
			width, _ = terminalWidth(terminal)
			result := im.HandleKey(key, width)
			switch result.Kind {
			case ResultQuit:
				return nil
			case ResultEscape:
				handleEscapeCascade(orch, state)
			case ResultSendMessage:
				dispatchSubmit(ctx, orch, state, hooks, result.Text)
			case ResultShowInfo:
				orch.Dispatch(orchestrator.SetInfo{Message: result.Text, Has: true})
			case ResultSwitchModel:
				if hooks.SwitchModel != nil {
					hooks.SwitchModel(ctx, result.Text)
				}
			case ResultShowCurrentModel:
				orch.Dispatch(orchestrator.SetInfo{Message: "current model: " + state.CurrentModel(), Has: true})
			case ResultTogglePlan:
				orch.Dispatch(orchestrator.SetPlanExpanded{Expanded: !orch.PlanExpanded()})
			}

		case paste, ok := <-decoder.Pastes():
			if !ok {
				return nil
			}
			needsRedraw = true
			im.HandlePaste(paste)

		case ev, ok := <-events:
			if !ok {
				events = nil
				continue
			}
			needsRedraw = true
			if m, isModel := ev.(orchestrator.UpdateCurrentModel); isModel {
				if m.Has {
					state.SetCurrentModel(m.Model)
				} else {
					state.SetCurrentModel("")
				}
			}
			orch.Dispatch(ev)

		case <-redraw:
			needsRedraw = true

		case now := <-animCh:
			needsRedraw = true
			orch.Tick()
			if now.Sub(lastSecond) >= time.Second {
				orch.TickSecond()
				lastSecond = now
			}
		}
	}
}

func terminalWidth(t *Terminal) (int, error) {
	size, err := t.Size()
	if err != nil {
		return t.ViewportArea().Width, err
	}
	return size.Width, nil
}

// handleEscapeCascade walks the dismiss-error, dismiss-info,
// cancel-session cascade.
func handleEscapeCascade(orch *orchestrator.Orchestrator, state *appstate.State) {
	if orch.HasError() {
		orch.ClearError()
		return
	}
	if orch.HasInfo() {
		orch.Dispatch(orchestrator.SetInfo{Has: false})
		return
	}
	if state.SessionID() == "" {
		return
	}
	if state.Activity() == appstate.Idle {
		orch.Dispatch(orchestrator.SetInfo{Message: "No agent is currently running.", Has: true})
		return
	}
	state.RequestCancel()
	orch.Dispatch(orchestrator.SetInfo{Message: "Cancellation requested...", Has: true})
}

// dispatchSubmit honors the activity-state gate: only an idle session sends
// immediately; otherwise the message is shown as the pending user message in
// the status area and a warning is logged. The text is not stored for later
// delivery: nothing sends it once the session becomes idle.
func dispatchSubmit(ctx context.Context, orch *orchestrator.Orchestrator, state *appstate.State, hooks Hooks, text string) {
	if state.Activity() == appstate.Idle {
		if hooks.SendUserMessage != nil {
			hooks.SendUserMessage(ctx, text)
		}
		return
	}
	orch.Dispatch(orchestrator.SetPendingUserMessage{Content: text, Has: true})
	tuilog.Warn("message queued: session busy", "chars", len(text))
}
