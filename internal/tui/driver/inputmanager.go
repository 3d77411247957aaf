package driver

import (
	"github.com/corestream/termui/internal/tui/composer"
	"github.com/corestream/termui/internal/tui/textarea"
)

// KeyResultKind is the InputManager's outcome for one key event.
type KeyResultKind int

const (
	ResultContinue KeyResultKind = iota
	ResultQuit
	ResultEscape
	ResultSendMessage
	ResultShowInfo
	ResultSwitchModel
	ResultShowCurrentModel
	ResultTogglePlan
)

// KeyResult is the InputManager's outcome for one key event.
type KeyResult struct {
	Kind        KeyResultKind
	Text        string   // SendMessage's message text / ShowInfo's info text / SwitchModel's model name
	Attachments []string // always empty: clipboard image capture is out of scope
}

// InputManager wraps the composer with the key-routing and slash-command
// dispatch rules applied before text ever reaches the text area:
// quit/escape interception, Enter-to-submit with placeholder expansion,
// and recognized-command translation. Clipboard image capture is not
// handled here, so Ctrl/Alt-V are not intercepted and fall through to
// ordinary text-area handling.
type InputManager struct {
	composer *composer.Composer
}

// NewInputManager wraps c.
func NewInputManager(c *composer.Composer) *InputManager {
	return &InputManager{composer: c}
}

// HandleKey applies one decoded key event, returning the action the event
// loop should take.
func (im *InputManager) HandleKey(in KeyInput, width int) KeyResult {
	if in.Esc {
		return KeyResult{Kind: ResultEscape}
	}
	ev := in.Event

	if ev.Ctrl && ev.Text == "c" {
		return KeyResult{Kind: ResultQuit}
	}

	if ev.Code == textarea.KeyEnter && !ev.Shift && !ev.Ctrl && !ev.Alt {
		return im.submit()
	}

	if im.composer.Popup.Visible {
		switch {
		case ev.Code == textarea.KeyUp:
			im.composer.Popup.MoveSelection(-1)
			return KeyResult{Kind: ResultContinue}
		case ev.Code == textarea.KeyDown:
			im.composer.Popup.MoveSelection(1)
			return KeyResult{Kind: ResultContinue}
		case ev.Code == textarea.KeyRune && ev.Text == "\t":
			// Tab accepts; a bare Enter always submits (handled above), so
			// typing an exact command name and pressing Enter never detours
			// through the popup.
			if im.composer.AcceptPopupSelection() {
				return KeyResult{Kind: ResultContinue}
			}
		}
	}

	im.composer.TextArea.HandleKey(ev, width)
	im.composer.RefreshPopup()
	return KeyResult{Kind: ResultContinue}
}

// HandlePaste routes a decoded bracketed-paste event into the composer.
func (im *InputManager) HandlePaste(content string) {
	im.composer.HandlePaste(content)
	im.composer.RefreshPopup()
}

// submit expands placeholders, clears the composer, and classifies the
// resulting text as a slash command or a regular message.
func (im *InputManager) submit() KeyResult {
	text := im.composer.SubmitText()
	if text == "" {
		return KeyResult{Kind: ResultContinue}
	}

	result := composer.ParseSlash(text)
	switch result.Kind {
	case composer.SlashContinue:
		return KeyResult{Kind: ResultSendMessage, Text: text}
	case composer.SlashHelp:
		return KeyResult{Kind: ResultShowInfo, Text: result.Text}
	case composer.SlashListModels:
		return KeyResult{Kind: ResultShowInfo, Text: "model listing is handled by the session backend, not this UI core"}
	case composer.SlashListProviders:
		return KeyResult{Kind: ResultShowInfo, Text: "provider listing is handled by the session backend, not this UI core"}
	case composer.SlashSwitchModel:
		return KeyResult{Kind: ResultSwitchModel, Text: result.Text}
	case composer.SlashShowCurrentModel:
		return KeyResult{Kind: ResultShowCurrentModel}
	case composer.SlashTogglePlan:
		return KeyResult{Kind: ResultTogglePlan}
	case composer.SlashInvalid:
		return KeyResult{Kind: ResultShowInfo, Text: result.Text}
	default:
		return KeyResult{Kind: ResultSendMessage, Text: text}
	}
}
