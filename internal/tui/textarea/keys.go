package textarea

// KeyEvent mirrors the subset of a terminal key event the text area cares
// about: a resolved key code plus modifier flags, and the literal text to
// insert for printable input.
type KeyEvent struct {
	Code  KeyCode
	Shift bool
	Ctrl  bool
	Alt   bool
	Text  string // non-empty for printable runes
}

type KeyCode int

const (
	KeyRune KeyCode = iota
	KeyEnter
	KeyBackspace
	KeyDelete
	KeyLeft
	KeyRight
	KeyUp
	KeyDown
	KeyHome
	KeyEnd
)

// Submit is returned by HandleKey when a bare Enter should trigger the
// input manager's submit action (the TextArea itself never submits).
type Submit struct{}

// HandleKey applies one key event to the buffer at the given wrap width,
// returning a non-nil Submit when the caller should treat this as a submit
// signal instead of an edit.
//
// Windows AltGr is reported as Ctrl+Alt by the terminal and is treated
// here as plain character input (neither modifier triggers a binding).
func (t *TextArea) HandleKey(ev KeyEvent, width int) *Submit {
	ctrlAltAsPlain := ev.Ctrl && ev.Alt
	ctrl := ev.Ctrl && !ctrlAltAsPlain
	alt := ev.Alt && !ctrlAltAsPlain

	switch ev.Code {
	case KeyEnter:
		if ev.Shift || ctrl {
			t.InsertText("\n")
			return nil
		}
		if !ctrl && !alt {
			return &Submit{}
		}
		if alt {
			t.InsertText("\n")
			return nil
		}
	case KeyBackspace:
		if alt {
			t.KillWordBackward()
		} else {
			t.DeleteBackward()
		}
		return nil
	case KeyDelete:
		if alt {
			t.KillWordForward()
		} else {
			t.DeleteForward()
		}
		return nil
	case KeyLeft:
		if ctrl || alt {
			t.WordLeft()
		} else {
			t.MoveLeft()
		}
		return nil
	case KeyRight:
		if ctrl || alt {
			t.WordRight()
		} else {
			t.MoveRight()
		}
		return nil
	case KeyUp:
		t.MoveUp(width)
		return nil
	case KeyDown:
		t.MoveDown(width)
		return nil
	case KeyHome:
		t.MoveToLineStart()
		return nil
	case KeyEnd:
		t.MoveToLineEnd()
		return nil
	}

	if ctrl && ev.Text != "" {
		switch ev.Text {
		case "a":
			t.MoveToLineStart()
			return nil
		case "e":
			t.MoveToLineEnd()
			return nil
		case "b":
			t.MoveLeft()
			return nil
		case "f":
			t.MoveRight()
			return nil
		case "n":
			t.MoveDown(width)
			return nil
		case "p":
			t.MoveUp(width)
			return nil
		case "h":
			t.DeleteBackward()
			return nil
		case "d":
			t.DeleteForward()
			return nil
		case "k":
			t.KillToLineEnd()
			return nil
		case "u":
			t.KillToLineStart()
			return nil
		case "w":
			t.KillWordBackward()
			return nil
		case "y":
			t.Yank()
			return nil
		case "j", "m":
			t.InsertText("\n")
			return nil
		}
	}

	if alt && ev.Text != "" {
		switch ev.Text {
		case "b":
			t.WordLeft()
			return nil
		case "f":
			t.WordRight()
			return nil
		}
	}

	if ev.Text != "" && (ctrlAltAsPlain || (!ctrl && !alt)) {
		t.InsertText(ev.Text)
	}
	return nil
}
