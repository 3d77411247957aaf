package driver

import (
	"io"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/corestream/termui/internal/tui/textarea"
)

// escapeTimeout is how long the decoder waits after a bare ESC byte for
// the rest of a CSI/SS3 sequence before concluding it really was a lone
// Escape keypress.
const escapeTimeout = 35 * time.Millisecond

// KeyInput is one decoded keystroke. Esc is set for a bare Escape
// keypress (no further bytes followed within escapeTimeout); Event is
// meaningless in that case. Everything else, including Ctrl-C (which
// arrives as Ctrl+'c' like any other control chord), is represented as a
// regular textarea.KeyEvent for the caller to special-case or forward.
type KeyInput struct {
	Event textarea.KeyEvent
	Esc   bool
}

// Decoder turns a raw byte stream (a terminal fd in raw mode) into key,
// paste, and cursor-position-reply events. Cursor-position replies are
// delivered on a separate channel from ordinary keys so the Terminal's
// resize heuristic can issue a DSR query and read just its own reply
// without racing the main input consumer.
type Decoder struct {
	bytes  chan byte
	keys   chan KeyInput
	pastes chan string
	cursor chan Position
	done   chan struct{}
}

// NewDecoder starts a background goroutine blocking on r.Read and a
// decode goroutine consuming its output. Both goroutines exit once r
// returns an error (EOF on stdin close, or the process exiting).
func NewDecoder(r io.Reader) *Decoder {
	d := &Decoder{
		bytes:  make(chan byte, 256),
		keys:   make(chan KeyInput, 64),
		pastes: make(chan string, 8),
		cursor: make(chan Position, 4),
		done:   make(chan struct{}),
	}
	go d.readLoop(r)
	go d.decodeLoop()
	return d
}

// Keys yields decoded key events.
func (d *Decoder) Keys() <-chan KeyInput { return d.keys }

// Pastes yields bracketed-paste content, already normalized to LF.
func (d *Decoder) Pastes() <-chan string { return d.pastes }

// CursorReplies yields DSR (CSI 6n) reply positions.
func (d *Decoder) CursorReplies() <-chan Position { return d.cursor }

// Close signals the read loop to stop forwarding bytes. The underlying
// blocking Read call itself is not interrupted; callers rely on closing
// the terminal fd (or process exit) to unblock it.
func (d *Decoder) Close() { close(d.done) }

func (d *Decoder) readLoop(r io.Reader) {
	defer close(d.bytes)
	buf := make([]byte, 1)
	for {
		n, err := r.Read(buf)
		if n > 0 {
			select {
			case d.bytes <- buf[0]:
			case <-d.done:
				return
			}
		}
		if err != nil {
			return
		}
	}
}

func (d *Decoder) decodeLoop() {
	defer close(d.keys)
	defer close(d.pastes)
	for {
		b, ok := <-d.bytes
		if !ok {
			return
		}
		switch {
		case b == 0x1b:
			d.handleEscape()
		case b == 0x0d:
			d.emitKey(textarea.KeyEvent{Code: textarea.KeyEnter})
		case b == 0x0a:
			d.emitKey(textarea.KeyEvent{Code: textarea.KeyEnter, Shift: true})
		case b == 0x7f || b == 0x08:
			d.emitKey(textarea.KeyEvent{Code: textarea.KeyBackspace})
		case b == 0x09:
			d.emitKey(textarea.KeyEvent{Code: textarea.KeyRune, Text: "\t"})
		case b < 0x20:
			d.emitKey(textarea.KeyEvent{Code: textarea.KeyRune, Ctrl: true, Text: string(rune('a' + b - 1))})
		default:
			d.decodeRune(b)
		}
	}
}

func (d *Decoder) emitKey(ev textarea.KeyEvent) {
	d.keys <- KeyInput{Event: ev}
}

// nextByte waits up to escapeTimeout for the next raw byte, reporting
// false on timeout.
func (d *Decoder) nextByte() (byte, bool) {
	select {
	case b, ok := <-d.bytes:
		return b, ok
	case <-time.After(escapeTimeout):
		return 0, false
	}
}

func (d *Decoder) handleEscape() {
	b, ok := d.nextByte()
	if !ok {
		d.keys <- KeyInput{Esc: true}
		return
	}
	switch b {
	case '[':
		d.handleCSI()
	case 'O':
		d.handleSS3()
	default:
		// Alt+<rune>: the lone leading byte is itself the rune (or the
		// first byte of a multi-byte one); decode it the normal way but
		// mark the resulting key Alt.
		d.decodeRuneAlt(b)
	}
}

func (d *Decoder) handleSS3() {
	b, ok := d.nextByte()
	if !ok {
		return
	}
	switch b {
	case 'P', 'Q', 'R', 'S':
		// F1-F4; no textarea binding, drop.
	case 'A':
		d.emitKey(textarea.KeyEvent{Code: textarea.KeyUp})
	case 'B':
		d.emitKey(textarea.KeyEvent{Code: textarea.KeyDown})
	case 'C':
		d.emitKey(textarea.KeyEvent{Code: textarea.KeyRight})
	case 'D':
		d.emitKey(textarea.KeyEvent{Code: textarea.KeyLeft})
	}
}

// handleCSI reads a CSI sequence's parameter bytes up to its final byte
// and dispatches on the final byte plus any numeric parameters.
func (d *Decoder) handleCSI() {
	var raw strings.Builder
	for {
		b, ok := d.nextByte()
		if !ok {
			return
		}
		if b >= 0x40 && b <= 0x7e {
			d.dispatchCSI(raw.String(), b)
			return
		}
		raw.WriteByte(b)
	}
}

func (d *Decoder) dispatchCSI(params string, final byte) {
	switch final {
	case '~':
		d.dispatchTilde(params)
	case 'A':
		d.emitKeyWithMod(textarea.KeyUp, params)
	case 'B':
		d.emitKeyWithMod(textarea.KeyDown, params)
	case 'C':
		d.emitKeyWithMod(textarea.KeyRight, params)
	case 'D':
		d.emitKeyWithMod(textarea.KeyLeft, params)
	case 'H':
		d.emitKeyWithMod(textarea.KeyHome, params)
	case 'F':
		d.emitKeyWithMod(textarea.KeyEnd, params)
	case 'R':
		d.dispatchCursorReply(params)
	case 'u':
		d.dispatchKitty(params)
	}
}

func (d *Decoder) dispatchTilde(params string) {
	fields := strings.Split(params, ";")
	switch fields[0] {
	case "200":
		d.readBracketedPaste()
	case "3":
		d.emitKeyWithMod(textarea.KeyDelete, modifierField(fields))
	case "1", "7":
		d.emitKeyWithMod(textarea.KeyHome, modifierField(fields))
	case "4", "8":
		d.emitKeyWithMod(textarea.KeyEnd, modifierField(fields))
	}
}

func modifierField(fields []string) string {
	if len(fields) < 2 {
		return ""
	}
	return ";" + fields[1]
}

// emitKeyWithMod applies the optional ";<mod>" xterm modifier suffix
// (1=none, 2=shift, 3=alt, 4=shift+alt, 5=ctrl, ...) that terminals
// append to arrow/navigation key CSI sequences.
func (d *Decoder) emitKeyWithMod(code textarea.KeyCode, modParam string) {
	ev := textarea.KeyEvent{Code: code}
	modParam = strings.TrimPrefix(modParam, ";")
	if modParam != "" {
		if n, err := strconv.Atoi(modParam); err == nil && n > 0 {
			bits := n - 1
			ev.Shift = bits&1 != 0
			ev.Alt = bits&2 != 0
			ev.Ctrl = bits&4 != 0
		}
	}
	d.emitKey(ev)
}

func (d *Decoder) dispatchCursorReply(params string) {
	fields := strings.Split(params, ";")
	if len(fields) != 2 {
		return
	}
	row, err1 := strconv.Atoi(fields[0])
	col, err2 := strconv.Atoi(fields[1])
	if err1 != nil || err2 != nil {
		return
	}
	select {
	case d.cursor <- Position{X: col - 1, Y: row - 1}:
	default:
	}
}

// dispatchKitty handles the minimal kitty/wezterm "CSI <code>;<mod>u"
// progressive-enhancement key protocol, used only as a best-effort upgrade
// over bare CR/LF for disambiguating Shift+Enter when a terminal opts in;
// unrecognized codes are ignored.
func (d *Decoder) dispatchKitty(params string) {
	fields := strings.Split(params, ";")
	if len(fields) == 0 {
		return
	}
	code, err := strconv.Atoi(fields[0])
	if err != nil {
		return
	}
	ev := textarea.KeyEvent{}
	if len(fields) > 1 {
		if n, err := strconv.Atoi(fields[1]); err == nil && n > 0 {
			bits := n - 1
			ev.Shift = bits&1 != 0
			ev.Alt = bits&2 != 0
			ev.Ctrl = bits&4 != 0
		}
	}
	switch code {
	case 13:
		ev.Code = textarea.KeyEnter
	case 127, 8:
		ev.Code = textarea.KeyBackspace
	default:
		if code >= 0x20 {
			ev.Code = textarea.KeyRune
			ev.Text = string(rune(code))
		} else {
			return
		}
	}
	d.emitKey(ev)
}

// readBracketedPaste consumes bytes until the "ESC [ 201 ~" terminator,
// normalizing CRLF/CR to LF per spec's paste-event contract.
func (d *Decoder) readBracketedPaste() {
	var raw strings.Builder
	for {
		b, ok := d.nextByte()
		if !ok {
			break
		}
		if b == 0x1b {
			if d.consumePasteEnd() {
				break
			}
			continue
		}
		raw.WriteByte(b)
	}
	content := normalizePasteNewlines(raw.String())
	d.pastes <- content
}

// consumePasteEnd attempts to read "[201~" immediately following an ESC
// byte seen while inside a bracketed paste; returns true if it matched the
// terminator, pushing back nothing since pastes don't otherwise contain a
// bare ESC from a real terminal's bracketed-paste framing.
func (d *Decoder) consumePasteEnd() bool {
	want := []byte("[201~")
	for _, w := range want {
		b, ok := d.nextByte()
		if !ok || b != w {
			return false
		}
	}
	return true
}

func normalizePasteNewlines(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")
	return s
}

// decodeRune reassembles a UTF-8 rune starting at its first byte b,
// reading continuation bytes as needed, and emits it as printable input.
func (d *Decoder) decodeRune(b byte) {
	ev := d.readRuneEvent(b)
	d.emitKey(ev)
}

func (d *Decoder) decodeRuneAlt(b byte) {
	ev := d.readRuneEvent(b)
	ev.Alt = true
	d.emitKey(ev)
}

func (d *Decoder) readRuneEvent(b byte) textarea.KeyEvent {
	n := utf8SeqLen(b)
	buf := []byte{b}
	for i := 1; i < n; i++ {
		nb, ok := d.nextByte()
		if !ok {
			break
		}
		buf = append(buf, nb)
	}
	r, _ := utf8.DecodeRune(buf)
	if r == utf8.RuneError {
		return textarea.KeyEvent{Code: textarea.KeyRune, Text: string(buf)}
	}
	return textarea.KeyEvent{Code: textarea.KeyRune, Text: string(r)}
}

func utf8SeqLen(b byte) int {
	switch {
	case b&0x80 == 0:
		return 1
	case b&0xe0 == 0xc0:
		return 2
	case b&0xf0 == 0xe0:
		return 3
	case b&0xf8 == 0xf0:
		return 4
	default:
		return 1
	}
}
