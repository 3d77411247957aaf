// Package termcolor detects the terminal's actual background color via
// OSC 11 and derives the subtle overlay colors used for the composer input
// area and tool content panels.
//
// The query runs once and is cached for the process lifetime; derived
// palettes blend an overlay tint over the detected background, falling
// back to fixed hex colors when detection fails (most terminals behind
// SSH, CI, or a dumb TERM).
package termcolor

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"golang.org/x/term"

	"github.com/corestream/termui/internal/tui/ansi"
)

// RGB is a detected or derived 8-bit-per-channel color.
type RGB struct {
	R, G, B uint8
}

func (c RGB) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

var (
	once      sync.Once
	cachedBg  *RGB
	queryFunc = queryTerminalBG
)

// Init queries and caches the terminal background color. Safe to call
// multiple times; only the first call performs I/O. Must run before raw
// mode changes in a way that would swallow the OSC 11 reply, i.e. early in
// startup while stdin is still readable as a stream of escape-sequence
// replies.
func Init(in *os.File, out *os.File) {
	once.Do(func() {
		cachedBg = queryFunc(in, out)
	})
}

// BG returns the cached terminal background color, or nil if detection was
// never run or failed.
func BG() *RGB {
	return cachedBg
}

// ComposerBG returns the overlay color for the composer input area: white
// blended at 12% over a dark background, black blended at 4% over a light
// one. Falls back to #282828 when the background is unknown.
func ComposerBG() string {
	bg := cachedBg
	if bg == nil {
		return "#282828"
	}
	top, alpha := overlayFor(*bg, 0.12, 0.04)
	return blend(top, *bg, alpha).Hex()
}

// ToolContentBG returns the overlay color for tool-output panels, slightly
// less prominent than ComposerBG. Falls back to #232323.
func ToolContentBG() string {
	bg := cachedBg
	if bg == nil {
		return "#232323"
	}
	top, alpha := overlayFor(*bg, 0.06, 0.03)
	return blend(top, *bg, alpha).Hex()
}

func overlayFor(bg RGB, darkAlpha, lightAlpha float64) (RGB, float64) {
	if isLight(bg) {
		return RGB{0, 0, 0}, lightAlpha
	}
	return RGB{255, 255, 255}, darkAlpha
}

// isLight reports whether bg counts as a light background under ITU-R
// BT.601 luma.
func isLight(bg RGB) bool {
	y := 0.299*float64(bg.R) + 0.587*float64(bg.G) + 0.114*float64(bg.B)
	return y > 128.0
}

func blend(fg, bg RGB, alpha float64) RGB {
	r := uint8(float64(fg.R)*alpha + float64(bg.R)*(1-alpha))
	g := uint8(float64(fg.G)*alpha + float64(bg.G)*(1-alpha))
	b := uint8(float64(fg.B)*alpha + float64(bg.B)*(1-alpha))
	return RGB{r, g, b}
}

// queryTerminalBG sends OSC 11 and parses the terminal's reply, returning
// nil if the terminal didn't answer within the timeout or the reply
// couldn't be parsed. Requires raw mode so the reply isn't echoed or
// line-buffered.
func queryTerminalBG(in *os.File, out *os.File) *RGB {
	if in == nil || out == nil {
		return nil
	}
	if !term.IsTerminal(int(in.Fd())) || !term.IsTerminal(int(out.Fd())) {
		return nil
	}
	state, err := term.MakeRaw(int(in.Fd()))
	if err != nil {
		return nil
	}
	defer term.Restore(int(in.Fd()), state)

	if err := ansi.QueryBackgroundColor(out); err != nil {
		return nil
	}

	reply := make(chan string, 1)
	go func() {
		r := bufio.NewReader(in)
		var sb strings.Builder
		deadline := time.Now().Add(200 * time.Millisecond)
		for time.Now().Before(deadline) {
			b, err := r.ReadByte()
			if err != nil {
				break
			}
			sb.WriteByte(b)
			if b == '\x07' || strings.HasSuffix(sb.String(), "\x1b\\") {
				break
			}
		}
		reply <- sb.String()
	}()

	select {
	case s := <-reply:
		return parseOSC11Reply(s)
	case <-time.After(250 * time.Millisecond):
		return nil
	}
}

// parseOSC11Reply parses "\x1b]11;rgb:RRRR/GGGG/BBBB\x07" (or ST-terminated)
// into an 8-bit RGB triple.
func parseOSC11Reply(s string) *RGB {
	idx := strings.Index(s, "rgb:")
	if idx < 0 {
		return nil
	}
	body := s[idx+len("rgb:"):]
	body = strings.TrimSuffix(body, "\x07")
	body = strings.TrimSuffix(body, "\x1b\\")
	parts := strings.Split(body, "/")
	if len(parts) != 3 {
		return nil
	}
	vals := make([]uint8, 3)
	for i, p := range parts {
		p = strings.TrimSpace(p)
		if len(p) > 2 {
			p = p[:2]
		}
		n, err := strconv.ParseUint(p, 16, 16)
		if err != nil {
			return nil
		}
		vals[i] = uint8(n)
	}
	return &RGB{R: vals[0], G: vals[1], B: vals[2]}
}
