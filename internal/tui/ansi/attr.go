package ansi

import (
	"fmt"
	"io"
)

// Modifier is a bitset of text attributes.
type Modifier uint8

const (
	ModBold Modifier = 1 << iota
	ModDim
	ModItalic
	ModUnderline
	ModReversed
	ModCrossedOut
	ModBlink
)

// Contains reports whether m contains all bits of other.
func (m Modifier) Contains(other Modifier) bool { return m&other == other }

// Color is a terminal color value, stored as a "#rrggbb" hex string. Zero
// value means "reset"/default.
type Color struct {
	value string
	set   bool
}

// NewColor wraps a hex color string ("#rrggbb"); "" yields the reset color.
func NewColor(c string) Color {
	if c == "" {
		return Color{}
	}
	return Color{value: c, set: true}
}

// Reset is the unset/default color.
var Reset = Color{}

func (c Color) String() string {
	return c.value
}

func (c Color) Equal(o Color) bool {
	return c == o
}

// WriteSGRColors writes the fg/bg SGR sequence for the given colors using
// direct truecolor escapes (24-bit), resolved from the hex values.
func WriteSGRColors(w io.Writer, fg, bg Color) error {
	return writeRawColors(w, fg, bg)
}

func writeRawColors(w io.Writer, fg, bg Color) error {
	if _, err := io.WriteString(w, "\x1b["); err != nil {
		return err
	}
	first := true
	sep := func() error {
		if !first {
			if _, err := io.WriteString(w, ";"); err != nil {
				return err
			}
		}
		first = false
		return nil
	}
	if !fg.set {
		if err := sep(); err != nil {
			return err
		}
		if _, err := io.WriteString(w, "39"); err != nil {
			return err
		}
	} else {
		if err := sep(); err != nil {
			return err
		}
		if _, err := fmt.Fprintf(w, "38;2;%s", hexToRGBCode(fg.value)); err != nil {
			return err
		}
	}
	if !bg.set {
		if err := sep(); err != nil {
			return err
		}
		if _, err := io.WriteString(w, "49"); err != nil {
			return err
		}
	} else {
		if err := sep(); err != nil {
			return err
		}
		if _, err := fmt.Fprintf(w, "48;2;%s", hexToRGBCode(bg.value)); err != nil {
			return err
		}
	}
	_, err := io.WriteString(w, "m")
	return err
}

// hexToRGBCode converts a "#rrggbb" string to an "r;g;b" SGR operand,
// falling back to mid-gray for anything that is not 7-char hex.
func hexToRGBCode(hex string) string {
	if len(hex) == 7 && hex[0] == '#' {
		var r, g, b int
		fmt.Sscanf(hex[1:], "%02x%02x%02x", &r, &g, &b)
		return fmt.Sprintf("%d;%d;%d", r, g, b)
	}
	return "128;128;128"
}

// WriteModifierDiff emits the escapes needed to go from `from` to `to`:
// clear removed bits first (restoring DIM after a BOLD-off if DIM is
// still set), then set added bits.
func WriteModifierDiff(w io.Writer, from, to Modifier) error {
	removed := from &^ to
	added := to &^ from

	if removed.Contains(ModReversed) {
		if _, err := io.WriteString(w, "\x1b[27m"); err != nil {
			return err
		}
	}
	if removed.Contains(ModBold) {
		if _, err := io.WriteString(w, "\x1b[22m"); err != nil {
			return err
		}
		if to.Contains(ModDim) {
			if _, err := io.WriteString(w, "\x1b[2m"); err != nil {
				return err
			}
		}
	}
	if removed.Contains(ModItalic) {
		if _, err := io.WriteString(w, "\x1b[23m"); err != nil {
			return err
		}
	}
	if removed.Contains(ModUnderline) {
		if _, err := io.WriteString(w, "\x1b[24m"); err != nil {
			return err
		}
	}
	if removed.Contains(ModDim) && !removed.Contains(ModBold) {
		if _, err := io.WriteString(w, "\x1b[22m"); err != nil {
			return err
		}
	}
	if removed.Contains(ModCrossedOut) {
		if _, err := io.WriteString(w, "\x1b[29m"); err != nil {
			return err
		}
	}
	if removed.Contains(ModBlink) {
		if _, err := io.WriteString(w, "\x1b[25m"); err != nil {
			return err
		}
	}

	if added.Contains(ModReversed) {
		if _, err := io.WriteString(w, "\x1b[7m"); err != nil {
			return err
		}
	}
	if added.Contains(ModBold) {
		if _, err := io.WriteString(w, "\x1b[1m"); err != nil {
			return err
		}
	}
	if added.Contains(ModItalic) {
		if _, err := io.WriteString(w, "\x1b[3m"); err != nil {
			return err
		}
	}
	if added.Contains(ModUnderline) {
		if _, err := io.WriteString(w, "\x1b[4m"); err != nil {
			return err
		}
	}
	if added.Contains(ModDim) {
		if _, err := io.WriteString(w, "\x1b[2m"); err != nil {
			return err
		}
	}
	if added.Contains(ModCrossedOut) {
		if _, err := io.WriteString(w, "\x1b[9m"); err != nil {
			return err
		}
	}
	if added.Contains(ModBlink) {
		if _, err := io.WriteString(w, "\x1b[5m"); err != nil {
			return err
		}
	}
	return nil
}
