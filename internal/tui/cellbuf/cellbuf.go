// Package cellbuf implements the double-buffered screen model and minimal
// ANSI diff emission behind the inline viewport: a back buffer is painted
// each frame, diffed against the previous frame, and only the changed
// cells are written out. Rows collapse trailing blanks into a single
// clear-to-end, cells invalidated by a preceding wide glyph are skipped,
// and the emitter tracks cursor adjacency to avoid redundant moves.
package cellbuf

import (
	"io"

	"github.com/corestream/termui/internal/tui/ansi"
	"github.com/mattn/go-runewidth"
)

// Rect is a viewport area in terminal cell coordinates.
type Rect struct {
	X, Y, Width, Height int
}

func (r Rect) Area() int { return r.Width * r.Height }

func (r Rect) Bottom() int { return r.Y + r.Height }

// Cell is a single terminal cell.
type Cell struct {
	Symbol   string
	Fg       ansi.Color
	Bg       ansi.Color
	Modifier ansi.Modifier
	Skip     bool // true for the trailing cell of a wide glyph
}

func blankCell(bg ansi.Color) Cell {
	return Cell{Symbol: " ", Bg: bg}
}

func (c Cell) width() int {
	if c.Symbol == "" {
		return 1
	}
	return runewidth.StringWidth(c.Symbol)
}

// Buffer is a 2D grid of cells over a Rect area.
type Buffer struct {
	Area  Rect
	Cells []Cell
}

// NewBuffer allocates a blank buffer for the given area.
func NewBuffer(area Rect) *Buffer {
	b := &Buffer{}
	b.Resize(area)
	return b
}

// Resize changes the buffer's area, reallocating and blanking the grid.
func (b *Buffer) Resize(area Rect) {
	if area.Width < 0 {
		area.Width = 0
	}
	if area.Height < 0 {
		area.Height = 0
	}
	b.Area = area
	b.Cells = make([]Cell, area.Width*area.Height)
	b.Reset()
}

// Reset blanks every cell to a space on the default background.
func (b *Buffer) Reset() {
	for i := range b.Cells {
		b.Cells[i] = Cell{Symbol: " "}
	}
}

func (b *Buffer) index(x, y int) int { return y*b.Area.Width + x }

// Set writes a cell at (x, y); out-of-range writes are ignored.
func (b *Buffer) Set(x, y int, c Cell) {
	if x < 0 || y < 0 || x >= b.Area.Width || y >= b.Area.Height {
		return
	}
	b.Cells[b.index(x, y)] = c
}

// Get reads the cell at (x, y).
func (b *Buffer) Get(x, y int) (Cell, bool) {
	if x < 0 || y < 0 || x >= b.Area.Width || y >= b.Area.Height {
		return Cell{}, false
	}
	return b.Cells[b.index(x, y)], true
}

// SetString writes a styled string starting at (x, y), advancing by each
// rune's display width and marking the trailing cell of wide glyphs as
// Skip so the diff engine knows not to treat it as independently drawable.
func (b *Buffer) SetString(x, y int, s string, fg, bg ansi.Color, mod ansi.Modifier) int {
	col := x
	for _, r := range s {
		w := runewidth.RuneWidth(r)
		if w == 0 {
			// Combining mark: append to the previous cell's symbol.
			if col > x {
				if prev, ok := b.Get(col-1, y); ok {
					prev.Symbol += string(r)
					b.Set(col-1, y, prev)
				}
			}
			continue
		}
		b.Set(col, y, Cell{Symbol: string(r), Fg: fg, Bg: bg, Modifier: mod})
		for i := 1; i < w; i++ {
			b.Set(col+i, y, Cell{Symbol: "", Fg: fg, Bg: bg, Modifier: mod, Skip: true})
		}
		col += w
	}
	return col - x
}

// DrawCommand is one instruction in the minimal update stream.
type DrawCommand struct {
	X, Y int
	Cell Cell // zero value when Kind is ClearToEnd
	Kind DrawKind
	Bg   ansi.Color // background for ClearToEnd
}

type DrawKind int

const (
	KindPut DrawKind = iota
	KindClearToEnd
)

// Diff computes the minimal set of draw commands to transform `prev` into
// `next`. Both buffers must share the same area.
func Diff(prev, next *Buffer) []DrawCommand {
	width, height := next.Area.Width, next.Area.Height
	var commands []DrawCommand
	lastNonBlankCol := make([]int, height)

	for y := 0; y < height; y++ {
		rowStart := y * width
		bg := ansi.Reset
		if width > 0 {
			bg = next.Cells[rowStart+width-1].Bg
		}
		lastNonBlank := 0
		col := 0
		for col < width {
			cell := next.Cells[rowStart+col]
			w := cell.width()
			if w <= 0 {
				w = 1
			}
			if cell.Symbol != " " || !cell.Bg.Equal(bg) || cell.Modifier != 0 {
				lastNonBlank = col + maxInt(w-1, 0)
			}
			col += w
		}
		if lastNonBlank+1 < width {
			commands = append(commands, DrawCommand{
				X: lastNonBlank + 1, Y: y, Kind: KindClearToEnd, Bg: bg,
			})
		}
		lastNonBlankCol[y] = lastNonBlank
	}

	invalidated := 0
	toSkip := 0
	for i := 0; i < len(next.Cells) && i < len(prev.Cells); i++ {
		cur := next.Cells[i]
		prv := prev.Cells[i]
		changed := !cellEqual(cur, prv) || invalidated > 0
		if !cur.Skip && changed && toSkip == 0 {
			x := i % width
			y := i / width
			if x <= lastNonBlankCol[y] {
				commands = append(commands, DrawCommand{X: x, Y: y, Cell: cur, Kind: KindPut})
			}
		}

		toSkip = maxInt(cur.width()-1, 0)
		affected := maxInt(cur.width(), prv.width())
		invalidated = maxInt(affected, invalidated) - 1
		if invalidated < 0 {
			invalidated = 0
		}
	}
	return commands
}

func cellEqual(a, b Cell) bool {
	return a.Symbol == b.Symbol && a.Fg.Equal(b.Fg) && a.Bg.Equal(b.Bg) &&
		a.Modifier == b.Modifier && a.Skip == b.Skip
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

// Emit writes the minimal ANSI sequence implementing `commands` to w,
// maintaining cursor-adjacency so MoveTo is skipped when writes are
// contiguous, and diffing fg/bg/modifier state between writes.
func Emit(w io.Writer, commands []DrawCommand) (lastX, lastY int, hadPut bool, err error) {
	fg, bg := ansi.Reset, ansi.Reset
	var modifier ansi.Modifier
	lastPosSet := false
	var lastPosX, lastPosY int

	for _, cmd := range commands {
		if !lastPosSet || cmd.X != lastPosX+1 || cmd.Y != lastPosY {
			if err = ansi.MoveTo(w, cmd.X, cmd.Y); err != nil {
				return
			}
		}
		lastPosX, lastPosY = cmd.X, cmd.Y
		lastPosSet = true

		switch cmd.Kind {
		case KindPut:
			if cmd.Cell.Modifier != modifier {
				if err = ansi.WriteModifierDiff(w, modifier, cmd.Cell.Modifier); err != nil {
					return
				}
				modifier = cmd.Cell.Modifier
			}
			if !cmd.Cell.Fg.Equal(fg) || !cmd.Cell.Bg.Equal(bg) {
				if err = ansi.WriteSGRColors(w, cmd.Cell.Fg, cmd.Cell.Bg); err != nil {
					return
				}
				fg, bg = cmd.Cell.Fg, cmd.Cell.Bg
			}
			sym := cmd.Cell.Symbol
			if sym == "" {
				sym = " "
			}
			if _, err = io.WriteString(w, sym); err != nil {
				return
			}
			lastX, lastY = cmd.X, cmd.Y
			hadPut = true
		case KindClearToEnd:
			if err = ansi.WriteSGRColors(w, ansi.Reset, cmd.Bg); err != nil {
				return
			}
			if err = ansi.ClearToEndOfLine(w); err != nil {
				return
			}
		}
	}
	return
}
