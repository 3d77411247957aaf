package cellbuf

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/corestream/termui/internal/tui/ansi"
)

func TestDiffEmitsPutsForChangedCells(t *testing.T) {
	area := Rect{Width: 5, Height: 1}
	prev := NewBuffer(area)
	next := NewBuffer(area)
	next.SetString(0, 0, "hi", ansi.Reset, ansi.Reset, 0)

	commands := Diff(prev, next)

	var puts []DrawCommand
	for _, c := range commands {
		if c.Kind == KindPut {
			puts = append(puts, c)
		}
	}
	require.Len(t, puts, 2)
	assert.Equal(t, "h", puts[0].Cell.Symbol)
	assert.Equal(t, "i", puts[1].Cell.Symbol)
}

func TestDiffCollapsesTrailingBlanksIntoClearToEnd(t *testing.T) {
	area := Rect{Width: 10, Height: 1}
	prev := NewBuffer(area)
	next := NewBuffer(area)
	next.SetString(0, 0, "ab", ansi.Reset, ansi.Reset, 0)

	commands := Diff(prev, next)

	var clears []DrawCommand
	for _, c := range commands {
		if c.Kind == KindClearToEnd {
			clears = append(clears, c)
		}
	}
	require.Len(t, clears, 1)
	assert.Equal(t, 2, clears[0].X)
}

func TestDiffSkipsUnchangedCells(t *testing.T) {
	area := Rect{Width: 5, Height: 1}
	prev := NewBuffer(area)
	next := NewBuffer(area)
	prev.SetString(0, 0, "same", ansi.Reset, ansi.Reset, 0)
	next.SetString(0, 0, "same", ansi.Reset, ansi.Reset, 0)

	for _, c := range Diff(prev, next) {
		assert.NotEqual(t, KindPut, c.Kind, "unchanged row should produce no puts")
	}
}

func TestSetStringMarksWideGlyphTrailingCellSkip(t *testing.T) {
	area := Rect{Width: 6, Height: 1}
	b := NewBuffer(area)
	b.SetString(0, 0, "日本", ansi.Reset, ansi.Reset, 0)

	c0, _ := b.Get(0, 0)
	c1, _ := b.Get(1, 0)
	c2, _ := b.Get(2, 0)
	assert.Equal(t, "日", c0.Symbol)
	assert.True(t, c1.Skip)
	assert.Equal(t, "本", c2.Symbol)
}

func TestSetStringAppendsCombiningMarkToPreviousCell(t *testing.T) {
	area := Rect{Width: 4, Height: 1}
	b := NewBuffer(area)
	b.SetString(0, 0, "e\u0301x", ansi.Reset, ansi.Reset, 0)

	c0, _ := b.Get(0, 0)
	c1, _ := b.Get(1, 0)
	assert.Equal(t, "e\u0301", c0.Symbol)
	assert.Equal(t, "x", c1.Symbol)
}

func TestEmitIsDeterministic(t *testing.T) {
	area := Rect{Width: 8, Height: 2}
	build := func() []DrawCommand {
		prev := NewBuffer(area)
		next := NewBuffer(area)
		next.SetString(0, 0, "hello", ansi.NewColor("#fabd2f"), ansi.Reset, ansi.ModBold)
		next.SetString(0, 1, "world", ansi.Reset, ansi.NewColor("#282828"), 0)
		return Diff(prev, next)
	}

	var a, b bytes.Buffer
	_, _, _, err := Emit(&a, build())
	require.NoError(t, err)
	_, _, _, err = Emit(&b, build())
	require.NoError(t, err)

	assert.Equal(t, a.String(), b.String())
	assert.NotEmpty(t, a.String())
}

func TestEmitTracksLastPutPosition(t *testing.T) {
	area := Rect{Width: 4, Height: 1}
	prev := NewBuffer(area)
	next := NewBuffer(area)
	next.SetString(0, 0, "ab", ansi.Reset, ansi.Reset, 0)

	var out bytes.Buffer
	lastX, lastY, hadPut, err := Emit(&out, Diff(prev, next))
	require.NoError(t, err)
	assert.True(t, hadPut)
	assert.Equal(t, 1, lastX)
	assert.Equal(t, 0, lastY)
}
