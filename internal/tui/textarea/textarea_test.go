package textarea

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSmallPasteInsertsVerbatim(t *testing.T) {
	ta := New()
	inserted, pending := ta.HandlePaste("hello world")
	assert.True(t, inserted)
	assert.Nil(t, pending)
	assert.Equal(t, "hello world", ta.Text())
}

func TestLargePasteExpansion(t *testing.T) {
	ta := New()
	ta.InsertText("before ")

	var lines []string
	for i := 0; i < 50; i++ {
		lines = append(lines, "line "+itoa(i))
	}
	pasteContent := strings.Join(lines, "\n") + "\n"

	_, pending := ta.HandlePaste(pasteContent)
	require.NotNil(t, pending)

	ta.InsertText(" after")

	pendingMap := map[string]string{pending.Label: pending.Content}
	submitted := ExpandPlaceholders(ta.Text(), ta.Elements(), pendingMap)

	assert.True(t, strings.HasPrefix(submitted, "before "))
	assert.Contains(t, submitted, "line 0")
	assert.Contains(t, submitted, "line 49")
	assert.True(t, strings.HasSuffix(submitted, " after"))
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	var b []byte
	for n > 0 {
		b = append([]byte{byte('0' + n%10)}, b...)
		n /= 10
	}
	return string(b)
}

func TestCursorNeverLandsInsideElement(t *testing.T) {
	ta := New()
	ta.InsertText("before ")
	_, pending := ta.HandlePaste(strings.Repeat("x\n", 300))
	require.NotNil(t, pending)
	ta.InsertText(" after")

	elems := ta.Elements()
	require.Len(t, elems, 1)

	// Sweep the cursor across every grapheme boundary and ensure it never
	// lands strictly inside the element.
	for ta.Cursor() > 0 {
		ta.MoveLeft()
		c := ta.Cursor()
		for _, e := range elems {
			assert.False(t, c > e.Start && c < e.End, "cursor %d landed inside element [%d,%d)", c, e.Start, e.End)
		}
	}
}

func TestDeleteBackwardRemovesWholeElement(t *testing.T) {
	ta := New()
	ta.InsertText("x")
	_, pending := ta.HandlePaste(strings.Repeat("y\n", 300))
	require.NotNil(t, pending)

	before := ta.Text()
	assert.Contains(t, before, "[Pasted")

	ta.DeleteBackward()
	assert.Equal(t, "x", ta.Text())
	assert.Empty(t, ta.Elements())
}

func TestKillToLineEndAbsorbsTrailingNewline(t *testing.T) {
	ta := New()
	ta.SetText("one\ntwo")
	ta.MoveToLineStart() // cursor at start of "two" already (end of buffer is line 2)
	ta.SetText("one\ntwo")
	ta.cursor = 3 // end of "one", right before '\n'
	ta.KillToLineEnd()
	assert.Equal(t, "onetwo", ta.Text())
}

func TestWordMotionSeparatorClasses(t *testing.T) {
	ta := New()
	ta.SetText("foo.bar(baz)")
	ta.cursor = 0
	ta.WordRight()
	assert.Equal(t, 3, ta.Cursor()) // stops at "foo"
}

func TestDesiredHeightClampsAtMax(t *testing.T) {
	ta := New()
	var lines []string
	for i := 0; i < 100; i++ {
		lines = append(lines, "line")
	}
	ta.SetText(strings.Join(lines, "\n"))
	assert.Equal(t, 20, ta.DesiredHeight(40))
}

func TestVisualLinesWrapWideGlyphsWholeRunes(t *testing.T) {
	ta := New()
	ta.SetText("日本語テキスト")
	lines := ta.VisualLines(4)
	require.Len(t, lines, 4)
	assert.Equal(t, "日本", lines[0])
	assert.Equal(t, "語テ", lines[1])
	assert.Equal(t, "ト", lines[3])
}

func TestYankRestoresKilledText(t *testing.T) {
	ta := New()
	ta.SetText("hello world")
	ta.cursor = len(ta.Text())
	ta.KillWordBackward()
	assert.Equal(t, "hello ", ta.Text())
	ta.Yank()
	assert.Equal(t, "hello world", ta.Text())
}
