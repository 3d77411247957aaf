package composer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSlashRecognizesCommands(t *testing.T) {
	cases := []struct {
		line string
		kind SlashKind
	}{
		{"/help", SlashHelp},
		{"/models", SlashListModels},
		{"/providers", SlashListProviders},
		{"/current-model", SlashShowCurrentModel},
		{"/plan", SlashTogglePlan},
		{"not a command", SlashContinue},
		{"/bogus", SlashInvalid},
	}
	for _, c := range cases {
		assert.Equal(t, c.kind, ParseSlash(c.line).Kind, c.line)
	}
}

func TestParseSlashModelRequiresArgument(t *testing.T) {
	r := ParseSlash("/model")
	assert.Equal(t, SlashInvalid, r.Kind)

	r = ParseSlash("/model gpt-5")
	assert.Equal(t, SlashSwitchModel, r.Kind)
	assert.Equal(t, "gpt-5", r.Text)
}

func TestCompletionsFuzzyMatch(t *testing.T) {
	matches := Completions("mod")
	assert.Contains(t, matches, "models")
	assert.Contains(t, matches, "model")
}

func TestCompletionsEmptyQueryReturnsAll(t *testing.T) {
	assert.Equal(t, recognizedCommands, Completions(""))
}

func TestComposerDesiredHeightIncludesChrome(t *testing.T) {
	c := New()
	h := c.DesiredHeight(40)
	// 1 top pad + 1 textarea row (empty buffer) + 1 bottom pad + 1 footer
	assert.Equal(t, 4, h)
}

func TestComposerSubmitExpandsPastePlaceholder(t *testing.T) {
	c := New()
	c.TextArea.InsertText("before ")
	c.HandlePaste(repeat("x\n", 300))
	c.TextArea.InsertText(" after")

	submitted := c.SubmitText()
	assert.Contains(t, submitted, "before ")
	assert.Contains(t, submitted, " after")
	assert.Contains(t, submitted, "x\n")
	assert.Equal(t, "", c.TextArea.Text())
}

func TestPopupUpdateActivatesOnSlashPrefix(t *testing.T) {
	var p Popup
	p.Update("/mod")
	require.True(t, p.Visible)
	assert.Contains(t, p.Matches, "models")

	p.Update("hello")
	assert.False(t, p.Visible)

	p.Update("/model gpt-5")
	assert.False(t, p.Visible, "space after command name should dismiss the popup")
}

func TestPopupMoveSelectionWraps(t *testing.T) {
	var p Popup
	p.Update("") // no slash prefix: hides the popup; matches are set by hand below
	p.Matches = []string{"a", "b", "c"}
	p.Visible = true
	p.Selected = 0
	p.MoveSelection(-1)
	assert.Equal(t, 2, p.Selected)
	p.MoveSelection(1)
	assert.Equal(t, 0, p.Selected)
}

func TestComposerAcceptPopupSelectionReplacesPrefix(t *testing.T) {
	c := New()
	c.TextArea.InsertText("/mod")
	c.RefreshPopup()
	require.True(t, c.Popup.Visible)
	c.Popup.Selected = indexOf(c.Popup.Matches, "models")
	require.GreaterOrEqual(t, c.Popup.Selected, 0)

	ok := c.AcceptPopupSelection()
	require.True(t, ok)
	assert.Equal(t, "/models ", c.TextArea.Text())
	assert.False(t, c.Popup.Visible)
}

func TestCursorPosUsesDisplayColumns(t *testing.T) {
	c := New()
	c.TextArea.InsertText("日本")
	x, y := c.CursorPos(40)
	// prompt prefix (2 columns) + two wide glyphs (2 columns each)
	assert.Equal(t, 2+4, x)
	assert.Equal(t, topPaddingRows, y)
}

func TestCursorPosWrapsWithTextAreaCache(t *testing.T) {
	c := New()
	c.TextArea.InsertText("alpha beta gamma")
	x, y := c.CursorPos(12) // inner width 10: wraps as "alpha beta" / "gamma"
	assert.Equal(t, 2+5, x)
	assert.Equal(t, topPaddingRows+1, y)
}

func repeat(s string, n int) string {
	out := ""
	for i := 0; i < n; i++ {
		out += s
	}
	return out
}

func indexOf(ss []string, target string) int {
	for i, s := range ss {
		if s == target {
			return i
		}
	}
	return -1
}
