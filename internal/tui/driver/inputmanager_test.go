package driver

import (
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/corestream/termui/internal/tui/composer"
	"github.com/corestream/termui/internal/tui/textarea"
)

func newTestInputManager() (*InputManager, *composer.Composer) {
	c := composer.New()
	return NewInputManager(c), c
}

func rune_(s string) KeyInput {
	return KeyInput{Event: textarea.KeyEvent{Code: textarea.KeyRune, Text: s}}
}

func TestInputManagerBasicOperations(t *testing.T) {
	im, c := newTestInputManager()
	for _, ch := range "hello" {
		im.HandleKey(rune_(string(ch)), 80)
	}
	assert.Equal(t, "hello", c.TextArea.Text())
}

func TestInputManagerQuitSignal(t *testing.T) {
	im, _ := newTestInputManager()
	res := im.HandleKey(KeyInput{Event: textarea.KeyEvent{Ctrl: true, Text: "c"}}, 80)
	assert.Equal(t, ResultQuit, res.Kind)
}

func TestInputManagerEscapeKey(t *testing.T) {
	im, _ := newTestInputManager()
	res := im.HandleKey(KeyInput{Esc: true}, 80)
	assert.Equal(t, ResultEscape, res.Kind)
}

func TestInputManagerNewlineHandling(t *testing.T) {
	im, c := newTestInputManager()
	im.HandleKey(rune_("a"), 80)
	im.HandleKey(KeyInput{Event: textarea.KeyEvent{Code: textarea.KeyEnter, Shift: true}}, 80)
	im.HandleKey(rune_("b"), 80)
	assert.Equal(t, "a\nb", c.TextArea.Text())

	res := im.HandleKey(KeyInput{Event: textarea.KeyEvent{Code: textarea.KeyEnter}}, 80)
	require.Equal(t, ResultSendMessage, res.Kind)
	assert.Equal(t, "a\nb", res.Text)
	assert.Equal(t, "", c.TextArea.Text())
}

func TestInputManagerSmallPasteInsertsDirectly(t *testing.T) {
	im, c := newTestInputManager()
	im.HandlePaste("hello world")
	assert.Equal(t, "hello world", c.TextArea.Text())
}

func TestInputManagerLargePasteUsesPlaceholder(t *testing.T) {
	im, c := newTestInputManager()
	im.HandleKey(rune_("x"), 80) // existing text before the paste

	var lines []string
	for i := 0; i < 50; i++ {
		lines = append(lines, "line "+strconv.Itoa(i))
	}
	pasted := strings.Join(lines, "\n") + "\n"
	im.HandlePaste(pasted)

	assert.NotContains(t, c.TextArea.Text(), "line 0")
	assert.Regexp(t, `\[Pasted \d+ lines\]`, c.TextArea.Text())
}

func TestInputManagerLargePasteExpandedOnSubmit(t *testing.T) {
	im, _ := newTestInputManager()
	for _, ch := range "before " {
		im.HandleKey(rune_(string(ch)), 80)
	}

	var lines []string
	for i := 0; i < 50; i++ {
		lines = append(lines, "line "+strconv.Itoa(i))
	}
	pasted := strings.Join(lines, "\n") + "\n"
	im.HandlePaste(pasted)

	for _, ch := range " after" {
		im.HandleKey(rune_(string(ch)), 80)
	}

	res := im.HandleKey(KeyInput{Event: textarea.KeyEvent{Code: textarea.KeyEnter}}, 80)
	require.Equal(t, ResultSendMessage, res.Kind)
	assert.True(t, strings.HasPrefix(res.Text, "before "))
	assert.Contains(t, res.Text, "line 0")
	assert.Contains(t, res.Text, "line 49")
	assert.True(t, strings.HasSuffix(res.Text, " after"))
}

func TestInputManagerClearResetsPasteState(t *testing.T) {
	im, c := newTestInputManager()
	im.HandlePaste(strings.Repeat("x", 500))
	require.NotEqual(t, "", c.TextArea.Text())

	res := im.HandleKey(KeyInput{Event: textarea.KeyEvent{Code: textarea.KeyEnter}}, 80)
	require.Equal(t, ResultSendMessage, res.Kind)
	assert.Equal(t, "", c.TextArea.Text())

	// A second large paste after submit gets a fresh placeholder, proving
	// the prior submission's pending-paste map was cleared rather than
	// colliding with it.
	im.HandlePaste(strings.Repeat("y", 500))
	assert.Contains(t, c.TextArea.Text(), "[Pasted 1 lines]")
}

func TestInputManagerSlashCommandRecognition(t *testing.T) {
	im, _ := newTestInputManager()
	for _, ch := range "/help" {
		im.HandleKey(rune_(string(ch)), 80)
	}
	res := im.HandleKey(KeyInput{Event: textarea.KeyEvent{Code: textarea.KeyEnter}}, 80)
	assert.Equal(t, ResultShowInfo, res.Kind)
	assert.Contains(t, res.Text, "Recognized commands")
}
