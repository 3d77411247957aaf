package termcolor

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsLight(t *testing.T) {
	assert.True(t, isLight(RGB{255, 255, 255}))
	assert.True(t, isLight(RGB{200, 200, 200}))
	assert.False(t, isLight(RGB{0, 0, 0}))
	assert.False(t, isLight(RGB{30, 30, 30}))
	assert.False(t, isLight(RGB{40, 40, 40}))
}

func TestBlendDarkBG(t *testing.T) {
	got := blend(RGB{255, 255, 255}, RGB{0, 0, 0}, 0.12)
	assert.Equal(t, RGB{30, 30, 30}, got)
}

func TestBlendLightBG(t *testing.T) {
	got := blend(RGB{0, 0, 0}, RGB{255, 255, 255}, 0.04)
	assert.Equal(t, RGB{244, 244, 244}, got)
}

func TestBlendTypicalDarkTerminal(t *testing.T) {
	bg := RGB{30, 30, 30}
	assert.False(t, isLight(bg))
	got := blend(RGB{255, 255, 255}, bg, 0.12)
	assert.Greater(t, got.R, bg.R)
	assert.Greater(t, got.G, bg.G)
	assert.Greater(t, got.B, bg.B)
}

func TestParseOSC11Reply(t *testing.T) {
	got := parseOSC11Reply("\x1b]11;rgb:2828/2828/2828\x07")
	assert.NotNil(t, got)
	assert.Equal(t, uint8(0x28), got.R)
	assert.Equal(t, uint8(0x28), got.G)
	assert.Equal(t, uint8(0x28), got.B)
}

func TestParseOSC11ReplyMalformed(t *testing.T) {
	assert.Nil(t, parseOSC11Reply("not an osc reply"))
	assert.Nil(t, parseOSC11Reply("\x1b]11;rgb:zzzz/zzzz/zzzz\x07"))
}

func TestComposerBGFallback(t *testing.T) {
	cachedBg = nil
	assert.Equal(t, "#282828", ComposerBG())
	assert.Equal(t, "#232323", ToolContentBG())
}

func TestComposerBGWithDetectedBackground(t *testing.T) {
	cachedBg = &RGB{R: 30, G: 30, B: 30}
	defer func() { cachedBg = nil }()
	hex := ComposerBG()
	assert.NotEqual(t, "#282828", hex)
}
