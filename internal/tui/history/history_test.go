package history

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/corestream/termui/internal/tui/cellbuf"
	"github.com/corestream/termui/internal/tui/mdstream"
)

func TestInsertEmitsScrollRegionAndContent(t *testing.T) {
	var buf bytes.Buffer
	ins := New(&buf)

	lines := []mdstream.Line{{Spans: []mdstream.Span{{Content: "hello world"}}}}
	viewport := cellbuf.Rect{X: 0, Y: 10, Width: 80, Height: 5}

	_, err := ins.Insert(lines, viewport, 24)
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "hello world")
	assert.Contains(t, out, "\x1b[1;10r") // scroll region set to [1, viewport.top]
	assert.Contains(t, out, "\x1b[r")     // scroll region reset
}

func TestWrapForWidthSplitsLongLines(t *testing.T) {
	line := mdstream.Line{Spans: []mdstream.Span{{Content: strings.Repeat("a", 10)}}}
	wrapped := wrapForWidth([]mdstream.Line{line}, 4)
	require.Len(t, wrapped, 3)
	assert.Equal(t, "aaaa", wrapped[0].Plain())
	assert.Equal(t, "aaaa", wrapped[1].Plain())
	assert.Equal(t, "aa", wrapped[2].Plain())
}

func TestWrapForWidthNoopWhenUnset(t *testing.T) {
	line := mdstream.Line{Spans: []mdstream.Span{{Content: strings.Repeat("a", 100)}}}
	wrapped := wrapForWidth([]mdstream.Line{line}, 0)
	require.Len(t, wrapped, 1)
}
