package toolrender

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCompactLinesReadFiles(t *testing.T) {
	tool := makeTool("read_files", map[string]string{"paths": "cmd/main.go\ninternal/server.go"})
	lines := compactLines(tool)
	if assert.Len(t, lines, 2) {
		assert.Equal(t, "cmd/main.go", lines[0].value)
		assert.Equal(t, "internal/server.go", lines[1].value)
	}
}

func TestCompactLinesSearchFiles(t *testing.T) {
	tool := makeTool("search_files", map[string]string{"pattern": "func main", "path": "internal/"})
	lines := compactLines(tool)
	if assert.Len(t, lines, 2) {
		assert.Equal(t, "pattern", lines[0].key)
		assert.Equal(t, "func main", lines[0].value)
	}
}

func TestCompactLinesWebSearch(t *testing.T) {
	tool := makeTool("web_search", map[string]string{"query": "go terminal ui inline viewport"})
	lines := compactLines(tool)
	if assert.Len(t, lines, 1) {
		assert.Equal(t, "query", lines[0].key)
		assert.Equal(t, "go terminal ui inline viewport", lines[0].value)
	}
}

func TestCompactLinesListProjectsEmpty(t *testing.T) {
	tool := makeTool("list_projects", nil)
	assert.Empty(t, compactLines(tool))
}

func TestCompactLinesGlobInvalidPattern(t *testing.T) {
	tool := makeTool("glob_files", map[string]string{"pattern": "[unterminated"})
	lines := compactLines(tool)
	if assert.Len(t, lines, 1) {
		assert.Contains(t, lines[0].value, "invalid pattern")
	}
}

func TestTruncateToWidthKeepsRunesWhole(t *testing.T) {
	assert.Equal(t, "日本", truncateToWidth("日本語", 5))
	assert.Equal(t, "", truncateToWidth("anything", 0))
	assert.Equal(t, "ascii", truncateToWidth("ascii", 10))
}

func TestCompactRendererHeightMatchesLines(t *testing.T) {
	renderer := CompactToolRenderer{}
	tool := makeTool("read_files", map[string]string{"paths": "a.go\nb.go\nc.go", "project": "my-proj"})
	assert.Equal(t, 4, renderer.CalculateHeight(tool, 80))
}

func TestCompactRendererHeightWithError(t *testing.T) {
	renderer := CompactToolRenderer{}
	tool := makeTool("read_files", map[string]string{"paths": "a.go"})
	tool.Status = StatusError
	tool.HasStatusMessage = true
	tool.StatusMessage = "File not found"
	assert.Equal(t, 3, renderer.CalculateHeight(tool, 80))
}
