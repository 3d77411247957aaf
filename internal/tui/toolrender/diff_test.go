package toolrender

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func makeTool(name string, params map[string]string) *ToolUse {
	p := make(map[string]Param, len(params))
	for k, v := range params {
		p[k] = Param{Value: v}
	}
	return &ToolUse{Name: name, ID: "test-id", Parameters: p, Status: StatusSuccess}
}

func TestGenerateDiffLinesEditBasic(t *testing.T) {
	lines := GenerateDiffLines("hello\nworld\n", "hello\nearth\n")
	if assert.Len(t, lines, 3) {
		assert.Equal(t, DiffContext, lines[0].Kind)
		assert.Equal(t, 1, lines[0].LineNum)
		assert.Equal(t, "hello", lines[0].Text)

		assert.Equal(t, DiffDelete, lines[1].Kind)
		assert.Equal(t, "world", lines[1].Text)

		assert.Equal(t, DiffInsert, lines[2].Kind)
		assert.Equal(t, "earth", lines[2].Text)
	}
}

func TestGenerateDiffLinesIdentical(t *testing.T) {
	assert.Empty(t, GenerateDiffLines("same\n", "same\n"))
}

func TestSearchReplaceDiffLinesSingleBlock(t *testing.T) {
	diff := "<<<<<<< SEARCH\nold line 1\nold line 2\n=======\nnew line 1\n>>>>>>> REPLACE"
	lines := GenerateSearchReplaceDiffLines(diff)
	if assert.Len(t, lines, 3) {
		assert.Equal(t, DiffDelete, lines[0].Kind)
		assert.Equal(t, "old line 1", lines[0].Text)
		assert.Equal(t, DiffDelete, lines[1].Kind)
		assert.Equal(t, "old line 2", lines[1].Text)
		assert.Equal(t, DiffInsert, lines[2].Kind)
		assert.Equal(t, "new line 1", lines[2].Text)
	}
}

func TestSearchReplaceDiffLinesMultipleBlocks(t *testing.T) {
	diff := "<<<<<<< SEARCH\na\n=======\nb\n>>>>>>> REPLACE\n<<<<<<< SEARCH\nc\n=======\nd\n>>>>>>> REPLACE"
	lines := GenerateSearchReplaceDiffLines(diff)
	if assert.Len(t, lines, 5) {
		assert.Equal(t, DiffHunkSeparator, lines[2].Kind)
	}
}

func TestGenerateWriteFileDiffLines(t *testing.T) {
	lines := GenerateWriteFileDiffLines("func main() {\n\tfmt.Println(\"hello\")\n}")
	if assert.Len(t, lines, 3) {
		for i, l := range lines {
			assert.Equal(t, DiffInsert, l.Kind)
			assert.Equal(t, i+1, l.LineNum)
		}
	}
}

func TestDiffRendererHeightEdit(t *testing.T) {
	renderer := DiffToolRenderer{}
	tool := makeTool("edit", map[string]string{
		"file_path": "src/main.go",
		"old_text":  "hello\nworld\n",
		"new_text":  "hello\nearth\n",
	})
	assert.Equal(t, 5, renderer.CalculateHeight(tool, 80))
}

func TestDiffRendererHeightWriteFile(t *testing.T) {
	renderer := DiffToolRenderer{}
	tool := makeTool("write_file", map[string]string{
		"file_path": "new.go",
		"content":   "line1\nline2",
	})
	assert.Equal(t, 4, renderer.CalculateHeight(tool, 80))
}

func TestDiffRendererHistoryLinesIncludePath(t *testing.T) {
	renderer := DiffToolRenderer{}
	tool := makeTool("write_file", map[string]string{
		"file_path": "new.go",
		"content":   "line1",
	})
	lines := renderer.RenderHistoryLines(tool)
	assert.GreaterOrEqual(t, len(lines), 3) // header + path + 1 insert
}
