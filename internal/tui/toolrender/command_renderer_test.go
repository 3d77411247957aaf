package toolrender

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func makeCommandTool(commandLine, output string) *ToolUse {
	tool := makeTool("execute_command", map[string]string{"command_line": commandLine})
	tool.Output = output
	return tool
}

func TestCommandRendererHeightNoOutput(t *testing.T) {
	renderer := CommandToolRenderer{}
	tool := makeCommandTool("echo hello", "")
	assert.Equal(t, 2, renderer.CalculateHeight(tool, 80))
}

func TestCommandRendererHeightWithOutput(t *testing.T) {
	renderer := CommandToolRenderer{}
	tool := makeCommandTool("ls", "file1.go\nfile2.go\nfile3.go")
	assert.Equal(t, 5, renderer.CalculateHeight(tool, 80))
}

func TestCommandRendererHeightWithError(t *testing.T) {
	renderer := CommandToolRenderer{}
	tool := makeCommandTool("false", "")
	tool.Status = StatusError
	tool.HasStatusMessage = true
	tool.StatusMessage = "Exit code 1"
	assert.Equal(t, 3, renderer.CalculateHeight(tool, 80))
}

func TestCommandRendererHistoryLines(t *testing.T) {
	renderer := CommandToolRenderer{}
	tool := makeCommandTool("ls", "a.txt\nb.txt")
	lines := renderer.RenderHistoryLines(tool)
	assert.Len(t, lines, 4) // header + command + 2 output lines
}
