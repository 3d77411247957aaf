package toolrender

import (
	"regexp"
	"strconv"
	"strings"

	diff "github.com/shogoki/gotextdiff"
)

// hunkHeaderRe parses a unified diff hunk header: "@@ -start,count +start,count @@".
var hunkHeaderRe = regexp.MustCompile(`^@@ -(\d+)(?:,\d+)? \+(\d+)(?:,\d+)? @@`)

// GenerateToolDiffLines dispatches to the right diff-line generator for a
// tool call based on its name.
func GenerateToolDiffLines(tool *ToolUse) []DiffLine {
	switch tool.Name {
	case "edit":
		old, _ := tool.Get("old_text")
		newText, _ := tool.Get("new_text")
		if old == "" && newText == "" {
			return nil
		}
		return GenerateDiffLines(old, newText)
	case "replace_in_file":
		diffParam, _ := tool.Get("diff")
		if diffParam == "" {
			return nil
		}
		return GenerateSearchReplaceDiffLines(diffParam)
	case "write_file":
		content, _ := tool.Get("content")
		if content == "" {
			return nil
		}
		return GenerateWriteFileDiffLines(content)
	default:
		return nil
	}
}

// GenerateDiffLines produces a line-level diff of old/new text via
// gotextdiff's unified diff output, parsed back into DiffLine rows.
func GenerateDiffLines(oldText, newText string) []DiffLine {
	if oldText == newText {
		return nil
	}
	diffBytes := diff.Diff("a", []byte(oldText), "a", []byte(newText))
	if len(diffBytes) == 0 {
		return nil
	}
	return parseUnifiedDiff(string(diffBytes))
}

func parseUnifiedDiff(diffText string) []DiffLine {
	var lines []DiffLine
	var oldLn, newLn int

	for _, line := range strings.Split(diffText, "\n") {
		if strings.HasPrefix(line, "diff ") || strings.HasPrefix(line, "--- ") || strings.HasPrefix(line, "+++ ") {
			continue
		}
		if line == "" {
			continue
		}
		prefix := line[0]
		content := ""
		if len(line) > 1 {
			content = line[1:]
		}
		switch prefix {
		case '@':
			if m := hunkHeaderRe.FindStringSubmatch(line); m != nil {
				oldLn, _ = strconv.Atoi(m[1])
				newLn, _ = strconv.Atoi(m[2])
			}
		case '-':
			lines = append(lines, DiffLine{Kind: DiffDelete, LineNum: oldLn, Text: content})
			oldLn++
		case '+':
			lines = append(lines, DiffLine{Kind: DiffInsert, LineNum: newLn, Text: content})
			newLn++
		case ' ':
			lines = append(lines, DiffLine{Kind: DiffContext, LineNum: newLn, Text: content})
			oldLn++
			newLn++
		}
	}
	return lines
}

// GenerateSearchReplaceDiffLines parses the "<<<<<<< SEARCH / ======= /
// >>>>>>> REPLACE" block format used by replace_in_file into diff lines,
// inserting a HunkSeparator between multiple blocks.
func GenerateSearchReplaceDiffLines(diffParam string) []DiffLine {
	var lines []DiffLine
	blockIdx := 0
	inSearch, inReplace := false, false
	var searchLines, replaceLines []string

	for _, raw := range splitLines(diffParam) {
		if strings.HasPrefix(raw, "<<<<<<< SEARCH") {
			if blockIdx > 0 {
				lines = append(lines, DiffLine{Kind: DiffHunkSeparator})
			}
			inSearch, inReplace = true, false
			searchLines, replaceLines = nil, nil
			continue
		}
		if raw == "=======" && inSearch {
			inSearch, inReplace = false, true
			continue
		}
		if strings.HasPrefix(raw, ">>>>>>> REPLACE") && inReplace {
			inReplace = false
			blockIdx++
			for i, s := range searchLines {
				lines = append(lines, DiffLine{Kind: DiffDelete, LineNum: i + 1, Text: s})
			}
			for i, r := range replaceLines {
				lines = append(lines, DiffLine{Kind: DiffInsert, LineNum: i + 1, Text: r})
			}
			continue
		}
		if inSearch {
			searchLines = append(searchLines, raw)
		} else if inReplace {
			replaceLines = append(replaceLines, raw)
		}
	}
	return lines
}

// GenerateWriteFileDiffLines treats every line of content as an insertion.
func GenerateWriteFileDiffLines(content string) []DiffLine {
	var lines []DiffLine
	for i, l := range splitLines(content) {
		lines = append(lines, DiffLine{Kind: DiffInsert, LineNum: i + 1, Text: l})
	}
	return lines
}

// splitLines splits on '\n' with no trailing empty element when the
// string ends in a newline.
func splitLines(s string) []string {
	if s == "" {
		return nil
	}
	s = strings.TrimSuffix(s, "\n")
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.Split(s, "\n")
}

func maxLineNumber(lines []DiffLine) int {
	max := 0
	for _, l := range lines {
		if l.Kind == DiffHunkSeparator {
			continue
		}
		if l.LineNum > max {
			max = l.LineNum
		}
	}
	return max
}

func lineNumberWidth(maxLine int) int {
	if maxLine == 0 {
		return 1
	}
	return len(strconv.Itoa(maxLine))
}

// expandTabs expands tab characters to 4-column tab stops.
func expandTabs(text string) string {
	if !strings.ContainsRune(text, '\t') {
		return text
	}
	var b strings.Builder
	col := 0
	for _, ch := range text {
		if ch == '\t' {
			spaces := 4 - (col % 4)
			for i := 0; i < spaces; i++ {
				b.WriteByte(' ')
			}
			col += spaces
		} else {
			b.WriteRune(ch)
			col++
		}
	}
	return b.String()
}
