package textarea

import (
	"fmt"
	"strings"
)

// largePasteThreshold is the character count above which a paste is
// collapsed into an inline placeholder instead of being inserted verbatim.
const largePasteThreshold = 200

// PendingPaste records a placeholder's real content for later expansion.
type PendingPaste struct {
	Label   string
	Content string
}

// HandlePaste inserts content at the cursor. Pastes longer than the large-
// paste threshold are replaced with a "[Pasted N lines]" placeholder
// element instead, and the real content is returned in the second value so
// the caller (composer) can track it for submit-time expansion. Short
// pastes are inserted directly and the second return is the zero value.
func (t *TextArea) HandlePaste(content string) (inserted bool, pending *PendingPaste) {
	normalized := normalizePasteNewlines(content)
	if len([]rune(normalized)) <= largePasteThreshold {
		t.InsertText(normalized)
		return true, nil
	}

	lineCount := strings.Count(normalized, "\n") + 1
	label := fmt.Sprintf("[Pasted %d lines]", lineCount)
	label = t.dedupeLabel(label)
	t.InsertElement(label)
	return true, &PendingPaste{Label: label, Content: normalized}
}

// dedupeLabel appends " #k" to label if an element with the same label
// already exists in the buffer, incrementing k until unique.
func (t *TextArea) dedupeLabel(label string) string {
	taken := make(map[string]bool, len(t.elements))
	for _, e := range t.elements {
		taken[e.Label] = true
	}
	if !taken[label] {
		return label
	}
	k := 2
	for taken[fmt.Sprintf("%s #%d", label, k)] {
		k++
	}
	return fmt.Sprintf("%s #%d", label, k)
}

// normalizePasteNewlines converts CRLF and bare CR line endings to LF.
func normalizePasteNewlines(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")
	return s
}

// ExpandPlaceholders replaces every placeholder element's label in the
// buffer text with its original content, for use at submit time. pending
// maps label -> original content.
func ExpandPlaceholders(text string, elements []Element, pending map[string]string) string {
	if len(pending) == 0 {
		return text
	}
	var b strings.Builder
	last := 0
	for _, e := range elements {
		full, ok := pending[e.Label]
		if !ok {
			continue
		}
		b.WriteString(text[last:e.Start])
		b.WriteString(full)
		last = e.End
	}
	b.WriteString(text[last:])
	return b.String()
}
