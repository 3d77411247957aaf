package composer

import "github.com/sahilm/fuzzy"

// recognizedCommands lists the slash-command names eligible for fuzzy
// completion in the composer's popup.
var recognizedCommands = []string{
	"help", "models", "providers", "model", "current-model", "plan",
}

type commandSource []string

func (c commandSource) String(i int) string { return c[i] }
func (c commandSource) Len() int            { return len(c) }

// Completions returns the recognized command names fuzzy-matched against
// query (the text typed after "/"), best match first. An empty query
// returns all commands in declaration order.
func Completions(query string) []string {
	if query == "" {
		return append([]string(nil), recognizedCommands...)
	}
	matches := fuzzy.Find(query, recognizedCommands)
	out := make([]string, 0, len(matches))
	for _, m := range matches {
		out = append(out, recognizedCommands[m.Index])
	}
	return out
}
