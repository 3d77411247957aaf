// Package composer implements the bottom input widget: prompt/footer
// layout around a textarea.TextArea, slash-command recognition, and a
// fuzzy-matched command-completion popup. Only recognition happens here;
// full command semantics live in the session backend.
package composer

import "strings"

// SlashResult is the outcome of parsing one submitted line against the
// recognized slash-command prefixes.
type SlashResult struct {
	Kind SlashKind
	Text string // Help text / error text / model name, depending on Kind
}

type SlashKind int

const (
	SlashContinue SlashKind = iota // not a recognized command: treat as a regular message
	SlashHelp
	SlashListModels
	SlashListProviders
	SlashSwitchModel
	SlashShowCurrentModel
	SlashTogglePlan
	SlashInvalid
)

const helpText = `Recognized commands:
  /help             show this message
  /models           list available models
  /providers        list configured providers
  /model <name>     switch to a model
  /current-model    show the active model
  /plan             toggle the plan summary's expanded view`

// ParseSlash recognizes the fixed set of slash-command prefixes. Anything
// else (including a bare "/" with no match) is SlashInvalid if it looks
// like a command attempt, or SlashContinue if it doesn't start with "/" at
// all.
func ParseSlash(line string) SlashResult {
	trimmed := strings.TrimSpace(line)
	if !strings.HasPrefix(trimmed, "/") {
		return SlashResult{Kind: SlashContinue}
	}

	fields := strings.Fields(trimmed)
	cmd := fields[0]
	switch cmd {
	case "/help":
		return SlashResult{Kind: SlashHelp, Text: helpText}
	case "/models":
		return SlashResult{Kind: SlashListModels}
	case "/providers":
		return SlashResult{Kind: SlashListProviders}
	case "/model":
		if len(fields) < 2 {
			return SlashResult{Kind: SlashInvalid, Text: "usage: /model <name>"}
		}
		return SlashResult{Kind: SlashSwitchModel, Text: fields[1]}
	case "/current-model":
		return SlashResult{Kind: SlashShowCurrentModel}
	case "/plan":
		return SlashResult{Kind: SlashTogglePlan}
	default:
		return SlashResult{Kind: SlashInvalid, Text: "unrecognized command: " + cmd}
	}
}
