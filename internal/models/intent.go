package models

import "strings"

// IntentKind discriminates the parsed inbound intents.
type IntentKind int

const (
	// IntentNone means the frame carried nothing actionable (blank input).
	IntentNone IntentKind = iota
	// IntentSetName is a "/user <name>" command. Name may be empty when the
	// argument was missing or whitespace; callers answer that with a notice.
	IntentSetName
	// IntentHistory is a "/history" command.
	IntentHistory
	// IntentChat is plain chat content.
	IntentChat
)

// Intent is one parsed inbound client frame.
type Intent struct {
	Kind    IntentKind
	Name    string // set for IntentSetName
	Content string // set for IntentChat
}

// ParseIntent parses a raw text frame into a client intent. Input is trimmed
// first; whitespace-only frames parse to IntentNone and are dropped silently.
func ParseIntent(raw string) Intent {
	text := strings.TrimSpace(raw)
	if text == "" {
		return Intent{Kind: IntentNone}
	}

	if text == "/user" || strings.HasPrefix(text, "/user ") {
		name := strings.TrimSpace(strings.TrimPrefix(text, "/user"))
		return Intent{Kind: IntentSetName, Name: name}
	}

	if text == "/history" {
		return Intent{Kind: IntentHistory}
	}

	return Intent{Kind: IntentChat, Content: text}
}
