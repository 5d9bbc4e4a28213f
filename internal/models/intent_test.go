package models

import "testing"

func TestParseIntent(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want Intent
	}{
		{"empty", "", Intent{Kind: IntentNone}},
		{"whitespace only", "   \t  ", Intent{Kind: IntentNone}},
		{"set name", "/user alice", Intent{Kind: IntentSetName, Name: "alice"}},
		{"set name padded", "  /user   alice  ", Intent{Kind: IntentSetName, Name: "alice"}},
		{"set name missing arg", "/user", Intent{Kind: IntentSetName}},
		{"set name blank arg", "/user    ", Intent{Kind: IntentSetName}},
		{"history", "/history", Intent{Kind: IntentHistory}},
		{"history padded", "  /history  ", Intent{Kind: IntentHistory}},
		{"chat", "hello there", Intent{Kind: IntentChat, Content: "hello there"}},
		{"chat trimmed", "  hello  ", Intent{Kind: IntentChat, Content: "hello"}},
		{"unknown slash command is chat", "/historyy", Intent{Kind: IntentChat, Content: "/historyy"}},
		{"name with spaces", "/user mary jane", Intent{Kind: IntentSetName, Name: "mary jane"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ParseIntent(tt.raw); got != tt.want {
				t.Errorf("ParseIntent(%q) = %+v, want %+v", tt.raw, got, tt.want)
			}
		})
	}
}
