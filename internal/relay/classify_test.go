package relay

import (
	"strings"
	"testing"

	"voicepipe/internal/session"
)

func TestClassify(t *testing.T) {
	tests := map[string]struct {
		text string
		want PromptKind
	}{
		"trailing question mark":            {"What is recursion?", KindQuestion},
		"question mark on statement":        {"the build is green?", KindQuestion},
		"interrogative first word":          {"how do I reverse a list", KindQuestion},
		"interrogative uppercase":           {"Could this be simpler", KindQuestion},
		"please with code term":             {"please write a function to sort numbers", KindCodeRequest},
		"create with code term":             {"create a class for users", KindCodeRequest},
		"code term embedded in larger word": {"please review functional requirements", KindCodeRequest},
		"plain command":                     {"please open the settings", KindCommand},
		"generate command":                  {"generate a report for last week", KindCommand},
		"code term without command start":   {"the function looks broken", KindGeneral},
		"plain statement":                   {"i went for a walk today", KindGeneral},
		"empty":                             {"", KindGeneral},
		"whitespace only":                   {"   ", KindGeneral},
		"question beats command":            {"would you please write a function?", KindQuestion},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			if got := Classify(tc.text); got != tc.want {
				t.Fatalf("Classify(%q) = %q, want %q", tc.text, got, tc.want)
			}
		})
	}
}

func TestBuildPromptWrapsQuestionVerbatim(t *testing.T) {
	params := BuildPrompt("What is recursion?", KindQuestion, nil, 10)

	if len(params.Messages) != 1 {
		t.Fatalf("expected a single message, got %d", len(params.Messages))
	}
	msg := params.Messages[0]
	if msg.Role != "user" {
		t.Fatalf("unexpected role: %q", msg.Role)
	}
	if msg.Content != "What is recursion?" {
		t.Fatalf("expected verbatim text, got %q", msg.Content)
	}
	if params.Options.Temperature != 0.7 || params.Options.MaxTokens != 1000 {
		t.Fatalf("unexpected options: %+v", params.Options)
	}
}

func TestBuildPromptAppliesKindPrefixes(t *testing.T) {
	tests := map[string]struct {
		kind PromptKind
		want string
	}{
		"code request": {KindCodeRequest, "Provide a code example: sort a slice"},
		"command":      {KindCommand, "Please execute this command or task: sort a slice"},
		"general":      {KindGeneral, "sort a slice"},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			params := BuildPrompt("sort a slice", tc.kind, nil, 10)
			if got := params.Messages[len(params.Messages)-1].Content; got != tc.want {
				t.Fatalf("got %q, want %q", got, tc.want)
			}
		})
	}
}

func TestBuildPromptIncludesHistoryOldestFirst(t *testing.T) {
	history := []session.Exchange{
		{User: "first question", Assistant: "first answer"},
		{User: "second question", Assistant: "second answer"},
	}

	params := BuildPrompt("third question", KindGeneral, history, 10)

	if len(params.Messages) != 5 {
		t.Fatalf("expected 5 messages, got %d", len(params.Messages))
	}
	wantOrder := []struct{ role, content string }{
		{"user", "first question"},
		{"assistant", "first answer"},
		{"user", "second question"},
		{"assistant", "second answer"},
		{"user", "third question"},
	}
	for i, want := range wantOrder {
		if params.Messages[i].Role != want.role || params.Messages[i].Content != want.content {
			t.Fatalf("message %d = %+v, want %+v", i, params.Messages[i], want)
		}
	}
}

func TestBuildPromptCapsHistoryDroppingOldest(t *testing.T) {
	history := make([]session.Exchange, 0, 12)
	for i := 0; i < 12; i++ {
		history = append(history, session.Exchange{
			User:      "question " + strings.Repeat("x", i+1),
			Assistant: "answer",
		})
	}

	params := BuildPrompt("latest", KindGeneral, history, 10)

	if got := len(params.Messages); got != 21 {
		t.Fatalf("expected 10 pairs plus the new message (21), got %d", got)
	}
	// The two oldest pairs must be gone; the first surviving user message is
	// the third original exchange.
	if params.Messages[0].Content != history[2].User {
		t.Fatalf("expected oldest pairs dropped, first message is %q", params.Messages[0].Content)
	}
	if params.Messages[len(params.Messages)-1].Content != "latest" {
		t.Fatalf("expected new message last, got %q", params.Messages[len(params.Messages)-1].Content)
	}
}
