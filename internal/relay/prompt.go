package relay

import (
	"voicepipe/internal/session"
	"voicepipe/internal/upstream/copilot"
)

// promptPrefixes frames the outgoing user message per kind. Question and
// general utterances are forwarded verbatim.
var promptPrefixes = map[PromptKind]string{
	KindCommand:     "Please execute this command or task: ",
	KindCodeRequest: "Provide a code example: ",
}

// BuildPrompt assembles the chat request for text: prior exchanges first,
// oldest to newest, then the new user message with its kind prefix applied.
// History is capped at maxPairs pairs with the oldest dropped first; a
// non-positive maxPairs disables the cap.
func BuildPrompt(text string, kind PromptKind, history []session.Exchange, maxPairs int) copilot.ChatParams {
	if maxPairs > 0 && len(history) > maxPairs {
		history = history[len(history)-maxPairs:]
	}

	messages := make([]copilot.Message, 0, 2*len(history)+1)
	for _, exchange := range history {
		messages = append(messages,
			copilot.Message{Role: "user", Content: exchange.User},
			copilot.Message{Role: "assistant", Content: exchange.Assistant},
		)
	}
	messages = append(messages, copilot.Message{
		Role:    "user",
		Content: promptPrefixes[kind] + text,
	})

	return copilot.ChatParams{Messages: messages, Options: copilot.DefaultOptions()}
}
