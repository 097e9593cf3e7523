package relay

import "strings"

// PromptKind labels the intent detected in a transcribed utterance.
type PromptKind string

const (
	KindQuestion    PromptKind = "question"
	KindCommand     PromptKind = "command"
	KindCodeRequest PromptKind = "code_request"
	KindGeneral     PromptKind = "general"
)

// Keyword defaults for Classify. They are heuristics tuned for short
// dictated utterances, not a general intent taxonomy.
var (
	questionWords = map[string]struct{}{
		"what": {}, "how": {}, "why": {}, "when": {}, "where": {}, "who": {},
		"can": {}, "could": {}, "would": {}, "is": {}, "are": {}, "do": {}, "does": {},
	}
	commandWords = map[string]struct{}{
		"please": {}, "create": {}, "write": {}, "make": {}, "generate": {},
	}
	codeTerms = []string{"function", "script", "code", "class", "method"}
)

// Classify assigns a PromptKind to an utterance. A trailing question mark
// or an interrogative first word wins over everything else; an imperative
// first word yields KindCommand, or KindCodeRequest when code vocabulary
// appears anywhere in the text. Everything else is KindGeneral.
func Classify(text string) PromptKind {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return KindGeneral
	}
	lower := strings.ToLower(trimmed)
	first := strings.Fields(lower)[0]

	if strings.HasSuffix(trimmed, "?") {
		return KindQuestion
	}
	if _, ok := questionWords[first]; ok {
		return KindQuestion
	}
	if _, ok := commandWords[first]; ok {
		for _, term := range codeTerms {
			if strings.Contains(lower, term) {
				return KindCodeRequest
			}
		}
		return KindCommand
	}
	return KindGeneral
}
