// Package summarize produces short extractive summaries of transcripts by
// frequency-scoring sentences and reassembling the best ones in their
// original order.
package summarize

import (
	"regexp"
	"sort"
	"strings"
)

// NoTextMessage is returned when there is nothing to summarize.
const NoTextMessage = "No text provided for summarization."

// DefaultMaxWords bounds summary length when no limit is configured.
const DefaultMaxWords = 150

var (
	spaceRe = regexp.MustCompile(`\s+`)
	noiseRe = regexp.MustCompile(`[^\p{L}\p{N}_\s.,!?-]`)
	wordRe  = regexp.MustCompile(`[\p{L}\p{N}_]+`)
)

// stopWords are excluded from sentence scoring so that frequent filler does
// not dominate the selection.
var stopWords = map[string]struct{}{
	"the": {}, "a": {}, "an": {}, "and": {}, "or": {}, "but": {}, "in": {},
	"on": {}, "at": {}, "to": {}, "for": {}, "of": {}, "with": {}, "by": {},
	"is": {}, "are": {}, "was": {}, "were": {}, "be": {}, "been": {}, "being": {},
	"have": {}, "has": {}, "had": {}, "do": {}, "does": {}, "did": {},
	"will": {}, "would": {}, "could": {}, "should": {}, "may": {}, "might": {},
	"must": {}, "can": {}, "shall": {},
}

// Summarize returns an extractive summary of text holding at most maxWords
// words. A non-positive maxWords falls back to DefaultMaxWords.
func Summarize(text string, maxWords int) string {
	if strings.TrimSpace(text) == "" {
		return NoTextMessage
	}
	if maxWords <= 0 {
		maxWords = DefaultMaxWords
	}

	cleaned := preprocess(text)
	sentences := splitSentences(cleaned)
	if len(sentences) == 0 {
		if runes := []rune(cleaned); len(runes) > 200 {
			return string(runes[:200]) + "..."
		}
		return cleaned
	}

	scores := scoreSentences(sentences, cleaned)

	// Pick sentences best-first until the budget is hit; stop at the first
	// sentence that does not fit.
	order := make([]int, len(sentences))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return scores[order[a]] > scores[order[b]]
	})

	selected := make([]bool, len(sentences))
	wordCount := 0
	for _, idx := range order {
		sentenceWords := len(strings.Fields(sentences[idx]))
		if wordCount+sentenceWords > maxWords {
			break
		}
		selected[idx] = true
		wordCount += sentenceWords
	}

	var out []string
	for i, sentence := range sentences {
		if selected[i] {
			out = append(out, sentence)
		}
	}
	return strings.TrimSpace(strings.Join(out, " "))
}

func preprocess(text string) string {
	text = spaceRe.ReplaceAllString(strings.TrimSpace(text), " ")
	return noiseRe.ReplaceAllString(text, "")
}

// splitSentences assumes whitespace has been collapsed and closes a
// sentence at every token ending in a terminator.
func splitSentences(text string) []string {
	var sentences []string
	var current []string
	for _, token := range strings.Fields(text) {
		current = append(current, token)
		if strings.HasSuffix(token, ".") || strings.HasSuffix(token, "!") || strings.HasSuffix(token, "?") {
			sentences = append(sentences, strings.Join(current, " "))
			current = nil
		}
	}
	if len(current) > 0 {
		sentences = append(sentences, strings.Join(current, " "))
	}
	return sentences
}

// scoreSentences rates each sentence by the corpus frequency of its
// non-stopword terms, normalized by sentence length.
func scoreSentences(sentences []string, fullText string) []float64 {
	freq := make(map[string]int)
	for _, word := range wordRe.FindAllString(strings.ToLower(fullText), -1) {
		freq[word]++
	}

	scores := make([]float64, len(sentences))
	for i, sentence := range sentences {
		words := wordRe.FindAllString(strings.ToLower(sentence), -1)
		score := 0
		for _, word := range words {
			if _, skip := stopWords[word]; skip {
				continue
			}
			score += freq[word]
		}
		if len(words) > 0 {
			scores[i] = float64(score) / float64(len(words))
		}
	}
	return scores
}
