package transcription

import (
	"math"
	"strings"
	"unicode/utf8"
)

// Analysis summarizes surface features of a transcript.
type Analysis struct {
	WordCount  int
	Language   string
	Confidence float64
}

// Analyze derives a word count, a coarse language guess from accented
// characters, and a length-based confidence estimate. The confidence is a
// proxy for transcript quality; the ASR endpoint does not report one.
func Analyze(text string) Analysis {
	words := strings.Fields(text)
	wordCount := len(words)

	runeTotal := 0
	for _, word := range words {
		runeTotal += utf8.RuneCountInString(word)
	}
	avgWordLength := 0.0
	if wordCount > 0 {
		avgWordLength = float64(runeTotal) / float64(wordCount)
	}

	// Confidence saturates at 20 words, with a small bonus for longer words.
	confidence := math.Min(0.9, float64(wordCount)/20) + math.Min(0.1, avgWordLength/10)

	return Analysis{
		WordCount:  wordCount,
		Language:   detectLanguage(text),
		Confidence: confidence,
	}
}

func detectLanguage(text string) string {
	switch {
	case strings.ContainsAny(text, "ñáéíóúü"):
		return "es"
	case strings.ContainsAny(text, "äöüß"):
		return "de"
	case strings.ContainsAny(text, "àâäéèêëïîôùûüÿ"):
		return "fr"
	default:
		return "en"
	}
}
