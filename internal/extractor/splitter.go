package extractor

import (
	"fmt"
	"strings"
	"unicode"
)

// Mode selects how a speech is cut into sentence units.
type Mode string

const (
	// ModeLine emits one unit per LINE node.
	ModeLine Mode = "line"
	// ModeSentence joins the lines of a speech and cuts at sentence-final
	// punctuation.
	ModeSentence Mode = "sentence"
)

// ParseMode parses a split mode name.
func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case ModeLine, "":
		return ModeLine, nil
	case ModeSentence:
		return ModeSentence, nil
	default:
		return "", fmt.Errorf("invalid split mode %q (must be 'line' or 'sentence')", s)
	}
}

// Units splits a speech into normalized, non-empty sentence units.
func Units(speech Speech, mode Mode) []string {
	if mode == ModeSentence {
		texts := make([]string, 0, len(speech.Lines))
		for _, l := range speech.Lines {
			texts = append(texts, l.Text)
		}
		return SplitSentences(strings.Join(texts, " "))
	}

	var units []string
	for _, l := range speech.Lines {
		if text := normalize(l.Text); text != "" {
			units = append(units, text)
		}
	}
	return units
}

// SplitSentences cuts text after '.', '!' or '?' (plus any closing quotes or
// brackets) when followed by whitespace or the end of the text.
func SplitSentences(text string) []string {
	runes := []rune(text)

	var sentences []string
	start := 0
	for i := 0; i < len(runes); i++ {
		if !isTerminator(runes[i]) {
			continue
		}

		end := i + 1
		for end < len(runes) && (isTerminator(runes[end]) || isCloser(runes[end])) {
			end++
		}
		if end < len(runes) && !unicode.IsSpace(runes[end]) {
			i = end - 1
			continue
		}

		if s := normalize(string(runes[start:end])); s != "" {
			sentences = append(sentences, s)
		}
		start = end
		i = end - 1
	}

	if s := normalize(string(runes[start:])); s != "" {
		sentences = append(sentences, s)
	}
	return sentences
}

// normalize collapses whitespace runs and trims the result.
func normalize(text string) string {
	return strings.Join(strings.Fields(text), " ")
}

func isTerminator(r rune) bool {
	return r == '.' || r == '!' || r == '?'
}

func isCloser(r rune) bool {
	switch r {
	case '\'', '"', ')', ']', '’', '”':
		return true
	}
	return false
}
