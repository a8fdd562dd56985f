// Package text holds the sentence and word primitives shared by the
// chunker, the ranker and the summarizers.
package text

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Split breaks s into sentences at '.', '!' or '?' followed by whitespace.
// The punctuation stays with its sentence. Abbreviations and decimals are
// not special-cased, so "Dr. Smith" yields two sentences.
func Split(s string) []string {
	var sentences []string

	start := 0
	for i := 0; i < len(s); {
		r, size := utf8.DecodeRuneInString(s[i:])
		i += size

		if r != '.' && r != '!' && r != '?' {
			continue
		}

		next, nextSize := utf8.DecodeRuneInString(s[i:])
		if nextSize == 0 || !unicode.IsSpace(next) {
			continue
		}

		sentences = appendTrimmed(sentences, s[start:i])

		for i < len(s) {
			ws, wsSize := utf8.DecodeRuneInString(s[i:])
			if !unicode.IsSpace(ws) {
				break
			}
			i += wsSize
		}
		start = i
	}

	return appendTrimmed(sentences, s[start:])
}

// WordCount returns the number of whitespace-separated words in s.
func WordCount(s string) int {
	return len(strings.Fields(s))
}

// Normalize collapses whitespace runs into single spaces and trims.
func Normalize(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// Len returns the length of s in runes.
func Len(s string) int {
	return utf8.RuneCountInString(s)
}

func appendTrimmed(sentences []string, s string) []string {
	s = strings.TrimSpace(s)
	if s == "" {
		return sentences
	}

	return append(sentences, s)
}
