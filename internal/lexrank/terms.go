package lexrank

import (
	"strings"
	"unicode"

	"github.com/kljensen/snowball/english"
)

// terms lowercases s, splits it on anything that is not a letter or a
// digit, drops English stop words and stems what is left.
func terms(s string) []string {
	words := strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})

	out := make([]string, 0, len(words))
	for _, w := range words {
		if english.IsStopWord(w) {
			continue
		}

		stem := english.Stem(w, false)
		if stem == "" {
			continue
		}

		out = append(out, stem)
	}

	return out
}

// termFrequencies returns tf per term normalized by the most frequent term.
func termFrequencies(ts []string) map[string]float64 {
	counts := make(map[string]int, len(ts))
	maxCount := 0

	for _, t := range ts {
		counts[t]++
		maxCount = max(maxCount, counts[t])
	}

	tf := make(map[string]float64, len(counts))
	for t, c := range counts {
		tf[t] = float64(c) / float64(maxCount)
	}

	return tf
}
