// Package chunker partitions long text into sentence-aligned chunks.
package chunker

import (
	"strings"

	"gist/internal/text"
)

// Chunk packs the sentences of s greedily into chunks of at most maxChars
// runes. Text that already fits is returned as a single chunk. A sentence
// longer than maxChars is never split and becomes a chunk of its own.
// Whitespace-only input yields no chunks.
func Chunk(s string, maxChars int) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}

	if text.Len(s) <= maxChars {
		return []string{s}
	}

	var (
		chunks []string
		buf    strings.Builder
		bufLen int
	)

	flush := func() {
		if trimmed := strings.TrimSpace(buf.String()); trimmed != "" {
			chunks = append(chunks, trimmed)
		}
		buf.Reset()
		bufLen = 0
	}

	for _, sentence := range text.Split(s) {
		sentenceLen := text.Len(sentence)

		if bufLen+sentenceLen+1 > maxChars {
			flush()
			buf.WriteString(sentence)
			bufLen = sentenceLen

			continue
		}

		if bufLen > 0 {
			buf.WriteByte(' ')
			bufLen++
		}
		buf.WriteString(sentence)
		bufLen += sentenceLen
	}

	flush()

	return chunks
}
