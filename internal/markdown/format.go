package markdown

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"gist/internal/domain"
)

const (
	MessageMaxLength = 4096

	header             = "🧠 *Summary*\n\n"
	continuationHeader = "🧠 *Summary \\(continue\\)*\n\n"
)

// FormatResult renders a run result as MarkdownV2 messages no longer than
// MessageMaxLength bytes each.
func FormatResult(result domain.Result) []string {
	var blocks []string

	if result.Status == domain.StatusNoText {
		blocks = append(blocks, "⚠️ "+EscapeV2(domain.NoTextMessage))
	} else {
		for _, s := range result.Summaries {
			summary := s.Summary
			if strings.TrimSpace(summary) == "" {
				summary = "No sentence fits the word budget."
			}
			blocks = append(blocks, fmt.Sprintf("📌 *%s*\n%s", EscapeV2(s.Label), EscapeV2(summary)))
		}

		if result.Consolidated != "" {
			blocks = append(blocks, "🧾 *Consolidated*\n"+EscapeV2(result.Consolidated))
		}

		if len(result.Bullets) > 0 {
			var b strings.Builder
			b.WriteString("✅ *Takeaways*")
			for _, bullet := range result.Bullets {
				b.WriteString("\n– ")
				b.WriteString(EscapeV2(bullet))
			}
			blocks = append(blocks, b.String())
		}
	}

	if len(result.Failures) > 0 {
		var b strings.Builder
		b.WriteString("🚫 *No extractable text*")
		for _, f := range result.Failures {
			fmt.Fprintf(&b, "\n– %s: %s", EscapeV2(f.Label), EscapeV2(f.Reason))
		}
		blocks = append(blocks, b.String())
	}

	return pack(blocks, MessageMaxLength)
}

func pack(blocks []string, limit int) []string {
	var (
		messages []string
		current  strings.Builder
	)

	current.WriteString(header)
	headerLength := current.Len()

	flush := func() {
		messages = append(messages, strings.TrimRight(current.String(), "\n"))
		current.Reset()
		current.WriteString(continuationHeader)
		headerLength = current.Len()
	}

	for _, block := range blocks {
		for _, piece := range splitBlock(block, limit-len(continuationHeader)-2) {
			if current.Len()+len(piece)+2 > limit && current.Len() > headerLength {
				flush()
			}

			current.WriteString(piece)
			current.WriteString("\n\n")
		}
	}

	if current.Len() > headerLength {
		messages = append(messages, strings.TrimRight(current.String(), "\n"))
	}

	return messages
}

// splitBlock cuts block into pieces of at most limit bytes, preferring
// line breaks, then spaces. Escape sequences are never split.
func splitBlock(block string, limit int) []string {
	if len(block) <= limit {
		return []string{block}
	}

	var pieces []string
	for len(block) > limit {
		cut := strings.LastIndexByte(block[:limit], '\n')
		if cut <= 0 {
			cut = strings.LastIndexByte(block[:limit], ' ')
		}
		if cut <= 0 {
			cut = hardCut(block, limit)
		}

		pieces = append(pieces, strings.TrimSpace(block[:cut]))
		block = strings.TrimLeft(block[cut:], " \n")
	}

	if block != "" {
		pieces = append(pieces, block)
	}

	return pieces
}

func hardCut(s string, limit int) int {
	cut := limit
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}

	backslashes := 0
	for i := cut - 1; i >= 0 && s[i] == '\\'; i-- {
		backslashes++
	}
	if backslashes%2 == 1 {
		cut--
	}

	return cut
}
