package fetch

import (
	"html"
	"strings"

	"codeberg.org/readeck/go-readability/v2"
	"github.com/PuerkitoBio/goquery"
	"github.com/microcosm-cc/bluemonday"
)

// Readability output shorter than this usually holds only the title.
const minReadableChars = 200

// ExtractArticleText returns the main text of an HTML page, paragraphs
// separated by blank lines. It returns "" when nothing readable is found.
func ExtractArticleText(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return ""
	}

	if !strings.Contains(trimmed, "<") {
		return normalizeWhitespace(trimmed)
	}

	if doc, err := goquery.NewDocumentFromReader(strings.NewReader(trimmed)); err == nil {
		doc.Find("head, script, style, noscript, template, aside, nav, header, footer, form").Remove()
		doc.Find("iframe, embed, object, video, audio, canvas, svg").Remove()
		doc.Find("[class*='share'], [class*='social'], [class*='comment'], [id*='comment']").Remove()

		if cleaned, htmlErr := doc.Html(); htmlErr == nil && cleaned != "" {
			trimmed = cleaned
		}
	}

	article, err := readability.FromReader(strings.NewReader(trimmed), nil)
	if err == nil {
		var textBuf strings.Builder
		if err := article.RenderText(&textBuf); err == nil {
			if text := strings.TrimSpace(textBuf.String()); len(text) >= minReadableChars {
				var htmlBuf strings.Builder
				if err := article.RenderHTML(&htmlBuf); err == nil {
					if paragraphs := extractParagraphs(htmlBuf.String()); paragraphs != "" {
						return paragraphs
					}
				}

				return normalizeWhitespace(text)
			}
		}
	}

	return extractParagraphs(trimmed)
}

func extractParagraphs(raw string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(raw))
	if err != nil {
		return StripTags(raw)
	}

	var paragraphs []string
	doc.Find("h1, h2, h3, h4, h5, h6, p, pre, li, blockquote").Each(func(_ int, s *goquery.Selection) {
		// Nested blocks are reached through their own selection.
		if s.ParentsFiltered("p, li, blockquote, pre").Length() > 0 {
			return
		}

		if text := normalizeWhitespace(s.Text()); text != "" {
			paragraphs = append(paragraphs, text)
		}
	})

	if len(paragraphs) == 0 {
		return StripTags(raw)
	}

	return strings.Join(paragraphs, "\n\n")
}

// StripTags removes every HTML tag of raw and collapses whitespace.
func StripTags(raw string) string {
	return normalizeWhitespace(html.UnescapeString(bluemonday.StrictPolicy().Sanitize(raw)))
}

func normalizeWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
