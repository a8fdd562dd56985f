package fetch

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"path"
	"strings"

	"gist/internal/domain"

	"github.com/mmcdole/gofeed"
)

const (
	ReasonDownloadFailed = "Failed to download content."
	ReasonNoMainText     = "Could not extract main text from the page."
)

var pdfMagic = []byte("%PDF-")

// FetchWebText downloads rawURL and extracts its readable text. Feeds are
// read from their items and PDFs go through the document extractor.
func (f *Fetcher) FetchWebText(ctx context.Context, rawURL string) domain.FetchResult {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		if err == nil {
			err = fmt.Errorf("unsupported URL %q", rawURL)
		}

		return domain.Failed(fmt.Sprintf("An error occurred: %v", err))
	}

	resp, err := f.get(ctx, u.String())
	if err != nil {
		f.log.WarnContext(ctx, "Failed to download web page",
			"url", rawURL,
			"error", err)

		return domain.Failed(ReasonDownloadFailed)
	}

	switch {
	case isPDF(resp):
		name := path.Base(u.Path)
		if name == "." || name == "/" {
			name = u.Host
		}

		return ExtractDocumentText(name, mimePDF, resp.body)
	case isFeed(resp):
		// Parsers keep per-parse state, so each call gets its own.
		feed, parseErr := gofeed.NewParser().Parse(bytes.NewReader(resp.body))
		if parseErr != nil {
			f.log.WarnContext(ctx, "Failed to parse feed",
				"url", rawURL,
				"error", parseErr)

			return domain.Failed(ReasonNoMainText)
		}

		return textResult(FeedText(feed), ReasonNoMainText)
	}

	return textResult(ExtractArticleText(string(resp.body)), ReasonNoMainText)
}

func isPDF(resp *response) bool {
	return strings.Contains(resp.contentType, mimePDF) || bytes.HasPrefix(resp.body, pdfMagic)
}

func isFeed(resp *response) bool {
	for _, marker := range []string{"rss", "atom", "feed+json"} {
		if strings.Contains(resp.contentType, marker) {
			return true
		}
	}

	if strings.Contains(resp.contentType, "html") {
		return false
	}

	return gofeed.DetectFeedType(bytes.NewReader(resp.body)) != gofeed.FeedTypeUnknown
}

// FeedText renders feed items as paragraphs of title and description.
func FeedText(feed *gofeed.Feed) string {
	var paragraphs []string
	for _, item := range feed.Items {
		if item == nil {
			continue
		}

		body := item.Content
		if strings.TrimSpace(body) == "" {
			body = item.Description
		}

		parts := make([]string, 0, 2)
		if title := normalizeWhitespace(item.Title); title != "" {
			parts = append(parts, terminate(title))
		}
		if body = StripTags(body); body != "" {
			parts = append(parts, body)
		}

		if len(parts) > 0 {
			paragraphs = append(paragraphs, strings.Join(parts, " "))
		}
	}

	return strings.Join(paragraphs, "\n\n")
}

// terminate makes s end like a sentence so titles do not run into the
// following text.
func terminate(s string) string {
	if strings.HasSuffix(s, ".") || strings.HasSuffix(s, "!") || strings.HasSuffix(s, "?") {
		return s
	}

	return s + "."
}

func textResult(s, reason string) domain.FetchResult {
	if strings.TrimSpace(s) == "" {
		return domain.Failed(reason)
	}

	return domain.Fetched(s)
}
