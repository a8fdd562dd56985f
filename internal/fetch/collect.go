package fetch

import (
	"context"
	"strings"

	"gist/internal/cache"
	"gist/internal/domain"
)

const (
	kindWeb      = "web"
	kindYouTube  = "youtube"
	kindTelegram = "telegram"
	kindPDF      = "pdf"
	kindText     = "txt"

	cacheNamespace = "fetch"
)

// Upload is a file submitted alongside the links.
type Upload struct {
	Name     string
	MimeType string
	Data     []byte
}

// Collect fetches every link and extracts every upload, strictly in input
// order. Links come first, then uploads.
func (f *Fetcher) Collect(ctx context.Context, links []string, uploads []Upload) []domain.Source {
	sources := make([]domain.Source, 0, len(links)+len(uploads))

	for _, link := range links {
		link = strings.TrimSpace(link)
		if link == "" {
			continue
		}

		sources = append(sources, f.collectLink(ctx, link))
	}

	for _, upload := range uploads {
		kind := kindText
		if IsPDF(upload.Name, upload.MimeType) {
			kind = kindPDF
		}

		result := f.cached(ctx, kind, string(upload.Data), func() domain.FetchResult {
			return ExtractDocumentText(upload.Name, upload.MimeType, upload.Data)
		})
		f.observe(ctx, kind, upload.Name, result)

		sources = append(sources, domain.NewSource(DocumentLabel(upload.Name, upload.MimeType), result))
	}

	return sources
}

func (f *Fetcher) collectLink(ctx context.Context, link string) domain.Source {
	var (
		kind, label string
		result      domain.FetchResult
	)

	if videoID, ok := ExtractVideoID(link); ok {
		kind, label = kindYouTube, "YouTube: "+link
		result = f.cached(ctx, kind, videoID, func() domain.FetchResult {
			return f.FetchTranscript(ctx, videoID)
		})
	} else if slug, ok := TelegramChannelSlug(link); ok {
		kind, label = kindTelegram, "Telegram: "+link
		result = f.cached(ctx, kind, TelegramChannelCanonicalURL(slug), func() domain.FetchResult {
			return f.FetchTelegramChannel(ctx, slug)
		})
	} else {
		kind, label = kindWeb, "Web: "+link
		result = f.cached(ctx, kind, link, func() domain.FetchResult {
			return f.FetchWebText(ctx, link)
		})
	}

	f.observe(ctx, kind, link, result)

	return domain.NewSource(label, result)
}

// cached memoizes successful results only, so failures are retried on
// the next request.
func (f *Fetcher) cached(ctx context.Context, kind, target string, fetch func() domain.FetchResult) domain.FetchResult {
	key := cache.Key(cacheNamespace, kind, target)
	if text, ok := f.cache.Get(ctx, key); ok {
		return domain.Fetched(text)
	}

	result := fetch()
	if result.OK() {
		f.cache.Set(ctx, key, result.Text)
	}

	return result
}

func (f *Fetcher) observe(ctx context.Context, kind, target string, result domain.FetchResult) {
	f.metrics.ObserveSource(kind, result.OK())

	if result.OK() {
		f.log.DebugContext(ctx, "Fetched source",
			"kind", kind,
			"target", target,
			"chars", len(result.Text))

		return
	}

	f.log.WarnContext(ctx, "Source yielded no text",
		"kind", kind,
		"target", target,
		"reason", result.Reason)
}
