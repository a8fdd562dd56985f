package fetch

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"gist/internal/domain"

	"github.com/PuerkitoBio/goquery"
)

const (
	ReasonChannelEmpty = "Channel has no public posts."

	minPartsForTelegramChannelSlugStartingWithS = 2

	telegramHost = "t.me"
)

var telegramSlugRe = regexp.MustCompile(`^\w{5,32}$`)

func TelegramChannelCanonicalURL(slug string) string {
	slug = strings.TrimSpace(slug)
	if slug == "" {
		return ""
	}

	return fmt.Sprintf("https://%s/s/%s", telegramHost, slug)
}

// TelegramChannelSlug returns the channel slug of a t.me link.
func TelegramChannelSlug(raw string) (string, bool) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return "", false
	}

	if strings.TrimPrefix(u.Host, "www.") != telegramHost {
		return "", false
	}

	path := strings.Trim(u.Path, "/")
	if path == "" {
		return "", false
	}

	parts := strings.Split(path, "/")

	var slug string

	switch parts[0] {
	case "s":
		if len(parts) < minPartsForTelegramChannelSlugStartingWithS {
			return "", false
		}
		slug = parts[1]
	default:
		slug = parts[0]
	}

	slug = strings.TrimSpace(slug)

	if !telegramSlugRe.MatchString(slug) {
		return "", false
	}

	return slug, true
}

// FetchTelegramChannel scrapes the public preview of a channel and returns
// the text of its recent posts, oldest first.
func (f *Fetcher) FetchTelegramChannel(ctx context.Context, slug string) domain.FetchResult {
	previewURL := fmt.Sprintf("%s/s/%s", f.cfg.TelegramBaseURL, strings.TrimSpace(slug))

	resp, err := f.get(ctx, previewURL)
	if err != nil {
		f.log.WarnContext(ctx, "Failed to download Telegram channel",
			"slug", slug,
			"error", err)

		return domain.Failed(ReasonDownloadFailed)
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(resp.body))
	if err != nil {
		return domain.Failed(fmt.Sprintf("An error occurred: %v", err))
	}

	var posts []string
	doc.Find(".tgme_widget_message").Each(func(_ int, message *goquery.Selection) {
		if text := messageText(message); text != "" {
			posts = append(posts, text)
		}
	})

	return textResult(strings.Join(posts, "\n\n"), ReasonChannelEmpty)
}

func messageText(message *goquery.Selection) string {
	var textBuilder strings.Builder
	message.Find(".tgme_widget_message_text, .tgme_widget_message_caption").Each(
		func(_ int, inner *goquery.Selection) {
			inner.Find("br").Each(func(_ int, br *goquery.Selection) {
				br.ReplaceWithHtml("\n")
			})
			fragment := strings.TrimSpace(inner.Text())
			if fragment == "" {
				return
			}
			if textBuilder.Len() > 0 {
				textBuilder.WriteString("\n")
			}
			textBuilder.WriteString(fragment)
		},
	)

	return strings.TrimSpace(textBuilder.String())
}
