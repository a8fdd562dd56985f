package bot

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"gist/internal/fetch"
	"gist/internal/markdown"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

func (b *Bot) handleMessage(ctx context.Context, message *models.Message) error {
	text := strings.TrimSpace(message.Text)
	if text == "" {
		text = strings.TrimSpace(message.Caption)
	}

	chatID := message.Chat.ID

	switch {
	case strings.HasPrefix(text, "/start"), strings.HasPrefix(text, "/help"):
		return b.handleStartCommand(ctx, chatID)
	case strings.HasPrefix(text, "/words"):
		return b.handleWordsCommand(ctx, text, chatID)
	default:
		return b.withSpinner(ctx, chatID, func() error {
			return b.handleSummarize(ctx, text, message)
		})
	}
}

func (b *Bot) handleSummarize(ctx context.Context, text string, message *models.Message) error {
	chatID := message.Chat.ID

	links, err := fetch.FindLinks(text)
	if err != nil {
		return fmt.Errorf("find links: %w", err)
	}

	var uploads []fetch.Upload
	if doc := message.Document; doc != nil {
		if !isSupportedDocument(doc) {
			return b.sendMessage(ctx, chatID, "✖️ Only PDF and TXT documents are supported\\.")
		}

		upload, downloadErr := b.downloadDocument(ctx, doc)
		if downloadErr != nil {
			sendErr := b.sendMessage(ctx, chatID, "❌ Failed to download the document\\.")
			return errors.Join(fmt.Errorf("download document: %w", downloadErr), sendErr)
		}
		uploads = append(uploads, upload)
	}

	if len(links) == 0 && len(uploads) == 0 {
		return b.sendMessage(ctx, chatID, "✖️ Send links or a PDF / TXT document to summarize\\.")
	}

	sources := b.collector.Collect(ctx, links, uploads)
	result := b.runner.Run(ctx, sources, b.wordBudget(chatID))

	b.log.InfoContext(ctx, "Summary is ready",
		"chatID", chatID,
		"runID", result.RunID,
		"status", result.Status,
		"links", len(links),
		"uploads", len(uploads))

	var errs []error
	for _, m := range markdown.FormatResult(result) {
		if err := b.sendMessage(ctx, chatID, m); err != nil {
			errs = append(errs, fmt.Errorf("send message: %w", err))
		}
	}

	return errors.Join(errs...)
}

func isSupportedDocument(doc *models.Document) bool {
	if fetch.IsPDF(doc.FileName, doc.MimeType) {
		return true
	}

	return strings.HasPrefix(doc.MimeType, "text/") || strings.HasSuffix(strings.ToLower(doc.FileName), ".txt")
}

func (b *Bot) downloadDocument(ctx context.Context, doc *models.Document) (fetch.Upload, error) {
	if doc.FileSize > maxDocumentBytes {
		return fetch.Upload{}, fmt.Errorf("document is too large: %d bytes", doc.FileSize)
	}

	file, err := b.api.GetFile(ctx, &bot.GetFileParams{FileID: doc.FileID})
	if err != nil {
		return fetch.Upload{}, fmt.Errorf("get file: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, b.api.FileDownloadLink(file), nil)
	if err != nil {
		return fetch.Upload{}, fmt.Errorf("create request: %w", err)
	}

	resp, err := b.httpClient.Do(req)
	if err != nil {
		return fetch.Upload{}, fmt.Errorf("do request: %w", err)
	}
	defer func() {
		if err = resp.Body.Close(); err != nil {
			b.log.ErrorContext(ctx, "Failed to close response body",
				"error", err,
				"fileID", doc.FileID)
		}
	}()

	if resp.StatusCode != http.StatusOK {
		return fetch.Upload{}, fmt.Errorf("do request: unexpected status: %d", resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxDocumentBytes))
	if err != nil {
		return fetch.Upload{}, fmt.Errorf("read body: %w", err)
	}

	return fetch.Upload{
		Name:     doc.FileName,
		MimeType: doc.MimeType,
		Data:     data,
	}, nil
}
