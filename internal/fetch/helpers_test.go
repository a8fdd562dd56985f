package fetch_test

import (
	"io"
	"log/slog"
	"net/http/httptest"
	"testing"
	"time"

	"gist/internal/cache"
	"gist/internal/fetch"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestFetcher(t *testing.T, srv *httptest.Server, c cache.Cache) *fetch.Fetcher {
	t.Helper()

	return fetch.New(fetch.Config{
		Timeout:         5 * time.Second,
		YouTubeBaseURL:  srv.URL,
		TelegramBaseURL: srv.URL,
	}, c, nil, discardLogger())
}
