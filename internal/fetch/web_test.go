package fetch_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"gist/internal/domain"
	"gist/internal/fetch"

	"github.com/mmcdole/gofeed"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const articlePage = `<!DOCTYPE html>
<html><head><title>Tidal energy</title><script>var tracking = "ignore me";</script></head>
<body>
<nav><a href="/">Home</a> Subscribe to the newsletter</nav>
<article>
<h1>Coastal towns bet on tidal energy</h1>
<p>Coastal towns across the north are investing in tidal turbines that turn the daily movement of the sea into a steady supply of electricity for homes and harbours.</p>
<p>Engineers say the predictability of the tides makes the power easier to plan for than wind or solar, even though the turbines are expensive to install and maintain underwater.</p>
<p>Local councils expect the first arrays to be connected to the grid within three years, with storage batteries smoothing the gaps between high and low tide.</p>
</article>
<footer>Copyright footer text</footer>
</body></html>`

const rssFeed = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0"><channel><title>Energy news</title>
<item><title>Tidal power grows</title><description>&lt;p&gt;Coastal towns invest in turbines &amp;amp; storage.&lt;/p&gt;</description></item>
<item><title>Is wind next?</title><description>Offshore farms expand.</description></item>
</channel></rss>`

func newWebServer(t *testing.T) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/article", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("User-Agent") == "" {
			w.WriteHeader(http.StatusForbidden)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(articlePage))
	})
	mux.HandleFunc("/feed", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/rss+xml")
		_, _ = w.Write([]byte(rssFeed))
	})
	mux.HandleFunc("/feed.xml", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/xml")
		_, _ = w.Write([]byte(rssFeed))
	})
	mux.HandleFunc("/empty", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(`<html><body><nav>Menu</nav></body></html>`))
	})
	mux.HandleFunc("/report.pdf", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/pdf")
		_, _ = w.Write([]byte("not really a pdf"))
	})
	mux.HandleFunc("/huge", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(strings.Repeat("a", 4096)))
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	return srv
}

func TestFetchWebTextArticle(t *testing.T) {
	srv := newWebServer(t)
	f := newTestFetcher(t, srv, nil)

	result := f.FetchWebText(context.Background(), srv.URL+"/article")
	require.True(t, result.OK(), result.Reason)

	assert.Contains(t, result.Text, "predictability of the tides")
	assert.Contains(t, result.Text, "storage batteries")
	assert.NotContains(t, result.Text, "newsletter")
	assert.NotContains(t, result.Text, "ignore me")
}

func TestFetchWebTextFailures(t *testing.T) {
	srv := newWebServer(t)
	f := newTestFetcher(t, srv, nil)

	result := f.FetchWebText(context.Background(), srv.URL+"/missing")
	assert.Equal(t, fetch.ReasonDownloadFailed, result.Reason)

	result = f.FetchWebText(context.Background(), srv.URL+"/empty")
	assert.Equal(t, fetch.ReasonNoMainText, result.Reason)

	result = f.FetchWebText(context.Background(), "not a link")
	assert.True(t, strings.HasPrefix(result.Reason, "An error occurred: "), result.Reason)

	result = f.FetchWebText(context.Background(), "ftp://example.com/file")
	assert.True(t, strings.HasPrefix(result.Reason, "An error occurred: "), result.Reason)
}

func TestFetchWebTextBodyLimit(t *testing.T) {
	srv := newWebServer(t)
	f := fetch.New(fetch.Config{MaxBodyBytes: 1024}, nil, nil, discardLogger())

	result := f.FetchWebText(context.Background(), srv.URL+"/huge")
	assert.Equal(t, fetch.ReasonDownloadFailed, result.Reason)
}

func TestFetchWebTextFeed(t *testing.T) {
	srv := newWebServer(t)
	f := newTestFetcher(t, srv, nil)

	for _, path := range []string{"/feed", "/feed.xml"} {
		result := f.FetchWebText(context.Background(), srv.URL+path)
		require.True(t, result.OK(), result.Reason)

		assert.Equal(t,
			"Tidal power grows. Coastal towns invest in turbines & storage.\n\nIs wind next? Offshore farms expand.",
			result.Text)
	}
}

func TestFetchWebTextFeedConcurrently(t *testing.T) {
	srv := newWebServer(t)
	f := newTestFetcher(t, srv, nil)

	const workers = 8

	var (
		wg      sync.WaitGroup
		results [workers]domain.FetchResult
	)
	for i := range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i] = f.FetchWebText(context.Background(), srv.URL+"/feed")
		}()
	}
	wg.Wait()

	for _, result := range results {
		require.True(t, result.OK(), result.Reason)
		assert.True(t, strings.HasPrefix(result.Text, "Tidal power grows."), result.Text)
	}
}

func TestFetchWebTextRoutesPDF(t *testing.T) {
	srv := newWebServer(t)
	f := newTestFetcher(t, srv, nil)

	result := f.FetchWebText(context.Background(), srv.URL+"/report.pdf")
	assert.False(t, result.OK())
	assert.True(t, strings.HasPrefix(result.Reason, "Failed to read PDF: "), result.Reason)
}

func TestFeedTextSkipsEmptyItems(t *testing.T) {
	feed := &gofeed.Feed{Items: []*gofeed.Item{
		nil,
		{},
		{Title: "  Only a title  "},
		{Content: "<b>Only</b> content."},
	}}

	assert.Equal(t, "Only a title.\n\nOnly content.", fetch.FeedText(feed))
}

func TestExtractArticleTextPlainInput(t *testing.T) {
	assert.Equal(t, "Just some words.", fetch.ExtractArticleText("  Just   some\nwords. "))
	assert.Empty(t, fetch.ExtractArticleText("   "))
}

func TestStripTags(t *testing.T) {
	assert.Equal(t, "Fish & chips are good.", fetch.StripTags("<p>Fish &amp; <b>chips</b>\n are good.</p>"))
}
