// Package fetch turns links and uploaded files into plain text sources.
// Every failure is reported as a domain.FetchResult reason rather than an
// error.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"gist/internal/cache"
	"gist/internal/metrics"
)

const (
	DefaultTimeout         = 20 * time.Second
	DefaultHostInterval    = time.Second
	DefaultMaxBodyBytes    = 20 << 20
	DefaultYouTubeBaseURL  = "https://www.youtube.com"
	DefaultTelegramBaseURL = "https://t.me"

	DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) " +
		"AppleWebKit/537.36 (KHTML, like Gecko) Chrome/127.0.0.0 Safari/537.36"
)

var errUnexpectedStatus = errors.New("unexpected status")

type Config struct {
	Timeout      time.Duration
	UserAgent    string
	HostInterval time.Duration
	MaxBodyBytes int64
	// YouTubeBaseURL and TelegramBaseURL point the scrapers at another
	// host, mostly for tests.
	YouTubeBaseURL  string
	TelegramBaseURL string
}

func (c Config) withDefaults() Config {
	if c.Timeout <= 0 {
		c.Timeout = DefaultTimeout
	}
	if c.UserAgent == "" {
		c.UserAgent = DefaultUserAgent
	}
	if c.HostInterval < 0 {
		c.HostInterval = DefaultHostInterval
	}
	if c.MaxBodyBytes <= 0 {
		c.MaxBodyBytes = DefaultMaxBodyBytes
	}
	if c.YouTubeBaseURL == "" {
		c.YouTubeBaseURL = DefaultYouTubeBaseURL
	}
	if c.TelegramBaseURL == "" {
		c.TelegramBaseURL = DefaultTelegramBaseURL
	}
	c.YouTubeBaseURL = strings.TrimRight(c.YouTubeBaseURL, "/")
	c.TelegramBaseURL = strings.TrimRight(c.TelegramBaseURL, "/")

	return c
}

type Fetcher struct {
	cfg     Config
	client  *http.Client
	limiter *HostLimiter
	cache   cache.Cache
	metrics *metrics.Metrics
	log     *slog.Logger
}

// New builds a Fetcher. A nil cache disables memoization of fetched text.
func New(cfg Config, c cache.Cache, m *metrics.Metrics, log *slog.Logger) *Fetcher {
	cfg = cfg.withDefaults()
	if c == nil {
		c = cache.Nop{}
	}

	return &Fetcher{
		cfg:     cfg,
		client:  &http.Client{Timeout: cfg.Timeout},
		limiter: NewHostLimiter(cfg.HostInterval),
		cache:   c,
		metrics: m,
		log:     log,
	}
}

type response struct {
	body        []byte
	contentType string
}

func (f *Fetcher) get(ctx context.Context, rawURL string) (*response, error) {
	if err := f.limiter.Wait(ctx, rawURL); err != nil {
		return nil, fmt.Errorf("wait for host: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("User-Agent", f.cfg.UserAgent)
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")

	resp, err := f.client.Do(req) //nolint:gosec // user supplied URL
	if err != nil {
		return nil, fmt.Errorf("do request: %w", err)
	}
	defer func() {
		if err = resp.Body.Close(); err != nil {
			f.log.ErrorContext(ctx, "Failed to close response body",
				"error", err,
				"url", rawURL)
		}
	}()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("do request: %w: %d", errUnexpectedStatus, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.cfg.MaxBodyBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	if int64(len(body)) > f.cfg.MaxBodyBytes {
		return nil, fmt.Errorf("read body: larger than %d bytes", f.cfg.MaxBodyBytes)
	}

	return &response{
		body:        body,
		contentType: strings.ToLower(resp.Header.Get("Content-Type")),
	}, nil
}
