package summarizer

import (
	"context"
	"errors"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"gist/internal/cache"
	"gist/internal/chunker"
	"gist/internal/lexrank"
	"gist/internal/metrics"
	"gist/internal/text"
)

const (
	DefaultChunkMaxChars   = 4000
	DefaultChunkWordBudget = 100

	cacheNamespace = "summary"
)

var ErrInvalidWordBudget = errors.New("word budget must be positive")

// Options tunes the hierarchical pass.
type Options struct {
	// ChunkMaxChars is the rune ceiling of one chunk.
	ChunkMaxChars int
	// ChunkWordBudget is the word budget of each intermediate summary.
	ChunkWordBudget int
}

// Extractive builds summaries out of the highest ranked sentences of the
// input. It never generates new text.
type Extractive struct {
	ranker  *lexrank.Ranker
	cache   cache.Cache
	opts    Options
	metrics *metrics.Metrics
	log     *slog.Logger
}

// NewExtractive wires a summarizer. A nil cache disables memoization and
// non-positive options fall back to their defaults.
func NewExtractive(
	ranker *lexrank.Ranker,
	c cache.Cache,
	opts Options,
	m *metrics.Metrics,
	log *slog.Logger,
) *Extractive {
	if ranker == nil {
		ranker = lexrank.New()
	}
	if c == nil {
		c = cache.Nop{}
	}
	if opts.ChunkMaxChars <= 0 {
		opts.ChunkMaxChars = DefaultChunkMaxChars
	}
	if opts.ChunkWordBudget <= 0 {
		opts.ChunkWordBudget = DefaultChunkWordBudget
	}

	return &Extractive{
		ranker:  ranker,
		cache:   c,
		opts:    opts,
		metrics: m,
		log:     log,
	}
}

// Summarize implements Summarizer.
func (e *Extractive) Summarize(ctx context.Context, input Input) (string, error) {
	if input.WordBudget <= 0 {
		return "", ErrInvalidWordBudget
	}

	return e.Long(ctx, input.Text, input.WordBudget), nil
}

// Bounded returns the top ranked sentences of s whose combined word count
// stays within wordBudget, in rank order. When ranking fails the
// sentences are taken in document order instead.
func (e *Extractive) Bounded(s string, wordBudget int) string {
	if wordBudget <= 0 {
		return ""
	}

	var candidates []string

	ranked, err := e.ranker.Rank(s)
	if err != nil {
		e.metrics.ObserveRankingFallback()
		e.log.Debug("Ranking failed, using document order",
			"error", err)

		candidates = text.Split(s)
	} else {
		candidates = make([]string, len(ranked))
		for i, r := range ranked {
			candidates[i] = r.Text
		}
	}

	return fill(candidates, wordBudget)
}

// Long summarizes text of any length: each chunk is reduced to
// ChunkWordBudget words, the reductions are joined by newlines and the
// result is reduced to wordBudget words.
func (e *Extractive) Long(ctx context.Context, s string, wordBudget int) string {
	key := cache.Key(cacheNamespace,
		s,
		strconv.Itoa(wordBudget),
		strconv.Itoa(e.opts.ChunkMaxChars),
		strconv.Itoa(e.opts.ChunkWordBudget),
	)
	if summary, ok := e.cache.Get(ctx, key); ok {
		return summary
	}

	start := time.Now()

	chunks := chunker.Chunk(s, e.opts.ChunkMaxChars)
	if len(chunks) == 0 {
		return ""
	}

	partials := make([]string, len(chunks))
	for i, chunk := range chunks {
		partials[i] = e.Bounded(chunk, e.opts.ChunkWordBudget)
	}

	summary := e.Bounded(strings.Join(partials, "\n"), wordBudget)

	e.metrics.ObserveSummarize(time.Since(start))
	e.log.DebugContext(ctx, "Summarized text",
		"chunks", len(chunks),
		"input_words", text.WordCount(s),
		"summary_words", text.WordCount(summary))

	e.cache.Set(ctx, key, summary)

	return summary
}

func fill(candidates []string, wordBudget int) string {
	var (
		picked []string
		words  int
	)

	for _, c := range candidates {
		n := text.WordCount(c)
		if words+n > wordBudget {
			break
		}
		picked = append(picked, c)
		words += n
	}

	return strings.Join(picked, " ")
}
