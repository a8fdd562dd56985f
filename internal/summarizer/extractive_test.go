package summarizer_test

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
	"testing"

	"gist/internal/chunker"
	"gist/internal/lexrank"
	"gist/internal/summarizer"
	"gist/internal/text"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var vocabulary = []string{
	"harbor", "engine", "river", "market", "garden", "signal", "winter",
	"copper", "library", "orbit", "meadow", "lantern", "canyon", "ledger",
	"violin", "glacier", "pepper", "thunder", "circuit", "compass",
}

// longText builds at least minChars of varied sentences.
func longText(minChars int) string {
	var b strings.Builder
	for i := 0; b.Len() < minChars; i++ {
		fmt.Fprintf(&b, "The %s near the %s changed how the %s works every season. ",
			vocabulary[i%len(vocabulary)],
			vocabulary[(i*3+1)%len(vocabulary)],
			vocabulary[(i*7+2)%len(vocabulary)],
		)
	}
	return b.String()
}

type countingCache struct {
	mu      sync.Mutex
	entries map[string]string
	gets    int
	hits    int
	sets    int
}

func newCountingCache() *countingCache {
	return &countingCache{entries: map[string]string{}}
}

func (c *countingCache) Get(_ context.Context, key string) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.gets++
	v, ok := c.entries[key]
	if ok {
		c.hits++
	}
	return v, ok
}

func (c *countingCache) Set(_ context.Context, key string, value string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.sets++
	c.entries[key] = value
}

func newExtractive(c *countingCache) *summarizer.Extractive {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	if c == nil {
		return summarizer.NewExtractive(lexrank.New(), nil, summarizer.Options{}, nil, log)
	}
	return summarizer.NewExtractive(lexrank.New(), c, summarizer.Options{}, nil, log)
}

func TestBoundedRespectsBudget(t *testing.T) {
	e := newExtractive(nil)
	in := longText(3000)

	for _, budget := range []int{1, 5, 12, 40, 100, 1000} {
		summary := e.Bounded(in, budget)
		assert.LessOrEqual(t, text.WordCount(summary), budget, "budget %d", budget)
	}
}

func TestBoundedEmptyInput(t *testing.T) {
	e := newExtractive(nil)

	for _, in := range []string{"", "  \n\t "} {
		assert.Empty(t, e.Bounded(in, 50))
		assert.Empty(t, e.Long(context.Background(), in, 50))
	}
}

func TestBoundedNonPositiveBudget(t *testing.T) {
	e := newExtractive(nil)
	assert.Empty(t, e.Bounded("Short sentence here.", 0))
	assert.Empty(t, e.Bounded("Short sentence here.", -3))
}

func TestBoundedEverySentenceTooLong(t *testing.T) {
	e := newExtractive(nil)
	in := "Seven words live inside this first sentence. Another sentence also carries seven words here."

	assert.Empty(t, e.Bounded(in, 6))
}

func TestBoundedFallsBackToDocumentOrder(t *testing.T) {
	e := newExtractive(nil)

	assert.Equal(t, "The. A. An.", e.Bounded("The. A. An.", 10))
	assert.Equal(t, "The. A.", e.Bounded("The. A. An.", 2))
}

func TestBoundedIsSubsetOfInput(t *testing.T) {
	e := newExtractive(nil)
	in := longText(2000)
	sentences := text.Split(in)

	for _, s := range text.Split(e.Bounded(in, 60)) {
		assert.Contains(t, sentences, s)
	}
}

func TestResummarizingDoesNotGrow(t *testing.T) {
	e := newExtractive(nil)
	in := longText(5000)

	for _, budget := range []int{30, 80} {
		first := e.Bounded(in, budget)
		require.NotEmpty(t, first)

		for _, again := range []int{budget, budget * 2} {
			second := e.Bounded(first, again)

			firstSentences := text.Split(first)
			for _, s := range text.Split(second) {
				assert.Contains(t, firstSentences, s)
			}
			assert.LessOrEqual(t, text.WordCount(second), text.WordCount(first))
		}
	}
}

func TestLongChunksLargeInput(t *testing.T) {
	e := newExtractive(nil)
	in := longText(10000)
	require.GreaterOrEqual(t, text.Len(in), 10000)

	chunks := chunker.Chunk(in, summarizer.DefaultChunkMaxChars)
	assert.GreaterOrEqual(t, len(chunks), 2)

	summary := e.Long(context.Background(), in, 150)
	assert.NotEmpty(t, summary)
	assert.LessOrEqual(t, text.WordCount(summary), 150)
}

func TestLongIsMemoized(t *testing.T) {
	c := newCountingCache()
	e := newExtractive(c)
	in := longText(6000)

	first := e.Long(context.Background(), in, 90)
	second := e.Long(context.Background(), in, 90)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, c.sets)
	assert.Equal(t, 1, c.hits)

	uncached := newExtractive(nil).Long(context.Background(), in, 90)
	assert.Equal(t, first, uncached)

	e.Long(context.Background(), in, 45)
	assert.Equal(t, 2, c.sets)
}

func TestSummarizeRejectsInvalidBudget(t *testing.T) {
	e := newExtractive(nil)

	_, err := e.Summarize(context.Background(), summarizer.Input{Text: "Some text here.", WordBudget: 0})
	require.ErrorIs(t, err, summarizer.ErrInvalidWordBudget)

	summary, err := e.Summarize(context.Background(), summarizer.Input{Text: "Some text here.", WordBudget: 10})
	require.NoError(t, err)
	assert.Equal(t, "Some text here.", summary)
}
