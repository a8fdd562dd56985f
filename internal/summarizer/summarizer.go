package summarizer

import (
	"context"
)

// Input describes the payload for a summary request.
type Input struct {
	// Text contains the normalized plain text to summarise.
	Text string
	// WordBudget is the maximum number of words in the summary.
	WordBudget int
	// Label is optional metadata naming the origin in logs.
	Label string
}

// Summarizer produces a single summary for a given input text.
type Summarizer interface {
	Summarize(ctx context.Context, input Input) (string, error)
}
