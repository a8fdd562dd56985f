// Package pipeline turns extracted sources into per-source summaries, a
// consolidated summary and a short bullet digest.
package pipeline

import (
	"context"
	"log/slog"
	"strings"

	"gist/internal/domain"
	"gist/internal/metrics"
	"gist/internal/summarizer"
	"gist/internal/text"

	"github.com/google/uuid"
)

const (
	DefaultWordBudget  = 150
	DefaultBulletLimit = 5
)

type Options struct {
	// DefaultWordBudget replaces non-positive budgets passed to Run.
	DefaultWordBudget int
	BulletLimit       int
}

type Orchestrator struct {
	summarizer summarizer.Summarizer
	opts       Options
	metrics    *metrics.Metrics
	log        *slog.Logger
}

func New(s summarizer.Summarizer, opts Options, m *metrics.Metrics, log *slog.Logger) *Orchestrator {
	if opts.DefaultWordBudget <= 0 {
		opts.DefaultWordBudget = DefaultWordBudget
	}
	if opts.BulletLimit <= 0 {
		opts.BulletLimit = DefaultBulletLimit
	}

	return &Orchestrator{
		summarizer: s,
		opts:       opts,
		metrics:    m,
		log:        log,
	}
}

// Run summarizes sources in input order. Sources without text are
// reported as failures; when none has text the result has StatusNoText.
func (o *Orchestrator) Run(ctx context.Context, sources []domain.Source, wordBudget int) domain.Result {
	if wordBudget <= 0 {
		wordBudget = o.opts.DefaultWordBudget
	}

	result := domain.Result{RunID: uuid.NewString()}
	log := o.log.With("run_id", result.RunID)

	var usable []domain.Source
	for _, src := range sources {
		if src.Usable() {
			usable = append(usable, src)
			continue
		}

		reason := src.Reason
		if reason == "" {
			reason = domain.NoTextReason
		}
		result.Failures = append(result.Failures, domain.SourceFailure{
			Label:  src.Label,
			Reason: reason,
		})
	}

	log.InfoContext(ctx, "Starting summarization run",
		"sources", len(sources),
		"usable", len(usable),
		"word_budget", wordBudget)

	var partials []string
	for _, src := range usable {
		summary, err := o.summarizer.Summarize(ctx, summarizer.Input{
			Text:       text.Normalize(src.Text),
			WordBudget: wordBudget,
			Label:      src.Label,
		})
		if err != nil {
			log.ErrorContext(ctx, "Failed to summarize source",
				"label", src.Label,
				"error", err)
			result.Failures = append(result.Failures, domain.SourceFailure{
				Label:  src.Label,
				Reason: "Failed to summarize: " + err.Error(),
			})

			continue
		}

		result.Summaries = append(result.Summaries, domain.SourceSummary{
			Label:   src.Label,
			Summary: summary,
		})
		if summary != "" {
			partials = append(partials, summary)
		}
	}

	if len(result.Summaries) == 0 {
		result.Status = domain.StatusNoText
		o.finish(ctx, log, result)

		return result
	}

	result.Status = domain.StatusOK

	consolidated, err := o.summarizer.Summarize(ctx, summarizer.Input{
		Text:       strings.Join(partials, "\n\n"),
		WordBudget: wordBudget,
		Label:      "consolidated",
	})
	if err != nil {
		log.ErrorContext(ctx, "Failed to build consolidated summary",
			"error", err)
	}

	result.Consolidated = consolidated
	result.Bullets = Bullets(consolidated, o.opts.BulletLimit)

	o.finish(ctx, log, result)

	return result
}

func (o *Orchestrator) finish(ctx context.Context, log *slog.Logger, result domain.Result) {
	o.metrics.ObserveRun(string(result.Status))
	log.InfoContext(ctx, "Finished summarization run",
		"status", result.Status,
		"summaries", len(result.Summaries),
		"failures", len(result.Failures),
		"bullets", len(result.Bullets))
}

// Bullets returns up to limit trimmed, non-empty sentences of s.
func Bullets(s string, limit int) []string {
	var bullets []string
	for _, sentence := range text.Split(s) {
		if len(bullets) == limit {
			break
		}

		sentence = strings.TrimSpace(sentence)
		if sentence == "" {
			continue
		}
		bullets = append(bullets, sentence)
	}

	return bullets
}
