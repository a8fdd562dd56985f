package domain

import "strings"

const (
	// NoTextReason is reported for a source that yielded no text and gave
	// no reason of its own.
	NoTextReason = "No extractable text."

	// NoTextMessage is shown when no source yielded any text.
	NoTextMessage = "Couldn't extract any text. Check links/permissions or try different sources."
)

// FetchResult is the outcome of fetching or extracting one source. Either
// Text is set or Reason explains the failure.
type FetchResult struct {
	Text   string
	Reason string
}

func Fetched(text string) FetchResult {
	return FetchResult{Text: text}
}

func Failed(reason string) FetchResult {
	return FetchResult{Reason: reason}
}

// OK reports whether the result carries usable text.
func (r FetchResult) OK() bool {
	return r.Reason == "" && strings.TrimSpace(r.Text) != ""
}

// Source is one submitted input after extraction.
type Source struct {
	// Label names the origin, e.g. "Web: https://example.com".
	Label  string
	Text   string
	Reason string
}

func NewSource(label string, r FetchResult) Source {
	return Source{Label: label, Text: r.Text, Reason: r.Reason}
}

// Usable reports whether the source has non-blank text.
func (s Source) Usable() bool {
	return strings.TrimSpace(s.Text) != ""
}

type Status string

const (
	StatusOK     Status = "ok"
	StatusNoText Status = "no_text"
)

type SourceSummary struct {
	Label   string
	Summary string
}

type SourceFailure struct {
	Label  string
	Reason string
}

// Result is the outcome of one pipeline run.
type Result struct {
	RunID        string
	Status       Status
	Summaries    []SourceSummary
	Consolidated string
	Bullets      []string
	Failures     []SourceFailure
}
