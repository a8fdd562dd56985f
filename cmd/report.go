package main

import (
	"fmt"
	"io"

	"gist/internal/domain"

	"github.com/fatih/color"
)

// reportPrinter writes a pipeline result to a terminal.
type reportPrinter struct {
	out     io.Writer
	heading *color.Color
	label   *color.Color
	bullet  *color.Color
	failure *color.Color
	warning *color.Color
}

func newReportPrinter(out io.Writer, useColors bool) *reportPrinter {
	p := &reportPrinter{
		out:     out,
		heading: color.New(color.Bold, color.FgCyan),
		label:   color.New(color.Bold),
		bullet:  color.New(color.FgGreen),
		failure: color.New(color.FgRed),
		warning: color.New(color.FgYellow),
	}

	for _, c := range []*color.Color{p.heading, p.label, p.bullet, p.failure, p.warning} {
		if useColors {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}

	return p
}

func (p *reportPrinter) Print(result domain.Result) {
	if result.Status == domain.StatusNoText {
		p.warning.Fprintf(p.out, "⚠ %s\n", domain.NoTextMessage)
		p.printFailures(result.Failures)

		return
	}

	for _, s := range result.Summaries {
		p.label.Fprintln(p.out, s.Label)
		if s.Summary == "" {
			fmt.Fprintln(p.out, "(no sentence fits the word budget)")
		} else {
			fmt.Fprintln(p.out, s.Summary)
		}
		fmt.Fprintln(p.out)
	}

	if result.Consolidated != "" {
		p.heading.Fprintln(p.out, "Consolidated summary")
		fmt.Fprintln(p.out, result.Consolidated)
		fmt.Fprintln(p.out)
	}

	if len(result.Bullets) > 0 {
		p.heading.Fprintln(p.out, "Key takeaways")
		for _, b := range result.Bullets {
			p.bullet.Fprint(p.out, "• ")
			fmt.Fprintln(p.out, b)
		}
		fmt.Fprintln(p.out)
	}

	p.printFailures(result.Failures)
}

func (p *reportPrinter) printFailures(failures []domain.SourceFailure) {
	if len(failures) == 0 {
		return
	}

	p.heading.Fprintln(p.out, "No extractable text")
	for _, f := range failures {
		p.failure.Fprint(p.out, "✗ ")
		fmt.Fprintf(p.out, "%s: %s\n", f.Label, f.Reason)
	}
}
