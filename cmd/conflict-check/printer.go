package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/noah-isme/univ-admin-api/internal/conflict"
)

type printer struct {
	out      io.Writer
	heading  *color.Color
	severity map[conflict.Severity]*color.Color
	muted    *color.Color
	ok       *color.Color
	errColor *color.Color
}

func newPrinter(out io.Writer) *printer {
	return &printer{
		out:     out,
		heading: color.New(color.Bold, color.Underline),
		severity: map[conflict.Severity]*color.Color{
			conflict.SeverityHigh:   color.New(color.FgRed, color.Bold),
			conflict.SeverityMedium: color.New(color.FgYellow),
			conflict.SeverityLow:    color.New(color.FgCyan),
		},
		muted:    color.New(color.Faint),
		ok:       color.New(color.FgGreen),
		errColor: color.New(color.FgRed),
	}
}

func (p *printer) section(title string, conflicts []conflict.Conflict) {
	p.heading.Fprintln(p.out, title)
	if len(conflicts) == 0 {
		p.ok.Fprintln(p.out, "  aucun conflit")
		fmt.Fprintln(p.out)
		return
	}
	for _, c := range conflicts {
		p.severity[c.Severity].Fprintf(p.out, "  [%-6s] ", strings.ToUpper(string(c.Severity)))
		fmt.Fprintf(p.out, "%s: %s\n", c.Type, c.Description)
		if c.Details != "" {
			p.muted.Fprintf(p.out, "           %s\n", c.Details)
		}
		if c.Suggestion != "" {
			p.muted.Fprintf(p.out, "           -> %s\n", c.Suggestion)
		}
	}
	summary := conflict.Summarize(conflicts)
	fmt.Fprintf(p.out, "  total %d (high %d, medium %d, low %d)\n\n",
		summary.Total,
		summary.BySeverity[conflict.SeverityHigh],
		summary.BySeverity[conflict.SeverityMedium],
		summary.BySeverity[conflict.SeverityLow],
	)
}

func (p *printer) issues(issues []conflict.EventIssue) {
	p.heading.Fprintln(p.out, "Événements invalides")
	for _, issue := range issues {
		p.severity[conflict.SeverityHigh].Fprintf(p.out, "  %s", issue.EventID)
		fmt.Fprintf(p.out, ": %s\n", issue.Reason)
	}
}

func (p *printer) fail(w io.Writer, err error) {
	p.errColor.Fprintf(w, "conflict-check: %v\n", err)
}
