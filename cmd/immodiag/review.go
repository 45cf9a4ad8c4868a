package main

import (
	"fmt"

	"github.com/fwojciec/immodiag"
)

// Run executes the review command.
func (c *ReviewCmd) Run(deps *Dependencies) error {
	grounding := deps.Grounder.Ground(deps.Ctx, c.URL)

	answer, err := deps.Analyst.Review(deps.Ctx, immodiag.ReviewRequest{
		URL:     c.URL,
		Context: grounding.Context,
	})
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", immodiag.ErrorMessage(err))
		return err
	}

	fmt.Fprintln(deps.Stdout, answer)

	saveReport(deps, &immodiag.Report{
		Kind:    immodiag.ReportKindReview,
		URL:     c.URL,
		Content: answer,
	}, grounding.Context)
	return nil
}

// saveReport stores report when a report service is configured. A failure
// is reported but does not fail the command.
func saveReport(deps *Dependencies, report *immodiag.Report, grounding string) {
	if deps.Reports == nil {
		return
	}
	report.Provider = deps.Analyst.Name()
	if err := deps.Reports.CreateReport(deps.Ctx, report, grounding); err != nil {
		fmt.Fprintf(deps.Stderr, "warning: report not saved: %s\n", immodiag.ErrorMessage(err))
	}
}
