package main

import (
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/fwojciec/immodiag"
)

// Run executes the reports list command.
func (c *ReportsListCmd) Run(deps *Dependencies) error {
	filter := immodiag.ReportFilter{Limit: c.Limit}
	if c.URL != "" {
		filter.URL = &c.URL
	}
	if c.Kind != "" {
		kind := immodiag.ReportKind(c.Kind)
		if kind != immodiag.ReportKindReview && kind != immodiag.ReportKindDiagnosis {
			err := immodiag.Errorf(immodiag.EINVALID, "unknown report kind %q (review or diagnosis)", c.Kind)
			fmt.Fprintf(deps.Stderr, "error: %s\n", immodiag.ErrorMessage(err))
			return err
		}
		filter.Kind = &kind
	}

	reports, err := deps.Reports.FindReports(deps.Ctx, filter)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", immodiag.ErrorMessage(err))
		return err
	}

	if len(reports) == 0 {
		fmt.Fprintln(deps.Stdout, "No reports found. Use 'immodiag review' to create one.")
		return nil
	}

	for _, r := range reports {
		fmt.Fprintf(deps.Stdout, "%s  %s  %s  %s  %s\n",
			r.ID, humanize.Time(r.CreatedAt), r.Kind, r.Provider, r.URL)
		if c.Full {
			fmt.Fprintf(deps.Stdout, "\n%s\n\n", r.Content)
		}
	}

	if c.Export != "" {
		for _, r := range reports {
			if err := deps.ReportWriter.WriteReport(deps.Ctx, r); err != nil {
				fmt.Fprintf(deps.Stderr, "error: export %s: %s\n", r.ID, immodiag.ErrorMessage(err))
				return err
			}
		}
		fmt.Fprintf(deps.Stderr, "Exported %d reports to %s\n", len(reports), c.Export)
	}

	return nil
}

// Run executes the reports show command.
func (c *ReportsShowCmd) Run(deps *Dependencies) error {
	r, err := deps.Reports.FindReportByID(deps.Ctx, c.ID)
	if err != nil {
		if immodiag.ErrorCode(err) == immodiag.ENOTFOUND {
			fmt.Fprintf(deps.Stderr, "error: report %q not found. Use 'immodiag reports' to see stored reports.\n", c.ID)
		} else {
			fmt.Fprintf(deps.Stderr, "error: %s\n", immodiag.ErrorMessage(err))
		}
		return err
	}

	fmt.Fprintf(deps.Stdout, "ID:       %s\n", r.ID)
	fmt.Fprintf(deps.Stdout, "Kind:     %s\n", r.Kind)
	fmt.Fprintf(deps.Stdout, "Provider: %s\n", r.Provider)
	fmt.Fprintf(deps.Stdout, "URL:      %s\n", r.URL)
	fmt.Fprintf(deps.Stdout, "Created:  %s (%s)\n", r.CreatedAt.Format(time.RFC3339), humanize.Time(r.CreatedAt))
	fmt.Fprintf(deps.Stdout, "\n%s\n", r.Content)
	return nil
}

// Run executes the reports delete command.
func (c *ReportsDeleteCmd) Run(deps *Dependencies) error {
	if !c.Force {
		fmt.Fprintf(deps.Stderr, "error: use --force to confirm deletion\n")
		return immodiag.Errorf(immodiag.EINVALID, "use --force to confirm deletion")
	}

	if err := deps.Reports.DeleteReport(deps.Ctx, c.ID); err != nil {
		if immodiag.ErrorCode(err) == immodiag.ENOTFOUND {
			fmt.Fprintf(deps.Stderr, "error: report %q not found. Use 'immodiag reports' to see stored reports.\n", c.ID)
		} else {
			fmt.Fprintf(deps.Stderr, "error: %s\n", immodiag.ErrorMessage(err))
		}
		return err
	}

	fmt.Fprintf(deps.Stdout, "Deleted report %s\n", c.ID)
	return nil
}
