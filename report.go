package immodiag

import (
	"context"
	"time"
)

// ReportKind identifies how a report was produced.
type ReportKind string

// ReportKind constants.
const (
	ReportKindReview    ReportKind = "review"
	ReportKindDiagnosis ReportKind = "diagnosis"
)

// Report is a generated report kept for later consultation.
type Report struct {
	ID          string     `json:"id"`
	Kind        ReportKind `json:"kind"`
	URL         string     `json:"url"`
	Provider    string     `json:"provider"`
	Content     string     `json:"content"`
	ContextHash string     `json:"contextHash"`
	CreatedAt   time.Time  `json:"createdAt"`
}

// Validate returns an error if the report contains invalid fields.
func (r *Report) Validate() error {
	switch r.Kind {
	case ReportKindReview, ReportKindDiagnosis:
	default:
		return Errorf(EINVALID, "report kind %q invalid", r.Kind)
	}
	if r.Content == "" {
		return Errorf(EINVALID, "report content required")
	}
	return nil
}

// ReportService represents a service for managing reports.
type ReportService interface {
	// CreateReport stores a report. The context argument is hashed so that
	// reports grounded on identical pages can be matched later.
	CreateReport(ctx context.Context, report *Report, grounding string) error

	// FindReportByID retrieves a report by ID.
	// Returns ENOTFOUND if the report does not exist.
	FindReportByID(ctx context.Context, id string) (*Report, error)

	// FindReports retrieves reports matching the filter, newest first.
	FindReports(ctx context.Context, filter ReportFilter) ([]*Report, error)

	// DeleteReport permanently removes a report.
	// Returns ENOTFOUND if the report does not exist.
	DeleteReport(ctx context.Context, id string) error
}

// ReportFilter represents a filter for FindReports.
type ReportFilter struct {
	ID   *string     `json:"id"`
	URL  *string     `json:"url"`
	Kind *ReportKind `json:"kind"`

	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}

// ReportWriter exports reports outside the report store.
type ReportWriter interface {
	WriteReport(ctx context.Context, report *Report) error
}
