package mock

import (
	"context"

	"github.com/fwojciec/immodiag"
)

var _ immodiag.ReportService = (*ReportService)(nil)

// ReportService is a mock implementation of immodiag.ReportService.
type ReportService struct {
	CreateReportFn   func(ctx context.Context, report *immodiag.Report, grounding string) error
	FindReportByIDFn func(ctx context.Context, id string) (*immodiag.Report, error)
	FindReportsFn    func(ctx context.Context, filter immodiag.ReportFilter) ([]*immodiag.Report, error)
	DeleteReportFn   func(ctx context.Context, id string) error
}

func (s *ReportService) CreateReport(ctx context.Context, report *immodiag.Report, grounding string) error {
	return s.CreateReportFn(ctx, report, grounding)
}

func (s *ReportService) FindReportByID(ctx context.Context, id string) (*immodiag.Report, error) {
	return s.FindReportByIDFn(ctx, id)
}

func (s *ReportService) FindReports(ctx context.Context, filter immodiag.ReportFilter) ([]*immodiag.Report, error) {
	return s.FindReportsFn(ctx, filter)
}

func (s *ReportService) DeleteReport(ctx context.Context, id string) error {
	return s.DeleteReportFn(ctx, id)
}

var _ immodiag.ReportWriter = (*ReportWriter)(nil)

// ReportWriter is a mock implementation of immodiag.ReportWriter.
type ReportWriter struct {
	WriteReportFn func(ctx context.Context, report *immodiag.Report) error
}

func (w *ReportWriter) WriteReport(ctx context.Context, report *immodiag.Report) error {
	return w.WriteReportFn(ctx, report)
}
