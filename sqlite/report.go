package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/fwojciec/immodiag"
	"github.com/google/uuid"
)

// Compile-time interface verification.
var _ immodiag.ReportService = (*ReportService)(nil)

// ReportService implements immodiag.ReportService using SQLite.
type ReportService struct {
	db *DB

	// Now returns the creation time of new reports.
	Now func() time.Time
}

// NewReportService creates a new ReportService.
func NewReportService(db *DB) *ReportService {
	return &ReportService{db: db, Now: time.Now}
}

const reportColumns = "id, kind, url, provider, content, context_hash, created_at"

// CreateReport stores a new report with a generated ID, creation time and
// the hash of its grounding context.
func (s *ReportService) CreateReport(ctx context.Context, report *immodiag.Report, grounding string) error {
	if err := report.Validate(); err != nil {
		return err
	}

	report.ID = uuid.New().String()
	report.CreatedAt = s.Now().UTC()
	report.ContextHash = ""
	if grounding != "" {
		report.ContextHash = hashContent(grounding)
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO reports (`+reportColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, report.ID, string(report.Kind), report.URL, report.Provider, report.Content, report.ContextHash,
		formatTime(report.CreatedAt))

	return err
}

// FindReportByID retrieves a report by ID.
func (s *ReportService) FindReportByID(ctx context.Context, id string) (*immodiag.Report, error) {
	report, err := scanReport(s.db.QueryRowContext(ctx, `
		SELECT `+reportColumns+`
		FROM reports
		WHERE id = ?
	`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, immodiag.Errorf(immodiag.ENOTFOUND, "report not found")
	}
	if err != nil {
		return nil, err
	}
	return report, nil
}

// FindReports retrieves reports matching the filter, newest first.
func (s *ReportService) FindReports(ctx context.Context, filter immodiag.ReportFilter) ([]*immodiag.Report, error) {
	var query strings.Builder
	var args []any

	query.WriteString("SELECT " + reportColumns + " FROM reports WHERE 1=1")

	if filter.ID != nil {
		query.WriteString(" AND id = ?")
		args = append(args, *filter.ID)
	}
	if filter.URL != nil {
		query.WriteString(" AND url = ?")
		args = append(args, *filter.URL)
	}
	if filter.Kind != nil {
		query.WriteString(" AND kind = ?")
		args = append(args, string(*filter.Kind))
	}

	query.WriteString(" ORDER BY created_at DESC, rowid DESC")
	appendPagination(&query, &args, filter.Limit, filter.Offset)

	rows, err := s.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var reports []*immodiag.Report
	for rows.Next() {
		report, err := scanReport(rows)
		if err != nil {
			return nil, err
		}
		reports = append(reports, report)
	}

	return reports, rows.Err()
}

// DeleteReport permanently removes a report.
func (s *ReportService) DeleteReport(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM reports WHERE id = ?", id)
	if err != nil {
		return err
	}

	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return immodiag.Errorf(immodiag.ENOTFOUND, "report not found")
	}

	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanReport(row scanner) (*immodiag.Report, error) {
	var report immodiag.Report
	var kind, createdAt string

	if err := row.Scan(&report.ID, &kind, &report.URL, &report.Provider, &report.Content,
		&report.ContextHash, &createdAt); err != nil {
		return nil, err
	}
	report.Kind = immodiag.ReportKind(kind)

	var err error
	report.CreatedAt, err = parseTime(createdAt, "created_at")
	if err != nil {
		return nil, err
	}
	return &report, nil
}
