package main_test

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/fwojciec/immodiag"
	main "github.com/fwojciec/immodiag/cmd/immodiag"
	"github.com/fwojciec/immodiag/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReportsListCmd_Run(t *testing.T) {
	t.Parallel()

	t.Run("lists reports", func(t *testing.T) {
		t.Parallel()

		var gotFilter immodiag.ReportFilter
		reports := &mock.ReportService{
			FindReportsFn: func(_ context.Context, filter immodiag.ReportFilter) ([]*immodiag.Report, error) {
				gotFilter = filter
				return []*immodiag.Report{{
					ID:        "rep-1",
					Kind:      immodiag.ReportKindReview,
					URL:       "https://www.seloger.com/a",
					Provider:  "openai",
					Content:   "Bon rapport qualité prix.",
					CreatedAt: time.Now().Add(-2 * time.Hour),
				}}, nil
			},
		}
		stdout := &bytes.Buffer{}
		deps := &main.Dependencies{
			Ctx:     context.Background(),
			Stdout:  stdout,
			Stderr:  &bytes.Buffer{},
			Reports: reports,
		}

		err := (&main.ReportsListCmd{URL: "https://www.seloger.com/a", Kind: "review", Limit: 5, Full: true}).Run(deps)

		require.NoError(t, err)
		require.NotNil(t, gotFilter.URL)
		assert.Equal(t, "https://www.seloger.com/a", *gotFilter.URL)
		require.NotNil(t, gotFilter.Kind)
		assert.Equal(t, immodiag.ReportKindReview, *gotFilter.Kind)
		assert.Equal(t, 5, gotFilter.Limit)

		out := stdout.String()
		assert.Contains(t, out, "rep-1  2 hours ago  review  openai  https://www.seloger.com/a")
		assert.Contains(t, out, "Bon rapport qualité prix.")
	})

	t.Run("reports empty list", func(t *testing.T) {
		t.Parallel()

		reports := &mock.ReportService{
			FindReportsFn: func(_ context.Context, _ immodiag.ReportFilter) ([]*immodiag.Report, error) {
				return nil, nil
			},
		}
		stdout := &bytes.Buffer{}
		deps := &main.Dependencies{
			Ctx:     context.Background(),
			Stdout:  stdout,
			Stderr:  &bytes.Buffer{},
			Reports: reports,
		}

		err := (&main.ReportsListCmd{}).Run(deps)

		require.NoError(t, err)
		assert.Contains(t, stdout.String(), "No reports found")
	})

	t.Run("exports listed reports", func(t *testing.T) {
		t.Parallel()

		reports := &mock.ReportService{
			FindReportsFn: func(_ context.Context, _ immodiag.ReportFilter) ([]*immodiag.Report, error) {
				return []*immodiag.Report{
					{ID: "rep-1", Kind: immodiag.ReportKindReview, Content: "a", CreatedAt: time.Now()},
					{ID: "rep-2", Kind: immodiag.ReportKindDiagnosis, Content: "b", CreatedAt: time.Now()},
				}, nil
			},
		}
		var written []string
		writer := &mock.ReportWriter{
			WriteReportFn: func(_ context.Context, r *immodiag.Report) error {
				written = append(written, r.ID)
				return nil
			},
		}
		stderr := &bytes.Buffer{}
		deps := &main.Dependencies{
			Ctx:          context.Background(),
			Stdout:       &bytes.Buffer{},
			Stderr:       stderr,
			Reports:      reports,
			ReportWriter: writer,
		}

		err := (&main.ReportsListCmd{Export: "/tmp/exports"}).Run(deps)

		require.NoError(t, err)
		assert.Equal(t, []string{"rep-1", "rep-2"}, written)
		assert.Contains(t, stderr.String(), "Exported 2 reports to /tmp/exports")
	})

	t.Run("rejects unknown kind", func(t *testing.T) {
		t.Parallel()

		deps := &main.Dependencies{
			Ctx:    context.Background(),
			Stdout: &bytes.Buffer{},
			Stderr: &bytes.Buffer{},
		}

		err := (&main.ReportsListCmd{Kind: "audit"}).Run(deps)

		require.Error(t, err)
		assert.Equal(t, immodiag.EINVALID, immodiag.ErrorCode(err))
	})
}

func TestReportsShowCmd_Run(t *testing.T) {
	t.Parallel()

	t.Run("prints report header and content", func(t *testing.T) {
		t.Parallel()

		var gotID string
		reports := &mock.ReportService{
			FindReportByIDFn: func(_ context.Context, id string) (*immodiag.Report, error) {
				gotID = id
				return &immodiag.Report{
					ID:        "rep-7",
					Kind:      immodiag.ReportKindDiagnosis,
					URL:       "https://www.pap.fr/annonce/7",
					Provider:  "gemini",
					Content:   `{"score": 62}`,
					CreatedAt: time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC),
				}, nil
			},
		}
		stdout := &bytes.Buffer{}
		deps := &main.Dependencies{
			Ctx:     context.Background(),
			Stdout:  stdout,
			Stderr:  &bytes.Buffer{},
			Reports: reports,
		}

		err := (&main.ReportsShowCmd{ID: "rep-7"}).Run(deps)

		require.NoError(t, err)
		assert.Equal(t, "rep-7", gotID)
		out := stdout.String()
		assert.Contains(t, out, "ID:       rep-7\n")
		assert.Contains(t, out, "Kind:     diagnosis\n")
		assert.Contains(t, out, "Provider: gemini\n")
		assert.Contains(t, out, "URL:      https://www.pap.fr/annonce/7\n")
		assert.Contains(t, out, "Created:  2026-03-02T10:00:00Z")
		assert.Contains(t, out, "\n{\"score\": 62}\n")
	})

	t.Run("reports unknown ID", func(t *testing.T) {
		t.Parallel()

		reports := &mock.ReportService{
			FindReportByIDFn: func(_ context.Context, _ string) (*immodiag.Report, error) {
				return nil, immodiag.Errorf(immodiag.ENOTFOUND, "report not found")
			},
		}
		stderr := &bytes.Buffer{}
		deps := &main.Dependencies{
			Ctx:     context.Background(),
			Stdout:  &bytes.Buffer{},
			Stderr:  stderr,
			Reports: reports,
		}

		err := (&main.ReportsShowCmd{ID: "missing"}).Run(deps)

		require.Error(t, err)
		assert.Equal(t, immodiag.ENOTFOUND, immodiag.ErrorCode(err))
		assert.Contains(t, stderr.String(), `report "missing" not found`)
	})
}

func TestReportsDeleteCmd_Run(t *testing.T) {
	t.Parallel()

	t.Run("requires force flag", func(t *testing.T) {
		t.Parallel()

		reports := &mock.ReportService{
			DeleteReportFn: func(_ context.Context, _ string) error {
				t.Fatal("unexpected delete")
				return nil
			},
		}
		stderr := &bytes.Buffer{}
		deps := &main.Dependencies{
			Ctx:     context.Background(),
			Stdout:  &bytes.Buffer{},
			Stderr:  stderr,
			Reports: reports,
		}

		err := (&main.ReportsDeleteCmd{ID: "rep-1"}).Run(deps)

		require.Error(t, err)
		assert.Equal(t, immodiag.EINVALID, immodiag.ErrorCode(err))
		assert.Contains(t, stderr.String(), "--force")
	})

	t.Run("deletes report", func(t *testing.T) {
		t.Parallel()

		var deleted string
		reports := &mock.ReportService{
			DeleteReportFn: func(_ context.Context, id string) error {
				deleted = id
				return nil
			},
		}
		stdout := &bytes.Buffer{}
		deps := &main.Dependencies{
			Ctx:     context.Background(),
			Stdout:  stdout,
			Stderr:  &bytes.Buffer{},
			Reports: reports,
		}

		err := (&main.ReportsDeleteCmd{ID: "rep-1", Force: true}).Run(deps)

		require.NoError(t, err)
		assert.Equal(t, "rep-1", deleted)
		assert.Equal(t, "Deleted report rep-1\n", stdout.String())
	})

	t.Run("reports unknown ID", func(t *testing.T) {
		t.Parallel()

		reports := &mock.ReportService{
			DeleteReportFn: func(_ context.Context, _ string) error {
				return immodiag.Errorf(immodiag.ENOTFOUND, "report not found")
			},
		}
		stderr := &bytes.Buffer{}
		deps := &main.Dependencies{
			Ctx:     context.Background(),
			Stdout:  &bytes.Buffer{},
			Stderr:  stderr,
			Reports: reports,
		}

		err := (&main.ReportsDeleteCmd{ID: "missing", Force: true}).Run(deps)

		require.Error(t, err)
		assert.Equal(t, immodiag.ENOTFOUND, immodiag.ErrorCode(err))
		assert.Contains(t, stderr.String(), `report "missing" not found`)
	})
}
