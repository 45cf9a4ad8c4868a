package mock

import (
	"context"

	"github.com/fwojciec/immodiag"
)

var _ immodiag.Analyst = (*Analyst)(nil)

// Analyst is a mock implementation of immodiag.Analyst.
type Analyst struct {
	ReviewFn   func(ctx context.Context, req immodiag.ReviewRequest) (string, error)
	DiagnoseFn func(ctx context.Context, form map[string]any) (*immodiag.Diagnosis, error)
	NameFn     func() string
}

func (a *Analyst) Review(ctx context.Context, req immodiag.ReviewRequest) (string, error) {
	return a.ReviewFn(ctx, req)
}

func (a *Analyst) Diagnose(ctx context.Context, form map[string]any) (*immodiag.Diagnosis, error) {
	return a.DiagnoseFn(ctx, form)
}

func (a *Analyst) Name() string {
	return a.NameFn()
}
