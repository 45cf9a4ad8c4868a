package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/immodiag"
)

// Ensure LoggingAnalyst implements immodiag.Analyst.
var _ immodiag.Analyst = (*LoggingAnalyst)(nil)

// LoggingAnalyst wraps an Analyst with logging.
type LoggingAnalyst struct {
	next   immodiag.Analyst
	logger *slog.Logger
}

// NewLoggingAnalyst creates a new LoggingAnalyst.
func NewLoggingAnalyst(next immodiag.Analyst, logger *slog.Logger) *LoggingAnalyst {
	return &LoggingAnalyst{next: next, logger: logger}
}

// Review delegates to the wrapped analyst and logs the call.
func (a *LoggingAnalyst) Review(ctx context.Context, req immodiag.ReviewRequest) (out string, err error) {
	defer func(begin time.Time) {
		a.logger.Info("review",
			"provider", a.next.Name(),
			"url", req.URL,
			"context_chars", len([]rune(req.Context)),
			"answer_chars", len([]rune(out)),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return a.next.Review(ctx, req)
}

// Diagnose delegates to the wrapped analyst and logs the call.
func (a *LoggingAnalyst) Diagnose(ctx context.Context, form map[string]any) (out *immodiag.Diagnosis, err error) {
	defer func(begin time.Time) {
		attrs := []any{
			"provider", a.next.Name(),
			"form_fields", len(form),
			"duration", time.Since(begin),
			"err", err,
		}
		if out != nil {
			attrs = append(attrs,
				"strengths", len(out.Strengths),
				"warnings", len(out.Warnings),
				"improvements", len(out.Improvements),
			)
		}
		a.logger.Info("diagnose", attrs...)
	}(time.Now())
	return a.next.Diagnose(ctx, form)
}

// Name delegates to the wrapped analyst.
func (a *LoggingAnalyst) Name() string {
	return a.next.Name()
}
