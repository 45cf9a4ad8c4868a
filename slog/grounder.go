package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/immodiag"
)

// Ensure LoggingGrounder implements immodiag.Grounder.
var _ immodiag.Grounder = (*LoggingGrounder)(nil)

// LoggingGrounder wraps a Grounder with debug logging of what was found.
type LoggingGrounder struct {
	next   immodiag.Grounder
	logger *slog.Logger
}

// NewLoggingGrounder creates a new LoggingGrounder.
func NewLoggingGrounder(next immodiag.Grounder, logger *slog.Logger) *LoggingGrounder {
	return &LoggingGrounder{next: next, logger: logger}
}

// Ground delegates to the wrapped grounder and logs the result.
func (g *LoggingGrounder) Ground(ctx context.Context, rawURL string) (out *immodiag.Grounding) {
	defer func(begin time.Time) {
		g.log("ground", out, time.Since(begin))
	}(time.Now())
	return g.next.Ground(ctx, rawURL)
}

// GroundHTML delegates to the wrapped grounder and logs the result.
func (g *LoggingGrounder) GroundHTML(rawURL, html string) (out *immodiag.Grounding) {
	defer func(begin time.Time) {
		g.log("ground html", out, time.Since(begin))
	}(time.Now())
	return g.next.GroundHTML(rawURL, html)
}

func (g *LoggingGrounder) log(msg string, out *immodiag.Grounding, d time.Duration) {
	if out == nil {
		return
	}
	g.logger.Debug(msg,
		"url", out.URL,
		"host", out.Host,
		"fields", PopulatedFields(out.Fact),
		"context_chars", len([]rune(out.Context)),
		"duration", d,
	)
}

// PopulatedFields lists the JSON names of the populated fields of f.
func PopulatedFields(f immodiag.Fact) []string {
	var fields []string
	add := func(name string, ok bool) {
		if ok {
			fields = append(fields, name)
		}
	}
	add("title", f.Title != "")
	add("description", f.Description != "")
	add("price", f.Price != nil)
	add("surfaceM2", f.SurfaceM2 != nil)
	add("rooms", f.Rooms != nil)
	add("bedrooms", f.Bedrooms != nil)
	add("city", f.City != "")
	add("postalCode", f.PostalCode != "")
	add("energyClass", f.EnergyClass != "")
	add("ghgClass", f.GHGClass != "")
	add("yearBuilt", f.YearBuilt != nil)
	return fields
}
