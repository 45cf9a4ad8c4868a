package mock

import (
	"context"

	"github.com/fwojciec/immodiag"
)

var _ immodiag.MetaExtractor = (*MetaExtractor)(nil)

// MetaExtractor is a mock implementation of immodiag.MetaExtractor.
type MetaExtractor struct {
	ExtractMetaFn func(html string) immodiag.MetaFields
}

func (e *MetaExtractor) ExtractMeta(html string) immodiag.MetaFields {
	return e.ExtractMetaFn(html)
}

var _ immodiag.StructuredDataExtractor = (*StructuredDataExtractor)(nil)

// StructuredDataExtractor is a mock implementation of immodiag.StructuredDataExtractor.
type StructuredDataExtractor struct {
	ExtractStructuredDataFn func(html string) []immodiag.StructuredRecord
}

func (e *StructuredDataExtractor) ExtractStructuredData(html string) []immodiag.StructuredRecord {
	return e.ExtractStructuredDataFn(html)
}

var _ immodiag.RecordReader = (*RecordReader)(nil)

// RecordReader is a mock implementation of immodiag.RecordReader.
type RecordReader struct {
	ReadRecordFn func(rec immodiag.StructuredRecord) immodiag.Fact
}

func (r *RecordReader) ReadRecord(rec immodiag.StructuredRecord) immodiag.Fact {
	return r.ReadRecordFn(rec)
}

var _ immodiag.Grounder = (*Grounder)(nil)

// Grounder is a mock implementation of immodiag.Grounder.
type Grounder struct {
	GroundFn     func(ctx context.Context, rawURL string) *immodiag.Grounding
	GroundHTMLFn func(rawURL, html string) *immodiag.Grounding
}

func (g *Grounder) Ground(ctx context.Context, rawURL string) *immodiag.Grounding {
	return g.GroundFn(ctx, rawURL)
}

func (g *Grounder) GroundHTML(rawURL, html string) *immodiag.Grounding {
	return g.GroundHTMLFn(rawURL, html)
}
