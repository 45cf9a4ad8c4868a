package immodiag

import "context"

// MetaExtractor recovers page-level summary fields from raw HTML.
type MetaExtractor interface {
	// ExtractMeta never fails; absent fields are empty strings.
	ExtractMeta(html string) MetaFields
}

// StructuredDataExtractor recovers embedded structured-data records.
type StructuredDataExtractor interface {
	// ExtractStructuredData returns records in document order.
	// Blocks that fail to parse are skipped.
	ExtractStructuredData(html string) []StructuredRecord
}

// RecordReader maps a loosely-shaped structured record to a partial Fact.
type RecordReader interface {
	// ReadRecord returns the attributes found in rec. Missing or malformed
	// nesting yields unset fields, never an error.
	ReadRecord(rec StructuredRecord) Fact
}

// Grounder builds the bounded grounding context for a listing.
type Grounder interface {
	// Ground fetches rawURL and grounds it. Retrieval failures degrade to
	// an empty page; the returned Context is never empty.
	Ground(ctx context.Context, rawURL string) *Grounding

	// GroundHTML grounds already-fetched HTML. rawURL may be empty.
	GroundHTML(rawURL, html string) *Grounding
}
