// Package listing grounds real-estate listing pages. It coordinates
// retrieval, sanitizing, structured-data and meta extraction, text
// heuristics and site adapters, and renders the bounded context block.
package listing

import (
	"context"

	"github.com/fwojciec/immodiag"
	"github.com/fwojciec/immodiag/gjson"
	"github.com/fwojciec/immodiag/goquery"
)

var _ immodiag.Grounder = (*Extractor)(nil)

// Extractor runs the extraction pipeline over one listing page.
// Every stage is total; a degenerate page yields a sparse Fact and an
// excerpt-only context, never an error.
type Extractor struct {
	Meta       immodiag.MetaExtractor
	Structured immodiag.StructuredDataExtractor
	Records    immodiag.RecordReader
	Adapters   immodiag.SiteAdapters

	// Fetcher retrieves pages for Ground. When nil, Ground behaves as if
	// retrieval failed.
	Fetcher immodiag.Fetcher

	// RateLimiter, when set, is waited on per host before fetching.
	RateLimiter immodiag.DomainLimiter
}

// NewExtractor returns an Extractor wired with the default goquery and
// gjson implementations and the built-in site adapters.
func NewExtractor(fetcher immodiag.Fetcher) *Extractor {
	return &Extractor{
		Meta:       goquery.NewMetaExtractor(),
		Structured: goquery.NewStructuredDataExtractor(),
		Records:    gjson.NewRecordReader(),
		Adapters:   immodiag.DefaultSiteAdapters(),
		Fetcher:    fetcher,
	}
}

// ExtractContext returns the grounding context for already-fetched HTML.
// rawURL may be empty. The result is never empty.
func (e *Extractor) ExtractContext(rawURL, html string) string {
	return e.GroundHTML(rawURL, html).Context
}

// Ground fetches rawURL in a single attempt and grounds the result.
// Retrieval failures degrade to an empty page.
func (e *Extractor) Ground(ctx context.Context, rawURL string) *immodiag.Grounding {
	return e.GroundHTML(rawURL, e.fetch(ctx, rawURL))
}

// GroundHTML grounds already-fetched HTML.
func (e *Extractor) GroundHTML(rawURL, html string) *immodiag.Grounding {
	doc := immodiag.NewRawDocument(rawURL, html)
	text := immodiag.Sanitize(doc.HTML)
	fact := e.compose(doc, text)

	return &immodiag.Grounding{
		URL:     doc.URL,
		Host:    doc.Host,
		Fact:    fact,
		Context: immodiag.BuildContext(doc.URL, fact, text),
	}
}

func (e *Extractor) compose(doc *immodiag.RawDocument, text string) immodiag.Fact {
	var sources immodiag.Sources

	if e.Structured != nil && e.Records != nil {
		for _, rec := range e.Structured.ExtractStructuredData(doc.HTML) {
			sources.Records = append(sources.Records, e.Records.ReadRecord(rec))
		}
	}
	if e.Meta != nil {
		sources.Meta = e.Meta.ExtractMeta(doc.HTML)
	}
	sources.Heuristic = immodiag.ExtractHeuristics(text)
	sources.Site = e.Adapters.Refine(doc.Host, text)

	return immodiag.Compose(sources)
}

func (e *Extractor) fetch(ctx context.Context, rawURL string) string {
	if e.Fetcher == nil || rawURL == "" {
		return ""
	}
	if e.RateLimiter != nil {
		if host := immodiag.NewRawDocument(rawURL, "").Host; host != "" {
			if err := e.RateLimiter.Wait(ctx, host); err != nil {
				return ""
			}
		}
	}
	html, err := e.Fetcher.Fetch(ctx, rawURL)
	if err != nil {
		return ""
	}
	return html
}
