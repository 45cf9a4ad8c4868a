// Package goquery recovers page metadata and embedded structured data from
// listing HTML using goquery.
package goquery

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/immodiag"
)

// Ensure MetaExtractor implements immodiag.MetaExtractor at compile time.
var _ immodiag.MetaExtractor = (*MetaExtractor)(nil)

// metaConvention is one attribute convention used to declare a summary field.
type metaConvention struct {
	attr   string
	prefix string
}

// Conventions are tried in order: property-style first, then name-style.
var metaConventions = []metaConvention{
	{attr: "property", prefix: "og:"},
	{attr: "name", prefix: "og:"},
	{attr: "name", prefix: ""},
}

// MetaExtractor reads link-preview summary fields from <meta> elements.
type MetaExtractor struct{}

// NewMetaExtractor creates a new MetaExtractor.
func NewMetaExtractor() *MetaExtractor {
	return &MetaExtractor{}
}

// ExtractMeta returns the title, description, image and locale declared by
// the page. For each field the first non-empty declaration wins.
func (e *MetaExtractor) ExtractMeta(html string) immodiag.MetaFields {
	if html == "" {
		return immodiag.MetaFields{}
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return immodiag.MetaFields{}
	}

	metas := doc.Find("meta")
	return immodiag.MetaFields{
		Title:       metaField(metas, "title"),
		Description: metaField(metas, "description"),
		Image:       metaField(metas, "image"),
		Locale:      metaField(metas, "locale"),
	}
}

func metaField(metas *goquery.Selection, field string) string {
	for _, c := range metaConventions {
		if v := metaContent(metas, c.attr, c.prefix+field); v != "" {
			return v
		}
	}
	return ""
}

// metaContent returns the content of the first meta whose attr equals value.
func metaContent(metas *goquery.Selection, attr, value string) string {
	var content string
	metas.EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		v, ok := sel.Attr(attr)
		if !ok || !strings.EqualFold(strings.TrimSpace(v), value) {
			return true
		}
		content = strings.TrimSpace(sel.AttrOr("content", ""))
		return content == ""
	})
	return content
}
