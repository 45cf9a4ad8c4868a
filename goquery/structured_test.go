package goquery_test

import (
	"testing"

	"github.com/fwojciec/immodiag/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
)

func TestStructuredDataExtractor_ExtractStructuredData(t *testing.T) {
	t.Parallel()

	t.Run("extracts a single object block", func(t *testing.T) {
		t.Parallel()

		html := `<html><head>
<script type="application/ld+json">{"@type": "Product", "name": "Maison", "offers": {"price": 250000}}</script>
</head></html>`

		records := goquery.NewStructuredDataExtractor().ExtractStructuredData(html)

		require.Len(t, records, 1)
		assert.Equal(t, "Product", records[0].Type)
		assert.Equal(t, 250000.0, gjson.Get(records[0].JSON, "offers.price").Float())
	})

	t.Run("matches script type case-insensitively", func(t *testing.T) {
		t.Parallel()

		html := `<SCRIPT TYPE="Application/LD+JSON">{"name": "x"}</SCRIPT>`

		records := goquery.NewStructuredDataExtractor().ExtractStructuredData(html)

		assert.Len(t, records, 1)
	})

	t.Run("flattens a top-level array one level", func(t *testing.T) {
		t.Parallel()

		html := `<script type="application/ld+json">[{"@type": "BreadcrumbList"}, {"@type": ["Residence", "Product"]}, "ignored", [{"@type": "Nested"}]]</script>`

		records := goquery.NewStructuredDataExtractor().ExtractStructuredData(html)

		require.Len(t, records, 2)
		assert.Equal(t, "BreadcrumbList", records[0].Type)
		assert.Equal(t, "Residence", records[1].Type)
	})

	t.Run("expands graph containers", func(t *testing.T) {
		t.Parallel()

		html := `<script type="application/ld+json">{"@context": "https://schema.org", "@graph": [{"@type": "WebPage"}, {"@type": "Apartment", "name": "T2"}]}</script>`

		records := goquery.NewStructuredDataExtractor().ExtractStructuredData(html)

		require.Len(t, records, 2)
		assert.Equal(t, "WebPage", records[0].Type)
		assert.Equal(t, "Apartment", records[1].Type)
	})

	t.Run("skips a malformed block and keeps the next valid one", func(t *testing.T) {
		t.Parallel()

		html := `<script type="application/ld+json">{"@type": "Product", "name": "cassé",}</script>
<script type="application/ld+json">{"@type": "Offer", "price": "199000"}</script>`

		records := goquery.NewStructuredDataExtractor().ExtractStructuredData(html)

		require.Len(t, records, 1)
		assert.Equal(t, "Offer", records[0].Type)
	})

	t.Run("strips single-line comments", func(t *testing.T) {
		t.Parallel()

		html := `<script type="application/ld+json">
// generated by the CMS
{
  "@type": "House",
  // surface in square meters
  "url": "https://example.com/annonce",
  "floorSize": {"value": 95}
}
</script>`

		records := goquery.NewStructuredDataExtractor().ExtractStructuredData(html)

		require.Len(t, records, 1)
		assert.Equal(t, "https://example.com/annonce", gjson.Get(records[0].JSON, "url").String())
	})

	t.Run("preserves document order across blocks", func(t *testing.T) {
		t.Parallel()

		html := `<script type="application/ld+json">{"@type": "A"}</script>
<script type="text/javascript">var x = {"@type": "Ignored"};</script>
<script type="application/ld+json">{"@type": "B"}</script>`

		records := goquery.NewStructuredDataExtractor().ExtractStructuredData(html)

		require.Len(t, records, 2)
		assert.Equal(t, "A", records[0].Type)
		assert.Equal(t, "B", records[1].Type)
	})

	t.Run("returns nothing for empty html", func(t *testing.T) {
		t.Parallel()

		assert.Empty(t, goquery.NewStructuredDataExtractor().ExtractStructuredData(""))
	})
}
