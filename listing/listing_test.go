package listing_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/fwojciec/immodiag"
	"github.com/fwojciec/immodiag/listing"
	"github.com/fwojciec/immodiag/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractor_GroundHTML(t *testing.T) {
	t.Parallel()

	t.Run("composes meta title with text heuristics", func(t *testing.T) {
		t.Parallel()

		html := `<html><head><meta property="og:title" content="Maison 5 pièces"></head>` +
			`<body><p>Surface 120 m2. Prix 450 000 €. DPE D.</p></body></html>`

		g := listing.NewExtractor(nil).GroundHTML("https://www.example.fr/annonce/1", html)

		assert.Equal(t, "example.fr", g.Host)
		assert.Equal(t, "Maison 5 pièces", g.Fact.Title)
		require.NotNil(t, g.Fact.Price)
		assert.InDelta(t, 450000, *g.Fact.Price, 0)
		require.NotNil(t, g.Fact.SurfaceM2)
		assert.InDelta(t, 120, *g.Fact.SurfaceM2, 0)
		assert.Equal(t, "D", g.Fact.EnergyClass)
		assert.Contains(t, g.Context, "Prix au m²: 3 750 €/m²")
		assert.Contains(t, g.Context, "Titre: Maison 5 pièces")
		assert.Contains(t, g.Context, immodiag.ExcerptLabel)
	})

	t.Run("prefers structured data over page text", func(t *testing.T) {
		t.Parallel()

		html := `<html><head><script type="application/ld+json">` +
			`{"@type": "Product", "name": "Appartement", "offers": {"price": "250000"}}` +
			`</script></head><body><p>Prix 300 000 €</p></body></html>`

		g := listing.NewExtractor(nil).GroundHTML("", html)

		require.NotNil(t, g.Fact.Price)
		assert.InDelta(t, 250000, *g.Fact.Price, 0)
		assert.Equal(t, "Appartement", g.Fact.Title)
		assert.Contains(t, g.Context, "Prix: 250 000 €")
	})

	t.Run("reads a valid block after a malformed one", func(t *testing.T) {
		t.Parallel()

		html := `<script type="application/ld+json">{"@type": "Product", "offers": </script>` +
			`<script type="application/ld+json">{"@type": "Residence", "floorSize": {"value": 75}}</script>`

		g := listing.NewExtractor(nil).GroundHTML("", html)

		require.NotNil(t, g.Fact.SurfaceM2)
		assert.InDelta(t, 75, *g.Fact.SurfaceM2, 0)
	})

	t.Run("applies the site adapter for the host", func(t *testing.T) {
		t.Parallel()

		html := `<p>Lyon 69003</p><p>Prix 300 000 €</p>`

		g := listing.NewExtractor(nil).GroundHTML("https://www.leboncoin.fr/ventes_immobilieres/42.htm", html)

		assert.Equal(t, "Lyon", g.Fact.City)
		assert.Equal(t, "69003", g.Fact.PostalCode)
	})

	t.Run("keeps site location from overriding a city in the text", func(t *testing.T) {
		t.Parallel()

		html := `<p>Appartement à Lyon, lumineux.</p><p>Agence Paris 75011</p>`

		g := listing.NewExtractor(nil).GroundHTML("https://www.leboncoin.fr/ad/1", html)

		assert.Equal(t, "Lyon", g.Fact.City)
		assert.Empty(t, g.Fact.PostalCode)
		assert.NotContains(t, g.Context, "Code postal")
	})

	t.Run("drops out of range structured numbers", func(t *testing.T) {
		t.Parallel()

		html := `<script type="application/ld+json">` +
			`{"@type": "Residence", "offers": {"price": 1e300}, "floorSize": {"value": 1}, "numberOfRooms": 1e30}` +
			`</script>`

		g := listing.NewExtractor(nil).GroundHTML("", html)

		assert.Nil(t, g.Fact.Price)
		assert.Nil(t, g.Fact.Rooms)
		assert.NotContains(t, g.Context, "Prix:")
		assert.NotContains(t, g.Context, "Pièces:")
		assert.Contains(t, g.Context, "Surface: 1 m²")
	})

	t.Run("omits price per area without surface", func(t *testing.T) {
		t.Parallel()

		g := listing.NewExtractor(nil).GroundHTML("", `<p>Prix 300 000 €</p>`)

		assert.Contains(t, g.Context, "Prix: 300 000 €")
		assert.NotContains(t, g.Context, "Prix au m²")
	})

	t.Run("returns excerpt label for empty input", func(t *testing.T) {
		t.Parallel()

		g := listing.NewExtractor(nil).GroundHTML("", "")

		assert.True(t, g.Fact.IsZero())
		assert.Equal(t, immodiag.ExcerptLabel, g.Context)
	})

	t.Run("keeps composed grades within range", func(t *testing.T) {
		t.Parallel()

		html := `<script type="application/ld+json">{"@type": "House", "energyClass": "Z", "ghgClass": "b"}</script><p>DPE : C</p>`

		g := listing.NewExtractor(nil).GroundHTML("", html)

		assert.Equal(t, "C", g.Fact.EnergyClass)
		assert.Equal(t, "B", g.Fact.GHGClass)
	})

	t.Run("uses injected extractors", func(t *testing.T) {
		t.Parallel()

		e := &listing.Extractor{
			Meta: &mock.MetaExtractor{
				ExtractMetaFn: func(_ string) immodiag.MetaFields {
					return immodiag.MetaFields{Title: "Studio", Description: "Proche métro"}
				},
			},
			Structured: &mock.StructuredDataExtractor{
				ExtractStructuredDataFn: func(_ string) []immodiag.StructuredRecord {
					return []immodiag.StructuredRecord{{Type: "Product", JSON: `{}`}}
				},
			},
			Records: &mock.RecordReader{
				ReadRecordFn: func(_ immodiag.StructuredRecord) immodiag.Fact {
					price := 99000.0
					return immodiag.Fact{Price: &price}
				},
			},
		}

		g := e.GroundHTML("", "<p>texte</p>")

		assert.Equal(t, "Studio", g.Fact.Title)
		assert.Equal(t, "Proche métro", g.Fact.Description)
		require.NotNil(t, g.Fact.Price)
		assert.InDelta(t, 99000, *g.Fact.Price, 0)
	})
}

func TestExtractor_ExtractContext(t *testing.T) {
	t.Parallel()

	t.Run("never returns an empty string", func(t *testing.T) {
		t.Parallel()

		for _, html := range []string{"", "<", "<script>alert(1)</script>", "<!-- -->"} {
			out := listing.NewExtractor(nil).ExtractContext("", html)
			assert.NotEmpty(t, out, "html %q", html)
			assert.NotContains(t, out, "<script")
		}
	})

	t.Run("bounds the excerpt", func(t *testing.T) {
		t.Parallel()

		html := "<p>" + strings.Repeat("é", immodiag.MaxExcerptLength+100) + "</p>"

		out := listing.NewExtractor(nil).ExtractContext("", html)

		excerpt := strings.TrimPrefix(out, immodiag.ExcerptLabel+"\n")
		assert.Len(t, []rune(excerpt), immodiag.MaxExcerptLength)
	})
}

func TestExtractor_Ground(t *testing.T) {
	t.Parallel()

	t.Run("grounds fetched html", func(t *testing.T) {
		t.Parallel()

		var fetched string
		fetcher := &mock.Fetcher{
			FetchFn: func(_ context.Context, url string) (string, error) {
				fetched = url
				return `<p>Prix 200 000 €</p>`, nil
			},
		}

		g := listing.NewExtractor(fetcher).Ground(context.Background(), "https://example.fr/a")

		assert.Equal(t, "https://example.fr/a", fetched)
		require.NotNil(t, g.Fact.Price)
		assert.InDelta(t, 200000, *g.Fact.Price, 0)
	})

	t.Run("degrades to empty page on fetch failure", func(t *testing.T) {
		t.Parallel()

		fetcher := &mock.Fetcher{
			FetchFn: func(_ context.Context, _ string) (string, error) {
				return "", errors.New("connection refused")
			},
		}

		g := listing.NewExtractor(fetcher).Ground(context.Background(), "https://unreachable.invalid/annonce")

		assert.True(t, g.Fact.IsZero())
		assert.Equal(t, "URL: https://unreachable.invalid/annonce\n\n"+immodiag.ExcerptLabel, g.Context)
	})

	t.Run("does not fetch without url", func(t *testing.T) {
		t.Parallel()

		fetcher := &mock.Fetcher{
			FetchFn: func(_ context.Context, _ string) (string, error) {
				t.Fatal("unexpected fetch")
				return "", nil
			},
		}

		g := listing.NewExtractor(fetcher).Ground(context.Background(), "")

		assert.Equal(t, immodiag.ExcerptLabel, g.Context)
	})

	t.Run("waits on the rate limiter per host", func(t *testing.T) {
		t.Parallel()

		var domain string
		e := listing.NewExtractor(&mock.Fetcher{
			FetchFn: func(_ context.Context, _ string) (string, error) {
				return "<p>ok</p>", nil
			},
		})
		e.RateLimiter = &mock.DomainLimiter{
			WaitFn: func(_ context.Context, d string) error {
				domain = d
				return nil
			},
		}

		e.Ground(context.Background(), "https://www.seloger.com/annonces/1.htm")

		assert.Equal(t, "seloger.com", domain)
	})

	t.Run("degrades when the rate limiter gives up", func(t *testing.T) {
		t.Parallel()

		e := listing.NewExtractor(&mock.Fetcher{
			FetchFn: func(_ context.Context, _ string) (string, error) {
				t.Fatal("unexpected fetch")
				return "", nil
			},
		})
		e.RateLimiter = &mock.DomainLimiter{
			WaitFn: func(ctx context.Context, _ string) error {
				return context.Canceled
			},
		}

		g := e.Ground(context.Background(), "https://example.fr/a")

		assert.NotEmpty(t, g.Context)
	})
}
