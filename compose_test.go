package immodiag_test

import (
	"math"
	"testing"

	"github.com/fwojciec/immodiag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T { return &v }

func TestCompose(t *testing.T) {
	t.Parallel()

	t.Run("structured price wins over conflicting text price", func(t *testing.T) {
		t.Parallel()

		f := immodiag.Compose(immodiag.Sources{
			Records:   []immodiag.Fact{{Price: ptr(250000.0)}},
			Heuristic: immodiag.Fact{Price: ptr(300000.0), SurfaceM2: ptr(80.0)},
		})

		require.NotNil(t, f.Price)
		assert.InDelta(t, 250000, *f.Price, 0)
		require.NotNil(t, f.SurfaceM2)
		assert.InDelta(t, 80, *f.SurfaceM2, 0)
	})

	t.Run("first record wins for each field", func(t *testing.T) {
		t.Parallel()

		f := immodiag.Compose(immodiag.Sources{
			Records: []immodiag.Fact{
				{Title: "Maison de ville"},
				{Title: "Agence Dupont", City: "Nantes"},
			},
		})

		assert.Equal(t, "Maison de ville", f.Title)
		assert.Equal(t, "Nantes", f.City)
	})

	t.Run("meta fills title and description only", func(t *testing.T) {
		t.Parallel()

		f := immodiag.Compose(immodiag.Sources{
			Records: []immodiag.Fact{{Description: "Depuis les données structurées"}},
			Meta: immodiag.MetaFields{
				Title:       "Maison 5 pièces",
				Description: "Depuis les balises meta",
				Image:       "https://example.com/photo.jpg",
				Locale:      "fr_FR",
			},
		})

		assert.Equal(t, "Maison 5 pièces", f.Title)
		assert.Equal(t, "Depuis les données structurées", f.Description)
	})

	t.Run("site adapter location ignored once a city is known", func(t *testing.T) {
		t.Parallel()

		f := immodiag.Compose(immodiag.Sources{
			Heuristic: immodiag.Fact{City: "Lyon"},
			Site:      immodiag.Fact{City: "Paris", PostalCode: "75011", Title: "ignoré", EnergyClass: "A"},
		})

		assert.Equal(t, "Lyon", f.City)
		assert.Empty(t, f.PostalCode)
		assert.Empty(t, f.Title)
		assert.Empty(t, f.EnergyClass)
	})

	t.Run("site adapter location ignored once a postal code is known", func(t *testing.T) {
		t.Parallel()

		f := immodiag.Compose(immodiag.Sources{
			Records: []immodiag.Fact{{PostalCode: "69003"}},
			Site:    immodiag.Fact{City: "Paris", PostalCode: "75011"},
		})

		assert.Empty(t, f.City)
		assert.Equal(t, "69003", f.PostalCode)
	})

	t.Run("site adapter fills location when none found", func(t *testing.T) {
		t.Parallel()

		f := immodiag.Compose(immodiag.Sources{
			Heuristic: immodiag.Fact{Price: ptr(310000.0)},
			Site:      immodiag.Fact{City: "Paris", PostalCode: "75011", Title: "ignoré"},
		})

		assert.Equal(t, "Paris", f.City)
		assert.Equal(t, "75011", f.PostalCode)
		assert.Empty(t, f.Title)
	})

	t.Run("non-finite values yield to lower sources", func(t *testing.T) {
		t.Parallel()

		f := immodiag.Compose(immodiag.Sources{
			Records:   []immodiag.Fact{{Price: ptr(math.NaN()), SurfaceM2: ptr(math.Inf(1))}},
			Heuristic: immodiag.Fact{Price: ptr(199000.0)},
		})

		require.NotNil(t, f.Price)
		assert.InDelta(t, 199000, *f.Price, 0)
		assert.Nil(t, f.SurfaceM2)
	})

	t.Run("out of range quantities yield to lower sources", func(t *testing.T) {
		t.Parallel()

		f := immodiag.Compose(immodiag.Sources{
			Records: []immodiag.Fact{{
				Price:     ptr(-250000.0),
				SurfaceM2: ptr(1e300),
				Rooms:     ptr(-2),
				YearBuilt: ptr(0),
			}},
			Heuristic: immodiag.Fact{Price: ptr(199000.0), SurfaceM2: ptr(0.0), Rooms: ptr(4)},
		})

		require.NotNil(t, f.Price)
		assert.InDelta(t, 199000, *f.Price, 0)
		assert.Nil(t, f.SurfaceM2)
		require.NotNil(t, f.Rooms)
		assert.Equal(t, 4, *f.Rooms)
		assert.Nil(t, f.YearBuilt)
	})

	t.Run("invalid grades are dropped", func(t *testing.T) {
		t.Parallel()

		f := immodiag.Compose(immodiag.Sources{
			Records:   []immodiag.Fact{{EnergyClass: "H", GHGClass: "b"}},
			Heuristic: immodiag.Fact{EnergyClass: "C"},
		})

		assert.Equal(t, "C", f.EnergyClass)
		assert.Equal(t, "B", f.GHGClass)
	})

	t.Run("empty sources yield empty fact", func(t *testing.T) {
		t.Parallel()

		assert.True(t, immodiag.Compose(immodiag.Sources{}).IsZero())
	})
}

func TestFact_Merge(t *testing.T) {
	t.Parallel()

	higher := immodiag.Fact{Title: "A", Rooms: ptr(3)}
	lower := immodiag.Fact{Title: "B", Rooms: ptr(4), Bedrooms: ptr(2), YearBuilt: ptr(1990)}

	f := higher.Merge(lower)

	assert.Equal(t, "A", f.Title)
	assert.Equal(t, 3, *f.Rooms)
	assert.Equal(t, 2, *f.Bedrooms)
	assert.Equal(t, 1990, *f.YearBuilt)
}

func TestGrade(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "A", immodiag.Grade("a"))
	assert.Equal(t, "G", immodiag.Grade(" G "))
	assert.Empty(t, immodiag.Grade("H"))
	assert.Empty(t, immodiag.Grade("AB"))
	assert.Empty(t, immodiag.Grade(""))
}

func TestNewRawDocument(t *testing.T) {
	t.Parallel()

	t.Run("derives lower-cased host without www", func(t *testing.T) {
		t.Parallel()

		doc := immodiag.NewRawDocument("https://WWW.SeLoger.com/annonces/achat/123.htm", "<html></html>")

		assert.Equal(t, "seloger.com", doc.Host)
		assert.Equal(t, "<html></html>", doc.HTML)
	})

	t.Run("leaves host empty without url", func(t *testing.T) {
		t.Parallel()

		assert.Empty(t, immodiag.NewRawDocument("", "").Host)
	})
}
