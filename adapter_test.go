package immodiag_test

import (
	"testing"

	"github.com/fwojciec/immodiag"
	"github.com/stretchr/testify/assert"
)

func TestSiteAdapter_Matches(t *testing.T) {
	t.Parallel()

	a := immodiag.SiteAdapter{HostSuffix: "leboncoin.fr"}

	assert.True(t, a.Matches("leboncoin.fr"))
	assert.True(t, a.Matches("m.leboncoin.fr"))
	assert.True(t, a.Matches("LEBONCOIN.FR"))
	assert.False(t, a.Matches("notleboncoin.fr"))
	assert.False(t, a.Matches(""))
	assert.False(t, immodiag.SiteAdapter{}.Matches("leboncoin.fr"))
}

func TestDefaultSiteAdapters(t *testing.T) {
	t.Parallel()

	adapters := immodiag.DefaultSiteAdapters()

	t.Run("reads leboncoin city then postal code", func(t *testing.T) {
		t.Parallel()

		f := adapters.Refine("leboncoin.fr", "Appartement 3 pièces\nParis 75011\nVoir le numéro")

		assert.Equal(t, "Paris", f.City)
		assert.Equal(t, "75011", f.PostalCode)
	})

	t.Run("reads seloger district with parenthesized postal code", func(t *testing.T) {
		t.Parallel()

		f := adapters.Refine("seloger.com", "Appartement à vendre à Paris 11ème (75011)")

		assert.Equal(t, "Paris 11ème", f.City)
		assert.Equal(t, "75011", f.PostalCode)
	})

	t.Run("returns empty fact for unknown host", func(t *testing.T) {
		t.Parallel()

		assert.True(t, adapters.Refine("example.com", "Paris 75011").IsZero())
	})

	t.Run("returns empty fact when label is absent", func(t *testing.T) {
		t.Parallel()

		assert.True(t, adapters.Refine("leboncoin.fr", "aucune localisation").IsZero())
	})
}

func TestSiteAdapters_FirstMatchApplies(t *testing.T) {
	t.Parallel()

	adapters := immodiag.SiteAdapters{
		{HostSuffix: "example.fr", Refine: func(string) immodiag.Fact { return immodiag.Fact{City: "Premier"} }},
		{HostSuffix: "example.fr", Refine: func(string) immodiag.Fact { return immodiag.Fact{City: "Second"} }},
	}

	assert.Equal(t, "Premier", adapters.Refine("www2.example.fr", "texte").City)
}
