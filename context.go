package immodiag

import (
	"math"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/dustin/go-humanize"
)

// Context limits.
const (
	// MaxExcerptLength caps the page text excerpt, in characters.
	MaxExcerptLength = 3000

	// MaxDescriptionLength caps the description header line, in characters.
	MaxDescriptionLength = 500
)

// ExcerptLabel introduces the page text excerpt.
const ExcerptLabel = "--- Extrait du texte de l'annonce (tronqué) ---"

// PricePerM2 returns the rounded price per square meter. The second value
// is false unless price and surface are both known and surface is positive.
func PricePerM2(f Fact) (float64, bool) {
	if f.Price == nil || f.SurfaceM2 == nil || *f.SurfaceM2 <= 0 {
		return 0, false
	}
	v := math.Round(*f.Price / *f.SurfaceM2)
	if math.IsNaN(v) || math.Abs(v) > MaxQuantity {
		return 0, false
	}
	return v, true
}

// BuildContext renders the grounding block for a listing: one header line
// per populated attribute, then a bounded excerpt of the sanitized page
// text. The result is never empty.
func BuildContext(rawURL string, f Fact, text string) string {
	var sb strings.Builder

	line := func(label, value string) {
		if value == "" {
			return
		}
		sb.WriteString(label)
		sb.WriteString(": ")
		sb.WriteString(value)
		sb.WriteByte('\n')
	}

	line("URL", rawURL)
	line("Titre", f.Title)
	if f.Price != nil {
		line("Prix", FormatGrouped(*f.Price)+" €")
	}
	if f.SurfaceM2 != nil {
		line("Surface", strconv.FormatFloat(*f.SurfaceM2, 'f', -1, 64)+" m²")
	}
	if v, ok := PricePerM2(f); ok {
		line("Prix au m²", FormatGrouped(v)+" €/m²")
	}
	if f.Rooms != nil {
		line("Pièces", strconv.Itoa(*f.Rooms))
	}
	if f.Bedrooms != nil {
		line("Chambres", strconv.Itoa(*f.Bedrooms))
	}
	line("Ville", f.City)
	line("Code postal", f.PostalCode)
	line("DPE", f.EnergyClass)
	line("GES", f.GHGClass)
	if f.YearBuilt != nil {
		line("Année de construction", strconv.Itoa(*f.YearBuilt))
	}
	line("Description", truncate(f.Description, MaxDescriptionLength))

	if sb.Len() > 0 {
		sb.WriteByte('\n')
	}
	sb.WriteString(ExcerptLabel)
	sb.WriteByte('\n')
	sb.WriteString(truncate(text, MaxExcerptLength))

	return strings.TrimRight(sb.String(), "\n")
}

// FormatGrouped rounds v and groups its digits by thousands with a space,
// so 3750 renders as "3 750". Values are clamped to ±MaxQuantity and NaN
// renders as "0".
func FormatGrouped(v float64) string {
	if math.IsNaN(v) {
		v = 0
	}
	v = math.Max(-MaxQuantity, math.Min(MaxQuantity, v))
	return humanize.FormatInteger("# ###.", int(math.Round(v)))
}

// truncate returns the first n characters of s.
func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	i := 0
	for pos := range s {
		if i == n {
			return s[:pos]
		}
		i++
	}
	return s
}
