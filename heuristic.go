package immodiag

import (
	"regexp"
	"strings"
)

// Patterns are tried in order; the first match wins for its field.
var (
	pricePatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i:\bprix\b)[^\d\n]{0,20}(\d+(?:[ \x{00a0}\x{202f}.]\d{3})*(?:,\d+)?)`),
		regexp.MustCompile(`\b(\d+(?:[ \x{00a0}\x{202f}.]\d{3})*(?:,\d+)?)\s*(?:€|(?i:euros?\b|eur\b))`),
	}
	surfacePatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i:\bsurface\b(?:\s+habitable)?)\s*:?\s*(?:de\s+)?(\d+(?:[.,]\d+)?)\s*(?:m²|m2|m\b)`),
		regexp.MustCompile(`\b(\d+(?:[.,]\d+)?)\s*(?:m²|m2\b|(?i:m[eè]tres?\s+carr[ée]s?))`),
	}
	roomsPatterns = []*regexp.Regexp{
		regexp.MustCompile(`\b(\d{1,2})\s*(?i:pi[eè]ces?\b)`),
		regexp.MustCompile(`\b[TF](\d)\b`),
	}
	bedroomsPatterns = []*regexp.Regexp{
		regexp.MustCompile(`\b(\d{1,2})\s*(?i:chambres?\b)`),
	}
	energyPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i:\bDPE\b|classe\s+[ée]nerg[ée]tique|[ée]tiquette\s+[ée]nergie|consommation\s+[ée]nerg[ée]tique)\s*:?\s*(?i:classe\s+)?([A-G])\b`),
	}
	ghgPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i:\bGES\b|gaz\s+[àa]\s+effet\s+de\s+serre|classe\s+climat|[ée]missions?\s+de\s+GES)\s*:?\s*(?i:classe\s+)?([A-G])\b`),
	}
	yearPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i:construit|construction|b[âa]ti|ann[ée]e)[^\d\n]{0,20}((?:18|19|20)\d{2})\b`),
	}
	postalCityPattern = regexp.MustCompile(`\b(\d{5}) +([A-ZÀ-Ý][\p{Ll}'’]+(?:[ -][A-ZÀ-Ý][\p{Ll}'’]+)*)`)
	cityPattern       = regexp.MustCompile(`(?:(?:^|\s)[àÀ]|(?i:\bville|\blocalisation|\bcommune|\bsecteur))\s*:?\s+([A-ZÀ-Ý][\p{Ll}'’]+(?:[ -][A-ZÀ-Ý][\p{Ll}'’]+)*)`)
)

// currencyWords are capitalized words that follow amounts, not postal codes.
var currencyWords = map[string]bool{"euro": true, "euros": true, "eur": true}

// ExtractHeuristics recovers listing attributes from sanitized text using
// tolerant patterns tuned to French listing conventions. Every field is
// best effort: a failed match leaves the field unset.
func ExtractHeuristics(text string) Fact {
	var f Fact
	if text == "" {
		return f
	}

	if m := firstMatch(pricePatterns, text); m != "" {
		f.Price = ParseNumber(m)
	}
	if m := firstMatch(surfacePatterns, text); m != "" {
		f.SurfaceM2 = ParseNumber(m)
	}
	if m := firstMatch(roomsPatterns, text); m != "" {
		f.Rooms = ParseInt(m)
	}
	if m := firstMatch(bedroomsPatterns, text); m != "" {
		f.Bedrooms = ParseInt(m)
	}
	f.EnergyClass = Grade(firstMatch(energyPatterns, text))
	f.GHGClass = Grade(firstMatch(ghgPatterns, text))
	if m := firstMatch(yearPatterns, text); m != "" {
		f.YearBuilt = ParseInt(m)
	}

	if m := postalCityPattern.FindStringSubmatch(text); m != nil && !currencyWords[strings.ToLower(m[2])] {
		f.PostalCode = m[1]
		f.City = m[2]
	} else if m := cityPattern.FindStringSubmatch(text); m != nil {
		f.City = m[1]
	}

	return f.Normalize()
}

// firstMatch returns the first capture group of the first matching pattern.
func firstMatch(patterns []*regexp.Regexp, text string) string {
	for _, re := range patterns {
		if m := re.FindStringSubmatch(text); m != nil {
			return m[1]
		}
	}
	return ""
}
