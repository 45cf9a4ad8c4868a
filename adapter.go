package immodiag

import (
	"regexp"
	"strings"
)

// SiteAdapter refines attributes using the label conventions of one
// listing provider. Refine only reports what it finds; callers merge the
// result below every other source so it never overwrites a populated field.
type SiteAdapter struct {
	// HostSuffix matches the host itself or any of its subdomains.
	HostSuffix string

	// Refine extracts location attributes from sanitized text.
	Refine func(text string) Fact
}

// Matches reports whether the adapter applies to host.
func (a SiteAdapter) Matches(host string) bool {
	host = strings.ToLower(strings.TrimSuffix(host, "."))
	suffix := strings.ToLower(a.HostSuffix)
	return suffix != "" && (host == suffix || strings.HasSuffix(host, "."+suffix))
}

// SiteAdapters is an ordered table of adapters; the first match applies.
type SiteAdapters []SiteAdapter

// Refine runs the first adapter matching host against text.
// Returns an empty Fact when no adapter matches.
func (s SiteAdapters) Refine(host, text string) Fact {
	if host == "" || text == "" {
		return Fact{}
	}
	for _, a := range s {
		if a.Matches(host) && a.Refine != nil {
			return a.Refine(text).Normalize()
		}
	}
	return Fact{}
}

var (
	// leboncoin renders the location as "Paris 75011".
	leboncoinLocationRe = regexp.MustCompile(`([A-ZÀ-Ý][\p{L}'’-]+(?:[ -][A-ZÀ-Ý][\p{L}'’-]+)*) (\d{5})\b`)

	// seloger renders the location as "à Paris 11ème (75011)".
	selogerLocationRe = regexp.MustCompile(`(?:^|\s)[àÀ] ([A-ZÀ-Ý][\p{L}'’-]+(?:[ -][\p{L}\d'’-]+)*?) ?\((\d{5})\)`)
)

// DefaultSiteAdapters returns the adapters for supported marketplaces.
func DefaultSiteAdapters() SiteAdapters {
	return SiteAdapters{
		{HostSuffix: "leboncoin.fr", Refine: locationRefiner(leboncoinLocationRe, 1, 2)},
		{HostSuffix: "seloger.com", Refine: locationRefiner(selogerLocationRe, 1, 2)},
	}
}

func locationRefiner(re *regexp.Regexp, cityGroup, postalGroup int) func(string) Fact {
	return func(text string) Fact {
		m := re.FindStringSubmatch(text)
		if m == nil {
			return Fact{}
		}
		return Fact{City: m[cityGroup], PostalCode: m[postalGroup]}
	}
}
