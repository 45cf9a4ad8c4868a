package immodiag

import (
	"math"
	"net/url"
	"strings"
)

// RawDocument is a fetched listing page. It lives for a single request.
type RawDocument struct {
	URL  string
	Host string
	HTML string
}

// NewRawDocument returns a RawDocument for rawURL and its HTML.
// Host is lower-cased and stripped of a leading "www."; it is empty when
// rawURL is empty or does not parse as an absolute URL.
func NewRawDocument(rawURL, html string) *RawDocument {
	return &RawDocument{URL: rawURL, Host: hostOf(rawURL), HTML: html}
}

func hostOf(rawURL string) string {
	if rawURL == "" {
		return ""
	}
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return ""
	}
	return strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.")
}

// MetaFields holds page-level summary fields. Absent fields are empty.
type MetaFields struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Image       string `json:"image"`
	Locale      string `json:"locale"`
}

// StructuredRecord is one embedded structured-data node in document order.
// JSON is the node's raw, strictly valid JSON text; Type is its "@type"
// when the node declares one as a string.
type StructuredRecord struct {
	Type string
	JSON string
}

// Fact is the canonical, precedence-resolved description of a listing.
// Nil numeric fields and empty strings mean the attribute was not found.
type Fact struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Price       *float64 `json:"price"`
	SurfaceM2   *float64 `json:"surfaceM2"`
	Rooms       *int     `json:"rooms"`
	Bedrooms    *int     `json:"bedrooms"`
	City        string   `json:"city"`
	PostalCode  string   `json:"postalCode"`
	EnergyClass string   `json:"energyClass"`
	GHGClass    string   `json:"ghgClass"`
	YearBuilt   *int     `json:"yearBuilt"`
}

// Merge returns f with every unset field filled from lower.
// Fields already set on f are never overwritten.
func (f Fact) Merge(lower Fact) Fact {
	if f.Title == "" {
		f.Title = lower.Title
	}
	if f.Description == "" {
		f.Description = lower.Description
	}
	if f.Price == nil {
		f.Price = lower.Price
	}
	if f.SurfaceM2 == nil {
		f.SurfaceM2 = lower.SurfaceM2
	}
	if f.Rooms == nil {
		f.Rooms = lower.Rooms
	}
	if f.Bedrooms == nil {
		f.Bedrooms = lower.Bedrooms
	}
	if f.City == "" {
		f.City = lower.City
	}
	if f.PostalCode == "" {
		f.PostalCode = lower.PostalCode
	}
	if f.EnergyClass == "" {
		f.EnergyClass = lower.EnergyClass
	}
	if f.GHGClass == "" {
		f.GHGClass = lower.GHGClass
	}
	if f.YearBuilt == nil {
		f.YearBuilt = lower.YearBuilt
	}
	return f
}

// Normalize trims strings, drops numbers outside their plausible range and
// reduces grades to a single upper-case letter between A and G, or empty.
// Price and surface must be positive and at most MaxQuantity; room counts
// must not be negative and the construction year must be positive.
func (f Fact) Normalize() Fact {
	f.Title = strings.TrimSpace(f.Title)
	f.Description = strings.TrimSpace(f.Description)
	f.City = strings.TrimSpace(f.City)
	f.PostalCode = strings.TrimSpace(f.PostalCode)
	f.Price = quantity(f.Price)
	f.SurfaceM2 = quantity(f.SurfaceM2)
	f.Rooms = count(f.Rooms)
	f.Bedrooms = count(f.Bedrooms)
	if f.YearBuilt = count(f.YearBuilt); f.YearBuilt != nil && *f.YearBuilt == 0 {
		f.YearBuilt = nil
	}
	f.EnergyClass = Grade(f.EnergyClass)
	f.GHGClass = Grade(f.GHGClass)
	return f
}

// IsZero reports whether no attribute of f is populated.
func (f Fact) IsZero() bool {
	return f == (Fact{})
}

// Grade returns s as an energy or greenhouse-gas grade ("A".."G"),
// or an empty string when s is not exactly one such letter.
func Grade(s string) string {
	s = strings.ToUpper(strings.TrimSpace(s))
	if len(s) == 1 && s[0] >= 'A' && s[0] <= 'G' {
		return s
	}
	return ""
}

func quantity(v *float64) *float64 {
	if v == nil || math.IsNaN(*v) || *v <= 0 || *v > MaxQuantity {
		return nil
	}
	return v
}

func count(n *int) *int {
	if n == nil || *n < 0 || *n > MaxQuantity {
		return nil
	}
	return n
}

// Grounding is the result of grounding one listing URL.
type Grounding struct {
	URL     string `json:"url"`
	Host    string `json:"host"`
	Fact    Fact   `json:"fact"`
	Context string `json:"context"`
}
