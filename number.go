package immodiag

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"unicode"
)

var numberTokenRe = regexp.MustCompile(`\d+(?:\.\d+)?`)

// MaxQuantity bounds every numeric attribute of a listing. Larger values
// are treated as not found.
const MaxQuantity = 1e9

// ParseNumber extracts the first number from s. Whitespace (including
// non-breaking spaces) and currency symbols are removed and a comma is read
// as a decimal point, so "1 234,5 €" is 1234.5 and "450.000" is 450.
// Returns nil when s holds no digit.
func ParseNumber(s string) *float64 {
	cleaned := strings.Map(func(r rune) rune {
		switch {
		case unicode.IsSpace(r):
			return -1
		case unicode.Is(unicode.Sc, r):
			return -1
		case r == ',':
			return '.'
		}
		return r
	}, s)

	token := numberTokenRe.FindString(cleaned)
	if token == "" {
		return nil
	}
	v, err := strconv.ParseFloat(token, 64)
	if err != nil {
		return nil
	}
	return &v
}

// ParseInt is ParseNumber truncated to an integer.
func ParseInt(s string) *int {
	return IntValue(ParseNumber(s))
}

// IntValue truncates v to an integer. Returns nil when v is nil, not
// finite or larger in magnitude than MaxQuantity.
func IntValue(v *float64) *int {
	if v == nil || math.IsNaN(*v) || math.Abs(*v) > MaxQuantity {
		return nil
	}
	n := int(*v)
	return &n
}
