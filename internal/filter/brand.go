package filter

import (
	"regexp"
	"strings"

	"github.com/rebelice/opsgrid/internal/models"
)

var (
	plusSpacing = regexp.MustCompile(`\s*\+\s*`)
	runsOfSpace = regexp.MustCompile(`\s+`)
)

// NormalizeBrand lower-cases, trims and collapses "x + y" spacing so that
// "Mint +", "Mint+" and " mint + " compare equal.
func NormalizeBrand(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = plusSpacing.ReplaceAllString(s, "+")
	return runsOfSpace.ReplaceAllString(s, " ")
}

// BrandMatches reports whether a row value belongs to brand: after
// normalization either string contains the other.
func BrandMatches(value, brand string) bool {
	v, b := NormalizeBrand(value), NormalizeBrand(brand)
	if v == "" || b == "" {
		return false
	}
	return strings.Contains(v, b) || strings.Contains(b, v)
}

// BrandOf returns the first brand in brands that value rolls up into
func BrandOf(value string, brands []string) (string, bool) {
	for _, b := range brands {
		if BrandMatches(value, b) {
			return b, true
		}
	}
	return "", false
}

// MatchesBrands reports whether value passes a brand set
func MatchesBrands(value string, brands models.ValueSet) bool {
	if !brands.IsRestricted() {
		return true
	}
	_, ok := BrandOf(value, brands.Values())
	return ok
}
