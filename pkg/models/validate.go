package models

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

// slugPattern matches URL-safe lowercase identifiers. A flavor slug is a
// "/"-joined sequence of such segments.
var slugPattern = regexp.MustCompile(`^[a-z0-9-]+$`)

// ValidSlug reports whether every "/"-separated segment of s matches the
// slug shape.
func ValidSlug(s string) bool {
	if s == "" {
		return false
	}
	for _, seg := range strings.Split(s, "/") {
		if !slugPattern.MatchString(seg) {
			return false
		}
	}
	return true
}

// ValidHTTPURL reports whether s is a well-formed absolute http or https URL.
func ValidHTTPURL(s string) bool {
	u, err := url.Parse(s)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

// ValidateBrandSummary checks the required fields of a listing record.
func ValidateBrandSummary(b *BrandSummary) error {
	if b == nil {
		return fmt.Errorf("brand summary is nil")
	}
	if !ValidSlug(b.Slug) {
		return fmt.Errorf("invalid brand slug %q", b.Slug)
	}
	if strings.TrimSpace(b.Name) == "" {
		return fmt.Errorf("brand %s missing name", b.Slug)
	}
	if b.Rating < 0 || b.Rating > 5 {
		return fmt.Errorf("brand %s rating %v out of range", b.Slug, b.Rating)
	}
	if b.RatingsCount < 0 || b.ViewsCount < 0 {
		return fmt.Errorf("brand %s has negative counters", b.Slug)
	}
	return nil
}

// ValidateBrand checks a fully assembled brand record before acceptance.
func ValidateBrand(b *Brand) error {
	if b == nil {
		return fmt.Errorf("brand is nil")
	}
	if !ValidSlug(b.Slug) {
		return fmt.Errorf("invalid brand slug %q", b.Slug)
	}
	if strings.TrimSpace(b.Name) == "" {
		return fmt.Errorf("brand %s missing name", b.Slug)
	}
	if b.Website != nil && !ValidHTTPURL(*b.Website) {
		return fmt.Errorf("brand %s has malformed website %q", b.Slug, *b.Website)
	}
	if b.FoundedYear != nil && (*b.FoundedYear < 1000 || *b.FoundedYear > 9999) {
		return fmt.Errorf("brand %s founded year %d is not 4-digit", b.Slug, *b.FoundedYear)
	}
	if b.Rating < 0 || b.Rating > 5 {
		return fmt.Errorf("brand %s rating %v out of range", b.Slug, b.Rating)
	}
	if b.RatingsCount < 0 || b.ReviewsCount < 0 || b.ViewsCount < 0 {
		return fmt.Errorf("brand %s has negative counters", b.Slug)
	}
	for i := range b.Lines {
		if err := ValidateLine(&b.Lines[i]); err != nil {
			return fmt.Errorf("brand %s: %w", b.Slug, err)
		}
	}
	return nil
}

// ValidateLine checks a product line record.
func ValidateLine(l *Line) error {
	if l == nil {
		return fmt.Errorf("line is nil")
	}
	if !ValidSlug(l.Slug) {
		return fmt.Errorf("invalid line slug %q", l.Slug)
	}
	if strings.TrimSpace(l.Name) == "" {
		return fmt.Errorf("line %s missing name", l.Slug)
	}
	if !ValidSlug(l.BrandSlug) {
		return fmt.Errorf("line %s missing brand slug", l.Slug)
	}
	if l.FlavorsCount < 0 {
		return fmt.Errorf("line %s flavors count negative", l.Slug)
	}
	if l.Rating < 0 || l.Rating > 5 {
		return fmt.Errorf("line %s rating %v out of range", l.Slug, l.Rating)
	}
	return nil
}

// ValidateFlavor checks a fully assembled flavor record before acceptance.
func ValidateFlavor(f *Flavor) error {
	if f == nil {
		return fmt.Errorf("flavor is nil")
	}
	if !ValidSlug(f.Slug) {
		return fmt.Errorf("invalid flavor slug %q", f.Slug)
	}
	if !ValidSlug(f.BrandSlug) {
		return fmt.Errorf("flavor %s invalid brand slug %q", f.Slug, f.BrandSlug)
	}
	if strings.TrimSpace(f.Name) == "" {
		return fmt.Errorf("flavor %s missing name", f.Slug)
	}
	if strings.TrimSpace(f.BrandName) == "" {
		return fmt.Errorf("flavor %s missing brand name", f.Slug)
	}
	if f.Rating < 0 || f.Rating > 5 {
		return fmt.Errorf("flavor %s rating %v out of range", f.Slug, f.Rating)
	}
	if f.SmokeAgainPercentage < 0 || f.SmokeAgainPercentage > 100 {
		return fmt.Errorf("flavor %s smoke-again %v out of range", f.Slug, f.SmokeAgainPercentage)
	}
	if f.RatingsCount < 0 || f.ReviewsCount < 0 || f.ViewsCount < 0 {
		return fmt.Errorf("flavor %s has negative counters", f.Slug)
	}
	for i, n := range f.RatingDistribution {
		if n < 0 {
			return fmt.Errorf("flavor %s rating distribution score %d negative", f.Slug, i+1)
		}
	}
	if f.HTReviewsID <= 0 {
		return fmt.Errorf("flavor %s missing source id", f.Slug)
	}
	return nil
}
