// Package models defines the typed catalogue records produced by the
// extraction pipeline: brands, product lines and flavored items.
package models

import "time"

// BrandSummary is the listing-page projection of a brand. Full brand data
// is only available from the brand detail page.
type BrandSummary struct {
	Slug         string  `json:"slug"`
	Name         string  `json:"name"`
	Rating       float64 `json:"rating"`
	RatingsCount int     `json:"ratings_count"`
	ViewsCount   int     `json:"views_count"`
}

// Brand represents a tobacco brand. Slug is globally unique and stable; it
// is the join key to lines and flavors.
type Brand struct {
	Slug        string  `json:"slug"`
	Name        string  `json:"name"`
	NameEn      string  `json:"name_en"`
	Description string  `json:"description"`
	Country     string  `json:"country"`
	Website     *string `json:"website,omitempty"`
	FoundedYear *int    `json:"founded_year,omitempty"`
	Status      string  `json:"status"`
	ImageURL    *string `json:"image_url,omitempty"`

	Rating       float64 `json:"rating"`
	RatingsCount int     `json:"ratings_count"`
	ReviewsCount int     `json:"reviews_count"`
	ViewsCount   int     `json:"views_count"`

	// Lines are ordered as they appear on the brand page.
	Lines []Line `json:"lines"`

	// FlavorURLs holds the child item addresses, resolved lazily by the
	// discovery step. May be empty until discovery runs.
	FlavorURLs []string `json:"flavor_urls,omitempty"`
}

// Line represents a product line within a brand. The relation to the brand
// is by value (BrandSlug), not by pointer.
type Line struct {
	Slug         string  `json:"slug"`
	Name         string  `json:"name"`
	Description  *string `json:"description,omitempty"`
	Strength     *string `json:"strength,omitempty"`
	Status       string  `json:"status"`
	FlavorsCount int     `json:"flavors_count"`
	Rating       float64 `json:"rating"`
	BrandSlug    string  `json:"brand_slug"`
}

// Flavor is the leaf catalogue item. Slug is the full brand/line/item path
// segment list joined by "/".
type Flavor struct {
	Slug      string  `json:"slug"`
	BrandSlug string  `json:"brand_slug"`
	BrandName string  `json:"brand_name"`
	LineSlug  *string `json:"line_slug,omitempty"`
	LineName  *string `json:"line_name,omitempty"`

	Name             string  `json:"name"`
	NameAlt          *string `json:"name_alt,omitempty"`
	Description      string  `json:"description"`
	Country          string  `json:"country"`
	OfficialStrength *string `json:"official_strength,omitempty"`
	UserStrength     *string `json:"user_strength,omitempty"`
	Status           string  `json:"status"`
	ImageURL         *string `json:"image_url,omitempty"`

	// Tags preserve the order they appear on the page. May be empty.
	Tags []string `json:"tags"`

	Rating       float64 `json:"rating"`
	RatingsCount int     `json:"ratings_count"`
	ReviewsCount int     `json:"reviews_count"`
	ViewsCount   int     `json:"views_count"`

	// RatingDistribution holds the vote counts for scores 1..5, where
	// index 0 is score 1. Counts default to zero and are populated
	// independently of each other.
	RatingDistribution [5]int `json:"rating_distribution"`

	SmokeAgainPercentage float64 `json:"smoke_again_percentage"`

	HTReviewsID int        `json:"htreviews_id"`
	DateAdded   *time.Time `json:"date_added,omitempty"`
	AddedBy     string     `json:"added_by"`
}

// ExtractionResult holds the outcome of parsing a single page. It is
// transient: the pagination layer consumes it immediately and only the
// items survive aggregation.
type ExtractionResult[T any] struct {
	Items []T `json:"items"`

	// TotalCount is the number of candidate records observed on the page,
	// not across pagination.
	TotalCount   int `json:"total_count"`
	ParsedCount  int `json:"parsed_count"`
	SkippedCount int `json:"skipped_count"`
}
