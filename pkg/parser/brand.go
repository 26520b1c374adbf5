package parser

import (
	"strings"

	"github.com/hookahdb/catalog-scraper/pkg/models"
)

// ParseBrandListing extracts brand summaries from one listing page. One
// malformed card never aborts the page: it is dropped and counted in
// SkippedCount while parsing continues for its siblings. A page whose
// overall shape is unrecognized yields an empty result, not an error.
func ParseBrandListing(content []byte, opts Options) (*models.ExtractionResult[models.BrandSummary], error) {
	doc, err := ParseDocument(content)
	if err != nil {
		return nil, err
	}

	result := &models.ExtractionResult[models.BrandSummary]{}

	doc.Find("div.brand-card").Each(func(_ int, card *Selection) {
		result.TotalCount++

		summary := parseBrandCard(card)
		if summary == nil {
			result.SkippedCount++
			recordsSkippedTotal.WithLabelValues("brand_summary").Inc()
			return
		}

		if !opts.SkipValidation {
			if err := models.ValidateBrandSummary(summary); err != nil {
				result.SkippedCount++
				recordsSkippedTotal.WithLabelValues("brand_summary").Inc()
				return
			}
		}

		result.Items = append(result.Items, *summary)
		result.ParsedCount++
		recordsParsedTotal.WithLabelValues("brand_summary").Inc()
	})

	return result, nil
}

// parseBrandCard assembles one candidate summary from a listing card.
// Returns nil when a required field is absent.
func parseBrandCard(card *Selection) *models.BrandSummary {
	href := card.attr("a.brand-card__link", "href")
	slug := ExtractBrandSlug(href)
	name := card.text("span.brand-card__name")
	if slug == "" || name == "" {
		return nil
	}

	summary := &models.BrandSummary{
		Slug: slug,
		Name: name,
	}
	if r := ParseRating(card.text("span.brand-card__rating")); r != nil {
		summary.Rating = *r
	}
	if n := ParseCount(card.text("span.brand-card__votes")); n != nil {
		summary.RatingsCount = *n
	}
	if n := ParseViews(card.text("span.brand-card__views")); n != nil {
		summary.ViewsCount = *n
	}

	return summary
}

// ParseListingMeta reads the pagination metadata embedded in a listing
// page. Returns nil when the page carries none; callers fall back to the
// short-page heuristic in that case.
func ParseListingMeta(content []byte) *ListingMeta {
	doc, err := ParseDocument(content)
	if err != nil {
		return nil
	}

	list := doc.Find("div.brands-list").First()
	if list.Length() == 0 {
		return nil
	}

	totalStr, ok := list.Attr("data-total")
	if !ok {
		return nil
	}
	total := ParseCount(totalStr)
	if total == nil {
		return nil
	}

	meta := &ListingMeta{Total: *total}
	if limitStr, ok := list.Attr("data-limit"); ok {
		if limit := ParseCount(limitStr); limit != nil {
			meta.Limit = *limit
		}
	}
	return meta
}

// ParseBrandDetail extracts a full brand record from a brand detail page.
// Returns nil, nil when the page is not recognizable as a brand page.
func ParseBrandDetail(content []byte, opts Options) (*models.Brand, error) {
	doc, err := ParseDocument(content)
	if err != nil {
		return nil, err
	}

	page := doc.Find("div.brand-page").First()
	if page.Length() == 0 {
		return nil, nil
	}

	slug := ""
	if canonical, ok := page.Attr("data-slug"); ok {
		slug = canonical
	}
	name := page.text("h1.brand-page__title")
	if slug == "" || name == "" {
		recordsSkippedTotal.WithLabelValues("brand").Inc()
		return nil, nil
	}

	brand := &models.Brand{
		Slug:        slug,
		Name:        name,
		NameEn:      page.text("span.brand-page__title-en"),
		Description: page.text("div.brand-page__description"),
		Country:     page.text("span.brand-page__country"),
		Status:      page.text("span.brand-page__status"),
	}

	if site := page.attr("a.brand-page__site", "href"); site != "" {
		brand.Website = &site
	}
	brand.FoundedYear = ParseYear(page.text("span.brand-page__founded"))
	if img := page.attr("img.brand-page__image", "src"); img != "" {
		brand.ImageURL = &img
	}

	if r := ParseRating(page.text("div.brand-page__stats span.stat-rating")); r != nil {
		brand.Rating = *r
	}
	if n := ParseCount(page.text("div.brand-page__stats span.stat-votes")); n != nil {
		brand.RatingsCount = *n
	}
	if n := ParseCount(page.text("div.brand-page__stats span.stat-reviews")); n != nil {
		brand.ReviewsCount = *n
	}
	if n := ParseViews(page.text("div.brand-page__stats span.stat-views")); n != nil {
		brand.ViewsCount = *n
	}

	brand.Lines = parseLines(page, slug)
	brand.FlavorURLs = extractFlavorLinks(page)

	if !opts.IncludeIncomplete && incompleteBrand(brand) {
		recordsSkippedTotal.WithLabelValues("brand").Inc()
		return nil, nil
	}

	if !opts.SkipValidation {
		if err := models.ValidateBrand(brand); err != nil {
			recordsSkippedTotal.WithLabelValues("brand").Inc()
			return nil, nil
		}
	}

	recordsParsedTotal.WithLabelValues("brand").Inc()
	return brand, nil
}

// incompleteBrand reports whether expected descriptive fields are missing.
// These do not fail validation but drop the record unless the caller opted
// into incomplete records.
func incompleteBrand(b *models.Brand) bool {
	return strings.TrimSpace(b.Description) == "" ||
		strings.TrimSpace(b.Country) == "" ||
		strings.TrimSpace(b.Status) == ""
}

// parseLines extracts the product lines listed on a brand page, in page
// order. A malformed line card is dropped without affecting its siblings.
func parseLines(page *Selection, brandSlug string) []models.Line {
	var lines []models.Line

	page.Find("div.brand-page__lines div.line-card").Each(func(_ int, card *Selection) {
		slug, _ := card.Attr("data-slug")
		name := card.text("span.line-card__name")
		if slug == "" || name == "" {
			recordsSkippedTotal.WithLabelValues("line").Inc()
			return
		}

		line := models.Line{
			Slug:      slug,
			Name:      name,
			Status:    card.text("span.line-card__status"),
			BrandSlug: brandSlug,
		}
		if desc := card.text("div.line-card__description"); desc != "" {
			line.Description = &desc
		}
		if strength := card.text("span.line-card__strength"); strength != "" {
			line.Strength = &strength
		}
		if n := ParseFlavorsCount(card.text("span.line-card__flavors")); n != nil {
			line.FlavorsCount = *n
		}
		if r := ParseRating(card.text("span.line-card__rating")); r != nil {
			line.Rating = *r
		}

		lines = append(lines, line)
		recordsParsedTotal.WithLabelValues("line").Inc()
	})

	return lines
}

// extractFlavorLinks collects the flavor detail URLs present on the page,
// in page order, restricted to the known flavor path prefix.
func extractFlavorLinks(page *Selection) []string {
	var urls []string
	page.Find("a.flavor-card__link").Each(func(_ int, link *Selection) {
		href, ok := link.Attr("href")
		if !ok || !strings.HasPrefix(href, FlavorPathPrefix) {
			return
		}
		urls = append(urls, href)
	})
	return urls
}

// ExtractFlavorURLs collects flavor URLs from any page (used by HTML
// pagination discovery, where a page is just a container of flavor cards).
func ExtractFlavorURLs(content []byte) ([]string, error) {
	doc, err := ParseDocument(content)
	if err != nil {
		return nil, err
	}
	return extractFlavorLinks(doc.Find("body").First()), nil
}

// ExtractBrandID resolves the source-internal numeric brand identifier
// embedded in a brand page. The API discovery channel requires it. Returns
// nil when the page does not carry one.
func ExtractBrandID(content []byte) *int {
	doc, err := ParseDocument(content)
	if err != nil {
		return nil
	}
	idStr, ok := doc.Find("div.brand-page").First().Attr("data-brand-id")
	if !ok {
		return nil
	}
	id := ParseCount(idStr)
	if id == nil || *id == 0 {
		return nil
	}
	return id
}

// ExtractFlavorsTotal reads the total flavor count hint embedded in a
// brand page ("53 вкуса"). HTML discovery uses it to compute the number of
// remaining pages. Returns nil when absent.
func ExtractFlavorsTotal(content []byte) *int {
	doc, err := ParseDocument(content)
	if err != nil {
		return nil
	}
	return ParseFlavorsCount(doc.Find("span.brand-page__flavors-count").First().Text())
}
