package parser

import (
	"strings"

	"github.com/hookahdb/catalog-scraper/pkg/models"
)

// ParseFlavorDetail extracts a full flavor record from a flavor detail
// page. Returns nil, nil when the page is not recognizable as one or the
// record fails validation.
func ParseFlavorDetail(content []byte, opts Options) (*models.Flavor, error) {
	doc, err := ParseDocument(content)
	if err != nil {
		return nil, err
	}

	page := doc.Find("div.flavor-page").First()
	if page.Length() == 0 {
		return nil, nil
	}

	slug, _ := page.Attr("data-slug")
	slug = ExtractSlug(slug)
	name := page.text("h1.flavor-page__title")
	if slug == "" || name == "" {
		recordsSkippedTotal.WithLabelValues("flavor").Inc()
		return nil, nil
	}

	flavor := &models.Flavor{
		Slug:        slug,
		BrandSlug:   firstSegment(slug),
		Name:        name,
		Description: page.text("div.flavor-page__description"),
		Country:     page.text("span.flavor-page__country"),
		Status:      page.text("span.flavor-page__status"),
		AddedBy:     page.text("span.flavor-page__added-by"),
	}

	parseBreadcrumbs(page, flavor)

	if alt := page.text("span.flavor-page__title-alt"); alt != "" {
		flavor.NameAlt = &alt
	}
	if s := page.text("span.flavor-page__strength-official"); s != "" {
		flavor.OfficialStrength = &s
	}
	if s := page.text("span.flavor-page__strength-user"); s != "" {
		flavor.UserStrength = &s
	}
	if img := page.attr("img.flavor-page__image", "src"); img != "" {
		flavor.ImageURL = &img
	}

	// Tags are a set: duplicates collapse, first-seen order is kept.
	seenTags := make(map[string]bool)
	page.Find("div.flavor-page__tags span.tag").Each(func(_ int, tag *Selection) {
		text := tag.Text()
		if text == "" || seenTags[text] {
			return
		}
		seenTags[text] = true
		flavor.Tags = append(flavor.Tags, text)
	})

	if r := ParseRating(page.text("span.flavor-page__rating")); r != nil {
		flavor.Rating = *r
	}
	if n := ParseCount(page.text("span.flavor-page__votes")); n != nil {
		flavor.RatingsCount = *n
	}
	if n := ParseCount(page.text("span.flavor-page__reviews")); n != nil {
		flavor.ReviewsCount = *n
	}
	if n := ParseViews(page.text("span.flavor-page__views")); n != nil {
		flavor.ViewsCount = *n
	}
	if p := ParsePercentage(page.text("span.flavor-page__smoke-again")); p != nil {
		flavor.SmokeAgainPercentage = *p
	}

	parseRatingDistribution(page, flavor)

	if id, ok := page.Attr("data-flavor-id"); ok {
		if n := ParseCount(id); n != nil {
			flavor.HTReviewsID = *n
		}
	}

	flavor.DateAdded = ParseDate(page.text("span.flavor-page__added-date"))

	if !opts.IncludeIncomplete && incompleteFlavor(flavor) {
		recordsSkippedTotal.WithLabelValues("flavor").Inc()
		return nil, nil
	}

	if !opts.SkipValidation {
		if err := models.ValidateFlavor(flavor); err != nil {
			recordsSkippedTotal.WithLabelValues("flavor").Inc()
			return nil, nil
		}
	}

	recordsParsedTotal.WithLabelValues("flavor").Inc()
	return flavor, nil
}

// parseBreadcrumbs fills brand and line references from the page
// breadcrumb trail: a brand link, optionally followed by a line link.
func parseBreadcrumbs(page *Selection, flavor *models.Flavor) {
	page.Find("nav.breadcrumbs a").Each(func(_ int, crumb *Selection) {
		href, ok := crumb.Attr("href")
		if !ok {
			return
		}
		name := crumb.Text()

		switch {
		case strings.HasPrefix(href, BrandPathPrefix):
			flavor.BrandName = name
			if slug := ExtractBrandSlug(href); slug != "" {
				flavor.BrandSlug = slug
			}
		case strings.HasPrefix(href, FlavorPathPrefix):
			slug := ExtractSlug(href)
			segments := strings.Split(slug, "/")
			if len(segments) == 2 {
				flavor.LineSlug = &segments[1]
				lineName := name
				flavor.LineName = &lineName
			}
		}
	})
}

// parseRatingDistribution fills the per-score vote counts. Each score row
// is populated independently; absent rows keep their zero default.
func parseRatingDistribution(page *Selection, flavor *models.Flavor) {
	page.Find("div.rating-distribution div.rating-distribution__row").Each(func(_ int, row *Selection) {
		scoreStr, ok := row.Attr("data-score")
		if !ok {
			return
		}
		score := ParseCount(scoreStr)
		if score == nil || *score < 1 || *score > 5 {
			return
		}
		count := ParseCount(row.text("span.rating-distribution__count"))
		if count == nil {
			return
		}
		flavor.RatingDistribution[*score-1] = *count
	})
}

// incompleteFlavor reports whether expected descriptive fields are missing.
func incompleteFlavor(f *models.Flavor) bool {
	return strings.TrimSpace(f.Description) == "" ||
		strings.TrimSpace(f.Country) == "" ||
		strings.TrimSpace(f.Status) == ""
}

func firstSegment(slug string) string {
	if i := strings.IndexByte(slug, '/'); i > 0 {
		return slug[:i]
	}
	return slug
}
