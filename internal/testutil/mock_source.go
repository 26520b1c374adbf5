// Package testutil provides a configurable mock catalogue source and HTML
// fixture builders for tests.
package testutil

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"

	"github.com/hookahdb/catalog-scraper/pkg/models"
)

// MockSource is a configurable mock of the catalogue site.
type MockSource struct {
	server   *httptest.Server
	mu       sync.RWMutex
	handlers map[string]http.HandlerFunc

	// Tracking
	requestCount int
	pathCounts   map[string]int
}

// NewMockSource creates a mock source server. Paths without a registered
// handler return 404.
func NewMockSource() *MockSource {
	mock := &MockSource{
		handlers:   make(map[string]http.HandlerFunc),
		pathCounts: make(map[string]int),
	}

	mock.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mock.mu.Lock()
		mock.requestCount++
		mock.pathCounts[r.URL.Path]++
		mock.mu.Unlock()

		mock.mu.RLock()
		handler, exists := mock.handlers[r.URL.Path]
		mock.mu.RUnlock()

		if exists {
			handler(w, r)
			return
		}

		http.NotFound(w, r)
	}))

	return mock
}

// URL returns the mock server base URL.
func (m *MockSource) URL() string {
	return m.server.URL
}

// Close shuts down the mock server.
func (m *MockSource) Close() {
	m.server.Close()
}

// SetHandler registers a handler for an exact path.
func (m *MockSource) SetHandler(path string, handler http.HandlerFunc) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.handlers[path] = handler
}

// SetHTML registers a handler returning fixed HTML for a path.
func (m *MockSource) SetHTML(path, html string) {
	m.SetHandler(path, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		fmt.Fprint(w, html)
	})
}

// SetStatus registers a handler returning a bare status code for a path.
func (m *MockSource) SetStatus(path string, status int) {
	m.SetHandler(path, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(status)
	})
}

// RequestCount returns the total number of requests served.
func (m *MockSource) RequestCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.requestCount
}

// PathCount returns the number of requests served for an exact path.
func (m *MockSource) PathCount(path string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.pathCounts[path]
}

// Reset clears all tracking counters.
func (m *MockSource) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requestCount = 0
	m.pathCounts = make(map[string]int)
}

// BrandCardHTML renders one listing card for a brand summary.
func BrandCardHTML(b models.BrandSummary) string {
	return fmt.Sprintf(`<div class="brand-card">
  <a class="brand-card__link" href="/brands/%s"><span class="brand-card__name">%s</span></a>
  <span class="brand-card__rating">%.1f</span>
  <span class="brand-card__votes">%d</span>
  <span class="brand-card__views">%d</span>
</div>`, b.Slug, b.Name, b.Rating, b.RatingsCount, b.ViewsCount)
}

// BrandListingHTML renders a listing page. total and limit of 0 omit the
// corresponding metadata attribute.
func BrandListingHTML(brands []models.BrandSummary, total, limit int) string {
	var sb strings.Builder
	sb.WriteString(`<html><body><div class="brands-list"`)
	if total > 0 {
		fmt.Fprintf(&sb, ` data-total="%d"`, total)
	}
	if limit > 0 {
		fmt.Fprintf(&sb, ` data-limit="%d"`, limit)
	}
	sb.WriteString(">\n")
	for _, b := range brands {
		sb.WriteString(BrandCardHTML(b))
		sb.WriteString("\n")
	}
	sb.WriteString("</div></body></html>")
	return sb.String()
}

// BrandPageFixture describes a brand detail page to render.
type BrandPageFixture struct {
	Brand models.Brand

	// BrandID is the source-internal numeric identifier. 0 omits it,
	// which forces HTML discovery.
	BrandID int

	// FlavorsTotal is the total-count hint. 0 omits it.
	FlavorsTotal int

	// FlavorURLs are the flavor links present on this page.
	FlavorURLs []string
}

// BrandPageHTML renders a brand detail page.
func BrandPageHTML(f BrandPageFixture) string {
	b := f.Brand
	var sb strings.Builder

	sb.WriteString(`<html><body><div class="brand-page"`)
	fmt.Fprintf(&sb, ` data-slug="%s"`, b.Slug)
	if f.BrandID > 0 {
		fmt.Fprintf(&sb, ` data-brand-id="%d"`, f.BrandID)
	}
	sb.WriteString(">\n")

	fmt.Fprintf(&sb, `<h1 class="brand-page__title">%s</h1>`+"\n", b.Name)
	if b.NameEn != "" {
		fmt.Fprintf(&sb, `<span class="brand-page__title-en">%s</span>`+"\n", b.NameEn)
	}
	if b.Description != "" {
		fmt.Fprintf(&sb, `<div class="brand-page__description">%s</div>`+"\n", b.Description)
	}
	if b.Country != "" {
		fmt.Fprintf(&sb, `<span class="brand-page__country">%s</span>`+"\n", b.Country)
	}
	if b.Website != nil {
		fmt.Fprintf(&sb, `<a class="brand-page__site" href="%s">site</a>`+"\n", *b.Website)
	}
	if b.FoundedYear != nil {
		fmt.Fprintf(&sb, `<span class="brand-page__founded">%d</span>`+"\n", *b.FoundedYear)
	}
	if b.Status != "" {
		fmt.Fprintf(&sb, `<span class="brand-page__status">%s</span>`+"\n", b.Status)
	}
	if b.ImageURL != nil {
		fmt.Fprintf(&sb, `<img class="brand-page__image" src="%s">`+"\n", *b.ImageURL)
	}
	if f.FlavorsTotal > 0 {
		fmt.Fprintf(&sb, `<span class="brand-page__flavors-count">%d вкусов</span>`+"\n", f.FlavorsTotal)
	}

	fmt.Fprintf(&sb, `<div class="brand-page__stats">
  <span class="stat-rating">%.1f</span>
  <span class="stat-votes">%d</span>
  <span class="stat-reviews">%d</span>
  <span class="stat-views">%d</span>
</div>
`, b.Rating, b.RatingsCount, b.ReviewsCount, b.ViewsCount)

	sb.WriteString(`<div class="brand-page__lines">` + "\n")
	for _, line := range b.Lines {
		fmt.Fprintf(&sb, `<div class="line-card" data-slug="%s">`+"\n", line.Slug)
		fmt.Fprintf(&sb, `<span class="line-card__name">%s</span>`+"\n", line.Name)
		if line.Description != nil {
			fmt.Fprintf(&sb, `<div class="line-card__description">%s</div>`+"\n", *line.Description)
		}
		if line.Strength != nil {
			fmt.Fprintf(&sb, `<span class="line-card__strength">%s</span>`+"\n", *line.Strength)
		}
		if line.Status != "" {
			fmt.Fprintf(&sb, `<span class="line-card__status">%s</span>`+"\n", line.Status)
		}
		fmt.Fprintf(&sb, `<span class="line-card__flavors">%d вкусов</span>`+"\n", line.FlavorsCount)
		fmt.Fprintf(&sb, `<span class="line-card__rating">%.1f</span>`+"\n", line.Rating)
		sb.WriteString("</div>\n")
	}
	sb.WriteString("</div>\n")

	sb.WriteString(FlavorCardsHTML(f.FlavorURLs))
	sb.WriteString("</div></body></html>")
	return sb.String()
}

// FlavorCardsHTML renders a block of flavor links (the shape both brand
// pages and HTML discovery pages use).
func FlavorCardsHTML(urls []string) string {
	var sb strings.Builder
	sb.WriteString(`<div class="brand-page__flavors">` + "\n")
	for _, u := range urls {
		fmt.Fprintf(&sb, `<a class="flavor-card__link" href="%s">flavor</a>`+"\n", u)
	}
	sb.WriteString("</div>\n")
	return sb.String()
}

// DiscoveryPageHTML renders a standalone HTML discovery page containing
// only flavor links.
func DiscoveryPageHTML(urls []string) string {
	return "<html><body>" + FlavorCardsHTML(urls) + "</body></html>"
}

// FlavorPageHTML renders a flavor detail page.
func FlavorPageHTML(f models.Flavor) string {
	var sb strings.Builder

	sb.WriteString(`<html><body><div class="flavor-page"`)
	fmt.Fprintf(&sb, ` data-slug="/tabacco/%s"`, f.Slug)
	if f.HTReviewsID > 0 {
		fmt.Fprintf(&sb, ` data-flavor-id="%d"`, f.HTReviewsID)
	}
	sb.WriteString(">\n")

	sb.WriteString(`<nav class="breadcrumbs">` + "\n")
	fmt.Fprintf(&sb, `<a href="/brands/%s">%s</a>`+"\n", f.BrandSlug, f.BrandName)
	if f.LineSlug != nil {
		lineName := ""
		if f.LineName != nil {
			lineName = *f.LineName
		}
		fmt.Fprintf(&sb, `<a href="/tabacco/%s/%s">%s</a>`+"\n", f.BrandSlug, *f.LineSlug, lineName)
	}
	sb.WriteString("</nav>\n")

	fmt.Fprintf(&sb, `<h1 class="flavor-page__title">%s</h1>`+"\n", f.Name)
	if f.NameAlt != nil {
		fmt.Fprintf(&sb, `<span class="flavor-page__title-alt">%s</span>`+"\n", *f.NameAlt)
	}
	if f.Description != "" {
		fmt.Fprintf(&sb, `<div class="flavor-page__description">%s</div>`+"\n", f.Description)
	}
	if f.Country != "" {
		fmt.Fprintf(&sb, `<span class="flavor-page__country">%s</span>`+"\n", f.Country)
	}
	if f.OfficialStrength != nil {
		fmt.Fprintf(&sb, `<span class="flavor-page__strength-official">%s</span>`+"\n", *f.OfficialStrength)
	}
	if f.UserStrength != nil {
		fmt.Fprintf(&sb, `<span class="flavor-page__strength-user">%s</span>`+"\n", *f.UserStrength)
	}
	if f.Status != "" {
		fmt.Fprintf(&sb, `<span class="flavor-page__status">%s</span>`+"\n", f.Status)
	}
	if f.ImageURL != nil {
		fmt.Fprintf(&sb, `<img class="flavor-page__image" src="%s">`+"\n", *f.ImageURL)
	}

	if len(f.Tags) > 0 {
		sb.WriteString(`<div class="flavor-page__tags">`)
		for _, tag := range f.Tags {
			fmt.Fprintf(&sb, `<span class="tag">%s</span>`, tag)
		}
		sb.WriteString("</div>\n")
	}

	fmt.Fprintf(&sb, `<span class="flavor-page__rating">%.1f</span>`+"\n", f.Rating)
	fmt.Fprintf(&sb, `<span class="flavor-page__votes">%d</span>`+"\n", f.RatingsCount)
	fmt.Fprintf(&sb, `<span class="flavor-page__reviews">%d</span>`+"\n", f.ReviewsCount)
	fmt.Fprintf(&sb, `<span class="flavor-page__views">%d</span>`+"\n", f.ViewsCount)

	sb.WriteString(`<div class="rating-distribution">` + "\n")
	for score, count := range f.RatingDistribution {
		fmt.Fprintf(&sb, `<div class="rating-distribution__row" data-score="%d"><span class="rating-distribution__count">%d</span></div>`+"\n", score+1, count)
	}
	sb.WriteString("</div>\n")

	fmt.Fprintf(&sb, `<span class="flavor-page__smoke-again">%.0f%%</span>`+"\n", f.SmokeAgainPercentage)
	if f.DateAdded != nil {
		fmt.Fprintf(&sb, `<span class="flavor-page__added-date">%s</span>`+"\n", f.DateAdded.Format("02.01.2006"))
	}
	if f.AddedBy != "" {
		fmt.Fprintf(&sb, `<span class="flavor-page__added-by">%s</span>`+"\n", f.AddedBy)
	}

	sb.WriteString("</div></body></html>")
	return sb.String()
}

// APIFlavorsJSON renders one batch of the JSON flavor-URL API.
func APIFlavorsJSON(urls []string, total int) string {
	var sb strings.Builder
	sb.WriteString(`{"items":[`)
	for i, u := range urls {
		if i > 0 {
			sb.WriteString(",")
		}
		fmt.Fprintf(&sb, `{"url":%q}`, u)
	}
	fmt.Fprintf(&sb, `],"total":%d}`, total)
	return sb.String()
}
