package parser

import (
	"strings"
	"testing"
	"time"

	"github.com/hookahdb/catalog-scraper/internal/testutil"
	"github.com/hookahdb/catalog-scraper/pkg/models"
)

func sampleFlavor() models.Flavor {
	line := "base"
	lineName := "Base"
	alt := "Виноград"
	official := "лёгкий"
	user := "средний"
	img := "https://cdn.example.org/grape.jpg"
	added := time.Date(2021, 3, 12, 0, 0, 0, 0, time.UTC)
	return models.Flavor{
		Slug:                 "al-fakher/base/grape",
		BrandSlug:            "al-fakher",
		BrandName:            "Al Fakher",
		LineSlug:             &line,
		LineName:             &lineName,
		Name:                 "Grape",
		NameAlt:              &alt,
		Description:          "Classic grape with a light sweetness",
		Country:              "ОАЭ",
		OfficialStrength:     &official,
		UserStrength:         &user,
		Status:               "выпускается",
		ImageURL:             &img,
		Tags:                 []string{"сладкий", "фруктовый"},
		Rating:               4.6,
		RatingsCount:         812,
		ReviewsCount:         120,
		ViewsCount:           230100,
		RatingDistribution:   [5]int{3, 10, 40, 200, 559},
		SmokeAgainPercentage: 87,
		HTReviewsID:          4412,
		DateAdded:            &added,
		AddedBy:              "moder",
	}
}

func TestParseFlavorDetail(t *testing.T) {
	want := sampleFlavor()
	content := []byte(testutil.FlavorPageHTML(want))

	got, err := ParseFlavorDetail(content, Options{})
	if err != nil {
		t.Fatalf("ParseFlavorDetail() error = %v", err)
	}
	if got == nil {
		t.Fatal("ParseFlavorDetail() = nil, want flavor")
	}

	if got.Slug != want.Slug {
		t.Errorf("Slug = %q, want %q", got.Slug, want.Slug)
	}
	if got.BrandSlug != "al-fakher" || got.BrandName != "Al Fakher" {
		t.Errorf("brand ref = %q/%q", got.BrandSlug, got.BrandName)
	}
	if got.LineSlug == nil || *got.LineSlug != "base" {
		t.Errorf("LineSlug = %v, want base", got.LineSlug)
	}
	if got.LineName == nil || *got.LineName != "Base" {
		t.Errorf("LineName = %v, want Base", got.LineName)
	}
	if got.NameAlt == nil || *got.NameAlt != "Виноград" {
		t.Errorf("NameAlt = %v", got.NameAlt)
	}
	if got.ViewsCount != 230100 {
		t.Errorf("ViewsCount = %d, want 230100", got.ViewsCount)
	}
	if got.RatingDistribution != want.RatingDistribution {
		t.Errorf("RatingDistribution = %v, want %v", got.RatingDistribution, want.RatingDistribution)
	}
	if got.SmokeAgainPercentage != 87 {
		t.Errorf("SmokeAgainPercentage = %v, want 87", got.SmokeAgainPercentage)
	}
	if got.HTReviewsID != 4412 {
		t.Errorf("HTReviewsID = %d, want 4412", got.HTReviewsID)
	}
	if got.DateAdded == nil || !got.DateAdded.Equal(*want.DateAdded) {
		t.Errorf("DateAdded = %v, want %v", got.DateAdded, want.DateAdded)
	}
	if len(got.Tags) != 2 || got.Tags[0] != "сладкий" {
		t.Errorf("Tags = %v, want order-preserving tags", got.Tags)
	}
}

func TestParseFlavorDetail_BrandDepthSlug(t *testing.T) {
	// A flavor directly under the brand, with no line.
	f := sampleFlavor()
	f.Slug = "al-fakher/golden-mix"
	f.LineSlug = nil
	f.LineName = nil
	content := []byte(testutil.FlavorPageHTML(f))

	got, err := ParseFlavorDetail(content, Options{})
	if err != nil {
		t.Fatalf("ParseFlavorDetail() error = %v", err)
	}
	if got == nil {
		t.Fatal("ParseFlavorDetail() = nil")
	}
	if got.Slug != "al-fakher/golden-mix" {
		t.Errorf("Slug = %q", got.Slug)
	}
	if got.LineSlug != nil {
		t.Errorf("LineSlug = %v, want nil", *got.LineSlug)
	}
}

func TestParseFlavorDetail_DuplicateTagsCollapsed(t *testing.T) {
	f := sampleFlavor()
	f.Tags = []string{"сладкий", "фруктовый", "сладкий"}
	content := []byte(testutil.FlavorPageHTML(f))

	got, err := ParseFlavorDetail(content, Options{})
	if err != nil {
		t.Fatalf("ParseFlavorDetail() error = %v", err)
	}
	if got == nil {
		t.Fatal("ParseFlavorDetail() = nil")
	}
	if len(got.Tags) != 2 || got.Tags[0] != "сладкий" || got.Tags[1] != "фруктовый" {
		t.Errorf("Tags = %v, want unique tags in first-seen order", got.Tags)
	}
}

func TestParseFlavorDetail_NotAFlavorPage(t *testing.T) {
	got, err := ParseFlavorDetail([]byte("<html><body><h1>404</h1></body></html>"), Options{})
	if err != nil {
		t.Fatalf("ParseFlavorDetail() error = %v", err)
	}
	if got != nil {
		t.Errorf("ParseFlavorDetail() = %+v, want nil", got)
	}
}

func TestParseFlavorDetail_MissingRequiredField(t *testing.T) {
	// Dropping the title removes a required field: the record is dropped
	// and no error is raised.
	html := testutil.FlavorPageHTML(sampleFlavor())
	html = strings.Replace(html, `<h1 class="flavor-page__title">Grape</h1>`, "", 1)

	got, err := ParseFlavorDetail([]byte(html), Options{})
	if err != nil {
		t.Fatalf("ParseFlavorDetail() error = %v", err)
	}
	if got != nil {
		t.Errorf("ParseFlavorDetail() = %+v, want nil for missing name", got)
	}
}

func TestParseFlavorDetail_IncompleteDescription(t *testing.T) {
	f := sampleFlavor()
	f.Description = ""
	content := []byte(testutil.FlavorPageHTML(f))

	dropped, err := ParseFlavorDetail(content, Options{})
	if err != nil {
		t.Fatalf("ParseFlavorDetail() error = %v", err)
	}
	if dropped != nil {
		t.Error("incomplete flavor accepted without IncludeIncomplete")
	}

	kept, err := ParseFlavorDetail(content, Options{IncludeIncomplete: true})
	if err != nil {
		t.Fatalf("ParseFlavorDetail() error = %v", err)
	}
	if kept == nil {
		t.Fatal("incomplete flavor dropped despite IncludeIncomplete")
	}
}

func TestParseFlavorDetail_PartialDistribution(t *testing.T) {
	// Only two score rows present: the rest stay zero.
	f := sampleFlavor()
	html := testutil.FlavorPageHTML(f)
	html = strings.Replace(html, `<div class="rating-distribution__row" data-score="1"><span class="rating-distribution__count">3</span></div>`, "", 1)
	html = strings.Replace(html, `<div class="rating-distribution__row" data-score="2"><span class="rating-distribution__count">10</span></div>`, "", 1)
	html = strings.Replace(html, `<div class="rating-distribution__row" data-score="3"><span class="rating-distribution__count">40</span></div>`, "", 1)

	got, err := ParseFlavorDetail([]byte(html), Options{})
	if err != nil {
		t.Fatalf("ParseFlavorDetail() error = %v", err)
	}
	if got == nil {
		t.Fatal("ParseFlavorDetail() = nil")
	}
	want := [5]int{0, 0, 0, 200, 559}
	if got.RatingDistribution != want {
		t.Errorf("RatingDistribution = %v, want %v", got.RatingDistribution, want)
	}
}

func TestParseFlavorDetail_SkipValidation(t *testing.T) {
	// A zero source id fails validation but passes with SkipValidation.
	f := sampleFlavor()
	f.HTReviewsID = 0
	content := []byte(testutil.FlavorPageHTML(f))

	strict, err := ParseFlavorDetail(content, Options{})
	if err != nil {
		t.Fatalf("ParseFlavorDetail() error = %v", err)
	}
	if strict != nil {
		t.Error("record without source id accepted in strict mode")
	}

	loose, err := ParseFlavorDetail(content, Options{SkipValidation: true})
	if err != nil {
		t.Fatalf("ParseFlavorDetail() error = %v", err)
	}
	if loose == nil {
		t.Fatal("record dropped despite SkipValidation")
	}
}
