package scraper

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"testing"
	"time"

	"github.com/hookahdb/catalog-scraper/internal/testutil"
	"github.com/hookahdb/catalog-scraper/pkg/cache"
	"github.com/hookahdb/catalog-scraper/pkg/client"
	"github.com/hookahdb/catalog-scraper/pkg/models"
)

// newTestScraper builds a scraper against the mock source with retries
// and throttling disabled.
func newTestScraper(t *testing.T, mock *testutil.MockSource, mutate func(*Config)) *Scraper {
	t.Helper()

	httpClient, err := client.New(client.Config{
		UserAgent:         "catalog-scraper-test/1.0",
		Timeout:           5 * time.Second,
		MaxRetries:        0,
		InitialBackoff:    time.Millisecond,
		MaxBackoff:        time.Millisecond,
		BackoffMultiplier: 1.0,
	})
	if err != nil {
		t.Fatalf("client.New: %v", err)
	}

	config := DefaultConfig()
	config.BaseURL = mock.URL()
	config.PageSize = 10
	if mutate != nil {
		mutate(&config)
	}

	s, err := New(httpClient, cache.NewStore(time.Hour), config)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return s
}

// serveBrandListing registers an offset-dispatching /brands handler
// serving the given summaries in pages.
func serveBrandListing(mock *testutil.MockSource, brands []models.BrandSummary, pageSize int) {
	mock.SetHandler("/brands", func(w http.ResponseWriter, r *http.Request) {
		offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))
		end := offset + pageSize
		if offset > len(brands) {
			offset = len(brands)
		}
		if end > len(brands) {
			end = len(brands)
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		fmt.Fprint(w, testutil.BrandListingHTML(brands[offset:end], len(brands), pageSize))
	})
}

func makeBrandSummaries(n int) []models.BrandSummary {
	brands := make([]models.BrandSummary, n)
	for i := range brands {
		brands[i] = models.BrandSummary{
			Slug:         fmt.Sprintf("brand-%02d", i),
			Name:         fmt.Sprintf("Brand %02d", i),
			Rating:       4.0,
			RatingsCount: 10 + i,
			ViewsCount:   1000 + i,
		}
	}
	return brands
}

func testBrand(slug string) models.Brand {
	return models.Brand{
		Slug:        slug,
		Name:        "Darkside",
		NameEn:      "Darkside",
		Description: "Крепкий табак для опытных курильщиков.",
		Country:     "Россия",
		Status:      "выпускается",
		Rating:      4.6,
	}
}

func testFlavor(slug, brandSlug string) models.Flavor {
	return models.Flavor{
		Slug:                 slug,
		BrandSlug:            brandSlug,
		BrandName:            "Darkside",
		Name:                 "Supernova",
		Description:          "Ледяная мята.",
		Country:              "Россия",
		Status:               "выпускается",
		Rating:               4.7,
		RatingsCount:         120,
		SmokeAgainPercentage: 87,
		HTReviewsID:          4821,
		AddedBy:              "moderator",
	}
}

func TestScrapeBrandsList_Paginated(t *testing.T) {
	mock := testutil.NewMockSource()
	defer mock.Close()

	brands := makeBrandSummaries(25)
	serveBrandListing(mock, brands, 10)

	s := newTestScraper(t, mock, nil)
	got, err := s.ScrapeBrandsList(context.Background())
	if err != nil {
		t.Fatalf("ScrapeBrandsList: %v", err)
	}
	if len(got) != 25 {
		t.Errorf("got %d brands, want 25", len(got))
	}
	if mock.PathCount("/brands") != 3 {
		t.Errorf("made %d listing requests, want 3", mock.PathCount("/brands"))
	}
	if got[0].Slug != "brand-00" || got[24].Slug != "brand-24" {
		t.Error("brands must aggregate in page order")
	}
}

func TestScrapeBrandsList_SkippedCardDoesNotTruncateListing(t *testing.T) {
	mock := testutil.NewMockSource()
	defer mock.Close()

	// One card on a full first page fails slug validation and is
	// dropped. The remaining pages must still be fetched.
	brands := makeBrandSummaries(20)
	brands[3].Slug = "Bad_Slug"
	serveBrandListing(mock, brands, 10)

	s := newTestScraper(t, mock, nil)
	got, err := s.ScrapeBrandsList(context.Background())
	if err != nil {
		t.Fatalf("ScrapeBrandsList: %v", err)
	}
	if len(got) != 19 {
		t.Errorf("got %d brands, want 19", len(got))
	}
	if mock.PathCount("/brands") != 2 {
		t.Errorf("made %d listing requests, want 2", mock.PathCount("/brands"))
	}
}

func TestScrapeBrandsList_CachedOnSecondCall(t *testing.T) {
	mock := testutil.NewMockSource()
	defer mock.Close()
	serveBrandListing(mock, makeBrandSummaries(5), 10)

	s := newTestScraper(t, mock, nil)
	ctx := context.Background()

	if _, err := s.ScrapeBrandsList(ctx); err != nil {
		t.Fatalf("first ScrapeBrandsList: %v", err)
	}
	first := mock.RequestCount()

	if _, err := s.ScrapeBrandsList(ctx); err != nil {
		t.Fatalf("second ScrapeBrandsList: %v", err)
	}
	if mock.RequestCount() != first {
		t.Errorf("second call made %d extra requests, want 0", mock.RequestCount()-first)
	}
}

func TestScrapeBrandDetails(t *testing.T) {
	mock := testutil.NewMockSource()
	defer mock.Close()

	mock.SetHTML("/brands/darkside", testutil.BrandPageHTML(testutil.BrandPageFixture{
		Brand: testBrand("darkside"),
	}))

	s := newTestScraper(t, mock, nil)
	brand, err := s.ScrapeBrandDetails(context.Background(), "darkside")
	if err != nil {
		t.Fatalf("ScrapeBrandDetails: %v", err)
	}
	if brand == nil {
		t.Fatal("expected a brand")
	}
	if brand.Name != "Darkside" || brand.Country != "Россия" {
		t.Errorf("parsed brand = %+v", brand)
	}

	// Second call is served from cache.
	if _, err := s.ScrapeBrandDetails(context.Background(), "darkside"); err != nil {
		t.Fatalf("cached ScrapeBrandDetails: %v", err)
	}
	if mock.PathCount("/brands/darkside") != 1 {
		t.Errorf("brand page fetched %d times, want 1", mock.PathCount("/brands/darkside"))
	}
}

func TestScrapeBrandDetails_NotFound(t *testing.T) {
	mock := testutil.NewMockSource()
	defer mock.Close()

	s := newTestScraper(t, mock, nil)
	brand, err := s.ScrapeBrandDetails(context.Background(), "ghost")
	if err != nil {
		t.Fatalf("ScrapeBrandDetails: %v", err)
	}
	if brand != nil {
		t.Errorf("got %+v for a missing brand, want nil", brand)
	}
}

func TestScrapeFlavorDetails(t *testing.T) {
	mock := testutil.NewMockSource()
	defer mock.Close()

	flavor := testFlavor("darkside/supernova", "darkside")
	mock.SetHTML("/tabacco/darkside/supernova", testutil.FlavorPageHTML(flavor))

	s := newTestScraper(t, mock, nil)
	got, err := s.ScrapeFlavorDetails(context.Background(), "darkside/supernova")
	if err != nil {
		t.Fatalf("ScrapeFlavorDetails: %v", err)
	}
	if got == nil {
		t.Fatal("expected a flavor")
	}
	if got.Name != "Supernova" || got.BrandSlug != "darkside" {
		t.Errorf("parsed flavor = %+v", got)
	}
	if got.HTReviewsID != 4821 {
		t.Errorf("HTReviewsID = %d, want 4821", got.HTReviewsID)
	}
}

func TestScrapeFlavorDetails_MissingFetchedOnce(t *testing.T) {
	mock := testutil.NewMockSource()
	defer mock.Close()

	s := newTestScraper(t, mock, nil)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		flavor, err := s.ScrapeFlavorDetails(ctx, "darkside/gone")
		if err != nil {
			t.Fatalf("ScrapeFlavorDetails: %v", err)
		}
		if flavor != nil {
			t.Fatal("expected nil for a missing flavor")
		}
	}

	if n := mock.PathCount("/tabacco/darkside/gone"); n != 1 {
		t.Errorf("missing flavor fetched %d times, want 1", n)
	}
}

func TestFetchAndParse(t *testing.T) {
	mock := testutil.NewMockSource()
	defer mock.Close()
	mock.SetHTML("/brands/darkside", `<html><body><h1 class="brand-page__title">Darkside</h1></body></html>`)

	s := newTestScraper(t, mock, nil)
	doc, err := s.FetchAndParse(context.Background(), "/brands/darkside")
	if err != nil {
		t.Fatalf("FetchAndParse: %v", err)
	}
	if got := doc.Find("h1.brand-page__title").First().Text(); got != "Darkside" {
		t.Errorf("title = %q, want Darkside", got)
	}
}

// recordingStore captures persisted entities.
type recordingStore struct {
	brands  []string
	flavors []string
}

func (r *recordingStore) SaveBrand(_ context.Context, b *models.Brand) error {
	r.brands = append(r.brands, b.Slug)
	return nil
}

func (r *recordingStore) GetBrandBySlug(context.Context, string) (*models.Brand, error) {
	return nil, nil
}

func (r *recordingStore) SaveFlavor(_ context.Context, f *models.Flavor) error {
	r.flavors = append(r.flavors, f.Slug)
	return nil
}

func (r *recordingStore) GetFlavorBySlug(context.Context, string) (*models.Flavor, error) {
	return nil, nil
}

func (r *recordingStore) ListBrandSlugs(context.Context) ([]string, error) { return nil, nil }

func TestScraper_PersistsThroughStore(t *testing.T) {
	mock := testutil.NewMockSource()
	defer mock.Close()

	mock.SetHTML("/brands/darkside", testutil.BrandPageHTML(testutil.BrandPageFixture{
		Brand: testBrand("darkside"),
	}))
	mock.SetHTML("/tabacco/darkside/supernova", testutil.FlavorPageHTML(testFlavor("darkside/supernova", "darkside")))

	s := newTestScraper(t, mock, nil)
	store := &recordingStore{}
	s.SetStore(store)

	ctx := context.Background()
	if _, err := s.ScrapeBrandDetails(ctx, "darkside"); err != nil {
		t.Fatal(err)
	}
	if _, err := s.ScrapeFlavorDetails(ctx, "darkside/supernova"); err != nil {
		t.Fatal(err)
	}

	if len(store.brands) != 1 || store.brands[0] != "darkside" {
		t.Errorf("persisted brands = %v, want [darkside]", store.brands)
	}
	if len(store.flavors) != 1 || store.flavors[0] != "darkside/supernova" {
		t.Errorf("persisted flavors = %v, want [darkside/supernova]", store.flavors)
	}
}
