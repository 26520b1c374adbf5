// Package scraper orchestrates the extraction pipeline: it drives the
// fetch client across listings, brand pages and flavor pages, feeds the
// parsers, and fronts everything with the read-through cache.
package scraper

import (
	"context"
	"fmt"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/rs/zerolog"

	"github.com/hookahdb/catalog-scraper/internal/storage"
	"github.com/hookahdb/catalog-scraper/pkg/cache"
	"github.com/hookahdb/catalog-scraper/pkg/client"
	"github.com/hookahdb/catalog-scraper/pkg/logging"
	"github.com/hookahdb/catalog-scraper/pkg/models"
	"github.com/hookahdb/catalog-scraper/pkg/pagination"
	"github.com/hookahdb/catalog-scraper/pkg/parser"
)

// Config holds scraper settings.
type Config struct {
	// BaseURL of the catalogue site, without trailing slash.
	BaseURL string
	// PageSize for listing and discovery pagination.
	PageSize int
	// MaxItems caps aggregated listings. Zero means unbounded.
	MaxItems int
	// PageDelay is an extra pause between listing pages, on top of the
	// client's own rate limiting.
	PageDelay time.Duration
	// UseAPIDiscovery selects the JSON API channel for flavor URL
	// discovery. When false, discovery is HTML-only.
	UseAPIDiscovery bool
	// EnableFallback allows discovery to fall back to HTML pagination
	// when the API channel fails.
	EnableFallback bool
	// VisitedCacheSize bounds the per-run LRU of already-fetched flavor
	// slugs.
	VisitedCacheSize int
	// Parser controls validation behavior of the record parsers.
	Parser parser.Options
}

// DefaultConfig returns scraper defaults.
func DefaultConfig() Config {
	return Config{
		PageSize:         50,
		UseAPIDiscovery:  true,
		EnableFallback:   true,
		VisitedCacheSize: 4096,
	}
}

// Scraper wires the fetch client, parsers, paginator and cache into the
// extraction pipeline.
type Scraper struct {
	client *client.Client
	cache  cache.CatalogCache
	store  storage.Store
	config Config
	logger zerolog.Logger

	// visited tracks flavor slugs fetched in this run so a slug
	// discovered through several paths is fetched once.
	visited *lru.Cache[string, bool]
}

// New creates a scraper. catalogCache may not be nil; persistence is
// attached separately with SetStore.
func New(httpClient *client.Client, catalogCache cache.CatalogCache, config Config) (*Scraper, error) {
	if httpClient == nil {
		return nil, fmt.Errorf("client cannot be nil")
	}
	if catalogCache == nil {
		return nil, fmt.Errorf("cache cannot be nil")
	}
	if config.BaseURL == "" {
		return nil, fmt.Errorf("base URL cannot be empty")
	}
	if config.PageSize <= 0 {
		config.PageSize = DefaultConfig().PageSize
	}
	if config.VisitedCacheSize <= 0 {
		config.VisitedCacheSize = DefaultConfig().VisitedCacheSize
	}

	visited, err := lru.New[string, bool](config.VisitedCacheSize)
	if err != nil {
		return nil, fmt.Errorf("create visited cache: %w", err)
	}

	return &Scraper{
		client:  httpClient,
		cache:   catalogCache,
		config:  config,
		logger:  logging.NewLogger("scraper"),
		visited: visited,
	}, nil
}

// SetStore attaches a persistence sink. Scraped entities are saved after
// each successful parse; save failures are logged, not fatal.
func (s *Scraper) SetStore(store storage.Store) {
	s.store = store
}

// fetch retrieves a site path relative to the base URL.
func (s *Scraper) fetch(ctx context.Context, path string) ([]byte, error) {
	resp, err := s.client.Get(ctx, s.config.BaseURL+path)
	if err != nil {
		return nil, err
	}
	return resp.Body, nil
}

// FetchAndParse retrieves a site path and parses it into a queryable
// document. It is the generic primitive behind the typed scrapers.
func (s *Scraper) FetchAndParse(ctx context.Context, path string) (*parser.Document, error) {
	body, err := s.fetch(ctx, path)
	if err != nil {
		return nil, err
	}
	return parser.ParseDocument(body)
}

// ScrapeBrandsList fetches the complete brand listing across all its
// pages.
func (s *Scraper) ScrapeBrandsList(ctx context.Context) ([]models.BrandSummary, error) {
	if brands, ok := s.cache.GetBrandsList(ctx); ok {
		return brands, nil
	}

	fetchPage := func(ctx context.Context, offset, limit int) ([]models.BrandSummary, *pagination.PageMeta, error) {
		body, err := s.fetch(ctx, fmt.Sprintf("/brands?offset=%d&limit=%d", offset, limit))
		if err != nil {
			return nil, nil, err
		}
		result, err := parser.ParseBrandListing(body, s.config.Parser)
		if err != nil {
			return nil, nil, err
		}
		// Termination must see the number of cards on the page, not the
		// number that survived validation.
		meta := &pagination.PageMeta{Seen: result.TotalCount}
		if m := parser.ParseListingMeta(body); m != nil {
			meta.Total = m.Total
			meta.Limit = m.Limit
		}
		return result.Items, meta, nil
	}

	p := pagination.NewPaginator(fetchPage, pagination.Config{
		PageSize:  s.config.PageSize,
		MaxItems:  s.config.MaxItems,
		PageDelay: s.config.PageDelay,
	})
	brands, err := p.FetchAll(ctx)
	if err != nil {
		scrapesTotal.WithLabelValues("listing", "error").Inc()
		return nil, fmt.Errorf("scrape brands list: %w", err)
	}

	scrapesTotal.WithLabelValues("listing", "ok").Inc()
	s.cache.SetBrandsList(ctx, brands)
	return brands, nil
}

// ScrapeBrandDetails fetches and parses one brand page. A missing brand
// (404) returns nil, nil.
func (s *Scraper) ScrapeBrandDetails(ctx context.Context, slug string) (*models.Brand, error) {
	if brand, ok := s.cache.GetBrand(ctx, slug); ok {
		return brand, nil
	}

	body, err := s.fetch(ctx, parser.BrandPathPrefix+slug)
	if err != nil {
		if client.IsNotFound(err) {
			scrapesTotal.WithLabelValues("brand", "missing").Inc()
			s.logger.Info().Str("slug", slug).Msg("brand not found")
			return nil, nil
		}
		scrapesTotal.WithLabelValues("brand", "error").Inc()
		return nil, fmt.Errorf("scrape brand %q: %w", slug, err)
	}

	brand, err := parser.ParseBrandDetail(body, s.config.Parser)
	if err != nil {
		scrapesTotal.WithLabelValues("brand", "error").Inc()
		return nil, fmt.Errorf("parse brand %q: %w", slug, err)
	}
	if brand == nil {
		scrapesTotal.WithLabelValues("brand", "missing").Inc()
		return nil, nil
	}

	scrapesTotal.WithLabelValues("brand", "ok").Inc()
	s.cache.SetBrand(ctx, brand)
	s.persistBrand(ctx, brand)
	return brand, nil
}

// ScrapeFlavorDetails fetches and parses one flavor page. A missing
// flavor (404) returns nil, nil. Within a run, a slug already fetched
// and found missing is not fetched again.
func (s *Scraper) ScrapeFlavorDetails(ctx context.Context, slug string) (*models.Flavor, error) {
	if flavor, ok := s.cache.GetFlavor(ctx, slug); ok {
		return flavor, nil
	}
	if _, seen := s.visited.Get(slug); seen {
		// Fetched earlier this run and not cached: known missing or
		// unparseable. Skip the refetch.
		return nil, nil
	}

	body, err := s.fetch(ctx, parser.FlavorPathPrefix+slug)
	if err != nil {
		if client.IsNotFound(err) {
			s.visited.Add(slug, true)
			scrapesTotal.WithLabelValues("flavor", "missing").Inc()
			s.logger.Info().Str("slug", slug).Msg("flavor not found")
			return nil, nil
		}
		scrapesTotal.WithLabelValues("flavor", "error").Inc()
		return nil, fmt.Errorf("scrape flavor %q: %w", slug, err)
	}
	s.visited.Add(slug, true)

	flavor, err := parser.ParseFlavorDetail(body, s.config.Parser)
	if err != nil {
		scrapesTotal.WithLabelValues("flavor", "error").Inc()
		return nil, fmt.Errorf("parse flavor %q: %w", slug, err)
	}
	if flavor == nil {
		scrapesTotal.WithLabelValues("flavor", "missing").Inc()
		return nil, nil
	}

	scrapesTotal.WithLabelValues("flavor", "ok").Inc()
	s.cache.SetFlavor(ctx, flavor)
	s.persistFlavor(ctx, flavor)
	return flavor, nil
}

func (s *Scraper) persistBrand(ctx context.Context, brand *models.Brand) {
	if s.store == nil {
		return
	}
	if err := s.store.SaveBrand(ctx, brand); err != nil {
		s.logger.Error().Err(err).Str("slug", brand.Slug).Msg("persist brand failed")
	}
}

func (s *Scraper) persistFlavor(ctx context.Context, flavor *models.Flavor) {
	if s.store == nil {
		return
	}
	if err := s.store.SaveFlavor(ctx, flavor); err != nil {
		s.logger.Error().Err(err).Str("slug", flavor.Slug).Msg("persist flavor failed")
	}
}
