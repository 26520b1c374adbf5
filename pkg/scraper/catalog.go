package scraper

import (
	"context"
	"fmt"
	"time"

	"github.com/hookahdb/catalog-scraper/pkg/models"
	"github.com/hookahdb/catalog-scraper/pkg/pagination"
	"github.com/hookahdb/catalog-scraper/pkg/parser"
)

// CatalogResult aggregates a full catalogue run.
type CatalogResult struct {
	Brands   []models.Brand  `json:"brands"`
	Flavors  []models.Flavor `json:"flavors"`
	Skipped  int             `json:"skipped"`
	Failed   []string        `json:"failed,omitempty"`
	Duration time.Duration   `json:"duration"`
}

// brandHarvest is one brand's share of a catalogue run.
type brandHarvest struct {
	brand   *models.Brand
	flavors []models.Flavor
	skipped int
}

// CatalogConfig bounds a full catalogue run.
type CatalogConfig struct {
	// MaxConcurrency is the number of brands worked in parallel.
	// Within one brand, fetching stays sequential.
	MaxConcurrency int
	// BrandTimeout bounds one brand's full harvest.
	BrandTimeout time.Duration
}

// DefaultCatalogConfig returns the defaults for a full run.
func DefaultCatalogConfig() CatalogConfig {
	return CatalogConfig{
		MaxConcurrency: 4,
		BrandTimeout:   10 * time.Minute,
	}
}

// ScrapeCatalog harvests the whole catalogue: the brand listing, then
// every brand's details, flavor URLs and flavor details. Brands are
// processed in parallel through the collection pool; a failing brand is
// recorded in Failed and does not abort the run.
func (s *Scraper) ScrapeCatalog(ctx context.Context, config CatalogConfig) (*CatalogResult, error) {
	start := time.Now()

	summaries, err := s.ScrapeBrandsList(ctx)
	if err != nil {
		return nil, err
	}
	s.logger.Info().Int("brands", len(summaries)).Msg("catalogue run started")

	tasks := make([]pagination.Task[brandHarvest], len(summaries))
	for i, summary := range summaries {
		slug := summary.Slug
		tasks[i] = pagination.Task[brandHarvest]{
			Key: slug,
			Run: func(ctx context.Context) (brandHarvest, error) {
				return s.harvestBrand(ctx, slug)
			},
		}
	}

	pool := pagination.NewCollectionPool[brandHarvest](pagination.PoolConfig{
		MaxConcurrency: config.MaxConcurrency,
		Timeout:        config.BrandTimeout,
	})
	results := pool.Run(ctx, tasks)

	result := &CatalogResult{}
	for _, r := range results {
		if r.Err != nil {
			result.Failed = append(result.Failed, r.Key)
			continue
		}
		if r.Value.brand != nil {
			result.Brands = append(result.Brands, *r.Value.brand)
		}
		result.Flavors = append(result.Flavors, r.Value.flavors...)
		result.Skipped += r.Value.skipped
	}
	result.Duration = time.Since(start)
	catalogRunDuration.Observe(result.Duration.Seconds())

	s.logger.Info().
		Int("brands", len(result.Brands)).
		Int("flavors", len(result.Flavors)).
		Int("skipped", result.Skipped).
		Int("failed", len(result.Failed)).
		Dur("duration", result.Duration).
		Msg("catalogue run complete")

	return result, nil
}

// harvestBrand collects one brand's details and all of its flavors.
func (s *Scraper) harvestBrand(ctx context.Context, slug string) (brandHarvest, error) {
	brand, err := s.ScrapeBrandDetails(ctx, slug)
	if err != nil {
		return brandHarvest{}, err
	}
	if brand == nil {
		// Listed but gone by the time we fetched it.
		return brandHarvest{skipped: 1}, nil
	}

	urls, err := s.ExtractFlavorURLs(ctx, slug)
	if err != nil {
		return brandHarvest{}, fmt.Errorf("brand %q: %w", slug, err)
	}
	// Discovery can find URLs the brand page itself does not carry.
	// Re-store the brand so cache and persistence hold the full set.
	brand.FlavorURLs = urls
	s.cache.SetBrand(ctx, brand)
	s.persistBrand(ctx, brand)

	harvest := brandHarvest{brand: brand}
	for _, u := range urls {
		flavorSlug := parser.ExtractSlug(u)
		if flavorSlug == "" {
			harvest.skipped++
			continue
		}
		flavor, err := s.ScrapeFlavorDetails(ctx, flavorSlug)
		if err != nil {
			return brandHarvest{}, err
		}
		if flavor == nil {
			harvest.skipped++
			continue
		}
		harvest.flavors = append(harvest.flavors, *flavor)
	}
	return harvest, nil
}
