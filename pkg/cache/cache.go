// Package cache provides the TTL-keyed store fronting repeated reads of
// the extracted catalogue: fully-resolved entities by key, with hit/miss
// accounting. The in-memory Store is the default; RedisStore offers the
// same surface for multi-process deployments.
package cache

import (
	"context"
	"errors"
	"time"

	"github.com/hookahdb/catalog-scraper/pkg/models"
)

// DefaultTTL is the process-wide default entry lifetime when a set
// operation does not specify one.
const DefaultTTL = 24 * time.Hour

// ErrCacheMiss indicates the requested key was not found.
var ErrCacheMiss = errors.New("cache miss")

// CatalogCache is the entity-level cache surface the scraper depends on.
// The helpers are namespaced key conventions over a generic store, not
// separate storage.
type CatalogCache interface {
	GetBrand(ctx context.Context, slug string) (*models.Brand, bool)
	SetBrand(ctx context.Context, brand *models.Brand)

	GetFlavor(ctx context.Context, slug string) (*models.Flavor, bool)
	SetFlavor(ctx context.Context, flavor *models.Flavor)

	GetFlavorsByBrand(ctx context.Context, brandSlug string) ([]models.Flavor, bool)
	SetFlavorsByBrand(ctx context.Context, brandSlug string, flavors []models.Flavor)

	GetFlavorURLs(ctx context.Context, brandSlug string) ([]string, bool)
	SetFlavorURLs(ctx context.Context, brandSlug string, urls []string)

	GetBrandsList(ctx context.Context) ([]models.BrandSummary, bool)
	SetBrandsList(ctx context.Context, brands []models.BrandSummary)
}

// Key conventions shared by both store implementations.
const brandsListKey = "brands:list"

func brandKey(slug string) string          { return "brand:" + slug }
func flavorKey(slug string) string         { return "flavor:" + slug }
func flavorsByBrandKey(slug string) string { return "flavors:brand:" + slug }
func flavorURLsKey(slug string) string     { return "flavor-urls:brand:" + slug }
