// Package storage persists extracted catalogue records. Records are
// upserted by slug: every scrape rebuilds entities from scratch and the
// store keeps only the latest version.
package storage

import (
	"context"
	"errors"

	"github.com/hookahdb/catalog-scraper/pkg/models"
)

// ErrNotFound indicates the requested record does not exist.
var ErrNotFound = errors.New("record not found")

// Store is the persistence surface the scraper writes through. The
// scraper treats it as optional: a nil store disables persistence.
type Store interface {
	SaveBrand(ctx context.Context, brand *models.Brand) error
	GetBrandBySlug(ctx context.Context, slug string) (*models.Brand, error)
	SaveFlavor(ctx context.Context, flavor *models.Flavor) error
	GetFlavorBySlug(ctx context.Context, slug string) (*models.Flavor, error)
	ListBrandSlugs(ctx context.Context) ([]string, error)
}
