package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/hookahdb/catalog-scraper/pkg/models"
)

// Querier is the subset of pgx the store needs. *pgxpool.Pool satisfies
// it; tests substitute a fake.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PostgresStore persists records as jsonb documents keyed by slug.
// Structured columns exist only where queries need them (the brand join
// key); everything else lives in the document.
type PostgresStore struct {
	db Querier
}

// NewPostgresStore creates a store over db.
func NewPostgresStore(db Querier) *PostgresStore {
	return &PostgresStore{db: db}
}

const schema = `
CREATE TABLE IF NOT EXISTS brands (
	slug       TEXT PRIMARY KEY,
	data       JSONB NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS flavors (
	slug       TEXT PRIMARY KEY,
	brand_slug TEXT NOT NULL,
	data       JSONB NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS flavors_brand_slug_idx ON flavors (brand_slug);
`

// EnsureSchema creates the tables if they do not exist.
func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.Exec(ctx, schema); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}

// SaveBrand upserts a brand by slug.
func (s *PostgresStore) SaveBrand(ctx context.Context, brand *models.Brand) error {
	data, err := json.Marshal(brand)
	if err != nil {
		return fmt.Errorf("marshal brand %q: %w", brand.Slug, err)
	}

	_, err = s.db.Exec(ctx, `
		INSERT INTO brands (slug, data, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (slug) DO UPDATE SET data = EXCLUDED.data, updated_at = now()`,
		brand.Slug, data)
	if err != nil {
		return fmt.Errorf("save brand %q: %w", brand.Slug, err)
	}
	return nil
}

// GetBrandBySlug loads a brand. Returns ErrNotFound when absent.
func (s *PostgresStore) GetBrandBySlug(ctx context.Context, slug string) (*models.Brand, error) {
	var data []byte
	err := s.db.QueryRow(ctx, `SELECT data FROM brands WHERE slug = $1`, slug).Scan(&data)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get brand %q: %w", slug, err)
	}

	var brand models.Brand
	if err := json.Unmarshal(data, &brand); err != nil {
		return nil, fmt.Errorf("decode brand %q: %w", slug, err)
	}
	return &brand, nil
}

// SaveFlavor upserts a flavor by slug.
func (s *PostgresStore) SaveFlavor(ctx context.Context, flavor *models.Flavor) error {
	data, err := json.Marshal(flavor)
	if err != nil {
		return fmt.Errorf("marshal flavor %q: %w", flavor.Slug, err)
	}

	_, err = s.db.Exec(ctx, `
		INSERT INTO flavors (slug, brand_slug, data, updated_at)
		VALUES ($1, $2, $3, now())
		ON CONFLICT (slug) DO UPDATE SET brand_slug = EXCLUDED.brand_slug, data = EXCLUDED.data, updated_at = now()`,
		flavor.Slug, flavor.BrandSlug, data)
	if err != nil {
		return fmt.Errorf("save flavor %q: %w", flavor.Slug, err)
	}
	return nil
}

// GetFlavorBySlug loads a flavor. Returns ErrNotFound when absent.
func (s *PostgresStore) GetFlavorBySlug(ctx context.Context, slug string) (*models.Flavor, error) {
	var data []byte
	err := s.db.QueryRow(ctx, `SELECT data FROM flavors WHERE slug = $1`, slug).Scan(&data)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get flavor %q: %w", slug, err)
	}

	var flavor models.Flavor
	if err := json.Unmarshal(data, &flavor); err != nil {
		return nil, fmt.Errorf("decode flavor %q: %w", slug, err)
	}
	return &flavor, nil
}

// ListBrandSlugs returns all stored brand slugs in lexical order.
func (s *PostgresStore) ListBrandSlugs(ctx context.Context) ([]string, error) {
	rows, err := s.db.Query(ctx, `SELECT slug FROM brands ORDER BY slug`)
	if err != nil {
		return nil, fmt.Errorf("list brand slugs: %w", err)
	}
	defer rows.Close()

	var slugs []string
	for rows.Next() {
		var slug string
		if err := rows.Scan(&slug); err != nil {
			return nil, fmt.Errorf("scan brand slug: %w", err)
		}
		slugs = append(slugs, slug)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list brand slugs: %w", err)
	}
	return slugs, nil
}
