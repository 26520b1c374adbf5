package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/hookahdb/catalog-scraper/pkg/logging"
	"github.com/hookahdb/catalog-scraper/pkg/models"
)

// ErrInvalidEntry indicates a cache entry could not be decoded.
var ErrInvalidEntry = errors.New("invalid cache entry")

// RedisStore is the multi-process variant of the catalogue cache. Values
// are stored as JSON and expiry is delegated to Redis TTLs, so there is
// no sweeper and no stale-read window. Redis errors degrade to cache
// misses on reads; the scraper refetches instead of failing.
type RedisStore struct {
	client     *redis.Client
	defaultTTL time.Duration
	logger     zerolog.Logger
}

// NewRedisStore creates a Redis-backed catalogue cache. A non-positive
// defaultTTL falls back to DefaultTTL.
func NewRedisStore(client *redis.Client, defaultTTL time.Duration) *RedisStore {
	if client == nil {
		panic("redis client cannot be nil")
	}
	if defaultTTL <= 0 {
		defaultTTL = DefaultTTL
	}
	return &RedisStore{
		client:     client,
		defaultTTL: defaultTTL,
		logger:     logging.NewLogger("cache"),
	}
}

// Get retrieves and decodes the value stored under key into dest.
// Returns ErrCacheMiss if the key does not exist.
func (r *RedisStore) Get(ctx context.Context, key string, dest any) error {
	data, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			cacheMisses.WithLabelValues("redis").Inc()
			return ErrCacheMiss
		}
		return fmt.Errorf("redis get: %w", err)
	}

	if err := json.Unmarshal(data, dest); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidEntry, err)
	}

	cacheHits.WithLabelValues("redis").Inc()
	return nil
}

// Set encodes value as JSON and stores it under key with the store's
// default TTL.
func (r *RedisStore) Set(ctx context.Context, key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("marshal cache entry: %w", err)
	}

	if err := r.client.Set(ctx, key, data, r.defaultTTL).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

// Delete removes a key.
func (r *RedisStore) Delete(ctx context.Context, key string) error {
	if err := r.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("redis del: %w", err)
	}
	return nil
}

// get is the lookup path shared by the entity helpers: decode on hit,
// log and report a miss on any failure.
func (r *RedisStore) get(ctx context.Context, key string, dest any) bool {
	err := r.Get(ctx, key, dest)
	if err == nil {
		return true
	}
	if !errors.Is(err, ErrCacheMiss) {
		r.logger.Warn().Err(err).Str("key", key).Msg("cache read failed")
	}
	return false
}

// set is the store path shared by the entity helpers: failures are
// logged, never surfaced, since caching is best effort.
func (r *RedisStore) set(ctx context.Context, key string, value any) {
	if err := r.Set(ctx, key, value); err != nil {
		r.logger.Warn().Err(err).Str("key", key).Msg("cache write failed")
	}
}

// GetBrand returns a cached brand by slug.
func (r *RedisStore) GetBrand(ctx context.Context, slug string) (*models.Brand, bool) {
	var brand models.Brand
	if !r.get(ctx, brandKey(slug), &brand) {
		return nil, false
	}
	return &brand, true
}

// SetBrand caches a brand under its slug.
func (r *RedisStore) SetBrand(ctx context.Context, brand *models.Brand) {
	r.set(ctx, brandKey(brand.Slug), brand)
}

// GetFlavor returns a cached flavor by slug.
func (r *RedisStore) GetFlavor(ctx context.Context, slug string) (*models.Flavor, bool) {
	var flavor models.Flavor
	if !r.get(ctx, flavorKey(slug), &flavor) {
		return nil, false
	}
	return &flavor, true
}

// SetFlavor caches a flavor under its slug.
func (r *RedisStore) SetFlavor(ctx context.Context, flavor *models.Flavor) {
	r.set(ctx, flavorKey(flavor.Slug), flavor)
}

// GetFlavorsByBrand returns the cached resolved flavors of a brand.
func (r *RedisStore) GetFlavorsByBrand(ctx context.Context, brandSlug string) ([]models.Flavor, bool) {
	var flavors []models.Flavor
	if !r.get(ctx, flavorsByBrandKey(brandSlug), &flavors) {
		return nil, false
	}
	return flavors, true
}

// SetFlavorsByBrand caches the resolved flavors of a brand.
func (r *RedisStore) SetFlavorsByBrand(ctx context.Context, brandSlug string, flavors []models.Flavor) {
	r.set(ctx, flavorsByBrandKey(brandSlug), flavors)
}

// GetFlavorURLs returns the cached discovery result for a brand.
func (r *RedisStore) GetFlavorURLs(ctx context.Context, brandSlug string) ([]string, bool) {
	var urls []string
	if !r.get(ctx, flavorURLsKey(brandSlug), &urls) {
		return nil, false
	}
	return urls, true
}

// SetFlavorURLs caches the discovery result for a brand.
func (r *RedisStore) SetFlavorURLs(ctx context.Context, brandSlug string, urls []string) {
	r.set(ctx, flavorURLsKey(brandSlug), urls)
}

// GetBrandsList returns the cached brand listing.
func (r *RedisStore) GetBrandsList(ctx context.Context) ([]models.BrandSummary, bool) {
	var brands []models.BrandSummary
	if !r.get(ctx, brandsListKey, &brands) {
		return nil, false
	}
	return brands, true
}

// SetBrandsList caches the brand listing.
func (r *RedisStore) SetBrandsList(ctx context.Context, brands []models.BrandSummary) {
	r.set(ctx, brandsListKey, brands)
}
