package cache

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/hookahdb/catalog-scraper/pkg/logging"
	"github.com/hookahdb/catalog-scraper/pkg/models"
)

// Store is the in-memory TTL cache. Gets return the stored value itself,
// never a clone. Expiry is enforced by the periodic sweep, not eagerly on
// read: a read past expiry before the next sweep still returns the stale
// value. That staleness window is accepted behavior.
type Store struct {
	mu         sync.Mutex
	items      map[string]*Entry
	hits       uint64
	misses     uint64
	defaultTTL time.Duration

	stopSweep chan struct{}
	logger    zerolog.Logger

	// now is swappable for tests.
	now func() time.Time
}

// Stats reports the live key count and the cumulative hit/miss counters,
// independent of sweep timing.
type Stats struct {
	Keys   int
	Hits   uint64
	Misses uint64
}

// NewStore creates an in-memory store with the given default TTL.
// A non-positive defaultTTL falls back to DefaultTTL.
func NewStore(defaultTTL time.Duration) *Store {
	if defaultTTL <= 0 {
		defaultTTL = DefaultTTL
	}
	return &Store{
		items:      make(map[string]*Entry),
		defaultTTL: defaultTTL,
		logger:     logging.NewLogger("cache"),
		now:        time.Now,
	}
}

// Get returns the stored value for key. A miss increments the miss
// counter; a hit increments the hit counter.
func (s *Store) Get(key string) (any, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.items[key]
	if !ok {
		s.misses++
		cacheMisses.WithLabelValues("memory").Inc()
		return nil, false
	}

	s.hits++
	cacheHits.WithLabelValues("memory").Inc()
	return entry.Data, true
}

// Set stores value under key. The optional ttl overrides the store
// default for this entry only.
func (s *Store) Set(key string, value any, ttl ...time.Duration) {
	entryTTL := s.defaultTTL
	if len(ttl) > 0 && ttl[0] > 0 {
		entryTTL = ttl[0]
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.items[key] = &Entry{
		Data:      value,
		Timestamp: s.now(),
		TTL:       entryTTL,
	}
	cacheKeys.Set(float64(len(s.items)))
}

// Delete removes key and reports whether it was present.
func (s *Store) Delete(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, ok := s.items[key]
	delete(s.items, key)
	cacheKeys.Set(float64(len(s.items)))
	return ok
}

// Clear removes every entry and resets the hit/miss counters.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.items = make(map[string]*Entry)
	s.hits = 0
	s.misses = 0
	cacheKeys.Set(0)
}

// Stats returns the current counters.
func (s *Store) Stats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()

	return Stats{
		Keys:   len(s.items),
		Hits:   s.hits,
		Misses: s.misses,
	}
}

// Sweep removes all expired entries and returns how many were evicted.
func (s *Store) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	evicted := 0
	for key, entry := range s.items {
		if entry.Expired(now) {
			delete(s.items, key)
			evicted++
		}
	}

	cacheSweepsTotal.Inc()
	cacheEvictionsTotal.Add(float64(evicted))
	cacheKeys.Set(float64(len(s.items)))

	if evicted > 0 {
		s.logger.Debug().Int("evicted", evicted).Msg("cache sweep")
	}
	return evicted
}

// StartSweeper runs Sweep every interval until Stop is called. Starting
// an already-running sweeper is a no-op.
func (s *Store) StartSweeper(interval time.Duration) {
	s.mu.Lock()
	if s.stopSweep != nil {
		s.mu.Unlock()
		return
	}
	stop := make(chan struct{})
	s.stopSweep = stop
	s.mu.Unlock()

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				return
			case <-ticker.C:
				s.Sweep()
			}
		}
	}()
}

// Stop halts the periodic sweeper.
func (s *Store) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopSweep != nil {
		close(s.stopSweep)
		s.stopSweep = nil
	}
}

// Entity helpers. The context parameter exists for interface parity with
// RedisStore; the in-memory path never blocks on it.

// GetBrand returns a cached brand by slug.
func (s *Store) GetBrand(_ context.Context, slug string) (*models.Brand, bool) {
	value, ok := s.Get(brandKey(slug))
	if !ok {
		return nil, false
	}
	brand, ok := value.(*models.Brand)
	return brand, ok
}

// SetBrand caches a brand under its slug.
func (s *Store) SetBrand(_ context.Context, brand *models.Brand) {
	s.Set(brandKey(brand.Slug), brand)
}

// GetFlavor returns a cached flavor by slug.
func (s *Store) GetFlavor(_ context.Context, slug string) (*models.Flavor, bool) {
	value, ok := s.Get(flavorKey(slug))
	if !ok {
		return nil, false
	}
	flavor, ok := value.(*models.Flavor)
	return flavor, ok
}

// SetFlavor caches a flavor under its slug.
func (s *Store) SetFlavor(_ context.Context, flavor *models.Flavor) {
	s.Set(flavorKey(flavor.Slug), flavor)
}

// GetFlavorsByBrand returns the cached resolved flavors of a brand.
func (s *Store) GetFlavorsByBrand(_ context.Context, brandSlug string) ([]models.Flavor, bool) {
	value, ok := s.Get(flavorsByBrandKey(brandSlug))
	if !ok {
		return nil, false
	}
	flavors, ok := value.([]models.Flavor)
	return flavors, ok
}

// SetFlavorsByBrand caches the resolved flavors of a brand.
func (s *Store) SetFlavorsByBrand(_ context.Context, brandSlug string, flavors []models.Flavor) {
	s.Set(flavorsByBrandKey(brandSlug), flavors)
}

// GetFlavorURLs returns the cached discovery result for a brand.
func (s *Store) GetFlavorURLs(_ context.Context, brandSlug string) ([]string, bool) {
	value, ok := s.Get(flavorURLsKey(brandSlug))
	if !ok {
		return nil, false
	}
	urls, ok := value.([]string)
	return urls, ok
}

// SetFlavorURLs caches the discovery result for a brand.
func (s *Store) SetFlavorURLs(_ context.Context, brandSlug string, urls []string) {
	s.Set(flavorURLsKey(brandSlug), urls)
}

// GetBrandsList returns the cached brand listing.
func (s *Store) GetBrandsList(_ context.Context) ([]models.BrandSummary, bool) {
	value, ok := s.Get(brandsListKey)
	if !ok {
		return nil, false
	}
	brands, ok := value.([]models.BrandSummary)
	return brands, ok
}

// SetBrandsList caches the brand listing.
func (s *Store) SetBrandsList(_ context.Context, brands []models.BrandSummary) {
	s.Set(brandsListKey, brands)
}
