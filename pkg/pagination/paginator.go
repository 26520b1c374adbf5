package pagination

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/hookahdb/catalog-scraper/pkg/logging"
)

// PageMeta carries the collection totals a page response declares about
// itself. Fields are zero when the source does not declare them.
type PageMeta struct {
	// Total is the declared size of the whole collection.
	Total int
	// Limit is the page size the source actually applied.
	Limit int
	// Seen is the number of records observed on the page before parsing
	// or validation dropped any. When set, termination heuristics use it
	// instead of the returned item count, so a full source page with a
	// dropped record is not mistaken for the collection's end.
	Seen int
}

// PageFunc fetches one page of a collection. It returns the page items
// and, when the source declares them, the collection totals. A nil meta
// is valid: termination then falls back to page-shape heuristics.
type PageFunc[T any] func(ctx context.Context, offset, limit int) ([]T, *PageMeta, error)

// Config holds paginator settings.
type Config struct {
	// PageSize is the limit requested per page.
	PageSize int
	// MaxItems caps the aggregate result. Zero means unbounded.
	MaxItems int
	// PageDelay is the pause between consecutive page fetches, on top
	// of whatever pacing the underlying client applies.
	PageDelay time.Duration
}

// DefaultConfig returns the paginator defaults used across the scraper.
func DefaultConfig() Config {
	return Config{
		PageSize:  50,
		MaxItems:  0,
		PageDelay: 0,
	}
}

// Paginator fetches a full offset-paginated collection sequentially.
type Paginator[T any] struct {
	fetch  PageFunc[T]
	config Config
	logger zerolog.Logger
}

// NewPaginator creates a paginator over fetch. A non-positive PageSize
// falls back to the default.
func NewPaginator[T any](fetch PageFunc[T], config Config) *Paginator[T] {
	if config.PageSize <= 0 {
		config.PageSize = DefaultConfig().PageSize
	}
	return &Paginator[T]{
		fetch:  fetch,
		config: config,
		logger: logging.NewLogger("pagination"),
	}
}

// FetchAll walks the collection page by page and returns the aggregated
// items. Any page error aborts the walk; items gathered so far are
// discarded and the error is returned with the failing offset.
//
// Termination is checked in a fixed order after every page: item
// ceiling, empty page, declared total reached, short page. A short page
// is treated as the last one even when no total was declared. The
// page-shape checks run on the observed record count when the fetch
// declares one, so records dropped during parsing never end the walk
// early.
func (p *Paginator[T]) FetchAll(ctx context.Context) ([]T, error) {
	var items []T
	offset := 0
	page := 0
	seen := 0
	start := time.Now()

	for {
		pageItems, meta, err := p.fetch(ctx, offset, p.config.PageSize)
		if err != nil {
			return nil, fmt.Errorf("fetch page at offset %d: %w", offset, err)
		}
		page++
		pagesFetched.Inc()

		items = append(items, pageItems...)

		observed := len(pageItems)
		if meta != nil && meta.Seen > 0 {
			observed = meta.Seen
		}
		seen += observed

		p.logger.Debug().
			Int("offset", offset).
			Int("page_items", len(pageItems)).
			Int("page_observed", observed).
			Int("running_total", len(items)).
			Msg("page fetched")

		if p.config.MaxItems > 0 && len(items) >= p.config.MaxItems {
			items = items[:p.config.MaxItems]
			p.logger.Info().
				Int("max_items", p.config.MaxItems).
				Msg("item ceiling reached")
			break
		}
		if observed == 0 {
			break
		}
		if meta != nil && meta.Total > 0 && seen >= meta.Total {
			break
		}
		if observed < p.config.PageSize {
			break
		}

		offset += p.config.PageSize

		if p.config.PageDelay > 0 {
			timer := time.NewTimer(p.config.PageDelay)
			select {
			case <-ctx.Done():
				timer.Stop()
				return nil, ctx.Err()
			case <-timer.C:
			}
		}
	}

	p.logger.Info().
		Int("pages", page).
		Int("items", len(items)).
		Dur("duration", time.Since(start)).
		Msg("collection fetched")

	return items, nil
}
