package scraper

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/hookahdb/catalog-scraper/pkg/pagination"
	"github.com/hookahdb/catalog-scraper/pkg/parser"
)

// discoveryChannel names the transport a discovery run resolved to.
type discoveryChannel string

const (
	channelAPI    discoveryChannel = "api"
	channelHTML   discoveryChannel = "html"
	channelFailed discoveryChannel = "failed"
)

// discoveryOutcome is the result of one discovery attempt. The channel
// decision is carried as a value so the caller can inspect which path
// produced the URLs.
type discoveryOutcome struct {
	channel discoveryChannel
	urls    []string
	err     error
}

// apiFlavorsPage is the JSON shape of one API discovery batch.
type apiFlavorsPage struct {
	Items []struct {
		URL string `json:"url"`
	} `json:"items"`
	Total int `json:"total"`
}

// ExtractFlavorURLs returns the complete set of flavor page URLs for a
// brand, deduplicated in first-seen order. The API channel is preferred
// when configured; HTML pagination serves as the fallback. The brand
// page is fetched once and feeds both channels (numeric ID for the API,
// count hint and first-page URLs for HTML).
func (s *Scraper) ExtractFlavorURLs(ctx context.Context, brandSlug string) ([]string, error) {
	if urls, ok := s.cache.GetFlavorURLs(ctx, brandSlug); ok {
		return urls, nil
	}

	page, err := s.fetch(ctx, parser.BrandPathPrefix+brandSlug)
	if err != nil {
		discoveryTotal.WithLabelValues(string(channelFailed)).Inc()
		return nil, fmt.Errorf("discover flavors of %q: %w", brandSlug, err)
	}

	outcome := s.discover(ctx, brandSlug, page)
	if outcome.err != nil {
		discoveryTotal.WithLabelValues(string(channelFailed)).Inc()
		return nil, fmt.Errorf("discover flavors of %q: %w", brandSlug, outcome.err)
	}

	urls := dedupeURLs(outcome.urls)
	discoveryTotal.WithLabelValues(string(outcome.channel)).Inc()
	discoveryURLs.Observe(float64(len(urls)))
	s.logger.Info().
		Str("brand", brandSlug).
		Str("channel", string(outcome.channel)).
		Int("urls", len(urls)).
		Msg("flavor discovery complete")

	s.cache.SetFlavorURLs(ctx, brandSlug, urls)
	return urls, nil
}

// discover picks the channel and runs it. API failures (including a
// brand page without the numeric ID the API needs) fall back to HTML
// when enabled, otherwise surface as a failed discovery.
func (s *Scraper) discover(ctx context.Context, brandSlug string, page []byte) discoveryOutcome {
	if !s.config.UseAPIDiscovery {
		return s.discoverHTML(ctx, brandSlug, page)
	}

	brandID := parser.ExtractBrandID(page)
	if brandID == nil {
		s.logger.Debug().Str("brand", brandSlug).Msg("no brand id on page, API discovery unavailable")
		if s.config.EnableFallback {
			return s.discoverHTML(ctx, brandSlug, page)
		}
		return discoveryOutcome{channel: channelFailed, err: errors.New("brand id not found on page")}
	}

	outcome := s.discoverAPI(ctx, *brandID)
	if outcome.err != nil && s.config.EnableFallback {
		s.logger.Warn().
			Err(outcome.err).
			Str("brand", brandSlug).
			Msg("API discovery failed, falling back to HTML")
		return s.discoverHTML(ctx, brandSlug, page)
	}
	return outcome
}

// discoverAPI pages the JSON API in fixed-size batches. Termination is
// driven by the raw batch shape; URL validation happens on the
// aggregate so dropped entries cannot masquerade as a short page.
func (s *Scraper) discoverAPI(ctx context.Context, brandID int) discoveryOutcome {
	fetchBatch := func(ctx context.Context, offset, limit int) ([]string, *pagination.PageMeta, error) {
		body, err := s.fetch(ctx, fmt.Sprintf("/api/brands/%d/tabacco?offset=%d&limit=%d", brandID, offset, limit))
		if err != nil {
			return nil, nil, err
		}
		var batch apiFlavorsPage
		if err := json.Unmarshal(body, &batch); err != nil {
			return nil, nil, fmt.Errorf("decode flavors batch: %w", err)
		}
		urls := make([]string, 0, len(batch.Items))
		for _, item := range batch.Items {
			urls = append(urls, item.URL)
		}
		return urls, &pagination.PageMeta{Total: batch.Total, Limit: limit}, nil
	}

	p := pagination.NewPaginator(fetchBatch, pagination.Config{PageSize: s.config.PageSize})
	raw, err := p.FetchAll(ctx)
	if err != nil {
		return discoveryOutcome{channel: channelAPI, err: err}
	}
	return discoveryOutcome{channel: channelAPI, urls: validFlavorURLs(raw)}
}

// discoverHTML walks the brand page's flavor cards. The first page is
// the brand page itself; remaining pages are fetched by offset using
// the embedded total-count hint. An empty page is an unexpected end,
// not an error.
func (s *Scraper) discoverHTML(ctx context.Context, brandSlug string, page []byte) discoveryOutcome {
	urls, err := parser.ExtractFlavorURLs(page)
	if err != nil {
		return discoveryOutcome{channel: channelHTML, err: err}
	}

	hint := 0
	if total := parser.ExtractFlavorsTotal(page); total != nil {
		hint = *total
	}

	offset := len(urls)
	for hint > 0 && len(urls) < hint {
		body, err := s.fetch(ctx, fmt.Sprintf("%s%s?offset=%d&limit=%d", parser.BrandPathPrefix, brandSlug, offset, s.config.PageSize))
		if err != nil {
			return discoveryOutcome{channel: channelHTML, err: err}
		}
		pageURLs, err := parser.ExtractFlavorURLs(body)
		if err != nil {
			return discoveryOutcome{channel: channelHTML, err: err}
		}
		if len(pageURLs) == 0 {
			s.logger.Warn().
				Str("brand", brandSlug).
				Int("found", len(urls)).
				Int("hint", hint).
				Msg("flavor pages ended before count hint")
			break
		}
		urls = append(urls, pageURLs...)
		offset += len(pageURLs)
	}

	return discoveryOutcome{channel: channelHTML, urls: urls}
}

// validFlavorURLs drops entries that are not flavor page paths.
func validFlavorURLs(urls []string) []string {
	valid := make([]string, 0, len(urls))
	for _, u := range urls {
		if strings.HasPrefix(u, parser.FlavorPathPrefix) && len(u) > len(parser.FlavorPathPrefix) {
			valid = append(valid, u)
		}
	}
	return valid
}

// dedupeURLs removes exact-duplicate URLs, preserving first-seen order.
func dedupeURLs(urls []string) []string {
	seen := make(map[string]bool, len(urls))
	out := make([]string, 0, len(urls))
	for _, u := range urls {
		if seen[u] {
			continue
		}
		seen[u] = true
		out = append(out, u)
	}
	return out
}
