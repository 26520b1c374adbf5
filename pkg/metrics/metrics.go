// Package metrics documents the Prometheus metrics the scraper exposes.
// Metrics are defined in their owning packages (client, ratelimit, cache,
// pagination, parser, scraper) to keep the dependency graph acyclic; this
// package holds the registry reference and the catalogue of names.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Registry is the Prometheus registerer all scraper metrics attach to.
// Every metric registers itself via promauto in its owning package.
var Registry = prometheus.DefaultRegisterer

// Metrics Documentation
//
// Request Metrics (pkg/client):
//   - catalog_requests_total{status} (Counter): Source requests by HTTP status
//   - catalog_request_duration_seconds (Histogram): Request duration
//   - catalog_errors_total{class} (Counter): Fetch errors by class (client, server, rate_limit, network)
//
// Retry Metrics (pkg/client):
//   - catalog_retries_total{error_class} (Counter): Retry attempts by error class
//   - catalog_retry_backoff_seconds{error_class} (Histogram): Backoff duration by error class
//   - catalog_retry_exhausted_total{error_class} (Counter): Requests that exhausted max retries
//
// Throttle Metrics (pkg/ratelimit):
//   - catalog_throttle_waits_total (Counter): Requests delayed by the inter-request throttle
//   - catalog_throttle_wait_seconds (Histogram): Time spent waiting on the throttle
//
// Cache Metrics (pkg/cache):
//   - catalog_cache_hits_total{store} (Counter): Cache hits by store (memory, redis)
//   - catalog_cache_misses_total{store} (Counter): Cache misses by store
//   - catalog_cache_keys (Gauge): Live keys in the in-memory store
//   - catalog_cache_sweeps_total (Counter): Expiry sweeps
//   - catalog_cache_evictions_total (Counter): Entries removed by sweeps
//
// Pagination Metrics (pkg/pagination):
//   - catalog_pages_fetched_total (Counter): Listing pages fetched
//   - catalog_pool_tasks_total{outcome} (Counter): Worker pool tasks by outcome (ok, error)
//
// Parser Metrics (pkg/parser):
//   - catalog_records_parsed_total{kind} (Counter): Records accepted by kind
//   - catalog_records_skipped_total{kind} (Counter): Records dropped by parse or validation failure
//
// Scraper Metrics (pkg/scraper):
//   - catalog_scrapes_total{kind, outcome} (Counter): Entity scrapes by kind and outcome
//   - catalog_discovery_total{channel} (Counter): Discovery runs by channel (api, html, failed)
//   - catalog_discovery_urls (Histogram): Flavor URLs yielded per discovery run
//   - catalog_run_duration_seconds (Histogram): Full catalogue run duration
//
// Example Prometheus Queries:
//
//   # Cache Hit Rate
//   sum(rate(catalog_cache_hits_total[5m])) /
//   (sum(rate(catalog_cache_hits_total[5m])) + sum(rate(catalog_cache_misses_total[5m])))
//
//   # Request Error Rate
//   rate(catalog_errors_total[5m])
//
//   # P95 Request Latency
//   histogram_quantile(0.95, rate(catalog_request_duration_seconds_bucket[5m]))
//
//   # Share of Discovery Runs Falling Back to HTML
//   rate(catalog_discovery_total{channel="html"}[1h]) /
//   sum(rate(catalog_discovery_total[1h]))
