package scraper

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// scrapesTotal counts entity scrapes by kind and outcome.
	scrapesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "catalog_scrapes_total",
			Help: "Total number of entity scrapes by kind and outcome",
		},
		[]string{"kind", "outcome"}, // kind: "brand", "flavor", "listing"; outcome: "ok", "missing", "error"
	)

	// discoveryTotal counts flavor URL discovery runs by channel used.
	discoveryTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "catalog_discovery_total",
			Help: "Total number of flavor URL discovery runs by resolved channel",
		},
		[]string{"channel"}, // "api", "html", "failed"
	)

	// discoveryURLs tracks how many flavor URLs a discovery run yields.
	discoveryURLs = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "catalog_discovery_urls",
			Help:    "Flavor URLs yielded per discovery run",
			Buckets: []float64{0, 10, 25, 50, 100, 250, 500, 1000},
		},
	)

	// catalogRunDuration tracks full catalogue run duration.
	catalogRunDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "catalog_run_duration_seconds",
			Help:    "Duration of full catalogue scrape runs",
			Buckets: prometheus.ExponentialBuckets(1, 2, 14),
		},
	)
)
