package cache

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// cacheHits tracks cache hits by store implementation.
	cacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "catalog_cache_hits_total",
			Help: "Total number of catalogue cache hits",
		},
		[]string{"store"}, // "memory", "redis"
	)

	// cacheMisses tracks cache misses by store implementation.
	cacheMisses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "catalog_cache_misses_total",
			Help: "Total number of catalogue cache misses",
		},
		[]string{"store"},
	)

	// cacheKeys tracks the number of live keys in the in-memory store.
	cacheKeys = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "catalog_cache_keys",
			Help: "Current number of live keys in the in-memory cache",
		},
	)

	// cacheSweepsTotal counts sweeper runs.
	cacheSweepsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "catalog_cache_sweeps_total",
			Help: "Total number of expiry sweeps",
		},
	)

	// cacheEvictionsTotal counts entries removed by the sweeper.
	cacheEvictionsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "catalog_cache_evictions_total",
			Help: "Total number of entries removed by expiry sweeps",
		},
	)
)
