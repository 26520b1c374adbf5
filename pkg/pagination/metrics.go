package pagination

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// pagesFetched counts listing pages fetched across all collections.
	pagesFetched = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "catalog_pages_fetched_total",
			Help: "Total number of listing pages fetched",
		},
	)

	// poolTasksTotal counts worker-pool tasks by outcome.
	poolTasksTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "catalog_pool_tasks_total",
			Help: "Total number of worker pool tasks by outcome",
		},
		[]string{"outcome"}, // "ok", "error"
	)
)
