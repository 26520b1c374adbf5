package parser

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus metrics for record extraction.
var (
	recordsParsedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "catalog_records_parsed_total",
		Help: "Total records successfully parsed by kind",
	}, []string{"kind"})

	recordsSkippedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "catalog_records_skipped_total",
		Help: "Total candidate records dropped by parse or validation failure, by kind",
	}, []string{"kind"})
)

// Options controls parser behavior.
type Options struct {
	// SkipValidation bypasses the validation step. For test and
	// diagnostic use only.
	SkipValidation bool

	// IncludeIncomplete accepts records that are missing expected but
	// not strictly required fields instead of dropping them.
	IncludeIncomplete bool
}

// ListingMeta is the pagination metadata some listing pages embed. Total is
// the item count for the whole collection, Limit the page size the source
// actually used. Either may be absent.
type ListingMeta struct {
	Total int
	Limit int
}
