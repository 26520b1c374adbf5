// Package pagination walks offset-paginated catalogue collections.
//
// The site serves listings in fixed-size pages addressed by offset and
// limit. Paginator fetches a single collection sequentially, respecting
// the source's request pacing, and stops on the first of: configured
// item ceiling, empty page, declared total reached, or a short page.
// CollectionPool runs independent per-collection jobs in parallel with
// a bounded worker pool.
package pagination
