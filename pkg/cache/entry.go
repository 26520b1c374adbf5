package cache

import "time"

// Entry is a cached value with its own lifetime. Entries are owned
// exclusively by the store: created on set, replaced on overwrite,
// removed by the periodic sweep, never mutated in place.
type Entry struct {
	Data      any
	Timestamp time.Time
	TTL       time.Duration
}

// ExpiresAt returns the moment the entry becomes stale.
func (e *Entry) ExpiresAt() time.Time {
	return e.Timestamp.Add(e.TTL)
}

// Expired reports whether the entry is stale at the given time.
func (e *Entry) Expired(now time.Time) bool {
	return now.After(e.ExpiresAt())
}
