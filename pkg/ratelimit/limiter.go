// Package ratelimit enforces a minimum elapsed time between requests to the
// catalogue source. The limiter is a single global throttle per client
// instance: concurrent fetchers sharing one client serialize through it,
// which is how the rate limit is enforced at all.
package ratelimit

import (
	"context"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus metrics for rate limiting.
var (
	throttleWaitsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "catalog_throttle_waits_total",
		Help: "Total number of requests delayed by the inter-request throttle",
	})

	throttleWaitSeconds = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "catalog_throttle_wait_seconds",
		Help:    "Time spent waiting on the inter-request throttle",
		Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5},
	})
)

// Limiter spaces requests by a minimum delay measured from the end of the
// previous request to the start of the next one, independent of retries.
type Limiter struct {
	mu       sync.Mutex
	minDelay time.Duration
	last     time.Time

	// now and sleep are swappable for tests.
	now   func() time.Time
	sleep func(ctx context.Context, d time.Duration) error
}

// New creates a limiter with the given minimum inter-request delay.
// A zero or negative delay disables throttling.
func New(minDelay time.Duration) *Limiter {
	return &Limiter{
		minDelay: minDelay,
		now:      time.Now,
		sleep:    sleepContext,
	}
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Wait blocks until the minimum delay since the previous request ended
// has elapsed, then records the current time as a provisional reference
// point so concurrent waiters space out before the request completes.
// Record replaces the reference with the actual completion time. Wait
// returns early with the context error on cancellation.
func (l *Limiter) Wait(ctx context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.minDelay > 0 && !l.last.IsZero() {
		remaining := l.minDelay - l.now().Sub(l.last)
		if remaining > 0 {
			throttleWaitsTotal.Inc()
			throttleWaitSeconds.Observe(remaining.Seconds())
			if err := l.sleep(ctx, remaining); err != nil {
				return err
			}
		}
	}

	l.last = l.now()
	return nil
}

// Record marks the completion of a request. The delay before the next
// Wait is measured from this point, so a request that takes longer than
// the minimum delay never shrinks the end-to-start gap.
func (l *Limiter) Record() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.last = l.now()
}

// Reset clears the throttle's internal clock. Used between independent
// scrape runs.
func (l *Limiter) Reset() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.last = time.Time{}
}

// MinDelay returns the configured minimum inter-request delay.
func (l *Limiter) MinDelay() time.Duration {
	return l.minDelay
}
