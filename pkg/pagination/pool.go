package pagination

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/hookahdb/catalog-scraper/pkg/logging"
)

// Task is one unit of pool work, keyed so results can be attributed.
type Task[T any] struct {
	Key string
	Run func(ctx context.Context) (T, error)
}

// Result pairs a task key with its outcome.
type Result[T any] struct {
	Key   string
	Value T
	Err   error
}

// PoolConfig holds worker pool settings.
type PoolConfig struct {
	// MaxConcurrency is the number of parallel workers. Parallelism
	// applies across collections; within one collection fetching stays
	// sequential.
	MaxConcurrency int
	// Timeout bounds a single task. Zero means no per-task timeout.
	Timeout time.Duration
}

// DefaultPoolConfig returns conservative defaults: the shared rate
// limiter already paces requests, so a small pool is enough to keep it
// saturated.
func DefaultPoolConfig() PoolConfig {
	return PoolConfig{
		MaxConcurrency: 4,
		Timeout:        5 * time.Minute,
	}
}

// CollectionPool runs independent per-collection tasks with bounded
// concurrency. One task failing never aborts the others; every task
// yields a Result.
type CollectionPool[T any] struct {
	config PoolConfig
	logger zerolog.Logger
}

// NewCollectionPool creates a pool. A non-positive MaxConcurrency falls
// back to the default.
func NewCollectionPool[T any](config PoolConfig) *CollectionPool[T] {
	if config.MaxConcurrency <= 0 {
		config.MaxConcurrency = DefaultPoolConfig().MaxConcurrency
	}
	return &CollectionPool[T]{
		config: config,
		logger: logging.NewLogger("pool"),
	}
}

// Run executes all tasks and returns their results in task order.
// Cancelling ctx stops workers from picking up new tasks; results for
// tasks never started carry the context error.
func (p *CollectionPool[T]) Run(ctx context.Context, tasks []Task[T]) []Result[T] {
	start := time.Now()
	results := make([]Result[T], len(tasks))

	queue := make(chan int, len(tasks))
	for i := range tasks {
		queue <- i
	}
	close(queue)

	var wg sync.WaitGroup
	workers := p.config.MaxConcurrency
	if workers > len(tasks) {
		workers = len(tasks)
	}
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()
			for i := range queue {
				task := tasks[i]

				select {
				case <-ctx.Done():
					results[i] = Result[T]{Key: task.Key, Err: ctx.Err()}
					poolTasksTotal.WithLabelValues("error").Inc()
					continue
				default:
				}

				taskCtx := ctx
				cancel := context.CancelFunc(func() {})
				if p.config.Timeout > 0 {
					taskCtx, cancel = context.WithTimeout(ctx, p.config.Timeout)
				}
				value, err := task.Run(taskCtx)
				cancel()

				results[i] = Result[T]{Key: task.Key, Value: value, Err: err}
				if err != nil {
					poolTasksTotal.WithLabelValues("error").Inc()
					p.logger.Warn().
						Err(err).
						Str("key", task.Key).
						Int("worker_id", workerID).
						Msg("task failed")
					continue
				}
				poolTasksTotal.WithLabelValues("ok").Inc()
			}
		}(w)
	}
	wg.Wait()

	failed := 0
	for _, r := range results {
		if r.Err != nil {
			failed++
		}
	}
	p.logger.Info().
		Int("tasks", len(tasks)).
		Int("failed", failed).
		Dur("duration", time.Since(start)).
		Msg("pool run complete")

	return results
}
