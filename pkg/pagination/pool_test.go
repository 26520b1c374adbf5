package pagination

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
)

func TestPoolRun_AllTasksComplete(t *testing.T) {
	tasks := make([]Task[int], 20)
	for i := range tasks {
		i := i
		tasks[i] = Task[int]{
			Key: string(rune('a' + i)),
			Run: func(context.Context) (int, error) { return i * 2, nil },
		}
	}

	pool := NewCollectionPool[int](PoolConfig{MaxConcurrency: 4})
	results := pool.Run(context.Background(), tasks)

	if len(results) != len(tasks) {
		t.Fatalf("got %d results, want %d", len(results), len(tasks))
	}
	for i, r := range results {
		if r.Err != nil {
			t.Errorf("task %d failed: %v", i, r.Err)
		}
		if r.Value != i*2 {
			t.Errorf("result[%d] = %d, want %d (results must keep task order)", i, r.Value, i*2)
		}
		if r.Key != tasks[i].Key {
			t.Errorf("result[%d] key = %q, want %q", i, r.Key, tasks[i].Key)
		}
	}
}

func TestPoolRun_FailureDoesNotAbortOthers(t *testing.T) {
	brandErr := errors.New("brand page unavailable")
	tasks := []Task[string]{
		{Key: "darkside", Run: func(context.Context) (string, error) { return "ok", nil }},
		{Key: "missing", Run: func(context.Context) (string, error) { return "", brandErr }},
		{Key: "musthave", Run: func(context.Context) (string, error) { return "ok", nil }},
	}

	pool := NewCollectionPool[string](PoolConfig{MaxConcurrency: 2})
	results := pool.Run(context.Background(), tasks)

	if results[0].Err != nil || results[2].Err != nil {
		t.Error("healthy tasks must not be affected by a failing sibling")
	}
	if !errors.Is(results[1].Err, brandErr) {
		t.Errorf("results[1].Err = %v, want the task error", results[1].Err)
	}
}

func TestPoolRun_ConcurrencyBound(t *testing.T) {
	const maxWorkers = 3
	var running, peak int32
	var mu sync.Mutex

	gate := make(chan struct{})
	tasks := make([]Task[struct{}], 12)
	for i := range tasks {
		tasks[i] = Task[struct{}]{
			Key: "task",
			Run: func(context.Context) (struct{}, error) {
				now := atomic.AddInt32(&running, 1)
				mu.Lock()
				if now > peak {
					peak = now
				}
				mu.Unlock()
				<-gate
				atomic.AddInt32(&running, -1)
				return struct{}{}, nil
			},
		}
	}

	pool := NewCollectionPool[struct{}](PoolConfig{MaxConcurrency: maxWorkers})
	done := make(chan struct{})
	go func() {
		pool.Run(context.Background(), tasks)
		close(done)
	}()

	close(gate)
	<-done

	mu.Lock()
	defer mu.Unlock()
	if peak > maxWorkers {
		t.Errorf("observed %d concurrent tasks, want at most %d", peak, maxWorkers)
	}
}

func TestPoolRun_CancelledContextSkipsPendingTasks(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var executed int32
	tasks := make([]Task[int], 5)
	for i := range tasks {
		tasks[i] = Task[int]{
			Key: "task",
			Run: func(context.Context) (int, error) {
				atomic.AddInt32(&executed, 1)
				return 0, nil
			},
		}
	}

	pool := NewCollectionPool[int](PoolConfig{MaxConcurrency: 2})
	results := pool.Run(ctx, tasks)

	if atomic.LoadInt32(&executed) != 0 {
		t.Errorf("%d tasks ran after cancellation, want 0", executed)
	}
	for i, r := range results {
		if !errors.Is(r.Err, context.Canceled) {
			t.Errorf("results[%d].Err = %v, want context.Canceled", i, r.Err)
		}
	}
}

func TestPoolRun_NoTasks(t *testing.T) {
	pool := NewCollectionPool[int](PoolConfig{})
	results := pool.Run(context.Background(), nil)
	if len(results) != 0 {
		t.Errorf("got %d results for no tasks, want 0", len(results))
	}
}
