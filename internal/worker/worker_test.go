package worker

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestPool_StartStop(t *testing.T) {
	var processed atomic.Int64
	pool := NewPool(2, 10, func(ctx context.Context, job int) {
		processed.Add(1)
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	pool.Start(ctx)

	for i := 0; i < 5; i++ {
		pool.Submit(i)
	}

	pool.Stop()

	if processed.Load() != 5 {
		t.Errorf("expected 5 jobs processed, got %d", processed.Load())
	}
}

func TestPool_ConcurrentSubmit(t *testing.T) {
	var processed atomic.Int64
	pool := NewPool(4, 100, func(ctx context.Context, job int) {
		processed.Add(1)
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	pool.Start(ctx)

	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			pool.Submit(n)
		}(i)
	}
	wg.Wait()
	pool.Stop()

	if processed.Load() != 100 {
		t.Errorf("expected 100 jobs processed, got %d", processed.Load())
	}
}

func TestPool_ZeroWorkersStillRuns(t *testing.T) {
	var processed atomic.Int64
	Run(context.Background(), 0, []string{"a", "b"}, func(ctx context.Context, job string) {
		processed.Add(1)
	})

	if processed.Load() != 2 {
		t.Errorf("expected 2 jobs processed, got %d", processed.Load())
	}
}

func TestRun_EachJobWritesOwnSlot(t *testing.T) {
	results := make([]int, 20)
	jobs := make([]int, len(results))
	for i := range jobs {
		jobs[i] = i
	}

	Run(context.Background(), 4, jobs, func(ctx context.Context, i int) {
		results[i] = i * i
	})

	for i, got := range results {
		if got != i*i {
			t.Errorf("slot %d: expected %d, got %d", i, i*i, got)
		}
	}
}

func TestRun_ContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	done := make(chan struct{})
	go func() {
		Run(ctx, 2, []int{1, 2, 3, 4, 5}, func(ctx context.Context, job int) {
			time.Sleep(10 * time.Millisecond)
		})
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancellation")
	}
}
