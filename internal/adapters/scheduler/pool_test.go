package scheduler_test

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/Amund211/intralinks/internal/adapters/scheduler"
	"github.com/stretchr/testify/require"
)

// refusingLimiter never lets a job through the limiter path.
type refusingLimiter struct{}

func (refusingLimiter) Limit(ctx context.Context, maxOperationTime time.Duration, operation func()) bool {
	return false
}

func TestPool(t *testing.T) {
	t.Parallel()

	t.Run("runs enqueued jobs", func(t *testing.T) {
		t.Parallel()

		pool := scheduler.NewPool(t.Context(), scheduler.PoolOptions{Workers: 2})
		defer pool.Close()

		var ran atomic.Int64
		handles := make([]scheduler.JobHandle, 0, 10)
		for range 10 {
			handles = append(handles, pool.Enqueue(func(ctx context.Context) {
				ran.Add(1)
			}))
		}

		for _, handle := range handles {
			<-handle.Done()
		}
		require.Equal(t, int64(10), ran.Load())
	})

	t.Run("job does not run on the calling goroutine", func(t *testing.T) {
		t.Parallel()

		pool := scheduler.NewPool(t.Context(), scheduler.PoolOptions{Workers: 1})
		defer pool.Close()

		var mu sync.Mutex
		mu.Lock()
		handle := pool.Enqueue(func(ctx context.Context) {
			// Would deadlock if run inline
			mu.Lock()
			defer mu.Unlock()
		})
		mu.Unlock()
		<-handle.Done()
	})

	t.Run("full queue falls back to a goroutine instead of dropping", func(t *testing.T) {
		t.Parallel()

		pool := scheduler.NewPool(t.Context(), scheduler.PoolOptions{Workers: 1, QueueSize: 1})
		defer pool.Close()

		release := make(chan struct{})
		blocker := pool.Enqueue(func(ctx context.Context) {
			<-release
		})

		var ran atomic.Int64
		handles := make([]scheduler.JobHandle, 0, 20)
		for range 20 {
			handles = append(handles, pool.Enqueue(func(ctx context.Context) {
				ran.Add(1)
			}))
		}

		close(release)
		<-blocker.Done()
		for _, handle := range handles {
			<-handle.Done()
		}
		require.Equal(t, int64(20), ran.Load())
	})

	t.Run("panicking job does not kill the worker", func(t *testing.T) {
		t.Parallel()

		pool := scheduler.NewPool(t.Context(), scheduler.PoolOptions{Workers: 1})
		defer pool.Close()

		panicking := pool.Enqueue(func(ctx context.Context) {
			panic("boom")
		})
		<-panicking.Done()

		var ran atomic.Bool
		next := pool.Enqueue(func(ctx context.Context) {
			ran.Store(true)
		})
		<-next.Done()
		require.True(t, ran.Load())
	})

	t.Run("job refused by the limiter still runs", func(t *testing.T) {
		t.Parallel()

		pool := scheduler.NewPool(t.Context(), scheduler.PoolOptions{
			Workers:    1,
			Limiter:    refusingLimiter{},
			MaxJobTime: time.Second,
		})
		defer pool.Close()

		// A dropped job would leave its cache key claimed forever
		var ran atomic.Int64
		handles := make([]scheduler.JobHandle, 0, 5)
		for range 5 {
			handles = append(handles, pool.Enqueue(func(ctx context.Context) {
				ran.Add(1)
			}))
		}

		for _, handle := range handles {
			<-handle.Done()
		}
		require.Equal(t, int64(5), ran.Load())
	})

	t.Run("job context gets the configured deadline", func(t *testing.T) {
		t.Parallel()

		pool := scheduler.NewPool(t.Context(), scheduler.PoolOptions{Workers: 1, MaxJobTime: time.Minute})
		defer pool.Close()

		handle := pool.Enqueue(func(ctx context.Context) {
			deadline, ok := ctx.Deadline()
			require.True(t, ok)
			require.WithinDuration(t, time.Now().Add(time.Minute), deadline, 10*time.Second)
		})
		<-handle.Done()
	})
}

func TestSynchronous(t *testing.T) {
	t.Parallel()

	sched := scheduler.NewSynchronous(t.Context())

	ran := false
	handle := sched.Enqueue(func(ctx context.Context) {
		ran = true
	})

	require.True(t, ran)
	select {
	case <-handle.Done():
	default:
		t.Fatal("handle should be done after Enqueue returns")
	}
}
