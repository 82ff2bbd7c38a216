package workerpool_test

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"notice/internal/pkg/workerpool"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newPool(t *testing.T, size int) *workerpool.Pool {
	t.Helper()

	pool, err := workerpool.New(size, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)
	t.Cleanup(func() { _ = pool.Shutdown(context.Background()) })
	return pool
}

func TestNew_RejectsNonPositiveSize(t *testing.T) {
	for _, size := range []int{0, -1} {
		_, err := workerpool.New(size, slog.Default())
		require.Error(t, err)
	}
}

func TestPool_RunsSubmittedTasks(t *testing.T) {
	pool := newPool(t, 4)

	var (
		ran atomic.Int32
		wg  sync.WaitGroup
	)
	for range 4 {
		wg.Add(1)
		require.NoError(t, pool.Submit(func(context.Context) {
			defer wg.Done()
			ran.Add(1)
		}))
	}
	wg.Wait()

	assert.Equal(t, int32(4), ran.Load())
	assert.Equal(t, 4, pool.Size())
}

func TestPool_RejectsWhenSaturated(t *testing.T) {
	pool := newPool(t, 1)
	release := make(chan struct{})
	started := make(chan struct{})

	require.NoError(t, pool.Submit(func(context.Context) {
		close(started)
		<-release
	}))
	<-started

	err := pool.Submit(func(context.Context) {})
	require.ErrorIs(t, err, workerpool.ErrPoolSaturated)

	close(release)
	assert.Eventually(t, func() bool {
		return pool.Submit(func(context.Context) {}) == nil
	}, time.Second, 5*time.Millisecond)
}

func TestPool_RecoversPanics(t *testing.T) {
	pool := newPool(t, 1)
	done := make(chan struct{})

	require.NoError(t, pool.Submit(func(context.Context) { panic("boom") }))

	assert.Eventually(t, func() bool {
		return pool.Submit(func(context.Context) { close(done) }) == nil
	}, time.Second, 5*time.Millisecond, "slot must be freed after a panic")
	<-done
}

func TestPool_ShutdownWaitsForRunningTasks(t *testing.T) {
	pool, err := workerpool.New(2, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)

	var finished atomic.Bool
	require.NoError(t, pool.Submit(func(context.Context) {
		time.Sleep(20 * time.Millisecond)
		finished.Store(true)
	}))

	require.NoError(t, pool.Shutdown(context.Background()))
	assert.True(t, finished.Load())
	require.ErrorIs(t, pool.Submit(func(context.Context) {}), workerpool.ErrPoolClosed)
}

func TestPool_ShutdownDeadlineCancelsTasks(t *testing.T) {
	pool, err := workerpool.New(1, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)

	cancelled := make(chan struct{})
	require.NoError(t, pool.Submit(func(ctx context.Context) {
		<-ctx.Done()
		close(cancelled)
	}))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	require.ErrorIs(t, pool.Shutdown(ctx), context.DeadlineExceeded)
	<-cancelled
}
