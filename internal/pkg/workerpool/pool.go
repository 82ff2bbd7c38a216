// Package workerpool runs submitted units of work on a bounded number of
// goroutines. Submit never blocks: when every slot is busy it rejects the unit
// with ErrPoolSaturated so the caller can retry on a later tick.
package workerpool

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime/debug"
	"sync"

	"golang.org/x/sync/semaphore"
)

var (
	ErrPoolSaturated = errors.New("worker pool is saturated")
	ErrPoolClosed    = errors.New("worker pool is closed")
)

// Task is a unit of work. ctx is the pool's lifecycle context, cancelled by
// Shutdown once its deadline passes.
type Task func(ctx context.Context)

// Pool is a fixed-capacity executor.
//
//	pool := workerpool.New(10, logger)
//	if err := pool.Submit(func(ctx context.Context) { ... }); errors.Is(err, workerpool.ErrPoolSaturated) {
//	    // try again next tick
//	}
//	defer pool.Shutdown(ctx)
type Pool struct {
	size   int64
	sem    *semaphore.Weighted
	ctx    context.Context
	cancel context.CancelFunc
	logger *slog.Logger

	mu     sync.Mutex
	closed bool
	wg     sync.WaitGroup
}

// New creates a pool with size slots. size must be positive.
func New(size int, logger *slog.Logger) (*Pool, error) {
	if size <= 0 {
		return nil, fmt.Errorf("worker pool size must be positive, got %d", size)
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &Pool{
		size:   int64(size),
		sem:    semaphore.NewWeighted(int64(size)),
		ctx:    ctx,
		cancel: cancel,
		logger: logger.With("component", "worker_pool"),
	}, nil
}

// Submit starts task on a free slot. It returns ErrPoolSaturated when all slots
// are busy and ErrPoolClosed after Shutdown. A panicking task is recovered and
// logged; it frees its slot like any other task.
func (p *Pool) Submit(task Task) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return ErrPoolClosed
	}
	if !p.sem.TryAcquire(1) {
		return ErrPoolSaturated
	}

	p.wg.Add(1)
	go p.run(task)
	return nil
}

func (p *Pool) run(task Task) {
	defer p.wg.Done()
	defer p.sem.Release(1)
	defer func() {
		if r := recover(); r != nil {
			p.logger.ErrorContext(p.ctx, "Worker task panicked",
				"panic", r,
				"stack", string(debug.Stack()),
			)
		}
	}()

	task(p.ctx)
}

// Size is the number of slots.
func (p *Pool) Size() int {
	return int(p.size)
}

// Shutdown stops accepting work and waits for running tasks. If ctx expires
// first, the tasks' context is cancelled and ctx.Err() is returned.
func (p *Pool) Shutdown(ctx context.Context) error {
	p.mu.Lock()
	p.closed = true
	p.mu.Unlock()

	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		p.cancel()
		return nil
	case <-ctx.Done():
		p.cancel()
		return ctx.Err()
	}
}
