// Package workerpool runs submitted tasks on a fixed number of goroutines and
// streams their results back on one channel.
package workerpool

import (
	"context"
	"sync"

	"golang.org/x/time/rate"
)

type Task[T any] func(ctx context.Context) T

type Pool[T any] struct {
	workers int
	tasks   chan Task[T]
	wg      sync.WaitGroup
	mu      sync.RWMutex
	limiter *rate.Limiter
}

func New[T any](workers, buffer int) *Pool[T] {
	if workers <= 0 {
		workers = 1
	}
	if buffer < 0 {
		buffer = 0
	}
	return &Pool[T]{
		workers: workers,
		tasks:   make(chan Task[T], buffer),
	}
}

// SetRateLimit spaces task starts across all workers to at most rps per
// second. Zero removes the limit.
func (p *Pool[T]) SetRateLimit(rps int) {
	if p == nil {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if rps <= 0 {
		p.limiter = nil
		return
	}
	p.limiter = rate.NewLimiter(rate.Limit(rps), 1)
}

func (p *Pool[T]) Workers() int {
	if p == nil {
		return 0
	}
	return p.workers
}

// Submit blocks while the task buffer is full.
func (p *Pool[T]) Submit(t Task[T]) {
	if p == nil || t == nil {
		return
	}
	p.tasks <- t
}

// Close stops accepting tasks. Workers drain what was already submitted,
// still honouring the rate limit.
func (p *Pool[T]) Close() {
	if p == nil {
		return
	}
	close(p.tasks)
}

// Run starts the workers. The returned channel is closed once every worker
// has exited, either because the pool was closed and drained or because ctx
// was cancelled; tasks still queued at cancellation produce no result.
func (p *Pool[T]) Run(ctx context.Context) <-chan T {
	if p == nil {
		out := make(chan T)
		close(out)
		return out
	}
	out := make(chan T, p.workers)

	p.wg.Add(p.workers)
	for i := 0; i < p.workers; i++ {
		go func() {
			defer p.wg.Done()
			for {
				select {
				case <-ctx.Done():
					return
				case t, ok := <-p.tasks:
					if !ok {
						return
					}
					if t == nil {
						continue
					}
					p.mu.RLock()
					limiter := p.limiter
					p.mu.RUnlock()
					if limiter != nil {
						if err := limiter.Wait(ctx); err != nil {
							return
						}
					}
					res := t(ctx)
					select {
					case <-ctx.Done():
						return
					case out <- res:
					}
				}
			}
		}()
	}

	go func() {
		p.wg.Wait()
		close(out)
	}()

	return out
}
