package workerpool

import (
	"context"
	"sync/atomic"
	"testing"
	"time"
)

func TestPool_RunsEveryTask(t *testing.T) {
	p := New[int](4, 100)
	out := p.Run(context.Background())

	for i := 0; i < 100; i++ {
		i := i
		p.Submit(func(context.Context) int { return i })
	}
	p.Close()

	seen := make(map[int]bool)
	for v := range out {
		seen[v] = true
	}
	if len(seen) != 100 {
		t.Fatalf("expected 100 results, got %d", len(seen))
	}
}

func TestPool_BoundsConcurrency(t *testing.T) {
	const workers = 3
	p := New[struct{}](workers, 20)
	out := p.Run(context.Background())

	var running, peak atomic.Int32
	for i := 0; i < 20; i++ {
		p.Submit(func(context.Context) struct{} {
			n := running.Add(1)
			for {
				old := peak.Load()
				if n <= old || peak.CompareAndSwap(old, n) {
					break
				}
			}
			time.Sleep(2 * time.Millisecond)
			running.Add(-1)
			return struct{}{}
		})
	}
	p.Close()
	for range out {
	}

	if peak.Load() > workers {
		t.Fatalf("expected at most %d concurrent tasks, saw %d", workers, peak.Load())
	}
}

func TestPool_CancelClosesOutput(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	p := New[int](1, 10)
	out := p.Run(ctx)

	block := make(chan struct{})
	p.Submit(func(ctx context.Context) int {
		<-ctx.Done()
		close(block)
		return 1
	})
	for i := 0; i < 5; i++ {
		p.Submit(func(context.Context) int { return 2 })
	}
	cancel()
	<-block

	done := make(chan struct{})
	go func() {
		for range out {
		}
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("output channel not closed after cancel")
	}
}

func TestPool_NilWorkersDefaultsToOne(t *testing.T) {
	if got := New[int](0, 0).Workers(); got != 1 {
		t.Fatalf("expected 1 worker, got %d", got)
	}
}

func TestPool_RateLimitSpacesStarts(t *testing.T) {
	p := New[int](2, 4)
	p.SetRateLimit(10)
	out := p.Run(context.Background())

	start := time.Now()
	for i := 0; i < 4; i++ {
		p.Submit(func(context.Context) int { return 1 })
	}
	p.Close()

	n := 0
	for range out {
		n++
	}
	if n != 4 {
		t.Fatalf("expected 4 results, got %d", n)
	}
	// The first start is immediate, the other three wait 100ms each.
	if took := time.Since(start); took < 250*time.Millisecond {
		t.Fatalf("4 tasks at 10/s finished in %v", took)
	}
}

func TestPool_CloseUnderRateLimitDrains(t *testing.T) {
	p := New[int](1, 3)
	p.SetRateLimit(20)
	out := p.Run(context.Background())

	for i := 0; i < 3; i++ {
		p.Submit(func(context.Context) int { return 1 })
	}
	time.Sleep(60 * time.Millisecond)
	p.Close()

	done := make(chan int)
	go func() {
		n := 0
		for range out {
			n++
		}
		done <- n
	}()
	select {
	case n := <-done:
		if n != 3 {
			t.Fatalf("expected 3 results, got %d", n)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("pool did not drain after Close")
	}
}

func TestPool_RateLimitHonoursCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	p := New[int](1, 5)
	p.SetRateLimit(1)
	out := p.Run(ctx)

	for i := 0; i < 5; i++ {
		p.Submit(func(context.Context) int { return 1 })
	}
	p.Close()
	time.Sleep(20 * time.Millisecond)
	cancel()

	done := make(chan struct{})
	go func() {
		for range out {
		}
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("output channel not closed after cancel while rate limited")
	}
}
