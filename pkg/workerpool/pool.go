// Package workerpool runs non-critical side effects off the request path on
// a bounded set of goroutines. Submit never blocks: when the queue is full
// the caller gets ErrPoolFull and decides what to drop.
//
//	pool := workerpool.New("media-purge", 4)
//	defer pool.Shutdown(context.Background())
//
//	err := pool.Submit(func(ctx context.Context) { purge(ctx, urls) })
package workerpool

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"
	"sync"

	"github.com/shashiranjanraj/storehub/pkg/logger"
)

var (
	// ErrPoolFull means every worker is busy and the queue is at capacity.
	ErrPoolFull = errors.New("workerpool: pool is full")
	// ErrPoolClosed means Shutdown has started.
	ErrPoolClosed = errors.New("workerpool: pool is closed")
)

// Task is one unit of work. ctx is cancelled when Shutdown gives up waiting.
type Task func(ctx context.Context)

// Pool is a bounded goroutine pool.
type Pool struct {
	name   string
	tasks  chan Task
	wg     sync.WaitGroup
	mu     sync.RWMutex
	closed bool
	ctx    context.Context
	cancel context.CancelFunc
}

// New starts size workers with a queue of 2×size.
func New(name string, size int) *Pool {
	if size <= 0 {
		size = 1
	}
	ctx, cancel := context.WithCancel(context.Background())
	p := &Pool{
		name:   name,
		tasks:  make(chan Task, size*2),
		ctx:    ctx,
		cancel: cancel,
	}
	for i := 0; i < size; i++ {
		p.wg.Add(1)
		go p.worker()
	}
	return p
}

// Submit enqueues task without blocking.
func (p *Pool) Submit(task Task) error {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return ErrPoolClosed
	}
	select {
	case p.tasks <- task:
		return nil
	default:
		return ErrPoolFull
	}
}

// Shutdown stops intake and waits for queued tasks. If ctx ends first the
// running tasks see their context cancelled and Shutdown returns ctx.Err().
func (p *Pool) Shutdown(ctx context.Context) error {
	p.mu.Lock()
	if !p.closed {
		p.closed = true
		close(p.tasks)
	}
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

func (p *Pool) worker() {
	defer p.wg.Done()
	for task := range p.tasks {
		p.run(task)
	}
}

func (p *Pool) run(task Task) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("workerpool: task panicked",
				"pool", p.name,
				"error", fmt.Sprintf("%v", r),
				"stack", string(debug.Stack()),
			)
		}
	}()
	task(p.ctx)
}
