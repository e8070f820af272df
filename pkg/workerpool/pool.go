// Package workerpool runs background jobs on a fixed number of goroutines.
//
//	pool := workerpool.New("housekeeping", 2)
//	defer pool.Shutdown()
//
//	if err := pool.Submit(job); errors.Is(err, workerpool.ErrPoolFull) {
//	    // every worker busy and the queue is full; try again next tick
//	}
package workerpool

import (
	"errors"
	"sync"

	"github.com/kashvishop/storefront/pkg/logger"
)

var (
	// ErrPoolFull is returned by Submit when the queue is at capacity.
	ErrPoolFull = errors.New("workerpool: pool is full")

	// ErrPoolClosed is returned by Submit after Shutdown.
	ErrPoolClosed = errors.New("workerpool: pool is closed")
)

// Pool is a bounded goroutine pool. A job that panics is logged and the
// worker carries on.
type Pool struct {
	name    string
	tasks   chan func()
	wg      sync.WaitGroup
	mu      sync.RWMutex
	closed  bool
	closeMu sync.Once
}

// New starts size workers (at least one) with a queue of 2×size jobs.
func New(name string, size int) *Pool {
	if size <= 0 {
		size = 1
	}

	p := &Pool{
		name:  name,
		tasks: make(chan func(), size*2),
	}

	p.wg.Add(size)
	for i := 0; i < size; i++ {
		go p.worker()
	}

	return p
}

// Submit queues job without blocking.
func (p *Pool) Submit(job func()) error {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.closed {
		return ErrPoolClosed
	}

	select {
	case p.tasks <- job:
		return nil
	default:
		return ErrPoolFull
	}
}

// Shutdown stops accepting jobs and waits for queued ones to finish. Safe to
// call more than once.
func (p *Pool) Shutdown() {
	p.closeMu.Do(func() {
		p.mu.Lock()
		p.closed = true
		close(p.tasks)
		p.mu.Unlock()

		p.wg.Wait()
	})
}

func (p *Pool) worker() {
	defer p.wg.Done()
	for job := range p.tasks {
		p.run(job)
	}
}

func (p *Pool) run(job func()) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("workerpool: job panicked", "pool", p.name, "panic", r)
		}
	}()
	job()
}
