// Package pool runs jobs on a fixed set of workers sharing one FIFO queue.
package pool

import (
	"context"
	"errors"
	"log/slog"
	"sync"
)

// ErrPoolClosed is returned by Execute after Shutdown has been called.
var ErrPoolClosed = errors.New("pool: closed")

// Job is a one-shot unit of work. It is run exactly once by exactly one worker.
type Job func()

// Pool owns n workers and an unbounded FIFO job queue. Enqueue never blocks;
// there is no admission control.
type Pool struct {
	mu     sync.Mutex
	cond   *sync.Cond
	queue  []Job
	closed bool

	wg     sync.WaitGroup
	size   int
	logger *slog.Logger
}

// New starts n workers. n must be positive.
func New(n int, logger *slog.Logger) *Pool {
	if n <= 0 {
		panic("pool: worker count must be positive")
	}
	p := &Pool{size: n, logger: logger}
	p.cond = sync.NewCond(&p.mu)

	p.wg.Add(n)
	for i := range n {
		go p.worker(i)
	}
	return p
}

// Size returns the number of workers.
func (p *Pool) Size() int {
	return p.size
}

// Execute enqueues job for the first free worker.
func (p *Pool) Execute(job Job) error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return ErrPoolClosed
	}
	p.queue = append(p.queue, job)
	p.mu.Unlock()

	p.cond.Signal()
	return nil
}

// Pending returns the number of queued jobs not yet claimed by a worker.
func (p *Pool) Pending() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.queue)
}

// Shutdown stops accepting jobs, lets workers finish everything already queued,
// and waits for them to exit or for ctx to be done. When ctx expires first,
// Shutdown returns ctx.Err() but the goroutine blocked in p.wg.Wait() keeps
// running until every worker finishes its current and queued jobs.
func (p *Pool) Shutdown(ctx context.Context) error {
	p.mu.Lock()
	p.closed = true
	p.mu.Unlock()
	p.cond.Broadcast()

	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// next blocks until a job is available. It returns false once the pool is
// closed and the queue is empty.
func (p *Pool) next() (Job, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	for len(p.queue) == 0 {
		if p.closed {
			return nil, false
		}
		p.cond.Wait()
	}

	job := p.queue[0]
	p.queue[0] = nil
	p.queue = p.queue[1:]
	return job, true
}

func (p *Pool) worker(id int) {
	defer p.wg.Done()

	for {
		job, ok := p.next()
		if !ok {
			p.logger.Debug("worker exiting", "worker", id)
			return
		}
		p.run(id, job)
	}
}

// run executes one job; a panic is logged and the worker moves on
func (p *Pool) run(id int, job Job) {
	defer func() {
		if r := recover(); r != nil {
			p.logger.Error("job panicked", "worker", id, "panic", r)
		}
	}()
	job()
}
