// Package workerpool runs jobs on a fixed set of long-lived workers fed by
// one shared queue.
package workerpool

import (
	"sync"
	"sync/atomic"
)

// Job is one deferred unit of work. Execute runs it to completion on a
// worker; Discard releases it when it will never be executed.
type Job interface {
	Execute()
	Discard()
}

// PanicHandler receives whatever a job panicked with.
type PanicHandler func(workerID int, job Job, recovered interface{})

// Pool owns the job queue and its workers. The number of workers is fixed
// at construction.
type Pool struct {
	size    int
	queue   chan Job
	quit    chan struct{}
	wg      sync.WaitGroup
	mu      sync.RWMutex
	closed  bool
	once    sync.Once
	busy    int32
	onPanic PanicHandler
}

// Option customizes a Pool before its workers start.
type Option func(*Pool)

// WithPanicHandler sets the callback invoked when a job panics.
func WithPanicHandler(handler PanicHandler) Option {

	return func(p *Pool) {
		p.onPanic = handler
	}
}

// New starts size workers sharing a queue that buffers up to queueCap jobs,
// and returns once every worker goroutine is running.
//
// With queueCap 0 a job is only accepted while a worker is blocked waiting
// for one. A Submit that lands between a worker finishing a job (or
// starting up) and reaching its receive gets ErrPoolFlooded even though the
// pool is idle, so queueCap 0 rejects more than the pool size suggests.
func New(size int, queueCap int, options ...Option) (*Pool, error) {

	if size <= 0 {
		return nil, ErrInvalidPoolSize
	}
	if queueCap < 0 {
		return nil, ErrInvalidQueueCap
	}

	p := &Pool{
		size:  size,
		queue: make(chan Job, queueCap),
		quit:  make(chan struct{}),
	}
	for _, option := range options {
		option(p)
	}

	var ready sync.WaitGroup
	ready.Add(size)
	for i := 0; i < size; i++ {
		w := &worker{id: i, queue: p.queue, quit: p.quit, pool: p}
		p.wg.Add(1)
		go w.start(ready.Done)
	}
	ready.Wait()

	return p, nil
}

// Submit hands job to the shared queue. It never waits for a worker: a full
// queue yields ErrPoolFlooded and a stopped pool ErrPoolClosed, and in both
// cases the job stays with the caller.
func (p *Pool) Submit(job Job) error {

	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.closed {
		return ErrPoolClosed
	}

	select {
	case p.queue <- job:
		return nil
	default:
		return ErrPoolFlooded
	}
}

// Stop signals every worker to exit, waits for running jobs to finish and
// discards the jobs still queued. Jobs are not interrupted, so Stop can
// only be as quick as the slowest running job. It is safe to call more
// than once.
func (p *Pool) Stop() {

	p.once.Do(func() {
		p.mu.Lock()
		p.closed = true
		p.mu.Unlock()

		close(p.quit)
		p.wg.Wait()

		for {
			select {
			case job := <-p.queue:
				job.Discard()
			default:
				return
			}
		}
	})
}

// Size returns the number of workers.
func (p *Pool) Size() int {

	return p.size
}

// Busy returns the number of workers currently executing a job.
func (p *Pool) Busy() int {

	return int(atomic.LoadInt32(&p.busy))
}

// Pending returns the number of queued jobs not yet picked up.
func (p *Pool) Pending() int {

	return len(p.queue)
}
