package workerpool

import (
	"sync/atomic"
)

type worker struct {
	id    int
	queue <-chan Job
	quit  <-chan struct{}
	pool  *Pool
}

// start takes one job at a time off the queue until the pool stops.
func (w *worker) start(started func()) {

	defer w.pool.wg.Done()
	started()

	for {
		// stop wins over a ready job
		select {
		case <-w.quit:
			return
		default:
		}

		select {
		case <-w.quit:
			return
		case job := <-w.queue:
			w.run(job)
		}
	}
}

// run executes job and survives a panic inside it.
func (w *worker) run(job Job) {

	atomic.AddInt32(&w.pool.busy, 1)
	defer atomic.AddInt32(&w.pool.busy, -1)

	defer func() {
		if r := recover(); r != nil {
			if w.pool.onPanic != nil {
				w.pool.onPanic(w.id, job, r)
			}
			job.Discard()
		}
	}()

	job.Execute()
}
