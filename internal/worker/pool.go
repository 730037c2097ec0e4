package worker

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

var (
	ErrStopped   = errors.New("worker: dispatcher detenido")
	ErrQueueFull = errors.New("worker: cola llena")
)

// Job is one unit of asynchronous work. Done, when set, receives the result
// of Run (or the reason it never ran).
type Job struct {
	Name string
	Run  func(ctx context.Context) error
	Done func(err error)
}

// Dispatcher queues jobs in memory and runs them on a fixed pool of
// goroutines. Each job gets its own deadline; nothing is retried.
type Dispatcher struct {
	jobs    chan Job
	timeout time.Duration

	mu        sync.RWMutex
	stopped   bool
	cancelled bool

	workers sync.WaitGroup
	pending sync.WaitGroup
}

func NewDispatcher(queueSize int, timeout time.Duration) *Dispatcher {
	if queueSize < 1 {
		queueSize = 1
	}
	return &Dispatcher{jobs: make(chan Job, queueSize), timeout: timeout}
}

// Start launches numWorkers goroutines draining the queue until ctx is
// cancelled or Stop is called.
func (d *Dispatcher) Start(ctx context.Context, numWorkers int) {
	if numWorkers < 1 {
		numWorkers = 1
	}
	for i := 0; i < numWorkers; i++ {
		d.workers.Add(1)
		go d.runWorker(ctx, i)
	}
	log.Debug().Msgf("worker pool started with %d workers", numWorkers)
}

// Submit enqueues job without blocking.
func (d *Dispatcher) Submit(job Job) error {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.stopped || d.cancelled {
		return ErrStopped
	}
	d.pending.Add(1)
	select {
	case d.jobs <- job:
		return nil
	default:
		d.pending.Done()
		return ErrQueueFull
	}
}

// Wait blocks until every submitted job has finished.
func (d *Dispatcher) Wait() {
	d.pending.Wait()
}

// Stop refuses new jobs, lets the workers finish the queue and returns when
// they are gone.
func (d *Dispatcher) Stop() {
	d.mu.Lock()
	if d.stopped {
		d.mu.Unlock()
		return
	}
	d.stopped = true
	close(d.jobs)
	d.mu.Unlock()

	d.workers.Wait()
	for job := range d.jobs {
		finish(job, ErrStopped)
		d.pending.Done()
	}
}

func (d *Dispatcher) runWorker(ctx context.Context, id int) {
	defer d.workers.Done()
	for {
		select {
		case <-ctx.Done():
			d.abandon(ctx.Err())
			log.Debug().Msgf("worker %d shutting down", id)
			return
		case job, ok := <-d.jobs:
			if !ok {
				return
			}
			d.process(ctx, job)
		}
	}
}

// abandon refuses new jobs and reports every queued one to its Done
// callback with err, so Wait does not outlive a cancelled context.
func (d *Dispatcher) abandon(err error) {
	d.mu.Lock()
	d.cancelled = true
	d.mu.Unlock()
	for {
		select {
		case job, ok := <-d.jobs:
			if !ok {
				return
			}
			finish(job, err)
			d.pending.Done()
		default:
			return
		}
	}
}

func (d *Dispatcher) process(ctx context.Context, job Job) {
	defer d.pending.Done()

	jobCtx := ctx
	if d.timeout > 0 {
		var cancel context.CancelFunc
		jobCtx, cancel = context.WithTimeout(ctx, d.timeout)
		defer cancel()
	}

	err := safeRun(jobCtx, job)
	if err != nil {
		log.Warn().Str("job", job.Name).Err(err).Msg("job failed")
	}
	finish(job, err)
}

func safeRun(ctx context.Context, job Job) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("worker: panic in %s: %v", job.Name, r)
		}
	}()
	return job.Run(ctx)
}

func finish(job Job, err error) {
	if job.Done != nil {
		job.Done(err)
	}
}
