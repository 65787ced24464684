// Package worker provides a bounded worker pool used for background jobs
// that must not sit on the request path, such as cache invalidation after a
// balance commit.
package worker

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"account-ledger/internal/utils"
)

var (
	ErrQueueFull       = errors.New("worker queue full")
	ErrPoolClosed      = errors.New("worker pool shut down")
	ErrShutdownTimeout = errors.New("worker pool shutdown timed out")
)

type Job struct {
	ID     string
	Task   func() error
	OnDone func(error)
}

type Pool struct {
	workers    int
	maxRetries int
	jobs       chan Job
	ctx        context.Context
	cancel     context.CancelFunc
	wg         sync.WaitGroup

	mu        sync.Mutex
	draining  bool
	completed int64
	failed    int64
}

type Stats struct {
	Completed int64
	Failed    int64
	Queued    int
}

func NewPool(workers, queueSize, maxRetries int) *Pool {
	ctx, cancel := context.WithCancel(context.Background())
	return &Pool{
		workers:    workers,
		maxRetries: maxRetries,
		jobs:       make(chan Job, queueSize),
		ctx:        ctx,
		cancel:     cancel,
	}
}

func (p *Pool) Start() {
	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go p.worker(i)
	}
	utils.LogInfo("WorkerPool", "Started %d workers (queue %d, retries %d)",
		p.workers, cap(p.jobs), p.maxRetries)
}

func (p *Pool) worker(id int) {
	defer p.wg.Done()
	for {
		select {
		case <-p.ctx.Done():
			return
		case job, ok := <-p.jobs:
			if !ok {
				return
			}
			p.run(id, job)
		}
	}
}

func (p *Pool) run(workerID int, job Job) {
	var err error
	for attempt := 0; attempt <= p.maxRetries; attempt++ {
		if attempt > 0 {
			time.Sleep(time.Duration(100*attempt) * time.Millisecond)
			utils.LogWarning("WorkerPool", "Worker #%d: retry %d for job %s", workerID, attempt, job.ID)
		}
		if err = job.Task(); err == nil {
			break
		}
	}

	p.mu.Lock()
	if err == nil {
		p.completed++
	} else {
		p.failed++
	}
	p.mu.Unlock()

	if err != nil {
		utils.LogError("WorkerPool", fmt.Sprintf("Worker #%d: job %s failed", workerID, job.ID), err)
	}
	if job.OnDone != nil {
		job.OnDone(err)
	}
}

// Submit enqueues a job without blocking; a full queue returns ErrQueueFull
// and the caller decides whether to run the task inline. The send happens
// under the same lock Shutdown closes the channel under, so a Submit racing
// a Shutdown gets ErrPoolClosed instead of a panic.
func (p *Pool) Submit(job Job) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.draining {
		return ErrPoolClosed
	}
	select {
	case p.jobs <- job:
		return nil
	default:
		return ErrQueueFull
	}
}

func (p *Pool) Shutdown(timeout time.Duration) error {
	p.mu.Lock()
	if !p.draining {
		p.draining = true
		close(p.jobs)
	}
	p.mu.Unlock()

	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-time.After(timeout):
		p.cancel()
		return ErrShutdownTimeout
	}
}

func (p *Pool) GetStats() Stats {
	p.mu.Lock()
	defer p.mu.Unlock()
	return Stats{Completed: p.completed, Failed: p.failed, Queued: len(p.jobs)}
}
