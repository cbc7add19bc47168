// Package workerpool runs background tasks on a fixed number of goroutines
// behind a bounded queue.
//
//	pool := workerpool.New(4, 256)
//	defer pool.Close()
//
//	if err := pool.Submit(func() { publish(order) }); err != nil {
//	    // queue full or pool closed: the task was not accepted
//	}
package workerpool

import (
	"errors"
	"sync"

	"github.com/shashiranjanraj/glamify/pkg/logger"
	"github.com/shashiranjanraj/glamify/pkg/metrics"
)

var (
	ErrFull   = errors.New("workerpool: queue is full")
	ErrClosed = errors.New("workerpool: pool is closed")
)

type Pool struct {
	tasks chan func()
	wg    sync.WaitGroup

	// mu orders Submit against Close so no send hits a closed channel.
	mu     sync.RWMutex
	closed bool
}

// New starts workers goroutines sharing a queue of queue pending tasks.
func New(workers, queue int) *Pool {
	if workers < 1 {
		workers = 1
	}
	if queue < 0 {
		queue = 0
	}

	p := &Pool{tasks: make(chan func(), queue)}
	p.wg.Add(workers)
	for i := 0; i < workers; i++ {
		go p.worker()
	}
	return p
}

// Submit queues task without blocking.
func (p *Pool) Submit(task func()) error {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.closed {
		metrics.BackgroundTasks.WithLabelValues("rejected").Inc()
		return ErrClosed
	}
	select {
	case p.tasks <- task:
		return nil
	default:
		metrics.BackgroundTasks.WithLabelValues("rejected").Inc()
		return ErrFull
	}
}

// Close stops accepting tasks and waits for the queued ones to finish. It is
// safe to call more than once.
func (p *Pool) Close() {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.closed = true
	close(p.tasks)
	p.mu.Unlock()

	p.wg.Wait()
}

func (p *Pool) worker() {
	defer p.wg.Done()
	for task := range p.tasks {
		run(task)
	}
}

func run(task func()) {
	defer func() {
		if rec := recover(); rec != nil {
			metrics.BackgroundTasks.WithLabelValues("panicked").Inc()
			logger.Error("workerpool: task panicked", "panic", rec)
		}
	}()
	task()
	metrics.BackgroundTasks.WithLabelValues("done").Inc()
}
