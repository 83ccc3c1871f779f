package scanner

import (
	"context"
	"sync"
)

// ScanJob represents one file for the worker pool, with the channel that
// receives its result.
type ScanJob struct {
	ctx      context.Context
	index    int
	filePath string
	result   chan<- indexedResult
}

type indexedResult struct {
	index  int
	result FileResult
}

// WorkerPool manages persistent workers that expand files from a shared
// job queue.
type WorkerPool struct {
	// jobQueue buffers jobs for worker distribution
	jobQueue chan ScanJob
	// workers holds references to all active worker goroutines
	workers []*ScanWorker
	// workerCount defines the number of concurrent workers
	workerCount int
	// stop signals all workers to terminate gracefully
	stop chan struct{}
	// stopped tracks pool shutdown state
	stopped bool
	// mu protects concurrent access to pool state
	mu sync.RWMutex
	wg sync.WaitGroup
}

// ScanWorker is a persistent worker goroutine.
type ScanWorker struct {
	// id uniquely identifies this worker for debugging
	id       int
	jobQueue <-chan ScanJob
	scanner  *FileScanner
	stop     <-chan struct{}
}

// NewWorkerPool creates a new worker pool and starts its workers.
func NewWorkerPool(workerCount int, scanner *FileScanner) *WorkerPool {
	if workerCount < 1 {
		workerCount = 1
	}

	pool := &WorkerPool{
		jobQueue:    make(chan ScanJob, workerCount*2), // Buffer for work-stealing efficiency
		workerCount: workerCount,
		stop:        make(chan struct{}),
	}

	pool.workers = make([]*ScanWorker, workerCount)
	for i := 0; i < workerCount; i++ {
		worker := &ScanWorker{
			id:       i,
			jobQueue: pool.jobQueue,
			scanner:  scanner,
			stop:     pool.stop,
		}
		pool.workers[i] = worker
		pool.wg.Add(1)
		go func() {
			defer pool.wg.Done()
			worker.start()
		}()
	}

	return pool
}

// start begins the worker's processing loop
func (w *ScanWorker) start() {
	for {
		select {
		case job := <-w.jobQueue:
			r, _ := w.scanner.ProcessFile(job.ctx, job.filePath, "")
			job.result <- indexedResult{index: job.index, result: r}
		case <-w.stop:
			return
		}
	}
}

// Submit queues job without blocking. It reports false when the queue is
// full or the pool has stopped; the caller then runs the job itself.
func (p *WorkerPool) Submit(job ScanJob) bool {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.stopped {
		return false
	}
	select {
	case p.jobQueue <- job:
		return true
	default:
		return false
	}
}

// Size returns the number of workers.
func (p *WorkerPool) Size() int {
	return p.workerCount
}

// Stop gracefully shuts down the worker pool and waits for running jobs.
func (p *WorkerPool) Stop() {
	p.mu.Lock()
	if p.stopped {
		p.mu.Unlock()
		return
	}
	p.stopped = true
	close(p.stop)
	p.mu.Unlock()

	p.wg.Wait()
}
