// Package pool provides a reusable worker pool for bounded-concurrency
// fan-out, used to fetch multi-page search results without overwhelming
// the upstream provider.
package pool

import "sync"

// defaultWorkers bounds concurrency when the caller does not care.
const defaultWorkers = 10

// WorkerPool manages job distribution across a fixed number of workers
// and collects results.
type WorkerPool[Job any, Result any] struct {
	numWorkers int
	jobs       chan Job
	results    chan Result
	wg         sync.WaitGroup
}

// New creates a worker pool with the specified number of workers.
// If numWorkers is 0 or negative, it defaults to defaultWorkers.
// If numJobs is less than numWorkers, the pool is sized to match numJobs.
func New[Job any, Result any](numWorkers, numJobs int) *WorkerPool[Job, Result] {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	if numJobs > 0 {
		numWorkers = min(numWorkers, numJobs)
	}

	return &WorkerPool[Job, Result]{
		numWorkers: numWorkers,
		jobs:       make(chan Job, numJobs),
		results:    make(chan Result, numJobs),
	}
}

// Start begins the worker pool with the provided worker function.
// The workerFn is called for each job and should return a result.
func (p *WorkerPool[Job, Result]) Start(workerFn func(Job) Result) {
	for i := 0; i < p.numWorkers; i++ {
		p.wg.Add(1)
		go func() {
			defer p.wg.Done()
			for job := range p.jobs {
				p.results <- workerFn(job)
			}
		}()
	}
}

// Submit adds a job to the worker pool's job queue.
func (p *WorkerPool[Job, Result]) Submit(job Job) {
	p.jobs <- job
}

// Close closes the job channel and waits for all workers to complete.
// After calling Close, the results channel will be closed automatically.
func (p *WorkerPool[Job, Result]) Close() {
	close(p.jobs)
	go func() {
		p.wg.Wait()
		close(p.results)
	}()
}

// Results returns the results channel for collecting worker outputs.
func (p *WorkerPool[Job, Result]) Results() <-chan Result {
	return p.results
}

// Map runs workerFn over all jobs with at most workers goroutines and
// returns the results in completion order.
func Map[Job any, Result any](workers int, jobs []Job, workerFn func(Job) Result) []Result {
	if len(jobs) == 0 {
		return nil
	}
	p := New[Job, Result](workers, len(jobs))
	p.Start(workerFn)
	for _, j := range jobs {
		p.Submit(j)
	}
	p.Close()

	out := make([]Result, 0, len(jobs))
	for r := range p.Results() {
		out = append(out, r)
	}
	return out
}
