package worker

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github-profile-analyzer/internal/queue"
)

const defaultWorkers = 2

// Pool runs several job workers against one queue
type Pool struct {
	workers []*JobWorker
	log     zerolog.Logger
	wg      sync.WaitGroup
	once    sync.Once
}

// NewPool creates a new worker pool
func NewPool(q queue.Queue, analyzer Analyzer, workers int, pollInterval time.Duration, log zerolog.Logger) *Pool {
	if workers <= 0 {
		workers = defaultWorkers
	}

	p := &Pool{log: log}
	for i := 0; i < workers; i++ {
		p.workers = append(p.workers, NewJobWorker(q, analyzer, pollInterval, log.With().Int("worker_id", i).Logger()))
	}
	return p
}

// Size returns the number of workers
func (p *Pool) Size() int {
	return len(p.workers)
}

// Start starts the worker pool
func (p *Pool) Start(ctx context.Context) {
	p.log.Info().Int("workers", len(p.workers)).Msg("Starting worker pool")
	for _, w := range p.workers {
		p.wg.Add(1)
		go func(w *JobWorker) {
			defer p.wg.Done()
			if err := w.Start(ctx); err != nil {
				p.log.Error().Err(err).Msg("Job worker exited")
			}
		}(w)
	}
}

// Stop stops every worker and waits for in-flight jobs to finish
func (p *Pool) Stop() {
	p.once.Do(func() {
		for _, w := range p.workers {
			w.Stop()
		}
	})
	p.Wait()
}

// Wait blocks until every worker has returned
func (p *Pool) Wait() {
	p.wg.Wait()
}
