package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"math/rand"
	"time"

	"github.com/rs/zerolog"

	"github-profile-analyzer/internal/errors"
	"github-profile-analyzer/internal/models"
	"github-profile-analyzer/internal/queue"
)

const (
	defaultPollInterval = time.Second

	// bound on queue status writes, which run detached from the worker context
	statusWriteTimeout = 5 * time.Second
)

// Analyzer runs an analysis on behalf of a job and records it
type Analyzer interface {
	AnalyzeJob(ctx context.Context, input, jobID string) (*models.AnalysisRecord, error)
}

// JobWorker processes jobs from the queue
type JobWorker struct {
	queue        queue.Queue
	analyzer     Analyzer
	log          zerolog.Logger
	pollInterval time.Duration
	now          func() time.Time
	jitter       func() float64
	stop         chan struct{}
}

// NewJobWorker creates a new job worker
func NewJobWorker(q queue.Queue, analyzer Analyzer, pollInterval time.Duration, log zerolog.Logger) *JobWorker {
	if pollInterval <= 0 {
		pollInterval = defaultPollInterval
	}
	return &JobWorker{
		queue:        q,
		analyzer:     analyzer,
		log:          log,
		pollInterval: pollInterval,
		now:          time.Now,
		jitter:       rand.Float64,
		stop:         make(chan struct{}),
	}
}

// calculateBackoff calculates the next retry backoff duration with jitter
func (w *JobWorker) calculateBackoff(job *queue.Job) time.Duration {
	initial := job.InitialBackoff
	if initial <= 0 {
		initial = queue.DefaultInitialBackoff
	}

	backoff := float64(initial) * math.Pow(queue.DefaultBackoffFactor, float64(job.RetryCount))

	// Add jitter
	backoff += w.jitter() * queue.DefaultJitterFactor * backoff

	// Cap at max backoff
	if backoff > float64(queue.DefaultMaxBackoff) {
		backoff = float64(queue.DefaultMaxBackoff)
	}

	return time.Duration(backoff)
}

// Start runs the worker until ctx is cancelled or Stop is called
func (w *JobWorker) Start(ctx context.Context) error {
	w.log.Info().Msg("Starting job worker")

	for {
		processed, err := w.processNextJob(ctx)
		if err != nil {
			w.log.Error().Err(err).Msg("Failed to process job")
		}
		if processed && err == nil {
			// drain the queue without waiting
			select {
			case <-ctx.Done():
				w.log.Info().Msg("Job worker stopped")
				return nil
			case <-w.stop:
				w.log.Info().Msg("Job worker stopped")
				return nil
			default:
				continue
			}
		}

		select {
		case <-ctx.Done():
			w.log.Info().Msg("Job worker stopped")
			return nil
		case <-w.stop:
			w.log.Info().Msg("Job worker stopped")
			return nil
		case <-time.After(w.pollInterval):
		}
	}
}

// Stop stops the job worker
func (w *JobWorker) Stop() {
	close(w.stop)
}

// processNextJob claims and runs one job. processed is false when the queue
// had nothing ready.
func (w *JobWorker) processNextJob(ctx context.Context) (processed bool, err error) {
	job, err := w.queue.Dequeue(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to dequeue job: %w", err)
	}
	if job == nil {
		return false, nil // No jobs available
	}

	w.log.Info().
		Str("job_id", job.ID).
		Str("type", string(job.Type)).
		Int("retry_count", job.RetryCount).
		Msg("Processing job")

	var processErr error
	switch job.Type {
	case queue.JobTypeAnalyze:
		processErr = w.handleAnalyzeJob(ctx, job)
	default:
		processErr = permanent(fmt.Errorf("unknown job type: %s", job.Type))
	}

	wctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), statusWriteTimeout)
	defer cancel()

	if processErr == nil {
		w.log.Info().
			Str("job_id", job.ID).
			Str("type", string(job.Type)).
			Msg("Job completed")
		return true, w.queue.Complete(wctx, job.ID)
	}

	if ctx.Err() != nil {
		w.log.Warn().
			Err(processErr).
			Str("job_id", job.ID).
			Msg("Job interrupted by shutdown, releasing")
		return true, w.queue.Release(wctx, job.ID)
	}

	w.log.Error().
		Err(processErr).
		Str("job_id", job.ID).
		Str("type", string(job.Type)).
		Int("retry_count", job.RetryCount).
		Msg("Job failed")

	if !retryable(processErr) {
		w.log.Warn().
			Str("job_id", job.ID).
			Msg("Job failed permanently, marking as stopped")
		return true, w.queue.Stop(wctx, job.ID, processErr)
	}

	if job.RetryCount+1 >= job.MaxRetries {
		w.log.Warn().
			Str("job_id", job.ID).
			Int("max_retries", job.MaxRetries).
			Msg("Job reached maximum retries, marking as stopped")
		return true, w.queue.Stop(wctx, job.ID, fmt.Errorf("max retries reached: %w", processErr))
	}

	// Calculate next retry time with exponential backoff
	backoff := w.calculateBackoff(job)
	nextRetry := w.now().Add(backoff)

	w.log.Info().
		Str("job_id", job.ID).
		Int("retry_count", job.RetryCount+1).
		Dur("backoff", backoff).
		Time("next_retry", nextRetry).
		Msg("Scheduling job retry")

	return true, w.queue.Fail(wctx, job.ID, processErr, nextRetry)
}

func (w *JobWorker) handleAnalyzeJob(ctx context.Context, job *queue.Job) error {
	var payload queue.AnalyzePayload
	if err := json.Unmarshal(job.Payload, &payload); err != nil {
		return permanent(fmt.Errorf("failed to unmarshal analyze payload: %w", err))
	}

	rec, err := w.analyzer.AnalyzeJob(ctx, payload.Input, job.ID)
	if err != nil {
		return err
	}

	w.log.Info().
		Str("job_id", job.ID).
		Int64("analysis_id", rec.ID).
		Str("username", rec.Username).
		Int("overall_score", rec.OverallScore).
		Msg("Analysis recorded")
	return nil
}

type permanentError struct{ err error }

func (e *permanentError) Error() string { return e.err.Error() }
func (e *permanentError) Unwrap() error { return e.err }

func permanent(err error) error {
	return &permanentError{err: err}
}

// retryable reports whether running the job again could succeed. Bad input
// and missing users or data will fail the same way every time.
func retryable(err error) bool {
	var p *permanentError
	switch {
	case errors.As(err, &p),
		errors.Is(err, errors.ErrInvalidInput),
		errors.Is(err, errors.ErrNotFound),
		errors.Is(err, errors.ErrMissingData),
		errors.Is(err, errors.ErrUnauthorized),
		errors.Is(err, errors.ErrHistoryDisabled):
		return false
	}
	return true
}
