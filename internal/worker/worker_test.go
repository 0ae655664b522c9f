package worker

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github-profile-analyzer/internal/errors"
	"github-profile-analyzer/internal/models"
	"github-profile-analyzer/internal/queue"
)

// memQueue is an in-memory queue.Queue
type memQueue struct {
	mu   sync.Mutex
	jobs []*queue.Job
}

func (q *memQueue) Enqueue(ctx context.Context, job *queue.Job) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if job.ID == "" {
		job.ID = uuid.New().String()
	}
	job.Status = queue.JobStatusPending
	if job.MaxRetries <= 0 {
		job.MaxRetries = queue.DefaultMaxRetries
	}
	q.jobs = append(q.jobs, job)
	return nil
}

func (q *memQueue) Dequeue(ctx context.Context) (*queue.Job, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	for _, job := range q.jobs {
		if job.Status == queue.JobStatusPending || job.Status == queue.JobStatusFailed {
			job.Status = queue.JobStatusRunning
			copied := *job
			return &copied, nil
		}
	}
	return nil, nil
}

func (q *memQueue) find(jobID string) (*queue.Job, error) {
	for _, job := range q.jobs {
		if job.ID == jobID {
			return job, nil
		}
	}
	return nil, fmt.Errorf("job %s: %w", jobID, errors.ErrNotFound)
}

func (q *memQueue) Complete(ctx context.Context, jobID string) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	job, err := q.find(jobID)
	if err != nil {
		return err
	}
	job.Status = queue.JobStatusComplete
	return nil
}

func (q *memQueue) Fail(ctx context.Context, jobID string, jobErr error, nextRetryAt time.Time) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	job, err := q.find(jobID)
	if err != nil {
		return err
	}
	job.Status = queue.JobStatusFailed
	job.Error = jobErr.Error()
	job.RetryCount++
	job.NextRetryAt = nextRetryAt
	return nil
}

func (q *memQueue) Stop(ctx context.Context, jobID string, jobErr error) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	job, err := q.find(jobID)
	if err != nil {
		return err
	}
	job.Status = queue.JobStatusStopped
	job.Error = jobErr.Error()
	return nil
}

func (q *memQueue) Release(ctx context.Context, jobID string) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	job, err := q.find(jobID)
	if err != nil {
		return err
	}
	if job.Status != queue.JobStatusRunning {
		return fmt.Errorf("job %s: %w", jobID, errors.ErrNotFound)
	}
	job.Status = queue.JobStatusPending
	return nil
}

func (q *memQueue) GetJob(ctx context.Context, jobID string) (*queue.Job, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	job, err := q.find(jobID)
	if err != nil {
		return nil, err
	}
	copied := *job
	return &copied, nil
}

func (q *memQueue) GetJobs(ctx context.Context, limit int) ([]*queue.Job, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	jobs := make([]*queue.Job, 0, len(q.jobs))
	for _, job := range q.jobs {
		copied := *job
		jobs = append(jobs, &copied)
	}
	return jobs, nil
}

// ctxQueue rejects status writes made with a finished context, the way
// database/sql does
type ctxQueue struct {
	*memQueue
}

func (q ctxQueue) Complete(ctx context.Context, jobID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return q.memQueue.Complete(ctx, jobID)
}

func (q ctxQueue) Fail(ctx context.Context, jobID string, jobErr error, nextRetryAt time.Time) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return q.memQueue.Fail(ctx, jobID, jobErr, nextRetryAt)
}

func (q ctxQueue) Stop(ctx context.Context, jobID string, jobErr error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return q.memQueue.Stop(ctx, jobID, jobErr)
}

func (q ctxQueue) Release(ctx context.Context, jobID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return q.memQueue.Release(ctx, jobID)
}

type mockAnalyzer struct {
	mock.Mock
}

func (m *mockAnalyzer) AnalyzeJob(ctx context.Context, input, jobID string) (*models.AnalysisRecord, error) {
	args := m.Called(ctx, input, jobID)
	rec, _ := args.Get(0).(*models.AnalysisRecord)
	return rec, args.Error(1)
}

func enqueueAnalyze(t *testing.T, q queue.Queue, input string) *queue.Job {
	t.Helper()
	job, err := queue.NewAnalyzeJob(input)
	require.NoError(t, err)
	require.NoError(t, q.Enqueue(context.Background(), job))
	return job
}

func newTestWorker(q queue.Queue, analyzer Analyzer) *JobWorker {
	w := NewJobWorker(q, analyzer, 10*time.Millisecond, zerolog.Nop())
	w.jitter = func() float64 { return 0 }
	return w
}

func TestProcessNextJob(t *testing.T) {
	ctx := context.Background()

	t.Run("empty queue", func(t *testing.T) {
		w := newTestWorker(&memQueue{}, &mockAnalyzer{})

		processed, err := w.processNextJob(ctx)
		require.NoError(t, err)
		assert.False(t, processed)
	})

	t.Run("completes analyze jobs", func(t *testing.T) {
		q := &memQueue{}
		job := enqueueAnalyze(t, q, "octocat")

		analyzer := &mockAnalyzer{}
		analyzer.On("AnalyzeJob", mock.Anything, "octocat", job.ID).
			Return(&models.AnalysisRecord{ID: 1, Username: "octocat", OverallScore: 46}, nil).Once()

		processed, err := newTestWorker(q, analyzer).processNextJob(ctx)
		require.NoError(t, err)
		assert.True(t, processed)

		stored, _ := q.GetJob(ctx, job.ID)
		assert.Equal(t, queue.JobStatusComplete, stored.Status)
		analyzer.AssertExpectations(t)
	})

	t.Run("schedules a retry for transient failures", func(t *testing.T) {
		q := &memQueue{}
		job := enqueueAnalyze(t, q, "octocat")

		analyzer := &mockAnalyzer{}
		analyzer.On("AnalyzeJob", mock.Anything, "octocat", job.ID).
			Return(nil, errors.NewGitHubError("get_user", "octocat", errors.ErrRateLimit))

		now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
		w := newTestWorker(q, analyzer)
		w.now = func() time.Time { return now }

		_, err := w.processNextJob(ctx)
		require.NoError(t, err)

		stored, _ := q.GetJob(ctx, job.ID)
		assert.Equal(t, queue.JobStatusFailed, stored.Status)
		assert.Equal(t, 1, stored.RetryCount)
		assert.Equal(t, now.Add(queue.DefaultInitialBackoff), stored.NextRetryAt)
		assert.Contains(t, stored.Error, "rate limit")
	})

	t.Run("stops after max retries", func(t *testing.T) {
		q := &memQueue{}
		job := enqueueAnalyze(t, q, "octocat")

		analyzer := &mockAnalyzer{}
		analyzer.On("AnalyzeJob", mock.Anything, "octocat", job.ID).
			Return(nil, errors.NewGitHubError("list_repositories", "octocat", errors.ErrGitHubAPI))

		w := newTestWorker(q, analyzer)
		for i := 0; i < queue.DefaultMaxRetries; i++ {
			processed, err := w.processNextJob(ctx)
			require.NoError(t, err)
			require.True(t, processed)
		}

		stored, _ := q.GetJob(ctx, job.ID)
		assert.Equal(t, queue.JobStatusStopped, stored.Status)
		assert.Contains(t, stored.Error, "max retries reached")
		analyzer.AssertNumberOfCalls(t, "AnalyzeJob", queue.DefaultMaxRetries)
	})

	t.Run("permanent failures stop immediately", func(t *testing.T) {
		tests := []struct {
			name string
			err  error
		}{
			{"unknown user", errors.NewGitHubError("get_user", "ghost", errors.ErrNotFound)},
			{"invalid input", errors.NewValidationError("-x-", "Invalid GitHub username or URL")},
			{"missing data", errors.NewMissingDataError("ghost", "created_at")},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				q := &memQueue{}
				job := enqueueAnalyze(t, q, "ghost")

				analyzer := &mockAnalyzer{}
				analyzer.On("AnalyzeJob", mock.Anything, "ghost", job.ID).Return(nil, tt.err).Once()

				_, err := newTestWorker(q, analyzer).processNextJob(ctx)
				require.NoError(t, err)

				stored, _ := q.GetJob(ctx, job.ID)
				assert.Equal(t, queue.JobStatusStopped, stored.Status)
				assert.Equal(t, 0, stored.RetryCount)
			})
		}
	})

	t.Run("shutdown releases the in-flight job", func(t *testing.T) {
		mem := &memQueue{}
		q := ctxQueue{mem}
		job := enqueueAnalyze(t, q, "octocat")

		runCtx, cancel := context.WithCancel(context.Background())
		analyzer := &mockAnalyzer{}
		analyzer.On("AnalyzeJob", mock.Anything, "octocat", job.ID).
			Run(func(mock.Arguments) { cancel() }).
			Return(nil, context.Canceled).Once()

		processed, err := newTestWorker(q, analyzer).processNextJob(runCtx)
		require.NoError(t, err)
		assert.True(t, processed)

		stored, _ := q.GetJob(ctx, job.ID)
		assert.Equal(t, queue.JobStatusPending, stored.Status)
		assert.Equal(t, 0, stored.RetryCount)
		assert.Empty(t, stored.Error)

		again, err := q.Dequeue(ctx)
		require.NoError(t, err)
		require.NotNil(t, again)
		assert.Equal(t, job.ID, again.ID)
	})

	t.Run("status writes survive a cancelled context", func(t *testing.T) {
		q := ctxQueue{&memQueue{}}
		job := enqueueAnalyze(t, q, "octocat")

		runCtx, cancel := context.WithCancel(context.Background())
		analyzer := &mockAnalyzer{}
		analyzer.On("AnalyzeJob", mock.Anything, "octocat", job.ID).
			Run(func(mock.Arguments) { cancel() }).
			Return(&models.AnalysisRecord{ID: 7, Username: "octocat"}, nil).Once()

		_, err := newTestWorker(q, analyzer).processNextJob(runCtx)
		require.NoError(t, err)

		stored, _ := q.GetJob(ctx, job.ID)
		assert.Equal(t, queue.JobStatusComplete, stored.Status)
	})

	t.Run("unknown job types are stopped", func(t *testing.T) {
		q := &memQueue{}
		require.NoError(t, q.Enqueue(ctx, &queue.Job{Type: "cleanup"}))

		_, err := newTestWorker(q, &mockAnalyzer{}).processNextJob(ctx)
		require.NoError(t, err)

		jobs, _ := q.GetJobs(ctx, 10)
		require.Len(t, jobs, 1)
		assert.Equal(t, queue.JobStatusStopped, jobs[0].Status)
		assert.Contains(t, jobs[0].Error, "unknown job type")
	})
}

func TestCalculateBackoff(t *testing.T) {
	w := newTestWorker(&memQueue{}, &mockAnalyzer{})

	tests := []struct {
		retries int
		initial time.Duration
		want    time.Duration
	}{
		{0, 0, time.Second},
		{0, 2 * time.Second, 2 * time.Second},
		{1, time.Second, 2 * time.Second},
		{3, time.Second, 8 * time.Second},
		{30, time.Second, queue.DefaultMaxBackoff},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("retry %d", tt.retries), func(t *testing.T) {
			got := w.calculateBackoff(&queue.Job{RetryCount: tt.retries, InitialBackoff: tt.initial})
			assert.Equal(t, tt.want, got)
		})
	}

	w.jitter = func() float64 { return 1 }
	got := w.calculateBackoff(&queue.Job{RetryCount: 1, InitialBackoff: time.Second})
	assert.Equal(t, 2200*time.Millisecond, got)
}

func TestPoolProcessesQueue(t *testing.T) {
	q := &memQueue{}
	for _, user := range []string{"alice", "bob", "carol"} {
		enqueueAnalyze(t, q, user)
	}

	analyzer := &mockAnalyzer{}
	analyzer.On("AnalyzeJob", mock.Anything, mock.Anything, mock.Anything).
		Return(&models.AnalysisRecord{ID: 1}, nil)

	pool := NewPool(q, analyzer, 2, 5*time.Millisecond, zerolog.Nop())
	assert.Equal(t, 2, pool.Size())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	pool.Start(ctx)

	assert.Eventually(t, func() bool {
		jobs, _ := q.GetJobs(ctx, 10)
		for _, job := range jobs {
			if job.Status != queue.JobStatusComplete {
				return false
			}
		}
		return true
	}, 2*time.Second, 10*time.Millisecond)

	pool.Stop()
	analyzer.AssertNumberOfCalls(t, "AnalyzeJob", 3)
}

func TestRefreshWorker(t *testing.T) {
	t.Run("enqueues every monitored profile", func(t *testing.T) {
		q := &memQueue{}
		w := NewRefreshWorker(q, time.Hour, []string{"torvalds", "https://github.com/gaearon", "TORVALDS", "not a user!"}, zerolog.Nop())

		assert.Equal(t, []string{"torvalds", "gaearon"}, w.Usernames())

		enqueued := w.refreshAll(context.Background())
		assert.Equal(t, 2, enqueued)

		jobs, _ := q.GetJobs(context.Background(), 10)
		require.Len(t, jobs, 2)
		assert.Equal(t, queue.JobTypeAnalyze, jobs[0].Type)
		assert.JSONEq(t, `{"input": "torvalds"}`, string(jobs[0].Payload))
	})

	t.Run("add and remove", func(t *testing.T) {
		w := NewRefreshWorker(&memQueue{}, time.Hour, nil, zerolog.Nop())

		require.NoError(t, w.AddUsername("octocat"))
		require.NoError(t, w.AddUsername("OctoCat"))
		assert.Error(t, w.AddUsername("https://gihub.com/octocat"))
		assert.Equal(t, []string{"octocat"}, w.Usernames())

		w.RemoveUsername("OCTOCAT")
		assert.Empty(t, w.Usernames())
	})

	t.Run("start refreshes immediately and stops", func(t *testing.T) {
		q := &memQueue{}
		w := NewRefreshWorker(q, time.Hour, []string{"octocat"}, zerolog.Nop())

		done := make(chan struct{})
		go func() {
			w.Start(context.Background())
			close(done)
		}()

		assert.Eventually(t, func() bool {
			jobs, _ := q.GetJobs(context.Background(), 10)
			return len(jobs) == 1
		}, time.Second, 5*time.Millisecond)

		w.Stop()
		w.Stop()
		select {
		case <-done:
		case <-time.After(time.Second):
			t.Fatal("refresh worker did not stop")
		}
	})
}
