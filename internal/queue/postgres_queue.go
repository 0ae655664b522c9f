package queue

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github-profile-analyzer/internal/errors"
)

const jobColumns = `id, type, status, payload, created_at, updated_at, error,
	retry_count, max_retries, last_retry_at, next_retry_at, initial_backoff`

// PostgresQueue implements Queue interface using PostgreSQL. The jobs table is
// created by the database migrations.
type PostgresQueue struct {
	db         *sql.DB
	now        func() time.Time
	maxRetries int
}

// Option configures a PostgresQueue
type Option func(*PostgresQueue)

// WithMaxRetries sets the attempt budget given to jobs enqueued without one
func WithMaxRetries(n int) Option {
	return func(q *PostgresQueue) {
		if n > 0 {
			q.maxRetries = n
		}
	}
}

// NewPostgresQueue creates a new PostgreSQL-based queue
func NewPostgresQueue(db *sql.DB, opts ...Option) *PostgresQueue {
	q := &PostgresQueue{db: db, now: time.Now, maxRetries: DefaultMaxRetries}
	for _, opt := range opts {
		opt(q)
	}
	return q
}

func (q *PostgresQueue) Enqueue(ctx context.Context, job *Job) error {
	if job.ID == "" {
		job.ID = uuid.New().String()
	}
	now := q.now()
	if job.CreatedAt.IsZero() {
		job.CreatedAt = now
	}
	job.UpdatedAt = now
	job.Status = JobStatusPending
	job.RetryCount = 0

	// Set default retry configuration
	if job.MaxRetries <= 0 {
		job.MaxRetries = q.maxRetries
	}
	if job.InitialBackoff <= 0 {
		job.InitialBackoff = DefaultInitialBackoff
	}

	query := `
		INSERT INTO jobs (
			id, type, status, payload, created_at, updated_at,
			retry_count, max_retries, initial_backoff
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err := q.db.ExecContext(ctx, query,
		job.ID, job.Type, job.Status, []byte(job.Payload), job.CreatedAt, job.UpdatedAt,
		job.RetryCount, job.MaxRetries, int64(job.InitialBackoff),
	)
	if err != nil {
		return errors.NewDatabaseError("enqueue_job", err)
	}
	return nil
}

func (q *PostgresQueue) Dequeue(ctx context.Context) (*Job, error) {
	tx, err := q.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, errors.NewDatabaseError("dequeue_job", err)
	}
	defer tx.Rollback()

	query := `
		UPDATE jobs
		SET status = $1, updated_at = $2
		WHERE id = (
			SELECT id
			FROM jobs
			WHERE status = $3
				OR (status = $4 AND next_retry_at <= $2)
			ORDER BY created_at ASC
			FOR UPDATE SKIP LOCKED
			LIMIT 1
		)
		RETURNING ` + jobColumns

	job, err := scanJob(tx.QueryRowContext(ctx, query, JobStatusRunning, q.now(), JobStatusPending, JobStatusFailed))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, errors.NewDatabaseError("dequeue_job", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, errors.NewDatabaseError("dequeue_job", err)
	}

	return job, nil
}

func (q *PostgresQueue) Complete(ctx context.Context, jobID string) error {
	query := `
		UPDATE jobs
		SET
			status = $1,
			updated_at = $2,
			error = NULL
		WHERE id = $3
	`
	return q.exec(ctx, "complete_job", jobID, query, JobStatusComplete, q.now(), jobID)
}

func (q *PostgresQueue) Fail(ctx context.Context, jobID string, err error, nextRetryAt time.Time) error {
	query := `
		UPDATE jobs
		SET
			status = $1,
			updated_at = $2,
			error = $3,
			retry_count = retry_count + 1,
			last_retry_at = $2,
			next_retry_at = $4
		WHERE id = $5
	`
	return q.exec(ctx, "fail_job", jobID, query, JobStatusFailed, q.now(), err.Error(), nextRetryAt, jobID)
}

func (q *PostgresQueue) Stop(ctx context.Context, jobID string, err error) error {
	query := `
		UPDATE jobs
		SET
			status = $1,
			updated_at = $2,
			error = $3,
			next_retry_at = NULL
		WHERE id = $4
	`
	return q.exec(ctx, "stop_job", jobID, query, JobStatusStopped, q.now(), err.Error(), jobID)
}

func (q *PostgresQueue) Release(ctx context.Context, jobID string) error {
	query := `
		UPDATE jobs
		SET
			status = $1,
			updated_at = $2
		WHERE id = $3 AND status = $4
	`
	return q.exec(ctx, "release_job", jobID, query, JobStatusPending, q.now(), jobID, JobStatusRunning)
}

func (q *PostgresQueue) exec(ctx context.Context, op, jobID, query string, args ...any) error {
	res, err := q.db.ExecContext(ctx, query, args...)
	if err != nil {
		return errors.NewDatabaseError(op, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("job %s: %w", jobID, errors.ErrNotFound)
	}
	return nil
}

// GetJob retrieves a single job
func (q *PostgresQueue) GetJob(ctx context.Context, jobID string) (*Job, error) {
	query := `SELECT ` + jobColumns + ` FROM jobs WHERE id = $1`

	job, err := scanJob(q.db.QueryRowContext(ctx, query, jobID))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("job %s: %w", jobID, errors.ErrNotFound)
	}
	if err != nil {
		return nil, errors.NewDatabaseError("get_job", err)
	}
	return job, nil
}

// GetJobs retrieves the most recent jobs, newest first
func (q *PostgresQueue) GetJobs(ctx context.Context, limit int) ([]*Job, error) {
	query := `SELECT ` + jobColumns + `
		FROM jobs
		ORDER BY created_at DESC
		LIMIT $1`

	rows, err := q.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, errors.NewDatabaseError("get_jobs", err)
	}
	defer rows.Close()

	jobs := []*Job{}
	for rows.Next() {
		job, err := scanJob(rows)
		if err != nil {
			return nil, errors.NewDatabaseError("get_jobs", err)
		}
		jobs = append(jobs, job)
	}

	if err := rows.Err(); err != nil {
		return nil, errors.NewDatabaseError("get_jobs", err)
	}

	return jobs, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanJob(row rowScanner) (*Job, error) {
	job := &Job{
		MaxRetries:     DefaultMaxRetries,
		InitialBackoff: DefaultInitialBackoff,
	}

	var errMsg sql.NullString
	var payload []byte
	var lastRetryAt, nextRetryAt sql.NullTime
	var initialBackoff sql.NullInt64

	if err := row.Scan(
		&job.ID,
		&job.Type,
		&job.Status,
		&payload,
		&job.CreatedAt,
		&job.UpdatedAt,
		&errMsg,
		&job.RetryCount,
		&job.MaxRetries,
		&lastRetryAt,
		&nextRetryAt,
		&initialBackoff,
	); err != nil {
		return nil, err
	}

	// Handle nullable fields
	if len(payload) > 0 {
		job.Payload = json.RawMessage(payload)
	}
	if errMsg.Valid {
		job.Error = errMsg.String
	}
	if lastRetryAt.Valid {
		job.LastRetryAt = lastRetryAt.Time
	}
	if nextRetryAt.Valid {
		job.NextRetryAt = nextRetryAt.Time
	}
	if initialBackoff.Valid {
		job.InitialBackoff = time.Duration(initialBackoff.Int64)
	}

	return job, nil
}
