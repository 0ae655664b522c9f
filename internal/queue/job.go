package queue

import (
	"context"
	"encoding/json"
	"time"
)

// JobType represents different types of jobs
type JobType string

const (
	// JobTypeAnalyze runs a full profile analysis and records it in the history
	JobTypeAnalyze JobType = "analyze"
)

// JobStatus represents the status of a job
type JobStatus string

const (
	JobStatusPending  JobStatus = "pending"
	JobStatusRunning  JobStatus = "running"
	JobStatusComplete JobStatus = "complete"
	JobStatusFailed   JobStatus = "failed"  // waiting for NextRetryAt
	JobStatusStopped  JobStatus = "stopped" // gave up after MaxRetries
)

// Default retry configuration
const (
	DefaultMaxRetries     = 3
	DefaultInitialBackoff = 1 * time.Second
	DefaultMaxBackoff     = 1 * time.Hour
	DefaultBackoffFactor  = 2.0
	DefaultJitterFactor   = 0.1
)

// Job represents a background job
type Job struct {
	ID        string          `json:"id"`
	Type      JobType         `json:"type"`
	Status    JobStatus       `json:"status"`
	Payload   json.RawMessage `json:"payload"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
	Error     string          `json:"error,omitempty"`

	// Retry configuration
	RetryCount     int           `json:"retry_count"`
	MaxRetries     int           `json:"max_retries"`
	LastRetryAt    time.Time     `json:"last_retry_at,omitempty"`
	NextRetryAt    time.Time     `json:"next_retry_at,omitempty"`
	InitialBackoff time.Duration `json:"initial_backoff"`
}

// AnalyzePayload is the payload of an analyze job. Input is the username or
// profile URL exactly as submitted.
type AnalyzePayload struct {
	Input string `json:"input"`
}

// NewAnalyzeJob builds a pending analyze job for input
func NewAnalyzeJob(input string) (*Job, error) {
	payload, err := json.Marshal(AnalyzePayload{Input: input})
	if err != nil {
		return nil, err
	}
	return &Job{Type: JobTypeAnalyze, Payload: payload}, nil
}

// Queue interface defines the methods for job queue operations
type Queue interface {
	Enqueue(ctx context.Context, job *Job) error
	// Dequeue claims the oldest pending job or failed job whose retry is due.
	// It returns nil, nil when nothing is ready.
	Dequeue(ctx context.Context) (*Job, error)
	Complete(ctx context.Context, jobID string) error
	// Fail records err and schedules the job to run again at nextRetryAt
	Fail(ctx context.Context, jobID string, err error, nextRetryAt time.Time) error
	// Stop records err and parks the job for good
	Stop(ctx context.Context, jobID string, err error) error
	// Release returns a claimed job to pending without counting an attempt
	Release(ctx context.Context, jobID string) error
	GetJob(ctx context.Context, jobID string) (*Job, error)
	GetJobs(ctx context.Context, limit int) ([]*Job, error)
}
