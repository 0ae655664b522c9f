package worker

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github-profile-analyzer/internal/queue"
	"github-profile-analyzer/internal/validator"
)

// RefreshWorker periodically enqueues an analysis for each monitored profile
// so that their history keeps growing without user requests
type RefreshWorker struct {
	queue    queue.Queue
	interval time.Duration
	log      zerolog.Logger
	stop     chan struct{}
	once     sync.Once

	mu        sync.RWMutex
	usernames []string
}

// NewRefreshWorker creates a new refresh worker. Invalid usernames are dropped
// with a warning.
func NewRefreshWorker(q queue.Queue, interval time.Duration, usernames []string, log zerolog.Logger) *RefreshWorker {
	if interval <= 0 {
		interval = 24 * time.Hour
	}
	w := &RefreshWorker{
		queue:    q,
		interval: interval,
		log:      log,
		stop:     make(chan struct{}),
	}
	for _, u := range usernames {
		if err := w.AddUsername(u); err != nil {
			log.Warn().Err(err).Str("username", u).Msg("Ignoring monitored username")
		}
	}
	return w
}

// AddUsername adds a profile (login or URL) to the monitored set
func (w *RefreshWorker) AddUsername(input string) error {
	username, err := validator.ExtractUsername(input)
	if err != nil {
		return err
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if slices.ContainsFunc(w.usernames, func(u string) bool { return strings.EqualFold(u, username) }) {
		return nil
	}
	w.usernames = append(w.usernames, username)
	return nil
}

// RemoveUsername removes a profile from the monitored set
func (w *RefreshWorker) RemoveUsername(username string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.usernames = slices.DeleteFunc(w.usernames, func(u string) bool { return strings.EqualFold(u, username) })
}

// Usernames returns the monitored profiles
func (w *RefreshWorker) Usernames() []string {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return slices.Clone(w.usernames)
}

// Start begins the background refresh process
func (w *RefreshWorker) Start(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	// Initial refresh
	w.refreshAll(ctx)

	for {
		select {
		case <-ticker.C:
			w.refreshAll(ctx)
		case <-ctx.Done():
			return
		case <-w.stop:
			return
		}
	}
}

// Stop stops the background refresh process
func (w *RefreshWorker) Stop() {
	w.once.Do(func() { close(w.stop) })
}

// refreshAll enqueues one analyze job per monitored profile and returns how
// many were enqueued
func (w *RefreshWorker) refreshAll(ctx context.Context) int {
	enqueued := 0
	for _, username := range w.Usernames() {
		if ctx.Err() != nil {
			break
		}
		if err := w.enqueue(ctx, username); err != nil {
			w.log.Error().Err(err).Str("username", username).Msg("Failed to enqueue refresh")
			continue
		}
		enqueued++
	}

	w.log.Info().
		Int("enqueued", enqueued).
		Dur("interval", w.interval).
		Msg("Monitored profiles refreshed")
	return enqueued
}

func (w *RefreshWorker) enqueue(ctx context.Context, username string) error {
	job, err := queue.NewAnalyzeJob(username)
	if err != nil {
		return fmt.Errorf("failed to build analyze job: %w", err)
	}
	if err := w.queue.Enqueue(ctx, job); err != nil {
		return err
	}

	w.log.Debug().
		Str("username", username).
		Str("job_id", job.ID).
		Msg("Refresh enqueued")
	return nil
}
