// Package service runs a profile analysis end to end: normalize the input,
// fetch from GitHub, score, synthesize the report and record it.
package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github-profile-analyzer/internal/errors"
	"github-profile-analyzer/internal/insight"
	"github-profile-analyzer/internal/metrics"
	"github-profile-analyzer/internal/models"
	"github-profile-analyzer/internal/validator"
)

const (
	DefaultHistoryLimit = 10
	MaxHistoryLimit     = 100
)

// Service handles the core business logic
type Service struct {
	source      ProfileSource
	history     HistoryStore // nil when storage is disabled
	engine      *metrics.Engine
	synthesizer *insight.Synthesizer
	logger      *zerolog.Logger
}

// Option configures a Service
type Option func(*Service)

// WithClock pins the time source of the metrics engine and synthesizer
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.engine = metrics.NewEngine(metrics.WithClock(now))
		s.synthesizer = insight.NewSynthesizer(s.logger, insight.WithClock(now))
	}
}

// New creates a new service instance. history may be nil.
func New(source ProfileSource, history HistoryStore, logger *zerolog.Logger, opts ...Option) *Service {
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	s := &Service{
		source:      source,
		history:     history,
		engine:      metrics.NewEngine(),
		synthesizer: insight.NewSynthesizer(logger),
		logger:      logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// HistoryEnabled reports whether analyses are recorded
func (s *Service) HistoryEnabled() bool {
	return s.history != nil
}

// RateLimit returns the latest GitHub rate limit snapshot
func (s *Service) RateLimit() models.RateLimitInfo {
	return s.source.GetRateLimitInfo()
}

// Close closes the service and its resources
func (s *Service) Close() error {
	if s.history == nil {
		return nil
	}
	return s.history.Close()
}

// Analyze analyzes the profile named by input (a login or profile URL). When
// history is enabled the result is recorded; a recording failure is logged
// and does not fail the analysis.
func (s *Service) Analyze(ctx context.Context, input string) (*insight.Report, error) {
	report, err := s.analyze(ctx, input)
	if err != nil {
		return nil, err
	}

	if s.history != nil {
		if _, err := s.record(ctx, report, ""); err != nil {
			s.logger.Warn().
				Err(err).
				Str("username", report.ProfileMetrics.Username).
				Msg("Failed to record analysis")
		}
	}

	return report, nil
}

// AnalyzeJob analyzes input on behalf of an async job and records the result
// under jobID
func (s *Service) AnalyzeJob(ctx context.Context, input, jobID string) (*models.AnalysisRecord, error) {
	if s.history == nil {
		return nil, errors.ErrHistoryDisabled
	}

	report, err := s.analyze(ctx, input)
	if err != nil {
		return nil, err
	}
	return s.record(ctx, report, jobID)
}

// History returns recent analyses of the profile named by input, newest first
func (s *Service) History(ctx context.Context, input string, limit int) ([]models.AnalysisRecord, error) {
	if s.history == nil {
		return nil, errors.ErrHistoryDisabled
	}

	username, err := validator.ExtractUsername(input)
	if err != nil {
		return nil, err
	}

	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	limit = min(limit, MaxHistoryLimit)

	return s.history.ListAnalyses(ctx, username, limit)
}

// GetAnalysis returns a recorded analysis
func (s *Service) GetAnalysis(ctx context.Context, id int64) (*models.AnalysisRecord, error) {
	if s.history == nil {
		return nil, errors.ErrHistoryDisabled
	}
	return s.history.GetAnalysis(ctx, id)
}

// GetAnalysisByJob returns the analysis recorded by an async job
func (s *Service) GetAnalysisByJob(ctx context.Context, jobID string) (*models.AnalysisRecord, error) {
	if s.history == nil {
		return nil, errors.ErrHistoryDisabled
	}
	return s.history.GetAnalysisByJobID(ctx, jobID)
}

func (s *Service) analyze(ctx context.Context, input string) (*insight.Report, error) {
	username, err := validator.ExtractUsername(input)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	user, repos, err := s.fetch(ctx, username)
	if err != nil {
		return nil, err
	}

	m, err := s.engine.Compute(user, repos)
	if err != nil {
		return nil, err
	}
	report := s.synthesizer.Synthesize(m)

	s.logger.Info().
		Str("username", m.Username).
		Int("repositories", len(repos)).
		Int("overall_score", m.OverallScore).
		Str("grade", m.Grade).
		Dur("duration", time.Since(start)).
		Msg("Analysis completed")

	return report, nil
}

// fetch loads the user, repositories and pinned items concurrently. Pinned
// items are optional: a failure there is logged and the profile is analyzed
// without them.
func (s *Service) fetch(ctx context.Context, username string) (*models.UserRecord, []models.RepositoryRecord, error) {
	var (
		user   *models.UserRecord
		repos  []models.RepositoryRecord
		pinned []string
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		user, err = s.source.GetUser(gctx, username)
		return err
	})
	g.Go(func() error {
		var err error
		repos, err = s.source.ListRepositories(gctx, username)
		return err
	})
	g.Go(func() error {
		var err error
		pinned, err = s.source.GetPinnedRepositories(gctx, username)
		if err != nil {
			s.logger.Warn().
				Err(err).
				Str("username", username).
				Msg("Failed to fetch pinned repositories")
			pinned = nil
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	if user != nil {
		user.Pinned = pinned
	}
	return user, repos, nil
}

func (s *Service) record(ctx context.Context, report *insight.Report, jobID string) (*models.AnalysisRecord, error) {
	body, err := json.Marshal(report)
	if err != nil {
		return nil, err
	}

	m := report.ProfileMetrics
	rec := &models.AnalysisRecord{
		Username:     m.Username,
		OverallScore: m.OverallScore,
		Grade:        m.Grade,
		JobID:        jobID,
		Report:       body,
	}
	if err := s.history.SaveAnalysis(ctx, rec); err != nil {
		return nil, err
	}
	return rec, nil
}
