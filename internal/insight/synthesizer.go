// Package insight renders ProfileMetrics into recruiter-facing narrative text.
//
// Every field is picked from a fixed threshold table keyed on the metrics;
// nothing here calls out to a model or the network.
package insight

import (
	"strings"
	"time"

	"github-profile-analyzer/internal/metrics"

	"github.com/rs/zerolog"
)

// Synthesizer produces Reports. It is safe for concurrent use.
type Synthesizer struct {
	now    func() time.Time
	logger *zerolog.Logger
}

// Option configures a Synthesizer
type Option func(*Synthesizer)

// WithClock overrides the time source used for recency and age text
func WithClock(now func() time.Time) Option {
	return func(s *Synthesizer) {
		s.now = now
	}
}

// NewSynthesizer creates a new synthesizer. A nil logger discards warnings.
func NewSynthesizer(logger *zerolog.Logger, opts ...Option) *Synthesizer {
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	s := &Synthesizer{
		now:    time.Now,
		logger: logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Synthesize builds the report for m. It never fails: unparsable timestamps
// are logged and replaced by fallback text.
func (s *Synthesizer) Synthesize(m *metrics.ProfileMetrics) *Report {
	now := s.now().UTC()

	return &Report{
		ExecutiveSummary:              executiveSummary(m),
		OverallAssessment:             overallAssessment(m),
		WhatRecruitersNoticeFirst:     whatRecruitersNoticeFirst(m),
		StrongSignals:                 strongSignals(m),
		RedFlags:                      redFlags(m),
		RepositoryStrategy:            repositoryStrategy(m),
		ImpactAndDiscoverability:      impactAndDiscoverability(m),
		RecruiterVerdict:              recruiterVerdict(m),
		RecruiterRiskSummary:          recruiterRiskSummary(m),
		FlagshipProject:               flagshipProject(m),
		ConfidenceLevel:               confidenceLevel(m.OverallScore),
		FixPriorities:                 fixPriorities(m.ScoreBreakdown),
		CompletenessStats:             completenessStats(m),
		ScoreSimulation:               scoreSimulation(m),
		Top3StrongestRepos:            top3StrongestRepos(m),
		WeakestDimension:              weakestDimension(m),
		SkillCategories:               skillCategories(m.ActivityMetrics.PrimaryLanguages),
		ContributionConsistency:       s.contributionConsistency(m, now),
		LanguageFocus:                 languageFocus(m.ActivityMetrics.PrimaryLanguages),
		RepositoryNoiseCount:          repositoryNoiseCount(m),
		EngineeringMaturity:           engineeringMaturity(m.OverallScore),
		CommitQuality:                 commitQuality(m),
		ProfileAge:                    s.profileAge(m, now),
		LastCommitRecency:             s.lastCommitRecency(m, now),
		TechStackEvaluation:           techStackEvaluation(),
		UIUXEvaluation:                uiUxEvaluation(),
		ThirtyDayActionPlan:           thirtyDayActionPlan(m.OverallScore),
		ThreeImmediateHighImpactFixes: immediateFixes(m),
		ResumeReadyProfileSummary:     resumeSummary(m),
		ProfileMetrics:                m,
	}
}

// repoName extracts the repository name from a topRepoSummary entry
func repoName(summary string) string {
	name, _, _ := strings.Cut(summary, " ")
	return name
}
