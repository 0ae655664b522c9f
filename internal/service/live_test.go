package service

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github-profile-analyzer/internal/config"
	"github-profile-analyzer/internal/github"
)

func TestLiveProfileAnalysis(t *testing.T) {
	// Skip if no GitHub token is provided
	token := os.Getenv("GITHUB_TOKEN")
	if token == "" {
		t.Skip("Skipping test: GITHUB_TOKEN not set")
	}

	client, err := github.NewClient(config.GitHubConfig{
		Token:             token,
		RequestTimeout:    30 * time.Second,
		CheckReadme:       true,
		ReadmeConcurrency: 4,
	}, nil)
	require.NoError(t, err)

	svc := New(client, nil, nil)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	report, err := svc.Analyze(ctx, "https://github.com/torvalds")
	require.NoError(t, err)

	m := report.ProfileMetrics
	assert.Equal(t, "torvalds", m.Username)
	assert.GreaterOrEqual(t, m.OverallScore, 0)
	assert.LessOrEqual(t, m.OverallScore, 100)
	assert.NotEmpty(t, m.TopRepoSummary)
	assert.NotEmpty(t, m.CreatedAt)
	assert.NotEmpty(t, report.RecruiterVerdict.Decision)

	rate := svc.RateLimit()
	assert.Greater(t, rate.Limit, 60, "authenticated requests should have the higher limit")
}
