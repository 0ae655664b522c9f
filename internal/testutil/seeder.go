package testutil

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github-profile-analyzer/internal/database"
	"github-profile-analyzer/internal/models"
)

// FixedNow is the clock used by tests that build sample profiles
var FixedNow = time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

// SampleUser returns a three year old profile for login
func SampleUser(login string) *models.UserRecord {
	return &models.UserRecord{
		Login:       login,
		Name:        "Sample Developer",
		Bio:         "Builds things",
		PublicRepos: 4,
		Followers:   42,
		Following:   7,
		CreatedAt:   FixedNow.AddDate(-3, 0, 0),
		UpdatedAt:   FixedNow.AddDate(0, 0, -1),
	}
}

// SampleRepositories returns a small mixed portfolio: two documented
// originals, one bare original and one fork
func SampleRepositories() []models.RepositoryRecord {
	return []models.RepositoryRecord{
		{
			Name:           "api-gateway",
			FullName:       "sample/api-gateway",
			Description:    "Production-grade HTTP gateway with auth",
			StargazerCount: 24,
			ForkCount:      5,
			Language:       "Go",
			Topics:         []string{"api", "backend", "deployment"},
			HasReadme:      true,
			CreatedAt:      FixedNow.AddDate(-2, 0, 0),
			PushedAt:       FixedNow.AddDate(0, 0, -3),
		},
		{
			Name:           "dashboard",
			FullName:       "sample/dashboard",
			Description:    "React dashboard for gateway metrics",
			StargazerCount: 6,
			ForkCount:      1,
			Language:       "TypeScript",
			Topics:         []string{"react", "frontend"},
			HasReadme:      true,
			CreatedAt:      FixedNow.AddDate(-1, 0, 0),
			PushedAt:       FixedNow.AddDate(0, -1, 0),
		},
		{
			Name:      "scratch",
			FullName:  "sample/scratch",
			Language:  "Python",
			Topics:    []string{},
			CreatedAt: FixedNow.AddDate(-1, -6, 0),
			PushedAt:  FixedNow.AddDate(0, -8, 0),
		},
		{
			Name:           "upstream-lib",
			FullName:       "sample/upstream-lib",
			Description:    "Fork of a popular library",
			IsFork:         true,
			StargazerCount: 500,
			Language:       "Go",
			Topics:         []string{},
			CreatedAt:      FixedNow.AddDate(0, -2, 0),
			PushedAt:       FixedNow.AddDate(0, -2, 0),
		},
	}
}

// SeedAnalyses stores one history entry per score for username, oldest first
func SeedAnalyses(ctx context.Context, db *database.DB, username string, scores ...int) ([]models.AnalysisRecord, error) {
	records := make([]models.AnalysisRecord, 0, len(scores))
	for _, score := range scores {
		report, err := json.Marshal(map[string]any{"overallScore": score})
		if err != nil {
			return nil, err
		}

		rec := models.AnalysisRecord{
			Username:     username,
			OverallScore: score,
			Grade:        "C",
			Report:       report,
		}
		if err := db.SaveAnalysis(ctx, &rec); err != nil {
			return nil, fmt.Errorf("failed to seed analysis for %s: %w", username, err)
		}
		records = append(records, rec)
	}
	return records, nil
}
