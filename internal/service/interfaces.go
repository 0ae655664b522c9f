package service

import (
	"context"

	"github-profile-analyzer/internal/models"
)

// ProfileSource defines the GitHub operations an analysis needs
type ProfileSource interface {
	GetUser(ctx context.Context, login string) (*models.UserRecord, error)
	ListRepositories(ctx context.Context, login string) ([]models.RepositoryRecord, error)
	GetPinnedRepositories(ctx context.Context, login string) ([]string, error)
	GetRateLimitInfo() models.RateLimitInfo
}

// HistoryStore defines the analysis history operations
type HistoryStore interface {
	SaveAnalysis(ctx context.Context, rec *models.AnalysisRecord) error
	ListAnalyses(ctx context.Context, username string, limit int) ([]models.AnalysisRecord, error)
	GetAnalysis(ctx context.Context, id int64) (*models.AnalysisRecord, error)
	GetAnalysisByJobID(ctx context.Context, jobID string) (*models.AnalysisRecord, error)

	// Connection management
	Close() error
}
