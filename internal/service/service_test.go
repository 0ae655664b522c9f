package service

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github-profile-analyzer/internal/errors"
	"github-profile-analyzer/internal/models"
	"github-profile-analyzer/internal/testutil"
)

// MockProfileSource implements ProfileSource for testing
type MockProfileSource struct {
	mock.Mock
}

func (m *MockProfileSource) GetUser(ctx context.Context, login string) (*models.UserRecord, error) {
	args := m.Called(ctx, login)
	user, _ := args.Get(0).(*models.UserRecord)
	return user, args.Error(1)
}

func (m *MockProfileSource) ListRepositories(ctx context.Context, login string) ([]models.RepositoryRecord, error) {
	args := m.Called(ctx, login)
	repos, _ := args.Get(0).([]models.RepositoryRecord)
	return repos, args.Error(1)
}

func (m *MockProfileSource) GetPinnedRepositories(ctx context.Context, login string) ([]string, error) {
	args := m.Called(ctx, login)
	pinned, _ := args.Get(0).([]string)
	return pinned, args.Error(1)
}

func (m *MockProfileSource) GetRateLimitInfo() models.RateLimitInfo {
	return models.RateLimitInfo{
		Remaining: 1000,
		Limit:     5000,
		Reset:     testutil.FixedNow.Add(time.Hour),
	}
}

// MockHistoryStore implements HistoryStore for testing
type MockHistoryStore struct {
	mock.Mock
}

func (m *MockHistoryStore) SaveAnalysis(ctx context.Context, rec *models.AnalysisRecord) error {
	return m.Called(ctx, rec).Error(0)
}

func (m *MockHistoryStore) ListAnalyses(ctx context.Context, username string, limit int) ([]models.AnalysisRecord, error) {
	args := m.Called(ctx, username, limit)
	records, _ := args.Get(0).([]models.AnalysisRecord)
	return records, args.Error(1)
}

func (m *MockHistoryStore) GetAnalysis(ctx context.Context, id int64) (*models.AnalysisRecord, error) {
	args := m.Called(ctx, id)
	rec, _ := args.Get(0).(*models.AnalysisRecord)
	return rec, args.Error(1)
}

func (m *MockHistoryStore) GetAnalysisByJobID(ctx context.Context, jobID string) (*models.AnalysisRecord, error) {
	args := m.Called(ctx, jobID)
	rec, _ := args.Get(0).(*models.AnalysisRecord)
	return rec, args.Error(1)
}

func (m *MockHistoryStore) Close() error {
	return m.Called().Error(0)
}

func fixedClock() time.Time { return testutil.FixedNow }

func sampleSource(login string, pinned []string, pinnedErr error) *MockProfileSource {
	src := &MockProfileSource{}
	src.On("GetUser", mock.Anything, login).Return(testutil.SampleUser(login), nil)
	src.On("ListRepositories", mock.Anything, login).Return(testutil.SampleRepositories(), nil)
	src.On("GetPinnedRepositories", mock.Anything, login).Return(pinned, pinnedErr)
	return src
}

func TestAnalyze(t *testing.T) {
	t.Run("records the analysis", func(t *testing.T) {
		src := sampleSource("sample", []string{"dashboard"}, nil)
		history := &MockHistoryStore{}
		history.On("SaveAnalysis", mock.Anything, mock.MatchedBy(func(rec *models.AnalysisRecord) bool {
			return rec.Username == "sample" && rec.JobID == "" && len(rec.Report) > 0
		})).Return(nil).Once()

		svc := New(src, history, nil, WithClock(fixedClock))

		report, err := svc.Analyze(context.Background(), "sample")
		require.NoError(t, err)
		require.NotNil(t, report.ProfileMetrics)

		m := report.ProfileMetrics
		assert.Equal(t, "sample", m.Username)
		assert.Equal(t, 4, m.ActivityMetrics.PublicRepositories)
		assert.Equal(t, []string{"dashboard - React dashboard for gateway metrics"}, m.PinnedRepoSummary)
		assert.NotEmpty(t, report.ExecutiveSummary)

		src.AssertExpectations(t)
		history.AssertExpectations(t)
	})

	t.Run("normalizes profile URLs", func(t *testing.T) {
		src := sampleSource("sample", nil, nil)
		svc := New(src, nil, nil, WithClock(fixedClock))

		report, err := svc.Analyze(context.Background(), "  https://github.com/sample?tab=repositories ")
		require.NoError(t, err)
		assert.Equal(t, "sample", report.ProfileMetrics.Username)
		src.AssertCalled(t, "GetUser", mock.Anything, "sample")
	})

	t.Run("rejects invalid input before fetching", func(t *testing.T) {
		src := &MockProfileSource{}
		svc := New(src, nil, nil)

		_, err := svc.Analyze(context.Background(), "https://gihub.com/sample")
		require.Error(t, err)
		assert.True(t, errors.Is(err, errors.ErrInvalidInput))

		var vErr *errors.ValidationError
		require.True(t, errors.As(err, &vErr))
		assert.Contains(t, vErr.Reason, "gihub.com")
		src.AssertNotCalled(t, "GetUser", mock.Anything, mock.Anything)
	})

	t.Run("propagates unknown users", func(t *testing.T) {
		notFound := errors.NewGitHubError("get_user", "ghost", fmt.Errorf("%w: 404", errors.ErrNotFound))

		src := &MockProfileSource{}
		src.On("GetUser", mock.Anything, "ghost").Return(nil, notFound)
		src.On("ListRepositories", mock.Anything, "ghost").Return([]models.RepositoryRecord{}, nil).Maybe()
		src.On("GetPinnedRepositories", mock.Anything, "ghost").Return([]string{}, nil).Maybe()
		history := &MockHistoryStore{}

		svc := New(src, history, nil)

		_, err := svc.Analyze(context.Background(), "ghost")
		require.Error(t, err)
		assert.True(t, errors.Is(err, errors.ErrNotFound))
		history.AssertNotCalled(t, "SaveAnalysis", mock.Anything, mock.Anything)
	})

	t.Run("pinned failures are not fatal", func(t *testing.T) {
		src := sampleSource("sample", nil, fmt.Errorf("graphql unavailable"))
		svc := New(src, nil, nil, WithClock(fixedClock))

		report, err := svc.Analyze(context.Background(), "sample")
		require.NoError(t, err)

		// falls back to the most starred originals
		assert.Equal(t, []string{
			"api-gateway - Production-grade HTTP gateway with auth",
			"dashboard - React dashboard for gateway metrics",
			"scratch - No description",
		}, report.ProfileMetrics.PinnedRepoSummary)
	})

	t.Run("history failures are not fatal", func(t *testing.T) {
		src := sampleSource("sample", nil, nil)
		history := &MockHistoryStore{}
		history.On("SaveAnalysis", mock.Anything, mock.Anything).Return(errors.NewDatabaseError("save_analysis", fmt.Errorf("connection refused")))

		svc := New(src, history, nil, WithClock(fixedClock))

		report, err := svc.Analyze(context.Background(), "sample")
		require.NoError(t, err)
		assert.Equal(t, "sample", report.ProfileMetrics.Username)
	})

	t.Run("missing account creation date", func(t *testing.T) {
		user := testutil.SampleUser("sample")
		user.CreatedAt = time.Time{}

		src := &MockProfileSource{}
		src.On("GetUser", mock.Anything, "sample").Return(user, nil)
		src.On("ListRepositories", mock.Anything, "sample").Return([]models.RepositoryRecord{}, nil)
		src.On("GetPinnedRepositories", mock.Anything, "sample").Return([]string{}, nil)

		svc := New(src, nil, nil)

		_, err := svc.Analyze(context.Background(), "sample")
		require.Error(t, err)
		assert.True(t, errors.Is(err, errors.ErrMissingData))
	})

	t.Run("deterministic with a fixed clock", func(t *testing.T) {
		svc := New(sampleSource("sample", []string{"scratch"}, nil), nil, nil, WithClock(fixedClock))

		first, err := svc.Analyze(context.Background(), "sample")
		require.NoError(t, err)
		second, err := svc.Analyze(context.Background(), "sample")
		require.NoError(t, err)

		a, _ := json.Marshal(first)
		b, _ := json.Marshal(second)
		assert.JSONEq(t, string(a), string(b))
	})
}

func TestAnalyzeJob(t *testing.T) {
	t.Run("requires history", func(t *testing.T) {
		svc := New(&MockProfileSource{}, nil, nil)

		_, err := svc.AnalyzeJob(context.Background(), "sample", "job-1")
		assert.ErrorIs(t, err, errors.ErrHistoryDisabled)
	})

	t.Run("records under the job id", func(t *testing.T) {
		history := &MockHistoryStore{}
		history.On("SaveAnalysis", mock.Anything, mock.MatchedBy(func(rec *models.AnalysisRecord) bool {
			return rec.JobID == "job-1"
		})).Run(func(args mock.Arguments) {
			args.Get(1).(*models.AnalysisRecord).ID = 7
		}).Return(nil)

		svc := New(sampleSource("sample", nil, nil), history, nil, WithClock(fixedClock))

		rec, err := svc.AnalyzeJob(context.Background(), "sample", "job-1")
		require.NoError(t, err)
		assert.Equal(t, int64(7), rec.ID)
		assert.Equal(t, "sample", rec.Username)

		var report map[string]any
		require.NoError(t, json.Unmarshal(rec.Report, &report))
		assert.Equal(t, float64(rec.OverallScore), report["profileMetrics"].(map[string]any)["overallScore"])
	})

	t.Run("save failures fail the job", func(t *testing.T) {
		history := &MockHistoryStore{}
		history.On("SaveAnalysis", mock.Anything, mock.Anything).Return(errors.NewDatabaseError("save_analysis", fmt.Errorf("disk full")))

		svc := New(sampleSource("sample", nil, nil), history, nil, WithClock(fixedClock))

		_, err := svc.AnalyzeJob(context.Background(), "sample", "job-1")
		assert.True(t, errors.Is(err, errors.ErrDatabase))
	})
}

func TestHistory(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		limit     int
		wantUser  string
		wantLimit int
	}{
		{"default limit", "octocat", 0, "octocat", DefaultHistoryLimit},
		{"explicit limit", "octocat", 3, "octocat", 3},
		{"capped limit", "octocat", 500, "octocat", MaxHistoryLimit},
		{"profile url", "https://github.com/octocat", 5, "octocat", 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			history := &MockHistoryStore{}
			history.On("ListAnalyses", mock.Anything, tt.wantUser, tt.wantLimit).Return([]models.AnalysisRecord{{ID: 1}}, nil).Once()

			svc := New(&MockProfileSource{}, history, nil)

			records, err := svc.History(context.Background(), tt.input, tt.limit)
			require.NoError(t, err)
			assert.Len(t, records, 1)
			history.AssertExpectations(t)
		})
	}

	t.Run("disabled", func(t *testing.T) {
		svc := New(&MockProfileSource{}, nil, nil)
		assert.False(t, svc.HistoryEnabled())

		_, err := svc.History(context.Background(), "octocat", 1)
		assert.ErrorIs(t, err, errors.ErrHistoryDisabled)

		_, err = svc.GetAnalysisByJob(context.Background(), "job-1")
		assert.ErrorIs(t, err, errors.ErrHistoryDisabled)

		assert.NoError(t, svc.Close())
	})

	t.Run("invalid username", func(t *testing.T) {
		svc := New(&MockProfileSource{}, &MockHistoryStore{}, nil)

		_, err := svc.History(context.Background(), "-bad-", 1)
		assert.ErrorIs(t, err, errors.ErrInvalidInput)
	})
}

func TestRateLimit(t *testing.T) {
	svc := New(&MockProfileSource{}, nil, nil)

	info := svc.RateLimit()
	assert.Equal(t, 5000, info.Limit)
	assert.Equal(t, 1000, info.Remaining)
}

func TestAnalyzeWithPostgresHistory(t *testing.T) {
	pg := testutil.SetupPostgres(t)
	ctx := context.Background()
	require.NoError(t, pg.Truncate(ctx, "analyses"))

	svc := New(sampleSource("sample", []string{"api-gateway"}, nil), pg.DB, nil, WithClock(fixedClock))

	report, err := svc.Analyze(ctx, "sample")
	require.NoError(t, err)

	rec, err := svc.AnalyzeJob(ctx, "https://github.com/sample", "job-42")
	require.NoError(t, err)

	records, err := svc.History(ctx, "SAMPLE", 10)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, rec.ID, records[0].ID)
	assert.Equal(t, report.ProfileMetrics.OverallScore, records[1].OverallScore)

	byJob, err := svc.GetAnalysisByJob(ctx, "job-42")
	require.NoError(t, err)
	assert.Equal(t, rec.ID, byJob.ID)
	assert.Equal(t, report.ProfileMetrics.Grade, byJob.Grade)
}
