package metrics

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	"github-profile-analyzer/internal/errors"
	"github-profile-analyzer/internal/models"

	"github.com/montanaflynn/stats"
)

const (
	recentPushWindow     = 90 * 24 * time.Hour
	maxPrimaryLanguages  = 5
	maxTopRepos          = 10
	maxPinnedFallback    = 6
	goodDescriptionChars = 20

	// commits assumed per repository when estimating monthly activity
	commitsPerRepoEstimate = 5
)

var throwawayNameMarkers = []string{"test", "demo", "temp"}

// Engine computes ProfileMetrics
type Engine struct {
	now func() time.Time
}

// Option configures an Engine
type Option func(*Engine)

// WithClock overrides the time source used for age and recency checks
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		e.now = now
	}
}

// NewEngine creates a new metrics engine
func NewEngine(opts ...Option) *Engine {
	e := &Engine{now: time.Now}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Compute scores the user's non-fork repositories. The user record and its
// creation date are required; an empty repository list is valid and scores 0.
func (e *Engine) Compute(user *models.UserRecord, repos []models.RepositoryRecord) (*ProfileMetrics, error) {
	if user == nil {
		return nil, errors.NewMissingDataError("", "user")
	}
	if user.CreatedAt.IsZero() {
		return nil, errors.NewMissingDataError(user.Login, "created_at")
	}

	now := e.now().UTC()
	original := originalRepos(repos)

	breakdown := ScoreBreakdown{
		DocumentationQuality:   documentationScore(original),
		CodeStructure:          codeStructureScore(original),
		ActivityConsistency:    activityScore(user, original, now),
		RepositoryOrganization: organizationScore(original),
		ProjectImpact:          impactScore(original),
		TechnicalDepth:         technicalDepthScore(original),
	}
	overall := breakdown.OverallScore()

	return &ProfileMetrics{
		Username:          user.Login,
		OverallScore:      overall,
		Grade:             Grade(overall),
		ScoreBreakdown:    breakdown,
		ActivityMetrics:   activityMetrics(user, original, now),
		PinnedRepoSummary: pinnedRepoSummary(user.Pinned, original),
		TopRepoSummary:    topRepoSummary(original),
		LastActivityDate:  formatTimestamp(user.UpdatedAt),
		CreatedAt:         formatTimestamp(user.CreatedAt),
	}, nil
}

func originalRepos(repos []models.RepositoryRecord) []models.RepositoryRecord {
	original := make([]models.RepositoryRecord, 0, len(repos))
	for _, r := range repos {
		if !r.IsFork {
			original = append(original, r)
		}
	}
	return original
}

func documentationScore(repos []models.RepositoryRecord) int {
	if len(repos) == 0 {
		return 0
	}

	var withReadme, goodDescription int
	for _, r := range repos {
		if r.HasReadme || r.Description != "" {
			withReadme++
		}
		if utf8.RuneCountInString(r.Description) > goodDescriptionChars {
			goodDescription++
		}
	}
	return clamp((50*withReadme + 50*goodDescription) / len(repos))
}

func codeStructureScore(repos []models.RepositoryRecord) int {
	if len(repos) == 0 {
		return 0
	}

	var withTopics, wellNamed int
	for _, r := range repos {
		if len(r.Topics) > 0 {
			withTopics++
		}
		if !isThrowawayName(r.Name) {
			wellNamed++
		}
	}
	return clamp((40*withTopics + 60*wellNamed) / len(repos))
}

func isThrowawayName(name string) bool {
	lower := strings.ToLower(name)
	for _, marker := range throwawayNameMarkers {
		if strings.Contains(lower, marker) {
			return true
		}
	}
	return false
}

func activityScore(user *models.UserRecord, repos []models.RepositoryRecord, now time.Time) int {
	if len(repos) == 0 {
		return 0
	}

	recent := 0
	for _, r := range repos {
		if pushedRecently(r, now) {
			recent++
		}
	}

	ageDays := int(now.Sub(user.CreatedAt).Hours() / 24)
	ageBonus := 20
	if ageDays <= 365 {
		ageBonus = max(0, ageDays*20/365)
	}

	return clamp(80*recent/len(repos) + ageBonus)
}

func pushedRecently(r models.RepositoryRecord, now time.Time) bool {
	return !r.PushedAt.IsZero() && r.PushedAt.After(now.Add(-recentPushWindow))
}

func organizationScore(repos []models.RepositoryRecord) int {
	if len(repos) == 0 {
		return 0
	}

	diversity := min(50, 10*len(distinctLanguages(repos)))
	sizeBand := 30
	if len(repos) > 5 && len(repos) < 50 {
		sizeBand = 50
	}
	return clamp(diversity + sizeBand)
}

func impactScore(repos []models.RepositoryRecord) int {
	if len(repos) == 0 {
		return 0
	}

	stars, forks := totals(repos)
	return clamp(min(50, 2*stars) + min(50, 5*forks))
}

func technicalDepthScore(repos []models.RepositoryRecord) int {
	if len(repos) == 0 {
		return 0
	}

	var score, starredWithLanguage, complexRepos int
	for _, r := range repos {
		if r.Language != "" && r.StargazerCount > 5 {
			starredWithLanguage++
		}
		if r.StargazerCount > 100 || r.ForkCount > 20 {
			complexRepos++
		}
	}
	stars, _ := totals(repos)

	switch languages := len(distinctLanguages(repos)); {
	case languages >= 5:
		score += 40
	case languages >= 3:
		score += 30
	case languages == 2:
		score += 20
	case languages == 1:
		score += 10
	}

	score += min(30, 5*starredWithLanguage)

	switch {
	case complexRepos >= 3:
		score += 30
	case complexRepos >= 1:
		score += 20
	case stars >= 50:
		score += 15
	case stars >= 10:
		score += 10
	}

	// a couple of unstarred repositories cannot demonstrate depth
	if len(repos) <= 2 && stars < 10 {
		score = min(score, 50)
	}
	return clamp(score)
}

func distinctLanguages(repos []models.RepositoryRecord) map[string]struct{} {
	langs := make(map[string]struct{})
	for _, r := range repos {
		if r.Language != "" {
			langs[r.Language] = struct{}{}
		}
	}
	return langs
}

func totals(repos []models.RepositoryRecord) (stars, forks int) {
	for _, r := range repos {
		stars += r.StargazerCount
		forks += r.ForkCount
	}
	return stars, forks
}

func activityMetrics(user *models.UserRecord, repos []models.RepositoryRecord, now time.Time) ActivityMetrics {
	am := ActivityMetrics{
		PublicRepositories: user.PublicRepos,
		PrimaryLanguages:   primaryLanguages(repos),
	}
	am.TotalStars, am.TotalForks = totals(repos)

	for _, r := range repos {
		if pushedRecently(r, now) {
			am.ActiveInLast90Days = true
		}
		if strings.Contains(r.Name, "test") || r.HasTopic("testing") {
			am.TestsPresent = true
		}
		if r.HasTopic("deployment") || r.HasTopic("production") {
			am.DeploymentLinksPresent = true
		}
	}

	// There is no commit history call; five commits per repository spread
	// over the account lifetime is a deliberately coarse estimate.
	months := max(1, MonthsBetween(user.CreatedAt, now))
	avg := float64(len(repos)*commitsPerRepoEstimate) / float64(months)
	rounded, err := stats.Round(avg, 2)
	if err != nil {
		rounded = math.Round(avg*100) / 100
	}
	am.AvgCommitsPerMonth = rounded

	return am
}

// primaryLanguages ranks languages by repository count, most used first.
// Ties keep the order in which the languages were first seen.
func primaryLanguages(repos []models.RepositoryRecord) []string {
	counts := make(map[string]int)
	var order []string
	for _, r := range repos {
		if r.Language == "" {
			continue
		}
		if _, seen := counts[r.Language]; !seen {
			order = append(order, r.Language)
		}
		counts[r.Language]++
	}

	sort.SliceStable(order, func(i, j int) bool {
		return counts[order[i]] > counts[order[j]]
	})

	if len(order) > maxPrimaryLanguages {
		order = order[:maxPrimaryLanguages]
	}
	if order == nil {
		return []string{}
	}
	return order
}

func byStarsDesc(repos []models.RepositoryRecord) []models.RepositoryRecord {
	sorted := make([]models.RepositoryRecord, len(repos))
	copy(sorted, repos)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].StargazerCount > sorted[j].StargazerCount
	})
	return sorted
}

func topRepoSummary(repos []models.RepositoryRecord) []string {
	sorted := byStarsDesc(repos)
	summary := make([]string, 0, min(maxTopRepos, len(sorted)))
	for _, r := range sorted {
		if len(summary) == maxTopRepos {
			break
		}
		language := r.Language
		if language == "" {
			language = "Unknown"
		}
		summary = append(summary, fmt.Sprintf("%s (%d stars, %d forks) - %s", r.Name, r.StargazerCount, r.ForkCount, language))
	}
	return summary
}

// pinnedRepoSummary describes the pinned repositories in display order. When
// the profile pins nothing, the most starred repositories stand in for them.
func pinnedRepoSummary(pinned []string, repos []models.RepositoryRecord) []string {
	summary := []string{}

	if len(pinned) == 0 {
		for i, r := range byStarsDesc(repos) {
			if i == maxPinnedFallback {
				break
			}
			summary = append(summary, describeRepo(r))
		}
		return summary
	}

	byName := make(map[string]models.RepositoryRecord, len(repos))
	for _, r := range repos {
		byName[r.Name] = r
	}
	for _, name := range pinned {
		if r, ok := byName[name]; ok {
			summary = append(summary, describeRepo(r))
		}
	}
	return summary
}

func describeRepo(r models.RepositoryRecord) string {
	description := r.Description
	if description == "" {
		description = "No description"
	}
	return r.Name + " - " + description
}

func formatTimestamp(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}
