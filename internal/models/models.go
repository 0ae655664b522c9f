package models

import (
	"encoding/json"
	"time"
)

// UserRecord represents a GitHub user profile as returned by the data source
type UserRecord struct {
	Login       string    `json:"login"`
	Name        string    `json:"name"`
	Bio         string    `json:"bio"`
	PublicRepos int       `json:"public_repos"`
	Followers   int       `json:"followers"`
	Following   int       `json:"following"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	// Pinned holds the names of the repositories pinned on the profile, in display order.
	Pinned []string `json:"pinned,omitempty"`
}

// RepositoryRecord represents a single GitHub repository owned by the user.
// Zero timestamps and empty strings mean the value was absent upstream.
type RepositoryRecord struct {
	Name           string    `json:"name"`
	FullName       string    `json:"full_name"`
	Description    string    `json:"description"`
	IsFork         bool      `json:"fork"`
	StargazerCount int       `json:"stargazers_count"`
	ForkCount      int       `json:"forks_count"`
	OpenIssueCount int       `json:"open_issues_count"`
	Language       string    `json:"language"`
	Topics         []string  `json:"topics"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
	PushedAt       time.Time `json:"pushed_at"`
	Size           int       `json:"size"`
	DefaultBranch  string    `json:"default_branch"`
	HasReadme      bool      `json:"has_readme"`
	HasTests       bool      `json:"has_tests"`
	HasDeployment  bool      `json:"has_deployment"`
}

// HasTopic reports whether the repository carries the given topic
func (r RepositoryRecord) HasTopic(topic string) bool {
	for _, t := range r.Topics {
		if t == topic {
			return true
		}
	}
	return false
}

// AnalysisRecord is a stored analysis result
type AnalysisRecord struct {
	ID           int64           `json:"id" db:"id"`
	Username     string          `json:"username" db:"username"`
	OverallScore int             `json:"overall_score" db:"overall_score"`
	Grade        string          `json:"grade" db:"grade"`
	JobID        string          `json:"job_id,omitempty" db:"job_id"`
	Report       json.RawMessage `json:"report" db:"report"`
	CreatedAt    time.Time       `json:"created_at" db:"created_at"`
}

// RateLimitInfo stores GitHub API rate limit information
type RateLimitInfo struct {
	Remaining int       `json:"remaining"`
	Reset     time.Time `json:"reset"`
	Limit     int       `json:"limit"`
}
