// Package metrics turns a GitHub user and its repositories into a weighted
// six-dimension quality score.
//
// Every function here is pure apart from the injectable clock; two calls with
// the same input and the same "now" produce identical output.
package metrics

import "time"

// Dimension identifies one of the six scored aspects of a profile
type Dimension int

const (
	Documentation Dimension = iota
	CodeStructure
	ActivityConsistency
	RepositoryOrganization
	ProjectImpact
	TechnicalDepth
)

var dimensionLabels = [...]string{
	Documentation:          "Documentation",
	CodeStructure:          "Code Structure",
	ActivityConsistency:    "Activity Consistency",
	RepositoryOrganization: "Repository Organization",
	ProjectImpact:          "Project Impact",
	TechnicalDepth:         "Technical Depth",
}

// weights in percent; they sum to 100
var dimensionWeights = [...]int{
	Documentation:          15,
	CodeStructure:          15,
	ActivityConsistency:    20,
	RepositoryOrganization: 10,
	ProjectImpact:          25,
	TechnicalDepth:         15,
}

// Dimensions returns all dimensions in their canonical order
func Dimensions() []Dimension {
	return []Dimension{
		Documentation,
		CodeStructure,
		ActivityConsistency,
		RepositoryOrganization,
		ProjectImpact,
		TechnicalDepth,
	}
}

func (d Dimension) String() string {
	return dimensionLabels[d]
}

// Weight returns the dimension's share of the overall score
func (d Dimension) Weight() float64 {
	return float64(dimensionWeights[d]) / 100
}

// WeightPercent returns Weight scaled to an integer percentage
func (d Dimension) WeightPercent() int {
	return dimensionWeights[d]
}

// ScoreBreakdown holds the six dimension scores, each in [0,100]
type ScoreBreakdown struct {
	DocumentationQuality   int `json:"documentationQuality"`
	CodeStructure          int `json:"codeStructure"`
	ActivityConsistency    int `json:"activityConsistency"`
	RepositoryOrganization int `json:"repositoryOrganization"`
	ProjectImpact          int `json:"projectImpact"`
	TechnicalDepth         int `json:"technicalDepth"`
}

// Score returns the value of a single dimension
func (b ScoreBreakdown) Score(d Dimension) int {
	switch d {
	case Documentation:
		return b.DocumentationQuality
	case CodeStructure:
		return b.CodeStructure
	case ActivityConsistency:
		return b.ActivityConsistency
	case RepositoryOrganization:
		return b.RepositoryOrganization
	case ProjectImpact:
		return b.ProjectImpact
	case TechnicalDepth:
		return b.TechnicalDepth
	}
	return 0
}

// OverallScore is the floor of the weighted sum of the six dimensions.
// Integer arithmetic keeps the result exact.
func (b ScoreBreakdown) OverallScore() int {
	sum := 0
	for _, d := range Dimensions() {
		sum += b.Score(d) * dimensionWeights[d]
	}
	return clamp(sum / 100)
}

// ActivityMetrics is an aggregate view of the profile's activity
type ActivityMetrics struct {
	PublicRepositories     int      `json:"publicRepositories"`
	ActiveInLast90Days     bool     `json:"activeInLast90Days"`
	AvgCommitsPerMonth     float64  `json:"avgCommitsPerMonth"`
	TotalStars             int      `json:"totalStars"`
	TotalForks             int      `json:"totalForks"`
	PrimaryLanguages       []string `json:"primaryLanguages"`
	TestsPresent           bool     `json:"testsPresent"`
	DeploymentLinksPresent bool     `json:"deploymentLinksPresent"`
}

// ProfileMetrics is the complete scoring result for one profile. It is the
// only input of the insight synthesizer and is never modified once built.
type ProfileMetrics struct {
	Username          string          `json:"username"`
	OverallScore      int             `json:"overallScore"`
	Grade             string          `json:"grade"`
	ScoreBreakdown    ScoreBreakdown  `json:"scoreBreakdown"`
	ActivityMetrics   ActivityMetrics `json:"activityMetrics"`
	PinnedRepoSummary []string        `json:"pinnedRepoSummary"`
	TopRepoSummary    []string        `json:"topRepoSummary"`
	LastActivityDate  string          `json:"lastActivityDate"`
	CreatedAt         string          `json:"createdAt"`
}

// Grade maps an overall score to a letter grade
func Grade(score int) string {
	switch {
	case score >= 90:
		return "A+"
	case score >= 80:
		return "A"
	case score >= 70:
		return "B+"
	case score >= 60:
		return "B"
	case score >= 50:
		return "C+"
	case score >= 40:
		return "C"
	default:
		return "D"
	}
}

// MonthsBetween counts the complete calendar months from "from" to "to".
// A month only counts once the day and time of month have been reached.
func MonthsBetween(from, to time.Time) int {
	from, to = from.UTC(), to.UTC()
	if to.Before(from) {
		return -MonthsBetween(to, from)
	}

	months := (to.Year()-from.Year())*12 + int(to.Month()) - int(from.Month())
	if months > 0 && dayTimeBefore(to, from) {
		months--
	}
	return months
}

// dayTimeBefore compares the day-of-month and wall clock of a and b
func dayTimeBefore(a, b time.Time) bool {
	if a.Day() != b.Day() {
		return a.Day() < b.Day()
	}
	return clockOf(a) < clockOf(b)
}

func clockOf(t time.Time) time.Duration {
	h, m, s := t.Clock()
	return time.Duration(h)*time.Hour + time.Duration(m)*time.Minute +
		time.Duration(s)*time.Second + time.Duration(t.Nanosecond())
}

func clamp(v int) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
