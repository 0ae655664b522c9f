package insight

import "github-profile-analyzer/internal/metrics"

// Report is the full narrative assessment of a profile. Field names are part
// of the public JSON contract.
type Report struct {
	ExecutiveSummary              string                   `json:"executiveSummary"`
	OverallAssessment             OverallAssessment        `json:"overallAssessment"`
	WhatRecruitersNoticeFirst     []string                 `json:"whatRecruitersNoticeFirst"`
	StrongSignals                 []Signal                 `json:"strongSignals"`
	RedFlags                      []RedFlag                `json:"redFlags"`
	RepositoryStrategy            RepositoryStrategy       `json:"repositoryStrategy"`
	ImpactAndDiscoverability      ImpactAndDiscoverability `json:"impactAndDiscoverability"`
	RecruiterVerdict              RecruiterVerdict         `json:"recruiterVerdict"`
	RecruiterRiskSummary          string                   `json:"recruiterRiskSummary"`
	FlagshipProject               string                   `json:"flagshipProject"`
	ConfidenceLevel               string                   `json:"confidenceLevel"`
	FixPriorities                 []string                 `json:"fixPriorities"`
	CompletenessStats             CompletenessStats        `json:"completenessStats"`
	ScoreSimulation               ScoreSimulation          `json:"scoreSimulation"`
	Top3StrongestRepos            []string                 `json:"top3StrongestRepos"`
	WeakestDimension              string                   `json:"weakestDimension"`
	SkillCategories               SkillCategories          `json:"skillCategories"`
	ContributionConsistency       string                   `json:"contributionConsistency"`
	LanguageFocus                 string                   `json:"languageFocus"`
	RepositoryNoiseCount          int                      `json:"repositoryNoiseCount"`
	EngineeringMaturity           string                   `json:"engineeringMaturity"`
	CommitQuality                 string                   `json:"commitQuality"`
	ProfileAge                    string                   `json:"profileAge"`
	LastCommitRecency             string                   `json:"lastCommitRecency"`
	TechStackEvaluation           TechStackEvaluation      `json:"techStackEvaluation"`
	UIUXEvaluation                UIUXEvaluation           `json:"uiUxEvaluation"`
	ThirtyDayActionPlan           ThirtyDayActionPlan      `json:"thirtyDayActionPlan"`
	ThreeImmediateHighImpactFixes []string                 `json:"threeImmediateHighImpactFixes"`
	ResumeReadyProfileSummary     string                   `json:"resumeReadyProfileSummary"`
	ProfileMetrics                *metrics.ProfileMetrics  `json:"profileMetrics"`
}

// OverallAssessment is the headline judgement of the portfolio
type OverallAssessment struct {
	PortfolioStrength   string `json:"portfolioStrength"`
	EngineeringLevel    string `json:"engineeringLevel"`
	HireReadiness       string `json:"hireReadiness"`
	ConfidenceReasoning string `json:"confidenceReasoning"`
}

// Signal is a positive finding with the reason recruiters value it
type Signal struct {
	Signal       string `json:"signal"`
	WhyItMatters string `json:"whyItMatters"`
}

// RedFlag is a recruiter concern. Severity is one of High, Medium or Low
type RedFlag struct {
	Issue    string `json:"issue"`
	Impact   string `json:"impact"`
	Severity string `json:"severity"`
}

// RepositoryStrategy groups repositories by what to do with them next
type RepositoryStrategy struct {
	HighlightThese    []string `json:"highlightThese"`
	ImproveThese      []string `json:"improveThese"`
	ConsiderArchiving []string `json:"considerArchiving"`
}

// ImpactAndDiscoverability rates business relevance and community reach
type ImpactAndDiscoverability struct {
	BusinessRelevance   string `json:"businessRelevance"`
	CommunityValidation string `json:"communityValidation"`
	ProductionReadiness string `json:"productionReadiness"`
}

// RecruiterVerdict is the shortlist call. Decision is one of Strong Hire, Hire, Maybe or Not Ready
type RecruiterVerdict struct {
	Decision    string `json:"decision"`
	ShortReason string `json:"shortReason"`
}

// CompletenessStats counts repositories that meet the professional standard
type CompletenessStats struct {
	ProfessionalRepos int    `json:"professionalRepos"`
	TotalRepos        int    `json:"totalRepos"`
	Message           string `json:"message"`
}

// ScoreSimulation projects the overall score after fixing the weakest dimension
type ScoreSimulation struct {
	CurrentScore   int    `json:"currentScore"`
	FocusArea      string `json:"focusArea"`
	ProjectedScore int    `json:"projectedScore"`
	ProjectedGrade string `json:"projectedGrade"`
	Message        string `json:"message"`
}

// SkillCategories buckets the primary languages by discipline
type SkillCategories struct {
	Backend   []string `json:"backend"`
	Frontend  []string `json:"frontend"`
	Mobile    []string `json:"mobile"`
	Scripting []string `json:"scripting"`
	Other     []string `json:"other"`
}

// TechStackEvaluation is general architecture and best-practice advice
type TechStackEvaluation struct {
	BackendArchitectureQuality     string   `json:"backendArchitectureQuality"`
	FrontendArchitectureQuality    string   `json:"frontendArchitectureQuality"`
	MissingBestPractices           []string `json:"missingBestPractices"`
	BackendImprovementSuggestions  []string `json:"backendImprovementSuggestions"`
	FrontendImprovementSuggestions []string `json:"frontendImprovementSuggestions"`
}

// UIUXEvaluation is general interface and design advice
type UIUXEvaluation struct {
	UIThemeAssessment      string   `json:"uiThemeAssessment"`
	LayoutClarity          string   `json:"layoutClarity"`
	DesignConsistency      string   `json:"designConsistency"`
	ImprovementSuggestions []string `json:"improvementSuggestions"`
}

// ThirtyDayActionPlan is a week-by-week roadmap chosen by overall score
type ThirtyDayActionPlan struct {
	Week1 string `json:"week1"`
	Week2 string `json:"week2"`
	Week3 string `json:"week3"`
	Week4 string `json:"week4"`
}
