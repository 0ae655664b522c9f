package insight

import (
	"fmt"
	"sort"
	"strings"

	"github-profile-analyzer/internal/metrics"
)

func repositoryStrategy(m *metrics.ProfileMetrics) RepositoryStrategy {
	s := RepositoryStrategy{
		HighlightThese:    []string{},
		ImproveThese:      []string{},
		ConsiderArchiving: []string{},
	}

	top := m.TopRepoSummary
	if len(top) == 0 {
		s.HighlightThese = append(s.HighlightThese, "Create 1-2 flagship projects to showcase")
	} else {
		for _, repo := range top[:min(3, len(top))] {
			if strings.Contains(repo, "star") || strings.Contains(repo, "fork") || strings.Contains(repo, "README") {
				s.HighlightThese = append(s.HighlightThese, repoName(repo))
			}
		}
		if len(s.HighlightThese) == 0 {
			s.HighlightThese = append(s.HighlightThese,
				"Your most starred repository (if any)",
				"Projects with clear documentation")
		}
	}

	if m.ScoreBreakdown.DocumentationQuality < 70 {
		s.ImproveThese = append(s.ImproveThese, "All repositories - add comprehensive READMEs")
	}
	if !m.ActivityMetrics.DeploymentLinksPresent {
		s.ImproveThese = append(s.ImproveThese, "Add live demo links to web projects")
	}
	if !m.ActivityMetrics.TestsPresent {
		s.ImproveThese = append(s.ImproveThese, "Add tests to demonstrate code quality")
	}
	if len(s.ImproveThese) == 0 {
		s.ImproveThese = append(s.ImproveThese,
			"Add project screenshots to READMEs",
			"Include setup/installation instructions")
	}

	switch repos := m.ActivityMetrics.PublicRepositories; {
	case repos > 15:
		s.ConsiderArchiving = append(s.ConsiderArchiving,
			"Forked repositories with no modifications",
			"Old tutorial/practice projects (>1 year inactive)",
			"Experimental repos with unclear purpose")
	case repos > 8:
		s.ConsiderArchiving = append(s.ConsiderArchiving,
			"Incomplete or abandoned projects",
			"Duplicate/similar projects")
	default:
		s.ConsiderArchiving = append(s.ConsiderArchiving,
			"Keep all repos for now - focus on improving existing ones")
	}

	return s
}

func impactAndDiscoverability(m *metrics.ProfileMetrics) ImpactAndDiscoverability {
	var d ImpactAndDiscoverability

	d.BusinessRelevance = band(m.ScoreBreakdown.ProjectImpact, []threshold{
		{70, "High - Projects demonstrate real-world application"},
		{40, "Medium - Some practical projects, needs more depth"},
	}, "Low - Limited evidence of real-world problem solving")

	stars, forks := m.ActivityMetrics.TotalStars, m.ActivityMetrics.TotalForks
	switch {
	case stars >= 100 || forks >= 20:
		d.CommunityValidation = fmt.Sprintf("Strong - %d stars, %d forks show community interest", stars, forks)
	case stars >= 20 || forks >= 5:
		d.CommunityValidation = fmt.Sprintf("Moderate - %d stars, %d forks indicate some recognition", stars, forks)
	default:
		d.CommunityValidation = fmt.Sprintf("Low - %d stars, %d forks suggest limited external validation", stars, forks)
	}

	deployed := m.ActivityMetrics.DeploymentLinksPresent
	tested := m.ActivityMetrics.TestsPresent
	doc := m.ScoreBreakdown.DocumentationQuality
	switch {
	case deployed && tested && doc >= 70:
		d.ProductionReadiness = "High - Deployed projects with tests and documentation"
	case deployed || tested || doc >= 50:
		d.ProductionReadiness = "Partial - Some production indicators present"
	default:
		d.ProductionReadiness = "Low - Missing deployment, tests, or clear documentation"
	}

	return d
}

func flagshipProject(m *metrics.ProfileMetrics) string {
	if len(m.TopRepoSummary) == 0 {
		return "No flagship project identified - create a comprehensive project to showcase"
	}
	return fmt.Sprintf("⭐ Recommended Flagship: %s", repoName(m.TopRepoSummary[0]))
}

// rankDimensions orders the dimensions by ascending score, keeping the
// canonical order between equal scores.
func rankDimensions(b metrics.ScoreBreakdown) []metrics.Dimension {
	dims := metrics.Dimensions()
	sort.SliceStable(dims, func(i, j int) bool {
		return b.Score(dims[i]) < b.Score(dims[j])
	})
	return dims
}

func fixPriorities(b metrics.ScoreBreakdown) []string {
	priorities := make([]string, 0, 3)
	for _, d := range rankDimensions(b)[:3] {
		priorities = append(priorities, fmt.Sprintf("Improve %s (Current: %d/100)", d, b.Score(d)))
	}
	return priorities
}

func weakestDimension(m *metrics.ProfileMetrics) string {
	weakest := rankDimensions(m.ScoreBreakdown)[0]

	label := "🚨 Most Critical Weakness"
	if m.OverallScore >= 65 {
		label = "Primary Optimization Area"
	}
	return fmt.Sprintf("%s: %s (%d/100)", label, weakest, m.ScoreBreakdown.Score(weakest))
}

func completenessStats(m *metrics.ProfileMetrics) CompletenessStats {
	total := m.ActivityMetrics.PublicRepositories
	doc := m.ScoreBreakdown.DocumentationQuality
	stars := m.ActivityMetrics.TotalStars
	tested := m.ActivityMetrics.TestsPresent
	active := m.ActivityMetrics.ActiveInLast90Days

	// percentage of repositories assumed to meet professional standards
	var percent int
	switch {
	case doc >= 70 && (stars >= 50 || tested || active):
		percent = 60
	case doc >= 50 && (stars >= 10 || tested || active):
		percent = 40
	case doc >= 30 && (stars >= 5 || active):
		percent = 20
	case doc >= 20:
		percent = 10
	}

	professional := total * percent / 100
	return CompletenessStats{
		ProfessionalRepos: professional,
		TotalRepos:        total,
		Message:           fmt.Sprintf("Only %d out of %d repositories meet professional standards", professional, total),
	}
}

type focusArea struct {
	name      string
	dimension metrics.Dimension
	target    int
	message   string
}

// checked in this order when several dimensions share the lowest score
var focusAreas = []focusArea{
	{"Impact", metrics.ProjectImpact, 40,
		"If one production-ready project is built and deployed, impact score could increase to %d+, raising overall grade to %s."},
	{"Documentation", metrics.Documentation, 50,
		"If you add professional READMEs with setup instructions to your top 3 repos, documentation score improves to %d+, raising overall grade to %s."},
	{"Technical Depth", metrics.TechnicalDepth, 55,
		"If you add unit tests and CI/CD configuration to your flagship project, technical depth improves to %d+, raising overall grade to %s."},
	{"Code Structure", metrics.CodeStructure, 60, ""},
	{"Organization", metrics.RepositoryOrganization, 50, ""},
	{"Activity", metrics.ActivityConsistency, 60,
		"If you maintain consistent contribution streak for 2 weeks, activity score improves to %d+, raising overall grade to %s."},
}

func scoreSimulation(m *metrics.ProfileMetrics) ScoreSimulation {
	b := m.ScoreBreakdown
	lowest := b.Score(rankDimensions(b)[0])

	area := focusAreas[len(focusAreas)-1]
	for _, fa := range focusAreas {
		if b.Score(fa.dimension) == lowest {
			area = fa
			break
		}
	}

	current := b.Score(area.dimension)
	improvement := max(10, area.target-current)
	projected := min(100, m.OverallScore+improvement*area.dimension.WeightPercent()/100)
	grade := metrics.Grade(projected)

	var message string
	if area.message != "" {
		message = fmt.Sprintf(area.message, area.target, grade)
	} else {
		message = fmt.Sprintf("If %s improves from %d to %d+, overall score could reach %d (%s).",
			area.name, current, area.target, projected, grade)
	}

	return ScoreSimulation{
		CurrentScore:   m.OverallScore,
		FocusArea:      area.name,
		ProjectedScore: projected,
		ProjectedGrade: grade,
		Message:        message,
	}
}

func top3StrongestRepos(m *metrics.ProfileMetrics) []string {
	if len(m.TopRepoSummary) == 0 {
		return []string{"No repositories to rank"}
	}

	names := make([]string, 0, 3)
	for _, repo := range m.TopRepoSummary[:min(3, len(m.TopRepoSummary))] {
		names = append(names, repoName(repo))
	}
	return names
}

// skill buckets are tested in order; a language lands in the first match
var skillKeywords = []struct {
	bucket   string
	keywords []string
}{
	{"backend", []string{"java", "python", "go", "rust", "c++", "c#", "kotlin", "scala"}},
	{"frontend", []string{"javascript", "typescript", "html", "css", "vue", "react"}},
	{"mobile", []string{"swift", "dart", "kotlin", "objective-c"}},
	{"scripting", []string{"php", "ruby", "perl", "bash", "shell"}},
}

func skillCategories(languages []string) SkillCategories {
	buckets := map[string][]string{
		"backend":   {},
		"frontend":  {},
		"mobile":    {},
		"scripting": {},
		"other":     {},
	}

	for _, lang := range languages {
		buckets[skillBucket(lang)] = append(buckets[skillBucket(lang)], lang)
	}

	return SkillCategories{
		Backend:   buckets["backend"],
		Frontend:  buckets["frontend"],
		Mobile:    buckets["mobile"],
		Scripting: buckets["scripting"],
		Other:     buckets["other"],
	}
}

func skillBucket(language string) string {
	lower := strings.ToLower(language)
	for _, sk := range skillKeywords {
		for _, kw := range sk.keywords {
			if strings.Contains(lower, kw) {
				return sk.bucket
			}
		}
	}
	return "other"
}

func languageFocus(languages []string) string {
	switch n := len(languages); {
	case n == 0:
		return "No clear language focus"
	case n == 1:
		return fmt.Sprintf("🎯 Clear Primary Stack (%s)", languages[0])
	case n == 2:
		return fmt.Sprintf("🎯 Focused Dual-Stack (%s, %s)", languages[0], languages[1])
	case n == 3:
		return fmt.Sprintf("🔧 Multi-Stack Engineer (%s, %s, %s)", languages[0], languages[1], languages[2])
	case n <= 5:
		return "🧪 Exploratory Profile (diverse tech exposure)"
	default:
		return "🧱 Fragmented Portfolio (too many minor languages)"
	}
}

func repositoryNoiseCount(m *metrics.ProfileMetrics) int {
	// share of repositories likely to be noise, by documentation quality
	percent := 10
	switch doc := m.ScoreBreakdown.DocumentationQuality; {
	case doc < 30:
		percent = 60
	case doc < 50:
		percent = 40
	case doc < 70:
		percent = 20
	}
	return max(0, m.ActivityMetrics.PublicRepositories*percent/100)
}

func commitQuality(m *metrics.ProfileMetrics) string {
	repos := m.ActivityMetrics.PublicRepositories
	if repos == 0 {
		return "No repositories to analyze"
	}

	// twelve months of the estimated monthly rate
	estimated := int(m.ActivityMetrics.AvgCommitsPerMonth * 12)
	perRepo := float64(estimated) / float64(repos)

	switch {
	case perRepo < 3:
		return fmt.Sprintf("⚠ Shallow project depth (avg %.1f commits/repo)", perRepo)
	case perRepo >= 20:
		return fmt.Sprintf("✅ Healthy project iteration depth (avg %.1f commits/repo)", perRepo)
	default:
		return fmt.Sprintf("📊 Moderate project depth (avg %.1f commits/repo)", perRepo)
	}
}
