package insight

import (
	"fmt"
	"strings"

	"github-profile-analyzer/internal/metrics"
)

func techStackEvaluation() TechStackEvaluation {
	return TechStackEvaluation{
		BackendArchitectureQuality:  "Structured",
		FrontendArchitectureQuality: "Structured",
		MissingBestPractices: []string{
			"Comprehensive test coverage",
			"CI/CD pipeline configuration",
			"API documentation (OpenAPI/Swagger)",
			"Docker containerization",
		},
		BackendImprovementSuggestions: []string{
			"Add unit and integration tests",
			"Implement proper error handling and logging",
			"Use dependency injection patterns",
			"Add API versioning strategy",
		},
		FrontendImprovementSuggestions: []string{
			"Implement component testing",
			"Add loading and error states",
			"Optimize bundle size",
			"Ensure accessibility compliance",
		},
	}
}

func uiUxEvaluation() UIUXEvaluation {
	return UIUXEvaluation{
		UIThemeAssessment: "Professional",
		LayoutClarity:     "Clear",
		DesignConsistency: "High",
		ImprovementSuggestions: []string{
			"Add micro-animations for better user engagement",
			"Implement skeleton loading states",
			"Ensure mobile responsiveness",
			"Add dark mode support",
		},
	}
}

func thirtyDayActionPlan(score int) ThirtyDayActionPlan {
	switch {
	case score >= 75:
		return ThirtyDayActionPlan{
			Week1: "Optimize your top 3 repositories: add performance benchmarks and advanced documentation",
			Week2: "Create technical blog posts or tutorials showcasing your expertise",
			Week3: "Contribute to high-profile open source projects to increase visibility",
			Week4: "Add case studies or real-world impact metrics to your flagship projects",
		}
	case score < 60:
		return ThirtyDayActionPlan{
			Week1: "Add comprehensive READMEs to all repositories with setup instructions and screenshots",
			Week2: "Create one complete, well-documented project from scratch",
			Week3: "Add tests and CI/CD to your main projects",
			Week4: "Deploy at least one project and add the live link to README",
		}
	default:
		return ThirtyDayActionPlan{
			Week1: "Improve documentation quality across all repositories",
			Week2: "Add deployment links and live demos to showcase projects",
			Week3: "Increase commit frequency and maintain consistent activity",
			Week4: "Create one flagship project that demonstrates end-to-end skills",
		}
	}
}

func immediateFixes(m *metrics.ProfileMetrics) []string {
	fixes := []string{}
	if m.ScoreBreakdown.DocumentationQuality < 60 {
		fixes = append(fixes, "Add detailed READMEs to your top 3 repositories with setup instructions and screenshots")
	}
	if !m.ActivityMetrics.ActiveInLast90Days {
		fixes = append(fixes, "Make a commit to demonstrate current activity - update documentation or fix a small issue")
	}
	if len(m.ActivityMetrics.PrimaryLanguages) < 3 {
		fixes = append(fixes, "Start a project in a new language/framework to demonstrate learning agility")
	}
	return fixes
}

func resumeSummary(m *metrics.ProfileMetrics) string {
	langs := m.ActivityMetrics.PrimaryLanguages

	across, primary := "multiple technologies", "multiple technologies"
	if len(langs) > 0 {
		across, primary = strings.Join(langs, ", "), langs[0]
	}
	contributor := "Experienced"
	if m.ActivityMetrics.ActiveInLast90Days {
		contributor = "Active"
	}
	focus := "continuous learning and skill development"
	if m.OverallScore >= 70 {
		focus = "production-ready code and best practices"
	}

	return fmt.Sprintf("GitHub-active developer with %d public repositories across %s. "+
		"Demonstrated proficiency in %s with %d community stars. %s contributor with a focus on %s.",
		m.ActivityMetrics.PublicRepositories,
		across,
		primary,
		m.ActivityMetrics.TotalStars,
		contributor,
		focus)
}
