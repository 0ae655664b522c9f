package insight

import (
	"fmt"
	"strings"

	"github-profile-analyzer/internal/metrics"
)

func executiveSummary(m *metrics.ProfileMetrics) string {
	score := m.OverallScore
	repos := m.ActivityMetrics.PublicRepositories
	active := m.ActivityMetrics.ActiveInLast90Days

	switch {
	case score >= 75 && active:
		level := "intermediate"
		if score >= 80 {
			level = "advanced"
		}
		return fmt.Sprintf("Strong candidate with %d well-maintained repositories. "+
			"Clear evidence of technical competency and professional development practices. "+
			"Portfolio demonstrates %s-level engineering maturity with %d community stars.",
			repos, level, m.ActivityMetrics.TotalStars)
	case score >= 60:
		potential, readiness := "moderate", "Nearly ready"
		if active {
			potential, readiness = "solid", "Ready"
		}
		return fmt.Sprintf("Developing portfolio with %d repositories showing %s potential. "+
			"Core technical skills evident but needs stronger documentation and project polish. "+
			"%s for internship roles with mentorship.",
			repos, potential, readiness)
	case score >= 40:
		return fmt.Sprintf("Early-stage portfolio with %d repositories. "+
			"Basic technical foundation present but significant gaps in professional practices. "+
			"Requires 30-60 days of focused improvement before recruiter consideration.",
			repos)
	default:
		return fmt.Sprintf("Portfolio needs substantial development. %d repositories lack professional structure, "+
			"documentation, and clear project narratives. Not currently competitive for technical roles.",
			repos)
	}
}

func overallAssessment(m *metrics.ProfileMetrics) OverallAssessment {
	score := m.OverallScore
	stars := m.ActivityMetrics.TotalStars

	a := OverallAssessment{
		PortfolioStrength: band(score, []threshold{{80, "Very Strong"}, {60, "Strong"}, {40, "Developing"}}, "Weak"),
		EngineeringLevel:  band(score, []threshold{{70, "Advanced"}, {50, "Intermediate"}}, "Beginner"),
		HireReadiness:     band(score, []threshold{{75, "Job Ready"}, {60, "Internship Ready"}, {40, "Needs Improvement"}}, "Not Ready"),
	}

	activity := "irregular"
	if m.ActivityMetrics.ActiveInLast90Days {
		activity = "consistent recent"
	}
	signals := band(score, []threshold{{70, "strong hiring signals"}, {50, "moderate but need improvement"}}, "below hiring threshold")

	validation := "Limited external validation."
	switch {
	case stars > 50:
		validation = "Strong community validation."
	case stars > 10:
		validation = "Some community recognition."
	}

	a.ConfidenceReasoning = fmt.Sprintf("Profile shows %d repositories with %s activity. "+
		"Documentation quality (%d/100) and technical depth (%d/100) are %s. "+
		"Community engagement: %d stars. %s",
		m.ActivityMetrics.PublicRepositories,
		activity,
		m.ScoreBreakdown.DocumentationQuality,
		m.ScoreBreakdown.TechnicalDepth,
		signals,
		stars,
		validation)

	return a
}

func whatRecruitersNoticeFirst(m *metrics.ProfileMetrics) []string {
	notices := make([]string, 0, 3)

	if m.ActivityMetrics.ActiveInLast90Days {
		notices = append(notices, "✓ Active contributor - commits within last 90 days")
	} else {
		notices = append(notices, "⚠ Inactive profile - no recent commits")
	}

	switch doc := m.ScoreBreakdown.DocumentationQuality; {
	case doc >= 70:
		notices = append(notices, "✓ Strong documentation - clear READMEs present")
	case doc >= 40:
		notices = append(notices, "⚠ Basic documentation - needs improvement")
	default:
		notices = append(notices, "✗ Weak documentation - hard to understand projects")
	}

	switch {
	case m.ActivityMetrics.TotalStars > 50:
		notices = append(notices, fmt.Sprintf("✓ Community validation - %d stars across projects", m.ActivityMetrics.TotalStars))
	case m.ActivityMetrics.PublicRepositories >= 10:
		notices = append(notices, fmt.Sprintf("○ %d repositories - needs clearer flagship project", m.ActivityMetrics.PublicRepositories))
	default:
		notices = append(notices, "⚠ Limited portfolio - needs more substantial projects")
	}

	return notices
}

func strongSignals(m *metrics.ProfileMetrics) []Signal {
	signals := []Signal{}
	stars := m.ActivityMetrics.TotalStars
	langs := m.ActivityMetrics.PrimaryLanguages

	if m.ActivityMetrics.ActiveInLast90Days {
		signals = append(signals, Signal{
			Signal:       "Recent Consistent Activity",
			WhyItMatters: "Active in last 90 days signals current engagement and learning. Recruiters prioritize candidates who code regularly over those with stale profiles.",
		})
	}

	switch {
	case stars > 50:
		signals = append(signals, Signal{
			Signal:       "Strong Community Validation",
			WhyItMatters: fmt.Sprintf("%d stars demonstrate that projects solve real problems and provide value to other developers. This is rare among student portfolios.", stars),
		})
	case stars > 10:
		signals = append(signals, Signal{
			Signal:       "Community Recognition",
			WhyItMatters: fmt.Sprintf("%d stars show some external validation. While modest, this indicates projects have utility beyond personal learning.", stars),
		})
	}

	switch {
	case len(langs) >= 4:
		signals = append(signals, Signal{
			Signal: "Multi-Language Technical Breadth",
			WhyItMatters: fmt.Sprintf("Proficiency across %d languages (%s) demonstrates adaptability and strong fundamentals. Valuable for teams with diverse tech stacks.",
				len(langs), strings.Join(langs[:3], ", ")),
		})
	case len(langs) >= 2:
		signals = append(signals, Signal{
			Signal:       "Multi-Language Experience",
			WhyItMatters: fmt.Sprintf("Experience with %d languages shows willingness to learn new technologies.", len(langs)),
		})
	}

	switch doc := m.ScoreBreakdown.DocumentationQuality; {
	case doc >= 75:
		signals = append(signals, Signal{
			Signal:       "Professional Documentation Standards",
			WhyItMatters: "Comprehensive READMEs with setup instructions, architecture details, and clear descriptions indicate professional habits. This is uncommon in student portfolios and highly valued by hiring managers.",
		})
	case doc >= 60:
		signals = append(signals, Signal{
			Signal:       "Good Documentation Practices",
			WhyItMatters: "Solid documentation shows understanding that code must be maintainable and accessible to teams.",
		})
	}

	if m.ScoreBreakdown.ProjectImpact >= 70 {
		signals = append(signals, Signal{
			Signal:       "High-Impact Project Portfolio",
			WhyItMatters: "Projects demonstrate real-world relevance, not just tutorial completion. Recruiters look for evidence of independent problem-solving.",
		})
	}

	return signals
}

func redFlags(m *metrics.ProfileMetrics) []RedFlag {
	flags := []RedFlag{}
	repos := m.ActivityMetrics.PublicRepositories

	if !m.ActivityMetrics.ActiveInLast90Days {
		flags = append(flags, RedFlag{
			Issue:    "No Recent Activity",
			Impact:   "Suggests profile may be outdated or candidate is not actively coding",
			Severity: "High",
		})
	}
	if repos < 5 {
		flags = append(flags, RedFlag{
			Issue:    "Limited Portfolio Size",
			Impact:   "Insufficient projects to demonstrate consistent skill and experience",
			Severity: "Medium",
		})
	}
	if m.ScoreBreakdown.DocumentationQuality < 40 {
		flags = append(flags, RedFlag{
			Issue:    "Poor Documentation",
			Impact:   "Lack of READMEs and descriptions makes it hard to understand project value",
			Severity: "Medium",
		})
	}
	if m.ActivityMetrics.TotalStars == 0 && repos > 5 {
		flags = append(flags, RedFlag{
			Issue:    "No Community Engagement",
			Impact:   "Projects lack external validation or may not be solving real problems",
			Severity: "Low",
		})
	}

	return flags
}

func recruiterVerdict(m *metrics.ProfileMetrics) RecruiterVerdict {
	score := m.OverallScore
	doc := m.ScoreBreakdown.DocumentationQuality
	impact := m.ScoreBreakdown.ProjectImpact
	stars := m.ActivityMetrics.TotalStars
	active := m.ActivityMetrics.ActiveInLast90Days

	switch {
	case score >= 80 && doc >= 70 && active && stars >= 50:
		return RecruiterVerdict{
			Decision:    "Strong Hire",
			ShortReason: "Excellent portfolio with strong documentation, community validation, and consistent activity",
		}
	case score >= 65 && doc >= 50 && active:
		return RecruiterVerdict{
			Decision:    "Hire",
			ShortReason: "Solid portfolio with good fundamentals and active development",
		}
	case score >= 50:
		v := RecruiterVerdict{Decision: "Maybe"}
		switch {
		case doc < 50:
			v.ShortReason = "Potential evident but weak documentation reduces confidence"
		case !active:
			v.ShortReason = "Good work shown but recent inactivity raises concerns"
		case impact < 40:
			v.ShortReason = "Active developer but lacks clear flagship project or impact"
		default:
			v.ShortReason = "Borderline candidate - needs stronger portfolio signals"
		}
		return v
	}

	var gaps []string
	if doc < 40 {
		gaps = append(gaps, "weak documentation")
	}
	if !active {
		gaps = append(gaps, "inactive profile")
	}
	if impact < 30 {
		gaps = append(gaps, "no flagship project")
	}
	if stars < 5 {
		gaps = append(gaps, "limited community validation")
	}

	v := RecruiterVerdict{Decision: "Not Ready"}
	if len(gaps) == 0 {
		v.ShortReason = "Portfolio needs significant improvement across multiple areas"
	} else {
		v.ShortReason = "Not shortlist-ready due to: " + strings.Join(gaps, "; ")
	}
	return v
}

func recruiterRiskSummary(m *metrics.ProfileMetrics) string {
	score := m.OverallScore
	if score >= 75 {
		return "Recruiter Risk Level: Minimal (High Performing Profile)"
	}

	var risks []string
	if m.ScoreBreakdown.DocumentationQuality < 40 {
		risks = append(risks, "weak documentation")
	}
	if m.ScoreBreakdown.ProjectImpact < 30 {
		risks = append(risks, "low impact")
	}
	// dormancy is reported by contributionConsistency; only flag it here for very weak profiles
	if !m.ActivityMetrics.ActiveInLast90Days && score < 30 {
		risks = append(risks, "inactive profile")
	}
	if score < 50 {
		risks = append(risks, "low overall score")
	}

	var level string
	switch {
	case len(risks) >= 3:
		level = "High"
	case len(risks) == 2:
		level = "Moderate"
	case len(risks) == 1:
		level = "Low"
	default:
		return "Recruiter Risk Level: Minimal (strong portfolio signals)"
	}
	return fmt.Sprintf("Recruiter Risk Level: %s (due to %s)", level, strings.Join(risks, " & "))
}

func confidenceLevel(score int) string {
	return band(score, []threshold{{70, "High"}, {50, "Moderate"}}, "Low")
}

func engineeringMaturity(score int) string {
	return band(score, []threshold{{75, "🚀 Production-Ready Engineer"}, {55, "🛠 Developing Engineer"}}, "🧱 Beginner Portfolio")
}

type threshold struct {
	min   int
	label string
}

// band returns the label of the first threshold that v reaches. Thresholds
// must be listed from highest to lowest.
func band(v int, thresholds []threshold, fallback string) string {
	for _, t := range thresholds {
		if v >= t.min {
			return t.label
		}
	}
	return fallback
}
