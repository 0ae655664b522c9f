package insight

import (
	"fmt"
	"time"

	"github-profile-analyzer/internal/metrics"
)

// accepted timestamp layouts; zone-less values are read as UTC
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
}

func parseTimestamp(s string) (time.Time, error) {
	var firstErr error
	for _, layout := range timestampLayouts {
		t, err := time.Parse(layout, s)
		if err == nil {
			return t.UTC(), nil
		}
		if firstErr == nil {
			firstErr = err
		}
	}
	return time.Time{}, firstErr
}

const dormantAfterMonths = 6

func (s *Synthesizer) contributionConsistency(m *metrics.ProfileMetrics, now time.Time) string {
	if m.LastActivityDate != "" {
		last, err := parseTimestamp(m.LastActivityDate)
		if err != nil {
			s.logger.Warn().
				Err(err).
				Str("username", m.Username).
				Str("last_activity_date", m.LastActivityDate).
				Msg("Failed to parse last activity date")
		} else if metrics.MonthsBetween(last, now) > dormantAfterMonths {
			return "❌ Dormant Profile"
		}
	}

	switch avg := m.ActivityMetrics.AvgCommitsPerMonth; {
	case avg >= 10:
		return "🔥 Highly Consistent (commits every month)"
	case avg >= 6:
		return "🟡 Moderate Activity"
	case avg >= 3:
		return "⚠ Inconsistent Activity"
	default:
		return "⚠ Low Activity"
	}
}

func (s *Synthesizer) profileAge(m *metrics.ProfileMetrics, now time.Time) string {
	const unknown = "📅 Account Age: Unknown"
	if m.CreatedAt == "" {
		return unknown
	}

	created, err := parseTimestamp(m.CreatedAt)
	if err != nil {
		s.logger.Warn().
			Err(err).
			Str("username", m.Username).
			Str("created_at", m.CreatedAt).
			Msg("Failed to parse account creation date")
		return unknown
	}

	months := max(0, metrics.MonthsBetween(created, now))
	if years := months / 12; years > 0 {
		return fmt.Sprintf("📅 Account Age: %d years, %d months", years, months%12)
	}
	return fmt.Sprintf("📅 Account Age: %d months", months)
}

func (s *Synthesizer) lastCommitRecency(m *metrics.ProfileMetrics, now time.Time) string {
	if m.LastActivityDate == "" {
		return "⏰ Last Activity: Unknown"
	}

	last, err := parseTimestamp(m.LastActivityDate)
	if err != nil {
		s.logger.Warn().
			Err(err).
			Str("username", m.Username).
			Str("last_activity_date", m.LastActivityDate).
			Msg("Failed to parse last activity date")
		return "⏰ Last Activity: Recently"
	}

	days := max(0, int(now.Sub(last).Hours()/24))

	var recency, status string
	switch {
	case days == 0:
		recency, status = "today", "✅"
	case days == 1:
		recency, status = "1 day ago", "✅"
	case days <= 14:
		recency, status = fmt.Sprintf("%d days ago", days), "✅"
	case days <= 30:
		recency, status = fmt.Sprintf("%d days ago", days), "⚠"
	case days <= 90:
		recency, status = fmt.Sprintf("%d weeks ago", days/7), "⚠"
	case days <= 180:
		recency, status = fmt.Sprintf("%d months ago", days/30), "⚠"
	default:
		recency, status = fmt.Sprintf("%d+ months ago", days/30), "❌"
	}
	return fmt.Sprintf("⏰ Last Activity: %s %s", recency, status)
}
