package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"github-profile-analyzer/internal/insight"
	"github-profile-analyzer/internal/metrics"
)

type outputFormat string

const (
	formatTable outputFormat = "table"
	formatJSON  outputFormat = "json"
)

func parseFormat(s string) (outputFormat, error) {
	switch f := outputFormat(strings.ToLower(strings.TrimSpace(s))); f {
	case formatTable, formatJSON:
		return f, nil
	default:
		return "", fmt.Errorf("unsupported output format %q (want table or json)", s)
	}
}

// Colors for grades and red flag severities
var (
	strongColor   = color.New(color.FgGreen, color.Bold)
	goodColor     = color.New(color.FgCyan)
	moderateColor = color.New(color.FgYellow)
	weakColor     = color.New(color.FgRed, color.Bold)
)

func gradeLabel(grade string) string {
	switch {
	case strings.HasPrefix(grade, "A"):
		return strongColor.Sprint(grade)
	case strings.HasPrefix(grade, "B"):
		return goodColor.Sprint(grade)
	case strings.HasPrefix(grade, "C"):
		return moderateColor.Sprint(grade)
	default:
		return weakColor.Sprint(grade)
	}
}

func severityLabel(severity string) string {
	switch severity {
	case "High":
		return weakColor.Sprint(severity)
	case "Medium":
		return moderateColor.Sprint(severity)
	default:
		return goodColor.Sprint(severity)
	}
}

func writeReport(w io.Writer, report *insight.Report, format outputFormat) error {
	if format == formatJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	}
	return writeReportTable(w, report)
}

func writeReportTable(w io.Writer, report *insight.Report) error {
	m := report.ProfileMetrics

	if _, err := fmt.Fprintf(w, "%s  score %d/100  grade %s\n\n", m.Username, m.OverallScore, gradeLabel(m.Grade)); err != nil {
		return err
	}

	table := tablewriter.NewWriter(w)
	table.Header([]string{"Dimension", "Weight", "Score", "Weighted"})
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	var data [][]string
	for _, d := range metrics.Dimensions() {
		score := m.ScoreBreakdown.Score(d)
		data = append(data, []string{
			d.String(),
			strconv.Itoa(d.WeightPercent()) + "%",
			strconv.Itoa(score),
			fmt.Sprintf("%.2f", float64(score)*d.Weight()),
		})
	}
	data = append(data, []string{"Overall", "100%", strconv.Itoa(m.OverallScore), m.Grade})

	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	a := m.ActivityMetrics
	lines := []string{
		"",
		fmt.Sprintf("Repositories: %d public, %d stars, %d forks", a.PublicRepositories, a.TotalStars, a.TotalForks),
		fmt.Sprintf("Languages: %s", strings.Join(a.PrimaryLanguages, ", ")),
		fmt.Sprintf("Profile age: %s, last activity: %s", report.ProfileAge, report.LastCommitRecency),
		"",
		fmt.Sprintf("Verdict: %s - %s", report.RecruiterVerdict.Decision, report.RecruiterVerdict.ShortReason),
		fmt.Sprintf("Weakest dimension: %s", report.WeakestDimension),
	}
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}

	if err := writeSection(w, "Strong signals", report.StrongSignals, func(s insight.Signal) string {
		return s.Signal
	}); err != nil {
		return err
	}
	if err := writeSection(w, "Red flags", report.RedFlags, func(f insight.RedFlag) string {
		return fmt.Sprintf("[%s] %s", severityLabel(f.Severity), f.Issue)
	}); err != nil {
		return err
	}
	return writeSection(w, "Fix priorities", report.FixPriorities, func(s string) string {
		return s
	})
}

func writeSection[T any](w io.Writer, title string, items []T, format func(T) string) error {
	if len(items) == 0 {
		return nil
	}
	if _, err := fmt.Fprintf(w, "\n%s:\n", title); err != nil {
		return err
	}
	for i, item := range items {
		if _, err := fmt.Fprintf(w, "  %d. %s\n", i+1, format(item)); err != nil {
			return err
		}
	}
	return nil
}
