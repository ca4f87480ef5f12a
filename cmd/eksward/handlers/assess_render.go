package handlers

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/eksward/eksward/internal/assess"
	"github.com/eksward/eksward/internal/report"
)

// Colors matching internal/ui/progress/styles.go palette.
var (
	sumColorGreen  = lipgloss.Color("#22c55e")
	sumColorRed    = lipgloss.Color("#ef4444")
	sumColorYellow = lipgloss.Color("#eab308")
	sumColorBlue   = lipgloss.Color("#3b82f6")
	sumColorDim    = lipgloss.Color("#6b7280")
	sumColorWhite  = lipgloss.Color("#f9fafb")
)

var (
	sumTitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(sumColorWhite)

	sumSectionStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(sumColorBlue)

	sumDimStyle = lipgloss.NewStyle().
			Foreground(sumColorDim)

	sumGreenStyle = lipgloss.NewStyle().
			Foreground(sumColorGreen)

	sumYellowStyle = lipgloss.NewStyle().
			Foreground(sumColorYellow)

	sumRedStyle = lipgloss.NewStyle().
			Foreground(sumColorRed)
)

// renderAssessSummary produces the lipgloss-styled terminal summary for a
// completed assessment run.
func renderAssessSummary(result *assess.Result) string {
	var b strings.Builder
	summary := result.Summary

	b.WriteString("\n")
	b.WriteString(sumTitleStyle.Render(fmt.Sprintf("  eksward assessment: %s -> %s", summary.Region, summary.TargetVersion)))
	b.WriteString("\n")
	b.WriteString(sumDimStyle.Render("  " + strings.Repeat("═", 40)))
	b.WriteString("\n\n")

	renderClusterTable(&b, summary)
	renderClusterErrors(&b, summary)
	renderBlockingIssues(&b, result.Clusters)
	renderWorkloadHint(&b, summary)

	// Summary block
	b.WriteString("\n")
	b.WriteString(sumSectionStyle.Render("  Summary"))
	b.WriteString("\n")
	b.WriteString(sumDimStyle.Render("  " + strings.Repeat("─", 40)))
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("    Clusters:  %d total, %d ready, %d with warnings, %d blocked, %d errored\n",
		summary.TotalClusters, summary.ClustersReady, summary.ClustersWithWarnings,
		summary.ClustersBlocked, summary.ClustersErrored))
	b.WriteString("    Readiness: ")
	b.WriteString(readinessStyle(summary.OverallReadiness).Render(summary.OverallReadiness))
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("    Reports:   %s\n", result.OutputDir))

	return b.String()
}

func renderClusterTable(b *strings.Builder, summary *report.RunSummary) {
	b.WriteString(sumSectionStyle.Render("  Clusters"))
	b.WriteString("\n")

	nameWidth := len("CLUSTER")
	for _, c := range summary.Clusters {
		if len(c.ClusterName) > nameWidth {
			nameWidth = len(c.ClusterName)
		}
	}

	header := fmt.Sprintf("    %-*s  %-8s %6s %6s %6s %6s %6s %4s  %s",
		nameWidth, "CLUSTER", "VERSION", "ADDONS", "PASS", "WARN", "ERR", "UNK", "WL", "READINESS")
	b.WriteString(sumDimStyle.Render(header))
	b.WriteString("\n")

	for _, c := range summary.Clusters {
		version := c.CurrentVersion
		if version == "" {
			version = "-"
		}

		addons, pass, warn, errs, unknown := "-", "-", "-", "-", "-"
		if c.AddonSummary != nil {
			addons = strconv.Itoa(c.AddonSummary.TotalAddons)
			pass = strconv.Itoa(c.AddonSummary.Pass)
			warn = strconv.Itoa(c.AddonSummary.Warning)
			errs = strconv.Itoa(c.AddonSummary.Error)
			unknown = strconv.Itoa(c.AddonSummary.Unknown)
		}

		// Readiness goes last so its color codes cannot skew the columns.
		fmt.Fprintf(b, "    %-*s  %-8s %6s %6s %6s %6s %6s %4d  ",
			nameWidth, c.ClusterName, version, addons, pass, warn, errs, unknown, c.WorkloadWarnings)
		b.WriteString(readinessStyle(c.Readiness).Render(c.Readiness))
		b.WriteString("\n")
	}
}

func renderClusterErrors(b *strings.Builder, summary *report.RunSummary) {
	if summary.ClustersErrored == 0 {
		return
	}

	b.WriteString("\n")
	b.WriteString(sumSectionStyle.Render("  Collection Errors"))
	b.WriteString("\n")
	for _, c := range summary.Clusters {
		if c.Error == "" {
			continue
		}
		b.WriteString("    ")
		b.WriteString(sumRedStyle.Render(fmt.Sprintf("[!!] %s", c.ClusterName)))
		b.WriteString(" ")
		b.WriteString(sumDimStyle.Render(c.Error))
		b.WriteString("\n")
	}
}

func renderBlockingIssues(b *strings.Builder, clusters []report.ClusterResult) {
	total := 0
	for i := range clusters {
		if clusters[i].Compat != nil {
			total += len(clusters[i].Compat.BlockingIssues)
		}
	}
	if total == 0 {
		return
	}

	b.WriteString("\n")
	b.WriteString(sumSectionStyle.Render("  Blocking Issues"))
	b.WriteString("\n")
	for i := range clusters {
		res := &clusters[i]
		if res.Compat == nil {
			continue
		}
		for _, issue := range res.Compat.BlockingIssues {
			b.WriteString("    ")
			b.WriteString(sumRedStyle.Render(fmt.Sprintf("[!!] %s/%s", res.ClusterName, issue.AddonName)))
			b.WriteString(" ")
			b.WriteString(issue.Issue)
			b.WriteString("\n")
			b.WriteString(sumDimStyle.Render("         action: " + issue.ActionRequired))
			b.WriteString("\n")
		}
	}
}

func renderWorkloadHint(b *strings.Builder, summary *report.RunSummary) {
	total := 0
	for _, c := range summary.Clusters {
		total += c.WorkloadWarnings
	}
	if total == 0 {
		return
	}

	b.WriteString("\n")
	b.WriteString(sumYellowStyle.Render(fmt.Sprintf("  %d workload warning(s) may slow node drains", total)))
	b.WriteString(sumDimStyle.Render(" (details in the per-cluster reports)"))
	b.WriteString("\n")
}

func readinessStyle(readiness string) lipgloss.Style {
	switch readiness {
	case report.ReadinessReady:
		return sumGreenStyle
	case report.ReadinessWarnings:
		return sumYellowStyle
	case report.ReadinessBlocked:
		return sumRedStyle
	default:
		return sumDimStyle
	}
}
