package report

import (
	"fmt"
	"strings"

	"github.com/eksward/eksward/internal/compat"
)

// statusGlyph maps a verdict to the glyph used in markdown tables.
func statusGlyph(s compat.Status) string {
	switch s {
	case compat.StatusCompatible:
		return "✅"
	case compat.StatusUpgradeRecommended:
		return "⚠️"
	case compat.StatusUpgradeRequired:
		return "❌"
	default:
		return "❓"
	}
}

// renderMarkdown renders the human-readable per-cluster report. The output
// depends only on the result content, never on the wall clock.
func renderMarkdown(res *ClusterResult) string {
	rep := res.Compat
	var b strings.Builder

	fmt.Fprintf(&b, "# Addon Compatibility Report: %s\n\n", rep.ClusterName)

	if rep.CurrentPlatformVersion != "" {
		if res.Info != nil && res.Info.PlatformVersion != "" {
			fmt.Fprintf(&b, "**Current Version:** %s (%s)  \n", rep.CurrentPlatformVersion, res.Info.PlatformVersion)
		} else {
			fmt.Fprintf(&b, "**Current Version:** %s  \n", rep.CurrentPlatformVersion)
		}
	}
	fmt.Fprintf(&b, "**Target Version:** %s  \n", rep.TargetPlatformVersion)
	if rep.UpgradeBlocked {
		b.WriteString("**Upgrade Blocked:** ❌ YES\n\n")
	} else {
		b.WriteString("**Upgrade Blocked:** ✅ NO\n\n")
	}

	b.WriteString("## Summary\n\n")
	b.WriteString("| Total Addons | Pass | Warning | Error | Unknown |\n")
	b.WriteString("|--------------|------|---------|-------|--------|\n")
	fmt.Fprintf(&b, "| %d | %d | %d | %d | %d |\n\n",
		rep.Summary.TotalAddons, rep.Summary.Pass, rep.Summary.Warning, rep.Summary.Error, rep.Summary.Unknown)

	if len(rep.AddonAnalysis) > 0 {
		b.WriteString("## Addon Analysis\n\n")
		b.WriteString("| Addon | Installed | Status | Min Version | Max Version | Action |\n")
		b.WriteString("|-------|-----------|--------|-------------|-------------|--------|\n")
		for _, a := range rep.AddonAnalysis {
			fmt.Fprintf(&b, "| %s | %s | %s %s | %s | %s | %s |\n",
				a.AddonName, a.CurrentVersion, statusGlyph(a.Status), a.Status,
				orDash(a.MinVersion), orDash(a.MaxVersion), a.ActionRequired)
		}
		b.WriteString("\n")
	}

	if len(rep.BlockingIssues) > 0 {
		b.WriteString("## Blocking Issues\n\n")
		for _, issue := range rep.BlockingIssues {
			fmt.Fprintf(&b, "### ❌ %s\n\n", issue.AddonName)
			fmt.Fprintf(&b, "- **Issue:** %s\n", issue.Issue)
			fmt.Fprintf(&b, "- **Action Required:** %s\n\n", issue.ActionRequired)
		}
	}

	if len(res.Insights) > 0 {
		b.WriteString("## Upgrade Insights\n\n")
		b.WriteString("| Insight | Status | Recommendation |\n")
		b.WriteString("|---------|--------|----------------|\n")
		for _, in := range res.Insights {
			fmt.Fprintf(&b, "| %s | %s | %s |\n", in.Name, in.Status, orDash(in.Recommendation))
		}
		b.WriteString("\n")
	}

	if len(res.Workloads) > 0 {
		b.WriteString("## Workload Warnings\n\n")
		b.WriteString("These findings are advisory; they affect node drains, not the control-plane upgrade itself.\n\n")
		b.WriteString("| Workload | Kind | Severity | Issue |\n")
		b.WriteString("|----------|------|----------|-------|\n")
		for _, w := range res.Workloads {
			fmt.Fprintf(&b, "| %s/%s | %s | %s | %s |\n", w.Namespace, w.Name, w.Kind, w.Severity, w.Issue)
		}
		b.WriteString("\n")
	}

	if len(res.Nodegroups) > 0 {
		b.WriteString("## Nodegroups\n\n")
		b.WriteString("| Nodegroup | Version | AMI Type | Status |\n")
		b.WriteString("|-----------|---------|----------|--------|\n")
		for _, ng := range res.Nodegroups {
			fmt.Fprintf(&b, "| %s | %s | %s | %s |\n", ng.Name, ng.Version, orDash(ng.AMIType), ng.Status)
		}
		b.WriteString("\n")
	}

	return b.String()
}

// orDash keeps empty table cells readable.
func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
