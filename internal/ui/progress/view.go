package progress

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// styleFunc is a single-string styling function.
type styleFunc func(string) string

// sf wraps a lipgloss.Style into a styleFunc.
func sf(s lipgloss.Style) styleFunc {
	return func(str string) string { return s.Render(str) }
}

func renderView(m Model) string {
	var b strings.Builder

	renderHeader(&b, m)
	renderClusters(&b, m)
	renderFooter(&b, m)

	return b.String()
}

func renderHeader(b *strings.Builder, m Model) {
	title := fmt.Sprintf("eksward: upgrade assessment (%s)", m.Region)
	b.WriteString(titleStyle.Render(title))

	status := " "
	switch {
	case m.Err != nil:
		status += failedStyle.Render(fmt.Sprintf("Error: %v", m.Err))
	case m.Done && m.failed() > 0:
		status += warningStyle.Render("Done with failures")
	case m.Done:
		status += readyStyle.Render("Done")
	case len(m.Rows) > 0:
		status += activeStyle.Render(currentSpinner(m.SpinnerFrame)+" ") +
			warningStyle.Render(fmt.Sprintf("%d/%d clusters", m.finished(), len(m.Rows)))
	default:
		status += dimStyle.Render("Starting...")
	}
	b.WriteString(status)
	b.WriteString("\n")

	if m.TargetVersion != "" {
		b.WriteString(subtitleStyle.Render(fmt.Sprintf("  target version %s", m.TargetVersion)))
		b.WriteString("\n")
	}
}

func renderClusters(b *strings.Builder, m Model) {
	b.WriteString(sectionStyle.Render("  Clusters"))
	b.WriteString("\n")

	if len(m.Rows) == 0 {
		b.WriteString(dimStyle.Render("    discovering clusters"))
		b.WriteString("\n")
		return
	}

	width := 0
	for _, row := range m.Rows {
		if len(row.Name) > width {
			width = len(row.Name)
		}
	}

	for _, row := range m.Rows {
		renderClusterRow(b, m, row, width)
	}
}

func renderClusterRow(b *strings.Builder, m Model, row ClusterRow, width int) {
	var icon string
	var style styleFunc

	switch row.Status {
	case StatusFailed:
		icon = crossMark
		style = sf(failedStyle)
	case StatusDone:
		icon = checkMark
		style = sf(readyStyle)
	case StatusRunning:
		icon = currentSpinner(m.SpinnerFrame)
		style = sf(activeStyle)
	default:
		icon = pending
		style = sf(dimStyle)
	}

	extra := ""
	switch {
	case row.Status == StatusFailed:
		extra = sf(failedStyle)(row.Message)
	case row.Message != "":
		extra = sf(dimStyle)(row.Message)
	case row.Status == StatusRunning:
		extra = sf(activeStyle)("assessing")
	}
	if row.Elapsed > 0 {
		extra += sf(dimStyle)(fmt.Sprintf("  %s", formatDuration(row.Elapsed)))
	}

	name := fmt.Sprintf("%-*s", width, row.Name)
	fmt.Fprintf(b, "    %s %s %s\n", style(icon), style(name), extra)
}

func renderFooter(b *strings.Builder, m Model) {
	elapsed := formatDuration(time.Since(m.StartTime))
	parts := []string{fmt.Sprintf("elapsed: %s", elapsed)}
	if n := m.failed(); n > 0 {
		parts = append(parts, fmt.Sprintf("failed: %d", n))
	}
	b.WriteString(footerStyle.Render(fmt.Sprintf("  %s  |  q: quit", strings.Join(parts, "  |  "))))
	b.WriteString("\n")
}

// Helper functions

func currentSpinner(frame int) string {
	if len(spinnerFrames) == 0 {
		return spinner
	}
	if frame < 0 {
		frame = -frame
	}
	return spinnerFrames[frame%len(spinnerFrames)]
}

func formatDuration(d time.Duration) string {
	d = d.Round(time.Second)
	if d < time.Minute {
		return fmt.Sprintf("%ds", int(d.Seconds()))
	}
	if d < time.Hour {
		return fmt.Sprintf("%dm%ds", int(d.Minutes()), int(d.Seconds())%60)
	}
	return fmt.Sprintf("%dh%dm", int(d.Hours()), int(d.Minutes())%60)
}
