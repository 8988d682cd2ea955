// Package viz renders solve summaries and trajectory plots for the
// CLI.
package viz

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/trajopt/internal/nlp"
)

var (
	Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#00ccff"))

	Label = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#888899"))

	Value = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#ffffff"))

	StatusOK = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#00ff88"))

	StatusFail = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#ff4444"))
)

// Summary renders a solve report: problem identity on one line,
// then the backend statistics.
func Summary(problem, scheme string, mesh int, stats nlp.Stats) string {
	var b strings.Builder

	b.WriteString(Title.Render(problem))
	b.WriteString(Label.Render(fmt.Sprintf("  (%s, %d intervals)", scheme, mesh)))
	b.WriteString("\n")

	status := StatusOK
	if !stats.Success() {
		status = StatusFail
	}
	rows := []struct{ label, value string }{
		{"status", status.Render(string(stats.Status))},
		{"iterations", Value.Render(fmt.Sprintf("%d", stats.Iterations))},
		{"objective", Value.Render(fmt.Sprintf("%.6g", stats.Objective))},
		{"violation", Value.Render(fmt.Sprintf("%.3g", stats.ConstraintViolation))},
		{"elapsed", Value.Render(stats.Elapsed.String())},
	}
	for _, row := range rows {
		b.WriteString(fmt.Sprintf("  %s %s\n", Label.Render(row.label+":"), row.value))
	}
	return b.String()
}
