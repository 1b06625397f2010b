package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/Albert-Vanderboom/taskflow-web-app-demo/internal/diaglog"
)

// renderLogs renders the tail of the diagnostics log, newest at the bottom.
func (m Model) renderLogs(height int) string {
	styles := m.theme.Styles()
	panelWidth := max(m.width-2, 0)

	switch {
	case m.logPath == "":
		return styles.Panel.Width(panelWidth).Render(styles.MutedText.Render("Logging is disabled."))
	case m.logErr != "":
		return styles.Panel.Width(panelWidth).Render(styles.DangerText.Render(m.logErr))
	case len(m.logs) == 0:
		return styles.Panel.Width(panelWidth).Render(styles.MutedText.Render("No log entries in " + m.logPath))
	}

	rows := max(height-2, 1)
	entries := m.logs
	if len(entries) > rows {
		entries = entries[len(entries)-rows:]
	}

	lines := make([]string, 0, len(entries))
	for _, e := range entries {
		lines = append(lines, m.formatLogEntry(e, styles))
	}
	return styles.Panel.Width(panelWidth).Render(strings.Join(lines, "\n"))
}

func (m Model) formatLogEntry(e diaglog.Entry, styles Styles) string {
	if e.Level == "" {
		return styles.MutedText.Render(truncate(e.Raw, max(m.width-6, 20)))
	}
	var parts []string
	if !e.Time.IsZero() {
		parts = append(parts, styles.FaintText.Render(e.Time.Local().Format("15:04:05")))
	}
	parts = append(parts, levelStyle(e.Level, styles).Render(strings.ToUpper(e.Level)))
	parts = append(parts, styles.Text.Render(e.Message))
	if fields := e.FieldString(); fields != "" {
		parts = append(parts, styles.MutedText.Render(fields))
	}
	line := strings.Join(parts, " ")
	return lipgloss.NewStyle().MaxWidth(max(m.width-4, 20)).Render(line)
}

func levelStyle(level string, styles Styles) lipgloss.Style {
	switch strings.ToLower(level) {
	case "error", "fatal", "panic", "dpanic":
		return styles.DangerText.Bold(true)
	case "warn":
		return styles.WarningText
	case "debug":
		return styles.FaintText
	default:
		return styles.InfoText
	}
}
