package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"
)

// renderHeader renders the status bar: logo, API, item count, loading state
// and the last error.
func (m Model) renderHeader() string {
	styles := m.theme.Styles()
	sep := "  "

	parts := []string{styles.Logo.Render("taskflow")}
	if m.baseURL != "" {
		parts = append(parts, styles.MutedText.Render(truncateMiddle(m.baseURL, 40)))
	}
	parts = append(parts, styles.Text.Render(fmt.Sprintf("%d items", len(m.snapshot.Items))))

	switch {
	case m.snapshot.Loading:
		parts = append(parts, m.spinner.View()+styles.WarningText.Render("Loading..."))
	case m.snapshot.HasError():
		parts = append(parts, styles.DangerText.Bold(true).Render(m.snapshot.Err))
	case m.notice != "":
		parts = append(parts, styles.SuccessText.Render(m.notice))
	}

	if ts := formatTimestamp(m.snapshot.LastUpdated, time.Now()); ts != "" {
		parts = append(parts, styles.FaintText.Render(ts))
	}

	return lipgloss.NewStyle().
		Background(lipgloss.Color(m.theme.Surface)).
		Width(m.width).
		Render(styles.Header.Render(strings.Join(parts, sep)))
}

// renderFooter renders the key hints, or the delete prompt while one is open.
func (m Model) renderFooter() string {
	styles := m.theme.Styles()
	if m.confirmDelete {
		prompt := fmt.Sprintf("Delete item #%d? ", m.deleteID)
		return styles.Footer.Width(m.width).Render(
			styles.WarningText.Bold(true).Render(prompt) +
				m.help.ShortHelpView([]key.Binding{m.keys.Confirm, m.keys.Deny}))
	}
	hints := m.help.View(m.keys.helpFor(m.view))
	themeHint := styles.AccentText.Render("T") + styles.FaintText.Render(":"+m.theme.Name)
	return styles.Footer.Width(m.width).Render(hints + "  " + themeHint)
}

// formatTimestamp formats the last update time with a relative indicator.
func formatTimestamp(t, now time.Time) string {
	if t.IsZero() {
		return ""
	}

	since := now.Sub(t)
	out := t.Format("15:04:05")
	switch {
	case since < time.Minute:
		out += " (now)"
	case since < time.Hour:
		out += fmt.Sprintf(" (%dm ago)", int(since.Minutes()))
	case since < 24*time.Hour:
		out += fmt.Sprintf(" (%dh ago)", int(since.Hours()))
	}
	return out
}

// truncate shortens s to max runes with an ellipsis.
func truncate(s string, max int) string {
	if max <= 0 {
		return ""
	}
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	if max <= 3 {
		return string(r[:max])
	}
	return string(r[:max-3]) + "..."
}

// truncateMiddle shortens s in the middle, keeping more of the end.
func truncateMiddle(s string, max int) string {
	if max <= 0 {
		return ""
	}
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	if max <= 5 {
		return string(r[:max])
	}
	endLen := (max - 3) * 2 / 3
	startLen := max - 3 - endLen
	return string(r[:startLen]) + "..." + string(r[len(r)-endLen:])
}
