package ui

import (
	"fmt"
	"strings"
	"time"
)

const detailTimeLayout = "2006-01-02 15:04:05"

// renderDetail renders the item opened from the list.
func (m Model) renderDetail() string {
	styles := m.theme.Styles()
	item := m.detail

	var b strings.Builder
	b.WriteString(styles.AccentText.Bold(true).Render(item.Title))
	b.WriteString("  ")
	b.WriteString(styles.FaintText.Render(fmt.Sprintf("#%d", item.ID)))
	b.WriteString("\n\n")

	desc := strings.TrimSpace(item.Description)
	if desc == "" {
		b.WriteString(styles.MutedText.Italic(true).Render("No description"))
	} else {
		b.WriteString(styles.Text.Width(max(m.width-6, 20)).Render(desc))
	}
	b.WriteString("\n\n")

	b.WriteString(detailRow(styles, "Created", formatItemTime(item.CreatedAt)))
	b.WriteString("\n")
	b.WriteString(detailRow(styles, "Updated", formatItemTime(item.UpdatedAt)))

	return styles.Panel.Width(max(m.width-2, 0)).Render(b.String())
}

func detailRow(styles Styles, label, value string) string {
	return styles.MutedText.Width(10).Render(label) + styles.Text.Render(value)
}

func formatItemTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Local().Format(detailTimeLayout)
}
