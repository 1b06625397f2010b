package ui

import (
	"fmt"
	"strings"
)

// renderList renders the item table, scrolled so the cursor stays visible.
func (m Model) renderList(height int) string {
	styles := m.theme.Styles()
	items := m.snapshot.Items

	if len(items) == 0 {
		msg := "No items yet. Press n to create one."
		if m.snapshot.Loading {
			msg = "Loading items..."
		} else if m.snapshot.HasError() {
			msg = m.snapshot.Err + ". Press r to retry."
		}
		return styles.Panel.Width(max(m.width-2, 0)).Render(styles.MutedText.Render(msg))
	}

	rows := max(height-3, 1) // panel border + column header
	start, end := visibleRange(len(items), m.cursor, rows)

	titleWidth := max(m.width/3, 12)
	descWidth := max(m.width-titleWidth-16, 10)

	var b strings.Builder
	b.WriteString(styles.FaintText.Render(fmt.Sprintf("%-6s %-*s %s", "ID", titleWidth, "TITLE", "DESCRIPTION")))
	for i := start; i < end; i++ {
		item := items[i]
		line := fmt.Sprintf("%-6d %-*s %s",
			item.ID,
			titleWidth, truncate(item.Title, titleWidth),
			truncate(firstLine(item.Description), descWidth),
		)
		b.WriteString("\n")
		if i == m.cursor {
			b.WriteString(styles.Selected.Render(line))
		} else {
			b.WriteString(styles.Text.Render(line))
		}
	}
	return styles.Panel.Width(max(m.width-2, 0)).Render(b.String())
}

// visibleRange returns the [start,end) window of n rows that keeps cursor in
// view when only size rows fit.
func visibleRange(n, cursor, size int) (int, int) {
	if size <= 0 || n <= size {
		return 0, n
	}
	start := cursor - size/2
	if start < 0 {
		start = 0
	}
	if start+size > n {
		start = n - size
	}
	return start, start + size
}

func firstLine(s string) string {
	if i := strings.IndexAny(s, "\r\n"); i >= 0 {
		return s[:i]
	}
	return s
}
