// ABOUTME: TUI view for follow-up tracking
// ABOUTME: Displays open prospects that have gone quiet
package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/table"

	"github.com/harperreed/prospector/viz"
)

func (m Model) renderFollowupsTable() string {
	stale := viz.GenerateDashboardStats(m.tracker.Find(m.searchQuery), m.now()).StaleProspects

	columns := []table.Column{
		{Title: "", Width: 3},
		{Title: "Name", Width: 25},
		{Title: "Days", Width: 8},
		{Title: "Status", Width: 30},
	}

	var rows []table.Row
	for _, s := range stale {
		indicator := "🟡"
		days := fmt.Sprintf("%d", s.DaysSince)
		if s.DaysSince < 0 {
			indicator = "🔴"
			days = "never"
		} else if s.DaysSince > 30 {
			indicator = "🔴"
		}

		rows = append(rows, table.Row{
			indicator,
			s.Name,
			days,
			s.Status.Label(),
		})
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithRows(rows),
		table.WithFocused(true),
		table.WithHeight(m.height-10),
	)

	if m.selectedRow < len(rows) {
		t.SetCursor(m.selectedRow)
	}

	return t.View()
}
