package tui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/harperreed/prospector/viz"
)

func (m Model) renderDashboardView() string {
	var s strings.Builder

	stats := viz.GenerateDashboardStats(m.tracker.List(), m.now())
	s.WriteString(viz.RenderDashboard(stats))
	s.WriteString("\n")

	help := []string{"Esc: Back", "q: Quit"}
	s.WriteString(helpStyle.Render(strings.Join(help, " • ")))

	return s.String()
}

func (m Model) handleDashboardKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "esc" {
		m.viewMode = ViewList
	}
	return m, nil
}
