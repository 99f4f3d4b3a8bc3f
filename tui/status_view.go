// ABOUTME: Status picker for moving a prospect through the funnel
// ABOUTME: Lists the catalog grouped by funnel stage
package tui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/harperreed/prospector/models"
)

var (
	groupHeaderStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("246"))

	cursorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("170")).
			Bold(true)
)

func statusIndex(s models.Status) int {
	for i, def := range models.StatusDefinitions() {
		if def.Value == s {
			return i
		}
	}
	return 0
}

func (m Model) renderStatusView() string {
	p, _ := m.selected()

	var s strings.Builder
	s.WriteString(titleStyle.Render("SET STATUS: " + p.Name))
	s.WriteString("\n\n")

	group := ""
	for i, def := range models.StatusDefinitions() {
		if def.Group != group {
			group = def.Group
			s.WriteString(groupHeaderStyle.Render(group))
			s.WriteString("\n")
		}

		line := "    " + def.Label
		if def.Value == p.Status {
			line += " (current)"
		}
		if i == m.statusCursor {
			s.WriteString(cursorStyle.Render("  > " + strings.TrimPrefix(line, "    ")))
		} else {
			s.WriteString(line)
		}
		s.WriteString("\n")
	}

	help := []string{"↑/↓: Navigate", "Enter: Apply", "Esc: Cancel"}
	s.WriteString(helpStyle.Render(strings.Join(help, " • ")))

	return s.String()
}

func (m Model) handleStatusKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	defs := models.StatusDefinitions()

	switch msg.String() {
	case "up", "k":
		if m.statusCursor > 0 {
			m.statusCursor--
		}
	case "down", "j":
		if m.statusCursor < len(defs)-1 {
			m.statusCursor++
		}
	case "esc":
		m.viewMode = ViewDetail
	case "enter":
		p, ok := m.selected()
		if !ok {
			m.viewMode = ViewList
			return m, nil
		}
		next := defs[m.statusCursor].Value
		if next != p.Status {
			p.Status = next
			if _, err := m.tracker.Update(p); err != nil {
				m.err = err
			} else {
				m.message = "Status changed to " + next.Label()
			}
		}
		m.viewMode = ViewDetail
	}

	return m, nil
}
