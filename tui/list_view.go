package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/harperreed/prospector/models"
	"github.com/harperreed/prospector/viz"
)

func (m Model) renderListView() string {
	var s strings.Builder

	// Title
	s.WriteString(titleStyle.Render("PROSPECTOR"))
	s.WriteString("\n\n")

	// Tabs
	s.WriteString(m.renderTabs())
	s.WriteString("\n\n")

	if m.searching {
		s.WriteString(m.searchInput.View())
		s.WriteString("\n\n")
	} else if m.searchQuery != "" {
		s.WriteString(fmt.Sprintf("Filter: %q\n\n", m.searchQuery))
	}

	// Table
	if m.tab == TabFollowups {
		s.WriteString(m.renderFollowupsTable())
	} else {
		s.WriteString(m.renderProspectsTable())
	}
	s.WriteString("\n\n")

	s.WriteString(m.renderMessage())

	// Help
	s.WriteString(m.renderListHelp())

	return s.String()
}

func (m Model) renderTabs() string {
	var rendered []string

	for i, tab := range tabNames {
		if Tab(i) == m.tab {
			rendered = append(rendered, tabActiveStyle.Render(tab))
		} else {
			rendered = append(rendered, tabInactiveStyle.Render(tab))
		}
	}

	return lipgloss.JoinHorizontal(lipgloss.Top, rendered...)
}

// visibleProspects is the list the cursor moves over, in display order.
func (m Model) visibleProspects() []models.Prospect {
	found := m.tracker.Find(m.searchQuery)

	switch m.tab {
	case TabHighValue:
		var out []models.Prospect
		for _, p := range found {
			if p.IsHighValue {
				out = append(out, p)
			}
		}
		return out
	case TabFollowups:
		byID := make(map[string]models.Prospect, len(found))
		for _, p := range found {
			byID[p.ID] = p
		}
		var out []models.Prospect
		for _, s := range viz.GenerateDashboardStats(found, m.now()).StaleProspects {
			if p, ok := byID[s.ID]; ok {
				out = append(out, p)
			}
		}
		return out
	}
	return found
}

func (m Model) renderProspectsTable() string {
	columns := []table.Column{
		{Title: "Name", Width: 24},
		{Title: "Company", Width: 22},
		{Title: "Status", Width: 30},
		{Title: "Deal", Width: 10},
	}

	var rows []table.Row
	for _, p := range m.visibleProspects() {
		name := p.Name
		if p.IsHighValue {
			name = "★ " + name
		}
		rows = append(rows, table.Row{
			name,
			p.Company,
			p.Status.Label(),
			viz.FormatUSD(p.DealValue),
		})
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithRows(rows),
		table.WithFocused(true),
		table.WithHeight(m.height-10),
	)

	// Set selected row
	if m.selectedRow < len(rows) {
		t.SetCursor(m.selectedRow)
	}

	return t.View()
}

func (m Model) renderListHelp() string {
	help := []string{
		"↑/↓: Navigate",
		"Tab: Switch tabs",
		"Enter: View details",
		"/: Search",
		"n: New",
		"D: Dashboard",
		"q: Quit",
	}
	return helpStyle.Render(strings.Join(help, " • "))
}

func (m Model) handleListKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.searching {
		return m.handleSearchKeys(msg)
	}

	m.message = ""
	m.err = nil

	switch msg.String() {
	case "up", "k":
		if m.selectedRow > 0 {
			m.selectedRow--
		}
	case "down", "j":
		if m.selectedRow < len(m.visibleProspects())-1 {
			m.selectedRow++
		}
	case "tab":
		m.tab = (m.tab + 1) % Tab(len(tabNames))
		m.selectedRow = 0
	case "enter":
		// Switch to detail view
		if id := m.getSelectedID(); id != "" {
			m.selectedID = id
			m.viewMode = ViewDetail
		}
	case "/":
		m.searching = true
		m.searchInput.SetValue(m.searchQuery)
		m.searchInput.Focus()
	case "esc":
		m.searchQuery = ""
		m.selectedRow = 0
	case "n":
		// Switch to edit view (new)
		m.selectedID = ""
		m.initFormInputs()
		m.viewMode = ViewEdit
	case "D":
		m.viewMode = ViewDashboard
	}

	return m, nil
}

func (m Model) handleSearchKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		m.searchQuery = strings.TrimSpace(m.searchInput.Value())
		m.searching = false
		m.searchInput.Blur()
		m.selectedRow = 0
		return m, nil
	case "esc":
		m.searching = false
		m.searchInput.Blur()
		return m, nil
	}

	var cmd tea.Cmd
	m.searchInput, cmd = m.searchInput.Update(msg)
	return m, cmd
}

func (m Model) getSelectedID() string {
	prospects := m.visibleProspects()
	if m.selectedRow < len(prospects) {
		return prospects[m.selectedRow].ID
	}
	return ""
}
