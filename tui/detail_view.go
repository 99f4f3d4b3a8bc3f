package tui

import (
	"fmt"
	"sort"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/harperreed/prospector/models"
	"github.com/harperreed/prospector/viz"
)

var (
	fieldLabelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Width(14)

	fieldValueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252"))

	currentStageStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("170"))

	visitedStageStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("42"))

	pendingStageStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("238"))
)

func (m Model) renderDetailView() string {
	p, ok := m.selected()
	if !ok {
		return "Prospect not found\n\n" + helpStyle.Render("Esc: Back")
	}

	var s strings.Builder

	title := p.Name
	if p.IsHighValue {
		title = "★ " + title
	}
	s.WriteString(titleStyle.Render(strings.ToUpper(title)))
	s.WriteString("\n\n")

	s.WriteString(renderField("Company", p.Company))
	s.WriteString(renderField("Position", p.Position))
	s.WriteString(renderField("Email", p.Email))
	s.WriteString(renderField("Platform", string(p.Platform)))
	s.WriteString(renderField("Status", p.Status.Label()+" ("+models.StatusGroup(p.Status)+")"))
	s.WriteString(renderField("Deal Value", viz.FormatUSD(p.DealValue)))
	if p.Headline != "" {
		s.WriteString(renderField("Headline", p.Headline))
	}
	if p.CompanyWebsite != "" {
		s.WriteString(renderField("Website", p.CompanyWebsite))
	}
	s.WriteString("\n")

	s.WriteString(titleStyle.Render("Journey"))
	s.WriteString("\n")
	s.WriteString(renderJourney(p))
	s.WriteString("\n")

	s.WriteString(titleStyle.Render(fmt.Sprintf("History (%d)", len(p.History))))
	s.WriteString("\n")
	s.WriteString(renderHistory(p.History, m.height/3))
	s.WriteString("\n")

	s.WriteString(renderField("Script focus", m.focus.Label()))
	s.WriteString("\n")
	s.WriteString(m.renderMessage())
	s.WriteString(m.renderDetailHelp())

	return s.String()
}

func renderField(label, value string) string {
	if value == "" {
		value = "-"
	}
	return fieldLabelStyle.Render(label+":") + " " + fieldValueStyle.Render(value) + "\n"
}

func renderJourney(p models.Prospect) string {
	var s strings.Builder
	for _, stage := range viz.JourneyStages(p) {
		switch {
		case stage.Current:
			s.WriteString(currentStageStyle.Render("  ▶ " + stage.Label))
			for _, tp := range stage.Touchpoints {
				s.WriteString("\n")
				s.WriteString(pendingStageStyle.Render(fmt.Sprintf("      %s  %s: %s", tp.Timing, tp.Name, tp.Description)))
			}
		case stage.Visited:
			s.WriteString(visitedStageStyle.Render("  ● " + stage.Label))
		default:
			s.WriteString(pendingStageStyle.Render("  ○ " + stage.Label))
		}
		s.WriteString("\n")
	}
	return s.String()
}

// renderHistory lists entries newest first, capped at limit lines.
func renderHistory(history []models.Interaction, limit int) string {
	if len(history) == 0 {
		return "  No interactions yet\n"
	}

	entries := make([]models.Interaction, len(history))
	copy(entries, history)
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Timestamp.After(entries[j].Timestamp)
	})

	if limit < 1 {
		limit = 1
	}

	var s strings.Builder
	for i, h := range entries {
		if i == limit {
			s.WriteString(fmt.Sprintf("  ... %d more\n", len(entries)-limit))
			break
		}
		content := h.Content
		if idx := strings.IndexByte(content, '\n'); idx >= 0 {
			content = content[:idx] + " …"
		}
		s.WriteString(fmt.Sprintf("  %s  %-12s %s\n", h.Timestamp.Format("2006-01-02"), h.Type, content))
	}
	return s.String()
}

func (m Model) renderDetailHelp() string {
	help := []string{
		"Esc: Back",
		"e: Edit",
		"s: Status",
		"l: Log",
		"g: Script",
		"f: Focus",
		"v: Graph",
		"d: Delete",
	}
	return helpStyle.Render(strings.Join(help, " • "))
}

func (m Model) handleDetailKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.message = ""
	m.err = nil

	p, ok := m.selected()
	if !ok {
		if msg.String() == "esc" {
			m.viewMode = ViewList
		}
		return m, nil
	}

	switch msg.String() {
	case "esc":
		m.viewMode = ViewList
		m.selectedID = ""
	case "e":
		m.initFormInputs()
		m.viewMode = ViewEdit
	case "s":
		m.statusCursor = statusIndex(p.Status)
		m.viewMode = ViewStatus
	case "l":
		m.initLogForm()
		m.viewMode = ViewLog
	case "f":
		m.focus = nextFocus(m.focus)
		m.message = "Script focus: " + m.focus.Label()
	case "g":
		return m.startScript(p)
	case "v":
		if err := m.generateGraph(); err != nil {
			m.err = err
			return m, nil
		}
		m.viewMode = ViewGraph
	case "d":
		m.viewMode = ViewConfirmDelete
	}

	return m, nil
}
