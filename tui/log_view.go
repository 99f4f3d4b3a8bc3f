package tui

import (
	"errors"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/harperreed/prospector/models"
)

// logTypes are the interaction kinds a user can log by hand.
var logTypes = []models.InteractionType{
	models.InteractionNote,
	models.InteractionChat,
	models.InteractionEmail,
	models.InteractionCall,
}

func (m *Model) initLogForm() {
	input := textinput.New()
	input.Placeholder = "What happened?"
	input.CharLimit = 2000
	input.Width = 60
	input.Focus()

	m.logInput = input
	m.logTypeIndex = 0
}

func (m Model) renderLogView() string {
	p, _ := m.selected()

	var s strings.Builder
	s.WriteString(titleStyle.Render("LOG INTERACTION: " + p.Name))
	s.WriteString("\n\n")

	var kinds []string
	for i, k := range logTypes {
		if i == m.logTypeIndex {
			kinds = append(kinds, tabActiveStyle.Render(string(k)))
		} else {
			kinds = append(kinds, tabInactiveStyle.Render(string(k)))
		}
	}
	s.WriteString(strings.Join(kinds, ""))
	s.WriteString("\n\n")
	s.WriteString(m.logInput.View())
	s.WriteString("\n\n")
	s.WriteString(m.renderMessage())

	help := []string{"Tab: Change type", "Enter: Save", "Esc: Cancel"}
	s.WriteString(helpStyle.Render(strings.Join(help, " • ")))

	return s.String()
}

func (m Model) handleLogKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.err = nil
		m.viewMode = ViewDetail
		return m, nil
	case "tab":
		m.logTypeIndex = (m.logTypeIndex + 1) % len(logTypes)
		return m, nil
	case "enter":
		content := strings.TrimSpace(m.logInput.Value())
		if content == "" {
			m.err = errors.New("content is required")
			return m, nil
		}
		kind := logTypes[m.logTypeIndex]
		if _, err := m.tracker.AddInteraction(m.selectedID, kind, content); err != nil {
			m.err = err
			return m, nil
		}
		m.err = nil
		m.message = "Logged " + string(kind)
		m.viewMode = ViewDetail
		return m, nil
	}

	var cmd tea.Cmd
	m.logInput, cmd = m.logInput.Update(msg)
	return m, cmd
}
