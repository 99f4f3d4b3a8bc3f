package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/harperreed/prospector/models"
)

// Edit form field order.
const (
	fieldName = iota
	fieldCompany
	fieldPosition
	fieldEmail
	fieldPlatform
	fieldDealValue
	fieldHighValue
	fieldCount
)

func (m Model) renderEditView() string {
	var s strings.Builder

	// Title
	if m.selectedID == "" {
		s.WriteString(titleStyle.Render("NEW PROSPECT"))
	} else {
		s.WriteString(titleStyle.Render("EDIT PROSPECT"))
	}
	s.WriteString("\n\n")

	// Form fields
	for i, input := range m.formInputs {
		if i == m.focusIndex {
			s.WriteString("> ")
		} else {
			s.WriteString("  ")
		}
		s.WriteString(input.View())
		s.WriteString("\n")
	}

	s.WriteString("\n")
	s.WriteString(m.renderMessage())

	// Help
	s.WriteString(m.renderEditHelp())

	return s.String()
}

func (m Model) renderEditHelp() string {
	help := []string{
		"Tab: Next field",
		"Shift+Tab: Previous",
		"Enter: Save",
		"Esc: Cancel",
	}
	return helpStyle.Render(strings.Join(help, " • "))
}

func (m Model) handleEditKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.err = nil
		if m.selectedID == "" {
			m.viewMode = ViewList
		} else {
			m.viewMode = ViewDetail
		}
		return m, nil
	case "tab", "down":
		m.focusIndex = (m.focusIndex + 1) % len(m.formInputs)
		m.updateFormFocus()
		return m, nil
	case "shift+tab", "up":
		m.focusIndex = (m.focusIndex + len(m.formInputs) - 1) % len(m.formInputs)
		m.updateFormFocus()
		return m, nil
	case "enter":
		// Save the prospect
		p, err := m.saveProspect()
		if err != nil {
			m.err = err
			return m, nil
		}
		m.err = nil
		m.selectedID = p.ID
		m.message = "Saved " + p.Name
		m.viewMode = ViewDetail
		return m, nil
	}

	// Update current input
	var cmd tea.Cmd
	m.formInputs[m.focusIndex], cmd = m.formInputs[m.focusIndex].Update(msg)
	return m, cmd
}

func (m *Model) initFormInputs() {
	inputs := make([]textinput.Model, fieldCount)
	placeholders := []string{"Name", "Company", "Position", "Email", "Platform (linkedin, email, whatsapp, twitter)", "Deal Value", "High value (y/n)"}
	limits := []int{100, 100, 100, 100, 20, 15, 3}
	for i := range inputs {
		inputs[i] = textinput.New()
		inputs[i].Placeholder = placeholders[i]
		inputs[i].CharLimit = limits[i]
	}

	// If editing, populate fields
	if p, ok := m.selected(); ok {
		inputs[fieldName].SetValue(p.Name)
		inputs[fieldCompany].SetValue(p.Company)
		inputs[fieldPosition].SetValue(p.Position)
		inputs[fieldEmail].SetValue(p.Email)
		inputs[fieldPlatform].SetValue(string(p.Platform))
		if p.DealValue != 0 {
			inputs[fieldDealValue].SetValue(strconv.FormatFloat(p.DealValue, 'f', -1, 64))
		}
		if p.IsHighValue {
			inputs[fieldHighValue].SetValue("y")
		}
	}

	m.formInputs = inputs
	m.focusIndex = 0
	m.updateFormFocus()
}

func (m *Model) updateFormFocus() {
	for i := range m.formInputs {
		if i == m.focusIndex {
			m.formInputs[i].Focus()
		} else {
			m.formInputs[i].Blur()
		}
	}
}

func (m Model) formValue(field int) string {
	return strings.TrimSpace(m.formInputs[field].Value())
}

// saveProspect creates a prospect when none is selected and updates the
// selected one otherwise.
func (m Model) saveProspect() (models.Prospect, error) {
	name := m.formValue(fieldName)
	if name == "" {
		return models.Prospect{}, fmt.Errorf("name is required")
	}

	var platform models.Platform
	if raw := m.formValue(fieldPlatform); raw != "" {
		parsed, err := models.ParsePlatform(strings.ToLower(raw))
		if err != nil {
			return models.Prospect{}, err
		}
		platform = parsed
	}

	var dealValue float64
	if raw := strings.NewReplacer("$", "", ",", "").Replace(m.formValue(fieldDealValue)); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil || v < 0 {
			return models.Prospect{}, fmt.Errorf("invalid deal value %q", m.formValue(fieldDealValue))
		}
		dealValue = v
	}

	highValue := strings.HasPrefix(strings.ToLower(m.formValue(fieldHighValue)), "y")

	existing, ok := m.selected()
	if !ok {
		return m.tracker.Create(models.ProspectFields{
			Name:        name,
			Company:     m.formValue(fieldCompany),
			Position:    m.formValue(fieldPosition),
			Email:       m.formValue(fieldEmail),
			Platform:    platform,
			DealValue:   dealValue,
			IsHighValue: highValue,
		})
	}

	existing.Name = name
	existing.Company = m.formValue(fieldCompany)
	existing.Position = m.formValue(fieldPosition)
	existing.Email = m.formValue(fieldEmail)
	existing.Platform = platform
	existing.DealValue = dealValue
	existing.IsHighValue = highValue
	return m.tracker.Update(existing)
}
