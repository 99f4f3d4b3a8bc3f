// ABOUTME: AI outreach script drafting for the selected prospect
// ABOUTME: Generation runs as a tea.Cmd so the UI stays responsive
package tui

import (
	"context"
	"errors"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/harperreed/prospector/ai"
	"github.com/harperreed/prospector/models"
)

const defaultScriptTimeout = 60 * time.Second

var errNoAI = errors.New("AI is not configured (set GEMINI_API_KEY)")

var scriptBoxStyle = lipgloss.NewStyle().
	Border(lipgloss.RoundedBorder()).
	BorderForeground(lipgloss.Color("62")).
	Padding(1, 2)

// scriptMsg carries a finished generation back to Update.
type scriptMsg struct {
	prospectID string
	text       string
}

func nextFocus(f ai.Focus) ai.Focus {
	all := ai.Focuses()
	for i, candidate := range all {
		if candidate == f {
			return all[(i+1)%len(all)]
		}
	}
	return ai.DefaultFocus
}

func generateScript(g ScriptGenerator, timeout time.Duration, p models.Prospect, focus ai.Focus) tea.Cmd {
	if timeout <= 0 {
		timeout = defaultScriptTimeout
	}
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		return scriptMsg{prospectID: p.ID, text: g.GenerateScript(ctx, p, focus)}
	}
}

func (m Model) startScript(p models.Prospect) (tea.Model, tea.Cmd) {
	if m.scripts == nil {
		m.err = errNoAI
		return m, nil
	}
	m.viewMode = ViewScript
	if m.scriptLoading {
		return m, nil
	}
	m.scriptLoading = true
	m.scriptFor = p.ID
	m.script = ""
	m.scriptErr = ""
	m.logger.Debug("drafting script", zap.String("focus", string(m.focus)))
	return m, tea.Batch(m.spinner.Tick, generateScript(m.scripts, m.aiTimeout, p, m.focus))
}

func (m Model) handleScriptResult(msg scriptMsg) Model {
	m.scriptLoading = false
	m.scriptFor = msg.prospectID
	if ai.IsErrorResult(msg.text) {
		m.script = ""
		m.scriptErr = ai.ErrorMessage(msg.text)
	} else {
		m.script = msg.text
		m.scriptErr = ""
	}
	if m.viewMode != ViewScript {
		m.message = "Script ready"
	}
	return m
}

func (m Model) renderScriptView() string {
	p, _ := m.selected()

	var s strings.Builder
	s.WriteString(titleStyle.Render("OUTREACH SCRIPT: " + p.Name))
	s.WriteString("\n")
	s.WriteString(renderField("Focus", m.focus.Label()))
	s.WriteString("\n")

	switch {
	case m.scriptLoading:
		s.WriteString(m.spinner.View() + " Drafting message...\n")
	case m.scriptFor != m.selectedID:
		s.WriteString("No script for this prospect yet. Press r to draft one.\n")
	case m.scriptErr != "":
		s.WriteString(errorStyle.Render(m.scriptErr))
		s.WriteString("\n")
	default:
		width := m.width - 6
		if width < 20 {
			width = 20
		}
		s.WriteString(scriptBoxStyle.Width(width).Render(m.script))
		s.WriteString("\n")
	}

	s.WriteString("\n")
	s.WriteString(m.renderMessage())

	help := []string{"r: Regenerate", "s: Save to history", "Esc: Back"}
	s.WriteString(helpStyle.Render(strings.Join(help, " • ")))

	return s.String()
}

func (m Model) handleScriptKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.message = ""
	m.err = nil

	switch msg.String() {
	case "esc":
		m.viewMode = ViewDetail
	case "r":
		p, ok := m.selected()
		if !ok {
			return m, nil
		}
		return m.startScript(p)
	case "s":
		if m.scriptLoading || m.script == "" || m.scriptFor != m.selectedID {
			return m, nil
		}
		if _, err := m.tracker.AddInteraction(m.selectedID, models.InteractionChat, m.script); err != nil {
			m.err = err
			return m, nil
		}
		m.message = "Script saved to history"
		m.viewMode = ViewDetail
	}

	return m, nil
}
