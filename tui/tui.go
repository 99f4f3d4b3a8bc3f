// ABOUTME: Terminal User Interface using bubbletea framework
// ABOUTME: Provides interactive full-screen interface for managing prospects
package tui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/harperreed/prospector/ai"
	"github.com/harperreed/prospector/models"
	"github.com/harperreed/prospector/tracker"
)

// ViewMode represents the current TUI view
type ViewMode int

const (
	ViewList ViewMode = iota
	ViewDetail
	ViewEdit
	ViewStatus
	ViewLog
	ViewScript
	ViewGraph
	ViewDashboard
	ViewConfirmDelete
)

// Tab selects which prospects the list shows
type Tab int

const (
	TabAll Tab = iota
	TabHighValue
	TabFollowups
)

var tabNames = []string{"All", "High Value", "Follow-ups"}

// ScriptGenerator drafts outreach messages. *ai.Client satisfies it.
type ScriptGenerator interface {
	GenerateScript(ctx context.Context, p models.Prospect, focus ai.Focus) string
}

// Option configures a Model.
type Option func(*Model)

// WithScriptGenerator enables script drafting.
func WithScriptGenerator(g ScriptGenerator, timeout time.Duration) Option {
	return func(m *Model) {
		m.scripts = g
		m.aiTimeout = timeout
	}
}

func WithLogger(logger *zap.Logger) Option {
	return func(m *Model) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// WithClock overrides the time source used for follow-up age.
func WithClock(now func() time.Time) Option {
	return func(m *Model) { m.now = now }
}

// Model is the main bubbletea model
type Model struct {
	tracker   *tracker.Tracker
	scripts   ScriptGenerator
	aiTimeout time.Duration
	logger    *zap.Logger
	now       func() time.Time

	viewMode ViewMode
	tab      Tab

	// List view state
	selectedRow int
	searchQuery string
	searching   bool
	searchInput textinput.Model

	// Detail view state
	selectedID string

	// Edit view state
	formInputs []textinput.Model
	focusIndex int

	// Status picker state
	statusCursor int

	// Log form state
	logTypeIndex int
	logInput     textinput.Model

	// Script state
	focus         ai.Focus
	script        string
	scriptFor     string
	scriptErr     string
	scriptLoading bool
	spinner       spinner.Model

	// Graph view state
	graphDOT string

	// UI state
	message string
	width   int
	height  int
	err     error
}

// NewModel creates a new TUI model
func NewModel(t *tracker.Tracker, opts ...Option) Model {
	search := textinput.New()
	search.Placeholder = "Search name or company"
	search.CharLimit = 100

	m := Model{
		tracker:     t,
		logger:      zap.NewNop(),
		now:         time.Now,
		viewMode:    ViewList,
		tab:         TabAll,
		searchInput: search,
		focus:       ai.DefaultFocus,
		spinner:     spinner.New(spinner.WithSpinner(spinner.Dot)),
		width:       80,
		height:      24,
	}
	for _, opt := range opts {
		opt(&m)
	}
	return m
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyPress(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case scriptMsg:
		return m.handleScriptResult(msg), nil
	case spinner.TickMsg:
		if !m.scriptLoading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) View() string {
	switch m.viewMode {
	case ViewList:
		return m.renderListView()
	case ViewDetail:
		return m.renderDetailView()
	case ViewEdit:
		return m.renderEditView()
	case ViewStatus:
		return m.renderStatusView()
	case ViewLog:
		return m.renderLogView()
	case ViewScript:
		return m.renderScriptView()
	case ViewGraph:
		return m.renderGraphView()
	case ViewDashboard:
		return m.renderDashboardView()
	case ViewConfirmDelete:
		return m.renderConfirmDeleteView()
	}
	return ""
}

// typing reports whether keys should go to a text input.
func (m Model) typing() bool {
	return m.searching || m.viewMode == ViewEdit || m.viewMode == ViewLog
}

func (m Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "q":
		if !m.typing() {
			return m, tea.Quit
		}
	}

	// Delegate to view-specific handlers
	switch m.viewMode {
	case ViewList:
		return m.handleListKeys(msg)
	case ViewDetail:
		return m.handleDetailKeys(msg)
	case ViewEdit:
		return m.handleEditKeys(msg)
	case ViewStatus:
		return m.handleStatusKeys(msg)
	case ViewLog:
		return m.handleLogKeys(msg)
	case ViewScript:
		return m.handleScriptKeys(msg)
	case ViewGraph:
		return m.handleGraphKeys(msg)
	case ViewDashboard:
		return m.handleDashboardKeys(msg)
	case ViewConfirmDelete:
		return m.handleConfirmDeleteKeys(msg)
	}

	return m, nil
}

// selected returns the prospect the detail views operate on.
func (m Model) selected() (models.Prospect, bool) {
	if m.selectedID == "" {
		return models.Prospect{}, false
	}
	p, err := m.tracker.Get(m.selectedID)
	if err != nil {
		return models.Prospect{}, false
	}
	return p, true
}

// Styles
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("170")).
			MarginBottom(1)

	tabActiveStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("170")).
			Background(lipgloss.Color("235")).
			Padding(0, 2)

	tabInactiveStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("240")).
				Padding(0, 2)

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			MarginTop(1)

	messageStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("9"))
)

func (m Model) renderMessage() string {
	switch {
	case m.err != nil:
		return errorStyle.Render("Error: "+m.err.Error()) + "\n"
	case m.message != "":
		return messageStyle.Render(m.message) + "\n"
	}
	return ""
}
