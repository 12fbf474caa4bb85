// ABOUTME: Terminal User Interface using bubbletea framework
// ABOUTME: Full-screen Kanban board for working the lead pipeline
package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"

	"github.com/motorlot/leadboard/api"
	"github.com/motorlot/leadboard/cache"
	"github.com/motorlot/leadboard/config"
	"github.com/motorlot/leadboard/engine"
	"github.com/motorlot/leadboard/models"
)

// ViewMode represents the current TUI view
type ViewMode int

const (
	ViewBoard ViewMode = iota
	ViewDetail
	ViewTaskForm
	ViewOppForm
	ViewNoteForm
	ViewLeadForm
	ViewConfirmDelete
)

// Model is the main bubbletea model
type Model struct {
	client *api.Client
	cfg    *config.Config
	snap   *cache.Cache
	board  *engine.Board
	detail *engine.Detail

	viewMode ViewMode
	team     []models.TeamMember

	// Board view state
	searchInput textinput.Model
	searching   bool
	selectedCol int
	selectedRow int
	dragTarget  models.LeadStatus

	// Detail view state
	detailSection  int // 0 timeline, 1 tasks, 2 opportunities
	detailSelected int
	timeline       []engine.TimelineEntry

	// Form state
	formInputs []textinput.Model
	focusIndex int
	formErr    error

	// UI state
	width  int
	height int
	status string
	err    error
}

// NewModel creates a new TUI model
func NewModel(client *api.Client, cfg *config.Config) Model {
	search := textinput.New()
	search.Placeholder = "Search leads..."
	search.CharLimit = 100

	store := engine.NewStore()
	return Model{
		client:      client,
		cfg:         cfg,
		board:       engine.NewBoard(client, store),
		searchInput: search,
		viewMode:    ViewBoard,
		width:       120,
		height:      40,
	}
}

// Run starts the TUI program with mouse support enabled. snap may be nil;
// without it board loads simply have no offline fallback.
func Run(client *api.Client, cfg *config.Config, snap *cache.Cache) error {
	m := NewModel(client, cfg)
	m.snap = snap
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion())
	_, err := p.Run()
	return err
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(loadBoardCmd(m.board, m.snap), loadTeamCmd(m.client, m.snap))
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case boardLoadedMsg:
		if msg.err != nil {
			m.err = msg.err
			m.status = "Load failed; showing last known board. Press r to retry."
			// A snapshot fallback only fills an empty store; it never
			// clobbers fresher data.
			if msg.fromCache && m.board.Store().Len() == 0 && !m.board.Closed() {
				m.board.Store().ReplaceAll(msg.leads)
				m.clampSelection()
			}
		} else {
			m.err = nil
			m.status = ""
			if !m.board.Closed() {
				m.board.Store().ReplaceAll(msg.leads)
			}
			m.clampSelection()
		}
		return m, nil

	case teamLoadedMsg:
		if msg.err == nil {
			m.team = msg.members
		}
		return m, nil

	case searchDebounceMsg:
		if m.board.CommitSearch(msg.seq) {
			return m, loadBoardCmd(m.board, m.snap)
		}
		return m, nil

	case transitionDoneMsg:
		// Failures roll back silently; the card just snaps home.
		m.board.Resolve(msg.outcome)
		return m, nil

	case detailSectionMsg:
		return m.handleDetailSection(msg), nil

	case tea.MouseMsg:
		if m.viewMode == ViewBoard {
			return m.handleBoardMouse(msg)
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKeyPress(msg)
	}
	return m, nil
}

func (m Model) View() string {
	switch m.viewMode {
	case ViewBoard:
		return m.renderBoardView()
	case ViewDetail:
		return m.renderDetailView()
	case ViewTaskForm, ViewOppForm, ViewNoteForm, ViewLeadForm:
		return m.renderFormView()
	case ViewConfirmDelete:
		return m.renderConfirmDeleteView()
	}
	return ""
}

func (m Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		m.board.Close()
		return m, tea.Quit
	}

	switch m.viewMode {
	case ViewBoard:
		return m.handleBoardKeys(msg)
	case ViewDetail:
		return m.handleDetailKeys(msg)
	case ViewTaskForm, ViewOppForm, ViewNoteForm, ViewLeadForm:
		return m.handleFormKeys(msg)
	case ViewConfirmDelete:
		return m.handleConfirmDeleteKeys(msg)
	}
	return m, nil
}

// openDetail switches to the detail aggregator for one lead and kicks off the
// three independent section fetches.
func (m Model) openDetail(leadID uuid.UUID) (Model, tea.Cmd) {
	m.detail = engine.NewDetail(m.client, m.board.Store(), leadID)
	m.viewMode = ViewDetail
	m.detailSection = 0
	m.detailSelected = 0
	m.timeline = nil
	return m, tea.Batch(
		loadTimelineCmd(m.detail),
		loadTasksCmd(m.detail),
		loadOppsCmd(m.detail),
	)
}

// handleDetailSection adopts data a section command fetched. This is the only
// place detail sub-view state changes, so it stays on the event loop.
func (m Model) handleDetailSection(msg detailSectionMsg) Model {
	if m.detail == nil {
		// Response landed after the detail view closed
		return m
	}
	if msg.err != nil {
		// Each section keeps its last-known-good data on failure
		m.status = fmt.Sprintf("Failed to load %s: %v", msg.section, msg.err)
		return m
	}
	switch msg.section {
	case sectionTimeline:
		m.timeline = msg.timeline
	case sectionTasks:
		m.detail.Scheduler().Replace(msg.tasks)
		m.clampDetailSelection()
	case sectionOpportunities:
		m.detail.Tracker().Replace(msg.opps)
		m.clampDetailSelection()
	case sectionLead:
		if msg.lead != nil {
			m.board.Store().ReplaceLead(*msg.lead)
		}
		if msg.timeline != nil {
			m.timeline = msg.timeline
		}
	}
	return m
}

func (m *Model) clampSelection() {
	columns := m.board.Columns()
	if m.selectedCol >= len(models.PipelineStatuses) {
		m.selectedCol = len(models.PipelineStatuses) - 1
	}
	cards := columns[models.PipelineStatuses[m.selectedCol]]
	if m.selectedRow >= len(cards) {
		m.selectedRow = len(cards) - 1
	}
	if m.selectedRow < 0 {
		m.selectedRow = 0
	}
}

// Styles
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("170")).
			MarginBottom(1)

	columnHeaderStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("170")).
				Background(lipgloss.Color("235")).
				Padding(0, 1)

	cardStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252"))

	cardSelectedStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("15")).
				Background(lipgloss.Color("61"))

	duplicateBadgeStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("11")).
				Bold(true)

	overdueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("9")).
			Bold(true)

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			MarginTop(1)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("9"))
)
