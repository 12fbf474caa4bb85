// ABOUTME: Kanban board view - columns by status, drag and drop, search
// ABOUTME: Layout math doubles as mouse hit-testing; keep the two in sync
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"

	"github.com/motorlot/leadboard/api"
	"github.com/motorlot/leadboard/models"
)

const (
	// boardHeaderRows is the number of rows above the first card: title,
	// the title's margin row, filter/search line, blank, column headers.
	boardHeaderRows = 5

	// cardHeight is the rows one card occupies, trailing blank included.
	cardHeight = 4

	minColumnWidth = 18
)

func (m Model) columnWidth() int {
	w := m.width / len(models.PipelineStatuses)
	if w < minColumnWidth {
		w = minColumnWidth
	}
	return w
}

// columnAt maps a screen X to a board column.
func (m Model) columnAt(x int) (models.LeadStatus, bool) {
	idx := x / m.columnWidth()
	if idx < 0 || idx >= len(models.PipelineStatuses) {
		return "", false
	}
	return models.PipelineStatuses[idx], true
}

// cardAt maps screen coordinates to the lead card under them.
func (m Model) cardAt(x, y int) (models.Lead, bool) {
	status, ok := m.columnAt(x)
	if !ok {
		return models.Lead{}, false
	}
	row := y - boardHeaderRows
	if row < 0 {
		return models.Lead{}, false
	}
	cards := m.board.Columns()[status]
	idx := row / cardHeight
	if idx >= len(cards) {
		return models.Lead{}, false
	}
	return cards[idx], true
}

func (m Model) renderBoardView() string {
	var s strings.Builder

	s.WriteString(titleStyle.Render("LEADBOARD"))
	s.WriteString("\n")
	s.WriteString(m.renderFilterLine())
	s.WriteString("\n\n")

	columns := m.board.Columns()
	colWidth := m.columnWidth()

	rendered := make([]string, 0, len(models.PipelineStatuses))
	for colIdx, status := range models.PipelineStatuses {
		var col strings.Builder
		header := fmt.Sprintf("%s (%d)", status.Label(), len(columns[status]))
		headerStyle := columnHeaderStyle
		if _, dragging := m.board.Dragging(); dragging && status == m.dragTarget {
			headerStyle = cardSelectedStyle
		}
		col.WriteString(headerStyle.Width(colWidth - 2).Render(header))
		col.WriteString("\n")

		for rowIdx, lead := range columns[status] {
			selected := m.viewMode == ViewBoard && colIdx == m.selectedCol && rowIdx == m.selectedRow
			col.WriteString(m.renderCard(lead, colWidth-2, selected))
			// Blank separator row brings each card to cardHeight rows,
			// keeping the render stride equal to the hit-testing stride
			col.WriteString("\n\n")
		}

		rendered = append(rendered, lipgloss.NewStyle().Width(colWidth).Render(col.String()))
	}

	s.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, rendered...))
	s.WriteString("\n")

	if m.status != "" {
		s.WriteString(errorStyle.Render(m.status))
		s.WriteString("\n")
	}
	s.WriteString(m.renderBoardHelp())

	return s.String()
}

func (m Model) renderFilterLine() string {
	scope := m.board.Filters().AssignedTo
	if scope == "" {
		scope = api.AssigneeAll
	}
	filter := dimStyle.Render("Assignee: " + scope)

	if m.searching {
		return filter + "  " + m.searchInput.View()
	}
	if query := m.board.Filters().Search; query != "" {
		return filter + "  " + dimStyle.Render("Search: "+query)
	}
	return filter
}

// renderCard emits the card's three text rows; the column layout appends the
// separator row that pads each card to cardHeight.
func (m Model) renderCard(lead models.Lead, width int, selected bool) string {
	style := cardStyle
	if selected {
		style = cardSelectedStyle
	}
	if id, dragging := m.board.Dragging(); dragging && id == lead.ID {
		style = cardSelectedStyle
	}

	name := lead.Name
	if lead.IsDuplicate {
		name += " " + duplicateBadgeStyle.Render("[dup]")
	}

	vehicle := ""
	if lead.Vehicle != nil {
		vehicle = lead.Vehicle.Title
	}

	assignee := "—"
	if lead.AssignedTo != nil {
		assignee = lead.AssignedTo.Name
	}

	lines := []string{
		style.Width(width).MaxHeight(1).Render(truncate(name, width)),
		dimStyle.Width(width).MaxHeight(1).Render(truncate(vehicle, width)),
		dimStyle.Width(width).MaxHeight(1).Render(truncate(assignee, width)),
	}
	return strings.Join(lines, "\n")
}

func truncate(s string, width int) string {
	if width <= 1 || len(s) <= width {
		return s
	}
	return s[:width-1] + "…"
}

func (m Model) renderBoardHelp() string {
	help := []string{
		"↑/↓/←/→: Navigate",
		"[/]: Move lead",
		"Enter: Open lead",
		"/: Search",
		"a: Assignee filter",
		"r: Reload",
		"q: Quit",
	}
	return helpStyle.Render(strings.Join(help, " • "))
}

func (m Model) handleBoardKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.searching {
		return m.handleSearchKeys(msg)
	}

	switch msg.String() {
	case "q":
		m.board.Close()
		return m, tea.Quit

	case "up", "k":
		if m.selectedRow > 0 {
			m.selectedRow--
		}
	case "down", "j":
		m.selectedRow++
		m.clampSelection()
	case "left", "h":
		if m.selectedCol > 0 {
			m.selectedCol--
			m.clampSelection()
		}
	case "right", "l":
		if m.selectedCol < len(models.PipelineStatuses)-1 {
			m.selectedCol++
			m.clampSelection()
		}

	case "[", "]":
		return m.moveSelected(msg.String() == "]")

	case "enter":
		if lead, ok := m.selectedLead(); ok {
			return m.openDetail(lead.ID)
		}

	case "/":
		m.searching = true
		m.searchInput.SetValue(m.board.Filters().Search)
		m.searchInput.Focus()
		return m, textinput.Blink

	case "a":
		m.cycleAssigneeFilter()
		return m, loadBoardCmd(m.board, m.snap)

	case "r":
		return m, loadBoardCmd(m.board, m.snap)
	}

	return m, nil
}

func (m Model) handleSearchKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.searching = false
		m.searchInput.Blur()
		seq := m.board.SetSearch("")
		return m, debounceSearchCmd(seq)
	case "enter":
		m.searching = false
		m.searchInput.Blur()
		seq := m.board.SetSearch(m.searchInput.Value())
		return m, debounceSearchCmd(seq)
	}

	var cmd tea.Cmd
	m.searchInput, cmd = m.searchInput.Update(msg)
	seq := m.board.SetSearch(m.searchInput.Value())
	return m, tea.Batch(cmd, debounceSearchCmd(seq))
}

func (m Model) handleBoardMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft {
			return m, nil
		}
		if lead, ok := m.cardAt(msg.X, msg.Y); ok {
			m.board.BeginDrag(lead.ID, msg.X, msg.Y)
		}

	case tea.MouseActionMotion:
		m.board.DragMove(msg.X, msg.Y)
		if _, dragging := m.board.Dragging(); dragging {
			if status, ok := m.columnAt(msg.X); ok {
				m.dragTarget = status
			}
		}

	case tea.MouseActionRelease:
		leadID, dragged := m.board.EndDrag()
		if leadID == uuid.Nil {
			return m, nil
		}
		if !dragged {
			// Sub-threshold press is a click: open the detail view
			return m.openDetail(leadID)
		}
		if status, ok := m.columnAt(msg.X); ok {
			if confirm, ok := m.board.Transition(leadID, status); ok {
				return m, confirmTransitionCmd(confirm)
			}
		}
	}
	return m, nil
}

// moveSelected shifts the selected lead one column left or right through the
// optimistic transition protocol.
func (m Model) moveSelected(forward bool) (tea.Model, tea.Cmd) {
	lead, ok := m.selectedLead()
	if !ok {
		return m, nil
	}

	idx := m.selectedCol
	if forward {
		idx++
	} else {
		idx--
	}
	if idx < 0 || idx >= len(models.PipelineStatuses) {
		return m, nil
	}

	confirm, ok := m.board.Transition(lead.ID, models.PipelineStatuses[idx])
	if !ok {
		return m, nil
	}
	m.selectedCol = idx
	m.clampSelection()
	return m, confirmTransitionCmd(confirm)
}

func (m Model) selectedLead() (models.Lead, bool) {
	cards := m.board.Columns()[models.PipelineStatuses[m.selectedCol]]
	if m.selectedRow >= len(cards) {
		return models.Lead{}, false
	}
	return cards[m.selectedRow], true
}

func (m *Model) cycleAssigneeFilter() {
	switch m.board.Filters().AssignedTo {
	case api.AssigneeAll, "":
		m.board.SetAssigneeFilter(api.AssigneeMe)
	case api.AssigneeMe:
		m.board.SetAssigneeFilter(api.AssigneeUnassigned)
	default:
		m.board.SetAssigneeFilter(api.AssigneeAll)
	}
	m.selectedRow = 0
}
