// ABOUTME: Lead detail view - timeline, tasks, and opportunities side by side
// ABOUTME: Each section fetches independently and keeps last-known-good data
package tui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/motorlot/leadboard/engine"
	"github.com/motorlot/leadboard/models"
)

func (m Model) renderDetailView() string {
	lead, found := m.detail.Lead()
	if !found {
		return "Lead no longer on the board. Press esc to go back."
	}

	var s strings.Builder

	name := lead.Name
	if lead.IsDuplicate {
		name += " " + duplicateBadgeStyle.Render("[duplicate]")
	}
	s.WriteString(titleStyle.Render(name))
	s.WriteString("\n")

	s.WriteString(dimStyle.Render(fmt.Sprintf("%s  •  %s", lead.Email, lead.Status.Label())))
	s.WriteString("\n")
	if lead.Vehicle != nil {
		s.WriteString(dimStyle.Render("Vehicle: " + lead.Vehicle.Title))
		s.WriteString("\n")
	}
	assignee := "Unassigned"
	if lead.AssignedTo != nil {
		assignee = lead.AssignedTo.Name
	}
	line := "Assigned: " + assignee
	if lead.EstimatedValue > 0 {
		line += "  •  Est. " + models.FormatCents(lead.EstimatedValue)
	}
	s.WriteString(dimStyle.Render(line))
	s.WriteString("\n")
	if lead.Notes != "" {
		s.WriteString(dimStyle.Render("Notes: " + lead.Notes))
		s.WriteString("\n")
	}
	s.WriteString("\n")

	s.WriteString(m.renderDetailSections())
	s.WriteString("\n")

	if m.status != "" {
		s.WriteString(errorStyle.Render(m.status))
		s.WriteString("\n")
	}
	s.WriteString(m.renderDetailHelp())

	return s.String()
}

func (m Model) renderDetailSections() string {
	sections := []string{"Timeline", "Tasks", "Opportunities"}
	var tabs []string
	for i, name := range sections {
		if i == m.detailSection {
			tabs = append(tabs, columnHeaderStyle.Render(name))
		} else {
			tabs = append(tabs, dimStyle.Render(" "+name+" "))
		}
	}

	var body string
	switch m.detailSection {
	case 0:
		body = m.renderTimeline()
	case 1:
		body = m.renderTasks()
	case 2:
		body = m.renderOpportunities()
	}

	return strings.Join(tabs, " ") + "\n\n" + body
}

func (m Model) renderTimeline() string {
	if len(m.timeline) == 0 {
		return dimStyle.Render("No activity yet.")
	}

	var s strings.Builder
	for _, entry := range m.timeline {
		when := entry.Activity.CreatedAt.Format("Jan 2 15:04")
		line := fmt.Sprintf("%s  %s %s", when, entry.Actor, entry.Verb)
		if entry.Detail != "" {
			line += " " + entry.Detail
		}
		s.WriteString(line)
		s.WriteString("\n")
		if entry.Note != "" {
			s.WriteString(dimStyle.Render("    “" + entry.Note + "”"))
			s.WriteString("\n")
		}
	}
	return s.String()
}

func (m Model) renderTasks() string {
	tasks := m.detail.Scheduler().Tasks()
	if len(tasks.Pending) == 0 && len(tasks.Completed) == 0 {
		return dimStyle.Render("No tasks. Press t to add one.")
	}

	now := time.Now()
	var s strings.Builder

	for i, task := range tasks.Pending {
		cursor := "  "
		if m.detailSection == 1 && i == m.detailSelected {
			cursor = "> "
		}
		due := engine.DueLabel(task.DueAt, now)
		if task.Overdue(now) {
			due = overdueStyle.Render(due + " (overdue)")
		}
		s.WriteString(fmt.Sprintf("%s[%s] %s — %s, %s\n", cursor, task.Priority, task.Title, task.AssignedTo.Name, due))
	}
	for _, task := range tasks.Completed {
		s.WriteString(dimStyle.Render(fmt.Sprintf("  ✓ %s — done %s", task.Title, task.CompletedAt.Format("Jan 2"))))
		s.WriteString("\n")
	}
	return s.String()
}

func (m Model) renderOpportunities() string {
	opps := m.detail.Tracker().Opportunities()
	if len(opps) == 0 {
		return dimStyle.Render("No opportunities. Press o to add one.")
	}

	var s strings.Builder
	for i, opp := range opps {
		cursor := "  "
		if m.detailSection == 2 && i == m.detailSelected {
			cursor = "> "
		}
		line := fmt.Sprintf("%s%s  %s at %d%%", cursor, opp.Status.Label(), models.FormatCents(opp.EstimatedValue), opp.Probability)
		if weighted, ok := opp.WeightedValue(); ok {
			line += "  → " + models.FormatCents(weighted)
		}
		if opp.Vehicle != nil {
			line += "  (" + opp.Vehicle.Title + ")"
		}
		s.WriteString(line)
		s.WriteString("\n")
	}

	s.WriteString("\n")
	s.WriteString(fmt.Sprintf("Weighted pipeline: %s", models.FormatCents(m.detail.Tracker().OpenWeightedTotal())))
	s.WriteString("\n")
	return s.String()
}

func (m Model) renderDetailHelp() string {
	help := []string{
		"Tab: Section",
		"↑/↓: Select",
	}
	switch m.detailSection {
	case 0:
		help = append(help, "n: Log note", "c: Log call")
	case 1:
		help = append(help, "t: New task", "enter: Complete")
	case 2:
		help = append(help, "o: New opportunity", "d: Delete")
	}
	help = append(help, "e: Edit lead", "esc: Board")
	return helpStyle.Render(strings.Join(help, " • "))
}

func (m Model) handleDetailKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "q":
		m.viewMode = ViewBoard
		m.detail = nil
		m.status = ""
		return m, loadBoardCmd(m.board, m.snap)

	case "tab":
		m.detailSection = (m.detailSection + 1) % 3
		m.detailSelected = 0

	case "up", "k":
		if m.detailSelected > 0 {
			m.detailSelected--
		}
	case "down", "j":
		m.detailSelected++
		m.clampDetailSelection()

	case "n":
		return m.openForm(ViewNoteForm)
	case "c":
		if m.detailSection == 0 {
			return m, logActivityCmd(m.detail, models.ActivityCall, "")
		}

	case "t":
		return m.openForm(ViewTaskForm)

	case "enter":
		if m.detailSection == 1 {
			pending := m.detail.Scheduler().Tasks().Pending
			if m.detailSelected < len(pending) {
				return m, completeTaskCmd(m.detail, pending[m.detailSelected].ID)
			}
		}

	case "o":
		return m.openForm(ViewOppForm)

	case "d":
		if m.detailSection == 2 {
			opps := m.detail.Tracker().Opportunities()
			if m.detailSelected < len(opps) {
				m.detail.Tracker().RequestDelete(opps[m.detailSelected].ID)
				m.viewMode = ViewConfirmDelete
			}
		}

	case "e":
		return m.openForm(ViewLeadForm)
	}

	return m, nil
}

func (m *Model) clampDetailSelection() {
	var n int
	switch m.detailSection {
	case 1:
		n = len(m.detail.Scheduler().Tasks().Pending)
	case 2:
		n = len(m.detail.Tracker().Opportunities())
	}
	if m.detailSelected >= n {
		m.detailSelected = n - 1
	}
	if m.detailSelected < 0 {
		m.detailSelected = 0
	}
}
