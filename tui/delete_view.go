// ABOUTME: Delete confirmation view for opportunities
// ABOUTME: The staged delete only goes out after an explicit yes
package tui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/motorlot/leadboard/models"
)

var (
	confirmBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("9")).
			Padding(1, 2).
			Width(60).
			Align(lipgloss.Center)

	warningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("9")).
			Bold(true)

	confirmButtonStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("15")).
				Background(lipgloss.Color("9")).
				Padding(0, 2).
				MarginRight(2)

	cancelButtonStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("15")).
				Background(lipgloss.Color("8")).
				Padding(0, 2)
)

func (m Model) renderConfirmDeleteView() string {
	oppID, staged := m.detail.Tracker().PendingDelete()
	if !staged {
		return "Nothing staged for deletion. Press esc to go back."
	}

	description := "this opportunity"
	for _, opp := range m.detail.Tracker().Opportunities() {
		if opp.ID == oppID {
			description = fmt.Sprintf("%s at %d%%", models.FormatCents(opp.EstimatedValue), opp.Probability)
			break
		}
	}

	title := warningStyle.Render("⚠  DELETE OPPORTUNITY  ⚠")
	message := fmt.Sprintf("Are you sure you want to delete %s?", description)
	warning := "\nThis action cannot be undone!"

	buttons := lipgloss.JoinHorizontal(
		lipgloss.Left,
		confirmButtonStyle.Render("Yes, Delete (y)"),
		cancelButtonStyle.Render("Cancel (n/esc)"),
	)

	content := lipgloss.JoinVertical(
		lipgloss.Center,
		title,
		"",
		message,
		warning,
		"",
		buttons,
	)

	return lipgloss.Place(
		m.width,
		m.height,
		lipgloss.Center,
		lipgloss.Center,
		confirmBoxStyle.Render(content),
	)
}

func (m Model) handleConfirmDeleteKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y":
		// Consume the staged confirmation here on the loop; the command
		// only issues the network delete.
		oppID, staged := m.detail.Tracker().PendingDelete()
		m.detail.Tracker().CancelDelete()
		m.viewMode = ViewDetail
		m.clampDetailSelection()
		if !staged {
			return m, nil
		}
		return m, deleteOppCmd(m.detail, oppID)
	case "n", "N", "esc":
		m.detail.Tracker().CancelDelete()
		m.viewMode = ViewDetail
	}
	return m, nil
}
