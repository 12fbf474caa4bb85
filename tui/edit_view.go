// ABOUTME: Form views - new task, new opportunity, log note, edit lead
// ABOUTME: Validation failures stay on the form; nothing is sent until valid
package tui

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"

	"github.com/motorlot/leadboard/api"
	"github.com/motorlot/leadboard/engine"
	"github.com/motorlot/leadboard/models"
)

const formDateLayout = "2006-01-02 15:04"

func (m Model) renderFormView() string {
	var s strings.Builder

	switch m.viewMode {
	case ViewTaskForm:
		s.WriteString(titleStyle.Render("NEW TASK"))
	case ViewOppForm:
		s.WriteString(titleStyle.Render("NEW OPPORTUNITY"))
	case ViewNoteForm:
		s.WriteString(titleStyle.Render("LOG NOTE"))
	case ViewLeadForm:
		s.WriteString(titleStyle.Render("EDIT LEAD"))
	}
	s.WriteString("\n\n")

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

	if m.formErr != nil {
		s.WriteString(errorStyle.Render(m.formErr.Error()))
		s.WriteString("\n\n")
	}

	s.WriteString(helpStyle.Render("Tab: Next field • Enter: Save • Esc: Cancel"))
	return s.String()
}

func (m Model) openForm(mode ViewMode) (Model, tea.Cmd) {
	m.viewMode = mode
	m.formErr = nil
	m.focusIndex = 0

	switch mode {
	case ViewTaskForm:
		m.formInputs = makeInputs(
			field{"Title", 100, ""},
			field{"Assignee name", 100, m.defaultAssigneeName()},
			field{"Due (" + formDateLayout + ")", 20, ""},
			field{"Priority (LOW/MEDIUM/HIGH)", 10, string(models.PriorityMedium)},
			field{"Description", 200, ""},
		)
	case ViewOppForm:
		m.formInputs = makeInputs(
			field{"Estimated value (dollars)", 15, ""},
			field{"Probability (0-100)", 3, ""},
			field{"Expected close (2006-01-02, optional)", 12, ""},
			field{"Notes", 200, ""},
		)
	case ViewNoteForm:
		m.formInputs = makeInputs(field{"Note", 500, ""})
	case ViewLeadForm:
		lead, _ := m.detail.Lead()
		m.formInputs = makeInputs(
			field{"Status (NEW/CONTACTED/QUALIFIED/CONVERTED/LOST)", 12, string(lead.Status)},
			field{"Assignee name (empty to unassign)", 100, leadAssigneeName(lead)},
			field{"Estimated value (dollars)", 15, centsToInput(lead.EstimatedValue)},
			field{"Notes", 500, lead.Notes},
		)
	}

	m.updateFormFocus()
	return m, textinput.Blink
}

type field struct {
	placeholder string
	limit       int
	value       string
}

func makeInputs(fields ...field) []textinput.Model {
	inputs := make([]textinput.Model, len(fields))
	for i, f := range fields {
		inputs[i] = textinput.New()
		inputs[i].Placeholder = f.placeholder
		inputs[i].CharLimit = f.limit
		inputs[i].SetValue(f.value)
	}
	return inputs
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

func (m Model) handleFormKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.viewMode = ViewDetail
		m.formErr = nil
		return m, nil
	case "tab", "shift+tab":
		if msg.String() == "tab" {
			m.focusIndex = (m.focusIndex + 1) % len(m.formInputs)
		} else {
			m.focusIndex = (m.focusIndex - 1 + len(m.formInputs)) % len(m.formInputs)
		}
		m.updateFormFocus()
		return m, nil
	case "enter":
		return m.submitForm()
	}

	var cmd tea.Cmd
	m.formInputs[m.focusIndex], cmd = m.formInputs[m.focusIndex].Update(msg)
	return m, cmd
}

func (m Model) submitForm() (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	var err error

	switch m.viewMode {
	case ViewTaskForm:
		cmd, err = m.submitTaskForm()
	case ViewOppForm:
		cmd, err = m.submitOppForm()
	case ViewNoteForm:
		cmd = logActivityCmd(m.detail, models.ActivityNote, m.formInputs[0].Value())
	case ViewLeadForm:
		cmd, err = m.submitLeadForm()
	}

	if err != nil {
		// Failed validation blocks the request; stay on the form
		m.formErr = err
		return m, nil
	}
	m.viewMode = ViewDetail
	m.formErr = nil
	return m, cmd
}

func (m Model) submitTaskForm() (tea.Cmd, error) {
	form := engine.NewTaskForm{
		Title:       m.formInputs[0].Value(),
		Description: m.formInputs[4].Value(),
		Priority:    models.TaskPriority(strings.ToUpper(m.formInputs[3].Value())),
	}

	if name := m.formInputs[1].Value(); name != "" {
		member, ok := m.memberByName(name)
		if !ok {
			return nil, &engine.FieldError{Field: "assigned_to", Message: "no team member named " + name}
		}
		form.AssignedToID = member.ID
	}

	if raw := m.formInputs[2].Value(); raw != "" {
		dueAt, err := time.ParseInLocation(formDateLayout, raw, time.Local)
		if err != nil {
			return nil, &engine.FieldError{Field: "due_at", Message: "use format " + formDateLayout}
		}
		form.DueAt = dueAt
	}

	if err := form.Validate(time.Now()); err != nil {
		return nil, err
	}
	return createTaskCmd(m.detail, form), nil
}

func (m Model) submitOppForm() (tea.Cmd, error) {
	dollars, err := strconv.ParseFloat(m.formInputs[0].Value(), 64)
	if err != nil {
		return nil, &engine.FieldError{Field: "estimated_value", Message: "must be a number"}
	}
	probability, err := strconv.Atoi(m.formInputs[1].Value())
	if err != nil {
		return nil, &engine.FieldError{Field: "probability", Message: "must be a whole number"}
	}

	input := api.OpportunityInput{
		EstimatedValue: int64(dollars * 100),
		Probability:    probability,
		Notes:          m.formInputs[3].Value(),
	}

	if raw := m.formInputs[2].Value(); raw != "" {
		closeDate, err := time.ParseInLocation("2006-01-02", raw, time.Local)
		if err != nil {
			return nil, &engine.FieldError{Field: "expected_close_date", Message: "use format 2006-01-02"}
		}
		input.ExpectedCloseDate = &closeDate
	}

	// Range checks happen before any request is made
	if err := engine.ValidateOpportunity(input); err != nil {
		return nil, err
	}
	if input.Status == "" {
		input.Status = models.OpportunityOpen
	}
	return createOppCmd(m.detail, input), nil
}

func (m Model) submitLeadForm() (tea.Cmd, error) {
	lead, found := m.detail.Lead()
	if !found {
		return nil, fmt.Errorf("lead no longer on the board")
	}

	status := models.LeadStatus(strings.ToUpper(m.formInputs[0].Value()))
	if !status.Valid() {
		return nil, &engine.FieldError{Field: "status", Message: "unknown status " + string(status)}
	}

	assigneeName := strings.TrimSpace(m.formInputs[1].Value())
	var assigneeID uuid.UUID
	if assigneeName != "" {
		member, ok := m.memberByName(assigneeName)
		if !ok {
			return nil, &engine.FieldError{Field: "assigned_to", Message: "no team member named " + assigneeName}
		}
		assigneeID = member.ID
	}

	var cents int64
	if raw := m.formInputs[2].Value(); raw != "" {
		dollars, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, &engine.FieldError{Field: "estimated_value", Message: "must be a number"}
		}
		if dollars < 0 {
			return nil, &engine.FieldError{Field: "estimated_value", Message: "must not be negative"}
		}
		cents = int64(dollars * 100)
	}
	notes := m.formInputs[3].Value()

	// Only changed fields go into the patch; the server's representation
	// replaces the local lead when the round-trip lands
	var patch api.LeadPatch
	if status != lead.Status {
		patch.Status = &status
	}
	if assigneeName == "" && lead.AssignedTo != nil {
		patch.AssignedToID = api.Unassign()
	} else if assigneeID != uuid.Nil && (lead.AssignedTo == nil || lead.AssignedTo.ID != assigneeID) {
		patch.AssignedToID = api.Assign(assigneeID)
	}
	if cents != lead.EstimatedValue {
		patch.EstimatedValue = &cents
	}
	if notes != lead.Notes {
		patch.Notes = &notes
	}
	return editLeadCmd(m.detail, patch), nil
}

func (m Model) memberByName(name string) (models.TeamMember, bool) {
	for _, member := range m.team {
		if strings.EqualFold(member.Name, name) {
			return member, true
		}
	}
	return models.TeamMember{}, false
}

func (m Model) defaultAssigneeName() string {
	for _, member := range m.team {
		if member.ID == m.cfg.MemberID {
			return member.Name
		}
	}
	return ""
}

func leadAssigneeName(lead models.Lead) string {
	if lead.AssignedTo == nil {
		return ""
	}
	return lead.AssignedTo.Name
}

func centsToInput(cents int64) string {
	if cents == 0 {
		return ""
	}
	return strconv.FormatFloat(float64(cents)/100, 'f', 2, 64)
}
