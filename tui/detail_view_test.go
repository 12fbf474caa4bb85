package tui

import (
	"context"
	"errors"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/motorlot/leadboard/api"
	"github.com/motorlot/leadboard/engine"
	"github.com/motorlot/leadboard/models"
)

// fakeDetailAPI serves one lead's sub-resources and records deletions.
type fakeDetailAPI struct {
	leads      []models.Lead
	activities []models.Activity
	tasks      []models.Task
	opps       []models.Opportunity
	deletes    int
}

func (f *fakeDetailAPI) UpdateLead(_ context.Context, id uuid.UUID, patch api.LeadPatch) (*models.Lead, error) {
	for i := range f.leads {
		if f.leads[i].ID != id {
			continue
		}
		if patch.Status != nil {
			f.leads[i].Status = *patch.Status
		}
		if patch.Notes != nil {
			f.leads[i].Notes = *patch.Notes
		}
		if patch.EstimatedValue != nil {
			f.leads[i].EstimatedValue = *patch.EstimatedValue
		}
		lead := f.leads[i]
		return &lead, nil
	}
	return nil, errors.New("lead not found")
}

func (f *fakeDetailAPI) ListActivities(_ context.Context, leadID uuid.UUID) ([]models.Activity, error) {
	return f.activities, nil
}

func (f *fakeDetailAPI) CreateActivity(_ context.Context, leadID uuid.UUID, typ models.ActivityType, content string) (*models.Activity, error) {
	activity := models.Activity{ID: uuid.New(), LeadID: leadID, Type: typ, Content: content, CreatedAt: time.Now()}
	f.activities = append(f.activities, activity)
	return &activity, nil
}

func (f *fakeDetailAPI) ListTasks(_ context.Context, leadID uuid.UUID) ([]models.Task, error) {
	return f.tasks, nil
}

func (f *fakeDetailAPI) CreateTask(_ context.Context, leadID uuid.UUID, input api.NewTask) (*models.Task, error) {
	task := models.Task{ID: uuid.New(), LeadID: leadID, Title: input.Title, DueAt: input.DueAt, Priority: input.Priority}
	f.tasks = append(f.tasks, task)
	return &task, nil
}

func (f *fakeDetailAPI) CompleteTask(_ context.Context, leadID, taskID uuid.UUID) (*models.Task, error) {
	for i := range f.tasks {
		if f.tasks[i].ID == taskID {
			now := time.Now()
			f.tasks[i].CompletedAt = &now
			task := f.tasks[i]
			return &task, nil
		}
	}
	return nil, errors.New("task not found")
}

func (f *fakeDetailAPI) ListOpportunities(_ context.Context, leadID uuid.UUID) ([]models.Opportunity, error) {
	return f.opps, nil
}

func (f *fakeDetailAPI) CreateOpportunity(_ context.Context, leadID uuid.UUID, input api.OpportunityInput) (*models.Opportunity, error) {
	opp := models.Opportunity{ID: uuid.New(), LeadID: leadID, EstimatedValue: input.EstimatedValue, Probability: input.Probability, Status: input.Status}
	f.opps = append(f.opps, opp)
	return &opp, nil
}

func (f *fakeDetailAPI) UpdateOpportunity(_ context.Context, leadID, oppID uuid.UUID, input api.OpportunityInput) (*models.Opportunity, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeDetailAPI) DeleteOpportunity(_ context.Context, leadID, oppID uuid.UUID) error {
	f.deletes++
	for i := range f.opps {
		if f.opps[i].ID == oppID {
			f.opps = append(f.opps[:i], f.opps[i+1:]...)
			return nil
		}
	}
	return errors.New("opportunity not found")
}

func testDetailModel(t *testing.T, fake *fakeDetailAPI) Model {
	t.Helper()
	require.NotEmpty(t, fake.leads)

	store := engine.NewStore()
	store.ReplaceAll(fake.leads)

	m := NewModel(nil, nil)
	m.board = engine.NewBoard(&fakeBoardAPI{leads: fake.leads}, store)
	m.detail = engine.NewDetail(fake, store, fake.leads[0].ID)
	m.viewMode = ViewDetail
	return m
}

// Section commands only fetch; the scheduler and tracker adopt the results
// when the message reaches Update on the event loop.
func TestDetailSectionsApplyInUpdate(t *testing.T) {
	lead := models.Lead{ID: uuid.New(), Name: "Maria Santos", Status: models.LeadStatusNew}
	fake := &fakeDetailAPI{
		leads: []models.Lead{lead},
		tasks: []models.Task{{ID: uuid.New(), LeadID: lead.ID, Title: "Call back", DueAt: time.Now().Add(time.Hour)}},
		opps:  []models.Opportunity{{ID: uuid.New(), LeadID: lead.ID, EstimatedValue: 100_000, Probability: 50, Status: models.OpportunityOpen}},
	}
	m := testDetailModel(t, fake)

	taskMsg := loadTasksCmd(m.detail)()
	oppMsg := loadOppsCmd(m.detail)()
	assert.False(t, m.detail.Scheduler().Loaded(), "command must not mutate the scheduler")
	assert.False(t, m.detail.Tracker().Loaded(), "command must not mutate the tracker")

	next, _ := m.Update(taskMsg)
	m = next.(Model)
	next, _ = m.Update(oppMsg)
	m = next.(Model)

	require.True(t, m.detail.Scheduler().Loaded())
	assert.Len(t, m.detail.Scheduler().Tasks().Pending, 1)
	require.True(t, m.detail.Tracker().Loaded())
	assert.Len(t, m.detail.Tracker().Opportunities(), 1)
}

// The staged delete is consumed on the event loop before the network command
// runs, and the refetched list lands through Update.
func TestConfirmDeleteConsumesStageThenDeletes(t *testing.T) {
	lead := models.Lead{ID: uuid.New(), Name: "Maria Santos", Status: models.LeadStatusNew}
	opp := models.Opportunity{ID: uuid.New(), LeadID: lead.ID, EstimatedValue: 100_000, Probability: 50, Status: models.OpportunityOpen}
	fake := &fakeDetailAPI{leads: []models.Lead{lead}, opps: []models.Opportunity{opp}}
	m := testDetailModel(t, fake)
	m.detail.Tracker().Replace(fake.opps)

	m.detail.Tracker().RequestDelete(opp.ID)
	m.viewMode = ViewConfirmDelete

	next, cmd := m.handleConfirmDeleteKeys(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'y'}})
	m = next.(Model)
	require.NotNil(t, cmd)
	assert.Equal(t, ViewDetail, m.viewMode)

	_, staged := m.detail.Tracker().PendingDelete()
	assert.False(t, staged, "stage must be consumed before the command runs")
	assert.Len(t, m.detail.Tracker().Opportunities(), 1, "command not run yet")

	next2, _ := m.Update(cmd())
	m = next2.(Model)
	assert.Equal(t, 1, fake.deletes)
	assert.Empty(t, m.detail.Tracker().Opportunities())
}

// A second yes without a staged target issues nothing.
func TestConfirmDeleteWithoutStageIsNoop(t *testing.T) {
	lead := models.Lead{ID: uuid.New(), Name: "Maria Santos", Status: models.LeadStatusNew}
	fake := &fakeDetailAPI{leads: []models.Lead{lead}}
	m := testDetailModel(t, fake)
	m.viewMode = ViewConfirmDelete

	_, cmd := m.handleConfirmDeleteKeys(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'y'}})
	assert.Nil(t, cmd)
	assert.Equal(t, 0, fake.deletes)
}

// Lead edits round-trip off-loop and the server's representation replaces
// the store's copy in Update.
func TestEditLeadAdoptsServerRepresentation(t *testing.T) {
	lead := models.Lead{ID: uuid.New(), Name: "Maria Santos", Status: models.LeadStatusNew}
	fake := &fakeDetailAPI{leads: []models.Lead{lead}}
	m := testDetailModel(t, fake)

	notes := "prefers evening calls"
	cmd := editLeadCmd(m.detail, api.LeadPatch{Notes: &notes})
	msg := cmd()

	got, _ := m.board.Store().Get(lead.ID)
	assert.Empty(t, got.Notes, "command must not mutate the store")

	next, _ := m.Update(msg)
	m = next.(Model)
	got, _ = m.board.Store().Get(lead.ID)
	assert.Equal(t, notes, got.Notes)
}
