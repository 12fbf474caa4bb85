// ABOUTME: In-memory fake of the collaborator API for engine tests
// ABOUTME: Supports scripted failures and call recording, no network involved
package engine

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/motorlot/leadboard/api"
	"github.com/motorlot/leadboard/models"
)

var errFakeDown = errors.New("backend unavailable")

type fakeAPI struct {
	leads      []models.Lead
	activities []models.Activity
	tasks      []models.Task
	opps       []models.Opportunity
	members    []models.TeamMember

	failList   bool
	failUpdate bool
	failTasks  bool
	failOpps   bool

	listCalls   int
	updateCalls []api.LeadPatch
}

func newFakeAPI(leads ...models.Lead) *fakeAPI {
	return &fakeAPI{leads: leads}
}

func (f *fakeAPI) ListLeads(_ context.Context, filters api.LeadFilters) ([]models.Lead, error) {
	f.listCalls++
	if f.failList {
		return nil, errFakeDown
	}
	var out []models.Lead
	for _, lead := range f.leads {
		if lead.MatchesSearch(filters.Search) {
			out = append(out, lead)
		}
	}
	return out, nil
}

func (f *fakeAPI) UpdateLead(_ context.Context, id uuid.UUID, patch api.LeadPatch) (*models.Lead, error) {
	f.updateCalls = append(f.updateCalls, patch)
	if f.failUpdate {
		return nil, errFakeDown
	}
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
		if patch.AssignedToID != nil {
			if *patch.AssignedToID == nil {
				f.leads[i].AssignedTo = nil
			} else {
				f.leads[i].AssignedTo = &models.TeamMember{ID: **patch.AssignedToID, Name: "Fake Member"}
			}
		}
		lead := f.leads[i]
		return &lead, nil
	}
	return nil, errors.New("lead not found")
}

func (f *fakeAPI) ListActivities(_ context.Context, leadID uuid.UUID) ([]models.Activity, error) {
	var out []models.Activity
	for _, a := range f.activities {
		if a.LeadID == leadID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (f *fakeAPI) CreateActivity(_ context.Context, leadID uuid.UUID, typ models.ActivityType, content string) (*models.Activity, error) {
	activity := models.Activity{
		ID:        uuid.New(),
		LeadID:    leadID,
		Type:      typ,
		Content:   content,
		CreatedAt: time.Now(),
	}
	f.activities = append(f.activities, activity)
	return &activity, nil
}

func (f *fakeAPI) ListTasks(_ context.Context, leadID uuid.UUID) ([]models.Task, error) {
	if f.failTasks {
		return nil, errFakeDown
	}
	var out []models.Task
	for _, task := range f.tasks {
		if task.LeadID == leadID {
			out = append(out, task)
		}
	}
	return out, nil
}

func (f *fakeAPI) CreateTask(_ context.Context, leadID uuid.UUID, input api.NewTask) (*models.Task, error) {
	if f.failTasks {
		return nil, errFakeDown
	}
	task := models.Task{
		ID:         uuid.New(),
		LeadID:     leadID,
		Title:      input.Title,
		AssignedTo: models.TeamMember{ID: input.AssignedToID},
		DueAt:      input.DueAt,
		Priority:   input.Priority,
		CreatedAt:  time.Now(),
	}
	f.tasks = append(f.tasks, task)
	return &task, nil
}

func (f *fakeAPI) CompleteTask(_ context.Context, leadID, taskID uuid.UUID) (*models.Task, error) {
	if f.failTasks {
		return nil, errFakeDown
	}
	for i := range f.tasks {
		if f.tasks[i].ID == taskID && f.tasks[i].LeadID == leadID {
			now := time.Now()
			f.tasks[i].CompletedAt = &now
			task := f.tasks[i]
			return &task, nil
		}
	}
	return nil, errors.New("task not found")
}

func (f *fakeAPI) ListOpportunities(_ context.Context, leadID uuid.UUID) ([]models.Opportunity, error) {
	if f.failOpps {
		return nil, errFakeDown
	}
	var out []models.Opportunity
	for _, opp := range f.opps {
		if opp.LeadID == leadID {
			out = append(out, opp)
		}
	}
	return out, nil
}

func (f *fakeAPI) CreateOpportunity(_ context.Context, leadID uuid.UUID, input api.OpportunityInput) (*models.Opportunity, error) {
	if f.failOpps {
		return nil, errFakeDown
	}
	opp := models.Opportunity{
		ID:             uuid.New(),
		LeadID:         leadID,
		EstimatedValue: input.EstimatedValue,
		Probability:    input.Probability,
		Status:         input.Status,
		Notes:          input.Notes,
		CreatedAt:      time.Now(),
	}
	f.opps = append(f.opps, opp)
	return &opp, nil
}

func (f *fakeAPI) UpdateOpportunity(_ context.Context, leadID, oppID uuid.UUID, input api.OpportunityInput) (*models.Opportunity, error) {
	if f.failOpps {
		return nil, errFakeDown
	}
	for i := range f.opps {
		if f.opps[i].ID == oppID && f.opps[i].LeadID == leadID {
			f.opps[i].EstimatedValue = input.EstimatedValue
			f.opps[i].Probability = input.Probability
			if input.Status != "" {
				f.opps[i].Status = input.Status
			}
			f.opps[i].Notes = input.Notes
			opp := f.opps[i]
			return &opp, nil
		}
	}
	return nil, errors.New("opportunity not found")
}

func (f *fakeAPI) DeleteOpportunity(_ context.Context, leadID, oppID uuid.UUID) error {
	if f.failOpps {
		return errFakeDown
	}
	for i := range f.opps {
		if f.opps[i].ID == oppID && f.opps[i].LeadID == leadID {
			f.opps = append(f.opps[:i], f.opps[i+1:]...)
			return nil
		}
	}
	return errors.New("opportunity not found")
}
