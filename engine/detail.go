// ABOUTME: Lead detail aggregator - composes timeline, tasks, and opportunities
// ABOUTME: Direct edits round-trip and adopt the server's lead representation
package engine

import (
	"context"

	"github.com/google/uuid"

	"github.com/motorlot/leadboard/api"
	"github.com/motorlot/leadboard/models"
)

// DetailAPI is the slice of the collaborator client the detail view needs.
type DetailAPI interface {
	UpdateLead(ctx context.Context, id uuid.UUID, patch api.LeadPatch) (*models.Lead, error)
	ListActivities(ctx context.Context, leadID uuid.UUID) ([]models.Activity, error)
	CreateActivity(ctx context.Context, leadID uuid.UUID, typ models.ActivityType, content string) (*models.Activity, error)
	TaskAPI
	OpportunityAPI
}

// Detail composes the three sub-views for one selected lead. Each sub-view
// fetches lazily and independently; a failure in one leaves the others (and
// its own last-known-good data) intact.
//
// Edits here contrast with the board's drag transitions: they are not
// applied optimistically. The patch round-trips first and the local lead is
// replaced with whatever the server returns.
type Detail struct {
	api    DetailAPI
	store  *Store
	leadID uuid.UUID

	timeline       []TimelineEntry
	timelineLoaded bool

	scheduler *Scheduler
	tracker   *Tracker
}

// NewDetail opens the aggregator for one lead.
func NewDetail(client DetailAPI, store *Store, leadID uuid.UUID) *Detail {
	return &Detail{
		api:       client,
		store:     store,
		leadID:    leadID,
		scheduler: NewScheduler(client, leadID),
		tracker:   NewTracker(client, leadID),
	}
}

// LeadID returns the selected lead's id.
func (d *Detail) LeadID() uuid.UUID { return d.leadID }

// API exposes the collaborator client so event-loop callers can run fetches
// off-loop and apply the results themselves.
func (d *Detail) API() DetailAPI { return d.api }

// Lead returns the selected lead from the store.
func (d *Detail) Lead() (models.Lead, bool) {
	return d.store.Get(d.leadID)
}

// Scheduler exposes the task sub-view.
func (d *Detail) Scheduler() *Scheduler { return d.scheduler }

// Tracker exposes the opportunity sub-view.
func (d *Detail) Tracker() *Tracker { return d.tracker }

// Timeline returns the synthesized activity narrative, fetching it on first
// use. Call RefreshTimeline to pick up entries appended since.
func (d *Detail) Timeline(ctx context.Context) ([]TimelineEntry, error) {
	if !d.timelineLoaded {
		if err := d.RefreshTimeline(ctx); err != nil {
			return d.timeline, err
		}
	}
	return d.timeline, nil
}

// RefreshTimeline refetches and resynthesizes the activity log. On failure
// the previous narrative is kept.
func (d *Detail) RefreshTimeline(ctx context.Context) error {
	activities, err := d.api.ListActivities(ctx, d.leadID)
	if err != nil {
		return err
	}
	d.timeline = SynthesizeTimeline(activities)
	d.timelineLoaded = true
	return nil
}

// LogActivity posts a manual activity and refreshes the timeline.
func (d *Detail) LogActivity(ctx context.Context, typ models.ActivityType, content string) error {
	if _, err := d.api.CreateActivity(ctx, d.leadID, typ, content); err != nil {
		return err
	}
	return d.RefreshTimeline(ctx)
}

// edit round-trips a patch and swaps in the server's representation.
func (d *Detail) edit(ctx context.Context, patch api.LeadPatch) error {
	lead, err := d.api.UpdateLead(ctx, d.leadID, patch)
	if err != nil {
		return err
	}
	d.store.ReplaceLead(*lead)
	return nil
}

// SetNotes updates the lead's notes.
func (d *Detail) SetNotes(ctx context.Context, notes string) error {
	return d.edit(ctx, api.LeadPatch{Notes: &notes})
}

// SetEstimatedValue updates the lead's estimated value, in cents.
func (d *Detail) SetEstimatedValue(ctx context.Context, cents int64) error {
	if cents < 0 {
		return &FieldError{Field: "estimated_value", Message: "must not be negative"}
	}
	return d.edit(ctx, api.LeadPatch{EstimatedValue: &cents})
}

// SetStatus updates the lead's status. The server appends the paired
// STATUS_CHANGE activity.
func (d *Detail) SetStatus(ctx context.Context, status models.LeadStatus) error {
	if !status.Valid() {
		return &FieldError{Field: "status", Message: "unknown status " + string(status)}
	}
	return d.edit(ctx, api.LeadPatch{Status: &status})
}

// Assign sets the lead's assignee. The server appends the paired ASSIGNMENT
// activity.
func (d *Detail) Assign(ctx context.Context, memberID uuid.UUID) error {
	return d.edit(ctx, api.LeadPatch{AssignedToID: api.Assign(memberID)})
}

// Unassign clears the lead's assignee.
func (d *Detail) Unassign(ctx context.Context) error {
	return d.edit(ctx, api.LeadPatch{AssignedToID: api.Unassign()})
}
