// ABOUTME: Opportunity tracker - weighted values and lifecycle for a lead's deals
// ABOUTME: Mutations reload the list wholesale; nothing here is optimistic
package engine

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/motorlot/leadboard/api"
	"github.com/motorlot/leadboard/models"
)

// ErrConfirmRequired is returned when a delete is attempted without the
// staged confirmation step.
var ErrConfirmRequired = errors.New("delete requires confirmation")

// OpportunityAPI is the slice of the collaborator client the tracker needs.
type OpportunityAPI interface {
	ListOpportunities(ctx context.Context, leadID uuid.UUID) ([]models.Opportunity, error)
	CreateOpportunity(ctx context.Context, leadID uuid.UUID, input api.OpportunityInput) (*models.Opportunity, error)
	UpdateOpportunity(ctx context.Context, leadID, oppID uuid.UUID, input api.OpportunityInput) (*models.Opportunity, error)
	DeleteOpportunity(ctx context.Context, leadID, oppID uuid.UUID) error
}

// Tracker manages one lead's opportunities. Unlike the board's optimistic
// transitions, every create/update/delete round-trips and then reloads the
// whole list; the asymmetry with the board is deliberate.
type Tracker struct {
	api           OpportunityAPI
	leadID        uuid.UUID
	opps          []models.Opportunity
	loaded        bool
	pendingDelete *uuid.UUID
}

func NewTracker(client OpportunityAPI, leadID uuid.UUID) *Tracker {
	return &Tracker{api: client, leadID: leadID}
}

// Load fetches the opportunity list. On failure the previous list is kept.
func (t *Tracker) Load(ctx context.Context) error {
	opps, err := t.api.ListOpportunities(ctx, t.leadID)
	if err != nil {
		return err
	}
	t.opps = opps
	t.loaded = true
	return nil
}

// Replace adopts an externally fetched opportunity list. Event-loop callers
// fetch off-loop and hand the result over here instead of calling Load.
func (t *Tracker) Replace(opps []models.Opportunity) {
	t.opps = opps
	t.loaded = true
}

// Loaded reports whether an initial fetch has succeeded.
func (t *Tracker) Loaded() bool { return t.loaded }

// Opportunities returns the current list.
func (t *Tracker) Opportunities() []models.Opportunity {
	out := make([]models.Opportunity, len(t.opps))
	copy(out, t.opps)
	return out
}

// OpenWeightedTotal sums the weighted values of open opportunities.
func (t *Tracker) OpenWeightedTotal() int64 {
	var total int64
	for i := range t.opps {
		if weighted, ok := t.opps[i].WeightedValue(); ok {
			total += weighted
		}
	}
	return total
}

// ValidateOpportunity checks the value and probability ranges before any
// create or update request is issued.
func ValidateOpportunity(input api.OpportunityInput) error {
	if input.EstimatedValue <= 0 {
		return &FieldError{Field: "estimated_value", Message: "must be positive"}
	}
	if input.Probability < 0 || input.Probability > 100 {
		return &FieldError{Field: "probability", Message: "must be between 0 and 100"}
	}
	return nil
}

// Create validates, posts, and reloads.
func (t *Tracker) Create(ctx context.Context, input api.OpportunityInput) error {
	if err := ValidateOpportunity(input); err != nil {
		return err
	}
	if input.Status == "" {
		input.Status = models.OpportunityOpen
	}
	if _, err := t.api.CreateOpportunity(ctx, t.leadID, input); err != nil {
		return err
	}
	return t.Load(ctx)
}

// Update validates, patches, and reloads. There is no guard against moving
// a WON or LOST opportunity back to OPEN.
func (t *Tracker) Update(ctx context.Context, oppID uuid.UUID, input api.OpportunityInput) error {
	if err := ValidateOpportunity(input); err != nil {
		return err
	}
	if _, err := t.api.UpdateOpportunity(ctx, t.leadID, oppID, input); err != nil {
		return err
	}
	return t.Load(ctx)
}

// RequestDelete stages a delete. The request is only issued once
// ConfirmDelete is called.
func (t *Tracker) RequestDelete(oppID uuid.UUID) {
	id := oppID
	t.pendingDelete = &id
}

// PendingDelete returns the staged delete target, if any.
func (t *Tracker) PendingDelete() (uuid.UUID, bool) {
	if t.pendingDelete == nil {
		return uuid.Nil, false
	}
	return *t.pendingDelete, true
}

// CancelDelete clears the staged delete.
func (t *Tracker) CancelDelete() {
	t.pendingDelete = nil
}

// ConfirmDelete issues the staged delete and reloads. Without a staged
// target it refuses with ErrConfirmRequired.
func (t *Tracker) ConfirmDelete(ctx context.Context) error {
	if t.pendingDelete == nil {
		return ErrConfirmRequired
	}
	oppID := *t.pendingDelete
	t.pendingDelete = nil
	if err := t.api.DeleteOpportunity(ctx, t.leadID, oppID); err != nil {
		return err
	}
	return t.Load(ctx)
}
