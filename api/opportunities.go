// ABOUTME: Opportunity endpoints of the collaborator API
// ABOUTME: CRUD for sales opportunities attached to a lead
package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/motorlot/leadboard/models"
)

// OpportunityInput is the payload for opportunity creation and update.
type OpportunityInput struct {
	VehicleID         *uuid.UUID               `json:"vehicle_id,omitempty"`
	EstimatedValue    int64                    `json:"estimated_value"`
	Probability       int                      `json:"probability"`
	ExpectedCloseDate *time.Time               `json:"expected_close_date,omitempty"`
	Status            models.OpportunityStatus `json:"status,omitempty"`
	Notes             string                   `json:"notes,omitempty"`
}

// ListOpportunities fetches a lead's opportunities.
func (c *Client) ListOpportunities(ctx context.Context, leadID uuid.UUID) ([]models.Opportunity, error) {
	var opps []models.Opportunity
	path := fmt.Sprintf("/leads/%s/opportunities", leadID)
	if err := c.do(ctx, http.MethodGet, path, nil, nil, &opps); err != nil {
		return nil, err
	}
	return opps, nil
}

// CreateOpportunity creates an opportunity for a lead.
func (c *Client) CreateOpportunity(ctx context.Context, leadID uuid.UUID, input OpportunityInput) (*models.Opportunity, error) {
	var created models.Opportunity
	path := fmt.Sprintf("/leads/%s/opportunities", leadID)
	if err := c.do(ctx, http.MethodPost, path, nil, input, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// UpdateOpportunity updates an opportunity. Nothing prevents moving a WON or
// LOST opportunity back to OPEN; the backend doesn't guard it either.
func (c *Client) UpdateOpportunity(ctx context.Context, leadID, oppID uuid.UUID, input OpportunityInput) (*models.Opportunity, error) {
	var updated models.Opportunity
	path := fmt.Sprintf("/leads/%s/opportunities/%s", leadID, oppID)
	if err := c.do(ctx, http.MethodPatch, path, nil, input, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

// DeleteOpportunity removes an opportunity.
func (c *Client) DeleteOpportunity(ctx context.Context, leadID, oppID uuid.UUID) error {
	path := fmt.Sprintf("/leads/%s/opportunities/%s", leadID, oppID)
	return c.do(ctx, http.MethodDelete, path, nil, nil, nil)
}
