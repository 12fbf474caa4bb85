// ABOUTME: Lead endpoints of the collaborator API
// ABOUTME: Listing with assignee/search filters and partial lead updates
package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/google/uuid"
	"github.com/motorlot/leadboard/models"
)

// Assignee filter values beyond a concrete team member id.
const (
	AssigneeAll        = "all"
	AssigneeMe         = "me"
	AssigneeUnassigned = "unassigned"
)

// LeadFilters scope a board load. AssignedTo is "all", "me", "unassigned",
// or a team member UUID; Search is a free-text query matched server-side.
type LeadFilters struct {
	AssignedTo string
	Search     string
}

// LeadPatch is a partial lead update. Nil fields are left untouched by the
// server. Assignment uses a double pointer so that "clear the assignee" is
// distinguishable from "don't touch the assignee".
type LeadPatch struct {
	Status         *models.LeadStatus `json:"status,omitempty"`
	AssignedToID   **uuid.UUID        `json:"-"`
	Notes          *string            `json:"notes,omitempty"`
	EstimatedValue *int64             `json:"estimated_value,omitempty"`
}

// leadPatchWire is the JSON framing of LeadPatch; assigned_to_id is emitted
// as an explicit null when the patch clears the assignee.
type leadPatchWire struct {
	Status         *models.LeadStatus `json:"status,omitempty"`
	AssignedToID   *uuid.UUID         `json:"assigned_to_id,omitempty"`
	ClearAssignee  bool               `json:"clear_assignee,omitempty"`
	Notes          *string            `json:"notes,omitempty"`
	EstimatedValue *int64             `json:"estimated_value,omitempty"`
}

// Assign builds a patch that assigns the lead to the given member.
func Assign(id uuid.UUID) **uuid.UUID {
	p := &id
	return &p
}

// Unassign builds a patch that clears the lead's assignee.
func Unassign() **uuid.UUID {
	var p *uuid.UUID
	return &p
}

// ListLeads fetches leads scoped by the given filters.
func (c *Client) ListLeads(ctx context.Context, filters LeadFilters) ([]models.Lead, error) {
	query := url.Values{}
	if filters.AssignedTo != "" && filters.AssignedTo != AssigneeAll {
		query.Set("assignedTo", filters.AssignedTo)
	}
	if filters.Search != "" {
		query.Set("search", filters.Search)
	}

	var leads []models.Lead
	if err := c.do(ctx, http.MethodGet, "/leads", query, nil, &leads); err != nil {
		return nil, err
	}
	return leads, nil
}

// GetLead fetches a single lead.
func (c *Client) GetLead(ctx context.Context, id uuid.UUID) (*models.Lead, error) {
	var lead models.Lead
	if err := c.do(ctx, http.MethodGet, "/leads/"+id.String(), nil, nil, &lead); err != nil {
		return nil, err
	}
	return &lead, nil
}

// UpdateLead applies a partial update and returns the server's
// representation of the lead. The server appends the paired Activity for
// status and assignment changes.
func (c *Client) UpdateLead(ctx context.Context, id uuid.UUID, patch LeadPatch) (*models.Lead, error) {
	wire := leadPatchWire{
		Status:         patch.Status,
		Notes:          patch.Notes,
		EstimatedValue: patch.EstimatedValue,
	}
	if patch.AssignedToID != nil {
		if *patch.AssignedToID == nil {
			wire.ClearAssignee = true
		} else {
			wire.AssignedToID = *patch.AssignedToID
		}
	}

	var lead models.Lead
	path := fmt.Sprintf("/leads/%s", id)
	if err := c.do(ctx, http.MethodPatch, path, nil, wire, &lead); err != nil {
		return nil, err
	}
	return &lead, nil
}
