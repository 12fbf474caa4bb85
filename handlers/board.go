// ABOUTME: Pipeline board MCP tool handlers
// ABOUTME: Implements pipeline_board and move_lead tools
package handlers

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/motorlot/leadboard/api"
	"github.com/motorlot/leadboard/engine"
	"github.com/motorlot/leadboard/models"
)

type BoardHandlers struct {
	client *api.Client
}

func NewBoardHandlers(client *api.Client) *BoardHandlers {
	return &BoardHandlers{client: client}
}

type PipelineBoardInput struct {
	AssignedTo string `json:"assigned_to,omitempty" jsonschema:"Assignee scope: all, me, unassigned, or a team member ID (default all)"`
	Search     string `json:"search,omitempty" jsonschema:"Free-text search over lead name, vehicle, and message"`
}

type LeadSummary struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Vehicle     string `json:"vehicle,omitempty"`
	AssignedTo  string `json:"assigned_to,omitempty"`
	IsDuplicate bool   `json:"is_duplicate,omitempty"`
	CreatedAt   string `json:"created_at"`
}

type BoardColumn struct {
	Status string        `json:"status"`
	Label  string        `json:"label"`
	Count  int           `json:"count"`
	Leads  []LeadSummary `json:"leads"`
}

type PipelineBoardOutput struct {
	Columns []BoardColumn `json:"columns"`
	Total   int           `json:"total"`
}

func (h *BoardHandlers) PipelineBoard(ctx context.Context, request *mcp.CallToolRequest, input PipelineBoardInput) (*mcp.CallToolResult, PipelineBoardOutput, error) {
	assignedTo := input.AssignedTo
	if assignedTo == "" {
		assignedTo = api.AssigneeAll
	}

	leads, err := h.client.ListLeads(ctx, api.LeadFilters{AssignedTo: assignedTo, Search: input.Search})
	if err != nil {
		return nil, PipelineBoardOutput{}, fmt.Errorf("failed to list leads: %w", err)
	}

	store := engine.NewStore()
	store.ReplaceAll(leads)
	columns := store.GroupByStatus()

	output := PipelineBoardOutput{Total: len(leads)}
	for _, status := range models.PipelineStatuses {
		column := BoardColumn{
			Status: string(status),
			Label:  status.Label(),
			Count:  len(columns[status]),
			Leads:  []LeadSummary{},
		}
		for _, lead := range columns[status] {
			column.Leads = append(column.Leads, leadToSummary(lead))
		}
		output.Columns = append(output.Columns, column)
	}
	return nil, output, nil
}

type MoveLeadInput struct {
	LeadID string `json:"lead_id" jsonschema:"Lead ID (required)"`
	Status string `json:"status" jsonschema:"Target status: NEW, CONTACTED, QUALIFIED, CONVERTED, LOST"`
}

type MoveLeadOutput struct {
	ID       string `json:"id"`
	Status   string `json:"status"`
	Previous string `json:"previous_status"`
	Moved    bool   `json:"moved"`
}

// MoveLead runs the status-transition protocol end to end: optimistic local
// move, confirm round-trip, rollback on failure.
func (h *BoardHandlers) MoveLead(ctx context.Context, request *mcp.CallToolRequest, input MoveLeadInput) (*mcp.CallToolResult, MoveLeadOutput, error) {
	if input.LeadID == "" {
		return nil, MoveLeadOutput{}, fmt.Errorf("lead_id is required")
	}
	leadID, err := uuid.Parse(input.LeadID)
	if err != nil {
		return nil, MoveLeadOutput{}, fmt.Errorf("invalid lead_id: %w", err)
	}
	target := models.LeadStatus(input.Status)
	if !target.Valid() {
		return nil, MoveLeadOutput{}, fmt.Errorf("invalid status: %s (valid: NEW, CONTACTED, QUALIFIED, CONVERTED, LOST)", input.Status)
	}

	lead, err := h.client.GetLead(ctx, leadID)
	if err != nil {
		return nil, MoveLeadOutput{}, fmt.Errorf("failed to get lead: %w", err)
	}

	store := engine.NewStore()
	store.ReplaceAll([]models.Lead{*lead})
	board := engine.NewBoard(h.client, store)

	confirm, ok := board.Transition(leadID, target)
	if !ok {
		// Already at the target status
		return nil, MoveLeadOutput{
			ID:       leadID.String(),
			Status:   string(lead.Status),
			Previous: string(lead.Status),
			Moved:    false,
		}, nil
	}

	outcome := confirm(ctx)
	board.Resolve(outcome)
	if outcome.Err != nil {
		return nil, MoveLeadOutput{}, fmt.Errorf("failed to move lead: %w", outcome.Err)
	}

	return nil, MoveLeadOutput{
		ID:       leadID.String(),
		Status:   string(outcome.Lead.Status),
		Previous: string(outcome.Previous),
		Moved:    true,
	}, nil
}

func leadToSummary(lead models.Lead) LeadSummary {
	summary := LeadSummary{
		ID:          lead.ID.String(),
		Name:        lead.Name,
		IsDuplicate: lead.IsDuplicate,
		CreatedAt:   lead.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
	if lead.Vehicle != nil {
		summary.Vehicle = lead.Vehicle.Title
	}
	if lead.AssignedTo != nil {
		summary.AssignedTo = lead.AssignedTo.Name
	}
	return summary
}
