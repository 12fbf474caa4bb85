// ABOUTME: Opportunity MCP tool handlers
// ABOUTME: Implements list_opportunities and create_opportunity tools
package handlers

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/motorlot/leadboard/api"
	"github.com/motorlot/leadboard/engine"
	"github.com/motorlot/leadboard/models"
)

type OpportunityHandlers struct {
	client *api.Client
}

func NewOpportunityHandlers(client *api.Client) *OpportunityHandlers {
	return &OpportunityHandlers{client: client}
}

type ListOpportunitiesInput struct {
	LeadID string `json:"lead_id" jsonschema:"Lead ID (required)"`
}

type ListOpportunitiesOutput struct {
	Opportunities []OpportunityOutput `json:"opportunities"`
	WeightedTotal string              `json:"weighted_total"`
}

func (h *OpportunityHandlers) ListOpportunities(ctx context.Context, request *mcp.CallToolRequest, input ListOpportunitiesInput) (*mcp.CallToolResult, ListOpportunitiesOutput, error) {
	if input.LeadID == "" {
		return nil, ListOpportunitiesOutput{}, fmt.Errorf("lead_id is required")
	}
	leadID, err := uuid.Parse(input.LeadID)
	if err != nil {
		return nil, ListOpportunitiesOutput{}, fmt.Errorf("invalid lead_id: %w", err)
	}

	tracker := engine.NewTracker(h.client, leadID)
	if err := tracker.Load(ctx); err != nil {
		return nil, ListOpportunitiesOutput{}, fmt.Errorf("failed to list opportunities: %w", err)
	}

	output := ListOpportunitiesOutput{
		Opportunities: []OpportunityOutput{},
		WeightedTotal: models.FormatCents(tracker.OpenWeightedTotal()),
	}
	for _, opp := range tracker.Opportunities() {
		output.Opportunities = append(output.Opportunities, opportunityToOutput(opp))
	}
	return nil, output, nil
}

type CreateOpportunityInput struct {
	LeadID            string `json:"lead_id" jsonschema:"Lead ID (required)"`
	EstimatedValue    int64  `json:"estimated_value" jsonschema:"Estimated deal value in cents, must be positive (required)"`
	Probability       int    `json:"probability" jsonschema:"Close probability 0-100 (required)"`
	ExpectedCloseDate string `json:"expected_close_date,omitempty" jsonschema:"Expected close date in ISO 8601 format"`
	Notes             string `json:"notes,omitempty" jsonschema:"Free-text notes"`
}

func (h *OpportunityHandlers) CreateOpportunity(ctx context.Context, request *mcp.CallToolRequest, input CreateOpportunityInput) (*mcp.CallToolResult, OpportunityOutput, error) {
	if input.LeadID == "" {
		return nil, OpportunityOutput{}, fmt.Errorf("lead_id is required")
	}
	leadID, err := uuid.Parse(input.LeadID)
	if err != nil {
		return nil, OpportunityOutput{}, fmt.Errorf("invalid lead_id: %w", err)
	}

	opp := api.OpportunityInput{
		EstimatedValue: input.EstimatedValue,
		Probability:    input.Probability,
		Notes:          input.Notes,
	}
	if input.ExpectedCloseDate != "" {
		parsed, err := time.Parse(time.RFC3339, input.ExpectedCloseDate)
		if err != nil {
			return nil, OpportunityOutput{}, fmt.Errorf("invalid expected_close_date format (use ISO 8601/RFC3339): %w", err)
		}
		opp.ExpectedCloseDate = &parsed
	}

	tracker := engine.NewTracker(h.client, leadID)
	if err := tracker.Create(ctx, opp); err != nil {
		return nil, OpportunityOutput{}, fmt.Errorf("failed to create opportunity: %w", err)
	}

	opps := tracker.Opportunities()
	if len(opps) == 0 {
		return nil, OpportunityOutput{}, fmt.Errorf("opportunity not visible after creation")
	}
	return nil, opportunityToOutput(opps[len(opps)-1]), nil
}
