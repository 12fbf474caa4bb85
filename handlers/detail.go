// ABOUTME: Lead detail MCP tool handlers
// ABOUTME: Implements lead_detail and log_activity tools
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

type DetailHandlers struct {
	client *api.Client
}

func NewDetailHandlers(client *api.Client) *DetailHandlers {
	return &DetailHandlers{client: client}
}

type LeadDetailInput struct {
	LeadID string `json:"lead_id" jsonschema:"Lead ID (required)"`
}

type TimelineEntryOutput struct {
	Actor     string `json:"actor"`
	Verb      string `json:"verb"`
	Detail    string `json:"detail,omitempty"`
	Note      string `json:"note,omitempty"`
	CreatedAt string `json:"created_at"`
}

type TaskOutput struct {
	ID         string `json:"id"`
	Title      string `json:"title"`
	AssignedTo string `json:"assigned_to"`
	Due        string `json:"due"`
	Overdue    bool   `json:"overdue,omitempty"`
	Completed  bool   `json:"completed,omitempty"`
	Priority   string `json:"priority"`
}

type OpportunityOutput struct {
	ID             string `json:"id"`
	Vehicle        string `json:"vehicle,omitempty"`
	EstimatedValue string `json:"estimated_value"`
	Probability    int    `json:"probability"`
	WeightedValue  string `json:"weighted_value,omitempty"`
	Status         string `json:"status"`
	Notes          string `json:"notes,omitempty"`
}

type LeadDetailOutput struct {
	ID             string                `json:"id"`
	Name           string                `json:"name"`
	Email          string                `json:"email"`
	Phone          string                `json:"phone,omitempty"`
	Message        string                `json:"message,omitempty"`
	Status         string                `json:"status"`
	Source         string                `json:"source,omitempty"`
	IsDuplicate    bool                  `json:"is_duplicate,omitempty"`
	Vehicle        string                `json:"vehicle,omitempty"`
	AssignedTo     string                `json:"assigned_to,omitempty"`
	EstimatedValue string                `json:"estimated_value,omitempty"`
	Notes          string                `json:"notes,omitempty"`
	Timeline       []TimelineEntryOutput `json:"timeline"`
	PendingTasks   []TaskOutput          `json:"pending_tasks"`
	CompletedTasks []TaskOutput          `json:"completed_tasks"`
	Opportunities  []OpportunityOutput   `json:"opportunities"`
	WeightedTotal  string                `json:"weighted_total"`
}

// LeadDetail composes the full detail view: the lead, its synthesized
// timeline, partitioned tasks, and opportunities with weighted values.
func (h *DetailHandlers) LeadDetail(ctx context.Context, request *mcp.CallToolRequest, input LeadDetailInput) (*mcp.CallToolResult, LeadDetailOutput, error) {
	if input.LeadID == "" {
		return nil, LeadDetailOutput{}, fmt.Errorf("lead_id is required")
	}
	leadID, err := uuid.Parse(input.LeadID)
	if err != nil {
		return nil, LeadDetailOutput{}, fmt.Errorf("invalid lead_id: %w", err)
	}

	lead, err := h.client.GetLead(ctx, leadID)
	if err != nil {
		return nil, LeadDetailOutput{}, fmt.Errorf("failed to get lead: %w", err)
	}

	store := engine.NewStore()
	store.ReplaceAll([]models.Lead{*lead})
	detail := engine.NewDetail(h.client, store, leadID)

	timeline, err := detail.Timeline(ctx)
	if err != nil {
		return nil, LeadDetailOutput{}, fmt.Errorf("failed to load timeline: %w", err)
	}
	if err := detail.Scheduler().Load(ctx); err != nil {
		return nil, LeadDetailOutput{}, fmt.Errorf("failed to load tasks: %w", err)
	}
	if err := detail.Tracker().Load(ctx); err != nil {
		return nil, LeadDetailOutput{}, fmt.Errorf("failed to load opportunities: %w", err)
	}

	output := LeadDetailOutput{
		ID:          lead.ID.String(),
		Name:        lead.Name,
		Email:       lead.Email,
		Phone:       lead.Phone,
		Message:     lead.Message,
		Status:      string(lead.Status),
		Source:      lead.Source,
		IsDuplicate: lead.IsDuplicate,
		Notes:       lead.Notes,
		Timeline:    []TimelineEntryOutput{},
	}
	if lead.Vehicle != nil {
		output.Vehicle = lead.Vehicle.Title
	}
	if lead.AssignedTo != nil {
		output.AssignedTo = lead.AssignedTo.Name
	}
	if lead.EstimatedValue > 0 {
		output.EstimatedValue = models.FormatCents(lead.EstimatedValue)
	}

	for _, entry := range timeline {
		output.Timeline = append(output.Timeline, TimelineEntryOutput{
			Actor:     entry.Actor,
			Verb:      entry.Verb,
			Detail:    entry.Detail,
			Note:      entry.Note,
			CreatedAt: entry.Activity.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
		})
	}

	now := time.Now()
	tasks := detail.Scheduler().Tasks()
	output.PendingTasks = tasksToOutput(tasks.Pending, now)
	output.CompletedTasks = tasksToOutput(tasks.Completed, now)

	output.Opportunities = []OpportunityOutput{}
	for _, opp := range detail.Tracker().Opportunities() {
		output.Opportunities = append(output.Opportunities, opportunityToOutput(opp))
	}
	output.WeightedTotal = models.FormatCents(detail.Tracker().OpenWeightedTotal())

	return nil, output, nil
}

type LogActivityInput struct {
	LeadID  string `json:"lead_id" jsonschema:"Lead ID (required)"`
	Type    string `json:"type" jsonschema:"Activity type: NOTE, CALL, EMAIL, WHATSAPP, TEST_DRIVE"`
	Content string `json:"content,omitempty" jsonschema:"Free-text content of the entry"`
}

type LogActivityOutput struct {
	ID        string `json:"id"`
	Type      string `json:"type"`
	Content   string `json:"content,omitempty"`
	CreatedAt string `json:"created_at"`
}

// LogActivity posts a manual activity entry. Status change and assignment
// entries are appended server-side on lead mutation and cannot be logged here.
func (h *DetailHandlers) LogActivity(ctx context.Context, request *mcp.CallToolRequest, input LogActivityInput) (*mcp.CallToolResult, LogActivityOutput, error) {
	if input.LeadID == "" {
		return nil, LogActivityOutput{}, fmt.Errorf("lead_id is required")
	}
	leadID, err := uuid.Parse(input.LeadID)
	if err != nil {
		return nil, LogActivityOutput{}, fmt.Errorf("invalid lead_id: %w", err)
	}

	typ := models.ActivityType(input.Type)
	switch typ {
	case models.ActivityNote, models.ActivityCall, models.ActivityEmail,
		models.ActivityWhatsApp, models.ActivityTestDrive:
	default:
		return nil, LogActivityOutput{}, fmt.Errorf("invalid type: %s (valid: NOTE, CALL, EMAIL, WHATSAPP, TEST_DRIVE)", input.Type)
	}

	activity, err := h.client.CreateActivity(ctx, leadID, typ, input.Content)
	if err != nil {
		return nil, LogActivityOutput{}, fmt.Errorf("failed to log activity: %w", err)
	}

	return nil, LogActivityOutput{
		ID:        activity.ID.String(),
		Type:      string(activity.Type),
		Content:   activity.Content,
		CreatedAt: activity.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}, nil
}

func tasksToOutput(tasks []models.Task, now time.Time) []TaskOutput {
	out := []TaskOutput{}
	for i := range tasks {
		task := &tasks[i]
		out = append(out, TaskOutput{
			ID:         task.ID.String(),
			Title:      task.Title,
			AssignedTo: task.AssignedTo.Name,
			Due:        engine.DueLabel(task.DueAt, now),
			Overdue:    task.Overdue(now),
			Completed:  task.Completed(),
			Priority:   string(task.Priority),
		})
	}
	return out
}

func opportunityToOutput(opp models.Opportunity) OpportunityOutput {
	output := OpportunityOutput{
		ID:             opp.ID.String(),
		EstimatedValue: models.FormatCents(opp.EstimatedValue),
		Probability:    opp.Probability,
		Status:         string(opp.Status),
		Notes:          opp.Notes,
	}
	if opp.Vehicle != nil {
		output.Vehicle = opp.Vehicle.Title
	}
	if weighted, ok := opp.WeightedValue(); ok {
		output.WeightedValue = models.FormatCents(weighted)
	}
	return output
}
