// ABOUTME: Task MCP tool handlers
// ABOUTME: Implements create_task and complete_task tools
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

type TaskHandlers struct {
	client *api.Client
}

func NewTaskHandlers(client *api.Client) *TaskHandlers {
	return &TaskHandlers{client: client}
}

type CreateTaskInput struct {
	LeadID       string `json:"lead_id" jsonschema:"Lead ID (required)"`
	Title        string `json:"title" jsonschema:"Task title (required)"`
	Description  string `json:"description,omitempty" jsonschema:"Task description"`
	AssignedToID string `json:"assigned_to_id" jsonschema:"Team member ID the task is assigned to (required)"`
	DueAt        string `json:"due_at" jsonschema:"Due date in ISO 8601 format, must not be in the past (required)"`
	Priority     string `json:"priority,omitempty" jsonschema:"Priority: LOW, MEDIUM, HIGH (default MEDIUM)"`
}

type CreateTaskOutput struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Due      string `json:"due"`
	Priority string `json:"priority"`
}

func (h *TaskHandlers) CreateTask(ctx context.Context, request *mcp.CallToolRequest, input CreateTaskInput) (*mcp.CallToolResult, CreateTaskOutput, error) {
	if input.LeadID == "" {
		return nil, CreateTaskOutput{}, fmt.Errorf("lead_id is required")
	}
	leadID, err := uuid.Parse(input.LeadID)
	if err != nil {
		return nil, CreateTaskOutput{}, fmt.Errorf("invalid lead_id: %w", err)
	}

	form := engine.NewTaskForm{
		Title:       input.Title,
		Description: input.Description,
		Priority:    models.TaskPriority(input.Priority),
	}
	if input.AssignedToID != "" {
		assigneeID, err := uuid.Parse(input.AssignedToID)
		if err != nil {
			return nil, CreateTaskOutput{}, fmt.Errorf("invalid assigned_to_id: %w", err)
		}
		form.AssignedToID = assigneeID
	}
	if input.DueAt != "" {
		dueAt, err := time.Parse(time.RFC3339, input.DueAt)
		if err != nil {
			return nil, CreateTaskOutput{}, fmt.Errorf("invalid due_at format (use ISO 8601/RFC3339): %w", err)
		}
		form.DueAt = dueAt
	}

	// Validation failures block the request entirely
	if err := form.Validate(time.Now()); err != nil {
		return nil, CreateTaskOutput{}, err
	}

	task, err := h.client.CreateTask(ctx, leadID, api.NewTask{
		Title:        form.Title,
		Description:  form.Description,
		AssignedToID: form.AssignedToID,
		DueAt:        form.DueAt,
		Priority:     form.Priority,
	})
	if err != nil {
		return nil, CreateTaskOutput{}, fmt.Errorf("failed to create task: %w", err)
	}

	return nil, CreateTaskOutput{
		ID:       task.ID.String(),
		Title:    task.Title,
		Due:      engine.DueLabel(task.DueAt, time.Now()),
		Priority: string(task.Priority),
	}, nil
}

type CompleteTaskInput struct {
	LeadID string `json:"lead_id" jsonschema:"Lead ID (required)"`
	TaskID string `json:"task_id" jsonschema:"Task ID (required)"`
}

type CompleteTaskOutput struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Completed bool   `json:"completed"`
}

// CompleteTask marks a task done. Completion is one-way.
func (h *TaskHandlers) CompleteTask(ctx context.Context, request *mcp.CallToolRequest, input CompleteTaskInput) (*mcp.CallToolResult, CompleteTaskOutput, error) {
	if input.LeadID == "" {
		return nil, CompleteTaskOutput{}, fmt.Errorf("lead_id is required")
	}
	if input.TaskID == "" {
		return nil, CompleteTaskOutput{}, fmt.Errorf("task_id is required")
	}
	leadID, err := uuid.Parse(input.LeadID)
	if err != nil {
		return nil, CompleteTaskOutput{}, fmt.Errorf("invalid lead_id: %w", err)
	}
	taskID, err := uuid.Parse(input.TaskID)
	if err != nil {
		return nil, CompleteTaskOutput{}, fmt.Errorf("invalid task_id: %w", err)
	}

	task, err := h.client.CompleteTask(ctx, leadID, taskID)
	if err != nil {
		return nil, CompleteTaskOutput{}, fmt.Errorf("failed to complete task: %w", err)
	}

	return nil, CompleteTaskOutput{
		ID:        task.ID.String(),
		Title:     task.Title,
		Completed: task.Completed(),
	}, nil
}
