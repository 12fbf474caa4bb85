// ABOUTME: Task endpoints of the collaborator API
// ABOUTME: Listing, creation, and one-way completion of follow-up tasks
package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/motorlot/leadboard/models"
)

// NewTask is the payload for task creation.
type NewTask struct {
	Title        string              `json:"title"`
	Description  string              `json:"description,omitempty"`
	AssignedToID uuid.UUID           `json:"assigned_to_id"`
	DueAt        time.Time           `json:"due_at"`
	Priority     models.TaskPriority `json:"priority"`
}

// ListTasks fetches a lead's tasks.
func (c *Client) ListTasks(ctx context.Context, leadID uuid.UUID) ([]models.Task, error) {
	var tasks []models.Task
	path := fmt.Sprintf("/leads/%s/tasks", leadID)
	if err := c.do(ctx, http.MethodGet, path, nil, nil, &tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}

// CreateTask creates a task for a lead.
func (c *Client) CreateTask(ctx context.Context, leadID uuid.UUID, task NewTask) (*models.Task, error) {
	var created models.Task
	path := fmt.Sprintf("/leads/%s/tasks", leadID)
	if err := c.do(ctx, http.MethodPost, path, nil, task, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// CompleteTask marks a task done. Completion is one-way; the server rejects
// attempts to clear completed_at.
func (c *Client) CompleteTask(ctx context.Context, leadID, taskID uuid.UUID) (*models.Task, error) {
	body := struct {
		Completed bool `json:"completed"`
	}{Completed: true}

	var task models.Task
	path := fmt.Sprintf("/leads/%s/tasks/%s", leadID, taskID)
	if err := c.do(ctx, http.MethodPatch, path, nil, body, &task); err != nil {
		return nil, err
	}
	return &task, nil
}
