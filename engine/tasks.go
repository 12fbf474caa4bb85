// ABOUTME: Task scheduler - pending/completed partition and due-date labels
// ABOUTME: Due labels are computed against the current time at render time
package engine

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/motorlot/leadboard/api"
	"github.com/motorlot/leadboard/models"
)

// TaskAPI is the slice of the collaborator client the scheduler needs.
type TaskAPI interface {
	ListTasks(ctx context.Context, leadID uuid.UUID) ([]models.Task, error)
	CreateTask(ctx context.Context, leadID uuid.UUID, task api.NewTask) (*models.Task, error)
	CompleteTask(ctx context.Context, leadID, taskID uuid.UUID) (*models.Task, error)
}

// TaskList partitions a lead's tasks. Pending is sorted by due date
// ascending, completed by completion time descending.
type TaskList struct {
	Pending   []models.Task
	Completed []models.Task
}

// PartitionTasks splits tasks into pending and completed.
func PartitionTasks(tasks []models.Task) TaskList {
	var list TaskList
	for _, task := range tasks {
		if task.Completed() {
			list.Completed = append(list.Completed, task)
		} else {
			list.Pending = append(list.Pending, task)
		}
	}
	sort.SliceStable(list.Pending, func(i, j int) bool {
		return list.Pending[i].DueAt.Before(list.Pending[j].DueAt)
	})
	sort.SliceStable(list.Completed, func(i, j int) bool {
		return list.Completed[i].CompletedAt.After(*list.Completed[j].CompletedAt)
	})
	return list
}

// DueLabel renders a task due date relative to now:
// under a day away (past or future) it shows the time of day, under a week a
// relative day count, anything further an absolute date.
func DueLabel(dueAt, now time.Time) string {
	delta := dueAt.Sub(now)
	abs := delta
	if abs < 0 {
		abs = -abs
	}

	switch {
	case abs < 24*time.Hour:
		return dueAt.Format("15:04")
	case abs < 7*24*time.Hour:
		days := int(abs.Hours() / 24)
		if delta > 0 {
			if days == 1 {
				return "in 1 day"
			}
			return fmt.Sprintf("in %d days", days)
		}
		if days == 1 {
			return "1 day ago"
		}
		return fmt.Sprintf("%d days ago", days)
	default:
		return dueAt.Format("Jan 2, 2006")
	}
}

// FieldError is a pre-submit validation failure on a single form field.
type FieldError struct {
	Field   string
	Message string
}

func (e *FieldError) Error() string {
	return e.Field + ": " + e.Message
}

// NewTaskForm is the validated input for task creation.
type NewTaskForm struct {
	Title        string
	Description  string
	AssignedToID uuid.UUID
	DueAt        time.Time
	Priority     models.TaskPriority
}

// Validate checks required fields and fills the priority default. A failed
// validation blocks the request entirely.
func (f *NewTaskForm) Validate(now time.Time) error {
	if f.Title == "" {
		return &FieldError{Field: "title", Message: "is required"}
	}
	if f.AssignedToID == uuid.Nil {
		return &FieldError{Field: "assigned_to", Message: "is required"}
	}
	if f.DueAt.IsZero() {
		return &FieldError{Field: "due_at", Message: "is required"}
	}
	if f.DueAt.Before(now) {
		return &FieldError{Field: "due_at", Message: "must not be in the past"}
	}
	if f.Priority == "" {
		f.Priority = models.PriorityMedium
	}
	return nil
}

// Scheduler manages one lead's tasks against the collaborator API. Every
// mutation triggers a list refresh rather than a local edit.
type Scheduler struct {
	api    TaskAPI
	leadID uuid.UUID
	tasks  []models.Task
	loaded bool
}

func NewScheduler(client TaskAPI, leadID uuid.UUID) *Scheduler {
	return &Scheduler{api: client, leadID: leadID}
}

// Load fetches the task list. On failure the previous list is kept.
func (s *Scheduler) Load(ctx context.Context) error {
	tasks, err := s.api.ListTasks(ctx, s.leadID)
	if err != nil {
		return err
	}
	s.tasks = tasks
	s.loaded = true
	return nil
}

// Replace adopts an externally fetched task list. Event-loop callers fetch
// off-loop and hand the result over here instead of calling Load.
func (s *Scheduler) Replace(tasks []models.Task) {
	s.tasks = tasks
	s.loaded = true
}

// Loaded reports whether an initial fetch has succeeded.
func (s *Scheduler) Loaded() bool { return s.loaded }

// Tasks returns the current partition.
func (s *Scheduler) Tasks() TaskList {
	return PartitionTasks(s.tasks)
}

// Create validates the form, posts the task, and refreshes the list.
func (s *Scheduler) Create(ctx context.Context, form NewTaskForm) error {
	if err := form.Validate(time.Now()); err != nil {
		return err
	}
	_, err := s.api.CreateTask(ctx, s.leadID, api.NewTask{
		Title:        form.Title,
		Description:  form.Description,
		AssignedToID: form.AssignedToID,
		DueAt:        form.DueAt,
		Priority:     form.Priority,
	})
	if err != nil {
		return err
	}
	return s.Load(ctx)
}

// Complete marks a task done and refreshes the list. Completion is
// irreversible; completed_at is set once, server-side, and never cleared.
func (s *Scheduler) Complete(ctx context.Context, taskID uuid.UUID) error {
	if _, err := s.api.CompleteTask(ctx, s.leadID, taskID); err != nil {
		return err
	}
	return s.Load(ctx)
}
