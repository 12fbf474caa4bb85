// ABOUTME: Tests for the task scheduler
// ABOUTME: Covers partitioning, due labels, validation, and one-way completion
package engine

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/motorlot/leadboard/models"
)

func TestPartitionTasks(t *testing.T) {
	now := time.Now()
	doneAt := now.Add(-time.Hour)
	earlier := now.Add(-2 * time.Hour)

	list := PartitionTasks([]models.Task{
		{Title: "later", DueAt: now.Add(48 * time.Hour)},
		{Title: "done-old", CompletedAt: &earlier},
		{Title: "soon", DueAt: now.Add(time.Hour)},
		{Title: "done-new", CompletedAt: &doneAt},
	})

	require.Len(t, list.Pending, 2)
	assert.Equal(t, "soon", list.Pending[0].Title, "pending sorts by due date ascending")
	assert.Equal(t, "later", list.Pending[1].Title)

	require.Len(t, list.Completed, 2)
	assert.Equal(t, "done-new", list.Completed[0].Title, "completed sorts newest first")
}

func TestDueLabelPolicy(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	cases := []struct {
		name  string
		dueAt time.Time
		want  string
	}{
		{"twenty minutes out", now.Add(20 * time.Minute), "12:20"},
		{"two hours overdue", now.Add(-2 * time.Hour), "10:00"},
		{"three days out", now.Add(3*24*time.Hour + time.Hour), "in 3 days"},
		{"tomorrow-ish", now.Add(25 * time.Hour), "in 1 day"},
		{"two days ago", now.Add(-49 * time.Hour), "2 days ago"},
		{"next month", now.Add(30 * 24 * time.Hour), "Apr 9, 2026"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, DueLabel(tc.dueAt, now))
		})
	}
}

func TestDueSoonTaskScenario(t *testing.T) {
	now := time.Now()
	task := models.Task{DueAt: now.Add(20 * time.Minute)}

	assert.Equal(t, task.DueAt.Format("15:04"), DueLabel(task.DueAt, now))
	assert.False(t, task.Overdue(now))

	// Advance past the due date with the task still pending.
	later := task.DueAt.Add(time.Minute)
	assert.True(t, task.Overdue(later))
	assert.Equal(t, task.DueAt.Format("15:04"), DueLabel(task.DueAt, later))
}

func TestNewTaskFormValidation(t *testing.T) {
	now := time.Now()
	valid := NewTaskForm{
		Title:        "Call back",
		AssignedToID: uuid.New(),
		DueAt:        now.Add(time.Hour),
	}

	cases := []struct {
		name   string
		mutate func(*NewTaskForm)
		field  string
	}{
		{"missing title", func(f *NewTaskForm) { f.Title = "" }, "title"},
		{"missing assignee", func(f *NewTaskForm) { f.AssignedToID = uuid.Nil }, "assigned_to"},
		{"missing due date", func(f *NewTaskForm) { f.DueAt = time.Time{} }, "due_at"},
		{"due date in the past", func(f *NewTaskForm) { f.DueAt = now.Add(-time.Minute) }, "due_at"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			form := valid
			tc.mutate(&form)
			err := form.Validate(now)
			var fieldErr *FieldError
			require.ErrorAs(t, err, &fieldErr)
			assert.Equal(t, tc.field, fieldErr.Field)
		})
	}

	form := valid
	require.NoError(t, form.Validate(now))
	assert.Equal(t, models.PriorityMedium, form.Priority, "priority defaults to MEDIUM")
}

func TestSchedulerCreateAndComplete(t *testing.T) {
	leadID := uuid.New()
	backend := newFakeAPI()
	scheduler := NewScheduler(backend, leadID)
	ctx := context.Background()

	require.NoError(t, scheduler.Load(ctx))
	assert.True(t, scheduler.Loaded())

	err := scheduler.Create(ctx, NewTaskForm{
		Title:        "Send brochure",
		AssignedToID: uuid.New(),
		DueAt:        time.Now().Add(time.Hour),
	})
	require.NoError(t, err)

	list := scheduler.Tasks()
	require.Len(t, list.Pending, 1)
	assert.Empty(t, list.Completed)

	require.NoError(t, scheduler.Complete(ctx, list.Pending[0].ID))

	list = scheduler.Tasks()
	assert.Empty(t, list.Pending)
	require.Len(t, list.Completed, 1)
	assert.False(t, list.Completed[0].Overdue(time.Now().Add(48*time.Hour)),
		"completing flips overdue off for good")
}

func TestSchedulerValidationBlocksRequest(t *testing.T) {
	backend := newFakeAPI()
	scheduler := NewScheduler(backend, uuid.New())

	err := scheduler.Create(context.Background(), NewTaskForm{})
	var fieldErr *FieldError
	require.ErrorAs(t, err, &fieldErr)
	assert.Empty(t, backend.tasks, "validation failure must block the request entirely")
}

func TestSchedulerLoadFailureKeepsList(t *testing.T) {
	leadID := uuid.New()
	backend := newFakeAPI()
	backend.tasks = []models.Task{{ID: uuid.New(), LeadID: leadID, Title: "Call"}}
	scheduler := NewScheduler(backend, leadID)
	ctx := context.Background()

	require.NoError(t, scheduler.Load(ctx))
	backend.failTasks = true
	require.True(t, errors.Is(scheduler.Load(ctx), errFakeDown))

	require.Len(t, scheduler.Tasks().Pending, 1, "failed refresh keeps last-known-good tasks")
}
