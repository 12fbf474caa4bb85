// ABOUTME: Task CLI commands
// ABOUTME: Follow-up task listing, creation, and one-way completion
package cli

import (
	"context"
	"flag"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/google/uuid"

	"github.com/motorlot/leadboard/api"
	"github.com/motorlot/leadboard/engine"
	"github.com/motorlot/leadboard/models"
)

const taskDateLayout = "2006-01-02 15:04"

// ListTasksCommand lists a lead's tasks, pending first, due soonest on top.
func ListTasksCommand(client *api.Client, args []string) error {
	fs := flag.NewFlagSet("tasks list", flag.ExitOnError)
	_ = fs.Parse(args)

	if fs.NArg() < 1 {
		return fmt.Errorf("usage: tasks list <lead-id>")
	}
	leadID, err := uuid.Parse(fs.Arg(0))
	if err != nil {
		return fmt.Errorf("invalid lead ID: %w", err)
	}

	scheduler := engine.NewScheduler(client, leadID)
	if err := scheduler.Load(context.Background()); err != nil {
		return fmt.Errorf("failed to list tasks: %w", err)
	}

	tasks := scheduler.Tasks()
	if len(tasks.Pending) == 0 && len(tasks.Completed) == 0 {
		fmt.Println("No tasks found")
		return nil
	}

	now := time.Now()
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "STATE\tPRIORITY\tTITLE\tASSIGNED\tDUE\tID")
	_, _ = fmt.Fprintln(w, "-----\t--------\t-----\t--------\t---\t--")

	for _, task := range tasks.Pending {
		state := "pending"
		if task.Overdue(now) {
			state = "OVERDUE"
		}
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
			state, task.Priority, task.Title, task.AssignedTo.Name,
			engine.DueLabel(task.DueAt, now), task.ID.String()[:8])
	}
	for _, task := range tasks.Completed {
		_, _ = fmt.Fprintf(w, "done\t%s\t%s\t%s\t%s\t%s\n",
			task.Priority, task.Title, task.AssignedTo.Name,
			task.CompletedAt.Format("Jan 2"), task.ID.String()[:8])
	}
	_ = w.Flush()

	return nil
}

// AddTaskCommand creates a task on a lead. The due date must not be in the
// past; validation failures never reach the backend.
func AddTaskCommand(client *api.Client, args []string) error {
	fs := flag.NewFlagSet("tasks add", flag.ExitOnError)
	title := fs.String("title", "", "Task title (required)")
	description := fs.String("description", "", "Task description")
	assignee := fs.String("assignee", "", "Team member ID the task is assigned to (required)")
	due := fs.String("due", "", "Due date, \""+taskDateLayout+"\" (required)")
	priority := fs.String("priority", string(models.PriorityMedium), "Priority: LOW, MEDIUM, HIGH")
	_ = fs.Parse(args)

	if fs.NArg() < 1 {
		return fmt.Errorf("usage: tasks add [flags] <lead-id>")
	}
	leadID, err := uuid.Parse(fs.Arg(0))
	if err != nil {
		return fmt.Errorf("invalid lead ID: %w", err)
	}

	form := engine.NewTaskForm{
		Title:       *title,
		Description: *description,
		Priority:    models.TaskPriority(*priority),
	}
	if *assignee != "" {
		assigneeID, err := uuid.Parse(*assignee)
		if err != nil {
			return fmt.Errorf("invalid assignee ID: %w", err)
		}
		form.AssignedToID = assigneeID
	}
	if *due != "" {
		dueAt, err := time.ParseInLocation(taskDateLayout, *due, time.Local)
		if err != nil {
			return fmt.Errorf("invalid due date (use \"%s\"): %w", taskDateLayout, err)
		}
		form.DueAt = dueAt
	}

	scheduler := engine.NewScheduler(client, leadID)
	if err := scheduler.Create(context.Background(), form); err != nil {
		return fmt.Errorf("failed to create task: %w", err)
	}

	fmt.Printf("✓ Task created: %s (due %s)\n", form.Title, engine.DueLabel(form.DueAt, time.Now()))
	return nil
}

// CompleteTaskCommand marks a task done. There is no undo.
func CompleteTaskCommand(client *api.Client, args []string) error {
	fs := flag.NewFlagSet("tasks done", flag.ExitOnError)
	_ = fs.Parse(args)

	if fs.NArg() < 2 {
		return fmt.Errorf("usage: tasks done <lead-id> <task-id>")
	}
	leadID, err := uuid.Parse(fs.Arg(0))
	if err != nil {
		return fmt.Errorf("invalid lead ID: %w", err)
	}
	taskID, err := uuid.Parse(fs.Arg(1))
	if err != nil {
		return fmt.Errorf("invalid task ID: %w", err)
	}

	task, err := client.CompleteTask(context.Background(), leadID, taskID)
	if err != nil {
		return fmt.Errorf("failed to complete task: %w", err)
	}

	fmt.Printf("✓ Task completed: %s\n", task.Title)
	return nil
}
