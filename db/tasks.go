// ABOUTME: Task database operations
// ABOUTME: Creation, listing, and one-way completion of follow-up tasks
package db

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/motorlot/leadboard/models"
)

func CreateTask(db *sql.DB, task *models.Task) error {
	if task.ID == uuid.Nil {
		task.ID = uuid.New()
	}
	if task.Priority == "" {
		task.Priority = models.PriorityMedium
	}
	if task.CreatedAt.IsZero() {
		task.CreatedAt = time.Now()
	}
	if task.Title == "" {
		return fmt.Errorf("title is required")
	}
	if task.AssignedTo.ID == uuid.Nil {
		return fmt.Errorf("assigned_to is required")
	}
	if task.DueAt.IsZero() {
		return fmt.Errorf("due_at is required")
	}

	_, err := db.Exec(`
		INSERT INTO tasks (id, lead_id, title, description, assigned_to, due_at, completed_at, priority, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, task.ID.String(), task.LeadID.String(), task.Title, task.Description,
		task.AssignedTo.ID.String(), task.DueAt, task.CompletedAt, task.Priority, task.CreatedAt)
	return err
}

func scanTask(scanner interface{ Scan(...any) error }) (*models.Task, error) {
	task := &models.Task{}
	var description, assigneeName sql.NullString
	var assigneeID string

	err := scanner.Scan(&task.ID, &task.LeadID, &task.Title, &description,
		&assigneeID, &assigneeName, &task.DueAt, &task.CompletedAt, &task.Priority, &task.CreatedAt)
	if err != nil {
		return nil, err
	}

	task.Description = description.String
	if id, err := uuid.Parse(assigneeID); err == nil {
		task.AssignedTo = models.TeamMember{ID: id, Name: assigneeName.String}
	}
	return task, nil
}

const taskColumns = `
	t.id, t.lead_id, t.title, t.description, t.assigned_to, m.name,
	t.due_at, t.completed_at, t.priority, t.created_at
`

func GetTask(db *sql.DB, id uuid.UUID) (*models.Task, error) {
	row := db.QueryRow(`
		SELECT `+taskColumns+`
		FROM tasks t LEFT JOIN team_members m ON t.assigned_to = m.id
		WHERE t.id = ?
	`, id.String())

	task, err := scanTask(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return task, nil
}

func FindTasks(db *sql.DB, leadID uuid.UUID) ([]models.Task, error) {
	rows, err := db.Query(`
		SELECT `+taskColumns+`
		FROM tasks t LEFT JOIN team_members m ON t.assigned_to = m.id
		WHERE t.lead_id = ?
		ORDER BY t.due_at ASC
	`, leadID.String())
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var tasks []models.Task
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, *task)
	}
	return tasks, rows.Err()
}

// CompleteTask sets completed_at exactly once. Completing an already
// completed task is rejected; completed_at is never cleared.
func CompleteTask(db *sql.DB, id uuid.UUID) (*models.Task, error) {
	task, err := GetTask(db, id)
	if err != nil {
		return nil, err
	}
	if task == nil {
		return nil, fmt.Errorf("task %s not found", id)
	}
	if task.Completed() {
		return nil, fmt.Errorf("task %s is already completed", id)
	}

	now := time.Now()
	if _, err := db.Exec(`UPDATE tasks SET completed_at = ? WHERE id = ?`, now, id.String()); err != nil {
		return nil, err
	}
	task.CompletedAt = &now
	return task, nil
}
