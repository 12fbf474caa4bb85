// ABOUTME: Activity database operations
// ABOUTME: Append-only audit log; entries are immutable once created
package db

import (
	"database/sql"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/motorlot/leadboard/models"
)

type txOrDB interface {
	Exec(query string, args ...any) (sql.Result, error)
}

func insertActivityTx(tx txOrDB, leadID uuid.UUID, typ models.ActivityType, content string, metadata json.RawMessage, author models.TeamMember) error {
	var meta *string
	if len(metadata) > 0 {
		s := string(metadata)
		meta = &s
	}

	var authorID *string
	if author.ID != uuid.Nil {
		s := author.ID.String()
		authorID = &s
	}

	_, err := tx.Exec(`
		INSERT INTO activities (id, lead_id, type, content, metadata, created_at, author_id, author_name)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, uuid.New().String(), leadID.String(), typ, content, meta, time.Now(), authorID, author.Name)
	return err
}

// CreateActivity appends a manual activity entry.
func CreateActivity(db *sql.DB, leadID uuid.UUID, typ models.ActivityType, content string, author models.TeamMember) error {
	return insertActivityTx(db, leadID, typ, content, nil, author)
}

// FindActivities returns a lead's activity log, oldest first.
func FindActivities(db *sql.DB, leadID uuid.UUID) ([]models.Activity, error) {
	rows, err := db.Query(`
		SELECT id, lead_id, type, content, metadata, created_at, author_id, author_name
		FROM activities
		WHERE lead_id = ?
		ORDER BY created_at ASC
	`, leadID.String())
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var activities []models.Activity
	for rows.Next() {
		var activity models.Activity
		var content, metadata, authorID, authorName sql.NullString

		err := rows.Scan(&activity.ID, &activity.LeadID, &activity.Type, &content,
			&metadata, &activity.CreatedAt, &authorID, &authorName)
		if err != nil {
			return nil, err
		}

		activity.Content = content.String
		if metadata.Valid {
			activity.Metadata = json.RawMessage(metadata.String)
		}
		if authorID.Valid {
			if id, err := uuid.Parse(authorID.String); err == nil {
				activity.Author.ID = id
			}
		}
		activity.Author.Name = authorName.String

		activities = append(activities, activity)
	}
	return activities, rows.Err()
}
