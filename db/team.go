// ABOUTME: Team member database operations
// ABOUTME: The directory of sales people leads and tasks get assigned to
package db

import (
	"database/sql"

	"github.com/google/uuid"
	"github.com/motorlot/leadboard/models"
)

func CreateTeamMember(db *sql.DB, member *models.TeamMember) error {
	if member.ID == uuid.Nil {
		member.ID = uuid.New()
	}
	_, err := db.Exec(`INSERT INTO team_members (id, name) VALUES (?, ?)`,
		member.ID.String(), member.Name)
	return err
}

func GetTeamMember(db *sql.DB, id uuid.UUID) (*models.TeamMember, error) {
	var member models.TeamMember
	err := db.QueryRow(`SELECT id, name FROM team_members WHERE id = ?`, id.String()).
		Scan(&member.ID, &member.Name)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &member, nil
}

func FindTeamMembers(db *sql.DB) ([]models.TeamMember, error) {
	rows, err := db.Query(`SELECT id, name FROM team_members ORDER BY name ASC`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var members []models.TeamMember
	for rows.Next() {
		var member models.TeamMember
		if err := rows.Scan(&member.ID, &member.Name); err != nil {
			return nil, err
		}
		members = append(members, member)
	}
	return members, rows.Err()
}
