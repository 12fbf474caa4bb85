// ABOUTME: Lead database operations for the marketplace backend
// ABOUTME: Handles creation, filtered listing, and audited partial updates
package db

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/motorlot/leadboard/models"
)

func CreateLead(db *sql.DB, lead *models.Lead) error {
	if lead.ID == uuid.Nil {
		lead.ID = uuid.New()
	}
	if lead.Status == "" {
		lead.Status = models.LeadStatusNew
	}
	if lead.CreatedAt.IsZero() {
		lead.CreatedAt = time.Now()
	}

	// is_duplicate is computed here, server-side: another lead with the
	// same email or phone marks this one as a duplicate.
	var count int
	err := db.QueryRow(`
		SELECT COUNT(*) FROM leads
		WHERE email = ? OR (phone != '' AND phone = ?)
	`, lead.Email, lead.Phone).Scan(&count)
	if err != nil {
		return err
	}
	lead.IsDuplicate = count > 0

	var assignedTo *string
	if lead.AssignedTo != nil {
		s := lead.AssignedTo.ID.String()
		assignedTo = &s
	}

	var vehicleID, vehicleTitle, vehicleBrand, vehicleModel *string
	var vehiclePrice *int64
	if lead.Vehicle != nil {
		id := lead.Vehicle.ID.String()
		vehicleID = &id
		vehicleTitle = &lead.Vehicle.Title
		vehicleBrand = &lead.Vehicle.Brand
		vehicleModel = &lead.Vehicle.Model
		vehiclePrice = &lead.Vehicle.Price
	}

	_, err = db.Exec(`
		INSERT INTO leads (id, name, email, phone, message, status, source, created_at, is_duplicate,
			estimated_value, last_contact_at, next_follow_up, notes, assigned_to,
			vehicle_id, vehicle_title, vehicle_brand, vehicle_model, vehicle_price)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, lead.ID.String(), lead.Name, lead.Email, lead.Phone, lead.Message, lead.Status, lead.Source,
		lead.CreatedAt, lead.IsDuplicate, lead.EstimatedValue, lead.LastContactAt, lead.NextFollowUp,
		lead.Notes, assignedTo, vehicleID, vehicleTitle, vehicleBrand, vehicleModel, vehiclePrice)

	return err
}

const leadColumns = `
	l.id, l.name, l.email, l.phone, l.message, l.status, l.source, l.created_at, l.is_duplicate,
	l.estimated_value, l.last_contact_at, l.next_follow_up, l.notes,
	l.assigned_to, m.name,
	l.vehicle_id, l.vehicle_title, l.vehicle_brand, l.vehicle_model, l.vehicle_price
`

func scanLead(scanner interface{ Scan(...any) error }) (*models.Lead, error) {
	lead := &models.Lead{}
	var phone, assignedID, assignedName sql.NullString
	var vehicleID, vehicleTitle, vehicleBrand, vehicleModel sql.NullString
	var vehiclePrice sql.NullInt64

	err := scanner.Scan(
		&lead.ID, &lead.Name, &lead.Email, &phone, &lead.Message, &lead.Status, &lead.Source,
		&lead.CreatedAt, &lead.IsDuplicate, &lead.EstimatedValue, &lead.LastContactAt,
		&lead.NextFollowUp, &lead.Notes, &assignedID, &assignedName,
		&vehicleID, &vehicleTitle, &vehicleBrand, &vehicleModel, &vehiclePrice,
	)
	if err != nil {
		return nil, err
	}

	lead.Phone = phone.String
	if assignedID.Valid {
		id, err := uuid.Parse(assignedID.String)
		if err == nil {
			lead.AssignedTo = &models.TeamMember{ID: id, Name: assignedName.String}
		}
	}
	if vehicleID.Valid {
		id, err := uuid.Parse(vehicleID.String)
		if err == nil {
			lead.Vehicle = &models.Vehicle{
				ID:    id,
				Title: vehicleTitle.String,
				Brand: vehicleBrand.String,
				Model: vehicleModel.String,
				Price: vehiclePrice.Int64,
			}
		}
	}
	return lead, nil
}

func GetLead(db *sql.DB, id uuid.UUID) (*models.Lead, error) {
	row := db.QueryRow(`
		SELECT `+leadColumns+`
		FROM leads l LEFT JOIN team_members m ON l.assigned_to = m.id
		WHERE l.id = ?
	`, id.String())

	lead, err := scanLead(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return lead, nil
}

// FindLeads lists leads scoped by assignee and free-text search. assignedTo
// is "" or "all" for everyone, "unassigned", or a team member id. Search
// matching follows the board contract: case-insensitive substring across
// name, vehicle title, "brand model", and message.
func FindLeads(db *sql.DB, assignedTo, search string) ([]models.Lead, error) {
	query := `
		SELECT ` + leadColumns + `
		FROM leads l LEFT JOIN team_members m ON l.assigned_to = m.id
	`
	var args []any
	switch assignedTo {
	case "", "all":
	case "unassigned":
		query += " WHERE l.assigned_to IS NULL"
	default:
		query += " WHERE l.assigned_to = ?"
		args = append(args, assignedTo)
	}
	query += " ORDER BY l.created_at DESC"

	rows, err := db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var leads []models.Lead
	for rows.Next() {
		lead, err := scanLead(rows)
		if err != nil {
			return nil, err
		}
		if !lead.MatchesSearch(search) {
			continue
		}
		leads = append(leads, *lead)
	}
	return leads, rows.Err()
}

// LeadUpdate is a partial lead update from the API surface.
type LeadUpdate struct {
	Status         *models.LeadStatus
	AssignedToID   *uuid.UUID
	ClearAssignee  bool
	Notes          *string
	EstimatedValue *int64
}

// UpdateLead applies a partial update and appends the paired audit activity
// for status and assignment changes in the same transaction. The mutation
// and its activity entry are atomic: either both land or neither does.
func UpdateLead(db *sql.DB, id uuid.UUID, update LeadUpdate, actor models.TeamMember) (*models.Lead, error) {
	before, err := GetLead(db, id)
	if err != nil {
		return nil, err
	}
	if before == nil {
		return nil, fmt.Errorf("lead %s not found", id)
	}

	// Resolve the assignee before opening the transaction: the pool is
	// capped at one connection, which the transaction will hold.
	var newAssignee *models.TeamMember
	if update.AssignedToID != nil {
		newAssignee, err = GetTeamMember(db, *update.AssignedToID)
		if err != nil {
			return nil, err
		}
		if newAssignee == nil {
			return nil, fmt.Errorf("team member %s not found", update.AssignedToID)
		}
	}

	tx, err := db.Begin()
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback() }()

	if update.Status != nil && *update.Status != before.Status {
		if !update.Status.Valid() {
			return nil, fmt.Errorf("invalid status %q", *update.Status)
		}
		if _, err := tx.Exec(`UPDATE leads SET status = ? WHERE id = ?`, *update.Status, id.String()); err != nil {
			return nil, err
		}
		meta, _ := json.Marshal(models.StatusChangeMeta{
			OldStatus: string(before.Status),
			NewStatus: string(*update.Status),
		})
		if err := insertActivityTx(tx, id, models.ActivityStatusChange, "", meta, actor); err != nil {
			return nil, err
		}
	}

	if update.AssignedToID != nil || update.ClearAssignee {
		var assignedTo *string
		meta := models.AssignmentMeta{}
		if newAssignee != nil {
			s := newAssignee.ID.String()
			assignedTo = &s
			meta.AssignedToID = &newAssignee.ID
			meta.AssignedToName = newAssignee.Name
		}
		if _, err := tx.Exec(`UPDATE leads SET assigned_to = ? WHERE id = ?`, assignedTo, id.String()); err != nil {
			return nil, err
		}
		metaJSON, _ := json.Marshal(meta)
		if err := insertActivityTx(tx, id, models.ActivityAssignment, "", metaJSON, actor); err != nil {
			return nil, err
		}
	}

	if update.Notes != nil {
		if _, err := tx.Exec(`UPDATE leads SET notes = ? WHERE id = ?`, *update.Notes, id.String()); err != nil {
			return nil, err
		}
	}

	if update.EstimatedValue != nil {
		if _, err := tx.Exec(`UPDATE leads SET estimated_value = ? WHERE id = ?`, *update.EstimatedValue, id.String()); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return GetLead(db, id)
}
