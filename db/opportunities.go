// ABOUTME: Opportunity database operations
// ABOUTME: CRUD for sales opportunities; weighted value stays derived, never stored
package db

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/motorlot/leadboard/models"
)

func CreateOpportunity(db *sql.DB, opp *models.Opportunity) error {
	if opp.ID == uuid.Nil {
		opp.ID = uuid.New()
	}
	if opp.Status == "" {
		opp.Status = models.OpportunityOpen
	}
	if opp.CreatedAt.IsZero() {
		opp.CreatedAt = time.Now()
	}
	if opp.EstimatedValue <= 0 {
		return fmt.Errorf("estimated_value must be positive")
	}
	if opp.Probability < 0 || opp.Probability > 100 {
		return fmt.Errorf("probability must be between 0 and 100")
	}

	var vehicleID, vehicleTitle, vehicleBrand, vehicleModel *string
	if opp.Vehicle != nil {
		id := opp.Vehicle.ID.String()
		vehicleID = &id
		vehicleTitle = &opp.Vehicle.Title
		vehicleBrand = &opp.Vehicle.Brand
		vehicleModel = &opp.Vehicle.Model
	}

	_, err := db.Exec(`
		INSERT INTO opportunities (id, lead_id, vehicle_id, vehicle_title, vehicle_brand, vehicle_model,
			estimated_value, probability, expected_close_date, status, notes, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, opp.ID.String(), opp.LeadID.String(), vehicleID, vehicleTitle, vehicleBrand, vehicleModel,
		opp.EstimatedValue, opp.Probability, opp.ExpectedCloseDate, opp.Status, opp.Notes, opp.CreatedAt)
	return err
}

func scanOpportunity(scanner interface{ Scan(...any) error }) (*models.Opportunity, error) {
	opp := &models.Opportunity{}
	var vehicleID, vehicleTitle, vehicleBrand, vehicleModel, notes sql.NullString

	err := scanner.Scan(&opp.ID, &opp.LeadID, &vehicleID, &vehicleTitle, &vehicleBrand, &vehicleModel,
		&opp.EstimatedValue, &opp.Probability, &opp.ExpectedCloseDate, &opp.Status, &notes, &opp.CreatedAt)
	if err != nil {
		return nil, err
	}

	opp.Notes = notes.String
	if vehicleID.Valid {
		if id, err := uuid.Parse(vehicleID.String); err == nil {
			opp.Vehicle = &models.Vehicle{
				ID:    id,
				Title: vehicleTitle.String,
				Brand: vehicleBrand.String,
				Model: vehicleModel.String,
			}
		}
	}
	return opp, nil
}

const oppColumns = `
	id, lead_id, vehicle_id, vehicle_title, vehicle_brand, vehicle_model,
	estimated_value, probability, expected_close_date, status, notes, created_at
`

func GetOpportunity(db *sql.DB, id uuid.UUID) (*models.Opportunity, error) {
	row := db.QueryRow(`SELECT `+oppColumns+` FROM opportunities WHERE id = ?`, id.String())

	opp, err := scanOpportunity(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return opp, nil
}

func FindOpportunities(db *sql.DB, leadID uuid.UUID) ([]models.Opportunity, error) {
	rows, err := db.Query(`
		SELECT `+oppColumns+`
		FROM opportunities
		WHERE lead_id = ?
		ORDER BY created_at ASC
	`, leadID.String())
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var opps []models.Opportunity
	for rows.Next() {
		opp, err := scanOpportunity(rows)
		if err != nil {
			return nil, err
		}
		opps = append(opps, *opp)
	}
	return opps, rows.Err()
}

// UpdateOpportunity overwrites the mutable fields. Status moves freely,
// including from WON or LOST back to OPEN; no guard exists on purpose.
func UpdateOpportunity(db *sql.DB, opp *models.Opportunity) error {
	if opp.EstimatedValue <= 0 {
		return fmt.Errorf("estimated_value must be positive")
	}
	if opp.Probability < 0 || opp.Probability > 100 {
		return fmt.Errorf("probability must be between 0 and 100")
	}

	_, err := db.Exec(`
		UPDATE opportunities
		SET estimated_value = ?, probability = ?, expected_close_date = ?, status = ?, notes = ?
		WHERE id = ?
	`, opp.EstimatedValue, opp.Probability, opp.ExpectedCloseDate, opp.Status, opp.Notes, opp.ID.String())
	return err
}

func DeleteOpportunity(db *sql.DB, id uuid.UUID) error {
	_, err := db.Exec(`DELETE FROM opportunities WHERE id = ?`, id.String())
	return err
}
