// ABOUTME: Demo data seeding for the local collaborator server
// ABOUTME: Gives the serve command a populated board to develop against
package mockapi

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/motorlot/leadboard/db"
	"github.com/motorlot/leadboard/models"
)

// Seed populates an empty database with a small team and a board's worth of
// leads. It is a no-op when leads already exist.
func Seed(database *sql.DB) error {
	existing, err := db.FindLeads(database, "all", "")
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		return nil
	}

	zoe := models.TeamMember{Name: "Zoe Park"}
	ana := models.TeamMember{Name: "Ana Ruiz"}
	for _, member := range []*models.TeamMember{&zoe, &ana} {
		if err := db.CreateTeamMember(database, member); err != nil {
			return fmt.Errorf("failed to seed team: %w", err)
		}
	}

	corolla := &models.Vehicle{ID: uuid.New(), Title: "2021 Toyota Corolla XEi", Brand: "Toyota", Model: "Corolla", Price: 14_500_000}
	civic := &models.Vehicle{ID: uuid.New(), Title: "2019 Honda Civic Touring", Brand: "Honda", Model: "Civic", Price: 12_900_000}
	hilux := &models.Vehicle{ID: uuid.New(), Title: "2022 Toyota Hilux SRX", Brand: "Toyota", Model: "Hilux", Price: 28_000_000}

	now := time.Now()
	leads := []*models.Lead{
		{
			Name: "Maria Santos", Email: "maria@example.com", Phone: "+5511999990001",
			Message: "Is the Corolla still available? Can I see it this weekend?",
			Source:  "marketplace", Vehicle: corolla, AssignedTo: &zoe,
			Status: models.LeadStatusContacted, EstimatedValue: 14_500_000,
			CreatedAt: now.Add(-72 * time.Hour),
		},
		{
			Name: "Paulo Lima", Email: "paulo@example.com",
			Message: "Interested in financing options for the Civic",
			Source:  "marketplace", Vehicle: civic,
			Status: models.LeadStatusNew, CreatedAt: now.Add(-24 * time.Hour),
		},
		{
			Name: "Rita Gomes", Email: "rita@example.com", Phone: "+5511999990003",
			Message: "Does the Hilux have a service history?",
			Source:  "website", Vehicle: hilux, AssignedTo: &ana,
			Status: models.LeadStatusQualified, EstimatedValue: 28_000_000,
			CreatedAt: now.Add(-8 * time.Hour),
		},
		{
			Name: "Carlos Mota", Email: "carlos@example.com",
			Message: "What's your best price on the Corolla?",
			Source:  "marketplace", Vehicle: corolla,
			Status: models.LeadStatusNew, CreatedAt: now.Add(-2 * time.Hour),
		},
	}
	for _, lead := range leads {
		if err := db.CreateLead(database, lead); err != nil {
			return fmt.Errorf("failed to seed lead %s: %w", lead.Name, err)
		}
	}

	task := &models.Task{
		LeadID:     leads[0].ID,
		Title:      "Confirm Saturday test drive",
		AssignedTo: zoe,
		DueAt:      now.Add(20 * time.Hour),
		Priority:   models.PriorityHigh,
	}
	if err := db.CreateTask(database, task); err != nil {
		return fmt.Errorf("failed to seed task: %w", err)
	}

	opp := &models.Opportunity{
		LeadID:         leads[2].ID,
		Vehicle:        hilux,
		EstimatedValue: 28_000_000,
		Probability:    60,
		Notes:          "Trade-in to appraise",
	}
	if err := db.CreateOpportunity(database, opp); err != nil {
		return fmt.Errorf("failed to seed opportunity: %w", err)
	}

	return nil
}
