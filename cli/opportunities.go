// ABOUTME: Opportunity CLI commands
// ABOUTME: Probability-weighted opportunity tracking from the terminal
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

// ListOpportunitiesCommand lists a lead's opportunities with their weighted
// values and the open weighted total.
func ListOpportunitiesCommand(client *api.Client, args []string) error {
	fs := flag.NewFlagSet("opps list", flag.ExitOnError)
	_ = fs.Parse(args)

	if fs.NArg() < 1 {
		return fmt.Errorf("usage: opps list <lead-id>")
	}
	leadID, err := uuid.Parse(fs.Arg(0))
	if err != nil {
		return fmt.Errorf("invalid lead ID: %w", err)
	}

	tracker := engine.NewTracker(client, leadID)
	if err := tracker.Load(context.Background()); err != nil {
		return fmt.Errorf("failed to list opportunities: %w", err)
	}

	opps := tracker.Opportunities()
	if len(opps) == 0 {
		fmt.Println("No opportunities found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "STATUS\tVALUE\tPROB\tWEIGHTED\tVEHICLE\tID")
	_, _ = fmt.Fprintln(w, "------\t-----\t----\t--------\t-------\t--")

	for _, opp := range opps {
		weighted := "-"
		if v, ok := opp.WeightedValue(); ok {
			weighted = models.FormatCents(v)
		}
		vehicle := "-"
		if opp.Vehicle != nil {
			vehicle = opp.Vehicle.Title
		}
		_, _ = fmt.Fprintf(w, "%s\t%s\t%d%%\t%s\t%s\t%s\n",
			opp.Status.Label(), models.FormatCents(opp.EstimatedValue),
			opp.Probability, weighted, vehicle, opp.ID.String()[:8])
	}
	_ = w.Flush()

	fmt.Printf("\nWeighted pipeline: %s\n", models.FormatCents(tracker.OpenWeightedTotal()))
	return nil
}

// AddOpportunityCommand creates an opportunity on a lead.
func AddOpportunityCommand(client *api.Client, args []string) error {
	fs := flag.NewFlagSet("opps add", flag.ExitOnError)
	value := fs.Int64("value", 0, "Estimated value in cents, must be positive (required)")
	probability := fs.Int("probability", 0, "Close probability 0-100 (required)")
	closeDate := fs.String("close-date", "", "Expected close date, 2006-01-02")
	vehicle := fs.String("vehicle", "", "Vehicle ID to snapshot onto the opportunity")
	notes := fs.String("notes", "", "Free-text notes")
	_ = fs.Parse(args)

	if fs.NArg() < 1 {
		return fmt.Errorf("usage: opps add [flags] <lead-id>")
	}
	leadID, err := uuid.Parse(fs.Arg(0))
	if err != nil {
		return fmt.Errorf("invalid lead ID: %w", err)
	}

	input := api.OpportunityInput{
		EstimatedValue: *value,
		Probability:    *probability,
		Notes:          *notes,
	}
	if *closeDate != "" {
		parsed, err := time.ParseInLocation("2006-01-02", *closeDate, time.Local)
		if err != nil {
			return fmt.Errorf("invalid close date (use 2006-01-02): %w", err)
		}
		input.ExpectedCloseDate = &parsed
	}
	if *vehicle != "" {
		vehicleID, err := uuid.Parse(*vehicle)
		if err != nil {
			return fmt.Errorf("invalid vehicle ID: %w", err)
		}
		input.VehicleID = &vehicleID
	}

	tracker := engine.NewTracker(client, leadID)
	if err := tracker.Create(context.Background(), input); err != nil {
		return fmt.Errorf("failed to create opportunity: %w", err)
	}

	fmt.Printf("✓ Opportunity created: %s at %d%%\n", models.FormatCents(*value), *probability)
	return nil
}

// DeleteOpportunityCommand deletes an opportunity. The delete is staged and
// only confirmed after an explicit yes, same as the board UI.
func DeleteOpportunityCommand(client *api.Client, args []string) error {
	fs := flag.NewFlagSet("opps delete", flag.ExitOnError)
	yes := fs.Bool("yes", false, "Skip the confirmation prompt")
	_ = fs.Parse(args)

	if fs.NArg() < 2 {
		return fmt.Errorf("usage: opps delete <lead-id> <opportunity-id>")
	}
	leadID, err := uuid.Parse(fs.Arg(0))
	if err != nil {
		return fmt.Errorf("invalid lead ID: %w", err)
	}
	oppID, err := uuid.Parse(fs.Arg(1))
	if err != nil {
		return fmt.Errorf("invalid opportunity ID: %w", err)
	}

	tracker := engine.NewTracker(client, leadID)
	tracker.RequestDelete(oppID)

	if !*yes {
		fmt.Printf("Delete opportunity %s? This cannot be undone. [y/N] ", oppID.String()[:8])
		var answer string
		_, _ = fmt.Scanln(&answer)
		if answer != "y" && answer != "Y" {
			tracker.CancelDelete()
			fmt.Println("Cancelled")
			return nil
		}
	}

	if err := tracker.ConfirmDelete(context.Background()); err != nil {
		return fmt.Errorf("failed to delete opportunity: %w", err)
	}

	fmt.Printf("✓ Opportunity deleted: %s\n", oppID)
	return nil
}
