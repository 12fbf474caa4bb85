// ABOUTME: Lead CLI commands
// ABOUTME: Board listing and status moves from the terminal
package cli

import (
	"context"
	"flag"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/google/uuid"

	"github.com/motorlot/leadboard/api"
	"github.com/motorlot/leadboard/engine"
	"github.com/motorlot/leadboard/models"
)

// ListLeadsCommand prints the board as a flat table, grouped by status.
func ListLeadsCommand(client *api.Client, args []string) error {
	fs := flag.NewFlagSet("leads list", flag.ExitOnError)
	assignedTo := fs.String("assigned-to", api.AssigneeAll, "Assignee scope: all, me, unassigned, or a member ID")
	search := fs.String("search", "", "Free-text search over name, vehicle, and message")
	_ = fs.Parse(args)

	leads, err := client.ListLeads(context.Background(), api.LeadFilters{
		AssignedTo: *assignedTo,
		Search:     *search,
	})
	if err != nil {
		return fmt.Errorf("failed to list leads: %w", err)
	}

	if len(leads) == 0 {
		fmt.Println("No leads found")
		return nil
	}

	store := engine.NewStore()
	store.ReplaceAll(leads)
	columns := store.GroupByStatus()

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "STATUS\tNAME\tVEHICLE\tASSIGNED\tID")
	_, _ = fmt.Fprintln(w, "------\t----\t-------\t--------\t--")

	for _, status := range models.PipelineStatuses {
		for _, lead := range columns[status] {
			vehicle := "-"
			if lead.Vehicle != nil {
				vehicle = lead.Vehicle.Title
			}
			assignee := "-"
			if lead.AssignedTo != nil {
				assignee = lead.AssignedTo.Name
			}
			name := lead.Name
			if lead.IsDuplicate {
				name += " [dup]"
			}
			_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
				status.Label(), name, vehicle, assignee, lead.ID.String()[:8])
		}
	}
	_ = w.Flush()

	fmt.Printf("\nTotal: %d lead(s)\n", len(leads))
	return nil
}

// MoveLeadCommand moves a lead to a new status through the optimistic
// transition protocol: apply locally, confirm with the backend, roll back on
// failure.
func MoveLeadCommand(client *api.Client, args []string) error {
	fs := flag.NewFlagSet("leads move", flag.ExitOnError)
	_ = fs.Parse(args)

	if fs.NArg() < 2 {
		return fmt.Errorf("usage: leads move <lead-id> <status>")
	}

	leadID, err := uuid.Parse(fs.Arg(0))
	if err != nil {
		return fmt.Errorf("invalid lead ID: %w", err)
	}
	target := models.LeadStatus(fs.Arg(1))
	if !target.Valid() {
		return fmt.Errorf("invalid status: %s (valid: NEW, CONTACTED, QUALIFIED, CONVERTED, LOST)", fs.Arg(1))
	}

	ctx := context.Background()
	lead, err := client.GetLead(ctx, leadID)
	if err != nil {
		return fmt.Errorf("failed to get lead: %w", err)
	}

	store := engine.NewStore()
	store.ReplaceAll([]models.Lead{*lead})
	board := engine.NewBoard(client, store)

	confirm, ok := board.Transition(leadID, target)
	if !ok {
		fmt.Printf("Lead already %s: %s\n", target.Label(), lead.Name)
		return nil
	}

	outcome := confirm(ctx)
	board.Resolve(outcome)
	if outcome.Err != nil {
		return fmt.Errorf("failed to move lead: %w", outcome.Err)
	}

	fmt.Printf("✓ Lead moved: %s (%s → %s)\n", lead.Name, outcome.Previous, outcome.Lead.Status)
	return nil
}
