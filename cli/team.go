// ABOUTME: Team CLI commands
// ABOUTME: Read-only directory listing for assignment targets
package cli

import (
	"context"
	"flag"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/motorlot/leadboard/api"
	"github.com/motorlot/leadboard/config"
)

// ListTeamCommand prints the team directory. The signed-in member is marked
// so the "me" filter scope is easy to verify.
func ListTeamCommand(client *api.Client, cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("team list", flag.ExitOnError)
	_ = fs.Parse(args)

	members, err := client.ListTeamMembers(context.Background())
	if err != nil {
		return fmt.Errorf("failed to list team members: %w", err)
	}

	if len(members) == 0 {
		fmt.Println("No team members found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "NAME\tID")
	_, _ = fmt.Fprintln(w, "----\t--")

	for _, member := range members {
		name := member.Name
		if member.ID == cfg.MemberID {
			name += " (me)"
		}
		_, _ = fmt.Fprintf(w, "%s\t%s\n", name, member.ID)
	}
	_ = w.Flush()

	return nil
}
