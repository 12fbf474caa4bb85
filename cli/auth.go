// ABOUTME: Auth CLI command
// ABOUTME: Captures the API token and resolves the signed-in team member
package cli

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/term"

	"github.com/motorlot/leadboard/api"
	"github.com/motorlot/leadboard/config"
	"github.com/motorlot/leadboard/models"
)

// LoginCommand prompts for a bearer token, verifies it against the backend,
// and stores it in the config together with the member it belongs to.
func LoginCommand(cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("auth login", flag.ExitOnError)
	apiURL := fs.String("api-url", cfg.APIURL, "Backend base URL")
	memberName := fs.String("member", "", "Team member name to sign in as (default: resolved from token)")
	_ = fs.Parse(args)

	fmt.Print("API token: ")
	raw, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Println()
	if err != nil {
		return fmt.Errorf("failed to read token: %w", err)
	}
	token := strings.TrimSpace(string(raw))
	if token == "" {
		return fmt.Errorf("token is required")
	}

	cfg.APIURL = *apiURL
	cfg.Token = token

	client := api.NewClient(cfg)
	members, err := client.ListTeamMembers(context.Background())
	if err != nil {
		return fmt.Errorf("token check failed: %w", err)
	}

	cfg.MemberID = resolveMember(members, token, *memberName)
	if cfg.MemberID == uuid.Nil {
		fmt.Println("Warning: token does not map to a team member; the \"me\" filter will match nothing")
	}

	if err := config.Save(cfg); err != nil {
		return err
	}

	fmt.Printf("✓ Signed in against %s\n", cfg.APIURL)
	for _, member := range members {
		if member.ID == cfg.MemberID {
			fmt.Printf("  Member: %s\n", member.Name)
		}
	}
	return nil
}

// resolveMember picks the signed-in member: an explicit --member name wins,
// otherwise a token that parses as a member ID (the local collaborator's
// convention) is matched against the directory.
func resolveMember(members []models.TeamMember, token, name string) uuid.UUID {
	if name != "" {
		for _, member := range members {
			if strings.EqualFold(member.Name, name) {
				return member.ID
			}
		}
		return uuid.Nil
	}
	if id, err := uuid.Parse(token); err == nil {
		for _, member := range members {
			if member.ID == id {
				return id
			}
		}
	}
	return uuid.Nil
}
