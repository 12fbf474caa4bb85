// ABOUTME: Team member directory endpoint of the collaborator API
// ABOUTME: Read-only; backs assignment pickers and timeline actor names
package api

import (
	"context"
	"net/http"

	"github.com/motorlot/leadboard/models"
)

// ListTeamMembers fetches the team directory.
func (c *Client) ListTeamMembers(ctx context.Context) ([]models.TeamMember, error) {
	var members []models.TeamMember
	if err := c.do(ctx, http.MethodGet, "/team-members", nil, nil, &members); err != nil {
		return nil, err
	}
	return members, nil
}
