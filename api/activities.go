// ABOUTME: Activity endpoints of the collaborator API
// ABOUTME: Fetches a lead's audit log and posts manual entries
package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"github.com/motorlot/leadboard/models"
)

// ListActivities fetches a lead's activity log ordered by creation time
// ascending.
func (c *Client) ListActivities(ctx context.Context, leadID uuid.UUID) ([]models.Activity, error) {
	var activities []models.Activity
	path := fmt.Sprintf("/leads/%s/activities", leadID)
	if err := c.do(ctx, http.MethodGet, path, nil, nil, &activities); err != nil {
		return nil, err
	}
	return activities, nil
}

// CreateActivity posts a manual activity (note, call, email, WhatsApp or
// test drive). Status change and assignment entries are appended by the
// server itself on lead mutation, never from here.
func (c *Client) CreateActivity(ctx context.Context, leadID uuid.UUID, typ models.ActivityType, content string) (*models.Activity, error) {
	body := struct {
		Type    models.ActivityType `json:"type"`
		Content string              `json:"content,omitempty"`
	}{Type: typ, Content: content}

	var activity models.Activity
	path := fmt.Sprintf("/leads/%s/activities", leadID)
	if err := c.do(ctx, http.MethodPost, path, nil, body, &activity); err != nil {
		return nil, err
	}
	return &activity, nil
}
