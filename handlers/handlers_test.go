package handlers

import (
	"context"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/motorlot/leadboard/api"
	"github.com/motorlot/leadboard/config"
	"github.com/motorlot/leadboard/db"
	"github.com/motorlot/leadboard/mockapi"
	"github.com/motorlot/leadboard/models"
)

func setupClient(t *testing.T) (*api.Client, models.TeamMember) {
	t.Helper()

	database, err := db.OpenDatabase(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })
	require.NoError(t, mockapi.Seed(database))

	ts := httptest.NewServer(mockapi.NewServer(database).Handler())
	t.Cleanup(ts.Close)

	members, err := db.FindTeamMembers(database)
	require.NoError(t, err)
	require.NotEmpty(t, members)
	me := members[0]

	return api.NewClient(&config.Config{APIURL: ts.URL, Token: me.ID.String(), MemberID: me.ID}), me
}

func findLead(t *testing.T, client *api.Client, search string) models.Lead {
	t.Helper()
	leads, err := client.ListLeads(context.Background(), api.LeadFilters{AssignedTo: api.AssigneeAll, Search: search})
	require.NoError(t, err)
	require.Len(t, leads, 1)
	return leads[0]
}

func TestPipelineBoardTool(t *testing.T) {
	client, _ := setupClient(t)
	h := NewBoardHandlers(client)

	_, output, err := h.PipelineBoard(context.Background(), nil, PipelineBoardInput{})
	require.NoError(t, err)

	assert.Equal(t, 4, output.Total)
	require.Len(t, output.Columns, 5, "all five columns present even when empty")
	assert.Equal(t, "NEW", output.Columns[0].Status)
	assert.Equal(t, 2, output.Columns[0].Count)
	assert.Equal(t, 0, output.Columns[3].Count, "CONVERTED column is empty")

	_, filtered, err := h.PipelineBoard(context.Background(), nil, PipelineBoardInput{Search: "hilux"})
	require.NoError(t, err)
	assert.Equal(t, 1, filtered.Total)
}

func TestMoveLeadTool(t *testing.T) {
	client, _ := setupClient(t)
	h := NewBoardHandlers(client)
	lead := findLead(t, client, "carlos")

	_, output, err := h.MoveLead(context.Background(), nil, MoveLeadInput{
		LeadID: lead.ID.String(),
		Status: "CONTACTED",
	})
	require.NoError(t, err)
	assert.True(t, output.Moved)
	assert.Equal(t, "NEW", output.Previous)
	assert.Equal(t, "CONTACTED", output.Status)

	// Moving to the current status is a no-op
	_, output, err = h.MoveLead(context.Background(), nil, MoveLeadInput{
		LeadID: lead.ID.String(),
		Status: "CONTACTED",
	})
	require.NoError(t, err)
	assert.False(t, output.Moved)

	_, _, err = h.MoveLead(context.Background(), nil, MoveLeadInput{
		LeadID: lead.ID.String(),
		Status: "ARCHIVED",
	})
	require.Error(t, err)
}

func TestLeadDetailTool(t *testing.T) {
	client, _ := setupClient(t)
	board := NewBoardHandlers(client)
	detail := NewDetailHandlers(client)
	lead := findLead(t, client, "rita")

	// Generate a status-change entry so the timeline has something to say
	_, _, err := board.MoveLead(context.Background(), nil, MoveLeadInput{
		LeadID: lead.ID.String(),
		Status: "CONVERTED",
	})
	require.NoError(t, err)

	_, output, err := detail.LeadDetail(context.Background(), nil, LeadDetailInput{LeadID: lead.ID.String()})
	require.NoError(t, err)

	assert.Equal(t, "Rita Gomes", output.Name)
	assert.Equal(t, "CONVERTED", output.Status)
	require.Len(t, output.Timeline, 1)
	assert.Equal(t, "changed the status", output.Timeline[0].Verb)
	assert.Equal(t, "from Qualified to Converted", output.Timeline[0].Detail)

	require.Len(t, output.Opportunities, 1)
	assert.Equal(t, "$280,000.00", output.Opportunities[0].EstimatedValue)
	assert.Equal(t, "$168,000.00", output.WeightedTotal, "60% of 280k")
}

func TestLogActivityTool(t *testing.T) {
	client, me := setupClient(t)
	h := NewDetailHandlers(client)
	lead := findLead(t, client, "maria")

	_, output, err := h.LogActivity(context.Background(), nil, LogActivityInput{
		LeadID:  lead.ID.String(),
		Type:    "CALL",
		Content: "Left a voicemail",
	})
	require.NoError(t, err)
	assert.Equal(t, "CALL", output.Type)

	_, detail, err := h.LeadDetail(context.Background(), nil, LeadDetailInput{LeadID: lead.ID.String()})
	require.NoError(t, err)
	require.Len(t, detail.Timeline, 1)
	assert.Equal(t, me.Name, detail.Timeline[0].Actor)
	assert.Equal(t, "logged a call", detail.Timeline[0].Verb)
	assert.Equal(t, "Left a voicemail", detail.Timeline[0].Note)

	_, _, err = h.LogActivity(context.Background(), nil, LogActivityInput{
		LeadID: lead.ID.String(),
		Type:   "STATUS_CHANGE",
	})
	require.Error(t, err, "audit types are server-appended only")
}

func TestTaskTools(t *testing.T) {
	client, me := setupClient(t)
	h := NewTaskHandlers(client)
	lead := findLead(t, client, "paulo")

	_, created, err := h.CreateTask(context.Background(), nil, CreateTaskInput{
		LeadID:       lead.ID.String(),
		Title:        "Send financing simulation",
		AssignedToID: me.ID.String(),
		DueAt:        time.Now().Add(3 * time.Hour).Format(time.RFC3339),
		Priority:     "HIGH",
	})
	require.NoError(t, err)
	assert.Equal(t, "HIGH", created.Priority)

	// Past due dates are blocked before any request is made
	_, _, err = h.CreateTask(context.Background(), nil, CreateTaskInput{
		LeadID:       lead.ID.String(),
		Title:        "Too late",
		AssignedToID: me.ID.String(),
		DueAt:        time.Now().Add(-time.Hour).Format(time.RFC3339),
	})
	require.Error(t, err)

	_, completed, err := h.CompleteTask(context.Background(), nil, CompleteTaskInput{
		LeadID: lead.ID.String(),
		TaskID: created.ID,
	})
	require.NoError(t, err)
	assert.True(t, completed.Completed)

	_, _, err = h.CompleteTask(context.Background(), nil, CompleteTaskInput{
		LeadID: lead.ID.String(),
		TaskID: created.ID,
	})
	require.Error(t, err, "completion is one-way")
}

func TestOpportunityTools(t *testing.T) {
	client, _ := setupClient(t)
	h := NewOpportunityHandlers(client)
	lead := findLead(t, client, "paulo")

	_, created, err := h.CreateOpportunity(context.Background(), nil, CreateOpportunityInput{
		LeadID:         lead.ID.String(),
		EstimatedValue: 12_900_000,
		Probability:    40,
	})
	require.NoError(t, err)
	assert.Equal(t, "OPEN", created.Status)
	assert.Equal(t, "$51,600.00", created.WeightedValue)

	_, _, err = h.CreateOpportunity(context.Background(), nil, CreateOpportunityInput{
		LeadID:         lead.ID.String(),
		EstimatedValue: 0,
		Probability:    40,
	})
	require.Error(t, err, "value must be positive")

	_, listed, err := h.ListOpportunities(context.Background(), nil, ListOpportunitiesInput{LeadID: lead.ID.String()})
	require.NoError(t, err)
	require.Len(t, listed.Opportunities, 1)
	assert.Equal(t, "$51,600.00", listed.WeightedTotal)
}
