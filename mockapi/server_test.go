package mockapi

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
	"github.com/motorlot/leadboard/models"
)

// startServer spins up a seeded collaborator over a throwaway database and
// returns a client authenticated as the first team member.
func startServer(t *testing.T) (*api.Client, models.TeamMember) {
	t.Helper()

	database, err := db.OpenDatabase(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })
	require.NoError(t, Seed(database))

	ts := httptest.NewServer(NewServer(database).Handler())
	t.Cleanup(ts.Close)

	members, err := db.FindTeamMembers(database)
	require.NoError(t, err)
	require.NotEmpty(t, members)
	me := members[0]

	client := api.NewClient(&config.Config{
		APIURL:   ts.URL,
		Token:    me.ID.String(),
		MemberID: me.ID,
	})
	return client, me
}

func TestListLeadsScopes(t *testing.T) {
	client, me := startServer(t)
	ctx := context.Background()

	all, err := client.ListLeads(ctx, api.LeadFilters{AssignedTo: api.AssigneeAll})
	require.NoError(t, err)
	assert.Len(t, all, 4)

	mine, err := client.ListLeads(ctx, api.LeadFilters{AssignedTo: api.AssigneeMe})
	require.NoError(t, err)
	require.Len(t, mine, 1)
	require.NotNil(t, mine[0].AssignedTo)
	assert.Equal(t, me.ID, mine[0].AssignedTo.ID)

	unassigned, err := client.ListLeads(ctx, api.LeadFilters{AssignedTo: api.AssigneeUnassigned})
	require.NoError(t, err)
	assert.Len(t, unassigned, 2)

	toyota, err := client.ListLeads(ctx, api.LeadFilters{AssignedTo: api.AssigneeAll, Search: "hilux"})
	require.NoError(t, err)
	require.Len(t, toyota, 1)
	assert.Equal(t, "Rita Gomes", toyota[0].Name)
}

func TestUpdateLeadAppendsActivity(t *testing.T) {
	client, me := startServer(t)
	ctx := context.Background()

	leads, err := client.ListLeads(ctx, api.LeadFilters{AssignedTo: api.AssigneeAll, Search: "carlos"})
	require.NoError(t, err)
	require.Len(t, leads, 1)
	lead := leads[0]
	require.Equal(t, models.LeadStatusNew, lead.Status)

	target := models.LeadStatusContacted
	updated, err := client.UpdateLead(ctx, lead.ID, api.LeadPatch{Status: &target})
	require.NoError(t, err)
	assert.Equal(t, models.LeadStatusContacted, updated.Status)

	activities, err := client.ListActivities(ctx, lead.ID)
	require.NoError(t, err)
	require.Len(t, activities, 1)
	assert.Equal(t, models.ActivityStatusChange, activities[0].Type)
	assert.Equal(t, me.ID, activities[0].Author.ID)

	meta, ok := activities[0].StatusChange()
	require.True(t, ok)
	assert.Equal(t, "NEW", meta.OldStatus)
	assert.Equal(t, "CONTACTED", meta.NewStatus)
}

func TestUpdateLeadInvalidStatusRejected(t *testing.T) {
	client, _ := startServer(t)
	ctx := context.Background()

	leads, err := client.ListLeads(ctx, api.LeadFilters{AssignedTo: api.AssigneeAll, Search: "carlos"})
	require.NoError(t, err)
	require.Len(t, leads, 1)

	bogus := models.LeadStatus("ARCHIVED")
	_, err = client.UpdateLead(ctx, leads[0].ID, api.LeadPatch{Status: &bogus})
	require.Error(t, err)

	// Status untouched, no activity logged
	lead, err := client.GetLead(ctx, leads[0].ID)
	require.NoError(t, err)
	assert.Equal(t, models.LeadStatusNew, lead.Status)
	activities, err := client.ListActivities(ctx, lead.ID)
	require.NoError(t, err)
	assert.Empty(t, activities)
}

func TestAssignmentRoundTrip(t *testing.T) {
	client, me := startServer(t)
	ctx := context.Background()

	leads, err := client.ListLeads(ctx, api.LeadFilters{AssignedTo: api.AssigneeUnassigned})
	require.NoError(t, err)
	require.NotEmpty(t, leads)
	lead := leads[0]

	updated, err := client.UpdateLead(ctx, lead.ID, api.LeadPatch{AssignedToID: api.Assign(me.ID)})
	require.NoError(t, err)
	require.NotNil(t, updated.AssignedTo)
	assert.Equal(t, me.ID, updated.AssignedTo.ID)

	updated, err = client.UpdateLead(ctx, lead.ID, api.LeadPatch{AssignedToID: api.Unassign()})
	require.NoError(t, err)
	assert.Nil(t, updated.AssignedTo)

	activities, err := client.ListActivities(ctx, lead.ID)
	require.NoError(t, err)
	require.Len(t, activities, 2)

	meta, ok := activities[0].Assignment()
	require.True(t, ok)
	require.NotNil(t, meta.AssignedToID)
	assert.Equal(t, me.ID, *meta.AssignedToID)

	meta, ok = activities[1].Assignment()
	require.True(t, ok)
	assert.Nil(t, meta.AssignedToID)
}

func TestTaskLifecycle(t *testing.T) {
	client, me := startServer(t)
	ctx := context.Background()

	leads, err := client.ListLeads(ctx, api.LeadFilters{AssignedTo: api.AssigneeAll, Search: "paulo"})
	require.NoError(t, err)
	require.Len(t, leads, 1)
	lead := leads[0]

	task, err := client.CreateTask(ctx, lead.ID, api.NewTask{
		Title:        "Send financing simulation",
		AssignedToID: me.ID,
		DueAt:        time.Now().Add(4 * time.Hour),
		Priority:     models.PriorityHigh,
	})
	require.NoError(t, err)
	assert.Equal(t, me.ID, task.AssignedTo.ID)
	assert.False(t, task.Completed())

	done, err := client.CompleteTask(ctx, lead.ID, task.ID)
	require.NoError(t, err)
	assert.True(t, done.Completed())

	_, err = client.CompleteTask(ctx, lead.ID, task.ID)
	require.Error(t, err, "completion is one-way")
}

func TestOpportunityLifecycle(t *testing.T) {
	client, _ := startServer(t)
	ctx := context.Background()

	leads, err := client.ListLeads(ctx, api.LeadFilters{AssignedTo: api.AssigneeAll, Search: "rita"})
	require.NoError(t, err)
	require.Len(t, leads, 1)
	lead := leads[0]

	opps, err := client.ListOpportunities(ctx, lead.ID)
	require.NoError(t, err)
	require.Len(t, opps, 1)
	seeded := opps[0]

	updated, err := client.UpdateOpportunity(ctx, lead.ID, seeded.ID, api.OpportunityInput{
		EstimatedValue: seeded.EstimatedValue,
		Probability:    80,
		Status:         models.OpportunityWon,
	})
	require.NoError(t, err)
	assert.Equal(t, models.OpportunityWon, updated.Status)
	_, ok := updated.WeightedValue()
	assert.False(t, ok, "settled opportunities carry no weighted value")

	// Reopening is allowed
	updated, err = client.UpdateOpportunity(ctx, lead.ID, seeded.ID, api.OpportunityInput{
		EstimatedValue: seeded.EstimatedValue,
		Probability:    80,
		Status:         models.OpportunityOpen,
	})
	require.NoError(t, err)
	assert.Equal(t, models.OpportunityOpen, updated.Status)

	require.NoError(t, client.DeleteOpportunity(ctx, lead.ID, seeded.ID))
	opps, err = client.ListOpportunities(ctx, lead.ID)
	require.NoError(t, err)
	assert.Empty(t, opps)
}

func TestManualActivityTypesOnly(t *testing.T) {
	client, _ := startServer(t)
	ctx := context.Background()

	leads, err := client.ListLeads(ctx, api.LeadFilters{AssignedTo: api.AssigneeAll, Search: "maria"})
	require.NoError(t, err)
	require.Len(t, leads, 1)
	lead := leads[0]

	note, err := client.CreateActivity(ctx, lead.ID, models.ActivityNote, "Prefers evening calls")
	require.NoError(t, err)
	assert.Equal(t, models.ActivityNote, note.Type)
	assert.Equal(t, "Prefers evening calls", note.Content)

	_, err = client.CreateActivity(ctx, lead.ID, models.ActivityStatusChange, "nope")
	require.Error(t, err, "audit entries come from lead mutation only")
}
