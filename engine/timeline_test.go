// ABOUTME: Tests for activity timeline synthesis
// ABOUTME: Covers verb phrases, detail lines, ordering, and metadata fallbacks
package engine

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/motorlot/leadboard/models"
)

func TestStatusChangeRendersBothLabels(t *testing.T) {
	entries := SynthesizeTimeline([]models.Activity{{
		Type:     models.ActivityStatusChange,
		Author:   models.TeamMember{Name: "Riley"},
		Metadata: json.RawMessage(`{"old_status":"NEW","new_status":"QUALIFIED"}`),
	}})

	require.Len(t, entries, 1)
	assert.Equal(t, "Riley", entries[0].Actor)
	assert.Equal(t, "changed the status", entries[0].Verb)
	assert.Equal(t, "from New to Qualified", entries[0].Detail)
}

func TestStatusChangeUnmappedFallsBackToRaw(t *testing.T) {
	entries := SynthesizeTimeline([]models.Activity{{
		Type:     models.ActivityStatusChange,
		Metadata: json.RawMessage(`{"old_status":"NEW","new_status":"ON_HOLD"}`),
	}})

	require.Len(t, entries, 1)
	assert.Equal(t, "from New to ON_HOLD", entries[0].Detail)
}

func TestStatusChangeMalformedMetadataDoesNotThrow(t *testing.T) {
	entries := SynthesizeTimeline([]models.Activity{{
		Type:     models.ActivityStatusChange,
		Metadata: json.RawMessage(`{"old_status": [1,2]}`),
	}})

	require.Len(t, entries, 1)
	assert.Equal(t, "changed the status", entries[0].Verb)
	assert.Empty(t, entries[0].Detail, "malformed metadata degrades to no detail line")
}

func TestAssignmentDetail(t *testing.T) {
	entries := SynthesizeTimeline([]models.Activity{
		{
			Type:     models.ActivityAssignment,
			Metadata: json.RawMessage(`{"assigned_to_name":"Sam Ortiz"}`),
		},
		{
			Type:      models.ActivityAssignment,
			CreatedAt: time.Now().Add(time.Minute),
		},
	})

	require.Len(t, entries, 2)
	assert.Equal(t, "to Sam Ortiz", entries[0].Detail)
	assert.Equal(t, "Unassigned", entries[1].Detail)
}

func TestContentRendersAsNote(t *testing.T) {
	entries := SynthesizeTimeline([]models.Activity{{
		Type:    models.ActivityCall,
		Content: "Asked about financing options",
		Author:  models.TeamMember{Name: "Riley"},
	}})

	require.Len(t, entries, 1)
	assert.Equal(t, "logged a call", entries[0].Verb)
	assert.Equal(t, "Asked about financing options", entries[0].Note)
}

func TestUnknownActivityTypeDegrades(t *testing.T) {
	entries := SynthesizeTimeline([]models.Activity{{Type: "CARRIER_PIGEON"}})

	require.Len(t, entries, 1)
	assert.Equal(t, "logged carrier_pigeon", entries[0].Verb)
	assert.Equal(t, "Someone", entries[0].Actor)
}

func TestTimelineOrdersAscending(t *testing.T) {
	base := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	entries := SynthesizeTimeline([]models.Activity{
		{Type: models.ActivityEmail, CreatedAt: base.Add(2 * time.Hour)},
		{Type: models.ActivityNote, CreatedAt: base},
		{Type: models.ActivityCall, CreatedAt: base.Add(time.Hour)},
	})

	require.Len(t, entries, 3)
	assert.Equal(t, models.ActivityNote, entries[0].Activity.Type)
	assert.Equal(t, models.ActivityCall, entries[1].Activity.Type)
	assert.Equal(t, models.ActivityEmail, entries[2].Activity.Type)
}

func TestTestDriveDetail(t *testing.T) {
	entries := SynthesizeTimeline([]models.Activity{{
		Type:     models.ActivityTestDrive,
		Metadata: json.RawMessage(`{"vehicle_title":"2021 Outback Touring XT"}`),
	}})

	require.Len(t, entries, 1)
	assert.Equal(t, "scheduled a test drive", entries[0].Verb)
	assert.Equal(t, "in the 2021 Outback Touring XT", entries[0].Detail)
}
