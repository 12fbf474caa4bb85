// ABOUTME: Activity audit-log model with per-type metadata payloads
// ABOUTME: Activities are append-only and immutable once created
package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

type ActivityType string

const (
	ActivityNote         ActivityType = "NOTE"
	ActivityCall         ActivityType = "CALL"
	ActivityEmail        ActivityType = "EMAIL"
	ActivityWhatsApp     ActivityType = "WHATSAPP"
	ActivityStatusChange ActivityType = "STATUS_CHANGE"
	ActivityAssignment   ActivityType = "ASSIGNMENT"
	ActivityTestDrive    ActivityType = "TEST_DRIVE"
)

// Activity is one entry in a lead's audit log. Metadata is a tagged payload
// whose shape depends on Type; use the typed accessors to decode it.
type Activity struct {
	ID        uuid.UUID       `json:"id"`
	LeadID    uuid.UUID       `json:"lead_id"`
	Type      ActivityType    `json:"type"`
	Content   string          `json:"content,omitempty"`
	Metadata  json.RawMessage `json:"metadata,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
	Author    TeamMember      `json:"author"`
}

// StatusChangeMeta is the metadata payload for STATUS_CHANGE activities.
type StatusChangeMeta struct {
	OldStatus string `json:"old_status"`
	NewStatus string `json:"new_status"`
}

// AssignmentMeta is the metadata payload for ASSIGNMENT activities. An empty
// AssignedToName means the lead was unassigned.
type AssignmentMeta struct {
	AssignedToID   *uuid.UUID `json:"assigned_to_id,omitempty"`
	AssignedToName string     `json:"assigned_to_name,omitempty"`
}

// TestDriveMeta is the metadata payload for TEST_DRIVE activities.
type TestDriveMeta struct {
	VehicleTitle string     `json:"vehicle_title,omitempty"`
	ScheduledAt  *time.Time `json:"scheduled_at,omitempty"`
}

// StatusChange decodes STATUS_CHANGE metadata. ok is false when the type
// doesn't match or the payload is absent or malformed.
func (a *Activity) StatusChange() (StatusChangeMeta, bool) {
	var meta StatusChangeMeta
	if a.Type != ActivityStatusChange || len(a.Metadata) == 0 {
		return meta, false
	}
	if err := json.Unmarshal(a.Metadata, &meta); err != nil {
		return StatusChangeMeta{}, false
	}
	return meta, meta.OldStatus != "" || meta.NewStatus != ""
}

// Assignment decodes ASSIGNMENT metadata. ok is false when the type doesn't
// match or the payload is malformed; an absent payload decodes to an
// unassignment.
func (a *Activity) Assignment() (AssignmentMeta, bool) {
	var meta AssignmentMeta
	if a.Type != ActivityAssignment {
		return meta, false
	}
	if len(a.Metadata) == 0 {
		return meta, true
	}
	if err := json.Unmarshal(a.Metadata, &meta); err != nil {
		return AssignmentMeta{}, false
	}
	return meta, true
}

// TestDrive decodes TEST_DRIVE metadata. ok is false when the type doesn't
// match or the payload is absent or malformed.
func (a *Activity) TestDrive() (TestDriveMeta, bool) {
	var meta TestDriveMeta
	if a.Type != ActivityTestDrive || len(a.Metadata) == 0 {
		return meta, false
	}
	if err := json.Unmarshal(a.Metadata, &meta); err != nil {
		return TestDriveMeta{}, false
	}
	return meta, true
}
