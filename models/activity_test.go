// ABOUTME: Tests for activity metadata decoding
// ABOUTME: Covers typed payload accessors and malformed metadata fallback
package models

import (
	"encoding/json"
	"testing"
)

func TestStatusChangeMetadata(t *testing.T) {
	activity := &Activity{
		Type:     ActivityStatusChange,
		Metadata: json.RawMessage(`{"old_status":"NEW","new_status":"QUALIFIED"}`),
	}

	meta, ok := activity.StatusChange()
	if !ok {
		t.Fatal("expected status change metadata to decode")
	}
	if meta.OldStatus != "NEW" || meta.NewStatus != "QUALIFIED" {
		t.Errorf("unexpected metadata: %+v", meta)
	}
}

func TestStatusChangeMalformed(t *testing.T) {
	activity := &Activity{
		Type:     ActivityStatusChange,
		Metadata: json.RawMessage(`{"old_status": 42`),
	}

	if _, ok := activity.StatusChange(); ok {
		t.Error("malformed metadata should not decode")
	}

	empty := &Activity{Type: ActivityStatusChange}
	if _, ok := empty.StatusChange(); ok {
		t.Error("absent metadata should not decode")
	}
}

func TestStatusChangeWrongType(t *testing.T) {
	activity := &Activity{
		Type:     ActivityNote,
		Metadata: json.RawMessage(`{"old_status":"NEW","new_status":"QUALIFIED"}`),
	}

	if _, ok := activity.StatusChange(); ok {
		t.Error("non-STATUS_CHANGE activity should not decode status metadata")
	}
}

func TestAssignmentMetadata(t *testing.T) {
	activity := &Activity{
		Type:     ActivityAssignment,
		Metadata: json.RawMessage(`{"assigned_to_name":"Riley Chen"}`),
	}

	meta, ok := activity.Assignment()
	if !ok {
		t.Fatal("expected assignment metadata to decode")
	}
	if meta.AssignedToName != "Riley Chen" {
		t.Errorf("expected Riley Chen, got %s", meta.AssignedToName)
	}

	// Absent metadata means the lead was unassigned.
	unassigned := &Activity{Type: ActivityAssignment}
	meta, ok = unassigned.Assignment()
	if !ok {
		t.Fatal("absent assignment metadata should still decode")
	}
	if meta.AssignedToName != "" {
		t.Errorf("expected empty name for unassignment, got %s", meta.AssignedToName)
	}
}

func TestTestDriveMetadata(t *testing.T) {
	activity := &Activity{
		Type:     ActivityTestDrive,
		Metadata: json.RawMessage(`{"vehicle_title":"2021 Outback Touring XT"}`),
	}

	meta, ok := activity.TestDrive()
	if !ok {
		t.Fatal("expected test drive metadata to decode")
	}
	if meta.VehicleTitle != "2021 Outback Touring XT" {
		t.Errorf("unexpected vehicle title: %s", meta.VehicleTitle)
	}
}
