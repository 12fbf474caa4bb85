// ABOUTME: Activity timeline synthesizer
// ABOUTME: Turns the raw activity log into an ordered human-readable narrative
package engine

import (
	"sort"
	"strings"

	"github.com/motorlot/leadboard/models"
)

// TimelineEntry is one rendered line of a lead's history.
type TimelineEntry struct {
	Activity models.Activity
	Actor    string // author name, "Someone" when the directory has no entry
	Verb     string // category verb phrase, e.g. "changed the status"
	Detail   string // type-specific detail line, may be empty
	Note     string // verbatim content, rendered quoted beneath the verb
}

// SynthesizeTimeline renders a lead's activity log, oldest first. Malformed
// or absent metadata degrades to the raw enum values; it never fails.
func SynthesizeTimeline(activities []models.Activity) []TimelineEntry {
	ordered := make([]models.Activity, len(activities))
	copy(ordered, activities)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].CreatedAt.Before(ordered[j].CreatedAt)
	})

	entries := make([]TimelineEntry, 0, len(ordered))
	for _, activity := range ordered {
		entries = append(entries, synthesize(activity))
	}
	return entries
}

func synthesize(activity models.Activity) TimelineEntry {
	entry := TimelineEntry{
		Activity: activity,
		Actor:    activity.Author.Name,
		Note:     activity.Content,
	}
	if entry.Actor == "" {
		entry.Actor = "Someone"
	}

	switch activity.Type {
	case models.ActivityNote:
		entry.Verb = "added a note"
	case models.ActivityCall:
		entry.Verb = "logged a call"
	case models.ActivityEmail:
		entry.Verb = "sent an email"
	case models.ActivityWhatsApp:
		entry.Verb = "sent a WhatsApp message"
	case models.ActivityStatusChange:
		entry.Verb = "changed the status"
		entry.Detail = statusChangeDetail(activity)
	case models.ActivityAssignment:
		entry.Verb = "reassigned the lead"
		entry.Detail = assignmentDetail(activity)
	case models.ActivityTestDrive:
		entry.Verb = "scheduled a test drive"
		if meta, ok := activity.TestDrive(); ok && meta.VehicleTitle != "" {
			entry.Detail = "in the " + meta.VehicleTitle
		}
	default:
		entry.Verb = "logged " + strings.ToLower(string(activity.Type))
	}

	return entry
}

func statusChangeDetail(activity models.Activity) string {
	meta, ok := activity.StatusChange()
	if !ok {
		return ""
	}
	// Label() falls back to the raw string for unmapped statuses.
	from := models.LeadStatus(meta.OldStatus).Label()
	to := models.LeadStatus(meta.NewStatus).Label()
	return "from " + from + " to " + to
}

func assignmentDetail(activity models.Activity) string {
	meta, ok := activity.Assignment()
	if !ok || meta.AssignedToName == "" {
		return "Unassigned"
	}
	return "to " + meta.AssignedToName
}
