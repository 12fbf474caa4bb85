// ABOUTME: Data models for the lead pipeline engine
// ABOUTME: Defines Lead, Task, Opportunity, TeamMember and Vehicle structs
package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

type LeadStatus string

const (
	LeadStatusNew       LeadStatus = "NEW"
	LeadStatusContacted LeadStatus = "CONTACTED"
	LeadStatusQualified LeadStatus = "QUALIFIED"
	LeadStatusConverted LeadStatus = "CONVERTED"
	LeadStatusLost      LeadStatus = "LOST"
)

// PipelineStatuses is the board column order.
var PipelineStatuses = []LeadStatus{
	LeadStatusNew,
	LeadStatusContacted,
	LeadStatusQualified,
	LeadStatusConverted,
	LeadStatusLost,
}

var leadStatusLabels = map[LeadStatus]string{
	LeadStatusNew:       "New",
	LeadStatusContacted: "Contacted",
	LeadStatusQualified: "Qualified",
	LeadStatusConverted: "Converted",
	LeadStatusLost:      "Lost",
}

// Label returns the display name for a status, falling back to the raw
// value for anything the map doesn't know about.
func (s LeadStatus) Label() string {
	if label, ok := leadStatusLabels[s]; ok {
		return label
	}
	return string(s)
}

// Valid reports whether s is one of the five pipeline statuses.
func (s LeadStatus) Valid() bool {
	_, ok := leadStatusLabels[s]
	return ok
}

type TeamMember struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

type Vehicle struct {
	ID    uuid.UUID `json:"id"`
	Title string    `json:"title"`
	Brand string    `json:"brand"`
	Model string    `json:"model"`
	Price int64     `json:"price,omitempty"` // in cents
}

type Lead struct {
	ID             uuid.UUID   `json:"id"`
	Name           string      `json:"name"`
	Email          string      `json:"email"`
	Phone          string      `json:"phone,omitempty"`
	Message        string      `json:"message"`
	Status         LeadStatus  `json:"status"`
	Source         string      `json:"source"`
	CreatedAt      time.Time   `json:"created_at"`
	IsDuplicate    bool        `json:"is_duplicate"`              // server-computed, read-only
	EstimatedValue int64       `json:"estimated_value,omitempty"` // in cents
	LastContactAt  *time.Time  `json:"last_contact_at,omitempty"`
	NextFollowUp   *time.Time  `json:"next_follow_up,omitempty"`
	Notes          string      `json:"notes,omitempty"`
	AssignedTo     *TeamMember `json:"assigned_to,omitempty"`
	Vehicle        *Vehicle    `json:"vehicle,omitempty"`
}

// MatchesSearch reports whether the lead matches a free-text query.
// Matching is a case-insensitive substring check across the lead name, the
// vehicle title, "brand model", and the last message. An empty query
// matches everything.
func (l *Lead) MatchesSearch(query string) bool {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return true
	}

	haystacks := []string{l.Name, l.Message}
	if l.Vehicle != nil {
		haystacks = append(haystacks, l.Vehicle.Title, l.Vehicle.Brand+" "+l.Vehicle.Model)
	}

	for _, h := range haystacks {
		if strings.Contains(strings.ToLower(h), query) {
			return true
		}
	}
	return false
}

type TaskPriority string

const (
	PriorityLow    TaskPriority = "LOW"
	PriorityMedium TaskPriority = "MEDIUM"
	PriorityHigh   TaskPriority = "HIGH"
)

type Task struct {
	ID          uuid.UUID    `json:"id"`
	LeadID      uuid.UUID    `json:"lead_id"`
	Title       string       `json:"title"`
	Description string       `json:"description,omitempty"`
	AssignedTo  TeamMember   `json:"assigned_to"`
	DueAt       time.Time    `json:"due_at"`
	CompletedAt *time.Time   `json:"completed_at,omitempty"`
	Priority    TaskPriority `json:"priority"`
	CreatedAt   time.Time    `json:"created_at"`
}

// Completed reports whether the task has been marked done. completed_at is
// set exactly once and never cleared.
func (t *Task) Completed() bool {
	return t.CompletedAt != nil
}

// Overdue reports whether the task is past due and still pending.
func (t *Task) Overdue(now time.Time) bool {
	return t.DueAt.Before(now) && t.CompletedAt == nil
}

type OpportunityStatus string

const (
	OpportunityOpen OpportunityStatus = "OPEN"
	OpportunityWon  OpportunityStatus = "WON"
	OpportunityLost OpportunityStatus = "LOST"
)

var opportunityStatusLabels = map[OpportunityStatus]string{
	OpportunityOpen: "Open",
	OpportunityWon:  "Won",
	OpportunityLost: "Lost",
}

func (s OpportunityStatus) Label() string {
	if label, ok := opportunityStatusLabels[s]; ok {
		return label
	}
	return string(s)
}

type Opportunity struct {
	ID                uuid.UUID         `json:"id"`
	LeadID            uuid.UUID         `json:"lead_id"`
	Vehicle           *Vehicle          `json:"vehicle,omitempty"`
	EstimatedValue    int64             `json:"estimated_value"` // in cents, > 0
	Probability       int               `json:"probability"`     // 0..100
	ExpectedCloseDate *time.Time        `json:"expected_close_date,omitempty"`
	Status            OpportunityStatus `json:"status"`
	Notes             string            `json:"notes,omitempty"`
	CreatedAt         time.Time         `json:"created_at"`
}

// WeightedValue returns the probability-weighted deal value. It is derived,
// never stored, and only meaningful for open opportunities; ok is false
// otherwise.
func (o *Opportunity) WeightedValue() (int64, bool) {
	if o.Status != OpportunityOpen {
		return 0, false
	}
	return o.EstimatedValue * int64(o.Probability) / 100, true
}

// FormatCents renders a cent amount as a dollar string with thousands
// separators, e.g. 1234500 -> "$12,345.00".
func FormatCents(cents int64) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}

	dollars := cents / 100
	rem := cents % 100

	digits := []byte{}
	for i := 0; dollars > 0 || i == 0; i++ {
		if i > 0 && i%3 == 0 {
			digits = append([]byte{','}, digits...)
		}
		digits = append([]byte{byte('0' + dollars%10)}, digits...)
		dollars /= 10
	}

	return sign + "$" + string(digits) + "." + string([]byte{byte('0' + rem/10), byte('0' + rem%10)})
}
