// ABOUTME: Lead store - authoritative client-side cache of lead records
// ABOUTME: Pure patch reducer plus grouping and snapshot queries, no network access
package engine

import (
	"github.com/google/uuid"

	"github.com/motorlot/leadboard/models"
)

// Assignment wraps the target of an assignment patch. A nil Member clears
// the assignee.
type Assignment struct {
	Member *models.TeamMember
}

// LeadPatch is a partial, in-memory lead update. Only non-nil fields are
// applied; everything else on the lead, including server-computed flags like
// is_duplicate, passes through untouched.
type LeadPatch struct {
	Status         *models.LeadStatus
	Notes          *string
	EstimatedValue *int64
	AssignedTo     *Assignment
}

// ApplyPatch returns a copy of lead with the patch applied. It is a pure
// function so the optimistic-apply/rollback sequence stays deterministic and
// testable without any I/O.
func ApplyPatch(lead models.Lead, patch LeadPatch) models.Lead {
	if patch.Status != nil {
		lead.Status = *patch.Status
	}
	if patch.Notes != nil {
		lead.Notes = *patch.Notes
	}
	if patch.EstimatedValue != nil {
		lead.EstimatedValue = *patch.EstimatedValue
	}
	if patch.AssignedTo != nil {
		lead.AssignedTo = patch.AssignedTo.Member
	}
	return lead
}

// Store holds the most recently loaded set of leads. It is mutated only from
// the UI loop (by the board controller and the detail aggregator), so it
// carries no locking; last write wins by design.
type Store struct {
	leads []models.Lead
	index map[uuid.UUID]int
}

func NewStore() *Store {
	return &Store{index: map[uuid.UUID]int{}}
}

// ReplaceAll swaps in a freshly loaded lead set wholesale.
func (s *Store) ReplaceAll(leads []models.Lead) {
	s.leads = make([]models.Lead, len(leads))
	copy(s.leads, leads)
	s.index = make(map[uuid.UUID]int, len(leads))
	for i, lead := range s.leads {
		s.index[lead.ID] = i
	}
}

// Len returns the number of cached leads.
func (s *Store) Len() int {
	return len(s.leads)
}

// Leads returns a copy of the cached lead set.
func (s *Store) Leads() []models.Lead {
	out := make([]models.Lead, len(s.leads))
	copy(out, s.leads)
	return out
}

// Get returns the cached lead with the given id.
func (s *Store) Get(id uuid.UUID) (models.Lead, bool) {
	i, ok := s.index[id]
	if !ok {
		return models.Lead{}, false
	}
	return s.leads[i], true
}

// Snapshot captures a lead's current state for rollback. Identical to Get;
// the separate name marks call sites that exist to capture pre-mutation
// state.
func (s *Store) Snapshot(id uuid.UUID) (models.Lead, bool) {
	return s.Get(id)
}

// Apply runs the patch reducer against one cached lead. Returns false when
// the lead isn't in the store (e.g. a confirmation landing after a reload
// dropped it).
func (s *Store) Apply(id uuid.UUID, patch LeadPatch) bool {
	i, ok := s.index[id]
	if !ok {
		return false
	}
	s.leads[i] = ApplyPatch(s.leads[i], patch)
	return true
}

// ReplaceLead swaps one cached lead for the server's representation.
func (s *Store) ReplaceLead(lead models.Lead) bool {
	i, ok := s.index[lead.ID]
	if !ok {
		return false
	}
	s.leads[i] = lead
	return true
}

// GroupByStatus partitions the cached leads into board columns. Column
// membership is exactly {lead | lead.status == column}; columns are always
// derived here, never maintained per column. O(n).
func (s *Store) GroupByStatus() map[models.LeadStatus][]models.Lead {
	columns := make(map[models.LeadStatus][]models.Lead, len(models.PipelineStatuses))
	for _, status := range models.PipelineStatuses {
		columns[status] = nil
	}
	for _, lead := range s.leads {
		columns[lead.Status] = append(columns[lead.Status], lead)
	}
	return columns
}
