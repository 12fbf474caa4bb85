// ABOUTME: Local collaborator API server over SQLite
// ABOUTME: Backs the serve command for development and integration testing
package mockapi

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/motorlot/leadboard/db"
	"github.com/motorlot/leadboard/models"
)

// Server implements the slice of the marketplace backend the board client
// talks to. Lead mutations append their paired audit activity atomically,
// the same contract the real backend honors.
type Server struct {
	db *sql.DB
}

func NewServer(database *sql.DB) *Server {
	return &Server{db: database}
}

// Handler builds the route table.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /leads", s.handleListLeads)
	mux.HandleFunc("GET /leads/{id}", s.handleGetLead)
	mux.HandleFunc("PATCH /leads/{id}", s.handleUpdateLead)

	mux.HandleFunc("GET /leads/{id}/activities", s.handleListActivities)
	mux.HandleFunc("POST /leads/{id}/activities", s.handleCreateActivity)

	mux.HandleFunc("GET /leads/{id}/tasks", s.handleListTasks)
	mux.HandleFunc("POST /leads/{id}/tasks", s.handleCreateTask)
	mux.HandleFunc("PATCH /leads/{id}/tasks/{taskID}", s.handleCompleteTask)

	mux.HandleFunc("GET /leads/{id}/opportunities", s.handleListOpportunities)
	mux.HandleFunc("POST /leads/{id}/opportunities", s.handleCreateOpportunity)
	mux.HandleFunc("PATCH /leads/{id}/opportunities/{oppID}", s.handleUpdateOpportunity)
	mux.HandleFunc("DELETE /leads/{id}/opportunities/{oppID}", s.handleDeleteOpportunity)

	mux.HandleFunc("GET /team-members", s.handleListTeamMembers)

	return mux
}

func (s *Server) Start(port int) error {
	addr := fmt.Sprintf(":%d", port)
	log.Printf("Starting collaborator API at http://localhost%s", addr)
	return http.ListenAndServe(addr, s.Handler())
}

// actor resolves the acting team member from the bearer token. The mock
// accepts a team member id as the token; anything else acts anonymously.
func (s *Server) actor(r *http.Request) models.TeamMember {
	token := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
	id, err := uuid.Parse(strings.TrimSpace(token))
	if err != nil {
		return models.TeamMember{}
	}
	member, err := db.GetTeamMember(s.db, id)
	if err != nil || member == nil {
		return models.TeamMember{}
	}
	return *member
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("Error encoding response: %v", err)
	}
}

func pathUUID(w http.ResponseWriter, r *http.Request, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(r.PathValue(name))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return uuid.Nil, false
	}
	return id, true
}

func (s *Server) handleListLeads(w http.ResponseWriter, r *http.Request) {
	assignedTo := r.URL.Query().Get("assignedTo")
	if assignedTo == "me" {
		actor := s.actor(r)
		if actor.ID == uuid.Nil {
			http.Error(w, "unknown member", http.StatusUnauthorized)
			return
		}
		assignedTo = actor.ID.String()
	}

	leads, err := db.FindLeads(s.db, assignedTo, r.URL.Query().Get("search"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if leads == nil {
		leads = []models.Lead{}
	}
	writeJSON(w, http.StatusOK, leads)
}

func (s *Server) handleGetLead(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	lead, err := db.GetLead(s.db, id)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if lead == nil {
		http.Error(w, "lead not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, lead)
}

type leadPatchBody struct {
	Status         *models.LeadStatus `json:"status"`
	AssignedToID   *uuid.UUID         `json:"assigned_to_id"`
	ClearAssignee  bool               `json:"clear_assignee"`
	Notes          *string            `json:"notes"`
	EstimatedValue *int64             `json:"estimated_value"`
}

func (s *Server) handleUpdateLead(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	var body leadPatchBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "invalid body", http.StatusBadRequest)
		return
	}

	update := db.LeadUpdate{
		Status:         body.Status,
		AssignedToID:   body.AssignedToID,
		ClearAssignee:  body.ClearAssignee,
		Notes:          body.Notes,
		EstimatedValue: body.EstimatedValue,
	}

	lead, err := db.UpdateLead(s.db, id, update, s.actor(r))
	if err != nil {
		if strings.Contains(err.Error(), "not found") {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	writeJSON(w, http.StatusOK, lead)
}

func (s *Server) handleListActivities(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	activities, err := db.FindActivities(s.db, id)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if activities == nil {
		activities = []models.Activity{}
	}
	writeJSON(w, http.StatusOK, activities)
}

func (s *Server) handleCreateActivity(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	var body struct {
		Type    models.ActivityType `json:"type"`
		Content string              `json:"content"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "invalid body", http.StatusBadRequest)
		return
	}
	switch body.Type {
	case models.ActivityNote, models.ActivityCall, models.ActivityEmail,
		models.ActivityWhatsApp, models.ActivityTestDrive:
	default:
		// STATUS_CHANGE and ASSIGNMENT are appended by lead mutation only
		http.Error(w, "activity type not accepted here", http.StatusBadRequest)
		return
	}

	if err := db.CreateActivity(s.db, id, body.Type, body.Content, s.actor(r)); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	activities, err := db.FindActivities(s.db, id)
	if err != nil || len(activities) == 0 {
		http.Error(w, "failed to read back activity", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusCreated, activities[len(activities)-1])
}

func (s *Server) handleListTasks(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	tasks, err := db.FindTasks(s.db, id)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if tasks == nil {
		tasks = []models.Task{}
	}
	writeJSON(w, http.StatusOK, tasks)
}

func (s *Server) handleCreateTask(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	var body struct {
		Title        string              `json:"title"`
		Description  string              `json:"description"`
		AssignedToID uuid.UUID           `json:"assigned_to_id"`
		DueAt        time.Time           `json:"due_at"`
		Priority     models.TaskPriority `json:"priority"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "invalid body", http.StatusBadRequest)
		return
	}

	member, err := db.GetTeamMember(s.db, body.AssignedToID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if member == nil {
		http.Error(w, "team member not found", http.StatusBadRequest)
		return
	}

	task := &models.Task{
		LeadID:      id,
		Title:       body.Title,
		Description: body.Description,
		AssignedTo:  *member,
		DueAt:       body.DueAt,
		Priority:    body.Priority,
	}
	if err := db.CreateTask(s.db, task); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	writeJSON(w, http.StatusCreated, task)
}

func (s *Server) handleCompleteTask(w http.ResponseWriter, r *http.Request) {
	if _, ok := pathUUID(w, r, "id"); !ok {
		return
	}
	taskID, ok := pathUUID(w, r, "taskID")
	if !ok {
		return
	}

	var body struct {
		Completed bool `json:"completed"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "invalid body", http.StatusBadRequest)
		return
	}
	if !body.Completed {
		http.Error(w, "completion cannot be undone", http.StatusBadRequest)
		return
	}

	task, err := db.CompleteTask(s.db, taskID)
	if err != nil {
		if strings.Contains(err.Error(), "not found") {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	writeJSON(w, http.StatusOK, task)
}

type opportunityBody struct {
	VehicleID         *uuid.UUID               `json:"vehicle_id"`
	EstimatedValue    int64                    `json:"estimated_value"`
	Probability       int                      `json:"probability"`
	ExpectedCloseDate *time.Time               `json:"expected_close_date"`
	Status            models.OpportunityStatus `json:"status"`
	Notes             string                   `json:"notes"`
}

func (s *Server) handleListOpportunities(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	opps, err := db.FindOpportunities(s.db, id)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if opps == nil {
		opps = []models.Opportunity{}
	}
	writeJSON(w, http.StatusOK, opps)
}

func (s *Server) handleCreateOpportunity(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	var body opportunityBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "invalid body", http.StatusBadRequest)
		return
	}

	lead, err := db.GetLead(s.db, id)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if lead == nil {
		http.Error(w, "lead not found", http.StatusNotFound)
		return
	}

	opp := &models.Opportunity{
		LeadID:            id,
		EstimatedValue:    body.EstimatedValue,
		Probability:       body.Probability,
		ExpectedCloseDate: body.ExpectedCloseDate,
		Status:            body.Status,
		Notes:             body.Notes,
	}
	// The vehicle snapshot comes from the lead's inquiry vehicle
	if body.VehicleID != nil && lead.Vehicle != nil && lead.Vehicle.ID == *body.VehicleID {
		opp.Vehicle = lead.Vehicle
	}

	if err := db.CreateOpportunity(s.db, opp); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	writeJSON(w, http.StatusCreated, opp)
}

func (s *Server) handleUpdateOpportunity(w http.ResponseWriter, r *http.Request) {
	if _, ok := pathUUID(w, r, "id"); !ok {
		return
	}
	oppID, ok := pathUUID(w, r, "oppID")
	if !ok {
		return
	}

	var body opportunityBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "invalid body", http.StatusBadRequest)
		return
	}

	opp, err := db.GetOpportunity(s.db, oppID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if opp == nil {
		http.Error(w, "opportunity not found", http.StatusNotFound)
		return
	}

	opp.EstimatedValue = body.EstimatedValue
	opp.Probability = body.Probability
	opp.ExpectedCloseDate = body.ExpectedCloseDate
	if body.Status != "" {
		opp.Status = body.Status
	}
	opp.Notes = body.Notes

	if err := db.UpdateOpportunity(s.db, opp); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	writeJSON(w, http.StatusOK, opp)
}

func (s *Server) handleDeleteOpportunity(w http.ResponseWriter, r *http.Request) {
	if _, ok := pathUUID(w, r, "id"); !ok {
		return
	}
	oppID, ok := pathUUID(w, r, "oppID")
	if !ok {
		return
	}

	if err := db.DeleteOpportunity(s.db, oppID); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleListTeamMembers(w http.ResponseWriter, r *http.Request) {
	members, err := db.FindTeamMembers(s.db)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if members == nil {
		members = []models.TeamMember{}
	}
	writeJSON(w, http.StatusOK, members)
}
