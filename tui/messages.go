// ABOUTME: Message and command types for the TUI event loop
// ABOUTME: Commands only talk to the network; Update applies every mutation
package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"

	"github.com/motorlot/leadboard/api"
	"github.com/motorlot/leadboard/cache"
	"github.com/motorlot/leadboard/engine"
	"github.com/motorlot/leadboard/models"
)

// Commands run on their own goroutines, so none of them may touch the store,
// the scheduler, or the tracker. They capture what they need at construction
// time (on the event loop), do the network round-trip, and hand the fetched
// data back in a message for Update to apply.

type boardLoadedMsg struct {
	leads     []models.Lead
	fromCache bool
	err       error
}

type teamLoadedMsg struct {
	members []models.TeamMember
	err     error
}

type searchDebounceMsg struct {
	seq int
}

type transitionDoneMsg struct {
	outcome engine.TransitionOutcome
}

type detailSection string

const (
	sectionTimeline      detailSection = "timeline"
	sectionTasks         detailSection = "tasks"
	sectionOpportunities detailSection = "opportunities"
	sectionLead          detailSection = "lead"
)

type detailSectionMsg struct {
	section  detailSection
	timeline []engine.TimelineEntry
	tasks    []models.Task
	opps     []models.Opportunity
	lead     *models.Lead
	err      error
}

// loadBoardCmd fetches leads for the board's current filters. Successful
// fetches refresh the snapshot cache; on failure the last snapshot rides
// along so Update can fall back when the store is empty.
func loadBoardCmd(board *engine.Board, snap *cache.Cache) tea.Cmd {
	client := board.API()
	filters := board.Filters()
	return func() tea.Msg {
		leads, err := client.ListLeads(context.Background(), filters)
		if err == nil {
			if snap != nil {
				_ = snap.SaveBoard(leads)
			}
			return boardLoadedMsg{leads: leads}
		}
		if snap != nil {
			if cached, _, found, cacheErr := snap.LoadBoard(); cacheErr == nil && found {
				return boardLoadedMsg{leads: cached, fromCache: true, err: err}
			}
		}
		return boardLoadedMsg{err: err}
	}
}

func loadTeamCmd(client *api.Client, snap *cache.Cache) tea.Cmd {
	return func() tea.Msg {
		members, err := client.ListTeamMembers(context.Background())
		if snap != nil {
			if err == nil {
				_ = snap.SaveTeam(members)
			} else if cached, found, cacheErr := snap.LoadTeam(); cacheErr == nil && found {
				return teamLoadedMsg{members: cached}
			}
		}
		return teamLoadedMsg{members: members, err: err}
	}
}

// debounceSearchCmd waits out the quiet period and offers the sequence back.
// Stale sequences are rejected by CommitSearch, so rapid typing coalesces.
func debounceSearchCmd(seq int) tea.Cmd {
	return tea.Tick(engine.SearchDebounceMillis*time.Millisecond, func(time.Time) tea.Msg {
		return searchDebounceMsg{seq: seq}
	})
}

// confirmTransitionCmd runs the confirm half of the transition protocol.
func confirmTransitionCmd(confirm func(context.Context) engine.TransitionOutcome) tea.Cmd {
	return func() tea.Msg {
		return transitionDoneMsg{outcome: confirm(context.Background())}
	}
}

func loadTimelineCmd(detail *engine.Detail) tea.Cmd {
	client, leadID := detail.API(), detail.LeadID()
	return func() tea.Msg {
		activities, err := client.ListActivities(context.Background(), leadID)
		if err != nil {
			return detailSectionMsg{section: sectionTimeline, err: err}
		}
		return detailSectionMsg{section: sectionTimeline, timeline: engine.SynthesizeTimeline(activities)}
	}
}

func loadTasksCmd(detail *engine.Detail) tea.Cmd {
	client, leadID := detail.API(), detail.LeadID()
	return func() tea.Msg {
		tasks, err := client.ListTasks(context.Background(), leadID)
		return detailSectionMsg{section: sectionTasks, tasks: tasks, err: err}
	}
}

func loadOppsCmd(detail *engine.Detail) tea.Cmd {
	client, leadID := detail.API(), detail.LeadID()
	return func() tea.Msg {
		opps, err := client.ListOpportunities(context.Background(), leadID)
		return detailSectionMsg{section: sectionOpportunities, opps: opps, err: err}
	}
}

// createTaskCmd posts an already-validated task and refetches the list.
func createTaskCmd(detail *engine.Detail, form engine.NewTaskForm) tea.Cmd {
	client, leadID := detail.API(), detail.LeadID()
	return func() tea.Msg {
		_, err := client.CreateTask(context.Background(), leadID, api.NewTask{
			Title:        form.Title,
			Description:  form.Description,
			AssignedToID: form.AssignedToID,
			DueAt:        form.DueAt,
			Priority:     form.Priority,
		})
		if err != nil {
			return detailSectionMsg{section: sectionTasks, err: err}
		}
		tasks, err := client.ListTasks(context.Background(), leadID)
		return detailSectionMsg{section: sectionTasks, tasks: tasks, err: err}
	}
}

func completeTaskCmd(detail *engine.Detail, taskID uuid.UUID) tea.Cmd {
	client, leadID := detail.API(), detail.LeadID()
	return func() tea.Msg {
		if _, err := client.CompleteTask(context.Background(), leadID, taskID); err != nil {
			return detailSectionMsg{section: sectionTasks, err: err}
		}
		tasks, err := client.ListTasks(context.Background(), leadID)
		return detailSectionMsg{section: sectionTasks, tasks: tasks, err: err}
	}
}

// createOppCmd posts an already-validated opportunity and refetches the list.
func createOppCmd(detail *engine.Detail, input api.OpportunityInput) tea.Cmd {
	client, leadID := detail.API(), detail.LeadID()
	return func() tea.Msg {
		if _, err := client.CreateOpportunity(context.Background(), leadID, input); err != nil {
			return detailSectionMsg{section: sectionOpportunities, err: err}
		}
		opps, err := client.ListOpportunities(context.Background(), leadID)
		return detailSectionMsg{section: sectionOpportunities, opps: opps, err: err}
	}
}

// deleteOppCmd issues a delete whose staged confirmation was already consumed
// on the event loop, then refetches the list.
func deleteOppCmd(detail *engine.Detail, oppID uuid.UUID) tea.Cmd {
	client, leadID := detail.API(), detail.LeadID()
	return func() tea.Msg {
		if err := client.DeleteOpportunity(context.Background(), leadID, oppID); err != nil {
			return detailSectionMsg{section: sectionOpportunities, err: err}
		}
		opps, err := client.ListOpportunities(context.Background(), leadID)
		return detailSectionMsg{section: sectionOpportunities, opps: opps, err: err}
	}
}

func logActivityCmd(detail *engine.Detail, typ models.ActivityType, content string) tea.Cmd {
	client, leadID := detail.API(), detail.LeadID()
	return func() tea.Msg {
		if _, err := client.CreateActivity(context.Background(), leadID, typ, content); err != nil {
			return detailSectionMsg{section: sectionTimeline, err: err}
		}
		activities, err := client.ListActivities(context.Background(), leadID)
		if err != nil {
			return detailSectionMsg{section: sectionTimeline, err: err}
		}
		return detailSectionMsg{section: sectionTimeline, timeline: engine.SynthesizeTimeline(activities)}
	}
}

// editLeadCmd round-trips a combined patch. The server's lead representation
// and the refreshed timeline (edits append audit activities) come back in the
// message for Update to adopt.
func editLeadCmd(detail *engine.Detail, patch api.LeadPatch) tea.Cmd {
	client, leadID := detail.API(), detail.LeadID()
	return func() tea.Msg {
		lead, err := client.UpdateLead(context.Background(), leadID, patch)
		if err != nil {
			return detailSectionMsg{section: sectionLead, err: err}
		}
		msg := detailSectionMsg{section: sectionLead, lead: lead}
		if activities, err := client.ListActivities(context.Background(), leadID); err == nil {
			msg.timeline = engine.SynthesizeTimeline(activities)
		}
		return msg
	}
}
