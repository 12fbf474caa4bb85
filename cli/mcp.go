// ABOUTME: MCP server subcommand
// ABOUTME: Exposes the pipeline tools over stdio for assistant integration
package cli

import (
	"context"
	"log"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/motorlot/leadboard/api"
	"github.com/motorlot/leadboard/handlers"
)

// MCPCommand starts the MCP server on stdio
func MCPCommand(client *api.Client) error {
	log.Println("Starting Leadboard MCP Server...")

	// Create handlers
	boardHandlers := handlers.NewBoardHandlers(client)
	detailHandlers := handlers.NewDetailHandlers(client)
	taskHandlers := handlers.NewTaskHandlers(client)
	opportunityHandlers := handlers.NewOpportunityHandlers(client)

	// Create MCP server
	server := mcp.NewServer(&mcp.Implementation{
		Name:    "leadboard",
		Version: "0.1.0",
	}, nil)

	// Register tools
	mcp.AddTool(server, &mcp.Tool{
		Name:        "pipeline_board",
		Description: "Show the lead pipeline board grouped by status, with optional assignee and search filters",
	}, boardHandlers.PipelineBoard)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "move_lead",
		Description: "Move a lead to a new pipeline status",
	}, boardHandlers.MoveLead)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "lead_detail",
		Description: "Show a lead's full detail: timeline, tasks, and opportunities",
	}, detailHandlers.LeadDetail)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "log_activity",
		Description: "Log a manual activity (note, call, email, whatsapp, test drive) on a lead",
	}, detailHandlers.LogActivity)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "create_task",
		Description: "Create a follow-up task on a lead with a future due date",
	}, taskHandlers.CreateTask)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "complete_task",
		Description: "Mark a lead's task as completed (cannot be undone)",
	}, taskHandlers.CompleteTask)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "list_opportunities",
		Description: "List a lead's opportunities with probability-weighted values",
	}, opportunityHandlers.ListOpportunities)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "create_opportunity",
		Description: "Create a sales opportunity on a lead",
	}, opportunityHandlers.CreateOpportunity)

	// Run server on stdio transport
	ctx := context.Background()
	return server.Run(ctx, &mcp.StdioTransport{})
}
