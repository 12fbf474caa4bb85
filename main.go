// ABOUTME: Entry point for the leadboard TUI, CLI, and MCP server
// ABOUTME: Routes to the board, pipeline commands, or servers based on arguments
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/motorlot/leadboard/api"
	"github.com/motorlot/leadboard/cache"
	"github.com/motorlot/leadboard/cli"
	"github.com/motorlot/leadboard/config"
	"github.com/motorlot/leadboard/tui"
)

const version = "0.1.0"

func main() {
	// Global flags
	showVersion := flag.Bool("version", false, "Show version and exit")

	// Parse global flags but don't fail on unknown (for subcommands)
	_ = flag.CommandLine.Parse(os.Args[1:])

	// Handle version flag
	if *showVersion {
		fmt.Printf("leadboard version %s\n", version)
		os.Exit(0)
	}

	// Get remaining args after flags
	args := flag.Args()

	// The board is the default command
	command := "board"
	commandArgs := []string{}
	if len(args) > 0 {
		command = args[0]
		commandArgs = args[1:]
	}

	// serve runs without config or a client
	if command == "serve" {
		if err := cli.ServeCommand(commandArgs); err != nil {
			log.Fatalf("Error: %v", err)
		}
		return
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	client := api.NewClient(cfg)

	switch command {
	case "board":
		// Snapshot cache is best effort; the board works without it
		var snap *cache.Cache
		if c, err := cache.Open(config.DefaultCachePath()); err == nil {
			snap = c
			defer func() { _ = snap.Close() }()
		}
		if err := tui.Run(client, cfg, snap); err != nil {
			log.Fatalf("Board failed: %v", err)
		}

	case "mcp":
		if err := cli.MCPCommand(client); err != nil {
			log.Fatalf("MCP server failed: %v", err)
		}

	case "init":
		if err := config.Save(cfg); err != nil {
			log.Fatalf("Failed to write config: %v", err)
		}
		fmt.Printf("Config written to %s\n", config.Path())

	case "auth":
		if len(commandArgs) == 0 || commandArgs[0] != "login" {
			fmt.Println("Error: auth requires the login subcommand")
			printUsage()
			os.Exit(1)
		}
		if err := cli.LoginCommand(cfg, commandArgs[1:]); err != nil {
			log.Fatalf("Error: %v", err)
		}

	case "leads":
		runSubcommand(command, commandArgs, map[string]func([]string) error{
			"list": func(a []string) error { return cli.ListLeadsCommand(client, a) },
			"move": func(a []string) error { return cli.MoveLeadCommand(client, a) },
		})

	case "tasks":
		runSubcommand(command, commandArgs, map[string]func([]string) error{
			"list": func(a []string) error { return cli.ListTasksCommand(client, a) },
			"add":  func(a []string) error { return cli.AddTaskCommand(client, a) },
			"done": func(a []string) error { return cli.CompleteTaskCommand(client, a) },
		})

	case "opps":
		runSubcommand(command, commandArgs, map[string]func([]string) error{
			"list":   func(a []string) error { return cli.ListOpportunitiesCommand(client, a) },
			"add":    func(a []string) error { return cli.AddOpportunityCommand(client, a) },
			"delete": func(a []string) error { return cli.DeleteOpportunityCommand(client, a) },
		})

	case "team":
		runSubcommand(command, commandArgs, map[string]func([]string) error{
			"list": func(a []string) error { return cli.ListTeamCommand(client, cfg, a) },
		})

	case "viz":
		runSubcommand(command, commandArgs, map[string]func([]string) error{
			"funnel": func(a []string) error { return cli.VizFunnelCommand(client, a) },
		})

	default:
		fmt.Printf("Unknown command: %s\n\n", command)
		printUsage()
		os.Exit(1)
	}
}

func runSubcommand(command string, args []string, subcommands map[string]func([]string) error) {
	if len(args) == 0 {
		fmt.Printf("Error: %s requires a subcommand\n", command)
		printUsage()
		os.Exit(1)
	}
	run, ok := subcommands[args[0]]
	if !ok {
		fmt.Printf("Unknown %s command: %s\n\n", command, args[0])
		printUsage()
		os.Exit(1)
	}
	if err := run(args[1:]); err != nil {
		log.Fatalf("Error: %v", err)
	}
}

func printUsage() {
	fmt.Printf(`leadboard v%s - Lead pipeline board

USAGE:
  leadboard [global flags] [command] [subcommand] [flags]

GLOBAL FLAGS:
  --version              Show version and exit

COMMANDS:
  board                  Open the Kanban board TUI (default)
  mcp                    Start MCP server for assistant integration
  serve                  Run a local collaborator API over SQLite
  auth login             Sign in and store the API token
  init                   Write the default config file
  leads                  Lead commands
  tasks                  Task commands
  opps                   Opportunity commands
  team                   Team directory commands
  viz                    Visualization commands

LEAD COMMANDS:
  leadboard leads list      List leads grouped by status
    --assigned-to <scope>     all, me, unassigned, or a member ID
    --search <text>           Search over name, vehicle, and message

  leadboard leads move <id> <status>  Move a lead
    Statuses: NEW, CONTACTED, QUALIFIED, CONVERTED, LOST

TASK COMMANDS:
  leadboard tasks list <lead-id>   List a lead's tasks
  leadboard tasks add [flags] <lead-id>
    --title <title>           Task title (required)
    --assignee <member-id>    Assignee (required)
    --due "2006-01-02 15:04"  Due date, must not be in the past (required)
    --priority <p>            LOW, MEDIUM, HIGH (default MEDIUM)
    --description <text>      Description
  leadboard tasks done <lead-id> <task-id>  Complete a task (no undo)

OPPORTUNITY COMMANDS:
  leadboard opps list <lead-id>    List opportunities and weighted totals
  leadboard opps add [flags] <lead-id>
    --value <cents>           Estimated value in cents (required)
    --probability <0-100>     Close probability (required)
    --close-date 2006-01-02   Expected close date
    --vehicle <vehicle-id>    Vehicle to snapshot onto the opportunity
    --notes <text>            Notes
  leadboard opps delete <lead-id> <opp-id>  Delete an opportunity
    --yes                     Skip the confirmation prompt

TEAM COMMANDS:
  leadboard team list              List team members

VIZ COMMANDS:
  leadboard viz funnel             Generate the pipeline funnel graph
    --output <file>                Output file (default: stdout)

SERVER:
  leadboard serve                  Run the local collaborator API
    --port <n>                     Port (default 8311)
    --db-path <path>               SQLite path
    --no-seed                      Skip seeding an empty database

EXAMPLES:
  # Run the local backend, then open the board against it
  leadboard serve
  leadboard board

  # Move a lead into QUALIFIED from a script
  leadboard leads move 2f1f... QUALIFIED

  # Start the MCP server
  leadboard mcp

`, version)
}
