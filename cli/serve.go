// ABOUTME: Serve CLI command
// ABOUTME: Runs the local collaborator API over SQLite with seed data
package cli

import (
	"flag"
	"fmt"
	"log"

	"github.com/motorlot/leadboard/config"
	"github.com/motorlot/leadboard/db"
	"github.com/motorlot/leadboard/mockapi"
)

// ServeCommand starts a local collaborator API. Fresh databases get a small
// seed data set so the board has something to show.
func ServeCommand(args []string) error {
	fs := flag.NewFlagSet("serve", flag.ExitOnError)
	port := fs.Int("port", 8311, "Port to listen on")
	dbPath := fs.String("db-path", config.DefaultDBPath(), "SQLite database path")
	noSeed := fs.Bool("no-seed", false, "Skip seeding an empty database")
	_ = fs.Parse(args)

	database, err := db.OpenDatabase(*dbPath)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer func() { _ = database.Close() }()

	log.Printf("Collaborator database: %s", *dbPath)

	if !*noSeed {
		if err := mockapi.Seed(database); err != nil {
			return fmt.Errorf("failed to seed database: %w", err)
		}
	}

	return mockapi.NewServer(database).Start(*port)
}
