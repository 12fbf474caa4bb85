// ABOUTME: SQLite connection setup for the local collaborator backend
// ABOUTME: Single-connection pool; audited lead updates rely on that invariant
package db

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"
)

// OpenDatabase opens the collaborator database at path, creating the file
// and its directory as needed, and applies the schema.
//
// The pool is capped at one connection: SQLite allows a single writer, and
// UpdateLead assumes no second connection exists while its audit transaction
// is open, so every pre-transaction read must finish before Begin.
func OpenDatabase(path string) (*sql.DB, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	// WAL keeps the serve command's reads from blocking writes; the busy
	// timeout covers checkpoint stalls.
	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open database %s: %w", path, err)
	}
	db.SetMaxOpenConns(1)

	if err := InitSchema(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return db, nil
}
