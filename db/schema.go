// ABOUTME: Database schema definitions and migrations
// ABOUTME: Handles SQLite table creation for the marketplace backend
package db

import (
	"database/sql"
)

const schema = `
CREATE TABLE IF NOT EXISTS team_members (
	id TEXT PRIMARY KEY,
	name TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS leads (
	id TEXT PRIMARY KEY,
	name TEXT NOT NULL,
	email TEXT NOT NULL,
	phone TEXT,
	message TEXT NOT NULL DEFAULT '',
	status TEXT NOT NULL,
	source TEXT NOT NULL DEFAULT '',
	created_at DATETIME NOT NULL,
	is_duplicate INTEGER NOT NULL DEFAULT 0,
	estimated_value INTEGER NOT NULL DEFAULT 0,
	last_contact_at DATETIME,
	next_follow_up DATETIME,
	notes TEXT NOT NULL DEFAULT '',
	assigned_to TEXT,
	vehicle_id TEXT,
	vehicle_title TEXT,
	vehicle_brand TEXT,
	vehicle_model TEXT,
	vehicle_price INTEGER,
	FOREIGN KEY (assigned_to) REFERENCES team_members(id)
);

CREATE INDEX IF NOT EXISTS idx_leads_status ON leads(status);
CREATE INDEX IF NOT EXISTS idx_leads_assigned_to ON leads(assigned_to);
CREATE INDEX IF NOT EXISTS idx_leads_email ON leads(email);

CREATE TABLE IF NOT EXISTS activities (
	id TEXT PRIMARY KEY,
	lead_id TEXT NOT NULL,
	type TEXT NOT NULL,
	content TEXT,
	metadata TEXT,
	created_at DATETIME NOT NULL,
	author_id TEXT,
	author_name TEXT,
	FOREIGN KEY (lead_id) REFERENCES leads(id)
);

CREATE INDEX IF NOT EXISTS idx_activities_lead_id ON activities(lead_id);

CREATE TABLE IF NOT EXISTS tasks (
	id TEXT PRIMARY KEY,
	lead_id TEXT NOT NULL,
	title TEXT NOT NULL,
	description TEXT,
	assigned_to TEXT NOT NULL,
	due_at DATETIME NOT NULL,
	completed_at DATETIME,
	priority TEXT NOT NULL,
	created_at DATETIME NOT NULL,
	FOREIGN KEY (lead_id) REFERENCES leads(id),
	FOREIGN KEY (assigned_to) REFERENCES team_members(id)
);

CREATE INDEX IF NOT EXISTS idx_tasks_lead_id ON tasks(lead_id);

CREATE TABLE IF NOT EXISTS opportunities (
	id TEXT PRIMARY KEY,
	lead_id TEXT NOT NULL,
	vehicle_id TEXT,
	vehicle_title TEXT,
	vehicle_brand TEXT,
	vehicle_model TEXT,
	estimated_value INTEGER NOT NULL,
	probability INTEGER NOT NULL,
	expected_close_date DATETIME,
	status TEXT NOT NULL,
	notes TEXT NOT NULL DEFAULT '',
	created_at DATETIME NOT NULL,
	FOREIGN KEY (lead_id) REFERENCES leads(id)
);

CREATE INDEX IF NOT EXISTS idx_opportunities_lead_id ON opportunities(lead_id);
`

func InitSchema(db *sql.DB) error {
	_, err := db.Exec(schema)
	return err
}
