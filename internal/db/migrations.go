package db

import (
	"database/sql"
	"fmt"
)

// migrations is an ordered list of SQL statements to run.
var migrations = []string{
	`CREATE TABLE IF NOT EXISTS properties (
		id                           TEXT    PRIMARY KEY,
		name                         TEXT    NOT NULL,
		address                      TEXT    NOT NULL,
		seller_name                  TEXT    NOT NULL DEFAULT '',
		seller_phone                 TEXT    NOT NULL DEFAULT '',
		seller_email                 TEXT    NOT NULL DEFAULT '',
		agent_name                   TEXT    NOT NULL DEFAULT '',
		agent_phone                  TEXT    NOT NULL DEFAULT '',
		agent_email                  TEXT    NOT NULL DEFAULT '',
		auto_approve_showings        INTEGER NOT NULL DEFAULT 0,
		requires_disclosure_approval INTEGER NOT NULL DEFAULT 1,
		created_at                   DATETIME DEFAULT CURRENT_TIMESTAMP,
		updated_at                   DATETIME DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS schedules (
		property_id TEXT     PRIMARY KEY REFERENCES properties(id) ON DELETE CASCADE,
		state_json  TEXT     NOT NULL,
		updated_at  DATETIME DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS schedule_index (
		entity_id   TEXT PRIMARY KEY,
		kind        TEXT NOT NULL CHECK (kind IN ('showing', 'share', 'package')),
		property_id TEXT NOT NULL REFERENCES properties(id) ON DELETE CASCADE
	)`,
	`CREATE TABLE IF NOT EXISTS activity_events (
		id           INTEGER  PRIMARY KEY AUTOINCREMENT,
		property_id  TEXT     NOT NULL,
		type         TEXT     NOT NULL,
		details_json TEXT     NOT NULL DEFAULT '{}',
		created_at   DATETIME NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_activity_events_property ON activity_events (property_id, id)`,
	`CREATE TABLE IF NOT EXISTS tours (
		id             TEXT     PRIMARY KEY,
		buyer_name     TEXT     NOT NULL DEFAULT '',
		itinerary_json TEXT     NOT NULL,
		created_at     DATETIME NOT NULL
	)`,
}

// migrate runs all migrations in order.
func migrate(db *sql.DB) error {
	for i, m := range migrations {
		if _, err := db.Exec(m); err != nil {
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	return nil
}
