// Package sqlite stores users and votes in SQLite through modernc.org/sqlite.
//
// It mirrors the postgres adapter for single-node deployments and tests.
// Timestamps are stored as UTC unix microseconds so range filters compare
// numerically, and the (voter_id, target_id, period_start) unique constraint
// backs the vote upsert exactly as it does in postgres.
package sqlite

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

// Open connects to path and creates the schema. Use ":memory:" for a private
// in-memory database.
func Open(path string) (*sql.DB, error) {
	dsn := path
	if !strings.Contains(dsn, "?") {
		dsn += "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if strings.HasPrefix(path, ":memory:") {
		// Every connection would otherwise see its own empty database.
		db.SetMaxOpenConns(1)
	}

	if err := CreateSchema(db); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

// CreateSchema creates all tables. Safe to call multiple times.
func CreateSchema(db *sql.DB) error {
	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}

const schema = `
CREATE TABLE IF NOT EXISTS users (
    id TEXT PRIMARY KEY,
    slack_id TEXT NOT NULL UNIQUE,
    display_name TEXT NOT NULL DEFAULT '',
    real_name TEXT NOT NULL DEFAULT '',
    is_bot INTEGER NOT NULL DEFAULT 0,
    is_hr INTEGER NOT NULL DEFAULT 0,
    deleted INTEGER NOT NULL DEFAULT 0,
    created_at INTEGER NOT NULL,
    updated_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS votes (
    id TEXT PRIMARY KEY,
    voter_id TEXT NOT NULL REFERENCES users (slack_id),
    target_id TEXT NOT NULL REFERENCES users (slack_id),
    points_team_up_to_win INTEGER NOT NULL DEFAULT 0 CHECK (points_team_up_to_win BETWEEN 0 AND 3),
    points_act_to_deliver INTEGER NOT NULL DEFAULT 0 CHECK (points_act_to_deliver BETWEEN 0 AND 3),
    points_disrupt_to_grow INTEGER NOT NULL DEFAULT 0 CHECK (points_disrupt_to_grow BETWEEN 0 AND 3),
    comment TEXT NOT NULL DEFAULT '',
    period_start INTEGER NOT NULL,
    created_at INTEGER NOT NULL,
    modified_at INTEGER NOT NULL,
    CHECK (voter_id <> target_id),
    UNIQUE (voter_id, target_id, period_start)
);

CREATE INDEX IF NOT EXISTS idx_votes_target_created ON votes (target_id, created_at);
CREATE INDEX IF NOT EXISTS idx_votes_voter_created ON votes (voter_id, created_at);
CREATE INDEX IF NOT EXISTS idx_votes_modified ON votes (modified_at);
`

func toMicros(t time.Time) int64 {
	return t.UnixMicro()
}

func fromMicros(us int64) time.Time {
	return time.UnixMicro(us).UTC()
}

type scanner interface {
	Scan(dest ...any) error
}
