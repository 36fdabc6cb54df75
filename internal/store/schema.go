package store

import (
	"context"
	"database/sql"
	"fmt"

	"entgo.io/ent/dialect"
)

// Tables and columns shared by both dialects. Booleans are stored as
// integers and timestamps as fixed-width UTC text so the same statements
// work on SQLite and Postgres.
var schemaCommon = []string{
	`CREATE TABLE IF NOT EXISTS submissions (
		id TEXT PRIMARY KEY,
		student_id TEXT NOT NULL,
		material_id TEXT NOT NULL,
		material_batch TEXT NOT NULL DEFAULT '',
		test_type TEXT NOT NULL DEFAULT '',
		quarter TEXT NOT NULL DEFAULT '',
		mode TEXT NOT NULL DEFAULT '',
		answers TEXT NOT NULL DEFAULT '[]',
		comprehension_score INTEGER NOT NULL DEFAULT 0,
		vocabulary_score INTEGER NOT NULL DEFAULT 0,
		number_of_words INTEGER NOT NULL DEFAULT 0,
		duration DOUBLE PRECISION NOT NULL DEFAULT 0,
		miscues TEXT NOT NULL DEFAULT '[]',
		submitted_at TEXT NOT NULL DEFAULT ''
	)`,
	`CREATE INDEX IF NOT EXISTS submissions_student_idx ON submissions (student_id)`,
	`CREATE INDEX IF NOT EXISTS submissions_material_idx ON submissions (material_id)`,
	`CREATE TABLE IF NOT EXISTS materials (
		id TEXT PRIMARY KEY,
		title TEXT NOT NULL DEFAULT '',
		body TEXT NOT NULL DEFAULT '',
		author TEXT NOT NULL DEFAULT '',
		skill TEXT NOT NULL DEFAULT '',
		quarter TEXT NOT NULL DEFAULT '',
		test_type TEXT NOT NULL DEFAULT '',
		questions TEXT NOT NULL DEFAULT '[]'
	)`,
	`CREATE TABLE IF NOT EXISTS skills (
		id TEXT PRIMARY KEY,
		title TEXT NOT NULL DEFAULT ''
	)`,
	`CREATE TABLE IF NOT EXISTS students (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL DEFAULT '',
		email TEXT NOT NULL DEFAULT ''
	)`,
	`CREATE TABLE IF NOT EXISTS chapter_config (
		id INTEGER PRIMARY KEY CHECK (id = 1),
		active_chapter TEXT NOT NULL DEFAULT '',
		pre_test_enabled INTEGER NOT NULL DEFAULT 0,
		post_test_enabled INTEGER NOT NULL DEFAULT 0
	)`,
	`CREATE TABLE IF NOT EXISTS lesson_progress (
		student_id TEXT NOT NULL,
		lesson_id TEXT NOT NULL,
		completed_contents TEXT NOT NULL DEFAULT '[]',
		total_contents INTEGER NOT NULL DEFAULT 0,
		completed_at TEXT,
		PRIMARY KEY (student_id, lesson_id)
	)`,
	`CREATE TABLE IF NOT EXISTS global_sequence (
		id INTEGER PRIMARY KEY CHECK (id = 1),
		next_val BIGINT NOT NULL DEFAULT 1
	)`,
}

var schemaSnapshotsSQLite = `CREATE TABLE IF NOT EXISTS snapshots (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	sequence INTEGER NOT NULL,
	taken_at TEXT NOT NULL,
	data TEXT NOT NULL
)`

var schemaSnapshotsPostgres = `CREATE TABLE IF NOT EXISTS snapshots (
	id BIGSERIAL PRIMARY KEY,
	sequence BIGINT NOT NULL,
	taken_at TEXT NOT NULL,
	data TEXT NOT NULL
)`

func ensureSchema(ctx context.Context, db *sql.DB, dia string) error {
	stmts := append([]string{}, schemaCommon...)
	switch dia {
	case dialect.Postgres:
		stmts = append(stmts, schemaSnapshotsPostgres)
	default:
		stmts = append(stmts, schemaSnapshotsSQLite)
	}
	for _, stmt := range stmts {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("%.40s: %w", stmt, err)
		}
	}
	return nil
}
