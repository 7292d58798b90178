// Package storage persists an analysis snapshot (location model,
// dependency map) to SQLite so downstream tooling can query results
// with plain SQL. The core never depends on this package; it consumes
// built artifacts read-only.
package storage

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

const createFilesTable = `
CREATE TABLE IF NOT EXISTS files (
	id   INTEGER PRIMARY KEY,
	path TEXT NOT NULL
)`

const createFunctionsTable = `
CREATE TABLE IF NOT EXISTS functions (
	id        INTEGER PRIMARY KEY,
	file_id   INTEGER NOT NULL REFERENCES files(id),
	start_row INTEGER NOT NULL,
	start_col INTEGER NOT NULL,
	end_row   INTEGER NOT NULL,
	end_col   INTEGER NOT NULL
)`

const createCallsTable = `
CREATE TABLE IF NOT EXISTS calls (
	id        INTEGER PRIMARY KEY,
	file_id   INTEGER NOT NULL REFERENCES files(id),
	start_row INTEGER NOT NULL,
	start_col INTEGER NOT NULL,
	end_row   INTEGER NOT NULL,
	end_col   INTEGER NOT NULL
)`

const createCallTargetsTable = `
CREATE TABLE IF NOT EXISTS call_targets (
	call_id     INTEGER NOT NULL,
	function_id INTEGER NOT NULL
)`

const createDependenciesTable = `
CREATE TABLE IF NOT EXISTS dependencies (
	src_id INTEGER NOT NULL,
	dst_id INTEGER NOT NULL,
	weight INTEGER NOT NULL CHECK (weight >= 1),
	PRIMARY KEY (src_id, dst_id)
)`

const createSnapshotMetaTable = `
CREATE TABLE IF NOT EXISTS snapshot_metadata (
	snapshot_id  TEXT NOT NULL,
	generated_at TEXT NOT NULL,
	dump_path    TEXT NOT NULL
)`

var indexes = []string{
	`CREATE INDEX IF NOT EXISTS idx_functions_file ON functions(file_id)`,
	`CREATE INDEX IF NOT EXISTS idx_calls_file ON calls(file_id)`,
	`CREATE INDEX IF NOT EXISTS idx_dependencies_dst ON dependencies(dst_id)`,
}

// Open opens (or creates) the snapshot database with foreign keys on.
func Open(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}
	return db, nil
}

// CreateSchema creates all tables and indexes in one transaction.
func CreateSchema(db *sql.DB) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin schema transaction: %w", err)
	}
	defer tx.Rollback() // Safe to call even after commit

	tables := []struct {
		name string
		ddl  string
	}{
		{"files", createFilesTable},
		{"functions", createFunctionsTable},
		{"calls", createCallsTable},
		{"call_targets", createCallTargetsTable},
		{"dependencies", createDependenciesTable},
		{"snapshot_metadata", createSnapshotMetaTable},
	}
	for _, table := range tables {
		if _, err := tx.Exec(table.ddl); err != nil {
			return fmt.Errorf("failed to create %s table: %w", table.name, err)
		}
	}

	for i, idx := range indexes {
		if _, err := tx.Exec(idx); err != nil {
			return fmt.Errorf("failed to create index %d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit schema transaction: %w", err)
	}
	return nil
}
