package storage

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/hayato-n8810/jelly-graph/internal/jelly"
	"github.com/hayato-n8810/jelly-graph/internal/weight"
)

// Writer writes snapshots and dependency maps to SQLite.
type Writer struct {
	db     *sql.DB
	ownsDB bool
}

// NewWriter creates a Writer owning its own connection. The schema is
// created if missing.
func NewWriter(path string) (*Writer, error) {
	db, err := Open(path)
	if err != nil {
		return nil, err
	}
	if err := CreateSchema(db); err != nil {
		db.Close()
		return nil, err
	}
	return &Writer{db: db, ownsDB: true}, nil
}

// NewWriterWithDB creates a Writer over a shared connection; the caller
// manages schema and lifecycle.
func NewWriterWithDB(db *sql.DB) *Writer {
	return &Writer{db: db}
}

// Close closes the connection when this writer owns it.
func (w *Writer) Close() error {
	if !w.ownsDB || w.db == nil {
		return nil
	}
	return w.db.Close()
}

// Save replaces the stored snapshot with the given one in a single
// transaction. Existing rows are cleared first so the database always
// holds exactly one snapshot, stamped with a fresh id.
func (w *Writer) Save(snap *jelly.Snapshot, deps weight.DependencyMap, dumpPath string) error {
	if snap == nil {
		return fmt.Errorf("snapshot cannot be nil")
	}

	tx, err := w.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback() // Safe to call even after commit

	// Clear in reverse dependency order.
	for _, table := range []string{"snapshot_metadata", "dependencies", "call_targets", "calls", "functions", "files"} {
		if _, err := tx.Exec("DELETE FROM " + table); err != nil {
			return fmt.Errorf("failed to clear %s: %w", table, err)
		}
	}

	if err := insertFiles(tx, snap.Files); err != nil {
		return err
	}
	if err := insertLocations(tx, "functions", functionRows(snap.Functions)); err != nil {
		return err
	}
	if err := insertLocations(tx, "calls", callRows(snap.Calls)); err != nil {
		return err
	}

	stmt, err := tx.Prepare("INSERT INTO call_targets (call_id, function_id) VALUES (?, ?)")
	if err != nil {
		return fmt.Errorf("failed to prepare call_targets insert: %w", err)
	}
	defer stmt.Close()
	for _, edge := range snap.Call2Fun {
		if _, err := stmt.Exec(int(edge.Call), int(edge.Target)); err != nil {
			return fmt.Errorf("failed to insert call target %d->%d: %w", edge.Call, edge.Target, err)
		}
	}

	depStmt, err := tx.Prepare("INSERT INTO dependencies (src_id, dst_id, weight) VALUES (?, ?, ?)")
	if err != nil {
		return fmt.Errorf("failed to prepare dependencies insert: %w", err)
	}
	defer depStmt.Close()
	for pair, count := range deps {
		if _, err := depStmt.Exec(int(pair.Src), int(pair.Dst), count); err != nil {
			return fmt.Errorf("failed to insert dependency %d->%d: %w", pair.Src, pair.Dst, err)
		}
	}

	_, err = tx.Exec(
		"INSERT INTO snapshot_metadata (snapshot_id, generated_at, dump_path) VALUES (?, ?, ?)",
		uuid.NewString(), time.Now().UTC().Format(time.RFC3339), dumpPath,
	)
	if err != nil {
		return fmt.Errorf("failed to insert snapshot metadata: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit snapshot: %w", err)
	}
	return nil
}

type locationRow struct {
	id  int
	loc jelly.Location
}

func functionRows(functions map[jelly.FunctionID]jelly.Location) []locationRow {
	rows := make([]locationRow, 0, len(functions))
	for id, loc := range functions {
		rows = append(rows, locationRow{id: int(id), loc: loc})
	}
	return rows
}

func callRows(calls map[jelly.CallID]jelly.Location) []locationRow {
	rows := make([]locationRow, 0, len(calls))
	for id, loc := range calls {
		rows = append(rows, locationRow{id: int(id), loc: loc})
	}
	return rows
}

func insertFiles(tx *sql.Tx, files map[jelly.FileID]string) error {
	stmt, err := tx.Prepare("INSERT INTO files (id, path) VALUES (?, ?)")
	if err != nil {
		return fmt.Errorf("failed to prepare files insert: %w", err)
	}
	defer stmt.Close()

	for id, path := range files {
		if _, err := stmt.Exec(int(id), path); err != nil {
			return fmt.Errorf("failed to insert file %d: %w", id, err)
		}
	}
	return nil
}

func insertLocations(tx *sql.Tx, table string, rows []locationRow) error {
	stmt, err := tx.Prepare(fmt.Sprintf(
		"INSERT INTO %s (id, file_id, start_row, start_col, end_row, end_col) VALUES (?, ?, ?, ?, ?, ?)", table))
	if err != nil {
		return fmt.Errorf("failed to prepare %s insert: %w", table, err)
	}
	defer stmt.Close()

	for _, row := range rows {
		_, err := stmt.Exec(row.id, int(row.loc.File), row.loc.StartRow, row.loc.StartCol, row.loc.EndRow, row.loc.EndCol)
		if err != nil {
			return fmt.Errorf("failed to insert into %s (id %d): %w", table, row.id, err)
		}
	}
	return nil
}
