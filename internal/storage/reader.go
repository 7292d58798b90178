package storage

import (
	"database/sql"
	"fmt"

	"github.com/hayato-n8810/jelly-graph/internal/jelly"
	"github.com/hayato-n8810/jelly-graph/internal/weight"
)

// Reader reads stored snapshots back from SQLite.
type Reader struct {
	db     *sql.DB
	ownsDB bool
}

// NewReader opens the snapshot database read-only.
func NewReader(path string) (*Reader, error) {
	db, err := sql.Open("sqlite3", path+"?mode=ro")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return &Reader{db: db, ownsDB: true}, nil
}

// NewReaderWithDB creates a Reader over a shared connection.
func NewReaderWithDB(db *sql.DB) *Reader {
	return &Reader{db: db}
}

// Close closes the connection when this reader owns it.
func (r *Reader) Close() error {
	if !r.ownsDB || r.db == nil {
		return nil
	}
	return r.db.Close()
}

// LoadDependencyMap reads the stored dependency map.
func (r *Reader) LoadDependencyMap() (weight.DependencyMap, error) {
	rows, err := r.db.Query("SELECT src_id, dst_id, weight FROM dependencies")
	if err != nil {
		return nil, fmt.Errorf("failed to query dependencies: %w", err)
	}
	defer rows.Close()

	deps := make(weight.DependencyMap)
	for rows.Next() {
		var src, dst, count int
		if err := rows.Scan(&src, &dst, &count); err != nil {
			return nil, fmt.Errorf("failed to scan dependency row: %w", err)
		}
		deps[weight.Pair{Src: jelly.FunctionID(src), Dst: jelly.FunctionID(dst)}] = count
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate dependencies: %w", err)
	}
	return deps, nil
}

// LoadSnapshot reads the stored location model.
func (r *Reader) LoadSnapshot() (*jelly.Snapshot, error) {
	snap := &jelly.Snapshot{
		Files:     make(map[jelly.FileID]string),
		Functions: make(map[jelly.FunctionID]jelly.Location),
		Calls:     make(map[jelly.CallID]jelly.Location),
	}

	rows, err := r.db.Query("SELECT id, path FROM files")
	if err != nil {
		return nil, fmt.Errorf("failed to query files: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var id int
		var path string
		if err := rows.Scan(&id, &path); err != nil {
			return nil, fmt.Errorf("failed to scan file row: %w", err)
		}
		snap.Files[jelly.FileID(id)] = path
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate files: %w", err)
	}

	if err := r.loadLocations("functions", func(id int, loc jelly.Location) {
		snap.Functions[jelly.FunctionID(id)] = loc
	}); err != nil {
		return nil, err
	}
	if err := r.loadLocations("calls", func(id int, loc jelly.Location) {
		snap.Calls[jelly.CallID(id)] = loc
	}); err != nil {
		return nil, err
	}

	edgeRows, err := r.db.Query("SELECT call_id, function_id FROM call_targets")
	if err != nil {
		return nil, fmt.Errorf("failed to query call targets: %w", err)
	}
	defer edgeRows.Close()
	for edgeRows.Next() {
		var callID, funcID int
		if err := edgeRows.Scan(&callID, &funcID); err != nil {
			return nil, fmt.Errorf("failed to scan call target row: %w", err)
		}
		snap.Call2Fun = append(snap.Call2Fun, jelly.CallEdge{
			Call:   jelly.CallID(callID),
			Target: jelly.FunctionID(funcID),
		})
	}
	if err := edgeRows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate call targets: %w", err)
	}

	return snap, nil
}

func (r *Reader) loadLocations(table string, put func(int, jelly.Location)) error {
	rows, err := r.db.Query(fmt.Sprintf(
		"SELECT id, file_id, start_row, start_col, end_row, end_col FROM %s", table))
	if err != nil {
		return fmt.Errorf("failed to query %s: %w", table, err)
	}
	defer rows.Close()

	for rows.Next() {
		var id, fileID int
		var loc jelly.Location
		if err := rows.Scan(&id, &fileID, &loc.StartRow, &loc.StartCol, &loc.EndRow, &loc.EndCol); err != nil {
			return fmt.Errorf("failed to scan %s row: %w", table, err)
		}
		loc.File = jelly.FileID(fileID)
		put(id, loc)
	}
	return rows.Err()
}
