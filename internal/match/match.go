// Package match maps externally produced function records (file path
// plus line range) onto snapshot function ids by exact range equality.
package match

import (
	"path/filepath"
	"strings"

	"github.com/hayato-n8810/jelly-graph/internal/jelly"
)

// Record is one externally supplied function location.
type Record struct {
	File     string
	StartRow int
	EndRow   int
}

// Match pairs a record with the function it resolved to. OK is false
// when no function matched; that is part of the result set, not an
// error.
type Match struct {
	Record Record
	Func   jelly.FunctionID
	OK     bool
}

// Function finds the function whose file resolves to path and whose
// start and end rows equal the given range exactly. Containment is not
// enough: a record one row off a real function matches nothing. When
// several functions share the identical file and range, the smallest id
// is returned.
func Function(snap *jelly.Snapshot, path string, startRow, endRow int) (jelly.FunctionID, bool) {
	fileID, ok := snap.FindFile(path)
	if !ok {
		return 0, false
	}

	found := false
	var best jelly.FunctionID
	for id, loc := range snap.Functions {
		if loc.File != fileID || loc.StartRow != startRow || loc.EndRow != endRow {
			continue
		}
		if !found || id < best {
			best = id
			found = true
		}
	}
	return best, found
}

// Records matches every record against the snapshot. When basePath is
// non-empty each record's file is joined under it with any leading
// separator stripped; otherwise record paths are used as given.
func Records(snap *jelly.Snapshot, records []Record, basePath string) []Match {
	results := make([]Match, 0, len(records))
	for _, rec := range records {
		path := rec.File
		if basePath != "" {
			path = filepath.Join(basePath, strings.TrimPrefix(rec.File, string(filepath.Separator)))
		}

		id, ok := Function(snap, path, rec.StartRow, rec.EndRow)
		results = append(results, Match{Record: rec, Func: id, OK: ok})
	}
	return results
}

// MatchedIDs returns the function ids of the successful matches.
func MatchedIDs(matches []Match) []jelly.FunctionID {
	var ids []jelly.FunctionID
	for _, m := range matches {
		if m.OK {
			ids = append(ids, m.Func)
		}
	}
	return ids
}

// Unmatched returns the records that resolved to no function.
func Unmatched(matches []Match) []Record {
	var records []Record
	for _, m := range matches {
		if !m.OK {
			records = append(records, m.Record)
		}
	}
	return records
}
