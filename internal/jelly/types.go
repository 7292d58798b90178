package jelly

// FileID identifies a source file in the dump's file table.
type FileID int

// FunctionID identifies a function declaration in the dump.
type FunctionID int

// CallID identifies a single call expression in the dump.
type CallID int

// Location is a source range anchored to a file. Rows and columns are
// 1-indexed as emitted by the dump; ranges in different files never
// overlap regardless of their numeric bounds.
type Location struct {
	File     FileID `json:"file"`
	StartRow int    `json:"start_row"`
	StartCol int    `json:"start_col"`
	EndRow   int    `json:"end_row"`
	EndCol   int    `json:"end_col"`
}

// RowSpan returns the number of rows the range covers beyond its first.
func (l Location) RowSpan() int { return l.EndRow - l.StartRow }

// ColSpan returns the column delta between the range's endpoints. It can
// be negative for multi-line ranges; the dump does not guarantee
// monotonic columns across rows.
func (l Location) ColSpan() int { return l.EndCol - l.StartCol }

// Lines returns the inclusive line count of the range.
func (l Location) Lines() int { return l.EndRow - l.StartRow + 1 }

// CallEdge records that one call site invokes a target function.
type CallEdge struct {
	Call   CallID
	Target FunctionID
}

// Snapshot holds a fully loaded call relation dump. It is populated once
// by the loader and treated as read-only afterward; everything derived
// from it (dependency map, call graph) is rebuilt from scratch when the
// underlying dump changes.
type Snapshot struct {
	Files     map[FileID]string
	Functions map[FunctionID]Location
	Calls     map[CallID]Location
	Fun2Fun   [][2]FunctionID
	Call2Fun  []CallEdge
}

// FindFile returns the id of the file whose path resolves to the same
// absolute path as the argument. Paths that cannot be resolved are
// compared as given. The smallest matching id wins so lookups stay
// deterministic when a dump lists a path twice.
func (s *Snapshot) FindFile(path string) (FileID, bool) {
	target := absPath(path)

	found := false
	var best FileID
	for id, p := range s.Files {
		if absPath(p) != target {
			continue
		}
		if !found || id < best {
			best = id
			found = true
		}
	}
	return best, found
}
