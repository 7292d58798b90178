package jelly

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// dumpJSON mirrors the on-disk dump format: a file table, function and
// call tables keyed by numeric-string ids with packed location strings,
// and the two raw edge lists.
type dumpJSON struct {
	Files     []string          `json:"files"`
	Functions map[string]string `json:"functions"`
	Calls     map[string]string `json:"calls"`
	Fun2Fun   [][2]int          `json:"fun2fun"`
	Call2Fun  [][2]int          `json:"call2fun"`
}

// ParseLocation parses a packed "fileID:startRow:startCol:endRow:endCol"
// location string.
func ParseLocation(s string) (Location, error) {
	parts := strings.Split(s, ":")
	if len(parts) != 5 {
		return Location{}, fmt.Errorf("location %q: expected 5 fields, got %d", s, len(parts))
	}

	nums := make([]int, 5)
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil {
			return Location{}, fmt.Errorf("location %q: field %d: %w", s, i+1, err)
		}
		nums[i] = n
	}

	return Location{
		File:     FileID(nums[0]),
		StartRow: nums[1],
		StartCol: nums[2],
		EndRow:   nums[3],
		EndCol:   nums[4],
	}, nil
}

// Map converts raw dump JSON into a Snapshot.
func Map(raw []byte) (*Snapshot, error) {
	var dump dumpJSON
	if err := json.Unmarshal(raw, &dump); err != nil {
		return nil, fmt.Errorf("failed to parse dump JSON: %w", err)
	}

	snap := &Snapshot{
		Files:     make(map[FileID]string, len(dump.Files)),
		Functions: make(map[FunctionID]Location, len(dump.Functions)),
		Calls:     make(map[CallID]Location, len(dump.Calls)),
	}

	for i, path := range dump.Files {
		snap.Files[FileID(i)] = path
	}

	for key, locStr := range dump.Functions {
		id, err := strconv.Atoi(key)
		if err != nil {
			return nil, fmt.Errorf("function id %q: %w", key, err)
		}
		loc, err := ParseLocation(locStr)
		if err != nil {
			return nil, fmt.Errorf("function %d: %w", id, err)
		}
		snap.Functions[FunctionID(id)] = loc
	}

	for key, locStr := range dump.Calls {
		id, err := strconv.Atoi(key)
		if err != nil {
			return nil, fmt.Errorf("call id %q: %w", key, err)
		}
		loc, err := ParseLocation(locStr)
		if err != nil {
			return nil, fmt.Errorf("call %d: %w", id, err)
		}
		snap.Calls[CallID(id)] = loc
	}

	snap.Fun2Fun = make([][2]FunctionID, len(dump.Fun2Fun))
	for i, pair := range dump.Fun2Fun {
		snap.Fun2Fun[i] = [2]FunctionID{FunctionID(pair[0]), FunctionID(pair[1])}
	}

	snap.Call2Fun = make([]CallEdge, len(dump.Call2Fun))
	for i, pair := range dump.Call2Fun {
		snap.Call2Fun[i] = CallEdge{Call: CallID(pair[0]), Target: FunctionID(pair[1])}
	}

	return snap, nil
}

// Load reads and maps a dump file.
func Load(path string) (*Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read dump file: %w", err)
	}

	snap, err := Map(data)
	if err != nil {
		return nil, fmt.Errorf("dump %s: %w", path, err)
	}
	return snap, nil
}

// absPath resolves a path to absolute form, falling back to the input
// when resolution fails (relative comparison is still meaningful then).
func absPath(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		return path
	}
	return abs
}
