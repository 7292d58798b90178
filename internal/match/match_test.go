package match

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hayato-n8810/jelly-graph/internal/jelly"
)

// Test Plan for the matcher:
// - Exact file+range equality matches
// - A record one row off matches nothing (no containment fallback)
// - Unknown files match nothing
// - Duplicate ranges resolve to the smallest function id
// - Records with a base path join under it, stripping leading separators
// - MatchedIDs / Unmatched projections

func matchSnapshot(t *testing.T) (*jelly.Snapshot, string) {
	t.Helper()
	base := t.TempDir()

	snap := &jelly.Snapshot{
		Files: map[jelly.FileID]string{
			0: filepath.Join(base, "src", "a.js"),
			1: filepath.Join(base, "src", "b.js"),
		},
		Functions: map[jelly.FunctionID]jelly.Location{
			1: {File: 0, StartRow: 1, StartCol: 1, EndRow: 20, EndCol: 2},
			2: {File: 0, StartRow: 25, StartCol: 1, EndRow: 40, EndCol: 2},
			3: {File: 1, StartRow: 5, StartCol: 1, EndRow: 9, EndCol: 2},
		},
	}
	return snap, base
}

func TestFunctionExactMatch(t *testing.T) {
	snap, base := matchSnapshot(t)

	id, ok := Function(snap, filepath.Join(base, "src", "a.js"), 25, 40)
	require.True(t, ok)
	assert.Equal(t, jelly.FunctionID(2), id)
}

func TestFunctionOneRowOff(t *testing.T) {
	snap, base := matchSnapshot(t)

	_, ok := Function(snap, filepath.Join(base, "src", "a.js"), 25, 41)
	assert.False(t, ok, "end row off by one must not match")

	_, ok = Function(snap, filepath.Join(base, "src", "a.js"), 24, 40)
	assert.False(t, ok, "start row off by one must not match")
}

func TestFunctionUnknownFile(t *testing.T) {
	snap, base := matchSnapshot(t)

	_, ok := Function(snap, filepath.Join(base, "src", "c.js"), 1, 20)
	assert.False(t, ok)
}

func TestFunctionDuplicateRangeSmallestID(t *testing.T) {
	snap, base := matchSnapshot(t)
	snap.Functions[9] = snap.Functions[1]
	snap.Functions[0] = snap.Functions[1]

	id, ok := Function(snap, filepath.Join(base, "src", "a.js"), 1, 20)
	require.True(t, ok)
	assert.Equal(t, jelly.FunctionID(0), id)
}

func TestRecordsWithBasePath(t *testing.T) {
	snap, base := matchSnapshot(t)

	records := []Record{
		{File: "/src/a.js", StartRow: 1, EndRow: 20},
		{File: "src/b.js", StartRow: 5, EndRow: 9},
		{File: "/src/a.js", StartRow: 2, EndRow: 20}, // off by one
	}

	matches := Records(snap, records, base)
	require.Len(t, matches, 3)

	assert.True(t, matches[0].OK)
	assert.Equal(t, jelly.FunctionID(1), matches[0].Func)
	assert.True(t, matches[1].OK)
	assert.Equal(t, jelly.FunctionID(3), matches[1].Func)
	assert.False(t, matches[2].OK)
}

func TestRecordsWithoutBasePath(t *testing.T) {
	snap, base := matchSnapshot(t)

	matches := Records(snap, []Record{
		{File: filepath.Join(base, "src", "b.js"), StartRow: 5, EndRow: 9},
	}, "")

	require.Len(t, matches, 1)
	assert.True(t, matches[0].OK)
	assert.Equal(t, jelly.FunctionID(3), matches[0].Func)
}

func TestProjections(t *testing.T) {
	matches := []Match{
		{Record: Record{File: "a"}, Func: 1, OK: true},
		{Record: Record{File: "b"}, OK: false},
		{Record: Record{File: "c"}, Func: 3, OK: true},
	}

	assert.Equal(t, []jelly.FunctionID{1, 3}, MatchedIDs(matches))
	assert.Equal(t, []Record{{File: "b"}}, Unmatched(matches))
}
