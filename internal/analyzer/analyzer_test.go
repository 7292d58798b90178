package analyzer

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hayato-n8810/jelly-graph/internal/jelly"
	"github.com/hayato-n8810/jelly-graph/internal/match"
	"github.com/hayato-n8810/jelly-graph/internal/trace"
)

// Test Plan for Analyzer:
// - Build derives dependency map, graph and metadata from a snapshot
// - Queries before any rebuild fail with ErrNoSnapshot
// - Rebuild loads a dump and serves trace queries against it
// - Repeated trace queries hit the cache and stay consistent
// - Swapping a snapshot changes query results atomically
// - Unknown trace start propagates ErrFunctionNotFound

const testDump = `{
	"files": ["src/a.js"],
	"functions": {
		"1": "0:1:1:20:2",
		"2": "0:22:1:40:2",
		"3": "0:42:1:60:2"
	},
	"calls": {
		"10": "0:5:1:5:9",
		"11": "0:25:1:25:9"
	},
	"fun2fun": [[1, 2], [2, 3]],
	"call2fun": [[10, 2], [11, 3]]
}`

func writeDump(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "dump.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestBuild(t *testing.T) {
	snap, err := jelly.Map([]byte(testDump))
	require.NoError(t, err)

	an := Build(snap)
	assert.Equal(t, 1, an.Deps.Count(1, 2))
	assert.Equal(t, 1, an.Deps.Count(2, 3))
	assert.Equal(t, 3, an.Graph.Order())
	assert.Equal(t, "src/a.js", an.Meta[1].File)
}

func TestQueryBeforeRebuild(t *testing.T) {
	a := New()
	defer a.Close()

	_, err := a.TraceCallers(1)
	assert.ErrorIs(t, err, ErrNoSnapshot)

	_, err = a.TraceCallees(1)
	assert.ErrorIs(t, err, ErrNoSnapshot)

	_, err = a.MatchRecords(nil)
	assert.ErrorIs(t, err, ErrNoSnapshot)
}

func TestRebuildAndTrace(t *testing.T) {
	a := New()
	defer a.Close()

	require.NoError(t, a.Rebuild(writeDump(t, testDump)))

	paths, err := a.TraceCallees(1)
	require.NoError(t, err)
	require.Len(t, paths, 1)
	assert.Equal(t, []jelly.FunctionID{1, 2, 3}, paths[0].Path)

	callerPaths, err := a.TraceCallers(3)
	require.NoError(t, err)
	require.Len(t, callerPaths, 1)
	assert.Equal(t, jelly.FunctionID(1), callerPaths[0].Root)
}

func TestTraceCached(t *testing.T) {
	a := New(WithCacheCapacity(16))
	defer a.Close()

	require.NoError(t, a.Rebuild(writeDump(t, testDump)))

	first, err := a.TraceCallees(1)
	require.NoError(t, err)
	second, err := a.TraceCallees(1)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestTraceUnknownStart(t *testing.T) {
	a := New()
	defer a.Close()

	require.NoError(t, a.Rebuild(writeDump(t, testDump)))

	_, err := a.TraceCallers(99)
	assert.ErrorIs(t, err, trace.ErrFunctionNotFound)
}

func TestSwapReplacesSnapshot(t *testing.T) {
	a := New()
	defer a.Close()

	require.NoError(t, a.Rebuild(writeDump(t, testDump)))
	require.True(t, a.Current().Graph.Has(3))

	smaller, err := jelly.Map([]byte(`{
		"files": ["src/a.js"],
		"functions": {"1": "0:1:1:20:2", "2": "0:22:1:40:2"},
		"calls": {"10": "0:5:1:5:9"},
		"fun2fun": [],
		"call2fun": [[10, 2]]
	}`))
	require.NoError(t, err)
	require.NoError(t, a.Swap(Build(smaller)))

	assert.False(t, a.Current().Graph.Has(3))
	_, err = a.TraceCallers(3)
	assert.ErrorIs(t, err, trace.ErrFunctionNotFound)
}

func TestRebuildMissingDump(t *testing.T) {
	a := New()
	defer a.Close()

	err := a.Rebuild(filepath.Join(t.TempDir(), "absent.json"))
	assert.Error(t, err)
	assert.Nil(t, a.Current())
}

func TestMatchRecords(t *testing.T) {
	a := New()
	defer a.Close()

	require.NoError(t, a.Rebuild(writeDump(t, testDump)))

	matches, err := a.MatchRecords([]match.Record{
		{File: "src/a.js", StartRow: 22, EndRow: 40},
		{File: "src/a.js", StartRow: 22, EndRow: 41},
	})
	require.NoError(t, err)
	require.Len(t, matches, 2)
	assert.True(t, matches[0].OK)
	assert.Equal(t, jelly.FunctionID(2), matches[0].Func)
	assert.False(t, matches[1].OK)
}
