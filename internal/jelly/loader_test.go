package jelly

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLocation(t *testing.T) {
	loc, err := ParseLocation("2:10:5:14:1")
	require.NoError(t, err)
	assert.Equal(t, Location{File: 2, StartRow: 10, StartCol: 5, EndRow: 14, EndCol: 1}, loc)
}

func TestParseLocationErrors(t *testing.T) {
	_, err := ParseLocation("1:2:3")
	assert.Error(t, err, "too few fields")

	_, err = ParseLocation("1:2:x:4:5")
	assert.Error(t, err, "non-numeric field")
}

const sampleDump = `{
	"files": ["src/a.js", "src/b.js"],
	"functions": {
		"1": "0:1:1:20:2",
		"2": "1:3:1:9:2"
	},
	"calls": {
		"10": "0:5:3:5:12"
	},
	"fun2fun": [[1, 2]],
	"call2fun": [[10, 2]]
}`

func TestMap(t *testing.T) {
	snap, err := Map([]byte(sampleDump))
	require.NoError(t, err)

	assert.Equal(t, map[FileID]string{0: "src/a.js", 1: "src/b.js"}, snap.Files)
	assert.Equal(t, Location{File: 0, StartRow: 1, StartCol: 1, EndRow: 20, EndCol: 2}, snap.Functions[1])
	assert.Equal(t, Location{File: 1, StartRow: 3, StartCol: 1, EndRow: 9, EndCol: 2}, snap.Functions[2])
	assert.Equal(t, Location{File: 0, StartRow: 5, StartCol: 3, EndRow: 5, EndCol: 12}, snap.Calls[10])
	assert.Equal(t, [][2]FunctionID{{1, 2}}, snap.Fun2Fun)
	assert.Equal(t, []CallEdge{{Call: 10, Target: 2}}, snap.Call2Fun)
}

func TestMapRejectsMalformedLocations(t *testing.T) {
	_, err := Map([]byte(`{"files": [], "functions": {"1": "bogus"}, "calls": {}, "fun2fun": [], "call2fun": []}`))
	assert.Error(t, err)
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dump.json")
	require.NoError(t, os.WriteFile(path, []byte(sampleDump), 0644))

	snap, err := Load(path)
	require.NoError(t, err)
	assert.Len(t, snap.Functions, 2)
	assert.Len(t, snap.Calls, 1)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.json"))
	assert.Error(t, err)
}

func TestFindFile(t *testing.T) {
	dir := t.TempDir()
	abs := filepath.Join(dir, "src", "a.js")

	snap := &Snapshot{Files: map[FileID]string{0: abs, 1: filepath.Join(dir, "src", "b.js")}}

	id, ok := snap.FindFile(abs)
	require.True(t, ok)
	assert.Equal(t, FileID(0), id)

	_, ok = snap.FindFile(filepath.Join(dir, "src", "c.js"))
	assert.False(t, ok)
}

func TestLocationHelpers(t *testing.T) {
	l := Location{StartRow: 5, StartCol: 3, EndRow: 10, EndCol: 1}
	assert.Equal(t, 5, l.RowSpan())
	assert.Equal(t, -2, l.ColSpan())
	assert.Equal(t, 6, l.Lines())
}
