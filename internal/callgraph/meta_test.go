package callgraph

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hayato-n8810/jelly-graph/internal/jelly"
	"github.com/hayato-n8810/jelly-graph/internal/weight"
)

func metaSnapshot() *jelly.Snapshot {
	return &jelly.Snapshot{
		Files: map[jelly.FileID]string{
			0: "src/app/main.js",
			1: "src/lib/util.js",
		},
		Functions: map[jelly.FunctionID]jelly.Location{
			1: {File: 0, StartRow: 1, StartCol: 1, EndRow: 20, EndCol: 2},
			2: {File: 0, StartRow: 22, StartCol: 1, EndRow: 30, EndCol: 2},
			3: {File: 1, StartRow: 1, StartCol: 1, EndRow: 15, EndCol: 2},
		},
	}
}

func TestBuildMeta(t *testing.T) {
	g := New(weight.DependencyMap{
		{Src: 1, Dst: 2}: 1,
		{Src: 2, Dst: 3}: 4,
	})
	meta := BuildMeta(g, metaSnapshot())

	require.Contains(t, meta, jelly.FunctionID(1))
	assert.Equal(t, "src/app/main.js", meta[1].File)
	assert.Equal(t, 20, meta[1].Lines)
	assert.Equal(t, 15, meta[3].Lines)
}

func TestBuildMetaSkipsUnknownFunctions(t *testing.T) {
	g := New(weight.DependencyMap{{Src: 1, Dst: 9}: 1})
	meta := BuildMeta(g, metaSnapshot())

	assert.Contains(t, meta, jelly.FunctionID(1))
	assert.NotContains(t, meta, jelly.FunctionID(9))
}

func TestFilterByFile(t *testing.T) {
	g := New(weight.DependencyMap{
		{Src: 1, Dst: 2}: 1,
		{Src: 2, Dst: 3}: 4,
	})
	meta := BuildMeta(g, metaSnapshot())

	sub, err := FilterByFile(g, meta, "src/app/**")
	require.NoError(t, err)

	assert.Equal(t, []jelly.FunctionID{1, 2}, sub.Nodes())
	assert.Equal(t, 1, sub.Size())
	assert.Equal(t, 1, sub.Weight(1, 2))
	assert.Zero(t, sub.Weight(2, 3), "edges to filtered-out nodes are dropped")
}

func TestFilterByFileKeepsIsolatedMatches(t *testing.T) {
	g := New(weight.DependencyMap{{Src: 1, Dst: 3}: 2})
	meta := BuildMeta(g, metaSnapshot())

	sub, err := FilterByFile(g, meta, "src/app/**")
	require.NoError(t, err)

	assert.Equal(t, []jelly.FunctionID{1}, sub.Nodes())
	assert.Zero(t, sub.Size())
}

func TestFilterByFileBadPattern(t *testing.T) {
	g := New(testDeps())
	_, err := FilterByFile(g, MetaTable{}, "[")
	assert.Error(t, err)
}

func TestWriteDOT(t *testing.T) {
	g := New(weight.DependencyMap{{Src: 1, Dst: 2}: 3})
	meta := BuildMeta(g, metaSnapshot())

	var buf bytes.Buffer
	require.NoError(t, WriteDOT(g, meta, &buf))

	out := buf.String()
	assert.Contains(t, out, "digraph")
	assert.Contains(t, out, "main.js")
	assert.Contains(t, out, `"3"`, "edge label carries the call count")
}
