package callgraph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hayato-n8810/jelly-graph/internal/jelly"
	"github.com/hayato-n8810/jelly-graph/internal/weight"
)

// Test Plan for Graph:
// - Node set covers both endpoints of every dependency
// - Degree and weighted-degree queries
// - Unknown nodes yield zero values, never a panic
// - TopEdgesFrom sorts by descending weight
// - Roots and leaves, including isolated both-root-and-leaf nodes
// - FromPairs collapses duplicate fun2fun pairs

func testDeps() weight.DependencyMap {
	return weight.DependencyMap{
		{Src: 1, Dst: 2}: 3,
		{Src: 1, Dst: 3}: 5,
		{Src: 4, Dst: 1}: 1,
	}
}

func TestNewNodesAndEdges(t *testing.T) {
	g := New(testDeps())

	assert.Equal(t, []jelly.FunctionID{1, 2, 3, 4}, g.Nodes())
	assert.Equal(t, 4, g.Order())
	assert.Equal(t, 3, g.Size())
	assert.ElementsMatch(t, []weight.WeightedEdge{
		{Src: 1, Dst: 2, Weight: 3},
		{Src: 1, Dst: 3, Weight: 5},
		{Src: 4, Dst: 1, Weight: 1},
	}, g.Edges())
}

func TestDegrees(t *testing.T) {
	g := New(testDeps())

	assert.Equal(t, 1, g.InDegree(1))
	assert.Equal(t, 2, g.OutDegree(1))
	assert.Equal(t, 1, g.WeightedInDegree(1))
	assert.Equal(t, 8, g.WeightedOutDegree(1))
	assert.Equal(t, 5, g.WeightedInDegree(3))
	assert.Equal(t, 0, g.WeightedOutDegree(3))
}

func TestUnknownNodeZeroValues(t *testing.T) {
	g := New(testDeps())

	assert.False(t, g.Has(99))
	assert.Zero(t, g.InDegree(99))
	assert.Zero(t, g.OutDegree(99))
	assert.Zero(t, g.WeightedInDegree(99))
	assert.Zero(t, g.Weight(99, 1))
	assert.Empty(t, g.TopEdgesFrom(99))
}

func TestTopEdgesFrom(t *testing.T) {
	g := New(testDeps())

	top := g.TopEdgesFrom(1)
	require.Len(t, top, 2)
	assert.Equal(t, weight.WeightedEdge{Src: 1, Dst: 3, Weight: 5}, top[0])
	assert.Equal(t, weight.WeightedEdge{Src: 1, Dst: 2, Weight: 3}, top[1])
}

func TestRootsAndLeaves(t *testing.T) {
	g := New(testDeps())

	assert.Equal(t, map[jelly.FunctionID]struct{}{4: {}}, g.Roots())
	assert.Equal(t, map[jelly.FunctionID]struct{}{2: {}, 3: {}}, g.Leaves())
}

func TestIsolatedNodeIsRootAndLeaf(t *testing.T) {
	g := build(map[jelly.FunctionID]struct{}{7: {}}, nil)

	assert.True(t, g.Has(7))
	_, isRoot := g.Roots()[7]
	_, isLeaf := g.Leaves()[7]
	assert.True(t, isRoot)
	assert.True(t, isLeaf)
}

func TestSelfLoop(t *testing.T) {
	g := New(weight.DependencyMap{{Src: 5, Dst: 5}: 2})

	assert.Equal(t, 1, g.InDegree(5))
	assert.Equal(t, 1, g.OutDegree(5))
	assert.Equal(t, 2, g.Weight(5, 5))
	assert.Empty(t, g.Roots())
	assert.Empty(t, g.Leaves())
}

func TestFromPairs(t *testing.T) {
	g := FromPairs([][2]jelly.FunctionID{{1, 2}, {1, 2}, {2, 3}})

	assert.Equal(t, 2, g.Size(), "duplicate pairs collapse")
	assert.Equal(t, 1, g.Weight(1, 2))
	assert.Equal(t, 1, g.Weight(2, 3))
}
