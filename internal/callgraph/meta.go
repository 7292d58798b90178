package callgraph

import (
	"fmt"

	"github.com/gobwas/glob"

	"github.com/hayato-n8810/jelly-graph/internal/jelly"
	"github.com/hayato-n8810/jelly-graph/internal/weight"
)

// NodeMeta carries denormalized display metadata for one graph node.
// It is derived from the snapshot and never consulted by graph queries.
type NodeMeta struct {
	File  string
	Loc   jelly.Location
	Lines int
}

// MetaTable is a read-only side-table of node metadata keyed by
// function id, kept separate from the graph so the graph stays agnostic
// of the location model.
type MetaTable map[jelly.FunctionID]NodeMeta

// BuildMeta collects metadata for every graph node that the snapshot
// knows about. Nodes missing from the snapshot's function table are
// simply absent from the result.
func BuildMeta(cg *Graph, snap *jelly.Snapshot) MetaTable {
	meta := make(MetaTable, cg.Order())
	for _, id := range cg.Nodes() {
		loc, ok := snap.Functions[id]
		if !ok {
			continue
		}
		meta[id] = NodeMeta{
			File:  snap.Files[loc.File],
			Loc:   loc,
			Lines: loc.Lines(),
		}
	}
	return meta
}

// FilterByFile returns the subgraph of nodes whose file path matches
// the glob pattern. Nodes without metadata never match. Edges survive
// only when both endpoints are kept; matched nodes with no surviving
// edges stay in the subgraph as isolated nodes.
func FilterByFile(cg *Graph, meta MetaTable, pattern string) (*Graph, error) {
	g, err := glob.Compile(pattern, '/')
	if err != nil {
		return nil, fmt.Errorf("invalid file pattern %q: %w", pattern, err)
	}

	keep := make(map[jelly.FunctionID]struct{})
	for _, id := range cg.Nodes() {
		m, ok := meta[id]
		if ok && g.Match(m.File) {
			keep[id] = struct{}{}
		}
	}

	var edges []weight.WeightedEdge
	for _, e := range cg.Edges() {
		if _, okSrc := keep[e.Src]; !okSrc {
			continue
		}
		if _, okDst := keep[e.Dst]; !okDst {
			continue
		}
		edges = append(edges, e)
	}

	return build(keep, edges), nil
}
