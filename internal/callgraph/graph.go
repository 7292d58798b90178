// Package callgraph exposes an aggregated dependency map as a directed
// weighted graph over function ids, with degree and edge queries plus
// root/leaf frontier sets for path tracing.
package callgraph

import (
	"sort"

	"github.com/dominikbraun/graph"

	"github.com/hayato-n8810/jelly-graph/internal/jelly"
	"github.com/hayato-n8810/jelly-graph/internal/weight"
)

// Graph is a directed weighted call graph. Nodes are function ids,
// edge weights are aggregated call counts. The adjacency maps are
// materialized once at build time; a built Graph is read-only and safe
// for concurrent queries.
type Graph struct {
	g graph.Graph[jelly.FunctionID, jelly.FunctionID]

	succ map[jelly.FunctionID]map[jelly.FunctionID]int
	pred map[jelly.FunctionID]map[jelly.FunctionID]int
}

// New builds a call graph from a dependency map. The node set is every
// function appearing as either endpoint.
func New(dm weight.DependencyMap) *Graph {
	nodes := make(map[jelly.FunctionID]struct{}, len(dm))
	edges := make([]weight.WeightedEdge, 0, len(dm))
	for pair, count := range dm {
		nodes[pair.Src] = struct{}{}
		nodes[pair.Dst] = struct{}{}
		edges = append(edges, weight.WeightedEdge{Src: pair.Src, Dst: pair.Dst, Weight: count})
	}
	return build(nodes, edges)
}

// FromPairs builds an unweighted graph (every edge weight 1) from raw
// function-to-function pairs, e.g. the dump's fun2fun list. Duplicate
// pairs collapse to a single edge.
func FromPairs(pairs [][2]jelly.FunctionID) *Graph {
	nodes := make(map[jelly.FunctionID]struct{}, len(pairs))
	seen := make(map[weight.Pair]struct{}, len(pairs))
	edges := make([]weight.WeightedEdge, 0, len(pairs))

	for _, pair := range pairs {
		nodes[pair[0]] = struct{}{}
		nodes[pair[1]] = struct{}{}

		key := weight.Pair{Src: pair[0], Dst: pair[1]}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		edges = append(edges, weight.WeightedEdge{Src: pair[0], Dst: pair[1], Weight: 1})
	}
	return build(nodes, edges)
}

func build(nodes map[jelly.FunctionID]struct{}, edges []weight.WeightedEdge) *Graph {
	g := graph.New(func(id jelly.FunctionID) jelly.FunctionID { return id }, graph.Directed(), graph.Weighted())

	for id := range nodes {
		_ = g.AddVertex(id)
	}
	for _, e := range edges {
		_ = g.AddEdge(e.Src, e.Dst, graph.EdgeWeight(e.Weight))
	}

	cg := &Graph{
		g:    g,
		succ: make(map[jelly.FunctionID]map[jelly.FunctionID]int, len(nodes)),
		pred: make(map[jelly.FunctionID]map[jelly.FunctionID]int, len(nodes)),
	}
	for id := range nodes {
		cg.succ[id] = make(map[jelly.FunctionID]int)
		cg.pred[id] = make(map[jelly.FunctionID]int)
	}

	adjacency, err := g.AdjacencyMap()
	if err != nil {
		// Cannot happen for a graph we just built in memory.
		return cg
	}
	for src, targets := range adjacency {
		for dst, edge := range targets {
			w := edge.Properties.Weight
			if w == 0 {
				w = 1
			}
			cg.succ[src][dst] = w
			cg.pred[dst][src] = w
		}
	}

	return cg
}

// Has reports whether the function is a node of the graph.
func (cg *Graph) Has(id jelly.FunctionID) bool {
	_, ok := cg.succ[id]
	return ok
}

// Order returns the number of nodes.
func (cg *Graph) Order() int { return len(cg.succ) }

// Size returns the number of edges.
func (cg *Graph) Size() int {
	total := 0
	for _, targets := range cg.succ {
		total += len(targets)
	}
	return total
}

// Nodes returns all node ids in ascending order.
func (cg *Graph) Nodes() []jelly.FunctionID {
	ids := make([]jelly.FunctionID, 0, len(cg.succ))
	for id := range cg.succ {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// Edges returns every edge with its weight. Order is unspecified.
func (cg *Graph) Edges() []weight.WeightedEdge {
	edges := make([]weight.WeightedEdge, 0, cg.Size())
	for src, targets := range cg.succ {
		for dst, w := range targets {
			edges = append(edges, weight.WeightedEdge{Src: src, Dst: dst, Weight: w})
		}
	}
	return edges
}

// Weight returns the weight of the (src, dst) edge, zero when absent.
func (cg *Graph) Weight(src, dst jelly.FunctionID) int {
	return cg.succ[src][dst]
}

// InDegree returns the number of distinct callers. Unknown nodes have
// degree zero.
func (cg *Graph) InDegree(id jelly.FunctionID) int { return len(cg.pred[id]) }

// OutDegree returns the number of distinct callees.
func (cg *Graph) OutDegree(id jelly.FunctionID) int { return len(cg.succ[id]) }

// WeightedInDegree returns the total number of observed calls into the
// function.
func (cg *Graph) WeightedInDegree(id jelly.FunctionID) int {
	total := 0
	for _, w := range cg.pred[id] {
		total += w
	}
	return total
}

// WeightedOutDegree returns the total number of observed calls the
// function makes.
func (cg *Graph) WeightedOutDegree(id jelly.FunctionID) int {
	total := 0
	for _, w := range cg.succ[id] {
		total += w
	}
	return total
}

// Successors returns the callee -> weight map for a node. The returned
// map is shared with the graph and must not be mutated.
func (cg *Graph) Successors(id jelly.FunctionID) map[jelly.FunctionID]int {
	return cg.succ[id]
}

// Predecessors returns the caller -> weight map for a node. The
// returned map is shared with the graph and must not be mutated.
func (cg *Graph) Predecessors(id jelly.FunctionID) map[jelly.FunctionID]int {
	return cg.pred[id]
}

// TopEdgesFrom returns the node's outgoing edges in descending weight
// order, ties broken by callee id.
func (cg *Graph) TopEdgesFrom(id jelly.FunctionID) []weight.WeightedEdge {
	edges := make([]weight.WeightedEdge, 0, len(cg.succ[id]))
	for dst, w := range cg.succ[id] {
		edges = append(edges, weight.WeightedEdge{Src: id, Dst: dst, Weight: w})
	}
	sort.Slice(edges, func(i, j int) bool {
		if edges[i].Weight != edges[j].Weight {
			return edges[i].Weight > edges[j].Weight
		}
		return edges[i].Dst < edges[j].Dst
	})
	return edges
}

// Roots returns the nodes with no incoming edges. A node with neither
// callers nor callees is both a root and a leaf.
func (cg *Graph) Roots() map[jelly.FunctionID]struct{} {
	roots := make(map[jelly.FunctionID]struct{})
	for id, callers := range cg.pred {
		if len(callers) == 0 {
			roots[id] = struct{}{}
		}
	}
	return roots
}

// Leaves returns the nodes with no outgoing edges.
func (cg *Graph) Leaves() map[jelly.FunctionID]struct{} {
	leaves := make(map[jelly.FunctionID]struct{})
	for id, callees := range cg.succ {
		if len(callees) == 0 {
			leaves[id] = struct{}{}
		}
	}
	return leaves
}
