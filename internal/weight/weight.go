package weight

import (
	"sort"

	"github.com/hayato-n8810/jelly-graph/internal/jelly"
)

// Pair is a (caller, callee) dependency key.
type Pair struct {
	Src jelly.FunctionID
	Dst jelly.FunctionID
}

// DependencyMap aggregates call counts between function pairs. Stored
// counts are always >= 1; a missing pair means no observed calls. Built
// once per snapshot and treated as immutable afterward.
type DependencyMap map[Pair]int

// WeightedEdge is one dependency with its aggregated call count.
type WeightedEdge struct {
	Src    jelly.FunctionID
	Dst    jelly.FunctionID
	Weight int
}

// ProgressReporter reports aggregation progress. The CLI attaches a
// progress bar; library callers usually leave it nil.
type ProgressReporter interface {
	OnAggregationStart(totalEdges int)
	OnEdgeProcessed(processed, totalEdges int)
	OnAggregationComplete(pairs, totalCalls int)
}

// Option configures Aggregate.
type Option func(*aggregator)

// WithProgress configures progress reporting during aggregation.
func WithProgress(progress ProgressReporter) Option {
	return func(a *aggregator) {
		a.progress = progress
	}
}

type aggregator struct {
	progress ProgressReporter
}

// Aggregate walks every call2fun edge, attributes the call site to its
// owning function, and accumulates per-(src, dst) call counts. Edges
// whose call id has no recorded range and calls that no function
// contains are skipped; both are expected in real dumps (truncated
// records, top-level code) and are not errors. Self-loops are kept.
// The result does not depend on edge order.
func Aggregate(snap *jelly.Snapshot, opts ...Option) DependencyMap {
	var a aggregator
	for _, opt := range opts {
		opt(&a)
	}

	total := len(snap.Call2Fun)
	if a.progress != nil {
		a.progress.OnAggregationStart(total)
	}

	deps := make(DependencyMap)
	for i, edge := range snap.Call2Fun {
		if a.progress != nil {
			a.progress.OnEdgeProcessed(i+1, total)
		}

		callLoc, ok := snap.Calls[edge.Call]
		if !ok {
			continue
		}

		src, ok := Attribute(callLoc, snap.Functions)
		if !ok {
			continue
		}

		deps[Pair{Src: src, Dst: edge.Target}]++
	}

	if a.progress != nil {
		a.progress.OnAggregationComplete(len(deps), deps.TotalCalls())
	}
	return deps
}

// Count returns the call count for a dependency, zero when absent.
func (dm DependencyMap) Count(src, dst jelly.FunctionID) int {
	return dm[Pair{Src: src, Dst: dst}]
}

// TotalCalls returns the sum of all aggregated call counts.
func (dm DependencyMap) TotalCalls() int {
	total := 0
	for _, count := range dm {
		total += count
	}
	return total
}

// Callees returns the functions src calls with their counts.
func (dm DependencyMap) Callees(src jelly.FunctionID) map[jelly.FunctionID]int {
	out := make(map[jelly.FunctionID]int)
	for pair, count := range dm {
		if pair.Src == src {
			out[pair.Dst] = count
		}
	}
	return out
}

// Callers returns the functions calling dst with their counts.
func (dm DependencyMap) Callers(dst jelly.FunctionID) map[jelly.FunctionID]int {
	out := make(map[jelly.FunctionID]int)
	for pair, count := range dm {
		if pair.Dst == dst {
			out[pair.Src] = count
		}
	}
	return out
}

// Top returns the n heaviest dependencies in descending weight order.
// Ties are ordered by (src, dst) id so the result is stable.
func (dm DependencyMap) Top(n int) []WeightedEdge {
	edges := make([]WeightedEdge, 0, len(dm))
	for pair, count := range dm {
		edges = append(edges, WeightedEdge{Src: pair.Src, Dst: pair.Dst, Weight: count})
	}

	sort.Slice(edges, func(i, j int) bool {
		if edges[i].Weight != edges[j].Weight {
			return edges[i].Weight > edges[j].Weight
		}
		if edges[i].Src != edges[j].Src {
			return edges[i].Src < edges[j].Src
		}
		return edges[i].Dst < edges[j].Dst
	})

	if n >= 0 && n < len(edges) {
		edges = edges[:n]
	}
	return edges
}
