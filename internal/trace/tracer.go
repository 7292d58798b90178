// Package trace enumerates all simple call paths from a function to the
// call graph's root or leaf frontier, with per-path weight accumulation
// and cycle suppression.
package trace

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/hayato-n8810/jelly-graph/internal/callgraph"
	"github.com/hayato-n8810/jelly-graph/internal/jelly"
)

// ErrFunctionNotFound is returned when the queried function id is not a
// node of the call graph.
var ErrFunctionNotFound = errors.New("function not found in call graph")

// DefaultMaxDepth caps path length when no explicit limit is set.
const DefaultMaxDepth = 100

// CallerPath is one complete path from the start function up to a root.
type CallerPath struct {
	// Path is ordered from the start function outward to the root.
	Path []jelly.FunctionID
	// TotalWeight is the sum of edge weights along the path.
	TotalWeight int
	// Root is the terminal node, which has no incoming edges.
	Root jelly.FunctionID
	// Parents maps every path function except the start to its source
	// range. The trivial start-is-root path maps the start itself.
	Parents map[jelly.FunctionID]jelly.Location
}

// CalleePath is one complete path from the start function down to a leaf.
type CalleePath struct {
	// Path is ordered from the start function to the leaf.
	Path []jelly.FunctionID
	// TotalWeight is the sum of edge weights along the path.
	TotalWeight int
	// Children maps every path function except the start to its source
	// range. The trivial start-is-leaf path maps the start itself.
	Children map[jelly.FunctionID]jelly.Location
}

// Tracer runs path queries against an immutable graph snapshot. It
// holds no mutable state, so one Tracer serves concurrent queries.
type Tracer struct {
	graph     *callgraph.Graph
	functions map[jelly.FunctionID]jelly.Location
	maxDepth  int
}

// Option configures a Tracer.
type Option func(*Tracer)

// WithMaxDepth bounds the number of nodes a single path may contain.
// Branches growing past the limit are abandoned without error, which
// truncates exploration of dense cyclic regions instead of failing the
// whole query.
func WithMaxDepth(n int) Option {
	return func(t *Tracer) {
		if n > 0 {
			t.maxDepth = n
		}
	}
}

// New creates a Tracer over a built call graph. The snapshot supplies
// the location metadata attached to path nodes; it may be nil when no
// metadata is wanted.
func New(g *callgraph.Graph, snap *jelly.Snapshot, opts ...Option) *Tracer {
	t := &Tracer{
		graph:    g,
		maxDepth: DefaultMaxDepth,
	}
	if snap != nil {
		t.functions = snap.Functions
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// TraceCallers enumerates every simple path from start to every root
// reachable against the edge direction. Fails with ErrFunctionNotFound
// when start is not in the graph; returns the single trivial path when
// start is itself a root.
func (t *Tracer) TraceCallers(start jelly.FunctionID) ([]CallerPath, error) {
	if !t.graph.Has(start) {
		return nil, fmt.Errorf("function %d: %w", start, ErrFunctionNotFound)
	}

	frontier := t.graph.Roots()
	if _, isRoot := frontier[start]; isRoot {
		return []CallerPath{{
			Path:        []jelly.FunctionID{start},
			TotalWeight: 0,
			Root:        start,
			Parents:     t.startOnly(start),
		}}, nil
	}

	results := t.explore(start, frontier, t.graph.Predecessors)

	paths := make([]CallerPath, len(results))
	for i, r := range results {
		paths[i] = CallerPath{
			Path:        r.path,
			TotalWeight: r.weight,
			Root:        r.terminal,
			Parents:     r.locs,
		}
	}
	return paths, nil
}

// TraceCallees enumerates every simple path from start to every leaf
// reachable along the edge direction. Fails with ErrFunctionNotFound
// when start is not in the graph; returns the single trivial path when
// start is itself a leaf.
func (t *Tracer) TraceCallees(start jelly.FunctionID) ([]CalleePath, error) {
	if !t.graph.Has(start) {
		return nil, fmt.Errorf("function %d: %w", start, ErrFunctionNotFound)
	}

	frontier := t.graph.Leaves()
	if _, isLeaf := frontier[start]; isLeaf {
		return []CalleePath{{
			Path:        []jelly.FunctionID{start},
			TotalWeight: 0,
			Children:    t.startOnly(start),
		}}, nil
	}

	results := t.explore(start, frontier, t.graph.Successors)

	paths := make([]CalleePath, len(results))
	for i, r := range results {
		paths[i] = CalleePath{
			Path:        r.path,
			TotalWeight: r.weight,
			Children:    r.locs,
		}
	}
	return paths, nil
}

type pathResult struct {
	path     []jelly.FunctionID
	weight   int
	terminal jelly.FunctionID
	locs     map[jelly.FunctionID]jelly.Location
}

// frame is one pending branch of the exploration. Each frame owns its
// path, visited set and location map, so sibling branches never observe
// each other's additions.
type frame struct {
	node    jelly.FunctionID
	path    []jelly.FunctionID
	weight  int
	visited map[jelly.FunctionID]struct{}
	locs    map[jelly.FunctionID]jelly.Location
}

// explore runs an exhaustive depth-first search over an explicit stack.
// The visited set is per path, not global: a node may appear in many
// emitted paths but never twice in one. Identical node sequences are
// emitted at most once even when reachable through different branches.
func (t *Tracer) explore(
	start jelly.FunctionID,
	frontier map[jelly.FunctionID]struct{},
	neighbors func(jelly.FunctionID) map[jelly.FunctionID]int,
) []pathResult {
	var results []pathResult
	emitted := make(map[string]struct{})

	stack := []frame{{
		node:    start,
		path:    []jelly.FunctionID{start},
		visited: map[jelly.FunctionID]struct{}{start: {}},
		locs:    make(map[jelly.FunctionID]jelly.Location),
	}}

	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		// Branch abandoned, not an error: the rest of the query still
		// reports whatever paths fit within the limit.
		if len(f.path) > t.maxDepth {
			continue
		}

		if _, done := frontier[f.node]; done {
			key := pathKey(f.path)
			if _, dup := emitted[key]; !dup {
				emitted[key] = struct{}{}
				results = append(results, pathResult{
					path:     f.path,
					weight:   f.weight,
					terminal: f.node,
					locs:     f.locs,
				})
			}
			continue
		}

		for next, w := range neighbors(f.node) {
			if _, seen := f.visited[next]; seen {
				continue
			}
			if w == 0 {
				w = 1
			}

			nf := frame{
				node:    next,
				path:    appendPath(f.path, next),
				weight:  f.weight + w,
				visited: cloneVisited(f.visited, next),
				locs:    cloneLocs(f.locs),
			}
			if loc, ok := t.functions[next]; ok {
				nf.locs[next] = loc
			}
			stack = append(stack, nf)
		}
	}

	return results
}

func (t *Tracer) startOnly(start jelly.FunctionID) map[jelly.FunctionID]jelly.Location {
	locs := make(map[jelly.FunctionID]jelly.Location, 1)
	if loc, ok := t.functions[start]; ok {
		locs[start] = loc
	}
	return locs
}

func appendPath(path []jelly.FunctionID, next jelly.FunctionID) []jelly.FunctionID {
	out := make([]jelly.FunctionID, len(path)+1)
	copy(out, path)
	out[len(path)] = next
	return out
}

func cloneVisited(visited map[jelly.FunctionID]struct{}, next jelly.FunctionID) map[jelly.FunctionID]struct{} {
	out := make(map[jelly.FunctionID]struct{}, len(visited)+1)
	for id := range visited {
		out[id] = struct{}{}
	}
	out[next] = struct{}{}
	return out
}

func cloneLocs(locs map[jelly.FunctionID]jelly.Location) map[jelly.FunctionID]jelly.Location {
	out := make(map[jelly.FunctionID]jelly.Location, len(locs)+1)
	for id, loc := range locs {
		out[id] = loc
	}
	return out
}

func pathKey(path []jelly.FunctionID) string {
	var b strings.Builder
	for i, id := range path {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(strconv.Itoa(int(id)))
	}
	return b.String()
}
