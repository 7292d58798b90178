// Package analyzer owns the analysis snapshot lifecycle: loading a
// dump, deriving the dependency map and call graph, swapping the whole
// snapshot atomically on rebuild, and serving cached queries against it.
package analyzer

import (
	"fmt"
	"sync/atomic"

	"github.com/maypok86/otter"

	"github.com/hayato-n8810/jelly-graph/internal/callgraph"
	"github.com/hayato-n8810/jelly-graph/internal/jelly"
	"github.com/hayato-n8810/jelly-graph/internal/match"
	"github.com/hayato-n8810/jelly-graph/internal/trace"
	"github.com/hayato-n8810/jelly-graph/internal/weight"
)

// Analysis is one immutable unit of derived state. Everything in it is
// rebuilt together from the snapshot; nothing is ever mutated in place
// while readers may hold it.
type Analysis struct {
	Snap  *jelly.Snapshot
	Deps  weight.DependencyMap
	Graph *callgraph.Graph
	Meta  callgraph.MetaTable
}

// Build derives the full analysis from a loaded snapshot.
func Build(snap *jelly.Snapshot, opts ...weight.Option) *Analysis {
	deps := weight.Aggregate(snap, opts...)
	g := callgraph.New(deps)
	return &Analysis{
		Snap:  snap,
		Deps:  deps,
		Graph: g,
		Meta:  callgraph.BuildMeta(g, snap),
	}
}

// queryState bundles an analysis with its tracer and result caches so
// all of them swap in one pointer store.
type queryState struct {
	analysis    *Analysis
	tracer      *trace.Tracer
	callerCache otter.Cache[jelly.FunctionID, []trace.CallerPath]
	calleeCache otter.Cache[jelly.FunctionID, []trace.CalleePath]
}

// Analyzer serves queries over the current analysis snapshot. Queries
// are lock-free reads of an atomically swapped snapshot, so concurrent
// callers are safe by construction.
type Analyzer struct {
	maxDepth  int
	cacheSize int
	basePath  string
	current   atomic.Pointer[queryState]
}

// Option configures an Analyzer.
type Option func(*Analyzer)

// WithMaxDepth bounds trace path length.
func WithMaxDepth(n int) Option {
	return func(a *Analyzer) {
		if n > 0 {
			a.maxDepth = n
		}
	}
}

// WithCacheCapacity sets the per-direction trace cache capacity.
func WithCacheCapacity(n int) Option {
	return func(a *Analyzer) {
		if n > 0 {
			a.cacheSize = n
		}
	}
}

// WithMatchBasePath sets the base path used to normalize external
// record paths.
func WithMatchBasePath(path string) Option {
	return func(a *Analyzer) {
		a.basePath = path
	}
}

// New creates an Analyzer with no snapshot loaded. Rebuild or Swap must
// run before queries.
func New(opts ...Option) *Analyzer {
	a := &Analyzer{
		maxDepth:  trace.DefaultMaxDepth,
		cacheSize: 256,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// ErrNoSnapshot is reported when a query runs before any dump was
// loaded.
var ErrNoSnapshot = fmt.Errorf("no snapshot loaded")

// Rebuild loads the dump at path and swaps in a freshly derived
// analysis. Readers of the previous snapshot are unaffected.
func (a *Analyzer) Rebuild(path string, opts ...weight.Option) error {
	snap, err := jelly.Load(path)
	if err != nil {
		return fmt.Errorf("rebuild: %w", err)
	}
	return a.Swap(Build(snap, opts...))
}

// Swap installs a pre-built analysis, replacing the trace caches along
// with it.
func (a *Analyzer) Swap(an *Analysis) error {
	callerCache, err := otter.MustBuilder[jelly.FunctionID, []trace.CallerPath](a.cacheSize).Build()
	if err != nil {
		return fmt.Errorf("failed to build caller cache: %w", err)
	}
	calleeCache, err := otter.MustBuilder[jelly.FunctionID, []trace.CalleePath](a.cacheSize).Build()
	if err != nil {
		return fmt.Errorf("failed to build callee cache: %w", err)
	}

	next := &queryState{
		analysis:    an,
		tracer:      trace.New(an.Graph, an.Snap, trace.WithMaxDepth(a.maxDepth)),
		callerCache: callerCache,
		calleeCache: calleeCache,
	}

	prev := a.current.Swap(next)
	if prev != nil {
		prev.callerCache.Close()
		prev.calleeCache.Close()
	}
	return nil
}

// Current returns the analysis queries would run against, nil before
// the first rebuild.
func (a *Analyzer) Current() *Analysis {
	state := a.current.Load()
	if state == nil {
		return nil
	}
	return state.analysis
}

// TraceCallers returns all simple paths from start to every reachable
// root, serving repeated queries from the cache.
func (a *Analyzer) TraceCallers(start jelly.FunctionID) ([]trace.CallerPath, error) {
	state := a.current.Load()
	if state == nil {
		return nil, ErrNoSnapshot
	}

	if paths, ok := state.callerCache.Get(start); ok {
		return paths, nil
	}

	paths, err := state.tracer.TraceCallers(start)
	if err != nil {
		return nil, err
	}
	state.callerCache.Set(start, paths)
	return paths, nil
}

// TraceCallees returns all simple paths from start to every reachable
// leaf, serving repeated queries from the cache.
func (a *Analyzer) TraceCallees(start jelly.FunctionID) ([]trace.CalleePath, error) {
	state := a.current.Load()
	if state == nil {
		return nil, ErrNoSnapshot
	}

	if paths, ok := state.calleeCache.Get(start); ok {
		return paths, nil
	}

	paths, err := state.tracer.TraceCallees(start)
	if err != nil {
		return nil, err
	}
	state.calleeCache.Set(start, paths)
	return paths, nil
}

// MatchRecords matches external records against the current snapshot.
func (a *Analyzer) MatchRecords(records []match.Record) ([]match.Match, error) {
	state := a.current.Load()
	if state == nil {
		return nil, ErrNoSnapshot
	}
	return match.Records(state.analysis.Snap, records, a.basePath), nil
}

// Close releases cache resources.
func (a *Analyzer) Close() {
	state := a.current.Swap(nil)
	if state != nil {
		state.callerCache.Close()
		state.calleeCache.Close()
	}
}
