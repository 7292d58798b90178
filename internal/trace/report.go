package trace

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/hayato-n8810/jelly-graph/internal/jelly"
)

// WriteCallerReport formats caller-ward trace results grouped by root.
// Paths are printed root-first so the output reads as "who ultimately
// reaches the start". When showPaths is false only per-root and overall
// summaries are printed.
func WriteCallerReport(w io.Writer, start jelly.FunctionID, paths []CallerPath, showPaths bool) {
	fmt.Fprintf(w, "Caller trace for function %d\n", start)

	if len(paths) == 0 {
		fmt.Fprintln(w, "  no path to any root (cyclic or unreachable region)")
		return
	}

	byRoot := make(map[jelly.FunctionID][]CallerPath)
	for _, p := range paths {
		byRoot[p.Root] = append(byRoot[p.Root], p)
	}

	roots := make([]jelly.FunctionID, 0, len(byRoot))
	for root := range byRoot {
		roots = append(roots, root)
	}
	sort.Slice(roots, func(i, j int) bool { return roots[i] < roots[j] })

	fmt.Fprintf(w, "  paths found: %d, reachable roots: %d\n", len(paths), len(roots))

	for _, root := range roots {
		group := byRoot[root]
		fmt.Fprintf(w, "  root %d (%d paths)\n", root, len(group))
		if showPaths {
			for i, p := range group {
				fmt.Fprintf(w, "    [%d] %s (weight %d, length %d)\n",
					i+1, formatPath(reversed(p.Path)), p.TotalWeight, len(p.Path))
			}
		} else {
			weights, lengths := pathStats(group, func(p CallerPath) (int, int) { return p.TotalWeight, len(p.Path) })
			fmt.Fprintf(w, "    weight %d-%d, length %d-%d\n",
				weights.min, weights.max, lengths.min, lengths.max)
		}
	}

	writeOverall(w, len(paths), collect(paths, func(p CallerPath) (int, int) { return p.TotalWeight, len(p.Path) }))
}

// WriteCalleeReport formats callee-ward trace results start-first.
func WriteCalleeReport(w io.Writer, start jelly.FunctionID, paths []CalleePath, showPaths bool) {
	fmt.Fprintf(w, "Callee trace for function %d\n", start)

	if len(paths) == 0 {
		fmt.Fprintln(w, "  no path to any leaf (cyclic or unreachable region)")
		return
	}

	fmt.Fprintf(w, "  paths found: %d\n", len(paths))

	if showPaths {
		for i, p := range paths {
			fmt.Fprintf(w, "  [%d] %s (weight %d, length %d)\n",
				i+1, formatPath(p.Path), p.TotalWeight, len(p.Path))
		}
	}

	writeOverall(w, len(paths), collect(paths, func(p CalleePath) (int, int) { return p.TotalWeight, len(p.Path) }))
}

type minMax struct {
	min, max, sum int
}

func (m minMax) avg(n int) float64 {
	if n == 0 {
		return 0
	}
	return float64(m.sum) / float64(n)
}

type stats struct {
	weights minMax
	lengths minMax
}

func collect[P any](paths []P, get func(P) (int, int)) stats {
	var s stats
	for i, p := range paths {
		w, l := get(p)
		if i == 0 {
			s.weights = minMax{min: w, max: w}
			s.lengths = minMax{min: l, max: l}
		}
		if w < s.weights.min {
			s.weights.min = w
		}
		if w > s.weights.max {
			s.weights.max = w
		}
		if l < s.lengths.min {
			s.lengths.min = l
		}
		if l > s.lengths.max {
			s.lengths.max = l
		}
		s.weights.sum += w
		s.lengths.sum += l
	}
	return s
}

func pathStats[P any](paths []P, get func(P) (int, int)) (minMax, minMax) {
	s := collect(paths, get)
	return s.weights, s.lengths
}

func writeOverall(w io.Writer, n int, s stats) {
	fmt.Fprintf(w, "  weight min %d max %d avg %.2f\n", s.weights.min, s.weights.max, s.weights.avg(n))
	fmt.Fprintf(w, "  length min %d max %d avg %.2f\n", s.lengths.min, s.lengths.max, s.lengths.avg(n))
}

func formatPath(path []jelly.FunctionID) string {
	parts := make([]string, len(path))
	for i, id := range path {
		parts[i] = fmt.Sprintf("%d", id)
	}
	return strings.Join(parts, " -> ")
}

func reversed(path []jelly.FunctionID) []jelly.FunctionID {
	out := make([]jelly.FunctionID, len(path))
	for i, id := range path {
		out[len(path)-1-i] = id
	}
	return out
}
