package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hayato-n8810/jelly-graph/internal/analyzer"
	"github.com/hayato-n8810/jelly-graph/internal/jelly"
	"github.com/hayato-n8810/jelly-graph/internal/weight"
)

var (
	topFlag   int
	statsFunc int
)

// statsCmd prints graph-level totals, the heaviest dependencies and,
// when a function id is given, that node's degree figures.
var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show call graph statistics",
	Long: `Stats loads the dump, builds the weighted call graph and prints
node/edge totals plus the heaviest dependencies.

Examples:
  # Overall statistics with the 10 heaviest dependencies
  jellygraph stats --dump jelly.json

  # Statistics for one function
  jellygraph stats --dump jelly.json --func 42`,
	RunE: runStats,
}

func init() {
	rootCmd.AddCommand(statsCmd)
	statsCmd.Flags().IntVar(&topFlag, "top", 10, "number of top dependencies to list")
	statsCmd.Flags().IntVar(&statsFunc, "func", -1, "function id to detail")
}

func runStats(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	snap, err := jelly.Load(cfg.Dump.Path)
	if err != nil {
		return err
	}

	an := analyzer.Build(snap, weight.WithProgress(NewCLIProgressReporter(quietFlag)))

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Files: %d, functions: %d, calls: %d\n",
		len(snap.Files), len(snap.Functions), len(snap.Calls))
	fmt.Fprintf(out, "Graph: %d nodes, %d edges, %d total calls\n",
		an.Graph.Order(), an.Graph.Size(), an.Deps.TotalCalls())
	fmt.Fprintf(out, "Roots: %d, leaves: %d\n", len(an.Graph.Roots()), len(an.Graph.Leaves()))

	if top := an.Deps.Top(topFlag); len(top) > 0 {
		fmt.Fprintf(out, "Top %d dependencies:\n", len(top))
		for _, e := range top {
			fmt.Fprintf(out, "  %d -> %d: %d calls\n", e.Src, e.Dst, e.Weight)
		}
	}

	if statsFunc >= 0 {
		id := jelly.FunctionID(statsFunc)
		if !an.Graph.Has(id) {
			return fmt.Errorf("function %d is not in the call graph", statsFunc)
		}
		fmt.Fprintf(out, "Function %d:\n", id)
		fmt.Fprintf(out, "  in-degree %d (weighted %d), out-degree %d (weighted %d)\n",
			an.Graph.InDegree(id), an.Graph.WeightedInDegree(id),
			an.Graph.OutDegree(id), an.Graph.WeightedOutDegree(id))
		if m, ok := an.Meta[id]; ok {
			fmt.Fprintf(out, "  %s:%d-%d (%d lines)\n", m.File, m.Loc.StartRow, m.Loc.EndRow, m.Lines)
		}
		for _, e := range an.Graph.TopEdgesFrom(id) {
			fmt.Fprintf(out, "  calls %d: %d times\n", e.Dst, e.Weight)
		}
	}

	return nil
}
