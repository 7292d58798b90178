package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/hayato-n8810/jelly-graph/internal/analyzer"
	"github.com/hayato-n8810/jelly-graph/internal/jelly"
	"github.com/hayato-n8810/jelly-graph/internal/trace"
	"github.com/hayato-n8810/jelly-graph/internal/weight"
)

var (
	callersFlag bool
	calleesFlag bool
	depthFlag   int
	summaryFlag bool
)

// traceCmd enumerates call paths from a function to the graph's roots
// or leaves.
var traceCmd = &cobra.Command{
	Use:   "trace <function-id>",
	Short: "Enumerate call paths from a function to the graph frontier",
	Long: `Trace enumerates every simple call path from the given function up to
all roots (--callers) or down to all leaves (--callees), accumulating
edge weights along each path.

Examples:
  # All paths from function 42 back to the graph roots
  jellygraph trace 42 --callers --dump jelly.json

  # All paths from function 42 down to the leaves, summary only
  jellygraph trace 42 --callees --summary --dump jelly.json`,
	Args: cobra.ExactArgs(1),
	RunE: runTrace,
}

func init() {
	rootCmd.AddCommand(traceCmd)
	traceCmd.Flags().BoolVar(&callersFlag, "callers", false, "trace toward callers (graph roots)")
	traceCmd.Flags().BoolVar(&calleesFlag, "callees", false, "trace toward callees (graph leaves)")
	traceCmd.Flags().IntVar(&depthFlag, "max-depth", 0, "maximum path length (default from config)")
	traceCmd.Flags().BoolVar(&summaryFlag, "summary", false, "print per-root summaries instead of full paths")
}

func runTrace(cmd *cobra.Command, args []string) error {
	if callersFlag == calleesFlag {
		return fmt.Errorf("exactly one of --callers or --callees must be set")
	}

	id, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("invalid function id %q: %w", args[0], err)
	}
	start := jelly.FunctionID(id)

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	maxDepth := cfg.Trace.MaxDepth
	if depthFlag > 0 {
		maxDepth = depthFlag
	}

	a := analyzer.New(
		analyzer.WithMaxDepth(maxDepth),
		analyzer.WithCacheCapacity(cfg.Cache.Capacity),
	)
	defer a.Close()

	if err := a.Rebuild(cfg.Dump.Path, weight.WithProgress(NewCLIProgressReporter(quietFlag))); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if callersFlag {
		paths, err := a.TraceCallers(start)
		if err != nil {
			return err
		}
		trace.WriteCallerReport(out, start, paths, !summaryFlag)
		return nil
	}

	paths, err := a.TraceCallees(start)
	if err != nil {
		return err
	}
	trace.WriteCalleeReport(out, start, paths, !summaryFlag)
	return nil
}
