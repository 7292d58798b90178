package cli

import (
	"context"
	"errors"
	"log"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/hayato-n8810/jelly-graph/internal/analyzer"
)

// watchCmd keeps an analysis loaded and rebuilds it whenever the dump
// file changes.
var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Watch the dump file and rebuild the graph on change",
	Long: `Watch loads the dump, then rebuilds the dependency map and call graph
whenever the file changes. Each rebuild swaps the whole snapshot
atomically, so a query running against the previous snapshot is never
disturbed.

Example:
  jellygraph watch --dump jelly.json`,
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	a := analyzer.New(
		analyzer.WithMaxDepth(cfg.Trace.MaxDepth),
		analyzer.WithCacheCapacity(cfg.Cache.Capacity),
	)
	defer a.Close()

	if err := a.Rebuild(cfg.Dump.Path); err != nil {
		return err
	}
	logSnapshot(a)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	log.Printf("Watching %s for changes (Ctrl+C to stop)", cfg.Dump.Path)
	err = a.Watch(ctx, cfg.Dump.Path, func(rebuildErr error) {
		if rebuildErr == nil {
			logSnapshot(a)
		}
	})
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func logSnapshot(a *analyzer.Analyzer) {
	an := a.Current()
	if an == nil {
		return
	}
	log.Printf("Snapshot ready: %d nodes, %d edges, %d total calls",
		an.Graph.Order(), an.Graph.Size(), an.Deps.TotalCalls())
}
