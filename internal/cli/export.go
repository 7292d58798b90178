package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/hayato-n8810/jelly-graph/internal/analyzer"
	"github.com/hayato-n8810/jelly-graph/internal/callgraph"
	"github.com/hayato-n8810/jelly-graph/internal/jelly"
	"github.com/hayato-n8810/jelly-graph/internal/storage"
	"github.com/hayato-n8810/jelly-graph/internal/weight"
)

var (
	dotOut    string
	sqliteOut string
	fileGlob  string
)

// exportCmd renders the built graph to DOT and/or persists the
// snapshot to SQLite.
var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the call graph to DOT or SQLite",
	Long: `Export builds the weighted call graph and writes it out for other
tools: Graphviz DOT for rendering, SQLite for SQL queries.

Examples:
  jellygraph export --dump jelly.json --dot graph.dot
  jellygraph export --dump jelly.json --sqlite snapshot.db
  jellygraph export --dump jelly.json --dot app.dot --filter 'src/app/**'`,
	RunE: runExport,
}

func init() {
	rootCmd.AddCommand(exportCmd)
	exportCmd.Flags().StringVar(&dotOut, "dot", "", "write Graphviz DOT to this file")
	exportCmd.Flags().StringVar(&sqliteOut, "sqlite", "", "write a SQLite snapshot database to this file")
	exportCmd.Flags().StringVar(&fileGlob, "filter", "", "restrict the DOT export to functions whose file matches this glob")
}

func runExport(cmd *cobra.Command, args []string) error {
	if dotOut == "" && sqliteOut == "" {
		return fmt.Errorf("nothing to export: set --dot and/or --sqlite")
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	snap, err := jelly.Load(cfg.Dump.Path)
	if err != nil {
		return err
	}

	an := analyzer.Build(snap, weight.WithProgress(NewCLIProgressReporter(quietFlag)))

	if dotOut != "" {
		g := an.Graph
		if fileGlob != "" {
			g, err = callgraph.FilterByFile(an.Graph, an.Meta, fileGlob)
			if err != nil {
				return err
			}
		}

		f, err := os.Create(dotOut)
		if err != nil {
			return fmt.Errorf("failed to create DOT file: %w", err)
		}
		if err := callgraph.WriteDOT(g, an.Meta, f); err != nil {
			f.Close()
			return err
		}
		if err := f.Close(); err != nil {
			return fmt.Errorf("failed to close DOT file: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s (%d nodes, %d edges)\n", dotOut, g.Order(), g.Size())
	}

	if sqliteOut != "" {
		writer, err := storage.NewWriter(sqliteOut)
		if err != nil {
			return err
		}
		defer writer.Close()

		if err := writer.Save(snap, an.Deps, cfg.Dump.Path); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s (%d dependencies)\n", sqliteOut, len(an.Deps))
	}

	return nil
}
