package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hayato-n8810/jelly-graph/internal/jelly"
	"github.com/hayato-n8810/jelly-graph/internal/match"
)

var basePathFlag string

// matchCmd maps externally produced function records onto dump
// function ids.
var matchCmd = &cobra.Command{
	Use:   "match <codeql-csv>",
	Short: "Match CodeQL function records against the dump",
	Long: `Match reads function records (file path, start row, end row) from a
CodeQL result CSV and pairs each with the dump function whose file and
line range are exactly equal.

Examples:
  jellygraph match functions.csv --dump jelly.json
  jellygraph match functions.csv --dump jelly.json --base-path /src/project`,
	Args: cobra.ExactArgs(1),
	RunE: runMatch,
}

func init() {
	rootCmd.AddCommand(matchCmd)
	matchCmd.Flags().StringVar(&basePathFlag, "base-path", "", "base directory for record paths (overrides config)")
}

func runMatch(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	basePath := cfg.Match.BasePath
	if basePathFlag != "" {
		basePath = basePathFlag
	}

	records, err := match.LoadCodeQL(args[0])
	if err != nil {
		return err
	}

	snap, err := jelly.Load(cfg.Dump.Path)
	if err != nil {
		return err
	}

	matches := match.Records(snap, records, basePath)

	out := cmd.OutOrStdout()
	matched := 0
	for _, m := range matches {
		if m.OK {
			matched++
			fmt.Fprintf(out, "%s:%d-%d -> function %d\n", m.Record.File, m.Record.StartRow, m.Record.EndRow, m.Func)
		} else {
			fmt.Fprintf(out, "%s:%d-%d -> no match\n", m.Record.File, m.Record.StartRow, m.Record.EndRow)
		}
	}
	fmt.Fprintf(out, "Matched %d of %d records\n", matched, len(matches))

	return nil
}
