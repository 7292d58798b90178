package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/hayato-n8810/jelly-graph/internal/config"
)

var (
	cfgFile   string
	dumpFlag  string
	quietFlag bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "jellygraph",
	Short: "Weighted call graph analysis over call relation dumps",
	Long: `jellygraph ingests a whole-program call relation dump, derives a
weighted per-function call graph, and answers attribution, dependency
and call path queries against it.`,
}

// Execute adds all child commands to the root command and sets flags
// appropriately. Called once from main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./jellygraph.yml)")
	rootCmd.PersistentFlags().StringVar(&dumpFlag, "dump", "", "path to the call relation dump JSON")
	rootCmd.PersistentFlags().BoolVarP(&quietFlag, "quiet", "q", false, "disable progress bars and non-error output")
}

// loadConfig resolves the effective configuration, with the --dump flag
// overriding the configured dump path.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, err
	}
	if dumpFlag != "" {
		cfg.Dump.Path = dumpFlag
	}
	if cfg.Dump.Path == "" {
		return nil, fmt.Errorf("no dump file given (use --dump or set dump.path in the config)")
	}
	return cfg, nil
}
