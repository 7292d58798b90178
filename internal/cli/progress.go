package cli

import (
	"fmt"
	"log"
	"time"

	"github.com/schollz/progressbar/v3"
)

// CLIProgressReporter implements weight.ProgressReporter with a
// progress bar over the call2fun edge walk.
type CLIProgressReporter struct {
	quiet bool
	bar   *progressbar.ProgressBar
}

// NewCLIProgressReporter creates a new CLI progress reporter.
func NewCLIProgressReporter(quiet bool) *CLIProgressReporter {
	return &CLIProgressReporter{quiet: quiet}
}

func (c *CLIProgressReporter) OnAggregationStart(totalEdges int) {
	if c.quiet {
		return
	}
	c.bar = progressbar.NewOptions(totalEdges,
		progressbar.OptionSetDescription("Aggregating call edges"),
		progressbar.OptionSetWidth(40),
		progressbar.OptionShowCount(),
		progressbar.OptionShowIts(),
		progressbar.OptionSetItsString("edges/s"),
		progressbar.OptionThrottle(65*time.Millisecond),
		progressbar.OptionShowElapsedTimeOnFinish(),
		progressbar.OptionOnCompletion(func() {
			fmt.Println()
		}),
	)
}

func (c *CLIProgressReporter) OnEdgeProcessed(processed, totalEdges int) {
	if c.quiet || c.bar == nil {
		return
	}
	c.bar.Add(1)
}

func (c *CLIProgressReporter) OnAggregationComplete(pairs, totalCalls int) {
	if c.quiet {
		return
	}
	log.Printf("Aggregated %d calls into %d dependencies\n", totalCalls, pairs)
}
