// airmerge - batch tooling for the AirNow fire dataset.
// Merges heterogeneous CSV exports into one normalized table and
// produces a small fixture sample from the result.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/airmerge/airmerge/pkg/discover"
	"github.com/airmerge/airmerge/pkg/merge"
)

var (
	version = "0.1.0"
	commit  = "dev"
)

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "airmerge",
	Short: "Merge AirNow CSV exports into one dataset",
	Long: `airmerge prepares the air-quality/fire dataset in two steps:

  merge   recursively merge CSV exports under a root directory into one
          normalized, de-duplicated table (CSV, optionally Parquet)
  sample  build a 100-row fixture from the merged dataset`,
	Version:       fmt.Sprintf("%s (%s)", version, commit),
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.AddCommand(mergeCmd)
	rootCmd.AddCommand(sampleCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitCode(err))
	}
}

// exitCode maps the documented failure conditions to exit statuses:
// 1 root not found, 2 no files matched, 3 no files parsed.
func exitCode(err error) int {
	switch {
	case errors.Is(err, discover.ErrRootNotFound):
		return 1
	case errors.Is(err, discover.ErrNoInputs):
		return 2
	case errors.Is(err, merge.ErrNoReadableInputs):
		return 3
	default:
		return 1
	}
}
