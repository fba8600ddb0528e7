package main

import (
	"github.com/spf13/cobra"

	"github.com/airmerge/airmerge/pkg/sample"
	"github.com/airmerge/airmerge/pkg/tui"
)

var sampleCmd = &cobra.Command{
	Use:   "sample",
	Short: "Build the 100-row fixture from the merged dataset",
	Long: `Load Data/2020-fire/merged.csv, drop duplicate rows, and write a
deterministic 100-row sample to Data/2020-fire/unique_2020_fire_data.csv.

Paths are fixed relative to the working directory; run this from the
repository root after "airmerge merge".`,
	Args: cobra.NoArgs,
	RunE: runSample,
}

func runSample(cmd *cobra.Command, args []string) error {
	result, err := sample.Run(".")
	if err != nil {
		return err
	}
	tui.Successf("Saved %d unique rows to %s", result.Rows, result.OutputPath)
	return nil
}
