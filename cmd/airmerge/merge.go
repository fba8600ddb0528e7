package main

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/airmerge/airmerge/internal/pipe"
	"github.com/airmerge/airmerge/pkg/profile"
	"github.com/airmerge/airmerge/pkg/schema"
	"github.com/airmerge/airmerge/pkg/tui"
)

var (
	mergePattern      string
	mergeSchema       string
	mergeAssumeHeader string
	mergeSentinel     string
	mergeChunkSize    int
	mergeDedupeKeys   []string
	mergeSortBy       []string
	mergeOutCSV       string
	mergeOutParquet   string
	mergeCompression  string
	mergeProfile      string
	mergeNoProgress   bool
)

var mergeCmd = &cobra.Command{
	Use:   "merge <root-dir>",
	Short: "Recursively merge CSV exports into one dataset",
	Long: `Recursively merge CSV files under a root directory into a single
normalized table.

Each file is parsed with the selected schema (fixed AirNow columns or
inferred), normalized (UTC timestamps, numeric coercion, sentinel
substitution, provenance columns), then everything is concatenated and
de-duplicated: first on full rows, then softly on the configured keys
after sorting. Files that fail to parse are skipped with a warning.

Examples:
  airmerge merge Data/2020-fire
  airmerge merge Data/2020-fire --schema infer --assume-header true
  airmerge merge Data/2020-fire --sentinel NaN --chunksize 100000
  airmerge merge Data/2020-fire --out-parquet Data/2020-fire/merged.parquet`,
	Args: cobra.ExactArgs(1),
	RunE: runMerge,
}

func init() {
	f := mergeCmd.Flags()
	f.StringVar(&mergePattern, "pattern", "*.csv", "Glob for input files")
	f.StringVar(&mergeSchema, "schema", "airnow", "Schema mode (airnow, infer)")
	f.StringVar(&mergeAssumeHeader, "assume-header", "auto", "Treat files as having a header row (true, false, auto)")
	f.StringVar(&mergeSentinel, "sentinel", "-999", "Numeric sentinel treated as missing; NaN disables")
	f.IntVar(&mergeChunkSize, "chunksize", 0, "Read files in chunks of N rows (0 = unbounded)")
	f.StringSliceVar(&mergeDedupeKeys, "dedupe-keys",
		[]string{"UTC", "Latitude", "Longitude", "Parameter", "AQS ID"},
		"Key columns for soft de-duplication (missing columns ignored)")
	f.StringSliceVar(&mergeSortBy, "sort-by",
		[]string{"UTC", "Site Name", "Parameter"},
		"Sort columns applied before soft de-duplication")
	f.StringVar(&mergeOutCSV, "out-csv", "", "Output CSV path (default <root>/merged.csv)")
	f.StringVar(&mergeOutParquet, "out-parquet", "", "Optional Parquet output path")
	f.StringVar(&mergeCompression, "compression", "snappy", "Parquet compression (none, snappy, gzip, zstd, lz4, brotli)")
	f.StringVar(&mergeProfile, "profile", "", "YAML profile supplying flag defaults")
	f.BoolVar(&mergeNoProgress, "no-progress", false, "Disable the progress bar")
}

func runMerge(cmd *cobra.Command, args []string) error {
	if mergeProfile != "" {
		if err := applyProfile(cmd, mergeProfile); err != nil {
			return err
		}
	}

	mode, err := schema.ParseMode(mergeSchema)
	if err != nil {
		return err
	}
	hint, err := schema.ParseHeaderHint(mergeAssumeHeader)
	if err != nil {
		return err
	}
	sentinel, err := parseSentinel(mergeSentinel)
	if err != nil {
		return err
	}
	if mergeChunkSize < 0 {
		return fmt.Errorf("invalid --chunksize %d: must be positive", mergeChunkSize)
	}

	log := newLogger()

	cfg := pipe.DefaultConfig(args[0])
	cfg.Pattern = mergePattern
	cfg.Mode = mode
	cfg.Header = hint
	cfg.Sentinel = sentinel
	cfg.ChunkSize = mergeChunkSize
	cfg.DedupeKeys = mergeDedupeKeys
	cfg.SortBy = mergeSortBy
	cfg.OutCSV = mergeOutCSV
	cfg.OutParquet = mergeOutParquet
	cfg.Compression = mergeCompression

	var bar *progressbar.ProgressBar
	cfg.OnStart = func(n int) {
		log.Debug("discovered input files", "count", n)
		if !mergeNoProgress {
			bar = tui.ShowProgress(n, "merging")
		}
	}
	cfg.OnFile = func(path string) {
		log.Debug("processed file", "path", path)
		if bar != nil {
			bar.Add(1)
		}
	}
	cfg.Warn = func(path string, err error) {
		tui.SkipFile(path, err)
	}

	result, err := pipe.Run(cfg)
	if bar != nil {
		bar.Finish()
	}
	if err != nil {
		return err
	}

	tui.Successf("Wrote CSV: %s", result.CSVPath)
	if result.ParquetPath != "" {
		if result.ParquetErr != nil {
			tui.Warnf("could not write Parquet %s: %v", result.ParquetPath, result.ParquetErr)
		} else {
			tui.Successf("Wrote Parquet: %s", result.ParquetPath)
		}
	}
	if skipped := result.FilesFound - result.FilesParsed; skipped > 0 {
		tui.Infof("%d of %d files skipped", skipped, result.FilesFound)
	}

	tui.PrintSummary(tui.Summary{
		Rows:        result.Summary.Rows,
		Columns:     result.Summary.Columns,
		HasUTCRange: result.Summary.HasUTCRange,
		UTCMin:      result.Summary.UTCMin,
		UTCMax:      result.Summary.UTCMax,
	})
	return nil
}

// applyProfile fills flag values from a YAML profile. Flags given
// explicitly on the command line win over the profile.
func applyProfile(cmd *cobra.Command, path string) error {
	p, err := profile.Load(path)
	if err != nil {
		return err
	}

	changed := cmd.Flags().Changed
	if p.Pattern != "" && !changed("pattern") {
		mergePattern = p.Pattern
	}
	if p.Schema != "" && !changed("schema") {
		mergeSchema = p.Schema
	}
	if p.AssumeHeader != "" && !changed("assume-header") {
		mergeAssumeHeader = p.AssumeHeader
	}
	if p.Sentinel != "" && !changed("sentinel") {
		mergeSentinel = p.Sentinel
	}
	if p.ChunkSize != 0 && !changed("chunksize") {
		mergeChunkSize = p.ChunkSize
	}
	if len(p.DedupeKeys) > 0 && !changed("dedupe-keys") {
		mergeDedupeKeys = p.DedupeKeys
	}
	if len(p.SortBy) > 0 && !changed("sort-by") {
		mergeSortBy = p.SortBy
	}
	if p.OutCSV != "" && !changed("out-csv") {
		mergeOutCSV = p.OutCSV
	}
	if p.OutParquet != "" && !changed("out-parquet") {
		mergeOutParquet = p.OutParquet
	}
	if p.Compression != "" && !changed("compression") {
		mergeCompression = p.Compression
	}
	return nil
}

// parseSentinel accepts a float or the literal NaN (case-insensitive)
// to disable sentinel substitution.
func parseSentinel(s string) (*float64, error) {
	if strings.EqualFold(s, "nan") {
		return nil, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid --sentinel %q: %w", s, err)
	}
	return &f, nil
}

// newLogger returns a stderr logger; debug level when --verbose is set.
func newLogger() *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}
