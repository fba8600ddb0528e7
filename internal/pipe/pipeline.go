// Package pipe wires the merge pipeline end to end: discovery, per-file
// parse and normalization, aggregation, and output. The run is a single
// synchronous pass; per-file failures are isolated and reported through
// the Warn hook without aborting the batch.
package pipe

import (
	"fmt"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/airmerge/airmerge/pkg/discover"
	"github.com/airmerge/airmerge/pkg/merge"
	"github.com/airmerge/airmerge/pkg/normalize"
	"github.com/airmerge/airmerge/pkg/output"
	"github.com/airmerge/airmerge/pkg/reader"
	"github.com/airmerge/airmerge/pkg/schema"
	"github.com/airmerge/airmerge/pkg/table"
)

// timestampColumn is the column parsed as a timestamp and summarized as
// a date range.
const timestampColumn = "UTC"

// Config holds one run's settings, immutable for its duration.
type Config struct {
	Root    string
	Pattern string

	Mode   schema.Mode
	Header schema.HeaderHint

	// Sentinel is the numeric no-reading placeholder; nil disables
	// substitution.
	Sentinel *float64

	// ChunkSize bounds rows read per chunk; 0 reads whole files.
	ChunkSize int

	DedupeKeys []string
	SortBy     []string

	// OutCSV defaults to <root>/merged.csv when empty.
	OutCSV string

	// OutParquet enables the optional columnar output when non-empty.
	OutParquet  string
	Compression string

	// Warn receives per-file parse failures. May be nil.
	Warn func(path string, err error)

	// OnStart is called once with the discovered file count. May be nil.
	OnStart func(n int)

	// OnFile is called after each file is handled. May be nil.
	OnFile func(path string)
}

// DefaultConfig returns the documented defaults for a merge run.
func DefaultConfig(root string) Config {
	sentinel := -999.0
	return Config{
		Root:        root,
		Pattern:     "*.csv",
		Mode:        schema.ModeAirNow,
		Header:      schema.HeaderAuto,
		Sentinel:    &sentinel,
		DedupeKeys:  []string{"UTC", "Latitude", "Longitude", "Parameter", "AQS ID"},
		SortBy:      []string{"UTC", "Site Name", "Parameter"},
		Compression: "snappy",
	}
}

// Result reports what a run produced.
type Result struct {
	Table   *table.Table
	Summary output.Summary

	FilesFound  int
	FilesParsed int

	CSVPath     string
	ParquetPath string

	// ParquetErr records an optional-output failure; the run still
	// counts as a success when the CSV was written.
	ParquetErr error
}

// Run executes one merge pass over the filesystem.
func Run(cfg Config) (*Result, error) {
	files, err := discover.Files(cfg.Root, cfg.Pattern)
	if err != nil {
		return nil, err
	}

	if cfg.OnStart != nil {
		cfg.OnStart(len(files))
	}

	results := make([]merge.FileResult, 0, len(files))
	parsed := 0
	for _, path := range files {
		t, err := readOne(path, cfg)
		if err != nil {
			if cfg.Warn != nil {
				cfg.Warn(path, err)
			}
			results = append(results, merge.FileResult{Path: path, Err: err})
		} else {
			parsed++
			results = append(results, merge.FileResult{Path: path, Table: t})
		}
		if cfg.OnFile != nil {
			cfg.OnFile(path)
		}
	}

	merged, err := merge.Aggregate(results, cfg.DedupeKeys, cfg.SortBy)
	if err != nil {
		return nil, err
	}

	res := &Result{
		Table:       merged,
		Summary:     output.Summarize(merged, timestampColumn),
		FilesFound:  len(files),
		FilesParsed: parsed,
		CSVPath:     cfg.OutCSV,
	}
	if res.CSVPath == "" {
		res.CSVPath = filepath.Join(cfg.Root, "merged.csv")
	}

	if err := output.WriteCSV(merged, res.CSVPath); err != nil {
		return nil, fmt.Errorf("failed to write merged CSV: %w", err)
	}

	if cfg.OutParquet != "" {
		res.ParquetPath = cfg.OutParquet
		res.ParquetErr = output.WriteParquet(merged, cfg.OutParquet, output.ParquetOptions{
			Compression: cfg.Compression,
			Metadata: map[string]string{
				"run_id":      uuid.NewString(),
				"source_root": cfg.Root,
			},
		})
	}

	return res, nil
}

// readOne parses and normalizes a single file. Chunks are normalized
// independently and concatenated in read order, so provenance and
// coercion are identical with and without chunking.
func readOne(path string, cfg Config) (*table.Table, error) {
	res, err := schema.Resolve(path, cfg.Mode, cfg.Header)
	if err != nil {
		return nil, err
	}

	chunks, err := reader.Chunks(path, reader.Options{
		Resolution: res,
		RawText:    cfg.Mode == schema.ModeAirNow,
		ChunkSize:  cfg.ChunkSize,
	})
	if err != nil {
		return nil, err
	}

	normCfg := normalize.Config{
		TimestampColumn: timestampColumn,
		NumericColumns:  schema.AirNowNumeric,
		Sentinel:        cfg.Sentinel,
	}
	for _, c := range chunks {
		normalize.Apply(c, path, cfg.Root, normCfg)
	}
	return table.Concat(chunks), nil
}
