// Package normalize post-processes a parsed row table: timestamp
// parsing, numeric coercion, sentinel substitution, and provenance
// columns. No transform in this package ever fails; invalid values
// degrade to missing cells.
package normalize

import (
	"path/filepath"
	"strconv"

	"github.com/airmerge/airmerge/pkg/table"
)

// Provenance column names, always appended in this order.
const (
	SourceFileColumn = "__source_file"
	SourceDirColumn  = "__source_dir"
	SourcePathColumn = "__source_path"
)

// Config carries the normalization rules as immutable data so tests can
// substitute alternate schemas.
type Config struct {
	// TimestampColumn is parsed as a timestamp when present.
	TimestampColumn string

	// NumericColumns are coerced to numbers when present.
	NumericColumns map[string]struct{}

	// Sentinel, when non-nil, is the numeric placeholder replaced with
	// missing in every numeric cell.
	Sentinel *float64
}

// Apply transforms t in place and returns it. Order matters: timestamp
// parse, numeric coercion, sentinel substitution, then provenance, so
// a sentinel introduced as text is still caught after coercion.
func Apply(t *table.Table, path, root string, cfg Config) *table.Table {
	if idx := t.ColumnIndex(cfg.TimestampColumn); idx >= 0 && cfg.TimestampColumn != "" {
		coerceTimestamps(t, idx)
	}

	for name := range cfg.NumericColumns {
		if idx := t.ColumnIndex(name); idx >= 0 {
			coerceNumbers(t, idx)
		}
	}

	if cfg.Sentinel != nil {
		replaceSentinel(t, *cfg.Sentinel)
	}

	appendProvenance(t, path, root)
	return t
}

func coerceTimestamps(t *table.Table, idx int) {
	for _, row := range t.Rows {
		v := row[idx]
		switch v.Kind {
		case table.KindString:
			if ts, ok := parseTimestamp(v.Str); ok {
				row[idx] = table.Timestamp(ts)
			} else {
				row[idx] = table.Missing()
			}
		case table.KindNumber:
			// A numeric cell cannot be a timestamp; drop it rather
			// than guess at an epoch.
			row[idx] = table.Missing()
		}
	}
}

func coerceNumbers(t *table.Table, idx int) {
	for _, row := range t.Rows {
		v := row[idx]
		if v.Kind != table.KindString {
			continue
		}
		if n, err := strconv.ParseFloat(v.Str, 64); err == nil {
			row[idx] = table.Num(n)
		} else {
			row[idx] = table.Missing()
		}
	}
}

func replaceSentinel(t *table.Table, sentinel float64) {
	for _, row := range t.Rows {
		for i, v := range row {
			if v.Kind == table.KindNumber && v.Num == sentinel {
				row[i] = table.Missing()
			}
		}
	}
}

// appendProvenance adds the three source columns. The directory is
// relative to root and is "." for files sitting directly in root.
func appendProvenance(t *table.Table, path, root string) {
	relPath, err := filepath.Rel(root, path)
	if err != nil {
		relPath = path
	}
	relDir, err := filepath.Rel(root, filepath.Dir(path))
	if err != nil {
		relDir = filepath.Dir(path)
	}

	name := filepath.Base(path)
	relPath = filepath.ToSlash(relPath)
	relDir = filepath.ToSlash(relDir)

	t.AddColumn(SourceFileColumn)
	t.AddColumn(SourceDirColumn)
	t.AddColumn(SourcePathColumn)

	fileIdx := t.ColumnIndex(SourceFileColumn)
	dirIdx := t.ColumnIndex(SourceDirColumn)
	pathIdx := t.ColumnIndex(SourcePathColumn)

	for _, row := range t.Rows {
		row[fileIdx] = table.Str(name)
		row[dirIdx] = table.Str(relDir)
		row[pathIdx] = table.Str(relPath)
	}
}
