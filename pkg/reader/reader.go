// Package reader parses one delimited text file into row tables
// according to a resolved schema, optionally in bounded-size chunks.
package reader

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/airmerge/airmerge/pkg/schema"
	"github.com/airmerge/airmerge/pkg/table"
)

// ErrNoHeader is returned when a file expected to carry a header row
// has no rows at all.
var ErrNoHeader = errors.New("reader: missing header row")

// naTokens are field values mapped to a missing cell. Matching is
// case-sensitive and exact.
var naTokens = map[string]struct{}{
	"":    {},
	"NA":  {},
	"N/A": {},
}

// Options controls how a file is read.
type Options struct {
	// Resolution supplies header presence and fixed column names.
	Resolution schema.Resolution

	// RawText keeps every field as text (AirNow mode); otherwise cells
	// that parse as numbers become numeric.
	RawText bool

	// ChunkSize bounds rows per returned table; <= 0 reads the whole
	// file as a single chunk.
	ChunkSize int
}

// Chunks reads the file as UTF-8 CSV and returns one table per chunk,
// in read order. Every chunk shares the same column set. A row whose
// field count disagrees with the column set is a parse error; callers
// treat any returned error as a reason to skip the file.
func Chunks(path string, opts Options) ([]*table.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)

	columns := opts.Resolution.Columns
	if opts.Resolution.HasHeader {
		header, err := r.Read()
		if err != nil {
			if err == io.EOF {
				return nil, fmt.Errorf("%w: %s", ErrNoHeader, path)
			}
			return nil, err
		}
		columns = header
	}
	if columns != nil {
		r.FieldsPerRecord = len(columns)
	}

	var chunks []*table.Table
	cur := table.New(columns)

	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}

		row := make([]table.Value, len(record))
		for i, field := range record {
			row[i] = parseField(field, opts.RawText)
		}
		cur.Append(row)

		if opts.ChunkSize > 0 && cur.NumRows() >= opts.ChunkSize {
			chunks = append(chunks, cur)
			cur = table.New(columns)
		}
	}

	if cur.NumRows() > 0 || len(chunks) == 0 {
		chunks = append(chunks, cur)
	}
	return chunks, nil
}

// parseField maps one raw field to a cell: recognized NA tokens become
// missing, and in typed mode numeric-looking fields become numbers.
func parseField(field string, rawText bool) table.Value {
	if _, na := naTokens[field]; na {
		return table.Missing()
	}
	if !rawText {
		if n, err := strconv.ParseFloat(field, 64); err == nil {
			return table.Num(n)
		}
	}
	return table.Str(field)
}
